package missiontransfer

import (
	"testing"
)

func TestReceiveIncomingEmptyMission(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var items []ItemInt
	item := NewReceiveIncomingMission(sender, handler, timeouts, 0, 1.0,
		func(r Result, its []ItemInt) { result = r; items = its },
		0, 1,
	)
	item.start()

	if result != ResultSuccess {
		t.Fatalf("expected Success for an empty incoming mission, got %v", result)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}
	if got := sender.CountByID(MessageIDMissionRequestList); got != 0 {
		t.Fatalf("receive-incoming must never send MISSION_REQUEST_LIST, got %d", got)
	}
}

func TestReceiveIncomingNeverSendsRequestList(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var items []ItemInt
	item := NewReceiveIncomingMission(sender, handler, timeouts, 0, 1.0,
		func(r Result, its []ItemInt) { result = r; items = its },
		2, 1,
	)
	item.start()

	if got := sender.CountByID(MessageIDMissionRequestList); got != 0 {
		t.Fatalf("receive-incoming must never send MISSION_REQUEST_LIST, got %d", got)
	}

	deliver := func(seq uint16) {
		handler.Deliver(MessageIDMissionItemInt, Message{
			ID:             MessageIDMissionItemInt,
			MissionItemInt: &MissionItemIntPayload{Item: ItemInt{Seq: seq, MissionType: 0}},
		})
	}
	deliver(0)
	deliver(1)

	if result != ResultSuccess {
		t.Fatalf("expected Success, got %v", result)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestReceiveIncomingConnectionErrorOnSendFailure(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	sender.Fail = true
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var resultSet bool
	item := NewReceiveIncomingMission(sender, handler, timeouts, 0, 1.0,
		func(r Result, its []ItemInt) { result = r; resultSet = true },
		2, 1,
	)
	item.start()

	if !resultSet || result != ResultConnectionError {
		t.Fatalf("expected ConnectionError when the link is down, got %v (set=%v)", result, resultSet)
	}
}

func TestReceiveIncomingCancel(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	item := NewReceiveIncomingMission(sender, handler, timeouts, 0, 1.0,
		func(r Result, its []ItemInt) { result = r },
		2, 1,
	)
	item.start()
	item.cancel()

	if result != ResultCancelled {
		t.Fatalf("expected Cancelled, got %v", result)
	}
	item.cancel()
}
