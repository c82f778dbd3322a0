package missiontransfer

import (
	"testing"
)

func TestDownloadEmptyMission(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var items []ItemInt
	var resultSet bool

	item := NewDownloadWorkItem(sender, handler, timeouts, 0, 1.0,
		func(r Result, its []ItemInt) { result = r; items = its; resultSet = true },
		nil,
	)
	item.start()
	handler.Deliver(MessageIDMissionCount, Message{
		ID:           MessageIDMissionCount,
		MissionCount: &MissionCountPayload{Count: 0, MissionType: 0},
	})

	if !resultSet || result != ResultSuccess {
		t.Fatalf("expected Success, got %v (set=%v)", result, resultSet)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}
	if got := sender.CountByID(MessageIDMissionAck); got != 1 {
		t.Fatalf("expected exactly one MISSION_ACK, got %d", got)
	}
}

func TestDownloadConnectionErrorOnSendFailure(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	sender.Fail = true
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var resultSet bool

	item := NewDownloadWorkItem(sender, handler, timeouts, 0, 1.0,
		func(r Result, its []ItemInt) { result = r; resultSet = true },
		nil,
	)
	item.start()

	if !resultSet || result != ResultConnectionError {
		t.Fatalf("expected ConnectionError when the link is down, got %v (set=%v)", result, resultSet)
	}
}

func TestDownloadThreeItemsWithOneDroppedReply(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var items []ItemInt

	item := NewDownloadWorkItem(sender, handler, timeouts, 0, 1.0,
		func(r Result, its []ItemInt) { result = r; items = its },
		nil,
	)
	item.start()
	handler.Deliver(MessageIDMissionCount, Message{
		ID:           MessageIDMissionCount,
		MissionCount: &MissionCountPayload{Count: 3, MissionType: 0},
	})

	deliverItem := func(seq uint16) {
		handler.Deliver(MessageIDMissionItemInt, Message{
			ID:             MessageIDMissionItemInt,
			MissionItemInt: &MissionItemIntPayload{Item: ItemInt{Seq: seq, MissionType: 0}},
		})
	}

	deliverItem(0)
	requestsBefore := sender.CountByID(MessageIDMissionRequestInt)
	// Simulate the reply to item 1 being dropped: one timeout fires, the
	// request for item 1 is resent, then the reply arrives.
	timeouts.FireLatest()
	if got := sender.CountByID(MessageIDMissionRequestInt); got != requestsBefore+1 {
		t.Fatalf("expected a resend of the request after timeout, got %d new requests", got-requestsBefore)
	}
	deliverItem(1)
	deliverItem(2)

	if result != ResultSuccess {
		t.Fatalf("expected Success after retry, got %v", result)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, it := range items {
		if int(it.Seq) != i {
			t.Errorf("items[%d].Seq = %d, want %d", i, it.Seq, i)
		}
	}
}

func TestDownloadDuplicateAndOutOfOrderItemsDiscarded(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var items []ItemInt
	item := NewDownloadWorkItem(sender, handler, timeouts, 0, 1.0,
		func(r Result, its []ItemInt) { items = its },
		nil,
	)
	item.start()
	handler.Deliver(MessageIDMissionCount, Message{
		ID:           MessageIDMissionCount,
		MissionCount: &MissionCountPayload{Count: 2, MissionType: 0},
	})

	deliver := func(seq uint16) {
		handler.Deliver(MessageIDMissionItemInt, Message{
			ID:             MessageIDMissionItemInt,
			MissionItemInt: &MissionItemIntPayload{Item: ItemInt{Seq: seq, MissionType: 0}},
		})
	}

	// Out-of-order: seq 1 arrives before seq 0 is expected; must be discarded.
	deliver(1)
	if item.isDone() {
		t.Fatalf("out-of-order item must not complete the transfer")
	}
	// Duplicate of the not-yet-expected seq still discarded.
	deliver(1)
	deliver(0)
	deliver(0) // duplicate of already-accepted seq 0, must be discarded
	deliver(1)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestDownloadRejectsUnexpectedAckDuringRequestList(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	item := NewDownloadWorkItem(sender, handler, timeouts, 0, 1.0,
		func(r Result, its []ItemInt) { result = r },
		nil,
	)
	item.start()
	handler.Deliver(MessageIDMissionAck, Message{
		ID:         MessageIDMissionAck,
		MissionAck: &MissionAckPayload{Type: AckAccepted},
	})

	if result != ResultProtocolError {
		t.Fatalf("expected ProtocolError for a premature accept, got %v", result)
	}
}
