package missiontransfer

import (
	"testing"
)

func TestSetCurrentSuccess(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var resultSet bool
	item := NewSetCurrentWorkItem(sender, handler, timeouts, 3, 1.0, func(r Result) { result = r; resultSet = true })
	item.start()

	handler.Deliver(MessageIDMissionCurrent, Message{
		ID:             MessageIDMissionCurrent,
		MissionCurrent: &MissionCurrentPayload{Seq: 2},
	})
	if resultSet {
		t.Fatalf("unexpected early result %v for a mismatched report", result)
	}

	handler.Deliver(MessageIDMissionCurrent, Message{
		ID:             MessageIDMissionCurrent,
		MissionCurrent: &MissionCurrentPayload{Seq: 3},
	})
	if result != ResultSuccess {
		t.Fatalf("expected Success once the matching report arrives, got %v", result)
	}
}

func TestSetCurrentConnectionErrorOnSendFailure(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	sender.Fail = true
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var resultSet bool
	item := NewSetCurrentWorkItem(sender, handler, timeouts, 3, 1.0, func(r Result) { result = r; resultSet = true })
	item.start()

	if !resultSet || result != ResultConnectionError {
		t.Fatalf("expected ConnectionError when the link is down, got %v (set=%v)", result, resultSet)
	}
}

func TestSetCurrentNegativeIndexRejectedBeforeIO(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	item := NewSetCurrentWorkItem(sender, handler, timeouts, -1, 1.0, func(r Result) { result = r })
	item.start()

	if result != ResultCurrentInvalid {
		t.Fatalf("expected CurrentInvalid, got %v", result)
	}
	if len(sender.Sent) != 0 {
		t.Fatalf("expected no link traffic for a locally-invalid index, got %d sends", len(sender.Sent))
	}
}
