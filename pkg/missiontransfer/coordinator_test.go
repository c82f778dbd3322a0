package missiontransfer

import (
	"testing"
)

func fixedTimeout(seconds float64) func(OperationKind) float64 {
	return func(OperationKind) float64 { return seconds }
}

func TestCoordinatorRunsOneItemAtATime(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()
	coord := NewCoordinator(sender, handler, timeouts, fixedTimeout(1.0))

	var firstDone, secondDone bool
	coord.Clear(0, func(r Result) { firstDone = true })
	coord.Clear(0, func(r Result) { secondDone = true })

	if coord.IsIdle() {
		t.Fatalf("coordinator should not be idle with queued work")
	}

	coord.DoWork()
	if got := sender.CountByID(MessageIDMissionClearAll); got != 1 {
		t.Fatalf("expected only the head item to have started, got %d clear sends", got)
	}

	handler.Deliver(MessageIDMissionAck, Message{
		ID:         MessageIDMissionAck,
		MissionAck: &MissionAckPayload{Type: AckAccepted},
	})
	if !firstDone {
		t.Fatalf("expected first item's callback to have fired")
	}
	if secondDone {
		t.Fatalf("second item must not start until do_work promotes it")
	}

	coord.DoWork()
	if got := sender.CountByID(MessageIDMissionClearAll); got != 2 {
		t.Fatalf("expected the second item to have started, got %d clear sends total", got)
	}
	handler.Deliver(MessageIDMissionAck, Message{
		ID:         MessageIDMissionAck,
		MissionAck: &MissionAckPayload{Type: AckAccepted},
	})
	if !secondDone {
		t.Fatalf("expected second item's callback to have fired")
	}

	coord.DoWork()
	if !coord.IsIdle() {
		t.Fatalf("expected coordinator to be idle once both items are drained")
	}
}

func TestCoordinatorUploadValidatesBeforeEnqueueing(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()
	coord := NewCoordinator(sender, handler, timeouts, fixedTimeout(1.0))

	var result Result
	gapSequence := []ItemInt{{Seq: 0, MissionType: 0}, {Seq: 2, MissionType: 0}}
	coord.Upload(0, gapSequence, func(r Result) { result = r }, nil)

	if result != ResultInvalidSequence {
		t.Fatalf("expected InvalidSequence for a non-dense sequence, got %v", result)
	}
	if !coord.IsIdle() {
		t.Fatalf("a synchronously-rejected upload must never be enqueued")
	}

	var tooManyResult Result
	over := make([]ItemInt, MaxMissionItems+1)
	for i := range over {
		over[i] = ItemInt{Seq: uint16(i), MissionType: 0}
	}
	coord.Upload(0, over, func(r Result) { tooManyResult = r }, nil)
	if tooManyResult != ResultTooManyMissionItems {
		t.Fatalf("expected TooManyMissionItems, got %v", tooManyResult)
	}

	var mismatchResult Result
	coord.Upload(0, []ItemInt{{Seq: 0, MissionType: 1}}, func(r Result) { mismatchResult = r }, nil)
	if mismatchResult != ResultMissionTypeNotConsistent {
		t.Fatalf("expected MissionTypeNotConsistent, got %v", mismatchResult)
	}
}

func TestCoordinatorIntMessagesStickyFlag(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()
	coord := NewCoordinator(sender, handler, timeouts, fixedTimeout(1.0))

	items := []ItemInt{{Seq: 0, MissionType: 0}}

	var firstResult Result
	coord.Upload(0, items, func(r Result) { firstResult = r }, nil)
	coord.DoWork()
	handler.Deliver(MessageIDMissionRequest, Message{
		ID:             MessageIDMissionRequest,
		MissionRequest: &MissionRequestPayload{Seq: 0, MissionType: 0},
	})
	if firstResult != ResultIntMessagesNotSupported {
		t.Fatalf("expected IntMessagesNotSupported, got %v", firstResult)
	}
	coord.DoWork()

	sentBefore := len(sender.Sent)
	var secondResult Result
	coord.Upload(0, items, func(r Result) { secondResult = r }, nil)
	if secondResult != ResultIntMessagesNotSupported {
		t.Fatalf("expected the sticky flag to reject the next upload immediately, got %v", secondResult)
	}
	if len(sender.Sent) != sentBefore {
		t.Fatalf("a sticky-rejected upload must generate no link traffic")
	}
}

func TestWorkItemHandleCancelUpgrade(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()
	coord := NewCoordinator(sender, handler, timeouts, fixedTimeout(1.0))

	var result Result
	handle := coord.Clear(0, func(r Result) { result = r })
	coord.DoWork()
	handle.Cancel()

	if result != ResultCancelled {
		t.Fatalf("expected Cancelled, got %v", result)
	}

	coord.DoWork()
	// Once popped, the handle must be inert rather than reaching into a
	// reused queue slot.
	handle.Cancel()
}
