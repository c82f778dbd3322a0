package missiontransfer

import (
	"testing"
)

func threeItems(missionType uint8) []ItemInt {
	return []ItemInt{
		{Seq: 0, MissionType: missionType, Command: 16},
		{Seq: 1, MissionType: missionType, Command: 16},
		{Seq: 2, MissionType: missionType, Command: 16},
	}
}

func TestUploadHappyPath(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var resultSet bool
	var progress []float32

	item := NewUploadWorkItem(sender, handler, timeouts, 0, threeItems(0), 1.0,
		func(r Result) { result = r; resultSet = true },
		func(p float32) { progress = append(progress, p) },
		func() { t.Fatalf("onIntUnsupported should not fire on a peer using INT requests") },
	)
	item.start()

	if got := sender.CountByID(MessageIDMissionCount); got != 1 {
		t.Fatalf("expected exactly one MISSION_COUNT, got %d", got)
	}

	for seq := uint16(0); seq < 3; seq++ {
		handler.Deliver(MessageIDMissionRequestInt, Message{
			ID:                MessageIDMissionRequestInt,
			MissionRequestInt: &MissionRequestIntPayload{Seq: seq, MissionType: 0},
		})
	}
	handler.Deliver(MessageIDMissionAck, Message{
		ID:         MessageIDMissionAck,
		MissionAck: &MissionAckPayload{Type: AckAccepted},
	})

	if !resultSet || result != ResultSuccess {
		t.Fatalf("expected Success, got %v (set=%v)", result, resultSet)
	}
	if got := sender.CountByID(MessageIDMissionItemInt); got != 3 {
		t.Fatalf("expected exactly 3 MISSION_ITEM_INT sends, got %d", got)
	}
	want := []float32{1.0 / 3, 2.0 / 3, 3.0 / 3}
	if len(progress) != len(want) {
		t.Fatalf("expected %d progress reports, got %d", len(want), len(progress))
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("progress[%d] = %v, want %v", i, progress[i], want[i])
		}
	}
	if handler.SubscriptionCount() != 0 {
		t.Errorf("expected subscriptions released after done, got %d", handler.SubscriptionCount())
	}
	if timeouts.ArmedCount() != 0 {
		t.Errorf("expected timeout released after done, got %d armed", timeouts.ArmedCount())
	}
}

func TestUploadEmptyListSucceedsOnCountAck(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var resultSet bool

	item := NewUploadWorkItem(sender, handler, timeouts, 0, nil, 1.0,
		func(r Result) { result = r; resultSet = true },
		nil,
		nil,
	)
	item.start()

	if got := sender.CountByID(MessageIDMissionCount); got != 1 {
		t.Fatalf("expected exactly one MISSION_COUNT, got %d", got)
	}

	// An empty list never draws a MISSION_REQUEST_INT: the ack for
	// MISSION_COUNT(0) arrives while still in send_count.
	handler.Deliver(MessageIDMissionAck, Message{
		ID:         MessageIDMissionAck,
		MissionAck: &MissionAckPayload{Type: AckAccepted},
	})

	if !resultSet || result != ResultSuccess {
		t.Fatalf("expected Success for an empty mission list, got %v (set=%v)", result, resultSet)
	}
}

func TestUploadConnectionErrorOnSendFailure(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	sender.Fail = true
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var resultSet bool

	item := NewUploadWorkItem(sender, handler, timeouts, 0, threeItems(0), 1.0,
		func(r Result) { result = r; resultSet = true },
		nil,
		nil,
	)
	item.start()

	if !resultSet || result != ResultConnectionError {
		t.Fatalf("expected ConnectionError when the link is down, got %v (set=%v)", result, resultSet)
	}
	if handler.SubscriptionCount() != 0 {
		t.Errorf("expected subscriptions released after a failed send, got %d", handler.SubscriptionCount())
	}
	if timeouts.ArmedCount() != 0 {
		t.Errorf("expected timeout released after a failed send, got %d armed", timeouts.ArmedCount())
	}
}

func TestUploadLegacyPeerReportsIntUnsupported(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var sawUnsupported bool

	item := NewUploadWorkItem(sender, handler, timeouts, 0, threeItems(0), 1.0,
		func(r Result) { result = r },
		nil,
		func() { sawUnsupported = true },
	)
	item.start()

	handler.Deliver(MessageIDMissionRequest, Message{
		ID:             MessageIDMissionRequest,
		MissionRequest: &MissionRequestPayload{Seq: 0, MissionType: 0},
	})

	if result != ResultIntMessagesNotSupported {
		t.Fatalf("expected IntMessagesNotSupported, got %v", result)
	}
	if !sawUnsupported {
		t.Fatalf("expected onIntUnsupported callback to fire")
	}
	if got := sender.CountByID(MessageIDMissionItemInt); got != 0 {
		t.Fatalf("expected no item sends after legacy-peer rejection, got %d", got)
	}
}

func TestUploadTimeoutExhaustion(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result
	var resultSet bool

	item := NewUploadWorkItem(sender, handler, timeouts, 0, threeItems(0), 1.0,
		func(r Result) { result = r; resultSet = true },
		nil,
		nil,
	)
	item.start()

	for i := 0; i < DefaultRetries; i++ {
		timeouts.FireLatest()
		if resultSet {
			t.Fatalf("callback fired early after %d timeouts", i+1)
		}
	}
	timeouts.FireLatest()

	if !resultSet || result != ResultTimeout {
		t.Fatalf("expected Timeout after exhausting retries, got %v (set=%v)", result, resultSet)
	}

	sentBefore := len(sender.Sent)
	timeouts.FireLatest()
	if len(sender.Sent) != sentBefore {
		t.Fatalf("expected no further sends once done")
	}
}

func TestUploadCancelAfterFirstItem(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	var result Result

	item := NewUploadWorkItem(sender, handler, timeouts, 0, threeItems(0), 1.0,
		func(r Result) { result = r },
		nil,
		nil,
	)
	item.start()
	handler.Deliver(MessageIDMissionRequestInt, Message{
		ID:                MessageIDMissionRequestInt,
		MissionRequestInt: &MissionRequestIntPayload{Seq: 0, MissionType: 0},
	})

	item.cancel()

	if result != ResultCancelled {
		t.Fatalf("expected Cancelled, got %v", result)
	}
	last, ok := sender.LastSent()
	if !ok || last.ID != MessageIDMissionAck || last.MissionAck.Type != AckOperationCancelled {
		t.Fatalf("expected a courtesy MISSION_ACK(OPERATION_CANCELLED), got %+v (ok=%v)", last, ok)
	}

	item.cancel()
	if got := sender.CountByID(MessageIDMissionAck); got != 1 {
		t.Fatalf("expected cancel to be idempotent, got %d ack sends", got)
	}
}

func TestUploadCallbackFiresExactlyOnce(t *testing.T) {
	sender := newFakeSender(1, 1, 2)
	handler := newFakeMessageHandler()
	timeouts := newFakeTimeoutHandler()

	calls := 0
	item := NewUploadWorkItem(sender, handler, timeouts, 0, threeItems(0), 1.0,
		func(r Result) { calls++ },
		nil,
		nil,
	)
	item.start()
	handler.Deliver(MessageIDMissionAck, Message{
		ID:         MessageIDMissionAck,
		MissionAck: &MissionAckPayload{Type: AckDenied},
	})
	// Further events after done must not invoke the callback again.
	handler.Deliver(MessageIDMissionAck, Message{
		ID:         MessageIDMissionAck,
		MissionAck: &MissionAckPayload{Type: AckAccepted},
	})
	timeouts.FireLatest()
	item.cancel()

	if calls != 1 {
		t.Fatalf("expected exactly one callback invocation, got %d", calls)
	}
}
