package missiontransfer

import (
	"context"

	"github.com/looplab/fsm"

	fsmutil "cloupeer.io/missiontransfer/internal/pkg/util/fsm"
	"cloupeer.io/missiontransfer/pkg/log"
)

const (
	uploadStepSendCount = "send_count"
	uploadStepSendItems = "send_items"
	uploadEventAdvance  = "advance"
)

// UploadWorkItem drives MISSION_COUNT then serves MISSION_REQUEST_INT
// requests until the peer acks,.
type UploadWorkItem struct {
	base

	items            []ItemInt
	callback         func(Result)
	progressCallback func(float32)
	onIntUnsupported func()

	step        *fsm.FSM
	lastSentSeq int // -1 before the first item is sent
	retriesDone int
}

// NewUploadWorkItem constructs an upload work item. items must already
// satisfy the dense-sequence, single-mission-type invariants; the
// coordinator validates those before constructing this.
func NewUploadWorkItem(
	sender Sender,
	messageHandler MessageHandler,
	timeoutHandler TimeoutHandler,
	missionType uint8,
	items []ItemInt,
	timeoutSeconds float64,
	callback func(Result),
	progressCallback func(float32),
	onIntUnsupported func(),
) *UploadWorkItem {
	u := &UploadWorkItem{
		base:             newBase(sender, messageHandler, timeoutHandler, OperationUpload, missionType, timeoutSeconds),
		items:            items,
		callback:         callback,
		progressCallback: progressCallback,
		onIntUnsupported: onIntUnsupported,
		lastSentSeq:      -1,
	}
	u.step = fsm.NewFSM(
		uploadStepSendCount,
		fsm.Events{
			{Name: uploadEventAdvance, Src: []string{uploadStepSendCount}, Dst: uploadStepSendItems},
		},
		fsm.Callbacks{
			"enter_state": fsmutil.WrapEvent(func(ctx context.Context, e *fsm.Event) error {
				log.Debug("upload work item step", "from", e.Src, "to", e.Dst)
				return nil
			}),
		},
	)
	return u
}

func (u *UploadWorkItem) start() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.started {
		return
	}
	u.started = true

	u.subscribe(MessageIDMissionRequest, u.onMissionRequest)
	u.subscribe(MessageIDMissionRequestInt, u.onMissionRequestInt)
	u.subscribe(MessageIDMissionAck, u.onMissionAck)
	u.armTimeout(u.onTimeout)
	if !u.sendCount() {
		u.finishAndCallback(ResultConnectionError)
	}
}

func (u *UploadWorkItem) cancel() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return
	}
	if u.started {
		if !u.sendAck(AckOperationCancelled) {
			u.finishAndCallback(ResultConnectionError)
			return
		}
	}
	u.finishAndCallback(ResultCancelled)
}

func (u *UploadWorkItem) sendCount() bool {
	return u.sender.SendMessage(Message{
		ID: MessageIDMissionCount,
		MissionCount: &MissionCountPayload{
			TargetSystem:    u.sender.SystemID(),
			TargetComponent: 0,
			Count:           uint16(len(u.items)),
			MissionType:     u.missionType,
		},
	})
}

func (u *UploadWorkItem) sendAck(status AckStatus) bool {
	return u.sender.SendMessage(Message{
		ID: MessageIDMissionAck,
		MissionAck: &MissionAckPayload{
			TargetSystem:    u.sender.SystemID(),
			TargetComponent: 0,
			Type:            status,
			MissionType:     u.missionType,
		},
	})
}

func (u *UploadWorkItem) sendItem(seq int) bool {
	return u.sender.SendMessage(Message{
		ID: MessageIDMissionItemInt,
		MissionItemInt: &MissionItemIntPayload{
			TargetSystem:    u.sender.SystemID(),
			TargetComponent: 0,
			Item:            u.items[seq],
		},
	})
}

func (u *UploadWorkItem) onMissionRequest(msg Message) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done || !u.step.Is(uploadStepSendCount) {
		return
	}
	onUnsupported := u.onIntUnsupported
	if onUnsupported != nil {
		u.callUnlocked(onUnsupported)
	}
	u.finishAndCallback(ResultIntMessagesNotSupported)
}

func (u *UploadWorkItem) onMissionRequestInt(msg Message) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return
	}
	req := msg.MissionRequestInt
	seq := int(req.Seq)

	if u.step.Is(uploadStepSendCount) {
		if err := u.step.Event(context.Background(), uploadEventAdvance); err != nil {
			log.Error(err, "upload work item failed to advance step")
			u.finishAndCallback(ResultProtocolError)
			return
		}
		u.retriesDone = 0
		u.sendSeq(seq)
		return
	}

	// Already in send_items.
	if seq < 0 || seq >= len(u.items) {
		u.finishAndCallback(ResultInvalidSequence)
		return
	}
	u.sendSeq(seq)
}

// sendSeq sends items[seq], tracks the retry budget, resets the timer
// and reports progress. Must be called with mu held.
func (u *UploadWorkItem) sendSeq(seq int) {
	advanced := seq == u.lastSentSeq+1
	if advanced {
		u.retriesDone = 0
	} else {
		u.retriesDone++
		u.recordRetry()
		if u.retriesDone > DefaultRetries {
			u.finishAndCallback(ResultTimeout)
			return
		}
	}

	if !u.sendItem(seq) {
		u.finishAndCallback(ResultConnectionError)
		return
	}
	u.lastSentSeq = seq
	u.refreshTimeout()

	progress := float32(seq+1) / float32(len(u.items))
	if cb := u.progressCallback; cb != nil {
		u.callUnlocked(func() { cb(progress) })
	}
}

func (u *UploadWorkItem) onMissionAck(msg Message) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return
	}
	status := msg.MissionAck.Type

	if u.step.Is(uploadStepSendCount) {
		if status == AckAccepted {
			// An empty mission list never draws a MISSION_REQUEST_INT: the
			// peer has nothing to ask for, so the ack for MISSION_COUNT(0)
			// arrives while still in send_count. That is success, not a
			// premature ack.
			if len(u.items) == 0 {
				u.finishAndCallback(ResultSuccess)
				return
			}
			u.finishAndCallback(ResultProtocolError)
			return
		}
		u.finishAndCallback(resultFromAck(status))
		return
	}

	if status == AckAccepted {
		u.finishAndCallback(ResultSuccess)
		return
	}
	u.finishAndCallback(resultFromAck(status))
}

func (u *UploadWorkItem) onTimeout() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return
	}

	u.retriesDone++
	u.recordRetry()
	if u.retriesDone > DefaultRetries {
		u.finishAndCallback(ResultTimeout)
		return
	}

	u.refreshTimeout()
	if u.step.Is(uploadStepSendCount) {
		if !u.sendCount() {
			u.finishAndCallback(ResultConnectionError)
		}
		return
	}
	if !u.sendItem(u.lastSentSeq) {
		u.finishAndCallback(ResultConnectionError)
	}
}

// finishAndCallback marks the item done, tears down its ports, and
// invokes the user callback exactly once with mu released. Must be
// called with mu held; leaves mu held on return.
func (u *UploadWorkItem) finishAndCallback(result Result) {
	u.finishLocked()
	cb := u.callback
	u.callback = nil
	if cb != nil {
		u.callUnlocked(func() { cb(result) })
	}
}
