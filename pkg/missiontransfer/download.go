package missiontransfer

import (
	"context"

	"github.com/looplab/fsm"

	fsmutil "cloupeer.io/missiontransfer/internal/pkg/util/fsm"
	"cloupeer.io/missiontransfer/pkg/log"
)

const (
	downloadStepRequestList = "request_list"
	downloadStepRequestItem = "request_item"
	downloadEventAdvance    = "advance"
)

// DownloadWorkItem requests the peer's mission list length, then pulls
// items one at a time.
type DownloadWorkItem struct {
	base

	items            []ItemInt
	callback         func(Result, []ItemInt)
	progressCallback func(float32)

	step          *fsm.FSM
	nextSequence  int
	expectedCount int
	retriesDone   int
}

func NewDownloadWorkItem(
	sender Sender,
	messageHandler MessageHandler,
	timeoutHandler TimeoutHandler,
	missionType uint8,
	timeoutSeconds float64,
	callback func(Result, []ItemInt),
	progressCallback func(float32),
) *DownloadWorkItem {
	d := &DownloadWorkItem{
		base:             newBase(sender, messageHandler, timeoutHandler, OperationDownload, missionType, timeoutSeconds),
		callback:         callback,
		progressCallback: progressCallback,
	}
	d.step = fsm.NewFSM(
		downloadStepRequestList,
		fsm.Events{
			{Name: downloadEventAdvance, Src: []string{downloadStepRequestList}, Dst: downloadStepRequestItem},
		},
		fsm.Callbacks{
			"enter_state": fsmutil.WrapEvent(func(ctx context.Context, e *fsm.Event) error {
				log.Debug("download work item step", "from", e.Src, "to", e.Dst)
				return nil
			}),
		},
	)
	return d
}

func (d *DownloadWorkItem) start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	d.subscribe(MessageIDMissionCount, d.onMissionCount)
	d.subscribe(MessageIDMissionAck, d.onMissionAck)
	d.armTimeout(d.onTimeout)
	if !d.requestList() {
		d.finishAndCallback(ResultConnectionError, nil)
	}
}

func (d *DownloadWorkItem) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return
	}
	d.finishAndCallback(ResultCancelled, nil)
}

func (d *DownloadWorkItem) requestList() bool {
	return d.sender.SendMessage(Message{
		ID: MessageIDMissionRequestList,
		MissionRequestList: &MissionRequestListPayload{
			TargetSystem:    d.sender.SystemID(),
			TargetComponent: 0,
			MissionType:     d.missionType,
		},
	})
}

func (d *DownloadWorkItem) requestItem(seq int) bool {
	return d.sender.SendMessage(Message{
		ID: MessageIDMissionRequestInt,
		MissionRequestInt: &MissionRequestIntPayload{
			TargetSystem:    d.sender.SystemID(),
			TargetComponent: 0,
			Seq:             uint16(seq),
			MissionType:     d.missionType,
		},
	})
}

func (d *DownloadWorkItem) sendFinalAck() bool {
	return d.sender.SendMessage(Message{
		ID: MessageIDMissionAck,
		MissionAck: &MissionAckPayload{
			TargetSystem:    d.sender.SystemID(),
			TargetComponent: 0,
			Type:            AckAccepted,
			MissionType:     d.missionType,
		},
	})
}

func (d *DownloadWorkItem) onMissionCount(msg Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done || !d.step.Is(downloadStepRequestList) {
		return
	}

	count := int(msg.MissionCount.Count)
	if count == 0 {
		if !d.sendFinalAck() {
			d.finishAndCallback(ResultConnectionError, nil)
			return
		}
		d.finishAndCallback(ResultSuccess, []ItemInt{})
		return
	}

	d.expectedCount = count
	if err := d.step.Event(context.Background(), downloadEventAdvance); err != nil {
		log.Error(err, "download work item failed to advance step")
		d.finishAndCallback(ResultProtocolError, nil)
		return
	}
	d.subscribe(MessageIDMissionItemInt, d.onMissionItemInt)
	d.retriesDone = 0
	d.nextSequence = 0
	if !d.requestItem(0) {
		d.finishAndCallback(ResultConnectionError, nil)
		return
	}
	d.refreshTimeout()
}

func (d *DownloadWorkItem) onMissionAck(msg Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done || !d.step.Is(downloadStepRequestList) {
		return
	}
	status := msg.MissionAck.Type
	if status == AckAccepted {
		// Unexpected acceptance while we are requesting the list; treat
		// as a protocol violation rather than silently succeeding.
		d.finishAndCallback(ResultProtocolError, nil)
		return
	}
	d.finishAndCallback(resultFromAck(status), nil)
}

func (d *DownloadWorkItem) onMissionItemInt(msg Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done || !d.step.Is(downloadStepRequestItem) {
		return
	}

	item := msg.MissionItemInt.Item
	if int(item.Seq) != d.nextSequence {
		// Stale or duplicate delivery: tolerate silently, no timer or
		// retry-counter reset.
		return
	}

	d.items = append(d.items, item)
	progress := float32(d.nextSequence+1) / float32(d.expectedCount)
	d.nextSequence++
	d.retriesDone = 0
	d.refreshTimeout()

	if cb := d.progressCallback; cb != nil {
		d.callUnlocked(func() { cb(progress) })
	}

	if d.nextSequence == d.expectedCount {
		if !d.sendFinalAck() {
			d.finishAndCallback(ResultConnectionError, nil)
			return
		}
		d.finishAndCallback(ResultSuccess, d.items)
		return
	}
	if !d.requestItem(d.nextSequence) {
		d.finishAndCallback(ResultConnectionError, nil)
	}
}

func (d *DownloadWorkItem) onTimeout() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return
	}

	d.retriesDone++
	d.recordRetry()
	if d.retriesDone > DefaultRetries {
		d.finishAndCallback(ResultTimeout, nil)
		return
	}

	d.refreshTimeout()
	if d.step.Is(downloadStepRequestList) {
		if !d.requestList() {
			d.finishAndCallback(ResultConnectionError, nil)
		}
		return
	}
	if !d.requestItem(d.nextSequence) {
		d.finishAndCallback(ResultConnectionError, nil)
	}
}

func (d *DownloadWorkItem) finishAndCallback(result Result, items []ItemInt) {
	d.finishLocked()
	cb := d.callback
	d.callback = nil
	if cb != nil {
		d.callUnlocked(func() { cb(result, items) })
	}
}
