package missiontransfer

// ReceiveIncomingMission is the server-side variant of download: the
// initial item count has already been observed by the caller (e.g. from
// a MISSION_COUNT the dispatch layer routed elsewhere), so this work
// item starts directly in the request-item step and never sends
// MISSION_REQUEST_LIST.
type ReceiveIncomingMission struct {
	base

	items           []ItemInt
	callback        func(Result, []ItemInt)
	targetComponent uint8
	expectedCount   int
	nextSequence    int
	retriesDone     int
}

func NewReceiveIncomingMission(
	sender Sender,
	messageHandler MessageHandler,
	timeoutHandler TimeoutHandler,
	missionType uint8,
	timeoutSeconds float64,
	callback func(Result, []ItemInt),
	missionCount uint32,
	targetComponent uint8,
) *ReceiveIncomingMission {
	return &ReceiveIncomingMission{
		base:            newBase(sender, messageHandler, timeoutHandler, OperationReceiveIncoming, missionType, timeoutSeconds),
		callback:        callback,
		targetComponent: targetComponent,
		expectedCount:   int(missionCount),
	}
}

func (r *ReceiveIncomingMission) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	if r.expectedCount == 0 {
		if !r.sendFinalAck() {
			r.finishAndCallback(ResultConnectionError, nil)
			return
		}
		r.finishAndCallback(ResultSuccess, []ItemInt{})
		return
	}

	r.subscribe(MessageIDMissionItemInt, r.onMissionItemInt)
	r.armTimeout(r.onTimeout)
	if !r.requestItem(0) {
		r.finishAndCallback(ResultConnectionError, nil)
	}
}

func (r *ReceiveIncomingMission) cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}
	r.finishAndCallback(ResultCancelled, nil)
}

func (r *ReceiveIncomingMission) requestItem(seq int) bool {
	return r.sender.SendMessage(Message{
		ID: MessageIDMissionRequestInt,
		MissionRequestInt: &MissionRequestIntPayload{
			TargetSystem:    r.sender.SystemID(),
			TargetComponent: r.targetComponent,
			Seq:             uint16(seq),
			MissionType:     r.missionType,
		},
	})
}

func (r *ReceiveIncomingMission) sendFinalAck() bool {
	return r.sender.SendMessage(Message{
		ID: MessageIDMissionAck,
		MissionAck: &MissionAckPayload{
			TargetSystem:    r.sender.SystemID(),
			TargetComponent: r.targetComponent,
			Type:            AckAccepted,
			MissionType:     r.missionType,
		},
	})
}

func (r *ReceiveIncomingMission) onMissionItemInt(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}

	item := msg.MissionItemInt.Item
	if int(item.Seq) != r.nextSequence {
		return
	}

	r.items = append(r.items, item)
	r.nextSequence++
	r.retriesDone = 0
	r.refreshTimeout()

	if r.nextSequence == r.expectedCount {
		if !r.sendFinalAck() {
			r.finishAndCallback(ResultConnectionError, nil)
			return
		}
		r.finishAndCallback(ResultSuccess, r.items)
		return
	}
	if !r.requestItem(r.nextSequence) {
		r.finishAndCallback(ResultConnectionError, nil)
	}
}

func (r *ReceiveIncomingMission) onTimeout() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}

	r.retriesDone++
	r.recordRetry()
	if r.retriesDone > DefaultRetries {
		r.finishAndCallback(ResultTimeout, nil)
		return
	}

	r.refreshTimeout()
	if !r.requestItem(r.nextSequence) {
		r.finishAndCallback(ResultConnectionError, nil)
	}
}

func (r *ReceiveIncomingMission) finishAndCallback(result Result, items []ItemInt) {
	r.finishLocked()
	cb := r.callback
	r.callback = nil
	if cb != nil {
		r.callUnlocked(func() { cb(result, items) })
	}
}
