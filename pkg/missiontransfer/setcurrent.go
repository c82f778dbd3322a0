package missiontransfer

// SetCurrentWorkItem selects the active mission item by sequence index
// in a single set/confirm exchange.
type SetCurrentWorkItem struct {
	base

	current     int
	callback    func(Result)
	retriesDone int
}

func NewSetCurrentWorkItem(
	sender Sender,
	messageHandler MessageHandler,
	timeoutHandler TimeoutHandler,
	current int,
	timeoutSeconds float64,
	callback func(Result),
) *SetCurrentWorkItem {
	return &SetCurrentWorkItem{
		base:     newBase(sender, messageHandler, timeoutHandler, OperationSetCurrent, 0, timeoutSeconds),
		current:  current,
		callback: callback,
	}
}

func (s *SetCurrentWorkItem) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	if s.current < 0 {
		s.finishAndCallback(ResultCurrentInvalid)
		return
	}

	s.subscribe(MessageIDMissionCurrent, s.onMissionCurrent)
	s.armTimeout(s.onTimeout)
	if !s.sendSetCurrent() {
		s.finishAndCallback(ResultConnectionError)
	}
}

func (s *SetCurrentWorkItem) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.finishAndCallback(ResultCancelled)
}

func (s *SetCurrentWorkItem) sendSetCurrent() bool {
	return s.sender.SendMessage(Message{
		ID: MessageIDMissionSetCurrent,
		MissionSetCurrent: &MissionSetCurrentPayload{
			Seq: uint16(s.current),
		},
	})
}

func (s *SetCurrentWorkItem) onMissionCurrent(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	if int(msg.MissionCurrent.Seq) == s.current {
		s.finishAndCallback(ResultSuccess)
	}
	// Any other reported seq means the peer hasn't applied our request
	// yet; keep waiting for either a matching report or a timeout retry.
}

func (s *SetCurrentWorkItem) onTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}

	s.retriesDone++
	s.recordRetry()
	if s.retriesDone > DefaultRetries {
		s.finishAndCallback(ResultTimeout)
		return
	}

	s.refreshTimeout()
	if !s.sendSetCurrent() {
		s.finishAndCallback(ResultConnectionError)
	}
}

func (s *SetCurrentWorkItem) finishAndCallback(result Result) {
	s.finishLocked()
	cb := s.callback
	s.callback = nil
	if cb != nil {
		s.callUnlocked(func() { cb(result) })
	}
}
