package missiontransfer

// ClearWorkItem wipes the peer's mission list of a given type in a
// single request/ack exchange.
type ClearWorkItem struct {
	base

	callback    func(Result)
	retriesDone int
}

func NewClearWorkItem(
	sender Sender,
	messageHandler MessageHandler,
	timeoutHandler TimeoutHandler,
	missionType uint8,
	timeoutSeconds float64,
	callback func(Result),
) *ClearWorkItem {
	return &ClearWorkItem{
		base:     newBase(sender, messageHandler, timeoutHandler, OperationClear, missionType, timeoutSeconds),
		callback: callback,
	}
}

func (c *ClearWorkItem) start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	c.subscribe(MessageIDMissionAck, c.onMissionAck)
	c.armTimeout(c.onTimeout)
	if !c.sendClear() {
		c.finishAndCallback(ResultConnectionError)
	}
}

func (c *ClearWorkItem) cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	c.finishAndCallback(ResultCancelled)
}

func (c *ClearWorkItem) sendClear() bool {
	return c.sender.SendMessage(Message{
		ID: MessageIDMissionClearAll,
		MissionClearAll: &MissionClearAllPayload{
			TargetSystem:    c.sender.SystemID(),
			TargetComponent: 0,
			MissionType:     c.missionType,
		},
	})
}

func (c *ClearWorkItem) onMissionAck(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	status := msg.MissionAck.Type
	if status == AckAccepted {
		c.finishAndCallback(ResultSuccess)
		return
	}
	c.finishAndCallback(resultFromAck(status))
}

func (c *ClearWorkItem) onTimeout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}

	c.retriesDone++
	c.recordRetry()
	if c.retriesDone > DefaultRetries {
		c.finishAndCallback(ResultTimeout)
		return
	}

	c.refreshTimeout()
	if !c.sendClear() {
		c.finishAndCallback(ResultConnectionError)
	}
}

func (c *ClearWorkItem) finishAndCallback(result Result) {
	c.finishLocked()
	cb := c.callback
	c.callback = nil
	if cb != nil {
		c.callUnlocked(func() { cb(result) })
	}
}
