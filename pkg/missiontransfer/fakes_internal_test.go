package missiontransfer

import "sync"

// fakeSender, fakeMessageHandler, and fakeTimeoutHandler are in-package
// copies of missiontransfertest's doubles. They live here (rather than
// importing missiontransfertest) because these are internal tests (same
// package as the code under test), and missiontransfertest itself
// imports missiontransfer for type signatures, which would otherwise
// create an import cycle when building this package's test binary.

type fakeSender struct {
	mu sync.Mutex

	Fail bool

	ownSystemID    uint8
	ownComponentID uint8
	peerSystemID   uint8
	autopilot      Autopilot

	Sent []Message
}

func newFakeSender(ownSystemID, ownComponentID, peerSystemID uint8) *fakeSender {
	return &fakeSender{
		ownSystemID:    ownSystemID,
		ownComponentID: ownComponentID,
		peerSystemID:   peerSystemID,
	}
}

func (f *fakeSender) SendMessage(msg Message) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return false
	}
	f.Sent = append(f.Sent, msg)
	return true
}

func (f *fakeSender) OwnSystemID() uint8 { return f.ownSystemID }

func (f *fakeSender) OwnComponentID() uint8 { return f.ownComponentID }

func (f *fakeSender) SystemID() uint8 { return f.peerSystemID }

func (f *fakeSender) Autopilot() Autopilot { return f.autopilot }

func (f *fakeSender) SetAutopilot(a Autopilot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autopilot = a
}

func (f *fakeSender) LastSent() (Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return Message{}, false
	}
	return f.Sent[len(f.Sent)-1], true
}

func (f *fakeSender) CountByID(id MessageID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.Sent {
		if m.ID == id {
			n++
		}
	}
	return n
}

type fakeSubscription struct {
	id       MessageID
	callback MessageHandlerCallback
}

type fakeMessageHandler struct {
	mu            sync.Mutex
	nextCookie    Cookie
	subscriptions map[Cookie]fakeSubscription
}

func newFakeMessageHandler() *fakeMessageHandler {
	return &fakeMessageHandler{
		subscriptions: make(map[Cookie]fakeSubscription),
	}
}

func (f *fakeMessageHandler) Subscribe(id MessageID, cb MessageHandlerCallback) Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCookie++
	cookie := f.nextCookie
	f.subscriptions[cookie] = fakeSubscription{id: id, callback: cb}
	return cookie
}

func (f *fakeMessageHandler) Unsubscribe(cookie Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subscriptions, cookie)
}

func (f *fakeMessageHandler) Deliver(id MessageID, msg Message) {
	f.mu.Lock()
	var callbacks []MessageHandlerCallback
	for _, sub := range f.subscriptions {
		if sub.id == id {
			callbacks = append(callbacks, sub.callback)
		}
	}
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(msg)
	}
}

func (f *fakeMessageHandler) SubscriptionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscriptions)
}

type fakeTimer struct {
	callback TimeoutCallback
	armed    bool
}

type fakeTimeoutHandler struct {
	mu         sync.Mutex
	nextCookie Cookie
	timers     map[Cookie]*fakeTimer

	Durations []float64
}

func newFakeTimeoutHandler() *fakeTimeoutHandler {
	return &fakeTimeoutHandler{
		timers: make(map[Cookie]*fakeTimer),
	}
}

func (f *fakeTimeoutHandler) Add(durationSeconds float64, cb TimeoutCallback) Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCookie++
	cookie := f.nextCookie
	f.timers[cookie] = &fakeTimer{callback: cb, armed: true}
	f.Durations = append(f.Durations, durationSeconds)
	return cookie
}

func (f *fakeTimeoutHandler) Refresh(cookie Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.timers[cookie]; ok {
		t.armed = true
	}
}

func (f *fakeTimeoutHandler) Remove(cookie Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.timers, cookie)
}

func (f *fakeTimeoutHandler) FireLatest() {
	f.mu.Lock()
	var latestCookie Cookie
	var cb TimeoutCallback
	for cookie, t := range f.timers {
		if t.armed && cookie >= latestCookie {
			latestCookie = cookie
			cb = t.callback
		}
	}
	f.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (f *fakeTimeoutHandler) ArmedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}
