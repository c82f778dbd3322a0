// Package missiontransfertest provides hand-written in-memory doubles for
// the three ports missiontransfer work items depend on (Sender,
// MessageHandler, TimeoutHandler), so tests can script message arrival
// and timer firing deterministically without a real link or clock.
package missiontransfertest

import (
	"sync"

	"cloupeer.io/missiontransfer/pkg/missiontransfer"
)

// FakeSender records every message handed to SendMessage. Its SendMessage
// always succeeds unless Fail is set true, in which case every call
// reports link failure without recording anything.
type FakeSender struct {
	mu sync.Mutex

	Fail bool

	ownSystemID    uint8
	ownComponentID uint8
	peerSystemID   uint8
	autopilot      missiontransfer.Autopilot

	Sent []missiontransfer.Message
}

func NewFakeSender(ownSystemID, ownComponentID, peerSystemID uint8) *FakeSender {
	return &FakeSender{
		ownSystemID:    ownSystemID,
		ownComponentID: ownComponentID,
		peerSystemID:   peerSystemID,
	}
}

func (f *FakeSender) SendMessage(msg missiontransfer.Message) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return false
	}
	f.Sent = append(f.Sent, msg)
	return true
}

func (f *FakeSender) OwnSystemID() uint8 { return f.ownSystemID }

func (f *FakeSender) OwnComponentID() uint8 { return f.ownComponentID }

func (f *FakeSender) SystemID() uint8 { return f.peerSystemID }

func (f *FakeSender) Autopilot() missiontransfer.Autopilot { return f.autopilot }

// SetAutopilot lets a test report a specific autopilot flavor from the
// fake, exercising the pass-through accessor.
func (f *FakeSender) SetAutopilot(a missiontransfer.Autopilot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autopilot = a
}

// LastSent returns the most recently recorded message and true, or a
// zero Message and false if nothing has been sent yet.
func (f *FakeSender) LastSent() (missiontransfer.Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return missiontransfer.Message{}, false
	}
	return f.Sent[len(f.Sent)-1], true
}

// CountByID reports how many recorded messages carry the given id.
func (f *FakeSender) CountByID(id missiontransfer.MessageID) int {
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

type subscription struct {
	id       missiontransfer.MessageID
	callback missiontransfer.MessageHandlerCallback
}

// FakeMessageHandler is an in-memory Subscribe/Unsubscribe registry. A
// test drives message delivery explicitly by calling Deliver; there is
// no background dispatch goroutine.
type FakeMessageHandler struct {
	mu            sync.Mutex
	nextCookie    missiontransfer.Cookie
	subscriptions map[missiontransfer.Cookie]subscription
}

func NewFakeMessageHandler() *FakeMessageHandler {
	return &FakeMessageHandler{
		subscriptions: make(map[missiontransfer.Cookie]subscription),
	}
}

func (f *FakeMessageHandler) Subscribe(id missiontransfer.MessageID, cb missiontransfer.MessageHandlerCallback) missiontransfer.Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCookie++
	cookie := f.nextCookie
	f.subscriptions[cookie] = subscription{id: id, callback: cb}
	return cookie
}

func (f *FakeMessageHandler) Unsubscribe(cookie missiontransfer.Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subscriptions, cookie)
}

// Deliver invokes every live subscription matching id with msg, in no
// particular order. Callbacks are invoked outside the handler's own
// lock so a callback that subscribes or unsubscribes does not deadlock.
func (f *FakeMessageHandler) Deliver(id missiontransfer.MessageID, msg missiontransfer.Message) {
	f.mu.Lock()
	var callbacks []missiontransfer.MessageHandlerCallback
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

// SubscriptionCount reports how many live subscriptions remain, for
// asserting that a finished work item released all of them.
func (f *FakeMessageHandler) SubscriptionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscriptions)
}

type timer struct {
	callback missiontransfer.TimeoutCallback
	armed    bool
}

// FakeTimeoutHandler is an in-memory one-shot timer registry driven by
// explicit Fire calls rather than wall-clock time.
type FakeTimeoutHandler struct {
	mu         sync.Mutex
	nextCookie missiontransfer.Cookie
	timers     map[missiontransfer.Cookie]*timer

	// Durations records every duration passed to Add, in call order, so
	// a test can assert on timeout-budget bookkeeping.
	Durations []float64
}

func NewFakeTimeoutHandler() *FakeTimeoutHandler {
	return &FakeTimeoutHandler{
		timers: make(map[missiontransfer.Cookie]*timer),
	}
}

func (f *FakeTimeoutHandler) Add(durationSeconds float64, cb missiontransfer.TimeoutCallback) missiontransfer.Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCookie++
	cookie := f.nextCookie
	f.timers[cookie] = &timer{callback: cb, armed: true}
	f.Durations = append(f.Durations, durationSeconds)
	return cookie
}

func (f *FakeTimeoutHandler) Refresh(cookie missiontransfer.Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.timers[cookie]; ok {
		t.armed = true
	}
}

func (f *FakeTimeoutHandler) Remove(cookie missiontransfer.Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.timers, cookie)
}

// FireLatest invokes the callback of the most recently added still-armed
// timer, mimicking that timer elapsing. It is a no-op if there is none.
func (f *FakeTimeoutHandler) FireLatest() {
	f.mu.Lock()
	var latestCookie missiontransfer.Cookie
	var cb missiontransfer.TimeoutCallback
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

// ArmedCount reports how many timers are still registered, for asserting
// that a finished work item released its timeout.
func (f *FakeTimeoutHandler) ArmedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}
