package missiontransfer

import (
	"sync"

	"cloupeer.io/missiontransfer/internal/pkg/metrics"
)

// DefaultRetries is the retry budget afforded to every work item before
// it gives up with ResultTimeout.
const DefaultRetries = 5

// workItem is the tagged-variant interface the coordinator's queue
// holds. Rather than per-class virtual dispatch, each concrete state
// machine (UploadWorkItem, DownloadWorkItem, ...) implements it and the
// coordinator dispatches by calling through the interface; there is no
// reflection or type switch on the hot path.
type workItem interface {
	start()
	cancel()
	hasStarted() bool
	isDone() bool
}

// base carries the lifecycle flags and mutex every work item shares.
// Every entry point of a concrete work item (start, cancel, a message
// handler, a timeout handler) must acquire mu for the full duration of
// its body; base never acquires it on the caller's behalf so that
// concrete types can hold it across a multi-step state change.
type base struct {
	mu sync.Mutex

	sender         Sender
	messageHandler MessageHandler
	timeoutHandler TimeoutHandler

	kind           OperationKind
	missionType    uint8
	timeoutSeconds float64

	started bool
	done    bool

	subscriptions []Cookie
	timeoutCookie Cookie
	hasTimeout    bool
}

func newBase(sender Sender, messageHandler MessageHandler, timeoutHandler TimeoutHandler, kind OperationKind, missionType uint8, timeoutSeconds float64) base {
	return base{
		sender:         sender,
		messageHandler: messageHandler,
		timeoutHandler: timeoutHandler,
		kind:           kind,
		missionType:    missionType,
		timeoutSeconds: timeoutSeconds,
	}
}

// recordRetry increments the shared retry counter for this work item's
// operation kind. Called once per retry consumed: every timeout,
// including the one that exhausts the budget, and every repeated upload
// request for an item that was already sent.
func (b *base) recordRetry() {
	metrics.RetriesTotal.WithLabelValues(b.kind.metricLabel()).Inc()
}

func (b *base) hasStarted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.started
}

func (b *base) isDone() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// subscribe registers a handler and remembers the cookie so it can be
// released in finishLocked. Must be called with mu held.
func (b *base) subscribe(id MessageID, cb MessageHandlerCallback) {
	cookie := b.messageHandler.Subscribe(id, cb)
	b.subscriptions = append(b.subscriptions, cookie)
}

// armTimeout schedules (or re-arms) the single timeout this work item
// owns. Must be called with mu held.
func (b *base) armTimeout(cb TimeoutCallback) {
	if b.hasTimeout {
		b.timeoutHandler.Remove(b.timeoutCookie)
	}
	b.timeoutCookie = b.timeoutHandler.Add(b.timeoutSeconds, cb)
	b.hasTimeout = true
}

// refreshTimeout resets the existing timer without changing its
// callback. Must be called with mu held.
func (b *base) refreshTimeout() {
	if b.hasTimeout {
		b.timeoutHandler.Refresh(b.timeoutCookie)
	}
}

// finishLocked releases every subscription and the timeout and marks
// the item done. It must be called with mu held and is idempotent only
// in the sense that callers must check b.done before calling it.
func (b *base) finishLocked() {
	for _, cookie := range b.subscriptions {
		b.messageHandler.Unsubscribe(cookie)
	}
	b.subscriptions = nil
	if b.hasTimeout {
		b.timeoutHandler.Remove(b.timeoutCookie)
		b.hasTimeout = false
	}
	b.done = true
}

// callUnlocked releases mu, runs fn, then reacquires mu. It exists so a
// user result/progress callback never runs while this work item's own
// mutex is held, matching the "release the mutex, then call" design
// the header leaves as an implementation choice. Must be called with mu
// held; leaves mu held on return.
func (b *base) callUnlocked(fn func()) {
	b.mu.Unlock()
	fn()
	b.mu.Lock()
}
