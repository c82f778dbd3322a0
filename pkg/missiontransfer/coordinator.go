package missiontransfer

import (
	"sync"
	"time"

	"cloupeer.io/missiontransfer/internal/pkg/metrics"
)

func (k OperationKind) metricLabel() string {
	switch k {
	case OperationUpload:
		return "upload"
	case OperationDownload:
		return "download"
	case OperationReceiveIncoming:
		return "receive_incoming"
	case OperationClear:
		return "clear"
	case OperationSetCurrent:
		return "set_current"
	default:
		return "unknown"
	}
}

// MaxMissionItems is the protocol cap on a single mission's item count:
// a small compile-time constant chosen to match realistic peer and link
// memory budgets, well below the 16-bit sequence space the wire format
// could in principle address.
const MaxMissionItems = 1000

// OperationKind distinguishes the five operations a Coordinator can run,
// so a caller-provided timeout accessor can budget them independently.
type OperationKind int

const (
	OperationUpload OperationKind = iota
	OperationDownload
	OperationReceiveIncoming
	OperationClear
	OperationSetCurrent
)

// WorkItemHandle is a non-owning reference to a work item queued on a
// Coordinator. It is valid only while the coordinator still holds the
// item; once the item is popped off the queue (always after it is
// done), the handle's Cancel becomes a silent no-op.
type WorkItemHandle struct {
	mu   sync.Mutex
	item workItem
}

func newHandle(item workItem) *WorkItemHandle {
	return &WorkItemHandle{item: item}
}

// Cancel cancels the referenced work item if the handle is still live.
// Safe to call from any goroutine, any number of times.
func (h *WorkItemHandle) Cancel() {
	h.mu.Lock()
	item := h.item
	h.mu.Unlock()
	if item != nil {
		item.cancel()
	}
}

// invalidate drops the handle's reference once the coordinator removes
// the underlying item from its queue.
func (h *WorkItemHandle) invalidate() {
	h.mu.Lock()
	h.item = nil
	h.mu.Unlock()
}

type queuedItem struct {
	item   workItem
	handle *WorkItemHandle
}

// Coordinator is the FIFO work-queue scheduler: the single point through
// which upload, download, receive-incoming, clear and set-current
// operations are admitted, serialized, and driven to completion. Only
// one work item is started (running) at a time; do_work promotes the
// next one once the current head reports done.
type Coordinator struct {
	sender         Sender
	messageHandler MessageHandler
	timeoutHandler TimeoutHandler

	// timeoutSeconds supplies the per-attempt timeout for a newly
	// constructed operation of the given kind. Called once per
	// operation, not per retry, mirroring the header's TimeoutSCallback.
	timeoutSeconds func(OperationKind) float64

	mu                   sync.Mutex
	queue                []*queuedItem
	intMessagesSupported bool
}

// NewCoordinator constructs a Coordinator. timeoutSeconds is asked once
// per enqueued operation for that operation's per-attempt timeout
// budget; it must not block.
func NewCoordinator(
	sender Sender,
	messageHandler MessageHandler,
	timeoutHandler TimeoutHandler,
	timeoutSeconds func(OperationKind) float64,
) *Coordinator {
	return &Coordinator{
		sender:               sender,
		messageHandler:       messageHandler,
		timeoutHandler:       timeoutHandler,
		timeoutSeconds:       timeoutSeconds,
		intMessagesSupported: true,
	}
}

// IsIdle reports whether the queue is empty.
func (c *Coordinator) IsIdle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue) == 0
}

// SetIntMessagesSupported records the sticky INT-capability flag. Once
// set to false it is never automatically re-enabled; a caller must set
// it true again explicitly (e.g. after a peer reconnects).
func (c *Coordinator) SetIntMessagesSupported(supported bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intMessagesSupported = supported
}

func (c *Coordinator) intMessagesSupportedLocked() bool {
	return c.intMessagesSupported
}

func (c *Coordinator) enqueue(kind OperationKind, item workItem) *WorkItemHandle {
	handle := newHandle(item)
	c.mu.Lock()
	c.queue = append(c.queue, &queuedItem{item: item, handle: handle})
	depth := len(c.queue)
	c.mu.Unlock()
	metrics.WorkItemsEnqueuedTotal.WithLabelValues(kind.metricLabel()).Inc()
	metrics.QueueDepth.Set(float64(depth))
	return handle
}

// observeCompletion records the operation's duration and terminal result.
// started is the time the corresponding enqueue call returned.
func observeCompletion(kind OperationKind, started time.Time, result Result) {
	metrics.WorkItemsCompletedTotal.WithLabelValues(kind.metricLabel(), result.String()).Inc()
	metrics.OperationDuration.WithLabelValues(kind.metricLabel()).Observe(time.Since(started).Seconds())
}

// completedHandle returns a handle whose item is already done, for
// synchronous (pre-I/O) validation failures that never enter the queue.
func completedHandle() *WorkItemHandle {
	return &WorkItemHandle{}
}

// DoWork promotes the head of the queue to started if nothing is
// currently running, and pops any items at the head that have already
// finished. It is driven externally on a periodic tick (or after every
// event that might have completed the running item) — there is no
// internal timer.
func (c *Coordinator) DoWork() {
	c.mu.Lock()
	defer c.mu.Unlock()

	popped := false
	for len(c.queue) > 0 && c.queue[0].item.isDone() {
		c.queue[0].handle.invalidate()
		c.queue = c.queue[1:]
		popped = true
	}
	if popped {
		metrics.QueueDepth.Set(float64(len(c.queue)))
	}
	if len(c.queue) == 0 {
		return
	}
	head := c.queue[0]
	if !head.item.hasStarted() {
		head.item.start()
	}
}

// Upload validates the item list (dense zero-based sequence, a single
// shared mission type, and the protocol item cap) and, if INT messages
// are not known-supported, fails fast without touching the link.
func (c *Coordinator) Upload(
	missionType uint8,
	items []ItemInt,
	resultCallback func(Result),
	progressCallback func(float32),
) *WorkItemHandle {
	if len(items) > MaxMissionItems {
		invokeResult(resultCallback, ResultTooManyMissionItems)
		return completedHandle()
	}
	for i, it := range items {
		if int(it.Seq) != i {
			invokeResult(resultCallback, ResultInvalidSequence)
			return completedHandle()
		}
		if it.MissionType != missionType {
			invokeResult(resultCallback, ResultMissionTypeNotConsistent)
			return completedHandle()
		}
	}

	c.mu.Lock()
	supported := c.intMessagesSupportedLocked()
	c.mu.Unlock()
	if !supported {
		invokeResult(resultCallback, ResultIntMessagesNotSupported)
		return completedHandle()
	}

	timeout := c.timeoutSeconds(OperationUpload)
	started := time.Now()
	wrapped := func(r Result) {
		observeCompletion(OperationUpload, started, r)
		invokeResult(resultCallback, r)
	}
	item := NewUploadWorkItem(
		c.sender, c.messageHandler, c.timeoutHandler,
		missionType, items, timeout, wrapped, progressCallback,
		func() { c.SetIntMessagesSupported(false) },
	)
	return c.enqueue(OperationUpload, item)
}

// Download begins a client-initiated pull of the peer's mission list.
func (c *Coordinator) Download(
	missionType uint8,
	resultCallback func(Result, []ItemInt),
	progressCallback func(float32),
) *WorkItemHandle {
	timeout := c.timeoutSeconds(OperationDownload)
	started := time.Now()
	wrapped := func(r Result, items []ItemInt) {
		observeCompletion(OperationDownload, started, r)
		if resultCallback != nil {
			resultCallback(r, items)
		}
	}
	item := NewDownloadWorkItem(
		c.sender, c.messageHandler, c.timeoutHandler,
		missionType, timeout, wrapped, progressCallback,
	)
	return c.enqueue(OperationDownload, item)
}

// ReceiveIncoming handles a peer-initiated push whose item count has
// already been observed elsewhere; it skips the request-list step.
func (c *Coordinator) ReceiveIncoming(
	missionType uint8,
	missionCount uint32,
	targetComponent uint8,
	resultCallback func(Result, []ItemInt),
) *WorkItemHandle {
	timeout := c.timeoutSeconds(OperationReceiveIncoming)
	started := time.Now()
	wrapped := func(r Result, items []ItemInt) {
		observeCompletion(OperationReceiveIncoming, started, r)
		if resultCallback != nil {
			resultCallback(r, items)
		}
	}
	item := NewReceiveIncomingMission(
		c.sender, c.messageHandler, c.timeoutHandler,
		missionType, timeout, wrapped, missionCount, targetComponent,
	)
	return c.enqueue(OperationReceiveIncoming, item)
}

// Clear wipes the peer's mission list of the given type.
func (c *Coordinator) Clear(missionType uint8, resultCallback func(Result)) *WorkItemHandle {
	timeout := c.timeoutSeconds(OperationClear)
	started := time.Now()
	wrapped := func(r Result) {
		observeCompletion(OperationClear, started, r)
		invokeResult(resultCallback, r)
	}
	item := NewClearWorkItem(c.sender, c.messageHandler, c.timeoutHandler, missionType, timeout, wrapped)
	return c.enqueue(OperationClear, item)
}

// SetCurrent selects the currently active mission item by sequence
// index.
func (c *Coordinator) SetCurrent(current int, resultCallback func(Result)) *WorkItemHandle {
	timeout := c.timeoutSeconds(OperationSetCurrent)
	started := time.Now()
	wrapped := func(r Result) {
		observeCompletion(OperationSetCurrent, started, r)
		invokeResult(resultCallback, r)
	}
	item := NewSetCurrentWorkItem(c.sender, c.messageHandler, c.timeoutHandler, current, timeout, wrapped)
	return c.enqueue(OperationSetCurrent, item)
}

func invokeResult(cb func(Result), result Result) {
	if cb != nil {
		cb(result)
	}
}
