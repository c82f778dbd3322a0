// Package mavlink adapts the mission-transfer ports (Sender,
// MessageHandler, TimeoutHandler) onto pkg/mqtt, standing in for the
// point-to-point radio/serial link the protocol was designed around.
// Encoding the wire-level MAVLink byte format is out of scope here (see
// missiontransfer's package doc); this adapter carries the protocol's
// already-structured Message envelope as an MQTT payload instead.
package mavlink

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cloupeer.io/missiontransfer/pkg/log"
	"cloupeer.io/missiontransfer/pkg/missiontransfer"
	"cloupeer.io/missiontransfer/pkg/mqtt"
)

// Link bridges one mission-transfer peer pairing onto an MQTT broker.
// One Link is shared by every work item talking to a given peer; it
// implements all three ports the coordinator's work items depend on.
type Link struct {
	client mqtt.Client

	ownSystemID    uint8
	ownComponentID uint8
	peerSystemID   uint8

	inboundTopic  string
	outboundTopic string

	mu        sync.Mutex
	autopilot missiontransfer.Autopilot

	subMu         sync.Mutex
	nextCookie    missiontransfer.Cookie
	subscriptions map[missiontransfer.Cookie]subscription

	timerMu   sync.Mutex
	nextTimer missiontransfer.Cookie
	timers    map[missiontransfer.Cookie]*armedTimer
}

type armedTimer struct {
	timer    *time.Timer
	duration time.Duration
	callback missiontransfer.TimeoutCallback
}

type subscription struct {
	id       missiontransfer.MessageID
	callback missiontransfer.MessageHandlerCallback
}

// wireEnvelope is the JSON shape published to inboundTopic/outboundTopic.
// It carries the same tagged-union shape as missiontransfer.Message so
// the bridge never needs to know which payload is populated.
type wireEnvelope struct {
	ID      missiontransfer.MessageID `json:"id"`
	Payload json.RawMessage           `json:"payload"`
}

// NewLink constructs a Link and subscribes to inboundTopic on client.
// client must already be started; ctx bounds the subscribe call.
func NewLink(
	ctx context.Context,
	client mqtt.Client,
	ownSystemID, ownComponentID, peerSystemID uint8,
	inboundTopic, outboundTopic string,
) (*Link, error) {
	l := &Link{
		client:         client,
		ownSystemID:    ownSystemID,
		ownComponentID: ownComponentID,
		peerSystemID:   peerSystemID,
		inboundTopic:   inboundTopic,
		outboundTopic:  outboundTopic,
		subscriptions:  make(map[missiontransfer.Cookie]subscription),
		timers:         make(map[missiontransfer.Cookie]*armedTimer),
	}
	if err := client.Subscribe(ctx, inboundTopic, 1, l.onPublish); err != nil {
		return nil, fmt.Errorf("mavlink: subscribe to %s: %w", inboundTopic, err)
	}
	return l, nil
}

// SetAutopilot records the peer's autopilot flavor, typically learned
// from a heartbeat message outside this package's scope.
func (l *Link) SetAutopilot(a missiontransfer.Autopilot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.autopilot = a
}

func (l *Link) Autopilot() missiontransfer.Autopilot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.autopilot
}

func (l *Link) OwnSystemID() uint8    { return l.ownSystemID }
func (l *Link) OwnComponentID() uint8 { return l.ownComponentID }
func (l *Link) SystemID() uint8       { return l.peerSystemID }

// SendMessage publishes msg to the outbound topic. It returns false on
// any publish failure, which callers surface as ResultConnectionError.
func (l *Link) SendMessage(msg missiontransfer.Message) bool {
	payload, err := encodeEnvelope(msg)
	if err != nil {
		log.Error(err, "mavlink: failed to encode outbound message", "id", msg.ID)
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.client.Publish(ctx, l.outboundTopic, 1, false, payload); err != nil {
		log.Error(err, "mavlink: failed to publish outbound message", "id", msg.ID)
		return false
	}
	return true
}

func (l *Link) Subscribe(id missiontransfer.MessageID, cb missiontransfer.MessageHandlerCallback) missiontransfer.Cookie {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	l.nextCookie++
	cookie := l.nextCookie
	l.subscriptions[cookie] = subscription{id: id, callback: cb}
	return cookie
}

func (l *Link) Unsubscribe(cookie missiontransfer.Cookie) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	delete(l.subscriptions, cookie)
}

func (l *Link) Add(durationSeconds float64, cb missiontransfer.TimeoutCallback) missiontransfer.Cookie {
	l.timerMu.Lock()
	defer l.timerMu.Unlock()
	l.nextTimer++
	cookie := l.nextTimer
	duration := toDuration(durationSeconds)
	l.timers[cookie] = &armedTimer{
		timer:    time.AfterFunc(duration, cb),
		duration: duration,
		callback: cb,
	}
	return cookie
}

// Refresh restarts the timer's countdown from its original duration
// without changing its callback.
func (l *Link) Refresh(cookie missiontransfer.Cookie) {
	l.timerMu.Lock()
	defer l.timerMu.Unlock()
	t, ok := l.timers[cookie]
	if !ok {
		return
	}
	t.timer.Stop()
	t.timer = time.AfterFunc(t.duration, t.callback)
}

func (l *Link) Remove(cookie missiontransfer.Cookie) {
	l.timerMu.Lock()
	defer l.timerMu.Unlock()
	if t, ok := l.timers[cookie]; ok {
		t.timer.Stop()
		delete(l.timers, cookie)
	}
}

func toDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// onPublish is registered as the mqtt.MessageHandler for inboundTopic.
// It decodes the envelope and fans it out to every subscription
// matching the message id.
func (l *Link) onPublish(_ context.Context, _ string, payload []byte) {
	msg, err := decodeEnvelope(payload)
	if err != nil {
		log.Error(err, "mavlink: failed to decode inbound message")
		return
	}

	l.subMu.Lock()
	var callbacks []missiontransfer.MessageHandlerCallback
	for _, sub := range l.subscriptions {
		if sub.id == msg.ID {
			callbacks = append(callbacks, sub.callback)
		}
	}
	l.subMu.Unlock()

	for _, cb := range callbacks {
		cb(msg)
	}
}

func encodeEnvelope(msg missiontransfer.Message) ([]byte, error) {
	var raw json.RawMessage
	var err error
	switch msg.ID {
	case missiontransfer.MessageIDMissionCount:
		raw, err = json.Marshal(msg.MissionCount)
	case missiontransfer.MessageIDMissionItemInt:
		raw, err = json.Marshal(msg.MissionItemInt)
	case missiontransfer.MessageIDMissionRequest:
		raw, err = json.Marshal(msg.MissionRequest)
	case missiontransfer.MessageIDMissionRequestInt:
		raw, err = json.Marshal(msg.MissionRequestInt)
	case missiontransfer.MessageIDMissionRequestList:
		raw, err = json.Marshal(msg.MissionRequestList)
	case missiontransfer.MessageIDMissionAck:
		raw, err = json.Marshal(msg.MissionAck)
	case missiontransfer.MessageIDMissionClearAll:
		raw, err = json.Marshal(msg.MissionClearAll)
	case missiontransfer.MessageIDMissionSetCurrent:
		raw, err = json.Marshal(msg.MissionSetCurrent)
	case missiontransfer.MessageIDMissionCurrent:
		raw, err = json.Marshal(msg.MissionCurrent)
	default:
		return nil, fmt.Errorf("mavlink: unknown message id %d", msg.ID)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireEnvelope{ID: msg.ID, Payload: raw})
}

func decodeEnvelope(payload []byte) (missiontransfer.Message, error) {
	var env wireEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return missiontransfer.Message{}, err
	}
	msg := missiontransfer.Message{ID: env.ID}
	var err error
	switch env.ID {
	case missiontransfer.MessageIDMissionCount:
		msg.MissionCount = &missiontransfer.MissionCountPayload{}
		err = json.Unmarshal(env.Payload, msg.MissionCount)
	case missiontransfer.MessageIDMissionItemInt:
		msg.MissionItemInt = &missiontransfer.MissionItemIntPayload{}
		err = json.Unmarshal(env.Payload, msg.MissionItemInt)
	case missiontransfer.MessageIDMissionRequest:
		msg.MissionRequest = &missiontransfer.MissionRequestPayload{}
		err = json.Unmarshal(env.Payload, msg.MissionRequest)
	case missiontransfer.MessageIDMissionRequestInt:
		msg.MissionRequestInt = &missiontransfer.MissionRequestIntPayload{}
		err = json.Unmarshal(env.Payload, msg.MissionRequestInt)
	case missiontransfer.MessageIDMissionRequestList:
		msg.MissionRequestList = &missiontransfer.MissionRequestListPayload{}
		err = json.Unmarshal(env.Payload, msg.MissionRequestList)
	case missiontransfer.MessageIDMissionAck:
		msg.MissionAck = &missiontransfer.MissionAckPayload{}
		err = json.Unmarshal(env.Payload, msg.MissionAck)
	case missiontransfer.MessageIDMissionClearAll:
		msg.MissionClearAll = &missiontransfer.MissionClearAllPayload{}
		err = json.Unmarshal(env.Payload, msg.MissionClearAll)
	case missiontransfer.MessageIDMissionSetCurrent:
		msg.MissionSetCurrent = &missiontransfer.MissionSetCurrentPayload{}
		err = json.Unmarshal(env.Payload, msg.MissionSetCurrent)
	case missiontransfer.MessageIDMissionCurrent:
		msg.MissionCurrent = &missiontransfer.MissionCurrentPayload{}
		err = json.Unmarshal(env.Payload, msg.MissionCurrent)
	default:
		return missiontransfer.Message{}, fmt.Errorf("mavlink: unknown message id %d", env.ID)
	}
	if err != nil {
		return missiontransfer.Message{}, err
	}
	return msg, nil
}

var (
	_ missiontransfer.Sender         = (*Link)(nil)
	_ missiontransfer.MessageHandler = (*Link)(nil)
	_ missiontransfer.TimeoutHandler = (*Link)(nil)
)
