package missiontransfer

// MessageID identifies a MAVLink message kind. Values match the common
// dialect's message ids so a real codec/dispatch layer can be wired in
// without translation.
type MessageID uint32

const (
	MessageIDMissionSetCurrent  MessageID = 41
	MessageIDMissionCurrent     MessageID = 42
	MessageIDMissionRequestList MessageID = 43
	MessageIDMissionCount       MessageID = 44
	MessageIDMissionClearAll    MessageID = 45
	MessageIDMissionAck         MessageID = 47
	MessageIDMissionRequest     MessageID = 40
	MessageIDMissionRequestInt  MessageID = 51
	MessageIDMissionItemInt     MessageID = 73
)

// AckStatus mirrors MAV_MISSION_RESULT.
type AckStatus uint8

const (
	AckAccepted AckStatus = iota
	AckError
	AckUnsupportedFrame
	AckUnsupported
	AckNoSpace
	AckInvalid
	AckInvalidParam1
	AckInvalidParam2
	AckInvalidParam3
	AckInvalidParam4
	AckInvalidParam5X
	AckInvalidParam6Y
	AckInvalidParam7
	AckInvalidSequence
	AckDenied
	AckOperationCancelled
	AckMissionTypeNotConsistent
)

// Autopilot identifies the peer's autopilot flavor, reported by the
// Sender port. Mission-transfer logic treats it as a pass-through
// accessor; it never branches on it.
type Autopilot int

const (
	AutopilotUnknown Autopilot = iota
	AutopilotPX4
	AutopilotArduPilot
)

// Message is a tagged envelope over the handful of mission-protocol
// messages this package consumes and produces. Exactly one payload
// field is populated, selected by ID. A real wire codec is expected to
// decode into / encode out of this shape; this package never touches
// raw bytes.
type Message struct {
	ID MessageID

	MissionCount       *MissionCountPayload
	MissionItemInt     *MissionItemIntPayload
	MissionRequest     *MissionRequestPayload
	MissionRequestInt  *MissionRequestIntPayload
	MissionRequestList *MissionRequestListPayload
	MissionAck         *MissionAckPayload
	MissionClearAll    *MissionClearAllPayload
	MissionSetCurrent  *MissionSetCurrentPayload
	MissionCurrent     *MissionCurrentPayload
}

type MissionCountPayload struct {
	TargetSystem    uint8
	TargetComponent uint8
	Count           uint16
	MissionType     uint8
}

type MissionItemIntPayload struct {
	TargetSystem    uint8
	TargetComponent uint8
	Item            ItemInt
}

type MissionRequestPayload struct {
	TargetSystem    uint8
	TargetComponent uint8
	Seq             uint16
	MissionType     uint8
}

type MissionRequestIntPayload struct {
	TargetSystem    uint8
	TargetComponent uint8
	Seq             uint16
	MissionType     uint8
}

type MissionRequestListPayload struct {
	TargetSystem    uint8
	TargetComponent uint8
	MissionType     uint8
}

type MissionAckPayload struct {
	TargetSystem    uint8
	TargetComponent uint8
	Type            AckStatus
	MissionType     uint8
}

type MissionClearAllPayload struct {
	TargetSystem    uint8
	TargetComponent uint8
	MissionType     uint8
}

type MissionSetCurrentPayload struct {
	Seq uint16
}

type MissionCurrentPayload struct {
	Seq uint16
}

// Cookie is an opaque handle returned by the MessageHandler and
// TimeoutHandler ports. It must not be a pointer into the work item's
// own storage; implementations are free to use a generational index or
// a map key.
type Cookie uint64

// Sender emits outbound messages and reports the identities needed to
// populate them. A real implementation writes to a link (serial, UDP,
// or in this repo's case an MQTT-carried bridge); it is an external
// collaborator, not implemented here.
type Sender interface {
	// SendMessage enqueues msg for transmission. false indicates link
	// failure, surfaced by callers as ResultConnectionError.
	SendMessage(msg Message) bool

	OwnSystemID() uint8
	OwnComponentID() uint8
	// SystemID is the peer's system id.
	SystemID() uint8
	Autopilot() Autopilot
}

// MessageHandlerCallback receives one inbound message matching the id it
// was subscribed under.
type MessageHandlerCallback func(msg Message)

// MessageHandler subscribes callbacks to inbound message kinds. A real
// implementation is the message-dispatch layer that demultiplexes a
// link's inbound stream; out of scope here.
type MessageHandler interface {
	Subscribe(id MessageID, callback MessageHandlerCallback) Cookie
	Unsubscribe(cookie Cookie)
}

// TimeoutCallback fires once when its scheduled duration elapses.
type TimeoutCallback func()

// TimeoutHandler schedules one-shot timeouts. A real implementation is
// the timer wheel; out of scope here.
type TimeoutHandler interface {
	Add(durationSeconds float64, callback TimeoutCallback) Cookie
	Refresh(cookie Cookie)
	Remove(cookie Cookie)
}
