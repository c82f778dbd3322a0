package missiontransfer

// Result is the closed set of terminal outcomes a work item's callback
// can be invoked with. Exactly one Result reaches the caller, exactly
// once, per work item (see WorkItem contract in workitem.go).
type Result int

const (
	ResultSuccess Result = iota
	ResultConnectionError
	ResultDenied
	ResultTooManyMissionItems
	ResultTimeout
	ResultUnsupported
	ResultUnsupportedFrame
	ResultNoMissionAvailable
	ResultCancelled
	ResultMissionTypeNotConsistent
	ResultInvalidSequence
	ResultCurrentInvalid
	ResultProtocolError
	ResultInvalidParam
	ResultIntMessagesNotSupported
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "Success"
	case ResultConnectionError:
		return "ConnectionError"
	case ResultDenied:
		return "Denied"
	case ResultTooManyMissionItems:
		return "TooManyMissionItems"
	case ResultTimeout:
		return "Timeout"
	case ResultUnsupported:
		return "Unsupported"
	case ResultUnsupportedFrame:
		return "UnsupportedFrame"
	case ResultNoMissionAvailable:
		return "NoMissionAvailable"
	case ResultCancelled:
		return "Cancelled"
	case ResultMissionTypeNotConsistent:
		return "MissionTypeNotConsistent"
	case ResultInvalidSequence:
		return "InvalidSequence"
	case ResultCurrentInvalid:
		return "CurrentInvalid"
	case ResultProtocolError:
		return "ProtocolError"
	case ResultInvalidParam:
		return "InvalidParam"
	case ResultIntMessagesNotSupported:
		return "IntMessagesNotSupported"
	default:
		return "Unknown"
	}
}
