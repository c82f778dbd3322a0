package missiontransfer

// resultFromAck maps a peer's MISSION_ACK status to a Result, per Table 1
// of the protocol spec. AckAccepted maps to ResultSuccess; callers that
// need to special-case premature acceptance (e.g. an ACCEPTED arriving
// before all items were sent) must check for that before calling this.
func resultFromAck(status AckStatus) Result {
	switch status {
	case AckAccepted:
		return ResultSuccess
	case AckError:
		return ResultProtocolError
	case AckUnsupported:
		return ResultUnsupported
	case AckUnsupportedFrame:
		return ResultUnsupportedFrame
	case AckNoSpace:
		return ResultTooManyMissionItems
	case AckInvalid,
		AckInvalidParam1,
		AckInvalidParam2,
		AckInvalidParam3,
		AckInvalidParam4,
		AckInvalidParam5X,
		AckInvalidParam6Y,
		AckInvalidParam7:
		return ResultInvalidParam
	case AckInvalidSequence:
		return ResultInvalidSequence
	case AckDenied:
		return ResultDenied
	case AckOperationCancelled:
		return ResultCancelled
	case AckMissionTypeNotConsistent:
		return ResultMissionTypeNotConsistent
	default:
		return ResultProtocolError
	}
}
