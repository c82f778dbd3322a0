// Package missiontransfer implements the MAVLink mission transfer protocol
// state machines: upload, download, receive-incoming, clear and
// set-current. It owns the work-queue scheduler and per-operation state
// machines; the MAVLink wire codec, message dispatch, timer wheel and
// transport are external collaborators reached through the Sender,
// MessageHandler and TimeoutHandler ports.
package missiontransfer

// ItemInt is the wire-level representation of one mission entry. Field
// names and widths mirror the MAVLink MISSION_ITEM_INT message.
type ItemInt struct {
	Seq          uint16
	Frame        uint8
	Command      uint16
	Current      uint8
	Autocontinue uint8
	Param1       float32
	Param2       float32
	Param3       float32
	Param4       float32
	X            int32
	Y            int32
	Z            float32
	MissionType  uint8
}

// Equal reports structural equality across every field, matching the
// original C++ ItemInt::operator==.
func (i ItemInt) Equal(other ItemInt) bool {
	return i.Seq == other.Seq &&
		i.Frame == other.Frame &&
		i.Command == other.Command &&
		i.Current == other.Current &&
		i.Autocontinue == other.Autocontinue &&
		i.Param1 == other.Param1 &&
		i.Param2 == other.Param2 &&
		i.Param3 == other.Param3 &&
		i.Param4 == other.Param4 &&
		i.X == other.X &&
		i.Y == other.Y &&
		i.Z == other.Z &&
		i.MissionType == other.MissionType
}

// ItemsEqual compares two item lists for structural equality, seq by seq.
func ItemsEqual(a, b []ItemInt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
