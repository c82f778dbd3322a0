package missioncontroller

import (
	missionv1alpha1 "cloupeer.io/missiontransfer/pkg/apis/mission/v1alpha1"
	"cloupeer.io/missiontransfer/pkg/missiontransfer"
)

func toItemInts(items []missionv1alpha1.MissionItem) []missiontransfer.ItemInt {
	out := make([]missiontransfer.ItemInt, len(items))
	for i, it := range items {
		out[i] = missiontransfer.ItemInt{
			Seq:          it.Seq,
			Frame:        it.Frame,
			Command:      it.Command,
			Current:      it.Current,
			Autocontinue: it.Autocontinue,
			Param1:       it.Param1,
			Param2:       it.Param2,
			Param3:       it.Param3,
			Param4:       it.Param4,
			X:            it.X,
			Y:            it.Y,
			Z:            it.Z,
			MissionType:  it.MissionType,
		}
	}
	return out
}

func toMissionItems(items []missiontransfer.ItemInt) []missionv1alpha1.MissionItem {
	out := make([]missionv1alpha1.MissionItem, len(items))
	for i, it := range items {
		out[i] = missionv1alpha1.MissionItem{
			Seq:          it.Seq,
			Frame:        it.Frame,
			Command:      it.Command,
			Current:      it.Current,
			Autocontinue: it.Autocontinue,
			Param1:       it.Param1,
			Param2:       it.Param2,
			Param3:       it.Param3,
			Param4:       it.Param4,
			X:            it.X,
			Y:            it.Y,
			Z:            it.Z,
			MissionType:  it.MissionType,
		}
	}
	return out
}
