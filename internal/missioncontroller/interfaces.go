package missioncontroller

import "cloupeer.io/missiontransfer/pkg/missiontransfer"

// CoordinatorRegistry resolves the Coordinator driving mission traffic
// for a named vehicle. The ground station process registers one entry
// per configured vehicle at startup; entries are not removed when a
// link drops.
type CoordinatorRegistry interface {
	Coordinator(vehicleName string) (*missiontransfer.Coordinator, error)
}
