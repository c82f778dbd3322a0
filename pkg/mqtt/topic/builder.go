package topic

import "fmt"

// Builder encapsulates the logic for constructing MQTT topic strings
// for a single vehicle's mission traffic.
type Builder struct {
	// root is the base namespace for all topics (e.g. "iov/v1").
	root string
}

// NewBuilder creates a Builder rooted at the given namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// FromGroundStation returns the topic a vehicle subscribes to for
// MAVLink mission traffic sent by the ground station.
func (b *Builder) FromGroundStation(vehicleID string) string {
	return b.build(vehicleID, SuffixFromGroundStation)
}

// FromVehicle returns the topic a ground station subscribes to for
// MAVLink mission traffic sent by a vehicle.
func (b *Builder) FromVehicle(vehicleID string) string {
	return b.build(vehicleID, SuffixFromVehicle)
}

// FromVehicleWildcard returns the wildcard topic a ground station can
// use to observe mission traffic from every vehicle under this root.
// Result: {root}/+/mission/from-vehicle
func (b *Builder) FromVehicleWildcard() string {
	return b.build(Wildcard, SuffixFromVehicle)
}

func (b *Builder) build(vehicleID, suffix string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, vehicleID, suffix)
}
