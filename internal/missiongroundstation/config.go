package missiongroundstation

import (
	"time"

	"k8s.io/client-go/rest"

	"cloupeer.io/missiontransfer/pkg/missiontransfer"
	"cloupeer.io/missiontransfer/pkg/mqtt"
)

// VehicleLinkConfig names one vehicle's MQTT topic pairing and MAVLink
// addressing. One Link and one Coordinator are built per entry.
type VehicleLinkConfig struct {
	VehicleName    string
	OwnSystemID    uint8
	OwnComponentID uint8
	PeerSystemID   uint8
	InboundTopic   string
	OutboundTopic  string
}

// Config bundles everything a GroundStation needs to start.
type Config struct {
	MqttConfig  *mqtt.ClientConfig
	Kubeconfig  *rest.Config
	HTTPAddr    string
	HealthProbe string
	Vehicles    []VehicleLinkConfig

	// OperationTimeout returns the per-kind timeout budget handed to
	// every vehicle's Coordinator.
	OperationTimeout func(missiontransfer.OperationKind) float64

	// DoWorkInterval is how often each Coordinator is pumped to start
	// its next queued item once the previous one finishes.
	DoWorkInterval time.Duration
}

// DefaultOperationTimeout gives every operation kind the same budget;
// callers with sharper per-operation SLAs can supply their own.
func DefaultOperationTimeout(seconds float64) func(missiontransfer.OperationKind) float64 {
	return func(missiontransfer.OperationKind) float64 { return seconds }
}
