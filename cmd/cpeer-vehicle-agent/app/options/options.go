package options

import (
	"fmt"
	"time"

	cliflag "k8s.io/component-base/cli/flag"

	"cloupeer.io/missiontransfer/internal/missiongroundstation"
	"cloupeer.io/missiontransfer/pkg/log"
	"cloupeer.io/missiontransfer/pkg/mqtt/topic"
	"cloupeer.io/missiontransfer/pkg/options"
)

// AgentOptions collects everything cpeer-vehicle-agent needs to bridge
// one vehicle's MAVLink traffic onto MQTT. It builds the same
// missiongroundstation.Config a ground station uses, scoped to the
// single vehicle this process runs alongside.
type AgentOptions struct {
	MqttOptions *options.MqttOptions
	LogOptions  *log.Options

	VehicleName             string
	OwnSystemID             uint8
	OwnComponentID          uint8
	PeerSystemID            uint8
	InboundTopic            string
	OutboundTopic           string
	HealthProbeBindAddress  string
	HTTPBindAddress         string
	OperationTimeoutSeconds float64
	DoWorkInterval          time.Duration
}

func NewAgentOptions() *AgentOptions {
	return &AgentOptions{
		MqttOptions:             options.NewMqttOptions(),
		LogOptions:              log.NewOptions(),
		OwnSystemID:             1,
		OwnComponentID:          1,
		PeerSystemID:            255,
		HealthProbeBindAddress:  ":9002",
		HTTPBindAddress:         ":8081",
		OperationTimeoutSeconds: 5,
		DoWorkInterval:          200 * time.Millisecond,
	}
}

func (o *AgentOptions) Flags() (fss cliflag.NamedFlagSets) {
	fs := fss.FlagSet("Vehicle Agent")
	fs.StringVar(&o.VehicleName, "vehicle-name", o.VehicleName, "The name this vehicle registers under with the ground station.")
	fs.Uint8Var(&o.OwnSystemID, "own-system-id", o.OwnSystemID, "This agent's MAVLink system ID.")
	fs.Uint8Var(&o.OwnComponentID, "own-component-id", o.OwnComponentID, "This agent's MAVLink component ID.")
	fs.Uint8Var(&o.PeerSystemID, "peer-system-id", o.PeerSystemID, "The ground station's MAVLink system ID.")
	fs.StringVar(&o.InboundTopic, "inbound-topic", o.InboundTopic, "MQTT topic this agent receives messages on (default {topic-root}/{vehicle-name}/"+topic.SuffixFromGroundStation+").")
	fs.StringVar(&o.OutboundTopic, "outbound-topic", o.OutboundTopic, "MQTT topic this agent publishes messages to (default {topic-root}/{vehicle-name}/"+topic.SuffixFromVehicle+").")
	fs.StringVar(&o.HealthProbeBindAddress, "health-probe-bind-address", o.HealthProbeBindAddress, "The TCP address to bind to for serving health probes.")
	fs.StringVar(&o.HTTPBindAddress, "http-bind-address", o.HTTPBindAddress, "The TCP address to bind to for the diagnostic HTTP API.")
	fs.Float64Var(&o.OperationTimeoutSeconds, "operation-timeout-seconds", o.OperationTimeoutSeconds, "Per-operation timeout budget for this agent's coordinator.")
	fs.DurationVar(&o.DoWorkInterval, "do-work-interval", o.DoWorkInterval, "How often the coordinator is pumped to start its next queued item.")

	o.MqttOptions.AddFlags(fss.FlagSet("MQTT"))
	o.LogOptions.AddFlags(fss.FlagSet("Log"))

	return fss
}

func (o *AgentOptions) Validate() error {
	if o.VehicleName == "" {
		return fmt.Errorf("--vehicle-name is required")
	}
	return nil
}

// Config builds a single-vehicle missiongroundstation.Config: the
// vehicle agent is a ground station instance carrying exactly one
// link, from the vehicle's own perspective.
func (o *AgentOptions) Config() *missiongroundstation.Config {
	builder := topic.NewBuilder(o.MqttOptions.TopicRoot)
	inboundTopic := o.InboundTopic
	if inboundTopic == "" {
		inboundTopic = builder.FromGroundStation(o.VehicleName)
	}
	outboundTopic := o.OutboundTopic
	if outboundTopic == "" {
		outboundTopic = builder.FromVehicle(o.VehicleName)
	}

	return &missiongroundstation.Config{
		MqttConfig:  o.MqttOptions.ToClientConfig(),
		HTTPAddr:    o.HTTPBindAddress,
		HealthProbe: o.HealthProbeBindAddress,
		Vehicles: []missiongroundstation.VehicleLinkConfig{
			{
				VehicleName:    o.VehicleName,
				OwnSystemID:    o.OwnSystemID,
				OwnComponentID: o.OwnComponentID,
				PeerSystemID:   o.PeerSystemID,
				InboundTopic:   inboundTopic,
				OutboundTopic:  outboundTopic,
			},
		},
		OperationTimeout: missiongroundstation.DefaultOperationTimeout(o.OperationTimeoutSeconds),
		DoWorkInterval:   o.DoWorkInterval,
	}
}
