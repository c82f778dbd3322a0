package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	cliflag "k8s.io/component-base/cli/flag"

	"cloupeer.io/missiontransfer/internal/missiongroundstation"
	"cloupeer.io/missiontransfer/pkg/log"
	"cloupeer.io/missiontransfer/pkg/mqtt/topic"
	"cloupeer.io/missiontransfer/pkg/options"
)

// GroundStationOptions collects everything cpeer-groundstation needs to
// build a missiongroundstation.Config.
type GroundStationOptions struct {
	MqttOptions *options.MqttOptions
	LogOptions  *log.Options

	HealthProbeBindAddress string
	HTTPBindAddress         string
	OperationTimeoutSeconds float64
	DoWorkInterval          time.Duration

	// Vehicles entries take the form
	// "name,ownSystemID,ownComponentID,peerSystemID", optionally followed
	// by ",inboundTopic,outboundTopic".
	Vehicles []string

	// ConfigFile optionally names a YAML/JSON/TOML file providing
	// additional vehicle entries, merged ahead of Vehicles.
	ConfigFile string

	fileWatcher *viper.Viper
}

func NewGroundStationOptions() *GroundStationOptions {
	return &GroundStationOptions{
		MqttOptions:             options.NewMqttOptions(),
		LogOptions:              log.NewOptions(),
		HealthProbeBindAddress:  ":9001",
		HTTPBindAddress:         ":8080",
		OperationTimeoutSeconds: 5,
		DoWorkInterval:          200 * time.Millisecond,
	}
}

func (o *GroundStationOptions) Flags() (fss cliflag.NamedFlagSets) {
	fs := fss.FlagSet("Ground Station")
	fs.StringVar(&o.HealthProbeBindAddress, "health-probe-bind-address", o.HealthProbeBindAddress, "The TCP address to bind to for serving health probes.")
	fs.StringVar(&o.HTTPBindAddress, "http-bind-address", o.HTTPBindAddress, "The TCP address to bind to for the diagnostic HTTP API.")
	fs.Float64Var(&o.OperationTimeoutSeconds, "operation-timeout-seconds", o.OperationTimeoutSeconds, "Per-operation timeout budget handed to every vehicle's coordinator.")
	fs.DurationVar(&o.DoWorkInterval, "do-work-interval", o.DoWorkInterval, "How often each vehicle's coordinator is pumped to start its next queued item.")
	fs.StringArrayVar(&o.Vehicles, "vehicle", o.Vehicles, "A vehicle link, as name,ownSystemID,ownComponentID,peerSystemID[,inboundTopic,outboundTopic]. Repeatable.")
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Optional YAML/JSON/TOML file providing additional vehicle entries, merged ahead of --vehicle.")

	o.MqttOptions.AddFlags(fss.FlagSet("MQTT"))
	o.LogOptions.AddFlags(fss.FlagSet("Log"))

	return fss
}

// Config builds a missiongroundstation.Config from the parsed options,
// loading o.ConfigFile first (if set) and merging its vehicle entries
// ahead of the ones given via --vehicle.
func (o *GroundStationOptions) Config() (*missiongroundstation.Config, error) {
	fileCfg, watcher, err := options.LoadFileConfig(o.ConfigFile)
	if err != nil {
		return nil, err
	}
	o.fileWatcher = watcher

	builder := topic.NewBuilder(o.MqttOptions.TopicRoot)
	allSpecs := append(append([]string{}, fileCfg.Vehicles...), o.Vehicles...)
	vehicles := make([]missiongroundstation.VehicleLinkConfig, 0, len(allSpecs))
	for _, spec := range allSpecs {
		v, err := parseVehicleSpec(spec, builder)
		if err != nil {
			return nil, fmt.Errorf("invalid vehicle entry %q: %w", spec, err)
		}
		vehicles = append(vehicles, v)
	}

	return &missiongroundstation.Config{
		MqttConfig:       o.MqttOptions.ToClientConfig(),
		HTTPAddr:         o.HTTPBindAddress,
		HealthProbe:      o.HealthProbeBindAddress,
		Vehicles:         vehicles,
		OperationTimeout: missiongroundstation.DefaultOperationTimeout(o.OperationTimeoutSeconds),
		DoWorkInterval:   o.DoWorkInterval,
	}, nil
}

// WatchConfigFile arms o.ConfigFile's on-disk watcher, if a config file
// was given. onChange fires once per save; vehicle topology is only
// read at startup, so onChange exists to warn an operator that a
// restart is needed, not to reload it live. Must be called after
// Config.
func (o *GroundStationOptions) WatchConfigFile(onChange func(fsnotify.Event)) {
	options.WatchFileConfig(o.fileWatcher, onChange)
}

// parseVehicleSpec accepts either 4 fields (name,ownSystemID,ownComponentID,peerSystemID),
// defaulting both topics from builder, or 6 fields to override them explicitly.
func parseVehicleSpec(spec string, builder *topic.Builder) (missiongroundstation.VehicleLinkConfig, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 && len(parts) != 6 {
		return missiongroundstation.VehicleLinkConfig{}, fmt.Errorf("expected 4 or 6 comma-separated fields, got %d", len(parts))
	}

	ownSystemID, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return missiongroundstation.VehicleLinkConfig{}, fmt.Errorf("ownSystemID: %w", err)
	}
	ownComponentID, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return missiongroundstation.VehicleLinkConfig{}, fmt.Errorf("ownComponentID: %w", err)
	}
	peerSystemID, err := strconv.ParseUint(parts[3], 10, 8)
	if err != nil {
		return missiongroundstation.VehicleLinkConfig{}, fmt.Errorf("peerSystemID: %w", err)
	}

	inboundTopic := builder.FromVehicle(parts[0])
	outboundTopic := builder.FromGroundStation(parts[0])
	if len(parts) == 6 {
		inboundTopic, outboundTopic = parts[4], parts[5]
	}

	return missiongroundstation.VehicleLinkConfig{
		VehicleName:    parts[0],
		OwnSystemID:    uint8(ownSystemID),
		OwnComponentID: uint8(ownComponentID),
		PeerSystemID:   uint8(peerSystemID),
		InboundTopic:   inboundTopic,
		OutboundTopic:  outboundTopic,
	}, nil
}
