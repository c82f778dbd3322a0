// Package missiongroundstation wires a set of vehicle MAVLink links, the
// MissionJob controller, and a small diagnostic HTTP server into one
// process: the ground-station side of the mission-transfer link.
package missiongroundstation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"cloupeer.io/missiontransfer/internal/missioncontroller"
	"cloupeer.io/missiontransfer/pkg/log"
	"cloupeer.io/missiontransfer/pkg/mavlink"
	"cloupeer.io/missiontransfer/pkg/missiontransfer"
	"cloupeer.io/missiontransfer/pkg/mqtt"
)

// server is the common interface for every long-running piece the
// ground station supervises.
type server interface {
	Start(ctx context.Context) error
}

// GroundStation owns one MQTT connection, one mavlink.Link and
// Coordinator per configured vehicle, and the controller-runtime
// manager that reconciles MissionJob objects against them.
type GroundStation struct {
	cfg      *Config
	mqtt     mqtt.Client
	registry *missioncontroller.Registry
	servers  []server
}

// New builds a GroundStation but does not start anything yet.
func New(ctx context.Context, cfg *Config) (*GroundStation, error) {
	client, err := mqtt.NewClient(cfg.MqttConfig)
	if err != nil {
		return nil, fmt.Errorf("missiongroundstation: build mqtt client: %w", err)
	}

	gs := &GroundStation{
		cfg:      cfg,
		mqtt:     client,
		registry: missioncontroller.NewRegistry(),
	}
	return gs, nil
}

// Run starts the MQTT client, builds and registers one Coordinator per
// configured vehicle, starts the controller manager, the HTTP server,
// and the work-queue ticker, then blocks until ctx is cancelled or any
// of them fails.
func (gs *GroundStation) Run(ctx context.Context) error {
	if err := gs.mqtt.Start(ctx); err != nil {
		return fmt.Errorf("missiongroundstation: start mqtt client: %w", err)
	}
	if err := gs.mqtt.AwaitConnection(ctx); err != nil {
		return fmt.Errorf("missiongroundstation: await mqtt connection: %w", err)
	}
	defer gs.mqtt.Disconnect(context.Background())

	for _, vehicle := range gs.cfg.Vehicles {
		link, err := mavlink.NewLink(ctx, gs.mqtt,
			vehicle.OwnSystemID, vehicle.OwnComponentID, vehicle.PeerSystemID,
			vehicle.InboundTopic, vehicle.OutboundTopic,
		)
		if err != nil {
			return fmt.Errorf("missiongroundstation: build link for vehicle %q: %w", vehicle.VehicleName, err)
		}
		coordinator := missiontransfer.NewCoordinator(link, link, link, gs.cfg.OperationTimeout)
		gs.registry.Register(vehicle.VehicleName, coordinator)
		log.Info("registered vehicle link", "vehicle", vehicle.VehicleName, "peerSystemID", vehicle.PeerSystemID)
	}

	mgr, err := missioncontroller.NewControllerManager(ctx, gs.cfg.Kubeconfig, gs.cfg.HealthProbe, gs.registry)
	if err != nil {
		return fmt.Errorf("missiongroundstation: build controller manager: %w", err)
	}

	gs.servers = []server{
		mgr,
		newHTTPServer(gs.cfg.HTTPAddr, gs.registry),
		newDoWorkTicker(gs.registry, gs.cfg.DoWorkInterval),
	}

	g, runCtx := errgroup.WithContext(ctx)
	for _, s := range gs.servers {
		srv := s
		g.Go(func() error {
			return srv.Start(runCtx)
		})
	}

	log.Info("mission ground station started", "vehicles", len(gs.cfg.Vehicles))
	return g.Wait()
}
