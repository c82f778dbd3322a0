package missiongroundstation

import (
	"context"
	"time"

	"cloupeer.io/missiontransfer/internal/missioncontroller"
	"cloupeer.io/missiontransfer/pkg/missiontransfer"
)

// doWorkTicker periodically pumps every registered Coordinator so a
// finished item's successor gets started without a bespoke wakeup
// channel threaded through every work item.
type doWorkTicker struct {
	registry *missioncontroller.Registry
	interval time.Duration
}

func newDoWorkTicker(registry *missioncontroller.Registry, interval time.Duration) *doWorkTicker {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &doWorkTicker{registry: registry, interval: interval}
}

func (d *doWorkTicker) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.registry.Each(func(_ string, c *missiontransfer.Coordinator) {
				c.DoWork()
			})
		}
	}
}
