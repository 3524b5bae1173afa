// Package heartbeat publishes a retained liveness beacon so a console
// attached to the bus can tell a hung loop from a quiet one.
package heartbeat

import (
	"context"
	"time"

	"sensewear-go/bus"
	"sensewear-go/types"
	"sensewear-go/x/timex"
)

type Config struct {
	IntervalMs uint32 `json:"interval_ms"` // default 1000
}

type Service struct{}

// Start runs the beacon until ctx is cancelled.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(bus.T("config", "heartbeat"))
	defer cfgSub.Unsubscribe()

	beat := func(level string) {
		st := types.ServiceState{Level: level, Status: "beat", TS: timex.NowMs()}
		conn.Publish(conn.NewMessage(bus.T("heartbeat", "state"), st, true))
	}
	beat("ready")

	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			beat("stopped")
			return
		case <-tick.C:
			beat("ready")
		case msg := <-cfgSub.Channel():
			cfg, ok := msg.Payload.(Config)
			if !ok || cfg.IntervalMs == 0 {
				println("[heartbeat] config: bad payload")
				continue
			}
			tick.Reset(time.Duration(cfg.IntervalMs) * time.Millisecond)
			println("[heartbeat] interval ms:", cfg.IntervalMs)
		}
	}
}
