package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/IDMendis/RealTimeSecureChatApp/contract"
	"github.com/IDMendis/RealTimeSecureChatApp/observability"
)

// HeartbeatWorker periodically logs the live gauges: session count,
// room count, and the pipeline counters.
type HeartbeatWorker struct {
	log      *slog.Logger
	interval time.Duration
	registry contract.ISessionRegistry
	rooms    contract.IRoomStore
	monitor  *observability.Monitor
}

func NewHeartbeatWorker(log *slog.Logger, interval time.Duration,
	registry contract.ISessionRegistry, rooms contract.IRoomStore,
	monitor *observability.Monitor) HeartbeatWorker {
	return HeartbeatWorker{log: log, interval: interval, registry: registry, rooms: rooms, monitor: monitor}
}

func (w HeartbeatWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping heartbeat worker")
			return nil
		case <-ticker.C:
			stats := w.monitor.Snapshot()
			w.log.Info("Heartbeat",
				"sessions", w.registry.Count(),
				"rooms", w.rooms.Count(),
				"routed", stats.Routed,
				"rejected", stats.Rejected,
				"delivered", stats.Delivered,
				"delivery_errors", stats.DeliveryErrors,
				"persist_dropped", stats.PersistDropped,
			)
		}
	}
}
