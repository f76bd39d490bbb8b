package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/IDMendis/RealTimeSecureChatApp/contract"
	"github.com/IDMendis/RealTimeSecureChatApp/domain"
)

// PersistWorker drains the coordinator's fire-and-forget queue into the
// Persistence Sink. Storage failures are logged and dropped: durable
// history is a copy of the routed traffic, never a gate on it.
type PersistWorker struct {
	log         *slog.Logger
	queue       <-chan domain.Message
	sink        contract.PersistenceSink
	sinkTimeout time.Duration
}

func NewPersistWorker(log *slog.Logger, queue <-chan domain.Message,
	sink contract.PersistenceSink, sinkTimeout time.Duration) PersistWorker {
	return PersistWorker{log: log, queue: queue, sink: sink, sinkTimeout: sinkTimeout}
}

func (w PersistWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping persist worker")
			return nil
		case msg, ok := <-w.queue:
			if !ok {
				return nil
			}
			w.consume(ctx, msg)
		}
	}
}

func (w PersistWorker) consume(ctx context.Context, msg domain.Message) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()

	if err := w.sink.Consume(sinkCtx, msg); err != nil {
		w.log.Warn("Persistence sink failed", "id", msg.ID, "error", err)
	}
}
