// Package transport composes the concrete transport adapters behind the
// single DeliverySink the coordinator talks to.
package transport

import (
	"context"
	goerrors "errors"

	"github.com/IDMendis/RealTimeSecureChatApp/contract"
	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/IDMendis/RealTimeSecureChatApp/errors"
)

// Mux fans a delivery to whichever adapter owns the session. Adapters
// signal non-ownership with ErrUnknownSession so the mux can try the
// next one.
type Mux struct {
	sinks []contract.DeliverySink
}

func NewMux(sinks ...contract.DeliverySink) *Mux {
	return &Mux{sinks: sinks}
}

// Add registers adapters after construction; the coordinator and the
// adapters reference each other, so one side has to be wired late.
func (m *Mux) Add(sinks ...contract.DeliverySink) {
	m.sinks = append(m.sinks, sinks...)
}

func (m *Mux) Deliver(ctx context.Context, sessionID string, msg domain.Message) error {
	for _, sink := range m.sinks {
		err := sink.Deliver(ctx, sessionID, msg)
		if goerrors.Is(err, errors.ErrUnknownSession) {
			continue
		}
		return err
	}
	return errors.ErrUnknownSession
}
