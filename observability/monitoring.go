// Package observability aggregates runtime counters for logging and
// inspection. It observes the pipeline, it never participates in it.
package observability

import "sync/atomic"

// Stats is a point-in-time snapshot of the routing pipeline counters.
type Stats struct {
	Routed         uint64 `json:"routed"`
	Rejected       uint64 `json:"rejected"`
	Delivered      uint64 `json:"delivered"`
	DeliveryErrors uint64 `json:"delivery_errors"`
	PersistDropped uint64 `json:"persist_dropped"`
}

// Monitor holds atomic counters shared by every session goroutine.
type Monitor struct {
	routed         atomic.Uint64
	rejected       atomic.Uint64
	delivered      atomic.Uint64
	deliveryErrors atomic.Uint64
	persistDropped atomic.Uint64
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) IncrRouted()         { m.routed.Add(1) }
func (m *Monitor) IncrRejected()       { m.rejected.Add(1) }
func (m *Monitor) IncrDelivered()      { m.delivered.Add(1) }
func (m *Monitor) IncrDeliveryErrors() { m.deliveryErrors.Add(1) }
func (m *Monitor) IncrPersistDropped() { m.persistDropped.Add(1) }

func (m *Monitor) Snapshot() Stats {
	return Stats{
		Routed:         m.routed.Load(),
		Rejected:       m.rejected.Load(),
		Delivered:      m.delivered.Load(),
		DeliveryErrors: m.deliveryErrors.Load(),
		PersistDropped: m.persistDropped.Load(),
	}
}
