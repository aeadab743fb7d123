// Package observability carries delivery telemetry for the push path.
package observability

import (
	"log/slog"
	"time"

	"github.com/abhi21121211/roomloop-client-sub000/domain/event"
)

// LatencySink measures push-delivery lag: the gap between an item's
// creation instant and its arrival on this client. Purely observational,
// never on the critical path.
type LatencySink struct {
	log              *slog.Logger
	latencyThreshold time.Duration
}

func NewLatencySink(log *slog.Logger, latencyThreshold time.Duration) *LatencySink {
	return &LatencySink{log: log, latencyThreshold: latencyThreshold}
}

func (s *LatencySink) Consume(e event.DomainEvent) {
	var leadTime time.Duration
	switch evt := e.(type) {
	case event.MessageReceived:
		leadTime = evt.ReceivedAt.Sub(evt.Message.CreatedAt)
	case event.ReactionReceived:
		leadTime = evt.ReceivedAt.Sub(evt.Reaction.CreatedAt)
	default:
		return
	}

	s.log.Debug("telemetry: delivery latency",
		"room_id", e.RoomID(),
		"lead_time_ms", leadTime.Milliseconds(),
	)
	if leadTime > s.latencyThreshold {
		s.log.Warn("high delivery latency detected", "lead_time", leadTime)
	}
}
