package observability

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/domain/event"
)

func TestLatencySink_WarnsAboveThreshold(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := NewLatencySink(log, 100*time.Millisecond)

	now := time.Now()
	sink.Consume(event.MessageReceived{
		Message:    domain.Message{ID: "m1", Room: "r1", CreatedAt: now.Add(-time.Second)},
		ReceivedAt: now,
	})
	req.Contains(buf.String(), "high delivery latency")

	buf.Reset()
	sink.Consume(event.MessageReceived{
		Message:    domain.Message{ID: "m2", Room: "r1", CreatedAt: now},
		ReceivedAt: now,
	})
	req.NotContains(buf.String(), "high delivery latency")
}
