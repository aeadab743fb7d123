package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/domain/event"
)

type fakeChannel struct {
	events chan event.DomainEvent
	joined []domain.RoomID
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{events: make(chan event.DomainEvent, 16)}
}

func (f *fakeChannel) Join(roomID domain.RoomID) error {
	f.joined = append(f.joined, roomID)
	return nil
}

func (f *fakeChannel) BroadcastMessage(domain.Message) error   { return nil }
func (f *fakeChannel) BroadcastReaction(domain.Reaction) error { return nil }
func (f *fakeChannel) Events() <-chan event.DomainEvent        { return f.events }

type collectingSink struct {
	got chan event.DomainEvent
}

func (s *collectingSink) Consume(e event.DomainEvent) { s.got <- e }

func messageFor(room domain.RoomID, id string) event.MessageReceived {
	return event.MessageReceived{
		Message:    domain.Message{ID: id, Room: room, Content: "hi"},
		ReceivedAt: time.Now(),
	}
}

func TestRouter_ForwardsOnlyBoundRoom(t *testing.T) {
	req := require.New(t)
	push := newFakeChannel()
	sink := &collectingSink{got: make(chan event.DomainEvent, 16)}
	router := NewRouter(slog.Default(), push, sink)

	req.NoError(router.Bind("room-a"))
	req.Equal([]domain.RoomID{"room-a"}, push.joined)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = router.Run(ctx)
		close(done)
	}()

	push.events <- messageFor("room-b", "m1") // foreign room, dropped
	push.events <- messageFor("room-a", "m2")
	push.events <- messageFor("room-c", "m3") // foreign room, dropped
	push.events <- messageFor("room-a", "m4")

	for _, want := range []string{"m2", "m4"} {
		select {
		case e := <-sink.got:
			req.Equal(want, e.(event.MessageReceived).Message.ID)
		case <-time.After(time.Second):
			req.Fail("expected forwarded event " + want)
		}
	}
	req.Empty(sink.got)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("router did not stop on context cancel")
	}
}

func TestRouter_DropsEverythingWhenUnbound(t *testing.T) {
	req := require.New(t)
	push := newFakeChannel()
	sink := &collectingSink{got: make(chan event.DomainEvent, 16)}
	router := NewRouter(slog.Default(), push, sink)

	req.NoError(router.Bind("room-a"))
	router.Unbind()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Run(ctx) }()

	push.events <- messageFor("room-a", "m1")

	select {
	case <-sink.got:
		req.Fail("event forwarded after unbind")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRouter_StopsWhenStreamCloses(t *testing.T) {
	req := require.New(t)
	push := newFakeChannel()
	router := NewRouter(slog.Default(), push)

	done := make(chan error, 1)
	go func() { done <- router.Run(context.Background()) }()
	close(push.events)

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("router did not stop on stream close")
	}
}
