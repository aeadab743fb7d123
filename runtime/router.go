package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhi21121211/roomloop-client-sub000/contract"
	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/domain/event"
)

// Router is the room-scoped event router. It consumes every event the push
// channel delivers — the transport is not room-partitioned — and forwards
// only those matching the currently bound room to its sinks. Events for
// other rooms are dropped silently: that is normal traffic, not an error.
//
// Bind also emits the join_room signal so the server adds this client to
// the room's broadcast group. There is no symmetric leave signal; the next
// bind's mismatch filtering provides isolation.
type Router struct {
	mu    sync.Mutex
	log   *slog.Logger
	push  contract.PushChannel
	sinks []contract.EventSink
	bound domain.RoomID
}

func NewRouter(log *slog.Logger, push contract.PushChannel, sinks ...contract.EventSink) *Router {
	return &Router{log: log, push: push, sinks: sinks}
}

// Bind points the router at roomID and joins its broadcast group.
func (r *Router) Bind(roomID domain.RoomID) error {
	r.mu.Lock()
	r.bound = roomID
	r.mu.Unlock()

	if err := r.push.Join(roomID); err != nil {
		return fmt.Errorf("join_room %s: %w", roomID, err)
	}
	return nil
}

func (r *Router) Unbind() {
	r.mu.Lock()
	r.bound = ""
	r.mu.Unlock()
}

func (r *Router) Bound() domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bound
}

// Run is the always-on raw-event intake. It terminates when ctx is
// canceled or the push channel's event stream closes.
func (r *Router) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.log.Debug("Context done, stopping router")
			return nil
		case e, ok := <-r.push.Events():
			if !ok {
				r.log.Debug("Push event stream closed")
				return nil
			}
			r.intake(e)
		}
	}
}

func (r *Router) intake(e event.DomainEvent) {
	bound := r.Bound()
	if bound == "" || e.RoomID() != bound {
		r.log.Debug("Dropping event for unbound room", "room", e.RoomID(), "bound", bound)
		return
	}
	for _, sink := range r.sinks {
		sink.Consume(e)
	}
}
