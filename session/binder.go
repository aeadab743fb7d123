package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhi21121211/roomloop-client-sub000/contract"
	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/errors"
	"github.com/abhi21121211/roomloop-client-sub000/runtime"
)

// Binder owns the notion of "current room". Activation resets the session,
// fetches room details and history over the pull path, and (re)binds the
// event router; teardown unbinds and best-effort notifies the
// room-membership collaborator.
type Binder struct {
	log    *slog.Logger
	api    contract.RoomAPI
	router *runtime.Router
	sync   *Synchronizer
}

func NewBinder(log *slog.Logger, api contract.RoomAPI, router *runtime.Router, sync *Synchronizer) *Binder {
	return &Binder{log: log, api: api, router: router, sync: sync}
}

// Activate binds roomID as the active room. The room-details fetch is
// sequenced first and its failure aborts the activation (fatal-activation:
// the caller is expected to navigate away); history and reaction fetch
// failures only set the session's recoverable error flag.
//
// Activation is never cached: re-activating the same id re-runs the full
// sequence, since participants and status may have changed.
func (b *Binder) Activate(ctx context.Context, roomID domain.RoomID) (domain.Room, error) {
	epoch := b.sync.beginSession(roomID)

	room, err := b.api.GetRoom(ctx, roomID)
	if err != nil {
		// Do not leave a half-initialized session behind, but only tear
		// down if a newer activation has not already taken over.
		if b.sync.current(epoch, roomID) {
			b.sync.clear()
			b.router.Unbind()
		}
		return domain.Room{}, fmt.Errorf("room %s: %w", roomID, err)
	}
	if !b.sync.setDetail(epoch, room) {
		return domain.Room{}, errors.ErrActivationSuperseded
	}

	if err := b.router.Bind(roomID); err != nil {
		b.log.Warn("Join signal failed, live updates may lag", "room", roomID, "error", err)
	}

	if err := b.sync.LoadHistory(ctx, roomID); err != nil {
		b.log.Warn("History fetch failed, session stays retryable", "room", roomID, "error", err)
	}
	if err := b.sync.LoadReactions(ctx, roomID); err != nil {
		b.log.Warn("Reaction fetch failed, session stays retryable", "room", roomID, "error", err)
	}
	return room, nil
}

// Refresh re-fetches the active room's details without resetting the
// session. Feeds the lifecycle monitor's check-on-fetch path.
func (b *Binder) Refresh(ctx context.Context) (domain.Room, error) {
	roomID := b.sync.Room()
	if roomID == "" {
		return domain.Room{}, errors.ErrNoActiveRoom
	}
	epoch := b.sync.epochOf()

	room, err := b.api.GetRoom(ctx, roomID)
	if err != nil {
		return domain.Room{}, fmt.Errorf("room refresh %s: %w", roomID, err)
	}
	if !b.sync.setDetail(epoch, room) {
		return domain.Room{}, errors.ErrActivationSuperseded
	}
	return room, nil
}

// Deactivate tears the binding down: unbind the router, notify the
// membership collaborator (fire-and-forget, failures are not surfaced),
// and clear the session. In-flight fetch results become stale and will be
// discarded at their resolution point.
func (b *Binder) Deactivate(ctx context.Context) {
	roomID := b.sync.Room()
	if roomID == "" {
		return
	}
	b.router.Unbind()
	if err := b.api.LeaveRoom(ctx, roomID); err != nil {
		b.log.Debug("Leave notification failed", "room", roomID, "error", err)
	}
	b.sync.clear()
}
