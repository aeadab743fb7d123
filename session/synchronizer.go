// Package session owns the per-room synchronization state: one ephemeral
// session per active room binding, fed by both the pull path and the push
// path. The binder owns the session exclusively; nothing here is persisted.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhi21121211/roomloop-client-sub000/contract"
	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/domain/event"
	"github.com/abhi21121211/roomloop-client-sub000/projection"
)

// Synchronizer merges pull-fetched history with push-delivered live items
// into one deduplicated timeline per room, and runs the write path
// (pull-path create, then push-path echo for other clients).
//
// The two delivery paths cannot be ordered relative to each other — a push
// echo may land before the create call's confirmation returns — so
// correctness rests on idempotent dedup, not sequencing.
type Synchronizer struct {
	mu   sync.Mutex
	log  *slog.Logger
	api  contract.RoomAPI
	push contract.PushChannel

	room     domain.RoomID
	detail   domain.Room
	timeline *projection.Timeline
	// epoch increments on every session reset; in-flight fetches capture
	// it and discard their result when it has moved on.
	epoch    uint64
	fetchErr error
}

func NewSynchronizer(log *slog.Logger, api contract.RoomAPI, push contract.PushChannel) *Synchronizer {
	return &Synchronizer{
		log:      log,
		api:      api,
		push:     push,
		timeline: projection.NewTimeline(),
	}
}

// beginSession resets all session state and binds roomID. Returns the new
// epoch for stale-result guards. Re-activating the same room id still
// resets everything: room state may have changed since the last visit.
func (s *Synchronizer) beginSession(roomID domain.RoomID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.room = roomID
	s.detail = domain.Room{}
	s.timeline = projection.NewTimeline()
	s.fetchErr = nil
	return s.epoch
}

// clear tears the session down entirely.
func (s *Synchronizer) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.room = ""
	s.detail = domain.Room{}
	s.timeline = projection.NewTimeline()
	s.fetchErr = nil
}

// current reports whether the session still belongs to the given epoch and
// room. Checked at every fetch resolution point.
func (s *Synchronizer) current(epoch uint64, roomID domain.RoomID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch == epoch && s.room == roomID
}

func (s *Synchronizer) setDetail(epoch uint64, room domain.Room) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.room != room.ID {
		return false
	}
	s.detail = room
	return true
}

func (s *Synchronizer) epochOf() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *Synchronizer) Room() domain.RoomID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

func (s *Synchronizer) Detail() domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail
}

// FetchErr exposes the recoverable-fetch error flag. A non-nil value means
// the last history or reaction fetch failed; the session stays usable and
// the caller may retry.
func (s *Synchronizer) FetchErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchErr
}

// LoadHistory pull-fetches the room's message history and replaces the
// session's sequence wholesale. A result arriving after the session has
// rebound is discarded, never applied to the new room.
func (s *Synchronizer) LoadHistory(ctx context.Context, roomID domain.RoomID) error {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	messages, err := s.api.GetMessages(ctx, roomID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.room != roomID {
		s.log.Debug("Discarding stale history fetch", "room", roomID)
		return nil
	}
	if err != nil {
		s.fetchErr = fmt.Errorf("history fetch: %w", err)
		return s.fetchErr
	}
	s.fetchErr = nil
	s.timeline.ReplaceMessages(messages)
	return nil
}

// LoadReactions mirrors LoadHistory for the reaction sequence.
func (s *Synchronizer) LoadReactions(ctx context.Context, roomID domain.RoomID) error {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	reactions, err := s.api.GetReactions(ctx, roomID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.room != roomID {
		s.log.Debug("Discarding stale reaction fetch", "room", roomID)
		return nil
	}
	if err != nil {
		s.fetchErr = fmt.Errorf("reaction fetch: %w", err)
		return s.fetchErr
	}
	s.timeline.ReplaceReactions(reactions)
	return nil
}

// Consume is the router-facing intake for live items. Seen ids are
// no-ops: this is the defense against the double delivery of a client's
// own send (pull confirmation once, push echo once).
func (s *Synchronizer) Consume(e event.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.RoomID() != s.room {
		return
	}
	switch evt := e.(type) {
	case event.MessageReceived:
		if !s.timeline.AppendMessage(evt.Message) {
			s.log.Debug("Duplicate message suppressed", "id", evt.Message.ID)
		}
	case event.ReactionReceived:
		if !s.timeline.AppendReaction(evt.Reaction) {
			s.log.Debug("Duplicate reaction suppressed", "id", evt.Reaction.ID)
		}
	}
}

// Send writes content through the pull path to obtain a durable id,
// applies the confirmed message locally (which pre-empts the later push
// echo via the dedup store), then emits the broadcast signal so other
// clients watching the room receive it promptly. A create failure surfaces
// to the caller and nothing is applied or broadcast.
func (s *Synchronizer) Send(ctx context.Context, roomID domain.RoomID, content string) (domain.Message, error) {
	cmd := domain.SendMessageCommand{Room: roomID, Content: content}
	if err := cmd.Validate(); err != nil {
		return domain.Message{}, err
	}

	msg, err := s.api.CreateMessage(ctx, cmd)
	if err != nil {
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}

	s.mu.Lock()
	if s.room == roomID {
		s.timeline.AppendMessage(msg)
	}
	s.mu.Unlock()

	if err := s.push.BroadcastMessage(msg); err != nil {
		// The durable write already succeeded; the echo is best-effort.
		s.log.Warn("Broadcast after send failed", "id", msg.ID, "error", err)
	}
	return msg, nil
}

// SendReaction is the write-then-broadcast pattern for reactions.
func (s *Synchronizer) SendReaction(ctx context.Context, roomID domain.RoomID, emoji string) (domain.Reaction, error) {
	cmd := domain.SendReactionCommand{Room: roomID, Emoji: emoji}
	if err := cmd.Validate(); err != nil {
		return domain.Reaction{}, err
	}

	reaction, err := s.api.CreateReaction(ctx, cmd)
	if err != nil {
		return domain.Reaction{}, fmt.Errorf("create reaction: %w", err)
	}

	s.mu.Lock()
	if s.room == roomID {
		s.timeline.AppendReaction(reaction)
	}
	s.mu.Unlock()

	if err := s.push.BroadcastReaction(reaction); err != nil {
		s.log.Warn("Broadcast after reaction failed", "id", reaction.ID, "error", err)
	}
	return reaction, nil
}

func (s *Synchronizer) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.Messages()
}

func (s *Synchronizer) Reactions() []domain.Reaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.Reactions()
}
