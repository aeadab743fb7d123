package services

import (
	"context"
	"log/slog"

	"github.com/abhi21121211/roomloop-client-sub000/assistant"
	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/errors"
	"github.com/abhi21121211/roomloop-client-sub000/lifecycle"
	"github.com/abhi21121211/roomloop-client-sub000/session"
)

type IRoomService interface {
	Activate(ctx context.Context, roomID domain.RoomID) (domain.Room, error)
	Deactivate(ctx context.Context)
	Submit(ctx context.Context, content string) error
	React(ctx context.Context, emoji string) error
	Bypass()
	Messages() []domain.Message
	Reactions() []domain.Reaction
}

// RoomService is the application façade: one active room at a time,
// outgoing messages routed through the command interceptor, lifecycle
// watch tied to the activation.
type RoomService struct {
	log         *slog.Logger
	binder      *session.Binder
	sync        *session.Synchronizer
	interceptor *assistant.Interceptor
	monitor     *lifecycle.Monitor
}

func NewRoomService(log *slog.Logger, binder *session.Binder, sync *session.Synchronizer,
	interceptor *assistant.Interceptor, monitor *lifecycle.Monitor) *RoomService {
	return &RoomService{log: log, binder: binder, sync: sync, interceptor: interceptor, monitor: monitor}
}

func (s *RoomService) Activate(ctx context.Context, roomID domain.RoomID) (domain.Room, error) {
	room, err := s.binder.Activate(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	s.monitor.Start(roomID)
	s.monitor.Observe(room)
	return room, nil
}

func (s *RoomService) Deactivate(ctx context.Context) {
	s.monitor.Stop()
	s.binder.Deactivate(ctx)
}

func (s *RoomService) Submit(ctx context.Context, content string) error {
	roomID := s.sync.Room()
	if roomID == "" {
		return errors.ErrNoActiveRoom
	}
	return s.interceptor.Submit(ctx, roomID, content)
}

func (s *RoomService) React(ctx context.Context, emoji string) error {
	roomID := s.sync.Room()
	if roomID == "" {
		return errors.ErrNoActiveRoom
	}
	_, err := s.sync.SendReaction(ctx, roomID, emoji)
	return err
}

func (s *RoomService) Bypass() {
	s.monitor.Bypass()
}

func (s *RoomService) Messages() []domain.Message {
	return s.sync.Messages()
}

func (s *RoomService) Reactions() []domain.Reaction {
	return s.sync.Reactions()
}
