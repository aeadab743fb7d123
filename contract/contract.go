package contract

import (
	"context"
	"reflect"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/domain/event"
)

// RoomAPI is the pull path: request/response operations against the
// platform's REST surface. Implementations own wire compatibility.
type RoomAPI interface {
	GetRoom(ctx context.Context, id domain.RoomID) (domain.Room, error)
	GetMessages(ctx context.Context, id domain.RoomID) ([]domain.Message, error)
	CreateMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	GetReactions(ctx context.Context, id domain.RoomID) ([]domain.Reaction, error)
	CreateReaction(ctx context.Context, cmd domain.SendReactionCommand) (domain.Reaction, error)
	LeaveRoom(ctx context.Context, id domain.RoomID) error
}

// AssistantAPI fronts the assistant service. Chat returns the raw reply
// text; availability gating belongs to the caller.
type AssistantAPI interface {
	Status(ctx context.Context) (bool, error)
	Chat(ctx context.Context, req domain.AssistantRequest) (string, error)
}

// PushChannel is the out-of-band event stream. Events carries every frame
// the server broadcasts, regardless of room; Join adds this client to a
// room's broadcast group; the Broadcast calls are low-latency echoes for
// other clients and are never authoritative.
type PushChannel interface {
	Join(roomID domain.RoomID) error
	BroadcastMessage(msg domain.Message) error
	BroadcastReaction(reaction domain.Reaction) error
	Events() <-chan event.DomainEvent
}

// EventSink consumes routed events. Sinks must not block.
type EventSink interface {
	Consume(e event.DomainEvent)
}

// BypassStore durably records rooms whose end-of-room countdown the user
// chose to skip. This is the only state that outlives a session.
type BypassStore interface {
	Contains(roomID domain.RoomID) (bool, error)
	Add(roomID domain.RoomID) error
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// initialization or lifecycle events, avoiding the need for manual naming
// in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
