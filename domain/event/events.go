// Package event defines the typed events delivered over the push channel.
package event

import (
	"time"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
)

// DomainEvent is anything the push channel can deliver. RoomID is the
// routing key: the router drops events whose room does not match the
// currently bound one.
type DomainEvent interface {
	RoomID() domain.RoomID
}

type MessageReceived struct {
	Message domain.Message
	// ReceivedAt is stamped at decode time, used for delivery telemetry.
	ReceivedAt time.Time
}

func (e MessageReceived) RoomID() domain.RoomID {
	return e.Message.Room
}

type ReactionReceived struct {
	Reaction   domain.Reaction
	ReceivedAt time.Time
}

func (e ReactionReceived) RoomID() domain.RoomID {
	return e.Reaction.Room
}
