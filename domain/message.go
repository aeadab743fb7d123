// Package domain contains core concepts of the room synchronization core.
// Messages and reactions are immutable once created; identity is always
// server-assigned.
package domain

import (
	"time"
)

type MessageKind string

const (
	KindText   MessageKind = "text"
	KindSystem MessageKind = "system"
)

// Message represents an immutable chat entry inside a room.
type Message struct {
	ID        string
	Room      RoomID
	Sender    User
	Content   string
	Kind      MessageKind
	CreatedAt time.Time
}

// Reaction is an append-only emoji emission. Two reactions with the same
// emoji from the same user are distinct entries: the platform counts
// reactions, it does not toggle them.
type Reaction struct {
	ID        string
	Room      RoomID
	User      User
	Emoji     string
	CreatedAt time.Time
}
