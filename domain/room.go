package domain

import (
	"time"
)

type RoomID string

// RoomStatus transitions scheduled -> live -> closed. The server enforces
// the transitions; this side only observes them.
type RoomStatus string

const (
	StatusScheduled RoomStatus = "scheduled"
	StatusLive      RoomStatus = "live"
	StatusClosed    RoomStatus = "closed"
)

func ParseRoomStatus(s string) RoomStatus {
	switch RoomStatus(s) {
	case StatusScheduled, StatusLive, StatusClosed:
		return RoomStatus(s)
	default:
		return StatusScheduled
	}
}

type Room struct {
	ID           RoomID
	Title        string
	Status       RoomStatus
	StartsAt     time.Time
	EndsAt       time.Time
	Participants []User
	// InvitedUsers only carries meaning when the room is private.
	InvitedUsers []string
	Private      bool
}

// PastEnd reports whether the room's scheduled end instant has elapsed.
// A zero EndsAt means the room has no end bound.
func (r Room) PastEnd(now time.Time) bool {
	return !r.EndsAt.IsZero() && now.After(r.EndsAt)
}
