package domain

// User identifies a participant as the server presents it.
// The zero value means "unknown sender" and only shows up on
// malformed push payloads.
type User struct {
	ID          string
	DisplayName string
}

func (u User) Is(other User) bool {
	return u.ID != "" && u.ID == other.ID
}
