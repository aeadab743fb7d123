package domain

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SendMessageCommand is the outgoing write on the pull path. The server
// answers with the authoritative Message (id, timestamp).
type SendMessageCommand struct {
	Room    RoomID `validate:"required"`
	Content string `validate:"required,max=2000"`
}

func (c SendMessageCommand) Validate() error {
	return validate.Struct(c)
}

type SendReactionCommand struct {
	Room  RoomID `validate:"required"`
	Emoji string `validate:"required,max=16"`
}

func (c SendReactionCommand) Validate() error {
	return validate.Struct(c)
}

// AssistantTurn is one entry of the bounded conversation window handed to
// the assistant service.
type AssistantTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AssistantRequest struct {
	Message string
	Room    RoomID
	History []AssistantTurn
}
