package socket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
)

type userPayload struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

type messagePayload struct {
	ID        string      `json:"_id"`
	Room      string      `json:"room"`
	Sender    userPayload `json:"sender"`
	Content   string      `json:"content"`
	Type      string      `json:"type"`
	CreatedAt time.Time   `json:"createdAt"`
}

// receiveMessagePayload tolerates both wire shapes: an explicit roomId
// next to the message, and older emitters that only set the nested
// message.room reference.
type receiveMessagePayload struct {
	RoomID  string         `json:"roomId"`
	Message messagePayload `json:"message"`
}

func decodeMessage(raw json.RawMessage) (domain.Message, error) {
	var p receiveMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Message{}, err
	}
	roomID := p.RoomID
	if roomID == "" {
		roomID = p.Message.Room
	}
	if roomID == "" {
		return domain.Message{}, fmt.Errorf("receive_message without room reference")
	}
	if p.Message.ID == "" {
		return domain.Message{}, fmt.Errorf("receive_message without message id")
	}
	kind := domain.MessageKind(p.Message.Type)
	if kind != domain.KindSystem {
		kind = domain.KindText
	}
	return domain.Message{
		ID:        p.Message.ID,
		Room:      domain.RoomID(roomID),
		Sender:    domain.User{ID: p.Message.Sender.ID, DisplayName: p.Message.Sender.Username},
		Content:   p.Message.Content,
		Kind:      kind,
		CreatedAt: p.Message.CreatedAt,
	}, nil
}

type receiveReactionPayload struct {
	ID        string      `json:"_id"`
	Room      string      `json:"room"`
	User      userPayload `json:"user"`
	Emoji     string      `json:"emoji"`
	CreatedAt time.Time   `json:"createdAt"`
}

func decodeReaction(raw json.RawMessage) (domain.Reaction, error) {
	var p receiveReactionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Reaction{}, err
	}
	if p.Room == "" {
		return domain.Reaction{}, fmt.Errorf("receive_reaction without room reference")
	}
	if p.ID == "" {
		return domain.Reaction{}, fmt.Errorf("receive_reaction without reaction id")
	}
	return domain.Reaction{
		ID:        p.ID,
		Room:      domain.RoomID(p.Room),
		User:      domain.User{ID: p.User.ID, DisplayName: p.User.Username},
		Emoji:     p.Emoji,
		CreatedAt: p.CreatedAt,
	}, nil
}

func encodeMessage(msg domain.Message) messagePayload {
	return messagePayload{
		ID:        msg.ID,
		Room:      string(msg.Room),
		Sender:    userPayload{ID: msg.Sender.ID, Username: msg.Sender.DisplayName},
		Content:   msg.Content,
		Type:      string(msg.Kind),
		CreatedAt: msg.CreatedAt,
	}
}
