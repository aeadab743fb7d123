package httpapi

import (
	"time"

	"github.com/samber/lo"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
)

type userDTO struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

func (u userDTO) toDomain() domain.User {
	return domain.User{ID: u.ID, DisplayName: u.Username}
}

type messageDTO struct {
	ID        string    `json:"_id"`
	RoomID    string    `json:"roomId"`
	Sender    userDTO   `json:"sender"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m messageDTO) toDomain() domain.Message {
	kind := domain.MessageKind(m.Type)
	if kind != domain.KindSystem {
		kind = domain.KindText
	}
	return domain.Message{
		ID:        m.ID,
		Room:      domain.RoomID(m.RoomID),
		Sender:    m.Sender.toDomain(),
		Content:   m.Content,
		Kind:      kind,
		CreatedAt: m.CreatedAt,
	}
}

type messagesResponse struct {
	Messages []messageDTO `json:"messages"`
}

func toMessages(dtos []messageDTO) []domain.Message {
	return lo.Map(dtos, func(item messageDTO, _ int) domain.Message {
		return item.toDomain()
	})
}

type reactionDTO struct {
	ID        string    `json:"_id"`
	RoomID    string    `json:"roomId"`
	User      userDTO   `json:"user"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r reactionDTO) toDomain() domain.Reaction {
	return domain.Reaction{
		ID:        r.ID,
		Room:      domain.RoomID(r.RoomID),
		User:      r.User.toDomain(),
		Emoji:     r.Emoji,
		CreatedAt: r.CreatedAt,
	}
}

type reactionsResponse struct {
	Reactions []reactionDTO `json:"reactions"`
}

func toReactions(dtos []reactionDTO) []domain.Reaction {
	return lo.Map(dtos, func(item reactionDTO, _ int) domain.Reaction {
		return item.toDomain()
	})
}

type roomDTO struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Participants []userDTO `json:"participants"`
	InvitedUsers []string  `json:"invitedUsers"`
	IsPrivate    bool      `json:"isPrivate"`
}

func (r roomDTO) toDomain() domain.Room {
	return domain.Room{
		ID:       domain.RoomID(r.ID),
		Title:    r.Title,
		Status:   domain.ParseRoomStatus(r.Status),
		StartsAt: r.StartTime,
		EndsAt:   r.EndTime,
		Participants: lo.Map(r.Participants, func(item userDTO, _ int) domain.User {
			return item.toDomain()
		}),
		InvitedUsers: r.InvitedUsers,
		Private:      r.IsPrivate,
	}
}
