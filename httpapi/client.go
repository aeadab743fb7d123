// Package httpapi implements the pull path against the platform's REST
// surface, and the assistant service endpoints.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/errors"
)

// Client talks JSON over HTTP with a bearer token. It implements
// contract.RoomAPI and contract.AssistantAPI.
type Client struct {
	log     *slog.Logger
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(log *slog.Logger, baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		log:     log,
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetRoom(ctx context.Context, id domain.RoomID) (domain.Room, error) {
	var dto roomDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/rooms/%s", id), nil, &dto); err != nil {
		return domain.Room{}, err
	}
	return dto.toDomain(), nil
}

func (c *Client) GetMessages(ctx context.Context, id domain.RoomID) ([]domain.Message, error) {
	var resp messagesResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/messages/rooms/%s", id), nil, &resp); err != nil {
		return nil, err
	}
	return toMessages(resp.Messages), nil
}

func (c *Client) CreateMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	body := map[string]string{"content": cmd.Content}
	var resp struct {
		Message messageDTO `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/messages/rooms/%s", cmd.Room), body, &resp); err != nil {
		return domain.Message{}, err
	}
	return resp.Message.toDomain(), nil
}

func (c *Client) GetReactions(ctx context.Context, id domain.RoomID) ([]domain.Reaction, error) {
	var resp reactionsResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/reactions/rooms/%s", id), nil, &resp); err != nil {
		return nil, err
	}
	return toReactions(resp.Reactions), nil
}

func (c *Client) CreateReaction(ctx context.Context, cmd domain.SendReactionCommand) (domain.Reaction, error) {
	body := map[string]string{"emoji": cmd.Emoji}
	var resp struct {
		Reaction reactionDTO `json:"reaction"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/reactions/rooms/%s", cmd.Room), body, &resp); err != nil {
		return domain.Reaction{}, err
	}
	return resp.Reaction.toDomain(), nil
}

func (c *Client) LeaveRoom(ctx context.Context, id domain.RoomID) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/rooms/%s/leave", id), nil, nil)
}

func (c *Client) Status(ctx context.Context) (bool, error) {
	var resp struct {
		Available bool `json:"available"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/ai/status", nil, &resp); err != nil {
		return false, err
	}
	return resp.Available, nil
}

func (c *Client) Chat(ctx context.Context, req domain.AssistantRequest) (string, error) {
	body := map[string]any{
		"message": req.Message,
		"roomId":  string(req.Room),
		"history": req.History,
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ai/chat", body, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

// do performs one JSON round trip and maps HTTP status codes onto the
// sentinel error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.statusError(method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) statusError(method, path string, status int) error {
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, errors.ErrNotAuthenticated)
	case http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, errors.ErrNotParticipant)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, errors.ErrRoomNotFound)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%s %s: %w", method, path, errors.ErrAssistantUnavailable)
	default:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, status)
	}
}
