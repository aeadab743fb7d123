// Package assistant intercepts the reserved command prefix on the outgoing
// message stream and drives the one-shot assistant-reply flow.
package assistant

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/abhi21121211/roomloop-client-sub000/contract"
	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/errors"
)

const (
	// CommandPrefix marks an outgoing message as an assistant command.
	CommandPrefix = "@ai"
	// ReplyMarker prefixes every injected assistant reply, which is also
	// how prior replies are filtered out of the history window.
	ReplyMarker = "🤖 "
	// historyWindow bounds the conversation context handed to the service.
	historyWindow = 8
)

const (
	greetingText            = "👋 Hi! I'm the room assistant. Ask me something like \"@ai what is this room about?\""
	unavailableText         = "🤖 The assistant is having technical difficulties right now. Please try again later."
	apologyNotParticipant   = "🤖 Sorry, I can only answer participants of this room."
	apologyNotAuthenticated = "🤖 Sorry, I couldn't verify who you are. Please sign in again."
	apologyGeneric          = "🤖 Sorry, I couldn't come up with an answer this time."
)

// Sender is the slice of the synchronizer the interceptor needs: the
// ordinary send operation and the merged sequence for history building.
type Sender interface {
	Send(ctx context.Context, roomID domain.RoomID, content string) (domain.Message, error)
	Messages() []domain.Message
}

// Interceptor recognizes the command prefix, forwards the raw command as a
// normal message, then asynchronously requests an assistant reply and
// injects it as a follow-up message. One-shot per command, no retry loop;
// two overlapping commands proceed independently and their replies land in
// arrival order.
type Interceptor struct {
	log       *slog.Logger
	ai        contract.AssistantAPI
	sender    Sender
	localUser domain.User

	mu        sync.Mutex
	available bool
	pending   sync.WaitGroup
}

func NewInterceptor(log *slog.Logger, ai contract.AssistantAPI, sender Sender, localUser domain.User) *Interceptor {
	return &Interceptor{log: log, ai: ai, sender: sender, localUser: localUser, available: true}
}

// RefreshAvailability asks the assistant service for its status. A failed
// status check marks the service unavailable.
func (i *Interceptor) RefreshAvailability(ctx context.Context) {
	available, err := i.ai.Status(ctx)
	if err != nil {
		i.log.Warn("Assistant status check failed", "error", err)
		available = false
	}
	i.mu.Lock()
	i.available = available
	i.mu.Unlock()
}

func (i *Interceptor) Available() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.available
}

// Submit routes one outgoing message. Plain content passes straight
// through; command content is echoed verbatim first (the command stays
// visible in history as the user's contribution), then the flow branches
// on the remainder and on service availability.
func (i *Interceptor) Submit(ctx context.Context, roomID domain.RoomID, content string) error {
	if !strings.HasPrefix(content, CommandPrefix) {
		_, err := i.sender.Send(ctx, roomID, content)
		return err
	}

	if _, err := i.sender.Send(ctx, roomID, content); err != nil {
		return err
	}

	query := strings.TrimSpace(strings.TrimPrefix(content, CommandPrefix))
	if query == "" {
		_, err := i.sender.Send(ctx, roomID, greetingText)
		return err
	}

	if !i.Available() {
		_, err := i.sender.Send(ctx, roomID, unavailableText)
		return err
	}

	// The window is captured now, from the merged sequence as it stands
	// at submission.
	history := i.buildHistory()

	i.pending.Add(1)
	go func() {
		defer i.pending.Done()
		i.requestReply(ctx, roomID, query, history)
	}()
	return nil
}

// Wait blocks until every pending assistant flow has reached its terminal
// outcome. Used on shutdown.
func (i *Interceptor) Wait() {
	i.pending.Wait()
}

func (i *Interceptor) requestReply(ctx context.Context, roomID domain.RoomID, query string, history []domain.AssistantTurn) {
	requestID := uuid.NewString()
	i.log.Debug("Assistant request dispatched", "request_id", requestID, "room", roomID)

	reply, err := i.ai.Chat(ctx, domain.AssistantRequest{
		Message: query,
		Room:    roomID,
		History: history,
	})
	if err != nil {
		i.log.Warn("Assistant request failed", "request_id", requestID, "error", err)
		if stderrors.Is(err, errors.ErrAssistantUnavailable) {
			i.mu.Lock()
			i.available = false
			i.mu.Unlock()
		}
		i.deliver(ctx, roomID, apologyFor(err))
		return
	}
	i.deliver(ctx, roomID, ReplyMarker+reply)
}

// deliver injects the outcome as an ordinary message so it becomes a
// normal, dedup-tracked, visible entry for all participants.
func (i *Interceptor) deliver(ctx context.Context, roomID domain.RoomID, text string) {
	if _, err := i.sender.Send(ctx, roomID, text); err != nil {
		i.log.Warn("Assistant reply injection failed", "room", roomID, "error", err)
	}
}

// buildHistory walks the merged sequence backwards, skipping prior
// assistant replies so the service never sees its own past outputs, and
// keeps the most recent historyWindow entries in chronological order.
func (i *Interceptor) buildHistory() []domain.AssistantTurn {
	messages := i.sender.Messages()
	turns := make([]domain.AssistantTurn, 0, historyWindow)
	for idx := len(messages) - 1; idx >= 0 && len(turns) < historyWindow; idx-- {
		m := messages[idx]
		if strings.HasPrefix(m.Content, ReplyMarker) {
			continue
		}
		role := "assistant"
		if m.Sender.Is(i.localUser) {
			role = "user"
		}
		turns = append(turns, domain.AssistantTurn{Role: role, Content: m.Content})
	}
	// Reverse back to chronological order.
	for l, r := 0, len(turns)-1; l < r; l, r = l+1, r-1 {
		turns[l], turns[r] = turns[r], turns[l]
	}
	return turns
}

func apologyFor(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrNotParticipant):
		return apologyNotParticipant
	case stderrors.Is(err, errors.ErrNotAuthenticated):
		return apologyNotAuthenticated
	default:
		return apologyGeneric
	}
}
