package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/domain/event"
)

// fakeAPI is a scriptable pull path. Gates allow tests to hold a fetch
// in flight while the session rebinds underneath it.
type fakeAPI struct {
	mu           sync.Mutex
	rooms        map[domain.RoomID]domain.Room
	history      map[domain.RoomID][]domain.Message
	historyGate  chan struct{}
	createErr    error
	nextID       int
	leaveCalls   []domain.RoomID
	createdCount int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		rooms:   make(map[domain.RoomID]domain.Room),
		history: make(map[domain.RoomID][]domain.Message),
	}
}

func (f *fakeAPI) GetRoom(_ context.Context, id domain.RoomID) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("room not found")
	}
	return room, nil
}

func (f *fakeAPI) GetMessages(_ context.Context, id domain.RoomID) ([]domain.Message, error) {
	if f.historyGate != nil {
		<-f.historyGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[id], nil
}

func (f *fakeAPI) CreateMessage(_ context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.Message{}, f.createErr
	}
	f.nextID++
	f.createdCount++
	return domain.Message{
		ID:        fmt.Sprintf("srv-%d", f.nextID),
		Room:      cmd.Room,
		Sender:    domain.User{ID: "local", DisplayName: "Me"},
		Content:   cmd.Content,
		Kind:      domain.KindText,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeAPI) GetReactions(_ context.Context, id domain.RoomID) ([]domain.Reaction, error) {
	return nil, nil
}

func (f *fakeAPI) CreateReaction(_ context.Context, cmd domain.SendReactionCommand) (domain.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return domain.Reaction{
		ID:    fmt.Sprintf("srv-re-%d", f.nextID),
		Room:  cmd.Room,
		User:  domain.User{ID: "local"},
		Emoji: cmd.Emoji,
	}, nil
}

func (f *fakeAPI) LeaveRoom(_ context.Context, id domain.RoomID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaveCalls = append(f.leaveCalls, id)
	return nil
}

type fakePush struct {
	mu        sync.Mutex
	joined    []domain.RoomID
	broadcast []domain.Message
	events    chan event.DomainEvent
}

func newFakePush() *fakePush {
	return &fakePush{events: make(chan event.DomainEvent, 16)}
}

func (f *fakePush) Join(roomID domain.RoomID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, roomID)
	return nil
}

func (f *fakePush) BroadcastMessage(msg domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcast = append(f.broadcast, msg)
	return nil
}

func (f *fakePush) BroadcastReaction(domain.Reaction) error { return nil }
func (f *fakePush) Events() <-chan event.DomainEvent        { return f.events }

func (f *fakePush) broadcastCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.broadcast)
}

func historyMsg(id string, room domain.RoomID) domain.Message {
	return domain.Message{ID: id, Room: room, Content: "history " + id, Kind: domain.KindText}
}

func TestSynchronizer_SendPreemptsPushEcho(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	push := newFakePush()
	s := NewSynchronizer(slog.Default(), api, push)
	s.beginSession("r1")

	msg, err := s.Send(context.Background(), "r1", "hello")
	req.NoError(err)
	req.Len(s.Messages(), 1)
	req.Equal(1, push.broadcastCount())

	// The push-path echo of the same id arrives later and must not create
	// a second entry.
	s.Consume(event.MessageReceived{Message: msg, ReceivedAt: time.Now()})
	req.Len(s.Messages(), 1)
}

func TestSynchronizer_SendFailureHasNoPartialState(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.createErr = fmt.Errorf("boom")
	push := newFakePush()
	s := NewSynchronizer(slog.Default(), api, push)
	s.beginSession("r1")

	_, err := s.Send(context.Background(), "r1", "hello")
	req.Error(err)
	req.Empty(s.Messages())
	req.Zero(push.broadcastCount())
}

func TestSynchronizer_SendRejectsEmptyContent(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	s := NewSynchronizer(slog.Default(), api, newFakePush())
	s.beginSession("r1")

	_, err := s.Send(context.Background(), "r1", "")
	req.Error(err)
	req.Zero(api.createdCount)
}

func TestSynchronizer_HistoryMergesWithEarlierLiveItems(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.history["r1"] = []domain.Message{historyMsg("m1", "r1"), historyMsg("m2", "r1")}
	s := NewSynchronizer(slog.Default(), api, newFakePush())
	s.beginSession("r1")

	req.NoError(s.LoadHistory(context.Background(), "r1"))

	// Live items after the fetch: one duplicate of history, one new.
	s.Consume(event.MessageReceived{Message: historyMsg("m2", "r1")})
	s.Consume(event.MessageReceived{Message: historyMsg("m3", "r1")})

	got := s.Messages()
	req.Len(got, 3)
	req.Equal("m1", got[0].ID)
	req.Equal("m2", got[1].ID)
	req.Equal("m3", got[2].ID)
}

func TestSynchronizer_StaleHistoryFetchIsDiscarded(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.history["a"] = []domain.Message{historyMsg("a1", "a")}
	api.history["b"] = []domain.Message{historyMsg("b1", "b")}
	api.historyGate = make(chan struct{})
	s := NewSynchronizer(slog.Default(), api, newFakePush())

	// Room a's fetch starts and hangs in flight.
	s.beginSession("a")
	done := make(chan struct{})
	go func() {
		_ = s.LoadHistory(context.Background(), "a")
		close(done)
	}()

	// The user switches to room b before a's fetch resolves.
	s.beginSession("b")

	// a's fetch now resolves; its data must not leak into b's session.
	close(api.historyGate)
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("history fetch did not resolve")
	}
	req.Empty(s.Messages())

	api.historyGate = nil
	req.NoError(s.LoadHistory(context.Background(), "b"))
	got := s.Messages()
	req.Len(got, 1)
	req.Equal("b1", got[0].ID)
}

func TestSynchronizer_ConsumeIgnoresForeignRoom(t *testing.T) {
	req := require.New(t)
	s := NewSynchronizer(slog.Default(), newFakeAPI(), newFakePush())
	s.beginSession("r1")

	s.Consume(event.MessageReceived{Message: historyMsg("x1", "r2")})
	req.Empty(s.Messages())
}
