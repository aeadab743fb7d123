package session

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/runtime"
)

func newBinderUnderTest(api *fakeAPI, push *fakePush) (*Binder, *Synchronizer, *runtime.Router) {
	log := slog.Default()
	sync := NewSynchronizer(log, api, push)
	router := runtime.NewRouter(log, push, sync)
	return NewBinder(log, api, router, sync), sync, router
}

func liveRoom(id domain.RoomID) domain.Room {
	return domain.Room{
		ID:       id,
		Title:    "Room " + string(id),
		Status:   domain.StatusLive,
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(time.Hour),
	}
}

func TestBinder_ActivateFetchesAndBinds(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.rooms["r1"] = liveRoom("r1")
	api.history["r1"] = []domain.Message{historyMsg("m1", "r1")}
	push := newFakePush()
	binder, sync, router := newBinderUnderTest(api, push)

	room, err := binder.Activate(context.Background(), "r1")
	req.NoError(err)
	req.Equal(domain.RoomID("r1"), room.ID)
	req.Equal(domain.RoomID("r1"), router.Bound())
	req.Equal([]domain.RoomID{"r1"}, push.joined)
	req.Len(sync.Messages(), 1)
	req.NoError(sync.FetchErr())
}

func TestBinder_ActivationFailureIsFatalAndClean(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI() // no rooms registered: details fetch fails
	push := newFakePush()
	binder, sync, router := newBinderUnderTest(api, push)

	_, err := binder.Activate(context.Background(), "missing")
	req.Error(err)
	req.Empty(sync.Room())
	req.Empty(router.Bound())
	req.Empty(push.joined, "no join signal on failed activation")
}

func TestBinder_ReactivationRerunsFullSequence(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.rooms["r1"] = liveRoom("r1")
	push := newFakePush()
	binder, _, _ := newBinderUnderTest(api, push)

	_, err := binder.Activate(context.Background(), "r1")
	req.NoError(err)
	_, err = binder.Activate(context.Background(), "r1")
	req.NoError(err)

	// No cache reuse across activations: both runs fetched and joined.
	req.Equal([]domain.RoomID{"r1", "r1"}, push.joined)
}

func TestBinder_DeactivateNotifiesAndClears(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.rooms["r1"] = liveRoom("r1")
	push := newFakePush()
	binder, sync, router := newBinderUnderTest(api, push)

	_, err := binder.Activate(context.Background(), "r1")
	req.NoError(err)

	binder.Deactivate(context.Background())
	req.Empty(sync.Room())
	req.Empty(router.Bound())
	req.Equal([]domain.RoomID{"r1"}, api.leaveCalls)

	// Deactivating twice stays a no-op.
	binder.Deactivate(context.Background())
	req.Len(api.leaveCalls, 1)
}

func TestBinder_RefreshUpdatesDetailWithoutReset(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.rooms["r1"] = liveRoom("r1")
	api.history["r1"] = []domain.Message{historyMsg("m1", "r1")}
	push := newFakePush()
	binder, sync, _ := newBinderUnderTest(api, push)

	_, err := binder.Activate(context.Background(), "r1")
	req.NoError(err)

	closed := liveRoom("r1")
	closed.Status = domain.StatusClosed
	api.mu.Lock()
	api.rooms["r1"] = closed
	api.mu.Unlock()

	room, err := binder.Refresh(context.Background())
	req.NoError(err)
	req.Equal(domain.StatusClosed, room.Status)
	req.Equal(domain.StatusClosed, sync.Detail().Status)
	req.Len(sync.Messages(), 1, "refresh must not reset the timeline")
}
