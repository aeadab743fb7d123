// Package lifecycle watches the active room's status and time bounds and
// drives the end-of-room countdown and redirect.
package lifecycle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhi21121211/roomloop-client-sub000/contract"
	"github.com/abhi21121211/roomloop-client-sub000/domain"
)

type State string

const (
	// StateIdle: the room has not been seen live during this view session.
	StateIdle State = "idle"
	// StateObserving: the room was witnessed live; watching for its end.
	StateObserving State = "observing"
	// StateCountingDown: end condition met, redirect timer running.
	StateCountingDown State = "counting_down"
	// StateBypassed: the user chose to keep viewing past closure.
	StateBypassed State = "bypassed"
	// StateRedirected: terminal.
	StateRedirected State = "redirected"
)

type FetchFunc func(ctx context.Context) (domain.Room, error)
type RedirectFunc func(roomID domain.RoomID)

// Monitor is the per-view-session lifecycle state machine. It reads Room
// snapshots from two independent sources — a periodic poll and each fresh
// room fetch — which may fire near-simultaneously; countdown start is
// idempotent for exactly that reason.
//
// A room already closed on first observation never counts down: the user
// lands directly in history-viewing mode for an event they never attended
// live.
type Monitor struct {
	mu       sync.Mutex
	log      *slog.Logger
	store    contract.BypassStore
	fetch    FetchFunc
	redirect RedirectFunc
	onTick   func(remaining int)

	room      domain.RoomID
	state     State
	remaining int

	pollInterval   time.Duration
	tickInterval   time.Duration
	countdownTicks int

	countdownCancel context.CancelFunc
	now             func() time.Time
}

func NewMonitor(log *slog.Logger, store contract.BypassStore, fetch FetchFunc, redirect RedirectFunc,
	pollInterval, tickInterval time.Duration, countdownTicks int) *Monitor {
	return &Monitor{
		log:            log,
		store:          store,
		fetch:          fetch,
		redirect:       redirect,
		state:          StateIdle,
		pollInterval:   pollInterval,
		tickInterval:   tickInterval,
		countdownTicks: countdownTicks,
		now:            time.Now,
	}
}

// SetOnTick installs a countdown display hook, called with the remaining
// tick count after each decrement.
func (m *Monitor) SetOnTick(fn func(remaining int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTick = fn
}

// Start begins a view session for roomID. A durable bypass record from an
// earlier session short-circuits straight to Bypassed.
func (m *Monitor) Start(roomID domain.RoomID) {
	bypassed, err := m.store.Contains(roomID)
	if err != nil {
		m.log.Warn("Bypass lookup failed, assuming no bypass", "room", roomID, "error", err)
		bypassed = false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCountdownLocked()
	m.room = roomID
	m.remaining = 0
	if bypassed {
		m.state = StateBypassed
		return
	}
	m.state = StateIdle
}

// Stop ends the view session: the countdown timer (if any) is torn down
// exactly once and the monitor detaches from the room.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCountdownLocked()
	m.room = ""
	m.state = StateIdle
	m.remaining = 0
}

func (m *Monitor) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

// Observe feeds one Room snapshot through the state machine. Called by the
// poll loop and on every fresh room fetch.
func (m *Monitor) Observe(room domain.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if room.ID != m.room {
		return
	}

	switch m.state {
	case StateIdle:
		if room.Status == domain.StatusLive {
			m.log.Debug("Room observed live", "room", room.ID)
			m.state = StateObserving
		}
	case StateObserving:
		// Either the server already flipped the room closed, or it still
		// reads live/scheduled but the end instant has passed.
		if room.Status == domain.StatusClosed || room.PastEnd(m.now()) {
			m.startCountdownLocked()
		}
	}
}

// Bypass is the "view anyway" action: cancels a running countdown and
// durably records the decision so this room never counts down again on
// this client.
func (m *Monitor) Bypass() {
	m.mu.Lock()
	roomID := m.room
	m.stopCountdownLocked()
	m.state = StateBypassed
	m.remaining = 0
	m.mu.Unlock()

	if roomID == "" {
		return
	}
	if err := m.store.Add(roomID); err != nil {
		m.log.Warn("Bypass record not persisted", "room", roomID, "error", err)
	}
}

// Run is the periodic poll worker. It complements the check-on-fetch path;
// both may observe the end condition and the idempotent countdown start
// absorbs the race.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Debug("Context done, stopping lifecycle poll")
			return nil
		case <-ticker.C:
			m.mu.Lock()
			active := m.room != ""
			m.mu.Unlock()
			if !active {
				continue
			}
			room, err := m.fetch(ctx)
			if err != nil {
				m.log.Debug("Lifecycle poll fetch failed", "error", err)
				continue
			}
			m.Observe(room)
		}
	}
}

// startCountdownLocked arms the redirect timer. Idempotent: a second
// trigger while a countdown is already running is a no-op.
func (m *Monitor) startCountdownLocked() {
	if m.state == StateCountingDown {
		return
	}
	m.state = StateCountingDown
	m.remaining = m.countdownTicks

	ctx, cancel := context.WithCancel(context.Background())
	m.countdownCancel = cancel
	m.log.Info("End-of-room countdown started", "room", m.room, "ticks", m.countdownTicks)

	go m.countdown(ctx)
}

func (m *Monitor) countdown(ctx context.Context) {
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := m.tick(); done {
				return
			}
		}
	}
}

// tick decrements the counter; at zero it performs the redirect and moves
// to the terminal state. Returns true when the countdown is over.
func (m *Monitor) tick() bool {
	m.mu.Lock()
	if m.state != StateCountingDown {
		m.mu.Unlock()
		return true
	}
	m.remaining--
	remaining := m.remaining
	onTick := m.onTick
	roomID := m.room
	redirect := m.redirect
	finished := remaining <= 0
	if finished {
		m.state = StateRedirected
	}
	m.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if finished {
		m.log.Info("Countdown elapsed, redirecting", "room", roomID)
		if redirect != nil {
			redirect(roomID)
		}
	}
	return finished
}

func (m *Monitor) stopCountdownLocked() {
	if m.countdownCancel != nil {
		m.countdownCancel()
		m.countdownCancel = nil
	}
}
