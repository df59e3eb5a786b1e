// Package scheduler expires games whose players stop responding.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const (
	DefaultTurnTimeout = 60 * time.Second
	DefaultJoinTimeout = 60 * time.Second
)

type games interface {
	Due(kind entity.Kind, room string) (entity.Due, bool)
	End(ctx context.Context, kind entity.Kind, room string) bool
	ForceResign(ctx context.Context, kind entity.Kind, room string) (any, entity.Event, error)
}

// Timeouts - how long a waiting game or a turn may idle.
type Timeouts struct {
	Turn time.Duration
	Join time.Duration
}

type timer struct {
	kind entity.Kind
	due  entity.Due
	stop func() bool
}

// Watcher - at most one pending timer per room.
type Watcher struct {
	logger   *slog.Logger
	games    games
	timeouts Timeouts

	mu     sync.Mutex
	timers map[string]*timer
}

func NewWatcher(logger *slog.Logger, games games, timeouts Timeouts) *Watcher {
	if timeouts.Turn <= 0 {
		timeouts.Turn = DefaultTurnTimeout
	}

	if timeouts.Join <= 0 {
		timeouts.Join = DefaultJoinTimeout
	}

	return &Watcher{
		logger:   logger.With("component", "scheduler"),
		games:    games,
		timeouts: timeouts,
		timers:   make(map[string]*timer),
	}
}

// Touch - rearms the room's timer from the game's current state.
func (that *Watcher) Touch(ctx context.Context, kind entity.Kind, room string) {
	due, ok := that.games.Due(kind, room)
	if !ok || due.Finished {
		that.Cancel(room)
		return
	}

	delay := that.timeouts.Turn
	if due.Waiting {
		delay = that.timeouts.Join
	}

	ctx = context.WithoutCancel(ctx)

	that.mu.Lock()
	defer that.mu.Unlock()

	if previous, found := that.timers[room]; found {
		previous.stop()
	}

	t := &timer{kind: kind, due: due}
	t.stop = time.AfterFunc(delay, func() { that.fire(ctx, room, t) }).Stop
	that.timers[room] = t

	that.logger.Debug("timer armed", "room", room, "kind", kind, "player", due.Player, "waiting", due.Waiting, "delay", delay)
}

// Cancel - drops the room's pending timer.
func (that *Watcher) Cancel(room string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if t, ok := that.timers[room]; ok {
		t.stop()
		delete(that.timers, room)
	}
}

// Pending - number of armed timers.
func (that *Watcher) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.timers)
}

// Stop - cancels every pending timer.
func (that *Watcher) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for room, t := range that.timers {
		t.stop()
		delete(that.timers, room)
	}
}

func (that *Watcher) fire(ctx context.Context, room string, t *timer) {
	that.mu.Lock()
	if that.timers[room] != t {
		that.mu.Unlock()
		return
	}
	delete(that.timers, room)
	that.mu.Unlock()

	log := that.logger.With("method", "fire", "room", room, "kind", t.kind)

	current, ok := that.games.Due(t.kind, room)
	if !ok || current != t.due {
		log.Debug("stale timer ignored")
		return
	}

	if current.Waiting {
		if that.games.End(ctx, t.kind, room) {
			log.Info("join timeout, game closed")
		}
		return
	}

	if _, _, err := that.games.ForceResign(ctx, t.kind, room); err != nil {
		log.Error("failed to force resign", "player", current.Player, "error", err)
		return
	}

	log.Info("turn timeout, player resigned", "player", current.Player)
}
