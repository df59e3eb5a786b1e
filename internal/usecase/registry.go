package usecase

import "sync"

// slot - one room's session, guarded by its own lock.
type slot[S any] struct {
	mu      sync.Mutex
	game    S
	present bool
}

func (that *slot[S]) set(game S) {
	that.game = game
	that.present = true
}

func (that *slot[S]) clear() {
	var zero S
	that.game = zero
	that.present = false
}

// Registry - room-keyed sessions of one game kind.
// The map lock is held only for lookup; every session operation runs under the room lock.
type Registry[S any] struct {
	mu    sync.Mutex
	rooms map[string]*slot[S]
}

func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{
		rooms: make(map[string]*slot[S]),
	}
}

func (that *Registry[S]) slot(room string) *slot[S] {
	that.mu.Lock()
	defer that.mu.Unlock()

	s, ok := that.rooms[room]
	if !ok {
		s = &slot[S]{}
		that.rooms[room] = s
	}

	return s
}

// do - runs fn inside room's critical section.
func (that *Registry[S]) do(room string, fn func(s *slot[S])) {
	s := that.slot(room)

	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s)
}

// Rooms - keys of rooms that currently hold a session.
func (that *Registry[S]) Rooms() []string {
	that.mu.Lock()
	slots := make(map[string]*slot[S], len(that.rooms))
	for room, s := range that.rooms {
		slots[room] = s
	}
	that.mu.Unlock()

	rooms := make([]string, 0, len(slots))
	for room, s := range slots {
		s.mu.Lock()
		if s.present {
			rooms = append(rooms, room)
		}
		s.mu.Unlock()
	}

	return rooms
}
