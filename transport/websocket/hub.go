package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const sendBuffer = 64

type connection struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	room   string
	player string
	closed bool
}

func newConnection(conn *websocket.Conn) *connection {
	return &connection{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

func (that *connection) binding() (string, string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.room, that.player
}

func (that *connection) enqueue(message []byte) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return false
	}

	select {
	case that.send <- message:
		return true
	default:
		return false
	}
}

func (that *connection) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.closed {
		that.closed = true
		close(that.send)
	}
}

// Hub - live connections grouped by room. Game events are broadcast to the room they happen in.
type Hub struct {
	logger *slog.Logger

	mu    sync.RWMutex
	rooms map[string]map[string]*connection
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "websocket-hub"),
		rooms:  make(map[string]map[string]*connection),
	}
}

// bind - moves conn to room, leaving the room it was in.
func (that *Hub) bind(conn *connection, room, player string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	conn.mu.Lock()
	previous := conn.room
	conn.room, conn.player = room, player
	conn.mu.Unlock()

	that.remove(conn, previous)

	if that.rooms[room] == nil {
		that.rooms[room] = make(map[string]*connection)
	}
	that.rooms[room][conn.id] = conn
}

// drop - forgets conn and closes its send queue.
func (that *Hub) drop(conn *connection) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, _ := conn.binding()
	that.remove(conn, room)
	conn.close()
}

func (that *Hub) remove(conn *connection, room string) {
	conns, ok := that.rooms[room]
	if !ok {
		return
	}

	delete(conns, conn.id)
	if len(conns) == 0 {
		delete(that.rooms, room)
	}
}

// Publish - pushes a game event to every connection in the notice's room.
func (that *Hub) Publish(_ context.Context, notice entity.Notice) error {
	message, err := encode(actionEvent, notice)
	if err != nil {
		return err
	}

	that.broadcast(notice.Room, message)

	return nil
}

func (that *Hub) broadcast(room string, message []byte) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, conn := range that.rooms[room] {
		if !conn.enqueue(message) {
			that.logger.Warn("send buffer full, message dropped", "room", room, "connection", conn.id)
		}
	}
}

// Connections - number of live connections in room.
func (that *Hub) Connections(room string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms[room])
}

// Close - closes every connection.
func (that *Hub) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for room, conns := range that.rooms {
		for _, conn := range conns {
			conn.close()
			_ = conn.conn.Close()
		}
		delete(that.rooms, room)
	}
}
