package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/boardgame-backend/internal/command"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readWait = 2 * time.Second

type eventPayload struct {
	Kind   entity.Kind  `json:"kind"`
	Room   string       `json:"room"`
	Player string       `json:"player"`
	Event  entity.Event `json:"event"`
}

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	hub := NewHub(logger)
	manager := usecase.NewGameManager(logger, usecase.Sinks{Events: hub}, usecase.Settings{GomokuSize: 15, GoSize: 9, Komi: 6.5})
	router := command.NewRouter(logger, manager, nil)

	srv := httptest.NewServer(New(logger, router, hub))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return srv, hub
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()

	message, err := encode(action, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, message))
}

// next - reads until a message with action arrives.
func next(t *testing.T, conn *websocket.Conn, action string) json.RawMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readWait)))

	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var message Message
		require.NoError(t, json.Unmarshal(data, &message))

		if message.Action == action {
			return message.Payload
		}
	}
}

func nextReply(t *testing.T, conn *websocket.Conn) ReplyPayload {
	t.Helper()

	var payload ReplyPayload
	require.NoError(t, json.Unmarshal(next(t, conn, actionCommand), &payload))

	return payload
}

func TestServer_Connect(t *testing.T) {
	srv, hub := newTestServer(t)

	t.Run("Query binding", func(t *testing.T) {
		dial(t, srv, "?room=room-1&player=alice")

		assert.Eventually(t, func() bool { return hub.Connections("room-1") == 1 }, readWait, 10*time.Millisecond)
	})

	t.Run("Connect action", func(t *testing.T) {
		conn := dial(t, srv, "")

		send(t, conn, actionConnect, ConnectPayload{Room: "room-2", Player: "bob"})

		var payload ReplyPayload
		require.NoError(t, json.Unmarshal(next(t, conn, actionConnect), &payload))
		assert.True(t, payload.OK)
		assert.Equal(t, "room-2", payload.Room)
		assert.Equal(t, 1, hub.Connections("room-2"))
	})

	t.Run("Missing player", func(t *testing.T) {
		conn := dial(t, srv, "")

		send(t, conn, actionConnect, ConnectPayload{Room: "room-3"})

		var payload ReplyPayload
		require.NoError(t, json.Unmarshal(next(t, conn, actionConnect), &payload))
		assert.False(t, payload.OK)
		assert.Equal(t, ErrNotConnected.Error(), payload.Message)
	})

	t.Run("Command before connect", func(t *testing.T) {
		conn := dial(t, srv, "")

		send(t, conn, actionCommand, CommandPayload{Text: "井字棋"})

		payload := nextReply(t, conn)
		assert.False(t, payload.OK)
	})
}

func TestServer_PlayAndBroadcast(t *testing.T) {
	srv, hub := newTestServer(t)

	// Given: two players in one room
	alice := dial(t, srv, "?room=room-1&player=alice")
	bob := dial(t, srv, "?room=room-1&player=bob")
	assert.Eventually(t, func() bool { return hub.Connections("room-1") == 2 }, readWait, 10*time.Millisecond)

	// When: alice creates a game
	send(t, alice, actionCommand, CommandPayload{Text: "/井字棋"})

	// Then: alice gets a reply and both see the event
	reply := nextReply(t, alice)
	assert.True(t, reply.OK)
	require.NotNil(t, reply.Reply)
	assert.Equal(t, entity.EventCreated, reply.Reply.Event)

	var event eventPayload
	require.NoError(t, json.Unmarshal(next(t, bob, actionEvent), &event))
	assert.Equal(t, entity.EventCreated, event.Event)
	assert.Equal(t, "alice", event.Player)
	assert.Equal(t, entity.KindTicTacToe, event.Kind)

	// When: bob joins and plays out of turn
	send(t, bob, actionCommand, CommandPayload{Text: "join"})
	assert.True(t, nextReply(t, bob).OK)

	send(t, bob, actionCommand, CommandPayload{Text: "下棋 5"})
	rejected := nextReply(t, bob)

	// Then: the rule is reported back
	assert.False(t, rejected.OK)
	assert.NotEmpty(t, rejected.Message)

	// When: bob chats while alice moves
	send(t, bob, actionCommand, CommandPayload{Text: "good luck"})
	send(t, alice, actionCommand, CommandPayload{Text: "5"})

	// Then: chatter is ignored and the bare move is broadcast
	require.NoError(t, json.Unmarshal(next(t, bob, actionEvent), &event))
	for event.Event != entity.EventPlaced {
		require.NoError(t, json.Unmarshal(next(t, bob, actionEvent), &event))
	}
	assert.Equal(t, "alice", event.Player)
}

func TestHub_Publish(t *testing.T) {
	srv, hub := newTestServer(t)

	conn := dial(t, srv, "?room=room-9&player=carol")
	assert.Eventually(t, func() bool { return hub.Connections("room-9") == 1 }, readWait, 10*time.Millisecond)

	// When:
	err := hub.Publish(context.Background(), entity.Notice{Kind: entity.KindGo, Room: "room-9", Event: entity.EventTimedOut})
	require.NoError(t, err)

	// Then:
	var event eventPayload
	require.NoError(t, json.Unmarshal(next(t, conn, actionEvent), &event))
	assert.Equal(t, entity.EventTimedOut, event.Event)

	require.NoError(t, hub.Publish(context.Background(), entity.Notice{Room: "empty-room"}))
}
