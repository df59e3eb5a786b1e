package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/command"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
)

var ErrNotConnected = errors.New("room and player are required")

type router interface {
	Handle(ctx context.Context, room, player, text string) (*command.Reply, error)
}

type Server struct {
	logger   *slog.Logger
	router   router
	hub      *Hub
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, conn *connection, message *Message) error
}

func New(logger *slog.Logger, router router, hub *Hub) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		router: router,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]func(context.Context, *connection, *Message) error),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionCommand] = server.handleCommand

	return server
}

// ServeHTTP - upgrades the request. Optional room and player query parameters bind the connection at once.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(ws)

	if room, player := req.URL.Query().Get("room"), req.URL.Query().Get("player"); room != "" && player != "" {
		that.hub.bind(conn, room, player)
	}

	log.Info("WebSocket connection established", "connection", conn.id)

	go that.writePump(conn)
	that.readPump(req.Context(), conn)
}

// readPump - processes messages from the client until it goes away.
func (that *Server) readPump(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "readPump", "connection", conn.id)

	defer func() {
		that.hub.drop(conn)
		_ = conn.conn.Close()
		log.Info("WebSocket connection closed")
	}()

	conn.conn.SetReadLimit(maxMessageSize)
	_ = conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.reply(conn, actionCommand, ReplyPayload{Message: "invalid message"})
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.reply(conn, message.Action, ReplyPayload{Message: "unknown action"})
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// writePump - the only writer of conn, also keeps it alive with pings.
func (that *Server) writePump(conn *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.send:
			_ = conn.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := conn.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (that *Server) handleConnect(_ context.Context, conn *connection, message *Message) error {
	var payload ConnectPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		that.reply(conn, message.Action, ReplyPayload{Message: "invalid payload"})
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.Room == "" || payload.Player == "" {
		that.reply(conn, message.Action, ReplyPayload{Message: ErrNotConnected.Error()})
		return nil
	}

	that.hub.bind(conn, payload.Room, payload.Player)

	that.reply(conn, message.Action, ReplyPayload{OK: true, Message: "connected", Room: payload.Room, Player: payload.Player})

	return nil
}

// handleCommand - runs chat text for the bound player. Plain chatter gets no answer.
func (that *Server) handleCommand(ctx context.Context, conn *connection, message *Message) error {
	var payload CommandPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		that.reply(conn, message.Action, ReplyPayload{Message: "invalid payload"})
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, player := conn.binding()
	if room == "" {
		that.reply(conn, message.Action, ReplyPayload{Message: ErrNotConnected.Error()})
		return nil
	}

	reply, err := that.router.Handle(ctx, room, player, payload.Text)
	if errors.Is(err, apperror.ErrUnknownCommand) && reply == nil {
		return nil
	}

	if err != nil {
		that.reply(conn, message.Action, ReplyPayload{Message: err.Error(), Room: room, Player: player, Reply: reply})
		return nil
	}

	that.reply(conn, message.Action, ReplyPayload{OK: true, Message: reply.Message, Room: room, Player: player, Reply: reply})

	return nil
}

func (that *Server) reply(conn *connection, action string, payload ReplyPayload) {
	message, err := encode(action, payload)
	if err != nil {
		that.logger.Error("failed to encode reply", "error", err)
		return
	}

	if !conn.enqueue(message) {
		that.logger.Warn("reply dropped", "connection", conn.id)
	}
}
