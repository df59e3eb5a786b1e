package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/boardgame-backend/internal/command"
)

const (
	actionConnect = "connect"
	actionCommand = "game:command"
	actionEvent   = "game:event"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ConnectPayload - binds the connection to a room and a player.
type ConnectPayload struct {
	Room   string `json:"room"`
	Player string `json:"player"`
}

// CommandPayload - one line of chat text.
type CommandPayload struct {
	Text string `json:"text"`
}

type ReplyPayload struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message"`
	Room    string         `json:"room,omitempty"`
	Player  string         `json:"player,omitempty"`
	Reply   *command.Reply `json:"reply,omitempty"`
}

func encode(action string, payload any) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	message, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return message, nil
}
