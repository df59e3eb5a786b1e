package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const DefaultPrefix = "games"

// Publisher - fire-and-forget game events on <prefix>.<kind>.<room>.
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

func New(url, prefix string) (*Publisher, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("boardgame-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.PingInterval(20*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Publisher{conn: conn, prefix: prefix}, nil
}

func (that *Publisher) Publish(_ context.Context, notice entity.Notice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}

	if err = that.conn.Publish(Subject(that.prefix, notice.Kind, notice.Room), data); err != nil {
		return fmt.Errorf("failed to publish notice: %w", err)
	}

	return nil
}

// Close - flushes pending messages and closes the connection.
func (that *Publisher) Close() error {
	if err := that.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}

	return nil
}

var tokenReplacer = strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_", "\t", "_")

// Subject - room ids become a single subject token.
func Subject(prefix string, kind entity.Kind, room string) string {
	if room == "" {
		room = "_"
	}

	return prefix + "." + string(kind) + "." + tokenReplacer.Replace(room)
}
