package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository - view-only mirror of live games for clients that poll.
type SnapshotRepository interface {
	Save(ctx context.Context, kind entity.Kind, room string, snapshot any) error
	Get(ctx context.Context, kind entity.Kind, room string) (json.RawMessage, error)
	Delete(ctx context.Context, kind entity.Kind, room string) error
}

type dbSnapshot struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotRepository - ttl 0 keeps snapshots until the game is ended.
func NewSnapshotRepository(client *redis.Client, ttl time.Duration) SnapshotRepository {
	return &dbSnapshot{
		client: client,
		ttl:    ttl,
	}
}

func snapshotKey(kind entity.Kind, room string) string {
	return "game:" + string(kind) + ":" + room
}

func (that *dbSnapshot) Save(ctx context.Context, kind entity.Kind, room string, snapshot any) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	if err = that.client.Set(ctx, snapshotKey(kind, room), snapshotJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (that *dbSnapshot) Get(ctx context.Context, kind entity.Kind, room string) (json.RawMessage, error) {
	response, err := that.client.Get(ctx, snapshotKey(kind, room)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return response, nil
}

func (that *dbSnapshot) Delete(ctx context.Context, kind entity.Kind, room string) error {
	if err := that.client.Del(ctx, snapshotKey(kind, room)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}
