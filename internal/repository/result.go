package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// ResultRepository - archive of finished games.
type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	ListByPlayer(ctx context.Context, player string, limit int) ([]*entity.Result, error)
	Record(ctx context.Context, player string, kind entity.Kind) (*entity.Record, error)
}

type resultRepository struct {
	conn *sql.DB
}

func NewResultRepository(conn *sql.DB) ResultRepository {
	return &resultRepository{
		conn: conn,
	}
}

// Save - assigns an id when the result has none.
func (that *resultRepository) Save(ctx context.Context, result *entity.Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	query := `INSERT INTO results (id, kind, room, first, second, winner, draw, reason, moves, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		result.ID,
		string(result.Kind),
		result.Room,
		result.First,
		result.Second,
		result.Winner,
		result.Draw,
		string(result.Reason),
		result.Moves,
		result.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("can't save result: %w", err)
	}

	return nil
}

// ListByPlayer - newest first.
func (that *resultRepository) ListByPlayer(ctx context.Context, player string, limit int) ([]*entity.Result, error) {
	query := `SELECT id, kind, room, first, second, winner, draw, reason, moves, finished_at
		FROM results
		WHERE first = ? OR second = ?
		ORDER BY finished_at DESC
		LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, player, player, limit)
	if err != nil {
		return nil, fmt.Errorf("can't list results: %w", err)
	}
	defer rows.Close()

	var results []*entity.Result

	for rows.Next() {
		var (
			result     entity.Result
			kind       string
			reason     string
			finishedAt int64
		)

		if err = rows.Scan(
			&result.ID, &kind, &result.Room, &result.First, &result.Second,
			&result.Winner, &result.Draw, &reason, &result.Moves, &finishedAt,
		); err != nil {
			return nil, fmt.Errorf("can't scan result: %w", err)
		}

		result.Kind = entity.Kind(kind)
		result.Reason = entity.Event(reason)
		result.FinishedAt = time.UnixMilli(finishedAt).UTC()

		results = append(results, &result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list results: %w", err)
	}

	return results, nil
}

// Record - wins, losses and draws of player. An empty kind counts every kind.
func (that *resultRepository) Record(ctx context.Context, player string, kind entity.Kind) (*entity.Record, error) {
	query := `SELECT
			COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN draw = 0 AND winner <> ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN draw = 1 THEN 1 ELSE 0 END), 0)
		FROM results
		WHERE (first = ? OR second = ?) AND (? = '' OR kind = ?)`

	record := &entity.Record{Player: player, Kind: kind}

	err := that.conn.QueryRowContext(ctx, query,
		player, player, player, player, string(kind), string(kind),
	).Scan(&record.Wins, &record.Losses, &record.Draws)
	if err != nil {
		return nil, fmt.Errorf("can't count results: %w", err)
	}

	return record, nil
}
