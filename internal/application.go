package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/boardgame-backend/internal/command"
	"github.com/rocketscienceinc/boardgame-backend/internal/config"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository/storage"
	"github.com/rocketscienceinc/boardgame-backend/internal/scheduler"
	"github.com/rocketscienceinc/boardgame-backend/internal/transport/nats"
	"github.com/rocketscienceinc/boardgame-backend/internal/usecase"
	"github.com/rocketscienceinc/boardgame-backend/transport/rest"
	"github.com/rocketscienceinc/boardgame-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until ctx is done or SIGINT/SIGTERM arrives.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(logger)
	defer hub.Close()

	sinks := usecase.Sinks{}
	publishers := usecase.Publishers{hub}
	deps := rest.Deps{}

	if conf.Redis.Enabled {
		addr := conf.Redis.GetRedisAddr()
		if addr == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, addr, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		snapshots := repository.NewSnapshotRepository(redisStorage.Connection, conf.Redis.SnapshotTTL)
		sinks.Snapshots = snapshots
		deps.Snapshots = snapshots
	}

	if conf.SQLite.Enabled {
		sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLite.Path)
		if err != nil {
			return fmt.Errorf("could not open sqlite storage: %w", err)
		}

		defer func() {
			if err = sqliteStorage.Close(); err != nil {
				log.Error("could not close sqlite storage", "error", err)
			}
		}()

		if err = sqliteStorage.Init(ctx); err != nil {
			return fmt.Errorf("could not init sqlite storage: %w", err)
		}

		results := repository.NewResultRepository(sqliteStorage.Connection)
		sinks.Results = results
		deps.Results = results
	}

	if conf.NATS.Enabled {
		publisher, err := nats.New(conf.NATS.URL, conf.NATS.SubjectPrefix)
		if err != nil {
			return fmt.Errorf("could not connect to nats: %w", err)
		}

		defer func() {
			if err = publisher.Close(); err != nil {
				log.Error("could not close nats connection", "error", err)
			}
		}()

		publishers = append(publishers, publisher)
	}

	sinks.Events = publishers

	games := usecase.NewGameManager(logger, sinks, usecase.Settings{
		GomokuSize: conf.Game.GomokuSize,
		GoSize:     conf.Game.GoSize,
		Komi:       conf.Game.Komi,
		JunqiSeed:  conf.Game.JunqiSeed,
	})

	watcher := scheduler.NewWatcher(logger, games, scheduler.Timeouts{
		Turn: conf.Game.TurnTimeout,
		Join: conf.Game.JoinTimeout,
	})
	defer watcher.Stop()

	router := command.NewRouter(logger, games, watcher)

	deps.Games = games
	deps.Router = router

	mux := rest.NewMux(logger, deps, websocket.New(logger, router, hub))

	log.Info("Starting HTTP server", "port", conf.Port,
		"redis", conf.Redis.Enabled, "sqlite", conf.SQLite.Enabled, "nats", conf.NATS.Enabled)

	if err := rest.Start(ctx, conf.Port, mux); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
