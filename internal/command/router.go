// Package command turns chat text into game operations.
package command

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/usecase"
	"github.com/rocketscienceinc/boardgame-backend/internal/weiqi"
)

type watcher interface {
	Touch(ctx context.Context, kind entity.Kind, room string)
	Cancel(room string)
}

// Reply - outcome of one command.
type Reply struct {
	Command string        `json:"command"`
	Kind    entity.Kind   `json:"kind,omitempty"`
	Event   entity.Event  `json:"event,omitempty"`
	Message string        `json:"message"`
	Game    any           `json:"game,omitempty"`
	Score   *weiqi.Score  `json:"score,omitempty"`
	Kinds   []entity.Kind `json:"kinds,omitempty"`
}

type request struct {
	room   string
	player string
	args   string
}

type handler func(ctx context.Context, req request) (*Reply, error)

type command struct {
	name    string
	aliases []string
	run     handler
}

type Router struct {
	logger  *slog.Logger
	games   *usecase.GameManager
	watcher watcher

	commands map[string]*command
}

func NewRouter(logger *slog.Logger, games *usecase.GameManager, watcher watcher) *Router {
	router := &Router{
		logger:   logger.With("component", "command"),
		games:    games,
		watcher:  watcher,
		commands: make(map[string]*command),
	}

	for _, cmd := range router.table() {
		router.commands[strings.ToLower(cmd.name)] = cmd
		for _, alias := range cmd.aliases {
			router.commands[strings.ToLower(alias)] = cmd
		}
	}

	return router
}

// Handle - runs one line of chat text sent by player in room.
// Text that is neither a command nor a move for the sender's turn yields ErrUnknownCommand.
func (that *Router) Handle(ctx context.Context, room, player, text string) (*Reply, error) {
	log := that.logger.With("method", "Handle", "room", room, "player", player)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ErrUnknownCommand
	}

	name, args := split(strings.TrimPrefix(text, "/"))

	cmd, ok := that.commands[strings.ToLower(name)]
	if !ok {
		return that.shortcut(ctx, room, player, text)
	}

	reply, err := cmd.run(ctx, request{room: room, player: player, args: args})
	if reply != nil {
		reply.Command = cmd.name
	}

	if err != nil {
		log.Debug("command rejected", "command", cmd.name, "error", err)
		return reply, err
	}

	log.Debug("command handled", "command", cmd.name, "event", reply.Event)

	return reply, nil
}

// shortcut - bare moves from the player whose turn it is.
func (that *Router) shortcut(ctx context.Context, room, player, text string) (*Reply, error) {
	due, ok := that.games.Active(room)
	if !ok || due.Waiting || due.Player != player {
		return nil, apperror.ErrUnknownCommand
	}

	name, ok := matchShortcut(due.Kind, text)
	if !ok {
		return nil, apperror.ErrUnknownCommand
	}

	cmd := that.commands[name]

	reply, err := cmd.run(ctx, request{room: room, player: player, args: text})
	if reply != nil {
		reply.Command = cmd.name
	}

	return reply, err
}

func (that *Router) touch(ctx context.Context, kind entity.Kind, room string) {
	if that.watcher != nil {
		that.watcher.Touch(ctx, kind, room)
	}
}

// played - builds the reply for an operation on one kind and rearms the timer.
func (that *Router) played(ctx context.Context, kind entity.Kind, room string, game any, event entity.Event, err error) (*Reply, error) {
	reply := &Reply{Kind: kind}

	if err != nil {
		// a busy room reports the game occupying it
		if errors.Is(err, apperror.ErrRoomBusy) {
			reply.Game = game
		}
		reply.Message = err.Error()
		return reply, err
	}

	reply.Game, reply.Event, reply.Message = game, event, describe(event)

	that.touch(ctx, kind, room)

	return reply, nil
}

// create - starts a game of kind unless the room is busy with another kind.
func (that *Router) create(ctx context.Context, kind entity.Kind, room string, start func() (any, entity.Event, error)) (*Reply, error) {
	var (
		game  any
		event entity.Event
	)

	err := that.games.Create(room, kind, func() error {
		var err error
		game, event, err = start()
		return err
	})

	if errors.Is(err, apperror.ErrRoomBusy) && game == nil {
		busy, snapshot, _ := that.games.Snapshot(room)
		return &Reply{Kind: busy, Game: snapshot, Message: err.Error()}, err
	}

	return that.played(ctx, kind, room, game, event, err)
}

func split(text string) (string, string) {
	name, args, _ := strings.Cut(text, " ")
	return name, strings.TrimSpace(args)
}

var descriptions = map[entity.Event]string{
	entity.EventCreated:        "游戏已创建，等待对手加入",
	entity.EventJoined:         "对手已加入，游戏开始",
	entity.EventPlaced:         "落子成功",
	entity.EventMoved:          "走棋成功",
	entity.EventWin:            "游戏结束，胜负已分",
	entity.EventDraw:           "游戏结束，平局",
	entity.EventSurrendered:    "已认输",
	entity.EventTimedOut:       "超时判负",
	entity.EventEnded:          "游戏已结束",
	entity.EventSnapshot:       "当前棋盘",
	entity.EventPassed:         "虚着",
	entity.EventDoublePass:     "双方连续虚着，游戏结束",
	entity.EventUndone:         "已悔棋",
	entity.EventScoreRequested: "已请求计分，等待对方同意",
	entity.EventScoreAgreed:    "双方同意计分，游戏结束",
	entity.EventScoreRejected:  "计分请求被拒绝，游戏继续",
	entity.EventScoreEstimated: "形势判断",
	entity.EventCheck:          "将军",
	entity.EventCheckmate:      "绝杀",
	entity.EventStalemate:      "困毙",
	entity.EventFlipped:        "翻棋成功",
	entity.EventBattleWon:      "吃子成功",
	entity.EventBattleLost:     "进攻失败",
	entity.EventBattleDraw:     "同归于尽",
	entity.EventFlagCaptured:   "军旗被夺，游戏结束",
}

func describe(event entity.Event) string {
	if text, ok := descriptions[event]; ok {
		return text
	}

	return string(event)
}
