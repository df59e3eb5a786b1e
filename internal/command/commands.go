package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const helpText = `小游戏合集
井字棋: /井字棋 · /下棋 <1-9>
围棋: /围棋 [9/13/19] · /落子 <坐标> · /虚着 · /悔棋 · /点目 · /请求计分 · /拒绝计分
象棋: /象棋 · /走棋 <起点>-<终点> 或 炮二平五
五子棋: /五子棋 [13/15/19] · /五子 <坐标>
军棋: /军棋 · /翻 <坐标> · /军 <起点>-<终点>
通用: /加入游戏 · /棋盘 · /认输 · /结束游戏
轮到你时可以直接发送坐标或走法`

func (that *Router) table() []*command {
	return []*command{
		{name: "井字棋", aliases: []string{"ttt", "tictactoe", "开始井字棋"}, run: that.tictactoeStart},
		{name: "加入井字棋", aliases: []string{"jointtt"}, run: that.tictactoeJoin},
		{name: "下棋", aliases: []string{"move", "m"}, run: that.tictactoePlace},

		{name: "五子棋", aliases: []string{"gomoku", "wuziqi"}, run: that.gomokuStart},
		{name: "加入五子棋", aliases: []string{"joingomoku"}, run: that.gomokuJoin},
		{name: "五子", aliases: []string{"gmove", "gm"}, run: that.gomokuPlace},

		{name: "围棋", aliases: []string{"go", "weiqi"}, run: that.goStart},
		{name: "加入围棋", aliases: []string{"joingo"}, run: that.goJoin},
		{name: "落子", aliases: []string{"play", "p"}, run: that.goPlace},
		{name: "虚着", aliases: []string{"pass", "跳过"}, run: that.goPass},
		{name: "点目", aliases: []string{"score", "形势"}, run: that.goCount},
		{name: "悔棋", aliases: []string{"undo", "撤回"}, run: that.goUndo},
		{name: "请求计分", aliases: []string{"requestscore", "申请计分", "同意计分"}, run: that.goRequestScore},
		{name: "拒绝计分", aliases: []string{"rejectscore", "继续游戏"}, run: that.goRejectScore},

		{name: "象棋", aliases: []string{"xiangqi", "中国象棋"}, run: that.xiangqiStart},
		{name: "加入象棋", aliases: []string{"joinxiangqi"}, run: that.xiangqiJoin},
		{name: "走棋", aliases: []string{"xmove", "xm"}, run: that.xiangqiMove},

		{name: "军棋", aliases: []string{"junqi", "翻棋"}, run: that.junqiStart},
		{name: "加入军棋", aliases: []string{"joinjunqi"}, run: that.junqiJoin},
		{name: "翻", aliases: []string{"flip", "f"}, run: that.junqiFlip},
		{name: "军", aliases: []string{"jmove", "jm"}, run: that.junqiMove},

		{name: "加入游戏", aliases: []string{"join"}, run: that.join},
		{name: "认输", aliases: []string{"surrender", "投降"}, run: that.surrender},
		{name: "棋盘", aliases: []string{"board", "查看棋盘"}, run: that.board},
		{name: "结束游戏", aliases: []string{"endgame", "结束井字棋", "结束围棋", "结束象棋", "结束五子棋", "结束军棋"}, run: that.end},
		{name: "游戏帮助", aliases: []string{"gamehelp", "游戏", "小游戏"}, run: that.help},
	}
}

// size - optional board size argument, 0 when absent.
func size(args string) (int, error) {
	if args == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(args)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", apperror.ErrInvalidSize, args)
	}

	return n, nil
}

func required(args string, err error) error {
	if args == "" {
		return err
	}

	return nil
}

func (that *Router) tictactoeStart(ctx context.Context, req request) (*Reply, error) {
	return that.create(ctx, entity.KindTicTacToe, req.room, func() (any, entity.Event, error) {
		return that.games.TicTacToe.Create(ctx, req.room, req.player)
	})
}

func (that *Router) tictactoeJoin(ctx context.Context, req request) (*Reply, error) {
	game, event, err := that.games.TicTacToe.Join(ctx, req.room, req.player)
	return that.played(ctx, entity.KindTicTacToe, req.room, game, event, err)
}

func (that *Router) tictactoePlace(ctx context.Context, req request) (*Reply, error) {
	if err := required(req.args, apperror.ErrInvalidPosition); err != nil {
		return nil, err
	}

	game, event, err := that.games.TicTacToe.Place(ctx, req.room, req.player, req.args)
	return that.played(ctx, entity.KindTicTacToe, req.room, game, event, err)
}

func (that *Router) gomokuStart(ctx context.Context, req request) (*Reply, error) {
	n, err := size(req.args)
	if err != nil {
		return nil, err
	}

	return that.create(ctx, entity.KindGomoku, req.room, func() (any, entity.Event, error) {
		return that.games.Gomoku.Create(ctx, req.room, req.player, n)
	})
}

func (that *Router) gomokuJoin(ctx context.Context, req request) (*Reply, error) {
	game, event, err := that.games.Gomoku.Join(ctx, req.room, req.player)
	return that.played(ctx, entity.KindGomoku, req.room, game, event, err)
}

func (that *Router) gomokuPlace(ctx context.Context, req request) (*Reply, error) {
	if err := required(req.args, apperror.ErrInvalidPosition); err != nil {
		return nil, err
	}

	game, event, err := that.games.Gomoku.Place(ctx, req.room, req.player, req.args)
	return that.played(ctx, entity.KindGomoku, req.room, game, event, err)
}

func (that *Router) goStart(ctx context.Context, req request) (*Reply, error) {
	n, err := size(req.args)
	if err != nil {
		return nil, err
	}

	return that.create(ctx, entity.KindGo, req.room, func() (any, entity.Event, error) {
		return that.games.Go.Create(ctx, req.room, req.player, n)
	})
}

func (that *Router) goJoin(ctx context.Context, req request) (*Reply, error) {
	game, event, err := that.games.Go.Join(ctx, req.room, req.player)
	return that.played(ctx, entity.KindGo, req.room, game, event, err)
}

func (that *Router) goPlace(ctx context.Context, req request) (*Reply, error) {
	if err := required(req.args, apperror.ErrInvalidPosition); err != nil {
		return nil, err
	}

	game, event, err := that.games.Go.Place(ctx, req.room, req.player, req.args)
	return that.played(ctx, entity.KindGo, req.room, game, event, err)
}

func (that *Router) goPass(ctx context.Context, req request) (*Reply, error) {
	game, event, err := that.games.Go.Pass(ctx, req.room, req.player)
	return that.played(ctx, entity.KindGo, req.room, game, event, err)
}

func (that *Router) goUndo(ctx context.Context, req request) (*Reply, error) {
	game, event, err := that.games.Go.Undo(ctx, req.room, req.player)
	return that.played(ctx, entity.KindGo, req.room, game, event, err)
}

func (that *Router) goRequestScore(ctx context.Context, req request) (*Reply, error) {
	game, event, err := that.games.Go.RequestScore(ctx, req.room, req.player)
	return that.played(ctx, entity.KindGo, req.room, game, event, err)
}

func (that *Router) goRejectScore(ctx context.Context, req request) (*Reply, error) {
	game, event, err := that.games.Go.RejectScore(ctx, req.room, req.player)
	return that.played(ctx, entity.KindGo, req.room, game, event, err)
}

// goCount - estimate only, the clock keeps running.
func (that *Router) goCount(_ context.Context, req request) (*Reply, error) {
	score, err := that.games.Go.Count(req.room)
	if err != nil {
		return nil, err
	}

	return &Reply{
		Kind:    entity.KindGo,
		Event:   entity.EventScoreEstimated,
		Message: describe(entity.EventScoreEstimated),
		Score:   &score,
	}, nil
}

func (that *Router) xiangqiStart(ctx context.Context, req request) (*Reply, error) {
	return that.create(ctx, entity.KindXiangqi, req.room, func() (any, entity.Event, error) {
		return that.games.Xiangqi.Create(ctx, req.room, req.player)
	})
}

func (that *Router) xiangqiJoin(ctx context.Context, req request) (*Reply, error) {
	game, event, err := that.games.Xiangqi.Join(ctx, req.room, req.player)
	return that.played(ctx, entity.KindXiangqi, req.room, game, event, err)
}

func (that *Router) xiangqiMove(ctx context.Context, req request) (*Reply, error) {
	if err := required(req.args, apperror.ErrInvalidNotation); err != nil {
		return nil, err
	}

	game, event, err := that.games.Xiangqi.Move(ctx, req.room, req.player, req.args)
	return that.played(ctx, entity.KindXiangqi, req.room, game, event, err)
}

func (that *Router) junqiStart(ctx context.Context, req request) (*Reply, error) {
	return that.create(ctx, entity.KindJunqi, req.room, func() (any, entity.Event, error) {
		return that.games.Junqi.Create(ctx, req.room, req.player)
	})
}

func (that *Router) junqiJoin(ctx context.Context, req request) (*Reply, error) {
	game, event, err := that.games.Junqi.Join(ctx, req.room, req.player)
	return that.played(ctx, entity.KindJunqi, req.room, game, event, err)
}

func (that *Router) junqiFlip(ctx context.Context, req request) (*Reply, error) {
	if err := required(req.args, apperror.ErrInvalidPosition); err != nil {
		return nil, err
	}

	game, event, err := that.games.Junqi.Flip(ctx, req.room, req.player, req.args)
	return that.played(ctx, entity.KindJunqi, req.room, game, event, err)
}

func (that *Router) junqiMove(ctx context.Context, req request) (*Reply, error) {
	if err := required(req.args, apperror.ErrInvalidNotation); err != nil {
		return nil, err
	}

	game, event, err := that.games.Junqi.Move(ctx, req.room, req.player, req.args)
	return that.played(ctx, entity.KindJunqi, req.room, game, event, err)
}

// join - joins whatever game in the room is waiting.
func (that *Router) join(ctx context.Context, req request) (*Reply, error) {
	kind, game, event, err := that.games.Join(ctx, req.room, req.player)
	return that.played(ctx, kind, req.room, game, event, err)
}

func (that *Router) surrender(ctx context.Context, req request) (*Reply, error) {
	kind, game, event, err := that.games.Surrender(ctx, req.room, req.player)
	return that.played(ctx, kind, req.room, game, event, err)
}

func (that *Router) board(_ context.Context, req request) (*Reply, error) {
	kind, game, ok := that.games.Snapshot(req.room)
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return &Reply{Kind: kind, Event: entity.EventSnapshot, Message: describe(entity.EventSnapshot), Game: game}, nil
}

// end - drops every game in the room, finished or not.
func (that *Router) end(ctx context.Context, req request) (*Reply, error) {
	if that.watcher != nil {
		that.watcher.Cancel(req.room)
	}

	kinds := that.games.EndAll(ctx, req.room)
	if len(kinds) == 0 {
		return nil, apperror.ErrGameNotFound
	}

	return &Reply{Event: entity.EventEnded, Message: describe(entity.EventEnded), Kinds: kinds}, nil
}

func (that *Router) help(context.Context, request) (*Reply, error) {
	return &Reply{Message: helpText}, nil
}
