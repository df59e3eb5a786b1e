package apperror

import "errors"

// lifecycle.
var (
	ErrGameNotFound     = errors.New("当前群没有进行中的游戏")
	ErrGameFinished     = errors.New("游戏已结束")
	ErrGameIsNotStarted = errors.New("等待对手加入")
	ErrRoomBusy         = errors.New("当前群已有进行中的游戏")
	ErrGameIsFull       = errors.New("游戏已满员")
	ErrAlreadyInGame    = errors.New("你已经在游戏中了")
	ErrNotParticipant   = errors.New("你不是游戏参与者")
	ErrNotYourTurn      = errors.New("还没轮到你")
)

// input.
var (
	ErrInvalidPosition = errors.New("无效位置")
	ErrInvalidNotation = errors.New("无法识别的走法")
	ErrInvalidSize     = errors.New("不支持的棋盘大小")
	ErrUnknownCommand  = errors.New("未知指令")
)

// board.
var (
	ErrCellOccupied = errors.New("该位置已有棋子")
	ErrNoPiece      = errors.New("该位置没有棋子")
	ErrNotOwnPiece  = errors.New("不能移动对方的棋子")
)

// go.
var (
	ErrSuicide               = errors.New("禁止自杀")
	ErrSuperko               = errors.New("禁止全局同形")
	ErrUndoUnavailable       = errors.New("当前无法悔棋")
	ErrUndoNotMover          = errors.New("只有刚落子的玩家可以悔棋")
	ErrScoreAlreadyRequested = errors.New("你已经请求过计分了")
	ErrNoScoreRequest        = errors.New("没有待处理的计分请求")
	ErrCannotRejectOwn       = errors.New("不能拒绝自己的计分请求")
)

// xiangqi.
var (
	ErrIllegalPieceMove  = errors.New("不符合走法规则")
	ErrLeavesKingInCheck = errors.New("不能送将")
	ErrKingsFacing       = errors.New("将帅不能照面")
)

// junqi.
var (
	ErrSideUndetermined = errors.New("请先翻棋确定阵营")
	ErrAlreadyRevealed  = errors.New("该棋子已翻开")
	ErrNotRevealed      = errors.New("该棋子尚未翻开")
	ErrImmobilePiece    = errors.New("该棋子不能移动")
	ErrNotAdjacent      = errors.New("只能移动到相邻位置")
	ErrOwnPiece         = errors.New("不能吃自己的棋子")
)
