package weiqi

import (
	"math/rand/v2"
	"testing"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/coord"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	blackPlayer = "black-player"
	whitePlayer = "white-player"
)

func newOngoingGame(t *testing.T, size int) *Game {
	t.Helper()

	game, err := New("room", blackPlayer, size, DefaultKomi)
	require.NoError(t, err)
	require.NoError(t, game.Join(whitePlayer))

	return game
}

func playerFor(game *Game) string {
	if game.Turn == White {
		return whitePlayer
	}
	return blackPlayer
}

// play - alternates colours through the given cells.
func play(t *testing.T, game *Game, cells ...string) {
	t.Helper()

	for _, cell := range cells {
		_, err := game.Place(playerFor(game), cell)
		require.NoError(t, err, cell)
	}
}

// setup - puts stones directly on the board and records the position as played.
func setup(t *testing.T, game *Game, black, white []string) {
	t.Helper()

	for stone, cells := range map[Stone][]string{Black: black, White: white} {
		for _, cell := range cells {
			x, y, err := coord.ParseCell(cell, game.Size, game.Size)
			require.NoError(t, err, cell)
			game.Board[coord.Index(x, y, game.Size)] = stone
		}
	}

	key := game.view().key()
	game.History = append(game.History, key)
	game.seen[key] = struct{}{}
}

func stoneAt(t *testing.T, game *Game, cell string) Stone {
	t.Helper()

	x, y, err := coord.ParseCell(cell, game.Size, game.Size)
	require.NoError(t, err)

	return game.Board[coord.Index(x, y, game.Size)]
}

func TestNew(t *testing.T) {
	t.Run("Defaults to 9x9 with komi", func(t *testing.T) {
		game, err := New("room", blackPlayer, 0, DefaultKomi)

		require.NoError(t, err)
		assert.Equal(t, 9, game.Size)
		assert.Len(t, game.Board, 81)
		assert.Equal(t, Black, game.Turn)
		assert.InDelta(t, 6.5, game.Komi, 0.001)
	})

	t.Run("Rejects unsupported sizes", func(t *testing.T) {
		_, err := New("room", blackPlayer, 15, DefaultKomi)

		assert.ErrorIs(t, err, apperror.ErrInvalidSize)
	})
}

func TestGame_Capture(t *testing.T) {
	// Given: white D5/E5 surrounded on three sides
	game := newOngoingGame(t, 9)
	play(t, game, "D4", "D5", "C5", "E5", "D6")
	assert.Equal(t, 0, game.CaptureTally(Black))

	// When: black takes the remaining liberties while white plays elsewhere
	play(t, game, "A9", "E4", "A8", "E6", "A7", "F5")

	// Then: the two stone group is removed and credited to black
	assert.Equal(t, 2, game.CaptureTally(Black))
	assert.Equal(t, 2, game.LastCaptured)
	assert.Equal(t, Empty, stoneAt(t, game, "D5"))
	assert.Equal(t, Empty, stoneAt(t, game, "E5"))
}

func TestGame_Suicide(t *testing.T) {
	// Given: black A1/B1 with C1 as the last liberty and no white group in atari
	game := newOngoingGame(t, 9)
	setup(t, game, []string{"A1", "B1"}, []string{"A2", "B2", "C2", "D1"})
	before := append([]Stone(nil), game.Board...)

	// When: black fills its own last liberty
	_, err := game.Place(blackPlayer, "C1")

	// Then: the move is rejected and nothing changes
	require.ErrorIs(t, err, apperror.ErrSuicide)
	assert.Equal(t, before, game.Board)
	assert.Equal(t, Black, game.Turn)
	assert.Equal(t, 0, game.Moves)
	assert.Len(t, game.History, 1)
}

func TestGame_SingleStoneSuicide(t *testing.T) {
	game := newOngoingGame(t, 9)
	setup(t, game, nil, []string{"B1", "A2"})

	_, err := game.Place(blackPlayer, "A1")

	require.ErrorIs(t, err, apperror.ErrSuicide)
	assert.Equal(t, Empty, stoneAt(t, game, "A1"))
}

func TestGame_CaptureIsNotSuicide(t *testing.T) {
	// Given: B1 is surrounded by white but white A1 has B1 as its last liberty
	game := newOngoingGame(t, 9)
	setup(t, game, []string{"A2"}, []string{"A1", "C1", "B2"})

	// When: black plays B1
	_, err := game.Place(blackPlayer, "B1")

	// Then: the capture gives the stone a liberty
	require.NoError(t, err)
	assert.Equal(t, Empty, stoneAt(t, game, "A1"))
	assert.Equal(t, 1, game.CaptureTally(Black))
}

func TestGame_Superko(t *testing.T) {
	// Given: a ko shape
	game := newOngoingGame(t, 9)
	setup(t, game, []string{"C5", "D6", "D4"}, []string{"D5", "E6", "F5", "E4"})

	// When: black takes the ko
	_, err := game.Place(blackPlayer, "E5")
	require.NoError(t, err)
	require.Equal(t, Empty, stoneAt(t, game, "D5"))

	// Then: white cannot retake immediately
	before := append([]Stone(nil), game.Board...)
	_, err = game.Place(whitePlayer, "D5")

	require.ErrorIs(t, err, apperror.ErrSuperko)
	assert.Equal(t, before, game.Board)
	assert.Equal(t, White, game.Turn)
	assert.Equal(t, 1, game.CaptureTally(Black))
	assert.Equal(t, 0, game.CaptureTally(White))
}

func TestGame_Pass(t *testing.T) {
	t.Run("Two passes end and score the game", func(t *testing.T) {
		// Given: black walls column D, white walls column F
		game := newOngoingGame(t, 9)
		var black, white []string
		for row := 1; row <= 9; row++ {
			black = append(black, coord.Label(3, row-1))
			white = append(white, coord.Label(5, row-1))
		}
		setup(t, game, black, white)

		// When: both players pass
		event, err := game.Pass(blackPlayer)
		require.NoError(t, err)
		assert.Equal(t, entity.EventPassed, event)

		event, err = game.Pass(whitePlayer)

		// Then: territory is split and white wins on komi
		require.NoError(t, err)
		assert.Equal(t, entity.EventDoublePass, event)
		require.NotNil(t, game.Score)
		assert.Equal(t, 27, game.Score.BlackTerritory)
		assert.Equal(t, 27, game.Score.WhiteTerritory)
		assert.InDelta(t, 36.0, game.Score.Black, 0.001)
		assert.InDelta(t, 42.5, game.Score.White, 0.001)
		assert.Equal(t, White, game.WinnerStone())
		assert.Equal(t, entity.EventDoublePass, game.Reason)
	})

	t.Run("A placement resets the pass counter", func(t *testing.T) {
		game := newOngoingGame(t, 9)

		_, err := game.Pass(blackPlayer)
		require.NoError(t, err)
		play(t, game, "E5")
		_, err = game.Pass(blackPlayer)
		require.NoError(t, err)

		assert.Equal(t, 1, game.Passes)
		assert.False(t, game.IsFinished())
	})

	t.Run("Passing out of turn is rejected", func(t *testing.T) {
		game := newOngoingGame(t, 9)

		_, err := game.Pass(whitePlayer)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, 0, game.Passes)
	})
}

func TestGame_TakeBack(t *testing.T) {
	t.Run("Mover restores the previous position", func(t *testing.T) {
		// Given: white captured a stone on the last move
		game := newOngoingGame(t, 9)
		setup(t, game, []string{"A1"}, []string{"A2"})
		before := append([]Stone(nil), game.Board...)
		play(t, game, "E5")
		afterBlack := append([]Stone(nil), game.Board...)
		play(t, game, "B1")
		require.Equal(t, 1, game.CaptureTally(White))

		// When: white takes it back
		event, err := game.TakeBack(whitePlayer)

		// Then: board, tally, turn and history are restored
		require.NoError(t, err)
		assert.Equal(t, entity.EventUndone, event)
		assert.Equal(t, afterBlack, game.Board)
		assert.NotEqual(t, before, game.Board)
		assert.Equal(t, 0, game.CaptureTally(White))
		assert.Equal(t, White, game.Turn)
		assert.Equal(t, 1, game.Moves)
		assert.Len(t, game.History, 2)

		// And: the same move is legal again
		_, err = game.Place(whitePlayer, "B1")
		require.NoError(t, err)
	})

	t.Run("Only the mover may undo", func(t *testing.T) {
		game := newOngoingGame(t, 9)
		play(t, game, "E5")

		_, err := game.TakeBack(whitePlayer)

		require.ErrorIs(t, err, apperror.ErrUndoNotMover)
	})

	t.Run("Undo does not chain", func(t *testing.T) {
		game := newOngoingGame(t, 9)
		play(t, game, "E5")
		_, err := game.TakeBack(blackPlayer)
		require.NoError(t, err)

		_, err = game.TakeBack(blackPlayer)

		require.ErrorIs(t, err, apperror.ErrUndoUnavailable)
	})

	t.Run("Pass clears undo", func(t *testing.T) {
		game := newOngoingGame(t, 9)
		play(t, game, "E5")
		_, err := game.Pass(whitePlayer)
		require.NoError(t, err)

		_, err = game.TakeBack(blackPlayer)

		require.ErrorIs(t, err, apperror.ErrUndoUnavailable)
	})
}

func TestGame_ScoreAgreement(t *testing.T) {
	t.Run("Second player's request finishes the game", func(t *testing.T) {
		game := newOngoingGame(t, 9)
		play(t, game, "E5")

		event, err := game.RequestScore(blackPlayer)
		require.NoError(t, err)
		assert.Equal(t, entity.EventScoreRequested, event)

		event, err = game.RequestScore(whitePlayer)
		require.NoError(t, err)

		assert.Equal(t, entity.EventScoreAgreed, event)
		assert.True(t, game.IsFinished())
		require.NotNil(t, game.Score)
		// one black stone owns the whole board, but komi is not enough
		assert.InDelta(t, 81.0, game.Score.Black, 0.001)
		assert.Equal(t, Black, game.WinnerStone())
	})

	t.Run("Same player cannot request twice", func(t *testing.T) {
		game := newOngoingGame(t, 9)
		_, err := game.RequestScore(blackPlayer)
		require.NoError(t, err)

		_, err = game.RequestScore(blackPlayer)

		require.ErrorIs(t, err, apperror.ErrScoreAlreadyRequested)
		assert.False(t, game.IsFinished())
	})

	t.Run("Opponent rejects the pending request", func(t *testing.T) {
		game := newOngoingGame(t, 9)
		_, err := game.RequestScore(blackPlayer)
		require.NoError(t, err)

		_, err = game.RejectScore(blackPlayer)
		require.ErrorIs(t, err, apperror.ErrCannotRejectOwn)

		event, err := game.RejectScore(whitePlayer)
		require.NoError(t, err)
		assert.Equal(t, entity.EventScoreRejected, event)
		assert.Empty(t, game.ScoreRequestBy)

		_, err = game.RejectScore(whitePlayer)
		require.ErrorIs(t, err, apperror.ErrNoScoreRequest)
	})

	t.Run("A placement clears the pending request", func(t *testing.T) {
		game := newOngoingGame(t, 9)
		_, err := game.RequestScore(whitePlayer)
		require.NoError(t, err)

		play(t, game, "E5")

		assert.Empty(t, game.ScoreRequestBy)
	})

	t.Run("Outsiders cannot request", func(t *testing.T) {
		game := newOngoingGame(t, 9)

		_, err := game.RequestScore("someone")

		require.ErrorIs(t, err, apperror.ErrNotParticipant)
	})
}

func TestGame_Count(t *testing.T) {
	t.Run("Mixed regions score nobody", func(t *testing.T) {
		game := newOngoingGame(t, 9)
		setup(t, game, []string{"E5"}, []string{"E6"})

		score := game.Count()

		assert.Equal(t, 0, score.BlackTerritory)
		assert.Equal(t, 0, score.WhiteTerritory)
		assert.InDelta(t, 1.0, score.Black, 0.001)
		assert.InDelta(t, 7.5, score.White, 0.001)
		assert.Equal(t, White, score.Leader())
	})

	t.Run("Equal scores have no leader", func(t *testing.T) {
		score := Score{Black: 40, White: 40}

		assert.Equal(t, Empty, score.Leader())
	})
}

// TestGame_RandomPlayInvariants plays seeded random games and checks bookkeeping.
func TestGame_RandomPlayInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*31))
		game := newOngoingGame(t, 9)
		placed := map[Stone]int{}

		for step := 0; step < 400 && !game.IsFinished(); step++ {
			mover := game.Turn
			if rng.IntN(20) == 0 {
				_, err := game.Pass(playerFor(game))
				require.NoError(t, err)
				continue
			}

			pos := rng.IntN(len(game.Board))
			before := append([]Stone(nil), game.Board...)
			x, y := coord.XY(pos, game.Size)

			if _, err := game.PlaceAt(playerFor(game), x, y); err != nil {
				require.Equal(t, before, game.Board, "rejected move mutated the board")
				continue
			}
			placed[mover]++

			live := map[Stone]int{}
			for _, stone := range game.Board {
				live[stone]++
			}

			assert.Equal(t, placed[Black], live[Black]+game.CapturedBlack)
			assert.Equal(t, placed[White], live[White]+game.CapturedWhite)

			for _, p := range game.view().group(pos) {
				assert.Equal(t, mover, game.Board[p])
			}
			assert.Positive(t, game.view().liberties(game.view().group(pos)))
		}

		unique := make(map[string]struct{}, len(game.History))
		for _, key := range game.History {
			unique[key] = struct{}{}
		}
		assert.Len(t, unique, len(game.History), "history repeats a position")

		score := game.Count()
		assert.InDelta(t,
			float64(score.BlackStones+score.WhiteStones+score.BlackTerritory+score.WhiteTerritory)+score.Komi,
			score.Black+score.White, 0.001)
	}
}

func TestGame_Clone(t *testing.T) {
	game := newOngoingGame(t, 9)
	play(t, game, "E5")

	clone := game.Clone()
	clone.Board[0] = White
	clone.History[0] = "changed"

	assert.Equal(t, Empty, game.Board[0])
	assert.NotEqual(t, "changed", game.History[0])
}
