package tictactoe

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var errSearchFailed = errors.New("search failed")

type mockBot struct {
	mock.Mock
}

func (that *mockBot) ChooseMove(board entity.Board, computer entity.Symbol, moveCount int) (int, error) {
	args := that.Called(board, computer, moveCount)
	return args.Int(0), args.Error(1)
}

// fixedRandom always returns the same value, clamped to the range.
type fixedRandom int

func (that fixedRandom) Intn(n int) int {
	return int(that) % n
}

type recordingRenderer struct {
	statuses []string
	boards   []entity.Board
	disabled [][entity.BoardSize]bool
}

func (that *recordingRenderer) RenderStatus(status string) {
	that.statuses = append(that.statuses, status)
}

func (that *recordingRenderer) RenderBoard(board entity.Board, disabled [entity.BoardSize]bool) {
	that.boards = append(that.boards, board)
	that.disabled = append(that.disabled, disabled)
}

func (that *recordingRenderer) lastStatus() string {
	if len(that.statuses) == 0 {
		return ""
	}
	return that.statuses[len(that.statuses)-1]
}

func newTestController(t *testing.T, bot bot, coin int) (*GameController, *recordingRenderer) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &recordingRenderer{}

	return NewGameController(logger, bot, fixedRandom(coin), rec), rec
}

func TestGameController_Start(t *testing.T) {
	t.Run("Invalid preference defaults to O", func(t *testing.T) {
		// Given: a controller
		controller, _ := newTestController(t, &mockBot{}, 0)

		// When: starting with no preference
		controller.Start(entity.Empty)

		// Then: the player is O and the computer is X
		assert.Equal(t, entity.PlayerO, controller.PlayerSymbol())
		assert.Equal(t, entity.PlayerX, controller.ComputerSymbol())
	})

	t.Run("Player picks X", func(t *testing.T) {
		controller, _ := newTestController(t, &mockBot{}, 0)

		controller.Start(entity.PlayerX)

		assert.Equal(t, entity.PlayerX, controller.PlayerSymbol())
		assert.Equal(t, entity.PlayerO, controller.ComputerSymbol())
	})

	t.Run("Coin flip gives the player the first move", func(t *testing.T) {
		// Given: a coin that lands on 0
		controller, rec := newTestController(t, &mockBot{}, 0)

		// When: the game starts
		state := controller.Start(entity.PlayerX)

		// Then: the player moves first on an empty board
		assert.Equal(t, StateAwaitingPlayer, state)
		assert.Equal(t, StateAwaitingPlayer, controller.State())
		assert.Equal(t, entity.EmptyBoard(), controller.Board())
		assert.Zero(t, controller.MoveCount())
		assert.Equal(t, entity.InProgress, controller.Outcome().Kind)
		assert.Equal(t, "Player goes first", rec.lastStatus())
		assert.NotEmpty(t, controller.GameID())
	})

	t.Run("Coin flip gives the computer the first move", func(t *testing.T) {
		controller, rec := newTestController(t, &mockBot{}, 1)

		state := controller.Start(entity.PlayerX)

		assert.Equal(t, StateAwaitingComputer, state)
		assert.Equal(t, "Computer goes first", rec.lastStatus())
	})
}

func TestGameController_ApplyPlayerMove(t *testing.T) {
	t.Run("Successful Turn", func(t *testing.T) {
		// Given: a game where the player moves first
		controller, rec := newTestController(t, &mockBot{}, 0)
		controller.Start(entity.PlayerX)

		// When: the player takes the center
		err := controller.ApplyPlayerMove(4)

		// Then: the move is applied and the computer is up
		require.NoError(t, err)
		assert.Equal(t, "----x----", controller.Board().String())
		assert.Equal(t, 1, controller.MoveCount())
		assert.Equal(t, StateAwaitingComputer, controller.State())
		assert.Equal(t, "Computer's turn", rec.lastStatus())

		lastDisabled := rec.disabled[len(rec.disabled)-1]
		assert.True(t, lastDisabled[4])
		assert.False(t, lastDisabled[0])
	})

	t.Run("Error on Cell Already Occupied", func(t *testing.T) {
		// Given: the computer holds the center
		bot := &mockBot{}
		bot.On("ChooseMove", mock.Anything, entity.PlayerO, 0).Return(4, nil).Once()
		controller, _ := newTestController(t, bot, 1)
		controller.Start(entity.PlayerX)
		require.NoError(t, controller.ApplyComputerMove())
		before := controller.Board()

		// When: the player targets the center too
		err := controller.ApplyPlayerMove(4)

		// Then: the request is refused and nothing changes
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, controller.Board())
		assert.Equal(t, 1, controller.MoveCount())
		assert.Equal(t, StateAwaitingPlayer, controller.State())
	})

	t.Run("Error on Playing Out of Turn", func(t *testing.T) {
		// Given: the computer is to move
		controller, _ := newTestController(t, &mockBot{}, 1)
		controller.Start(entity.PlayerX)

		// When: the player tries to move
		err := controller.ApplyPlayerMove(0)

		// Then: it is a no-op
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.EmptyBoard(), controller.Board())
		assert.Equal(t, StateAwaitingComputer, controller.State())
	})

	t.Run("Error on Invalid Cell Index", func(t *testing.T) {
		controller, _ := newTestController(t, &mockBot{}, 0)
		controller.Start(entity.PlayerX)

		require.ErrorIs(t, controller.ApplyPlayerMove(9), entity.ErrInvalidCell)
		require.ErrorIs(t, controller.ApplyPlayerMove(-1), entity.ErrInvalidCell)
		assert.Zero(t, controller.MoveCount())
		assert.Equal(t, StateAwaitingPlayer, controller.State())
	})
}

func TestGameController_ApplyComputerMove(t *testing.T) {
	t.Run("Applies the bot's move", func(t *testing.T) {
		// Given: the player opened in the corner
		bot := &mockBot{}
		controller, rec := newTestController(t, bot, 0)
		controller.Start(entity.PlayerO)
		require.NoError(t, controller.ApplyPlayerMove(0))

		expectedBoard := mustBoard(t, "o--------")
		bot.On("ChooseMove", expectedBoard, entity.PlayerX, 1).Return(4, nil).Once()

		// When: the computer moves
		err := controller.ApplyComputerMove()

		// Then: the bot saw the live board and its move was applied
		require.NoError(t, err)
		assert.Equal(t, "o---x----", controller.Board().String())
		assert.Equal(t, 2, controller.MoveCount())
		assert.Equal(t, StateAwaitingPlayer, controller.State())
		assert.Equal(t, "Player's turn", rec.lastStatus())
		bot.AssertExpectations(t)
	})

	t.Run("No-op while awaiting the player", func(t *testing.T) {
		bot := &mockBot{}
		controller, _ := newTestController(t, bot, 0)
		controller.Start(entity.PlayerX)

		err := controller.ApplyComputerMove()

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, StateAwaitingPlayer, controller.State())
		bot.AssertNotCalled(t, "ChooseMove", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Bot failure leaves the game unchanged", func(t *testing.T) {
		bot := &mockBot{}
		bot.On("ChooseMove", mock.Anything, mock.Anything, mock.Anything).Return(0, errSearchFailed).Once()
		controller, _ := newTestController(t, bot, 1)
		controller.Start(entity.PlayerX)

		err := controller.ApplyComputerMove()

		require.ErrorIs(t, err, errSearchFailed)
		assert.Equal(t, StateAwaitingComputer, controller.State())
		assert.Zero(t, controller.MoveCount())
	})

	t.Run("Bot choosing an occupied cell is refused", func(t *testing.T) {
		bot := &mockBot{}
		controller, _ := newTestController(t, bot, 0)
		controller.Start(entity.PlayerX)
		require.NoError(t, controller.ApplyPlayerMove(0))
		bot.On("ChooseMove", mock.Anything, mock.Anything, mock.Anything).Return(0, nil).Once()

		err := controller.ApplyComputerMove()

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, 1, controller.MoveCount())
		assert.Equal(t, StateAwaitingComputer, controller.State())
	})
}

func TestGameController_Finish(t *testing.T) {
	t.Run("Player wins", func(t *testing.T) {
		// Given: the computer plays 3 then 4 while X takes the top row
		bot := &mockBot{}
		bot.On("ChooseMove", mock.Anything, entity.PlayerO, 1).Return(3, nil).Once()
		bot.On("ChooseMove", mock.Anything, entity.PlayerO, 3).Return(4, nil).Once()
		controller, rec := newTestController(t, bot, 0)
		controller.Start(entity.PlayerX)

		require.NoError(t, controller.ApplyPlayerMove(0))
		require.NoError(t, controller.ApplyComputerMove())
		require.NoError(t, controller.ApplyPlayerMove(1))
		require.NoError(t, controller.ApplyComputerMove())

		// When: X completes the row
		require.NoError(t, controller.ApplyPlayerMove(2))

		// Then: the game is over
		assert.Equal(t, StateFinished, controller.State())
		assert.Equal(t, entity.WonBy(entity.PlayerX), controller.Outcome())
		assert.Equal(t, "X wins!", rec.lastStatus())
		assert.Equal(t, [entity.BoardSize]bool{true, true, true, true, true, true, true, true, true}, rec.disabled[len(rec.disabled)-1])

		// And: no further moves are accepted
		require.ErrorIs(t, controller.ApplyPlayerMove(8), apperror.ErrGameFinished)
		require.ErrorIs(t, controller.ApplyComputerMove(), apperror.ErrGameFinished)
		assert.Equal(t, 5, controller.MoveCount())
	})

	t.Run("Tie", func(t *testing.T) {
		// Given: a scripted game ending in xoxxoxoxo
		// x:0 o:1 x:2 o:4 x:3 o:6 x:5 o:8 x:7
		bot := &mockBot{}
		for moves, cell := range map[int]int{1: 1, 3: 4, 5: 6, 7: 8} {
			bot.On("ChooseMove", mock.Anything, entity.PlayerO, moves).Return(cell, nil).Once()
		}
		controller, rec := newTestController(t, bot, 0)
		controller.Start(entity.PlayerX)

		for _, cell := range []int{0, 2, 3, 5} {
			require.NoError(t, controller.ApplyPlayerMove(cell))
			require.NoError(t, controller.ApplyComputerMove())
		}

		// When: the last cell is filled
		require.NoError(t, controller.ApplyPlayerMove(7))

		// Then: nobody wins
		assert.Equal(t, "xoxxoxoxo", controller.Board().String())
		assert.Equal(t, StateFinished, controller.State())
		assert.Equal(t, entity.TieOutcome(), controller.Outcome())
		assert.Equal(t, "It's a tie.", rec.lastStatus())
	})
}

func TestGameController_Restart(t *testing.T) {
	// Given: a finished game
	bot := &mockBot{}
	controller, _ := newTestController(t, bot, 0)
	controller.Start(entity.PlayerX)
	require.NoError(t, controller.ApplyPlayerMove(4))
	firstGame := controller.GameID()

	// When: restarting
	state := controller.Restart()

	// Then: the board is cleared and sides are kept
	assert.Equal(t, StateAwaitingPlayer, state)
	assert.Equal(t, entity.EmptyBoard(), controller.Board())
	assert.Zero(t, controller.MoveCount())
	assert.Equal(t, entity.PlayerX, controller.PlayerSymbol())
	assert.Equal(t, entity.PlayerO, controller.ComputerSymbol())
	assert.NotEqual(t, firstGame, controller.GameID())
}

// firstFreeBot plays the lowest free cell.
type firstFreeBot struct{}

func (firstFreeBot) ChooseMove(board entity.Board, _ entity.Symbol, _ int) (int, error) {
	return board.AvailableMoves()[0], nil
}

func TestGameController_MoveCountMatchesBoard(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for game := 0; game < 50; game++ {
		controller, _ := newTestController(t, firstFreeBot{}, game%2)
		controller.Start(entity.PlayerX)

		// When: a random mix of legal and illegal requests arrives
		for n := 0; n < 40; n++ {
			switch rnd.Intn(4) {
			case 0:
				_ = controller.ApplyComputerMove()
			case 1:
				_ = controller.Restart()
			default:
				_ = controller.ApplyPlayerMove(rnd.Intn(11) - 1)
			}

			// Then: the counter always matches the marks on the board
			require.Equal(t, controller.Board().Count(), controller.MoveCount())
		}
	}
}

func TestGameController_StateMachineClosure(t *testing.T) {
	bot := &mockBot{}
	controller, _ := newTestController(t, bot, 1)
	controller.Start(entity.PlayerX)

	// awaiting computer: player moves are ignored
	require.ErrorIs(t, controller.ApplyPlayerMove(0), apperror.ErrNotYourTurn)
	assert.Equal(t, StateAwaitingComputer, controller.State())
	assert.Zero(t, controller.MoveCount())

	bot.On("ChooseMove", mock.Anything, mock.Anything, 0).Return(8, nil).Once()
	require.NoError(t, controller.ApplyComputerMove())

	// awaiting player: computer moves are ignored
	require.ErrorIs(t, controller.ApplyComputerMove(), apperror.ErrNotYourTurn)
	assert.Equal(t, StateAwaitingPlayer, controller.State())
	assert.Equal(t, 1, controller.MoveCount())
	bot.AssertExpectations(t)
}

func TestGameController_Refresh(t *testing.T) {
	controller, rec := newTestController(t, &mockBot{}, 0)
	controller.Start(entity.PlayerX)
	require.NoError(t, controller.ApplyPlayerMove(4))
	renders := len(rec.boards)

	controller.Refresh()

	require.Len(t, rec.boards, renders+1)
	assert.Equal(t, controller.Board(), rec.boards[renders])
	assert.Equal(t, "Computer's turn", rec.lastStatus())
	assert.Equal(t, StateAwaitingComputer, controller.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "awaiting_player", StateAwaitingPlayer.String())
	assert.Equal(t, "awaiting_computer", StateAwaitingComputer.String())
	assert.Equal(t, "finished", StateFinished.String())
	assert.Equal(t, "unknown", State(42).String())
}
