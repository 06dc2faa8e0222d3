package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

const (
	winScore  = 10
	lossScore = -10
	tieScore  = 0
)

var (
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrInvalidSymbol    = errors.New("computer symbol must be X or O")
)

// Random is a source of uniform picks in [0, n).
type Random interface {
	Intn(n int) int
}

type BotService interface {
	ChooseMove(board entity.Board, computer entity.Symbol, moveCount int) (int, error)
}

type botService struct {
	logger *slog.Logger
	random Random
}

func NewBotService(logger *slog.Logger, random Random) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
		random: random,
	}
}

// ChooseMove - picks the computer's next cell.
//
// The first mark of the game (moveCount <= 1) is drawn at random from the free
// cells. After that the whole game tree is searched with minimax and the
// lowest-indexed best move is returned.
func (that *botService) ChooseMove(board entity.Board, computer entity.Symbol, moveCount int) (int, error) {
	if !computer.IsPlayer() {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidSymbol, computer)
	}

	if moveCount <= 1 {
		return that.randomMove(board)
	}

	search := &minimax{computer: computer, player: computer.Opponent()}

	switch result := search.evaluate(board, 0).(type) {
	case scoredMove:
		that.logger.Debug("search finished",
			"board", board.String(),
			"move", result.move,
			"score", result.value,
			"nodes", search.nodes,
		)

		return result.move, nil
	default:
		return 0, fmt.Errorf("%w: board %s", ErrNoAvailableMoves, board)
	}
}

func (that *botService) randomMove(board entity.Board) (int, error) {
	available := board.AvailableMoves()
	if len(available) == 0 {
		return 0, ErrNoAvailableMoves
	}

	move := available[that.random.Intn(len(available))]
	that.logger.Debug("random opening move", "board", board.String(), "move", move)

	return move, nil
}

// evaluation is either a terminal score or a scored child move.
type evaluation interface {
	score() int
}

type terminal struct {
	value int
}

func (that terminal) score() int {
	return that.value
}

type scoredMove struct {
	move  int
	value int
}

func (that scoredMove) score() int {
	return that.value
}

type minimax struct {
	computer entity.Symbol
	player   entity.Symbol
	nodes    int
}

// evaluate scores the board with the computer to move on even depths.
func (that *minimax) evaluate(board entity.Board, depth int) evaluation {
	that.nodes++

	outcome := tictactoe.DetectOutcome(board)
	switch {
	case outcome.Kind == entity.Won && outcome.Winner == that.player:
		return terminal{value: lossScore}
	case outcome.Kind == entity.Won && outcome.Winner == that.computer:
		return terminal{value: winScore}
	}

	available := board.AvailableMoves()
	if len(available) == 0 {
		return terminal{value: tieScore}
	}

	turn := that.computer
	if depth%2 == 1 {
		turn = that.player
	}

	children := make([]scoredMove, 0, len(available))
	for _, move := range available {
		next := board
		next[move] = turn

		children = append(children, scoredMove{
			move:  move,
			value: that.evaluate(next, depth+1).score(),
		})
	}

	// MaxBy and MinBy keep the first of equal candidates.
	if turn == that.computer {
		return lo.MaxBy(children, func(a, b scoredMove) bool {
			return a.value > b.value
		})
	}

	return lo.MinBy(children, func(a, b scoredMove) bool {
		return a.value < b.value
	})
}
