package tictactoe

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// State - whose input the game is waiting for.
type State uint8

const (
	StateAwaitingPlayer State = iota
	StateAwaitingComputer
	StateFinished
)

const (
	statusPlayerFirst   = "Player goes first"
	statusComputerFirst = "Computer goes first"
	statusPlayerTurn    = "Player's turn"
	statusComputerTurn  = "Computer's turn"
)

func (that State) String() string {
	switch that {
	case StateAwaitingPlayer:
		return "awaiting_player"
	case StateAwaitingComputer:
		return "awaiting_computer"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

type bot interface {
	ChooseMove(board entity.Board, computer entity.Symbol, moveCount int) (int, error)
}

type random interface {
	Intn(n int) int
}

type renderer interface {
	RenderStatus(status string)
	RenderBoard(board entity.Board, disabled [entity.BoardSize]bool)
}

// GameController owns the board of one session and the turn state machine.
// It is not safe for concurrent use.
type GameController struct {
	logger *slog.Logger

	bot      bot
	random   random
	renderer renderer

	gameID   string
	board    entity.Board
	state    State
	outcome  entity.Outcome
	moves    int
	player   entity.Symbol
	computer entity.Symbol
}

func NewGameController(logger *slog.Logger, bot bot, random random, renderer renderer) *GameController {
	return &GameController{
		logger: logger.With("component", "controller"),

		bot:      bot,
		random:   random,
		renderer: renderer,
	}
}

// Start - begins a new game. A preference other than X or O falls back to O.
func (that *GameController) Start(preferred entity.Symbol) State {
	if !preferred.IsPlayer() {
		preferred = entity.PlayerO
	}

	that.player = preferred
	that.computer = preferred.Opponent()
	that.reset()

	return that.state
}

// Restart - starts over keeping the same sides.
func (that *GameController) Restart() State {
	that.logger.Info("restart game", "game", that.gameID)

	return that.Start(that.player)
}

func (that *GameController) ApplyPlayerMove(cell int) error {
	if err := that.confirmTurn(StateAwaitingPlayer); err != nil {
		return err
	}

	return that.applyMove(cell, that.player)
}

func (that *GameController) ApplyComputerMove() error {
	if err := that.confirmTurn(StateAwaitingComputer); err != nil {
		return err
	}

	cell, err := that.bot.ChooseMove(that.board, that.computer, that.moves)
	if err != nil {
		return fmt.Errorf("bot failed to choose a move: %w", err)
	}

	return that.applyMove(cell, that.computer)
}

// Refresh - renders the current board and status again.
func (that *GameController) Refresh() {
	that.render(that.status())
}

func (that *GameController) State() State {
	return that.state
}

// Board returns a snapshot; mutating it does not affect the game.
func (that *GameController) Board() entity.Board {
	return that.board
}

func (that *GameController) Outcome() entity.Outcome {
	return that.outcome
}

func (that *GameController) MoveCount() int {
	return that.moves
}

func (that *GameController) PlayerSymbol() entity.Symbol {
	return that.player
}

func (that *GameController) ComputerSymbol() entity.Symbol {
	return that.computer
}

func (that *GameController) GameID() string {
	return that.gameID
}

func (that *GameController) reset() {
	that.gameID = uuid.NewString()
	that.board = entity.EmptyBoard()
	that.moves = 0
	that.outcome = entity.Outcome{}

	// flip coin to decide who goes first
	status := statusPlayerFirst
	that.state = StateAwaitingPlayer
	if that.random.Intn(2) == 1 {
		status = statusComputerFirst
		that.state = StateAwaitingComputer
	}

	that.logger.Info("new game",
		"game", that.gameID,
		"player", that.player.String(),
		"computer", that.computer.String(),
		"state", that.state.String(),
	)

	that.render(status)
}

func (that *GameController) confirmTurn(want State) error {
	switch that.state {
	case want:
		return nil
	case StateFinished:
		return apperror.ErrGameFinished
	default:
		return apperror.ErrNotYourTurn
	}
}

func (that *GameController) applyMove(cell int, symbol entity.Symbol) error {
	if err := validateMove(that.board, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	if err := that.board.Set(cell, symbol); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}
	that.moves++

	that.logger.Debug("move applied",
		"game", that.gameID,
		"symbol", symbol.String(),
		"cell", cell,
		"board", that.board.String(),
	)

	that.updateGameStatus(symbol)

	return nil
}

// validateMove - checks the move targets an empty cell on the board.
func validateMove(board entity.Board, cell int) error {
	if cell < 0 || cell >= entity.BoardSize {
		return fmt.Errorf("%w: cell %d", entity.ErrInvalidCell, cell)
	}

	if board[cell] != entity.Empty {
		return apperror.ErrCellOccupied
	}

	return nil
}

func (that *GameController) updateGameStatus(mover entity.Symbol) {
	that.outcome = DetectOutcome(that.board)

	switch {
	case that.outcome.IsFinished():
		that.state = StateFinished
		that.logger.Info("game over",
			"game", that.gameID,
			"board", that.board.String(),
			"result", that.outcome.Message(),
		)
	case mover == that.player:
		that.state = StateAwaitingComputer
	default:
		that.state = StateAwaitingPlayer
	}

	that.render(that.status())
}

func (that *GameController) status() string {
	switch that.state {
	case StateFinished:
		return that.outcome.Message()
	case StateAwaitingComputer:
		return statusComputerTurn
	default:
		return statusPlayerTurn
	}
}

func (that *GameController) render(status string) {
	var disabled [entity.BoardSize]bool
	for i, cell := range that.board {
		disabled[i] = cell != entity.Empty || that.state == StateFinished
	}

	that.renderer.RenderBoard(that.board, disabled)
	that.renderer.RenderStatus(status)
}
