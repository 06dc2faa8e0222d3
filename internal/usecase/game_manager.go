package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

const statusRestarting = "Restarting game..."

var ErrUnknownCommand = errors.New("unknown command")

type CommandKind uint8

const (
	CommandMove CommandKind = iota
	CommandNew
	CommandRestart
	CommandBoard
)

// Command is a request coming from the front end.
type Command struct {
	Kind   CommandKind
	Cell   int
	Symbol entity.Symbol
}

type action uint8

const (
	actionNone action = iota
	actionComputerMove
	actionRestart
)

type gameController interface {
	Start(preferred entity.Symbol) tictactoe.State
	Restart() tictactoe.State
	ApplyPlayerMove(cell int) error
	ApplyComputerMove() error
	Refresh()

	State() tictactoe.State
	MoveCount() int
}

type statusSink interface {
	RenderStatus(status string)
}

// GameManager serialises player commands and paced computer turns on a single goroutine.
type GameManager struct {
	logger *slog.Logger
	clock  clock.Clock

	controller gameController
	status     statusSink
	pacing     config.Pacing

	commands chan Command
	timer    *clock.Timer
	pending  action
}

func NewGameManager(logger *slog.Logger, clk clock.Clock, controller gameController, status statusSink, pacing config.Pacing) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),
		clock:  clk,

		controller: controller,
		status:     status,
		pacing:     pacing,

		commands: make(chan Command),
	}
}

// Commands - the channel the front end submits commands to.
func (that *GameManager) Commands() chan<- Command {
	return that.commands
}

// Run - processes commands and timers until the context is canceled.
func (that *GameManager) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	defer that.stopTimer()

	for {
		select {
		case <-ctx.Done():
			log.Debug("context canceled, stopping game loop")
			return nil
		case cmd := <-that.commands:
			if err := that.Handle(cmd); err != nil {
				log.Debug("command rejected", "command", cmd.Kind, "error", err)
			}
		case <-that.timerC():
			that.fire()
		}
	}
}

// Handle - applies one command. Must not be called concurrently with Run.
func (that *GameManager) Handle(cmd Command) error {
	var err error

	switch cmd.Kind {
	case CommandMove:
		err = that.controller.ApplyPlayerMove(cmd.Cell)
	case CommandNew:
		that.controller.Start(cmd.Symbol)
	case CommandRestart:
		that.controller.Restart()
	case CommandBoard:
		that.controller.Refresh()
		return nil
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownCommand, cmd.Kind)
	}

	if err != nil {
		that.status.RenderStatus(describeError(err))
		return err
	}

	that.reschedule()

	return nil
}

func (that *GameManager) fire() {
	log := that.logger.With("method", "fire")

	pending := that.pending
	that.pending = actionNone
	that.timer = nil

	switch pending {
	case actionComputerMove:
		if err := that.controller.ApplyComputerMove(); err != nil {
			log.Error("computer failed to move", "error", err)
			return
		}
	case actionRestart:
		that.controller.Restart()
	default:
		return
	}

	that.reschedule()
}

// reschedule - arms the timer for whatever the new state waits on.
func (that *GameManager) reschedule() {
	that.stopTimer()

	switch that.controller.State() {
	case tictactoe.StateAwaitingComputer:
		delay := that.pacing.ComputerDelay
		if that.controller.MoveCount() == 0 {
			delay = that.pacing.OpeningDelay
		}
		that.schedule(actionComputerMove, delay)
	case tictactoe.StateFinished:
		if that.pacing.ManualRestart {
			return
		}
		that.status.RenderStatus(statusRestarting)
		that.schedule(actionRestart, that.pacing.RestartDelay)
	case tictactoe.StateAwaitingPlayer:
	}
}

func (that *GameManager) schedule(next action, delay time.Duration) {
	that.pending = next
	that.timer = that.clock.Timer(delay)
}

func (that *GameManager) stopTimer() {
	if that.timer != nil {
		that.timer.Stop()
		that.timer = nil
	}
	that.pending = actionNone
}

func (that *GameManager) timerC() <-chan time.Time {
	if that.timer == nil {
		return nil
	}
	return that.timer.C
}

func describeError(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidCell):
		return "Pick a cell between 0 and 8"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "Cell is already occupied"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "It's not your turn"
	case errors.Is(err, apperror.ErrGameFinished):
		return "Game is over, type restart"
	default:
		return "Something went wrong: " + err.Error()
	}
}
