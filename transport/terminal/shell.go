package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"

	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

const helpText = `Commands:
  0-8 | move <0-8>   place your mark
  new [x|o]          start a new game, optionally switching sides
  restart            start over with the same sides
  board              show the board again
  help               show this help
  quit | exit        leave the game`

var (
	ErrUnknownInput = errors.New("unknown command, type help")
	ErrBadCell      = errors.New("cell must be a number between 0 and 8")
)

type inputKind uint8

const (
	inputNone inputKind = iota
	inputGame
	inputHelp
	inputQuit
)

type input struct {
	kind    inputKind
	command usecase.Command
}

// Shell reads player commands from the terminal.
type Shell struct {
	logger *slog.Logger
	rl     *readline.Instance
}

func New(logger *slog.Logger, conf config.Shell) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          conf.Prompt,
		HistoryFile:     conf.HistoryFile,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    completer,

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init readline: %w", err)
	}

	return &Shell{
		logger: logger.With("component", "shell"),
		rl:     rl,
	}, nil
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("move"),
	readline.PcItem("new",
		readline.PcItem("x"),
		readline.PcItem("o"),
	),
	readline.PcItem("restart"),
	readline.PcItem("board"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
	readline.PcItem("exit"),
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// Stdout - a writer that does not garble the prompt.
func (that *Shell) Stdout() io.Writer {
	return that.rl.Stdout()
}

func (that *Shell) Close() error {
	return that.rl.Close()
}

// Loop - forwards parsed commands to out until quit, EOF, Ctrl-C on an empty line or ctx cancellation.
func (that *Shell) Loop(ctx context.Context, out chan<- usecase.Command) error {
	log := that.logger.With("method", "Loop")

	for {
		line, err := that.rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) == 0 {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read line: %w", err)
		}

		in, err := parseLine(line)
		if err != nil {
			log.Debug("bad input", "line", line, "error", err)
			_, _ = fmt.Fprintln(that.rl.Stdout(), err.Error())
			continue
		}

		switch in.kind {
		case inputNone:
			continue
		case inputHelp:
			_, _ = fmt.Fprintln(that.rl.Stdout(), helpText)
			continue
		case inputQuit:
			return nil
		case inputGame:
		}

		select {
		case out <- in.command:
		case <-ctx.Done():
			return nil
		}
	}
}

func parseLine(line string) (input, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return input{}, fmt.Errorf("could not parse %q: %w", line, err)
	}

	if len(fields) == 0 {
		return input{kind: inputNone}, nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]

	// a bare number is a move
	if cell, err := strconv.Atoi(name); err == nil && len(args) == 0 {
		return game(usecase.Command{Kind: usecase.CommandMove, Cell: cell}), nil
	}

	switch name {
	case "move", "m":
		if len(args) != 1 {
			return input{}, ErrBadCell
		}
		cell, err := strconv.Atoi(args[0])
		if err != nil {
			return input{}, ErrBadCell
		}
		return game(usecase.Command{Kind: usecase.CommandMove, Cell: cell}), nil
	case "new", "n":
		if len(args) == 0 {
			return game(usecase.Command{Kind: usecase.CommandRestart}), nil
		}
		// anything but x or o falls back to the default side
		return game(usecase.Command{Kind: usecase.CommandNew, Symbol: entity.ParseSymbol(args[0])}), nil
	case "restart", "r":
		return game(usecase.Command{Kind: usecase.CommandRestart}), nil
	case "board", "b":
		return game(usecase.Command{Kind: usecase.CommandBoard}), nil
	case "help", "h", "?":
		return input{kind: inputHelp}, nil
	case "quit", "exit", "q":
		return input{kind: inputQuit}, nil
	default:
		return input{}, fmt.Errorf("%w: %s", ErrUnknownInput, fields[0])
	}
}

func game(cmd usecase.Command) input {
	return input{kind: inputGame, command: cmd}
}
