package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// BoardSize is the number of cells on a 3x3 board.
const BoardSize = 9

// Symbol is the mark occupying a cell.
type Symbol uint8

const (
	Empty Symbol = iota
	PlayerX
	PlayerO
)

var (
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrInvalidBoard = errors.New("invalid board pattern")
)

// ParseSymbol - maps "x" or "o" (any case) to a symbol, anything else is Empty.
func ParseSymbol(s string) Symbol {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return PlayerX
	case "o":
		return PlayerO
	default:
		return Empty
	}
}

func (that Symbol) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return "-"
	}
}

// Opponent returns the other side, Empty stays Empty.
func (that Symbol) Opponent() Symbol {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

func (that Symbol) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

func (that Symbol) pattern() byte {
	switch that {
	case PlayerX:
		return 'x'
	case PlayerO:
		return 'o'
	default:
		return '-'
	}
}

// Board is a 3x3 grid stored row-major, index 0..8.
type Board [BoardSize]Symbol

func EmptyBoard() Board {
	return Board{}
}

// ParseBoard - builds a board from its pattern string, e.g. "xx-o-o---".
func ParseBoard(pattern string) (Board, error) {
	var board Board

	if len(pattern) != BoardSize {
		return board, fmt.Errorf("%w: want %d cells, got %d", ErrInvalidBoard, BoardSize, len(pattern))
	}

	for i := 0; i < BoardSize; i++ {
		switch pattern[i] {
		case 'x', 'X':
			board[i] = PlayerX
		case 'o', 'O':
			board[i] = PlayerO
		case '-':
			board[i] = Empty
		default:
			return Board{}, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidBoard, pattern[i], i)
		}
	}

	return board, nil
}

// Set overwrites a cell. Occupancy is not checked here.
func (that *Board) Set(index int, symbol Symbol) error {
	if index < 0 || index >= BoardSize {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, index)
	}

	that[index] = symbol

	return nil
}

// AvailableMoves - the empty cell indices in ascending order.
func (that Board) AvailableMoves() []int {
	return lo.Filter(lo.Range(BoardSize), func(index int, _ int) bool {
		return that[index] == Empty
	})
}

// Count - number of occupied cells.
func (that Board) Count() int {
	return lo.CountBy(that[:], func(cell Symbol) bool {
		return cell != Empty
	})
}

func (that Board) IsFull() bool {
	return that.Count() == BoardSize
}

// String renders the board as its pattern string.
func (that Board) String() string {
	var sb strings.Builder
	sb.Grow(BoardSize)

	for _, cell := range that {
		sb.WriteByte(cell.pattern())
	}

	return sb.String()
}
