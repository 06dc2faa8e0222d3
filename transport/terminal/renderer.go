package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const rowSeparator = "---+---+---"

// Renderer draws the grid and status lines as plain text.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// RenderBoard - free cells show their index so the player knows what to type.
func (that *Renderer) RenderBoard(board entity.Board, disabled [entity.BoardSize]bool) {
	var sb strings.Builder

	sb.WriteString("\n")
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString(rowSeparator + "\n")
		}

		cells := make([]string, 0, 3)
		for col := 0; col < 3; col++ {
			index := row*3 + col
			cells = append(cells, " "+cellLabel(board[index], index, disabled[index])+" ")
		}
		sb.WriteString(strings.Join(cells, "|") + "\n")
	}
	sb.WriteString("\n")

	_, _ = io.WriteString(that.out, sb.String())
}

func (that *Renderer) RenderStatus(status string) {
	_, _ = fmt.Fprintln(that.out, status)
}

func cellLabel(cell entity.Symbol, index int, disabled bool) string {
	switch {
	case cell != entity.Empty:
		return cell.String()
	case disabled:
		return " "
	default:
		return strconv.Itoa(index)
	}
}
