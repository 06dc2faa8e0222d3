package tictactoe

import "github.com/rocketscienceinc/tictactoe-solo/internal/entity"

// WinCombos - the rows, columns and diagonals of the board.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// O is checked first; for boards reached by alternating play at most one side can hold a line.
var candidates = [2]entity.Symbol{entity.PlayerO, entity.PlayerX}

// DetectOutcome - classifies a board as won, tied or still in progress.
func DetectOutcome(board entity.Board) entity.Outcome {
	for _, symbol := range candidates {
		if hasLine(board, symbol) {
			return entity.WonBy(symbol)
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range board {
		if cell == entity.Empty {
			return entity.Outcome{Kind: entity.InProgress}
		}
	}

	return entity.TieOutcome()
}

func hasLine(board entity.Board, symbol entity.Symbol) bool {
	for _, combo := range WinCombos {
		if board[combo[0]] == symbol && board[combo[1]] == symbol && board[combo[2]] == symbol {
			return true
		}
	}

	return false
}
