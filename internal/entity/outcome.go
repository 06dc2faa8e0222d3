package entity

type OutcomeKind uint8

const (
	InProgress OutcomeKind = iota
	Won
	Tie
)

// Outcome is the classification of a board.
type Outcome struct {
	Kind   OutcomeKind
	Winner Symbol
}

func WonBy(symbol Symbol) Outcome {
	return Outcome{Kind: Won, Winner: symbol}
}

func TieOutcome() Outcome {
	return Outcome{Kind: Tie}
}

func (that Outcome) IsFinished() bool {
	return that.Kind != InProgress
}

// Message - the status line shown when the game is over.
func (that Outcome) Message() string {
	switch that.Kind {
	case Won:
		return that.Winner.String() + " wins!"
	case Tie:
		return "It's a tie."
	default:
		return ""
	}
}
