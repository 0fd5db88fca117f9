package models

// DiceCount is the number of dice in play.
const DiceCount = 5

// RollsPerTurn is the reroll allowance at the start of each turn.
const RollsPerTurn = 3

// TurnState is the ephemeral per-room dice/timer/holds data, reset every turn.
// It is never persisted.
type TurnState struct {
	Dice        [DiceCount]int  `json:"dice"`
	Holds       [DiceCount]bool `json:"holds"`
	RollsLeft   int             `json:"rolls_left"`
	SecondsLeft int             `json:"seconds_left"`
}

// NewTurnState returns a fresh turn: all ones showing, nothing held,
// full reroll allowance.
func NewTurnState(turnSeconds int) TurnState {
	return TurnState{
		Dice:        [DiceCount]int{1, 1, 1, 1, 1},
		RollsLeft:   RollsPerTurn,
		SecondsLeft: turnSeconds,
	}
}
