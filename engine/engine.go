package engine

import (
	"knights/experiments/metrics"
	"knights/game"
)

// Outcome summarises a finished game.
type Outcome struct {
	Winner game.PlayerID
	Game   metrics.GameMetric
	Moves  []metrics.MoveMetric
}

// Update is sent to observers after every move. Board is a copy.
type Update struct {
	Step   int
	Player game.PlayerID
	Move   game.Square
	Board  *game.Board
	Key    game.StateKey
}
