package agent

import (
	"context"

	"knights/experiments/metrics"
	"knights/game"
)

// Decision is what an agent plays. Found is false only when the board handed
// to the agent had no legal move.
type Decision struct {
	Move   game.Square
	Found  bool
	Metric metrics.SearchMetric
}

// Agent chooses the move for the player to move on b. Agents may use b as
// scratch space but must leave it as they found it.
type Agent interface {
	FindMove(ctx context.Context, b *game.Board) (Decision, error)
}
