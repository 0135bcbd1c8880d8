package searcher

import "knights/game"

// Scores are from the point of view of the player to move. There is no
// positional evaluation: a position is won, lost or unresolved within the
// search horizon.
const (
	Win      = 100
	Loss     = -Win
	Infinity = 1 << 20
)

// Config is the per-call search budget, in plies.
type Config struct {
	Depth int
}

// Result is the outcome of a search. HasMove is false when the position is
// terminal or the budget is zero.
type Result struct {
	Score   int
	Move    game.Square
	HasMove bool
}
