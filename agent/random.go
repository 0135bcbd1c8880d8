package agent

import (
	"context"

	"golang.org/x/exp/rand"

	"knights/game"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent plays uniformly random legal moves. The same seed replays the
// same choices.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(_ context.Context, b *game.Board) (Decision, error) {
	moves := b.PossibleMoves()
	if len(moves) == 0 {
		return Decision{}, nil
	}
	return Decision{Move: moves[a.rng.Intn(len(moves))], Found: true}, nil
}
