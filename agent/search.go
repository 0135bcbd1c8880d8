package agent

import (
	"context"

	"knights/game"
	"knights/searcher"
)

type searchAgent struct {
	negamax *searcher.Negamax
	config  searcher.Config
}

// NewSearchAgent plays the search engine's best move at a fixed depth.
func NewSearchAgent(negamax *searcher.Negamax, config searcher.Config) Agent {
	return searchAgent{negamax: negamax, config: config}
}

func (a searchAgent) FindMove(_ context.Context, b *game.Board) (Decision, error) {
	res, metric := a.negamax.Search(b, a.config)
	if !res.HasMove {
		// A zero depth search names no move; play the first legal one.
		moves := b.PossibleMoves()
		if len(moves) == 0 {
			return Decision{Metric: metric}, nil
		}
		return Decision{Move: moves[0], Found: true, Metric: metric}, nil
	}
	return Decision{Move: res.Move, Found: true, Metric: metric}, nil
}
