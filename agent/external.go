package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"knights/game"
)

// Input supplies coordinates typed by a person or another program. legal
// lists the coordinates currently allowed, for prompting.
type Input interface {
	ReadMove(ctx context.Context, player game.PlayerID, legal []string) (string, error)
	// Reject tells the source why its last coordinate was refused.
	Reject(text string, err error)
}

type externalAgent struct {
	input Input
}

// NewExternalAgent plays coordinates read from input, asking again until one
// of them is legal.
func NewExternalAgent(input Input) Agent {
	return externalAgent{input: input}
}

func (a externalAgent) FindMove(ctx context.Context, b *game.Board) (Decision, error) {
	moves := b.PossibleMoves()
	if len(moves) == 0 {
		return Decision{}, nil
	}
	legal := lo.Map(moves, func(m game.Square, _ int) string {
		return m.String()
	})

	for {
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}
		text, err := a.input.ReadMove(ctx, b.ToMove(), legal)
		if err != nil {
			return Decision{}, err
		}
		move, err := parseLegal(text, moves)
		if err != nil {
			log.Debug().Err(err).Str("input", text).Msg("rejected-move")
			a.input.Reject(text, err)
			continue
		}
		return Decision{Move: move, Found: true}, nil
	}
}

func parseLegal(text string, moves []game.Square) (game.Square, error) {
	move, err := game.ParseSquare(text)
	if err != nil {
		return game.Square{}, err
	}
	if !lo.Contains(moves, move) {
		return game.Square{}, fmt.Errorf("%w: %s is not one of %v", game.ErrIllegalMove, move, moves)
	}
	return move, nil
}
