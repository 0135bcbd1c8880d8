package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"knights/agent"
	"knights/experiments/metrics"
	"knights/game"
)

var ErrNoMove = errors.New("agent returned no move")

type Engine struct {
	board    *game.Board
	agents   []agent.Agent
	observer func(Update)
}

type EngineOption func(e *Engine)

// OnUpdate registers fn to be called after each move.
func OnUpdate(fn func(Update)) EngineOption {
	return func(e *Engine) {
		e.observer = fn
	}
}

// LocalEngine sets up a game on a fresh rows x cols board. agents[0] plays
// for player 1, who moves first.
func LocalEngine(rows, cols int, agents []agent.Agent, options ...EngineOption) (*Engine, error) {
	if len(agents) != 2 {
		return nil, fmt.Errorf("need exactly two agents, got %d", len(agents))
	}
	board, err := game.NewBoard(rows, cols)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		board:  board,
		agents: agents,
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

// Board returns a copy of the current position.
func (e *Engine) Board() *game.Board {
	return e.board.Copy()
}

// Run plays the game until a player has no move left. The context is only
// checked between moves.
func (e *Engine) Run(ctx context.Context) (Outcome, error) {
	start := time.Now()
	starting := e.board.ToMove()
	log.Info().Msgf("%s is starting on a %dx%d board", starting, e.board.Rows(), e.board.Cols())

	// Every move fills a cell, so the area bounds the game length.
	maxTurns := e.board.Rows() * e.board.Cols()
	var moves []metrics.MoveMetric
	for step := 1; !e.board.IsTerminal() && step <= maxTurns; step++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		player := e.board.ToMove()
		decision, err := e.agents[player-1].FindMove(ctx, e.board)
		if err != nil {
			return Outcome{}, fmt.Errorf("%s: %w", player, err)
		}
		if !decision.Found {
			return Outcome{}, fmt.Errorf("%w: %s on a live board", ErrNoMove, player)
		}
		if err := e.board.Apply(decision.Move); err != nil {
			return Outcome{}, fmt.Errorf("%s: %w", player, err)
		}

		moves = append(moves, metrics.MoveMetric{
			Step:         step,
			Player:       int(player),
			Move:         decision.Move.String(),
			SearchMetric: decision.Metric,
		})
		log.Debug().
			Int("step", step).
			Str("player", player.String()).
			Str("move", decision.Move.String()).
			Msg("move-played")

		if e.observer != nil {
			e.observer(Update{
				Step:   step,
				Player: player,
				Move:   decision.Move,
				Board:  e.board.Copy(),
				Key:    e.board.Key(),
			})
		}
	}

	end := time.Now()
	winner := e.board.Winner()
	log.Info().Msgf("%s wins after %d moves", winner, len(moves))

	return Outcome{
		Winner: winner,
		Game: metrics.GameMetric{
			StartingPlayer: int(starting),
			Winner:         int(winner),
			StartTime:      start,
			EndTime:        end,
			Duration:       end.Sub(start),
			TotalMoves:     len(moves),
		},
		Moves: moves,
	}, nil
}
