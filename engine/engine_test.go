package engine

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"knights/agent"
	"knights/game"
	"knights/searcher"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestGame(t *testing.T) {
	t.Run("rejects bad dimensions", func(t *testing.T) {
		_, err := NewGame(0, 5)
		require.ErrorIs(t, err, game.ErrOutOfBoundsConfig)
	})

	t.Run("corner scenario on 5x5", func(t *testing.T) {
		g, err := NewGame(5, 5)
		require.NoError(t, err)
		require.Equal(t, []string{"B3", "C2"}, g.LegalMoves())

		require.NoError(t, g.PlayMove("C2"))
		require.Equal(t, game.Player2, g.ToMove())
		require.Equal(t, game.Blocked, g.Board().Cell(game.Square{Row: 0, Col: 0}))

		for !g.IsOver() {
			require.NotContains(t, g.LegalMoves(), "A1")
			require.NoError(t, g.PlayMove(g.LegalMoves()[0]))
		}
	})

	t.Run("illegal and malformed moves leave the game unchanged", func(t *testing.T) {
		g, err := NewGame(5, 5)
		require.NoError(t, err)

		require.ErrorIs(t, g.PlayMove("A1"), game.ErrIllegalMove)
		require.ErrorIs(t, g.PlayMove("D4"), game.ErrIllegalMove)
		require.ErrorIs(t, g.PlayMove("Z"), game.ErrBadCoordinate)
		require.Empty(t, g.History())
		require.Equal(t, game.Player1, g.ToMove())
	})

	t.Run("history keeps moves in order", func(t *testing.T) {
		g, err := NewGame(5, 5)
		require.NoError(t, err)
		require.NoError(t, g.PlayMove("b3"))
		require.NoError(t, g.PlayMove("C4"))

		require.Equal(t, []game.Square{{Row: 1, Col: 2}, {Row: 2, Col: 3}}, g.History())
	})

	t.Run("board is a copy", func(t *testing.T) {
		g, err := NewGame(5, 5)
		require.NoError(t, err)

		b := g.Board()
		require.NoError(t, b.Apply(game.Square{Row: 1, Col: 2}))

		require.Equal(t, game.Player1, g.ToMove())
	})

	t.Run("1x1 is over at once and player 2 wins", func(t *testing.T) {
		g, err := NewGame(1, 1)
		require.NoError(t, err)

		require.True(t, g.IsOver())
		require.Equal(t, game.Player2, g.Winner())
		require.Empty(t, g.LegalMoves())
		_, ok := g.BestMove(searcher.Config{Depth: 5})
		require.False(t, ok)
	})

	t.Run("best move wins 5x5", func(t *testing.T) {
		g, err := NewGame(5, 5)
		require.NoError(t, err)

		move, ok := g.BestMove(searcher.Config{Depth: 25})
		require.True(t, ok)
		require.Equal(t, "B3", move)
		require.Empty(t, g.History(), "Searching must not play")
	})

	t.Run("best move at depth zero claims nothing", func(t *testing.T) {
		g, err := NewGame(5, 5)
		require.NoError(t, err)

		_, ok := g.BestMove(searcher.Config{Depth: 0})
		require.False(t, ok)
	})
}

func TestLocalEngine(t *testing.T) {
	t.Run("needs two agents", func(t *testing.T) {
		_, err := LocalEngine(5, 5, []agent.Agent{agent.NewRandomAgent(1)})
		require.Error(t, err)
	})

	t.Run("perfect play wins 5x5 for player 1", func(t *testing.T) {
		agents := []agent.Agent{
			agent.NewSearchAgent(searcher.NewNegamax(), searcher.Config{Depth: 25}),
			agent.NewSearchAgent(searcher.NewNegamax(), searcher.Config{Depth: 25}),
		}
		var updates []Update
		e, err := LocalEngine(5, 5, agents, OnUpdate(func(u Update) {
			updates = append(updates, u)
		}))
		require.NoError(t, err)

		outcome, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, game.Player1, outcome.Winner)
		require.Equal(t, 1, outcome.Game.StartingPlayer)
		require.Equal(t, 1, outcome.Game.Winner)
		require.Len(t, outcome.Moves, outcome.Game.TotalMoves)
		require.Len(t, updates, outcome.Game.TotalMoves)
		require.Equal(t, "B3", outcome.Moves[0].Move)
		require.True(t, e.Board().IsTerminal())

		for i, u := range updates {
			require.Equal(t, i+1, u.Step)
			require.Equal(t, game.PlayerID(i%2+1), u.Player)
			require.Equal(t, u.Board.Key(), u.Key)
		}
		require.Equal(t, game.Player1, updates[len(updates)-1].Player, "The winner moves last")
	})

	t.Run("random games end with the last mover winning", func(t *testing.T) {
		for seed := uint64(1); seed <= 20; seed++ {
			agents := []agent.Agent{agent.NewRandomAgent(seed), agent.NewRandomAgent(seed * 7)}
			var last game.PlayerID
			e, err := LocalEngine(6, 7, agents, OnUpdate(func(u Update) { last = u.Player }))
			require.NoError(t, err)

			outcome, err := e.Run(context.Background())

			require.NoError(t, err)
			require.Equal(t, last, outcome.Winner)
			require.LessOrEqual(t, outcome.Game.TotalMoves, 6*7-2)
		}
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		agents := []agent.Agent{agent.NewRandomAgent(1), agent.NewRandomAgent(2)}
		e, err := LocalEngine(8, 8, agents, OnUpdate(func(u Update) {
			if u.Step == 3 {
				cancel()
			}
		}))
		require.NoError(t, err)

		_, err = e.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 8*8-2-3, e.Board().EmptyCount())
	})

	t.Run("1x1 ends before any move", func(t *testing.T) {
		agents := []agent.Agent{agent.NewRandomAgent(1), agent.NewRandomAgent(2)}
		e, err := LocalEngine(1, 1, agents)
		require.NoError(t, err)

		outcome, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, game.Player2, outcome.Winner)
		require.Zero(t, outcome.Game.TotalMoves)
	})
}
