package searcher

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"knights/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newBoard(t *testing.T, rows, cols int, moves ...string) *game.Board {
	t.Helper()
	b, err := game.NewBoard(rows, cols)
	require.NoError(t, err)
	for _, text := range moves {
		s, err := game.ParseSquare(text)
		require.NoError(t, err)
		require.NoError(t, b.Apply(s), "playing %s", text)
	}
	return b
}

// wins reports whether the player to move can force a win, by exhaustive
// enumeration without any search machinery.
func wins(b *game.Board) bool {
	for _, m := range b.PossibleMoves() {
		child := b.Copy()
		if err := child.Apply(m); err != nil {
			panic(err)
		}
		if !wins(child) {
			return true
		}
	}
	return false
}

// reachable returns every board reachable from b, b included.
func reachable(b *game.Board) []*game.Board {
	seen := map[game.StateKey]bool{}
	var out []*game.Board
	var visit func(b *game.Board)
	visit = func(b *game.Board) {
		if seen[b.Key()] {
			return
		}
		seen[b.Key()] = true
		out = append(out, b)
		for _, m := range b.PossibleMoves() {
			child := b.Copy()
			if err := child.Apply(m); err != nil {
				panic(err)
			}
			visit(child)
		}
	}
	visit(b)
	return out
}

// randomPositions plays n random games on a rows x cols board and returns the
// position after a random number of plies from each.
func randomPositions(t *testing.T, r *rand.Rand, rows, cols, n int) []*game.Board {
	t.Helper()
	var out []*game.Board
	for i := 0; i < n; i++ {
		b := newBoard(t, rows, cols)
		plies := r.Intn(rows * cols / 2)
		for p := 0; p < plies; p++ {
			moves := b.PossibleMoves()
			if len(moves) == 0 {
				break
			}
			require.NoError(t, b.Apply(moves[r.Intn(len(moves))]))
		}
		out = append(out, b)
	}
	return out
}

func TestEvaluateEdgeCases(t *testing.T) {
	t.Run("terminal position is a loss with no move at any depth", func(t *testing.T) {
		for _, depth := range []int{0, 1, 11} {
			res := NewNegamax().Evaluate(newBoard(t, 1, 1), Config{Depth: depth})

			require.Equal(t, Result{Score: Loss}, res, "depth %d", depth)
		}
	})

	t.Run("zero depth on a live position scores 0 with no move", func(t *testing.T) {
		res := NewNegamax().Evaluate(newBoard(t, 5, 5), Config{Depth: 0})

		require.Equal(t, Result{}, res)
	})

	t.Run("negative depth behaves like zero", func(t *testing.T) {
		res := NewNegamax().Evaluate(newBoard(t, 5, 5), Config{Depth: -3})

		require.Equal(t, Result{}, res)
	})

	t.Run("search restores the board", func(t *testing.T) {
		b := newBoard(t, 6, 6, "B3", "D5")
		before := b.Copy()

		NewNegamax().Evaluate(b, Config{Depth: 8})

		require.True(t, before.Equal(b), "Board should be restored after search")
	})

	t.Run("all moves tie below the horizon so the first one is kept", func(t *testing.T) {
		res := NewNegamax().Evaluate(newBoard(t, 8, 8), Config{Depth: 1})

		require.Equal(t, Result{Score: 0, Move: game.Square{Row: 1, Col: 2}, HasMove: true}, res)
	})

	t.Run("huge depth on a large board is clamped to the remaining game", func(t *testing.T) {
		b := newBoard(t, 3, 3)

		res := NewNegamax().Evaluate(b, Config{Depth: 1 << 30})

		require.Equal(t, Loss, res.Score, "3x3 is lost for player 1")
	})
}

func TestEvaluateFindsForcedWins(t *testing.T) {
	t.Run("5x5 opening is won for player 1 and B3 is the first winning move", func(t *testing.T) {
		res := NewNegamax().Evaluate(newBoard(t, 5, 5), Config{Depth: 25})

		require.Equal(t, Win, res.Score)
		require.Equal(t, "B3", res.Move.String())
	})

	t.Run("only the last enumerated move wins", func(t *testing.T) {
		b := newBoard(t, 5, 5, "B3", "C4", "C5", "E3")
		require.Equal(t, []game.Square{{Row: 3, Col: 2}, {Row: 4, Col: 3}, {Row: 0, Col: 3}}, b.PossibleMoves(), "D3, E4, A4")

		for _, n := range []*Negamax{NewNegamax(), NewNegamax(WithoutTranspositionTable(), WithoutPruning())} {
			res := n.Evaluate(b, Config{Depth: 25})

			require.Equal(t, Win, res.Score)
			require.Equal(t, "A4", res.Move.String())
		}
	})

	t.Run("a losing side still returns its first move", func(t *testing.T) {
		res := NewNegamax().Evaluate(newBoard(t, 4, 4), Config{Depth: 16})

		require.Equal(t, Loss, res.Score)
		require.True(t, res.HasMove)
		require.Equal(t, newBoard(t, 4, 4).PossibleMoves()[0], res.Move)
	})
}

func TestExactnessAgainstBruteForce(t *testing.T) {
	for _, size := range [][2]int{{3, 3}, {4, 4}, {3, 4}, {4, 5}} {
		rows, cols := size[0], size[1]
		n := NewNegamax()
		for _, b := range reachable(newBoard(t, rows, cols)) {
			res := n.Evaluate(b, Config{Depth: rows * cols})

			if wins(b) {
				require.Equal(t, Win, res.Score, "%dx%d %q", rows, cols, b.Key())
				child := b.Copy()
				require.NoError(t, child.Apply(res.Move))
				require.False(t, wins(child), "The chosen move must leave the opponent lost")
			} else {
				require.Equal(t, Loss, res.Score, "%dx%d %q", rows, cols, b.Key())
			}
		}
	}
}

func TestMemoizationTransparency(t *testing.T) {
	variants := map[string]func() *Negamax{
		"table and pruning": func() *Negamax { return NewNegamax() },
		"table only":        func() *Negamax { return NewNegamax(WithoutPruning()) },
		"pruning only":      func() *Negamax { return NewNegamax(WithoutTranspositionTable()) },
		"small table": func() *Negamax {
			return NewNegamax(WithTranspositionTable(NewTranspositionTableWithCapacity(numShards * 4)))
		},
	}
	reference := NewNegamax(WithoutTranspositionTable(), WithoutPruning())

	type position struct {
		board  *game.Board
		depths []int
	}
	var positions []position
	for _, b := range reachable(newBoard(t, 3, 3)) {
		positions = append(positions, position{b, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}})
	}
	for _, b := range reachable(newBoard(t, 4, 4)) {
		positions = append(positions, position{b, []int{1, 2, 3, 5, 8, 16}})
	}
	r := rand.New(rand.NewSource(11))
	for _, b := range randomPositions(t, r, 5, 5, 40) {
		positions = append(positions, position{b, []int{1, 2, 4, 6}})
	}

	for name, newVariant := range variants {
		t.Run(name, func(t *testing.T) {
			// One searcher across all positions so entries from earlier
			// searches are reused by later ones.
			n := newVariant()
			for _, p := range positions {
				for _, depth := range p.depths {
					want := reference.Evaluate(p.board, Config{Depth: depth})
					got := n.Evaluate(p.board, Config{Depth: depth})

					require.Equal(t, want, got, "depth %d on %q", depth, p.board.Key())
				}
			}
		})
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	sequential := NewNegamax()
	parallel := NewNegamax(WithWorkers(4))
	parallelNoTable := NewNegamax(WithWorkers(3), WithoutTranspositionTable())

	for _, b := range randomPositions(t, r, 6, 6, 30) {
		for _, depth := range []int{1, 3, 6} {
			want := sequential.Evaluate(b, Config{Depth: depth})

			require.Equal(t, want, parallel.Evaluate(b, Config{Depth: depth}), "depth %d on %q", depth, b.Key())
			require.Equal(t, want, parallelNoTable.Evaluate(b, Config{Depth: depth}), "depth %d on %q", depth, b.Key())
		}
	}

	t.Run("parallel search handles terminal and zero-depth positions", func(t *testing.T) {
		require.Equal(t, Result{Score: Loss}, parallel.Evaluate(newBoard(t, 1, 1), Config{Depth: 4}))
		require.Equal(t, Result{}, parallel.Evaluate(newBoard(t, 6, 6), Config{Depth: 0}))
	})
}

func TestSearchMetrics(t *testing.T) {
	t.Run("collects nodes and table probes when enabled", func(t *testing.T) {
		n := NewNegamax(WithMetrics())

		_, metric := n.Search(newBoard(t, 5, 5), Config{Depth: 8})

		require.Equal(t, 8, metric.Depth)
		require.Equal(t, 1, metric.Workers)
		require.Positive(t, metric.Nodes)
		require.Positive(t, metric.TableProbe)
	})

	t.Run("records nothing by default", func(t *testing.T) {
		_, metric := NewNegamax().Search(newBoard(t, 5, 5), Config{Depth: 4})

		require.Zero(t, metric.Nodes)
	})

	t.Run("a repeated search is answered from the table", func(t *testing.T) {
		n := NewNegamax(WithMetrics())
		b := newBoard(t, 6, 6)

		_, first := n.Search(b, Config{Depth: 6})
		_, second := n.Search(b, Config{Depth: 6})

		require.Greater(t, first.Nodes, int64(1))
		require.Equal(t, int64(1), second.Nodes, "The root entry should be exact")
		require.Equal(t, int64(1), second.TableHits)
	})
}

func TestSearchOrder(t *testing.T) {
	order := func(n, hashIdx int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = searchOrder(i, hashIdx)
		}
		return out
	}

	require.Equal(t, []int{0, 1, 2, 3}, order(4, -1))
	require.Equal(t, []int{0, 1, 2, 3}, order(4, 0))
	require.Equal(t, []int{2, 0, 1, 3}, order(4, 2))
	require.Equal(t, []int{3, 0, 1, 2}, order(4, 3))
}
