package searcher

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"knights/experiments/metrics"
	"knights/game"
)

/*
negamax(node, depth, α, β):
    if node is terminal: return Loss
    if depth = 0: return 0
    value := −∞
    foreach child in children(node):
        value := max(value, −negamax(child, depth − 1, −β, −α))
        α := max(α, value)
        if α ≥ β: break
    return value
*/

type Option func(n *Negamax)

// Negamax searches a board to a fixed depth. A Negamax keeps its table
// between calls but must not run two searches at the same time.
type Negamax struct {
	ttable  *TranspositionTable
	pruning bool
	workers int
	metrics metrics.Collector
}

func WithTranspositionTable(tt *TranspositionTable) Option {
	return func(n *Negamax) {
		if tt != nil {
			n.ttable = tt
		}
	}
}

func WithoutTranspositionTable() Option {
	return func(n *Negamax) {
		n.ttable = nil
	}
}

func WithoutPruning() Option {
	return func(n *Negamax) {
		n.pruning = false
	}
}

// WithWorkers splits the top-level moves across up to workers goroutines.
func WithWorkers(workers int) Option {
	return func(n *Negamax) {
		if workers > 0 {
			n.workers = workers
		}
	}
}

func WithMetrics() Option {
	return func(n *Negamax) {
		n.metrics = metrics.NewCollector()
	}
}

func NewNegamax(options ...Option) *Negamax {
	n := &Negamax{ // Default values
		pruning: true,
		workers: 1,
		metrics: metrics.NewDummyCollector(),
	}
	n.ttable = NewTranspositionTable(DefaultTableMemoryFraction)
	for _, option := range options {
		option(n)
	}
	return n
}

// Table returns the transposition table, or nil when memoization is off.
func (n *Negamax) Table() *TranspositionTable {
	return n.ttable
}

// Evaluate scores b for the player to move and picks the best move. The board
// is used as scratch space and is restored before Evaluate returns.
func (n *Negamax) Evaluate(b *game.Board, cfg Config) Result {
	res, _ := n.Search(b, cfg)
	return res
}

func (n *Negamax) Search(b *game.Board, cfg Config) (Result, metrics.SearchMetric) {
	depth := max(cfg.Depth, 0)
	n.metrics.Start(depth, n.workers)

	var res Result
	if n.workers > 1 {
		res = n.searchParallel(b, depth)
	} else {
		s := n.newSearch(min(depth, b.EmptyCount()))
		res.Score, res.Move, res.HasMove = s.negamax(b, depth, -Infinity, Infinity, 0)
	}

	metric := n.metrics.Complete()
	log.Debug().
		Int("depth", depth).
		Int("score", res.Score).
		Str("move", moveText(res)).
		Int64("nodes", metric.Nodes).
		Dur("duration", metric.Duration).
		Msg("search-done")
	return res, metric
}

func moveText(res Result) string {
	if !res.HasMove {
		return "-"
	}
	return res.Move.String()
}

// search holds the per-goroutine scratch buffers of one search.
type search struct {
	*Negamax
	moves [][]game.Square
	snaps []game.Snapshot
}

func (n *Negamax) newSearch(depth int) *search {
	s := &search{
		Negamax: n,
		moves:   make([][]game.Square, depth+1),
		snaps:   make([]game.Snapshot, depth+1),
	}
	for i := range s.moves {
		s.moves[i] = make([]game.Square, 0, 8)
	}
	return s
}

func (s *search) negamax(b *game.Board, depth, alpha, beta, ply int) (int, game.Square, bool) {
	s.metrics.AddNode()

	moves := b.AppendMoves(s.moves[ply][:0])
	s.moves[ply] = moves
	if len(moves) == 0 {
		return Loss, game.Square{}, false
	}
	// Every budget that reaches past the last possible ply gives the same
	// result, so they share table entries.
	depth = min(depth, b.EmptyCount())
	if depth == 0 {
		return 0, game.Square{}, false
	}
	if !s.pruning {
		alpha, beta = -Infinity, Infinity
	}

	var key game.StateKey
	hashIdx := -1
	if s.ttable != nil {
		key = b.Key()
		entry, ok := s.ttable.lookup(key, depth)
		s.metrics.AddTableProbe(ok)
		if ok {
			switch {
			case entry.Flag == Exact,
				entry.Flag == LowerBound && entry.Score >= beta,
				entry.Flag == UpperBound && entry.Score <= alpha:
				return entry.Score, entry.Move, entry.HasMove
			}
			if entry.HasMove {
				hashIdx = lo.IndexOf(moves, entry.Move)
			}
		}
	}

	b.SnapshotInto(&s.snaps[ply])
	best, bestIdx := -Infinity, -1
	for i := range moves {
		idx := searchOrder(i, hashIdx)
		if err := b.Apply(moves[idx]); err != nil {
			panic(fmt.Sprintf("move generation produced an illegal move: %v", err))
		}

		lo := -Infinity
		if s.pruning {
			lo = max(alpha, best)
			if idx < bestIdx {
				// An earlier move only needs to tie the best to replace it,
				// so the window has to resolve the tie exactly.
				lo--
			}
		}
		score, _, _ := s.negamax(b, depth-1, -beta, -lo, ply+1)
		score = -score
		b.UndoTo(&s.snaps[ply])

		if score > best || (score == best && idx < bestIdx) {
			best, bestIdx = score, idx
		}
		if s.pruning && best >= beta {
			s.metrics.AddCutoff()
			break
		}
	}

	if s.ttable != nil {
		flag := Exact
		if best <= alpha {
			flag = UpperBound
		} else if best >= beta {
			flag = LowerBound
		}
		s.ttable.store(key, depth, TableEntry{Score: best, Move: moves[bestIdx], HasMove: true, Flag: flag})
	}
	return best, moves[bestIdx], true
}

// searchOrder maps the i-th searched move to its enumeration index, trying the
// table's move first.
func searchOrder(i, hashIdx int) int {
	switch {
	case hashIdx <= 0:
		return i
	case i == 0:
		return hashIdx
	case i <= hashIdx:
		return i - 1
	}
	return i
}

// searchParallel searches every top-level move on its own copy of the board
// with a full window, so each score is exact and the first best move in
// enumeration order matches the sequential search.
func (n *Negamax) searchParallel(b *game.Board, depth int) Result {
	n.metrics.AddNode()
	moves := b.PossibleMoves()
	if len(moves) == 0 {
		return Result{Score: Loss}
	}
	depth = min(depth, b.EmptyCount())
	if depth == 0 {
		return Result{}
	}

	scores := make([]int, len(moves))
	g := errgroup.Group{}
	g.SetLimit(n.workers)
	for i, move := range moves {
		g.Go(func() error {
			child := b.Copy()
			if err := child.Apply(move); err != nil {
				return err
			}
			s := n.newSearch(depth)
			score, _, _ := s.negamax(child, depth-1, -Infinity, Infinity, 1)
			scores[i] = -score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(fmt.Sprintf("move generation produced an illegal move: %v", err))
	}

	bestIdx := 0
	for i, score := range scores {
		if score > scores[bestIdx] {
			bestIdx = i
		}
	}
	res := Result{Score: scores[bestIdx], Move: moves[bestIdx], HasMove: true}
	if n.ttable != nil {
		n.ttable.store(b.Key(), depth, TableEntry{Score: res.Score, Move: res.Move, HasMove: true, Flag: Exact})
	}
	return res
}
