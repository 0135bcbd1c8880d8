package engine

import (
	"github.com/samber/lo"

	"knights/game"
	"knights/searcher"
)

// Game is a single game driven from outside, one coordinate at a time.
type Game struct {
	board   *game.Board
	history []game.Square
	negamax *searcher.Negamax
}

// NewGame starts a game on an empty rows x cols board. Options configure the
// search used by BestMove.
func NewGame(rows, cols int, options ...searcher.Option) (*Game, error) {
	board, err := game.NewBoard(rows, cols)
	if err != nil {
		return nil, err
	}
	return &Game{
		board:   board,
		negamax: searcher.NewNegamax(options...),
	}, nil
}

// LegalMoves lists the coordinates the player to move may choose, in
// enumeration order.
func (g *Game) LegalMoves() []string {
	return lo.Map(g.board.PossibleMoves(), func(s game.Square, _ int) string {
		return s.String()
	})
}

// PlayMove parses coord and plays it for the player to move.
func (g *Game) PlayMove(coord string) error {
	s, err := game.ParseSquare(coord)
	if err != nil {
		return err
	}
	return g.Play(s)
}

func (g *Game) Play(s game.Square) error {
	if err := g.board.Apply(s); err != nil {
		return err
	}
	g.history = append(g.history, s)
	return nil
}

// BestMove searches the current position. ok is false when the player to
// move has no legal move, or when cfg.Depth is zero.
func (g *Game) BestMove(cfg searcher.Config) (coord string, ok bool) {
	res := g.negamax.Evaluate(g.board, cfg)
	if !res.HasMove {
		return "", false
	}
	return res.Move.String(), true
}

func (g *Game) IsOver() bool { return g.board.IsTerminal() }

func (g *Game) Winner() game.PlayerID { return g.board.Winner() }

func (g *Game) ToMove() game.PlayerID { return g.board.ToMove() }

// History returns the moves played so far, oldest first.
func (g *Game) History() []game.Square {
	return append([]game.Square(nil), g.history...)
}

func (g *Game) Board() *game.Board {
	return g.board.Copy()
}
