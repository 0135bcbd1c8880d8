package game

import "fmt"

// Board is the mutable state of one game: the grid, both token positions and
// the player to move. A board is owned by a single game and is not safe for
// concurrent use; searches running in parallel work on their own Copy.
type Board struct {
	rows    int
	cols    int
	cells   []Cell
	pos     [3]Square // indexed by PlayerID, [0] unused
	toMove  PlayerID
	empties int
}

// Snapshot captures everything UndoTo needs to restore a board.
type Snapshot struct {
	cells   []Cell
	pos     [3]Square
	toMove  PlayerID
	empties int
}

// NewBoard places player 1 at (0,0) and player 2 at (rows-1, cols-1) with
// player 1 to move. On a 1x1 board both start squares coincide; the cell is
// marked as player 1's and the board is terminal from the start.
func NewBoard(rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 || rows > MaxDimension || cols > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d (each side must be 1..%d)", ErrOutOfBoundsConfig, rows, cols, MaxDimension)
	}
	b := &Board{
		rows:   rows,
		cols:   cols,
		cells:  make([]Cell, rows*cols),
		toMove: Player1,
	}
	b.pos[Player1] = Square{0, 0}
	b.pos[Player2] = Square{rows - 1, cols - 1}
	b.cells[b.index(b.pos[Player2])] = OccupiedByPlayer2
	b.cells[b.index(b.pos[Player1])] = OccupiedByPlayer1

	for _, c := range b.cells {
		if c == Empty {
			b.empties++
		}
	}
	return b, nil
}

func (b *Board) Rows() int { return b.rows }

func (b *Board) Cols() int { return b.cols }

// ToMove returns the player whose turn it is.
func (b *Board) ToMove() PlayerID { return b.toMove }

func (b *Board) Position(p PlayerID) Square { return b.pos[p] }

// EmptyCount is the number of empty cells. Every ply fills exactly one, so it
// bounds the number of plies left in the game.
func (b *Board) EmptyCount() int { return b.empties }

func (b *Board) InBounds(s Square) bool {
	return s.Row >= 0 && s.Col >= 0 && s.Row < b.rows && s.Col < b.cols
}

// Cell returns the content of s, which must be in bounds.
func (b *Board) Cell(s Square) Cell {
	return b.cells[b.index(s)]
}

func (b *Board) index(s Square) int {
	return s.Row*b.cols + s.Col
}

// PossibleMoves lists the legal moves of the player to move in knight offset
// order.
func (b *Board) PossibleMoves() []Square {
	return b.AppendMoves(make([]Square, 0, len(knightOffsets)))
}

// AppendMoves appends the legal moves to dst and returns the extended slice.
func (b *Board) AppendMoves(dst []Square) []Square {
	from := b.pos[b.toMove]
	for _, o := range knightOffsets {
		to := Square{from.Row + o.Dr, from.Col + o.Dc}
		if b.InBounds(to) && b.cells[b.index(to)] == Empty {
			dst = append(dst, to)
		}
	}
	return dst
}

func (b *Board) isLegal(to Square) bool {
	from := b.pos[b.toMove]
	for _, o := range knightOffsets {
		if from.Row+o.Dr == to.Row && from.Col+o.Dc == to.Col {
			return b.InBounds(to) && b.cells[b.index(to)] == Empty
		}
	}
	return false
}

// Apply moves the token of the player to move to s, blocks the square it
// vacated and passes the turn.
func (b *Board) Apply(s Square) error {
	if !b.isLegal(s) {
		return fmt.Errorf("%w: %s cannot move to %s", ErrIllegalMove, b.toMove, s)
	}
	b.cells[b.index(b.pos[b.toMove])] = Blocked
	b.cells[b.index(s)] = occupiedBy(b.toMove)
	b.pos[b.toMove] = s
	b.empties--
	b.toMove = b.toMove.Opponent()
	return nil
}

// IsTerminal reports whether the player to move has no legal move and has
// therefore lost.
func (b *Board) IsTerminal() bool {
	from := b.pos[b.toMove]
	for _, o := range knightOffsets {
		to := Square{from.Row + o.Dr, from.Col + o.Dc}
		if b.InBounds(to) && b.cells[b.index(to)] == Empty {
			return false
		}
	}
	return true
}

// Winner returns the player who still had a move when the opponent ran out,
// or NoPlayer while the game goes on. Before the first move player 2 counts as
// having moved last.
func (b *Board) Winner() PlayerID {
	if !b.IsTerminal() {
		return NoPlayer
	}
	return b.toMove.Opponent()
}

func (b *Board) Snapshot() Snapshot {
	var s Snapshot
	b.SnapshotInto(&s)
	return s
}

// SnapshotInto saves the board into s, reusing its cell buffer.
func (b *Board) SnapshotInto(s *Snapshot) {
	if cap(s.cells) < len(b.cells) {
		s.cells = make([]Cell, len(b.cells))
	}
	s.cells = s.cells[:len(b.cells)]
	copy(s.cells, b.cells)
	s.pos = b.pos
	s.toMove = b.toMove
	s.empties = b.empties
}

// UndoTo restores the board to a snapshot taken from it earlier.
func (b *Board) UndoTo(s *Snapshot) {
	if len(s.cells) != len(b.cells) {
		panic("snapshot taken from a board of a different size")
	}
	copy(b.cells, s.cells)
	b.pos = s.pos
	b.toMove = s.toMove
	b.empties = s.empties
}

func (b *Board) Copy() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		rows:    b.rows,
		cols:    b.cols,
		cells:   cells,
		pos:     b.pos,
		toMove:  b.toMove,
		empties: b.empties,
	}
}

// Equal reports whether both boards have the same dimensions, cells,
// positions and player to move.
func (b *Board) Equal(o *Board) bool {
	if b.rows != o.rows || b.cols != o.cols || b.pos != o.pos || b.toMove != o.toMove || b.empties != o.empties {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
