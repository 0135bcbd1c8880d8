package game

import (
	"errors"
	"fmt"
)

// MaxDimension bounds rows and columns so every square has a coordinate:
// one row letter A-Z.
const MaxDimension = 26

var (
	ErrIllegalMove       = errors.New("illegal move")
	ErrOutOfBoundsConfig = errors.New("board dimensions out of bounds")
	ErrBadCoordinate     = errors.New("bad coordinate")
)

type PlayerID int

const (
	NoPlayer PlayerID = iota
	Player1
	Player2
)

func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return NoPlayer
}

func (p PlayerID) String() string {
	if p == NoPlayer {
		return "nobody"
	}
	return fmt.Sprintf("Player %d", int(p))
}

// Cell is the content of one board square.
type Cell uint8

const (
	Empty Cell = iota
	OccupiedByPlayer1
	OccupiedByPlayer2
	Blocked // vacated by a token, never usable again
)

func occupiedBy(p PlayerID) Cell {
	if p == Player1 {
		return OccupiedByPlayer1
	}
	return OccupiedByPlayer2
}

// Square is a (row, column) pair. Token positions and moves are both squares:
// a move is the square the player to move jumps to.
type Square struct {
	Row int
	Col int
}

// knightOffsets is the fixed enumeration order of moves. Search tie-breaking
// depends on it.
var knightOffsets = [8]struct{ Dr, Dc int }{
	{1, 2},
	{-1, 2},
	{1, -2},
	{-1, -2},
	{2, 1},
	{2, -1},
	{-2, 1},
	{-2, -1},
}
