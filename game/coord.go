package game

import (
	"fmt"
	"strconv"
	"strings"
)

const rowLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// String renders s as a row letter followed by a 1-based column, e.g. "C4".
func (s Square) String() string {
	if s.Row < 0 || s.Row >= len(rowLetters) {
		return fmt.Sprintf("?%d", s.Col+1)
	}
	return rowLetters[s.Row:s.Row+1] + strconv.Itoa(s.Col+1)
}

// ParseSquare reads a coordinate such as "A1" or "j10". It checks the format
// only; whether the square lies on a given board is up to the caller.
func ParseSquare(text string) (Square, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if len(text) < 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrBadCoordinate, text)
	}
	row := strings.IndexByte(rowLetters, text[0])
	if row < 0 {
		return Square{}, fmt.Errorf("%w: %q has no row letter", ErrBadCoordinate, text)
	}
	col, err := strconv.Atoi(text[1:])
	if err != nil || col < 1 {
		return Square{}, fmt.Errorf("%w: %q has no column number", ErrBadCoordinate, text)
	}
	return Square{Row: row, Col: col - 1}, nil
}
