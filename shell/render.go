package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"knights/game"
)

var cellGlyphs = map[game.Cell]string{
	game.Empty:             ".",
	game.OccupiedByPlayer1: "1",
	game.OccupiedByPlayer2: "2",
	game.Blocked:           "X",
}

// Render draws the board with column numbers on top and a row letter in
// front of each row.
func Render(w io.Writer, b *game.Board) {
	header := make([]string, b.Cols())
	for c := range header {
		header[c] = strconv.Itoa(c + 1)
	}
	fmt.Fprintf(w, "\n    %s\n", strings.Join(header, "   "))

	cells := make([]string, b.Cols())
	for r := 0; r < b.Rows(); r++ {
		for c := range cells {
			cells[c] = cellGlyphs[b.Cell(game.Square{Row: r, Col: c})]
		}
		fmt.Fprintf(w, "%c | %s\n", 'A'+r, strings.Join(cells, " | "))
	}
}
