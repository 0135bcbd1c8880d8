package meta

// DefaultSearchDepth is how many plies the AI looks ahead.
const DefaultSearchDepth = 11

const (
	DefaultRows = 8
	DefaultCols = 8
)

// BoardSizes are the choices offered by the board-size menu, in menu order.
var BoardSizes = [][2]int{
	{8, 8},
	{10, 10},
}
