package game

// StateKey is the canonical encoding of a board. Equal keys mean equal boards,
// and keys compare in a total order as strings.
type StateKey string

const keyHeaderLen = 7

// EncodeStateKey encodes the dimensions, the player to move, both positions
// and every cell at two bits per cell. Dimensions are part of the key, so the
// encoding is injective across all board sizes up to MaxDimension.
func EncodeStateKey(b *Board) StateKey {
	buf := make([]byte, keyHeaderLen+(len(b.cells)+3)/4)
	buf[0] = byte(b.rows)
	buf[1] = byte(b.cols)
	buf[2] = byte(b.toMove)
	buf[3] = byte(b.pos[Player1].Row)
	buf[4] = byte(b.pos[Player1].Col)
	buf[5] = byte(b.pos[Player2].Row)
	buf[6] = byte(b.pos[Player2].Col)
	for i, c := range b.cells {
		buf[keyHeaderLen+i/4] |= byte(c) << (2 * (i % 4))
	}
	return StateKey(buf)
}

func (b *Board) Key() StateKey {
	return EncodeStateKey(b)
}
