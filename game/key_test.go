package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestEncodeStateKey(t *testing.T) {
	t.Run("equal boards have equal keys", func(t *testing.T) {
		a := mustBoard(t, 5, 5)
		b := mustBoard(t, 5, 5)
		require.Equal(t, a.Key(), b.Key())

		require.NoError(t, a.Apply(Square{1, 2}))
		require.NoError(t, b.Apply(Square{1, 2}))
		require.Equal(t, a.Key(), b.Key())
	})

	t.Run("dimensions are part of the key", func(t *testing.T) {
		a := mustBoard(t, 2, 8)
		b := mustBoard(t, 4, 4)
		c := mustBoard(t, 8, 2)
		require.NotEqual(t, a.Key(), b.Key())
		require.NotEqual(t, a.Key(), c.Key())
		require.NotEqual(t, b.Key(), c.Key())
	})

	t.Run("distinct boards reached in play have distinct keys", func(t *testing.T) {
		r := rand.New(rand.NewSource(3))
		seen := map[StateKey]*Board{}
		for game := 0; game < 200; game++ {
			b := mustBoard(t, 5, 5)
			playRandom(b, r, func(b *Board, _ Square) {
				key := b.Key()
				if prev, ok := seen[key]; ok {
					require.True(t, prev.Equal(b), "Key collision between different boards")
					return
				}
				seen[key] = b.Copy()
			})
		}
	})

	t.Run("keys differ by player to move alone", func(t *testing.T) {
		a := mustBoard(t, 6, 6)
		b := a.Copy()
		b.toMove = Player2
		require.NotEqual(t, a.Key(), b.Key())
		require.Less(t, string(a.Key()), string(b.Key()), "Keys should be ordered byte-wise")
	})
}
