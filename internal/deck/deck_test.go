package deck

import (
	"testing"

	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeckProperties(t *testing.T) {
	pool := symbols.Default()

	for pairs := 1; pairs <= pool.Len(); pairs++ {
		for seed := int64(0); seed < 20; seed++ {
			cards, err := Generate(pool, pairs, randutil.New(seed))
			require.NoError(t, err)

			assert.Len(t, cards, 2*pairs)
			assert.Equal(t, 0, len(cards)%2)

			counts := make(map[symbols.Symbol]int)
			for i, c := range cards {
				assert.Equal(t, i, c.ID, "card id must equal its position")
				assert.False(t, c.FaceUp)
				assert.False(t, c.Matched)
				assert.True(t, pool.Contains(c.Symbol))
				counts[c.Symbol]++
			}
			assert.Len(t, counts, pairs)
			for sym, n := range counts {
				assert.Equal(t, 2, n, "symbol %s", sym)
			}
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	pool := symbols.Default()
	a, err := Generate(pool, 6, randutil.New(99))
	require.NoError(t, err)
	b, err := Generate(pool, 6, randutil.New(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateDoesNotReorderPool(t *testing.T) {
	pool := symbols.New("A", "B", "C", "D", "E")
	before := pool.Clone()
	_, err := Generate(pool, 3, randutil.New(1))
	require.NoError(t, err)
	assert.Equal(t, before, pool)
}

func TestGenerateErrors(t *testing.T) {
	rng := randutil.New(1)

	_, err := Generate(symbols.New("A", "B", "C"), 5, rng)
	assert.ErrorIs(t, err, ErrInsufficientSymbols)

	_, err = Generate(symbols.New("A", "B"), 0, rng)
	assert.ErrorIs(t, err, ErrInsufficientSymbols)

	_, err = Generate(symbols.Pool{}, 1, rng)
	assert.ErrorIs(t, err, ErrInsufficientSymbols)

	_, err = Generate(symbols.New("A", "A"), 2, rng)
	assert.ErrorIs(t, err, symbols.ErrInvalidPool)

	_, err = Generate(symbols.New("A", "B"), 2, nil)
	assert.Error(t, err)
}

func TestSampleCoversPool(t *testing.T) {
	// Every symbol should eventually be drawn when sampling a single one
	pool := symbols.New("A", "B", "C", "D")
	rng := randutil.New(3)
	seen := make(map[symbols.Symbol]bool)
	for range 200 {
		got := Sample(pool, 1, rng)
		require.Len(t, got, 1)
		seen[got[0]] = true
	}
	assert.Len(t, seen, 4)
}

func TestShuffleUniformity(t *testing.T) {
	// Each of the 6 permutations of 3 elements should show up roughly equally
	rng := randutil.New(11)
	counts := make(map[[3]int]int)
	const trials = 6000
	for range trials {
		s := []int{0, 1, 2}
		Shuffle(s, rng)
		counts[[3]int{s[0], s[1], s[2]}]++
	}
	assert.Len(t, counts, 6)
	for perm, n := range counts {
		assert.InDelta(t, trials/6, n, 150, "permutation %v", perm)
	}
}

func TestCardString(t *testing.T) {
	c := NewCard(3, "A")
	assert.Equal(t, "3:??", c.String())
	assert.True(t, c.Selectable())
	c.FaceUp = true
	assert.Equal(t, "3:A", c.String())
	assert.False(t, c.Selectable())
	c.Matched = true
	assert.Equal(t, "3:A*", c.String())
}
