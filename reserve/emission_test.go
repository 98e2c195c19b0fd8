package reserve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// P2: after UpdateWithEmission(k), total reserves are unchanged (emission
// touches supply and weights only), supply grows by k, and no weight
// grows.
func TestUpdateWithEmissionPreservesReserveRatio(t *testing.T) {
	state := balancedState()
	toEmit := Amount(4e8) // a 10% supply increase, from 4e9 to 4.4e9

	before := append([]Amount(nil), state.Reserves...)

	next, err := UpdateWithEmission(state, toEmit, 0, 0)
	require.NoError(t, err)

	for i := range next.Reserves {
		assert.Equal(t, before[i], next.Reserves[i])
	}
	assert.Equal(t, state.Supply+toEmit, next.Supply)

	for i, w := range next.Weights {
		assert.LessOrEqual(t, w, state.Weights[i])
	}
}

func TestUpdateWithEmissionNonFractionalJustAdds(t *testing.T) {
	state := balancedState()
	state.Flags = 0 // not fractional

	next, err := UpdateWithEmission(state, 100, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, state.Supply+100, next.Supply)
	assert.Equal(t, state.Weights, next.Weights)
}

func TestMinstd0Deterministic(t *testing.T) {
	a := newMinstd0(42)
	b := newMinstd0(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestShuffleOrderIsPermutation(t *testing.T) {
	gen := newMinstd0(7)
	order := shuffleOrder(5, gen)
	seen := make(map[int]bool)
	for _, v := range order {
		assert.False(t, seen[v])
		seen[v] = true
	}
	assert.Len(t, seen, 5)
}

func TestUpdateWithEmissionZeroSupplyJustAdds(t *testing.T) {
	state := balancedState()
	state.Supply = 0

	next, err := UpdateWithEmission(state, 100, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Amount(100), next.Supply)
}
