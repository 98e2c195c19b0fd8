package reserve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint256AddOverflow(t *testing.T) {
	max := Uint256{v: *uint256Max}
	one := NewUint256FromInt64(1)

	_, ok := max.Add(one)
	assert.False(t, ok)

	sum, ok := NewUint256FromInt64(1).Add(NewUint256FromInt64(2))
	require.True(t, ok)
	got, ok := sum.ToInt64()
	require.True(t, ok)
	assert.Equal(t, int64(3), got)
}

func TestUint256SubUnderflow(t *testing.T) {
	_, ok := NewUint256FromInt64(1).Sub(NewUint256FromInt64(2))
	assert.False(t, ok)
}

func TestUint256MulDiv(t *testing.T) {
	r, ok := NewUint256FromInt64(100).MulDiv(NewUint256FromInt64(3), NewUint256FromInt64(4))
	require.True(t, ok)
	got, _ := r.ToInt64()
	assert.Equal(t, int64(75), got)

	_, ok = NewUint256FromInt64(1).MulDiv(NewUint256FromInt64(1), NewUint256FromInt64(0))
	assert.False(t, ok)
}

func TestUint256DivRoundNearestEven(t *testing.T) {
	cases := []struct {
		num, den, want int64
	}{
		{5, 2, 2},  // 2.5 rounds to 2, the even neighbor
		{7, 2, 4},  // 3.5 rounds to 4, the even neighbor
		{9, 2, 4},  // 4.5 rounds to 4, the even neighbor
		{6, 4, 2},  // 1.5 rounds to 2, the even neighbor
		{10, 3, 3}, // not a half -> ordinary rounding
	}
	for _, c := range cases {
		r, ok := NewUint256FromInt64(c.num).DivRoundNearestEven(NewUint256FromInt64(c.den))
		require.True(t, ok)
		got, _ := r.ToInt64()
		assert.Equal(t, c.want, got, "%d/%d", c.num, c.den)
	}
}

func TestUint256ToInt64Overflow(t *testing.T) {
	huge := Uint256{v: *new(big.Int).Lsh(big.NewInt(1), 100)}
	_, ok := huge.ToInt64()
	assert.False(t, ok)
}
