package currencyid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalOrder(t *testing.T) {
	a := FromName("VRSC")
	b := FromName("BTC")
	c := FromName("ETH")

	ids := []ID{a, b, c}
	Sort(ids)

	for i := 1; i < len(ids); i++ {
		assert.True(t, ids[i-1].Compare(ids[i]) <= 0)
	}
}

func TestFromBytesRoundTrip(t *testing.T) {
	id := FromName("fractional-basket")
	parsed, err := FromBytes(id[:])
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = FromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestNativeIsZero(t *testing.T) {
	assert.True(t, Native.IsNative())
	assert.False(t, FromName("anything").IsNative())
}

func TestHexRoundTrip(t *testing.T) {
	id := FromName("reserve-a")
	parsed, err := FromHex(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}
