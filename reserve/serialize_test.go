package reserve

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

func TestValueMapRoundTrip(t *testing.T) {
	m := ValueMap{
		currencyid.FromName("a"): 100,
		currencyid.FromName("b"): -50,
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeValueMap(&buf, m))

	got, err := DecodeValueMap(&buf)
	require.NoError(t, err)
	assert.True(t, m.Equal(got))
}

func TestReserveTransferRoundTrip(t *testing.T) {
	t1 := ReserveTransfer{
		SourceCurrency: currencyid.FromName("src"),
		Amount:         12345,
		DestCurrency:   currencyid.FromName("dst"),
		FeeCurrency:    currencyid.Native,
		FeeAmount:      10,
		Flags:          TransferConvert,
		Destination: Destination{
			Address: []byte{1, 2, 3},
		},
	}

	encoded, err := EncodeReserveTransfer(t1)
	require.NoError(t, err)

	got, err := DecodeReserveTransfer(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, t1.SourceCurrency, got.SourceCurrency)
	assert.Equal(t, t1.Amount, got.Amount)
	assert.Equal(t, t1.Flags, got.Flags)
	assert.Equal(t, t1.Destination.Address, got.Destination.Address)
}

func TestReserveTransferRoundTripWithNextLeg(t *testing.T) {
	leg := ReserveTransfer{
		SourceCurrency: currencyid.FromName("leg-src"),
		Amount:         7,
		DestCurrency:   currencyid.FromName("leg-dst"),
	}
	t1 := ReserveTransfer{
		SourceCurrency: currencyid.FromName("src"),
		Amount:         99,
		DestCurrency:   currencyid.FromName("dst"),
		Destination: Destination{
			HasGateway: true,
			GatewayID:  currencyid.FromName("gateway"),
			NextLeg:    &leg,
		},
	}

	encoded, err := EncodeReserveTransfer(t1)
	require.NoError(t, err)

	got, err := DecodeReserveTransfer(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.NotNil(t, got.Destination.NextLeg)
	assert.Equal(t, leg.Amount, got.Destination.NextLeg.Amount)
	assert.Equal(t, t1.Destination.GatewayID, got.Destination.GatewayID)
}

func TestHashTransfersDeterministic(t *testing.T) {
	transfers := []ReserveTransfer{
		{SourceCurrency: currencyid.FromName("a"), Amount: 1},
		{SourceCurrency: currencyid.FromName("b"), Amount: 2},
	}

	h1, err := HashTransfers(transfers)
	require.NoError(t, err)
	h2, err := HashTransfers(transfers)
	require.NoError(t, err)
	assert.True(t, h1.IsEqual(&h2))

	ok, err := VerifyTransfers(transfers, h1)
	require.NoError(t, err)
	assert.True(t, ok)
}
