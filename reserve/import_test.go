package reserve

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jaxnet/reservecore/chaincfg"
	"gitlab.com/jaxnet/reservecore/types/chainhash"
	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

// fakeContext is a minimal Context for import tests: a fixed param set
// and an empty cache, neither of which AddReserveTransferImportOutputs
// itself consults beyond Params().
type fakeContext struct {
	params chaincfg.ReserveParams
}

func (f fakeContext) GetCachedCurrency(currencyid.ID) (CurrencyDefinition, bool) { return CurrencyDefinition{}, false }
func (f fakeContext) GetTransaction(chainhash.Hash) (chainhash.Hash, bool)       { return chainhash.Hash{}, false }
func (f fakeContext) Params() chaincfg.ReserveParams                            { return f.params }
func (f fakeContext) Logger() zerolog.Logger                                    { return zerolog.Nop() }

func testContext() fakeContext {
	return fakeContext{params: chaincfg.MainNetParams}
}

func launchedSingleReserveCurrency() CurrencyDefinition {
	r0 := currencyid.FromName("r0")
	frac := currencyid.FromName("frac")
	return CurrencyDefinition{
		ID:       frac,
		SystemID: r0,
		State: CurrencyState{
			Currencies:    []currencyid.ID{r0},
			Weights:       []int64{chaincfg.SATOSHIDEN},
			Reserves:      []Amount{1e8},
			Supply:        1e8,
			InitialSupply: 1e8,
			Flags:         FlagFractional | FlagLaunchConfirmed | FlagLaunchComplete,
		},
	}
}

func TestAddReserveTransferImportOutputsMint(t *testing.T) {
	ctx := testContext()
	frac := launchedSingleReserveCurrency()
	prior := NewCoinbaseCurrencyState(frac.State)

	transfers := []ReserveTransfer{
		{
			SourceCurrency: frac.SystemID,
			DestCurrency:   frac.ID,
			Amount:         1e6,
			Flags:          TransferMint,
			Destination:    Destination{Address: []byte("addr1")},
		},
	}

	result, err := AddReserveTransferImportOutputs(ctx, frac, prior, transfers)
	require.NoError(t, err)

	assert.Equal(t, Amount(1e6), result.ImportedCurrency[frac.ID])
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, OutputToken, result.Outputs[0].Kind)
	assert.Equal(t, Amount(1e6), result.Outputs[0].TokenAmounts[frac.ID])
}

func TestAddReserveTransferImportOutputsBurn(t *testing.T) {
	ctx := testContext()
	frac := launchedSingleReserveCurrency()
	prior := NewCoinbaseCurrencyState(frac.State)

	transfers := []ReserveTransfer{
		{
			SourceCurrency: frac.ID,
			DestCurrency:   frac.ID,
			Amount:         1e6,
			Flags:          TransferBurn,
		},
	}

	result, err := AddReserveTransferImportOutputs(ctx, frac, prior, transfers)
	require.NoError(t, err)
	assert.Equal(t, frac.State.Supply-1e6, result.NextState.Supply)
	assert.Equal(t, Amount(1e6), result.SpentCurrencyOut[frac.ID])
}

func TestAddReserveTransferImportOutputsPlainTransfer(t *testing.T) {
	ctx := testContext()
	frac := launchedSingleReserveCurrency()
	prior := NewCoinbaseCurrencyState(frac.State)

	transfers := []ReserveTransfer{
		{
			SourceCurrency: frac.SystemID,
			DestCurrency:   frac.SystemID,
			Amount:         500,
			Destination:    Destination{Address: []byte("addr2")},
		},
	}

	result, err := AddReserveTransferImportOutputs(ctx, frac, prior, transfers)
	require.NoError(t, err)
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, OutputToken, result.Outputs[0].Kind)
	assert.Equal(t, Amount(500), result.Outputs[0].TokenAmounts[frac.SystemID])
	assert.Equal(t, Amount(500), result.SpentCurrencyOut[frac.SystemID])
}

func TestAddReserveTransferImportOutputsConvertBuysFractionalAtFinalRate(t *testing.T) {
	ctx := testContext()
	frac := launchedSingleReserveCurrency()
	prior := NewCoinbaseCurrencyState(frac.State)

	transfers := []ReserveTransfer{
		{
			SourceCurrency: frac.SystemID,
			DestCurrency:   frac.ID,
			Amount:         1e8,
			Flags:          TransferConvert,
			Destination:    Destination{Address: []byte("buyer")},
		},
	}

	result, err := AddReserveTransferImportOutputs(ctx, frac, prior, transfers)
	require.NoError(t, err)

	require.Len(t, result.Outputs, 1)
	assert.Equal(t, OutputToken, result.Outputs[0].Kind)
	// With a 100%-weight single reserve already equal to supply, the
	// conversion fee (500000, the 0.5% success fee) is the only loss:
	// the buy is priced 1:1 against the net reserve input.
	assert.Equal(t, Amount(99_500_000), result.Outputs[0].TokenAmounts[frac.ID])
	assert.Equal(t, Amount(1e8), result.SpentCurrencyOut[frac.SystemID])
	assert.Equal(t, Amount(199_500_000), result.NextState.Reserves[0])
	assert.Equal(t, Amount(199_500_000), result.NextState.Supply)
}

func TestAddReserveTransferImportOutputsConvertSellsFractionalAtFinalRate(t *testing.T) {
	ctx := testContext()
	frac := launchedSingleReserveCurrency()
	prior := NewCoinbaseCurrencyState(frac.State)

	transfers := []ReserveTransfer{
		{
			SourceCurrency: frac.ID,
			DestCurrency:   frac.SystemID,
			Amount:         1e8,
			Flags:          TransferConvert,
			Destination:    Destination{Address: []byte("seller")},
		},
	}

	result, err := AddReserveTransferImportOutputs(ctx, frac, prior, transfers)
	require.NoError(t, err)

	require.Len(t, result.Outputs, 1)
	assert.Equal(t, OutputToken, result.Outputs[0].Kind)
	assert.Equal(t, Amount(99_500_000), result.Outputs[0].TokenAmounts[frac.SystemID])
	assert.Equal(t, Amount(1e8), result.SpentCurrencyOut[frac.ID])
	assert.Equal(t, Amount(500_000), result.NextState.Reserves[0])
	assert.Equal(t, Amount(500_000), result.NextState.Supply)
}

func TestAddReserveTransferImportOutputsReserveToReserveRoutesCrossConversion(t *testing.T) {
	ctx := testContext()
	r0 := currencyid.FromName("r0")
	r1 := currencyid.FromName("r1")
	frac := CurrencyDefinition{
		ID:       currencyid.FromName("frac"),
		SystemID: r0,
		State: CurrencyState{
			Currencies:    []currencyid.ID{r0, r1},
			Weights:       []int64{chaincfg.SATOSHIDEN / 2, chaincfg.SATOSHIDEN / 2},
			Reserves:      []Amount{4e8, 4e8},
			Supply:        8e8,
			InitialSupply: 8e8,
			Flags:         FlagFractional | FlagLaunchConfirmed | FlagLaunchComplete,
		},
	}
	prior := NewCoinbaseCurrencyState(frac.State)

	transfers := []ReserveTransfer{
		{
			SourceCurrency:  r0,
			DestCurrency:    frac.ID,
			SecondReserveID: r1,
			Amount:          1e8,
			Flags:           TransferReserveToReserve,
			Destination:     Destination{Address: []byte("router")},
		},
	}

	result, err := AddReserveTransferImportOutputs(ctx, frac, prior, transfers)
	require.NoError(t, err)

	require.Len(t, result.Outputs, 1)
	assert.Equal(t, OutputToken, result.Outputs[0].Kind)
	// Without the cross-conversion fix this output stays at its dispatch-
	// time placeholder of zero: the via-price leg never gets queued, so
	// there is nothing to reprice it against.
	assert.Greater(t, int64(result.Outputs[0].TokenAmounts[r1]), int64(0))
	assert.Equal(t, Amount(1e8), result.SpentCurrencyOut[r0])
	assert.Greater(t, int64(result.NextState.Reserves[0]), int64(4e8))
}

func TestAddReserveTransferImportOutputsRejectsBurnFromOtherCurrency(t *testing.T) {
	ctx := testContext()
	frac := launchedSingleReserveCurrency()
	prior := NewCoinbaseCurrencyState(frac.State)

	transfers := []ReserveTransfer{
		{
			SourceCurrency: frac.SystemID,
			DestCurrency:   frac.SystemID,
			Amount:         1,
			Flags:          TransferBurn,
		},
	}

	_, err := AddReserveTransferImportOutputs(ctx, frac, prior, transfers)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrInvalidTransfer))
}

func TestAddReserveTransferImportOutputsPreConvertDuringPrelaunch(t *testing.T) {
	ctx := testContext()
	r0 := currencyid.FromName("r0")
	recipient := currencyid.FromName("carveout")
	frac := CurrencyDefinition{
		ID:                 currencyid.FromName("frac"),
		SystemID:           r0,
		CarveOutPercent:    10_000_000, // 10%
		CarveOutRecipients: []currencyid.ID{recipient},
		State: CurrencyState{
			Currencies: []currencyid.ID{r0},
			Weights:    []int64{chaincfg.SATOSHIDEN},
			Reserves:   []Amount{0},
			Flags:      FlagFractional | FlagPrelaunch | FlagLaunchClear,
		},
	}
	prior := NewCoinbaseCurrencyState(frac.State)

	transfers := []ReserveTransfer{
		{
			SourceCurrency: r0,
			DestCurrency:   frac.ID,
			Amount:         1e7,
			Flags:          TransferPreConvert,
		},
	}

	result, err := AddReserveTransferImportOutputs(ctx, frac, prior, transfers)
	require.NoError(t, err)
	assert.Greater(t, int64(result.ImportedCurrency[frac.ID]), int64(0))
	assert.Greater(t, int64(result.GatewayDepositsIn[r0]), int64(0))

	found := false
	for _, o := range result.Outputs {
		if string(o.Address) == string(recipient[:]) {
			found = true
		}
	}
	assert.True(t, found, "expected a carve-out output to the recipient")
}

func TestAddReserveTransferImportOutputsExplicitFeePaysExporterReward(t *testing.T) {
	ctx := testContext()
	frac := launchedSingleReserveCurrency()
	prior := NewCoinbaseCurrencyState(frac.State)

	transfers := []ReserveTransfer{
		{
			SourceCurrency: frac.SystemID,
			DestCurrency:   frac.SystemID,
			Amount:         1000,
			FeeCurrency:    frac.SystemID,
			FeeAmount:      2000,
			Destination:    Destination{Address: []byte("x")},
		},
	}

	result, err := AddReserveTransferImportOutputs(ctx, frac, prior, transfers)
	require.NoError(t, err)

	// transfer payout (1000) + half of the (liquidity-split) fee paid out as
	// the exporter's reward (500), leaving a positive residual against the
	// 3000 of reserveInputs the transfer and its explicit fee declared.
	assert.Equal(t, Amount(1500), result.SpentCurrencyOut[frac.SystemID])
}
