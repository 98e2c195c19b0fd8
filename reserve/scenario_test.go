package reserve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jaxnet/reservecore/chaincfg"
	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

func scenarioState(sc Scenario) (CurrencyState, []currencyid.ID) {
	n := len(sc.Weights)
	ids := make([]currencyid.ID, n)
	weights := make([]int64, n)
	for i, w := range sc.Weights {
		ids[i] = currencyid.FromName(sc.Name + string(rune('a'+i)))
		weights[i] = int64(w)
	}
	state := CurrencyState{
		Currencies: ids,
		Weights:    weights,
		Reserves:   sc.Reserves,
		Supply:     Amount(sc.Supply),
		Flags:      FlagFractional | FlagLaunchConfirmed,
	}
	return state, ids
}

// TestConvertAmounts_Scenarios replays spec.md §8's ConvertAmounts-level
// literal scenarios (single-reserve, balanced-basket, reserve-to-reserve,
// order-independence, overflow refusal) as recorded in
// testdata/scenarios.csv, the gocsv-backed table-driven shape tx-gatling
// uses for its own CSV-fed fixtures.
func TestConvertAmounts_Scenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios.csv")
	require.NoError(t, err)
	require.Len(t, scenarios, 6)

	for _, sc := range scenarios {
		sc := sc
		if sc.Kind == "import" {
			continue
		}
		t.Run(sc.Name, func(t *testing.T) {
			state, _ := scenarioState(sc)
			n := len(state.Currencies)

			var cross [][]Amount
			if sc.Kind == "reserve-to-reserve" {
				cross = make([][]Amount, n)
				for i := range cross {
					cross[i] = make([]Amount, n)
				}
				cross[sc.CrossFromIndex][sc.CrossToIndex] = Amount(sc.CrossAmount)
			}

			result, err := ConvertAmounts(state, sc.InputReserves, sc.InputFractional, cross, chaincfg.MainNetParams)

			if sc.ExpectError {
				require.Error(t, err)
				assert.Equal(t, state, result.NewState)
				return
			}
			require.NoError(t, err)

			switch sc.Name {
			case "single-reserve":
				assert.InDelta(t, int64(sc.ExpectedRates[0]), int64(result.Rates[0]), 10)
				assert.InDelta(t, sc.ExpectedSupply, int64(result.NewState.Supply), 10)
				assert.InDelta(t, int64(sc.ExpectedReserves[0]), int64(result.NewState.Reserves[0]), 10)
			case "balanced-basket":
				for i := 1; i < n; i++ {
					assert.InDelta(t, int64(result.Rates[0]), int64(result.Rates[i]), 1000)
				}
			case "reserve-to-reserve":
				assert.Greater(t, int64(result.Rates[sc.CrossFromIndex]), int64(0))
				require.NotNil(t, result.ViaRates)
				assert.Greater(t, int64(result.ViaRates[sc.CrossToIndex]), int64(0))
			case "order-independence":
				reversed := make(AmountList, n)
				for i, v := range sc.InputReserves {
					reversed[n-1-i] = v
				}
				other, err := ConvertAmounts(state, reversed, sc.InputFractional, nil, chaincfg.MainNetParams)
				require.NoError(t, err)
				for i := 0; i < n; i++ {
					assert.InDelta(t, int64(result.Rates[i]), int64(other.Rates[n-1-i]), 1000)
				}
			}
		})
	}
}

// TestAddReserveTransferImportOutputs_Scenarios replays spec.md §8's
// import-conservation scenario: a plain transfer, a carved-out pre-
// conversion, and a burn, asserting that the spent/imported/carve-out
// ledgers and the resulting supply conserve currency end to end.
func TestAddReserveTransferImportOutputs_Scenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios.csv")
	require.NoError(t, err)

	for _, sc := range scenarios {
		sc := sc
		if sc.Kind != "import" {
			continue
		}
		t.Run(sc.Name, func(t *testing.T) {
			ctx := testContext()
			r0 := currencyid.FromName(sc.Name + "-r0")
			recipient := currencyid.FromName(sc.Name + "-carveout")
			frac := CurrencyDefinition{
				ID:                 currencyid.FromName(sc.Name + "-frac"),
				SystemID:           r0,
				CarveOutPercent:    sc.CarveOutPercent,
				CarveOutRecipients: []currencyid.ID{recipient},
				State: CurrencyState{
					Currencies: []currencyid.ID{r0},
					Weights:    []int64{int64(sc.Weights[0])},
					Reserves:   AmountList{Amount(sc.Reserves[0])},
					Supply:     Amount(sc.Supply),
					Flags:      FlagFractional | FlagPrelaunch,
				},
			}
			prior := NewCoinbaseCurrencyState(frac.State)

			transfers := []ReserveTransfer{
				{
					SourceCurrency: r0,
					DestCurrency:   r0,
					Amount:         Amount(sc.PlainAmount),
					Destination:    Destination{Address: []byte("plain-recipient")},
				},
				{
					SourceCurrency: r0,
					DestCurrency:   frac.ID,
					Amount:         Amount(sc.PreconvertAmount),
					Flags:          TransferPreConvert,
				},
				{
					SourceCurrency: frac.ID,
					DestCurrency:   frac.ID,
					Amount:         Amount(sc.BurnAmount),
					Flags:          TransferBurn,
				},
			}

			result, err := AddReserveTransferImportOutputs(ctx, frac, prior, transfers)
			require.NoError(t, err)

			assert.Equal(t, Amount(sc.ExpectedSupply), result.NextState.Supply)
			assert.Equal(t, Amount(sc.ExpectedImported), result.ImportedCurrency[frac.ID])
			assert.Equal(t, Amount(sc.ExpectedCarveOut), result.SpentCurrencyOut[r0]-result.ImportedCurrency[r0])
		})
	}
}
