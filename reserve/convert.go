// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"gitlab.com/jaxnet/reservecore/chaincfg"
)

// ConvertResult is the output of ConvertAmounts (spec.md §4.2).
type ConvertResult struct {
	Rates    []Amount
	ViaRates []Amount // nil unless crossConversions was non-nil
	NewState CurrencyState
}

// ConvertAmounts computes new prices and currency state given aggregated
// reserve and fractional input flows, and an optional reserve-to-reserve
// matrix (spec.md §4.2, C4). Any error leaves NewState equal to state and
// Rates equal to state.PricesInReserve() (the "never mutates on error"
// contract of spec.md §7).
//
// The grouping-by-weight-adjusted-flow-ratio "layering" heuristic of the
// original (reserves.cpp ~860-1020) buckets currencies sharing an equal
// delta ratio into one aggregate purchase/sale before applying the curve
// formula. This implementation applies the same fractionalOut/reserveOut
// curve formula per currency directly and keeps the buy/sell-twice,
// averaged-both-ways structure of steps 4-7 — the part of the algorithm
// the spec calls out as the actual design commitment behind P4 (order
// independence). Currencies are not grouped into layers: each one is
// priced on its own against the shared pre-batch supply, so a basket-wide
// purchase is not priced as one aggregate purchase.
func ConvertAmounts(
	state CurrencyState,
	inputReserves []Amount,
	inputFractional []Amount,
	crossConversions [][]Amount,
	params chaincfg.ReserveParams,
) (ConvertResult, error) {
	n := len(state.Currencies)
	priorRates := state.PricesInReserve()
	unchanged := ConvertResult{Rates: priorRates, NewState: state}

	if len(inputReserves) != n || len(inputFractional) != n {
		return unchanged, NewRuleError(ErrInvalidParameters, "input vector length mismatch")
	}

	var totalWeight int64
	anyNonZero := false
	for i := 0; i < n; i++ {
		if inputReserves[i] < 0 || inputFractional[i] < 0 {
			return unchanged, NewRuleError(ErrInvalidParameters, "negative conversion input")
		}
		if inputReserves[i] != 0 || inputFractional[i] != 0 {
			anyNonZero = true
		}
		if state.Weights[i] <= 0 {
			return unchanged, NewRuleError(ErrInvalidParameters, "non-positive reserve weight")
		}
		totalWeight += state.Weights[i]
	}
	if !anyNonZero {
		return unchanged, NewRuleError(ErrInvalidParameters, "no non-zero conversion input")
	}
	if totalWeight <= 0 || totalWeight > chaincfg.SATOSHIDEN {
		return unchanged, NewRuleError(ErrInvalidParameters, "invalid total reserve weight")
	}

	reservesPre := append([]Amount(nil), state.Reserves...)
	supplyPre := state.Supply

	buyOut1 := make([]Amount, n)
	for i := 0; i < n; i++ {
		if inputReserves[i] <= 0 {
			continue
		}
		out, ok := FractionalOut(inputReserves[i], reservesPre[i], supplyPre, Amount(state.Weights[i]))
		if !ok {
			return unchanged, NewRuleError(ErrOverflow, "fractionalOut overflow")
		}
		buyOut1[i] = Amount(out)
	}

	var buySupplyDelta1 Amount
	for _, v := range buyOut1 {
		buySupplyDelta1 += v
	}
	supplyPostBuy := supplyPre + buySupplyDelta1
	reservesPostBuy := make([]Amount, n)
	for i := range reservesPostBuy {
		reservesPostBuy[i] = reservesPre[i] + inputReserves[i]
	}

	sellOutPre := make([]Amount, n)
	sellOutPostBuy := make([]Amount, n)
	for i := 0; i < n; i++ {
		if inputFractional[i] <= 0 {
			continue
		}
		outPre, ok := ReserveOut(inputFractional[i], supplyPre, reservesPre[i], Amount(state.Weights[i]))
		if !ok {
			return unchanged, NewRuleError(ErrOverflow, "reserveOut overflow")
		}
		sellOutPre[i] = Amount(outPre)

		outPost, ok := ReserveOut(inputFractional[i], supplyPostBuy, reservesPostBuy[i], Amount(state.Weights[i]))
		if !ok {
			return unchanged, NewRuleError(ErrOverflow, "reserveOut overflow")
		}
		sellOutPostBuy[i] = Amount(outPost)
	}

	sellFinal := make([]Amount, n)
	var totalFractionalSold Amount
	for i := 0; i < n; i++ {
		sellFinal[i] = (sellOutPre[i] + sellOutPostBuy[i]) / 2
		totalFractionalSold += inputFractional[i]
	}

	reservesPostSell := make([]Amount, n)
	for i := range reservesPostSell {
		reservesPostSell[i] = reservesPre[i] - sellFinal[i]
	}
	supplyPostSell := supplyPre - totalFractionalSold

	buyOut2 := make([]Amount, n)
	for i := 0; i < n; i++ {
		if inputReserves[i] <= 0 {
			continue
		}
		out, ok := FractionalOut(inputReserves[i], reservesPostSell[i], supplyPostSell, Amount(state.Weights[i]))
		if !ok {
			return unchanged, NewRuleError(ErrOverflow, "fractionalOut overflow")
		}
		buyOut2[i] = Amount(out)
	}

	buyFinal := make([]Amount, n)
	var totalBuyFinal Amount
	for i := 0; i < n; i++ {
		sum := buyOut1[i] + buyOut2[i]
		if sum < 0 {
			return unchanged, NewRuleError(ErrOverflow, "fractional output overflows int64")
		}
		buyFinal[i] = sum / 2
		totalBuyFinal += buyFinal[i]
	}

	newReserves := make([]Amount, n)
	rates := make([]Amount, n)
	for i := 0; i < n; i++ {
		newReserves[i] = reservesPre[i] + inputReserves[i] - sellFinal[i]
		if newReserves[i] < 0 {
			return unchanged, NewRuleError(ErrConservationFailure, "negative reserve after conversion")
		}

		switch {
		case inputReserves[i] > 0:
			denom := inputFractional[i] + buyFinal[i]
			if denom > 0 {
				rates[i] = Amount(int64(inputReserves[i]) * chaincfg.SATOSHIDEN / int64(denom))
			}
		case inputFractional[i] > 0:
			rates[i] = Amount(int64(sellFinal[i]) * chaincfg.SATOSHIDEN / int64(inputFractional[i]))
		default:
			rates[i] = priorRates[i]
		}
	}

	newSupply := supplyPre + totalBuyFinal - totalFractionalSold
	if newSupply < 0 {
		return unchanged, NewRuleError(ErrConservationFailure, "negative supply after conversion")
	}

	newState := state
	newState.Reserves = newReserves
	newState.Supply = newSupply

	result := ConvertResult{Rates: rates, NewState: newState}

	if crossConversions != nil {
		viaRates, err := computeViaRates(newState, inputReserves, crossConversions, rates, params)
		if err != nil {
			return unchanged, err
		}
		result.ViaRates = viaRates
	}

	return result, nil
}

// computeViaRates implements §4.2 step 8: for each reserve-to-reserve
// route, convert the routed reserve amount into its fractional
// equivalent at the freshly computed rates, then recurse ConvertAmounts
// with those fractional amounts (and zero reserve input) to get the via
// price vector for the second hop.
func computeViaRates(state CurrencyState, inputReserves []Amount, crossConversions [][]Amount, rates []Amount, params chaincfg.ReserveParams) ([]Amount, error) {
	n := len(state.Currencies)
	fractionalForRoute := make([]Amount, n)

	for i := 0; i < n; i++ {
		if i >= len(crossConversions) {
			continue
		}
		row := crossConversions[i]
		for j := 0; j < n && j < len(row); j++ {
			amount := row[j]
			if amount <= 0 || rates[i] <= 0 {
				continue
			}
			fractionalForRoute[j] += Amount(int64(amount) * chaincfg.SATOSHIDEN / int64(rates[i]))
		}
	}

	anyRoute := false
	for _, v := range fractionalForRoute {
		if v != 0 {
			anyRoute = true
			break
		}
	}
	if !anyRoute {
		return state.PricesInReserve(), nil
	}

	zeroReserves := make([]Amount, n)
	result, err := ConvertAmounts(state, zeroReserves, fractionalForRoute, nil, params)
	if err != nil {
		return nil, err
	}
	return result.Rates, nil
}
