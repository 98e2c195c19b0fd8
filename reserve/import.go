// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"gitlab.com/jaxnet/reservecore/chaincfg"
	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

// ImportResult is the output of AddReserveTransferImportOutputs (spec.md
// §4.4, C8): the payment outputs produced, the three balance ledgers, and
// the next block's currency state.
type ImportResult struct {
	Outputs []Output

	ImportedCurrency  ValueMap
	GatewayDepositsIn ValueMap
	SpentCurrencyOut  ValueMap

	NextState CoinbaseCurrencyState
}

// pendingConvertOutput is a CONVERT/RESERVE_TO_RESERVE transfer's payment
// output, built with a placeholder amount at dispatch time (the real
// amount isn't known until the aggregated ConvertAmounts call prices the
// whole batch) and repriced in finalConvertAndUpdate (spec.md §4.4 item 2;
// reserves.cpp:2820-2880's ReserveToNativeRaw/NativeToReserveRaw against
// the final conversion price).
type pendingConvertOutput struct {
	outputIndex      int
	address          []byte
	payCurrency      currencyid.ID // currency this output ultimately pays out
	sourceIsImport   bool          // fractional -> reserve sale
	reserveToReserve bool
	sourceCurrency   currencyid.ID // the reserve leg's currency, for a rates[] lookup
	net              Amount
}

// importWork carries the mutable accumulators threaded through one call,
// keeping AddReserveTransferImportOutputs itself a readable top-level
// sequence of the steps spec.md §4.4 describes.
type importWork struct {
	ctx        Context
	descriptor *ReserveTransactionDescriptor
	state      CoinbaseCurrencyState

	reserveConverted ValueMap // reserve -> reserve amount queued for the aggregated conversion (buy side)
	fractionalSales  ValueMap // destination reserve -> fractional amount sold into it (sell side, per §4.2's per-currency ReserveOut)

	// fractionalFeeConverted is the portion of fee-aggregation's fractional-
	// currency fees scheduled for conversion; unlike fractionalSales it has
	// no per-transfer destination reserve, so it's spread proportionally by
	// basket weight rather than keyed (spec.md §4.4 "Fee aggregation").
	fractionalFeeConverted Amount

	preConvertedReserve   ValueMap
	crossConversions      map[currencyid.ID]map[currencyid.ID]Amount
	pendingConvertOutputs []pendingConvertOutput

	reserveInputs ValueMap // every transfer's stated (sourceCurrency, amount) and (feeCurrency, feeAmount), the P3 "ReserveInputs" ledger
	imported      ValueMap
	deposits      ValueMap
	spent         ValueMap

	outputs []Output
}

// AddReserveTransferImportOutputs replays an ordered batch of reserve
// transfers against a prior (already-reverted) CoinbaseCurrencyState,
// producing the outputs, the next state, and a balanced set of ledgers
// (spec.md §4.4). It returns failure on any invariant violation; there is
// no partial application — on error the caller must discard result.
func AddReserveTransferImportOutputs(
	ctx Context,
	importCurrency CurrencyDefinition,
	priorState CoinbaseCurrencyState,
	transfers []ReserveTransfer,
) (ImportResult, error) {
	params := ctx.Params()

	w := &importWork{
		ctx:                 ctx,
		descriptor:          NewReserveTransactionDescriptor(importCurrency.ID),
		state:               priorState,
		reserveConverted:    NewValueMap(),
		fractionalSales:     NewValueMap(),
		preConvertedReserve: NewValueMap(),
		crossConversions:    make(map[currencyid.ID]map[currencyid.ID]Amount),
		reserveInputs:       NewValueMap(),
		imported:            NewValueMap(),
		deposits:            NewValueMap(),
		spent:               NewValueMap(),
	}
	w.state.ClearFlows()

	if err := w.prePass(importCurrency); err != nil {
		return ImportResult{}, err
	}

	for _, t := range transfers {
		if err := w.dispatch(importCurrency, t, params); err != nil {
			return ImportResult{}, err
		}
	}

	if err := w.feeAggregation(importCurrency, len(transfers), params); err != nil {
		return ImportResult{}, err
	}

	if err := w.finalConvertAndUpdate(importCurrency, params); err != nil {
		return ImportResult{}, err
	}

	if w.descriptor.TotalMinted+w.descriptor.TotalPreConvert > 0 {
		next, err := UpdateWithEmission(w.state.CurrencyState, w.descriptor.TotalMinted+w.descriptor.TotalPreConvert, 0, 0)
		if err != nil {
			logger := ctx.Logger()
			logger.Warn().Err(err).Msg("emission update rejected")
			return ImportResult{}, err
		}
		w.state.CurrencyState = next
	}

	if w.reserveInputs.Sub(w.spent).HasNegative() {
		err := NewRuleError(ErrConservationFailure, "spent currency exceeds reserve inputs")
		logger := ctx.Logger()
		logger.Warn().Str("currency", importCurrency.ID.String()).Msg(err.Description)
		return ImportResult{}, err
	}

	return ImportResult{
		Outputs:           w.outputs,
		ImportedCurrency:  w.imported.Canonical(),
		GatewayDepositsIn: w.deposits.Canonical(),
		SpentCurrencyOut:  w.spent.Canonical(),
		NextState:         w.state,
	}, nil
}

// reject builds a RuleError and logs it through the injected context
// logger, mirroring the original's LogPrintf call on every rejection
// branch (SPEC_FULL.md §2.1).
func (w *importWork) reject(code ErrorCode, desc string) error {
	err := NewRuleError(code, desc)
	logger := w.ctx.Logger()
	logger.Warn().Str("code", code.String()).Msg(desc)
	return err
}

// prePass emits the pre-allocation outputs on LaunchClear and any
// gateway-converter issuance (spec.md §4.4 "Pre-pass"; supplemented by
// SPEC_FULL.md §4 item 4).
func (w *importWork) prePass(importCurrency CurrencyDefinition) error {
	if !w.state.Flags.Has(FlagLaunchClear) {
		return nil
	}

	var total Amount
	for _, alloc := range importCurrency.PreAllocations {
		w.outputs = append(w.outputs, outputFor(importCurrency.ID, nil, alloc.Amount))
		w.imported[importCurrency.ID] += alloc.Amount
		total += alloc.Amount
	}
	w.descriptor.TotalPreConvert += total

	if importCurrency.IsGateway {
		for i, id := range importCurrency.State.Currencies {
			amount := importCurrency.State.Reserves[i]
			if amount <= 0 {
				continue
			}
			w.deposits[id] += amount
			w.descriptor.AddReserveIn(id, amount)
		}
	}
	return nil
}

// dispatch classifies and processes one transfer (spec.md §4.4 "Per-
// transfer dispatch").
func (w *importWork) dispatch(importCurrency CurrencyDefinition, t ReserveTransfer, params chaincfg.ReserveParams) error {
	destIsImport := t.DestCurrency == importCurrency.ID
	sourceIsImport := t.SourceCurrency == importCurrency.ID
	if t.Flags.Has(TransferImportToSource) && !sourceIsImport {
		return w.reject(ErrInvalidTransfer, "IMPORT_TO_SOURCE set but source is not the import currency")
	}

	w.reserveInputs[t.SourceCurrency] += t.Amount
	if t.FeeAmount > 0 {
		w.reserveInputs[t.FeeCurrency] += t.FeeAmount
		w.descriptor.AddTransferFee(t.FeeCurrency, t.FeeAmount)
	}

	switch t.Kind() {
	case KindPreConvert:
		return w.dispatchPreConvert(importCurrency, t, params)
	case KindConvert, KindReserveToReserve:
		return w.dispatchConvert(importCurrency, t, destIsImport, sourceIsImport, params)
	case KindBurn:
		return w.dispatchBurn(importCurrency, t, sourceIsImport)
	case KindMint:
		return w.dispatchMint(importCurrency, t, destIsImport)
	default:
		return w.dispatchPlainTransfer(t)
	}
}

// dispatchPreConvert handles PRECONVERT: legal only during prelaunch,
// only into a fractional or native currency (spec.md §4.4 item 1).
func (w *importWork) dispatchPreConvert(importCurrency CurrencyDefinition, t ReserveTransfer, params chaincfg.ReserveParams) error {
	if !w.state.Flags.Has(FlagPrelaunch) {
		return w.reject(ErrInvalidTransfer, "pre-conversion outside prelaunch")
	}
	if t.DestCurrency != importCurrency.ID || !(w.state.Flags.Has(FlagFractional) || importCurrency.ID.IsNative()) {
		return w.reject(ErrInvalidTransfer, "pre-conversion destination must be a fractional or native import currency")
	}

	fee := ConversionFee(params, t.Amount, false)
	if fee > t.Amount {
		fee = t.Amount
	}
	net := t.Amount - fee
	w.descriptor.AddConversionFee(t.SourceCurrency, fee)

	carveOut := Amount(0)
	if importCurrency.CarveOutPercent > 0 && len(importCurrency.CarveOutRecipients) > 0 {
		carveOut = Amount(int64(net) * importCurrency.CarveOutPercent / chaincfg.SATOSHIDEN)
		share := carveOut / Amount(len(importCurrency.CarveOutRecipients))
		for _, recipient := range importCurrency.CarveOutRecipients {
			w.outputs = append(w.outputs, outputFor(t.SourceCurrency, recipient[:], share))
			w.spent[t.SourceCurrency] += share
		}
	}

	deposit := net - carveOut
	w.preConvertedReserve[t.SourceCurrency] += deposit
	w.deposits[t.SourceCurrency] += deposit
	w.descriptor.AddReserveIn(t.SourceCurrency, deposit)
	w.descriptor.TotalPreConvert += deposit
	w.imported[importCurrency.ID] += deposit
	return nil
}

// dispatchConvert handles CONVERT and RESERVE_TO_RESERVE: queues the
// amount into the aggregated ConvertAmounts inputs rather than converting
// it immediately, so every conversion in the batch is priced together
// (spec.md §4.4 item 2), and records a placeholder payment output to be
// repriced once that aggregated price is known.
func (w *importWork) dispatchConvert(importCurrency CurrencyDefinition, t ReserveTransfer, destIsImport, sourceIsImport bool, params chaincfg.ReserveParams) error {
	if !destIsImport && !sourceIsImport {
		return w.reject(ErrInvalidTransfer, "convert requires source or destination to be the import currency")
	}

	reserveToReserve := t.IsReserveToReserve()
	if reserveToReserve {
		if importCurrency.State.IndexOf(t.SecondReserveID) < 0 {
			return w.reject(ErrInvalidTransfer, "second reserve is not part of the import currency's basket")
		}
	}

	fee := ConversionFee(params, t.Amount, reserveToReserve)
	if fee > t.Amount {
		fee = t.Amount
	}
	net := t.Amount - fee
	w.descriptor.AddConversionFee(t.SourceCurrency, fee)

	var payCurrency currencyid.ID
	switch {
	case sourceIsImport:
		// Fractional -> reserve: queue the fractional burn, keyed by the
		// destination reserve it's routed to (§4.2's ReserveOut is
		// per-currency, not basket-proportional).
		w.fractionalSales[t.DestCurrency] += net
		w.spent[importCurrency.ID] += t.Amount
		payCurrency = t.DestCurrency
	default:
		// Reserve -> fractional, or the only valid reserve-to-reserve
		// direction (reserves.cpp:2783-2789 requires toFractional: source
		// is a reserve, destination is the fractional currency, and
		// SecondReserveID names the reserve the fractional leg routes on
		// to), so the cross-conversion route is queued here, not under
		// sourceIsImport.
		w.reserveConverted[t.SourceCurrency] += net
		w.deposits[t.SourceCurrency] += net
		w.descriptor.AddReserveIn(t.SourceCurrency, net)
		w.spent[t.SourceCurrency] += t.Amount
		if reserveToReserve {
			w.queueCross(t.SourceCurrency, t.SecondReserveID, net)
			payCurrency = t.SecondReserveID
		} else {
			payCurrency = importCurrency.ID
		}
	}

	if t.Destination.Address != nil {
		idx := len(w.outputs)
		w.outputs = append(w.outputs, outputFor(payCurrency, t.Destination.Address, 0))
		w.pendingConvertOutputs = append(w.pendingConvertOutputs, pendingConvertOutput{
			outputIndex:      idx,
			address:          t.Destination.Address,
			payCurrency:      payCurrency,
			sourceIsImport:   sourceIsImport,
			reserveToReserve: reserveToReserve,
			sourceCurrency:   t.SourceCurrency,
			net:              net,
		})
	}
	return nil
}

// queueCross records a reserve-to-reserve route for the aggregated
// ConvertAmounts cross-conversion matrix (spec.md §4.2 step 8).
func (w *importWork) queueCross(from, to currencyid.ID, amount Amount) {
	row, ok := w.crossConversions[from]
	if !ok {
		row = make(map[currencyid.ID]Amount)
		w.crossConversions[from] = row
	}
	row[to] += amount
}

// dispatchBurn handles BURN: legal only when the source is the import
// currency (spec.md §4.4 item 3); whether that currency is fractional or
// a token is not checked. BURN_CHANGE_WEIGHT is rejected as unsupported.
func (w *importWork) dispatchBurn(importCurrency CurrencyDefinition, t ReserveTransfer, sourceIsImport bool) error {
	if t.Flags.Has(TransferBurnChangeWeight) {
		return w.reject(ErrInvalidTransfer, "burn-change-weight is unsupported")
	}
	if !sourceIsImport {
		return w.reject(ErrInvalidTransfer, "burn requires source to be the import currency")
	}
	w.descriptor.TotalBurned += t.Amount
	w.spent[importCurrency.ID] += t.Amount
	return nil
}

// dispatchMint handles MINT: destination must equal the import currency
// (spec.md §4.4 item 4).
func (w *importWork) dispatchMint(importCurrency CurrencyDefinition, t ReserveTransfer, destIsImport bool) error {
	if !destIsImport {
		return w.reject(ErrInvalidTransfer, "mint requires destination to be the import currency")
	}
	w.descriptor.TotalMinted += t.Amount
	w.imported[importCurrency.ID] += t.Amount
	if t.Destination.Address != nil {
		w.outputs = append(w.outputs, outputFor(importCurrency.ID, t.Destination.Address, t.Amount))
	}
	return nil
}

// dispatchPlainTransfer produces a passthrough output, wrapping into a
// next-leg transfer if the destination has a gateway leg (spec.md §4.4
// item 5).
func (w *importWork) dispatchPlainTransfer(t ReserveTransfer) error {
	if t.Destination.HasGateway {
		leg := t
		leg.Flags &^= TransferConvert | TransferPreConvert
		w.outputs = append(w.outputs, NewNextLegOutput(leg))
	} else {
		w.outputs = append(w.outputs, outputFor(t.DestCurrency, t.Destination.Address, t.Amount))
	}
	w.spent[t.SourceCurrency] += t.Amount
	w.imported[t.DestCurrency] += t.Amount
	return nil
}

// feeAggregation implements the synthetic trailing transfer of spec.md
// §4.4: split transferFees 50/50, schedule the remainder for conversion
// to the destination system currency, and pay the exporter its reward.
func (w *importWork) feeAggregation(importCurrency CurrencyDefinition, numTransfers int, params chaincfg.ReserveParams) error {
	if !w.state.Flags.Has(FlagFractional) || !w.state.Flags.Has(FlagLaunchConfirmed) {
		return nil
	}
	systemReserveIndex := w.state.IndexOf(importCurrency.SystemID)
	if systemReserveIndex < 0 || w.state.Reserves[systemReserveIndex] <= 0 {
		return nil
	}

	w.descriptor.SplitLiquidityFees()

	var totalNativeFee Amount
	for id, amount := range w.descriptor.TransferFees {
		if amount <= 0 {
			continue
		}
		if id == importCurrency.SystemID {
			totalNativeFee += amount
			continue
		}
		if id == importCurrency.ID {
			w.fractionalFeeConverted += amount
			continue
		}
		w.reserveConverted[id] += amount
		w.queueCross(id, importCurrency.SystemID, amount)
	}

	exportFee := ExportFee(totalNativeFee, numTransfers)
	reward := ExportReward(exportFee)
	if reward > 0 {
		w.outputs = append(w.outputs, outputFor(importCurrency.SystemID, nil, reward))
		w.descriptor.AddReserveOut(importCurrency.SystemID, reward)
		w.spent[importCurrency.SystemID] += reward
	}
	return nil
}

// finalConvertAndUpdate runs the aggregated ConvertAmounts call, reprices
// every pending CONVERT output against its result, and folds the result
// back into the working state (spec.md §4.4 "Final conversion & state
// update").
func (w *importWork) finalConvertAndUpdate(importCurrency CurrencyDefinition, params chaincfg.ReserveParams) error {
	if w.descriptor.TotalBurned > 0 {
		w.state.Supply -= w.descriptor.TotalBurned
		if w.state.Supply < 0 {
			return w.reject(ErrConservationFailure, "supply negative after burn")
		}
	}

	if !w.state.Flags.Has(FlagFractional) || !w.state.Flags.Has(FlagLaunchConfirmed) {
		return nil
	}

	n := len(w.state.Currencies)
	inputReserves := make([]Amount, n)
	haveInput := false
	for i, id := range w.state.Currencies {
		amount := w.reserveConverted[id] - w.preConvertedReserve[id]
		if amount < 0 {
			amount = 0
		}
		inputReserves[i] = amount
		if amount != 0 {
			haveInput = true
		}
	}

	inputFractional := make([]Amount, n)
	for i, id := range w.state.Currencies {
		inputFractional[i] = w.fractionalSales[id]
	}
	if w.fractionalFeeConverted != 0 {
		var totalWeight int64
		for _, wt := range w.state.Weights {
			totalWeight += wt
		}
		// The fee-derived fractional amount has no intrinsic per-reserve
		// routing on its own, so it's spread proportionally to weight
		// (spec.md §4.4 "Fee aggregation"), on top of any directly-routed
		// sales already keyed into inputFractional.
		for i, wt := range w.state.Weights {
			inputFractional[i] += Amount(int64(w.fractionalFeeConverted) * wt / totalWeight)
		}
	}
	for _, amount := range inputFractional {
		if amount != 0 {
			haveInput = true
		}
	}

	if !haveInput {
		return nil
	}

	var cross [][]Amount
	if len(w.crossConversions) > 0 {
		cross = make([][]Amount, n)
		for i := range cross {
			cross[i] = make([]Amount, n)
		}
		for fromID, row := range w.crossConversions {
			fromIdx := w.state.IndexOf(fromID)
			if fromIdx < 0 {
				continue
			}
			for toID, amount := range row {
				toIdx := w.state.IndexOf(toID)
				if toIdx < 0 {
					continue
				}
				cross[fromIdx][toIdx] += amount
			}
		}
	}

	result, err := ConvertAmounts(w.state.CurrencyState, inputReserves, inputFractional, cross, params)
	if err != nil {
		return w.reject(ErrConservationFailure, err.Error())
	}

	w.repriceConvertOutputs(importCurrency, result)

	w.state.CurrencyState = result.NewState
	for i := range w.state.Currencies {
		w.state.ReserveIn[i] += inputReserves[i]
		w.state.NativeIn[i] += inputFractional[i]
		if w.state.Flags.Has(FlagLaunchComplete) {
			w.state.ConversionPrice[i] = result.Rates[i]
		} else {
			w.state.ViaConversionPrice[i] = result.Rates[i]
		}
	}
	if result.ViaRates != nil {
		w.state.ViaConversionPrice = result.ViaRates
	}
	return nil
}

// repriceConvertOutputs fills in the real amount of every pending CONVERT
// output, now that the aggregated ConvertAmounts call has priced the
// batch: rates[i] is the price of one fractional unit in reserve i's
// terms (reserves.cpp:2820-2880's ReserveToNativeRaw/NativeToReserveRaw).
// It also folds the converted portion into the descriptor's per-currency
// ReserveIn/ReserveOut ledgers (spec.md §3 "ReserveInOuts", C7).
func (w *importWork) repriceConvertOutputs(importCurrency CurrencyDefinition, result ConvertResult) {
	rates := result.Rates
	for _, p := range w.pendingConvertOutputs {
		var amount Amount
		switch {
		case p.sourceIsImport:
			// Fractional -> reserve sale: reserveOut = fractionalIn * rate / SATOSHIDEN.
			if idx := w.state.IndexOf(p.payCurrency); idx >= 0 && rates[idx] > 0 {
				amount = Amount(int64(p.net) * int64(rates[idx]) / chaincfg.SATOSHIDEN)
			}
			w.descriptor.AddReserveOut(p.payCurrency, amount)
			w.descriptor.AddConvertedOut(importCurrency.ID, amount, 0)
		case p.reserveToReserve:
			// Reserve -> fractional -> second reserve: price the first hop
			// at rates[sourceCurrency], then the second hop at the via
			// price for the destination reserve (§4.2 step 8).
			var fractionalAmt Amount
			if idx := w.state.IndexOf(p.sourceCurrency); idx >= 0 && rates[idx] > 0 {
				fractionalAmt = Amount(int64(p.net) * chaincfg.SATOSHIDEN / int64(rates[idx]))
			}
			if result.ViaRates != nil {
				if idx := w.state.IndexOf(p.payCurrency); idx >= 0 && result.ViaRates[idx] > 0 {
					amount = Amount(int64(fractionalAmt) * int64(result.ViaRates[idx]) / chaincfg.SATOSHIDEN)
				}
			}
			w.descriptor.AddReserveOut(p.payCurrency, amount)
			w.descriptor.AddConvertedOut(importCurrency.ID, amount, 0)
		default:
			// Reserve -> fractional buy: fractionalOut = reserveIn * SATOSHIDEN / rate.
			if idx := w.state.IndexOf(p.sourceCurrency); idx >= 0 && rates[idx] > 0 {
				amount = Amount(int64(p.net) * chaincfg.SATOSHIDEN / int64(rates[idx]))
			}
			w.descriptor.AddConvertedOut(importCurrency.ID, 0, amount)
		}
		w.outputs[p.outputIndex] = outputFor(p.payCurrency, p.address, amount)
	}
}
