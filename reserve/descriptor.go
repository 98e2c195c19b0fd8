// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"gitlab.com/jaxnet/reservecore/chaincfg"
	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

// ReserveInOuts are the per-currency counters a ReserveTransactionDescriptor
// accumulates while folding transfers (spec.md §3 "ReserveInOuts").
type ReserveInOuts struct {
	ReserveIn             Amount
	ReserveOut            Amount
	ReserveOutConverted   Amount
	NativeOutConverted    Amount
	ReserveConversionFees Amount
}

// ReserveTransactionDescriptor is the builder C7 describes: construct
// empty, fold transfers into it with AddTransfer, read out the
// accumulated ledgers (Design Notes §9 "Mutable accumulators" — a builder
// taking &mut self, whose final outputs are read by value).
type ReserveTransactionDescriptor struct {
	ImportCurrency currencyid.ID

	InOuts map[currencyid.ID]*ReserveInOuts

	TransferFees  ValueMap
	LiquidityFees ValueMap

	TotalMinted     Amount
	TotalBurned     Amount
	TotalPreConvert Amount
	TotalEmitted    Amount
}

// NewReserveTransactionDescriptor builds an empty descriptor for
// importCurrency.
func NewReserveTransactionDescriptor(importCurrency currencyid.ID) *ReserveTransactionDescriptor {
	return &ReserveTransactionDescriptor{
		ImportCurrency: importCurrency,
		InOuts:         make(map[currencyid.ID]*ReserveInOuts),
		TransferFees:   NewValueMap(),
		LiquidityFees:  NewValueMap(),
	}
}

func (d *ReserveTransactionDescriptor) entry(id currencyid.ID) *ReserveInOuts {
	e, ok := d.InOuts[id]
	if !ok {
		e = &ReserveInOuts{}
		d.InOuts[id] = e
	}
	return e
}

// AddReserveIn accrues a reserveIn counter for id.
func (d *ReserveTransactionDescriptor) AddReserveIn(id currencyid.ID, amount Amount) {
	d.entry(id).ReserveIn += amount
}

// AddReserveOut accrues a reserveOut counter for id.
func (d *ReserveTransactionDescriptor) AddReserveOut(id currencyid.ID, amount Amount) {
	d.entry(id).ReserveOut += amount
}

// AddConvertedOut accrues the converted-output counters for id: the
// portion of reserveOut/nativeOut that resulted from a conversion rather
// than a plain passthrough.
func (d *ReserveTransactionDescriptor) AddConvertedOut(id currencyid.ID, reserveOutConverted, nativeOutConverted Amount) {
	e := d.entry(id)
	e.ReserveOutConverted += reserveOutConverted
	e.NativeOutConverted += nativeOutConverted
}

// AddConversionFee accrues a conversion fee, valued in id, against id's
// ReserveConversionFees counter.
func (d *ReserveTransactionDescriptor) AddConversionFee(id currencyid.ID, fee Amount) {
	d.entry(id).ReserveConversionFees += fee
}

// AddTransferFee accrues an explicit transfer fee into TransferFees,
// keyed by fee currency (spec.md §4.4 "For every transfer, accrue
// transferFees[feeCurrency] += explicitFees").
func (d *ReserveTransactionDescriptor) AddTransferFee(feeCurrency currencyid.ID, amount Amount) {
	d.TransferFees[feeCurrency] += amount
}

// SplitLiquidityFees moves half of each TransferFees entry into
// LiquidityFees, the "split transferFees 50/50" step of spec.md §4.4
// "Fee aggregation".
func (d *ReserveTransactionDescriptor) SplitLiquidityFees() {
	for id, amount := range d.TransferFees {
		half := amount / 2
		d.LiquidityFees[id] += half
		d.TransferFees[id] = amount - half
	}
}

// GeneratedImportCurrency reports how much of the import currency was
// newly created by this batch: minted + preconverted + emitted, minus
// burned (reserves.cpp:1916-1962, see SPEC_FULL.md §4 item 3).
func (d *ReserveTransactionDescriptor) GeneratedImportCurrency() Amount {
	return d.TotalMinted + d.TotalPreConvert + d.TotalEmitted - d.TotalBurned
}

// ReserveFees converts the accumulated TransferFees held in the listed
// currencies into a single reserve-currency valuation using the
// caller-supplied rate vector over currencies; fees in any other currency
// are not counted (reserves.cpp:1441-1540, see SPEC_FULL.md §4 item 5).
func (d *ReserveTransactionDescriptor) ReserveFees(currencies []currencyid.ID, rates []Amount) Amount {
	var total Amount
	for i, id := range currencies {
		fee, ok := d.TransferFees[id]
		if !ok || fee == 0 {
			continue
		}
		if i < len(rates) && rates[i] > 0 {
			total += Amount(int64(fee) * int64(rates[i]) / chaincfg.SATOSHIDEN)
		}
	}
	return total
}

// AllFeesAsReserve is ReserveFees using state's own PricesInReserve()
// when the caller hasn't supplied explicit rates (reserves.cpp:3279-3296,
// see SPEC_FULL.md §4 item 6).
func (d *ReserveTransactionDescriptor) AllFeesAsReserve(state *CurrencyState) Amount {
	return d.ReserveFees(state.Currencies, state.PricesInReserve())
}
