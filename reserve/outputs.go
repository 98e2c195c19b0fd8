// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import "gitlab.com/jaxnet/reservecore/types/currencyid"

// OutputKind distinguishes the shapes of payment output the import
// processor can emit (spec.md §6 "Outbound").
type OutputKind int

const (
	OutputNative OutputKind = iota
	OutputToken
	OutputNextLegTransfer
)

// Output is one payment produced by AddReserveTransferImportOutputs: a
// native amount to an address, a token output carrying a currency-value
// map, or a next-leg reserve-transfer record continuing into another
// system.
type Output struct {
	Kind    OutputKind
	Address []byte

	NativeAmount Amount
	TokenAmounts ValueMap

	NextLeg *ReserveTransfer
}

// NewNativeOutput builds a plain native-currency payment output.
func NewNativeOutput(address []byte, amount Amount) Output {
	return Output{Kind: OutputNative, Address: address, NativeAmount: amount}
}

// NewTokenOutput builds a token output carrying amounts, keyed by
// currency id.
func NewTokenOutput(address []byte, amounts ValueMap) Output {
	return Output{Kind: OutputToken, Address: address, TokenAmounts: amounts.Canonical()}
}

// outputFor builds the correctly-shaped payment output for a given
// currency: native when id is the chain's own native currency, a token
// output otherwise (spec.md §6 "Outbound" native-vs-token split). Every
// payout site in the import processor goes through this rather than
// assuming native, since most currencies an import pays out in are not.
func outputFor(id currencyid.ID, address []byte, amount Amount) Output {
	if id.IsNative() {
		return NewNativeOutput(address, amount)
	}
	return NewTokenOutput(address, ValueMap{id: amount})
}

// NewNextLegOutput wraps transfer as a next-hop output, the "wrap into a
// next-leg ReserveTransfer output carrying reserves forward" case of
// spec.md §4.4 item 5.
func NewNextLegOutput(transfer ReserveTransfer) Output {
	return Output{Kind: OutputNextLegTransfer, NextLeg: &transfer}
}

// CurrencyTotal returns the amount this output carries in id, covering
// all three output kinds uniformly. The conservation check of §4.4 step 5
// compares the import ledgers and does not call it.
func (o Output) CurrencyTotal(id currencyid.ID) Amount {
	switch o.Kind {
	case OutputNative:
		if id.IsNative() {
			return o.NativeAmount
		}
		return 0
	case OutputToken:
		return o.TokenAmounts[id]
	case OutputNextLegTransfer:
		if o.NextLeg != nil && o.NextLeg.DestCurrency == id {
			return o.NextLeg.Amount
		}
		return 0
	default:
		return 0
	}
}
