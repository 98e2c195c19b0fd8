// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"gitlab.com/jaxnet/reservecore/chaincfg"
	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

// Flags is the lifecycle bitset carried on every CurrencyState (spec.md §3
// "flags").
type Flags uint32

const (
	FlagFractional Flags = 1 << iota
	FlagLaunchClear
	FlagLaunchConfirmed
	FlagLaunchComplete
	FlagPrelaunch
	FlagRefunding
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// CurrencyState is the immutable-per-block description of a fractional
// currency (spec.md §3 "CurrencyState"): its reserve basket, weights,
// supply and lifecycle flags.
type CurrencyState struct {
	Currencies []currencyid.ID
	Weights    []int64 // fraction of chaincfg.SATOSHIDEN, one per reserve
	Reserves   []Amount

	Supply        Amount
	InitialSupply Amount
	Emitted       Amount

	Flags Flags
}

// IndexOf returns the position of id in Currencies, or -1.
func (s *CurrencyState) IndexOf(id currencyid.ID) int {
	for i, c := range s.Currencies {
		if c == id {
			return i
		}
	}
	return -1
}

// Validate checks invariants I1-I3 of spec.md §3.
func (s *CurrencyState) Validate(params chaincfg.ReserveParams) error {
	n := len(s.Currencies)
	if len(s.Weights) != n || len(s.Reserves) != n {
		return NewRuleError(ErrInvalidParameters, "currency/weight/reserve length mismatch")
	}
	if n > params.MaxReserveCurrencies {
		return NewRuleError(ErrInvalidParameters, "too many reserve currencies")
	}

	seen := make(map[currencyid.ID]struct{}, n)
	var totalWeight int64
	for i, id := range s.Currencies {
		if _, dup := seen[id]; dup {
			return NewRuleError(ErrInvalidParameters, "duplicate reserve currency")
		}
		seen[id] = struct{}{}

		if s.Weights[i] <= 0 {
			return NewRuleError(ErrInvalidParameters, "non-positive reserve weight")
		}
		totalWeight += s.Weights[i]

		if s.Reserves[i] < 0 {
			return NewRuleError(ErrInvalidParameters, "negative reserve")
		}
	}
	if totalWeight > chaincfg.SATOSHIDEN {
		return NewRuleError(ErrInvalidParameters, "total reserve weight exceeds SATOSHIDEN")
	}
	if s.Flags.Has(FlagLaunchConfirmed) && s.Supply < 0 {
		return NewRuleError(ErrInvalidParameters, "negative supply after launch")
	}
	return nil
}

// PricesInReserve returns, per reserve, the price of one fractional unit
// expressed in that reserve's units: reserve[i]*SATOSHIDEN/supply when
// supply is positive. A zero entry means "no liquidity in this leg"
// (spec.md §3 invariant I4).
func (s *CurrencyState) PricesInReserve() []Amount {
	prices := make([]Amount, len(s.Currencies))
	if s.Supply <= 0 {
		return prices
	}
	for i, r := range s.Reserves {
		prices[i] = Amount(int64(r) * chaincfg.SATOSHIDEN / int64(s.Supply))
	}
	return prices
}

// CoinbaseCurrencyState extends CurrencyState with the per-block flow
// vectors a single import produces (spec.md §3 "CoinbaseCurrencyState"),
// indexed the same way as Currencies/Weights/Reserves.
type CoinbaseCurrencyState struct {
	CurrencyState

	ReserveIn          []Amount
	NativeIn           []Amount
	ReserveOut         []Amount
	ConversionPrice    []Amount
	ViaConversionPrice []Amount
	Fees               []Amount
	ConversionFees     []Amount

	NativeFees           Amount
	NativeConversionFees Amount
	NativeOut            Amount
	PreConvertedOut      Amount
}

// NewCoinbaseCurrencyState builds a CoinbaseCurrencyState over state with
// all flow vectors zeroed to the correct length.
func NewCoinbaseCurrencyState(state CurrencyState) CoinbaseCurrencyState {
	n := len(state.Currencies)
	return CoinbaseCurrencyState{
		CurrencyState:      state,
		ReserveIn:          make([]Amount, n),
		NativeIn:           make([]Amount, n),
		ReserveOut:         make([]Amount, n),
		ConversionPrice:    make([]Amount, n),
		ViaConversionPrice: make([]Amount, n),
		Fees:               make([]Amount, n),
		ConversionFees:     make([]Amount, n),
	}
}

// ClearFlows zeroes the per-block flow vectors and scalars, the "clear
// per-block flow vectors" pre-pass step of §4.4. ConversionPrice and
// ViaConversionPrice are left as they are.
func (s *CoinbaseCurrencyState) ClearFlows() {
	n := len(s.Currencies)
	s.ReserveIn = make([]Amount, n)
	s.NativeIn = make([]Amount, n)
	s.ReserveOut = make([]Amount, n)
	s.Fees = make([]Amount, n)
	s.ConversionFees = make([]Amount, n)
	s.NativeFees = 0
	s.NativeConversionFees = 0
	s.NativeOut = 0
	s.PreConvertedOut = 0
}

// RevertReservesAndSupply rolls reserves and supply back by the prior
// block's flow vectors before a batch is replayed (spec.md §3
// "Lifecycles"; formula grounded on reserves.cpp:3644-3657, see
// SPEC_FULL.md §4 item 2). It must be called before ClearFlows since it reads
// the flow vectors it's reverting.
func (s *CoinbaseCurrencyState) RevertReservesAndSupply() {
	for i := range s.Reserves {
		s.Reserves[i] += s.ReserveOut[i] - s.ReserveIn[i]
	}

	var nativeInTotal Amount
	for _, in := range s.NativeIn {
		nativeInTotal += in
	}
	s.Supply += nativeInTotal

	emittedOrNativeOut := s.NativeOut
	if s.Emitted > emittedOrNativeOut {
		emittedOrNativeOut = s.Emitted
	}
	s.Supply -= emittedOrNativeOut - s.PreConvertedOut
}
