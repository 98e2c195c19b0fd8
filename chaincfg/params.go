// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg carries the bit-exact protocol constants (spec.md §6)
// that parameterize the reserve currency engine, the way the teacher's
// chaincfg package carries per-network consensus parameters.
package chaincfg

// SATOSHIDEN is the fixed-point scale of every amount and price/weight
// fraction in this engine: one currency unit is 10^8 base units.
const SATOSHIDEN = 100_000_000

// ReserveParams groups the chain-parameter surface this engine needs,
// injected into every core call via reserve.Context rather than read
// from a package-level global (Design Notes §9 "Global state").
type ReserveParams struct {
	// MaxReserveCurrencies bounds the size of a fractional currency's
	// reserve basket (spec.md §3 "CurrencyState").
	MaxReserveCurrencies int

	// DefaultPerStepFee is the base unit of a transfer fee (spec.md §4.3).
	DefaultPerStepFee int64

	// SuccessFee is the conversion fee rate, expressed as a fraction of
	// SATOSHIDEN (spec.md §4.3).
	SuccessFee int64

	// MinSuccessFee is the absolute floor on a conversion fee.
	MinSuccessFee int64

	// DestinationByteDivisor scales the transfer fee by destination size.
	DestinationByteDivisor int64

	// LaunchCompleteHeight-relative window handling is left to the
	// caller; this engine only needs to know which side of the boundary
	// a given CurrencyState is on, carried on the state itself
	// (flags.LAUNCH_COMPLETE).
}

// MainNetParams are the published production parameters.
var MainNetParams = ReserveParams{
	MaxReserveCurrencies:   10,
	DefaultPerStepFee:      10000,
	SuccessFee:             SATOSHIDEN / 200, // 0.5%
	MinSuccessFee:          10000,
	DestinationByteDivisor: 128,
}

// TestNetParams relax nothing material about the formulas, but exist so
// callers can exercise the engine against a distinctly named parameter
// set in integration tests, mirroring the teacher's per-network params.
var TestNetParams = MainNetParams
