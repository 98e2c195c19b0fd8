// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import "math/big"

// uint256Max is 2^256 - 1, the ceiling every Uint256 operation checks
// against (spec.md §4.1 "overflow-detecting").
var uint256Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Uint256 is an unsigned 256-bit integer used by the conversion kernel for
// intermediate products that would overflow an int64: the full-weight
// supply*reserveIn product of FractionalOut (§4.2) and the supply*weight
// product of the emission weight ratio (§4.5). It wraps
// math/big.Int the way every wide-integer need in the corpus does (Design
// Notes §9 "Wide arithmetic"; see SPEC_FULL.md §3.4).
type Uint256 struct {
	v big.Int
}

// NewUint256FromInt64 builds a Uint256 from a non-negative int64.
func NewUint256FromInt64(n int64) Uint256 {
	if n < 0 {
		n = 0
	}
	var u Uint256
	u.v.SetInt64(n)
	return u
}

// IsZero reports whether u is zero.
func (u Uint256) IsZero() bool {
	return u.v.Sign() == 0
}

// Add returns u+other, or ok=false if the sum exceeds 2^256-1.
func (u Uint256) Add(other Uint256) (Uint256, bool) {
	var r Uint256
	r.v.Add(&u.v, &other.v)
	return r, r.v.Cmp(uint256Max) <= 0
}

// Sub returns u-other, or ok=false if other > u (this type has no sign).
func (u Uint256) Sub(other Uint256) (Uint256, bool) {
	if u.v.Cmp(&other.v) < 0 {
		return Uint256{}, false
	}
	var r Uint256
	r.v.Sub(&u.v, &other.v)
	return r, true
}

// Mul returns u*other, or ok=false if the product exceeds 2^256-1.
func (u Uint256) Mul(other Uint256) (Uint256, bool) {
	var r Uint256
	r.v.Mul(&u.v, &other.v)
	return r, r.v.Cmp(uint256Max) <= 0
}

// MulDiv computes u*mul/div with the intermediate product carried at full
// 256-bit width, so the caller doesn't lose precision clamping to int64
// between the multiply and the divide — the shape every weight-ratio
// computation in §4.2 and §4.5 needs. ok is false if div is zero or the
// product overflows.
func (u Uint256) MulDiv(mul, div Uint256) (Uint256, bool) {
	if div.v.Sign() == 0 {
		return Uint256{}, false
	}
	var product big.Int
	product.Mul(&u.v, &mul.v)
	if product.Cmp(uint256Max) > 0 {
		return Uint256{}, false
	}
	var r Uint256
	r.v.Quo(&product, &div.v)
	return r, true
}

// DivRoundNearestEven divides u by div using banker's rounding
// (round-half-to-even), the rounding mode §4.5 requires for the emission
// weight-ratio computation.
func (u Uint256) DivRoundNearestEven(div Uint256) (Uint256, bool) {
	if div.v.Sign() == 0 {
		return Uint256{}, false
	}
	q, rem := new(big.Int), new(big.Int)
	q.QuoRem(&u.v, &div.v, rem)

	twice := new(big.Int).Lsh(rem, 1)
	cmp := twice.Cmp(&div.v)
	if cmp > 0 || (cmp == 0 && q.Bit(0) == 1) {
		q.Add(q, big.NewInt(1))
	}

	var r Uint256
	r.v.Set(q)
	return r, true
}

// ToInt64 converts u to an int64, returning ok=false on overflow — the
// "decimal -> int64 returns failure on overflow" contract of §4.1.
func (u Uint256) ToInt64() (int64, bool) {
	if !u.v.IsInt64() {
		return 0, false
	}
	return u.v.Int64(), true
}

// Cmp compares u to other: -1, 0 or 1.
func (u Uint256) Cmp(other Uint256) int {
	return u.v.Cmp(&other.v)
}

// String renders u in decimal, for logging and test failure messages.
func (u Uint256) String() string {
	return u.v.String()
}
