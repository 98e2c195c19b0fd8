// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"math/big"

	"gitlab.com/jaxnet/reservecore/chaincfg"
)

// decimalPrec is the big.Float mantissa precision used by Decimal: 200
// bits is a little over 60 decimal digits, comfortably above the "≥ 50
// decimal digits" floor in spec.md §4.1.
const decimalPrec = 200

// Decimal is the high-precision type the conversion formulas of §4.2 run
// in: fractionalOut and reserveOut both raise a ratio to a fractional
// power, which loses too much precision in float64 across the supply
// ranges this engine deals with. It wraps math/big.Float, the only wide-
// precision type used anywhere in the retrieval pack (SPEC_FULL.md §3.4);
// no operation here uses a machine float.
type Decimal struct {
	v big.Float
}

func newDecimal() *Decimal {
	d := &Decimal{}
	d.v.SetPrec(decimalPrec)
	return d
}

// DecimalFromInt64 builds a Decimal equal to n.
func DecimalFromInt64(n int64) Decimal {
	d := newDecimal()
	d.v.SetInt64(n)
	return *d
}

// DecimalFromRat builds a Decimal equal to num/den.
func DecimalFromRat(num, den int64) Decimal {
	d := newDecimal()
	var denF big.Float
	denF.SetPrec(decimalPrec).SetInt64(den)
	d.v.SetInt64(num)
	d.v.Quo(&d.v, &denF)
	return *d
}

// IsZero reports whether d is exactly zero.
func (d Decimal) IsZero() bool {
	return d.v.Sign() == 0
}

// Sign returns -1, 0 or 1.
func (d Decimal) Sign() int {
	return d.v.Sign()
}

// Add returns d+other.
func (d Decimal) Add(other Decimal) Decimal {
	r := newDecimal()
	r.v.Add(&d.v, &other.v)
	return *r
}

// Sub returns d-other.
func (d Decimal) Sub(other Decimal) Decimal {
	r := newDecimal()
	r.v.Sub(&d.v, &other.v)
	return *r
}

// Mul returns d*other.
func (d Decimal) Mul(other Decimal) Decimal {
	r := newDecimal()
	r.v.Mul(&d.v, &other.v)
	return *r
}

// Quo returns d/other; other must be non-zero.
func (d Decimal) Quo(other Decimal) Decimal {
	r := newDecimal()
	r.v.Quo(&d.v, &other.v)
	return *r
}

// ToInt64 truncates d toward zero, returning ok=false if it doesn't fit in
// an int64 — the "conversion decimal -> int64 that returns failure on
// overflow" contract of §4.1.
func (d Decimal) ToInt64() (int64, bool) {
	var i big.Int
	d.v.Int(&i)
	if !i.IsInt64() {
		return 0, false
	}
	return i.Int64(), true
}

// ln computes the natural log of x (x must be > 0) via the
// ln(x) = 2*atanh((x-1)/(x+1)) identity combined with range reduction
// by repeated square-rooting, which keeps the atanh series argument
// small enough to converge in a bounded number of terms at this
// precision.
func ln(x *big.Float) *big.Float {
	one := bigFloatOne()
	result := bigFloatZero()

	// Range-reduce x into [0.5, 1.5) by repeated sqrt, tracking how many
	// halvings were applied so the log can be scaled back up at the end.
	y := new(big.Float).SetPrec(decimalPrec).Copy(x)
	halvings := 0
	lowerBound := new(big.Float).SetPrec(decimalPrec).SetFloat64(0.5)
	upperBound := new(big.Float).SetPrec(decimalPrec).SetFloat64(1.5)
	for y.Cmp(upperBound) >= 0 || y.Cmp(lowerBound) < 0 {
		y.Sqrt(y)
		halvings++
		if halvings > 200 {
			break
		}
	}

	num := new(big.Float).SetPrec(decimalPrec).Sub(y, one)
	den := new(big.Float).SetPrec(decimalPrec).Add(y, one)
	ratio := new(big.Float).SetPrec(decimalPrec).Quo(num, den)

	term := new(big.Float).SetPrec(decimalPrec).Copy(ratio)
	ratioSq := new(big.Float).SetPrec(decimalPrec).Mul(ratio, ratio)
	sum := new(big.Float).SetPrec(decimalPrec).Copy(term)

	for n := 1; n < 120; n++ {
		term.Mul(term, ratioSq)
		denom := new(big.Float).SetPrec(decimalPrec).SetInt64(int64(2*n + 1))
		contribution := new(big.Float).SetPrec(decimalPrec).Quo(term, denom)
		sum.Add(sum, contribution)
	}

	two := new(big.Float).SetPrec(decimalPrec).SetInt64(2)
	result.Mul(sum, two)

	scale := new(big.Float).SetPrec(decimalPrec).SetInt64(int64(1 << uint(halvings)))
	result.Mul(result, scale)
	return result
}

// exp computes e^x via a Taylor series after reducing x to a small
// magnitude by repeated halving, then squaring the result back up —
// standard argument reduction to keep the series converging quickly at
// this precision.
func exp(x *big.Float) *big.Float {
	halvings := 0
	reduced := new(big.Float).SetPrec(decimalPrec).Copy(x)
	two := new(big.Float).SetPrec(decimalPrec).SetInt64(2)
	bound := new(big.Float).SetPrec(decimalPrec).SetFloat64(0.0625)
	negBound := new(big.Float).SetPrec(decimalPrec).Neg(bound)
	for reduced.Cmp(bound) > 0 || reduced.Cmp(negBound) < 0 {
		reduced.Quo(reduced, two)
		halvings++
		if halvings > 200 {
			break
		}
	}

	sum := bigFloatOne()
	term := bigFloatOne()
	for n := 1; n < 80; n++ {
		term.Mul(term, reduced)
		denom := new(big.Float).SetPrec(decimalPrec).SetInt64(int64(n))
		term.Quo(term, denom)
		sum.Add(sum, term)
	}

	for i := 0; i < halvings; i++ {
		sum.Mul(sum, sum)
	}
	return sum
}

// Pow raises d (must be > 0) to the rational power num/den, computed as
// exp((num/den) * ln(d)) — the formula both fractionalOut and reserveOut
// need for an arbitrary weight fraction exponent (spec.md §4.2).
func (d Decimal) Pow(num, den int64) Decimal {
	logD := ln(&d.v)
	exponent := DecimalFromRat(num, den)
	scaled := new(big.Float).SetPrec(decimalPrec).Mul(logD, &exponent.v)
	r := newDecimal()
	r.v.Set(exp(scaled))
	return *r
}

func bigFloatOne() *big.Float {
	return new(big.Float).SetPrec(decimalPrec).SetInt64(1)
}

func bigFloatZero() *big.Float {
	return new(big.Float).SetPrec(decimalPrec)
}

// FractionalOut computes supply*((1+reserveIn/reserve)^w - 1), the first
// primitive formula of §4.2, in the high-precision kernel. w is the
// reserve's weight as a fraction of SATOSHIDEN. At full weight (w = 1)
// the formula is linear and is computed exactly as
// supply*reserveIn/reserve in wide integers, truncated toward zero.
func FractionalOut(reserveIn, reserve, supply, weight Amount) (int64, bool) {
	if reserve <= 0 {
		reserve = 1
	}
	if weight <= 0 {
		return 0, false
	}
	if weight == chaincfg.SATOSHIDEN && reserveIn >= 0 && supply >= 0 {
		out, ok := NewUint256FromInt64(int64(supply)).MulDiv(NewUint256FromInt64(int64(reserveIn)), NewUint256FromInt64(int64(reserve)))
		if !ok {
			return 0, false
		}
		return out.ToInt64()
	}

	one := DecimalFromInt64(1)
	ratio := DecimalFromRat(int64(reserveIn), int64(reserve))
	base := one.Add(ratio)
	if base.Sign() <= 0 {
		return 0, false
	}

	powered := base.Pow(int64(weight), chaincfg.SATOSHIDEN)
	delta := powered.Sub(one)
	scaled := delta.Mul(DecimalFromInt64(int64(supply)))
	return scaled.ToInt64()
}

// ReserveOut computes reserve*(1-(1-fractionalIn/supply)^(1/w)), the
// second primitive formula of §4.2.
func ReserveOut(fractionalIn, supply, reserve, weight Amount) (int64, bool) {
	if supply <= 0 {
		supply = 1
	}
	if weight <= 0 {
		return 0, false
	}

	one := DecimalFromInt64(1)
	ratio := DecimalFromRat(int64(fractionalIn), int64(supply))
	base := one.Sub(ratio)
	if base.Sign() <= 0 {
		// fractionalIn >= supply: redeeming the entire supply or more,
		// which this ln/exp approximation of a fractional power can't
		// represent (the base of the power would be <= 0).
		return 0, false
	}

	powered := base.Pow(chaincfg.SATOSHIDEN, int64(weight))
	delta := one.Sub(powered)
	scaled := delta.Mul(DecimalFromInt64(int64(reserve)))
	return scaled.ToInt64()
}
