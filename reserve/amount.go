// Copyright (c) 2013, 2014 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"errors"
	"math"
	"strconv"

	"gitlab.com/jaxnet/reservecore/chaincfg"
)

// Amount represents a quantity of any currency tracked by this engine,
// native or reserve, in its base unit. A single Amount is equal to 1e-8 of
// a whole currency unit (spec.md §3 "SATOSHIDEN"). Every field named
// "amount" or "*Out"/"*In" on the C2-C7 types is this type.
type Amount int64

// round converts a floating point number, which may or may not be
// representable as an integer, to the Amount integer type by rounding to
// the nearest integer, adding or subtracting 0.5 depending on sign and
// relying on integer truncation.
func round(f float64) Amount {
	if f < 0 {
		return Amount(f - 0.5)
	}
	return Amount(f + 0.5)
}

// NewAmount creates an Amount from a floating point value representing some
// quantity of whole currency units. It errors if f is NaN or +-Infinity.
func NewAmount(f float64) (Amount, error) {
	switch {
	case math.IsNaN(f):
		fallthrough
	case math.IsInf(f, 1):
		fallthrough
	case math.IsInf(f, -1):
		return 0, errors.New("reserve: invalid amount")
	}

	return round(f * chaincfg.SATOSHIDEN), nil
}

// ToUnit converts an Amount to a floating point value representing a
// quantity of whole currency units.
func (a Amount) ToUnit() float64 {
	return float64(a) / chaincfg.SATOSHIDEN
}

// String formats a as a decimal quantity of whole currency units.
func (a Amount) String() string {
	return strconv.FormatFloat(a.ToUnit(), 'f', 8, 64)
}

// MulF64 multiplies an Amount by a floating point value, useful for
// scaling by a fee percentage or a conversion ratio expressed as a float.
func (a Amount) MulF64(f float64) Amount {
	return round(float64(a) * f)
}

// MulFraction multiplies a by numerator/denominator using integer
// arithmetic, avoiding the precision loss of MulF64 when the fraction is
// itself SATOSHIDEN-scaled (spec.md §4.3 fee formulas).
func (a Amount) MulFraction(numerator, denominator int64) Amount {
	if denominator == 0 {
		return 0
	}
	return Amount(int64(a) * numerator / denominator)
}
