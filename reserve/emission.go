// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

// minstd0Modulus and minstd0Multiplier are the constants of the
// minstd_rand0 linear congruential generator, the exact deterministic
// shuffle Design Notes §9 ("Determinism hazards") requires for spreading
// emission's rounding remainder — "use the specified linear congruential
// generator with the specified seed, not a platform RNG."
const (
	minstd0Modulus    = 2147483647
	minstd0Multiplier = 16807
)

// minstd0 is a minstd_rand0 generator seeded once and advanced by Next.
type minstd0 struct {
	state int64
}

func newMinstd0(seed int64) *minstd0 {
	s := seed % minstd0Modulus
	if s <= 0 {
		s += minstd0Modulus - 1
	}
	return &minstd0{state: s}
}

// Next advances the generator and returns the new state.
func (m *minstd0) Next() int64 {
	m.state = (m.state * minstd0Multiplier) % minstd0Modulus
	return m.state
}

// UpdateWithEmission adds toEmit new units of supply to state, preserving
// the total reserve ratio by scaling weights down proportionally when the
// currency is fractional with positive supply (spec.md §4.5). forAll and
// forSome feed the deterministic shuffle seed the same way the original
// does, distinguishing an emission batch that touched every reserve from
// one that only touched some.
func UpdateWithEmission(state CurrencyState, toEmit, forAll, forSome Amount) (CurrencyState, error) {
	next := state
	next.Currencies = append([]currencyid.ID(nil), state.Currencies...)
	next.Weights = append([]int64(nil), state.Weights...)
	next.Reserves = append([]Amount(nil), state.Reserves...)

	if state.Supply <= 0 || !state.Flags.Has(FlagFractional) {
		next.Supply = state.Supply + toEmit
		return next, nil
	}

	n := len(state.Weights)
	var totalWeight int64
	for _, w := range state.Weights {
		totalWeight += w
	}

	newSupply := state.Supply + toEmit
	numerator, ok := NewUint256FromInt64(totalWeight).Mul(NewUint256FromInt64(int64(state.Supply)))
	if !ok {
		return state, NewRuleError(ErrOverflow, "emission weight ratio overflow")
	}
	denominator := NewUint256FromInt64(int64(newSupply))
	newTotalWeight256, ok := numerator.DivRoundNearestEven(denominator)
	if !ok {
		return state, NewRuleError(ErrOverflow, "emission weight ratio overflow")
	}
	newTotalWeight, ok := newTotalWeight256.ToInt64()
	if !ok {
		return state, NewRuleError(ErrOverflow, "emission weight ratio does not fit")
	}

	totalDecrease := totalWeight - newTotalWeight
	if totalDecrease < 0 {
		totalDecrease = 0
	}

	decreases := make([]int64, n)
	var distributed int64
	for i, w := range state.Weights {
		d := w * totalDecrease / totalWeight
		decreases[i] = d
		distributed += d
	}

	remainder := totalDecrease - distributed
	if remainder > 0 && n > 0 {
		seed := int64(state.Supply) + int64(forAll) + int64(forSome)
		gen := newMinstd0(seed)
		order := shuffleOrder(n, gen)
		for i := 0; i < int(remainder) && i < n; i++ {
			decreases[order[i]]++
		}
	}

	for i := range next.Weights {
		next.Weights[i] = state.Weights[i] - decreases[i]
		if next.Weights[i] <= 0 {
			next.Weights[i] = 1
		}
	}
	next.Supply = newSupply
	return next, nil
}

// shuffleOrder produces a deterministic permutation of [0,n) driven by
// gen, a Fisher-Yates shuffle using the LCG as the only source of
// randomness so two nodes with the same seed get the same order.
func shuffleOrder(n int, gen *minstd0) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := int(gen.Next() % int64(i+1))
		order[i], order[j] = order[j], order[i]
	}
	return order
}
