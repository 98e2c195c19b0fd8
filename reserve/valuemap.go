// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"sort"

	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

// ValueMap is a sparse currency-id -> Amount mapping (spec.md §3
// "CurrencyValueMap"). Insertion order is irrelevant; Canonical produces
// the unique sorted representation used for equality and serialization
// (Design Notes §9 "Determinism hazards" — always iterate canonical
// order).
type ValueMap map[currencyid.ID]Amount

// NewValueMap builds an empty map.
func NewValueMap() ValueMap {
	return make(ValueMap)
}

// Add returns the elementwise sum of m and other. Entries present in only
// one operand carry through unchanged.
func (m ValueMap) Add(other ValueMap) ValueMap {
	out := make(ValueMap, len(m)+len(other))
	for id, amt := range m {
		out[id] += amt
	}
	for id, amt := range other {
		out[id] += amt
	}
	return out
}

// Sub returns the elementwise difference m - other.
func (m ValueMap) Sub(other ValueMap) ValueMap {
	out := make(ValueMap, len(m)+len(other))
	for id, amt := range m {
		out[id] += amt
	}
	for id, amt := range other {
		out[id] -= amt
	}
	return out
}

// MulScalar returns every entry of m multiplied by n.
func (m ValueMap) MulScalar(n int64) ValueMap {
	out := make(ValueMap, len(m))
	for id, amt := range m {
		out[id] = Amount(int64(amt) * n)
	}
	return out
}

// Canonical drops zero-valued entries, the unique representation used for
// equality (spec.md §3 "canonical form is the unique representation used
// for equality").
func (m ValueMap) Canonical() ValueMap {
	out := make(ValueMap, len(m))
	for id, amt := range m {
		if amt != 0 {
			out[id] = amt
		}
	}
	return out
}

// HasNegative reports whether any entry is negative, the conservation
// check used throughout §4.4 and P3.
func (m ValueMap) HasNegative() bool {
	for _, amt := range m {
		if amt < 0 {
			return true
		}
	}
	return false
}

// Equal reports whether m and other are equal after canonicalization.
func (m ValueMap) Equal(other ValueMap) bool {
	a, b := m.Canonical(), other.Canonical()
	if len(a) != len(b) {
		return false
	}
	for id, amt := range a {
		if b[id] != amt {
			return false
		}
	}
	return true
}

// SortedIDs returns the map's keys in canonical ascending byte order
// (spec.md §6 "Serialization" — currency-value maps encode as a sorted
// vector of (id, amount), ids ascending by byte order).
func (m ValueMap) SortedIDs() []currencyid.ID {
	ids := make([]currencyid.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// Clone returns a shallow copy of m.
func (m ValueMap) Clone() ValueMap {
	out := make(ValueMap, len(m))
	for id, amt := range m {
		out[id] = amt
	}
	return out
}
