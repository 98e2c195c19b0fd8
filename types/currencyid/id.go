// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package currencyid provides the 160-bit opaque currency identifier
// used throughout the reserve engine (spec.md §3 "Currency id"): a
// totally ordered, hash-like value with a distinguished native id for
// the executing chain.
package currencyid

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/minio/sha256-simd"
)

// IDSize is the number of bytes in a currency id.
const IDSize = 20

// ID identifies a currency: either a reserve currency or a fractional
// currency backed by a basket of reserves. Comparison is by byte order,
// ascending, matching the canonical encoding of a CurrencyValueMap
// (spec.md §6 "Serialization").
type ID [IDSize]byte

// Native is the distinguished id of the chain's own native currency.
// It is the zero value so that a CurrencyDefinition left unset defaults
// to referring to the native currency rather than an unknown reserve.
var Native ID

// String renders the id as lowercase hex, most-significant byte first.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsNative reports whether id refers to the chain's native currency.
func (id ID) IsNative() bool {
	return id == Native
}

// Compare returns -1, 0 or 1 as id is less than, equal to, or greater
// than other, using ascending byte order (spec.md §6).
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// Less reports whether id sorts before other in canonical order.
func (id ID) Less(other ID) bool {
	return id.Compare(other) < 0
}

// FromBytes builds an ID from a byte slice, which must be exactly
// IDSize bytes.
func FromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != IDSize {
		return id, fmt.Errorf("currencyid: invalid id length %d, want %d", len(b), IDSize)
	}
	copy(id[:], b)
	return id, nil
}

// FromHex parses a currency id from its hex string form.
func FromHex(s string) (ID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, err
	}
	return FromBytes(b)
}

// FromName derives a deterministic id for a currency name the way a
// friendly-name currency definition is content-addressed: the low
// IDSize bytes of a double SHA256 of the name exactly as given (no case
// folding or other canonicalization). Real
// on-chain currency ids are derived by the (out of scope) identity/
// currency-definition subsystem; this helper exists for tests and the
// CLI driver that need a stable id from a human name.
func FromName(name string) ID {
	first := sha256.Sum256([]byte(name))
	second := sha256.Sum256(first[:])
	var id ID
	copy(id[:], second[len(second)-IDSize:])
	return id
}

// Sort sorts a slice of ids in canonical ascending order.
func Sort(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}
