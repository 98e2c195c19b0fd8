// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"github.com/rs/zerolog"

	"gitlab.com/jaxnet/reservecore/chaincfg"
	"gitlab.com/jaxnet/reservecore/types/chainhash"
	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

// CurrencyDefinition is the minimal shape of a currency the import
// processor needs to look up: its own reserve basket (if fractional) and
// any gateway-leg routing data. Full identity/definition semantics are an
// external collaborator (spec.md §1); this engine only needs what
// GetCachedCurrency returns.
type CurrencyDefinition struct {
	ID    currencyid.ID
	State CurrencyState

	IsGateway       bool
	GatewaySystemID currencyid.ID

	PreAllocations      []PrelaunchAllocation
	CarveOutPercent     int64 // fraction of SATOSHIDEN diverted at pre-conversion
	CarveOutRecipients  []currencyid.ID
	InitialConversion   []Amount // fixed prelaunch price per reserve
	SystemID            currencyid.ID
}

// PrelaunchAllocation is one fixed-amount recipient of the pre-allocation
// outputs emitted on LaunchClear (spec.md §4.4 "Pre-pass"; supplemented by
// SPEC_FULL.md §4.4).
type PrelaunchAllocation struct {
	Destination currencyid.ID
	Amount      Amount
}

// Context is the narrow set of ambient state the import processor reads
// (spec.md §5 "Concurrency & resource model"; Design Notes §9 "Global
// state" — injected, never read from a package global).
type Context interface {
	// GetCachedCurrency returns the cached definition for id, or
	// ok=false if unknown.
	GetCachedCurrency(id currencyid.ID) (CurrencyDefinition, bool)

	// GetTransaction returns the transaction hash's containing block
	// hash, or ok=false if not found. No function in this package calls
	// it; transaction-graph verification itself is an external
	// collaborator.
	GetTransaction(hash chainhash.Hash) (blockHash chainhash.Hash, ok bool)

	// Params returns the chain parameters this call should use.
	Params() chaincfg.ReserveParams

	// Logger returns the structured logger calls should use, following
	// the corelog convention of a per-subsystem zerolog.Logger.
	Logger() zerolog.Logger
}
