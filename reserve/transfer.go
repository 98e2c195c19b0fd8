// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"gitlab.com/jaxnet/reservecore/types/chainhash"
	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

// TransferFlags is the bitset carried on a ReserveTransfer (spec.md §3
// "ReserveTransfer").
type TransferFlags uint32

const (
	TransferConvert TransferFlags = 1 << iota
	TransferPreConvert
	TransferReserveToReserve
	TransferMint
	TransferBurn
	TransferBurnChangeWeight
	TransferImportToSource
	TransferFeeOutput
	TransferRefund
	TransferDoubleSend
)

func (f TransferFlags) Has(flag TransferFlags) bool { return f&flag != 0 }

// Kind classifies a ReserveTransfer from its flags, computed once at the
// boundary so the import processor's dispatch (§4.4) is a plain switch
// instead of repeated bit tests (Design Notes §9 "Polymorphism").
type Kind int

const (
	KindPlainTransfer Kind = iota
	KindConvert
	KindPreConvert
	KindReserveToReserve
	KindMint
	KindBurn
	KindFeeOutput
	KindRefund
)

// Destination names where a transfer's output goes: either a plain
// address or a nested next-leg transfer continuing into another system
// (spec.md §3 "destination (an address or a nested next-leg transfer)").
type Destination struct {
	Address  []byte // opaque script/address payload; decoding is out of scope
	NextLeg  *ReserveTransfer
	GatewayID currencyid.ID
	HasGateway bool
}

// ReserveTransfer is a single transfer directive inside an import batch
// (spec.md §3 "ReserveTransfer").
type ReserveTransfer struct {
	SourceCurrency currencyid.ID
	Amount         Amount

	DestCurrency currencyid.ID
	Destination  Destination

	FeeCurrency currencyid.ID
	FeeAmount   Amount

	Flags           TransferFlags
	SecondReserveID currencyid.ID // valid when Flags.Has(TransferReserveToReserve)
}

// Kind classifies t per Design Notes §9 "Polymorphism". Precedence
// mirrors the dispatch order in spec.md §4.4: burn and mint are checked
// before convert/pre-convert since a transfer can't be both.
func (t ReserveTransfer) Kind() Kind {
	switch {
	case t.Flags.Has(TransferFeeOutput):
		return KindFeeOutput
	case t.Flags.Has(TransferRefund):
		return KindRefund
	case t.Flags.Has(TransferBurn):
		return KindBurn
	case t.Flags.Has(TransferMint):
		return KindMint
	case t.Flags.Has(TransferPreConvert):
		return KindPreConvert
	case t.Flags.Has(TransferReserveToReserve):
		return KindReserveToReserve
	case t.Flags.Has(TransferConvert):
		return KindConvert
	default:
		return KindPlainTransfer
	}
}

// IsReserveToReserve reports whether t carries the reserve-to-reserve
// flag, used by the fee calculator to double the conversion fee
// (SPEC_FULL.md §4 item 1).
func (t ReserveTransfer) IsReserveToReserve() bool {
	return t.Flags.Has(TransferReserveToReserve)
}

// CrossChainExport pairs with a CrossChainImport to delimit an ordered
// batch of reserve transfers crossing a system boundary (spec.md §3).
type CrossChainExport struct {
	SourceSystemID      currencyid.ID
	DestSystemID        currencyid.ID
	DestCurrencyID      currencyid.ID
	NumTransfers        int
	TotalAmounts        ValueMap
	TotalFees           ValueMap
	HashReserveTransfers chainhash.Hash
}

// CrossChainImport is the destination-side counterpart of a
// CrossChainExport, carrying the same integrity hash so an importer can
// verify the batch it received matches what was exported.
type CrossChainImport struct {
	SourceSystemID currencyid.ID
	ImportCurrency currencyid.ID
	Export         CrossChainExport
}

// HashTransfers computes the running hash over the canonical serialized
// encoding of transfers, in batch order (spec.md §6 "the hash field ...
// is the running hash of these canonical encodings in batch order").
func HashTransfers(transfers []ReserveTransfer) (chainhash.Hash, error) {
	var buf []byte
	for _, t := range transfers {
		encoded, err := EncodeReserveTransfer(t)
		if err != nil {
			return chainhash.Hash{}, err
		}
		buf = append(buf, encoded...)
	}
	return chainhash.HashH(buf), nil
}

// VerifyTransfers reports whether transfers hash to want, the integrity
// check an importer runs before trusting a batch (spec.md §6).
func VerifyTransfers(transfers []ReserveTransfer, want chainhash.Hash) (bool, error) {
	got, err := HashTransfers(transfers)
	if err != nil {
		return false, err
	}
	return got.IsEqual(&want), nil
}
