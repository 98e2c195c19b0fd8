// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import "gitlab.com/jaxnet/reservecore/chaincfg"

// TransferFee computes the base transfer fee for a destination of destLen
// bytes (spec.md §4.3 "Transfer fee"). It is zero for fee outputs and for
// non-pre-convert conversions.
func TransferFee(params chaincfg.ReserveParams, destLen int, kind Kind) Amount {
	if kind == KindFeeOutput {
		return 0
	}
	if kind == KindConvert || kind == KindReserveToReserve {
		return 0
	}
	base := 2 * params.DefaultPerStepFee
	scaled := base * (1 + int64(destLen)/params.DestinationByteDivisor)
	return Amount(scaled)
}

// ConversionFee computes amount*SUCCESS_FEE/SATOSHIDEN, clamped up to
// MinSuccessFee, doubled for a reserve-to-reserve conversion (spec.md
// §4.3 "Conversion fee"; doubling grounded on reserves.cpp:58-71, see
// SPEC_FULL.md §4 item 1).
func ConversionFee(params chaincfg.ReserveParams, amount Amount, reserveToReserve bool) Amount {
	fee := Amount(int64(amount) * params.SuccessFee / chaincfg.SATOSHIDEN)
	if fee < Amount(params.MinSuccessFee) {
		fee = Amount(params.MinSuccessFee)
	}
	if reserveToReserve {
		fee *= 2
	}
	return fee
}

// AdditionalConversionFee back-solves the fee so that the fee-inclusive
// amount equals the fee computed on the grossed-up amount, iterating
// twice to absorb the minimum-fee clamp (spec.md §4.3 "Additional-
// conversion fee").
func AdditionalConversionFee(params chaincfg.ReserveParams, grossAmount Amount, reserveToReserve bool) Amount {
	fee := ConversionFee(params, grossAmount, reserveToReserve)
	netAmount := grossAmount - fee
	fee = ConversionFee(params, netAmount, reserveToReserve)
	return fee
}

// ExportFee returns the export fee for a batch given its total native fee
// value and the number of transfers in the batch: the total native fee
// unchanged, or zero for a batch with no transfers. ExportReward then
// splits out the exporter's share.
func ExportFee(totalNativeFee Amount, numTransfers int) Amount {
	if numTransfers <= 0 {
		return 0
	}
	return totalNativeFee
}

// ExportReward returns the exporter's share of fee, half the export fee
// per the export-reward split of spec.md §4.3.
func ExportReward(fee Amount) Amount {
	return fee / 2
}
