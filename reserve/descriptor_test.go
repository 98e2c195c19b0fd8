package reserve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

func TestDescriptorAccumulatesInOuts(t *testing.T) {
	importCurrency := currencyid.FromName("frac")
	d := NewReserveTransactionDescriptor(importCurrency)

	r0 := currencyid.FromName("r0")
	d.AddReserveIn(r0, 100)
	d.AddReserveOut(r0, 40)
	d.AddConvertedOut(r0, 40, 10)

	assert.Equal(t, Amount(100), d.InOuts[r0].ReserveIn)
	assert.Equal(t, Amount(40), d.InOuts[r0].ReserveOut)
	assert.Equal(t, Amount(40), d.InOuts[r0].ReserveOutConverted)
	assert.Equal(t, Amount(10), d.InOuts[r0].NativeOutConverted)
}

func TestDescriptorSplitLiquidityFees(t *testing.T) {
	d := NewReserveTransactionDescriptor(currencyid.FromName("frac"))
	native := currencyid.Native
	d.AddTransferFee(native, 101)

	d.SplitLiquidityFees()

	assert.Equal(t, Amount(50), d.LiquidityFees[native])
	assert.Equal(t, Amount(51), d.TransferFees[native])
}

func TestGeneratedImportCurrency(t *testing.T) {
	d := NewReserveTransactionDescriptor(currencyid.FromName("frac"))
	d.TotalMinted = 100
	d.TotalPreConvert = 50
	d.TotalEmitted = 10
	d.TotalBurned = 30

	assert.Equal(t, Amount(130), d.GeneratedImportCurrency())
}

func TestAllFeesAsReserve(t *testing.T) {
	state := singleReserveState()
	d := NewReserveTransactionDescriptor(currencyid.FromName("frac"))
	d.TransferFees[state.Currencies[0]] = 1e6

	total := d.AllFeesAsReserve(&state)
	assert.Greater(t, int64(total), int64(0))
}
