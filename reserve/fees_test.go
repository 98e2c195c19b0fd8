package reserve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/jaxnet/reservecore/chaincfg"
)

func TestTransferFeeScalesWithDestinationSize(t *testing.T) {
	params := chaincfg.MainNetParams
	small := TransferFee(params, 0, KindPlainTransfer)
	large := TransferFee(params, int(params.DestinationByteDivisor)*3, KindPlainTransfer)
	assert.Greater(t, int64(large), int64(small))
}

func TestTransferFeeZeroForFeeOutput(t *testing.T) {
	params := chaincfg.MainNetParams
	assert.Equal(t, Amount(0), TransferFee(params, 100, KindFeeOutput))
}

func TestConversionFeeFloor(t *testing.T) {
	params := chaincfg.MainNetParams
	fee := ConversionFee(params, 1, false) // tiny amount, rate rounds to 0
	assert.GreaterOrEqual(t, int64(fee), params.MinSuccessFee)
}

func TestConversionFeeDoublesForReserveToReserve(t *testing.T) {
	params := chaincfg.MainNetParams
	amount := Amount(params.MinSuccessFee * 1000)
	direct := ConversionFee(params, amount, false)
	viaReserve := ConversionFee(params, amount, true)
	assert.Equal(t, direct*2, viaReserve)
}

func TestExportRewardIsHalfOfFee(t *testing.T) {
	assert.Equal(t, Amount(50), ExportReward(100))
}
