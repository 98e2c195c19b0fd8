package reserve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/jaxnet/reservecore/chaincfg"
	"gitlab.com/jaxnet/reservecore/types/currencyid"
)

func balancedState() CurrencyState {
	ids := []currencyid.ID{
		currencyid.FromName("r0"),
		currencyid.FromName("r1"),
		currencyid.FromName("r2"),
		currencyid.FromName("r3"),
	}
	return CurrencyState{
		Currencies: ids,
		Weights:    []int64{chaincfg.SATOSHIDEN / 4, chaincfg.SATOSHIDEN / 4, chaincfg.SATOSHIDEN / 4, chaincfg.SATOSHIDEN / 4},
		Reserves:   []Amount{1e9, 1e9, 1e9, 1e9},
		Supply:     4e9,
		Flags:      FlagFractional | FlagLaunchConfirmed,
	}
}

func TestCurrencyStateValidate(t *testing.T) {
	s := balancedState()
	require.NoError(t, s.Validate(chaincfg.MainNetParams))
}

func TestCurrencyStateValidateRejectsOverweight(t *testing.T) {
	s := balancedState()
	s.Weights[0] = chaincfg.SATOSHIDEN
	err := s.Validate(chaincfg.MainNetParams)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrInvalidParameters))
}

func TestCurrencyStateValidateRejectsDuplicate(t *testing.T) {
	s := balancedState()
	s.Currencies[1] = s.Currencies[0]
	err := s.Validate(chaincfg.MainNetParams)
	require.Error(t, err)
}

func TestPricesInReserve(t *testing.T) {
	s := balancedState()
	prices := s.PricesInReserve()
	for _, p := range prices {
		assert.Equal(t, Amount(1e9*chaincfg.SATOSHIDEN/4e9), p)
	}
}

func TestRevertReservesAndSupply(t *testing.T) {
	cb := NewCoinbaseCurrencyState(balancedState())
	cb.ReserveIn[0] = 100
	cb.ReserveOut[0] = 40
	cb.NativeIn[0] = 500
	cb.NativeOut = 300

	before := cb.Reserves[0]
	beforeSupply := cb.Supply

	cb.RevertReservesAndSupply()

	assert.Equal(t, before+40-100, cb.Reserves[0])
	assert.Equal(t, beforeSupply+500-300, cb.Supply)
}

func TestClearFlowsZeroesVectors(t *testing.T) {
	cb := NewCoinbaseCurrencyState(balancedState())
	cb.ReserveIn[0] = 5
	cb.NativeOut = 9
	cb.ClearFlows()

	assert.Equal(t, Amount(0), cb.ReserveIn[0])
	assert.Equal(t, Amount(0), cb.NativeOut)
}
