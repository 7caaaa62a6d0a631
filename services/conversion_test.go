package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/malusev998/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func usdSnapshot(t *testing.T, fetchedAt time.Time) money.RateSnapshot {
	t.Helper()

	snapshot, err := money.NewRateSnapshot(
		money.OpenExchangeRatesProvider,
		money.USD,
		map[money.Code]decimal.Decimal{
			money.USD: dec("1"),
			money.EUR: dec("0.9"),
			money.GBP: dec("0.8"),
			money.JPY: dec("150"),
		},
		fetchedAt,
		time.Time{},
	)
	require.NoError(t, err)

	return snapshot
}

func TestConvertAmount(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	snapshot := usdSnapshot(t, time.Now())

	amount, kind, err := ConvertAmount(snapshot, dec("100"), money.USD, money.EUR)
	asserts.NoError(err)
	asserts.Equal(KindDirect, kind)
	asserts.True(amount.Equal(dec("90")))

	amount, kind, err = ConvertAmount(snapshot, dec("100"), money.EUR, money.GBP)
	asserts.NoError(err)
	asserts.Equal(KindIndirect, kind)
	asserts.True(amount.Equal(dec("100").Div(dec("0.9")).Mul(dec("0.8"))))

	amount, kind, err = ConvertAmount(snapshot, dec("300"), money.JPY, money.USD)
	asserts.NoError(err)
	asserts.Equal(KindIndirect, kind)
	asserts.True(amount.Equal(dec("2")))

	amount, kind, err = ConvertAmount(snapshot, dec("12.5"), money.XAU, money.XAU)
	asserts.NoError(err)
	asserts.Equal(KindIdentity, kind)
	asserts.True(amount.Equal(dec("12.5")))

	_, _, err = ConvertAmount(snapshot, dec("1"), money.USD, money.XAU)
	asserts.True(errors.Is(err, money.ErrUnsupportedCurrency))

	_, _, err = ConvertAmount(snapshot, dec("1"), money.XAU, money.EUR)
	asserts.True(errors.Is(err, money.ErrUnsupportedCurrency))
}

func TestCrossRate(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	snapshot := usdSnapshot(t, time.Now())

	rate, err := CrossRate(snapshot, money.JPY, money.EUR)
	asserts.NoError(err)
	asserts.True(rate.Equal(dec("1").Div(dec("150")).Mul(dec("0.9"))))

	_, err = CrossRate(snapshot, money.CHF, money.EUR)
	asserts.True(errors.Is(err, money.ErrUnsupportedCurrency))
}
