package money_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/malusev998/money"
)

func sum(parts []money.Money) decimal.Decimal {
	total := decimal.Zero

	for _, part := range parts {
		total = total.Add(part.Amount())
	}

	return total
}

func TestMoney_Distribute(t *testing.T) {
	t.Parallel()

	t.Run("TenDollarsThreeWays", func(t *testing.T) {
		asserts := require.New(t)
		m := money.New(dec("10.00"), usd())

		parts, err := m.Split(3)
		asserts.NoError(err)
		asserts.Len(parts, 3)
		asserts.True(parts[0].Amount().Equal(dec("3.33")))
		asserts.True(parts[1].Amount().Equal(dec("3.34")))
		asserts.True(parts[2].Amount().Equal(dec("3.33")))
		asserts.True(sum(parts).Equal(m.Amount()))

		for _, part := range parts {
			asserts.Equal(money.USD, part.Code())
		}
	})

	t.Run("Lazy", func(t *testing.T) {
		asserts := require.New(t)

		d, err := money.New(dec("1.00"), usd()).Distribute(4)
		asserts.NoError(err)
		asserts.Equal(4, d.Remaining())

		first, ok := d.Next()
		asserts.True(ok)
		asserts.True(first.Amount().Equal(dec("0.25")))
		asserts.Equal(3, d.Remaining())

		rest := d.Collect()
		asserts.Len(rest, 3)
		asserts.Equal(0, d.Remaining())

		_, ok = d.Next()
		asserts.False(ok)
		asserts.Empty(d.Collect())
	})

	t.Run("InvalidCount", func(t *testing.T) {
		asserts := require.New(t)

		for _, n := range []int{0, -1} {
			d, err := money.FromInt(10, usd()).Distribute(n)
			asserts.Nil(d)
			asserts.True(errors.Is(err, money.ErrInvalidArgument))

			parts, err := money.FromInt(10, usd()).Split(n)
			asserts.Nil(parts)
			asserts.True(errors.Is(err, money.ErrInvalidArgument))
		}
	})

	t.Run("SumsExactly", func(t *testing.T) {
		asserts := require.New(t)
		amounts := []money.Money{
			money.New(dec("10.00"), usd()),
			money.New(dec("0.01"), usd()),
			money.New(dec("-7.77"), eur()),
			money.New(dec("1001"), money.MinimalCurrency(money.JPY)),
			money.New(dec("12.345"), money.MinimalCurrency(money.KWD)),
			money.New(dec("3.1416"), money.MinimalCurrency(money.CLF)),
			money.New(dec("99.9"), money.MinimalCurrency(money.MGA)),
			money.New(dec("1.23456789"), usd()),
		}

		for _, m := range amounts {
			for n := 1; n <= 100; n++ {
				parts, err := m.Split(n)
				asserts.NoError(err)
				asserts.Len(parts, n)
				asserts.True(sum(parts).Equal(m.Amount()), "%s split %d ways", m, n)
			}
		}
	})
}
