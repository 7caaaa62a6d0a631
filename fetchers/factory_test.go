package fetchers_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malusev998/money"
	"github.com/malusev998/money/fetchers"
)

func TestNewFetcher(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	fetcher, err := fetchers.NewFetcher(money.OpenExchangeRatesProvider, fetchers.OpenExchangeRatesConfig{
		BaseConfig: fetchers.BaseConfig{URL: "http://localhost"},
		AppID:      "app",
	})
	asserts.NoError(err)
	asserts.IsType(fetchers.OpenExchangeRatesFetcher{}, fetcher)
	asserts.Equal("app", fetcher.(fetchers.OpenExchangeRatesFetcher).AppID)

	fetcher, err = fetchers.NewFetcher(money.ExchangeRatesAPIProvider, fetchers.ExchangeRatesAPIConfig{
		BaseConfig: fetchers.BaseConfig{Base: money.EUR},
	})
	asserts.NoError(err)
	asserts.Equal(money.EUR, fetcher.(fetchers.ExchangeRatesAPIFetcher).Base)

	fetcher, err = fetchers.NewFetcher(money.FreeConvProvider, fetchers.FreeConvServiceConfig{
		APIKey:             "key",
		MaxPerHourRequests: 100,
		MaxPerRequest:      2,
	})
	asserts.NoError(err)
	asserts.Equal(2, fetcher.(fetchers.FreeCurrConvFetcher).MaxPerRequest)
	asserts.Equal(100, fetcher.(fetchers.FreeCurrConvFetcher).MaxPerHour)

	_, err = fetchers.NewFetcher(money.FreeConvProvider, fetchers.ExchangeRatesAPIConfig{})
	asserts.True(errors.Is(err, fetchers.ErrInvalidConfig))

	_, err = fetchers.NewFetcher(money.EmptyProvider, nil)
	asserts.True(errors.Is(err, fetchers.ErrFetcherNotFound))
}
