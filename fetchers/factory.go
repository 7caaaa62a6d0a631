package fetchers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/malusev998/money"
)

type (
	BaseConfig struct {
		URL    string
		Base   money.Code
		Client *http.Client
		Now    func() time.Time
	}
	OpenExchangeRatesConfig struct {
		BaseConfig
		AppID   string
		Symbols []money.Code
	}
	ExchangeRatesAPIConfig struct {
		BaseConfig
		AccessKey string
		Symbols   []money.Code
	}
	FreeConvServiceConfig struct {
		BaseConfig
		APIKey             string
		Currencies         []money.Code
		MaxPerHourRequests int
		MaxPerRequest      int
	}
)

func NewFetcher(provider money.Provider, config interface{}) (money.Fetcher, error) {
	switch provider {
	case money.OpenExchangeRatesProvider:
		c, ok := config.(OpenExchangeRatesConfig)
		if !ok {
			return nil, fmt.Errorf("%w: expected OpenExchangeRatesConfig, got %T", ErrInvalidConfig, config)
		}

		return OpenExchangeRatesFetcher{
			URL:     c.URL,
			AppID:   c.AppID,
			Base:    c.Base,
			Symbols: c.Symbols,
			Client:  c.Client,
			Now:     c.Now,
		}, nil
	case money.ExchangeRatesAPIProvider:
		c, ok := config.(ExchangeRatesAPIConfig)
		if !ok {
			return nil, fmt.Errorf("%w: expected ExchangeRatesAPIConfig, got %T", ErrInvalidConfig, config)
		}

		return ExchangeRatesAPIFetcher{
			URL:       c.URL,
			AccessKey: c.AccessKey,
			Base:      c.Base,
			Symbols:   c.Symbols,
			Client:    c.Client,
			Now:       c.Now,
		}, nil
	case money.FreeConvProvider:
		c, ok := config.(FreeConvServiceConfig)
		if !ok {
			return nil, fmt.Errorf("%w: expected FreeConvServiceConfig, got %T", ErrInvalidConfig, config)
		}

		return FreeCurrConvFetcher{
			URL:           c.URL,
			APIKey:        c.APIKey,
			Base:          c.Base,
			Currencies:    c.Currencies,
			MaxPerHour:    c.MaxPerHourRequests,
			MaxPerRequest: c.MaxPerRequest,
			Client:        c.Client,
			Now:           c.Now,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrFetcherNotFound, string(provider))
}
