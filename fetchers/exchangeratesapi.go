package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/malusev998/money"
)

const exchangeRatesAPIDateFormat = "2006-01-02"

type (
	ExchangeRatesAPIFetcher struct {
		URL       string
		AccessKey string
		Base      money.Code
		Symbols   []money.Code
		Client    *http.Client
		Now       func() time.Time
	}

	exchangeRateAPIResponse struct {
		Base  string                     `json:"base,omitempty"`
		Rates map[string]decimal.Decimal `json:"rates,omitempty"`
		Date  string                     `json:"date,omitempty"`
	}
)

func (e ExchangeRatesAPIFetcher) Fetch(ctx context.Context) (money.RateSnapshot, error) {
	url := e.URL
	if url == "" {
		url = ExchangeRatesAPIURL
	}

	req, err := newRequest(ctx, url)
	if err != nil {
		return money.RateSnapshot{}, fetchError(err)
	}

	q := req.URL.Query()
	q.Add("base", string(baseOrDefault(e.Base)))

	if len(e.Symbols) > 0 {
		q.Add("symbols", joinCodes(e.Symbols))
	}

	if e.AccessKey != "" {
		q.Add("access_key", e.AccessKey)
	}

	req.URL.RawQuery = q.Encode()

	res, err := httpClient(e.Client).Do(req)
	if err != nil {
		return money.RateSnapshot{}, fetchError(err)
	}

	defer res.Body.Close()

	if err := handleHTTPStatusCodeError(res); err != nil {
		return money.RateSnapshot{}, fetchError(err)
	}

	var data exchangeRateAPIResponse

	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return money.RateSnapshot{}, fetchError(err)
	}

	return e.toSnapshot(data)
}

func (e ExchangeRatesAPIFetcher) toSnapshot(data exchangeRateAPIResponse) (money.RateSnapshot, error) {
	base, err := money.ParseCode(data.Base)
	if err != nil {
		return money.RateSnapshot{}, fetchError(err)
	}

	rates := make(map[money.Code]decimal.Decimal, len(data.Rates))

	for raw, rate := range data.Rates {
		code, err := money.ParseCode(raw)
		if err != nil || !rate.IsPositive() {
			continue
		}

		rates[code] = rate
	}

	var publishedAt time.Time

	if data.Date != "" {
		publishedAt, err = time.Parse(exchangeRatesAPIDateFormat, data.Date)
		if err != nil {
			return money.RateSnapshot{}, fetchError(fmt.Errorf("parsing date %q: %w", data.Date, err))
		}
	}

	snapshot, err := money.NewRateSnapshot(money.ExchangeRatesAPIProvider, base, rates, clock(e.Now)(), publishedAt)
	if err != nil {
		return money.RateSnapshot{}, fetchError(err)
	}

	return snapshot, nil
}
