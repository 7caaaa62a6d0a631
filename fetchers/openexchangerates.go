package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/malusev998/money"
)

// OpenExchangeRatesFetcher reads the latest rates from openexchangerates.org.
// Changing the base is a paid feature of the API, so Base is only sent when set.
type OpenExchangeRatesFetcher struct {
	URL     string
	AppID   string
	Base    money.Code
	Symbols []money.Code
	Client  *http.Client
	Now     func() time.Time
}

func (o OpenExchangeRatesFetcher) Fetch(ctx context.Context) (money.RateSnapshot, error) {
	if o.AppID == "" {
		return money.RateSnapshot{}, fetchError(ErrUnAuthorized)
	}

	url := o.URL
	if url == "" {
		url = OpenExchangeRatesURL
	}

	req, err := newRequest(ctx, url)
	if err != nil {
		return money.RateSnapshot{}, fetchError(err)
	}

	q := req.URL.Query()
	q.Add("app_id", o.AppID)

	if o.Base != "" {
		q.Add("base", string(o.Base))
	}

	if len(o.Symbols) > 0 {
		q.Add("symbols", joinCodes(o.Symbols))
	}

	req.URL.RawQuery = q.Encode()

	res, err := httpClient(o.Client).Do(req)
	if err != nil {
		return money.RateSnapshot{}, fetchError(err)
	}

	defer res.Body.Close()

	if err := handleHTTPStatusCodeError(res); err != nil {
		return money.RateSnapshot{}, fetchError(o.describe(res, err))
	}

	snapshot, err := money.DecodeSnapshot(res.Body, money.OpenExchangeRatesProvider, clock(o.Now)())
	if err != nil {
		return money.RateSnapshot{}, fetchError(err)
	}

	return snapshot, nil
}

func (o OpenExchangeRatesFetcher) describe(res *http.Response, err error) error {
	body, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return err
	}

	var errorRes errorOpenExchangeRatesResponse
	if json.Unmarshal(body, &errorRes) != nil || errorRes.Message == "" {
		return err
	}

	return fmt.Errorf("%w: %s: %s", err, errorRes.Message, errorRes.Description)
}
