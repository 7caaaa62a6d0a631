package fetchers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/malusev998/money"
)

// FreeCurrConvFetcher queries free.currconv.com for BASE_XXX pairs. The API caps
// the number of pairs per request and requests per hour, so currencies are
// fetched in concurrent batches of MaxPerRequest.
type FreeCurrConvFetcher struct {
	URL           string
	APIKey        string
	Base          money.Code
	Currencies    []money.Code
	MaxPerHour    int
	MaxPerRequest int
	Client        *http.Client
	Now           func() time.Time
}

func (f FreeCurrConvFetcher) pairs() []string {
	base := baseOrDefault(f.Base)
	pairs := make([]string, 0, len(f.Currencies))

	for _, c := range f.Currencies {
		if c == base {
			continue
		}

		pairs = append(pairs, string(base)+"_"+string(c))
	}

	return pairs
}

func (f FreeCurrConvFetcher) fetchCurrencies(
	ctx context.Context,
	client *http.Client,
	wg *sync.WaitGroup,
	pairs []string,
	channel chan<- map[string]decimal.Decimal,
	errorChannel chan<- error,
) {
	defer wg.Done()

	url := f.URL

	if url == "" {
		url = FreeConvFetchURL
	}

	req, err := newRequest(ctx, url)
	if err != nil {
		errorChannel <- err
		return
	}

	q := req.URL.Query()
	q.Add("q", strings.Join(pairs, ","))
	q.Add("compact", "ultra")
	q.Add("apiKey", f.APIKey)

	req.URL.RawQuery = q.Encode()

	res, err := client.Do(req)
	if err != nil {
		errorChannel <- err
		return
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		errorChannel <- err
		return
	}

	if res.StatusCode == http.StatusOK {
		data := map[string]decimal.Decimal{}

		if err := json.Unmarshal(body, &data); err != nil {
			errorChannel <- err
			return
		}

		channel <- data

		return
	}

	if res.StatusCode == http.StatusBadRequest {
		errorRes := errorFreeConvResponse{}
		_ = json.Unmarshal(body, &errorRes)

		if strings.Contains(errorRes.Error, "required") {
			errorChannel <- ErrUnAuthorized
			return
		}

		if strings.Contains(errorRes.Error, "API limit reached") {
			errorChannel <- ErrAPILimitReached
			return
		}
	}

	errorChannel <- handleHTTPStatusCodeError(res)
}

func (f FreeCurrConvFetcher) Fetch(ctx context.Context) (money.RateSnapshot, error) {
	var wg sync.WaitGroup

	if f.APIKey == "" {
		return money.RateSnapshot{}, fetchError(ErrUnAuthorized)
	}

	if f.MaxPerRequest <= 0 {
		return money.RateSnapshot{}, fetchError(ErrInvalidConfig)
	}

	pairs := f.pairs()
	numberOfRequests := (len(pairs) + f.MaxPerRequest - 1) / f.MaxPerRequest

	if f.MaxPerHour > 0 && numberOfRequests > f.MaxPerHour {
		return money.RateSnapshot{}, fetchError(ErrNotEnoughRequests)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	channel := make(chan map[string]decimal.Decimal, numberOfRequests)
	errorChannel := make(chan error, numberOfRequests)
	client := httpClient(f.Client)

	for idx := 0; idx < len(pairs); idx += f.MaxPerRequest {
		end := idx + f.MaxPerRequest
		if end > len(pairs) {
			end = len(pairs)
		}

		wg.Add(1)

		go f.fetchCurrencies(ctx, client, &wg, pairs[idx:end], channel, errorChannel)
	}

	wg.Wait()
	close(channel)
	close(errorChannel)

	if err, more := <-errorChannel; more {
		return money.RateSnapshot{}, fetchError(err)
	}

	return f.toSnapshot(channel)
}

func (f FreeCurrConvFetcher) toSnapshot(channel <-chan map[string]decimal.Decimal) (money.RateSnapshot, error) {
	base := baseOrDefault(f.Base)
	rates := make(map[money.Code]decimal.Decimal, len(f.Currencies))

	for data := range channel {
		for pair, rate := range data {
			isoCurrencies := strings.Split(pair, "_")
			if len(isoCurrencies) != 2 || isoCurrencies[0] != string(base) {
				continue
			}

			code, err := money.ParseCode(isoCurrencies[1])
			if err != nil || !rate.IsPositive() {
				continue
			}

			rates[code] = rate
		}
	}

	snapshot, err := money.NewRateSnapshot(money.FreeConvProvider, base, rates, clock(f.Now)(), time.Time{})
	if err != nil {
		return money.RateSnapshot{}, fetchError(err)
	}

	return snapshot, nil
}
