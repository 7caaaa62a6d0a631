package fetchers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/malusev998/money"
)

const (
	OpenExchangeRatesURL = "https://openexchangerates.org/api/latest.json"
	ExchangeRatesAPIURL  = "https://api.exchangeratesapi.io/latest"
	FreeConvFetchURL     = "https://free.currconv.com/api/v7/convert"
)

type (
	errorFreeConvResponse struct {
		Status int    `json:"status"`
		Error  string `json:"error"`
	}

	errorOpenExchangeRatesResponse struct {
		Error       bool   `json:"error"`
		Status      int    `json:"status"`
		Message     string `json:"message"`
		Description string `json:"description"`
	}
)

var (
	ErrUnAuthorized      = errors.New("unauthorized, API key is not provided")
	ErrNotEnoughRequests = errors.New("not enough requests per hour")
	ErrClient            = errors.New("client error")
	ErrServer            = errors.New("server error")
	ErrUnknown           = errors.New("unknown error")
	ErrAPILimitReached   = errors.New("API limit reached")
	ErrFetcherNotFound   = errors.New("fetcher is not found")
	ErrInvalidConfig     = errors.New("invalid fetcher configuration")
)

func fetchError(err error) error {
	if errors.Is(err, money.ErrFetch) {
		return err
	}

	return fmt.Errorf("%w: %w", money.ErrFetch, err)
}

func handleHTTPStatusCodeError(res *http.Response) error {
	switch {
	case res.StatusCode == http.StatusOK:
		return nil
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return ErrUnAuthorized
	case res.StatusCode == http.StatusTooManyRequests:
		return ErrAPILimitReached
	case res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError:
		return ErrClient
	case res.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnknown
	}
}

func newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "application/json")

	return req, nil
}

func joinCodes(codes []money.Code) string {
	var builder strings.Builder

	for _, c := range codes {
		builder.WriteString(string(c))
		builder.WriteRune(',')
	}

	return strings.TrimRight(builder.String(), ",")
}

func httpClient(client *http.Client) *http.Client {
	if client == nil {
		return http.DefaultClient
	}

	return client
}

func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}

	return now
}

func baseOrDefault(base money.Code) money.Code {
	if base == "" {
		return money.USD
	}

	return base
}
