package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/malusev998/money"
	"github.com/malusev998/money/metadata"
	"github.com/malusev998/money/services"
)

var errProviderDown = errors.New("provider is down")

type stubFetcher struct {
	calls    int64
	snapshot money.RateSnapshot
	err      error
}

func (f *stubFetcher) Fetch(context.Context) (money.RateSnapshot, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.snapshot, f.err
}

func newTestServer(t *testing.T, fetcher money.Fetcher) *Server {
	t.Helper()

	registry := money.NewRegistry(metadata.MustDefault())

	converter, err := services.NewConverter(services.ConverterConfig{
		Fetcher:  fetcher,
		Registry: registry,
		Provider: money.OpenExchangeRatesProvider,
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	return NewServer(Config{
		Converter: converter,
		Registry:  registry,
		Logger:    zaptest.NewLogger(t),
		Metrics:   prometheus.NewRegistry(),
	})
}

func usdRates(t *testing.T) *stubFetcher {
	t.Helper()

	snapshot, err := money.NewRateSnapshot(
		money.OpenExchangeRatesProvider,
		money.USD,
		map[money.Code]decimal.Decimal{
			money.EUR: decimal.RequireFromString("0.9"),
			money.GBP: decimal.RequireFromString("0.8"),
			money.JPY: decimal.RequireFromString("150"),
		},
		time.Now(),
		time.Date(2026, 10, 18, 11, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	return &stubFetcher{snapshot: snapshot}
}

func do(t *testing.T, handler http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	res := httptest.NewRecorder()

	handler.ServeHTTP(res, req)

	return res
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.Equal(t, "application/json", res.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), v))
}

func TestServer_Convert(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, usdRates(t))

		res := do(t, server, http.MethodPost, "/api/v1/convert", ConvertRequest{Amount: "100", From: "usd", To: "EUR"})
		asserts.Equal(http.StatusOK, res.Code)

		var body ConvertResponse
		decodeBody(t, res, &body)

		asserts.Equal("90", body.Amount)
		asserts.Equal("EUR", body.Currency)
		asserts.Equal("90.00", body.Rounded)
		asserts.Equal("€90.00 EUR", body.Formatted)
		asserts.Equal("0.9", body.Rate)
	})

	t.Run("CrossRate", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, usdRates(t))

		res := do(t, server, http.MethodPost, "/api/v1/convert", ConvertRequest{Amount: "10", From: "EUR", To: "JPY"})
		asserts.Equal(http.StatusOK, res.Code)

		var body ConvertResponse
		decodeBody(t, res, &body)

		asserts.Equal("JPY", body.Currency)
		asserts.Equal("1667", body.Rounded)
		asserts.Equal("¥1667 JPY", body.Formatted)
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, usdRates(t))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader("{"))
		res := httptest.NewRecorder()
		server.ServeHTTP(res, req)

		asserts.Equal(http.StatusBadRequest, res.Code)
	})

	t.Run("ValidationFails", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, usdRates(t))

		res := do(t, server, http.MethodPost, "/api/v1/convert", ConvertRequest{Amount: "ten", From: "USD", To: "EUR"})
		asserts.Equal(http.StatusBadRequest, res.Code)

		res = do(t, server, http.MethodPost, "/api/v1/convert", ConvertRequest{Amount: "10", From: "USDX", To: "EUR"})
		asserts.Equal(http.StatusBadRequest, res.Code)
	})

	t.Run("UnsupportedCurrency", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, usdRates(t))

		res := do(t, server, http.MethodPost, "/api/v1/convert", ConvertRequest{Amount: "10", From: "USD", To: "XAU"})
		asserts.Equal(http.StatusUnprocessableEntity, res.Code)

		var body errorResponse
		decodeBody(t, res, &body)
		asserts.Contains(body.Error, money.ErrUnsupportedCurrency.Error())
	})

	t.Run("UnknownCode", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, usdRates(t))

		res := do(t, server, http.MethodPost, "/api/v1/convert", ConvertRequest{Amount: "10", From: "USD", To: "BTC"})
		asserts.Equal(http.StatusUnprocessableEntity, res.Code)
	})

	t.Run("RatesUnavailable", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, &stubFetcher{err: errProviderDown})

		res := do(t, server, http.MethodPost, "/api/v1/convert", ConvertRequest{Amount: "10", From: "USD", To: "EUR"})
		asserts.Equal(http.StatusServiceUnavailable, res.Code)
	})

	t.Run("SameCurrencySkipsFetch", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		fetcher := &stubFetcher{err: errProviderDown}
		server := newTestServer(t, fetcher)

		res := do(t, server, http.MethodPost, "/api/v1/convert", ConvertRequest{Amount: "12.5", From: "USD", To: "USD"})
		asserts.Equal(http.StatusOK, res.Code)

		var body ConvertResponse
		decodeBody(t, res, &body)
		asserts.Equal("12.5", body.Amount)
		asserts.Equal("1", body.Rate)
		asserts.EqualValues(0, atomic.LoadInt64(&fetcher.calls))
	})
}

func TestServer_Distribute(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, usdRates(t))

		res := do(t, server, http.MethodPost, "/api/v1/distribute", DistributeRequest{Amount: "10", Currency: "USD", Parts: 3})
		asserts.Equal(http.StatusOK, res.Code)

		var body DistributeResponse
		decodeBody(t, res, &body)

		asserts.Len(body.Parts, 3)
		asserts.Equal("3.33", body.Parts[0].Amount)
		asserts.Equal("3.34", body.Parts[1].Amount)
		asserts.Equal("3.33", body.Parts[2].Amount)
		asserts.Equal("$3.34 USD", body.Parts[1].Formatted)
	})

	t.Run("InvalidParts", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, usdRates(t))

		for _, parts := range []int{0, -1, 1001} {
			res := do(t, server, http.MethodPost, "/api/v1/distribute", DistributeRequest{Amount: "10", Currency: "USD", Parts: parts})
			asserts.Equal(http.StatusBadRequest, res.Code, fmt.Sprintf("parts=%d", parts))
		}
	})
}

func TestServer_Rates(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		fetcher := usdRates(t)
		server := newTestServer(t, fetcher)

		res := do(t, server, http.MethodGet, "/api/v1/rates", nil)
		asserts.Equal(http.StatusOK, res.Code)

		var body RatesResponse
		decodeBody(t, res, &body)

		asserts.Equal(string(money.OpenExchangeRatesProvider), body.Provider)
		asserts.Equal("USD", body.Base)
		asserts.Equal("fresh", body.State)
		asserts.Equal("0.9", body.Rates["EUR"])
		asserts.Equal("1", body.Rates["USD"])
		asserts.NotNil(body.PublishedAt)

		res = do(t, server, http.MethodGet, "/api/v1/rates", nil)
		asserts.Equal(http.StatusOK, res.Code)
		asserts.EqualValues(1, atomic.LoadInt64(&fetcher.calls))
	})

	t.Run("Unavailable", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, &stubFetcher{err: errProviderDown})

		res := do(t, server, http.MethodGet, "/api/v1/rates", nil)
		asserts.Equal(http.StatusServiceUnavailable, res.Code)
	})
}

func TestServer_Currency(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, usdRates(t))

		res := do(t, server, http.MethodGet, "/api/v1/currencies/jpy", nil)
		asserts.Equal(http.StatusOK, res.Code)

		var body CurrencyResponse
		decodeBody(t, res, &body)

		asserts.Equal("JPY", body.Code)
		asserts.EqualValues(392, body.Numeric)
		asserts.Equal(0, body.DecimalPlaces)
		asserts.Equal("¥", body.Symbol)
		asserts.Equal("Japanese Yen", body.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		server := newTestServer(t, usdRates(t))

		res := do(t, server, http.MethodGet, "/api/v1/currencies/XAU", nil)
		asserts.Equal(http.StatusUnprocessableEntity, res.Code)

		res = do(t, server, http.MethodGet, "/api/v1/currencies/ZZZ", nil)
		asserts.Equal(http.StatusUnprocessableEntity, res.Code)
	})
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	server := newTestServer(t, usdRates(t))

	res := do(t, server, http.MethodGet, "/api/v1/currencies/USD", nil)
	asserts.Equal(http.StatusOK, res.Code)

	res = do(t, server, http.MethodGet, "/metrics", nil)
	asserts.Equal(http.StatusOK, res.Code)
	asserts.Contains(res.Body.String(), "http_request_duration_seconds")
}

func TestServer_Recovery(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	server := newTestServer(t, usdRates(t))

	server.router.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	res := do(t, server, http.MethodGet, "/panic", nil)
	asserts.Equal(http.StatusInternalServerError, res.Code)

	var body errorResponse
	decodeBody(t, res, &body)
	asserts.Equal("internal server error", body.Error)
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	data := []struct {
		err    error
		status int
	}{
		{err: money.ErrCurrencyMismatch, status: http.StatusBadRequest},
		{err: fmt.Errorf("wrapped: %w", money.ErrInvalidArgument), status: http.StatusBadRequest},
		{err: money.ErrDivisionByZero, status: http.StatusBadRequest},
		{err: money.ErrUnsupportedCurrency, status: http.StatusUnprocessableEntity},
		{err: money.ErrUnknownCode, status: http.StatusUnprocessableEntity},
		{err: money.ErrUnknownCurrency, status: http.StatusUnprocessableEntity},
		{err: money.ErrUnsupportedPrecision, status: http.StatusUnprocessableEntity},
		{err: fmt.Errorf("%w: %w", money.ErrRateUnavailable, errProviderDown), status: http.StatusServiceUnavailable},
		{err: errProviderDown, status: http.StatusInternalServerError},
	}

	for _, item := range data {
		require.Equal(t, item.status, StatusFor(item.err), item.err.Error())
	}
}
