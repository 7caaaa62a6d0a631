package money

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultFreshFor is how long a snapshot stays fresh after it was fetched.
const DefaultFreshFor = time.Hour

type (
	// RateSnapshot holds the rates of one provider relative to its base currency:
	// one unit of Base buys Rate(X) units of X. Once built it is never modified.
	RateSnapshot struct {
		Base        Code
		FetchedAt   time.Time
		PublishedAt time.Time
		Provider    Provider

		rates map[Code]decimal.Decimal
	}

	snapshotWire struct {
		Timestamp int64                      `json:"timestamp"`
		Base      string                     `json:"base"`
		Rates     map[string]decimal.Decimal `json:"rates"`
	}
)

// NewRateSnapshot copies rates into a new snapshot. Every rate must be positive.
// The base currency is added with rate 1 when missing.
func NewRateSnapshot(
	provider Provider,
	base Code,
	rates map[Code]decimal.Decimal,
	fetchedAt time.Time,
	publishedAt time.Time,
) (RateSnapshot, error) {
	if !base.IsValid() {
		return RateSnapshot{}, fmt.Errorf("%w: base %q", ErrUnknownCode, string(base))
	}

	copied := make(map[Code]decimal.Decimal, len(rates)+1)

	for code, rate := range rates {
		if !rate.IsPositive() {
			return RateSnapshot{}, fmt.Errorf("%w: rate for %s must be positive, got %s", ErrInvalidArgument, code, rate)
		}

		copied[code] = rate
	}

	if _, ok := copied[base]; !ok {
		copied[base] = decimal.NewFromInt(1)
	}

	return RateSnapshot{
		Base:        base,
		FetchedAt:   fetchedAt,
		PublishedAt: publishedAt,
		Provider:    provider,
		rates:       copied,
	}, nil
}

// DecodeSnapshot reads the `{"timestamp", "base", "rates"}` document published by
// rate providers. Codes missing from the Code enumeration and non-positive
// rates are skipped.
func DecodeSnapshot(r io.Reader, provider Provider, fetchedAt time.Time) (RateSnapshot, error) {
	var wire snapshotWire

	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return RateSnapshot{}, fmt.Errorf("%w: decoding rates: %v", ErrFetch, err)
	}

	base, err := ParseCode(wire.Base)
	if err != nil {
		return RateSnapshot{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	rates := make(map[Code]decimal.Decimal, len(wire.Rates))

	for raw, rate := range wire.Rates {
		code, err := ParseCode(raw)
		if err != nil || !rate.IsPositive() {
			continue
		}

		rates[code] = rate
	}

	var publishedAt time.Time
	if wire.Timestamp > 0 {
		publishedAt = time.Unix(wire.Timestamp, 0).UTC()
	}

	snapshot, err := NewRateSnapshot(provider, base, rates, fetchedAt, publishedAt)
	if err != nil {
		return RateSnapshot{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	return snapshot, nil
}

// Rate returns the units of code bought by one unit of the base currency.
func (s RateSnapshot) Rate(code Code) (decimal.Decimal, bool) {
	rate, ok := s.rates[code]
	return rate, ok
}

func (s RateSnapshot) Has(code Code) bool {
	_, ok := s.rates[code]
	return ok
}

// Rates returns a copy of the rate table.
func (s RateSnapshot) Rates() map[Code]decimal.Decimal {
	rates := make(map[Code]decimal.Decimal, len(s.rates))

	for code, rate := range s.rates {
		rates[code] = rate
	}

	return rates
}

// Codes lists the currencies with a rate, sorted.
func (s RateSnapshot) Codes() []Code {
	codes := make([]Code, 0, len(s.rates))

	for code := range s.rates {
		codes = append(codes, code)
	}

	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return codes
}

func (s RateSnapshot) Len() int {
	return len(s.rates)
}

func (s RateSnapshot) IsZero() bool {
	return s.rates == nil
}

func (s RateSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// IsStale reports whether the snapshot is older than window. A snapshot exactly
// window old is still fresh.
func (s RateSnapshot) IsStale(now time.Time, window time.Duration) bool {
	return s.Age(now) > window
}
