package money

import (
	"context"

	"github.com/shopspring/decimal"
)

type (
	// Fetcher obtains a fresh rate snapshot from a rate provider. Failures are
	// reported as errors wrapping ErrFetch.
	Fetcher interface {
		Fetch(ctx context.Context) (RateSnapshot, error)
	}

	Converter interface {
		Convert(ctx context.Context, money Money, target Code) (Money, error)
		Rate(ctx context.Context, from, to Code) (decimal.Decimal, error)
	}

	// SnapshotService fetches a snapshot and saves it into every configured storage.
	SnapshotService interface {
		Save(ctx context.Context) (RateSnapshot, map[string]SnapshotWithID, error)
	}
)
