package fetchers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/malusev998/money"
)

type loggingFetcher struct {
	logger   *zap.Logger
	provider money.Provider
	next     money.Fetcher
}

// NewLoggingFetcher logs every fetch made by next.
func NewLoggingFetcher(logger *zap.Logger, provider money.Provider, next money.Fetcher) money.Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return loggingFetcher{
		logger:   logger.Named("fetcher"),
		provider: provider,
		next:     next,
	}
}

func (l loggingFetcher) Fetch(ctx context.Context) (snapshot money.RateSnapshot, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{
			zap.Stringer("provider", l.provider),
			zap.Duration("took", time.Since(begin)),
		}

		if err != nil {
			l.logger.Warn("fetching rates failed", append(fields, zap.Error(err))...)
			return
		}

		l.logger.Info("fetched rates",
			append(fields,
				zap.Stringer("base", snapshot.Base),
				zap.Int("rates", snapshot.Len()),
				zap.Time("published_at", snapshot.PublishedAt),
			)...,
		)
	}(time.Now())

	return l.next.Fetch(ctx)
}
