package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/malusev998/money"
)

// State of the snapshot held by a Converter.
type State int

const (
	StateEmpty State = iota
	StateFresh
	StateStale
)

const (
	refreshKey = "refresh"

	DefaultFetchTimeout = 30 * time.Second
)

var ErrNoFetcher = errors.New("converter requires a fetcher")

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

type (
	ConverterConfig struct {
		Fetcher  money.Fetcher
		Registry *money.Registry
		// Storage is optional. When set, refreshed snapshots are saved into it and
		// Warm loads the latest one.
		Storage  money.Storage
		Provider money.Provider
		FreshFor time.Duration
		// FetchTimeout bounds a single refresh. A refresh outlives the caller
		// that started it, so it is not cancelled with that caller's context.
		FetchTimeout time.Duration
		Now          func() time.Time
		Logger   *zap.Logger
		Metrics  *Metrics
	}

	// Converter converts money between currencies using the latest rate snapshot
	// it holds. The snapshot is refreshed on demand once it is older than
	// FreshFor; concurrent refreshes share one fetch. When a refresh fails the
	// previous snapshot keeps being used.
	Converter struct {
		fetcher  money.Fetcher
		registry *money.Registry
		storage  money.Storage
		provider money.Provider
		freshFor time.Duration
		timeout  time.Duration
		now      func() time.Time
		logger   *zap.Logger
		metrics  *Metrics

		mu       sync.RWMutex
		snapshot money.RateSnapshot
		group    singleflight.Group
	}
)

func NewConverter(cfg ConverterConfig) (*Converter, error) {
	if cfg.Fetcher == nil {
		return nil, ErrNoFetcher
	}

	if cfg.FreshFor < 0 {
		return nil, fmt.Errorf("%w: negative freshness window %s", money.ErrInvalidArgument, cfg.FreshFor)
	}

	if cfg.FreshFor == 0 {
		cfg.FreshFor = money.DefaultFreshFor
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.Registry == nil {
		cfg.Registry = money.NewRegistry(nil)
	}

	return &Converter{
		fetcher:  cfg.Fetcher,
		registry: cfg.Registry,
		storage:  cfg.Storage,
		provider: cfg.Provider,
		freshFor: cfg.FreshFor,
		timeout:  cfg.FetchTimeout,
		now:      cfg.Now,
		logger:   cfg.Logger.Named("converter"),
		metrics:  cfg.Metrics,
	}, nil
}

func (c *Converter) current() (money.RateSnapshot, State) {
	c.mu.RLock()
	snapshot := c.snapshot
	c.mu.RUnlock()

	switch {
	case snapshot.IsZero():
		return snapshot, StateEmpty
	case snapshot.IsStale(c.now(), c.freshFor):
		return snapshot, StateStale
	default:
		return snapshot, StateFresh
	}
}

func (c *Converter) replace(snapshot money.RateSnapshot) {
	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()

	c.metrics.snapshot(snapshot)
}

func (c *Converter) State() State {
	_, state := c.current()
	return state
}

// Snapshot returns the snapshot currently held, if any.
func (c *Converter) Snapshot() (money.RateSnapshot, bool) {
	snapshot, state := c.current()
	return snapshot, state != StateEmpty
}

// Refresh fetches a new snapshot and replaces the current one. On failure the
// current snapshot is kept.
func (c *Converter) Refresh(ctx context.Context) error {
	_, err := c.refresh(ctx, true)
	return err
}

// refresh fetches a new snapshot unless force is false and a concurrent caller
// has already made the current one fresh. Callers share one fetch; each of them
// stops waiting when its own context is done.
func (c *Converter) refresh(ctx context.Context, force bool) (money.RateSnapshot, error) {
	results := c.group.DoChan(refreshKey, func() (interface{}, error) {
		if current, state := c.current(); !force && state == StateFresh {
			return current, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		snapshot, err := c.fetcher.Fetch(fetchCtx)
		c.metrics.refresh(c.provider, err)

		if err != nil {
			return nil, err
		}

		if snapshot.Provider == money.EmptyProvider {
			snapshot.Provider = c.provider
		}

		c.replace(snapshot)
		c.persist(fetchCtx, snapshot)

		return snapshot, nil
	})

	select {
	case <-ctx.Done():
		return money.RateSnapshot{}, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return money.RateSnapshot{}, result.Err
		}

		if result.Shared {
			c.logger.Debug("shared rate refresh with a concurrent caller")
		}

		return result.Val.(money.RateSnapshot), nil
	}
}

func (c *Converter) persist(ctx context.Context, snapshot money.RateSnapshot) {
	if c.storage == nil {
		return
	}

	if _, err := c.storage.Save(ctx, snapshot); err != nil {
		c.logger.Warn("saving rate snapshot failed",
			zap.String("storage", c.storage.GetStorageProviderName()),
			zap.Error(err),
		)
	}
}

// Warm loads the latest snapshot saved in storage when the converter holds none.
func (c *Converter) Warm(ctx context.Context) error {
	if c.storage == nil {
		return nil
	}

	if _, state := c.current(); state != StateEmpty {
		return nil
	}

	saved, err := c.storage.Latest(ctx, c.provider)
	if err != nil {
		return err
	}

	c.replace(saved.RateSnapshot)

	_, state := c.current()
	c.logger.Info("loaded rate snapshot from storage",
		zap.String("storage", c.storage.GetStorageProviderName()),
		zap.Stringer("base", saved.Base),
		zap.Time("fetched_at", saved.FetchedAt),
		zap.Stringer("state", state),
	)

	return nil
}

// ensure returns a usable snapshot, refreshing it when empty or stale.
func (c *Converter) ensure(ctx context.Context) (money.RateSnapshot, error) {
	snapshot, state := c.current()
	if state == StateFresh {
		return snapshot, nil
	}

	refreshed, err := c.refresh(ctx, false)
	if err == nil {
		return refreshed, nil
	}

	if state == StateEmpty {
		return money.RateSnapshot{}, fmt.Errorf("%w: %w", money.ErrRateUnavailable, err)
	}

	c.logger.Warn("refreshing rates failed, using stale snapshot",
		zap.Time("fetched_at", snapshot.FetchedAt),
		zap.Duration("age", snapshot.Age(c.now())),
		zap.Error(err),
	)

	return snapshot, nil
}

// Convert converts m into the target currency. Converting into the same
// currency returns m without consulting any rates.
func (c *Converter) Convert(ctx context.Context, m money.Money, target money.Code) (converted money.Money, err error) {
	var kind Kind

	defer func() {
		c.metrics.conversion(kind, err)
	}()

	if !target.IsValid() {
		return money.Money{}, fmt.Errorf("%w: %q", money.ErrUnknownCode, string(target))
	}

	if m.Code() == target {
		kind = KindIdentity
		return m, nil
	}

	snapshot, err := c.ensure(ctx)
	if err != nil {
		return money.Money{}, err
	}

	amount, kind, err := ConvertAmount(snapshot, m.Amount(), m.Code(), target)
	if err != nil {
		return money.Money{}, err
	}

	return money.New(amount, c.registry.LookupOrMinimal(target)), nil
}

// Rate returns the effective rate from one currency into another.
func (c *Converter) Rate(ctx context.Context, from, to money.Code) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	snapshot, err := c.ensure(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return CrossRate(snapshot, from, to)
}
