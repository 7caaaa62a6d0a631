package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/malusev998/money"
)

type (
	MockFetcher struct {
		mock.Mock
	}

	MockStorage struct {
		mock.Mock
		name string
	}

	// gatedFetcher blocks every fetch until release is closed.
	gatedFetcher struct {
		calls    int64
		release  chan struct{}
		snapshot money.RateSnapshot
	}

	fakeClock struct {
		mu  sync.Mutex
		now time.Time
	}
)

func (m *MockFetcher) Fetch(ctx context.Context) (money.RateSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(money.RateSnapshot), args.Error(1)
}

func (m *MockStorage) Save(ctx context.Context, snapshot money.RateSnapshot) (money.SnapshotWithID, error) {
	args := m.Called(ctx, snapshot)
	return args.Get(0).(money.SnapshotWithID), args.Error(1)
}

func (m *MockStorage) Latest(ctx context.Context, provider money.Provider) (money.SnapshotWithID, error) {
	args := m.Called(ctx, provider)
	return args.Get(0).(money.SnapshotWithID), args.Error(1)
}

func (m *MockStorage) GetStorageProviderName() string {
	if m.name == "" {
		return "MockStorage"
	}

	return m.name
}

func (m *MockStorage) Migrate() error {
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) Drop() error {
	return nil
}

func (g *gatedFetcher) Fetch(ctx context.Context) (money.RateSnapshot, error) {
	atomic.AddInt64(&g.calls, 1)

	select {
	case <-g.release:
		return g.snapshot, nil
	case <-ctx.Done():
		return money.RateSnapshot{}, ctx.Err()
	}
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
