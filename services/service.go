package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/malusev998/money"
)

// Service fetches a rate snapshot and saves it into every storage concurrently.
type Service struct {
	Fetcher money.Fetcher
	Storage []money.Storage
	Logger  *zap.Logger
}

func saveToStorage(
	ctx context.Context,
	wg *sync.WaitGroup,
	snapshot money.RateSnapshot,
	data map[string]money.SnapshotWithID,
	storage money.Storage,
	errorChannel chan<- error,
	mutex sync.Locker,
) {
	defer wg.Done()

	saved, err := storage.Save(ctx, snapshot)
	if err != nil {
		errorChannel <- err
		return
	}

	mutex.Lock()
	data[storage.GetStorageProviderName()] = saved
	mutex.Unlock()
}

func (s Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}

	return s.Logger
}

// Save returns the fetched snapshot and what each storage saved, keyed by the
// storage provider name. The first storage error is returned.
func (s Service) Save(ctx context.Context) (money.RateSnapshot, map[string]money.SnapshotWithID, error) {
	var wg sync.WaitGroup
	mutex := &sync.Mutex{}

	snapshot, err := s.Fetcher.Fetch(ctx)
	if err != nil {
		return money.RateSnapshot{}, nil, err
	}

	errorChannel := make(chan error, len(s.Storage))
	data := make(map[string]money.SnapshotWithID, len(s.Storage))

	defer func(begin time.Time) {
		s.logger().Debug("saved rate snapshot",
			zap.Stringer("provider", snapshot.Provider),
			zap.Int("storages", len(s.Storage)),
			zap.Duration("took", time.Since(begin)),
		)
	}(time.Now())

	wg.Add(len(s.Storage))
	for _, storage := range s.Storage {
		go saveToStorage(ctx, &wg, snapshot, data, storage, errorChannel, mutex)
	}

	wg.Wait()
	close(errorChannel)

	if err, more := <-errorChannel; more {
		return money.RateSnapshot{}, nil, err
	}

	return snapshot, data, nil
}
