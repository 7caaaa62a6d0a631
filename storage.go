package money

import "context"

type (
	SnapshotWithID struct {
		RateSnapshot
		ID interface{}
	}

	// Storage keeps the latest snapshot of every provider. Saving a snapshot
	// replaces the previous one of the same provider.
	Storage interface {
		Save(ctx context.Context, snapshot RateSnapshot) (SnapshotWithID, error)
		Latest(ctx context.Context, provider Provider) (SnapshotWithID, error)
		Migrate() error
		Drop() error
		Close() error
		GetStorageProviderName() string
	}
)
