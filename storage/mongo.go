package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/malusev998/money"
)

type (
	mongoStorage struct {
		ctx         context.Context
		client      *mongo.Client
		collection  *mongo.Collection
		idGenerator IDGenerator
	}

	// mongoSnapshot is keyed by provider so every provider has one document.
	mongoSnapshot struct {
		Provider    string            `bson:"_id"`
		SnapshotID  string            `bson:"snapshotId"`
		Base        string            `bson:"base"`
		Rates       map[string]string `bson:"rates"`
		FetchedAt   time.Time         `bson:"fetchedAt"`
		PublishedAt *time.Time        `bson:"publishedAt,omitempty"`
	}
)

func NewMongoStorage(config MongoDBConfig) (money.Storage, error) {
	ctx := ctxOrBackground(config.Ctx)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.ConnectionString))
	if err != nil {
		return nil, err
	}

	database := config.Database
	if database == "" {
		database = DefaultDatabase
	}

	collection := config.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	storage := mongoStorage{
		ctx:         ctx,
		client:      client,
		collection:  client.Database(database).Collection(collection),
		idGenerator: config.IDGenerator,
	}

	if config.Migrate {
		if err := storage.Migrate(); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	return storage, nil
}

func (m mongoStorage) Migrate() error {
	_, err := m.collection.Indexes().CreateOne(m.ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "snapshotId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return err
}

func (m mongoStorage) Drop() error {
	return m.collection.Drop(m.ctx)
}

func (m mongoStorage) Close() error {
	return m.client.Disconnect(m.ctx)
}

func (m mongoStorage) GetStorageProviderName() string {
	return string(MongoDB)
}

func (m mongoStorage) Save(ctx context.Context, snapshot money.RateSnapshot) (money.SnapshotWithID, error) {
	id, err := newID(m.idGenerator)
	if err != nil {
		return money.SnapshotWithID{}, err
	}

	document := mongoSnapshot{
		Provider:   snapshot.Provider.String(),
		SnapshotID: id.String(),
		Base:       snapshot.Base.String(),
		Rates:      make(map[string]string, snapshot.Len()),
		FetchedAt:  snapshot.FetchedAt.UTC(),
	}

	if !snapshot.PublishedAt.IsZero() {
		publishedAt := snapshot.PublishedAt.UTC()
		document.PublishedAt = &publishedAt
	}

	for code, rate := range snapshot.Rates() {
		document.Rates[code.String()] = rate.String()
	}

	_, err = m.collection.ReplaceOne(
		ctx,
		bson.M{"_id": document.Provider},
		document,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return money.SnapshotWithID{}, err
	}

	return money.SnapshotWithID{RateSnapshot: snapshot, ID: id}, nil
}

func (m mongoStorage) Latest(ctx context.Context, provider money.Provider) (money.SnapshotWithID, error) {
	var document mongoSnapshot

	err := m.collection.FindOne(ctx, bson.M{"_id": provider.String()}).Decode(&document)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return money.SnapshotWithID{}, fmt.Errorf("%w: %s", money.ErrSnapshotNotFound, provider)
	}

	if err != nil {
		return money.SnapshotWithID{}, err
	}

	return document.toSnapshot(provider)
}

func (d mongoSnapshot) toSnapshot(provider money.Provider) (money.SnapshotWithID, error) {
	base, err := money.ParseCode(d.Base)
	if err != nil {
		return money.SnapshotWithID{}, err
	}

	rates := make(map[money.Code]decimal.Decimal, len(d.Rates))

	for raw, value := range d.Rates {
		code, err := money.ParseCode(raw)
		if err != nil {
			continue
		}

		rate, err := decimal.NewFromString(value)
		if err != nil {
			return money.SnapshotWithID{}, fmt.Errorf("rate of %s: %w", code, err)
		}

		rates[code] = rate
	}

	var publishedAt time.Time
	if d.PublishedAt != nil {
		publishedAt = *d.PublishedAt
	}

	snapshot, err := money.NewRateSnapshot(provider, base, rates, d.FetchedAt, publishedAt)
	if err != nil {
		return money.SnapshotWithID{}, err
	}

	id, err := uuid.Parse(d.SnapshotID)
	if err != nil {
		return money.SnapshotWithID{}, fmt.Errorf("snapshot id %q: %w", d.SnapshotID, err)
	}

	return money.SnapshotWithID{RateSnapshot: snapshot, ID: id}, nil
}
