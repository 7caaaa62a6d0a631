package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/malusev998/money"
)

type (
	Provider   string
	BaseConfig struct {
		Ctx     context.Context
		Migrate bool
	}
	MySQLConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
		IDGenerator      IDGenerator
	}
	PostgresConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
		IDGenerator      IDGenerator
	}
	MongoDBConfig struct {
		BaseConfig
		ConnectionString string
		Database         string
		Collection       string
		IDGenerator      IDGenerator
	}

	// IDGenerator returns the 16 bytes of a snapshot ID.
	IDGenerator interface {
		Generate() []byte
	}

	uuidGenerator struct{}
)

const (
	MySQL    Provider = "mysql"
	Postgres Provider = "postgres"
	MongoDB  Provider = "mongodb"

	DefaultTableName  = "rate_snapshots"
	DefaultDatabase   = "money"
	DefaultCollection = "rate_snapshots"
)

var (
	ErrStorageNotFound           = errors.New("storage is not found")
	ErrInvalidConfig             = errors.New("invalid storage configuration")
	ErrNotEnoughBytesInGenerator = errors.New("id generator must return 16 bytes")
)

func (uuidGenerator) Generate() []byte {
	id := uuid.New()
	return id[:]
}

func newID(generator IDGenerator) (uuid.UUID, error) {
	if generator == nil {
		generator = uuidGenerator{}
	}

	id, err := uuid.FromBytes(generator.Generate())
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrNotEnoughBytesInGenerator, err)
	}

	return id, nil
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}

	return ctx
}

func ConvertToProvidersFromStringSlice(strings []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strings))

	for _, str := range strings {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql":
		return Postgres, nil
	case "mongodb", "mongo":
		return MongoDB, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

func NewStorage(provider Provider, config interface{}) (money.Storage, error) {
	switch provider {
	case MySQL:
		c, ok := config.(MySQLConfig)
		if !ok {
			return nil, fmt.Errorf("%w: expected MySQLConfig, got %T", ErrInvalidConfig, config)
		}

		return NewMySQLStorage(c)
	case Postgres:
		c, ok := config.(PostgresConfig)
		if !ok {
			return nil, fmt.Errorf("%w: expected PostgresConfig, got %T", ErrInvalidConfig, config)
		}

		return NewPostgresStorage(c)
	case MongoDB:
		c, ok := config.(MongoDBConfig)
		if !ok {
			return nil, fmt.Errorf("%w: expected MongoDBConfig, got %T", ErrInvalidConfig, config)
		}

		return NewMongoStorage(c)
	}

	return nil, ErrStorageNotFound
}
