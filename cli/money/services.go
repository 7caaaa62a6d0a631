package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/malusev998/money"
	"github.com/malusev998/money/cli/cmd"
	"github.com/malusev998/money/fetchers"
	"github.com/malusev998/money/metadata"
	"github.com/malusev998/money/services"
	"github.com/malusev998/money/storage"
)

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func fetcherConfig(provider money.Provider, config *Config) (interface{}, error) {
	base, err := money.ParseCode(config.Base)
	if err != nil {
		return nil, err
	}

	switch provider {
	case money.OpenExchangeRatesProvider:
		c := config.Fetchers.OpenExchangeRates
		symbols, err := money.ConvertToCodesFromStringSlice(c.Currencies)
		if err != nil {
			return nil, err
		}

		return fetchers.OpenExchangeRatesConfig{
			BaseConfig: fetchers.BaseConfig{URL: c.URL, Base: base},
			AppID:      c.AppID,
			Symbols:    symbols,
		}, nil
	case money.ExchangeRatesAPIProvider:
		c := config.Fetchers.ExchangeRatesAPI
		symbols, err := money.ConvertToCodesFromStringSlice(c.Currencies)
		if err != nil {
			return nil, err
		}

		return fetchers.ExchangeRatesAPIConfig{
			BaseConfig: fetchers.BaseConfig{URL: c.URL, Base: base},
			AccessKey:  c.AccessKey,
			Symbols:    symbols,
		}, nil
	case money.FreeConvProvider:
		c := config.Fetchers.FreeCurrConv
		currencies, err := money.ConvertToCodesFromStringSlice(c.Currencies)
		if err != nil {
			return nil, err
		}

		return fetchers.FreeConvServiceConfig{
			BaseConfig:         fetchers.BaseConfig{URL: c.URL, Base: base},
			APIKey:             c.APIKey,
			Currencies:         currencies,
			MaxPerHourRequests: c.MaxPerHour,
			MaxPerRequest:      c.MaxPerRequest,
		}, nil
	}

	return nil, fmt.Errorf("fetcher %s does not exist", provider)
}

func createFetcher(config *Config, logger *zap.Logger) (money.Provider, money.Fetcher, error) {
	provider, err := money.ConvertToProviderFromString(config.Provider)
	if err != nil {
		return money.EmptyProvider, nil, err
	}

	c, err := fetcherConfig(provider, config)
	if err != nil {
		return money.EmptyProvider, nil, err
	}

	fetcher, err := fetchers.NewFetcher(provider, c)
	if err != nil {
		return money.EmptyProvider, nil, err
	}

	return provider, fetchers.NewLoggingFetcher(logger, provider, fetcher), nil
}

func storageConfig(ctx context.Context, provider storage.Provider, config *Config) interface{} {
	base := storage.BaseConfig{
		Ctx:     ctx,
		Migrate: config.Migrate,
	}

	switch provider {
	case storage.MySQL:
		return storage.MySQLConfig{
			BaseConfig:       base,
			ConnectionString: config.Databases.MySQL.DSN(),
			TableName:        config.Databases.MySQL.Table,
		}
	case storage.Postgres:
		return storage.PostgresConfig{
			BaseConfig:       base,
			ConnectionString: config.Databases.Postgres.DSN,
			TableName:        config.Databases.Postgres.Table,
		}
	case storage.MongoDB:
		return storage.MongoDBConfig{
			BaseConfig:       base,
			ConnectionString: config.Databases.Mongo.URI,
			Database:         config.Databases.Mongo.DB,
			Collection:       config.Databases.Mongo.Collection,
		}
	}

	return nil
}

func createStorages(ctx context.Context, config *Config) ([]money.Storage, error) {
	providers, err := storage.ConvertToProvidersFromStringSlice(config.Storage)
	if err != nil {
		return nil, err
	}

	storages := make([]money.Storage, 0, len(providers))

	for _, provider := range providers {
		st, err := storage.NewStorage(provider, storageConfig(ctx, provider, config))
		if err != nil {
			closeStorages(storages)
			return nil, fmt.Errorf("storage %s: %w", provider, err)
		}

		storages = append(storages, st)
	}

	return storages, nil
}

func closeStorages(storages []money.Storage) error {
	var errs []error

	for _, st := range storages {
		if err := st.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", st.GetStorageProviderName(), err))
		}
	}

	return errors.Join(errs...)
}

func newMetrics() (*prometheus.Registry, *services.Metrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry, services.NewMetrics(registry)
}

func buildDependencies(ctx context.Context, config *Config, logger *zap.Logger) (*cmd.Dependencies, error) {
	resolver, err := metadata.NewResolver(config.Metadata.File)
	if err != nil {
		return nil, err
	}

	registry := money.NewRegistry(resolver)

	provider, fetcher, err := createFetcher(config, logger)
	if err != nil {
		return nil, err
	}

	storages, err := createStorages(ctx, config)
	if err != nil {
		return nil, err
	}

	promRegistry, metrics := newMetrics()

	converterConfig := services.ConverterConfig{
		Fetcher:  fetcher,
		Registry: registry,
		Provider: provider,
		FreshFor: config.FreshFor,
		Logger:   logger,
		Metrics:  metrics,
	}

	if len(storages) > 0 {
		converterConfig.Storage = storages[0]
	}

	converter, err := services.NewConverter(converterConfig)
	if err != nil {
		closeStorages(storages)
		return nil, err
	}

	if err := converter.Warm(ctx); err != nil {
		if errors.Is(err, money.ErrSnapshotNotFound) {
			logger.Debug("no saved rate snapshot to warm up from")
		} else {
			logger.Warn("loading saved rate snapshot failed", zap.Error(err))
		}
	}

	deps := &cmd.Dependencies{
		Converter: converter,
		Registry:  registry,
		Metrics:   promRegistry,
		Logger:    logger,
		Addr:      config.Server.Addr,
		Close: func() error {
			err := closeStorages(storages)
			_ = logger.Sync()

			return err
		},
	}

	if len(storages) > 0 {
		deps.Service = services.Service{
			Fetcher: fetcher,
			Storage: storages,
			Logger:  logger,
		}
	}

	return deps, nil
}

func setup(ctx context.Context, configFile string, debug bool) (*cmd.Dependencies, error) {
	logger, err := newLogger(debug)
	if err != nil {
		return nil, err
	}

	config, err := loadConfig(viper.New(), configFile)
	if err != nil {
		return nil, err
	}

	logger.Debug("config loaded",
		zap.String("file", configFile),
		zap.String("provider", config.Provider),
		zap.Strings("storage", config.Storage),
	)

	return buildDependencies(ctx, config, logger)
}
