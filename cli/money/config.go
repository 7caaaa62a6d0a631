package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/malusev998/money"
	"github.com/malusev998/money/storage"
)

const envPrefix = "MONEY"

type (
	FetcherConfig struct {
		URL           string   `mapstructure:"url" validate:"omitempty,url"`
		AppID         string   `mapstructure:"app_id"`
		AccessKey     string   `mapstructure:"access_key"`
		APIKey        string   `mapstructure:"api_key"`
		MaxPerHour    int      `mapstructure:"max_per_hour" validate:"gte=0"`
		MaxPerRequest int      `mapstructure:"max_per_request" validate:"gte=0"`
		Currencies    []string `mapstructure:"currencies" validate:"dive,len=3,alpha"`
	}

	FetchersConfig struct {
		OpenExchangeRates FetcherConfig `mapstructure:"openexchangerates"`
		ExchangeRatesAPI  FetcherConfig `mapstructure:"exchangeratesapi"`
		FreeCurrConv      FetcherConfig `mapstructure:"freecurrconv"`
	}

	MySQLConfig struct {
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Addr     string `mapstructure:"addr"`
		DB       string `mapstructure:"db"`
		Table    string `mapstructure:"table"`
	}

	PostgresConfig struct {
		DSN   string `mapstructure:"dsn"`
		Table string `mapstructure:"table"`
	}

	MongoConfig struct {
		URI        string `mapstructure:"uri"`
		DB         string `mapstructure:"db"`
		Collection string `mapstructure:"collection"`
	}

	DatabasesConfig struct {
		MySQL    MySQLConfig    `mapstructure:"mysql"`
		Postgres PostgresConfig `mapstructure:"postgres"`
		Mongo    MongoConfig    `mapstructure:"mongo"`
	}

	Config struct {
		Provider  string          `mapstructure:"provider" validate:"required"`
		Base      string          `mapstructure:"base" validate:"required,len=3,alpha"`
		FreshFor  time.Duration   `mapstructure:"fresh_for" validate:"gte=0"`
		Migrate   bool            `mapstructure:"migrate"`
		Storage   []string        `mapstructure:"storage" validate:"dive,oneof=mysql postgres postgresql mongodb mongo"`
		Fetchers  FetchersConfig  `mapstructure:"fetchers"`
		Databases DatabasesConfig `mapstructure:"databases"`
		Metadata  struct {
			File string `mapstructure:"file"`
		} `mapstructure:"metadata"`
		Server struct {
			Addr string `mapstructure:"addr" validate:"required"`
		} `mapstructure:"server"`
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", string(money.OpenExchangeRatesProvider))
	v.SetDefault("base", string(money.USD))
	v.SetDefault("fresh_for", money.DefaultFreshFor)
	v.SetDefault("migrate", false)
	v.SetDefault("storage", []string{})
	v.SetDefault("metadata.file", "")
	v.SetDefault("server.addr", ":8080")

	for _, fetcher := range []string{"openexchangerates", "exchangeratesapi", "freecurrconv"} {
		v.SetDefault("fetchers."+fetcher+".url", "")
		v.SetDefault("fetchers."+fetcher+".app_id", "")
		v.SetDefault("fetchers."+fetcher+".access_key", "")
		v.SetDefault("fetchers."+fetcher+".api_key", "")
		v.SetDefault("fetchers."+fetcher+".currencies", []string{})
	}

	v.SetDefault("fetchers.freecurrconv.max_per_hour", 100)
	v.SetDefault("fetchers.freecurrconv.max_per_request", 2)

	v.SetDefault("databases.mysql.user", "")
	v.SetDefault("databases.mysql.password", "")
	v.SetDefault("databases.mysql.addr", "localhost:3306")
	v.SetDefault("databases.mysql.db", storage.DefaultDatabase)
	v.SetDefault("databases.mysql.table", storage.DefaultTableName)
	v.SetDefault("databases.postgres.dsn", "")
	v.SetDefault("databases.postgres.table", storage.DefaultTableName)
	v.SetDefault("databases.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("databases.mongo.db", storage.DefaultDatabase)
	v.SetDefault("databases.mongo.collection", storage.DefaultCollection)
}

// loadConfig reads configFile, a .env file in the working directory and the
// MONEY_ prefixed environment, in increasing priority. Missing files are ignored.
func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error while loading .env file: %w", err)
	}

	setDefaults(v)

	v.SetConfigFile(configFile)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error while reading in the config file: %w", err)
		}
	}

	config := &Config{}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error while decoding config: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (c MySQLConfig) DSN() string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = c.User
	mysqlDriverConfig.Passwd = c.Password
	mysqlDriverConfig.Addr = c.Addr
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = c.DB
	mysqlDriverConfig.ParseTime = true

	return mysqlDriverConfig.FormatDSN()
}
