package storage

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/malusev998/money"
)

var postgresDialect = dialect{
	name:  string(Postgres),
	quote: pq.QuoteIdentifier,
	createTable: `CREATE TABLE IF NOT EXISTS %s (
	snapshot_id UUID NOT NULL,
	provider VARCHAR(32) NOT NULL,
	base CHAR(3) NOT NULL,
	currency CHAR(3) NOT NULL,
	rate NUMERIC(36, 18) NOT NULL,
	fetched_at TIMESTAMPTZ NOT NULL,
	published_at TIMESTAMPTZ NULL,
	PRIMARY KEY (provider, currency)
);`,
}

func NewPostgresStorage(config PostgresConfig) (money.Storage, error) {
	db, err := sqlx.Open("postgres", config.ConnectionString)
	if err != nil {
		return nil, err
	}

	return NewSQLStorage(config.Ctx, db, config.IDGenerator, config.TableName, config.Migrate)
}
