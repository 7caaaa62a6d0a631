package storage

import (
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/malusev998/money"
)

var mysqlDialect = dialect{
	name: string(MySQL),
	quote: func(s string) string {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	},
	createTable: `CREATE TABLE IF NOT EXISTS %s (
	snapshot_id CHAR(36) NOT NULL,
	provider VARCHAR(32) NOT NULL,
	base CHAR(3) NOT NULL,
	currency CHAR(3) NOT NULL,
	rate DECIMAL(36, 18) NOT NULL,
	fetched_at DATETIME(6) NOT NULL,
	published_at DATETIME(6) NULL,
	PRIMARY KEY (provider, currency)
);`,
}

// NewMySQLStorage connects to MySQL. Time columns are always parsed into time.Time.
func NewMySQLStorage(config MySQLConfig) (money.Storage, error) {
	driverConfig, err := mysql.ParseDSN(config.ConnectionString)
	if err != nil {
		return nil, err
	}

	driverConfig.ParseTime = true

	db, err := sqlx.Open("mysql", driverConfig.FormatDSN())
	if err != nil {
		return nil, err
	}

	return NewSQLStorage(config.Ctx, db, config.IDGenerator, config.TableName, config.Migrate)
}
