package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/malusev998/money"
)

type (
	dialect struct {
		name        string
		quote       func(string) string
		createTable string
	}

	sqlStorage struct {
		ctx         context.Context
		db          *sqlx.DB
		dialect     dialect
		tableName   string
		idGenerator IDGenerator
	}

	rateRow struct {
		SnapshotID  string          `db:"snapshot_id"`
		Base        string          `db:"base"`
		Currency    string          `db:"currency"`
		Rate        decimal.Decimal `db:"rate"`
		FetchedAt   time.Time       `db:"fetched_at"`
		PublishedAt sql.NullTime    `db:"published_at"`
	}
)

func dialectFor(driverName string) dialect {
	switch driverName {
	case "postgres":
		return postgresDialect
	case "mysql":
		return mysqlDialect
	}

	return dialect{
		name:        driverName,
		quote:       func(s string) string { return s },
		createTable: mysqlDialect.createTable,
	}
}

// NewSQLStorage stores snapshots in db, one row per currency. The SQL dialect
// follows db.DriverName().
func NewSQLStorage(ctx context.Context, db *sqlx.DB, idGenerator IDGenerator, tableName string, migrate bool) (money.Storage, error) {
	if tableName == "" {
		tableName = DefaultTableName
	}

	storage := sqlStorage{
		ctx:         ctxOrBackground(ctx),
		db:          db,
		dialect:     dialectFor(db.DriverName()),
		tableName:   tableName,
		idGenerator: idGenerator,
	}

	if migrate {
		if err := storage.Migrate(); err != nil {
			return nil, err
		}
	}

	return storage, nil
}

func (s sqlStorage) table() string {
	return s.dialect.quote(s.tableName)
}

func (s sqlStorage) Migrate() error {
	_, err := s.db.ExecContext(s.ctx, fmt.Sprintf(s.dialect.createTable, s.table()))
	return err
}

func (s sqlStorage) Drop() error {
	_, err := s.db.ExecContext(s.ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", s.table()))
	return err
}

func (s sqlStorage) Close() error {
	return s.db.Close()
}

func (s sqlStorage) GetStorageProviderName() string {
	return s.dialect.name
}

// Save replaces the rows of the snapshot provider in a single transaction.
func (s sqlStorage) Save(ctx context.Context, snapshot money.RateSnapshot) (money.SnapshotWithID, error) {
	id, err := newID(s.idGenerator)
	if err != nil {
		return money.SnapshotWithID{}, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return money.SnapshotWithID{}, err
	}

	deleteQuery := s.db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE provider = ?;", s.table()))

	if _, err := tx.ExecContext(ctx, deleteQuery, snapshot.Provider.String()); err != nil {
		_ = tx.Rollback()
		return money.SnapshotWithID{}, err
	}

	insertQuery := s.db.Rebind(fmt.Sprintf(
		"INSERT INTO %s(snapshot_id, provider, base, currency, rate, fetched_at, published_at) VALUES (?,?,?,?,?,?,?);",
		s.table(),
	))

	stmt, err := tx.PreparexContext(ctx, insertQuery)
	if err != nil {
		_ = tx.Rollback()
		return money.SnapshotWithID{}, err
	}

	publishedAt := sql.NullTime{Time: snapshot.PublishedAt.UTC(), Valid: !snapshot.PublishedAt.IsZero()}

	for _, code := range snapshot.Codes() {
		rate, _ := snapshot.Rate(code)

		_, err := stmt.ExecContext(
			ctx,
			id.String(),
			snapshot.Provider.String(),
			snapshot.Base.String(),
			code.String(),
			rate,
			snapshot.FetchedAt.UTC(),
			publishedAt,
		)
		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return money.SnapshotWithID{}, err
		}
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return money.SnapshotWithID{}, err
	}

	if err := tx.Commit(); err != nil {
		return money.SnapshotWithID{}, err
	}

	return money.SnapshotWithID{RateSnapshot: snapshot, ID: id}, nil
}

func (s sqlStorage) Latest(ctx context.Context, provider money.Provider) (money.SnapshotWithID, error) {
	query := s.db.Rebind(fmt.Sprintf(
		"SELECT snapshot_id, base, currency, rate, fetched_at, published_at FROM %s WHERE provider = ?;",
		s.table(),
	))

	var rows []rateRow

	if err := s.db.SelectContext(ctx, &rows, query, provider.String()); err != nil {
		return money.SnapshotWithID{}, err
	}

	if len(rows) == 0 {
		return money.SnapshotWithID{}, fmt.Errorf("%w: %s", money.ErrSnapshotNotFound, provider)
	}

	return fromRows(provider, rows)
}

func fromRows(provider money.Provider, rows []rateRow) (money.SnapshotWithID, error) {
	first := rows[0]

	base, err := money.ParseCode(first.Base)
	if err != nil {
		return money.SnapshotWithID{}, err
	}

	rates := make(map[money.Code]decimal.Decimal, len(rows))

	for _, row := range rows {
		code, err := money.ParseCode(row.Currency)
		if err != nil {
			continue
		}

		rates[code] = row.Rate
	}

	var publishedAt time.Time
	if first.PublishedAt.Valid {
		publishedAt = first.PublishedAt.Time
	}

	snapshot, err := money.NewRateSnapshot(provider, base, rates, first.FetchedAt, publishedAt)
	if err != nil {
		return money.SnapshotWithID{}, err
	}

	id, err := uuid.Parse(first.SnapshotID)
	if err != nil {
		return money.SnapshotWithID{}, fmt.Errorf("snapshot id %q: %w", first.SnapshotID, err)
	}

	return money.SnapshotWithID{RateSnapshot: snapshot, ID: id}, nil
}
