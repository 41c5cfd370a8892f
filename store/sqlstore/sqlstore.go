// Package sqlstore implements the store interfaces over database/sql,
// covering the postgres and sqlite engines. The connection pool handles
// concurrent use, so a single Store is shared by all workers of a run.
package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	"cassbench/store"
	"cassbench/util"
)

type Options struct {
	// Driver is "postgres" or "sqlite3"; the driver must already be
	// registered by the importer.
	Driver    string
	DSN       string
	Keyspace  string
	Table     string
	RandomLen int
	// MaxConns bounds the pool for postgres; it should not be smaller than
	// the largest configured thread count, otherwise workers serialize on
	// the pool instead of the server.
	MaxConns int
}

type Store struct {
	db         *sql.DB
	driver     string
	insertStmt string
	selectStmt string
	randomLen  int
}

func New(opts Options) (*Store, error) {
	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	switch opts.Driver {
	case "sqlite3":
		// a single connection sidesteps SQLITE_BUSY under concurrent writes
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(opts.MaxConns)
		// keep the idle count equal to the open count, otherwise connections
		// get churned while workers are still running
		db.SetMaxIdleConns(opts.MaxConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}

	table := qualifiedTable(opts.Driver, opts.Keyspace, opts.Table)

	return &Store{
		db:         db,
		driver:     opts.Driver,
		insertStmt: insertStatement(opts.Driver, table),
		selectStmt: selectStatement(opts.Driver, table),
		randomLen:  opts.RandomLen,
	}, nil
}

func (s *Store) Close() {
	s.db.Close()
}

// EnsureKeyspace creates the schema on postgres; sqlite has no schemas, so it
// is a no-op there. The replication factor only applies to the cassandra
// engine and is ignored.
func (s *Store) EnsureKeyspace(name string, _ int) error {
	if s.driver == "sqlite3" {
		return nil
	}
	_, err := s.db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", name))
	return errors.Wrap(err, "creating schema")
}

func (s *Store) EnsureTable(keyspace, table string) error {
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id text, value integer, hex text, random text, "+
			"PRIMARY KEY (id, value))",
		qualifiedTable(s.driver, keyspace, table))
	_, err := s.db.Exec(stmt)
	return errors.Wrap(err, "creating table")
}

func (s *Store) EnsureSecondaryIndex(keyspace, table, column string) error {
	stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_%s_idx ON %s (%s)",
		table, column, qualifiedTable(s.driver, keyspace, table), column)
	_, err := s.db.Exec(stmt)
	return errors.Wrap(err, "creating index")
}

func (s *Store) Insert(value int32) error {
	_, err := s.db.Exec(s.insertStmt,
		store.RecordID(value), value, store.RecordHex(value), util.RandomString(s.randomLen))
	return errors.Wrapf(err, "inserting %d", value)
}

func (s *Store) SelectOne(value int32) (*store.Record, error) {
	var record store.Record

	err := s.db.QueryRow(s.selectStmt, store.RecordID(value)).
		Scan(&record.ID, &record.Value, &record.Hex, &record.Random)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "selecting %d", value)
	}

	return &record, nil
}

// qualifiedTable schema-qualifies the table on postgres; sqlite tables live in
// the single main database.
func qualifiedTable(driver, keyspace, table string) string {
	if driver == "sqlite3" {
		return table
	}
	return keyspace + "." + table
}

// insertStatement builds an upsert, matching the last-write-wins semantics a
// cassandra insert has for duplicate values.
func insertStatement(driver, table string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (id, value, hex, random) VALUES (%s) "+
			"ON CONFLICT (id, value) DO UPDATE SET hex = EXCLUDED.hex, random = EXCLUDED.random",
		table, placeholders(driver, 4))
}

func selectStatement(driver, table string) string {
	return fmt.Sprintf("SELECT id, value, hex, random FROM %s WHERE id = %s LIMIT 1",
		table, placeholder(driver, 1))
}

func placeholders(driver string, n int) string {
	s := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			s += ", "
		}
		s += placeholder(driver, i)
	}
	return s
}

func placeholder(driver string, i int) string {
	if driver == "sqlite3" {
		return "?"
	}
	return fmt.Sprintf("$%d", i)
}
