// Package cassandra implements the store interfaces on top of a gocql
// session. A gocql session is safe for concurrent use, so a single Store is
// shared by all workers of a run.
package cassandra

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"cassbench/store"
	"cassbench/util"
)

type Options struct {
	Hosts       []string
	Port        int
	Datacenter  string
	Consistency string
	Keyspace    string
	Table       string
	RandomLen   int
}

type Store struct {
	session    *gocql.Session
	insertStmt string
	selectStmt string
	randomLen  int
}

func New(opts Options) (*Store, error) {
	cluster := gocql.NewCluster(opts.Hosts...)
	if opts.Port > 0 {
		cluster.Port = opts.Port
	}
	if opts.Consistency != "" {
		cluster.Consistency = gocql.ParseConsistency(opts.Consistency)
	}
	if opts.Datacenter != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.DCAwareRoundRobinPolicy(opts.Datacenter)
	}
	cluster.Timeout = 10 * time.Second

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.Wrap(err, "connecting to cluster")
	}

	return &Store{
		session: session,
		insertStmt: fmt.Sprintf(
			"INSERT INTO %s.%s (id, value, hex, random) VALUES (?, ?, ?, ?)",
			opts.Keyspace, opts.Table),
		selectStmt: fmt.Sprintf(
			"SELECT id, value, hex, random FROM %s.%s WHERE id = ? LIMIT 1",
			opts.Keyspace, opts.Table),
		randomLen: opts.RandomLen,
	}, nil
}

func (s *Store) Close() {
	s.session.Close()
}

func (s *Store) EnsureKeyspace(name string, replicationFactor int) error {
	stmt := fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = {'class': 'SimpleStrategy', 'replication_factor': %d}",
		name, replicationFactor)
	return errors.Wrap(s.session.Query(stmt).Exec(), "creating keyspace")
}

func (s *Store) EnsureTable(keyspace, table string) error {
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s.%s (id text, value int, hex text, random text, "+
			"PRIMARY KEY (id, value)) WITH CLUSTERING ORDER BY (value DESC)",
		keyspace, table)
	return errors.Wrap(s.session.Query(stmt).Exec(), "creating table")
}

func (s *Store) EnsureSecondaryIndex(keyspace, table, column string) error {
	stmt := fmt.Sprintf(
		"CREATE CUSTOM INDEX IF NOT EXISTS ON %s.%s (%s) "+
			"USING 'org.apache.cassandra.index.sasi.SASIIndex' WITH OPTIONS = {'mode': 'CONTAINS'}",
		keyspace, table, column)
	return errors.Wrap(s.session.Query(stmt).Exec(), "creating index")
}

func (s *Store) Insert(value int32) error {
	err := s.session.Query(s.insertStmt,
		store.RecordID(value), value, store.RecordHex(value), util.RandomString(s.randomLen)).Exec()
	return errors.Wrapf(err, "inserting %d", value)
}

func (s *Store) SelectOne(value int32) (*store.Record, error) {
	var record store.Record

	err := s.session.Query(s.selectStmt, store.RecordID(value)).
		Scan(&record.ID, &record.Value, &record.Hex, &record.Random)
	if err == gocql.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "selecting %d", value)
	}

	return &record, nil
}
