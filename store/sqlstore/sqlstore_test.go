package sqlstore

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualifiedTable(t *testing.T) {
	assert.Equal(t, "foobar.lorem", qualifiedTable("postgres", "foobar", "lorem"))
	// sqlite has no schemas
	assert.Equal(t, "lorem", qualifiedTable("sqlite3", "foobar", "lorem"))
}

func TestInsertStatement(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO foobar.lorem (id, value, hex, random) VALUES ($1, $2, $3, $4) "+
			"ON CONFLICT (id, value) DO UPDATE SET hex = EXCLUDED.hex, random = EXCLUDED.random",
		insertStatement("postgres", "foobar.lorem"))

	assert.Equal(t,
		"INSERT INTO lorem (id, value, hex, random) VALUES (?, ?, ?, ?) "+
			"ON CONFLICT (id, value) DO UPDATE SET hex = EXCLUDED.hex, random = EXCLUDED.random",
		insertStatement("sqlite3", "lorem"))
}

func TestSqliteRoundTrip(t *testing.T) {
	s, err := New(Options{
		Driver:    "sqlite3",
		DSN:       ":memory:",
		Keyspace:  "foobar",
		Table:     "lorem",
		RandomLen: 8,
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.EnsureKeyspace("foobar", 3))
	require.NoError(t, s.EnsureTable("foobar", "lorem"))
	require.NoError(t, s.EnsureSecondaryIndex("foobar", "lorem", "hex"))

	require.NoError(t, s.Insert(42))
	require.NoError(t, s.Insert(-1))

	record, err := s.SelectOne(42)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "42", record.ID)
	assert.Equal(t, int32(42), record.Value)
	assert.Equal(t, "2a", record.Hex)
	assert.Len(t, record.Random, 8)

	record, err = s.SelectOne(-1)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "ffffffff", record.Hex)

	// not found is a nil record, not an error
	record, err = s.SelectOne(7)
	require.NoError(t, err)
	assert.Nil(t, record)

	// inserting the same value again is an upsert, as on cassandra
	require.NoError(t, s.Insert(42))
}

func TestSelectStatement(t *testing.T) {
	assert.Equal(t,
		"SELECT id, value, hex, random FROM foobar.lorem WHERE id = $1 LIMIT 1",
		selectStatement("postgres", "foobar.lorem"))

	assert.Equal(t,
		"SELECT id, value, hex, random FROM lorem WHERE id = ? LIMIT 1",
		selectStatement("sqlite3", "lorem"))
}
