// Package dbtest provides a migrated sqlite database seeded with a small, fixed dataset.
//
// The dataset in testdata/dataset.yaml is shaped so that every composer dimension has at
// least one distinguishing row: a parent commit (c1p), a commit with unknown sizes (c5),
// a vulnerability without commits (CVE-2022-0006) and a file without hunks (f2).
package dbtest

import (
	"bytes"
	_ "embed"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rotas-project/rotas/database"
)

//go:embed testdata/dataset.yaml
var dataset []byte

// Empty returns a migrated database with no rows.
func Empty(t *testing.T) database.DBConnection {
	t.Helper()
	conn, err := database.Open(database.Options{URL: filepath.Join(t.TempDir(), "rotas.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, database.Migrate(conn))
	return conn
}

// New returns a migrated database loaded with the fixture dataset.
func New(t *testing.T) database.DBConnection {
	t.Helper()
	conn := Empty(t)
	_, err := database.LoadFixtures(conn, bytes.NewReader(dataset))
	require.NoError(t, err)
	return conn
}

// DB is New returning the gorm handle directly.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	return New(t).DB
}

// Fixture returns the raw fixture document.
func Fixture() []byte {
	return append([]byte(nil), dataset...)
}
