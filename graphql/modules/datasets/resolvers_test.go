package datasets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotas-project/rotas/internal/dbtest"
)

func TestCountExtensions(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	got, err := CountExtensions(ctx, db, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{".java": 2, ".js": 1, ".py": 1, ".xml": 1}, got)

	require.NoError(t, db.DB.Exec("INSERT INTO commits (id, sha, kind, changes, files_count, vulnerability_id, repository_id) VALUES ('cn', 'n1', NULL, 4, 1, 'CVE-2020-0001', 'r1')").Error)
	require.NoError(t, db.DB.Exec("INSERT INTO commit_files (id, filename, extension, changes, status, commit_id) VALUES ('fn', 'src/main.go', '.go', 4, 'modified', 'cn')").Error)

	got, err = CountExtensions(ctx, db, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{".go": 1, ".java": 2, ".js": 1, ".py": 1, ".xml": 1}, got)
}
