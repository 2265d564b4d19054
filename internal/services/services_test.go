package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/internal/dbtest"
	"github.com/rotas-project/rotas/internal/profiler"
	"github.com/rotas-project/rotas/model"
)

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func setup(t *testing.T) (*Service, database.DBConnection) {
	t.Helper()
	conn := dbtest.New(t)
	return New(conn, zap.NewNop()), conn
}

func datasetIDs(t *testing.T, conn database.DBConnection, id int) []string {
	t.Helper()
	var ids []string
	require.NoError(t, conn.DB.Model(&model.DatasetVulnerability{}).
		Where("dataset_id = ?", id).Order("vulnerability_id").
		Pluck("vulnerability_id", &ids).Error)
	return ids
}

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   ProfileInput
		wantErr error
	}{
		{
			name:  "valid",
			input: ProfileInput{Name: "xss", CWEIDs: []int{79, 79, 20}, StartYear: intPtr(2019), MinChanges: intPtr(0)},
		},
		{
			name:    "duplicate name",
			input:   ProfileInput{Name: "xss"},
			wantErr: ErrAlreadyExists,
		},
		{
			name:    "inverted changes",
			input:   ProfileInput{Name: "bad-changes", MinChanges: intPtr(5), MaxChanges: intPtr(3)},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "year too early",
			input:   ProfileInput{Name: "bad-year", StartYear: intPtr(1900)},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "missing name",
			input:   ProfileInput{Name: "  "},
			wantErr: ErrInvalidInput,
		},
	}

	svc, conn := setup(t)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, err := svc.CreateProfile(ctx, test.input)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, p.ID)

			ids, err := ProfileCWEIDs(conn.DB, p.ID)
			require.NoError(t, err)
			assert.Equal(t, []int{20, 79}, ids)
		})
	}

	var n int64
	require.NoError(t, conn.DB.Model(&model.Profile{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCreateDataset_FromProfileMatchesComposer(t *testing.T) {
	ctx := context.Background()
	svc, conn := setup(t)

	p, err := svc.CreateProfile(ctx, ProfileInput{Name: "exploited xss", CWEIDs: []int{79}, HasExploit: true})
	require.NoError(t, err)

	d, err := svc.CreateDataset(ctx, DatasetInput{Name: "A", ProfileID: &p.ID})
	require.NoError(t, err)

	c, err := profiler.New().FilterVulnerabilities(profiler.VulnerabilityFilter{CWEIDs: []int{79}, HasExploit: true})
	require.NoError(t, err)
	direct, err := c.Finalize(conn.DB).VulnerabilityIDs(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"CVE-2019-0007", "CVE-2020-0001"}, direct)
	assert.Equal(t, direct, datasetIDs(t, conn, d.ID))
}

func TestCreateDataset_SingleCommitAndExtension(t *testing.T) {
	ctx := context.Background()
	svc, conn := setup(t)

	p, err := svc.CreateProfile(ctx, ProfileInput{Name: "java single", SingleCommit: true, Extensions: []string{".java", ".js"}})
	require.NoError(t, err)
	require.NotNil(t, p.Extension)
	assert.Equal(t, ".java", *p.Extension)

	d, err := svc.CreateDataset(ctx, DatasetInput{Name: "java", Description: strPtr("single java fixes"), ProfileID: &p.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"CVE-2019-0007", "CVE-2020-0001"}, datasetIDs(t, conn, d.ID))
}

func TestCreateDataset_Errors(t *testing.T) {
	ctx := context.Background()
	svc, conn := setup(t)

	_, err := svc.CreateDataset(ctx, DatasetInput{Name: "baseline"})
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.Contains(t, err.Error(), "Dataset with name baseline already exists")

	_, err = svc.CreateDataset(ctx, DatasetInput{Name: "orphan", ProfileID: intPtr(404)})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Profile with id 404 does not exist")

	_, err = svc.CreateDataset(ctx, DatasetInput{Name: strings.Repeat("x", MaxNameLength+1)})
	require.ErrorIs(t, err, ErrInvalidInput)

	var n int64
	require.NoError(t, conn.DB.Model(&model.Dataset{}).Count(&n).Error)
	assert.Equal(t, int64(2), n, "failed creations must not leave rows behind")
}

func TestAddVulnerabilitiesToDataset(t *testing.T) {
	ctx := context.Background()
	svc, conn := setup(t)

	_, err := svc.AddVulnerabilitiesToDataset(ctx, 2, []string{"CVE-2020-0001", "CVE-2022-0006", "CVE-2022-0006"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CVE-2019-0007", "CVE-2020-0001", "CVE-2022-0006"}, datasetIDs(t, conn, 2))

	_, err = svc.AddVulnerabilitiesToDataset(ctx, 2, []string{"CVE-2021-0003", "CVE-1999-9999"})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Vulnerability with id CVE-1999-9999 does not exist")
	assert.Equal(t, []string{"CVE-2019-0007", "CVE-2020-0001", "CVE-2022-0006"}, datasetIDs(t, conn, 2))

	_, err = svc.AddVulnerabilitiesToDataset(ctx, 2, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddVulnerabilitiesToDataset(ctx, 77, []string{"CVE-2020-0001"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveDataset(t *testing.T) {
	ctx := context.Background()
	svc, conn := setup(t)

	d, err := svc.RemoveDataset(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "baseline", d.Name)
	assert.Empty(t, datasetIDs(t, conn, 1))

	_, err = svc.RemoveDataset(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveDatasetVulnerabilities(t *testing.T) {
	ctx := context.Background()
	svc, conn := setup(t)

	d, err := svc.RemoveDatasetVulnerabilities(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, d.ID)
	assert.Empty(t, datasetIDs(t, conn, 1))
	assert.Len(t, datasetIDs(t, conn, 2), 2)

	var n int64
	require.NoError(t, conn.DB.Model(&model.Dataset{}).Where("id = ?", 1).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestEditDataset(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	d, err := svc.EditDataset(ctx, 1, strPtr("triage"), strPtr("renamed"))
	require.NoError(t, err)
	assert.Equal(t, "triage", d.Name)
	assert.Equal(t, "renamed", d.Description)

	d, err = svc.EditDataset(ctx, 1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "triage", d.Name)

	_, err = svc.EditDataset(ctx, 1, strPtr("exploited"), nil)
	require.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.EditDataset(ctx, 1, nil, strPtr(strings.Repeat("d", MaxDescriptionLength+1)))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.EditDataset(ctx, 9, strPtr("x"), nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEditRepositorySoftwareType(t *testing.T) {
	ctx := context.Background()
	svc, conn := setup(t)

	repo, err := svc.EditRepositorySoftwareType(ctx, "r1", 2)
	require.NoError(t, err)
	assert.Equal(t, "webapp", repo.Name)

	var links []model.RepositoryProductType
	require.NoError(t, conn.DB.Where("repository_id = ?", "r1").Find(&links).Error)
	require.Len(t, links, 1)
	assert.Equal(t, 2, links[0].ProductTypeID)

	_, err = svc.EditRepositorySoftwareType(ctx, "r3", 1)
	require.NoError(t, err)

	_, err = svc.EditRepositorySoftwareType(ctx, "missing", 1)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Repository with id missing does not exist")

	_, err = svc.EditRepositorySoftwareType(ctx, "r1", 42)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Software type with id 42 does not exist")
}

func TestDatasetsOverlap(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	tests := []struct {
		name     string
		src, tgt int
		want     float64
	}{
		{"one of three", 1, 2, 100.0 / 3},
		{"one of two", 2, 1, 50},
		{"self", 1, 1, 100},
		{"unknown source", 9, 1, 0},
		{"unknown target", 1, 9, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := svc.DatasetsOverlap(ctx, test.src, test.tgt)
			require.NoError(t, err)
			assert.InDelta(t, test.want, got, 1e-9)
		})
	}
}
