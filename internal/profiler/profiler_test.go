package profiler

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotas-project/rotas/internal/dbtest"
)

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }
func floatPtr(v float64) *float64 { return &v }

type step func(Composer) (Composer, error)

func vulnStep(f VulnerabilityFilter) step {
	return func(c Composer) (Composer, error) { return c.FilterVulnerabilities(f) }
}

func commitStep(f CommitFilter) step {
	return func(c Composer) (Composer, error) { return c.FilterCommits(f) }
}

func fileStep(f FileFilter) step {
	return func(c Composer) (Composer, error) { return c.FilterCommitFiles(f) }
}

func compose(t *testing.T, steps ...step) Composer {
	t.Helper()
	c := New()
	for _, s := range steps {
		var err error
		c, err = s(c)
		require.NoError(t, err)
	}
	return c
}

func TestComposer_VulnerabilityIDs(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		steps []step
		want  []string
	}{
		{
			name: "no filters keeps vulnerabilities with a qualifying commit",
			want: []string{"CVE-2019-0007", "CVE-2020-0001", "CVE-2020-0002", "CVE-2021-0003", "CVE-2022-0005"},
		},
		{
			name:  "cwe with exploit",
			steps: []step{vulnStep(VulnerabilityFilter{CWEIDs: []int{79}, HasExploit: true})},
			want:  []string{"CVE-2019-0007", "CVE-2020-0001"},
		},
		{
			name:  "advisory matches either advisory tag",
			steps: []step{vulnStep(VulnerabilityFilter{HasAdvisory: true})},
			want:  []string{"CVE-2020-0002", "CVE-2021-0003", "CVE-2022-0005"},
		},
		{
			name:  "bf class",
			steps: []step{vulnStep(VulnerabilityFilter{BFClass: strPtr("MUS")})},
			want:  []string{"CVE-2022-0005"},
		},
		{
			name:  "unknown cwe matches nothing",
			steps: []step{vulnStep(VulnerabilityFilter{CWEIDs: []int{99999}})},
			want:  nil,
		},
		{
			name:  "year range",
			steps: []step{vulnStep(VulnerabilityFilter{StartYear: intPtr(2021), EndYear: intPtr(2021)})},
			want:  []string{"CVE-2021-0003"},
		},
		{
			name:  "lower score bound",
			steps: []step{vulnStep(VulnerabilityFilter{StartScore: floatPtr(8)})},
			want:  []string{"CVE-2020-0001", "CVE-2021-0003"},
		},
		{
			name:  "upper score bound",
			steps: []step{vulnStep(VulnerabilityFilter{EndScore: floatPtr(3)})},
			want:  []string{"CVE-2019-0007", "CVE-2022-0005"},
		},
		{
			name:  "extension propagates to vulnerabilities",
			steps: []step{fileStep(FileFilter{Extensions: []string{".java"}})},
			want:  []string{"CVE-2019-0007", "CVE-2020-0001", "CVE-2020-0002"},
		},
		{
			name:  "exact diff block count",
			steps: []step{fileStep(FileFilter{DiffBlockCount: intPtr(3)})},
			want:  []string{"CVE-2021-0003"},
		},
		{
			name:  "zero diff blocks",
			steps: []step{fileStep(FileFilter{DiffBlockCount: intPtr(0)})},
			want:  []string{"CVE-2020-0001"},
		},
		{
			name:  "patch count",
			steps: []step{commitStep(CommitFilter{PatchCount: intPtr(2)})},
			want:  []string{"CVE-2020-0002"},
		},
		{
			name:  "language",
			steps: []step{commitStep(CommitFilter{Language: strPtr("Python")})},
			want:  []string{"CVE-2021-0003"},
		},
		{
			name:  "zero is a real upper bound",
			steps: []step{commitStep(CommitFilter{MaxChanges: intPtr(0)})},
			want:  []string{"CVE-2022-0005"},
		},
		{
			name:  "zero lower bound keeps everything",
			steps: []step{commitStep(CommitFilter{MinChanges: intPtr(0), MinFiles: intPtr(0)})},
			want:  []string{"CVE-2019-0007", "CVE-2020-0001", "CVE-2020-0002", "CVE-2021-0003", "CVE-2022-0005"},
		},
		{
			name: "file bounds across tiers",
			steps: []step{
				commitStep(CommitFilter{MinFiles: intPtr(2)}),
				vulnStep(VulnerabilityFilter{CWEIDs: []int{79}}),
			},
			want: []string{"CVE-2020-0001", "CVE-2020-0002"},
		},
		{
			name: "tiers constrain jointly",
			steps: []step{
				fileStep(FileFilter{Extensions: []string{".js"}}),
				commitStep(CommitFilter{MaxChanges: intPtr(10)}),
			},
			want: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ids, err := compose(t, test.steps...).Finalize(db).VulnerabilityIDs(ctx)
			require.NoError(t, err)
			if d := cmp.Diff(test.want, ids); d != "" && !(len(test.want) == 0 && len(ids) == 0) {
				t.Errorf("unexpected ids (-want +got):\n%s", d)
			}
		})
	}
}

func TestComposer_OrderDoesNotMatter(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()

	steps := []step{
		vulnStep(VulnerabilityFilter{CWEIDs: []int{79, 20}}),
		commitStep(CommitFilter{Language: strPtr("Java"), MinChanges: intPtr(3)}),
		fileStep(FileFilter{Extensions: []string{".java", ".js"}}),
	}
	orders := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	var first []string
	for _, order := range orders {
		var ordered []step
		for _, i := range order {
			ordered = append(ordered, steps[i])
		}
		ids, err := compose(t, ordered...).Finalize(db).VulnerabilityIDs(ctx)
		require.NoError(t, err)
		if first == nil {
			first = ids
			continue
		}
		assert.Equal(t, first, ids, "order %v", order)
	}
	assert.Equal(t, []string{"CVE-2019-0007", "CVE-2020-0001", "CVE-2020-0002"}, first)
}

func TestComposer_InvalidRangeLeavesComposerUnchanged(t *testing.T) {
	tests := []struct {
		name string
		run  func(Composer) (Composer, error)
	}{
		{"min changes above max", func(c Composer) (Composer, error) {
			return c.FilterCommits(CommitFilter{MinChanges: intPtr(5), MaxChanges: intPtr(3)})
		}},
		{"negative min files", func(c Composer) (Composer, error) {
			return c.FilterCommits(CommitFilter{MinFiles: intPtr(-1)})
		}},
		{"min files above max", func(c Composer) (Composer, error) {
			return c.FilterCommits(CommitFilter{MinFiles: intPtr(4), MaxFiles: intPtr(1)})
		}},
		{"year before records", func(c Composer) (Composer, error) {
			return c.FilterVulnerabilities(VulnerabilityFilter{StartYear: intPtr(1980)})
		}},
		{"score above ten", func(c Composer) (Composer, error) {
			return c.FilterVulnerabilities(VulnerabilityFilter{EndScore: floatPtr(11)})
		}},
		{"inverted years", func(c Composer) (Composer, error) {
			return c.FilterVulnerabilities(VulnerabilityFilter{StartYear: intPtr(2022), EndYear: intPtr(2020)})
		}},
		{"negative diff blocks", func(c Composer) (Composer, error) {
			return c.FilterCommitFiles(FileFilter{DiffBlockCount: intPtr(-2)})
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			base := compose(t, vulnStep(VulnerabilityFilter{CWEIDs: []int{79}}))
			got, err := test.run(base)
			require.ErrorIs(t, err, ErrInvalidRange)
			assert.Len(t, got.vulns, 1)
			assert.Empty(t, got.commits)
			assert.Empty(t, got.files)
		})
	}
}

func TestComposer_ValidationReportsEveryViolation(t *testing.T) {
	_, err := New().FilterCommits(CommitFilter{
		MinChanges: intPtr(-1),
		MinFiles:   intPtr(9),
		MaxFiles:   intPtr(2),
	})
	require.ErrorIs(t, err, ErrInvalidRange)
	assert.Contains(t, err.Error(), "Invalid min changes")
	assert.Contains(t, err.Error(), "Invalid files range")
}

func TestComposer_FilterDoesNotMutateReceiver(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()

	base := compose(t, vulnStep(VulnerabilityFilter{CWEIDs: []int{79}}))
	narrowed, err := base.FilterCommits(CommitFilter{PatchCount: intPtr(2)})
	require.NoError(t, err)

	baseIDs, err := base.Finalize(db).VulnerabilityIDs(ctx)
	require.NoError(t, err)
	narrowedIDs, err := narrowed.Finalize(db).VulnerabilityIDs(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"CVE-2019-0007", "CVE-2020-0001", "CVE-2020-0002"}, baseIDs)
	assert.Equal(t, []string{"CVE-2020-0002"}, narrowedIDs)
}

func TestResult_Counts(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()

	got, err := New().Finalize(db).All(ctx)
	require.NoError(t, err)

	want := Counts{
		Total:      5,
		CWE:        map[string]int{"20": 1, "79": 3, "89": 1, "787": 1},
		BFClasses:  map[string]int{"DVL": 4, "MUS": 1},
		Languages:  map[string]int{"Java": 4, "Python": 1, "C": 1},
		Patches:    map[string]int{"1": 4, "2": 1},
		Changes:    map[string]int{"0": 1, "3": 1, "7": 1, "10": 1, "12": 1, "40": 1},
		Files:      map[string]int{"1": 4, "2": 1, "5": 1},
		Extensions: map[string]int{".java": 3, ".xml": 1, ".js": 1, ".py": 1, ".c": 1},
		DiffBlocks: map[string]int{"0": 1, "1": 3, "2": 2, "3": 1},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unexpected counts (-want +got):\n%s", d)
	}
}

func TestResult_ParentCommitsNeverCounted(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()

	// c1p is the only commit with 5 changes and the only commit touching f3.
	r := compose(t, vulnStep(VulnerabilityFilter{CWEIDs: []int{79}})).Finalize(db)

	changes, err := r.CountsByChanges(ctx)
	require.NoError(t, err)
	assert.NotContains(t, changes, "5")

	exts, err := r.CountsByExtension(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{".java": 3, ".xml": 1, ".js": 1}, exts)

	patches, err := r.CountsByPatchCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"1": 2, "2": 1}, patches)
}

func TestResult_FileFilterNarrowsCounts(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()

	r := compose(t, fileStep(FileFilter{Extensions: []string{".java"}})).Finalize(db)

	total, err := r.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	exts, err := r.CountsByExtension(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{".java": 3}, exts)

	changes, err := r.CountsByChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"3": 1, "10": 1, "12": 1}, changes)

	blocks, err := r.CountsByDiffBlockCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"1": 1, "2": 2}, blocks)
}

func TestResult_FinalizeIsRepeatable(t *testing.T) {
	db := dbtest.DB(t)
	ctx := context.Background()

	c := compose(t, commitStep(CommitFilter{Language: strPtr("Java")}))
	a, err := c.Finalize(db).Total(ctx)
	require.NoError(t, err)
	b, err := c.Finalize(db).Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 3, a)
}

func TestComposer_ZeroDiffBlocksIgnoresOrphanHunks(t *testing.T) {
	db := dbtest.DB(t)
	require.NoError(t, db.Exec("INSERT INTO diff_blocks (id, commit_file_id, a_start, a_count, b_start, b_count) VALUES ('dx', NULL, 1, 1, 1, 1)").Error)

	got, err := compose(t, fileStep(FileFilter{DiffBlockCount: intPtr(0)})).Finalize(db).VulnerabilityIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"CVE-2020-0001"}, got)
}

func TestResult_CommitsWithoutKindAreCounted(t *testing.T) {
	db := dbtest.DB(t)
	require.NoError(t, db.Exec("INSERT INTO commits (id, sha, kind, changes, files_count, vulnerability_id, repository_id) VALUES ('cn', 'n1', NULL, 4, 1, 'CVE-2020-0001', 'r1')").Error)

	changes, err := compose(t).Finalize(db).CountsByChanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, changes["4"])
}
