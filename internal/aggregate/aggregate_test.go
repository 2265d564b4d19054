package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotas-project/rotas/internal/dbtest"
	"github.com/rotas-project/rotas/model"
)

func TestSorted(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int
		want   []Pair
	}{
		{
			name:   "numeric keys sort numerically",
			counts: map[string]int{"10": 1, "2": 4, "1": 7},
			want:   []Pair{{"1", 7}, {"2", 4}, {"10", 1}},
		},
		{
			name:   "numbers before names",
			counts: map[string]int{"N/A": 2, "7.5": 1, "HIGH": 3},
			want:   []Pair{{"7.5", 1}, {"HIGH", 3}, {"N/A", 2}},
		},
		{
			name:   "empty",
			counts: map[string]int{},
			want:   []Pair{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Sorted(test.counts))
		})
	}
}

func TestCollect(t *testing.T) {
	db := dbtest.DB(t)

	langs, err := Collect(db.Table("repositories").
		Select("language AS grp, COUNT(*) AS cnt").
		Group("language"), NotAvailable)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Java": 1, "Python": 1, "C": 1}, langs)

	states, err := Collect(model.NonParentCommits(db.Table("commits")).
		Select("state AS grp, COUNT(*) AS cnt").
		Group("state"), "awaiting")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"complete": 2, "failed": 1, "awaiting": 4}, states)
}

func TestCollectBool(t *testing.T) {
	db := dbtest.DB(t)

	got, err := CollectBool(db.Table("repositories").
		Select("available AS grp, COUNT(*) AS cnt").
		Group("available"), "awaiting")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"true": 1, "false": 1, "awaiting": 1}, got)
}

func TestCountOfCounts(t *testing.T) {
	db := dbtest.DB(t)

	perRepo := model.NonParentCommits(db.Table("commits")).
		Select("COUNT(*) AS n").
		Group("repository_id")
	got, err := CountOfCounts(db, perRepo)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"1": 1, "2": 1, "4": 1}, got)
}
