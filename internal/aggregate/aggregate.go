// Package aggregate runs grouped count queries and shapes their results.
package aggregate

import (
	"database/sql"
	"sort"
	"strconv"

	"gorm.io/gorm"
)

// NotAvailable is the key used for rows grouped on a NULL value.
const NotAvailable = "N/A"

// Row is one group of a grouped count query. Queries must alias their columns grp and cnt.
type Row struct {
	Grp sql.NullString
	Cnt int
}

// Pair is a single key/value entry in a count listing.
type Pair struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// Collect executes q and folds the rows into a map, using nullKey for NULL groups.
// Rows that fold onto the same key are summed.
func Collect(q *gorm.DB, nullKey string) (map[string]int, error) {
	var rows []Row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		key := nullKey
		if r.Grp.Valid {
			key = r.Grp.String
		}
		out[key] += r.Cnt
	}
	return out, nil
}

// Sorted returns the entries of counts ordered by key. Numeric keys sort numerically
// and before non-numeric ones.
func Sorted(counts map[string]int) []Pair {
	out := make([]Pair, 0, len(counts))
	for k, v := range counts {
		out = append(out, Pair{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return Less(out[i].Key, out[j].Key)
	})
	return out
}

// Less orders keys numerically when both parse as numbers, lexically otherwise.
func Less(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if fa == fb {
			return a < b
		}
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// BoolRow is one group of a grouped count over a nullable boolean column.
type BoolRow struct {
	Grp sql.NullBool
	Cnt int
}

// CollectBool is Collect for boolean groups, keyed "true" and "false". Drivers store booleans
// differently (sqlite keeps 0/1), so the grouping column is scanned as a boolean, not text.
func CollectBool(q *gorm.DB, nullKey string) (map[string]int, error) {
	var rows []BoolRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		key := nullKey
		if r.Grp.Valid {
			key = strconv.FormatBool(r.Grp.Bool)
		}
		out[key] += r.Cnt
	}
	return out, nil
}

// CountOfCounts groups the per-entity counts produced by inner, which must select a single
// count column aliased n, and reports how many entities share each count.
func CountOfCounts(db, inner *gorm.DB) (map[string]int, error) {
	q := db.Table("(?) AS per_group", inner).
		Select("per_group.n AS grp, COUNT(*) AS cnt").
		Group("per_group.n")
	return Collect(q, NotAvailable)
}
