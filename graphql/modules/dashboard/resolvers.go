// Package dashboard implements the resolvers for dataset-wide metrics.
package dashboard

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/internal/aggregate"
	"github.com/rotas-project/rotas/model"
)

// SoftwareDevelopmentView is the CWE view whose categories group weaknesses by development concept.
const SoftwareDevelopmentView = 699

var companyPattern = regexp.MustCompile(`@(.*?)\.`)

// Company extracts the organisation from an assigner address, "cve@mitre.org" -> "mitre".
func Company(assigner string) (string, bool) {
	m := companyPattern.FindStringSubmatch(assigner)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func ResolveStats(ctx context.Context, db database.DBConnection) (map[string]interface{}, error) {
	s := db.Session(ctx)
	counts := []struct {
		key   string
		model interface{}
	}{
		{"total", &model.Vulnerability{}},
		{"labeled", &model.VulnerabilityCWE{}},
		{"references", &model.Reference{}},
		{"commits", &model.Commit{}},
	}
	res := make(map[string]interface{}, len(counts))
	for _, c := range counts {
		var n int64
		if err := s.Model(c.model).Count(&n).Error; err != nil {
			return nil, err
		}
		res[c.key] = int(n)
	}
	return res, nil
}

func CountCWEs(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("vulnerability_cwes").
		Select("vulnerability_cwes.cwe_id AS grp, COUNT(*) AS cnt").
		Joins("JOIN vulnerabilities ON vulnerabilities.id = vulnerability_cwes.vulnerability_id").
		Group("vulnerability_cwes.cwe_id")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountCWEMultiplicity reports how many vulnerabilities have each number of CWEs.
func CountCWEMultiplicity(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	s := db.Session(ctx)
	return aggregate.CountOfCounts(s, s.Table("vulnerability_cwes").
		Select("COUNT(*) AS n").
		Joins("JOIN vulnerabilities ON vulnerabilities.id = vulnerability_cwes.vulnerability_id").
		Group("vulnerability_cwes.vulnerability_id"))
}

// CountTags counts references per tag. Unused tags are reported with 0.
func CountTags(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("tags").
		Select("tags.name AS grp, COUNT(reference_tags.reference_id) AS cnt").
		Joins("LEFT JOIN reference_tags ON reference_tags.tag_id = tags.id").
		Group("tags.name")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountAssigners counts vulnerabilities per assigner, or per assigner organisation when byCompany is set.
func CountAssigners(ctx context.Context, db database.DBConnection, byCompany bool) (map[string]int, error) {
	q := db.Session(ctx).Table("vulnerabilities").
		Select("assigner AS grp, COUNT(*) AS cnt").
		Group("assigner")
	counts, err := aggregate.Collect(q, aggregate.NotAvailable)
	if err != nil || !byCompany {
		return counts, err
	}
	out := make(map[string]int, len(counts))
	for assigner, n := range counts {
		company, ok := Company(assigner)
		if !ok {
			company = aggregate.NotAvailable
		}
		out[company] += n
	}
	return out, nil
}

func CountByYear(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	year := "SUBSTR(CAST(published_date AS TEXT), 1, 4)"
	q := db.Session(ctx).Table("vulnerabilities").
		Select(year + " AS grp, COUNT(*) AS cnt").
		Group(year)
	return aggregate.Collect(q, aggregate.NotAvailable)
}

func CountSeverity(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("vulnerabilities").Select("severity AS grp, COUNT(*) AS cnt").Group("severity")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

func CountExploitability(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("vulnerabilities").
		Select("exploitability AS grp, COUNT(*) AS cnt").
		Group("exploitability")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountBySoftwareDevelopmentView sums the CWE labels of vulnerabilities per category of the
// software development view. Keys read "CWE-<id>: <name>".
func CountBySoftwareDevelopmentView(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	s := db.Session(ctx)
	categories := s.Table("groupings").Select("child_id").Where("parent_id = ?", SoftwareDevelopmentView)

	type categoryRow struct {
		ID   int
		Name string
		Cnt  int
	}
	var rows []categoryRow
	err := s.Table("vulnerability_cwes").
		Select("cwes.id AS id, cwes.name AS name, COUNT(*) AS cnt").
		Joins("JOIN groupings ON groupings.child_id = vulnerability_cwes.cwe_id").
		Joins("JOIN cwes ON cwes.id = groupings.parent_id").
		Where("groupings.parent_id IN (?)", categories).
		Group("cwes.id, cwes.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[fmt.Sprintf("CWE-%d: %s", r.ID, r.Name)] = r.Cnt
	}
	return out, nil
}
