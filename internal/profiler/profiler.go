// Package profiler composes conjunctive filters over the vulnerability, commit and
// commit file tiers and reports grouped counts over the jointly narrowed population.
//
// A Composer is an immutable value: every Filter* call returns a new Composer and
// leaves the receiver untouched, so filters can be applied in any order and partially
// built composers can be shared. Finalize binds a composer to a database handle and
// exposes the count accessors.
package profiler

import (
	"time"

	"gorm.io/gorm"

	"github.com/rotas-project/rotas/model"
)

// clause narrows q. db is a clean handle for building subqueries.
type clause func(q, db *gorm.DB) *gorm.DB

// Composer accumulates clauses per tier.
type Composer struct {
	vulns   []clause
	commits []clause
	files   []clause
}

// New returns a composer with no filters applied.
func New() Composer {
	return Composer{}
}

func with(cs []clause, more ...clause) []clause {
	out := make([]clause, 0, len(cs)+len(more))
	out = append(out, cs...)
	return append(out, more...)
}

// FilterVulnerabilities restricts the vulnerability tier. On error the receiver is returned unchanged.
func (c Composer) FilterVulnerabilities(f VulnerabilityFilter) (Composer, error) {
	if err := f.Validate(); err != nil {
		return c, err
	}
	var add []clause

	if f.BFClass != nil {
		name := *f.BFClass
		add = append(add, func(q, db *gorm.DB) *gorm.DB {
			cwes := db.Table("cwe_bf_classes").
				Select("cwe_bf_classes.cwe_id").
				Joins("JOIN bf_classes ON bf_classes.id = cwe_bf_classes.bf_class_id").
				Where("bf_classes.name = ?", name)
			return q.Where("vulnerabilities.id IN (?)",
				db.Table("vulnerability_cwes").Select("vulnerability_cwes.vulnerability_id").
					Where("vulnerability_cwes.cwe_id IN (?)", cwes))
		})
	}
	if len(f.CWEIDs) > 0 {
		ids := append([]int(nil), f.CWEIDs...)
		add = append(add, func(q, db *gorm.DB) *gorm.DB {
			return q.Where("vulnerabilities.id IN (?)",
				db.Table("vulnerability_cwes").Select("vulnerability_cwes.vulnerability_id").
					Where("vulnerability_cwes.cwe_id IN ?", ids))
		})
	}
	if f.HasExploit {
		add = append(add, taggedReference([]int{model.TagExploit}))
	}
	if f.HasAdvisory {
		add = append(add, taggedReference(model.AdvisoryTagIDs))
	}
	if f.StartYear != nil {
		from := time.Date(*f.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		add = append(add, func(q, _ *gorm.DB) *gorm.DB {
			return q.Where("vulnerabilities.published_date >= ?", from)
		})
	}
	if f.EndYear != nil {
		until := time.Date(*f.EndYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		add = append(add, func(q, _ *gorm.DB) *gorm.DB {
			return q.Where("vulnerabilities.published_date < ?", until)
		})
	}
	if f.StartScore != nil {
		v := *f.StartScore
		add = append(add, func(q, _ *gorm.DB) *gorm.DB {
			return q.Where("vulnerabilities.exploitability >= ?", v)
		})
	}
	if f.EndScore != nil {
		v := *f.EndScore
		add = append(add, func(q, _ *gorm.DB) *gorm.DB {
			return q.Where("vulnerabilities.exploitability <= ?", v)
		})
	}

	c.vulns = with(c.vulns, add...)
	return c, nil
}

func taggedReference(tags []int) clause {
	return func(q, db *gorm.DB) *gorm.DB {
		return q.Where("EXISTS (?)",
			db.Table("vulnerability_references").
				Select("1").
				Joins("JOIN reference_tags ON reference_tags.reference_id = vulnerability_references.id").
				Where("vulnerability_references.vulnerability_id = vulnerabilities.id").
				Where("reference_tags.tag_id IN ?", tags))
	}
}

// FilterCommitFiles restricts the commit file tier. A diff block count matches files
// with exactly that many hunks.
func (c Composer) FilterCommitFiles(f FileFilter) (Composer, error) {
	if err := f.Validate(); err != nil {
		return c, err
	}
	var add []clause

	if len(f.Extensions) > 0 {
		exts := append([]string(nil), f.Extensions...)
		add = append(add, func(q, _ *gorm.DB) *gorm.DB {
			return q.Where("commit_files.extension IN ?", exts)
		})
	}
	if f.DiffBlockCount != nil {
		n := *f.DiffBlockCount
		add = append(add, func(q, db *gorm.DB) *gorm.DB {
			if n == 0 {
				return q.Where("NOT EXISTS (?)",
					db.Table("diff_blocks").Select("1").Where("diff_blocks.commit_file_id = commit_files.id"))
			}
			return q.Where("commit_files.id IN (?)",
				db.Table("diff_blocks").
					Select("diff_blocks.commit_file_id").
					Group("diff_blocks.commit_file_id").
					Having("COUNT(*) = ?", n))
		})
	}

	c.files = with(c.files, add...)
	return c, nil
}

// FilterCommits restricts the commit tier. A patch count keeps vulnerabilities with exactly
// that many qualifying commits. On error the receiver is returned unchanged.
func (c Composer) FilterCommits(f CommitFilter) (Composer, error) {
	if err := f.Validate(); err != nil {
		return c, err
	}
	var add []clause

	if f.Language != nil {
		lang := *f.Language
		add = append(add, func(q, db *gorm.DB) *gorm.DB {
			return q.Where("commits.repository_id IN (?)",
				db.Table("repositories").Select("repositories.id").Where("repositories.language = ?", lang))
		})
	}
	if f.PatchCount != nil {
		n := *f.PatchCount
		add = append(add, func(q, db *gorm.DB) *gorm.DB {
			return q.Where("commits.vulnerability_id IN (?)",
				qualifying(db).
					Select("commits.vulnerability_id").
					Group("commits.vulnerability_id").
					Having("COUNT(*) = ?", n))
		})
	}
	add = append(add, bound("commits.changes >= ?", f.MinChanges), bound("commits.changes <= ?", f.MaxChanges),
		bound("commits.files_count >= ?", f.MinFiles), bound("commits.files_count <= ?", f.MaxFiles))

	c.commits = with(c.commits, compact(add)...)
	return c, nil
}

func bound(cond string, v *int) clause {
	if v == nil {
		return nil
	}
	n := *v
	return func(q, _ *gorm.DB) *gorm.DB {
		return q.Where(cond, n)
	}
}

func compact(cs []clause) []clause {
	out := cs[:0]
	for _, c := range cs {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// qualifying selects commits that take part in any analysis: parent commits and
// commits with unknown change or file counts are left out.
func qualifying(db *gorm.DB) *gorm.DB {
	return model.NonParentCommits(db.Table("commits")).
		Where("commits.changes IS NOT NULL").
		Where("commits.files_count IS NOT NULL")
}

func apply(q, db *gorm.DB, cs []clause) *gorm.DB {
	for _, c := range cs {
		q = c(q, db)
	}
	return q
}
