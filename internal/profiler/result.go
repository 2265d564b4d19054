package profiler

import (
	"context"

	"gorm.io/gorm"

	"github.com/rotas-project/rotas/internal/aggregate"
)

// Result is a finalized composer bound to a database handle. Selectivity is propagated
// file → commit → vulnerability → commit → file, so every accessor reports over the
// same jointly narrowed population. Accessors re-derive their result on each call.
type Result struct {
	c  Composer
	db *gorm.DB
}

// Finalize binds the composer to db. Calling it again on the same composer yields an
// equivalent Result.
func (c Composer) Finalize(db *gorm.DB) *Result {
	return &Result{c: c, db: db}
}

func (r *Result) root(ctx context.Context) *gorm.DB {
	return r.db.Session(&gorm.Session{NewDB: true, Context: ctx})
}

func (r *Result) vulnsBase(db *gorm.DB) *gorm.DB {
	return apply(db.Table("vulnerabilities"), db, r.c.vulns)
}

func (r *Result) filesBase(db *gorm.DB) *gorm.DB {
	return apply(db.Table("commit_files"), db, r.c.files)
}

// commits selects qualifying commits that satisfy the commit tier, belong to a vulnerability
// of the vulnerability tier and, when file filters are present, touch a matching file.
func (r *Result) commits(db *gorm.DB) *gorm.DB {
	q := apply(qualifying(db), db, r.c.commits).
		Where("commits.vulnerability_id IN (?)", r.vulnsBase(db).Select("vulnerabilities.id"))
	if len(r.c.files) > 0 {
		q = q.Where("commits.id IN (?)", r.filesBase(db).Select("commit_files.commit_id"))
	}
	return q
}

// vulnerabilities selects the vulnerability tier restricted to those with a matching commit.
func (r *Result) vulnerabilities(db *gorm.DB) *gorm.DB {
	return r.vulnsBase(db).
		Where("vulnerabilities.id IN (?)", r.commits(db).Select("commits.vulnerability_id"))
}

// files selects the file tier restricted to files of matching commits.
func (r *Result) files(db *gorm.DB) *gorm.DB {
	return r.filesBase(db).
		Where("commit_files.commit_id IN (?)", r.commits(db).Select("commits.id"))
}

// Total is the number of distinct vulnerabilities in the narrowed population.
func (r *Result) Total(ctx context.Context) (int, error) {
	var n int64
	err := r.vulnerabilities(r.root(ctx)).Count(&n).Error
	return int(n), err
}

// VulnerabilityIDs lists the narrowed vulnerability ids in ascending order.
func (r *Result) VulnerabilityIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.vulnerabilities(r.root(ctx)).
		Order("vulnerabilities.id").
		Pluck("vulnerabilities.id", &ids).Error
	return ids, err
}

// CountsByCWE counts narrowed vulnerabilities per CWE id.
func (r *Result) CountsByCWE(ctx context.Context) (map[string]int, error) {
	db := r.root(ctx)
	q := db.Table("vulnerability_cwes").
		Select("vulnerability_cwes.cwe_id AS grp, COUNT(DISTINCT vulnerability_cwes.vulnerability_id) AS cnt").
		Where("vulnerability_cwes.vulnerability_id IN (?)", r.vulnerabilities(db).Select("vulnerabilities.id")).
		Group("vulnerability_cwes.cwe_id")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountsByBFClass counts narrowed vulnerabilities per Bugs Framework class name.
func (r *Result) CountsByBFClass(ctx context.Context) (map[string]int, error) {
	db := r.root(ctx)
	q := db.Table("vulnerability_cwes").
		Select("bf_classes.name AS grp, COUNT(DISTINCT vulnerability_cwes.vulnerability_id) AS cnt").
		Joins("JOIN cwe_bf_classes ON cwe_bf_classes.cwe_id = vulnerability_cwes.cwe_id").
		Joins("JOIN bf_classes ON bf_classes.id = cwe_bf_classes.bf_class_id").
		Where("vulnerability_cwes.vulnerability_id IN (?)", r.vulnerabilities(db).Select("vulnerabilities.id")).
		Group("bf_classes.name")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountsByLanguage counts narrowed commits per repository language.
func (r *Result) CountsByLanguage(ctx context.Context) (map[string]int, error) {
	db := r.root(ctx)
	q := r.commits(db).
		Select("repositories.language AS grp, COUNT(*) AS cnt").
		Joins("JOIN repositories ON repositories.id = commits.repository_id").
		Group("repositories.language")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountsByPatchCount counts narrowed vulnerabilities per number of qualifying commits.
func (r *Result) CountsByPatchCount(ctx context.Context) (map[string]int, error) {
	db := r.root(ctx)
	perVuln := qualifying(db).
		Select("commits.vulnerability_id, COUNT(*) AS patches").
		Where("commits.vulnerability_id IN (?)", r.vulnerabilities(db).Select("vulnerabilities.id")).
		Group("commits.vulnerability_id")
	q := db.Table("(?) AS per_vuln", perVuln).
		Select("per_vuln.patches AS grp, COUNT(*) AS cnt").
		Group("per_vuln.patches")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountsByChanges counts narrowed commits per change count.
func (r *Result) CountsByChanges(ctx context.Context) (map[string]int, error) {
	q := r.commits(r.root(ctx)).
		Select("commits.changes AS grp, COUNT(*) AS cnt").
		Group("commits.changes")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountsByFiles counts narrowed commits per touched file count.
func (r *Result) CountsByFiles(ctx context.Context) (map[string]int, error) {
	q := r.commits(r.root(ctx)).
		Select("commits.files_count AS grp, COUNT(*) AS cnt").
		Group("commits.files_count")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountsByExtension counts narrowed files per extension.
func (r *Result) CountsByExtension(ctx context.Context) (map[string]int, error) {
	q := r.files(r.root(ctx)).
		Select("commit_files.extension AS grp, COUNT(*) AS cnt").
		Group("commit_files.extension")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountsByDiffBlockCount counts narrowed files per number of hunks. Files without hunks count under "0".
func (r *Result) CountsByDiffBlockCount(ctx context.Context) (map[string]int, error) {
	db := r.root(ctx)
	hunks := db.Table("diff_blocks").
		Select("diff_blocks.commit_file_id, COUNT(*) AS blocks").
		Group("diff_blocks.commit_file_id")
	q := r.files(db).
		Select("COALESCE(hunks.blocks, 0) AS grp, COUNT(*) AS cnt").
		Joins("LEFT JOIN (?) AS hunks ON hunks.commit_file_id = commit_files.id", hunks).
		Group("COALESCE(hunks.blocks, 0)")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// Counts is every grouped count of a Result plus its total.
type Counts struct {
	Total      int
	CWE        map[string]int
	BFClasses  map[string]int
	Languages  map[string]int
	Patches    map[string]int
	Changes    map[string]int
	Files      map[string]int
	Extensions map[string]int
	DiffBlocks map[string]int
}

// All runs every accessor, stopping at the first error.
func (r *Result) All(ctx context.Context) (Counts, error) {
	var (
		out Counts
		err error
	)
	if out.Total, err = r.Total(ctx); err != nil {
		return out, err
	}
	steps := []struct {
		dst *map[string]int
		fn  func(context.Context) (map[string]int, error)
	}{
		{&out.CWE, r.CountsByCWE},
		{&out.BFClasses, r.CountsByBFClass},
		{&out.Languages, r.CountsByLanguage},
		{&out.Patches, r.CountsByPatchCount},
		{&out.Changes, r.CountsByChanges},
		{&out.Files, r.CountsByFiles},
		{&out.Extensions, r.CountsByExtension},
		{&out.DiffBlocks, r.CountsByDiffBlockCount},
	}
	for _, s := range steps {
		if *s.dst, err = s.fn(ctx); err != nil {
			return out, err
		}
	}
	return out, nil
}
