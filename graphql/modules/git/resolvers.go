package git

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
	"github.com/rotas-project/rotas/internal/aggregate"
	"github.com/rotas-project/rotas/model"
)

// Awaiting is the key for commits and repositories whose availability or state was not collected yet.
const Awaiting = "awaiting"

func ResolveCommit(ctx context.Context, db database.DBConnection, id string) (interface{}, error) {
	var commit model.Commit
	err := db.Session(ctx).Where("id = ?", id).First(&commit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return commit, nil
}

// ResolveRepository returns the repository or nil. With withCommits set, repositories without any
// commit are treated as missing.
func ResolveRepository(ctx context.Context, db database.DBConnection, id string, withCommits bool) (interface{}, error) {
	q := db.Session(ctx).Where("repositories.id = ?", id)
	if withCommits {
		q = q.Where("EXISTS (SELECT 1 FROM commits WHERE commits.repository_id = repositories.id)")
	}
	var repo model.Repository
	err := q.First(&repo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func ResolveRepositories(ctx context.Context, db database.DBConnection) ([]model.Repository, error) {
	var out []model.Repository
	err := db.Session(ctx).Order("id").Find(&out).Error
	return out, err
}

func ResolveRepositoryCommits(ctx context.Context, db database.DBConnection, repoID string) ([]model.Commit, error) {
	var out []model.Commit
	err := db.Session(ctx).Where("repository_id = ?", repoID).Order("id").Find(&out).Error
	return out, err
}

func CountRepositoryCommits(ctx context.Context, db database.DBConnection, repoID string) (int, error) {
	var n int64
	err := model.NonParentCommits(db.Session(ctx).Model(&model.Commit{})).
		Where("commits.repository_id = ?", repoID).
		Count(&n).Error
	return int(n), err
}

// CountRepositoryVulnerabilities counts the distinct vulnerabilities fixed in the repository.
func CountRepositoryVulnerabilities(ctx context.Context, db database.DBConnection, repoID string) (int, error) {
	var n int64
	err := db.Session(ctx).Model(&model.Commit{}).
		Where("repository_id = ?", repoID).
		Distinct("vulnerability_id").
		Count(&n).Error
	return int(n), err
}

func ResolveTopics(ctx context.Context, db database.DBConnection, repoID string) ([]string, error) {
	var names []string
	err := db.Session(ctx).Table("topics").
		Joins("JOIN repository_topics ON repository_topics.topic_id = topics.id").
		Where("repository_topics.repository_id = ?", repoID).
		Order("topics.id").
		Pluck("topics.name", &names).Error
	return names, err
}

// ResolveSoftwareType returns the software type name the repository is tagged with, or nil.
func ResolveSoftwareType(ctx context.Context, db database.DBConnection, repoID string) (interface{}, error) {
	var names []string
	err := db.Session(ctx).Table("product_types").
		Joins("JOIN repository_product_types ON repository_product_types.product_type_id = product_types.id").
		Where("repository_product_types.repository_id = ?", repoID).
		Limit(1).
		Pluck("product_types.name", &names).Error
	if err != nil || len(names) == 0 {
		return nil, err
	}
	return names[0], nil
}

func ResolveCommitFiles(ctx context.Context, db database.DBConnection, commitID string) ([]model.CommitFile, error) {
	var out []model.CommitFile
	err := db.Session(ctx).Where("commit_id = ?", commitID).Order("id").Find(&out).Error
	return out, err
}

// ResolveFileContent joins the stored lines of a file in line order.
func ResolveFileContent(ctx context.Context, db database.DBConnection, fileID string) (string, error) {
	var lines []string
	err := db.Session(ctx).Model(&model.Line{}).
		Where("commit_file_id = ?", fileID).
		Order("number").
		Pluck("content", &lines).Error
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func ResolveDiffBlocks(ctx context.Context, db database.DBConnection, fileID string) ([]model.DiffBlock, error) {
	var out []model.DiffBlock
	err := db.Session(ctx).Where("commit_file_id = ?", fileID).Order("a_start").Find(&out).Error
	return out, err
}

func CountTopics(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("repository_topics").
		Select("topics.name AS grp, COUNT(*) AS cnt").
		Joins("JOIN topics ON topics.id = repository_topics.topic_id").
		Group("topics.name")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

type linkRow struct {
	Src sql.NullString
	Dst sql.NullString
	Cnt int
}

func collectLinks(q *gorm.DB, keep func(int) bool) ([]common.LinkCount, error) {
	var rows []linkRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]common.LinkCount, 0, len(rows))
	for _, r := range rows {
		if !keep(r.Cnt) {
			continue
		}
		link := common.LinkCount{At: aggregate.NotAvailable, To: aggregate.NotAvailable, Count: r.Cnt}
		if r.Src.Valid {
			link.At = r.Src.String
		}
		if r.Dst.Valid {
			link.To = r.Dst.String
		}
		out = append(out, link)
	}
	return out, nil
}

// ResolveLanguageExtensionLinks weighs repository language -> touched file extension pairs by the number
// of files. With a threshold only pairs with at least that many files are kept.
func ResolveLanguageExtensionLinks(ctx context.Context, db database.DBConnection, threshold *int) ([]common.LinkCount, error) {
	q := db.Session(ctx).Table("repositories").
		Select("repositories.language AS src, commit_files.extension AS dst, COUNT(*) AS cnt").
		Joins("JOIN commits ON commits.repository_id = repositories.id").
		Joins("JOIN commit_files ON commit_files.commit_id = commits.id").
		Group("repositories.language, commit_files.extension").
		Order("repositories.language, commit_files.extension")
	return collectLinks(q, func(n int) bool { return threshold == nil || *threshold == 0 || n >= *threshold })
}

// ResolveLanguageProductLinks weighs repository language -> affected software type pairs. With a
// threshold only pairs counted more often than it are kept.
func ResolveLanguageProductLinks(ctx context.Context, db database.DBConnection, threshold *int) ([]common.LinkCount, error) {
	q := db.Session(ctx).Table("repositories").
		Select("repositories.language AS src, product_types.name AS dst, COUNT(*) AS cnt").
		Joins("JOIN commits ON commits.repository_id = repositories.id").
		Joins("JOIN configurations ON configurations.vulnerability_id = commits.vulnerability_id").
		Joins("JOIN products ON products.id = configurations.product_id").
		Joins("JOIN product_types ON product_types.id = products.product_type_id").
		Where("repositories.language IS NOT NULL").
		Group("repositories.language, product_types.name").
		Order("repositories.language, product_types.name")
	return collectLinks(q, func(n int) bool { return threshold == nil || *threshold == 0 || n > *threshold })
}

// CountSoftwareTypeCWEs counts the CWEs of vulnerabilities fixed in repositories tagged with the named
// software type, leaving out excludeRepo when set.
func CountSoftwareTypeCWEs(ctx context.Context, db database.DBConnection, swType, excludeRepo string) (map[string]int, error) {
	s := db.Session(ctx)

	var pt model.ProductType
	err := s.Where("name = ?", swType).First(&pt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("software type %s not found", swType)
	}
	if err != nil {
		return nil, err
	}

	vulns := s.Table("commits").
		Select("commits.vulnerability_id").
		Joins("JOIN repository_product_types ON repository_product_types.repository_id = commits.repository_id").
		Where("repository_product_types.product_type_id = ?", pt.ID)
	if excludeRepo != "" {
		vulns = vulns.Where("commits.repository_id <> ?", excludeRepo)
	}

	q := s.Table("vulnerability_cwes").
		Select("cwe_id AS grp, COUNT(*) AS cnt").
		Where("vulnerability_id IN (?)", vulns).
		Group("cwe_id")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

func CountCommitKinds(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("commits").Select("kind AS grp, COUNT(*) AS cnt").Group("kind")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

func CountCommitsAvailability(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("commits").Select("available AS grp, COUNT(*) AS cnt").Group("available")
	return aggregate.CollectBool(q, Awaiting)
}

func CountCommitsState(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("commits").Select("state AS grp, COUNT(*) AS cnt").Group("state")
	return aggregate.Collect(q, Awaiting)
}

// countColumn groups the rows of table by a nullable numeric column, skipping rows where it is unknown.
func countColumn(s *gorm.DB, table, column string) (map[string]int, error) {
	q := s.Table(table).
		Select(column + " AS grp, COUNT(*) AS cnt").
		Where(column + " IS NOT NULL").
		Group(column)
	return aggregate.Collect(q, aggregate.NotAvailable)
}

func CountCommitsFiles(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	return countColumn(db.Session(ctx), "commits", "files_count")
}

func CountCommitsChanges(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	return countColumn(db.Session(ctx), "commits", "changes")
}

// CountRepositoriesCommitsFrequency reports how many repositories have each number of fix commits.
func CountRepositoriesCommitsFrequency(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	s := db.Session(ctx)
	return aggregate.CountOfCounts(s, model.NonParentCommits(s.Table("commits")).
		Select("COUNT(*) AS n").
		Group("commits.repository_id"))
}

func CountRepositoriesAvailability(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("repositories").Select("available AS grp, COUNT(*) AS cnt").Group("available")
	return aggregate.CollectBool(q, Awaiting)
}

func CountRepositoriesLanguage(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("repositories").Select("language AS grp, COUNT(*) AS cnt").Group("language")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

func CountRepositoriesSoftwareType(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("repository_product_types").
		Select("product_types.name AS grp, COUNT(*) AS cnt").
		Joins("JOIN product_types ON product_types.id = repository_product_types.product_type_id").
		Group("product_types.name")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

func CountFilesExtensions(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("commit_files").Select("extension AS grp, COUNT(*) AS cnt").Group("extension")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

func CountFilesChanges(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	return countColumn(db.Session(ctx), "commit_files", "changes")
}

func CountFilesStatuses(ctx context.Context, db database.DBConnection) (map[string]int, error) {
	q := db.Session(ctx).Table("commit_files").Select("status AS grp, COUNT(*) AS cnt").Group("status")
	return aggregate.Collect(q, aggregate.NotAvailable)
}
