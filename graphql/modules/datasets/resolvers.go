package datasets

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/internal/aggregate"
	"github.com/rotas-project/rotas/internal/services"
	"github.com/rotas-project/rotas/model"
)

func ResolveDataset(ctx context.Context, db database.DBConnection, id int) (interface{}, error) {
	var d model.Dataset
	err := db.Session(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func ResolveDatasets(ctx context.Context, db database.DBConnection) ([]model.Dataset, error) {
	var out []model.Dataset
	err := db.Session(ctx).Order("id").Find(&out).Error
	return out, err
}

func ResolveProfiles(ctx context.Context, db database.DBConnection) ([]model.Profile, error) {
	var out []model.Profile
	err := db.Session(ctx).Order("id").Find(&out).Error
	return out, err
}

func ResolveProfileCWEIDs(ctx context.Context, db database.DBConnection, profileID int) ([]int, error) {
	return services.ProfileCWEIDs(db.Session(ctx), profileID)
}

func members(db *gorm.DB, datasetID int) *gorm.DB {
	return db.Table("dataset_vulnerabilities").
		Select("vulnerability_id").
		Where("dataset_id = ?", datasetID)
}

func ResolveVulnerabilities(ctx context.Context, db database.DBConnection, datasetID int) ([]model.Vulnerability, error) {
	s := db.Session(ctx)
	var out []model.Vulnerability
	err := s.Where("id IN (?)", members(s, datasetID)).Order("id").Find(&out).Error
	return out, err
}

func CountVulnerabilities(ctx context.Context, db database.DBConnection, datasetID int) (int, error) {
	var n int64
	err := db.Session(ctx).Model(&model.DatasetVulnerability{}).Where("dataset_id = ?", datasetID).Count(&n).Error
	return int(n), err
}

func CountCWEs(ctx context.Context, db database.DBConnection, datasetID int) (map[string]int, error) {
	s := db.Session(ctx)
	q := s.Table("vulnerability_cwes").
		Select("cwe_id AS grp, COUNT(*) AS cnt").
		Where("vulnerability_id IN (?)", members(s, datasetID)).
		Group("cwe_id")
	return aggregate.Collect(q, aggregate.NotAvailable)
}

// CountExtensions counts the files of the fix commits of the dataset's vulnerabilities per extension.
// Parent commits are left out.
func CountExtensions(ctx context.Context, db database.DBConnection, datasetID int) (map[string]int, error) {
	s := db.Session(ctx)
	q := model.NonParentCommits(s.Table("commit_files").
		Select("commit_files.extension AS grp, COUNT(*) AS cnt").
		Joins("JOIN commits ON commits.id = commit_files.commit_id")).
		Where("commits.vulnerability_id IN (?)", members(s, datasetID)).
		Group("commit_files.extension")
	return aggregate.Collect(q, aggregate.NotAvailable)
}
