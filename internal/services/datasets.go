package services

import (
	"context"
	"sort"
	"strings"

	"github.com/scylladb/go-set/strset"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rotas-project/rotas/model"
)

const insertBatchSize = 500

// DatasetInput describes a new dataset. With a ProfileID the dataset is filled with the
// vulnerabilities the profile's filters select.
type DatasetInput struct {
	Name        string  `mapstructure:"name"`
	Description *string `mapstructure:"description"`
	ProfileID   *int    `mapstructure:"profile_id"`
}

func checkDatasetText(name string, description *string) error {
	if len(name) > MaxNameLength {
		return invalidInput("Dataset name cannot be more than %d characters", MaxNameLength)
	}
	if description != nil && len(*description) > MaxDescriptionLength {
		return invalidInput("Dataset description cannot be more than %d characters", MaxDescriptionLength)
	}
	return nil
}

func linkVulnerabilities(tx *gorm.DB, datasetID int, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	rows := make([]model.DatasetVulnerability, len(ids))
	for i, id := range ids {
		rows[i] = model.DatasetVulnerability{DatasetID: datasetID, VulnerabilityID: id}
	}
	return tx.CreateInBatches(rows, insertBatchSize).Error
}

// CreateDataset stores a dataset, materializing the profile's vulnerability set when one is given.
func (s *Service) CreateDataset(ctx context.Context, in DatasetInput) (*model.Dataset, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidInput("Dataset name is required")
	}
	if err := checkDatasetText(name, in.Description); err != nil {
		return nil, err
	}

	d := model.Dataset{Name: name}
	if in.Description != nil {
		d.Description = *in.Description
	}
	var ids []string

	err := s.tx(ctx, func(tx *gorm.DB) error {
		taken, err := exists(tx, &model.Dataset{}, "name = ?", name)
		if err != nil {
			return err
		}
		if taken {
			return nameTaken("Dataset", name)
		}

		if in.ProfileID != nil {
			var p model.Profile
			if err := first(tx, &p, "Profile", *in.ProfileID); err != nil {
				return err
			}
			cweIDs, err := ProfileCWEIDs(tx, p.ID)
			if err != nil {
				return err
			}
			c, err := Compose(p, cweIDs)
			if err != nil {
				return err
			}
			if ids, err = c.Finalize(tx).VulnerabilityIDs(ctx); err != nil {
				return err
			}
		}

		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		return linkVulnerabilities(tx, d.ID, ids)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("dataset created", zap.Int("id", d.ID), zap.String("name", d.Name), zap.Int("vulnerabilities", len(ids)))
	return &d, nil
}

// AddVulnerabilitiesToDataset links the given vulnerabilities to a dataset. Ids already in the
// dataset are skipped; any unknown id aborts the whole operation.
func (s *Service) AddVulnerabilitiesToDataset(ctx context.Context, datasetID int, vulnerabilityIDs []string) (*model.Dataset, error) {
	if len(vulnerabilityIDs) == 0 {
		return nil, invalidInput("No vulnerabilities provided")
	}
	requested := strset.New(vulnerabilityIDs...)

	var (
		d     model.Dataset
		added []string
	)
	err := s.tx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &d, "Dataset", datasetID); err != nil {
			return err
		}

		var known []string
		if err := tx.Model(&model.Vulnerability{}).Where("id IN ?", requested.List()).Pluck("id", &known).Error; err != nil {
			return err
		}
		if missing := strset.Difference(requested, strset.New(known...)); !missing.IsEmpty() {
			list := missing.List()
			sort.Strings(list)
			return notFound("Vulnerability", list[0])
		}

		var present []string
		if err := tx.Model(&model.DatasetVulnerability{}).Where("dataset_id = ?", datasetID).Pluck("vulnerability_id", &present).Error; err != nil {
			return err
		}
		added = strset.Difference(requested, strset.New(present...)).List()
		sort.Strings(added)
		return linkVulnerabilities(tx, datasetID, added)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("dataset vulnerabilities added", zap.Int("id", datasetID), zap.Int("added", len(added)))
	return &d, nil
}

// RemoveDataset deletes a dataset and its vulnerability links.
func (s *Service) RemoveDataset(ctx context.Context, id int) (*model.Dataset, error) {
	var d model.Dataset
	err := s.tx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &d, "Dataset", id); err != nil {
			return err
		}
		if err := tx.Where("dataset_id = ?", id).Delete(&model.DatasetVulnerability{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Dataset{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("dataset removed", zap.Int("id", id))
	return &d, nil
}

// RemoveDatasetVulnerabilities empties a dataset, keeping the dataset itself.
func (s *Service) RemoveDatasetVulnerabilities(ctx context.Context, id int) (*model.Dataset, error) {
	var (
		d       model.Dataset
		removed int64
	)
	err := s.tx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &d, "Dataset", id); err != nil {
			return err
		}
		res := tx.Where("dataset_id = ?", id).Delete(&model.DatasetVulnerability{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("dataset emptied", zap.Int("id", id), zap.Int64("removed", removed))
	return &d, nil
}

// EditDataset renames a dataset and/or replaces its description. Nil or empty values are left as they are.
func (s *Service) EditDataset(ctx context.Context, id int, name, description *string) (*model.Dataset, error) {
	var d model.Dataset
	err := s.tx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &d, "Dataset", id); err != nil {
			return err
		}
		updates := map[string]interface{}{}

		if name != nil && *name != "" && *name != d.Name {
			if err := checkDatasetText(*name, nil); err != nil {
				return err
			}
			taken, err := exists(tx, &model.Dataset{}, "name = ? AND id <> ?", *name, id)
			if err != nil {
				return err
			}
			if taken {
				return nameTaken("Dataset", *name)
			}
			updates["name"] = *name
		}
		if description != nil && *description != "" {
			if err := checkDatasetText("", description); err != nil {
				return err
			}
			updates["description"] = *description
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&model.Dataset{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&d).Error
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DatasetsOverlap is the percentage of the source dataset's vulnerabilities that are also in
// the target dataset. An empty or unknown source yields 0.
func (s *Service) DatasetsOverlap(ctx context.Context, srcID, tgtID int) (float64, error) {
	src, err := s.datasetVulnerabilities(ctx, srcID)
	if err != nil {
		return 0, err
	}
	if src.IsEmpty() {
		return 0, nil
	}
	tgt, err := s.datasetVulnerabilities(ctx, tgtID)
	if err != nil {
		return 0, err
	}
	overlap := strset.Intersection(src, tgt)
	return float64(overlap.Size()) / float64(src.Size()) * 100, nil
}

func (s *Service) datasetVulnerabilities(ctx context.Context, id int) (*strset.Set, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.DatasetVulnerability{}).
		Where("dataset_id = ?", id).
		Pluck("vulnerability_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return strset.New(ids...), nil
}
