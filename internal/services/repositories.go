package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rotas-project/rotas/model"
)

// EditRepositorySoftwareType tags a repository with a software type, replacing any previous tag.
func (s *Service) EditRepositorySoftwareType(ctx context.Context, repositoryID string, softwareTypeID int) (*model.Repository, error) {
	var repo model.Repository
	err := s.tx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &repo, "Repository", repositoryID); err != nil {
			return err
		}
		var pt model.ProductType
		if err := first(tx, &pt, "Software type", softwareTypeID); err != nil {
			return err
		}
		if err := tx.Where("repository_id = ?", repositoryID).Delete(&model.RepositoryProductType{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.RepositoryProductType{RepositoryID: repositoryID, ProductTypeID: softwareTypeID}).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("repository software type set", zap.String("repository", repositoryID), zap.Int("software_type", softwareTypeID))
	return &repo, nil
}
