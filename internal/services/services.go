// Package services implements the dataset, profile and repository mutations.
// Every operation runs in a single transaction and either applies fully or not at all.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/internal/profiler"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a name is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput is returned for missing or oversized arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidRange is returned when a filter bound is out of domain.
	ErrInvalidRange = profiler.ErrInvalidRange
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
)

// Service groups the mutations over one database.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db database.DBConnection, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db.DB, log: log}
}

func (s *Service) tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func notFound(entity string, id interface{}) error {
	return fmt.Errorf("%w: %s with id %v does not exist", ErrNotFound, entity, id)
}

func nameTaken(entity, name string) error {
	return fmt.Errorf("%w: %s with name %s already exists", ErrAlreadyExists, entity, name)
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func exists(tx *gorm.DB, m interface{}, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := tx.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func first(tx *gorm.DB, dst interface{}, entity string, id interface{}) error {
	err := tx.Where("id = ?", id).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	return err
}
