// Package database opens the relational store behind the GraphQL layer.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rotas-project/rotas/model"
)

// DBConnection holds the gorm handle shared by resolvers and services.
type DBConnection struct {
	DB *gorm.DB
}

// Options controls how the database is opened.
type Options struct {
	URL        string
	MaxElapsed time.Duration
	Debug      bool
}

// dialector picks the gorm driver from the URL scheme.
// postgres:// and postgresql:// go to PostgreSQL, everything else is a sqlite path or DSN.
func dialector(url string) gorm.Dialector {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url)
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
	default:
		return sqlite.Open(url)
	}
}

// Open connects once, without retry.
func Open(opts Options) (DBConnection, error) {
	if opts.URL == "" {
		return DBConnection{}, fmt.Errorf("database url is empty")
	}
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if opts.Debug {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	db, err := gorm.Open(dialector(opts.URL), cfg)
	if err != nil {
		return DBConnection{}, fmt.Errorf("unable to open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return DBConnection{}, fmt.Errorf("unable to get sql handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return DBConnection{}, fmt.Errorf("unable to reach database: %w", err)
	}
	return DBConnection{DB: db}, nil
}

// InitializeDatabase opens the database, retrying with exponential backoff until
// the context is done or opts.MaxElapsed passes.
func InitializeDatabase(ctx context.Context, opts Options, log *zap.Logger) (DBConnection, error) {
	b := backoff.NewExponentialBackOff()
	if opts.MaxElapsed > 0 {
		b.MaxElapsedTime = opts.MaxElapsed
	}

	var conn DBConnection
	attempt := 0
	op := func() error {
		attempt++
		c, err := Open(opts)
		if err != nil {
			log.Warn("database not ready", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		conn = c
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return DBConnection{}, err
	}
	log.Info("database connected", zap.Int("attempts", attempt))
	return conn, nil
}

// Migrate creates or updates every mapped table. Intended for development and test databases;
// production schemas are owned by the dataset build.
func Migrate(db DBConnection) error {
	return db.DB.AutoMigrate(model.All()...)
}

// Close releases the underlying connection pool.
func (c DBConnection) Close() error {
	if c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Session returns a handle bound to ctx for a single request.
func (c DBConnection) Session(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}
