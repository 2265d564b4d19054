package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/internal/config"
	"github.com/rotas-project/rotas/internal/logger"
)

// Application carries the loaded configuration and logger shared by every command.
type Application struct {
	Config config.Config
	Log    *zap.Logger
	v      *viper.Viper
}

func NewApplication() *Application {
	return &Application{
		Config: config.Default(),
		Log:    zap.NewNop(),
		v:      config.NewViper(),
	}
}

// Setup binds the root flags, loads the configuration and builds the logger. It runs before
// every command that needs them.
func (a *Application) Setup(cmd *cobra.Command, _ []string) error {
	if err := a.Config.BindFlags(cmd.Root().PersistentFlags(), a.v); err != nil {
		return err
	}
	if err := a.Config.Load(a.v); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.Log = logger.Must(a.Config.Environment, a.Config.Log.Level)
	if a.Config.ConfigPath != "" {
		a.Log.Debug("using config file", zap.String("path", a.Config.ConfigPath))
	}
	return nil
}

// OpenDB connects to the configured database, retrying until the connect timeout.
func (a *Application) OpenDB(ctx context.Context) (database.DBConnection, error) {
	return database.InitializeDatabase(ctx, database.Options{
		URL:        a.Config.Database.URL,
		MaxElapsed: a.Config.Database.ConnectTimeout,
		Debug:      a.Config.Database.Debug,
	}, a.Log)
}

// withDB opens the database for the duration of fn.
func (a *Application) withDB(ctx context.Context, fn func(db database.DBConnection) error) error {
	db, err := a.OpenDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			a.Log.Warn("unable to close database", zap.Error(err))
		}
	}()
	return fn(db)
}
