package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/internal/api"
)

const shutdownTimeout = 10 * time.Second

func Serve(app *Application) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP server (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), app)
		},
	}
}

func runServe(ctx context.Context, app *Application) error {
	return app.withDB(ctx, func(db database.DBConnection) error {
		server, err := api.NewFiberApp(db, app.Config, app.Log)
		if err != nil {
			return err
		}

		errs := make(chan error, 1)
		go func() {
			app.Log.Info("starting server", zap.String("port", app.Config.Port), zap.String("environment", app.Config.Environment))
			errs <- server.Listen(":" + app.Config.Port)
		}()

		select {
		case err := <-errs:
			return err
		case <-ctx.Done():
			app.Log.Info("shutting down")
			return server.ShutdownWithTimeout(shutdownTimeout)
		}
	})
}
