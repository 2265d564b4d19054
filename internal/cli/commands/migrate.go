package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rotas-project/rotas/database"
)

func Migrate(app *Application) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update the tables of a development database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withDB(cmd.Context(), func(db database.DBConnection) error {
				if err := database.Migrate(db); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				app.Log.Info("database migrated")
				return nil
			})
		},
	}
}

func Seed(app *Application) *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "migrate the database and load a YAML fixture into it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return app.withDB(cmd.Context(), func(db database.DBConnection) error {
				if err := database.Migrate(db); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				n, err := database.LoadFixtures(db, f)
				if err != nil {
					return err
				}
				app.Log.Info("fixture loaded", zap.String("file", args[0]), zap.Int("rows", n))
				fmt.Fprintf(cmd.OutOrStdout(), "%d rows loaded from %s\n", n, args[0])
				return nil
			})
		},
	}
}
