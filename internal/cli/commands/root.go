package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rotas-project/rotas/internal/version"
)

func Root(app *Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:               version.ApplicationName,
		Short:             "serve the vulnerability dataset over GraphQL",
		Version:           version.ReadBuildInfo().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.Setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), app)
		},
	}

	cmd.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\n", version.ApplicationName))
	app.Config.AddFlags(cmd.PersistentFlags())

	return cmd
}
