package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rotas-project/rotas/internal/version"
)

func Version(_ *Application) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("show %s version information", version.ApplicationName),
		Args:  cobra.NoArgs,
		// no configuration is needed to report the version
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildInfo := version.ReadBuildInfo()
			out := cmd.OutOrStdout()

			switch format {
			case "text":
				fmt.Fprintln(out, "Application:       ", version.ApplicationName)
				fmt.Fprintln(out, "Version:           ", buildInfo.Version)
				fmt.Fprintln(out, "APIVersion:        ", buildInfo.APIVersion)
				fmt.Fprintln(out, "BuildDate:         ", buildInfo.BuildDate)
				fmt.Fprintln(out, "GitCommit:         ", buildInfo.GitCommit)
				fmt.Fprintln(out, "Platform:          ", buildInfo.Platform)
				fmt.Fprintln(out, "GoVersion:         ", buildInfo.GoVersion)
				fmt.Fprintln(out, "Compiler:          ", buildInfo.Compiler)

			case "json":
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", " ")
				err := enc.Encode(&struct {
					version.BuildInfo
					Application string `json:"application"`
				}{
					BuildInfo:   buildInfo,
					Application: version.ApplicationName,
				})
				if err != nil {
					return fmt.Errorf("failed to show version information: %w", err)
				}
			default:
				return fmt.Errorf("unsupported output format: %s", format)
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "output", "o", "text", "the format to show the results (allowable: [text json])")

	return cmd
}
