package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rotas-project/rotas/restapi/modules/auth"
)

func Token(app *Application) *cobra.Command {
	var (
		username string
		role     string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "issue a bearer token for the mutation API, signed with the configured jwt secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				return fmt.Errorf("--user is required")
			}
			token, err := auth.IssueJWT(app.Config.JWTSecret, username, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&username, "user", "u", "", "name recorded in the token")
	flags.StringVarP(&role, "role", "", "", "optional role claim")
	flags.DurationVarP(&ttl, "ttl", "", 24*time.Hour, "token lifetime")

	return cmd
}
