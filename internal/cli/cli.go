// Package cli assembles the rotas command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/rotas-project/rotas/internal/cli/commands"
)

type config struct {
	app *commands.Application
}

type Option func(*config)

func WithApplication(app *commands.Application) Option {
	return func(config *config) {
		config.app = app
	}
}

func New(opts ...Option) *cobra.Command {
	cfg := &config{
		app: commands.NewApplication(),
	}
	for _, fn := range opts {
		fn(cfg)
	}

	app := cfg.app

	root := commands.Root(app)
	root.AddCommand(commands.Serve(app))
	root.AddCommand(commands.Migrate(app))
	root.AddCommand(commands.Seed(app))
	root.AddCommand(commands.Profile(app))
	root.AddCommand(commands.Token(app))
	root.AddCommand(commands.Version(app))

	return root
}
