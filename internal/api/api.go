// Package api builds the fiber application serving the GraphQL schema.
package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql"
	"github.com/rotas-project/rotas/internal/config"
	"github.com/rotas-project/rotas/internal/version"
	"github.com/rotas-project/rotas/restapi"
)

// NewFiberApp creates the schema over db and mounts every route on a new fiber app.
func NewFiberApp(db database.DBConnection, cfg config.Config, log *zap.Logger) (*fiber.App, error) {
	schema, err := graphql.CreateSchema(db, log)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               version.ApplicationName,
		DisableStartupMessage: cfg.Production(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	restapi.SetupRoutes(app, schema, cfg, log)
	return app, nil
}
