// Package restapi provides the main router and initialization for the HTTP endpoints.
package restapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/rotas-project/rotas/internal/config"
	"github.com/rotas-project/rotas/internal/version"
	"github.com/rotas-project/rotas/restapi/modules/auth"
	"github.com/rotas-project/rotas/restapi/modules/gql"
)

// RequestLogger logs one line per request with its status and duration.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}

// SetupRoutes configures all routes
func SetupRoutes(app *fiber.App, schema graphql.Schema, cfg config.Config, log *zap.Logger) {
	// ========================================================================
	// MIDDLEWARE
	// ========================================================================
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		AllowMethods:     "GET, POST, OPTIONS",
	}))

	// Index
	app.Get("/", func(c *fiber.Ctx) error {
		info := version.ReadBuildInfo()
		return c.JSON(fiber.Map{
			"name":       version.ApplicationName,
			"version":    info.Version,
			"apiVersion": info.APIVersion,
			"graphql":    "/graphql",
		})
	})

	// GraphQL
	handler := gql.Handler(schema, gql.Options{JWTSecret: cfg.JWTSecret, Log: log})
	app.Get("/graphql", handler)
	app.Post("/graphql", handler)

	// Token check for clients
	app.Get("/auth/me", auth.RequireAuth(cfg.JWTSecret), func(c *fiber.Ctx) error {
		claims, ok := c.Locals(auth.ClaimsKey).(*auth.Claims)
		if !ok {
			return c.JSON(fiber.Map{"authenticated": false})
		}
		return c.JSON(fiber.Map{
			"authenticated": true,
			"username":      claims.Username,
			"role":          claims.Role,
		})
	})

	log.Info("API routes initialized")
}
