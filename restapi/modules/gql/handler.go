// Package gql serves the GraphQL schema over HTTP.
package gql

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
	"go.uber.org/zap"

	"github.com/rotas-project/rotas/restapi/modules/auth"
)

// Request is a GraphQL request body, or the equivalent query string parameters of a GET.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Options configures the handler.
type Options struct {
	// JWTSecret guards mutations; empty leaves them open.
	JWTSecret string
	Log       *zap.Logger
}

func errorResponse(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"errors": []fiber.Map{{"message": msg}},
	})
}

func parseRequest(c *fiber.Ctx) (Request, error) {
	var req Request
	if c.Method() == fiber.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if vars := c.Query("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return req, err
			}
		}
		return req, nil
	}
	err := c.BodyParser(&req)
	return req, err
}

// IsMutation reports whether the operation selected by operationName is a mutation. A query
// that does not parse is reported as not a mutation; execution surfaces the syntax error.
func IsMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{Body: []byte(query), Name: "GraphQL request"}),
	})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}

// Handler executes GraphQL requests sent as GET query parameters or a POST JSON body.
// Mutations are only accepted over POST and need a valid token when a secret is set.
func Handler(schema graphql.Schema, opts Options) fiber.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		req, err := parseRequest(c)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if req.Query == "" {
			return errorResponse(c, fiber.StatusBadRequest, "Must provide query string")
		}

		if IsMutation(req.Query, req.OperationName) {
			if c.Method() == fiber.MethodGet {
				return errorResponse(c, fiber.StatusMethodNotAllowed, "Mutations must be sent with POST")
			}
			if opts.JWTSecret != "" {
				claims, err := auth.Authenticate(c, opts.JWTSecret)
				if err != nil {
					return errorResponse(c, fiber.StatusUnauthorized, "Authentication required")
				}
				log.Info("mutation", zap.String("user", claims.Username), zap.String("operation", req.OperationName))
			}
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})
		if result.HasErrors() {
			log.Debug("graphql errors", zap.Any("errors", result.Errors))
		}
		return c.JSON(result)
	}
}
