// Package code defines the GraphQL types for source-level data of commit files.
package code

import (
	"github.com/graphql-go/graphql"
)

// PositionType is a line and column in a file.
var PositionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Position",
	Fields: graphql.Fields{
		"line":   &graphql.Field{Type: graphql.Int},
		"column": &graphql.Field{Type: graphql.Int},
	},
})

// MethodBoundaryType is a function of a file with its span and source lines.
var MethodBoundaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MethodBoundary",
	Fields: graphql.Fields{
		"name":  &graphql.Field{Type: graphql.String},
		"start": &graphql.Field{Type: PositionType},
		"end":   &graphql.Field{Type: PositionType},
		"code":  &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})
