// Package dashboard defines the GraphQL types for the dataset overview.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// StatsType represents the headline numbers of the dataset
var StatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"total":      &graphql.Field{Type: graphql.Int},
		"labeled":    &graphql.Field{Type: graphql.Int},
		"references": &graphql.Field{Type: graphql.Int},
		"commits":    &graphql.Field{Type: graphql.Int},
	},
})
