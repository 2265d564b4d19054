// Package common defines the count types and argument helpers shared by the GraphQL modules.
package common

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/internal/aggregate"
)

// CountType is a single key/value entry of a count listing.
var CountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Count",
	Fields: graphql.Fields{
		"key":   &graphql.Field{Type: graphql.String},
		"value": &graphql.Field{Type: graphql.Int},
	},
})

// NestedCountType groups several counts under one key.
var NestedCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "NestedCount",
	Fields: graphql.Fields{
		"key":    &graphql.Field{Type: graphql.String},
		"values": &graphql.Field{Type: graphql.NewList(CountType)},
	},
})

// LinkCountType is a weighted edge between two categories, used for flow diagrams.
var LinkCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LinkCount",
	Fields: graphql.Fields{
		"at":    &graphql.Field{Type: graphql.String},
		"to":    &graphql.Field{Type: graphql.String},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

// CountListType is the return type of every count query.
var CountListType = graphql.NewList(CountType)

type NestedCount struct {
	Key    string           `json:"key"`
	Values []aggregate.Pair `json:"values"`
}

type LinkCount struct {
	At    string `json:"at"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// Sorted adapts a count query result to a GraphQL count listing ordered by key.
func Sorted(counts map[string]int, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return aggregate.Sorted(counts), nil
}

// CountFunc is a grouped count over the whole dataset.
type CountFunc func(ctx context.Context, db database.DBConnection) (map[string]int, error)

// CountField exposes fn as an argument-less count query.
func CountField(db database.DBConnection, description string, fn CountFunc) *graphql.Field {
	return &graphql.Field{
		Type:        CountListType,
		Description: description,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return Sorted(fn(p.Context, db))
		},
	}
}
