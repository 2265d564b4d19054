// Package weakness defines the GraphQL types for CWEs and their Bugs Framework taxonomy.
package weakness

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/model"
)

// BFClassType is a Bugs Framework class.
var BFClassType = graphql.NewObject(graphql.ObjectConfig{
	Name: "BFClass",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.Int},
		"name": &graphql.Field{Type: graphql.String},
	},
})

// PhaseType is a Bugs Framework phase.
var PhaseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Phase",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: graphql.Int},
		"name":    &graphql.Field{Type: graphql.String},
		"acronym": &graphql.Field{Type: graphql.String},
	},
})

// OperationType is a Bugs Framework operation.
var OperationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Operation",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.Int},
		"name": &graphql.Field{Type: graphql.String},
	},
})

// GetCWEType returns the CWE type; its taxonomy fields are resolved against db.
func GetCWEType(db database.DBConnection) *graphql.Object {
	nameArg := graphql.FieldConfigArgument{
		"name": &graphql.ArgumentConfig{Type: graphql.String},
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "CWE",
		Description: "Common Weakness Enumeration",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.Int},
			"name":           &graphql.Field{Type: graphql.String},
			"description":    &graphql.Field{Type: graphql.String},
			"abstraction_id": &graphql.Field{Type: graphql.Int},
			"abstraction": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cwe, _ := p.Source.(model.CWE)
					return ResolveAbstraction(p.Context, db, cwe)
				},
			},
			"bf_classes": &graphql.Field{
				Type: graphql.NewList(BFClassType),
				Args: nameArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cwe, _ := p.Source.(model.CWE)
					name, _ := p.Args["name"].(string)
					return ResolveBFClasses(p.Context, db, cwe.ID, name)
				},
			},
			"phases": &graphql.Field{
				Type: graphql.NewList(PhaseType),
				Args: graphql.FieldConfigArgument{
					"name":    &graphql.ArgumentConfig{Type: graphql.String},
					"acronym": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cwe, _ := p.Source.(model.CWE)
					name, _ := p.Args["name"].(string)
					acronym, _ := p.Args["acronym"].(string)
					return ResolvePhases(p.Context, db, cwe.ID, name, acronym)
				},
			},
			"operations": &graphql.Field{
				Type: graphql.NewList(OperationType),
				Args: nameArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cwe, _ := p.Source.(model.CWE)
					name, _ := p.Args["name"].(string)
					return ResolveOperations(p.Context, db, cwe.ID, name)
				},
			},
		},
	})
}
