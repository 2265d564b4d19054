package profiling

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
)

// GetQueryFields returns the profileCount query
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		"profileCount": &graphql.Field{
			Type:        ProfileCountType,
			Description: "Narrow the vulnerabilities by weakness, fix and file criteria and count what is left",
			Args: graphql.FieldConfigArgument{
				"bf_class":         &graphql.ArgumentConfig{Type: graphql.String},
				"cwe_ids":          &graphql.ArgumentConfig{Type: graphql.NewList(graphql.Int)},
				"has_exploit":      &graphql.ArgumentConfig{Type: graphql.Boolean},
				"has_advisory":     &graphql.ArgumentConfig{Type: graphql.Boolean},
				"start_year":       &graphql.ArgumentConfig{Type: graphql.Int},
				"end_year":         &graphql.ArgumentConfig{Type: graphql.Int},
				"start_score":      &graphql.ArgumentConfig{Type: graphql.Float},
				"end_score":        &graphql.ArgumentConfig{Type: graphql.Float},
				"language":         &graphql.ArgumentConfig{Type: graphql.String},
				"patch_count":      &graphql.ArgumentConfig{Type: graphql.Int},
				"min_changes":      &graphql.ArgumentConfig{Type: graphql.Int},
				"max_changes":      &graphql.ArgumentConfig{Type: graphql.Int},
				"min_files":        &graphql.ArgumentConfig{Type: graphql.Int},
				"max_files":        &graphql.ArgumentConfig{Type: graphql.Int},
				"extensions":       &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				"diff_block_count": &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveProfileCount(p.Context, db, p.Args)
			},
		},
	}
}
