package vulnerabilities

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
)

func GetQueryFields(db database.DBConnection, vulnerabilityType *graphql.Object) graphql.Fields {
	return graphql.Fields{
		"vulnerability": &graphql.Field{
			Type: vulnerabilityType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := common.String(p.Args, "id")
				return ResolveVulnerability(p.Context, db, id)
			},
		},
		"vulnerabilities": &graphql.Field{
			Type: graphql.NewList(vulnerabilityType),
			Args: graphql.FieldConfigArgument{
				"id":    &graphql.ArgumentConfig{Type: graphql.ID},
				"first": &graphql.ArgumentConfig{Type: graphql.Int},
				"skip":  &graphql.ArgumentConfig{Type: graphql.Int},
				"last":  &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var args ListArgs
				if err := common.Decode(p.Args, &args); err != nil {
					return nil, err
				}
				return ResolveVulnerabilities(p.Context, db, args)
			},
		},
		"searchVulnerability": &graphql.Field{
			Type: graphql.NewList(vulnerabilityType),
			Args: graphql.FieldConfigArgument{
				"keyword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"limit":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: DefaultSearchLimit},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				keyword, _ := common.String(p.Args, "keyword")
				limit, _ := common.Int(p.Args, "limit")
				return SearchVulnerabilities(p.Context, db, keyword, limit)
			},
		},
	}
}
