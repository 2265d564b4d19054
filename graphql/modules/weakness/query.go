package weakness

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
)

// GetQueryFields returns the weakness queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection, cweType *graphql.Object) graphql.Fields {
	return graphql.Fields{
		"cwes": &graphql.Field{
			Type: graphql.NewList(cweType),
			Args: graphql.FieldConfigArgument{
				"id":     &graphql.ArgumentConfig{Type: graphql.ID},
				"exists": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, ok, err := common.IntID(p.Args, "id")
				if err != nil {
					return nil, err
				}
				var filter *int
				if ok {
					filter = &id
				}
				return ResolveCWEs(p.Context, db, filter, common.Bool(p.Args, "exists"))
			},
		},
		"links": &graphql.Field{
			Type: graphql.NewList(common.LinkCountType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveLinks(p.Context, db)
			},
		},
	}
}
