package code

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
)

func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		"functions": &graphql.Field{
			Type: graphql.NewList(MethodBoundaryType),
			Args: graphql.FieldConfigArgument{
				"file_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				fileID, _ := common.String(p.Args, "file_id")
				return ResolveFunctions(p.Context, db, fileID)
			},
		},
	}
}
