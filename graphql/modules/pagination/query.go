package pagination

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
	"github.com/rotas-project/rotas/model"
)

// Types are the element types of the paged listings.
type Types struct {
	Vulnerability *graphql.Object
	Severity      *graphql.Enum
	Commit        *graphql.Object
	Repository    *graphql.Object
	CommitFile    *graphql.Object
	Configuration *graphql.Object
	Vendor        *graphql.Object
	Product       *graphql.Object
}

// VulnerabilityFilter narrows vulnerabilitiesPage.
type VulnerabilityFilter struct {
	Params   `mapstructure:",squash"`
	CWEIDs   []int    `mapstructure:"cwe_ids"`
	Severity []string `mapstructure:"severity"`
}

// RepositoryFilter narrows repositoriesPage. Repositories whose availability is unknown always
// pass the availability filter.
type RepositoryFilter struct {
	Params       `mapstructure:",squash"`
	Availability []bool   `mapstructure:"availability"`
	Language     []string `mapstructure:"language"`
}

func pageType(name string, element graphql.Output) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"hasNextPage":     &graphql.Field{Type: graphql.Boolean},
			"hasPreviousPage": &graphql.Field{Type: graphql.Boolean},
			"totalPages":      &graphql.Field{Type: graphql.Int},
			"totalResults":    &graphql.Field{Type: graphql.Int},
			"page":            &graphql.Field{Type: graphql.Int},
			"perPage":         &graphql.Field{Type: graphql.Int},
			"pages":           &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"elements":        &graphql.Field{Type: graphql.NewList(element)},
		},
	})
}

func pageArgs(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: DefaultPage},
		"per_page": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: DefaultPerPage},
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

// listing pages through a whole table in primary key order.
func listing[T any](db database.DBConnection, name string, element graphql.Output) *graphql.Field {
	return &graphql.Field{
		Type: pageType(name, element),
		Args: pageArgs(nil),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			var params Params
			if err := common.Decode(p.Args, &params); err != nil {
				return nil, err
			}
			var m T
			return Paginate[T](db.Session(p.Context).Model(&m), "id", params)
		},
	}
}

// GetQueryFields returns the paged listings
func GetQueryFields(db database.DBConnection, types Types) graphql.Fields {
	return graphql.Fields{
		"vulnerabilitiesPage": &graphql.Field{
			Type: pageType("VulnerabilitiesPage", types.Vulnerability),
			Args: pageArgs(graphql.FieldConfigArgument{
				"cwe_ids":  &graphql.ArgumentConfig{Type: graphql.NewList(graphql.Int)},
				"severity": &graphql.ArgumentConfig{Type: graphql.NewList(types.Severity)},
			}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var f VulnerabilityFilter
				if err := common.Decode(p.Args, &f); err != nil {
					return nil, err
				}
				return VulnerabilitiesPage(db.Session(p.Context), f)
			},
		},
		"repositoriesPage": &graphql.Field{
			Type: pageType("RepositoriesPage", types.Repository),
			Args: pageArgs(graphql.FieldConfigArgument{
				"availability": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.Boolean)},
				"language":     &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
			}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var f RepositoryFilter
				if err := common.Decode(p.Args, &f); err != nil {
					return nil, err
				}
				return RepositoriesPage(db.Session(p.Context), f)
			},
		},
		"commitsPage":        listing[model.Commit](db, "CommitsPage", types.Commit),
		"commitFilesPage":    listing[model.CommitFile](db, "CommitFilesPage", types.CommitFile),
		"configurationsPage": listing[model.Configuration](db, "ConfigurationsPage", types.Configuration),
		"vendorsPage":        listing[model.Vendor](db, "VendorsPage", types.Vendor),
		"productsPage":       listing[model.Product](db, "ProductsPage", types.Product),
	}
}
