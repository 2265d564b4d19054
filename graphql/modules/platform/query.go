package platform

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
)

// GetQueryFields returns the vendor, product and configuration queries
func GetQueryFields(db database.DBConnection, productType, vendorType *graphql.Object) graphql.Fields {
	return graphql.Fields{
		"productTypes": &graphql.Field{
			Type: graphql.NewList(ProductTypeType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveProductTypes(p.Context, db)
			},
		},
		"product": &graphql.Field{
			Type: productType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := common.RequiredID(p.Args, "id")
				if err != nil {
					return nil, err
				}
				return ResolveProduct(p.Context, db, id)
			},
		},
		"vendor": &graphql.Field{
			Type: vendorType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := common.RequiredID(p.Args, "id")
				if err != nil {
					return nil, err
				}
				return ResolveVendor(p.Context, db, id)
			},
		},
		"swTypeCount":           common.CountField(db, "Products per software type", CountSoftwareTypes),
		"productsCountByVendor": common.CountField(db, "Vendors per number of products", CountProductsByVendor),
		"vulnsCountByVendor":    common.CountField(db, "Vendors per number of affected vulnerabilities", CountVulnerabilitiesByVendor),
		"vulnsCountByProduct":   common.CountField(db, "Products per number of affected vulnerabilities", CountVulnerabilitiesByProduct),
		"configsVulnsCount":     common.CountField(db, "Vulnerabilities per number of configurations", CountConfigurationsByVulnerability),
		"configsCountByVendor":  common.CountField(db, "Vendors per number of configurations", CountConfigurationsByVendor),
		"configsCountByProduct": common.CountField(db, "Products per number of configurations", CountConfigurationsByProduct),
		"configsPartCount": &graphql.Field{
			Type:        graphql.NewList(common.NestedCountType),
			Description: "Vulnerable and non-vulnerable configurations per CPE part",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return CountConfigurationParts(p.Context, db)
			},
		},
	}
}
