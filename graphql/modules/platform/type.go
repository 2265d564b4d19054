// Package platform defines the GraphQL types for vendors, products and CPE configurations.
package platform

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/model"
)

// ProductTypeType is a software type.
var ProductTypeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductType",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.Int},
		"name": &graphql.Field{Type: graphql.String},
	},
})

// ConfigurationType is a CPE configuration affected by a vulnerability.
var ConfigurationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Configuration",
	Fields: graphql.Fields{
		"id":               &graphql.Field{Type: graphql.Int},
		"part":             &graphql.Field{Type: graphql.String},
		"version":          &graphql.Field{Type: graphql.String},
		"vulnerable":       &graphql.Field{Type: graphql.Boolean},
		"vulnerability_id": &graphql.Field{Type: graphql.String},
		"vendor_id":        &graphql.Field{Type: graphql.Int},
		"product_id":       &graphql.Field{Type: graphql.Int},
	},
})

// GetPlatformTypes returns the product and vendor types, resolving their relations against db.
func GetPlatformTypes(db database.DBConnection) (productType *graphql.Object, vendorType *graphql.Object) {
	productType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.Int},
			"name":            &graphql.Field{Type: graphql.String},
			"vendor_id":       &graphql.Field{Type: graphql.Int},
			"product_type_id": &graphql.Field{Type: graphql.Int},
			"sw_type": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(model.Product)
					return ResolveProductSoftwareType(p.Context, db, product)
				},
			},
			"configurations": &graphql.Field{
				Type: graphql.NewList(ConfigurationType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(model.Product)
					return ResolveConfigurations(p.Context, db, "product_id", product.ID)
				},
			},
			"configurations_count": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(model.Product)
					return CountConfigurations(p.Context, db, "product_id", product.ID)
				},
			},
			"vulnerabilities_count": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(model.Product)
					return CountVulnerabilities(p.Context, db, "product_id", product.ID)
				},
			},
		},
	})

	vendorType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Vendor",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.Int},
			"name": &graphql.Field{Type: graphql.String},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vendor, _ := p.Source.(model.Vendor)
					return ResolveVendorProducts(p.Context, db, vendor.ID)
				},
			},
			"products_count": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vendor, _ := p.Source.(model.Vendor)
					return CountVendorProducts(p.Context, db, vendor.ID)
				},
			},
			"configurations": &graphql.Field{
				Type: graphql.NewList(ConfigurationType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vendor, _ := p.Source.(model.Vendor)
					return ResolveConfigurations(p.Context, db, "vendor_id", vendor.ID)
				},
			},
			"configurations_count": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vendor, _ := p.Source.(model.Vendor)
					return CountConfigurations(p.Context, db, "vendor_id", vendor.ID)
				},
			},
			"vulnerabilities_count": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vendor, _ := p.Source.(model.Vendor)
					return CountVulnerabilities(p.Context, db, "vendor_id", vendor.ID)
				},
			},
		},
	})

	return productType, vendorType
}
