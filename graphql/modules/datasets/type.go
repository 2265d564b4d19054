// Package datasets defines the GraphQL types for user datasets and stored profiles.
package datasets

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
	"github.com/rotas-project/rotas/model"
)

// GetDatasetType returns the dataset type; vulnerabilityType is injected for its members.
func GetDatasetType(db database.DBConnection, vulnerabilityType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Dataset",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"vulnerabilities": &graphql.Field{
				Type: graphql.NewList(vulnerabilityType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d, _ := p.Source.(model.Dataset)
					return ResolveVulnerabilities(p.Context, db, d.ID)
				},
			},
			"size": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d, _ := p.Source.(model.Dataset)
					return CountVulnerabilities(p.Context, db, d.ID)
				},
			},
			"cwes": &graphql.Field{
				Type:        common.CountListType,
				Description: "Member vulnerabilities per CWE",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d, _ := p.Source.(model.Dataset)
					return common.Sorted(CountCWEs(p.Context, db, d.ID))
				},
			},
			"extensions": &graphql.Field{
				Type:        common.CountListType,
				Description: "Files per extension touched by the fixes of member vulnerabilities",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d, _ := p.Source.(model.Dataset)
					return common.Sorted(CountExtensions(p.Context, db, d.ID))
				},
			},
		},
	})
}

// GetProfileType returns the profile type, resolving its CWE ids against db.
func GetProfileType(db database.DBConnection) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.Int},
			"name":          &graphql.Field{Type: graphql.String},
			"start_year":    &graphql.Field{Type: graphql.Int},
			"end_year":      &graphql.Field{Type: graphql.Int},
			"start_score":   &graphql.Field{Type: graphql.Float},
			"end_score":     &graphql.Field{Type: graphql.Float},
			"min_changes":   &graphql.Field{Type: graphql.Int},
			"max_changes":   &graphql.Field{Type: graphql.Int},
			"min_files":     &graphql.Field{Type: graphql.Int},
			"max_files":     &graphql.Field{Type: graphql.Int},
			"has_code":      &graphql.Field{Type: graphql.Boolean},
			"has_exploit":   &graphql.Field{Type: graphql.Boolean},
			"has_advisory":  &graphql.Field{Type: graphql.Boolean},
			"single_commit": &graphql.Field{Type: graphql.Boolean},
			"extension":     &graphql.Field{Type: graphql.String},
			"cwe_ids": &graphql.Field{
				Type: graphql.NewList(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					profile, _ := p.Source.(model.Profile)
					return ResolveProfileCWEIDs(p.Context, db, profile.ID)
				},
			},
		},
	})
}
