// Package vulnerabilities defines the GraphQL types for vulnerability records.
package vulnerabilities

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/platform"
	"github.com/rotas-project/rotas/model"
)

// SeverityType is the GraphQL Enum for vulnerability severity levels.
var SeverityType = graphql.NewEnum(graphql.EnumConfig{
	Name: "Severity",
	Values: graphql.EnumValueConfigMap{
		"CRITICAL": &graphql.EnumValueConfig{Value: "CRITICAL"},
		"HIGH":     &graphql.EnumValueConfig{Value: "HIGH"},
		"MEDIUM":   &graphql.EnumValueConfig{Value: "MEDIUM"},
		"LOW":      &graphql.EnumValueConfig{Value: "LOW"},
		"NONE":     &graphql.EnumValueConfig{Value: "NONE"},
	},
})

// ReferenceType is the GraphQL Object for an external reference and its tags.
var ReferenceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Reference",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.Int},
		"url":  &graphql.Field{Type: graphql.String},
		"tags": &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

// GetVulnerabilityType returns the vulnerability type. cweType and commitType are injected to
// resolve the weakness and fix relations.
func GetVulnerabilityType(db database.DBConnection, cweType, commitType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Vulnerability",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"assigner":    &graphql.Field{Type: graphql.String},
			"severity": &graphql.Field{
				Type: SeverityType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vuln, _ := p.Source.(model.Vulnerability)
					if vuln.Severity == nil {
						return nil, nil
					}
					return *vuln.Severity, nil
				},
			},
			"exploitability":     &graphql.Field{Type: graphql.Float},
			"impact":             &graphql.Field{Type: graphql.Float},
			"published_date":     &graphql.Field{Type: graphql.DateTime},
			"last_modified_date": &graphql.Field{Type: graphql.DateTime},
			"cwes": &graphql.Field{
				Type: graphql.NewList(cweType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vuln, _ := p.Source.(model.Vulnerability)
					return ResolveCWEs(p.Context, db, vuln.ID)
				},
			},
			"commits": &graphql.Field{
				Type: graphql.NewList(commitType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vuln, _ := p.Source.(model.Vulnerability)
					return ResolveCommits(p.Context, db, vuln.ID)
				},
			},
			"references": &graphql.Field{
				Type: graphql.NewList(ReferenceType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vuln, _ := p.Source.(model.Vulnerability)
					return ResolveReferences(p.Context, db, vuln.ID)
				},
			},
			"configurations": &graphql.Field{
				Type: graphql.NewList(platform.ConfigurationType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					vuln, _ := p.Source.(model.Vulnerability)
					return ResolveConfigurations(p.Context, db, vuln.ID)
				},
			},
		},
	})
}
