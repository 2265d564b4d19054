// Package dashboard defines the GraphQL queries for dataset-wide metrics.
package dashboard

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		// Section 1: Top Cards (Overview)
		"stats": &graphql.Field{
			Type: StatsType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveStats(p.Context, db)
			},
		},
		// Section 2: Weaknesses
		"cweCounts":              common.CountField(db, "Vulnerabilities per CWE", CountCWEs),
		"cweMultiplicity":        common.CountField(db, "Vulnerabilities per number of CWEs", CountCWEMultiplicity),
		"vulnsCountBySofDevView": common.CountField(db, "CWE labels per software development category", CountBySoftwareDevelopmentView),
		// Section 3: References and assigners
		"tagsCount": common.CountField(db, "References per tag", CountTags),
		"assignersCount": &graphql.Field{
			Type: common.CountListType,
			Args: graphql.FieldConfigArgument{
				"company": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return common.Sorted(CountAssigners(p.Context, db, common.Bool(p.Args, "company")))
			},
		},
		// Section 4: Charts (Severity, year, exploitability)
		"vulnsByYear":         common.CountField(db, "Vulnerabilities per publication year", CountByYear),
		"vulnsSeverity":       common.CountField(db, "Vulnerabilities per severity", CountSeverity),
		"vulnsExploitability": common.CountField(db, "Vulnerabilities per exploitability score", CountExploitability),
	}
}
