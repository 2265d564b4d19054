package graphql

import (
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/code"
	"github.com/rotas-project/rotas/graphql/modules/dashboard"
	"github.com/rotas-project/rotas/graphql/modules/datasets"
	"github.com/rotas-project/rotas/graphql/modules/git"
	"github.com/rotas-project/rotas/graphql/modules/pagination"
	"github.com/rotas-project/rotas/graphql/modules/platform"
	"github.com/rotas-project/rotas/graphql/modules/profiling"
	"github.com/rotas-project/rotas/graphql/modules/vulnerabilities"
	"github.com/rotas-project/rotas/graphql/modules/weakness"
	"github.com/rotas-project/rotas/internal/services"
)

func merge(dst graphql.Fields, src graphql.Fields) {
	for k, v := range src {
		dst[k] = v
	}
}

// CreateSchema assembles the complete GraphQL schema from all modules
func CreateSchema(db database.DBConnection, log *zap.Logger) (graphql.Schema, error) {
	svc := services.New(db, log)

	// Step 1: Initialize base types that don't have circular dependencies
	cweType := weakness.GetCWEType(db)
	productType, vendorType := platform.GetPlatformTypes(db)
	severityType := vulnerabilities.SeverityType

	// Step 2: Initialize git types (repository <-> commit are wired inside)
	repositoryType, commitType, commitFileType := git.GetGitTypes(db)

	// Step 3: Initialize vulnerability type (with dependency injection for circular refs)
	vulnerabilityType := vulnerabilities.GetVulnerabilityType(db, cweType, commitType)

	// Step 4: Initialize dataset and profile types
	datasetType := datasets.GetDatasetType(db, vulnerabilityType)
	profileType := datasets.GetProfileType(db)

	// Step 5: Build unified query fields from all modules
	queryFields := graphql.Fields{}

	// Add vulnerability queries (vulnerability, vulnerabilities, searchVulnerability)
	merge(queryFields, vulnerabilities.GetQueryFields(db, vulnerabilityType))

	// Add weakness queries (cwes, links)
	merge(queryFields, weakness.GetQueryFields(db, cweType))

	// Add git entity and count queries
	merge(queryFields, git.GetQueryFields(db, repositoryType, commitType))

	// Add platform entity and count queries
	merge(queryFields, platform.GetQueryFields(db, productType, vendorType))

	// Add Dashboard queries
	merge(queryFields, dashboard.GetQueryFields(db))

	// Add paged listings
	merge(queryFields, pagination.GetQueryFields(db, pagination.Types{
		Vulnerability: vulnerabilityType,
		Severity:      severityType,
		Commit:        commitType,
		Repository:    repositoryType,
		CommitFile:    commitFileType,
		Configuration: platform.ConfigurationType,
		Vendor:        vendorType,
		Product:       productType,
	}))

	// Add profileCount
	merge(queryFields, profiling.GetQueryFields(db))

	// Add dataset queries (dataset, datasets, profiles, datasetsOverlap)
	merge(queryFields, datasets.GetQueryFields(db, svc, datasetType, profileType))

	// Add functions
	merge(queryFields, code.GetQueryFields(db))

	// Step 6: Build mutation fields
	mutationFields := graphql.Fields{}
	merge(mutationFields, datasets.GetMutationFields(svc, datasetType, profileType))
	merge(mutationFields, git.GetMutationFields(svc, repositoryType))

	// Step 7: Create root objects
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: queryFields,
	})
	rootMutation := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Mutation",
		Fields: mutationFields,
	})

	// Step 8: Build and return final schema
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    rootQuery,
		Mutation: rootMutation,
	})
}
