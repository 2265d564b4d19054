package git

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
	"github.com/rotas-project/rotas/internal/services"
)

func threshold(args map[string]interface{}) *int {
	if v, ok := common.Int(args, "filter_counts"); ok {
		return &v
	}
	return nil
}

// GetQueryFields returns the repository, commit and file queries
func GetQueryFields(db database.DBConnection, repositoryType, commitType *graphql.Object) graphql.Fields {
	linkArgs := graphql.FieldConfigArgument{
		"filter_counts": &graphql.ArgumentConfig{Type: graphql.Int},
	}

	return graphql.Fields{
		"commit": &graphql.Field{
			Type: commitType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := common.String(p.Args, "id")
				return ResolveCommit(p.Context, db, id)
			},
		},
		"repository": &graphql.Field{
			Type:        repositoryType,
			Description: "Repository with at least one commit",
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := common.String(p.Args, "id")
				return ResolveRepository(p.Context, db, id, true)
			},
		},
		"repositories": &graphql.Field{
			Type: graphql.NewList(repositoryType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveRepositories(p.Context, db)
			},
		},
		"languageExtensionLinksCount": &graphql.Field{
			Type: graphql.NewList(common.LinkCountType),
			Args: linkArgs,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveLanguageExtensionLinks(p.Context, db, threshold(p.Args))
			},
		},
		"langProductLinksCount": &graphql.Field{
			Type: graphql.NewList(common.LinkCountType),
			Args: linkArgs,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveLanguageProductLinks(p.Context, db, threshold(p.Args))
			},
		},
		"swTypeVulnerabilityProfile": &graphql.Field{
			Type:        common.CountListType,
			Description: "CWE counts of the vulnerabilities fixed in repositories of a software type",
			Args: graphql.FieldConfigArgument{
				"sw_type": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"repo_id": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				swType, _ := common.String(p.Args, "sw_type")
				repoID, _ := common.String(p.Args, "repo_id")
				return common.Sorted(CountSoftwareTypeCWEs(p.Context, db, swType, repoID))
			},
		},
		"topicsCount":                   common.CountField(db, "Repositories per topic", CountTopics),
		"commitKindCount":               common.CountField(db, "Commits per kind", CountCommitKinds),
		"commitsAvailability":           common.CountField(db, "Commits per availability", CountCommitsAvailability),
		"commitsState":                  common.CountField(db, "Commits per collection state", CountCommitsState),
		"commitsFilesCount":             common.CountField(db, "Commits per number of files", CountCommitsFiles),
		"commitsChangesCount":           common.CountField(db, "Commits per number of changes", CountCommitsChanges),
		"repositoriesCommitsFrequency":  common.CountField(db, "Repositories per number of fix commits", CountRepositoriesCommitsFrequency),
		"repositoriesAvailability":      common.CountField(db, "Repositories per availability", CountRepositoriesAvailability),
		"repositoriesLanguageCount":     common.CountField(db, "Repositories per language", CountRepositoriesLanguage),
		"repositoriesSoftwareTypeCount": common.CountField(db, "Repositories per software type", CountRepositoriesSoftwareType),
		"filesExtensions":               common.CountField(db, "Files per extension", CountFilesExtensions),
		"filesChangesCount":             common.CountField(db, "Files per number of changes", CountFilesChanges),
		"filesStatuses":                 common.CountField(db, "Files per status", CountFilesStatuses),
	}
}

// GetMutationFields returns the repository mutations
func GetMutationFields(svc *services.Service, repositoryType *graphql.Object) graphql.Fields {
	payload := graphql.NewObject(graphql.ObjectConfig{
		Name: "RepositorySoftwareTypePayload",
		Fields: graphql.Fields{
			"repository": &graphql.Field{Type: repositoryType},
		},
	})

	return graphql.Fields{
		"repositorySoftwareType": &graphql.Field{
			Type:        payload,
			Description: "Tag a repository with a software type",
			Args: graphql.FieldConfigArgument{
				"id":               &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"software_type_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := common.String(p.Args, "id")
				typeID, _ := common.Int(p.Args, "software_type_id")
				repo, err := svc.EditRepositorySoftwareType(p.Context, id, typeID)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"repository": *repo}, nil
			},
		},
	}
}
