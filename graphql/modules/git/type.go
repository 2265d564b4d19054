// Package git defines the GraphQL types for repositories, fix commits and the files they touch.
package git

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/model"
)

// DiffBlockType is a single hunk of a file patch.
var DiffBlockType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DiffBlock",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.String},
		"a_start":        &graphql.Field{Type: graphql.Int},
		"a_count":        &graphql.Field{Type: graphql.Int},
		"b_start":        &graphql.Field{Type: graphql.Int},
		"b_count":        &graphql.Field{Type: graphql.Int},
		"commit_file_id": &graphql.Field{Type: graphql.String},
	},
})

// GetGitTypes returns the repository, commit and commit file types. Relations between them are
// resolved against db.
func GetGitTypes(db database.DBConnection) (repositoryType, commitType, commitFileType *graphql.Object) {
	commitFileType = graphql.NewObject(graphql.ObjectConfig{
		Name: "CommitFile",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"filename":  &graphql.Field{Type: graphql.String},
			"extension": &graphql.Field{Type: graphql.String},
			"changes":   &graphql.Field{Type: graphql.Int},
			"additions": &graphql.Field{Type: graphql.Int},
			"deletions": &graphql.Field{Type: graphql.Int},
			"status":    &graphql.Field{Type: graphql.String},
			"patch":     &graphql.Field{Type: graphql.String},
			"raw_url":   &graphql.Field{Type: graphql.String},
			"commit_id": &graphql.Field{Type: graphql.String},
			"content": &graphql.Field{
				Type:        graphql.String,
				Description: "File content after the commit, one line per row",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					file, _ := p.Source.(model.CommitFile)
					return ResolveFileContent(p.Context, db, file.ID)
				},
			},
			"diff_blocks": &graphql.Field{
				Type: graphql.NewList(DiffBlockType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					file, _ := p.Source.(model.CommitFile)
					return ResolveDiffBlocks(p.Context, db, file.ID)
				},
			},
		},
	})

	commitType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Commit",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"sha":              &graphql.Field{Type: graphql.String},
			"kind":             &graphql.Field{Type: graphql.String},
			"url":              &graphql.Field{Type: graphql.String},
			"message":          &graphql.Field{Type: graphql.String},
			"changes":          &graphql.Field{Type: graphql.Int},
			"additions":        &graphql.Field{Type: graphql.Int},
			"deletions":        &graphql.Field{Type: graphql.Int},
			"files_count":      &graphql.Field{Type: graphql.Int},
			"available":        &graphql.Field{Type: graphql.Boolean},
			"state":            &graphql.Field{Type: graphql.String},
			"date":             &graphql.Field{Type: graphql.DateTime},
			"vulnerability_id": &graphql.Field{Type: graphql.String},
			"repository_id":    &graphql.Field{Type: graphql.String},
			"files": &graphql.Field{
				Type: graphql.NewList(commitFileType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					commit, _ := p.Source.(model.Commit)
					return ResolveCommitFiles(p.Context, db, commit.ID)
				},
			},
		},
	})

	repositoryType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Repository",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"owner":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"language":    &graphql.Field{Type: graphql.String},
			"available":   &graphql.Field{Type: graphql.Boolean},
			"commits": &graphql.Field{
				Type: graphql.NewList(commitType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					repo, _ := p.Source.(model.Repository)
					return ResolveRepositoryCommits(p.Context, db, repo.ID)
				},
			},
			"commits_count": &graphql.Field{
				Type:        graphql.Int,
				Description: "Number of fix commits, parent commits excluded",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					repo, _ := p.Source.(model.Repository)
					return CountRepositoryCommits(p.Context, db, repo.ID)
				},
			},
			"topics": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					repo, _ := p.Source.(model.Repository)
					return ResolveTopics(p.Context, db, repo.ID)
				},
			},
			"software_type": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					repo, _ := p.Source.(model.Repository)
					return ResolveSoftwareType(p.Context, db, repo.ID)
				},
			},
			"vulnerability_count": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					repo, _ := p.Source.(model.Repository)
					return CountRepositoryVulnerabilities(p.Context, db, repo.ID)
				},
			},
		},
	})

	// Added after the fact: Repository already references Commit.
	commitType.AddFieldConfig("repository", &graphql.Field{
		Type: repositoryType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			commit, _ := p.Source.(model.Commit)
			return ResolveRepository(p.Context, db, commit.RepositoryID, false)
		},
	})

	return repositoryType, commitType, commitFileType
}
