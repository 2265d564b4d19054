package datasets

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
	"github.com/rotas-project/rotas/internal/services"
	"github.com/rotas-project/rotas/model"
)

// GetQueryFields returns the dataset and profile queries
func GetQueryFields(db database.DBConnection, svc *services.Service, datasetType, profileType *graphql.Object) graphql.Fields {
	return graphql.Fields{
		"dataset": &graphql.Field{
			Type: datasetType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := common.RequiredID(p.Args, "id")
				if err != nil {
					return nil, err
				}
				return ResolveDataset(p.Context, db, id)
			},
		},
		"datasets": &graphql.Field{
			Type: graphql.NewList(datasetType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveDatasets(p.Context, db)
			},
		},
		"profiles": &graphql.Field{
			Type: graphql.NewList(profileType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveProfiles(p.Context, db)
			},
		},
		"datasetsOverlap": &graphql.Field{
			Type:        graphql.Float,
			Description: "Percentage of the source dataset also in the target dataset",
			Args: graphql.FieldConfigArgument{
				"src_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				"tgt_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				src, _ := common.Int(p.Args, "src_id")
				tgt, _ := common.Int(p.Args, "tgt_id")
				return svc.DatasetsOverlap(p.Context, src, tgt)
			},
		},
	}
}

func payload(name, field string, t *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			field: &graphql.Field{Type: t},
		},
	})
}

func datasetPayload(d *model.Dataset, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"dataset": *d}, nil
}

// GetMutationFields returns the dataset and profile mutations
func GetMutationFields(svc *services.Service, datasetType, profileType *graphql.Object) graphql.Fields {
	datasetID := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
	}

	return graphql.Fields{
		"createDataset": &graphql.Field{
			Type:        payload("CreateDataset", "dataset", datasetType),
			Description: "Create a dataset, filled from a profile when one is given",
			Args: graphql.FieldConfigArgument{
				"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"description": &graphql.ArgumentConfig{Type: graphql.String},
				"profile_id":  &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var in services.DatasetInput
				if err := common.Decode(p.Args, &in); err != nil {
					return nil, err
				}
				return datasetPayload(svc.CreateDataset(p.Context, in))
			},
		},
		"createProfile": &graphql.Field{
			Type: payload("CreateProfile", "profile", profileType),
			Args: graphql.FieldConfigArgument{
				"name":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"has_code":      &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				"has_exploit":   &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				"has_advisory":  &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				"single_commit": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				"start_year":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1987},
				"end_year":      &graphql.ArgumentConfig{Type: graphql.Int},
				"start_score":   &graphql.ArgumentConfig{Type: graphql.Float},
				"end_score":     &graphql.ArgumentConfig{Type: graphql.Float},
				"min_changes":   &graphql.ArgumentConfig{Type: graphql.Int},
				"max_changes":   &graphql.ArgumentConfig{Type: graphql.Int},
				"min_files":     &graphql.ArgumentConfig{Type: graphql.Int},
				"max_files":     &graphql.ArgumentConfig{Type: graphql.Int},
				"extensions":    &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				"cwe_ids":       &graphql.ArgumentConfig{Type: graphql.NewList(graphql.Int)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var in services.ProfileInput
				if err := common.Decode(p.Args, &in); err != nil {
					return nil, err
				}
				profile, err := svc.CreateProfile(p.Context, in)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"profile": *profile}, nil
			},
		},
		"removeDataset": &graphql.Field{
			Type: payload("RemoveDataset", "dataset", datasetType),
			Args: datasetID,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := common.Int(p.Args, "id")
				return datasetPayload(svc.RemoveDataset(p.Context, id))
			},
		},
		"removeDatasetVulnerabilities": &graphql.Field{
			Type: payload("RemoveDatasetVulnerabilities", "dataset", datasetType),
			Args: datasetID,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := common.Int(p.Args, "id")
				return datasetPayload(svc.RemoveDatasetVulnerabilities(p.Context, id))
			},
		},
		"addVulnerabilitiesToDataset": &graphql.Field{
			Type: payload("AddVulnerabilitiesToDataset", "dataset", datasetType),
			Args: graphql.FieldConfigArgument{
				"dataset_id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"vulnerability_ids": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.String))},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := common.RequiredID(p.Args, "dataset_id")
				if err != nil {
					return nil, err
				}
				var in struct {
					IDs []string `mapstructure:"vulnerability_ids"`
				}
				if err := common.Decode(p.Args, &in); err != nil {
					return nil, err
				}
				return datasetPayload(svc.AddVulnerabilitiesToDataset(p.Context, id, in.IDs))
			},
		},
		"editDataset": &graphql.Field{
			Type: payload("EditDataset", "dataset", datasetType),
			Args: graphql.FieldConfigArgument{
				"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				"name":        &graphql.ArgumentConfig{Type: graphql.String},
				"description": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := common.Int(p.Args, "id")
				var in struct {
					Name        *string `mapstructure:"name"`
					Description *string `mapstructure:"description"`
				}
				if err := common.Decode(p.Args, &in); err != nil {
					return nil, err
				}
				return datasetPayload(svc.EditDataset(p.Context, id, in.Name, in.Description))
			},
		},
	}
}
