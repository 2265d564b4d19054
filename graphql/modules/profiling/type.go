// Package profiling exposes the analytical filter composer as a GraphQL query.
package profiling

import (
	"github.com/graphql-go/graphql"

	"github.com/rotas-project/rotas/graphql/modules/common"
)

// ProfileCountType is the breakdown of the vulnerabilities left after narrowing.
var ProfileCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProfileCount",
	Fields: graphql.Fields{
		"total":       &graphql.Field{Type: graphql.Int},
		"classes":     &graphql.Field{Type: common.CountListType},
		"cwe":         &graphql.Field{Type: common.CountListType},
		"languages":   &graphql.Field{Type: common.CountListType},
		"patches":     &graphql.Field{Type: common.CountListType},
		"changes":     &graphql.Field{Type: common.CountListType},
		"files":       &graphql.Field{Type: common.CountListType},
		"extensions":  &graphql.Field{Type: common.CountListType},
		"diff_blocks": &graphql.Field{Type: common.CountListType},
	},
})
