package profiling

import (
	"context"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
	"github.com/rotas-project/rotas/internal/aggregate"
	"github.com/rotas-project/rotas/internal/profiler"
)

// Compose decodes the profileCount arguments into the three filter tiers and narrows a fresh composer
// with them, vulnerabilities first.
func Compose(args map[string]interface{}) (profiler.Composer, error) {
	var (
		vf profiler.VulnerabilityFilter
		cf profiler.CommitFilter
		ff profiler.FileFilter
	)
	for _, dst := range []interface{}{&vf, &cf, &ff} {
		if err := common.Decode(args, dst); err != nil {
			return profiler.Composer{}, err
		}
	}

	c, err := profiler.New().FilterVulnerabilities(vf)
	if err != nil {
		return c, err
	}
	if c, err = c.FilterCommitFiles(ff); err != nil {
		return c, err
	}
	return c.FilterCommits(cf)
}

func ResolveProfileCount(ctx context.Context, db database.DBConnection, args map[string]interface{}) (map[string]interface{}, error) {
	c, err := Compose(args)
	if err != nil {
		return nil, err
	}
	counts, err := c.Finalize(db.DB).All(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total":       counts.Total,
		"classes":     aggregate.Sorted(counts.BFClasses),
		"cwe":         aggregate.Sorted(counts.CWE),
		"languages":   aggregate.Sorted(counts.Languages),
		"patches":     aggregate.Sorted(counts.Patches),
		"changes":     aggregate.Sorted(counts.Changes),
		"files":       aggregate.Sorted(counts.Files),
		"extensions":  aggregate.Sorted(counts.Extensions),
		"diff_blocks": aggregate.Sorted(counts.DiffBlocks),
	}, nil
}
