package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/internal/aggregate"
	"github.com/rotas-project/rotas/internal/profiler"
)

type profileFilters struct {
	Vulnerabilities profiler.VulnerabilityFilter
	Commits         profiler.CommitFilter
	Files           profiler.FileFilter
}

func (f profileFilters) compose() (profiler.Composer, error) {
	c, err := profiler.New().FilterVulnerabilities(f.Vulnerabilities)
	if err != nil {
		return c, err
	}
	if c, err = c.FilterCommitFiles(f.Files); err != nil {
		return c, err
	}
	return c.FilterCommits(f.Commits)
}

// profileFlags registers every filter flag and returns a function that reads them back.
// Bounds left unset stay nil, so an explicit 0 is a real bound.
func profileFlags(flags *pflag.FlagSet) func() profileFilters {
	var (
		bfClass, language string
		cweIDs            []int
		extensions        []string
		hasExploit        bool
		hasAdvisory       bool
		startScore        float64
		endScore          float64
		ints              = map[string]*int{}
	)
	flags.StringVar(&bfClass, "bf-class", "", "Bugs Framework class of the CWEs")
	flags.IntSliceVar(&cweIDs, "cwe", nil, "CWE ids (repeatable)")
	flags.BoolVar(&hasExploit, "has-exploit", false, "only vulnerabilities with an exploit reference")
	flags.BoolVar(&hasAdvisory, "has-advisory", false, "only vulnerabilities with an advisory reference")
	flags.Float64Var(&startScore, "start-score", 0, "minimum exploitability score")
	flags.Float64Var(&endScore, "end-score", 0, "maximum exploitability score")
	flags.StringVar(&language, "language", "", "repository language")
	flags.StringSliceVar(&extensions, "extension", nil, "file extensions (repeatable)")
	for name, usage := range map[string]string{
		"start-year":       "earliest publication year",
		"end-year":         "latest publication year",
		"patch-count":      "exact number of fix commits per vulnerability",
		"min-changes":      "minimum changed lines per commit",
		"max-changes":      "maximum changed lines per commit",
		"min-files":        "minimum changed files per commit",
		"max-files":        "maximum changed files per commit",
		"diff-block-count": "exact number of diff blocks per file",
	} {
		v := new(int)
		ints[name] = v
		flags.IntVar(v, name, 0, usage)
	}

	return func() profileFilters {
		set := func(name string) bool { return flags.Changed(name) }
		intOpt := func(name string) *int {
			if !set(name) {
				return nil
			}
			v := *ints[name]
			return &v
		}
		floatOpt := func(name string, v float64) *float64 {
			if !set(name) {
				return nil
			}
			return &v
		}
		strOpt := func(name, v string) *string {
			if !set(name) {
				return nil
			}
			return &v
		}

		return profileFilters{
			Vulnerabilities: profiler.VulnerabilityFilter{
				BFClass:     strOpt("bf-class", bfClass),
				CWEIDs:      cweIDs,
				HasExploit:  hasExploit,
				HasAdvisory: hasAdvisory,
				StartYear:   intOpt("start-year"),
				EndYear:     intOpt("end-year"),
				StartScore:  floatOpt("start-score", startScore),
				EndScore:    floatOpt("end-score", endScore),
			},
			Commits: profiler.CommitFilter{
				Language:   strOpt("language", language),
				PatchCount: intOpt("patch-count"),
				MinChanges: intOpt("min-changes"),
				MaxChanges: intOpt("max-changes"),
				MinFiles:   intOpt("min-files"),
				MaxFiles:   intOpt("max-files"),
			},
			Files: profiler.FileFilter{
				Extensions:     extensions,
				DiffBlockCount: intOpt("diff-block-count"),
			},
		}
	}
}

func Profile(app *Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "narrow the dataset with filters and print the resulting breakdowns",
		Args:  cobra.NoArgs,
	}
	read := profileFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		filters := read()
		return app.withDB(cmd.Context(), func(db database.DBConnection) error {
			return runProfile(cmd.Context(), db, filters, cmd.OutOrStdout())
		})
	}

	return cmd
}

func runProfile(ctx context.Context, db database.DBConnection, filters profileFilters, w io.Writer) error {
	c, err := filters.compose()
	if err != nil {
		return err
	}
	counts, err := c.Finalize(db.DB).All(ctx)
	if err != nil {
		return err
	}
	renderCounts(w, counts)
	return nil
}

func renderCounts(w io.Writer, counts profiler.Counts) {
	fmt.Fprintf(w, "Vulnerabilities: %d\n", counts.Total)
	sections := []struct {
		title  string
		counts map[string]int
	}{
		{"CWE", counts.CWE},
		{"BF Class", counts.BFClasses},
		{"Language", counts.Languages},
		{"Patches", counts.Patches},
		{"Changes", counts.Changes},
		{"Files", counts.Files},
		{"Extension", counts.Extensions},
		{"Diff Blocks", counts.DiffBlocks},
	}
	for _, s := range sections {
		if len(s.counts) == 0 {
			continue
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{s.title, "Count"})
		total := 0
		for _, p := range aggregate.Sorted(s.counts) {
			t.AppendRow(table.Row{p.Key, p.Value})
			total += p.Value
		}
		t.AppendFooter(table.Row{"Total", total})
		fmt.Fprintln(w)
		t.Render()
	}
}
