package profiler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// ErrInvalidRange is returned when a bound is out of its domain or a min/max pair is inverted.
var ErrInvalidRange = errors.New("invalid range")

// MinYear is the earliest publication year accepted by year bounds.
const MinYear = 1987

// MaxScore bounds exploitability scores.
const MaxScore = 10.0

// VulnerabilityFilter restricts the vulnerability tier. Nil pointers, empty lists
// and false flags leave their dimension unfiltered.
type VulnerabilityFilter struct {
	BFClass     *string  `mapstructure:"bf_class"`
	CWEIDs      []int    `mapstructure:"cwe_ids"`
	HasExploit  bool     `mapstructure:"has_exploit"`
	HasAdvisory bool     `mapstructure:"has_advisory"`
	StartYear   *int     `mapstructure:"start_year"`
	EndYear     *int     `mapstructure:"end_year"`
	StartScore  *float64 `mapstructure:"start_score"`
	EndScore    *float64 `mapstructure:"end_score"`
}

// FileFilter restricts the commit file tier.
type FileFilter struct {
	Extensions     []string `mapstructure:"extensions"`
	DiffBlockCount *int     `mapstructure:"diff_block_count"`
}

// CommitFilter restricts the commit tier.
type CommitFilter struct {
	Language   *string `mapstructure:"language"`
	PatchCount *int    `mapstructure:"patch_count"`
	MinChanges *int    `mapstructure:"min_changes"`
	MaxChanges *int    `mapstructure:"max_changes"`
	MinFiles   *int    `mapstructure:"min_files"`
	MaxFiles   *int    `mapstructure:"max_files"`
}

func newErrors() *multierror.Error {
	return &multierror.Error{ErrorFormat: joinErrors}
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func invalid(merr *multierror.Error) error {
	if err := merr.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRange, err.Error())
	}
	return nil
}

// Validate checks year and score bounds against their domains and each other.
func (f VulnerabilityFilter) Validate() error {
	merr := newErrors()
	if f.StartScore != nil && *f.StartScore < 0 {
		merr = multierror.Append(merr, errors.New("Invalid min score"))
	}
	if f.EndScore != nil && (*f.EndScore > MaxScore || *f.EndScore < 0) {
		merr = multierror.Append(merr, errors.New("Invalid max score"))
	}
	if f.StartYear != nil && *f.StartYear < MinYear {
		merr = multierror.Append(merr, errors.New("Invalid start year"))
	}
	if f.EndYear != nil && (*f.EndYear > time.Now().Year()+1 || *f.EndYear < MinYear) {
		merr = multierror.Append(merr, errors.New("Invalid end year"))
	}
	if f.StartYear != nil && f.EndYear != nil && *f.StartYear > *f.EndYear {
		merr = multierror.Append(merr, errors.New("Invalid date range"))
	}
	if f.StartScore != nil && f.EndScore != nil && *f.StartScore > *f.EndScore {
		merr = multierror.Append(merr, errors.New("Invalid score range"))
	}
	return invalid(merr)
}

// Validate checks that the hunk count is not negative.
func (f FileFilter) Validate() error {
	merr := newErrors()
	if f.DiffBlockCount != nil && *f.DiffBlockCount < 0 {
		merr = multierror.Append(merr, errors.New("Invalid diff block count"))
	}
	return invalid(merr)
}

// Validate rejects negative bounds and inverted min/max pairs.
func (f CommitFilter) Validate() error {
	merr := newErrors()
	if f.PatchCount != nil && *f.PatchCount < 0 {
		merr = multierror.Append(merr, errors.New("Invalid patch count"))
	}
	if f.MinChanges != nil && *f.MinChanges < 0 {
		merr = multierror.Append(merr, errors.New("Invalid min changes"))
	}
	if f.MaxChanges != nil && *f.MaxChanges < 0 {
		merr = multierror.Append(merr, errors.New("Invalid max changes"))
	}
	if f.MinFiles != nil && *f.MinFiles < 0 {
		merr = multierror.Append(merr, errors.New("Invalid min files"))
	}
	if f.MaxFiles != nil && *f.MaxFiles < 0 {
		merr = multierror.Append(merr, errors.New("Invalid max files"))
	}
	if f.MinChanges != nil && f.MaxChanges != nil && *f.MinChanges > *f.MaxChanges {
		merr = multierror.Append(merr, errors.New("Invalid changes range"))
	}
	if f.MinFiles != nil && f.MaxFiles != nil && *f.MinFiles > *f.MaxFiles {
		merr = multierror.Append(merr, errors.New("Invalid files range"))
	}
	return invalid(merr)
}
