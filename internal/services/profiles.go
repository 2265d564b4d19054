package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rotas-project/rotas/internal/profiler"
	"github.com/rotas-project/rotas/model"
)

// ProfileInput holds the filters of a new profile.
type ProfileInput struct {
	Name         string   `mapstructure:"name"`
	StartYear    *int     `mapstructure:"start_year"`
	EndYear      *int     `mapstructure:"end_year"`
	StartScore   *float64 `mapstructure:"start_score"`
	EndScore     *float64 `mapstructure:"end_score"`
	MinChanges   *int     `mapstructure:"min_changes"`
	MaxChanges   *int     `mapstructure:"max_changes"`
	MinFiles     *int     `mapstructure:"min_files"`
	MaxFiles     *int     `mapstructure:"max_files"`
	HasCode      bool     `mapstructure:"has_code"`
	HasExploit   bool     `mapstructure:"has_exploit"`
	HasAdvisory  bool     `mapstructure:"has_advisory"`
	SingleCommit bool     `mapstructure:"single_commit"`
	Extensions   []string `mapstructure:"extensions"`
	CWEIDs       []int    `mapstructure:"cwe_ids"`
}

// Filters splits a profile into composer filters. Only the first stored extension is kept.
// A single-commit profile keeps vulnerabilities fixed by exactly one commit.
func Filters(p model.Profile, cweIDs []int) (profiler.VulnerabilityFilter, profiler.CommitFilter, profiler.FileFilter) {
	vf := profiler.VulnerabilityFilter{
		CWEIDs:      cweIDs,
		HasExploit:  p.HasExploit,
		HasAdvisory: p.HasAdvisory,
		StartYear:   p.StartYear,
		EndYear:     p.EndYear,
		StartScore:  p.StartScore,
		EndScore:    p.EndScore,
	}
	cf := profiler.CommitFilter{
		MinChanges: p.MinChanges,
		MaxChanges: p.MaxChanges,
		MinFiles:   p.MinFiles,
		MaxFiles:   p.MaxFiles,
	}
	if p.SingleCommit {
		one := 1
		cf.PatchCount = &one
	}
	var ff profiler.FileFilter
	if p.Extension != nil && *p.Extension != "" {
		ff.Extensions = []string{*p.Extension}
	}
	return vf, cf, ff
}

// Compose builds the composer a profile describes.
func Compose(p model.Profile, cweIDs []int) (profiler.Composer, error) {
	vf, cf, ff := Filters(p, cweIDs)
	c, err := profiler.New().FilterVulnerabilities(vf)
	if err != nil {
		return c, err
	}
	if c, err = c.FilterCommits(cf); err != nil {
		return c, err
	}
	return c.FilterCommitFiles(ff)
}

func (in ProfileInput) profile() model.Profile {
	p := model.Profile{
		Name:         strings.TrimSpace(in.Name),
		StartYear:    in.StartYear,
		EndYear:      in.EndYear,
		StartScore:   in.StartScore,
		EndScore:     in.EndScore,
		MinChanges:   in.MinChanges,
		MaxChanges:   in.MaxChanges,
		MinFiles:     in.MinFiles,
		MaxFiles:     in.MaxFiles,
		HasCode:      in.HasCode,
		HasExploit:   in.HasExploit,
		HasAdvisory:  in.HasAdvisory,
		SingleCommit: in.SingleCommit,
	}
	if len(in.Extensions) > 0 {
		ext := in.Extensions[0]
		p.Extension = &ext
	}
	return p
}

// CreateProfile validates and stores a profile with its CWE ids.
func (s *Service) CreateProfile(ctx context.Context, in ProfileInput) (*model.Profile, error) {
	p := in.profile()
	if p.Name == "" {
		return nil, invalidInput("Profile name is required")
	}
	if len(p.Name) > MaxNameLength {
		return nil, invalidInput("Profile name cannot be more than %d characters", MaxNameLength)
	}
	if _, err := Compose(p, in.CWEIDs); err != nil {
		return nil, err
	}

	err := s.tx(ctx, func(tx *gorm.DB) error {
		taken, err := exists(tx, &model.Profile{}, "name = ?", p.Name)
		if err != nil {
			return err
		}
		if taken {
			return nameTaken("Profile", p.Name)
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		seen := map[int]bool{}
		var links []model.ProfileCWE
		for _, id := range in.CWEIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			links = append(links, model.ProfileCWE{ProfileID: p.ID, CWEID: id})
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("profile created", zap.Int("id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

// ProfileCWEIDs lists the CWE ids stored for a profile.
func ProfileCWEIDs(tx *gorm.DB, profileID int) ([]int, error) {
	var ids []int
	err := tx.Model(&model.ProfileCWE{}).
		Where("profile_id = ?", profileID).
		Order("cwe_id").
		Pluck("cwe_id", &ids).Error
	return ids, err
}
