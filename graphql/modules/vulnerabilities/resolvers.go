package vulnerabilities

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/model"
)

// DefaultSearchLimit caps searchVulnerability when no limit is given.
const DefaultSearchLimit = 10

// Reference is a vulnerability reference with the names of its tags.
type Reference struct {
	ID   int      `json:"id"`
	URL  string   `json:"url"`
	Tags []string `json:"tags"`
}

// ListArgs selects a window of the vulnerabilities ordered by publication date, newest first.
// Zero values are ignored; Last behaves like First.
type ListArgs struct {
	ID    string `mapstructure:"id"`
	First int    `mapstructure:"first"`
	Skip  int    `mapstructure:"skip"`
	Last  int    `mapstructure:"last"`
}

func ResolveVulnerability(ctx context.Context, db database.DBConnection, id string) (interface{}, error) {
	var vuln model.Vulnerability
	err := db.Session(ctx).Where("id = ?", id).First(&vuln).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return vuln, nil
}

func ResolveVulnerabilities(ctx context.Context, db database.DBConnection, args ListArgs) ([]model.Vulnerability, error) {
	q := db.Session(ctx).Order("published_date DESC").Order("id")
	if args.ID != "" {
		q = q.Where("id = ?", args.ID)
	}
	if args.Skip > 0 {
		q = q.Offset(args.Skip)
	}
	switch {
	case args.First > 0:
		q = q.Limit(args.First)
	case args.Last > 0:
		q = q.Limit(args.Last)
	}
	var out []model.Vulnerability
	err := q.Find(&out).Error
	return out, err
}

// SearchVulnerabilities matches keyword against vulnerability ids, ignoring case.
func SearchVulnerabilities(ctx context.Context, db database.DBConnection, keyword string, limit int) ([]model.Vulnerability, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	var out []model.Vulnerability
	err := db.Session(ctx).
		Where("LOWER(id) LIKE ?", "%"+strings.ToLower(keyword)+"%").
		Order("id").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func ResolveCWEs(ctx context.Context, db database.DBConnection, vulnID string) ([]model.CWE, error) {
	var out []model.CWE
	err := db.Session(ctx).
		Joins("JOIN vulnerability_cwes ON vulnerability_cwes.cwe_id = cwes.id").
		Where("vulnerability_cwes.vulnerability_id = ?", vulnID).
		Order("cwes.id").
		Find(&out).Error
	return out, err
}

func ResolveCommits(ctx context.Context, db database.DBConnection, vulnID string) ([]model.Commit, error) {
	var out []model.Commit
	err := db.Session(ctx).Where("vulnerability_id = ?", vulnID).Order("id").Find(&out).Error
	return out, err
}

func ResolveConfigurations(ctx context.Context, db database.DBConnection, vulnID string) ([]model.Configuration, error) {
	var out []model.Configuration
	err := db.Session(ctx).Where("vulnerability_id = ?", vulnID).Order("id").Find(&out).Error
	return out, err
}

// ResolveReferences lists the references of a vulnerability with their tag names.
func ResolveReferences(ctx context.Context, db database.DBConnection, vulnID string) ([]Reference, error) {
	s := db.Session(ctx)

	var refs []model.Reference
	if err := s.Where("vulnerability_id = ?", vulnID).Order("id").Find(&refs).Error; err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return []Reference{}, nil
	}

	ids := make([]int, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	type tagRow struct {
		ReferenceID int
		Name        string
	}
	var rows []tagRow
	err := s.Table("reference_tags").
		Select("reference_tags.reference_id, tags.name").
		Joins("JOIN tags ON tags.id = reference_tags.tag_id").
		Where("reference_tags.reference_id IN ?", ids).
		Order("reference_tags.reference_id").Order("tags.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	tags := map[int][]string{}
	for _, r := range rows {
		tags[r.ReferenceID] = append(tags[r.ReferenceID], r.Name)
	}

	out := make([]Reference, len(refs))
	for i, r := range refs {
		out[i] = Reference{ID: r.ID, URL: r.URL, Tags: tags[r.ID]}
		if out[i].Tags == nil {
			out[i].Tags = []string{}
		}
	}
	return out, nil
}
