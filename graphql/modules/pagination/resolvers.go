package pagination

import (
	"gorm.io/gorm"

	"github.com/rotas-project/rotas/model"
)

// VulnerabilitiesPage pages through vulnerabilities by publication date, oldest first.
func VulnerabilitiesPage(db *gorm.DB, f VulnerabilityFilter) (*Page, error) {
	q := db.Model(&model.Vulnerability{})
	if len(f.CWEIDs) > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM vulnerability_cwes WHERE vulnerability_cwes.vulnerability_id = vulnerabilities.id AND vulnerability_cwes.cwe_id IN ?)", f.CWEIDs)
	}
	if len(f.Severity) > 0 {
		q = q.Where("severity IN ?", f.Severity)
	}
	return Paginate[model.Vulnerability](q, "published_date, id", f.Params)
}

func RepositoriesPage(db *gorm.DB, f RepositoryFilter) (*Page, error) {
	q := db.Model(&model.Repository{})
	if len(f.Availability) > 0 {
		q = q.Where("(available IN ? OR available IS NULL)", f.Availability)
	}
	if len(f.Language) > 0 {
		q = q.Where("language IN ?", f.Language)
	}
	return Paginate[model.Repository](q, "id", f.Params)
}
