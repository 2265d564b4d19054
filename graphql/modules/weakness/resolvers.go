package weakness

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/graphql/modules/common"
	"github.com/rotas-project/rotas/model"
)

// ResolveCWEs lists CWEs ordered by id. With exists set only CWEs linked to at least one
// vulnerability are returned.
func ResolveCWEs(ctx context.Context, db database.DBConnection, id *int, exists bool) ([]model.CWE, error) {
	q := db.Session(ctx).Model(&model.CWE{})
	if id != nil {
		q = q.Where("cwes.id = ?", *id)
	}
	if exists {
		q = q.Where("EXISTS (SELECT 1 FROM vulnerability_cwes WHERE vulnerability_cwes.cwe_id = cwes.id)")
	}
	var cwes []model.CWE
	err := q.Order("cwes.id").Find(&cwes).Error
	return cwes, err
}

func ResolveAbstraction(ctx context.Context, db database.DBConnection, cwe model.CWE) (interface{}, error) {
	if cwe.AbstractionID == nil {
		return nil, nil
	}
	var a model.Abstraction
	err := db.Session(ctx).Where("id = ?", *cwe.AbstractionID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a.Name, nil
}

func ResolveBFClasses(ctx context.Context, db database.DBConnection, cweID int, name string) ([]model.BFClass, error) {
	q := db.Session(ctx).Model(&model.BFClass{}).
		Joins("JOIN cwe_bf_classes ON cwe_bf_classes.bf_class_id = bf_classes.id").
		Where("cwe_bf_classes.cwe_id = ?", cweID)
	if name != "" {
		q = q.Where("bf_classes.name = ?", name)
	}
	var out []model.BFClass
	err := q.Order("bf_classes.id").Find(&out).Error
	return out, err
}

func ResolvePhases(ctx context.Context, db database.DBConnection, cweID int, name, acronym string) ([]model.Phase, error) {
	q := db.Session(ctx).Model(&model.Phase{}).
		Joins("JOIN cwe_phases ON cwe_phases.phase_id = phases.id").
		Where("cwe_phases.cwe_id = ?", cweID)
	if name != "" {
		q = q.Where("phases.name = ?", name)
	}
	if acronym != "" {
		q = q.Where("phases.acronym = ?", acronym)
	}
	var out []model.Phase
	err := q.Order("phases.id").Find(&out).Error
	return out, err
}

func ResolveOperations(ctx context.Context, db database.DBConnection, cweID int, name string) ([]model.Operation, error) {
	q := db.Session(ctx).Model(&model.Operation{}).
		Joins("JOIN cwe_operations ON cwe_operations.operation_id = operations.id").
		Where("cwe_operations.cwe_id = ?", cweID)
	if name != "" {
		q = q.Where("operations.name = ?", name)
	}
	var out []model.Operation
	err := q.Order("operations.id").Find(&out).Error
	return out, err
}

type taxonomyRow struct {
	CWEID int `gorm:"column:cwe_id"`
	Name  string
}

func taxonomy(db *gorm.DB, table, link, fk string) (map[int][]string, error) {
	var rows []taxonomyRow
	err := db.Table(link).
		Select(link+".cwe_id AS cwe_id, "+table+".name AS name").
		Joins("JOIN "+table+" ON "+table+".id = "+link+"."+fk).
		Order(link + ".cwe_id").Order(table + ".id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[int][]string{}
	for _, r := range rows {
		out[r.CWEID] = append(out[r.CWEID], r.Name)
	}
	return out, nil
}

// ResolveLinks builds the BF class -> phase -> operation flow weighted by vulnerability count.
// A CWE contributes only while its mapping is unambiguous: it is dropped when it has more than one
// class, the class "None", or more than one phase, and it stops at the phase when it has more than
// one operation.
func ResolveLinks(ctx context.Context, db database.DBConnection) ([]common.LinkCount, error) {
	s := db.Session(ctx)

	type cweCount struct {
		CWEID int `gorm:"column:cwe_id"`
		Cnt   int
	}
	var counts []cweCount
	err := s.Table("vulnerability_cwes").
		Select("cwe_id, COUNT(*) AS cnt").
		Group("cwe_id").
		Order("cwe_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	classes, err := taxonomy(s, "bf_classes", "cwe_bf_classes", "bf_class_id")
	if err != nil {
		return nil, err
	}
	phases, err := taxonomy(s, "phases", "cwe_phases", "phase_id")
	if err != nil {
		return nil, err
	}
	operations, err := taxonomy(s, "operations", "cwe_operations", "operation_id")
	if err != nil {
		return nil, err
	}

	var links []common.LinkCount
	index := map[[2]string]int{}
	add := func(at, to string, n int) {
		key := [2]string{at, to}
		if i, ok := index[key]; ok {
			links[i].Count += n
			return
		}
		index[key] = len(links)
		links = append(links, common.LinkCount{At: at, To: to, Count: n})
	}

	for _, c := range counts {
		bf, ph, ops := classes[c.CWEID], phases[c.CWEID], operations[c.CWEID]
		if len(bf) != 1 || bf[0] == "None" || len(ph) != 1 {
			continue
		}
		add(bf[0], ph[0], c.Cnt)
		if len(ops) != 1 {
			continue
		}
		add(ph[0], ops[0], c.Cnt)
	}
	return links, nil
}
