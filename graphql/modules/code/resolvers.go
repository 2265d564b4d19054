package code

import (
	"context"

	"github.com/rotas-project/rotas/database"
	"github.com/rotas-project/rotas/model"
)

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type MethodBoundary struct {
	Name  string   `json:"name"`
	Start Position `json:"start"`
	End   Position `json:"end"`
	Code  []string `json:"code"`
}

// ResolveFunctions lists the functions of a file in source order, each with the stored lines it spans.
func ResolveFunctions(ctx context.Context, db database.DBConnection, fileID string) ([]MethodBoundary, error) {
	s := db.Session(ctx)

	var fns []model.Function
	if err := s.Where("commit_file_id = ?", fileID).Order("start_line, start_col").Find(&fns).Error; err != nil {
		return nil, err
	}
	if len(fns) == 0 {
		return []MethodBoundary{}, nil
	}

	var lines []model.Line
	if err := s.Where("commit_file_id = ?", fileID).Order("number").Find(&lines).Error; err != nil {
		return nil, err
	}

	out := make([]MethodBoundary, 0, len(fns))
	for _, fn := range fns {
		mb := MethodBoundary{
			Name:  fn.Name,
			Start: Position{Line: fn.StartLine, Column: fn.StartCol},
			End:   Position{Line: fn.EndLine, Column: fn.EndCol},
			Code:  []string{},
		}
		for _, l := range lines {
			if l.Number >= fn.StartLine && l.Number <= fn.EndLine {
				mb.Code = append(mb.Code, l.Content)
			}
		}
		out = append(out, mb)
	}
	return out, nil
}
