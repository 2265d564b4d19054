// Package pagination exposes page-based listings of the main entities.
package pagination

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10

	leftEdge     = 4
	leftCurrent  = 5
	rightCurrent = 5
	rightEdge    = 4
)

// ErrInvalidPage is returned for a page or page size below 1.
var ErrInvalidPage = errors.New("invalid page")

// Params selects one page of a listing.
type Params struct {
	Page    int `mapstructure:"page"`
	PerPage int `mapstructure:"per_page"`
}

func (p Params) withDefaults() (Params, error) {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PerPage == 0 {
		p.PerPage = DefaultPerPage
	}
	if p.Page < 1 {
		return p, fmt.Errorf("%w: page must be at least 1, got %d", ErrInvalidPage, p.Page)
	}
	if p.PerPage < 1 {
		return p, fmt.Errorf("%w: per_page must be at least 1, got %d", ErrInvalidPage, p.PerPage)
	}
	return p, nil
}

// Page is one page of a listing with the navigation metadata clients render.
type Page struct {
	HasNextPage     bool        `json:"hasNextPage"`
	HasPreviousPage bool        `json:"hasPreviousPage"`
	TotalPages      int         `json:"totalPages"`
	TotalResults    int         `json:"totalResults"`
	Page            int         `json:"page"`
	PerPage         int         `json:"perPage"`
	Pages           []*int      `json:"pages"`
	Elements        interface{} `json:"elements"`
}

// Paginate counts the rows matched by q and loads the requested page of them in order.
// A page past the last one is returned empty.
func Paginate[T any](q *gorm.DB, order string, params Params) (*Page, error) {
	params, err := params.withDefaults()
	if err != nil {
		return nil, err
	}
	base := q.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	elements := []T{}
	err = base.Order(order).
		Offset((params.Page - 1) * params.PerPage).
		Limit(params.PerPage).
		Find(&elements).Error
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(params.PerPage) - 1) / int64(params.PerPage))
	return &Page{
		HasNextPage:     params.Page < pages,
		HasPreviousPage: params.Page > 1,
		TotalPages:      pages,
		TotalResults:    int(total),
		Page:            params.Page,
		PerPage:         params.PerPage,
		Pages:           IterPages(params.Page, pages),
		Elements:        elements,
	}, nil
}

// IterPages lists the page numbers a pager shows around the current page: a few at each edge and a
// window around current. A nil entry marks a gap between runs.
func IterPages(current, total int) []*int {
	out := []*int{}
	end := total + 1
	if end == 1 {
		return out
	}
	appendRange := func(from, to int) {
		for i := from; i < to; i++ {
			n := i
			out = append(out, &n)
		}
	}

	leftEnd := min(1+leftEdge, end)
	appendRange(1, leftEnd)
	if leftEnd == end {
		return out
	}

	midStart := max(leftEnd, current-leftCurrent)
	midEnd := min(current+rightCurrent+1, end)
	if midStart > leftEnd {
		out = append(out, nil)
	}
	appendRange(midStart, midEnd)
	if midEnd == end {
		return out
	}

	rightStart := max(midEnd, end-rightEdge)
	if rightStart > midEnd {
		out = append(out, nil)
	}
	appendRange(rightStart, end)
	return out
}
