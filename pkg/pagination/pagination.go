package pagination

import "math"

const (
	// DefaultPerPage is used when per_page is omitted.
	DefaultPerPage = 20
	// MaxPerPage caps any list request.
	MaxPerPage = 100
)

// Params holds offset pagination inputs.
type Params struct {
	Page    int
	PerPage int
}

// Normalize applies defaults and bounds.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

func (p Params) Limit() int {
	return p.Normalize().PerPage
}

// Meta is the pagination block of list responses.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// Page is a list response body.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}

// NewPage builds a page and its metadata. A nil items slice is rendered as an
// empty array.
func NewPage[T any](items []T, params Params, total int64) Page[T] {
	n := params.Normalize()
	if items == nil {
		items = []T{}
	}
	last := int(math.Ceil(float64(total) / float64(n.PerPage)))
	if last < 1 {
		last = 1
	}
	return Page[T]{
		Items: items,
		Pagination: Meta{
			CurrentPage: n.Page,
			PerPage:     n.PerPage,
			Total:       total,
			LastPage:    last,
		},
	}
}

// Map converts the items of a page while keeping its metadata.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(page.Items))
	for _, item := range page.Items {
		out = append(out, fn(item))
	}
	return Page[U]{Items: out, Pagination: page.Pagination}
}
