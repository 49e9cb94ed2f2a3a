package search

import "strconv"

const (
	DefaultLimit      = 25
	DefaultUserLimit  = 10
	DefaultAdminLimit = 20
	MaxLimit          = 100
)

type Page struct {
	Number int
	Limit  int
}

// ParsePage clamps page to at least 1 and limit to [1, MaxLimit].
// Non-numeric values fall back to the defaults.
func ParsePage(pageStr, limitStr string, defaultLimit int) Page {
	page := 1
	if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
		page = n
	}
	limit := defaultLimit
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		limit = n
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: page, Limit: limit}
}

func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Limit)
}

type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
	Next    *int  `json:"next,omitempty"`
	Prev    *int  `json:"prev,omitempty"`
}

// Paginate computes result-set metadata. A page beyond the last yields
// hasNext=false with the true totals; the caller's item list is simply
// empty.
func Paginate(p Page, total int64) Pagination {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	meta := Pagination{
		Current: p.Number,
		Pages:   pages,
		Total:   total,
		HasNext: p.Number < pages,
		HasPrev: p.Number > 1,
	}
	if meta.HasNext {
		next := p.Number + 1
		meta.Next = &next
	}
	if meta.HasPrev {
		prev := p.Number - 1
		meta.Prev = &prev
	}
	return meta
}
