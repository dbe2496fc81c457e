// Package paging reveals a match set one fixed-size batch at a time.
package paging

import (
	"slices"

	"github.com/bookconnect/bookconnect-server/internal/domain"
)

// PageSize is the number of books revealed per batch.
const PageSize = 36

// Paginator tracks how much of a match set has been revealed.
// Offset only moves forward between resets and never exceeds the match set length.
type Paginator struct {
	matches  domain.MatchSet
	offset   int
	pageSize int
}

// New returns a paginator over an empty match set. A non-positive size selects PageSize.
func New(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return &Paginator{pageSize: pageSize}
}

// Reset starts over on a new match set. The page size is kept.
func (p *Paginator) Reset(matches domain.MatchSet) {
	p.matches = matches
	p.offset = 0
}

// NextBatch returns the next unrevealed slice and the count still hidden after it.
// Once everything is revealed it keeps returning an empty batch and zero.
func (p *Paginator) NextBatch() (domain.MatchSet, int) {
	end := min(p.offset+p.pageSize, len(p.matches))
	batch := slices.Clone(p.matches[p.offset:end])
	if batch == nil {
		batch = domain.MatchSet{}
	}
	p.offset = end
	return batch, p.Remaining()
}

// HasMore reports whether another NextBatch would return books.
func (p *Paginator) HasMore() bool {
	return p.offset < len(p.matches)
}

// Remaining returns the number of books not yet revealed.
func (p *Paginator) Remaining() int {
	return max(0, len(p.matches)-p.offset)
}

// Revealed returns the books handed out so far, in order.
func (p *Paginator) Revealed() domain.MatchSet {
	return p.matches[:p.offset]
}

// Offset returns how many books have been revealed.
func (p *Paginator) Offset() int {
	return p.offset
}

// PageSize returns the batch size.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// Total returns the size of the current match set.
func (p *Paginator) Total() int {
	return len(p.matches)
}

// Window returns the current page window.
func (p *Paginator) Window() domain.PageWindow {
	return domain.PageWindow{Offset: p.offset, PageSize: p.pageSize}
}
