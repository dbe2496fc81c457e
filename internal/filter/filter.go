// Package filter computes the ordered set of books matching a search submission.
//
// A book matches when every predicate holds:
//
//	title  == ""    or  lower(book.title) contains lower(title)
//	author == "any" or  book.author == author
//	genre  == "any" or  genre in book.genres
//
// Unset fields carry the sentinel values, which make their predicate vacuously true,
// so the predicates always compose with AND no matter which fields are set.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bookconnect/bookconnect-server/internal/catalog"
	"github.com/bookconnect/bookconnect-server/internal/domain"
)

// Matcher evaluates one set of criteria against books.
// A Matcher holds a case folder and must not be shared between goroutines.
type Matcher struct {
	criteria domain.FilterCriteria
	title    string
	fold     cases.Caser
}

// NewMatcher prepares criteria for repeated matching.
func NewMatcher(criteria domain.FilterCriteria) *Matcher {
	criteria = criteria.Normalized()
	fold := cases.Lower(language.Und)
	return &Matcher{
		criteria: criteria,
		title:    fold.String(criteria.Title),
		fold:     fold,
	}
}

// Match reports whether b satisfies all three predicates.
func (m *Matcher) Match(b *domain.Book) bool {
	return m.matchTitle(b) && m.matchAuthor(b) && m.matchGenre(b)
}

func (m *Matcher) matchTitle(b *domain.Book) bool {
	if m.title == "" {
		return true
	}
	return strings.Contains(m.fold.String(b.Title), m.title)
}

func (m *Matcher) matchAuthor(b *domain.Book) bool {
	return m.criteria.AuthorID == domain.Any || b.AuthorID == m.criteria.AuthorID
}

func (m *Matcher) matchGenre(b *domain.Book) bool {
	return m.criteria.GenreID == domain.Any || b.HasGenre(m.criteria.GenreID)
}

// Apply returns the books matching criteria in catalog order. It never fails; a nil
// catalog yields an empty match set.
func Apply(criteria domain.FilterCriteria, c *catalog.Catalog) domain.MatchSet {
	if c == nil {
		return domain.MatchSet{}
	}

	m := NewMatcher(criteria)
	out := make(domain.MatchSet, 0)
	for b := range c.Books() {
		if m.Match(&b) {
			out = append(out, b)
		}
	}
	return out
}
