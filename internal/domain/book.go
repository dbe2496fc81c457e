// Package domain contains the core entities of the Book Connect catalog.
package domain

import (
	"slices"
	"time"
)

// Book is a single catalog entry. Books are immutable once the catalog is loaded.
type Book struct {
	Published   time.Time `json:"published"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	AuthorID    string    `json:"author"`
	Image       string    `json:"image"`       // Cover URI
	Description string    `json:"description"` // As stored; may contain HTML
	GenreIDs    []string  `json:"genres"`      // Ordered, never empty after load
}

// HasGenre reports whether the book is tagged with the given genre id.
func (b *Book) HasGenre(genreID string) bool {
	return slices.Contains(b.GenreIDs, genreID)
}

// PublishedYear returns the year of publication, or 0 when unknown.
func (b *Book) PublishedYear() int {
	if b.Published.IsZero() {
		return 0
	}
	return b.Published.UTC().Year()
}

// Clone returns a copy that shares nothing mutable with b.
func (b *Book) Clone() Book {
	c := *b
	c.GenreIDs = slices.Clone(b.GenreIDs)
	return c
}

// MatchSet is an ordered run of books produced by filtering the catalog.
// Order is always catalog order.
type MatchSet []Book

// IDs returns the book ids in order.
func (m MatchSet) IDs() []string {
	ids := make([]string, len(m))
	for i := range m {
		ids[i] = m[i].ID
	}
	return ids
}

// PageWindow is the slice of a MatchSet that has been revealed so far.
type PageWindow struct {
	Offset   int `json:"offset"`
	PageSize int `json:"page_size"`
}
