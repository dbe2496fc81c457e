// Package catalog holds the immutable in-memory book catalog and its author and genre lookups.
package catalog

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"github.com/bookconnect/bookconnect-server/internal/domain"
	"github.com/bookconnect/bookconnect-server/internal/errors"
)

// Catalog is the full entity set, loaded once. Nothing mutates it after Load returns,
// so it can be shared between browse sessions without locking.
type Catalog struct {
	books   []domain.Book
	index   map[string]int // book id -> position in books
	authors map[string]string
	genres  map[string]string
}

// Load validates referential integrity and builds a catalog.
// A nil books slice is a configuration error; an empty one is a valid, empty catalog.
func Load(books []domain.Book, authors, genres map[string]string) (*Catalog, error) {
	if books == nil {
		return nil, errors.Configuration("books must be an ordered sequence, got nothing")
	}

	c := &Catalog{
		books:   make([]domain.Book, 0, len(books)),
		index:   make(map[string]int, len(books)),
		authors: maps.Clone(authors),
		genres:  maps.Clone(genres),
	}
	if c.authors == nil {
		c.authors = map[string]string{}
	}
	if c.genres == nil {
		c.genres = map[string]string{}
	}

	for i := range books {
		b := &books[i]
		if err := c.check(b); err != nil {
			return nil, err
		}
		c.index[b.ID] = len(c.books)
		c.books = append(c.books, b.Clone())
	}

	return c, nil
}

// check validates a single book against the lookups and the books already accepted.
func (c *Catalog) check(b *domain.Book) error {
	if b.ID == "" {
		return errors.DataIntegrity("", "book has no id")
	}
	if _, dup := c.index[b.ID]; dup {
		return errors.DataIntegrity(b.ID, "duplicate book id")
	}
	if _, ok := c.authors[b.AuthorID]; !ok {
		return errors.DataIntegrityf(b.ID, "unknown author %q", b.AuthorID)
	}
	if len(b.GenreIDs) == 0 {
		return errors.DataIntegrity(b.ID, "book has no genres")
	}
	for _, g := range b.GenreIDs {
		if _, ok := c.genres[g]; !ok {
			return errors.DataIntegrityf(b.ID, "unknown genre %q", g)
		}
	}
	return nil
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.books)
}

// All returns every book in catalog order. The result is a copy.
func (c *Catalog) All() domain.MatchSet {
	out := make(domain.MatchSet, len(c.books))
	for i := range c.books {
		out[i] = c.books[i].Clone()
	}
	return out
}

// Books iterates the catalog in order without copying the backing slice.
// Yielded values are copies; callers cannot reach catalog state through them.
func (c *Catalog) Books() iter.Seq[domain.Book] {
	return func(yield func(domain.Book) bool) {
		for i := range c.books {
			if !yield(c.books[i].Clone()) {
				return
			}
		}
	}
}

// Book returns a single book by id.
func (c *Catalog) Book(id string) (domain.Book, error) {
	i, ok := c.index[id]
	if !ok {
		return domain.Book{}, errors.Lookupf("book %q not found", id)
	}
	return c.books[i].Clone(), nil
}

// AuthorName resolves an author id.
func (c *Catalog) AuthorName(id string) (string, error) {
	name, ok := c.authors[id]
	if !ok {
		return "", errors.Lookupf("author %q not found", id)
	}
	return name, nil
}

// GenreName resolves a genre id.
func (c *Catalog) GenreName(id string) (string, error) {
	name, ok := c.genres[id]
	if !ok {
		return "", errors.Lookupf("genre %q not found", id)
	}
	return name, nil
}

// HasAuthor reports whether id is a known author.
func (c *Catalog) HasAuthor(id string) bool {
	_, ok := c.authors[id]
	return ok
}

// HasGenre reports whether id is a known genre.
func (c *Catalog) HasGenre(id string) bool {
	_, ok := c.genres[id]
	return ok
}

// Authors returns all authors sorted by name, then id. Used to fill the search form.
func (c *Catalog) Authors() []domain.Author {
	out := make([]domain.Author, 0, len(c.authors))
	for id, name := range c.authors {
		out = append(out, domain.Author{ID: id, Name: name})
	}
	slices.SortFunc(out, func(a, b domain.Author) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}

// Genres returns all genres sorted by name, then id.
func (c *Catalog) Genres() []domain.Genre {
	out := make([]domain.Genre, 0, len(c.genres))
	for id, name := range c.genres {
		out = append(out, domain.Genre{ID: id, Name: name})
	}
	slices.SortFunc(out, func(a, b domain.Genre) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}
