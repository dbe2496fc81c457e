// Package catalogtest builds catalogs for tests.
package catalogtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bookconnect/bookconnect-server/internal/catalog"
	"github.com/bookconnect/bookconnect-server/internal/domain"
)

// Authors used by the fixtures.
var Authors = map[string]string{
	"a-herbert": "Frank Herbert",
	"a-leguin":  "Ursula K. Le Guin",
	"a-pratch":  "Terry Pratchett",
}

// Genres used by the fixtures.
var Genres = map[string]string{
	"g-scifi":   "Science Fiction",
	"g-fantasy": "Fantasy",
	"g-humor":   "Humor",
}

// Books returns a small hand-written catalog with overlapping authors, genres and titles.
func Books() []domain.Book {
	return []domain.Book{
		book("b-1", "Dune", "a-herbert", 1965, "g-scifi"),
		book("b-2", "The Left Hand of Darkness", "a-leguin", 1969, "g-scifi"),
		book("b-3", "A Wizard of Earthsea", "a-leguin", 1968, "g-fantasy"),
		book("b-4", "Guards! Guards!", "a-pratch", 1989, "g-fantasy", "g-humor"),
		book("b-5", "Dune Messiah", "a-herbert", 1969, "g-scifi"),
		book("b-6", "The Dispossessed", "a-leguin", 1974, "g-scifi"),
		book("b-7", "Small Gods", "a-pratch", 1992, "g-fantasy", "g-humor"),
		book("b-8", "Children of Dune", "a-herbert", 1976, "g-scifi", "g-fantasy"),
	}
}

// Generated returns n books cycling through the fixture authors and genres.
func Generated(n int) []domain.Book {
	authorIDs := []string{"a-herbert", "a-leguin", "a-pratch"}
	genreIDs := []string{"g-scifi", "g-fantasy", "g-humor"}
	books := make([]domain.Book, n)
	for i := range n {
		books[i] = book(
			fmt.Sprintf("gen-%03d", i),
			fmt.Sprintf("Volume %d", i),
			authorIDs[i%len(authorIDs)],
			1950+i%70,
			genreIDs[i%len(genreIDs)],
		)
	}
	return books
}

// Load builds a catalog from the fixture books.
func Load(t testing.TB) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(Books(), Authors, Genres)
	require.NoError(t, err)
	return c
}

// LoadGenerated builds a catalog of n generated books.
func LoadGenerated(t testing.TB, n int) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(Generated(n), Authors, Genres)
	require.NoError(t, err)
	return c
}

func book(id, title, author string, year int, genres ...string) domain.Book {
	return domain.Book{
		ID:          id,
		Title:       title,
		AuthorID:    author,
		GenreIDs:    genres,
		Image:       "https://covers.example.com/" + id + ".jpg",
		Description: "<p>" + title + "</p>",
		Published:   time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}
