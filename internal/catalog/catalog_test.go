package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookconnect/bookconnect-server/internal/catalog"
	"github.com/bookconnect/bookconnect-server/internal/catalog/catalogtest"
	"github.com/bookconnect/bookconnect-server/internal/domain"
	"github.com/bookconnect/bookconnect-server/internal/errors"
)

func TestLoad_NilBooksIsConfigurationError(t *testing.T) {
	_, err := catalog.Load(nil, catalogtest.Authors, catalogtest.Genres)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestLoad_EmptyCatalog(t *testing.T) {
	c, err := catalog.Load([]domain.Book{}, catalogtest.Authors, catalogtest.Genres)

	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.All())
}

func TestLoad_DataIntegrity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(books []domain.Book) []domain.Book
		bookID string
	}{
		{
			name: "unknown author",
			mutate: func(books []domain.Book) []domain.Book {
				books[2].AuthorID = "a-nobody"
				return books
			},
			bookID: "b-3",
		},
		{
			name: "unknown genre",
			mutate: func(books []domain.Book) []domain.Book {
				books[3].GenreIDs = []string{"g-fantasy", "g-poetry"}
				return books
			},
			bookID: "b-4",
		},
		{
			name: "no genres",
			mutate: func(books []domain.Book) []domain.Book {
				books[0].GenreIDs = nil
				return books
			},
			bookID: "b-1",
		},
		{
			name: "duplicate id",
			mutate: func(books []domain.Book) []domain.Book {
				books[5].ID = "b-2"
				return books
			},
			bookID: "b-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books := tt.mutate(catalogtest.Books())

			_, err := catalog.Load(books, catalogtest.Authors, catalogtest.Genres)

			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrDataIntegrity))
			assert.Contains(t, err.Error(), tt.bookID)
		})
	}
}

func TestAll_PreservesOrderAndIsACopy(t *testing.T) {
	c := catalogtest.Load(t)

	all := c.All()
	require.Len(t, all, 8)
	assert.Equal(t, []string{"b-1", "b-2", "b-3", "b-4", "b-5", "b-6", "b-7", "b-8"}, all.IDs())

	all[0].Title = "Mutated"
	all[0].GenreIDs[0] = "g-mutated"

	again := c.All()
	assert.Equal(t, "Dune", again[0].Title)
	assert.Equal(t, "g-scifi", again[0].GenreIDs[0])
}

func TestLoad_DoesNotAliasInput(t *testing.T) {
	books := catalogtest.Books()
	authors := map[string]string{"a-herbert": "Frank Herbert", "a-leguin": "Le Guin", "a-pratch": "Pratchett"}
	c, err := catalog.Load(books, authors, catalogtest.Genres)
	require.NoError(t, err)

	books[0].Title = "Changed"
	authors["a-herbert"] = "Changed"

	b, err := c.Book("b-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	name, err := c.AuthorName("a-herbert")
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", name)
}

func TestLookups(t *testing.T) {
	c := catalogtest.Load(t)

	name, err := c.AuthorName("a-leguin")
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", name)

	name, err = c.GenreName("g-humor")
	require.NoError(t, err)
	assert.Equal(t, "Humor", name)

	_, err = c.AuthorName("a-missing")
	assert.True(t, errors.Is(err, errors.ErrLookup))

	_, err = c.GenreName("g-missing")
	assert.True(t, errors.Is(err, errors.ErrLookup))

	_, err = c.Book("b-missing")
	assert.True(t, errors.Is(err, errors.ErrLookup))

	assert.True(t, c.HasAuthor("a-pratch"))
	assert.False(t, c.HasAuthor("any"))
	assert.True(t, c.HasGenre("g-fantasy"))
	assert.False(t, c.HasGenre(""))
}

func TestOptionsAreSortedByName(t *testing.T) {
	c := catalogtest.Load(t)

	authors := c.Authors()
	require.Len(t, authors, 3)
	assert.Equal(t, "Frank Herbert", authors[0].Name)
	assert.Equal(t, "Terry Pratchett", authors[1].Name)
	assert.Equal(t, "Ursula K. Le Guin", authors[2].Name)

	genres := c.Genres()
	require.Len(t, genres, 3)
	assert.Equal(t, []string{"Fantasy", "Humor", "Science Fiction"}, []string{genres[0].Name, genres[1].Name, genres[2].Name})
}

func TestBooks_StopsEarly(t *testing.T) {
	c := catalogtest.Load(t)

	var seen []string
	for b := range c.Books() {
		seen = append(seen, b.ID)
		if len(seen) == 3 {
			break
		}
	}
	assert.Equal(t, []string{"b-1", "b-2", "b-3"}, seen)
}
