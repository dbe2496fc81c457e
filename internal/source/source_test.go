package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookconnect/bookconnect-server/internal/catalog/catalogtest"
	"github.com/bookconnect/bookconnect-server/internal/errors"
)

const sampleJSON = `{
  "books": [
    {"id": "b-1", "title": "Dune", "author": "a-herbert", "genres": ["g-scifi"],
     "image": "https://covers.example.com/b-1.jpg",
     "description": "<p>Spice.</p><script>alert(1)</script>",
     "published": "1965-08-01T00:00:00.000Z"},
    {"id": "b-2", "title": "Small Gods", "author": "a-pratch", "genres": ["g-fantasy", "g-humor"],
     "published": "1992-05-01"}
  ],
  "authors": {"a-herbert": "Frank Herbert", "a-pratch": "Terry Pratchett"},
  "genres": {"g-scifi": "Science Fiction", "g-fantasy": "Fantasy", "g-humor": "Humor"}
}`

const sampleYAML = `
books:
  - id: b-1
    title: Dune
    author: a-herbert
    genres: [g-scifi]
    published: "1965-08-01"
  - id: b-2
    title: Small Gods
    author: a-pratch
    genres: [g-fantasy, g-humor]
authors:
  a-herbert: Frank Herbert
  a-pratch: Terry Pratchett
genres:
  g-scifi: Science Fiction
  g-fantasy: Fantasy
  g-humor: Humor
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"catalog.json", FormatJSON},
		{"catalog.JSON", FormatJSON},
		{"catalog.yaml", FormatYAML},
		{"catalog.yml", FormatYAML},
		{"catalog.db", FormatSQLite},
		{"catalog.sqlite3", FormatSQLite},
		{"catalog.csv", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.path))
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open("", "", nil)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))

	_, err = Open("", "catalog.csv", nil)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))

	_, err = Open("xml", "catalog.json", nil)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestJSONLoader_Load(t *testing.T) {
	path := writeFile(t, "catalog.json", sampleJSON)
	loader, err := Open("", path, nil)
	require.NoError(t, err)

	data, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Books, 2)
	assert.Equal(t, "b-1", data.Books[0].ID)
	assert.Equal(t, "a-herbert", data.Books[0].AuthorID)
	assert.Equal(t, 1965, data.Books[0].PublishedYear())
	assert.Equal(t, []string{"g-fantasy", "g-humor"}, data.Books[1].GenreIDs)
	assert.Equal(t, time.Date(1992, time.May, 1, 0, 0, 0, 0, time.UTC), data.Books[1].Published)
	assert.Equal(t, "Terry Pratchett", data.Authors["a-pratch"])

	assert.Equal(t, "<p>Spice.</p><script>alert(1)</script>", data.Books[0].Description,
		"descriptions are kept as stored and only sanitized where rendered as markup")

	cat, err := data.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
}

func TestJSONLoader_BooksNotArray(t *testing.T) {
	path := writeFile(t, "catalog.json", `{"books": {"b-1": {}}, "authors": {}, "genres": {}}`)

	_, err := NewJSONLoader(path, discard()).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
	assert.Contains(t, err.Error(), "books")
}

func TestJSONLoader_MalformedJSON(t *testing.T) {
	path := writeFile(t, "catalog.json", `{"books": [`)

	_, err := NewJSONLoader(path, discard()).Load(context.Background())
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestJSONLoader_MissingFile(t *testing.T) {
	_, err := NewJSONLoader(filepath.Join(t.TempDir(), "nope.json"), discard()).Load(context.Background())
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestJSONLoader_BadPublishedDate(t *testing.T) {
	path := writeFile(t, "catalog.json", `{
	  "books": [{"id": "b-9", "title": "T", "author": "a", "genres": ["g"], "published": "last tuesday"}],
	  "authors": {"a": "A"}, "genres": {"g": "G"}}`)

	_, err := NewJSONLoader(path, discard()).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDataIntegrity))
	assert.Contains(t, err.Error(), `"b-9"`)
}

func TestJSONLoader_UnknownAuthorSurfacesAtCatalog(t *testing.T) {
	path := writeFile(t, "catalog.json", `{
	  "books": [{"id": "b-3", "title": "T", "author": "a-ghost", "genres": ["g"]}],
	  "authors": {}, "genres": {"g": "G"}}`)

	data, err := NewJSONLoader(path, discard()).Load(context.Background())
	require.NoError(t, err)

	_, err = data.Catalog()
	assert.True(t, errors.Is(err, errors.ErrDataIntegrity))
	assert.Contains(t, err.Error(), `"b-3"`)
}

func TestYAMLLoader_Load(t *testing.T) {
	path := writeFile(t, "catalog.yaml", sampleYAML)
	loader, err := Open("", path, nil)
	require.NoError(t, err)

	data, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Books, 2)
	assert.Equal(t, "Dune", data.Books[0].Title)
	assert.Equal(t, 1965, data.Books[0].PublishedYear())
	assert.True(t, data.Books[1].Published.IsZero())
	assert.Equal(t, "Humor", data.Genres["g-humor"])
}

func TestYAMLLoader_MissingBooksIsConfigurationError(t *testing.T) {
	path := writeFile(t, "catalog.yml", "authors: {}\ngenres: {}\n")

	data, err := NewYAMLLoader(path, discard()).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data.Books)

	_, err = data.Catalog()
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestSQLite_RoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	books := catalogtest.Books()
	in := &Data{Books: books, Authors: catalogtest.Authors, Genres: catalogtest.Genres}
	require.NoError(t, WriteSQLite(ctx, path, in))

	loader, err := Open("", path, nil)
	require.NoError(t, err)
	out, err := loader.Load(ctx)
	require.NoError(t, err)

	require.Len(t, out.Books, len(books))
	for i := range books {
		assert.Equal(t, books[i].ID, out.Books[i].ID)
		assert.Equal(t, books[i].GenreIDs, out.Books[i].GenreIDs)
		assert.True(t, books[i].Published.Equal(out.Books[i].Published))
	}
	assert.Equal(t, catalogtest.Authors, out.Authors)
	assert.Equal(t, catalogtest.Genres, out.Genres)

	cat, err := out.Catalog()
	require.NoError(t, err)
	assert.Equal(t, len(books), cat.Len())
}

func TestSQLite_WriteReplacesExistingRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	require.NoError(t, WriteSQLite(ctx, path, &Data{
		Books: catalogtest.Books(), Authors: catalogtest.Authors, Genres: catalogtest.Genres,
	}))
	require.NoError(t, WriteSQLite(ctx, path, &Data{
		Books: catalogtest.Books()[:2], Authors: catalogtest.Authors, Genres: catalogtest.Genres,
	}))

	out, err := NewSQLiteLoader(path, discard()).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, out.Books, 2)
}

func TestJSONLoader_PlainTextDescriptionUnchanged(t *testing.T) {
	path := writeFile(t, "catalog.json", `{
	  "books": [{"id": "b-1", "title": "T", "author": "a", "genres": ["g"],
	             "description": "It's \"Tom & Jerry\" <3"}],
	  "authors": {"a": "A"}, "genres": {"g": "G"}}`)

	data, err := NewJSONLoader(path, discard()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Books, 1)
	assert.Equal(t, `It's "Tom & Jerry" <3`, data.Books[0].Description)
}

func TestSQLiteLoader_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.db")

	loader, err := Open("", path, discard())
	require.NoError(t, err)
	_, err = loader.Load(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
	assert.Contains(t, err.Error(), "not found")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "loading must not create the database")
}

func TestSQLiteLoader_DoesNotApplySchema(t *testing.T) {
	path := writeFile(t, "empty.db", "")

	_, err := NewSQLiteLoader(path, discard()).Load(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.Zero(t, info.Size(), "loader must leave the file untouched")
}

func TestSQLiteLoader_DirectoryPath(t *testing.T) {
	_, err := NewSQLiteLoader(t.TempDir(), discard()).Load(context.Background())
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestSQLite_DescriptionRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")
	books := catalogtest.Books()[:1]
	books[0].Description = `It's "Tom & Jerry"`
	require.NoError(t, WriteSQLite(ctx, path, &Data{
		Books: books, Authors: catalogtest.Authors, Genres: catalogtest.Genres,
	}))

	out, err := NewSQLiteLoader(path, discard()).Load(ctx)
	require.NoError(t, err)
	require.Len(t, out.Books, 1)
	assert.Equal(t, `It's "Tom & Jerry"`, out.Books[0].Description)
}
