package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookconnect/bookconnect-server/internal/domain"
)

func TestListAuthors(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/authors")
	require.Equal(t, http.StatusOK, resp.Code)

	data := decode[AuthorsResponse](t, resp).Data
	assert.Equal(t, []domain.Author{
		{ID: "a-herbert", Name: "Frank Herbert"},
		{ID: "a-pratch", Name: "Terry Pratchett"},
		{ID: "a-leguin", Name: "Ursula K. Le Guin"},
	}, data.Authors)

	require.Len(t, data.Options, 4)
	assert.Equal(t, SelectOption{Value: "any", Label: AllAuthorsLabel}, data.Options[0])
	assert.Equal(t, SelectOption{Value: "a-herbert", Label: "Frank Herbert"}, data.Options[1])
}

func TestListGenres(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/genres")
	require.Equal(t, http.StatusOK, resp.Code)

	data := decode[GenresResponse](t, resp).Data
	names := make([]string, len(data.Genres))
	for i, g := range data.Genres {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"Fantasy", "Humor", "Science Fiction"}, names)
	assert.Equal(t, SelectOption{Value: "any", Label: AllGenresLabel}, data.Options[0])
}
