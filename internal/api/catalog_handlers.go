package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookconnect/bookconnect-server/internal/domain"
)

// Labels of the catch-all entries in the search form selects.
const (
	AllAuthorsLabel = "All Authors"
	AllGenresLabel  = "All Genres"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAuthors",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors",
		Summary:     "List authors",
		Description: "Returns every author sorted by name, plus the select options for the search form",
		Tags:        []string{"Catalog"},
	}, s.handleListAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns every genre sorted by name, plus the select options for the search form",
		Tags:        []string{"Catalog"},
	}, s.handleListGenres)
}

// SelectOption is one <option> of a search form select.
type SelectOption struct {
	Value string `json:"value" doc:"Submitted value"`
	Label string `json:"label" doc:"Displayed text"`
}

// AuthorsResponse lists the catalog's authors.
type AuthorsResponse struct {
	Authors []domain.Author `json:"authors" doc:"Authors sorted by name"`
	Options []SelectOption  `json:"options" doc:"Form options, starting with the catch-all"`
}

// AuthorsOutput wraps the authors response for Huma.
type AuthorsOutput struct {
	Body AuthorsResponse
}

// GenresResponse lists the catalog's genres.
type GenresResponse struct {
	Genres  []domain.Genre `json:"genres" doc:"Genres sorted by name"`
	Options []SelectOption `json:"options" doc:"Form options, starting with the catch-all"`
}

// GenresOutput wraps the genres response for Huma.
type GenresOutput struct {
	Body GenresResponse
}

func (s *Server) handleListAuthors(_ context.Context, _ *struct{}) (*AuthorsOutput, error) {
	authors := s.services.Sessions.Catalog().Authors()

	options := make([]SelectOption, 0, len(authors)+1)
	options = append(options, SelectOption{Value: domain.Any, Label: AllAuthorsLabel})
	for _, a := range authors {
		options = append(options, SelectOption{Value: a.ID, Label: a.Name})
	}

	return &AuthorsOutput{Body: AuthorsResponse{Authors: authors, Options: options}}, nil
}

func (s *Server) handleListGenres(_ context.Context, _ *struct{}) (*GenresOutput, error) {
	genres := s.services.Sessions.Catalog().Genres()

	options := make([]SelectOption, 0, len(genres)+1)
	options = append(options, SelectOption{Value: domain.Any, Label: AllGenresLabel})
	for _, g := range genres {
		options = append(options, SelectOption{Value: g.ID, Label: g.Name})
	}

	return &GenresOutput{Body: GenresResponse{Genres: genres, Options: options}}, nil
}
