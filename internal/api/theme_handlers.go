package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookconnect/bookconnect-server/internal/theme"
)

func (s *Server) registerThemeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTheme",
		Method:      http.MethodGet,
		Path:        "/api/v1/theme",
		Summary:     "Resolve theme",
		Description: "Returns the CSS variables for the requested theme. Without a theme parameter the " +
			"Sec-CH-Prefers-Color-Scheme client hint decides between day and night",
		Tags: []string{"Theme"},
	}, s.handleGetTheme)
}

// ThemeInput contains parameters for resolving a theme.
type ThemeInput struct {
	Theme     string `query:"theme" doc:"day or night; blank follows the client's colour scheme"`
	ColorHint string `header:"Sec-CH-Prefers-Color-Scheme" doc:"Client hint: light or dark"`
}

// ThemeResponse carries the resolved palette.
type ThemeResponse struct {
	Theme     theme.Theme       `json:"theme" doc:"Resolved theme"`
	Variables map[string]string `json:"variables" doc:"CSS custom properties to set on the document root"`
}

// ThemeOutput wraps the theme response for Huma.
type ThemeOutput struct {
	AcceptCH string `header:"Accept-CH"`
	Vary     string `header:"Vary"`
	Body     ThemeResponse
}

func (s *Server) handleGetTheme(_ context.Context, input *ThemeInput) (*ThemeOutput, error) {
	t, err := theme.Resolve(input.Theme, input.ColorHint)
	if err != nil {
		return nil, err
	}
	return &ThemeOutput{
		AcceptCH: theme.ClientHintHeader,
		Vary:     theme.ClientHintHeader,
		Body: ThemeResponse{
			Theme:     t,
			Variables: t.Variables(),
		},
	}, nil
}
