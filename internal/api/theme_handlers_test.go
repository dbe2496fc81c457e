package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookconnect/bookconnect-server/internal/theme"
)

func TestGetTheme(t *testing.T) {
	ts := setupTestServer(t, nil)

	tests := []struct {
		name string
		path string
		args []any
		want theme.Theme
	}{
		{"default is day", "/api/v1/theme", nil, theme.Day},
		{"client hint dark", "/api/v1/theme", []any{"Sec-CH-Prefers-Color-Scheme: \"dark\""}, theme.Night},
		{"client hint light", "/api/v1/theme", []any{"Sec-CH-Prefers-Color-Scheme: light"}, theme.Day},
		{"explicit wins over hint", "/api/v1/theme?theme=day", []any{"Sec-CH-Prefers-Color-Scheme: dark"}, theme.Day},
		{"explicit night", "/api/v1/theme?theme=NIGHT", nil, theme.Night},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get(tt.path, tt.args...)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			data := decode[ThemeResponse](t, resp).Data
			assert.Equal(t, tt.want, data.Theme)
			assert.Equal(t, tt.want.Variables(), data.Variables)
			assert.Equal(t, theme.ClientHintHeader, resp.Header().Get("Accept-CH"))
		})
	}
}

func TestGetTheme_NightPalette(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/theme?theme=night")
	require.Equal(t, http.StatusOK, resp.Code)

	data := decode[ThemeResponse](t, resp).Data
	assert.Equal(t, "10, 10, 20", data.Variables["--color-light"])
	assert.Equal(t, "255, 255, 255", data.Variables["--color-dark"])
}

func TestGetTheme_Unknown(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/theme?theme=dusk")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)
}
