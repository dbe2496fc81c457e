package api

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookconnect/bookconnect-server/internal/errors"
	"github.com/bookconnect/bookconnect-server/internal/http/response"
)

func TestRegisterErrorHandler_DomainErrors(t *testing.T) {
	RegisterErrorHandler()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"lookup", domainerrors.Lookup("missing"), http.StatusNotFound, "LOOKUP"},
		{"state", domainerrors.State("not loaded"), http.StatusConflict, "STATE"},
		{"validation", domainerrors.Validation("bad"), http.StatusBadRequest, "VALIDATION"},
		{"rate limited", domainerrors.RateLimited("slow down"), http.StatusTooManyRequests, "RATE_LIMITED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := huma.NewError(http.StatusInternalServerError, "unexpected error occurred", tt.err)
			assert.Equal(t, tt.wantStatus, se.GetStatus())

			apiErr, ok := se.(*APIError)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestRegisterErrorHandler_PlainErrors(t *testing.T) {
	RegisterErrorHandler()

	se := huma.NewError(http.StatusUnprocessableEntity, "validation failed",
		&huma.ErrorDetail{Message: "expected string", Location: "body.title"})

	apiErr, ok := se.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.GetStatus())
	assert.Equal(t, "VALIDATION", apiErr.Code)
	assert.Len(t, apiErr.Details, 1)

	se = huma.NewError(http.StatusInternalServerError, "boom", domainerrors.New("db gone"))
	apiErr, ok = se.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "INTERNAL", apiErr.Code)
	assert.Nil(t, apiErr.Details)
}

func TestEnvelopeTransformer(t *testing.T) {
	out, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "b-1"})
	require.NoError(t, err)
	assert.Equal(t, response.Envelope{Success: true, Data: map[string]string{"id": "b-1"}}, out)

	out, err = EnvelopeTransformer(nil, "404", &APIError{status: 404, Code: "LOOKUP", Message: "gone"})
	require.NoError(t, err)
	assert.Equal(t, response.Envelope{Code: "LOOKUP", Error: "gone"}, out)
}
