package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookconnect/bookconnect-server/internal/errors"
	"github.com/bookconnect/bookconnect-server/internal/validation"
)

type searchForm struct {
	Title  string `json:"title" validate:"max=20"`
	Author string `json:"author" validate:"catalogid"`
	Genre  string `json:"genre,omitempty" validate:"catalogid"`
	Theme  string `json:"theme" validate:"omitempty,oneof=day night"`
	Skipped string `json:"-" validate:"max=1"`
}

func TestValidator_Valid(t *testing.T) {
	v := validation.New()

	tests := []searchForm{
		{},
		{Title: "dune", Author: "a-herbert", Genre: "any"},
		{Author: "ANY", Theme: "night", Skipped: "ignored by json name"},
	}
	for _, form := range tests {
		assert.NoError(t, v.Validate(form))
	}
}

func TestValidator_Errors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		form      searchForm
		wantField string
		wantMsg   string
	}{
		{"title too long", searchForm{Title: "an extremely long title indeed"}, "title", "must not exceed 20 characters"},
		{"author with space", searchForm{Author: "a herbert"}, "author", `must be a catalog id or "any"`},
		{"genre control char", searchForm{Genre: "g-\x00"}, "genre", `must be a catalog id or "any"`},
		{"bad theme", searchForm{Theme: "dusk"}, "theme", "must be one of: day night"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.form)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))

			var domainErr *errors.Error
			require.True(t, errors.As(err, &domainErr))
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_CollectsEveryField(t *testing.T) {
	err := validation.New().Validate(searchForm{Author: "a b", Genre: "g h"})

	var domainErr *errors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Len(t, domainErr.Details, 2)
}

func TestValidator_NonStruct(t *testing.T) {
	err := validation.New().Validate("not a struct")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrValidation))
}
