package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookconnect/bookconnect-server/internal/browse"
	"github.com/bookconnect/bookconnect-server/internal/catalog/catalogtest"
	"github.com/bookconnect/bookconnect-server/internal/presenter"
	"github.com/bookconnect/bookconnect-server/internal/ratelimit"
)

func (ts *testServer) createSession(t *testing.T) TurnResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/sessions")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[TurnResponse](t, resp).Data
}

func ops(instructions []presenter.Instruction) []presenter.Op {
	out := make([]presenter.Op, len(instructions))
	for i, in := range instructions {
		out[i] = in.Op
	}
	return out
}

func previewIDs(items []browse.Preview) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestCreateSession_ReturnsFirstBatch(t *testing.T) {
	ts := setupTestServer(t, nil)

	turn := ts.createSession(t)

	assert.NotEmpty(t, turn.SessionID)
	assert.Len(t, turn.Batch.Items, 8)
	assert.Equal(t, 0, turn.Batch.Remaining)
	assert.False(t, turn.Batch.HasMore)
	assert.Equal(t, browse.Browsing, turn.Snapshot.State)
	assert.Equal(t, 8, turn.Snapshot.Total)
	assert.Equal(t, []presenter.Op{
		presenter.OpRenderBatch,
		presenter.OpSetShowMoreLabel,
		presenter.OpSetShowMoreEnabled,
	}, ops(turn.Instructions))
}

func TestGetSession(t *testing.T) {
	ts := setupTestServer(t, nil)
	turn := ts.createSession(t)

	resp := ts.api.Get("/api/v1/sessions/" + turn.SessionID)
	require.Equal(t, http.StatusOK, resp.Code)

	sess := decode[SessionResponse](t, resp).Data
	assert.Equal(t, turn.SessionID, sess.SessionID)
	assert.Equal(t, browse.Browsing, sess.Snapshot.State)
	assert.False(t, sess.CreatedAt.IsZero())
}

func TestGetSession_NotFound(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/sessions/ses-missing")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "LOOKUP", env.Code)
}

func TestSearch_TitleMatch(t *testing.T) {
	ts := setupTestServer(t, nil)
	turn := ts.createSession(t)

	resp := ts.api.Post("/api/v1/sessions/"+turn.SessionID+"/search", map[string]any{
		"title": "DUNE",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decode[TurnResponse](t, resp).Data
	assert.Equal(t, []string{"b-1", "b-5", "b-8"}, previewIDs(result.Batch.Items))
	assert.Equal(t, browse.Filtered, result.Snapshot.State)
	require.NotEmpty(t, result.Instructions)
	assert.Equal(t, presenter.OpClearList, result.Instructions[0].Op)
}

func TestSearch_CriteriaCombineWithAnd(t *testing.T) {
	ts := setupTestServer(t, nil)
	turn := ts.createSession(t)

	resp := ts.api.Post("/api/v1/sessions/"+turn.SessionID+"/search", map[string]any{
		"author": "a-herbert",
		"genre":  "g-fantasy",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decode[TurnResponse](t, resp).Data
	assert.Equal(t, []string{"b-8"}, previewIDs(result.Batch.Items))
	assert.Equal(t, "a-herbert", result.Snapshot.Criteria.AuthorID)
}

func TestSearch_EmptyBodyShowsEverything(t *testing.T) {
	ts := setupTestServer(t, nil)
	turn := ts.createSession(t)

	resp := ts.api.Post("/api/v1/sessions/"+turn.SessionID+"/search", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decode[TurnResponse](t, resp).Data
	assert.Len(t, result.Batch.Items, 8)
	assert.Equal(t, "any", result.Snapshot.Criteria.AuthorID)
	assert.Equal(t, "any", result.Snapshot.Criteria.GenreID)
}

func TestSearch_NoResults(t *testing.T) {
	ts := setupTestServer(t, nil)
	turn := ts.createSession(t)

	resp := ts.api.Post("/api/v1/sessions/"+turn.SessionID+"/search", map[string]any{
		"title": "no such book",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	result := decode[TurnResponse](t, resp).Data
	assert.Empty(t, result.Batch.Items)
	assert.Equal(t, browse.Empty, result.Snapshot.State)

	var noResults []presenter.Instruction
	for _, in := range result.Instructions {
		if in.Op == presenter.OpRenderNoResults {
			noResults = append(noResults, in)
		}
	}
	require.Len(t, noResults, 1)
	assert.Equal(t, browse.NoResultsMessage, noResults[0].Message)
}

func TestSearch_UnknownAuthorLeavesStateUntouched(t *testing.T) {
	ts := setupTestServer(t, nil)
	turn := ts.createSession(t)

	resp := ts.api.Post("/api/v1/sessions/"+turn.SessionID+"/search", map[string]any{
		"author": "a-nobody",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)

	resp = ts.api.Get("/api/v1/sessions/" + turn.SessionID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, browse.Browsing, decode[SessionResponse](t, resp).Data.Snapshot.State)
}

func TestSearch_MalformedIDRejectedByForm(t *testing.T) {
	ts := setupTestServer(t, nil)
	turn := ts.createSession(t)

	resp := ts.api.Post("/api/v1/sessions/"+turn.SessionID+"/search", map[string]any{
		"genre": "g scifi",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	env := decode[any](t, resp)
	assert.Equal(t, "VALIDATION", env.Code)
	details, ok := env.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "genre")
}

func TestSearch_UnknownSession(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Post("/api/v1/sessions/ses-missing/search", map[string]any{"title": "dune"})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearch_RateLimited(t *testing.T) {
	limiter := ratelimit.New(0.001, 1, ratelimit.WithIdleTimeout(0))
	t.Cleanup(limiter.Stop)
	ts := setupTestServer(t, nil, withLimiter(limiter))
	turn := ts.createSession(t)

	path := "/api/v1/sessions/" + turn.SessionID + "/search"
	first := ts.api.Post(path, map[string]any{"title": "dune"})
	require.Equal(t, http.StatusOK, first.Code)

	second := ts.api.Post(path, map[string]any{"title": "dune"})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	env := decode[any](t, second)
	assert.False(t, env.Success)
	assert.Equal(t, "RATE_LIMITED", env.Code)

	// Only searches are limited.
	more := ts.api.Post("/api/v1/sessions/" + turn.SessionID + "/more")
	assert.Equal(t, http.StatusOK, more.Code)
}

func TestShowMore_HundredBookWalk(t *testing.T) {
	ts := setupTestServer(t, catalogtest.LoadGenerated(t, 100))
	turn := ts.createSession(t)
	require.Len(t, turn.Batch.Items, 36)
	require.Equal(t, 64, turn.Batch.Remaining)

	path := "/api/v1/sessions/" + turn.SessionID + "/more"
	steps := []struct {
		items     int
		remaining int
		hasMore   bool
	}{
		{36, 28, true},
		{28, 0, false},
	}
	for _, step := range steps {
		resp := ts.api.Post(path)
		require.Equal(t, http.StatusOK, resp.Code)
		result := decode[TurnResponse](t, resp).Data
		assert.Len(t, result.Batch.Items, step.items)
		assert.Equal(t, step.remaining, result.Batch.Remaining)
		assert.Equal(t, step.hasMore, result.Batch.HasMore)
		assert.Equal(t, browse.Browsing, result.Snapshot.State)
	}

	// Exhausted: nothing revealed, nothing rendered, window unchanged.
	resp := ts.api.Post(path)
	require.Equal(t, http.StatusOK, resp.Code)
	result := decode[TurnResponse](t, resp).Data
	assert.Empty(t, result.Batch.Items)
	assert.Empty(t, result.Instructions)
	assert.Equal(t, 100, result.Snapshot.Window.Offset)
}

func TestSelectBook(t *testing.T) {
	ts := setupTestServer(t, nil)
	turn := ts.createSession(t)

	resp := ts.api.Post("/api/v1/sessions/" + turn.SessionID + "/books/b-3/select")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decode[DetailResponse](t, resp).Data
	assert.Equal(t, "A Wizard of Earthsea", result.Detail.Title)
	assert.Equal(t, "Ursula K. Le Guin (1968)", result.Detail.Subtitle)
	assert.Equal(t, []string{"Fantasy"}, result.Detail.Genres)
	assert.Equal(t, "A Wizard of Earthsea", result.DescriptionMarkdown)
	require.Len(t, result.Instructions, 1)
	assert.Equal(t, presenter.OpShowDetail, result.Instructions[0].Op)

	// Selection changes what the session's clients show, so it is not a safe GET.
	resp = ts.api.Get("/api/v1/sessions/" + turn.SessionID + "/books/b-3/select")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestSelectBook_OutsideActiveResults(t *testing.T) {
	ts := setupTestServer(t, nil)
	turn := ts.createSession(t)

	resp := ts.api.Post("/api/v1/sessions/"+turn.SessionID+"/search", map[string]any{"author": "a-pratch"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/sessions/" + turn.SessionID + "/books/b-1/select")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "LOOKUP", decode[any](t, resp).Code)

	resp = ts.api.Post("/api/v1/sessions/" + turn.SessionID + "/books/b-unknown/select")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteSession(t *testing.T) {
	ts := setupTestServer(t, nil)
	turn := ts.createSession(t)

	resp := ts.api.Delete("/api/v1/sessions/" + turn.SessionID)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/sessions/" + turn.SessionID)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/sessions/" + turn.SessionID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
