package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookconnect/bookconnect-server/internal/browse"
	"github.com/bookconnect/bookconnect-server/internal/domain"
	"github.com/bookconnect/bookconnect-server/internal/presenter"
	"github.com/bookconnect/bookconnect-server/internal/session"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Start browsing",
		Description:   "Creates a browsing session on the full catalog and returns its first batch",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get session",
		Description: "Returns the browse state of a session",
		Tags:        []string{"Sessions"},
	}, s.handleGetSession)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteSession",
		Method:        http.MethodDelete,
		Path:          "/api/v1/sessions/{id}",
		Summary:       "End session",
		Description:   "Ends a session and closes its render streams",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/search",
		Summary:     "Search",
		Description: "Submits filter criteria. The list is cleared and the first batch of matches is returned",
		Tags:        []string{"Sessions"},
		Middlewares: huma.Middlewares{s.rateLimit},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "showMore",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/more",
		Summary:     "Show more",
		Description: "Reveals the next batch of the current results. Does nothing once every match is shown",
		Tags:        []string{"Sessions"},
	}, s.handleShowMore)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/books/{bookID}/select",
		Summary:     "Select book",
		Description: "Opens the detail view for a book in the revealed results and streams it to the session's clients",
		Tags:        []string{"Sessions"},
	}, s.handleSelectBook)
}

// === DTOs ===

// SessionPathInput identifies a session.
type SessionPathInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// TurnResponse is what a browse event produced.
type TurnResponse struct {
	SessionID    string                  `json:"session_id" doc:"Session ID"`
	Batch        browse.Batch            `json:"batch" doc:"Previews revealed by this request"`
	Snapshot     browse.Snapshot         `json:"snapshot" doc:"Browse state after the request"`
	Instructions []presenter.Instruction `json:"instructions" doc:"Render calls made, in order"`
}

// TurnOutput wraps a turn response for Huma.
type TurnOutput struct {
	Body TurnResponse
}

// SessionResponse describes a live session.
type SessionResponse struct {
	SessionID string          `json:"session_id" doc:"Session ID"`
	CreatedAt time.Time       `json:"created_at" doc:"When the session started"`
	LastSeen  time.Time       `json:"last_seen" doc:"Last request handled by the session"`
	Snapshot  browse.Snapshot `json:"snapshot" doc:"Current browse state"`
}

// SessionOutput wraps a session response for Huma.
type SessionOutput struct {
	Body SessionResponse
}

// SearchRequest is the search form.
type SearchRequest struct {
	Title  string `json:"title,omitempty" maxLength:"200" validate:"max=200" doc:"Case-insensitive title fragment"`
	Author string `json:"author,omitempty" validate:"catalogid" doc:"Author ID, or \"any\""`
	Genre  string `json:"genre,omitempty" validate:"catalogid" doc:"Genre ID, or \"any\""`
}

// SearchInput contains parameters for a search.
type SearchInput struct {
	ID   string        `path:"id" doc:"Session ID"`
	Body SearchRequest `required:"false"`
}

// SelectBookInput identifies a book within a session.
type SelectBookInput struct {
	ID     string `path:"id" doc:"Session ID"`
	BookID string `path:"bookID" doc:"Book ID"`
}

// DetailResponse is the detail view for one book.
type DetailResponse struct {
	SessionID           string                  `json:"session_id" doc:"Session ID"`
	Detail              browse.Detail           `json:"detail" doc:"Book detail"`
	DescriptionMarkdown string                  `json:"description_markdown" doc:"The description converted to Markdown"`
	Instructions        []presenter.Instruction `json:"instructions" doc:"Render calls made, in order"`
}

// DetailOutput wraps a detail response for Huma.
type DetailOutput struct {
	Body DetailResponse
}

// === Handlers ===

func (s *Server) handleCreateSession(_ context.Context, _ *struct{}) (*TurnOutput, error) {
	sess, result, err := s.services.Sessions.Create()
	if err != nil {
		return nil, err
	}
	return &TurnOutput{Body: turnResponse(sess.ID, result)}, nil
}

func (s *Server) handleGetSession(_ context.Context, input *SessionPathInput) (*SessionOutput, error) {
	sess, err := s.services.Sessions.Get(input.ID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{
		Body: SessionResponse{
			SessionID: sess.ID,
			CreatedAt: sess.CreatedAt,
			LastSeen:  sess.LastSeen(),
			Snapshot:  sess.Snapshot(),
		},
	}, nil
}

func (s *Server) handleDeleteSession(_ context.Context, input *SessionPathInput) (*struct{}, error) {
	if err := s.services.Sessions.Delete(input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleSearch(_ context.Context, input *SearchInput) (*TurnOutput, error) {
	if err := s.services.Validator.Validate(input.Body); err != nil {
		return nil, err
	}

	criteria := domain.FilterCriteria{
		Title:    input.Body.Title,
		AuthorID: input.Body.Author,
		GenreID:  input.Body.Genre,
	}
	result, err := s.services.Sessions.Search(input.ID, criteria)
	if err != nil {
		return nil, err
	}
	return &TurnOutput{Body: turnResponse(input.ID, result)}, nil
}

func (s *Server) handleShowMore(_ context.Context, input *SessionPathInput) (*TurnOutput, error) {
	result, err := s.services.Sessions.ShowMore(input.ID)
	if err != nil {
		return nil, err
	}
	return &TurnOutput{Body: turnResponse(input.ID, result)}, nil
}

func (s *Server) handleSelectBook(_ context.Context, input *SelectBookInput) (*DetailOutput, error) {
	result, err := s.services.Sessions.Select(input.ID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &DetailOutput{
		Body: DetailResponse{
			SessionID:           input.ID,
			Detail:              result.Detail,
			DescriptionMarkdown: htmlToMarkdown(result.Detail.Description),
			Instructions:        result.Instructions,
		},
	}, nil
}

func turnResponse(sessionID string, r session.Result) TurnResponse {
	items := r.Batch.Items
	if items == nil {
		items = []browse.Preview{}
	}
	r.Batch.Items = items
	return TurnResponse{
		SessionID:    sessionID,
		Batch:        r.Batch,
		Snapshot:     r.Snapshot,
		Instructions: r.Instructions,
	}
}
