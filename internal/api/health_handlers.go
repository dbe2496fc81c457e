package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"catalog":  s.checkCatalog(),
		"sessions": s.checkSessions(),
		"sse":      s.checkSSEManager(),
	}

	overall := "healthy"
	for _, c := range components {
		switch c.Status {
		case "unhealthy":
			overall = "unhealthy"
		case "degraded":
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkCatalog reports whether a catalog is loaded and how big it is.
func (s *Server) checkCatalog() ComponentHealth {
	if s.services.Sessions == nil || s.services.Sessions.Catalog() == nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Message: "catalog not loaded",
		}
	}

	n := s.services.Sessions.Catalog().Len()
	if n == 0 {
		return ComponentHealth{
			Status:  "degraded",
			Message: "catalog is empty",
		}
	}
	return ComponentHealth{
		Status:  "healthy",
		Message: pluralize(n, "book"),
	}
}

func (s *Server) checkSessions() ComponentHealth {
	if s.services.Sessions == nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Message: "session manager not configured",
		}
	}
	return ComponentHealth{
		Status:  "healthy",
		Message: pluralize(s.services.Sessions.Len(), "active session"),
	}
}

// checkSSEManager reports connected stream clients. The stream is optional.
func (s *Server) checkSSEManager() ComponentHealth {
	if s.services.Streams == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "SSE manager not configured",
		}
	}

	count := s.services.Streams.ClientCount()
	if count == 0 {
		return ComponentHealth{Status: "healthy", Message: "no connected clients"}
	}
	return ComponentHealth{
		Status:  "healthy",
		Message: pluralize(count, "connected client"),
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
