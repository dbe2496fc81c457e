// Package sse streams render instructions to browsers over Server-Sent Events. Every event
// belongs to one browsing session and is only delivered to that session's clients.
package sse

import (
	"time"

	"github.com/bookconnect/bookconnect-server/internal/browse"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventListClear asks the client to empty the preview list.
	EventListClear EventType = "list.clear"
	// EventListBatch appends previews to the list.
	EventListBatch EventType = "list.batch"
	// EventListNoResults replaces the list with the no-results message.
	EventListNoResults EventType = "list.no_results"
	// EventShowMoreLabel updates the remaining count on the show-more control.
	EventShowMoreLabel EventType = "list.show_more_label"
	// EventShowMoreEnabled toggles the show-more control.
	EventShowMoreEnabled EventType = "list.show_more_enabled"
	// EventDetailShow opens the detail view.
	EventDetailShow EventType = "detail.show"

	// EventSessionExpired tells clients their session was dropped for inactivity.
	EventSessionExpired EventType = "session.expired"

	// EventHeartbeat keeps idle connections open.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// SessionID routes the event. Empty means every client.
	SessionID string `json:"-"`
}

// BatchEventData is the payload for list.batch.
type BatchEventData struct {
	Items []browse.Preview `json:"items"`
}

// NoResultsEventData is the payload for list.no_results.
type NoResultsEventData struct {
	Message string `json:"message"`
}

// ShowMoreLabelEventData is the payload for list.show_more_label.
type ShowMoreLabelEventData struct {
	Label     string `json:"label"`
	Remaining int    `json:"remaining"`
}

// ShowMoreEnabledEventData is the payload for list.show_more_enabled.
type ShowMoreEnabledEventData struct {
	Enabled bool `json:"enabled"`
}

// DetailEventData is the payload for detail.show.
type DetailEventData struct {
	Detail browse.Detail `json:"detail"`
}

// SessionExpiredEventData is the payload for session.expired.
type SessionExpiredEventData struct {
	ExpiredAt time.Time `json:"expired_at"`
}

// HeartbeatEventData is the payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

func newSessionEvent(sessionID string, t EventType, data any) Event {
	return Event{
		Type:      t,
		Data:      data,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// NewListClearEvent creates a list.clear event.
func NewListClearEvent(sessionID string) Event {
	return newSessionEvent(sessionID, EventListClear, struct{}{})
}

// NewListBatchEvent creates a list.batch event.
func NewListBatchEvent(sessionID string, items []browse.Preview) Event {
	return newSessionEvent(sessionID, EventListBatch, BatchEventData{Items: items})
}

// NewNoResultsEvent creates a list.no_results event.
func NewNoResultsEvent(sessionID, message string) Event {
	return newSessionEvent(sessionID, EventListNoResults, NoResultsEventData{Message: message})
}

// NewShowMoreLabelEvent creates a list.show_more_label event.
func NewShowMoreLabelEvent(sessionID string, remaining int) Event {
	return newSessionEvent(sessionID, EventShowMoreLabel, ShowMoreLabelEventData{
		Label:     browse.ShowMoreLabel(remaining),
		Remaining: remaining,
	})
}

// NewShowMoreEnabledEvent creates a list.show_more_enabled event.
func NewShowMoreEnabledEvent(sessionID string, enabled bool) Event {
	return newSessionEvent(sessionID, EventShowMoreEnabled, ShowMoreEnabledEventData{Enabled: enabled})
}

// NewDetailShowEvent creates a detail.show event.
func NewDetailShowEvent(sessionID string, detail browse.Detail) Event {
	return newSessionEvent(sessionID, EventDetailShow, DetailEventData{Detail: detail})
}

// NewSessionExpiredEvent creates a session.expired event.
func NewSessionExpiredEvent(sessionID string) Event {
	return newSessionEvent(sessionID, EventSessionExpired, SessionExpiredEventData{ExpiredAt: time.Now()})
}

// NewHeartbeatEvent creates a heartbeat event for every client.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: time.Now()},
		Timestamp: time.Now(),
	}
}
