package sse

import "github.com/bookconnect/bookconnect-server/internal/browse"

// Emitter queues events for delivery.
type Emitter interface {
	Emit(event Event)
}

// Presenter turns render instructions for one session into SSE events.
type Presenter struct {
	emitter   Emitter
	sessionID string
}

var _ browse.Presenter = (*Presenter)(nil)

// NewPresenter creates a presenter that emits to sessionID's clients.
func NewPresenter(emitter Emitter, sessionID string) *Presenter {
	return &Presenter{emitter: emitter, sessionID: sessionID}
}

func (p *Presenter) ClearList() {
	p.emitter.Emit(NewListClearEvent(p.sessionID))
}

func (p *Presenter) RenderBatch(batch []browse.Preview) {
	p.emitter.Emit(NewListBatchEvent(p.sessionID, batch))
}

func (p *Presenter) RenderNoResults(message string) {
	p.emitter.Emit(NewNoResultsEvent(p.sessionID, message))
}

func (p *Presenter) SetShowMoreLabel(remaining int) {
	p.emitter.Emit(NewShowMoreLabelEvent(p.sessionID, remaining))
}

func (p *Presenter) SetShowMoreEnabled(enabled bool) {
	p.emitter.Emit(NewShowMoreEnabledEvent(p.sessionID, enabled))
}

func (p *Presenter) ShowDetail(detail browse.Detail) {
	p.emitter.Emit(NewDetailShowEvent(p.sessionID, detail))
}

// Presenter returns a browse.Presenter streaming to sessionID's clients.
func (m *Manager) Presenter(sessionID string) browse.Presenter {
	return NewPresenter(m, sessionID)
}
