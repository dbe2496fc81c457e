// Package session keeps one browse controller per visitor. Each session serializes its
// event turns, so a search or show-more runs to completion before the next one starts.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bookconnect/bookconnect-server/internal/browse"
	"github.com/bookconnect/bookconnect-server/internal/domain"
	"github.com/bookconnect/bookconnect-server/internal/errors"
	"github.com/bookconnect/bookconnect-server/internal/metrics"
	"github.com/bookconnect/bookconnect-server/internal/presenter"
)

// Result is what one turn produced: the batch, the render calls made, and the state after.
type Result struct {
	Batch        browse.Batch            `json:"batch"`
	Snapshot     browse.Snapshot         `json:"snapshot"`
	Instructions []presenter.Instruction `json:"instructions"`
}

// DetailResult is the outcome of selecting a book.
type DetailResult struct {
	Detail       browse.Detail           `json:"detail"`
	Instructions []presenter.Instruction `json:"instructions"`
}

// Session is one visitor's browsing state.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	lastSeen   time.Time
	controller *browse.Controller
	recorder   *presenter.Recorder
	logger     *slog.Logger
}

// LastSeen returns when the session last handled a request.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Snapshot returns the controller state.
func (s *Session) Snapshot() browse.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Snapshot()
}

// Search submits filter criteria.
func (s *Session) Search(criteria domain.FilterCriteria, now time.Time) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now

	batch, err := s.controller.OnFilterSubmit(criteria)
	if err != nil {
		s.recorder.Take()
		if errors.Is(err, errors.ErrValidation) {
			metrics.RecordFilterSubmission(metrics.OutcomeInvalid, 0)
		}
		s.logger.Debug("search rejected", "error", err)
		return Result{}, err
	}

	snap := s.controller.Snapshot()
	outcome := metrics.OutcomeFiltered
	if snap.State == browse.Empty {
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordFilterSubmission(outcome, snap.Total)
	metrics.RecordBatch(len(batch.Items))

	return Result{Batch: batch, Snapshot: snap, Instructions: s.recorder.Take()}, nil
}

// ShowMore reveals the next batch. An exhausted session returns an empty batch and no
// instructions.
func (s *Session) ShowMore(now time.Time) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now

	batch, err := s.controller.OnShowMore()
	if err != nil {
		s.recorder.Take()
		return Result{}, err
	}
	metrics.RecordBatch(len(batch.Items))

	return Result{Batch: batch, Snapshot: s.controller.Snapshot(), Instructions: s.recorder.Take()}, nil
}

// Select opens the detail view for a rendered book.
func (s *Session) Select(bookID string, now time.Time) (DetailResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now

	detail, err := s.controller.OnSelectEntity(bookID)
	metrics.RecordSelection(err == nil)
	if err != nil {
		s.recorder.Take()
		return DetailResult{}, err
	}
	return DetailResult{Detail: detail, Instructions: s.recorder.Take()}, nil
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}
