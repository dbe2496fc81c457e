package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bookconnect/bookconnect-server/internal/browse"
	"github.com/bookconnect/bookconnect-server/internal/catalog"
	"github.com/bookconnect/bookconnect-server/internal/domain"
	"github.com/bookconnect/bookconnect-server/internal/errors"
	"github.com/bookconnect/bookconnect-server/internal/id"
	"github.com/bookconnect/bookconnect-server/internal/metrics"
	"github.com/bookconnect/bookconnect-server/internal/presenter"
)

// Stream delivers render calls to live clients of a session.
type Stream interface {
	Presenter(sessionID string) browse.Presenter
	CloseSession(sessionID string)
}

// Config tunes the manager.
type Config struct {
	TTL           time.Duration
	SweepInterval time.Duration
	Now           func() time.Time
}

// Manager owns every live session. All sessions share one read-only catalog.
type Manager struct {
	catalog *catalog.Catalog
	stream  Stream
	logger  *slog.Logger
	ttl     time.Duration
	sweep   time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	wg       sync.WaitGroup
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a manager for cat. stream may be nil when nothing listens.
func NewManager(cat *catalog.Catalog, stream Stream, cfg Config, logger *slog.Logger) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		catalog:  cat,
		stream:   stream,
		logger:   logger,
		ttl:      cfg.TTL,
		sweep:    cfg.SweepInterval,
		now:      cfg.Now,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
}

// Catalog returns the shared catalog.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// Create starts a session on the unfiltered catalog and returns its first batch.
func (m *Manager) Create() (*Session, Result, error) {
	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, Result{}, errors.Wrap(err, errors.CodeInternal, "generate session id")
	}

	logger := m.logger.With("session_id", sessionID)
	recorder := presenter.NewRecorder()
	var p browse.Presenter = recorder
	if m.stream != nil {
		p = presenter.Tee(recorder, m.stream.Presenter(sessionID))
	}

	controller := browse.NewController(p, logger)
	batch, err := controller.OnCatalog(m.catalog)
	if err != nil {
		return nil, Result{}, err
	}

	now := m.now()
	s := &Session{
		ID:         sessionID,
		CreatedAt:  now,
		lastSeen:   now,
		controller: controller,
		recorder:   recorder,
		logger:     logger,
	}

	m.mu.Lock()
	m.sessions[sessionID] = s
	total := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Inc()
	metrics.RecordBatch(len(batch.Items))
	logger.Info("session created", "total_sessions", total)

	return s, Result{Batch: batch, Snapshot: controller.Snapshot(), Instructions: recorder.Take()}, nil
}

// Get returns a live session.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.Lookupf("session %q not found", sessionID)
	}
	return s, nil
}

// Exists reports whether sessionID is live.
func (m *Manager) Exists(sessionID string) bool {
	_, err := m.Get(sessionID)
	return err == nil
}

// Search runs a filter submission in sessionID.
func (m *Manager) Search(sessionID string, criteria domain.FilterCriteria) (Result, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return Result{}, err
	}
	return s.Search(criteria, m.now())
}

// ShowMore reveals the next batch in sessionID.
func (m *Manager) ShowMore(sessionID string) (Result, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return Result{}, err
	}
	return s.ShowMore(m.now())
}

// Select opens a book's detail view in sessionID.
func (m *Manager) Select(sessionID, bookID string) (DetailResult, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return DetailResult{}, err
	}
	return s.Select(bookID, m.now())
}

// Snapshot returns the state of sessionID.
func (m *Manager) Snapshot(sessionID string) (browse.Snapshot, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return browse.Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// Delete ends a session. Unknown ids are a lookup error.
func (m *Manager) Delete(sessionID string) error {
	m.mu.Lock()
	_, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if !ok {
		return errors.Lookupf("session %q not found", sessionID)
	}
	m.closed(sessionID)
	m.logger.Info("session deleted", "session_id", sessionID)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Expire drops every session idle for longer than the TTL and returns how many went.
func (m *Manager) Expire() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []string
	for sid, s := range m.sessions {
		if s.idleSince(cutoff) {
			delete(m.sessions, sid)
			expired = append(expired, sid)
		}
	}
	m.mu.Unlock()

	for _, sid := range expired {
		m.closed(sid)
		metrics.SessionsExpired.Inc()
	}
	if len(expired) > 0 {
		m.logger.Info("sessions expired", "count", len(expired), "remaining", m.Len())
	}
	return len(expired)
}

// Start runs the idle sweep in the background until Shutdown.
func (m *Manager) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.sweep)
		defer ticker.Stop()
		for {
			select {
			case <-m.done:
				return
			case <-ticker.C:
				m.Expire()
			}
		}
	}()
}

// Shutdown stops the sweep. Sessions are left in memory.
func (m *Manager) Shutdown() error {
	m.stopOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
	return nil
}

func (m *Manager) closed(sessionID string) {
	metrics.ActiveSessions.Dec()
	if m.stream != nil {
		m.stream.CloseSession(sessionID)
	}
}
