// Package browse sequences the catalog, filter and paginator in response to user events
// and tells a Presenter what to draw.
//
// A Controller is single-threaded: every On* method runs to completion and is not safe to
// call concurrently. Callers that share a controller between goroutines must serialize
// access (see package session).
package browse

import (
	"log/slog"

	"github.com/bookconnect/bookconnect-server/internal/catalog"
	"github.com/bookconnect/bookconnect-server/internal/domain"
	"github.com/bookconnect/bookconnect-server/internal/errors"
	"github.com/bookconnect/bookconnect-server/internal/filter"
	"github.com/bookconnect/bookconnect-server/internal/paging"
)

// Controller owns the active criteria, match set and page window of one browsing session.
type Controller struct {
	presenter Presenter
	logger    *slog.Logger

	catalog   *catalog.Catalog
	criteria  domain.FilterCriteria
	matches   domain.MatchSet
	positions map[string]int // book id -> index in matches
	pager     *paging.Paginator
	state     State
}

// NewController creates an uninitialized controller rendering through p.
func NewController(p Presenter, logger *slog.Logger) *Controller {
	if p == nil {
		p = NopPresenter{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		presenter: p,
		logger:    logger,
		criteria:  domain.DefaultCriteria(),
		pager:     paging.New(paging.PageSize),
		state:     Uninitialized,
	}
}

// OnLoad builds the catalog from raw records and shows its first batch.
// On error nothing is retained and the controller stays uninitialized.
func (c *Controller) OnLoad(books []domain.Book, authors, genres map[string]string) (Batch, error) {
	cat, err := catalog.Load(books, authors, genres)
	if err != nil {
		return Batch{}, err
	}
	return c.OnCatalog(cat)
}

// OnCatalog attaches an already loaded catalog, which lets several sessions share one.
func (c *Controller) OnCatalog(cat *catalog.Catalog) (Batch, error) {
	if cat == nil {
		return Batch{}, errors.Configuration("catalog is required")
	}
	if c.state != Uninitialized {
		return Batch{}, errors.State("catalog already loaded")
	}

	criteria := domain.DefaultCriteria()
	matches := cat.All()
	next, err := c.prepare(cat, matches)
	if err != nil {
		return Batch{}, err
	}

	c.commit(cat, criteria, matches, next.pager)
	c.state = Browsing
	c.logger.Debug("catalog loaded", "books", cat.Len())

	c.emitFirst(next)
	return next.batch, nil
}

// OnFilterSubmit replaces the active match set with the books matching criteria and shows
// the first batch, or the no-results message. Rejected criteria leave everything as it was.
func (c *Controller) OnFilterSubmit(criteria domain.FilterCriteria) (Batch, error) {
	if err := c.requireLoaded(); err != nil {
		return Batch{}, err
	}

	criteria = criteria.Normalized()
	if err := c.validate(criteria); err != nil {
		return Batch{}, err
	}

	// Build the whole replacement before touching any state so a failure or a later
	// OnShowMore never sees a half-updated window.
	matches := filter.Apply(criteria, c.catalog)
	next, err := c.prepare(c.catalog, matches)
	if err != nil {
		return Batch{}, err
	}

	c.commit(c.catalog, criteria, matches, next.pager)
	if len(matches) == 0 {
		c.state = Empty
	} else {
		c.state = Filtered
	}
	c.logger.Debug("filter applied",
		"title", criteria.Title,
		"author", criteria.AuthorID,
		"genre", criteria.GenreID,
		"matches", len(matches),
		"state", c.state.String(),
	)

	c.presenter.ClearList()
	c.emitFirst(next)
	return next.batch, nil
}

// OnShowMore reveals the next batch. When nothing is left it does nothing and returns an
// empty batch; the show-more control is already disabled in that case.
func (c *Controller) OnShowMore() (Batch, error) {
	if err := c.requireLoaded(); err != nil {
		return Batch{}, err
	}

	if !c.pager.HasMore() {
		c.logger.Debug("show more ignored, nothing remaining", "offset", c.pager.Offset())
		return Batch{Items: []Preview{}}, nil
	}

	batch, remaining := c.pager.NextBatch()
	items, err := previews(c.catalog, batch)
	if err != nil {
		return Batch{}, errors.Wrap(err, errors.CodeInternal, "resolve previews")
	}

	c.presenter.RenderBatch(items)
	c.presenter.SetShowMoreLabel(remaining)
	c.presenter.SetShowMoreEnabled(c.pager.HasMore())

	return Batch{Items: items, Remaining: remaining, HasMore: c.pager.HasMore()}, nil
}

// OnSelectEntity opens the detail view for a book that is currently rendered.
// Books outside the revealed part of the active match set are a lookup error.
func (c *Controller) OnSelectEntity(id string) (Detail, error) {
	if err := c.requireLoaded(); err != nil {
		return Detail{}, err
	}

	pos, ok := c.positions[id]
	if !ok || pos >= c.pager.Offset() {
		return Detail{}, errors.Lookupf("book %q is not in the current results", id)
	}

	detail, err := newDetail(c.catalog, &c.matches[pos])
	if err != nil {
		return Detail{}, err
	}

	c.presenter.ShowDetail(detail)
	return detail, nil
}

// Snapshot returns the current state for display or diagnostics.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:     c.state,
		Criteria:  c.criteria,
		Window:    c.pager.Window(),
		Total:     c.pager.Total(),
		Remaining: c.pager.Remaining(),
		HasMore:   c.pager.HasMore(),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Catalog returns the attached catalog, or nil before load.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// pending is a fully prepared replacement window with its first batch already taken.
type pending struct {
	pager *paging.Paginator
	batch Batch
}

func (c *Controller) prepare(cat *catalog.Catalog, matches domain.MatchSet) (pending, error) {
	pager := paging.New(paging.PageSize)
	pager.Reset(matches)

	first, remaining := pager.NextBatch()
	items, err := previews(cat, first)
	if err != nil {
		return pending{}, errors.Wrap(err, errors.CodeInternal, "resolve previews")
	}

	return pending{
		pager: pager,
		batch: Batch{Items: items, Remaining: remaining, HasMore: pager.HasMore()},
	}, nil
}

func (c *Controller) commit(cat *catalog.Catalog, criteria domain.FilterCriteria, matches domain.MatchSet, pager *paging.Paginator) {
	positions := make(map[string]int, len(matches))
	for i := range matches {
		positions[matches[i].ID] = i
	}

	c.catalog = cat
	c.criteria = criteria
	c.matches = matches
	c.positions = positions
	c.pager = pager
}

// emitFirst renders the first batch of a fresh match set. The no-results message belongs
// to the Empty state only; an empty catalog on load renders an empty batch instead.
func (c *Controller) emitFirst(next pending) {
	if c.state == Empty {
		c.presenter.RenderNoResults(NoResultsMessage)
	} else {
		c.presenter.RenderBatch(next.batch.Items)
	}
	c.presenter.SetShowMoreLabel(next.batch.Remaining)
	c.presenter.SetShowMoreEnabled(next.batch.HasMore)
}

func (c *Controller) requireLoaded() error {
	if c.state == Uninitialized {
		return errors.State("catalog not loaded")
	}
	return nil
}

// validate checks that referenced ids exist. Title is free text and always acceptable.
func (c *Controller) validate(criteria domain.FilterCriteria) error {
	fields := make(map[string]string)
	if criteria.AuthorID != domain.Any && !c.catalog.HasAuthor(criteria.AuthorID) {
		fields["author"] = "unknown author " + criteria.AuthorID
	}
	if criteria.GenreID != domain.Any && !c.catalog.HasGenre(criteria.GenreID) {
		fields["genre"] = "unknown genre " + criteria.GenreID
	}
	if len(fields) > 0 {
		return errors.ValidationWithDetails("invalid filter criteria", fields)
	}
	return nil
}
