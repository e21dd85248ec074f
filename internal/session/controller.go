package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"openshelf/internal/favorites"
	"openshelf/internal/logger"
	"openshelf/internal/metrics"
	"openshelf/internal/openlibrary"
	"openshelf/internal/query"
	"openshelf/internal/search"
)

// Snapshot is an immutable view of the session state handed to the view
// layer on every change.
type Snapshot struct {
	Criteria query.Criteria
	Sort     search.Sort
	Page     int
	Result   *search.Result
	Loading  bool
	LastErr  string
}

// Controller owns all mutable session state: the active criteria, sort
// mode, page, displayed result, loading flag and last error. User actions
// and the debounce timer are the only triggers of work; every issued search
// carries a sequence number and a response that is no longer the latest is
// dropped without touching state.
type Controller struct {
	executor *search.Executor
	favs     *favorites.Store
	debounce *search.Debouncer
	logger   *logrus.Logger

	mu       sync.Mutex
	onUpdate func(Snapshot)
	criteria query.Criteria
	sortBy   search.Sort
	page     int
	result   *search.Result
	loading  bool
	lastErr  string
	seq      uint64
}

func New(executor *search.Executor, favs *favorites.Store, debounce time.Duration, log *logrus.Logger) *Controller {
	return &Controller{
		executor: executor,
		favs:     favs,
		debounce: search.NewDebouncer(debounce),
		logger:   log,
		page:     1,
	}
}

// OnUpdate registers the view callback. It is invoked outside the state
// lock, possibly from the debounce timer or a search goroutine.
func (c *Controller) OnUpdate(fn func(Snapshot)) {
	c.mu.Lock()
	c.onUpdate = fn
	c.mu.Unlock()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Criteria: c.criteria,
		Sort:     c.sortBy,
		Page:     c.page,
		Result:   c.result,
		Loading:  c.loading,
		LastErr:  c.lastErr,
	}
}

func (c *Controller) notify(s Snapshot) {
	c.mu.Lock()
	fn := c.onUpdate
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// SetFreeText updates the free-text field. When no structured field is set
// this schedules a debounced auto-search; otherwise automatic triggering is
// suppressed and only explicit submission runs the search.
func (c *Controller) SetFreeText(text string) {
	c.mu.Lock()
	c.criteria.FreeText = text
	structured := c.criteria.HasStructured()
	c.mu.Unlock()

	if structured {
		c.debounce.Cancel()
		return
	}
	c.debounce.Schedule(func() { c.startSearch(1) })
}

// SetCriteria replaces the whole criteria set without triggering a search.
func (c *Controller) SetCriteria(crit query.Criteria) {
	c.debounce.Cancel()
	c.mu.Lock()
	c.criteria = crit
	c.mu.Unlock()
}

// Submit runs an explicit search from page 1, superseding any pending
// debounced trigger.
func (c *Controller) Submit() {
	c.debounce.Cancel()
	c.startSearch(1)
}

// NextPage advances when the total says another page exists.
func (c *Controller) NextPage() {
	c.mu.Lock()
	ok := c.result != nil && c.result.HasNext()
	page := c.page
	c.mu.Unlock()
	if !ok {
		return
	}
	c.debounce.Cancel()
	c.startSearch(page + 1)
}

// PrevPage goes back one page when not already on the first.
func (c *Controller) PrevPage() {
	c.mu.Lock()
	page := c.page
	c.mu.Unlock()
	if page <= 1 {
		return
	}
	c.debounce.Cancel()
	c.startSearch(page - 1)
}

// SetSort stores the mode for future searches and re-sorts the currently
// displayed page in place; no request is issued.
func (c *Controller) SetSort(s search.Sort) {
	c.mu.Lock()
	c.sortBy = s
	if c.result != nil {
		docs := append([]openlibrary.Doc(nil), c.result.Docs...)
		search.SortDocs(docs, s)
		c.result = &search.Result{Docs: docs, NumFound: c.result.NumFound, Page: c.result.Page}
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Clear resets criteria, results and errors; any pending auto-search dies
// with it.
func (c *Controller) Clear() {
	c.debounce.Cancel()
	c.mu.Lock()
	c.seq++ // orphan any in-flight response
	c.criteria = query.Criteria{}
	c.result = nil
	c.page = 1
	c.loading = false
	c.lastErr = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// ClearError dismisses the error banner.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.lastErr = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// ToggleFavorite flips the bookmark for a document, returning the new state.
func (c *Controller) ToggleFavorite(doc openlibrary.Doc) bool {
	return c.favs.Toggle(doc)
}

func (c *Controller) IsFavorite(doc openlibrary.Doc) bool {
	return c.favs.IsFavorite(doc)
}

func (c *Controller) Favorites() []favorites.Entry {
	return c.favs.List()
}

func (c *Controller) FavoritesByTitle() []favorites.Entry {
	return c.favs.ListByTitle()
}

// startSearch issues search number seq for the given page. The empty query
// is the do-not-search sentinel: prior results are cleared without any
// remote call, and that is not an error.
func (c *Controller) startSearch(page int) {
	c.mu.Lock()
	crit := c.criteria
	sortBy := c.sortBy

	if crit.Build() == "" {
		c.seq++ // orphan any in-flight response
		c.result = &search.Result{Docs: []openlibrary.Doc{}, Page: 1}
		c.page = 1
		c.loading = false
		c.lastErr = ""
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return
	}

	c.seq++
	seq := c.seq
	c.loading = true
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	go c.runSearch(seq, crit, page, sortBy)
}

func (c *Controller) runSearch(seq uint64, crit query.Criteria, page int, sortBy search.Sort) {
	ctx := logger.ContextWithID(context.Background(), seq)
	res, err := c.executor.Execute(ctx, crit, page, sortBy)

	c.mu.Lock()
	if seq != c.seq {
		// A newer search superseded this one; its result must not
		// overwrite later state.
		metrics.StaleResponsesTotal.Inc()
		c.mu.Unlock()
		c.logger.WithField("search_id", seq).Debug("search.stale.dropped")
		return
	}

	c.loading = false
	if err != nil {
		// Prior results stay visible; only the banner changes.
		c.lastErr = userMessage(err)
		c.logger.WithField("search_id", seq).WithError(err).Warn("search.failed")
	} else {
		c.lastErr = ""
		c.result = res
		c.page = res.Page
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func userMessage(err error) string {
	var se *openlibrary.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("Search failed (HTTP %d). Previous results are still shown.", se.Code)
	}
	if errors.Is(err, openlibrary.ErrMalformedResponse) {
		return "The catalog returned an unexpected response. Previous results are still shown."
	}
	return "Search failed: " + err.Error()
}
