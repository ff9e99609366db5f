package console

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrConfirmRequired is returned when a delete is attempted for a
	// row that has no pending confirmation.
	ErrConfirmRequired = errors.New("delete requires confirmation")
	// ErrDeleteInFlight rejects a duplicate delete while one is
	// already running for the same row.
	ErrDeleteInFlight = errors.New("delete already in progress")
)

// Controller owns the view state of one entity: the current page of
// rows, the exact total, a loading flag and the active page number,
// plus the edit/delete sub-states. All mutations go through the
// Gateway and are followed by a re-fetch so server-computed aggregates
// stay authoritative.
type Controller struct {
	entity   Entity
	gw       Gateway
	log      *zap.Logger
	pageSize int

	mu         sync.Mutex
	rows       []Record
	total      int
	page       int
	loading    bool
	listSeq    uint64
	editingID  string
	confirmID  string
	deletingID string

	search searchState
}

// NewController builds a controller starting at page 1 with no rows
// loaded.
func NewController(entity Entity, gw Gateway, log *zap.Logger, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	c := &Controller{
		entity:   entity,
		gw:       gw,
		log:      log,
		pageSize: pageSize,
		page:     1,
	}
	c.search.init(DefaultQuietPeriod)
	return c
}

// View is a consistent snapshot of the controller state for rendering.
type View struct {
	Entity     Entity   `json:"entity"`
	Rows       []Record `json:"rows"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Loading    bool     `json:"loading"`
	Query      string   `json:"query,omitempty"`
	Searching  bool     `json:"searching"`
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.search.active() {
		return View{
			Entity:     c.entity,
			Rows:       c.search.rows,
			Total:      c.search.total,
			Page:       c.search.page,
			TotalPages: TotalPages(c.search.total, c.pageSize),
			Loading:    c.search.loading,
			Query:      c.search.query,
			Searching:  true,
		}
	}
	return View{
		Entity:     c.entity,
		Rows:       c.rows,
		Total:      c.total,
		Page:       c.page,
		TotalPages: TotalPages(c.total, c.pageSize),
		Loading:    c.loading,
	}
}

// VisibleRows is the row set an export would serialize: search results
// while a search is active, the base page otherwise.
func (c *Controller) VisibleRows() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.search.active() {
		return c.search.rows
	}
	return c.rows
}

// List fetches one page of the base view. The requested page is
// clamped against the last known total. A response is applied only if
// it is still the most recent List issued for this controller; stale
// responses are discarded so a superseded page change can never
// overwrite a newer one. On failure the previous rows are kept.
func (c *Controller) List(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.total > 0 {
		page = ClampPage(page, c.total, c.pageSize)
	} else if page < 1 {
		page = 1
	}
	c.listSeq++
	seq := c.listSeq
	c.loading = true
	c.mu.Unlock()

	offset, limit := Window(page, c.pageSize)
	res, err := c.gw.List(ctx, c.entity, offset, limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.listSeq {
		// A newer List superseded this one while it was in flight.
		return nil
	}
	c.loading = false
	if err != nil {
		c.log.Error("list failed",
			zap.String("entity", string(c.entity)),
			zap.Int("page", page),
			zap.Error(err),
		)
		return err
	}
	c.rows = res.Rows
	c.total = res.Total
	c.page = ClampPage(page, res.Total, c.pageSize)
	return nil
}

// Create inserts a new row. On success the view jumps back to page 1
// (or re-runs the active search); on failure the caller keeps its form
// state and may retry.
func (c *Controller) Create(ctx context.Context, fields map[string]any) error {
	if err := c.gw.Insert(ctx, c.entity, fields); err != nil {
		return err
	}
	return c.refreshAfterMutation(ctx, 1)
}

// BeginEdit marks a row as being edited.
func (c *Controller) BeginEdit(id string) {
	c.mu.Lock()
	c.editingID = id
	c.mu.Unlock()
}

// CancelEdit leaves edit mode without saving.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	c.editingID = ""
	c.mu.Unlock()
}

// EditingID reports which row is in edit mode, if any.
func (c *Controller) EditingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID
}

// Edit updates the whitelisted field subset of one row. Success
// clears edit mode and re-fetches the current view; failure keeps
// edit mode open for a retry.
func (c *Controller) Edit(ctx context.Context, id string, fields map[string]any) error {
	c.mu.Lock()
	c.editingID = id
	page := c.page
	c.mu.Unlock()

	if err := c.gw.Update(ctx, c.entity, id, fields); err != nil {
		return err
	}

	c.mu.Lock()
	c.editingID = ""
	c.mu.Unlock()
	return c.refreshAfterMutation(ctx, page)
}

// RequestDelete puts a row into the confirming-delete state. No
// remote call happens until ConfirmDelete.
func (c *Controller) RequestDelete(id string) {
	c.mu.Lock()
	c.confirmID = id
	c.mu.Unlock()
}

// CancelDelete abandons a pending confirmation.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	c.confirmID = ""
	c.mu.Unlock()
}

// ConfirmDelete deletes the row previously passed to RequestDelete.
// It rejects rows without a pending confirmation and duplicate
// deletes for a row whose delete is still in flight. A failed delete
// (including deleting an already-deleted row) is surfaced without
// touching the visible rows, and the pending confirmation stays so
// the user can retry without re-requesting.
func (c *Controller) ConfirmDelete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.confirmID != id {
		c.mu.Unlock()
		return ErrConfirmRequired
	}
	if c.deletingID == id {
		c.mu.Unlock()
		return ErrDeleteInFlight
	}
	c.deletingID = id
	page := c.page
	c.mu.Unlock()

	err := c.gw.Delete(ctx, c.entity, id)

	c.mu.Lock()
	c.deletingID = ""
	if err == nil {
		c.confirmID = ""
	}
	c.mu.Unlock()
	if err != nil {
		c.log.Warn("delete failed",
			zap.String("entity", string(c.entity)),
			zap.String("id", id),
			zap.Error(err),
		)
		return err
	}
	return c.refreshAfterMutation(ctx, page)
}

// refreshAfterMutation re-fetches whichever view is visible: the
// active search (same query, page 1) or the base list at the given
// page.
func (c *Controller) refreshAfterMutation(ctx context.Context, page int) error {
	c.mu.Lock()
	searching := c.search.active()
	query := c.search.query
	searchPage := c.search.page
	c.mu.Unlock()
	if searching {
		return c.SearchNow(ctx, query, searchPage)
	}
	return c.List(ctx, page)
}
