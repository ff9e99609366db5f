package console

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultQuietPeriod is how long the search input must stay unchanged
// before a debounced query fires.
const DefaultQuietPeriod = 400 * time.Millisecond

// searchFireTimeout bounds the background query a debounce timer
// fires, since it runs outside any request context.
const searchFireTimeout = 10 * time.Second

// debouncer is a cancellable delay: scheduling a function cancels any
// previously scheduled one, so only the last survives the quiet
// period.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	quiet time.Duration
}

func (d *debouncer) schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, fn)
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// searchState is the overlay that replaces the base paginated view
// while a query is active. It paginates independently; the base page
// is untouched so clearing the query restores the list exactly where
// it was.
type searchState struct {
	query    string
	rows     []Record
	total    int
	page     int
	loading  bool
	seq      uint64
	debounce debouncer
}

func (s *searchState) init(quiet time.Duration) {
	s.debounce.quiet = quiet
	s.page = 1
}

func (s *searchState) active() bool { return s.query != "" }

// SetQuietPeriod overrides the debounce window. Zero or negative
// restores the default.
func (c *Controller) SetQuietPeriod(d time.Duration) {
	if d <= 0 {
		d = DefaultQuietPeriod
	}
	c.mu.Lock()
	c.search.debounce.quiet = d
	c.mu.Unlock()
}

// SetQuery feeds one keystroke of search input. Each call restarts the
// quiet-period timer; only the last value within a quiet period fires
// a query. An empty query cancels any pending timer and clears the
// overlay immediately, restoring the base view at its previous page.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	if query == "" {
		c.search.debounce.cancel()
		c.search.query = ""
		c.search.rows = nil
		c.search.total = 0
		c.search.page = 1
		c.search.seq++
		c.mu.Unlock()
		return
	}
	c.search.query = query
	c.mu.Unlock()

	c.search.debounce.schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), searchFireTimeout)
		defer cancel()
		if err := c.SearchNow(ctx, query, 1); err != nil {
			c.log.Warn("debounced search failed",
				zap.String("entity", string(c.entity)),
				zap.String("query", query),
				zap.Error(err),
			)
		}
	})
}

// SearchNow runs a server-side query immediately, bypassing the
// debounce timer. A response is applied only while its query is still
// the current one and no newer search has been issued, so rapid
// retyping can never surface stale results.
func (c *Controller) SearchNow(ctx context.Context, query string, page int) error {
	if query == "" {
		c.SetQuery("")
		return nil
	}
	c.mu.Lock()
	c.search.query = query
	if c.search.total > 0 {
		page = ClampPage(page, c.search.total, c.pageSize)
	} else if page < 1 {
		page = 1
	}
	c.search.seq++
	seq := c.search.seq
	c.search.loading = true
	c.mu.Unlock()

	offset, limit := Window(page, c.pageSize)
	res, err := c.gw.Search(ctx, c.entity, query, offset, limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.search.seq || c.search.query != query {
		return nil
	}
	c.search.loading = false
	if err != nil {
		return err
	}
	c.search.rows = res.Rows
	c.search.total = res.Total
	c.search.page = ClampPage(page, res.Total, c.pageSize)
	return nil
}

// Searching reports whether the overlay currently replaces the base
// view.
func (c *Controller) Searching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search.active()
}
