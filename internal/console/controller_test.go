package console

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeRecord struct {
	id   string
	name string
}

func (r fakeRecord) RecordID() string  { return r.id }
func (r fakeRecord) Columns() []string { return []string{"id", "name"} }
func (r fakeRecord) Values() []any     { return []any{r.id, r.name} }

// fakeGateway is the in-memory substitute for the real store. Rows are
// held newest-first, matching the created_at DESC ordering of real
// lists.
type fakeGateway struct {
	mu          sync.Mutex
	rows        []fakeRecord
	listGate    chan struct{} // when set, List blocks until it is closed
	listCalls   atomic.Int32
	searchCalls atomic.Int32
	deleteCalls atomic.Int32
	recordCalls atomic.Int32
	lastQuery   string
}

func newFakeGateway(n int) *fakeGateway {
	gw := &fakeGateway{}
	for i := n; i >= 1; i-- {
		gw.rows = append(gw.rows, fakeRecord{id: fmt.Sprintf("row-%d", i), name: fmt.Sprintf("name %d", i)})
	}
	return gw
}

func (g *fakeGateway) List(ctx context.Context, entity Entity, offset, limit int) (PageResult, error) {
	g.listCalls.Add(1)
	if gate := g.gate(); gate != nil {
		<-gate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return pageOf(g.rows, offset, limit), nil
}

func (g *fakeGateway) Search(ctx context.Context, entity Entity, query string, offset, limit int) (PageResult, error) {
	g.searchCalls.Add(1)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastQuery = query
	var matched []fakeRecord
	for _, r := range g.rows {
		if strings.Contains(strings.ToLower(r.name), strings.ToLower(query)) {
			matched = append(matched, r)
		}
	}
	return pageOf(matched, offset, limit), nil
}

func (g *fakeGateway) Insert(ctx context.Context, entity Entity, fields map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, _ := fields["id"].(string)
	name, _ := fields["name"].(string)
	g.rows = append([]fakeRecord{{id: id, name: name}}, g.rows...)
	return nil
}

func (g *fakeGateway) Update(ctx context.Context, entity Entity, id string, fields map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, r := range g.rows {
		if r.id == id {
			if name, ok := fields["name"].(string); ok {
				g.rows[i].name = name
			}
			return nil
		}
	}
	return fmt.Errorf("row %s not found", id)
}

func (g *fakeGateway) Delete(ctx context.Context, entity Entity, id string) error {
	g.deleteCalls.Add(1)
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, r := range g.rows {
		if r.id == id {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("row %s not found", id)
}

func (g *fakeGateway) Counts(ctx context.Context) (map[Entity]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	counts := make(map[Entity]int)
	for _, e := range Entities() {
		counts[e] = len(g.rows)
	}
	return counts, nil
}

func (g *fakeGateway) RecordExport(ctx context.Context, entity Entity) error {
	g.recordCalls.Add(1)
	return nil
}

func (g *fakeGateway) gate() chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listGate
}

func pageOf(rows []fakeRecord, offset, limit int) PageResult {
	total := len(rows)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]Record, 0, end-offset)
	for _, r := range rows[offset:end] {
		out = append(out, r)
	}
	return PageResult{Rows: out, Total: total}
}

func newTestController(gw Gateway) *Controller {
	return NewController(EntityEvents, gw, zap.NewNop(), DefaultPageSize)
}

// 23 rows at page size 10: pages 1 and 2 carry 10 rows, page 3 the
// remaining 3.
func TestListPageWindows(t *testing.T) {
	gw := newFakeGateway(23)
	c := newTestController(gw)
	ctx := context.Background()

	for page, want := range map[int]int{1: 10, 2: 10, 3: 3} {
		if err := c.List(ctx, page); err != nil {
			t.Fatalf("List(%d): %v", page, err)
		}
		v := c.View()
		if len(v.Rows) != want {
			t.Fatalf("page %d: expected %d rows, got %d", page, want, len(v.Rows))
		}
		if v.Total != 23 {
			t.Fatalf("page %d: expected total 23, got %d", page, v.Total)
		}
		if v.TotalPages != 3 {
			t.Fatalf("page %d: expected 3 total pages, got %d", page, v.TotalPages)
		}
	}
}

func TestListIdempotent(t *testing.T) {
	gw := newFakeGateway(23)
	c := newTestController(gw)
	ctx := context.Background()

	if err := c.List(ctx, 2); err != nil {
		t.Fatalf("List: %v", err)
	}
	first := rowIDs(c.View().Rows)
	if err := c.List(ctx, 2); err != nil {
		t.Fatalf("List: %v", err)
	}
	second := rowIDs(c.View().Rows)
	if len(first) != len(second) {
		t.Fatalf("expected same row count, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("row %d changed between identical lists: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestListClampsOutOfRangePage(t *testing.T) {
	gw := newFakeGateway(23)
	c := newTestController(gw)
	ctx := context.Background()

	if err := c.List(ctx, 1); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := c.List(ctx, 99); err != nil {
		t.Fatalf("List: %v", err)
	}
	if v := c.View(); v.Page != 3 {
		t.Fatalf("expected clamp to last page 3, got %d", v.Page)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	gw := newFakeGateway(5)
	c := newTestController(gw)

	if err := c.ConfirmDelete(context.Background(), "row-3"); err != ErrConfirmRequired {
		t.Fatalf("expected ErrConfirmRequired, got %v", err)
	}
	if got := gw.deleteCalls.Load(); got != 0 {
		t.Fatalf("unconfirmed delete must not reach the gateway, got %d calls", got)
	}
}

func TestConfirmedDeleteRefreshes(t *testing.T) {
	gw := newFakeGateway(5)
	c := newTestController(gw)
	ctx := context.Background()

	if err := c.List(ctx, 1); err != nil {
		t.Fatalf("List: %v", err)
	}
	c.RequestDelete("row-3")
	if err := c.ConfirmDelete(ctx, "row-3"); err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}
	v := c.View()
	if v.Total != 4 {
		t.Fatalf("expected total 4 after delete, got %d", v.Total)
	}
	for _, id := range rowIDs(v.Rows) {
		if id == "row-3" {
			t.Fatalf("deleted row still visible")
		}
	}
	if err := c.ConfirmDelete(ctx, "row-3"); err != ErrConfirmRequired {
		t.Fatalf("successful delete must clear the confirmation, got %v", err)
	}
}

// A failed delete keeps the pending confirmation so the user can
// retry without clicking delete again; cancel still clears it.
func TestFailedDeleteKeepsConfirmState(t *testing.T) {
	gw := newFakeGateway(3)
	c := newTestController(gw)
	ctx := context.Background()

	if err := c.List(ctx, 1); err != nil {
		t.Fatalf("List: %v", err)
	}
	c.RequestDelete("row-99")
	if err := c.ConfirmDelete(ctx, "row-99"); err == nil {
		t.Fatalf("expected delete of missing row to fail")
	}
	if err := c.ConfirmDelete(ctx, "row-99"); err == ErrConfirmRequired {
		t.Fatalf("failed delete must keep the pending confirmation for a retry")
	}
	c.CancelDelete()
	if err := c.ConfirmDelete(ctx, "row-99"); err != ErrConfirmRequired {
		t.Fatalf("expected cancel to drop the confirmation, got %v", err)
	}
}

func TestDeleteOfMissingRowIsNonFatal(t *testing.T) {
	gw := newFakeGateway(3)
	c := newTestController(gw)
	ctx := context.Background()

	if err := c.List(ctx, 1); err != nil {
		t.Fatalf("List: %v", err)
	}
	c.RequestDelete("row-99")
	if err := c.ConfirmDelete(ctx, "row-99"); err == nil {
		t.Fatalf("expected error deleting missing row")
	}
	if v := c.View(); len(v.Rows) != 3 {
		t.Fatalf("failed delete must not remove rows from view, got %d", len(v.Rows))
	}
}

// A delete confirmed while a List is mid-flight for the same table:
// the stale List response is discarded and the final view excludes the
// deleted row at total-1.
func TestDeleteDuringInFlightList(t *testing.T) {
	gw := newFakeGateway(5)
	c := newTestController(gw)
	ctx := context.Background()

	if err := c.List(ctx, 1); err != nil {
		t.Fatalf("List: %v", err)
	}

	gate := make(chan struct{})
	gw.mu.Lock()
	gw.listGate = gate
	gw.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.List(ctx, 1) // will be superseded
	}()

	waitFor(t, func() bool { return gw.listCalls.Load() >= 2 })

	c.RequestDelete("row-2")
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.ConfirmDelete(ctx, "row-2"); err != nil {
			t.Errorf("ConfirmDelete: %v", err)
		}
	}()

	waitFor(t, func() bool { return gw.listCalls.Load() >= 3 })
	close(gate)
	wg.Wait()

	v := c.View()
	if v.Total != 4 {
		t.Fatalf("expected total 4 after delete, got %d", v.Total)
	}
	for _, id := range rowIDs(v.Rows) {
		if id == "row-2" {
			t.Fatalf("stale list response resurfaced a deleted row")
		}
	}
}

// N keystrokes inside the quiet period produce exactly one server
// query, fired after the last keystroke goes quiet.
func TestSearchDebounceSingleFire(t *testing.T) {
	gw := newFakeGateway(23)
	c := newTestController(gw)
	c.SetQuietPeriod(50 * time.Millisecond)

	c.SetQuery("n")
	time.Sleep(10 * time.Millisecond)
	c.SetQuery("na")
	time.Sleep(10 * time.Millisecond)
	c.SetQuery("name 1")

	time.Sleep(200 * time.Millisecond)
	if got := gw.searchCalls.Load(); got != 1 {
		t.Fatalf("expected exactly one search query, got %d", got)
	}
	gw.mu.Lock()
	last := gw.lastQuery
	gw.mu.Unlock()
	if last != "name 1" {
		t.Fatalf("expected final keystroke's query, got %q", last)
	}
}

func TestClearQueryRestoresBasePage(t *testing.T) {
	gw := newFakeGateway(23)
	c := newTestController(gw)
	ctx := context.Background()

	if err := c.List(ctx, 2); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := c.SearchNow(ctx, "name 1", 1); err != nil {
		t.Fatalf("SearchNow: %v", err)
	}
	if !c.Searching() {
		t.Fatalf("expected search overlay active")
	}

	c.SetQuery("")
	if c.Searching() {
		t.Fatalf("expected overlay cleared")
	}
	v := c.View()
	if v.Page != 2 {
		t.Fatalf("clearing search must restore the base view at page 2, got %d", v.Page)
	}
	if v.Total != 23 {
		t.Fatalf("expected base total 23 after clearing search, got %d", v.Total)
	}
}

// While a search is active, a mutation re-triggers the search with the
// same query instead of refreshing the base list.
func TestMutationDuringSearchRerunsSearch(t *testing.T) {
	gw := newFakeGateway(10)
	c := newTestController(gw)
	ctx := context.Background()

	if err := c.List(ctx, 1); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := c.SearchNow(ctx, "name", 1); err != nil {
		t.Fatalf("SearchNow: %v", err)
	}
	listCalls := gw.listCalls.Load()
	searchCalls := gw.searchCalls.Load()

	if err := c.Edit(ctx, "row-4", map[string]any{"name": "renamed 4"}); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got := gw.searchCalls.Load(); got != searchCalls+1 {
		t.Fatalf("expected search re-run after edit, search calls %d -> %d", searchCalls, got)
	}
	if got := gw.listCalls.Load(); got != listCalls {
		t.Fatalf("base list must not refresh while searching, list calls %d -> %d", listCalls, got)
	}
}

func TestCreateResetsToFirstPage(t *testing.T) {
	gw := newFakeGateway(23)
	c := newTestController(gw)
	ctx := context.Background()

	if err := c.List(ctx, 3); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := c.Create(ctx, map[string]any{"id": "row-24", "name": "name 24"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	v := c.View()
	if v.Page != 1 {
		t.Fatalf("expected view back on page 1 after create, got %d", v.Page)
	}
	if v.Total != 24 {
		t.Fatalf("expected total 24 after create, got %d", v.Total)
	}
	if ids := rowIDs(v.Rows); len(ids) == 0 || ids[0] != "row-24" {
		t.Fatalf("expected newest row first, got %v", ids)
	}
}

func TestFailedEditKeepsEditMode(t *testing.T) {
	gw := newFakeGateway(3)
	c := newTestController(gw)
	ctx := context.Background()

	if err := c.List(ctx, 1); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := c.Edit(ctx, "row-99", map[string]any{"name": "x"}); err == nil {
		t.Fatalf("expected edit of missing row to fail")
	}
	if got := c.EditingID(); got != "row-99" {
		t.Fatalf("failed save must keep edit mode open, got %q", got)
	}
}

func rowIDs(rows []Record) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.RecordID())
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not reached before deadline")
}
