package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rizzource/rizzource-backend/internal/auth"
	"github.com/rizzource/rizzource-backend/internal/console"
	"github.com/rizzource/rizzource-backend/pkg/model"
)

type stubRecord struct {
	id   string
	name string
}

func (r stubRecord) RecordID() string  { return r.id }
func (r stubRecord) Columns() []string { return []string{"id", "name"} }
func (r stubRecord) Values() []any     { return []any{r.id, r.name} }

// stubGateway backs the console with a fixed in-memory row set.
type stubGateway struct {
	mu          sync.Mutex
	rows        []stubRecord
	deleteCalls int
}

func newStubGateway(n int) *stubGateway {
	gw := &stubGateway{}
	for i := n; i >= 1; i-- {
		gw.rows = append(gw.rows, stubRecord{id: fmt.Sprintf("row-%d", i), name: fmt.Sprintf("name %d", i)})
	}
	return gw
}

func (g *stubGateway) List(ctx context.Context, entity console.Entity, offset, limit int) (console.PageResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := len(g.rows)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]console.Record, 0, end-offset)
	for _, r := range g.rows[offset:end] {
		out = append(out, r)
	}
	return console.PageResult{Rows: out, Total: total}, nil
}

func (g *stubGateway) Search(ctx context.Context, entity console.Entity, query string, offset, limit int) (console.PageResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var matched []console.Record
	for _, r := range g.rows {
		if strings.Contains(r.name, query) {
			matched = append(matched, r)
		}
	}
	return console.PageResult{Rows: matched, Total: len(matched)}, nil
}

func (g *stubGateway) Insert(ctx context.Context, entity console.Entity, fields map[string]any) error {
	return nil
}

func (g *stubGateway) Update(ctx context.Context, entity console.Entity, id string, fields map[string]any) error {
	return nil
}

func (g *stubGateway) Delete(ctx context.Context, entity console.Entity, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleteCalls++
	for i, r := range g.rows {
		if r.id == id {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("row %s not found", id)
}

func (g *stubGateway) Counts(ctx context.Context) (map[console.Entity]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	counts := make(map[console.Entity]int)
	for _, e := range console.Entities() {
		counts[e] = len(g.rows)
	}
	return counts, nil
}

func (g *stubGateway) RecordExport(ctx context.Context, entity console.Entity) error { return nil }

func newTestRouter(gw console.Gateway, role model.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	h := &Handler{
		Logger:   log,
		Gateway:  gw,
		Exporter: console.NewExporter(gw, log),
		PageSize: 10,
	}

	// one stable identity per router so requests share a dashboard
	userID := uuid.New()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		claims := &auth.UserClaims{UserID: userID, Email: "someone@law.edu", Role: role}
		c.Set("claims", claims)
		c.Next()
	})
	r.GET("/admin/tables/:entity", h.ListEntity)
	r.GET("/admin/tables/:entity/search", h.SearchEntity)
	r.GET("/admin/tables/:entity/export", h.ExportEntity)
	r.DELETE("/admin/tables/:entity/:id", h.DeleteEntity)
	return r
}

func doReq(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestListEntityPagination(t *testing.T) {
	r := newTestRouter(newStubGateway(23), model.RoleAdmin)

	w := doReq(r, http.MethodGet, "/admin/tables/events?page=2")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		Meta    struct {
			Page    int  `json:"page"`
			Total   int  `json:"total"`
			HasNext bool `json:"has_next"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Meta.Page != 2 || body.Meta.Total != 23 || !body.Meta.HasNext {
		t.Fatalf("unexpected meta %+v", body.Meta)
	}
}

func TestListEntityRequiresAdmin(t *testing.T) {
	r := newTestRouter(newStubGateway(5), model.RoleMentee)

	if w := doReq(r, http.MethodGet, "/admin/tables/events"); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}
}

func TestListUnknownEntity(t *testing.T) {
	r := newTestRouter(newStubGateway(5), model.RoleAdmin)

	if w := doReq(r, http.MethodGet, "/admin/tables/casebooks"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown table, got %d", w.Code)
	}
}

func TestDeleteEntityTwoPhase(t *testing.T) {
	gw := newStubGateway(5)
	r := newTestRouter(gw, model.RoleAdmin)

	// first call only marks the row, nothing reaches the gateway
	if w := doReq(r, http.MethodDelete, "/admin/tables/events/row-3"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for confirmation request, got %d", w.Code)
	}
	gw.mu.Lock()
	calls := gw.deleteCalls
	gw.mu.Unlock()
	if calls != 0 {
		t.Fatalf("unconfirmed delete must not reach the gateway, got %d calls", calls)
	}

	if w := doReq(r, http.MethodDelete, "/admin/tables/events/row-3?confirm=true"); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for confirmed delete, got %d: %s", w.Code, w.Body.String())
	}
	gw.mu.Lock()
	calls = gw.deleteCalls
	gw.mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected exactly one gateway delete, got %d", calls)
	}
}

func TestDeleteConfirmWithoutRequestRejected(t *testing.T) {
	r := newTestRouter(newStubGateway(5), model.RoleAdmin)

	if w := doReq(r, http.MethodDelete, "/admin/tables/events/row-2?confirm=true"); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for confirm without pending request, got %d", w.Code)
	}
}

func TestExportEntityHeaders(t *testing.T) {
	r := newTestRouter(newStubGateway(3), model.RoleAdmin)

	w := doReq(r, http.MethodGet, "/admin/tables/outlines/export")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "outlines_export_") || !strings.Contains(cd, ".xlsx") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("expected workbook bytes in body")
	}
}

// With a search active, export serializes the visible search results:
// a no-match search leaves nothing to export, a matching one exports
// exactly the result rows instead of the full table.
func TestExportFollowsActiveSearch(t *testing.T) {
	gw := newStubGateway(23)
	r := newTestRouter(gw, model.RoleAdmin)

	if w := doReq(r, http.MethodGet, "/admin/tables/events/search?q=zzz"); w.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", w.Code)
	}
	if w := doReq(r, http.MethodGet, "/admin/tables/events/export"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 exporting an empty search result, got %d", w.Code)
	}

	// "name 2" matches name 2 and name 20..23
	if w := doReq(r, http.MethodGet, "/admin/tables/events/search?q=name+2"); w.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", w.Code)
	}
	w := doReq(r, http.MethodGet, "/admin/tables/events/export")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("events")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 6 { // header + 5 matches
		t.Fatalf("expected 6 sheet rows for the search results, got %d", len(rows))
	}
}

func TestExportEmptyTableRefused(t *testing.T) {
	r := newTestRouter(newStubGateway(0), model.RoleAdmin)

	if w := doReq(r, http.MethodGet, "/admin/tables/outlines/export"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty export, got %d", w.Code)
	}
}
