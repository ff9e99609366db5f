package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"github.com/rizzource/rizzource-backend/internal/console"
	"github.com/rizzource/rizzource-backend/pkg/response"
)

// ListEntity returns one page of the entity table.
// GET /admin/tables/:entity?page=2
func (h *Handler) ListEntity(c *gin.Context) {
	ctrl, _, err := h.controllerFor(c)
	if err != nil {
		h.consoleError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err := ctrl.List(c.Request.Context(), page); err != nil {
		h.Logger.Error("list failed", zap.String("entity", c.Param("entity")), zap.Error(err))
		response.InternalError(c, "failed to load table")
		return
	}

	h.renderView(c, ctrl.View())
}

// SearchEntity runs an immediate search over the entity's searchable
// fields. An empty query clears the overlay and restores the base page.
// GET /admin/tables/:entity/search?q=smith&page=1
func (h *Handler) SearchEntity(c *gin.Context) {
	ctrl, _, err := h.controllerFor(c)
	if err != nil {
		h.consoleError(c, err)
		return
	}

	query := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err := ctrl.SearchNow(c.Request.Context(), query, page); err != nil {
		h.Logger.Error("search failed",
			zap.String("entity", c.Param("entity")),
			zap.String("query", query),
			zap.Error(err))
		response.InternalError(c, "search failed")
		return
	}

	h.renderView(c, ctrl.View())
}

// DeleteEntity is the two-phase delete. The first call marks the row
// pending confirmation; the call with confirm=true performs it. A
// confirm without a matching pending mark is rejected.
// DELETE /admin/tables/:entity/:id?confirm=true
func (h *Handler) DeleteEntity(c *gin.Context) {
	ctrl, entity, err := h.controllerFor(c)
	if err != nil {
		h.consoleError(c, err)
		return
	}
	id := c.Param("id")

	if c.Query("confirm") != "true" {
		ctrl.RequestDelete(id)
		response.OK(c, gin.H{"pending_confirmation": id})
		return
	}

	if err := ctrl.ConfirmDelete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, console.ErrConfirmRequired):
			response.Conflict(c, "delete has not been requested for this row")
		case errors.Is(err, console.ErrDeleteInFlight):
			response.Conflict(c, "a delete is already in progress")
		default:
			h.Logger.Error("delete failed",
				zap.String("entity", string(entity)),
				zap.String("id", id),
				zap.Error(err))
			response.InternalError(c, "delete failed")
		}
		return
	}

	if h.Stats != nil {
		if err := h.Stats.Invalidate(c.Request.Context()); err != nil {
			h.Logger.Warn("stats cache invalidate failed", zap.Error(err))
		}
	}
	response.NoContent(c)
}

// ExportEntity streams the currently visible row set as a
// spreadsheet: the active search results while a search is on, the
// base page otherwise. An empty visible set is refused rather than
// producing a file of headers. GET /admin/tables/:entity/export
func (h *Handler) ExportEntity(c *gin.Context) {
	ctrl, entity, err := h.controllerFor(c)
	if err != nil {
		h.consoleError(c, err)
		return
	}

	file, err := h.Exporter.Export(c.Request.Context(), entity, ctrl.VisibleRows())
	if err != nil {
		switch {
		case errors.Is(err, console.ErrNothingToExport):
			response.BadRequest(c, "nothing to export")
		case errors.Is(err, console.ErrExportInFlight):
			response.Conflict(c, "an export for this table is already running")
		default:
			h.Logger.Error("export failed", zap.String("entity", string(entity)), zap.Error(err))
			response.InternalError(c, "export failed")
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file.Data)
}

func (h *Handler) renderView(c *gin.Context, v console.View) {
	rows := v.Rows
	if rows == nil {
		rows = []console.Record{}
	}
	response.OKWithMeta(c, gin.H{
		"entity":    v.Entity,
		"rows":      rows,
		"query":     v.Query,
		"searching": v.Searching,
	}, &response.Meta{
		Page:     v.Page,
		PageSize: h.PageSize,
		Total:    v.Total,
		HasNext:  v.Page < v.TotalPages,
	})
}

func (h *Handler) consoleError(c *gin.Context, err error) {
	if errors.Is(err, console.ErrNotAdmin) {
		response.Forbidden(c, err.Error())
		return
	}
	response.NotFound(c, err.Error())
}
