package handler

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rizzource/rizzource-backend/internal/console"
	"github.com/rizzource/rizzource-backend/internal/ics"
	"github.com/rizzource/rizzource-backend/pkg/model"
	"github.com/rizzource/rizzource-backend/pkg/response"
)

// CreateEvent adds a calendar event through the events controller so
// the table refreshes to the first page where the new row appears.
func (h *Handler) CreateEvent(c *gin.Context) {
	ctrl, err := h.eventsController(c)
	if err != nil {
		h.consoleError(c, err)
		return
	}
	claims := h.GetClaimsFromContext(c)

	var req model.EventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	monthIndex, err := req.Normalize()
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	fields := map[string]any{
		"title":       req.Title,
		"date":        req.Date,
		"month":       req.Month,
		"month_index": monthIndex,
		"year":        req.Year,
		"priority":    req.Priority,
		"created_by":  claims.UserID.String(),
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Time != nil {
		fields["time"] = *req.Time
	}

	if err := ctrl.Create(c.Request.Context(), fields); err != nil {
		h.Logger.Error("event create failed", zap.Error(err))
		response.InternalError(c, "failed to create event")
		return
	}

	if h.Stats != nil {
		if err := h.Stats.Invalidate(c.Request.Context()); err != nil {
			h.Logger.Warn("stats cache invalidate failed", zap.Error(err))
		}
	}
	response.Created(c, ctrl.View())
}

// UpdateEvent edits an event. Only provided fields change, and a month
// change re-derives the stored month index.
func (h *Handler) UpdateEvent(c *gin.Context) {
	ctrl, err := h.eventsController(c)
	if err != nil {
		h.consoleError(c, err)
		return
	}
	id := c.Param("id")

	var req model.UpdateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	fields, err := req.Fields()
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	if len(fields) == 0 {
		response.BadRequest(c, "no fields to update")
		return
	}

	if err := ctrl.Edit(c.Request.Context(), id, fields); err != nil {
		h.Logger.Error("event update failed", zap.String("id", id), zap.Error(err))
		response.InternalError(c, "failed to update event")
		return
	}
	response.OK(c, ctrl.View())
}

// DownloadEventICS serves a single-event calendar file anyone can add
// to their own calendar. Public, no auth required.
func (h *Handler) DownloadEventICS(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}

	event, err := h.Repository.GetEventByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}

	body := ics.VEvent(event, time.Now().UTC())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ics.FileName(event)))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *Handler) eventsController(c *gin.Context) (*console.Controller, error) {
	d, err := h.dashboardFor(c)
	if err != nil {
		return nil, err
	}
	return d.Controller(console.EntityEvents)
}
