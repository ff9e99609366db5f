package handler

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"github.com/rizzource/rizzource-backend/internal/console"
	"github.com/rizzource/rizzource-backend/pkg/response"
)

// GetDashboard returns the aggregate stats, the section list and the
// active section. Totals come from the short-TTL cache when it is
// warm.
func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.dashboardFor(c)
	if err != nil {
		response.Forbidden(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	stats := map[string]int{}
	cached := false
	if h.Stats != nil {
		if hit, err := h.Stats.Get(ctx); err == nil && hit != nil {
			stats = hit
			cached = true
		}
	}
	if !cached {
		fresh, err := d.RefreshStats(ctx)
		if err != nil {
			h.Logger.Error("dashboard: stats refresh failed", zap.Error(err))
			response.InternalError(c, "failed to load dashboard stats")
			return
		}
		for entity, n := range fresh {
			stats[string(entity)] = n
		}
		if h.Stats != nil {
			if err := h.Stats.Set(ctx, stats); err != nil {
				h.Logger.Warn("dashboard: stats cache not updated", zap.Error(err))
			}
		}
	}

	sections := make([]string, 0, len(console.Entities()))
	for _, e := range console.Entities() {
		sections = append(sections, string(e))
	}

	response.OK(c, gin.H{
		"stats":          stats,
		"sections":       sections,
		"active_section": string(d.ActiveSection()),
	})
}

type selectSectionReq struct {
	Index     *int   `json:"index"`
	Direction string `json:"direction"` // "next" or "prev"
}

// SelectSection cycles or jumps the active section. Prev/next wrap
// around the section list.
func (h *Handler) SelectSection(c *gin.Context) {
	d, err := h.dashboardFor(c)
	if err != nil {
		response.Forbidden(c, err.Error())
		return
	}

	var req selectSectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	var active console.Entity
	switch {
	case req.Index != nil:
		active, err = d.Select(*req.Index)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	case req.Direction == "next":
		active = d.Next()
	case req.Direction == "prev":
		active = d.Prev()
	default:
		response.BadRequest(c, "provide an index or a direction")
		return
	}

	response.OK(c, gin.H{"active_section": string(active)})
}
