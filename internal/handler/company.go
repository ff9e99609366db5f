package handler

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"github.com/rizzource/rizzource-backend/internal/console"
	"github.com/rizzource/rizzource-backend/pkg"
	"github.com/rizzource/rizzource-backend/pkg/model"
	"github.com/rizzource/rizzource-backend/pkg/response"
)

// CreateCompany provisions the company and its owner profile in one
// transaction. The owner gets a mentor account with the given
// password; a duplicate owner email rolls the whole thing back.
func (h *Handler) CreateCompany(c *gin.Context) {
	ctrl, err := h.companiesController(c)
	if err != nil {
		h.consoleError(c, err)
		return
	}

	var req model.CreateCompanyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	pwHash, err := pkg.HashPassword(req.OwnerPassword)
	if err != nil {
		h.Logger.Error("company create: failed to hash owner password", zap.Error(err))
		response.InternalError(c, "")
		return
	}

	fields := map[string]any{
		"name":                req.Name,
		"owner_name":          req.OwnerName,
		"owner_email":         req.OwnerEmail,
		"owner_password_hash": pwHash,
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Website != nil {
		fields["website"] = *req.Website
	}

	if err := ctrl.Create(c.Request.Context(), fields); err != nil {
		h.Logger.Warn("company create failed", zap.String("name", req.Name), zap.Error(err))
		response.BadRequest(c, err.Error())
		return
	}

	if h.Stats != nil {
		if err := h.Stats.Invalidate(c.Request.Context()); err != nil {
			h.Logger.Warn("stats cache invalidate failed", zap.Error(err))
		}
	}
	response.Created(c, ctrl.View())
}

// UpdateCompany edits company fields. The owner email is immutable
// because the owner profile hangs off it.
func (h *Handler) UpdateCompany(c *gin.Context) {
	ctrl, err := h.companiesController(c)
	if err != nil {
		h.consoleError(c, err)
		return
	}
	id := c.Param("id")

	var req model.UpdateCompanyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	fields := req.Fields()
	if len(fields) == 0 {
		response.BadRequest(c, "no fields to update")
		return
	}

	if err := ctrl.Edit(c.Request.Context(), id, fields); err != nil {
		h.Logger.Error("company update failed", zap.String("id", id), zap.Error(err))
		response.InternalError(c, "failed to update company")
		return
	}
	response.OK(c, ctrl.View())
}

func (h *Handler) companiesController(c *gin.Context) (*console.Controller, error) {
	d, err := h.dashboardFor(c)
	if err != nil {
		return nil, err
	}
	return d.Controller(console.EntityCompanies)
}
