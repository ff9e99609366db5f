package handler

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"github.com/rizzource/rizzource-backend/internal/ailab"
	"github.com/rizzource/rizzource-backend/pkg/response"
)

type parseResumeReq struct {
	ResumeText string `json:"resume_text" binding:"required"`
}

// ParseResume extracts structured profile data from pasted resume
// text via the AI backend.
func (h *Handler) ParseResume(c *gin.Context) {
	var req parseResumeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "resume_text is required")
		return
	}

	out, err := h.AI.ParseResume(c.Request.Context(), req.ResumeText)
	if err != nil {
		h.Logger.Error("resume parse failed", zap.Error(err))
		response.InternalError(c, "resume parsing is unavailable right now")
		return
	}
	response.OK(c, out)
}

// GenerateCoverLetter drafts a cover letter tailored to a posting.
func (h *Handler) GenerateCoverLetter(c *gin.Context) {
	var req ailab.CoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	out, err := h.AI.GenerateCoverLetter(c.Request.Context(), req)
	if err != nil {
		h.Logger.Error("cover letter generation failed", zap.Error(err))
		response.InternalError(c, "cover letter generation is unavailable right now")
		return
	}
	response.OK(c, out)
}

// GenerateBullets rewrites resume experience as posting-targeted
// bullet points.
func (h *Handler) GenerateBullets(c *gin.Context) {
	var req ailab.BulletsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	out, err := h.AI.GenerateBullets(c.Request.Context(), req)
	if err != nil {
		h.Logger.Error("bullet generation failed", zap.Error(err))
		response.InternalError(c, "bullet generation is unavailable right now")
		return
	}
	response.OK(c, out)
}
