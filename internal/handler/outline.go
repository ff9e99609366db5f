package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rizzource/rizzource-backend/internal/console"
	"github.com/rizzource/rizzource-backend/pkg/model"
	"github.com/rizzource/rizzource-backend/pkg/response"
)

var allowedOutlineTypes = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true,
}

// UploadOutline stores the file and creates the outline row. Any
// authenticated user can contribute an outline.
func (h *Handler) UploadOutline(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.CreateOutlineReq
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid form fields")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedOutlineTypes[ext] {
		response.ValidationError(c, fmt.Sprintf("file type %s not allowed", ext))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "could not read uploaded file")
		return
	}
	defer src.Close()

	storedName, size, err := h.Storage.Put(fileHeader.Filename, src)
	if err != nil {
		h.Logger.Error("outline upload: store failed", zap.Error(err))
		response.InternalError(c, "failed to store file")
		return
	}

	outline := &model.Outline{
		Title:       req.Title,
		Topic:       req.Topic,
		Year:        req.Year,
		Professor:   req.Professor,
		FileName:    fileHeader.Filename,
		FileURL:     h.Storage.PublicURL(storedName),
		FileSize:    size,
		FileType:    strings.TrimPrefix(ext, "."),
		UserID:      claims.UserID,
		MentorEmail: req.MentorEmail,
	}
	id, err := h.Repository.CreateOutline(c.Request.Context(), outline)
	if err != nil {
		h.Logger.Error("outline upload: create failed", zap.Error(err))
		if rmErr := h.Storage.Remove(storedName); rmErr != nil {
			h.Logger.Warn("outline upload: orphan file not removed", zap.Error(rmErr))
		}
		response.InternalError(c, "failed to save outline")
		return
	}

	if h.Stats != nil {
		if err := h.Stats.Invalidate(c.Request.Context()); err != nil {
			h.Logger.Warn("stats cache invalidate failed", zap.Error(err))
		}
	}
	response.Created(c, gin.H{"id": id, "file_url": outline.FileURL})
}

// UpdateOutline edits outline metadata from the console. File and
// rating columns stay untouched no matter what the client sends.
func (h *Handler) UpdateOutline(c *gin.Context) {
	d, err := h.dashboardFor(c)
	if err != nil {
		h.consoleError(c, err)
		return
	}
	ctrl, err := d.Controller(console.EntityOutlines)
	if err != nil {
		h.consoleError(c, err)
		return
	}
	id := c.Param("id")

	var req model.UpdateOutlineReq
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
		h.Logger.Error("outline update failed", zap.String("id", id), zap.Error(err))
		response.InternalError(c, "failed to update outline")
		return
	}
	response.OK(c, ctrl.View())
}

// DownloadOutline redirects to the stored file and bumps the download
// counter. Public, the outline library is browsable without an account.
func (h *Handler) DownloadOutline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid outline id")
		return
	}

	outline, err := h.Repository.GetOutlineByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "outline not found")
		return
	}

	if err := h.Repository.IncrementOutlineDownloads(c.Request.Context(), id); err != nil {
		h.Logger.Warn("outline download counter not bumped", zap.String("id", id.String()), zap.Error(err))
	}
	c.Redirect(http.StatusFound, outline.FileURL)
}
