package handler

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"github.com/rizzource/rizzource-backend/pkg"
	"github.com/rizzource/rizzource-backend/pkg/model"
	"github.com/rizzource/rizzource-backend/pkg/response"
)

// SignUp creates a mentee account and returns a token. Mentor and
// admin roles are assigned out of band, never self-selected.
func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	pwHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		h.Logger.Error("signup: failed to hash password", zap.Error(err))
		response.InternalError(c, "")
		return
	}

	id, err := h.Repository.CreateProfile(ctx, req.Email, pwHash, model.RoleMentee)
	if err != nil {
		h.Logger.Warn("signup: profile create failed", zap.String("email", req.Email), zap.Error(err))
		response.BadRequest(c, "could not create account")
		return
	}

	token, claims, err := h.TokenMaker.GenerateToken(id, req.Email, model.RoleMentee, h.TokenTTL)
	if err != nil {
		h.Logger.Error("signup: token generation failed", zap.Error(err))
		response.InternalError(c, "")
		return
	}

	response.Created(c, model.TokenRes{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Unix(),
		User:        model.ProfileRes{ID: id, Email: req.Email, Role: model.RoleMentee},
	})
}

// Login verifies credentials and returns a token carrying the role
// claim.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	profile, err := h.Repository.GetProfileByEmail(ctx, req.Email)
	if err != nil {
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if err := pkg.ComparePassword(profile.PasswordHash, req.Password); err != nil {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, claims, err := h.TokenMaker.GenerateToken(profile.ID, profile.Email, profile.Role, h.TokenTTL)
	if err != nil {
		h.Logger.Error("login: token generation failed", zap.Error(err))
		response.InternalError(c, "")
		return
	}

	response.OK(c, model.TokenRes{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Unix(),
		User:        model.ProfileRes{ID: profile.ID, Email: profile.Email, Role: profile.Role},
	})
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	profile, err := h.Repository.GetProfileByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.NotFound(c, "account no longer exists")
		return
	}

	response.OK(c, model.ProfileRes{ID: profile.ID, Email: profile.Email, Role: profile.Role})
}
