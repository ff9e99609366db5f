package handler

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rizzource/rizzource-backend/internal/ailab"
	"github.com/rizzource/rizzource-backend/internal/auth"
	"github.com/rizzource/rizzource-backend/internal/cache"
	"github.com/rizzource/rizzource-backend/internal/console"
	"github.com/rizzource/rizzource-backend/internal/repository"
	"github.com/rizzource/rizzource-backend/internal/storage"
)

// Handler carries the shared dependencies of every HTTP handler. Admin
// requests go through a per-admin console dashboard built lazily on
// first use, so the capability check happens exactly once per session.
type Handler struct {
	Logger     *zap.Logger
	Repository *repository.Repository
	Gateway    console.Gateway
	Exporter   *console.Exporter
	Storage    storage.Store
	AI         *ailab.Client
	Stats      *cache.StatsCache
	TokenMaker *auth.JWTMaker
	TokenTTL   time.Duration
	PageSize   int
	// QuietPeriod is the debounce window applied to every table
	// controller's live search.
	QuietPeriod time.Duration

	mu       sync.Mutex
	consoles map[uuid.UUID]*console.Dashboard
}

// GetClaimsFromContext retrieves the verified token claims set by the
// auth middleware.
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.UserClaims {
	v, exists := c.Get("claims")
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.UserClaims)
	if !ok {
		return nil
	}
	return claims
}

// dashboardFor returns the caller's console, minting the AdminSession
// and loading stats plus first pages on first access.
func (h *Handler) dashboardFor(c *gin.Context) (*console.Dashboard, error) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		return nil, console.ErrNotAdmin
	}
	session, err := console.NewAdminSession(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if h.consoles == nil {
		h.consoles = make(map[uuid.UUID]*console.Dashboard)
	}
	if d, ok := h.consoles[session.UserID]; ok {
		h.mu.Unlock()
		return d, nil
	}
	d := console.NewDashboard(session, h.Gateway, h.Logger, h.PageSize)
	if h.QuietPeriod > 0 {
		for _, e := range console.Entities() {
			if ctrl, err := d.Controller(e); err == nil {
				ctrl.SetQuietPeriod(h.QuietPeriod)
			}
		}
	}
	h.consoles[session.UserID] = d
	h.mu.Unlock()

	if err := d.Load(c.Request.Context()); err != nil {
		h.Logger.Warn("dashboard initial load incomplete", zap.Error(err))
	}
	return d, nil
}

// controllerFor resolves the :entity path segment into the caller's
// table controller.
func (h *Handler) controllerFor(c *gin.Context) (*console.Controller, console.Entity, error) {
	d, err := h.dashboardFor(c)
	if err != nil {
		return nil, "", err
	}
	entity := console.Entity(c.Param("entity"))
	ctrl, err := d.Controller(entity)
	if err != nil {
		return nil, "", fmt.Errorf("unknown table %q", entity)
	}
	return ctrl, entity, nil
}
