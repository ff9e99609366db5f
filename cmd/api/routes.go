package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(app.RequestIDMiddleware())

	// simple logger middleware that uses zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"))
	})

	r.Use(app.CORSMiddleware())
	r.Use(app.MetricsMiddleware())
	if app.Config.Limiter.Enabled {
		r.Use(app.RateLimitMiddleware())
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/files", app.Config.Storage.Dir)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/signup", app.Handler.SignUp)
		v1.POST("/login", app.Handler.Login)

		// public: calendar files and the outline library downloads
		v1.GET("/events/:id/calendar", app.Handler.DownloadEventICS)
		v1.GET("/outlines/:id/download", app.Handler.DownloadOutline)
	}

	protected := v1.Group("/")
	protected.Use(app.AuthMiddleware())
	{
		protected.GET("/me", app.Handler.Me)
		protected.POST("/outlines", app.Handler.UploadOutline)

		// AI tools
		protected.POST("/ai/resume/parse", app.Handler.ParseResume)
		protected.POST("/ai/cover-letter", app.Handler.GenerateCoverLetter)
		protected.POST("/ai/bullets", app.Handler.GenerateBullets)
	}

	admin := v1.Group("/admin")
	admin.Use(app.AdminAuthMiddleware())
	{
		admin.GET("/dashboard", app.Handler.GetDashboard)
		admin.POST("/dashboard/section", app.Handler.SelectSection)

		// generic table operations
		admin.GET("/tables/:entity", app.Handler.ListEntity)
		admin.GET("/tables/:entity/search", app.Handler.SearchEntity)
		admin.GET("/tables/:entity/export", app.Handler.ExportEntity)
		admin.DELETE("/tables/:entity/:id", app.Handler.DeleteEntity)

		// entity-specific create and edit
		admin.POST("/events", app.Handler.CreateEvent)
		admin.PATCH("/events/:id", app.Handler.UpdateEvent)
		admin.PATCH("/outlines/:id", app.Handler.UpdateOutline)
		admin.POST("/companies", app.Handler.CreateCompany)
		admin.PATCH("/companies/:id", app.Handler.UpdateCompany)
	}

	return r
}
