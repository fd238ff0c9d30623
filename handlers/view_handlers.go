package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sqlworkshop-server/middleware"
	"sqlworkshop-server/templates"
	"sqlworkshop-server/utils"
)

var noticeLevels = []string{levelSuccess, levelInfo, levelWarning, levelError}

// Index renders the current view. Rendering never changes the session.
// GET /
func Index(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := env.Sessions.View(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			env.Log.Error("failed to load session", "session_id", middleware.SessionID(c), "error", err)
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}

		page := templates.Page{VM: env.Workshop.Project(st)}
		if notice := c.Query("notice"); notice != "" {
			page.Notice = notice
			page.Level = c.Query("level")
			if !utils.ContainsString(noticeLevels, page.Level) {
				page.Level = levelInfo
			}
		}
		c.HTML(http.StatusOK, templates.Name(page.VM.View), page)
	}
}

// Download serves a catalog asset verbatim.
// GET /downloads/:name
func Download(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := env.Workshop.Catalog().Asset(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown download"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
		c.Data(http.StatusOK, a.ContentType+"; charset=utf-8", a.Body)
	}
}

// Health reports liveness and the number of stored sessions.
// GET /healthz
func Health(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := env.Sessions.Store().Count(c.Request.Context())
		if err != nil {
			env.Log.Error("session store unavailable", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "session store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": n})
	}
}
