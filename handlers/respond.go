package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sqlworkshop-server/logger"
	"sqlworkshop-server/middleware"
	"sqlworkshop-server/sessions"
	"sqlworkshop-server/workshop"
)

// Env is what every handler closes over.
type Env struct {
	Sessions *sessions.Manager
	Workshop *workshop.Workshop
	Log      *logger.Logger
	Cookie   middleware.SessionOptions
}

const (
	levelSuccess = "success"
	levelInfo    = "info"
	levelWarning = "warning"
	levelError   = "error"
)

// reply answers a successful intent. JSON callers get payload, form posts
// are sent back to the page with a notice.
func reply(c *gin.Context, status int, notice, level string, payload interface{}) {
	if middleware.WantsJSON(c) {
		c.JSON(status, payload)
		return
	}
	c.Redirect(http.StatusSeeOther, middleware.NoticeURL(notice, level))
}

// respondError maps workshop errors to a status. Anything unknown is logged
// and reported as a 500.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status, key, msg := http.StatusInternalServerError, levelError, "Internal server error"
	switch {
	case errors.Is(err, workshop.ErrEmptyInput):
		status, key, msg = http.StatusUnprocessableEntity, levelWarning, err.Error()
	case errors.Is(err, workshop.ErrPermissionDenied):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, workshop.ErrResetNotConfirmed):
		status, key, msg = http.StatusConflict, levelWarning, err.Error()
	case errors.Is(err, workshop.ErrUnknownItem):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, workshop.ErrUnknownView):
		status, msg = http.StatusBadRequest, err.Error()
	default:
		log.Error("request failed", "path", c.Request.URL.Path, "session_id", middleware.SessionID(c), "error", err)
	}

	if middleware.WantsJSON(c) {
		c.JSON(status, gin.H{key: msg})
		return
	}
	c.Redirect(http.StatusSeeOther, middleware.NoticeURL(msg, key))
}

func badRequest(c *gin.Context, err error) {
	if middleware.WantsJSON(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	c.Redirect(http.StatusSeeOther, middleware.NoticeURL("Invalid request", levelError))
}
