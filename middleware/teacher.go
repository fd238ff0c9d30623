package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"sqlworkshop-server/logger"
)

// TeacherModeChecker reports whether a session has teacher mode switched on.
type TeacherModeChecker interface {
	TeacherMode(ctx context.Context, sessionID string) (bool, error)
}

// RequireTeacherMode lets the request through only while the session is in
// teacher mode. The handlers check again inside the session update.
func RequireTeacherMode(checker TeacherModeChecker, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		on, err := checker.TeacherMode(c.Request.Context(), SessionID(c))
		if err != nil {
			log.Error("failed to read teacher mode", "session_id", SessionID(c), "error", err)
			abort(c, http.StatusInternalServerError, "error", "Internal server error")
			return
		}
		if !on {
			abort(c, http.StatusForbidden, "error", "Teacher mode is required")
			return
		}
		c.Next()
	}
}

// WantsJSON is false for HTML form posts, which are answered with a redirect.
func WantsJSON(c *gin.Context) bool {
	ct := c.ContentType()
	return ct != gin.MIMEPOSTForm && ct != gin.MIMEMultipartPOSTForm
}

// NoticeURL is the redirect target after a form post.
func NoticeURL(notice, level string) string {
	q := url.Values{}
	q.Set("notice", notice)
	q.Set("level", level)
	return "/?" + q.Encode()
}

func abort(c *gin.Context, status int, level, msg string) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(status, gin.H{level: msg})
		return
	}
	c.Redirect(http.StatusSeeOther, NoticeURL(msg, strings.ToLower(level)))
	c.Abort()
}
