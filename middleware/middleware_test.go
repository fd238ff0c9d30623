package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"sqlworkshop-server/logger"
)

var testOpts = SessionOptions{
	SigningKey: "test-key",
	Issuer:     "sqlworkshop-test",
	CookieName: "sqlws_session",
	TTL:        time.Hour,
}

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(testOpts, logger.Nop()))
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})
	return r
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == testOpts.CookieName {
			return ck
		}
	}
	return nil
}

func TestSessionIssuesAndReusesCookie(t *testing.T) {
	r := sessionRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))
	first := rec.Body.String()
	ck := sessionCookie(t, rec)
	if first == "" || ck == nil {
		t.Fatalf("no session issued: id=%q cookie=%v", first, ck)
	}
	if !ck.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.AddCookie(ck)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Body.String(); got != first {
		t.Fatalf("session id changed: %q -> %q", first, got)
	}
	if sessionCookie(t, rec) != nil {
		t.Fatalf("fresh cookie should not be re-issued")
	}
}

func TestSessionReplacesBadTokens(t *testing.T) {
	r := sessionRouter()
	now := time.Now()

	foreign := testOpts
	foreign.Issuer = "someone-else"
	foreignToken, _ := signSessionToken("6f1c2f9e-1d7e-4c59-9d0a-3f1d1b0c1a11", foreign, now)

	otherKey := testOpts
	otherKey.SigningKey = "other"
	forgedToken, _ := signSessionToken("6f1c2f9e-1d7e-4c59-9d0a-3f1d1b0c1a11", otherKey, now)

	expiredToken, _ := signSessionToken("6f1c2f9e-1d7e-4c59-9d0a-3f1d1b0c1a11", testOpts, now.Add(-2*time.Hour))
	notUUID, _ := signSessionToken("not-a-uuid", testOpts, now)

	for name, token := range map[string]string{
		"garbage":  "abc.def.ghi",
		"issuer":   foreignToken,
		"key":      forgedToken,
		"expired":  expiredToken,
		"not uuid": notUUID,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/id", nil)
			req.AddCookie(&http.Cookie{Name: testOpts.CookieName, Value: token})
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := rec.Body.String(); got == "" || got == "6f1c2f9e-1d7e-4c59-9d0a-3f1d1b0c1a11" {
				t.Fatalf("session id = %q, want a fresh one", got)
			}
			if sessionCookie(t, rec) == nil {
				t.Fatalf("no replacement cookie issued")
			}
		})
	}
}

func TestSessionRefreshesAgingCookie(t *testing.T) {
	r := sessionRouter()
	id := "6f1c2f9e-1d7e-4c59-9d0a-3f1d1b0c1a11"
	old, _ := signSessionToken(id, testOpts, time.Now().Add(-40*time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.AddCookie(&http.Cookie{Name: testOpts.CookieName, Value: old})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Body.String() != id {
		t.Fatalf("session id = %q, want %q", rec.Body.String(), id)
	}
	if sessionCookie(t, rec) == nil {
		t.Fatalf("aging cookie was not refreshed")
	}
}

type fakeChecker struct {
	on  bool
	err error
}

func (f fakeChecker) TeacherMode(context.Context, string) (bool, error) {
	return f.on, f.err
}

func TestRequireTeacherMode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		checker  fakeChecker
		form     bool
		want     int
		location string
	}{
		{"teacher", fakeChecker{on: true}, false, http.StatusNoContent, ""},
		{"student json", fakeChecker{}, false, http.StatusForbidden, ""},
		{"student form", fakeChecker{}, true, http.StatusSeeOther, "/?level=error&notice=Teacher+mode+is+required"},
		{"store error", fakeChecker{err: errors.New("down")}, false, http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/x", RequireTeacherMode(tt.checker, logger.Nop()), func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("a=b"))
			if tt.form {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			} else {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Fatalf("location = %q", rec.Header().Get("Location"))
			}
		})
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	origin := "http://aula.example.com"

	r := gin.New()
	r.Use(CORS([]string{origin}))
	r.GET("/api/v1/state", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/state", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Fatalf("allow-origin = %q, want %q", got, origin)
	}
}
