package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sqlworkshop-server/logger"
)

// SessionIDKey is the gin context key holding the session id.
const SessionIDKey = "session_id"

type SessionOptions struct {
	SigningKey string
	Issuer     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// sessionClaims carries the session id as the subject.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// Session identifies the browser session through a signed cookie. There is no
// authentication: a missing, tampered, expired or foreign token simply starts
// a new session. Tokens past half their lifetime are re-issued so an active
// session does not expire under the user.
func Session(opts SessionOptions, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()

		if raw, err := c.Cookie(opts.CookieName); err == nil && raw != "" {
			cl, err := parseSessionToken(raw, opts)
			if err == nil {
				if cl.ExpiresAt != nil && cl.ExpiresAt.Sub(now) < opts.TTL/2 {
					if err := setSessionCookie(c, cl.Subject, opts, now); err != nil {
						log.Error("failed to refresh session cookie", "error", err)
					}
				}
				c.Set(SessionIDKey, cl.Subject)
				c.Next()
				return
			}
			log.Debug("discarding session cookie", "error", err)
		}

		id := uuid.NewString()
		if err := setSessionCookie(c, id, opts, now); err != nil {
			log.Error("failed to sign session cookie", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not start a session"})
			return
		}
		c.Set(SessionIDKey, id)
		c.Next()
	}
}

func parseSessionToken(raw string, opts SessionOptions) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(opts.SigningKey), nil
	}, jwt.WithIssuer(opts.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	cl, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session claims")
	}
	if _, err := uuid.Parse(cl.Subject); err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}
	return cl, nil
}

func signSessionToken(id string, opts SessionOptions, now time.Time) (string, error) {
	cl := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			Issuer:    opts.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(opts.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString([]byte(opts.SigningKey))
}

func setSessionCookie(c *gin.Context, id string, opts SessionOptions, now time.Time) error {
	signed, err := signSessionToken(id, opts, now)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.CookieName, signed, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
	return nil
}

// SessionID returns the id set by Session, or "" outside of it.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// ClearSessionCookie expires the cookie in the browser.
func ClearSessionCookie(c *gin.Context, opts SessionOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.CookieName, "", -1, "/", "", opts.Secure, true)
}
