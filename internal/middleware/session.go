package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/types"
)

// Cookie and context keys for visitor sessions.
const (
	SessionCookie = "ft_session"
	BrowserCookie = "ft_auth"

	ContextSessionID   = "session_id"
	ContextBrowserAuth = "browser_auth"
)

// RememberMeTTL is the lifetime of a "remember me" login cookie.
const RememberMeTTL = 30 * 24 * time.Hour

// SessionTokens issues and validates signed session tokens
type SessionTokens interface {
	Issue(sessionID, scope string, ttl time.Duration) (string, error)
	Validate(token string) (*types.SessionClaims, error)
}

// Session gives every visitor a session id. A missing or invalid cookie
// starts a new session. The browser-scoped login cookie is checked against
// the same session id.
func Session(tokens SessionTokens, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string
		if raw, err := c.Cookie(SessionCookie); err == nil {
			if claims, err := tokens.Validate(raw); err == nil && claims.Scope == service.ScopeDevice {
				sessionID = claims.ID
			}
		}

		if sessionID == "" {
			sessionID = service.NewSessionID()
			token, err := tokens.Issue(sessionID, service.ScopeDevice, service.DeviceSessionTTL)
			if err != nil {
				log.Printf("Failed to issue session token: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
				return
			}
			setCookie(c, SessionCookie, token, int(service.DeviceSessionTTL.Seconds()), secure)
		}

		browserAuth := false
		if raw, err := c.Cookie(BrowserCookie); err == nil {
			if claims, err := tokens.Validate(raw); err == nil && claims.Scope == service.ScopeBrowser && claims.ID == sessionID {
				browserAuth = true
			}
		}

		c.Set(ContextSessionID, sessionID)
		c.Set(ContextBrowserAuth, browserAuth)
		c.Next()
	}
}

// SessionID returns the visitor session id set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}

// BrowserAuth reports whether the login cookie is present and valid.
func BrowserAuth(c *gin.Context) bool {
	return c.GetBool(ContextBrowserAuth)
}

// SetBrowserAuth writes the login cookie. Without remember it is a browser
// session cookie.
func SetBrowserAuth(c *gin.Context, tokens SessionTokens, remember, secure bool) error {
	ttl := RememberMeTTL
	token, err := tokens.Issue(SessionID(c), service.ScopeBrowser, ttl)
	if err != nil {
		return err
	}
	maxAge := 0
	if remember {
		maxAge = int(ttl.Seconds())
	}
	setCookie(c, BrowserCookie, token, maxAge, secure)
	c.Set(ContextBrowserAuth, true)
	return nil
}

// ClearBrowserAuth removes the login cookie.
func ClearBrowserAuth(c *gin.Context, secure bool) {
	setCookie(c, BrowserCookie, "", -1, secure)
	c.Set(ContextBrowserAuth, false)
}

func setCookie(c *gin.Context, name, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}
