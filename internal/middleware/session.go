package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/green-haven/internal/session"
)

const (
	// SessionIDKey is the context key for the shopper session id.
	SessionIDKey ContextKey = "session_id"

	// sessionClaimsKey caches the verified cookie claims of a request.
	sessionClaimsKey ContextKey = "session_claims"

	// DefaultSessionCookie is the cookie carrying the signed session token.
	DefaultSessionCookie = "gh_session"
)

// SessionConfig configures the session middleware.
type SessionConfig struct {
	Codec      *session.Codec
	CookieName string
	Secure     bool
	// OnStart is called once when a request starts a new session.
	OnStart func(c *gin.Context, sessionID string)
}

// Session returns a middleware that resolves the shopper session from its
// signed cookie. A missing, forged or expired cookie starts a new session
// with an empty cart. The cookie is re-issued once half its lifetime has
// passed, so active sessions never expire.
func Session(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}

	return func(c *gin.Context) {
		var (
			sessionID string
			refresh   bool
			started   bool
		)

		if claims := verifiedClaims(c, cfg); claims != nil {
			sessionID = claims.SessionID()
			refresh = cfg.Codec.NeedsRefresh(claims)
		}
		if sessionID == "" {
			sessionID = session.NewID()
			refresh = true
			started = true
		}

		if refresh {
			token, err := cfg.Codec.Issue(sessionID)
			if err != nil {
				_ = c.Error(err)
				c.Abort()
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, token, int(cfg.Codec.TTL().Seconds()), "/", "", cfg.Secure, true)
		}

		c.Set(string(SessionIDKey), sessionID)
		if started && cfg.OnStart != nil {
			cfg.OnStart(c, sessionID)
		}
		c.Next()
	}
}

// GetSessionID retrieves the session id from the gin context.
func GetSessionID(c *gin.Context) string {
	return c.GetString(string(SessionIDKey))
}

// verifiedClaims returns the claims of the request's session cookie, or nil
// when the cookie is missing or fails verification. The outcome is cached
// on the context, so the cookie is verified once per request.
func verifiedClaims(c *gin.Context, cfg SessionConfig) *session.Claims {
	if v, ok := c.Get(string(sessionClaimsKey)); ok {
		claims, _ := v.(*session.Claims)
		return claims
	}

	name := cfg.CookieName
	if name == "" {
		name = DefaultSessionCookie
	}
	var claims *session.Claims
	if raw, err := c.Cookie(name); err == nil && raw != "" && cfg.Codec != nil {
		if parsed, err := cfg.Codec.Parse(raw); err == nil {
			claims = parsed
		}
	}
	c.Set(string(sessionClaimsKey), claims)
	return claims
}
