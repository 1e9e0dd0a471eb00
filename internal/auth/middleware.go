package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the opaque session ID.
const SessionCookieName = "session_id"

const contextKeyIdentity = "identity"

// IdentityFromContext returns the request identity set by Resolve.
// Anonymous if no middleware ran or the session was invalid.
func IdentityFromContext(c *gin.Context) Identity {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return Anonymous()
	}
	id, ok := v.(Identity)
	if !ok {
		return Anonymous()
	}
	return id
}

// Resolve returns a middleware that turns the session cookie into a
// request Identity. Requests without a valid session pass through as
// anonymous; per-resource authorization happens in the services.
func Resolve(sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeyIdentity, resolve(c, sessions))
		c.Next()
	}
}

// RequireSession returns a middleware that rejects requests without a
// valid session with 401. The identity is set in context for handlers.
func RequireSession(sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := resolve(c, sessions)
		if !id.LoggedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyIdentity, id)
		c.Next()
	}
}

func resolve(c *gin.Context, sessions *Store) Identity {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || sessionID == "" {
		return Anonymous()
	}
	username, ok := sessions.GetUsername(c.Request.Context(), sessionID)
	if !ok {
		return Anonymous()
	}
	return Authenticated(username)
}
