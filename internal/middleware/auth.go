package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/coffeepulse/internal/logger"
	"github.com/guttosm/coffeepulse/internal/session"
)

// UsernameKey is the context key holding the authenticated username.
const UsernameKey = "username"

var errUnauthenticated = errors.New("missing or expired session")

// RequireSessionPage guards HTML pages. Requests without a valid session
// cookie are redirected to /login. A nil store disables the check.
func RequireSessionPage(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}
		if !authenticate(c, store) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSessionAPI guards JSON endpoints and answers 401 without a valid session.
// A nil store disables the check.
func RequireSessionAPI(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}
		if !authenticate(c, store) {
			AbortWithError(c, http.StatusUnauthorized, "authentication required", errUnauthenticated)
			return
		}
		c.Next()
	}
}

// authenticate validates the session cookie and stores the username in c.
func authenticate(c *gin.Context, store session.Store) bool {
	id, err := c.Cookie(session.CookieName)
	if err != nil || id == "" {
		return false
	}
	s, err := store.Validate(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logger.L().Error().Err(err).Msg("session lookup failed")
		}
		return false
	}
	c.Set(UsernameKey, s.Username)
	return true
}

// Username returns the authenticated username set by the session middleware.
func Username(c *gin.Context) string {
	v, _ := c.Get(UsernameKey)
	return toString(v)
}
