package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Context keys for storing session data in Echo context. Other plugins
// use these keys (via the exported getter functions below) to access
// the authenticated user's information.
const (
	contextKeySession = "auth_session"
	contextKeyUser    = "auth_user"
)

// RequireAuth returns middleware that validates the session cookie, runs
// the full session check (user re-fetch plus approval gate), and injects
// the session and presented user into the request context. Requests
// without a valid session get a 401 JSON response.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return unauthenticated(c)
			}

			session, user, err := service.CheckSession(c.Request().Context(), token)
			if err != nil {
				// Invalid or expired session -- clear the stale cookie.
				clearSessionCookie(c)
				return unauthenticated(c)
			}

			c.Set(contextKeySession, session)
			c.Set(contextKeyUser, user)

			return next(c)
		}
	}
}

// RequireAdmin returns middleware that rejects requests whose presented
// identity is not an admin. Must run after RequireAuth. Note that an
// impersonating admin presenting a non-admin user is rejected too: the
// admin sees exactly what the target user would see.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil || !user.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]string{
					"type":    "forbidden",
					"message": "admin access required",
				})
			}
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"type":    "unauthorized",
		"message": "authentication required",
	})
}

// --- Exported getters for other plugins ---

// GetSession retrieves the authenticated session from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// GetUser retrieves the presented user from the Echo context. During
// impersonation this is the target user, so downstream plugins scope
// their data to the identity the admin is viewing as.
func GetUser(c echo.Context) *User {
	user, ok := c.Get(contextKeyUser).(*User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID retrieves the presented user's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUserID(c echo.Context) string {
	if user := GetUser(c); user != nil {
		return user.ID
	}
	return ""
}
