package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finchley/tally/internal/apperror"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "tally_session"

// Handler handles HTTP requests for authentication. Handlers are thin:
// they bind the request, call the service, and shape the JSON response.
// No business logic lives here.
type Handler struct {
	service    AuthService
	sessionTTL time.Duration
	secure     bool
}

// NewHandler creates a new auth handler. secure controls the cookie's
// Secure flag and should be true outside development.
func NewHandler(service AuthService, sessionTTL time.Duration, secure bool) *Handler {
	return &Handler{service: service, sessionTTL: sessionTTL, secure: secure}
}

// sessionResponse is the envelope returned by session-shaped endpoints.
// OriginalAdmin is only present while impersonating.
type sessionResponse struct {
	User            *User   `json:"user"`
	IsImpersonating bool    `json:"is_impersonating"`
	OriginalAdmin   *string `json:"original_admin,omitempty"`
}

func newSessionResponse(session *Session, user *User) sessionResponse {
	return sessionResponse{
		User:            user,
		IsImpersonating: session.IsImpersonating(),
		OriginalAdmin:   session.ImpersonatorName,
	}
}

// Register creates a new account pending approval (POST /api/v1/auth/register).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	user, err := h.service.Register(c.Request().Context(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"user":    user,
		"message": "registration successful, please wait for admin approval",
	})
}

// Login authenticates and sets the session cookie (POST /api/v1/auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	token, user, err := h.service.Login(c.Request().Context(), LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, sessionResponse{User: user})
}

// Session reports the current session state (GET /api/v1/auth/session).
// Unlike the RequireAuth-guarded routes this never 401s on a missing
// session: the SPA calls it on every page load to decide what to render,
// and an absent session is a normal answer, not an error.
func (h *Handler) Session(c echo.Context) error {
	token := getSessionToken(c)
	if token == "" {
		return c.JSON(http.StatusOK, sessionResponse{})
	}

	session, user, err := h.service.CheckSession(c.Request().Context(), token)
	if err != nil {
		clearSessionCookie(c)
		return c.JSON(http.StatusOK, sessionResponse{})
	}

	return c.JSON(http.StatusOK, newSessionResponse(session, user))
}

// Logout destroys the session (POST /api/v1/auth/logout). Always reports
// success to the caller; a failed store delete is logged server-side and
// the cookie is cleared regardless.
func (h *Handler) Logout(c echo.Context) error {
	if token := getSessionToken(c); token != "" {
		// Error intentionally not propagated; see method comment.
		_ = h.service.Logout(c.Request().Context(), token)
	}

	clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Impersonate swaps the presented identity (POST /api/v1/auth/impersonate).
// Admin only -- enforced by the service against the session record, not
// just by route middleware.
func (h *Handler) Impersonate(c echo.Context) error {
	var req ImpersonateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	token := getSessionToken(c)
	if token == "" {
		return apperror.NewUnauthorized("authentication required")
	}

	user, err := h.service.ImpersonateUser(c.Request().Context(), token, req.UserID)
	if err != nil {
		return err
	}

	session, _, err := h.service.CheckSession(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionResponse(session, user))
}

// ReturnToAdmin restores the admin identity (POST /api/v1/auth/return-to-admin).
func (h *Handler) ReturnToAdmin(c echo.Context) error {
	token := getSessionToken(c)
	if token == "" {
		return apperror.NewUnauthorized("authentication required")
	}

	user, err := h.service.ReturnToAdmin(c.Request().Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{User: user})
}

// --- Cookie helpers ---

func (h *Handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
