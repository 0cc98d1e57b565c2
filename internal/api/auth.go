package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/speechtracker/internal/middleware"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterUser creates an account. It does not log the user in.
func (h *Handler) RegisterUser(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.auth.Register(c.Request().Context(), req.Username, req.Password, req.Email)
	if err != nil {
		return h.fail(c, err, http.StatusBadRequest, "Registration failed")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":  "User registered successfully",
		"userId":   user.ID,
		"username": user.Username,
	})
}

// Login starts a session, sets the session cookie and also returns the
// token for clients that send it as a bearer token.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, err, http.StatusUnauthorized, "Login failed")
	}

	c.SetCookie(h.sessionCookie(token, h.opts.SessionTTL))
	return c.JSON(http.StatusOK, map[string]any{
		"message":  "Login successful",
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
		"token":    token,
	})
}

// Logout ends the current session, if any, and clears the cookie.
func (h *Handler) Logout(c echo.Context) error {
	token := middleware.TokenFromRequest(c.Request(), h.opts.CookieName)
	if token != "" {
		if err := h.auth.Logout(c.Request().Context(), token); err != nil {
			return h.fail(c, err, http.StatusBadRequest, "Logout failed")
		}
	}

	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, messageBody("Logged out successfully"))
}

// Me returns the logged-in user.
func (h *Handler) Me(c echo.Context) error {
	user, err := h.auth.CurrentUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err, http.StatusUnauthorized, "Error fetching user")
	}
	return c.JSON(http.StatusOK, userResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// DeleteMe deletes the logged-in user's account and everything it owns.
func (h *Handler) DeleteMe(c echo.Context) error {
	if err := h.auth.DeleteAccount(c.Request().Context(), middleware.UserID(c)); err != nil {
		return h.fail(c, err, http.StatusUnauthorized, "Error deleting account")
	}

	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, messageBody("Account deleted successfully"))
}

// sessionCookie builds the session cookie. A negative ttl expires it.
func (h *Handler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(ttl.Seconds())
	}
	return cookie
}
