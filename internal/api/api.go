// Package api exposes the tracker over a JSON REST interface served by echo.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/speechtracker/internal/middleware"
	"github.com/mmynk/speechtracker/internal/models"
	"github.com/mmynk/speechtracker/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures cookies and sync defaults.
type Options struct {
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
	// DefaultChildID is the sync target when a request names none.
	DefaultChildID int64
}

// Handler serves every /api route.
type Handler struct {
	auth     *service.AuthService
	children *service.ChildService
	records  *service.RecordService
	sync     *service.SyncService
	health   Pinger
	opts     Options
	logger   *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(
	auth *service.AuthService,
	children *service.ChildService,
	records *service.RecordService,
	sync *service.SyncService,
	health Pinger,
	opts Options,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:     auth,
		children: children,
		records:  records,
		sync:     sync,
		health:   health,
		opts:     opts,
		logger:   logger,
	}
}

// Register mounts the routes on e. authLimiter, when non-nil, guards the
// /api/auth group.
func (h *Handler) Register(e *echo.Echo, authLimiter echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health)

	requireSession := middleware.RequireSession(h.auth, h.opts.CookieName)

	authGroup := e.Group("/api/auth")
	if authLimiter != nil {
		authGroup.Use(authLimiter)
	}
	authGroup.POST("/register", h.RegisterUser)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.Me, requireSession)
	authGroup.DELETE("/me", h.DeleteMe, requireSession)

	children := e.Group("/api/children", requireSession)
	children.GET("", h.ListChildren)
	children.POST("", h.AddChild)
	children.GET("/:id", h.GetChild)
	children.PUT("/:id", h.UpdateChild)
	children.DELETE("/:id", h.DeleteChild)

	data := e.Group("/api/data/children/:childId", requireSession)
	data.GET("/words", h.ListWords)
	data.POST("/words", h.AddWord)
	data.PUT("/words/:id", h.UpdateWord)
	data.DELETE("/words/:id", h.DeleteWord)
	data.GET("/phrases", h.ListPhrases)
	data.POST("/phrases", h.AddPhrase)
	data.PUT("/phrases/:id", h.UpdatePhrase)
	data.DELETE("/phrases/:id", h.DeletePhrase)
	data.GET("/songs", h.ListSongs)
	data.POST("/songs", h.AddSong)
	data.PUT("/songs/:id", h.UpdateSong)
	data.DELETE("/songs/:id", h.DeleteSong)
	data.GET("/letters", h.ListLetters)
	data.POST("/letters", h.AddLetter)
	data.PUT("/letters/:id", h.UpdateLetter)
	data.DELETE("/letters/:id", h.DeleteLetter)

	e.POST("/api/fetch", h.Fetch, requireSession)
	e.POST("/api/sync", h.Sync, requireSession)
	e.GET("/api/test-connection", h.TestConnection, requireSession)
}

// Health reports whether the store is reachable.
func (h *Handler) Health(c echo.Context) error {
	if h.health != nil {
		if err := h.health.Ping(c.Request().Context()); err != nil {
			h.logger.Error("Health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

func messageBody(message string) map[string]string {
	return map[string]string{"message": message}
}

// fail writes err as a JSON error. Classified errors carry their own
// message; NotFound maps to notFoundStatus since read and write endpoints
// report a missing child differently. Anything else is logged and
// answered with a generic 500 using fallback as the message.
func (h *Handler) fail(c echo.Context, err error, notFoundStatus int, fallback string) error {
	var classified *models.Error
	if !models.IsClassified(err) || !errors.As(err, &classified) {
		h.logger.Error(fallback, "error", err, "path", c.Request().URL.Path, "user_id", middleware.UserID(c))
		return c.JSON(http.StatusInternalServerError, errorBody(fallback))
	}

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		status = notFoundStatus
	}
	return c.JSON(status, errorBody(classified.Message))
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, errorBody("Invalid ID"))
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, errorBody("Invalid request payload"))
}
