package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/speechtracker/internal/middleware"
	"github.com/mmynk/speechtracker/internal/models"
	"github.com/mmynk/speechtracker/internal/service"
)

type syncResponse struct {
	*models.SyncResult
	Counts map[string]int `json:"counts"`
}

// Fetch reads the spreadsheet for the target child without saving.
func (h *Handler) Fetch(c echo.Context) error {
	childID, handled, err := h.syncTarget(c)
	if handled {
		return err
	}

	result, err := h.sync.Fetch(c.Request().Context(), childID)
	if err != nil {
		return h.failSync(c, err, "Error fetching sheets")
	}
	return c.JSON(http.StatusOK, syncResponse{SyncResult: result, Counts: result.Counts()})
}

// Sync reconciles the spreadsheet into the target child's records.
func (h *Handler) Sync(c echo.Context) error {
	childID, handled, err := h.syncTarget(c)
	if handled {
		return err
	}

	result, err := h.sync.FetchAndSave(c.Request().Context(), childID)
	if err != nil {
		return h.failSync(c, err, "Error syncing sheets")
	}
	return c.JSON(http.StatusOK, syncResponse{SyncResult: result, Counts: result.Counts()})
}

// TestConnection reports the spreadsheet title and its tabs.
func (h *Handler) TestConnection(c echo.Context) error {
	info, err := h.sync.TestConnection(c.Request().Context())
	if err != nil {
		return h.failSync(c, err, "Error testing connection")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Connection successful",
		"title":   info.Title,
		"sheets":  info.Sheets,
		"missing": info.Missing,
	})
}

// syncTarget resolves ?childId=, falling back to the configured default,
// and checks that the caller owns it. When handled is true the response
// has been written and err is what the handler should return.
func (h *Handler) syncTarget(c echo.Context) (childID int64, handled bool, err error) {
	childID = h.opts.DefaultChildID
	if raw := c.QueryParam("childId"); raw != "" {
		id, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || id <= 0 {
			return 0, true, invalidID(c)
		}
		childID = id
	}

	if _, err := h.children.VerifyAccess(c.Request().Context(), childID, middleware.UserID(c)); err != nil {
		return 0, true, h.fail(c, err, http.StatusNotFound, "Error resolving child")
	}
	return childID, false, nil
}

func (h *Handler) failSync(c echo.Context, err error, fallback string) error {
	if errors.Is(err, service.ErrSheetsUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, errorBody("Google Sheets is not configured"))
	}
	return h.fail(c, err, http.StatusNotFound, fallback)
}
