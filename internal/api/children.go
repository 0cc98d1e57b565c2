package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/speechtracker/internal/middleware"
)

type childRequest struct {
	ChildName *string `json:"childName"`
	BirthDate *string `json:"birthDate"`
}

// ListChildren returns the caller's children.
func (h *Handler) ListChildren(c echo.Context) error {
	children, err := h.children.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err, http.StatusForbidden, "Error fetching children")
	}
	return c.JSON(http.StatusOK, children)
}

// GetChild returns one of the caller's children.
func (h *Handler) GetChild(c echo.Context) error {
	childID, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}

	child, err := h.children.Get(c.Request().Context(), childID, middleware.UserID(c))
	if err != nil {
		return h.fail(c, err, http.StatusForbidden, "Error fetching child")
	}
	return c.JSON(http.StatusOK, child)
}

// AddChild creates a child for the caller.
func (h *Handler) AddChild(c echo.Context) error {
	var req childRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	name := ""
	if req.ChildName != nil {
		name = *req.ChildName
	}
	child, err := h.children.Add(c.Request().Context(), middleware.UserID(c), name, req.BirthDate)
	if err != nil {
		return h.fail(c, err, http.StatusBadRequest, "Error adding child")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Child added successfully",
		"child":   child,
	})
}

// UpdateChild renames a child or changes the birth date.
func (h *Handler) UpdateChild(c echo.Context) error {
	childID, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req childRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	child, err := h.children.Update(c.Request().Context(), childID, middleware.UserID(c), req.ChildName, req.BirthDate)
	if err != nil {
		return h.fail(c, err, http.StatusBadRequest, "Error updating child")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Child updated successfully",
		"child":   child,
	})
}

// DeleteChild deletes a child and all of its records.
func (h *Handler) DeleteChild(c echo.Context) error {
	childID, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := h.children.Delete(c.Request().Context(), childID, middleware.UserID(c)); err != nil {
		return h.fail(c, err, http.StatusForbidden, "Error deleting child")
	}
	return c.JSON(http.StatusOK, messageBody("Child deleted successfully"))
}
