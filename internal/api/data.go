package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/speechtracker/internal/middleware"
	"github.com/mmynk/speechtracker/internal/models"
)

// Record handlers share one shape per verb. Reads and deletes report a
// missing child as 403; adds and updates report it as 400.

func listRecords[T any](h *Handler, c echo.Context, fallback string,
	list func(ctx context.Context, childID, userID int64) ([]*T, error)) error {
	childID, ok := pathID(c, "childId")
	if !ok {
		return invalidID(c)
	}

	records, err := list(c.Request().Context(), childID, middleware.UserID(c))
	if err != nil {
		return h.fail(c, err, http.StatusForbidden, fallback)
	}
	return c.JSON(http.StatusOK, records)
}

func addRecord[T any](h *Handler, c echo.Context, fallback string,
	add func(ctx context.Context, childID, userID int64, record *T) (*T, error)) error {
	childID, ok := pathID(c, "childId")
	if !ok {
		return invalidID(c)
	}
	record := new(T)
	if err := c.Bind(record); err != nil {
		return invalidBody(c)
	}

	saved, err := add(c.Request().Context(), childID, middleware.UserID(c), record)
	if err != nil {
		return h.fail(c, err, http.StatusBadRequest, fallback)
	}
	return c.JSON(http.StatusOK, saved)
}

func updateRecord[T any](h *Handler, c echo.Context, fallback string,
	update func(ctx context.Context, id, childID, userID int64, record *T) (*T, error)) error {
	childID, ok := pathID(c, "childId")
	if !ok {
		return invalidID(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	record := new(T)
	if err := c.Bind(record); err != nil {
		return invalidBody(c)
	}

	saved, err := update(c.Request().Context(), id, childID, middleware.UserID(c), record)
	if err != nil {
		return h.fail(c, err, http.StatusBadRequest, fallback)
	}
	return c.JSON(http.StatusOK, saved)
}

func deleteRecord(h *Handler, c echo.Context, fallback, message string,
	del func(ctx context.Context, id, childID, userID int64) error) error {
	childID, ok := pathID(c, "childId")
	if !ok {
		return invalidID(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := del(c.Request().Context(), id, childID, middleware.UserID(c)); err != nil {
		return h.fail(c, err, http.StatusForbidden, fallback)
	}
	return c.JSON(http.StatusOK, messageBody(message))
}

// ========== Words ==========

func (h *Handler) ListWords(c echo.Context) error {
	return listRecords(h, c, "Error fetching words", h.records.ListWords)
}

func (h *Handler) AddWord(c echo.Context) error {
	return addRecord[models.Word](h, c, "Error adding word", h.records.AddWord)
}

func (h *Handler) UpdateWord(c echo.Context) error {
	return updateRecord[models.Word](h, c, "Error updating word", h.records.UpdateWord)
}

func (h *Handler) DeleteWord(c echo.Context) error {
	return deleteRecord(h, c, "Error deleting word", "Word deleted successfully", h.records.DeleteWord)
}

// ========== Phrases ==========

func (h *Handler) ListPhrases(c echo.Context) error {
	return listRecords(h, c, "Error fetching phrases", h.records.ListPhrases)
}

func (h *Handler) AddPhrase(c echo.Context) error {
	return addRecord[models.Phrase](h, c, "Error adding phrase", h.records.AddPhrase)
}

func (h *Handler) UpdatePhrase(c echo.Context) error {
	return updateRecord[models.Phrase](h, c, "Error updating phrase", h.records.UpdatePhrase)
}

func (h *Handler) DeletePhrase(c echo.Context) error {
	return deleteRecord(h, c, "Error deleting phrase", "Phrase deleted successfully", h.records.DeletePhrase)
}

// ========== Songs ==========

func (h *Handler) ListSongs(c echo.Context) error {
	return listRecords(h, c, "Error fetching songs", h.records.ListSongs)
}

func (h *Handler) AddSong(c echo.Context) error {
	return addRecord[models.Song](h, c, "Error adding song", h.records.AddSong)
}

func (h *Handler) UpdateSong(c echo.Context) error {
	return updateRecord[models.Song](h, c, "Error updating song", h.records.UpdateSong)
}

func (h *Handler) DeleteSong(c echo.Context) error {
	return deleteRecord(h, c, "Error deleting song", "Song deleted successfully", h.records.DeleteSong)
}

// ========== Letters ==========

func (h *Handler) ListLetters(c echo.Context) error {
	return listRecords(h, c, "Error fetching letters", h.records.ListLetters)
}

func (h *Handler) AddLetter(c echo.Context) error {
	return addRecord[models.Letter](h, c, "Error adding letter", h.records.AddLetter)
}

func (h *Handler) UpdateLetter(c echo.Context) error {
	return updateRecord[models.Letter](h, c, "Error updating letter", h.records.UpdateLetter)
}

func (h *Handler) DeleteLetter(c echo.Context) error {
	return deleteRecord(h, c, "Error deleting letter", "Letter deleted successfully", h.records.DeleteLetter)
}
