package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/lineup-rotator-go/pkg/exporter"
	"github.com/arnavshah/lineup-rotator-go/pkg/models"
	"github.com/arnavshah/lineup-rotator-go/pkg/scheduler"
	"github.com/arnavshah/lineup-rotator-go/pkg/session"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, scheduler.ErrDuplicatePlayer):
		return http.StatusConflict
	case errors.Is(err, scheduler.ErrInsufficientPlayers):
		return http.StatusUnprocessableEntity
	case errors.Is(err, scheduler.ErrTooManyPlayers),
		errors.Is(err, scheduler.ErrDuplicateRosterName),
		errors.Is(err, scheduler.ErrEmptyPlayerName),
		errors.Is(err, scheduler.ErrUnknownCategory),
		errors.Is(err, scheduler.ErrInvalidIntervals),
		errors.Is(err, scheduler.ErrInvalidAttempts),
		errors.Is(err, scheduler.ErrIncompleteLineup),
		errors.Is(err, session.ErrIntervalOutOfRange),
		errors.Is(err, session.ErrUnknownPlayer):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func keyID(c *gin.Context) uint {
	if k := currentKey(c); k != nil {
		return k.ID
	}
	return 0
}

// CreateRotation generates, repairs and stores a new rotation
func (h *Handler) CreateRotation(c *gin.Context) {
	var input models.RotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, rot, err := h.Sessions.Create(keyID(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.RecordUsage(c, len(rot.Players), len(rot.Schedule))
	c.JSON(http.StatusCreated, rot.View(id))
}

// GetRotation returns a stored rotation with its minutes summary
func (h *Handler) GetRotation(c *gin.Context) {
	id := c.Param("id")
	rot, err := h.Sessions.Get(keyID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rot.View(id))
}

// EditInterval replaces one interval's lineup
func (h *Handler) EditInterval(c *gin.Context) {
	id := c.Param("id")
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval must be a number"})
		return
	}

	var input models.EditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rot, err := h.Sessions.EditInterval(keyID(c), id, n, input.Lineup)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rot.View(id))
}

// ExportRotation downloads a rotation as CSV or XLSX
func (h *Handler) ExportRotation(c *gin.Context) {
	format, err := exporter.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	rot, err := h.Sessions.Get(keyID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Write(&buf, format, rot.View(id)); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"lineup_rotations_%s.%s\"", id, format))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// DeleteRotation removes a stored rotation
func (h *Handler) DeleteRotation(c *gin.Context) {
	if err := h.Sessions.Delete(keyID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rotation deleted"})
}

// Formation lists the slots in lineup order with the category each one
// satisfies and where to draw it
func (h *Handler) Formation(c *gin.Context) {
	slots := make([]gin.H, 0, models.SlotCount)
	for _, s := range models.Slots {
		slots = append(slots, gin.H{
			"slot":     s.String(),
			"category": s.Category(),
			"position": s.Coordinate(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
