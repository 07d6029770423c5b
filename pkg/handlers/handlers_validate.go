package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/lineup-rotator-go/pkg/models"
)

// ValidateInput checks a generate request without running the search
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.RotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	settings, err := h.Sessions.Prepare(input)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"player_count":   len(input.Players),
			"interval_count": settings.Intervals(),
			"resting_each":   len(input.Players) - models.SlotCount,
		},
	})
}
