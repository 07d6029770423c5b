package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/lineup-rotator-go/pkg/database"
)

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKey := currentKey(c)
	if apiKey == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}

	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	var sessions int64
	h.DB.Model(&database.RotationSession{}).Where("key_id = ?", apiKey.ID).Count(&sessions)

	// Calculate totals
	var totalRequests, totalPlayers, totalIntervals int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalPlayers += int64(u.TotalPlayers)
		totalIntervals += int64(u.TotalIntervals)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":        apiKey.Name,
		"rate_limit":      apiKey.RateLimit,
		"usage_history":   usage,
		"stored_sessions": sessions,
		"totals": gin.H{
			"requests":  totalRequests,
			"players":   totalPlayers,
			"intervals": totalIntervals,
		},
	})
}
