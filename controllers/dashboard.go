package controllers

import (
	"net/http"
	"time"

	"memory-nest-api/services"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns the review-backlog numbers for the admin
// dashboard. Every load re-scans the full collection once; there is no
// caching or pagination at current data volumes.
func GetDashboardStats(c *gin.Context) {
	stats, err := services.FetchDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_submissions":      stats.TotalSubmissions,
			"total_questions":        stats.TotalQuestions,
			"unreviewed_submissions": stats.UnreviewedSubmissions,
			"unreviewed_questions":   stats.UnreviewedQuestions,
			"current_date":           time.Now().Format("2006-01-02"),
		},
	})
}
