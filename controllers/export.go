package controllers

import (
	"fmt"
	"net/http"
	"time"

	"memory-nest-api/services"
	"memory-nest-api/utils"

	"github.com/gin-gonic/gin"
)

// ExportQuestionsCSV streams every question across all submissions as a CSV
// download for offline review.
func ExportQuestionsCSV(c *gin.Context) {
	rows, err := services.QuestionsForExport()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	csv := utils.ConvertToCSV(rows, services.ExportHeaders)
	filename := fmt.Sprintf("memory-nest-questions-%s.csv", time.Now().Format("2006-01-02"))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
