// controllers/submission.go
package controllers

import (
	"net/http"
	"regexp"
	"strings"

	"memory-nest-api/services"
	"memory-nest-api/utils"

	"github.com/gin-gonic/gin"
)

type SubmitDataRequest struct {
	Username    string `json:"username" binding:"required"`
	Topic       string `json:"topic" binding:"required"`
	Description string `json:"description" binding:"required"`
	// Rows pasted from a spreadsheet: one question per line, columns
	// separated by tabs (question, answer, optional read-more).
	Data     string `json:"data" binding:"required"`
	Location string `json:"location"`
}

// SubmitData accepts a visitor's flashcard set and stores it in canonical
// document shape. Location comes from the form when given, otherwise from a
// best-effort IP lookup.
func SubmitData(c *gin.Context) {
	var req SubmitDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	req.Username = utils.SanitizeInput(req.Username)
	req.Topic = utils.SanitizeInput(req.Topic)
	req.Description = utils.SanitizeInput(req.Description)

	if ok, msg := utils.ValidateTopic(req.Topic); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}
	if ok, msg := utils.ValidateDescription(req.Description); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}

	questions := parsePastedRows(req.Data)
	if len(questions) < utils.MinQuestionRows {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "Minimum 20 questions and answers required",
			"row_count": len(questions),
		})
		return
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = services.CountryFromIP(c.Request.Context(), c.ClientIP())
	}

	record, err := services.CreateSubmission(req.Username, req.Topic, req.Description, questions, location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"submission_id":   record.ID,
		"total_questions": len(questions),
	})
}

var rowSplitter = regexp.MustCompile(`\r?\n`)

// parsePastedRows turns spreadsheet-pasted text into questions. Rows missing
// either a question or an answer are dropped.
func parsePastedRows(raw string) []services.Question {
	rows := rowSplitter.Split(strings.TrimSpace(raw), -1)

	questions := make([]services.Question, 0, len(rows))
	for _, row := range rows {
		columns := strings.Split(row, "\t")

		q := services.Question{Question: strings.TrimSpace(columns[0])}
		if len(columns) > 1 {
			q.Answer = strings.TrimSpace(columns[1])
		}
		if len(columns) > 2 {
			q.ReadMore = strings.TrimSpace(columns[2])
		}

		if q.Question == "" || q.Answer == "" {
			continue
		}
		questions = append(questions, q)
	}
	return questions
}
