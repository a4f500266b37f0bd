package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"memory-nest-api/services"

	"github.com/gin-gonic/gin"
)

// ===================== ADMIN REVIEW =====================

// ListSubmissions returns overviews of all submissions, newest first.
func ListSubmissions(c *gin.Context) {
	overviews, err := services.FetchAllSubmissions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": overviews,
		"total":       len(overviews),
	})
}

// GetSubmission returns one submission with its normalized document.
func GetSubmission(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}

	detail, err := services.FetchSubmissionByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": detail,
	})
}

type UpdateQuestionsRequest struct {
	Questions    []services.Question `json:"questions" binding:"required"`
	ReviewerName string              `json:"reviewer_name"`
}

// UpdateQuestions merges an admin's edited question list into a submission.
// Ratings, text edits, admin comments, added and removed questions all come
// through this one batch endpoint.
func UpdateQuestions(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}

	var req UpdateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := services.SaveQuestionChanges(id, req.Questions, reviewerFrom(c, req.ReviewerName)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type UpdateCommentRequest struct {
	Comment      string `json:"comment"`
	ReviewerName string `json:"reviewer_name"`
}

// UpdateComment sets the submission-level admin annotation.
func UpdateComment(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := services.SaveOverallComment(id, req.Comment, reviewerFrom(c, req.ReviewerName)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type UpdateCategoryRequest struct {
	Field        string `json:"field" binding:"required"`
	Value        string `json:"value"`
	ReviewerName string `json:"reviewer_name"`
}

// UpdateCategory assigns a taxonomy value at submission level and mirrors it
// onto every question in the set.
func UpdateCategory(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := services.SaveCategory(id, req.Field, req.Value, reviewerFrom(c, req.ReviewerName)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteSubmission removes a submission and every question in it.
func DeleteSubmission(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}

	if reviewerFrom(c, c.Query("reviewer_name")) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "reviewer_name is required"})
		return
	}

	if err := services.DeleteSubmission(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type ApplyLocationRequest struct {
	Username string `json:"username" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// ApplyLocation sets the submitter location on every submission belonging to
// a username. Updates run independently; a partial failure reports an error
// but does not undo the records that succeeded.
func ApplyLocation(c *gin.Context) {
	var req ApplyLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := services.ApplyLocationByUsername(req.Username, req.Location); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No records found for this username"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// submissionIDParam parses the :id route parameter, writing the error
// response itself when the value is not a number.
func submissionIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid submission ID"})
		return 0, false
	}
	return id, true
}

// reviewerFrom resolves the acting reviewer: the name supplied on the request
// wins, falling back to the name stored in the session token at login.
func reviewerFrom(c *gin.Context, supplied string) string {
	if name := strings.TrimSpace(supplied); name != "" {
		return name
	}
	if name, exists := c.Get("adminName"); exists {
		if s, ok := name.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// respondServiceError maps service errors onto HTTP statuses. Store failures
// surface verbatim so the admin UI can show the underlying message.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Submission not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}
