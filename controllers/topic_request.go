package controllers

import (
	"net/http"
	"strings"
	"time"

	"memory-nest-api/config"
	"memory-nest-api/models"
	"memory-nest-api/utils"

	"github.com/gin-gonic/gin"
)

type TopicRequestInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Topic       string `json:"topic" binding:"required"`
	Description string `json:"description" binding:"required"`
	Subscribe   bool   `json:"subscribe"`
}

// CreateTopicRequest stores a visitor's study-topic request and optionally
// signs them up for the newsletter.
func CreateTopicRequest(c *gin.Context) {
	var req TopicRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	email := strings.ToLower(utils.SanitizeInput(req.Email))
	if !utils.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please enter a valid email address"})
		return
	}

	request := models.TopicRequest{
		Name:        utils.SanitizeInput(req.Name),
		Email:       email,
		Topic:       utils.SanitizeInput(req.Topic),
		Description: utils.SanitizeInput(req.Description),
		CreatedAt:   time.Now(),
	}
	if err := config.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to submit request"})
		return
	}

	if req.Subscribe {
		// Already-subscribed is fine; anything else just gets logged by GORM.
		var existing models.NewsletterSubscription
		if err := config.DB.Where("email = ?", email).First(&existing).Error; err != nil {
			config.DB.Create(&models.NewsletterSubscription{
				Email:        email,
				SubscribedAt: time.Now(),
			})
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"request_id": request.RequestID,
	})
}

// ListTopicRequests returns all topic requests, newest first.
func ListTopicRequests(c *gin.Context) {
	var requests []models.TopicRequest
	if err := config.DB.Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": requests,
		"total":    len(requests),
	})
}
