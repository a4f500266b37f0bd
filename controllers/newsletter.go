package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"memory-nest-api/config"
	"memory-nest-api/models"
	"memory-nest-api/utils"

	"github.com/gin-gonic/gin"
)

type SubscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// Subscribe adds an email to the newsletter list.
func Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	email := strings.ToLower(utils.SanitizeInput(req.Email))
	if !utils.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please enter a valid email address"})
		return
	}

	var existing models.NewsletterSubscription
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "This email is already subscribed to our newsletter."})
		return
	}

	subscription := models.NewsletterSubscription{
		Email:        email,
		SubscribedAt: time.Now(),
	}
	if err := config.DB.Create(&subscription).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to subscribe. Please try again later."})
		return
	}

	// Welcome mail is best effort; a broken SMTP setup must not block signup.
	go func(to string) {
		if err := config.SendMail([]string{to}, "Welcome to Memory Nest",
			"<p>Thanks for subscribing! We'll keep you updated with our latest flashcard sets.</p>"); err != nil {
			log.Printf("Failed to send welcome mail to %s: %v", to, err)
		}
	}(email)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Thank you for subscribing! We'll keep you updated with our latest flashcard sets.",
	})
}

// ListSubscribers returns all newsletter subscriptions, newest first.
func ListSubscribers(c *gin.Context) {
	var subscribers []models.NewsletterSubscription
	if err := config.DB.Order("subscribed_at DESC").Find(&subscribers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"subscribers": subscribers,
		"total":       len(subscribers),
	})
}

// DeleteSubscriber removes one email from the newsletter list.
func DeleteSubscriber(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email is required"})
		return
	}

	result := config.DB.Where("email = ?", email).Delete(&models.NewsletterSubscription{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Subscriber not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
