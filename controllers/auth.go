package controllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"memory-nest-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
	// Optional display name remembered in the session token and used as the
	// default reviewer identity when a request doesn't carry one.
	Name string `json:"name"`
}

// AdminLogin checks the admin password and sets the session cookie.
func AdminLogin(c *gin.Context) {
	var req AdminLoginRequest

	// Bind request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !checkAdminPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := generateAdminToken(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	secure := os.Getenv("ENVIRONMENT") == "production"
	c.SetCookie(middleware.AdminCookieName, token, 60*60*24, "/", "", secure, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
	})
}

// AdminLogout clears the session cookie.
func AdminLogout(c *gin.Context) {
	secure := os.Getenv("ENVIRONMENT") == "production"
	c.SetCookie(middleware.AdminCookieName, "", -1, "/", "", secure, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// checkAdminPassword prefers a bcrypt hash from the environment and falls
// back to a plain comparison for local setups without one.
func checkAdminPassword(password string) bool {
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	plain := os.Getenv("ADMIN_PASSWORD")
	return plain != "" && password == plain
}

// generateAdminToken creates the admin session JWT.
func generateAdminToken(name string) (string, error) {
	// Get expiration hours from env
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24 // default 24 hours
	}

	claims := middleware.AdminClaims{
		AdminName: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
