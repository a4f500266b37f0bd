package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminCookieName is the session cookie carrying the admin JWT.
const AdminCookieName = "admin_token"

type AdminClaims struct {
	AdminName string `json:"admin_name"`
	jwt.RegisteredClaims
}

// AdminAuthMiddleware validates the admin session token. The login handler
// sets it as an HTTP-only cookie; a Bearer header works too for scripted
// API access.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(AdminCookieName)
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" || tokenString == authHeader {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin authentication required"})
				c.Abort()
				return
			}
		}

		// Parse token
		token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*AdminClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// Set admin info in context
		c.Set("adminName", claims.AdminName)

		c.Next()
	}
}
