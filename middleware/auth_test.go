package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, name string, expires time.Time) string {
	t.Helper()
	claims := AdminClaims{
		AdminName: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func adminTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AdminAuthMiddleware(), func(c *gin.Context) {
		name, _ := c.Get("adminName")
		c.JSON(http.StatusOK, gin.H{"admin": name})
	})
	return router
}

func TestAdminAuthMiddlewareCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := adminTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: signToken(t, "test-secret", "Alice", time.Now().Add(time.Hour))})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestAdminAuthMiddlewareBearerFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := adminTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "Bob", time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestAdminAuthMiddlewareRejections(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := adminTestRouter()

	tests := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"no credentials", func(r *http.Request) {}},
		{"expired token", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AdminCookieName, Value: signToken(t, "test-secret", "Alice", time.Now().Add(-time.Hour))})
		}},
		{"wrong secret", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AdminCookieName, Value: signToken(t, "other-secret", "Alice", time.Now().Add(time.Hour))})
		}},
		{"malformed header", func(r *http.Request) {
			r.Header.Set("Authorization", "token-without-bearer-prefix")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}
