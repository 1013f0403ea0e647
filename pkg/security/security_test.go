package security

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: 42, Email: "jordan@example.com", Role: "admin"}

	token, err := manager.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, float64(42), claims["id"])
	assert.Equal(t, "jordan@example.com", claims["email"])
	assert.Equal(t, "admin", claims["role"])
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.GenerateToken(&models.User{ID: 1, Email: "a@b.c", Role: "user"})
	assert.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken(&models.User{ID: 1, Email: "a@b.c", Role: "user"})
	assert.NoError(t, err)

	_, err = manager.ParseToken(token)
	assert.Error(t, err)
}

func TestIsAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		role         any
		requiredRole string
		want         bool
	}{
		{name: "admin can access admin routes", role: "admin", requiredRole: "admin", want: true},
		{name: "admin can access user routes", role: "admin", requiredRole: "user", want: true},
		{name: "user cannot access admin routes", role: "user", requiredRole: "admin", want: false},
		{name: "user can access user routes", role: "user", requiredRole: "user", want: true},
		{name: "unknown role is denied", role: "superuser", requiredRole: "user", want: false},
		{name: "missing role is denied", role: nil, requiredRole: "user", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			if tt.role != nil {
				c.Set("role", tt.role)
			}

			assert.Equal(t, tt.want, IsAllowed(c, tt.requiredRole))
		})
	}
}

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := NewTokenManager("test-secret", time.Hour)

	router := gin.New()
	router.GET("/protected", manager.JWTMiddleware(), func(c *gin.Context) {
		id, _ := c.Get("userID")
		c.JSON(200, gin.H{"userID": id})
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, 401, w.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, 401, w.Code)
	})

	t.Run("valid token passes claims through", func(t *testing.T) {
		token, err := manager.GenerateToken(&models.User{ID: 7, Email: "a@b.c", Role: "user"})
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, 200, w.Code)
		assert.Contains(t, w.Body.String(), "7")
	})
}
