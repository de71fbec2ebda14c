package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	adapterHTTP "github.com/comitanigiacomo/cadence-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/cadence-engine/internal/core/services"
)

func setupAuthRouter(t *testing.T, password string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	tokens := services.NewTokenService("test-secret", "test-issuer", 1*time.Hour)
	authSvc := services.NewAuthService(string(hash), tokens)

	r := gin.New()
	adapterHTTP.NewAuthHandler(authSvc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestLogin(t *testing.T) {
	t.Run("Success: 200 OK with token", func(t *testing.T) {
		router := setupAuthRouter(t, "correct horse battery staple")

		body := `{"password": "correct horse battery staple"}`

		req, _ := http.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token":`)
	})

	t.Run("Fail: 401 Unauthorized (wrong password)", func(t *testing.T) {
		router := setupAuthRouter(t, "correct horse battery staple")

		body := `{"password": "hunter2"}`

		req, _ := http.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})

	t.Run("Fail: 400 Bad Request (missing password)", func(t *testing.T) {
		router := setupAuthRouter(t, "correct horse battery staple")

		req, _ := http.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
