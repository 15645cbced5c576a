// internal/router/router_test.go
package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anondesigns/dsm-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "development",
		Server:      config.ServerConfig{Port: "8080"},
		JWT:         config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1, RefreshTokenTTL: 24},
		Frontend:    config.FrontendConfig{BaseURL: "http://localhost:3000"},
	}
}

func TestInitialize_ServesHealthWithoutStorageCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	// No AWS credentials configured: the storage service falls back to local
	// mode and startup must still succeed rather than wiring a nil service.
	engine, err := Initialize(nil, testConfig(), logger)
	require.NoError(t, err)
	require.NotNil(t, engine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestInitialize_ProtectedRoutesRejectAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	engine, err := Initialize(nil, testConfig(), logger)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/purchases", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
}
