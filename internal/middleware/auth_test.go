// internal/middleware/auth_test.go
package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anondesigns/dsm-backend/internal/utils"
)

func setupAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/protected", AuthRequired(), func(c *gin.Context) {
		profileID, _ := utils.GetProfileIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"profile_id": profileID})
	})
	r.GET("/admin", AuthRequired(), AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/open", OptionalAuth(), func(c *gin.Context) {
		_, authed := utils.GetProfileIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": authed})
	})

	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r := setupAuthTestRouter()

	w := doRequest(r, "/protected", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Equal(t, utils.CodeUnauthenticated, body.Code)
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r := setupAuthTestRouter()

	w := doRequest(r, "/protected", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_ValidToken(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r := setupAuthTestRouter()

	profileID := uuid.New()
	token, err := utils.GenerateJWT(profileID, "quiet-otter", "designer", 1)
	require.NoError(t, err)

	w := doRequest(r, "/protected", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), profileID.String())
}

func TestAdminRequired_NonAdmin(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r := setupAuthTestRouter()

	token, err := utils.GenerateJWT(uuid.New(), "quiet-otter", "designer", 1)
	require.NoError(t, err)

	w := doRequest(r, "/admin", token)
	require.Equal(t, http.StatusForbidden, w.Code)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, utils.CodeForbidden, body.Code)
}

func TestAdminRequired_Admin(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r := setupAuthTestRouter()

	token, err := utils.GenerateJWT(uuid.New(), "Marketplace Admin", "admin", 1)
	require.NoError(t, err)

	w := doRequest(r, "/admin", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r := setupAuthTestRouter()

	w := doRequest(r, "/open", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	token, err := utils.GenerateJWT(uuid.New(), "quiet-otter", "brand_owner", 1)
	require.NoError(t, err)

	w = doRequest(r, "/open", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}
