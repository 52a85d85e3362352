package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/service"
)

func newAuthRouter(tokens *service.TokenManager, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), RequireRole(roles...), func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, identity)
	})
	return r
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := newAuthRouter(service.NewTokenManager("secret", time.Minute), models.RoleRider)

	req, _ := http.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	r := newAuthRouter(service.NewTokenManager("secret", time.Minute), models.RoleRider)
	foreign, _, err := service.NewTokenManager("other-secret", time.Minute).Generate("r1", models.RoleRider, "Rider", 0)
	require.NoError(t, err)

	for _, header := range []string{"Bearer garbage", "Token " + foreign, "Bearer " + foreign} {
		req, _ := http.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := service.NewTokenManager("secret", time.Minute)
	r := newAuthRouter(tokens, models.RoleRider)
	token, _, err := tokens.Generate("r1", models.RoleRider, "Karim", 0)
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var identity models.Identity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &identity))
	assert.Equal(t, "r1", identity.Subject)
	assert.Equal(t, models.RoleRider, identity.Role)
	assert.Equal(t, "Karim", identity.Name)
}

func TestRequireRole_Forbidden(t *testing.T) {
	tokens := service.NewTokenManager("secret", time.Minute)
	r := newAuthRouter(tokens, models.RoleAdmin)
	token, _, err := tokens.Generate("r1", models.RoleRider, "Karim", 0)
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
