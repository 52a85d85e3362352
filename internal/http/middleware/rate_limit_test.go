package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/parcel-ledger/internal/models"
)

func TestRateLimitMiddleware_PerSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextIdentityKey, &models.Identity{Subject: c.GetHeader("X-Rider"), Role: models.RoleRider})
		c.Next()
	})
	r.Use(RateLimitMiddleware(2, time.Minute))
	r.POST("/cashouts", func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func(rider string) int {
		req, _ := http.NewRequest("POST", "/cashouts", nil)
		req.Header.Set("X-Rider", rider)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send("r1"))
	assert.Equal(t, http.StatusCreated, send("r1"))
	assert.Equal(t, http.StatusTooManyRequests, send("r1"))

	// у другого курьера свой счётчик
	assert.Equal(t, http.StatusCreated, send("r2"))
}

func TestUUIDValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cashouts/:id", UUIDValidator("id"), func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("GET", "/cashouts/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")

	req, _ = http.NewRequest("GET", "/cashouts/6f1c2f9e-2b0a-4f57-9a51-3b1d6f0b8e11", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://admin.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
