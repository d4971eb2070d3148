package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"backoffice/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://backoffice.example.cl", "http://localhost:3000"}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "https://backoffice.example.cl")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://backoffice.example.cl", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://backoffice.example.cl"}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "https://evil.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://backoffice.example.cl"}))
	r.POST("/api/invoices/process", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/invoices/process", http.NoBody)
	req.Header.Set("Origin", "https://backoffice.example.cl")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Request-ID")
}

func TestRequestID_Generated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	var seen string
	r.GET("/test", func(c *gin.Context) {
		seen = middleware.GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRequestID_Propagated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusBadRequest, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		core, logs := observer.New(zapcore.DebugLevel)
		r := gin.New()
		r.Use(middleware.RequestID(), middleware.Logger(zap.New(core)))
		r.GET("/test", func(c *gin.Context) { c.Status(tt.status) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("X-Request-ID", "req-1")
		r.ServeHTTP(w, req)

		entries := logs.FilterMessage("http.request").All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
			assert.Equal(t, int64(tt.status), entries[0].ContextMap()["status"])
		}
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
