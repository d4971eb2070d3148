package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/handler"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		dbStatus string
	}{
		{"ready", nil, http.StatusOK, "ok"},
		{"db down", errors.New("refused"), http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(stubPinger{err: tt.err})

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", nil)
			h.Readiness(c)
			assert.Equal(t, tt.status, w.Code)

			var body struct {
				Checks map[string]struct {
					Status string `json:"status"`
				} `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.dbStatus, body.Checks["database"].Status)

			w = httptest.NewRecorder()
			c, _ = gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", nil)
			h.Liveness(c)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
