package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"backoffice/internal/domain"
	"backoffice/internal/handler"
	"backoffice/internal/router"
	"backoffice/mocks"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newEngine(svc *mocks.MockInvoiceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return router.Setup(
		zap.NewNop(),
		[]string{"http://localhost:3000"},
		handler.NewInvoiceHandler(svc, 10<<20, zap.NewNop()),
		handler.NewHealthHandler(okPinger{}),
	)
}

func TestRouter_Health(t *testing.T) {
	r := newEngine(new(mocks.MockInvoiceService))

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}

func TestRouter_InvoiceRoutes(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	svc.On("GetByID", mock.Anything, int64(5)).Return(nil, "", domain.ErrInvoiceNotFound)
	r := newEngine(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/invoices/5", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// "export" must not be captured by the :id route.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/invoices/export?projectId=1&format=doc", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_FORMAT")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/api/invoices/process", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_FILE")

	svc.AssertExpectations(t)
}

func TestRouter_Preflight(t *testing.T) {
	r := newEngine(new(mocks.MockInvoiceService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/invoices/process-robust", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
