package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/handler"
	"backoffice/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *zap.Logger,
	allowedOrigins []string,
	invoiceH *handler.InvoiceHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	invoices := r.Group("/api/invoices")
	invoices.POST("/process", invoiceH.Process)
	invoices.POST("/process-robust", invoiceH.ProcessRobust)
	invoices.POST("/confirm", invoiceH.Confirm)
	invoices.GET("", invoiceH.List)
	invoices.GET("/export", invoiceH.Export)
	invoices.GET("/:id", invoiceH.GetByID)

	return r
}
