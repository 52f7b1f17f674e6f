package api

import (
	"github.com/ajharbinger/poolvest-insights/internal/auth"
	"github.com/ajharbinger/poolvest-insights/internal/metrics"
	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/ajharbinger/poolvest-insights/internal/services"
	"github.com/ajharbinger/poolvest-insights/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, svc *services.Services, db HealthChecker, m *metrics.Manager, cfg *config.Config) {
	healthHandler := NewHealthHandler(db)
	insightsHandler := NewInsightsHandler(svc.Insights, HandlerOptions{
		RequestTimeout: cfg.RequestTimeout,
		BatchTimeout:   cfg.BatchTimeout,
		MaxBatchSize:   cfg.MaxBatchSize,
	})

	// Public operational routes
	r.GET("/health", healthHandler.GetHealth)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// Protected routes
	protected := r.Group("/api/v1/ai")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))
	protected.Use(auth.CSRFMiddleware())
	{
		// Access to these is decided per resource inside the handlers
		protected.POST("/reliability-score/:userId", insightsHandler.ComputeReliabilityScore)
		protected.POST("/risk-assessment/:opportunityId", insightsHandler.AssessOpportunityRisk)
		protected.POST("/leader-performance", insightsHandler.ComputeLeaderPerformance)

		admin := protected.Group("")
		admin.Use(auth.RequireRole(string(models.RoleAdmin)))
		admin.GET("/model-status", insightsHandler.GetModelStatus)
		admin.POST("/batch-reliability-scores", insightsHandler.BatchReliabilityScores)
		admin.POST("/batch-risk-assessments", insightsHandler.BatchRiskAssessments)
	}
}
