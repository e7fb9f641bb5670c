package router

import (
	"github.com/gin-gonic/gin"

	"docverify/internal/handler"
	"docverify/internal/metrics"
	"docverify/internal/middleware"
)

// Options toggles router features from configuration.
type Options struct {
	AllowedOrigins []string
	// AuthDisabled serves the API without service tokens, for local runs.
	AuthDisabled bool
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	tokens middleware.TokenValidator,
	factsH *handler.FactsHandler,
	answerH *handler.AnswerHandler,
	healthH *handler.HealthHandler,
	opts Options,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	if !opts.AuthDisabled {
		v1.Use(middleware.AuthMiddleware(tokens))
	}

	// Document facts
	docs := v1.Group("/documents")
	docs.POST("/facts", factsH.Extract)
	docs.GET("/:id/facts", factsH.Get)
	docs.DELETE("/:id/facts", factsH.Delete)
	docs.GET("/:id/facts/export", factsH.Export)
	docs.GET("/:id/source-text", factsH.SourceText)

	// Answer validation against stored facts
	docs.POST("/:id/answers/validate", answerH.Validate)
	docs.POST("/:id/answers/validate-batch", answerH.ValidateBatch)
	docs.GET("/:id/validations", answerH.ListValidations)

	// Stateless validation
	v1.POST("/answers/validate", answerH.ValidateInline)

	return r
}
