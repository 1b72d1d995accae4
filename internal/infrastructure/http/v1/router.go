// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"statgate/internal/domain/auth"
	"statgate/internal/domain/catalog"
	"statgate/internal/domain/schema"
	"statgate/internal/domain/search"
	"statgate/internal/domain/series"
	"statgate/internal/infrastructure/http/v1/handlers"
	"statgate/internal/infrastructure/http/v1/middleware"
	"statgate/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Catalog serves category and dataflow lookups
	Catalog *catalog.Catalog

	// Schemas serves per-dataflow structure lookups
	Schemas *schema.Service

	// Builder validates series keys
	Builder *series.Builder

	// Executor runs data fetches
	Executor *series.QueryExecutor

	// KeyTables serves memoized key tables
	KeyTables *series.KeyTableService

	// Search answers keyword and expression searches
	Search *search.Engine

	// JWTValidator for token validation; nil disables authentication
	JWTValidator middleware.JWTValidator

	// AuthService for the token endpoint; nil disables it
	AuthService *auth.Service

	// AuthRequired protects the API routes with JWT validation
	AuthRequired bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Catalog, cfg.Schemas)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		if cfg.AuthService != nil {
			authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
			apiV1.POST("/auth/token", authHandler.Token)
		}

		protected := apiV1.Group("")
		if cfg.AuthRequired && cfg.JWTValidator != nil {
			protected.Use(middleware.Auth(cfg.JWTValidator))
		}

		catalogHandler := handlers.NewCatalogHandler(base, cfg.Catalog)
		protected.GET("/categories", catalogHandler.ListCategories)
		protected.GET("/categories/:code", catalogHandler.GetCategory)
		protected.GET("/categories/:code/dataflows", catalogHandler.ListCategoryDataflows)
		protected.GET("/dataflows", catalogHandler.ListDataflows)
		protected.GET("/dataflows/:flow", catalogHandler.GetDataflow)

		schemaHandler := handlers.NewSchemaHandler(base, cfg.Schemas, cfg.Search)
		protected.GET("/dataflows/:flow/structure", schemaHandler.GetStructure)
		protected.GET("/dataflows/:flow/dimensions", schemaHandler.ListDimensions)
		protected.GET("/dataflows/:flow/dimensions/:name/values", schemaHandler.GetDimensionValues)
		protected.GET("/dataflows/:flow/constraints", schemaHandler.GetConstraints)

		seriesHandler := handlers.NewSeriesHandler(base, cfg.Builder, cfg.Executor, cfg.KeyTables)
		protected.POST("/series/key", seriesHandler.BuildKey)
		protected.GET("/series/:key/data", seriesHandler.GetData)
		protected.GET("/dataflows/:flow/keys", seriesHandler.ListKeys)

		searchHandler := handlers.NewSearchHandler(base, cfg.Search, cfg.KeyTables)
		protected.GET("/search/dataflows", searchHandler.Dataflows)
		protected.GET("/search/categories", searchHandler.Categories)
		protected.GET("/search/dataflows/:flow/keys", searchHandler.Keys)

		adminHandler := handlers.NewAdminHandler(base, cfg.Catalog, cfg.Schemas, cfg.KeyTables)
		protected.POST("/admin/cache/reset", adminHandler.ResetCaches)
	}

	return router
}
