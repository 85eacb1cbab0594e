package api

import (
	"github.com/NMGRL/trayclassifier/internal/api/handler"
	"github.com/NMGRL/trayclassifier/internal/api/middleware"
	"github.com/NMGRL/trayclassifier/internal/service"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	catalog *service.CatalogService,
	reports *service.ReportService,
	mode string,
	cors middleware.CORSConfig,
) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORS(cors))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	imageHandler := handler.NewImageHandler(catalog)
	labelHandler := handler.NewLabelHandler(catalog)
	reportHandler := handler.NewReportHandler(reports)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Images
	r.POST("/images", imageHandler.Ingest)
	r.GET("/images/next", imageHandler.Next)
	r.GET("/images/:hash/blob", imageHandler.Blob)

	// Labels
	r.POST("/labels/:image_id", labelHandler.Submit)
	r.GET("/labels", labelHandler.ListLabels)
	r.GET("/users", labelHandler.ListUsers)

	// Reports
	r.GET("/scoreboard", reportHandler.Scoreboard)
	r.GET("/reports/by-user/:user", reportHandler.ByUser)
	r.GET("/reports/summary", reportHandler.Summary)
	r.GET("/representative-images", reportHandler.Representatives)

	return r
}
