package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"taxdecl/internal/config"
	"taxdecl/internal/handler"
	"taxdecl/internal/middleware"
	"taxdecl/internal/service"

	_ "taxdecl/docs"
)

// multipartMemory bounds how much of a multipart body is kept in memory;
// the rest spills to temp files.
const multipartMemory = 32 << 20

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger logrus.FieldLogger,
	corsCfg config.CORSConfig,
	authSvc service.AuthService,
	uploadH *handler.UploadHandler,
	docH *handler.DocumentHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = multipartMemory

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(corsCfg))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Identity(authSvc))

	// Uploads accept anonymous callers; their documents are simply unowned.
	uploads := v1.Group("/uploads")
	uploads.POST("", uploadH.Upload)
	uploads.POST("/bulk", uploadH.BulkUpload)

	docs := v1.Group("/documents")
	docs.Use(middleware.RequireIdentity())
	docs.GET("", docH.List)
	docs.GET("/:id", docH.GetByID)
	docs.GET("/:id/record", docH.GetRecord)
	docs.GET("/:id/export", docH.Export)
	docs.POST("/:id/reprocess", docH.Reprocess)
	docs.DELETE("/:id", docH.Delete)

	return r
}
