package router

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mesobmatch/backend/internal/api"
	"github.com/pageza/mesobmatch/backend/internal/metrics"
	"github.com/pageza/mesobmatch/backend/internal/middleware"
	"github.com/pageza/mesobmatch/backend/internal/service"
)

// maxBodySize leaves room for a full-size recipe image plus multipart
// framing.
const maxBodySize = 20 << 20

// Dependencies are the services the HTTP layer is built from. Images and
// RateLimiter may be nil.
type Dependencies struct {
	DB          *gorm.DB
	Auth        service.IAuthService
	Catalog     service.ICatalogService
	Matches     service.IMatchService
	Images      service.IImageService
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	CORSOrigins []string
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(requestid.New())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(deps.CORSOrigins))
	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.MaxMultipartMemory = maxBodySize
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	health := api.NewHealthHandler(deps.DB, deps.Matches)
	router.GET("/health", health.HealthCheck)
	router.GET("/api/health", health.HealthCheck)

	v1 := router.Group("/api/v1")
	api.NewAuthHandler(deps.Auth).RegisterRoutes(v1)
	api.NewIngredientHandler(deps.Catalog, deps.Auth).RegisterRoutes(v1)
	api.NewRecipeHandler(deps.Catalog, deps.Matches, deps.Images, deps.Auth, deps.RateLimiter).RegisterRoutes(v1)
	api.NewDashboardHandler(deps.Catalog, deps.Auth).RegisterRoutes(v1)
	api.NewRateLimitHandler(deps.RateLimiter).RegisterRoutes(v1)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}
