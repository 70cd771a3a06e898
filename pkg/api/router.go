package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urmzd/lampbridge/pkg/api/handlers"
	"github.com/urmzd/lampbridge/pkg/lamp"
	"github.com/urmzd/lampbridge/pkg/lamp/schema"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	lamps     handlers.Lamps
	publisher lamp.Publisher
	validator *schema.Validator
}

// NewRouter creates a new API router
func NewRouter(lamps handlers.Lamps, publisher lamp.Publisher, validator *schema.Validator) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:    engine,
		lamps:     lamps,
		publisher: publisher,
		validator: validator,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	r.engine.GET("/", handlers.Index)

	healthHandler := handlers.NewHealthHandler(r.publisher)
	r.engine.GET("/health", healthHandler.Health)

	timersHandler := handlers.NewTimersHandler(r.lamps, r.validator)
	r.engine.GET("/data", timersHandler.List)
	r.engine.GET("/data/:number", timersHandler.Get)
	r.engine.POST("/waktu", timersHandler.Start)
	r.engine.POST("/stop", timersHandler.Stop)
	r.engine.DELETE("/reset", timersHandler.Reset)
	r.engine.POST("/lampu", timersHandler.Switch)
}

// Handler returns the underlying http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
