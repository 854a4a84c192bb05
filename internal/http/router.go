package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestLoggerMiddleware())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(SecurityHeadersMiddleware())

	sessions := cfg.Sessions
	if sessions == nil && cfg.Database != nil {
		sessions = cfg.Database.Sessions()
	}

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)
	router.GET("/ping", healthController.Ping)

	booksController := NewBooksController(sessions)
	bookRoutes := router.Group("/books")
	{
		bookRoutes.GET("/", booksController.List)
		bookRoutes.POST("/", booksController.Create)
		bookRoutes.PUT("/:id", booksController.Update)
		bookRoutes.DELETE("/:id", booksController.Delete)
	}

	reviewsController := NewReviewsController(sessions, cfg.Dispatcher, cfg.NotifyRecipient, cfg.RequireBook)
	reviewRoutes := router.Group("/reviews")
	{
		// The :id segment on GET is the book id
		reviewRoutes.GET("/:id", reviewsController.ListByBook)
		reviewRoutes.POST("/", reviewsController.Create)
		reviewRoutes.PUT("/:id", reviewsController.Update)
		reviewRoutes.DELETE("/:id", reviewsController.Delete)
	}

	return router
}
