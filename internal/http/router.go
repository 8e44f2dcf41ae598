package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books, cfg.CurrentBook)
	bookViewController := NewBookViewController(cfg.CurrentBook)
	charactersController := NewCharactersController(cfg.CurrentBook)
	locationsController := NewLocationsController(cfg.CurrentBook)
	plotEventsController := NewPlotEventsController(cfg.CurrentBook)
	chaptersController := NewChaptersController(cfg.CurrentBook)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Shelf endpoints
	router.GET("/api/books", booksController.ListBooks)
	router.POST("/api/books", booksController.CreateBook)
	router.PATCH("/api/books/:id", booksController.UpdateBookTitle)
	router.DELETE("/api/books/:id", booksController.DeleteBook)

	// Open-book endpoints
	router.GET("/api/books/:id", bookViewController.OpenBook)
	router.DELETE("/api/current-book", bookViewController.CloseBook)

	// Character endpoints
	router.POST("/api/books/:id/characters", charactersController.AddCharacter)
	router.PATCH("/api/characters/:id", charactersController.UpdateCharacter)
	router.DELETE("/api/characters/:id", charactersController.DeleteCharacter)

	// Location endpoints
	router.POST("/api/books/:id/locations", locationsController.AddLocation)
	router.PATCH("/api/locations/:id", locationsController.UpdateLocation)
	router.DELETE("/api/locations/:id", locationsController.DeleteLocation)

	// Plot event endpoints
	router.POST("/api/books/:id/plot-events", plotEventsController.AddPlotEvent)
	router.PATCH("/api/plot-events/:id", plotEventsController.UpdatePlotEvent)
	router.DELETE("/api/plot-events/:id", plotEventsController.DeletePlotEvent)

	// Chapter endpoints
	router.POST("/api/books/:id/chapters", chaptersController.AddChapter)
	router.PATCH("/api/chapters/:id", chaptersController.UpdateChapterTitle)
	router.PUT("/api/chapters/:id/content", chaptersController.UpdateChapterContent)
	router.DELETE("/api/chapters/:id", chaptersController.DeleteChapter)

	// Export endpoints
	if cfg.TaskClient != nil {
		exportController := NewExportController(cfg.TaskClient)
		router.POST("/api/books/:id/export", exportController.ExportBook)
		router.GET("/api/tasks/:id", exportController.GetTaskStatus)
	}

	return router
}
