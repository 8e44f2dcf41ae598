package http

import (
	"github.com/mrlokans/novelist/internal/bookstore"
	"github.com/mrlokans/novelist/internal/currentbook"
	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/tasks"
)

// RouterConfig holds all dependencies needed by the HTTP router.
type RouterConfig struct {
	// Database is used for health checks.
	Database *database.Database

	// Books is the shelf store backing the book list endpoints.
	Books *bookstore.Store

	// CurrentBook is the store backing the open-book detail endpoints.
	CurrentBook *currentbook.Store

	// TaskClient enables the export endpoints when set.
	TaskClient *tasks.Client

	// Version is reported by the health endpoint.
	Version string
}
