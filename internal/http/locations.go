package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelist/internal/currentbook"
)

// LocationsController manages the open book's location sheets.
type LocationsController struct {
	store *currentbook.Store
}

func NewLocationsController(store *currentbook.Store) *LocationsController {
	return &LocationsController{store: store}
}

// AddLocation creates a location for a book, opening it first if needed
// POST /api/books/:id/locations
func (lc *LocationsController) AddLocation(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondBadRequest(c, "name must not be empty")
		return
	}

	if err := lc.store.LoadBook(c.Request.Context(), bookID); err != nil {
		respondStoreError(c, err, "book", "open book for location")
		return
	}

	location, err := lc.store.AddLocation(name, req.Description)
	if err != nil {
		respondStoreError(c, err, "location", "add location")
		return
	}
	respondCreated(c, location)
}

// UpdateLocation changes a location's name and description
// PATCH /api/locations/:id
func (lc *LocationsController) UpdateLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondBadRequest(c, "name must not be empty")
		return
	}

	location, err := lc.store.UpdateLocation(id, name, req.Description)
	if err != nil {
		respondStoreError(c, err, "location", "update location")
		return
	}
	c.JSON(http.StatusOK, location)
}

// DeleteLocation removes a location
// DELETE /api/locations/:id
func (lc *LocationsController) DeleteLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := lc.store.DeleteLocation(id); err != nil {
		respondStoreError(c, err, "location", "delete location")
		return
	}
	respondSuccess(c, "location deleted")
}
