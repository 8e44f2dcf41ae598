package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelist/internal/currentbook"
)

// PlotEventsController manages the open book's story beats.
type PlotEventsController struct {
	store *currentbook.Store
}

func NewPlotEventsController(store *currentbook.Store) *PlotEventsController {
	return &PlotEventsController{store: store}
}

// AddPlotEvent appends a plot event to a book's narrative sequence
// POST /api/books/:id/plot-events
func (pc *PlotEventsController) AddPlotEvent(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondBadRequest(c, "title must not be empty")
		return
	}

	if err := pc.store.LoadBook(c.Request.Context(), bookID); err != nil {
		respondStoreError(c, err, "book", "open book for plot event")
		return
	}

	event, err := pc.store.AddPlotEvent(title, req.Summary)
	if err != nil {
		respondStoreError(c, err, "plot event", "add plot event")
		return
	}
	respondCreated(c, event)
}

// UpdatePlotEvent changes a plot event's title and summary; its sequence
// position is immutable
// PATCH /api/plot-events/:id
func (pc *PlotEventsController) UpdatePlotEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondBadRequest(c, "title must not be empty")
		return
	}

	event, err := pc.store.UpdatePlotEvent(id, title, req.Summary)
	if err != nil {
		respondStoreError(c, err, "plot event", "update plot event")
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeletePlotEvent removes a plot event
// DELETE /api/plot-events/:id
func (pc *PlotEventsController) DeletePlotEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := pc.store.DeletePlotEvent(id); err != nil {
		respondStoreError(c, err, "plot event", "delete plot event")
		return
	}
	respondSuccess(c, "plot event deleted")
}
