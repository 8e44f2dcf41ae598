package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelist/internal/currentbook"
)

// ChaptersController manages the open book's manuscript chapters.
type ChaptersController struct {
	store *currentbook.Store
}

func NewChaptersController(store *currentbook.Store) *ChaptersController {
	return &ChaptersController{store: store}
}

// AddChapter appends an empty chapter to a book's manuscript
// POST /api/books/:id/chapters
func (cc *ChaptersController) AddChapter(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
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

	if err := cc.store.LoadBook(c.Request.Context(), bookID); err != nil {
		respondStoreError(c, err, "book", "open book for chapter")
		return
	}

	chapter, err := cc.store.AddChapter(title)
	if err != nil {
		respondStoreError(c, err, "chapter", "add chapter")
		return
	}
	respondCreated(c, chapter)
}

// UpdateChapterTitle renames a chapter; content and order are not reachable
// through this path
// PATCH /api/chapters/:id
func (cc *ChaptersController) UpdateChapterTitle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
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

	chapter, err := cc.store.UpdateChapterTitle(id, title)
	if err != nil {
		respondStoreError(c, err, "chapter", "update chapter title")
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// UpdateChapterContent replaces a chapter's manuscript body (editor save)
// PUT /api/chapters/:id/content
func (cc *ChaptersController) UpdateChapterContent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	chapter, err := cc.store.UpdateChapterContent(id, req.Content)
	if err != nil {
		respondStoreError(c, err, "chapter", "update chapter content")
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// DeleteChapter removes a chapter
// DELETE /api/chapters/:id
func (cc *ChaptersController) DeleteChapter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.store.DeleteChapter(id); err != nil {
		respondStoreError(c, err, "chapter", "delete chapter")
		return
	}
	respondSuccess(c, "chapter deleted")
}
