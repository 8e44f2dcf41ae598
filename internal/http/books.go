package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelist/internal/bookstore"
	"github.com/mrlokans/novelist/internal/currentbook"
)

// BooksController serves the dashboard book list. Empty-title validation
// lives here; the store trusts its input.
type BooksController struct {
	store       *bookstore.Store
	currentBook *currentbook.Store
}

func NewBooksController(store *bookstore.Store, currentBook *currentbook.Store) *BooksController {
	return &BooksController{store: store, currentBook: currentBook}
}

// ListBooks returns all books, most recently modified first
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	if err := bc.store.FetchBooks(); err != nil {
		respondInternalError(c, err, "fetch books")
		return
	}
	c.JSON(http.StatusOK, bc.store.Books())
}

// CreateBook creates a new book
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
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

	book, err := bc.store.AddBook(title)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

// UpdateBookTitle renames a book
// PATCH /api/books/:id
func (bc *BooksController) UpdateBookTitle(c *gin.Context) {
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

	book, err := bc.store.UpdateBookTitle(id, title)
	if err != nil {
		respondStoreError(c, err, "book", "update book title")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book and all of its children
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.DeleteBook(id); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	// If the deleted book was open, its detail graph is gone too.
	if bc.currentBook != nil && bc.currentBook.CurrentBookID() == id {
		bc.currentBook.Clear()
	}

	respondSuccess(c, "book deleted")
}
