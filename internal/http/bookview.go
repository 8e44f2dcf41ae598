package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelist/internal/currentbook"
	"github.com/mrlokans/novelist/internal/entities"
)

// BookDetailResponse is the full detail graph of the open book.
type BookDetailResponse struct {
	Book       *entities.Book       `json:"book"`
	Characters []entities.Character `json:"characters"`
	Locations  []entities.Location  `json:"locations"`
	PlotEvents []entities.PlotEvent `json:"plot_events"`
	Chapters   []entities.Chapter   `json:"chapters"`
}

// BookViewController opens and closes books in the current-book store and
// serves the detail graph the book view renders.
type BookViewController struct {
	store *currentbook.Store
}

func NewBookViewController(store *currentbook.Store) *BookViewController {
	return &BookViewController{store: store}
}

// OpenBook loads a book's detail graph into the current-book store and
// returns it. Re-requesting the already-open book skips the reads. A request
// whose load loses to a newer open or close gets the store's current state;
// with a single client that only happens when the same user navigated away.
// GET /api/books/:id
func (bv *BookViewController) OpenBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bv.store.LoadBook(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "book", "open book")
		return
	}

	c.JSON(http.StatusOK, BookDetailResponse{
		Book:       bv.store.Book(),
		Characters: bv.store.Characters(),
		Locations:  bv.store.Locations(),
		PlotEvents: bv.store.PlotEvents(),
		Chapters:   bv.store.Chapters(),
	})
}

// CloseBook clears the current-book store; the next open is never
// short-circuited by the idempotence guard.
// DELETE /api/current-book
func (bv *BookViewController) CloseBook(c *gin.Context) {
	bv.store.Clear()
	respondSuccess(c, "book closed")
}
