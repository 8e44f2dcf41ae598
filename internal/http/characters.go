package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelist/internal/currentbook"
)

// CharactersController manages the open book's character sheets.
type CharactersController struct {
	store *currentbook.Store
}

func NewCharactersController(store *currentbook.Store) *CharactersController {
	return &CharactersController{store: store}
}

// AddCharacter creates a character for a book, opening it first if needed
// POST /api/books/:id/characters
func (cc *CharactersController) AddCharacter(c *gin.Context) {
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

	if err := cc.store.LoadBook(c.Request.Context(), bookID); err != nil {
		respondStoreError(c, err, "book", "open book for character")
		return
	}

	character, err := cc.store.AddCharacter(name, req.Description)
	if err != nil {
		respondStoreError(c, err, "character", "add character")
		return
	}
	respondCreated(c, character)
}

// UpdateCharacter changes a character's name and description
// PATCH /api/characters/:id
func (cc *CharactersController) UpdateCharacter(c *gin.Context) {
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

	character, err := cc.store.UpdateCharacter(id, name, req.Description)
	if err != nil {
		respondStoreError(c, err, "character", "update character")
		return
	}
	c.JSON(http.StatusOK, character)
}

// DeleteCharacter removes a character
// DELETE /api/characters/:id
func (cc *CharactersController) DeleteCharacter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.store.DeleteCharacter(id); err != nil {
		respondStoreError(c, err, "character", "delete character")
		return
	}
	respondSuccess(c, "character deleted")
}
