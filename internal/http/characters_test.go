package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/novelist/internal/entities"
)

func charactersRouter(stores testStores) *gin.Engine {
	controller := NewCharactersController(stores.current)

	router := gin.New()
	router.POST("/api/books/:id/characters", controller.AddCharacter)
	router.PATCH("/api/characters/:id", controller.UpdateCharacter)
	router.DELETE("/api/characters/:id", controller.DeleteCharacter)
	return router
}

func TestCharactersController_AddCharacter(t *testing.T) {
	t.Run("opens the book and creates the character", func(t *testing.T) {
		stores, cleanup := setupBooksTest(t)
		defer cleanup()

		book, err := stores.shelf.AddBook("Draft One")
		require.NoError(t, err)

		router := charactersRouter(stores)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/"+itoa(book.ID)+"/characters",
			jsonBody(t, gin.H{"name": "Hero", "description": "the protagonist"}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var character entities.Character
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &character))
		assert.Equal(t, book.ID, character.BookID)
		assert.Equal(t, "Hero", character.Name)

		// The book got opened on the way.
		assert.Equal(t, book.ID, stores.current.CurrentBookID())
		assert.Len(t, stores.current.Characters(), 1)
	})

	t.Run("returns 404 for a missing book", func(t *testing.T) {
		stores, cleanup := setupBooksTest(t)
		defer cleanup()

		router := charactersRouter(stores)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/999/characters",
			jsonBody(t, gin.H{"name": "Hero"}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		stores, cleanup := setupBooksTest(t)
		defer cleanup()

		book, err := stores.shelf.AddBook("Draft One")
		require.NoError(t, err)

		router := charactersRouter(stores)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/"+itoa(book.ID)+"/characters",
			jsonBody(t, gin.H{"name": "  "}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCharactersController_UpdateCharacter(t *testing.T) {
	t.Run("returns 409 when no book is open", func(t *testing.T) {
		stores, cleanup := setupBooksTest(t)
		defer cleanup()

		router := charactersRouter(stores)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/characters/1",
			jsonBody(t, gin.H{"name": "Hero"}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "no book is currently open")
	})

	t.Run("updates the character", func(t *testing.T) {
		stores, cleanup := setupBooksTest(t)
		defer cleanup()

		book, err := stores.shelf.AddBook("Draft One")
		require.NoError(t, err)

		addRouter := charactersRouter(stores)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/"+itoa(book.ID)+"/characters",
			jsonBody(t, gin.H{"name": "Hero"}))
		addRouter.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)

		var character entities.Character
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &character))

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("PATCH", "/api/characters/"+itoa(character.ID),
			jsonBody(t, gin.H{"name": "Antihero", "description": "changed sides"}))
		addRouter.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var updated entities.Character
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, "Antihero", updated.Name)
	})

	t.Run("returns 404 for a missing character", func(t *testing.T) {
		stores, cleanup := setupBooksTest(t)
		defer cleanup()

		book, err := stores.shelf.AddBook("Draft One")
		require.NoError(t, err)

		router := charactersRouter(stores)

		// Open the book first so the store accepts mutations.
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/"+itoa(book.ID)+"/characters",
			jsonBody(t, gin.H{"name": "Hero"}))
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("PATCH", "/api/characters/999",
			jsonBody(t, gin.H{"name": "Ghost"}))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCharactersController_DeleteCharacter(t *testing.T) {
	t.Run("deletes the character", func(t *testing.T) {
		stores, cleanup := setupBooksTest(t)
		defer cleanup()

		book, err := stores.shelf.AddBook("Draft One")
		require.NoError(t, err)

		router := charactersRouter(stores)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/"+itoa(book.ID)+"/characters",
			jsonBody(t, gin.H{"name": "Doomed"}))
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)

		var character entities.Character
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &character))

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("DELETE", "/api/characters/"+itoa(character.ID), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, stores.current.Characters())
	})
}
