package bookstore

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/database/books"
	"github.com/mrlokans/novelist/internal/database/characters"
)

func setupTestStore(t *testing.T) (*Store, *database.Database, func()) {
	t.Helper()

	dbPath := "./test_bookstore_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	store := New(books.NewRepository(db.DB))

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return store, db, cleanup
}

func TestStore_FetchBooks(t *testing.T) {
	t.Run("starts empty and populates from the database", func(t *testing.T) {
		store, db, cleanup := setupTestStore(t)
		defer cleanup()

		assert.Empty(t, store.Books())

		repo := books.NewRepository(db.DB)
		_, err := repo.CreateBook("Draft One")
		require.NoError(t, err)

		require.NoError(t, store.FetchBooks())
		list := store.Books()
		require.Len(t, list, 1)
		assert.Equal(t, "Draft One", list[0].Title)
	})

	t.Run("replaces stale entries", func(t *testing.T) {
		store, db, cleanup := setupTestStore(t)
		defer cleanup()

		repo := books.NewRepository(db.DB)
		book, err := repo.CreateBook("Original")
		require.NoError(t, err)
		require.NoError(t, store.FetchBooks())

		_, err = repo.UpdateTitle(book.ID, "Renamed behind the store's back")
		require.NoError(t, err)

		require.NoError(t, store.FetchBooks())
		list := store.Books()
		require.Len(t, list, 1)
		assert.Equal(t, "Renamed behind the store's back", list[0].Title)
	})
}

func TestStore_AddBook(t *testing.T) {
	t.Run("persists and caches the new book", func(t *testing.T) {
		store, db, cleanup := setupTestStore(t)
		defer cleanup()

		book, err := store.AddBook("Draft One")
		require.NoError(t, err)
		assert.NotZero(t, book.ID)

		list := store.Books()
		require.Len(t, list, 1)
		assert.Equal(t, book.ID, list[0].ID)

		// And it survives a round trip through the database.
		persisted, err := books.NewRepository(db.DB).GetBook(book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Draft One", persisted.Title)
	})

	t.Run("newest book goes to the top", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		_, err := store.AddBook("First")
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
		_, err = store.AddBook("Second")
		require.NoError(t, err)

		list := store.Books()
		require.Len(t, list, 2)
		assert.Equal(t, "Second", list[0].Title)
		assert.Equal(t, "First", list[1].Title)
	})
}

func TestStore_UpdateBookTitle(t *testing.T) {
	t.Run("renames and re-sorts the cached list", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		older, err := store.AddBook("Older")
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
		_, err = store.AddBook("Newer")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		updated, err := store.UpdateBookTitle(older.ID, "Older Renamed")
		require.NoError(t, err)
		assert.Equal(t, "Older Renamed", updated.Title)

		// The rename bumped LastModified, so the book moves to the top
		// without a re-fetch.
		list := store.Books()
		require.Len(t, list, 2)
		assert.Equal(t, "Older Renamed", list[0].Title)
	})

	t.Run("missing id returns ErrNotFound and keeps the cache", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		_, err := store.AddBook("Only Book")
		require.NoError(t, err)

		_, err = store.UpdateBookTitle(999, "Ghost")
		assert.ErrorIs(t, err, database.ErrNotFound)

		list := store.Books()
		require.Len(t, list, 1)
		assert.Equal(t, "Only Book", list[0].Title)
	})
}

func TestStore_DeleteBook(t *testing.T) {
	t.Run("removes the book and its children", func(t *testing.T) {
		store, db, cleanup := setupTestStore(t)
		defer cleanup()

		book, err := store.AddBook("Doomed")
		require.NoError(t, err)
		keeper, err := store.AddBook("Keeper")
		require.NoError(t, err)

		characterRepo := characters.NewRepository(db.DB)
		_, err = characterRepo.Create(book.ID, "Hero", "")
		require.NoError(t, err)

		require.NoError(t, store.DeleteBook(book.ID))

		list := store.Books()
		require.Len(t, list, 1)
		assert.Equal(t, keeper.ID, list[0].ID)

		chars, err := characterRepo.ListForBook(book.ID)
		require.NoError(t, err)
		assert.Empty(t, chars)
	})
}

func TestStore_Books(t *testing.T) {
	t.Run("returns a copy", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		_, err := store.AddBook("Original")
		require.NoError(t, err)

		list := store.Books()
		list[0].Title = "Mutated"

		assert.Equal(t, "Original", store.Books()[0].Title)
	})
}
