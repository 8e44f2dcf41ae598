package currentbook

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/database/books"
	"github.com/mrlokans/novelist/internal/database/chapters"
	"github.com/mrlokans/novelist/internal/database/characters"
	"github.com/mrlokans/novelist/internal/database/locations"
	"github.com/mrlokans/novelist/internal/database/plotevents"
	"github.com/mrlokans/novelist/internal/entities"
)

func setupTestStore(t *testing.T) (*Store, Repositories, func()) {
	t.Helper()

	dbPath := "./test_currentbook_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	repos := Repositories{
		Books:      books.NewRepository(db.DB),
		Characters: characters.NewRepository(db.DB),
		Locations:  locations.NewRepository(db.DB),
		PlotEvents: plotevents.NewRepository(db.DB),
		Chapters:   chapters.NewRepository(db.DB),
	}
	store := New(repos)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return store, repos, cleanup
}

func seedBook(t *testing.T, repos Repositories, title string) *entities.Book {
	t.Helper()
	book, err := repos.Books.CreateBook(title)
	require.NoError(t, err)
	return book
}

func TestStore_LoadBook(t *testing.T) {
	t.Run("populates the full detail graph", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		_, err := repos.Characters.Create(book.ID, "Hero", "")
		require.NoError(t, err)
		_, err = repos.Locations.Create(book.ID, "Harbour", "")
		require.NoError(t, err)
		_, err = repos.PlotEvents.Create(book.ID, "Opening", "", 1)
		require.NoError(t, err)
		_, err = repos.Chapters.Create(book.ID, "Chapter One", "words", 1)
		require.NoError(t, err)

		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		assert.Equal(t, book.ID, store.CurrentBookID())
		require.NotNil(t, store.Book())
		assert.Equal(t, "Draft One", store.Book().Title)
		assert.Len(t, store.Characters(), 1)
		assert.Len(t, store.Locations(), 1)
		assert.Len(t, store.PlotEvents(), 1)
		assert.Len(t, store.Chapters(), 1)
		assert.False(t, store.IsLoading())
	})

	t.Run("missing book resets the store to none", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		err := store.LoadBook(context.Background(), 999)
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.Zero(t, store.CurrentBookID())
		assert.Nil(t, store.Book())
	})

	t.Run("reloading the open book skips the reads", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))
		assert.Empty(t, store.Characters())

		// A write that bypasses the store is invisible to the no-op reload.
		_, err := repos.Characters.Create(book.ID, "Smuggled in", "")
		require.NoError(t, err)

		require.NoError(t, store.LoadBook(context.Background(), book.ID))
		assert.Empty(t, store.Characters())
	})

	t.Run("switching books replaces the graph", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		first := seedBook(t, repos, "First")
		second := seedBook(t, repos, "Second")
		_, err := repos.Characters.Create(first.ID, "Only in first", "")
		require.NoError(t, err)

		require.NoError(t, store.LoadBook(context.Background(), first.ID))
		assert.Len(t, store.Characters(), 1)

		require.NoError(t, store.LoadBook(context.Background(), second.ID))
		assert.Equal(t, second.ID, store.CurrentBookID())
		assert.Empty(t, store.Characters())
	})
}

func TestStore_StaleLoads(t *testing.T) {
	t.Run("a load that lost to a newer load is discarded", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		first := seedBook(t, repos, "First")
		second := seedBook(t, repos, "Second")
		_, err := repos.Characters.Create(first.ID, "Only in first", "")
		require.NoError(t, err)

		// First load claims its generation and reads its graph, but a load
		// for the second book completes before the result is applied.
		gen, ok := store.beginLoad(first.ID)
		require.True(t, ok)
		graph, fetchErr := store.fetchGraph(context.Background(), first.ID)
		require.NoError(t, fetchErr)

		require.NoError(t, store.LoadBook(context.Background(), second.ID))

		require.NoError(t, store.finishLoad(first.ID, gen, graph, fetchErr))

		assert.Equal(t, second.ID, store.CurrentBookID())
		require.NotNil(t, store.Book())
		assert.Equal(t, "Second", store.Book().Title)
		assert.Empty(t, store.Characters())
		assert.False(t, store.IsLoading())
	})

	t.Run("a late result cannot resurrect cleared state", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		_, err := repos.Chapters.Create(book.ID, "Chapter One", "words", 1)
		require.NoError(t, err)

		gen, ok := store.beginLoad(book.ID)
		require.True(t, ok)
		graph, fetchErr := store.fetchGraph(context.Background(), book.ID)
		require.NoError(t, fetchErr)

		store.Clear()

		require.NoError(t, store.finishLoad(book.ID, gen, graph, fetchErr))

		assert.Zero(t, store.CurrentBookID())
		assert.Nil(t, store.Book())
		assert.Empty(t, store.Chapters())
		assert.False(t, store.IsLoading())
	})

	t.Run("a stale failure does not reset a newer load", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")

		// A load for a missing book is overtaken by a successful one; its
		// late failure must neither surface nor clear the current id.
		gen, ok := store.beginLoad(999)
		require.True(t, ok)
		_, fetchErr := store.fetchGraph(context.Background(), 999)
		require.ErrorIs(t, fetchErr, database.ErrNotFound)

		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		require.NoError(t, store.finishLoad(999, gen, nil, fetchErr))

		assert.Equal(t, book.ID, store.CurrentBookID())
		require.NotNil(t, store.Book())
	})
}

func TestStore_Clear(t *testing.T) {
	t.Run("empties the store and allows a fresh reload", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		store.Clear()
		assert.Zero(t, store.CurrentBookID())
		assert.Nil(t, store.Book())
		assert.Empty(t, store.Chapters())

		// Clear defeats the idempotence guard: data written in between is
		// picked up by the next load.
		_, err := repos.Characters.Create(book.ID, "Late arrival", "")
		require.NoError(t, err)

		require.NoError(t, store.LoadBook(context.Background(), book.ID))
		assert.Len(t, store.Characters(), 1)
	})
}

func TestStore_Characters(t *testing.T) {
	t.Run("mutations require an open book", func(t *testing.T) {
		store, _, cleanup := setupTestStore(t)
		defer cleanup()

		_, err := store.AddCharacter("Hero", "")
		assert.ErrorIs(t, err, ErrNoBookLoaded)
		_, err = store.UpdateCharacter(1, "Hero", "")
		assert.ErrorIs(t, err, ErrNoBookLoaded)
		assert.ErrorIs(t, store.DeleteCharacter(1), ErrNoBookLoaded)
	})

	t.Run("add persists and caches", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		character, err := store.AddCharacter("Hero", "the protagonist")
		require.NoError(t, err)
		assert.Equal(t, book.ID, character.BookID)

		cached := store.Characters()
		require.Len(t, cached, 1)
		assert.Equal(t, "Hero", cached[0].Name)

		persisted, err := repos.Characters.ListForBook(book.ID)
		require.NoError(t, err)
		assert.Len(t, persisted, 1)
	})

	t.Run("update patches the cached entry in place", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		character, err := store.AddCharacter("Hero", "")
		require.NoError(t, err)

		_, err = store.UpdateCharacter(character.ID, "Antihero", "changed sides")
		require.NoError(t, err)

		cached := store.Characters()
		require.Len(t, cached, 1)
		assert.Equal(t, "Antihero", cached[0].Name)
		assert.Equal(t, "changed sides", cached[0].Description)
	})

	t.Run("delete drops the cached entry", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		character, err := store.AddCharacter("Hero", "")
		require.NoError(t, err)
		keeper, err := store.AddCharacter("Sidekick", "")
		require.NoError(t, err)

		require.NoError(t, store.DeleteCharacter(character.ID))

		cached := store.Characters()
		require.Len(t, cached, 1)
		assert.Equal(t, keeper.ID, cached[0].ID)
	})
}

func TestStore_Locations(t *testing.T) {
	t.Run("full add update delete cycle", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		location, err := store.AddLocation("Harbour", "")
		require.NoError(t, err)

		_, err = store.UpdateLocation(location.ID, "Old Harbour", "abandoned")
		require.NoError(t, err)
		cached := store.Locations()
		require.Len(t, cached, 1)
		assert.Equal(t, "Old Harbour", cached[0].Name)

		require.NoError(t, store.DeleteLocation(location.ID))
		assert.Empty(t, store.Locations())
	})
}

func TestStore_PlotEvents(t *testing.T) {
	t.Run("orders are assigned sequentially", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		first, err := store.AddPlotEvent("Opening", "")
		require.NoError(t, err)
		second, err := store.AddPlotEvent("Midpoint", "")
		require.NoError(t, err)

		assert.Equal(t, 1, first.Order)
		assert.Equal(t, 2, second.Order)
	})

	t.Run("deleted orders are never reused", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		a, err := store.AddPlotEvent("A", "")
		require.NoError(t, err)
		_, err = store.AddPlotEvent("B", "")
		require.NoError(t, err)

		require.NoError(t, store.DeletePlotEvent(a.ID))

		c, err := store.AddPlotEvent("C", "")
		require.NoError(t, err)
		assert.Equal(t, 3, c.Order)
	})

	t.Run("update keeps the sequence position", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		event, err := store.AddPlotEvent("Twist", "")
		require.NoError(t, err)

		updated, err := store.UpdatePlotEvent(event.ID, "Bigger twist", "details")
		require.NoError(t, err)
		assert.Equal(t, event.Order, updated.Order)
	})
}

func TestStore_Chapters(t *testing.T) {
	t.Run("new chapters start empty at the end of the manuscript", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		first, err := store.AddChapter("Chapter One")
		require.NoError(t, err)
		second, err := store.AddChapter("Chapter Two")
		require.NoError(t, err)

		assert.Equal(t, 1, first.Order)
		assert.Equal(t, 2, second.Order)
		assert.Empty(t, first.Content)
	})

	t.Run("content and title edit paths are independent", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		chapter, err := store.AddChapter("Chapter One")
		require.NoError(t, err)

		withContent, err := store.UpdateChapterContent(chapter.ID, "Call me Ishmael.")
		require.NoError(t, err)
		assert.Equal(t, "Call me Ishmael.", withContent.Content)

		renamed, err := store.UpdateChapterTitle(chapter.ID, "Loomings")
		require.NoError(t, err)
		assert.Equal(t, "Loomings", renamed.Title)
		assert.Equal(t, "Call me Ishmael.", renamed.Content)

		cached := store.Chapters()
		require.Len(t, cached, 1)
		assert.Equal(t, "Loomings", cached[0].Title)
		assert.Equal(t, "Call me Ishmael.", cached[0].Content)
	})

	t.Run("delete drops the chapter without renumbering", func(t *testing.T) {
		store, repos, cleanup := setupTestStore(t)
		defer cleanup()

		book := seedBook(t, repos, "Draft One")
		require.NoError(t, store.LoadBook(context.Background(), book.ID))

		first, err := store.AddChapter("One")
		require.NoError(t, err)
		_, err = store.AddChapter("Two")
		require.NoError(t, err)

		require.NoError(t, store.DeleteChapter(first.ID))

		cached := store.Chapters()
		require.Len(t, cached, 1)
		assert.Equal(t, 2, cached[0].Order)
	})
}
