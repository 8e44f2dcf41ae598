package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/novelist/internal/database/books"
	"github.com/mrlokans/novelist/internal/database/chapters"
	"github.com/mrlokans/novelist/internal/database/characters"
	"github.com/mrlokans/novelist/internal/database/locations"
	"github.com/mrlokans/novelist/internal/database/plotevents"
	"github.com/mrlokans/novelist/internal/exporters"
	"github.com/mrlokans/novelist/internal/tasks"
)

// setupExportTest wires a real task client against a throwaway queue
// database. The queue is registered but never started, so enqueued tasks
// stay pending for the duration of the test.
func setupExportTest(t *testing.T) (testStores, *tasks.Client, func()) {
	t.Helper()

	stores, storesCleanup := setupBooksTest(t)

	dbPath := "./test_export_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	client, err := tasks.NewClient(dbPath, tasks.DefaultConfig())
	require.NoError(t, err)

	client.Register(tasks.NewExportBookQueue(tasks.ExportSources{
		Books:      books.NewRepository(stores.db.DB),
		Characters: characters.NewRepository(stores.db.DB),
		Locations:  locations.NewRepository(stores.db.DB),
		PlotEvents: plotevents.NewRepository(stores.db.DB),
		Chapters:   chapters.NewRepository(stores.db.DB),
	}, exporters.NewManuscriptExporter(t.TempDir())))

	cleanup := func() {
		client.Close()
		tasksDBPath := strings.TrimSuffix(dbPath, ".db") + "-tasks.db"
		os.Remove(tasksDBPath)
		os.Remove(tasksDBPath + "-wal")
		os.Remove(tasksDBPath + "-shm")
		storesCleanup()
	}
	return stores, client, cleanup
}

func exportRouter(client *tasks.Client) *gin.Engine {
	controller := NewExportController(client)

	router := gin.New()
	router.POST("/api/books/:id/export", controller.ExportBook)
	router.GET("/api/tasks/:id", controller.GetTaskStatus)
	return router
}

func TestExportController_ExportBook(t *testing.T) {
	t.Run("enqueues an export and reports it pending", func(t *testing.T) {
		stores, client, cleanup := setupExportTest(t)
		defer cleanup()

		book, err := stores.shelf.AddBook("Draft One")
		require.NoError(t, err)

		router := exportRouter(client)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/"+itoa(book.ID)+"/export", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var resp struct {
			Data struct {
				TaskID string `json:"task_id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Data.TaskID)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/api/tasks/"+resp.Data.TaskID, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var status struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, resp.Data.TaskID, status.ID)
		assert.Equal(t, "pending", status.Status)
	})

	t.Run("rejects a non-numeric book id", func(t *testing.T) {
		_, client, cleanup := setupExportTest(t)
		defer cleanup()

		router := exportRouter(client)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books/abc/export", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExportController_GetTaskStatus(t *testing.T) {
	t.Run("reports an unknown task as not found", func(t *testing.T) {
		_, client, cleanup := setupExportTest(t)
		defer cleanup()

		router := exportRouter(client)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/tasks/no-such-task", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "not_found")
	})
}
