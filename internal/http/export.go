package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/novelist/internal/tasks"
)

// ExportController enqueues manuscript export tasks and reports their
// progress.
type ExportController struct {
	client *tasks.Client
}

func NewExportController(client *tasks.Client) *ExportController {
	return &ExportController{client: client}
}

// ExportBook enqueues a manuscript export for one book
// POST /api/books/:id/export
func (ec *ExportController) ExportBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ids, err := ec.client.Add(tasks.ExportBookTask{BookID: id}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue export")
		return
	}

	respondAccepted(c, "export enqueued", gin.H{"task_id": ids[0]})
}

// GetTaskStatus reports the state of a queued export task
// GET /api/tasks/:id
func (ec *ExportController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := ec.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
