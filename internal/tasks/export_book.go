package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/novelist/internal/database/books"
	"github.com/mrlokans/novelist/internal/database/chapters"
	"github.com/mrlokans/novelist/internal/database/characters"
	"github.com/mrlokans/novelist/internal/database/locations"
	"github.com/mrlokans/novelist/internal/database/plotevents"
	"github.com/mrlokans/novelist/internal/exporters"
)

// ExportSources bundles the repositories the export processor reads from.
type ExportSources struct {
	Books      *books.Repository
	Characters *characters.Repository
	Locations  *locations.Repository
	PlotEvents *plotevents.Repository
	Chapters   *chapters.Repository
}

// ExportBookTask renders one book's manuscript to the export directory.
type ExportBookTask struct {
	BookID uint `json:"book_id"`
}

// Config returns the queue configuration for manuscript export tasks.
func (t ExportBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "export_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     1 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ExportBookProcessor creates a processor function for ExportBookTask.
func ExportBookProcessor(sources ExportSources, exporter *exporters.ManuscriptExporter) backlite.QueueProcessor[ExportBookTask] {
	return func(ctx context.Context, task ExportBookTask) error {
		data, err := CollectBookExport(sources, task.BookID)
		if err != nil {
			return fmt.Errorf("collect book %d for export: %w", task.BookID, err)
		}

		path, err := exporter.Export(*data)
		if err != nil {
			return fmt.Errorf("export book %d: %w", task.BookID, err)
		}

		log.Printf("[TASK] Exported book %d (%s) to %s with %d chapters",
			task.BookID, data.Book.Title, path, len(data.Chapters))
		return nil
	}
}

// NewExportBookQueue creates a backlite queue for manuscript export tasks.
func NewExportBookQueue(sources ExportSources, exporter *exporters.ManuscriptExporter) backlite.Queue {
	return backlite.NewQueue(ExportBookProcessor(sources, exporter))
}

// CollectBookExport loads a book's full detail graph from storage for
// export. Shared with the scheduler and the CLI export command.
func CollectBookExport(sources ExportSources, bookID uint) (*exporters.BookExport, error) {
	book, err := sources.Books.GetBook(bookID)
	if err != nil {
		return nil, err
	}
	chapterList, err := sources.Chapters.ListForBook(bookID)
	if err != nil {
		return nil, err
	}
	characterList, err := sources.Characters.ListForBook(bookID)
	if err != nil {
		return nil, err
	}
	locationList, err := sources.Locations.ListForBook(bookID)
	if err != nil {
		return nil, err
	}
	eventList, err := sources.PlotEvents.ListForBook(bookID)
	if err != nil {
		return nil, err
	}
	return &exporters.BookExport{
		Book:       *book,
		Chapters:   chapterList,
		Characters: characterList,
		Locations:  locationList,
		PlotEvents: eventList,
	}, nil
}
