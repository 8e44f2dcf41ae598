// Package cli holds the one-shot commands exposed by the binary alongside
// the HTTP server.
package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mrlokans/novelist/internal/config"
	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/database/books"
	"github.com/mrlokans/novelist/internal/database/chapters"
	"github.com/mrlokans/novelist/internal/database/characters"
	"github.com/mrlokans/novelist/internal/database/locations"
	"github.com/mrlokans/novelist/internal/database/plotevents"
	"github.com/mrlokans/novelist/internal/exporters"
	"github.com/mrlokans/novelist/internal/tasks"
)

// ExportCommand renders manuscripts to markdown without starting the
// server. Exports every book by default, or a single one with -book.
type ExportCommand struct {
	DatabasePath string
	OutputDir    string
	BookID       uint
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.OutputDir, "out", config.DefaultExportDir, "Directory to write markdown manuscripts to")
	bookID := fs.Uint("book", 0, "Export only the book with this ID (default: all books)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export book manuscripts to markdown files.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -book 3 -out ./backup\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.BookID = uint(*bookID)

	return nil
}

func (cmd *ExportCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", cmd.DatabasePath)
	}

	if err := os.MkdirAll(cmd.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	sources := tasks.ExportSources{
		Books:      books.NewRepository(db.DB),
		Characters: characters.NewRepository(db.DB),
		Locations:  locations.NewRepository(db.DB),
		PlotEvents: plotevents.NewRepository(db.DB),
		Chapters:   chapters.NewRepository(db.DB),
	}
	exporter := exporters.NewManuscriptExporter(cmd.OutputDir)

	if cmd.BookID != 0 {
		return cmd.exportOne(sources, exporter, cmd.BookID)
	}

	bookList, err := sources.Books.ListBooks()
	if err != nil {
		return fmt.Errorf("failed to list books: %w", err)
	}
	if len(bookList) == 0 {
		fmt.Println("No books to export")
		return nil
	}

	failed := 0
	for _, book := range bookList {
		if err := cmd.exportOne(sources, exporter, book.ID); err != nil {
			log.Printf("Failed to export book %d (%s): %v", book.ID, book.Title, err)
			failed++
		}
	}

	fmt.Printf("Exported %d/%d books to %s\n", len(bookList)-failed, len(bookList), cmd.OutputDir)
	if failed > 0 {
		return fmt.Errorf("%d books failed to export", failed)
	}
	return nil
}

func (cmd *ExportCommand) exportOne(sources tasks.ExportSources, exporter *exporters.ManuscriptExporter, bookID uint) error {
	data, err := tasks.CollectBookExport(sources, bookID)
	if err != nil {
		return fmt.Errorf("failed to collect book %d: %w", bookID, err)
	}

	path, err := exporter.Export(*data)
	if err != nil {
		return fmt.Errorf("failed to export book %d: %w", bookID, err)
	}

	fmt.Printf("Exported \"%s\" (%d chapters) to %s\n", data.Book.Title, len(data.Chapters), path)
	return nil
}
