// Package exporters renders books to markdown manuscripts on disk. Used by
// the background export task, the scheduled export and the one-shot CLI
// command.
package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mrlokans/novelist/internal/entities"
)

// BookExport bundles everything that goes into one exported manuscript.
type BookExport struct {
	Book       entities.Book
	Chapters   []entities.Chapter
	Characters []entities.Character
	Locations  []entities.Location
	PlotEvents []entities.PlotEvent
}

// ManuscriptExporter writes one markdown file per book into ExportDir.
type ManuscriptExporter struct {
	ExportDir string
}

func NewManuscriptExporter(exportDir string) *ManuscriptExporter {
	return &ManuscriptExporter{ExportDir: exportDir}
}

/// GenerateManuscript renders a book to markdown: front matter, chapters in
// manuscript order, then a planning appendix with characters, locations and
// plot events when any exist.
func GenerateManuscript(data BookExport) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "title: \"%s\"\n", strings.ReplaceAll(data.Book.Title, "\"", "\\\""))
	fmt.Fprintf(&builder, "created_at: %s\n", data.Book.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&builder, "last_modified: %s\n", data.Book.LastModified.Format("2006-01-02"))
	fmt.Fprintf(&builder, "exported_at: %s\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&builder, "---\n\n")

	chapters := make([]entities.Chapter, len(data.Chapters))
	copy(chapters, data.Chapters)
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Order < chapters[j].Order
	})

	for _, chapter := range chapters {
		fmt.Fprintf(&builder, "## %s\n\n", chapter.Title)
		if chapter.Content != "" {
			fmt.Fprintf(&builder, "%s\n\n", chapter.Content)
		}
	}

	if len(data.Characters) > 0 || len(data.Locations) > 0 || len(data.PlotEvents) > 0 {
		fmt.Fprintf(&builder, "---\n\n# Planning notes\n\n")
	}

	if len(data.Characters) > 0 {
		fmt.Fprintf(&builder, "## Characters\n\n")
		for _, character := range data.Characters {
			fmt.Fprintf(&builder, "- **%s**", character.Name)
			if character.Description != "" {
				fmt.Fprintf(&builder, ": %s", character.Description)
			}
			fmt.Fprintf(&builder, "\n")
		}
		fmt.Fprintf(&builder, "\n")
	}

	if len(data.Locations) > 0 {
		fmt.Fprintf(&builder, "## Locations\n\n")
		for _, location := range data.Locations {
			fmt.Fprintf(&builder, "- **%s**", location.Name)
			if location.Description != "" {
				fmt.Fprintf(&builder, ": %s", location.Description)
			}
			fmt.Fprintf(&builder, "\n")
		}
		fmt.Fprintf(&builder, "\n")
	}

	if len(data.PlotEvents) > 0 {
		events := make([]entities.PlotEvent, len(data.PlotEvents))
		copy(events, data.PlotEvents)
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Order < events[j].Order
		})
		fmt.Fprintf(&builder, "## Plot\n\n")
		for _, event := range events {
			fmt.Fprintf(&builder, "%d. **%s**", event.Order, event.Title)
			if event.Summary != "" {
				fmt.Fprintf(&builder, " — %s", event.Summary)
			}
			fmt.Fprintf(&builder, "\n")
		}
		fmt.Fprintf(&builder, "\n")
	}

	return builder.String()
}

// Export writes the manuscript to <ExportDir>/<id>-<title>.md and returns
// the output path. The id prefix keeps books with identical titles from
// overwriting each other's backups.
func (e *ManuscriptExporter) Export(data BookExport) (string, error) {
	if err := os.MkdirAll(e.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	fileName := fmt.Sprintf("%d-%s.md", data.Book.ID, sanitizeFileName(data.Book.Title))
	outputPath := filepath.Join(e.ExportDir, fileName)
	content := GenerateManuscript(data)

	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write manuscript: %w", err)
	}
	return outputPath, nil
}

// sanitizeFileName strips path separators and characters that are unsafe in
// file names, falling back to "untitled" for empty results.
func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}
