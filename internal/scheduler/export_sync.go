// Package scheduler runs periodic manuscript exports so the writing has an
// on-disk markdown backup independent of the database file.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/novelist/internal/exporters"
	"github.com/mrlokans/novelist/internal/tasks"
)

// ExportScheduler exports every book's manuscript on a cron schedule.
type ExportScheduler struct {
	sources  tasks.ExportSources
	exporter *exporters.ManuscriptExporter
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewExportScheduler creates a scheduler with a standard 5-field cron
// schedule.
func NewExportScheduler(sources tasks.ExportSources, exporter *exporters.ManuscriptExporter, schedule string) *ExportScheduler {
	return &ExportScheduler{
		sources:  sources,
		exporter: exporter,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. Stops automatically when ctx is cancelled.
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runExport()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule manuscript export: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Manuscript export scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running export to
// finish.
func (s *ExportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Manuscript export scheduler: stopped")
}

// RunNow triggers an immediate export of all books.
func (s *ExportScheduler) RunNow() {
	go s.runExport()
}

// IsRunning reports whether the scheduler is active.
func (s *ExportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next export will occur, or nil when the
// scheduler is not running.
func (s *ExportScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runExport exports every book, continuing past per-book failures.
func (s *ExportScheduler) runExport() {
	startTime := time.Now()

	bookList, err := s.sources.Books.ListBooks()
	if err != nil {
		log.Printf("Manuscript export: failed to list books: %v", err)
		return
	}
	if len(bookList) == 0 {
		log.Printf("Manuscript export: no books to export")
		return
	}

	exported := 0
	for _, book := range bookList {
		data, err := tasks.CollectBookExport(s.sources, book.ID)
		if err != nil {
			log.Printf("Manuscript export: collect book %d (%s): %v", book.ID, book.Title, err)
			continue
		}
		if _, err := s.exporter.Export(*data); err != nil {
			log.Printf("Manuscript export: export book %d (%s): %v", book.ID, book.Title, err)
			continue
		}
		exported++
	}

	log.Printf("Manuscript export: exported %d/%d books in %v",
		exported, len(bookList), time.Since(startTime).Round(time.Millisecond))
}
