// Package bookstore holds the in-memory list of books backing the dashboard
// view. The store is constructed once in the entrypoint and injected into
// its consumers; every mutation persists through the books repository first
// and then patches the cached list locally, re-sorting it so the
// most-recently-modified ordering stays correct without a re-fetch.
package bookstore

import (
	"log"
	"sort"
	"sync"

	"github.com/mrlokans/novelist/internal/database/books"
	"github.com/mrlokans/novelist/internal/entities"
)

// Store caches the full book list in memory.
type Store struct {
	repo *books.Repository

	mu      sync.RWMutex
	books   []entities.Book
	loading bool
}

// New creates a book store backed by the given repository. The list starts
// empty; call FetchBooks to populate it.
func New(repo *books.Repository) *Store {
	return &Store{repo: repo}
}

// Books returns a copy of the cached book list, most recently modified
// first.
func (s *Store) Books() []entities.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Book, len(s.books))
	copy(out, s.books)
	return out
}

// IsLoading reports whether a FetchBooks call is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// FetchBooks replaces the cached list with the persisted one. On failure the
// previous list is kept.
func (s *Store) FetchBooks() error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	list, err := s.repo.ListBooks()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		log.Printf("book store: fetch books: %v", err)
		return err
	}
	s.books = list
	return nil
}

// AddBook persists a new book and inserts it into the cached list. Title
// validation (non-empty, trimmed) is the caller's responsibility.
func (s *Store) AddBook(title string) (*entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.repo.CreateBook(title)
	if err != nil {
		log.Printf("book store: add book: %v", err)
		return nil, err
	}
	s.books = append(s.books, *book)
	s.sortLocked()
	return book, nil
}

// UpdateBookTitle renames a book, bumping its LastModified, and patches the
// cached entry in place.
func (s *Store) UpdateBookTitle(id uint, title string) (*entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.repo.UpdateTitle(id, title)
	if err != nil {
		log.Printf("book store: update book %d title: %v", id, err)
		return nil, err
	}
	for i := range s.books {
		if s.books[i].ID == id {
			s.books[i] = *updated
			break
		}
	}
	s.sortLocked()
	return updated, nil
}

// DeleteBook removes a book and all of its child entities, then drops the
// entry from the cached list.
func (s *Store) DeleteBook(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.DeleteBookCascade(id); err != nil {
		log.Printf("book store: delete book %d: %v", id, err)
		return err
	}
	filtered := make([]entities.Book, 0, len(s.books))
	for _, b := range s.books {
		if b.ID != id {
			filtered = append(filtered, b)
		}
	}
	s.books = filtered
	return nil
}

// sortLocked re-sorts the cached list by LastModified descending. Callers
// must hold mu.
func (s *Store) sortLocked() {
	sort.SliceStable(s.books, func(i, j int) bool {
		return s.books[i].LastModified.After(s.books[j].LastModified)
	})
}
