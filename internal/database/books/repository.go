// Package books provides database operations for the book list and the
// cascading removal of a book together with its world-building data.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.CreateBook("Draft One")
package books

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBooks returns every book, most recently modified first.
func (r *Repository) ListBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("last_modified DESC").Find(&books).Error
	return books, err
}

// GetBook retrieves a book by ID.
func (r *Repository) GetBook(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook persists a new book. CreatedAt and LastModified are set to the
// same instant; the database assigns the identity.
func (r *Repository) CreateBook(title string) (*entities.Book, error) {
	now := time.Now()
	book := &entities.Book{
		Title:        title,
		CreatedAt:    now,
		LastModified: now,
	}
	if err := r.db.Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateTitle changes a book's title and bumps LastModified. Returns
// database.ErrNotFound if no book has the given id.
func (r *Repository) UpdateTitle(id uint, title string) (*entities.Book, error) {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":         title,
		"last_modified": time.Now(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetBook(id)
}

// DeleteBookCascade removes a book together with all of its characters,
// locations, plot events and chapters in a single transaction. Either every
// row goes or none do. Deleting a book that does not exist is a no-op.
func (r *Repository) DeleteBookCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.Character{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Location{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.PlotEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Chapter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
}
