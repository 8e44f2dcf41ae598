// Package chapters provides database operations for manuscript chapters.
//
// A chapter's content and sequence position are deliberately excluded from
// the generic update path: UpdateTitle renames a chapter, SetContent is the
// dedicated manuscript-editor path, and Order is fixed at creation.
package chapters

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/entities"
)

// Repository handles all chapter database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new chapters repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new chapter with the given sequence position.
func (r *Repository) Create(bookID uint, title, content string, order int) (*entities.Chapter, error) {
	chapter := &entities.Chapter{
		BookID:  bookID,
		Title:   title,
		Content: content,
		Order:   order,
	}
	if err := r.db.Create(chapter).Error; err != nil {
		return nil, err
	}
	return chapter, nil
}

// GetByID retrieves a chapter by ID.
func (r *Repository) GetByID(id uint) (*entities.Chapter, error) {
	var chapter entities.Chapter
	err := r.db.First(&chapter, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

// ListForBook retrieves all chapters of a book in manuscript order.
func (r *Repository) ListForBook(bookID uint) ([]entities.Chapter, error) {
	var chapters []entities.Chapter
	err := r.db.Where("book_id = ?", bookID).Order("sort_order ASC").Find(&chapters).Error
	return chapters, err
}

// UpdateTitle renames a chapter. Returns database.ErrNotFound if the id
// does not exist.
func (r *Repository) UpdateTitle(id uint, title string) (*entities.Chapter, error) {
	result := r.db.Model(&entities.Chapter{}).Where("id = ?", id).Update("title", title)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetByID(id)
}

// SetContent replaces a chapter's manuscript body. Returns
// database.ErrNotFound if the id does not exist.
func (r *Repository) SetContent(id uint, content string) (*entities.Chapter, error) {
	result := r.db.Model(&entities.Chapter{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetByID(id)
}

// Delete removes a chapter. Sequence positions of the remaining chapters
// are not renumbered. Deleting an absent id is a no-op.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Chapter{}, id).Error
}
