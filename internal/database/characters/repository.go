// Package characters provides database operations for a book's character
// reference sheets.
package characters

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/entities"
)

// Repository handles all character database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new characters repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new character for a book.
func (r *Repository) Create(bookID uint, name, description string) (*entities.Character, error) {
	character := &entities.Character{
		BookID:      bookID,
		Name:        name,
		Description: description,
	}
	if err := r.db.Create(character).Error; err != nil {
		return nil, err
	}
	return character, nil
}

// GetByID retrieves a character by ID.
func (r *Repository) GetByID(id uint) (*entities.Character, error) {
	var character entities.Character
	err := r.db.First(&character, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &character, nil
}

// ListForBook retrieves all characters belonging to a book.
func (r *Repository) ListForBook(bookID uint) ([]entities.Character, error) {
	var characters []entities.Character
	err := r.db.Where("book_id = ?", bookID).Find(&characters).Error
	return characters, err
}

// Update changes a character's name and description. ID and BookID are
// immutable. Returns database.ErrNotFound if the id does not exist.
func (r *Repository) Update(id uint, name, description string) (*entities.Character, error) {
	result := r.db.Model(&entities.Character{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        name,
		"description": description,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetByID(id)
}

// Delete removes a character. Deleting an absent id is a no-op.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Character{}, id).Error
}
