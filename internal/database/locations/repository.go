// Package locations provides database operations for a book's location
// reference sheets.
package locations

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/entities"
)

// Repository handles all location database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new locations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new location for a book.
func (r *Repository) Create(bookID uint, name, description string) (*entities.Location, error) {
	location := &entities.Location{
		BookID:      bookID,
		Name:        name,
		Description: description,
	}
	if err := r.db.Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// GetByID retrieves a location by ID.
func (r *Repository) GetByID(id uint) (*entities.Location, error) {
	var location entities.Location
	err := r.db.First(&location, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// ListForBook retrieves all locations belonging to a book.
func (r *Repository) ListForBook(bookID uint) ([]entities.Location, error) {
	var locations []entities.Location
	err := r.db.Where("book_id = ?", bookID).Find(&locations).Error
	return locations, err
}

// Update changes a location's name and description. ID and BookID are
// immutable. Returns database.ErrNotFound if the id does not exist.
func (r *Repository) Update(id uint, name, description string) (*entities.Location, error) {
	result := r.db.Model(&entities.Location{}).Where("id = ?", id).Updates(map[string]interface{}{
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

// Delete removes a location. Deleting an absent id is a no-op.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Location{}, id).Error
}
