// Package plotevents provides database operations for a book's planned
// story beats. Retrieval is sorted by the narrative sequence (sort_order);
// the sequence value itself is assigned by the current-book store at
// creation time and is immutable afterwards.
package plotevents

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/entities"
)

// Repository handles all plot event database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new plot events repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new plot event with the given sequence position.
func (r *Repository) Create(bookID uint, title, summary string, order int) (*entities.PlotEvent, error) {
	event := &entities.PlotEvent{
		BookID:  bookID,
		Title:   title,
		Summary: summary,
		Order:   order,
	}
	if err := r.db.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// GetByID retrieves a plot event by ID.
func (r *Repository) GetByID(id uint) (*entities.PlotEvent, error) {
	var event entities.PlotEvent
	err := r.db.First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListForBook retrieves all plot events of a book in narrative order.
func (r *Repository) ListForBook(bookID uint) ([]entities.PlotEvent, error) {
	var events []entities.PlotEvent
	err := r.db.Where("book_id = ?", bookID).Order("sort_order ASC").Find(&events).Error
	return events, err
}

// Update changes a plot event's title and summary. ID, BookID and Order are
// immutable. Returns database.ErrNotFound if the id does not exist.
func (r *Repository) Update(id uint, title, summary string) (*entities.PlotEvent, error) {
	result := r.db.Model(&entities.PlotEvent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":   title,
		"summary": summary,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetByID(id)
}

// Delete removes a plot event. The sequence positions of the remaining
// events are not renumbered; gaps are expected. Deleting an absent id is a
// no-op.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.PlotEvent{}, id).Error
}
