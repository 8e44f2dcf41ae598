package entities

import "time"

// Book is a single writing project. LastModified is maintained by the books
// repository and only moves when the title changes; edits to a book's
// characters, locations, plot events or chapters never touch it.
type Book struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"index;size:512" json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `gorm:"index" json:"last_modified"`

	Characters []Character `gorm:"foreignKey:BookID" json:"characters,omitempty"`
	Locations  []Location  `gorm:"foreignKey:BookID" json:"locations,omitempty"`
	PlotEvents []PlotEvent `gorm:"foreignKey:BookID" json:"plot_events,omitempty"`
	Chapters   []Chapter   `gorm:"foreignKey:BookID" json:"chapters,omitempty"`
}

// Character is a world-building reference entity belonging to one book.
type Character struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	BookID      uint   `gorm:"index" json:"book_id"`
	Name        string `gorm:"index;size:256" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Location is a world-building reference entity belonging to one book.
type Location struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	BookID      uint   `gorm:"index" json:"book_id"`
	Name        string `gorm:"index;size:256" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// PlotEvent is a planned story beat. Order defines the narrative sequence;
// it is assigned once at creation (max sibling order + 1) and never
// reassigned, so gaps after deletes are expected. The column is named
// sort_order because "order" is an SQL keyword.
type PlotEvent struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	BookID  uint   `gorm:"index" json:"book_id"`
	Title   string `gorm:"size:512" json:"title"`
	Summary string `gorm:"type:text" json:"summary"`
	Order   int    `gorm:"column:sort_order;index" json:"order"`
}

// Chapter is an ordered manuscript section. Content holds the manuscript
// body and follows the same sequencing convention as PlotEvent.
type Chapter struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	BookID  uint   `gorm:"index" json:"book_id"`
	Title   string `gorm:"size:512" json:"title"`
	Content string `gorm:"type:text" json:"content"`
	Order   int    `gorm:"column:sort_order;index" json:"order"`
}
