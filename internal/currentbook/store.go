// Package currentbook holds the detail graph of the one book that is
// currently open: the book row plus its characters, locations, plot events
// and chapters.
//
// LoadBook fans the five reads out in parallel and applies the combined
// result atomically. A monotonically increasing load generation guards
// against the stale-load race: a load that finishes after a newer LoadBook
// or Clear discards its result instead of overwriting fresher state.
//
// Child mutations hold the store lock across the persistence call, which
// serializes the compute-next-order-then-insert sequence for plot events
// and chapters; since every mutation funnels through this store, the
// in-memory sibling lists are always complete when the next order value is
// computed.
package currentbook

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/novelist/internal/database/books"
	"github.com/mrlokans/novelist/internal/database/chapters"
	"github.com/mrlokans/novelist/internal/database/characters"
	"github.com/mrlokans/novelist/internal/database/locations"
	"github.com/mrlokans/novelist/internal/database/plotevents"
	"github.com/mrlokans/novelist/internal/entities"
)

// ErrNoBookLoaded is returned by child-entity mutations when no book is
// currently open.
var ErrNoBookLoaded = errors.New("no book is currently loaded")

// Repositories bundles the persistence dependencies of the store.
type Repositories struct {
	Books      *books.Repository
	Characters *characters.Repository
	Locations  *locations.Repository
	PlotEvents *plotevents.Repository
	Chapters   *chapters.Repository
}

// Store caches the open book's full detail graph.
type Store struct {
	repos Repositories

	mu         sync.Mutex
	generation uint64
	currentID  uint // 0 means no book is loaded
	loading    bool

	book          *entities.Book
	characterList []entities.Character
	locationList  []entities.Location
	eventList     []entities.PlotEvent
	chapterList   []entities.Chapter
}

// New creates an empty current-book store.
func New(repos Repositories) *Store {
	return &Store{repos: repos}
}

// CurrentBookID returns the id of the loaded book, or 0 if none is loaded.
func (s *Store) CurrentBookID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// IsLoading reports whether a LoadBook call is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Book returns a copy of the loaded book row, or nil.
func (s *Store) Book() *entities.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.book == nil {
		return nil
	}
	book := *s.book
	return &book
}

// Characters returns a copy of the loaded book's characters.
func (s *Store) Characters() []entities.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Character, len(s.characterList))
	copy(out, s.characterList)
	return out
}

// Locations returns a copy of the loaded book's locations.
func (s *Store) Locations() []entities.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Location, len(s.locationList))
	copy(out, s.locationList)
	return out
}

// PlotEvents returns a copy of the loaded book's plot events in narrative
// order.
func (s *Store) PlotEvents() []entities.PlotEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.PlotEvent, len(s.eventList))
	copy(out, s.eventList)
	return out
}

// Chapters returns a copy of the loaded book's chapters in manuscript
// order.
func (s *Store) Chapters() []entities.Chapter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Chapter, len(s.chapterList))
	copy(out, s.chapterList)
	return out
}

// loadedGraph is the result of one fan-out read of a book's detail graph.
type loadedGraph struct {
	book       *entities.Book
	characters []entities.Character
	locations  []entities.Location
	events     []entities.PlotEvent
	chapters   []entities.Chapter
}

// LoadBook populates the store with a book's full detail graph. Calling it
// with the id that is already loaded (and not mid-load) is a no-op. On
// failure the current id is reset to none. A result that arrives after a
// newer LoadBook or Clear is discarded silently: the nil return then means
// "the store holds fresher state", not "your book is loaded".
func (s *Store) LoadBook(ctx context.Context, bookID uint) error {
	gen, ok := s.beginLoad(bookID)
	if !ok {
		return nil
	}
	graph, err := s.fetchGraph(ctx, bookID)
	return s.finishLoad(bookID, gen, graph, err)
}

// beginLoad claims a new load generation for bookID. Returns false when the
// book is already loaded with no load in flight.
func (s *Store) beginLoad(bookID uint) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == bookID && !s.loading {
		return 0, false
	}
	s.generation++
	s.loading = true
	s.currentID = bookID
	return s.generation, true
}

// fetchGraph reads the five parts of a book's detail graph in parallel.
func (s *Store) fetchGraph(ctx context.Context, bookID uint) (*loadedGraph, error) {
	var graph loadedGraph

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		graph.book, err = s.repos.Books.GetBook(bookID)
		return err
	})
	g.Go(func() error {
		var err error
		graph.characters, err = s.repos.Characters.ListForBook(bookID)
		return err
	})
	g.Go(func() error {
		var err error
		graph.locations, err = s.repos.Locations.ListForBook(bookID)
		return err
	})
	g.Go(func() error {
		var err error
		graph.events, err = s.repos.PlotEvents.ListForBook(bookID)
		return err
	})
	g.Go(func() error {
		var err error
		graph.chapters, err = s.repos.Chapters.ListForBook(bookID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &graph, nil
}

// finishLoad applies a load result if its generation is still current. A
// result that lost to a newer LoadBook or a Clear is dropped without
// touching the store and reported as nil.
func (s *Store) finishLoad(bookID uint, gen uint64, graph *loadedGraph, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil
	}
	s.loading = false
	if err != nil {
		log.Printf("current book store: load book %d: %v", bookID, err)
		s.currentID = 0
		return err
	}
	s.book = graph.book
	s.characterList = graph.characters
	s.locationList = graph.locations
	s.eventList = graph.events
	s.chapterList = graph.chapters
	return nil
}

// Clear resets the store to empty. It also invalidates any in-flight
// LoadBook so its late result cannot resurrect the cleared state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.currentID = 0
	s.loading = false
	s.book = nil
	s.characterList = nil
	s.locationList = nil
	s.eventList = nil
	s.chapterList = nil
}

// AddCharacter persists a new character for the open book and appends it to
// the cached list.
func (s *Store) AddCharacter(name, description string) (*entities.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return nil, ErrNoBookLoaded
	}
	character, err := s.repos.Characters.Create(s.currentID, name, description)
	if err != nil {
		log.Printf("current book store: add character: %v", err)
		return nil, err
	}
	s.characterList = append(s.characterList, *character)
	return character, nil
}

// UpdateCharacter changes a character's name and description, in storage
// and in the cached list.
func (s *Store) UpdateCharacter(id uint, name, description string) (*entities.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return nil, ErrNoBookLoaded
	}
	updated, err := s.repos.Characters.Update(id, name, description)
	if err != nil {
		log.Printf("current book store: update character %d: %v", id, err)
		return nil, err
	}
	for i := range s.characterList {
		if s.characterList[i].ID == id {
			s.characterList[i] = *updated
			break
		}
	}
	return updated, nil
}

// DeleteCharacter removes a character from storage and from the cached
// list.
func (s *Store) DeleteCharacter(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return ErrNoBookLoaded
	}
	if err := s.repos.Characters.Delete(id); err != nil {
		log.Printf("current book store: delete character %d: %v", id, err)
		return err
	}
	s.characterList = filterCharacters(s.characterList, id)
	return nil
}

// AddLocation persists a new location for the open book and appends it to
// the cached list.
func (s *Store) AddLocation(name, description string) (*entities.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return nil, ErrNoBookLoaded
	}
	location, err := s.repos.Locations.Create(s.currentID, name, description)
	if err != nil {
		log.Printf("current book store: add location: %v", err)
		return nil, err
	}
	s.locationList = append(s.locationList, *location)
	return location, nil
}

// UpdateLocation changes a location's name and description, in storage and
// in the cached list.
func (s *Store) UpdateLocation(id uint, name, description string) (*entities.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return nil, ErrNoBookLoaded
	}
	updated, err := s.repos.Locations.Update(id, name, description)
	if err != nil {
		log.Printf("current book store: update location %d: %v", id, err)
		return nil, err
	}
	for i := range s.locationList {
		if s.locationList[i].ID == id {
			s.locationList[i] = *updated
			break
		}
	}
	return updated, nil
}

// DeleteLocation removes a location from storage and from the cached list.
func (s *Store) DeleteLocation(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return ErrNoBookLoaded
	}
	if err := s.repos.Locations.Delete(id); err != nil {
		log.Printf("current book store: delete location %d: %v", id, err)
		return err
	}
	s.locationList = filterLocations(s.locationList, id)
	return nil
}

// AddPlotEvent persists a new plot event at the end of the narrative
// sequence (max sibling order + 1) and appends it to the cached list.
func (s *Store) AddPlotEvent(title, summary string) (*entities.PlotEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return nil, ErrNoBookLoaded
	}
	order := 0
	for _, e := range s.eventList {
		if e.Order > order {
			order = e.Order
		}
	}
	event, err := s.repos.PlotEvents.Create(s.currentID, title, summary, order+1)
	if err != nil {
		log.Printf("current book store: add plot event: %v", err)
		return nil, err
	}
	s.eventList = append(s.eventList, *event)
	return event, nil
}

// UpdatePlotEvent changes a plot event's title and summary; its sequence
// position is immutable.
func (s *Store) UpdatePlotEvent(id uint, title, summary string) (*entities.PlotEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return nil, ErrNoBookLoaded
	}
	updated, err := s.repos.PlotEvents.Update(id, title, summary)
	if err != nil {
		log.Printf("current book store: update plot event %d: %v", id, err)
		return nil, err
	}
	for i := range s.eventList {
		if s.eventList[i].ID == id {
			s.eventList[i] = *updated
			break
		}
	}
	return updated, nil
}

// DeletePlotEvent removes a plot event; the remaining sequence positions
// keep their values, so gaps are expected and never reused.
func (s *Store) DeletePlotEvent(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return ErrNoBookLoaded
	}
	if err := s.repos.PlotEvents.Delete(id); err != nil {
		log.Printf("current book store: delete plot event %d: %v", id, err)
		return err
	}
	s.eventList = filterEvents(s.eventList, id)
	return nil
}

// AddChapter persists a new chapter at the end of the manuscript (max
// sibling order + 1) with empty content; the body is written later through
// UpdateChapterContent.
func (s *Store) AddChapter(title string) (*entities.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return nil, ErrNoBookLoaded
	}
	order := 0
	for _, c := range s.chapterList {
		if c.Order > order {
			order = c.Order
		}
	}
	chapter, err := s.repos.Chapters.Create(s.currentID, title, "", order+1)
	if err != nil {
		log.Printf("current book store: add chapter: %v", err)
		return nil, err
	}
	s.chapterList = append(s.chapterList, *chapter)
	return chapter, nil
}

// UpdateChapterTitle renames a chapter; content and sequence position are
// not touched by this path.
func (s *Store) UpdateChapterTitle(id uint, title string) (*entities.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return nil, ErrNoBookLoaded
	}
	updated, err := s.repos.Chapters.UpdateTitle(id, title)
	if err != nil {
		log.Printf("current book store: update chapter %d title: %v", id, err)
		return nil, err
	}
	for i := range s.chapterList {
		if s.chapterList[i].ID == id {
			s.chapterList[i] = *updated
			break
		}
	}
	return updated, nil
}

// UpdateChapterContent replaces a chapter's manuscript body. This is the
// editor's save path.
func (s *Store) UpdateChapterContent(id uint, content string) (*entities.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return nil, ErrNoBookLoaded
	}
	updated, err := s.repos.Chapters.SetContent(id, content)
	if err != nil {
		log.Printf("current book store: update chapter %d content: %v", id, err)
		return nil, err
	}
	for i := range s.chapterList {
		if s.chapterList[i].ID == id {
			s.chapterList[i] = *updated
			break
		}
	}
	return updated, nil
}

// DeleteChapter removes a chapter; remaining sequence positions keep their
// values.
func (s *Store) DeleteChapter(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == 0 {
		return ErrNoBookLoaded
	}
	if err := s.repos.Chapters.Delete(id); err != nil {
		log.Printf("current book store: delete chapter %d: %v", id, err)
		return err
	}
	s.chapterList = filterChapters(s.chapterList, id)
	return nil
}

func filterCharacters(list []entities.Character, id uint) []entities.Character {
	out := list[:0]
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func filterLocations(list []entities.Location, id uint) []entities.Location {
	out := list[:0]
	for _, l := range list {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

func filterEvents(list []entities.PlotEvent, id uint) []entities.PlotEvent {
	out := list[:0]
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func filterChapters(list []entities.Chapter, id uint) []entities.Chapter {
	out := list[:0]
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
