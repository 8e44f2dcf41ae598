// Command generate_demo creates a demo database with sample writing
// projects built around public domain novels.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/database/books"
	"github.com/mrlokans/novelist/internal/database/chapters"
	"github.com/mrlokans/novelist/internal/database/characters"
	"github.com/mrlokans/novelist/internal/database/locations"
	"github.com/mrlokans/novelist/internal/database/plotevents"
)

const defaultDemoDatabasePath = "./demo/demo.db"

type childEntity struct {
	name        string
	description string
}

type orderedEntity struct {
	title   string
	summary string
}

type demoBook struct {
	title      string
	characters []childEntity
	locations  []childEntity
	plotEvents []orderedEntity
	chapters   []orderedEntity // summary holds the chapter body
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}
	if err := os.MkdirAll("./demo", 0o755); err != nil {
		log.Fatalf("Failed to create demo directory: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	bookRepo := books.NewRepository(db.DB)
	characterRepo := characters.NewRepository(db.DB)
	locationRepo := locations.NewRepository(db.DB)
	plotEventRepo := plotevents.NewRepository(db.DB)
	chapterRepo := chapters.NewRepository(db.DB)

	for _, demo := range demoBooks() {
		book, err := bookRepo.CreateBook(demo.title)
		if err != nil {
			log.Printf("Failed to save book %s: %v", demo.title, err)
			continue
		}

		for _, c := range demo.characters {
			if _, err := characterRepo.Create(book.ID, c.name, c.description); err != nil {
				log.Printf("Failed to add character %s: %v", c.name, err)
			}
		}
		for _, l := range demo.locations {
			if _, err := locationRepo.Create(book.ID, l.name, l.description); err != nil {
				log.Printf("Failed to add location %s: %v", l.name, err)
			}
		}
		for i, e := range demo.plotEvents {
			if _, err := plotEventRepo.Create(book.ID, e.title, e.summary, i+1); err != nil {
				log.Printf("Failed to add plot event %s: %v", e.title, err)
			}
		}
		for i, ch := range demo.chapters {
			if _, err := chapterRepo.Create(book.ID, ch.title, ch.summary, i+1); err != nil {
				log.Printf("Failed to add chapter %s: %v", ch.title, err)
			}
		}

		log.Printf("Saved: %s (%d characters, %d chapters)",
			book.Title, len(demo.characters), len(demo.chapters))
	}

	log.Println("Demo database generated successfully!")
}

func demoBooks() []demoBook {
	return []demoBook{
		{
			title: "The Whale, Retold",
			characters: []childEntity{
				{"Ishmael", "a restless narrator who takes to the sea"},
				{"Ahab", "the monomaniacal captain of the Pequod"},
				{"Queequeg", "a harpooneer and Ishmael's closest friend"},
			},
			locations: []childEntity{
				{"New Bedford", "whaling port where the story opens"},
				{"The Pequod", "the doomed whaling ship"},
			},
			plotEvents: []orderedEntity{
				{"Signing on", "Ishmael and Queequeg join the Pequod's crew"},
				{"The doubloon", "Ahab nails a gold coin to the mast"},
				{"The chase", "three days of pursuit end in catastrophe"},
			},
			chapters: []orderedEntity{
				{"Loomings", "Call me Ishmael. Some years ago, never mind how long precisely, I thought I would sail about a little."},
				{"The Spouter-Inn", "The inn was cold, but the company was colder still."},
			},
		},
		{
			title: "Letters from the Moor",
			characters: []childEntity{
				{"Catherine", "wild, proud and bound to the moor"},
				{"Heathcliff", "a foundling whose love curdles into vengeance"},
			},
			locations: []childEntity{
				{"Wuthering Heights", "a weathered farmhouse on the hilltop"},
				{"Thrushcross Grange", "the genteel house in the valley"},
			},
			plotEvents: []orderedEntity{
				{"The arrival", "Mr. Earnshaw brings a strange child home"},
				{"The separation", "Catherine chooses the Grange over the Heights"},
			},
			chapters: []orderedEntity{
				{"The Tenant", "My landlord received me with sullen civility."},
			},
		},
		{
			title: "Untitled Draft",
		},
	}
}
