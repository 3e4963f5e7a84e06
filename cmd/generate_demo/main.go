// Command generate_demo creates a demo database with sample users, books,
// reading lists and reviews. Every demo account uses the password "password".
// Usage: go run ./cmd/generate_demo [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookly/internal/config"
	"github.com/mrlokans/bookly/internal/database"
	"github.com/mrlokans/bookly/internal/database/books"
	"github.com/mrlokans/bookly/internal/database/lists"
	"github.com/mrlokans/bookly/internal/database/reviews"
	"github.com/mrlokans/bookly/internal/database/users"
	"github.com/mrlokans/bookly/internal/entities"
	"github.com/mrlokans/bookly/internal/logger"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	demoPassword            = "password"
)

type demoList struct {
	Owner       string
	Title       string
	Description string
	BookIDs     []string
}

type demoReview struct {
	ListTitle string
	Author    string
	Rating    int
	Title     string
	Body      string
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	logger.Init("info", "console")
	log.Info().Str("path", *dbPath).Msg("generating demo database")

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatal().Err(err).Msg("failed to remove existing demo database")
	}

	db, err := database.NewDatabase(config.Database{Driver: config.DriverSQLite, Path: *dbPath})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create database")
	}
	defer db.Close()

	ctx := context.Background()
	userRepo := users.NewRepository(db.DB, bcrypt.DefaultCost)
	bookRepo := books.NewRepository(db.DB)
	listRepo := lists.NewRepository(db.DB, bookRepo, nil)
	reviewRepo := reviews.NewRepository(db.DB)

	for _, username := range []string{"alice", "bob", "carol"} {
		if _, err := userRepo.Register(ctx, users.RegisterInput{
			Username: username,
			Password: demoPassword,
			Email:    username + "@example.com",
		}); err != nil {
			log.Error().Err(err).Str("username", username).Msg("failed to create user")
		}
	}

	for _, book := range publicDomainBooks() {
		if _, err := bookRepo.AddBook(ctx, &book); err != nil {
			log.Error().Err(err).Str("title", book.Title).Msg("failed to save book")
			continue
		}
		log.Info().Str("id", book.ID).Str("title", book.Title).Msg("saved book")
	}

	listIDs := make(map[string]uint)
	for _, dl := range demoLists() {
		description := dl.Description
		list, err := listRepo.AddList(ctx, lists.NewList{
			Username:    dl.Owner,
			Title:       dl.Title,
			Description: &description,
		})
		if err != nil {
			log.Error().Err(err).Str("title", dl.Title).Msg("failed to create list")
			continue
		}
		listIDs[dl.Title] = list.ID

		for _, bookID := range dl.BookIDs {
			if _, err := listRepo.AddBook(ctx, list.ID, bookID); err != nil {
				log.Error().Err(err).Str("book_id", bookID).Str("list", dl.Title).Msg("failed to add book")
			}
		}
		log.Info().Str("owner", dl.Owner).Str("title", dl.Title).Int("books", len(dl.BookIDs)).Msg("created list")
	}

	for _, dr := range demoReviews() {
		listID, ok := listIDs[dr.ListTitle]
		if !ok {
			continue
		}
		title, body := dr.Title, dr.Body
		if _, err := reviewRepo.AddReview(ctx, listID, dr.Author, reviews.NewReview{
			Rating: dr.Rating,
			Title:  &title,
			Body:   &body,
		}); err != nil {
			log.Error().Err(err).Str("author", dr.Author).Str("list", dr.ListTitle).Msg("failed to add review")
		}
	}

	log.Info().Msg("demo database generated successfully")
}

func publicDomainBooks() []entities.Book {
	return []entities.Book{
		{
			ID:          "demo-meditations",
			Title:       "Meditations",
			Authors:     []string{"Marcus Aurelius"},
			Description: "Private notes of a Roman emperor on Stoic philosophy.",
			Link:        "https://www.gutenberg.org/ebooks/2680",
		},
		{
			ID:          "demo-walden",
			Title:       "Walden",
			Authors:     []string{"Henry David Thoreau"},
			Description: "Reflections on simple living in natural surroundings.",
			Link:        "https://www.gutenberg.org/ebooks/205",
		},
		{
			ID:          "demo-pride-and-prejudice",
			Title:       "Pride and Prejudice",
			Authors:     []string{"Jane Austen"},
			Description: "A novel of manners following Elizabeth Bennet.",
			Link:        "https://www.gutenberg.org/ebooks/1342",
		},
		{
			ID:          "demo-frankenstein",
			Title:       "Frankenstein",
			Authors:     []string{"Mary Wollstonecraft Shelley"},
			Description: "A young scientist creates a sapient creature.",
			Link:        "https://www.gutenberg.org/ebooks/84",
		},
		{
			ID:          "demo-origin-of-species",
			Title:       "On the Origin of Species",
			Authors:     []string{"Charles Darwin"},
			Description: "The foundation of evolutionary biology.",
			Link:        "https://www.gutenberg.org/ebooks/1228",
		},
		{
			ID:          "demo-art-of-war",
			Title:       "The Art of War",
			Authors:     []string{"Sun Tzu", "Lionel Giles"},
			Description: "An ancient Chinese military treatise.",
			Link:        "https://www.gutenberg.org/ebooks/132",
		},
	}
}

func demoLists() []demoList {
	return []demoList{
		{
			Owner:       "alice",
			Title:       "Philosophy starter pack",
			Description: "Short classics to read before anything else.",
			BookIDs:     []string{"demo-meditations", "demo-walden", "demo-art-of-war"},
		},
		{
			Owner:       "bob",
			Title:       "Nineteenth century fiction",
			Description: "Novels that still hold up.",
			BookIDs:     []string{"demo-pride-and-prejudice", "demo-frankenstein"},
		},
		{
			Owner:       "carol",
			Title:       "Science that changed everything",
			Description: "",
			BookIDs:     []string{"demo-origin-of-species"},
		},
	}
}

func demoReviews() []demoReview {
	return []demoReview{
		{
			ListTitle: "Philosophy starter pack",
			Author:    "bob",
			Rating:    5,
			Title:     "Great picks",
			Body:      "Meditations alone is worth it.",
		},
		{
			ListTitle: "Philosophy starter pack",
			Author:    "carol",
			Rating:    4,
			Title:     "Solid",
			Body:      "Would add Seneca.",
		},
		{
			ListTitle: "Nineteenth century fiction",
			Author:    "alice",
			Rating:    3,
			Title:     "A bit short",
			Body:      "Two books is a start, not a list.",
		},
	}
}
