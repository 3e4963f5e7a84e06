// Package database opens the relational store and migrates the schema.
//
// # Architecture
//
//	database/
//	├── database.go   # Driver selection (SQLite or PostgreSQL), migrations
//	├── users/        # Credential store: registration, login, profiles
//	├── books/        # Book catalog
//	├── lists/        # Reading lists and the list/book association
//	└── reviews/      # One review per (list, user)
//
// # Usage
//
//	db, err := database.NewDatabase(cfg.Database)
//	usersRepo := users.NewRepository(db.DB, cfg.Auth.BcryptCost)
//	booksRepo := books.NewRepository(db.DB)
//	listsRepo := lists.NewRepository(db.DB, booksRepo, importer)
//
// Every repository returns *apperr.Error values for missing rows, duplicates
// and invalid input so the HTTP layer can map them to status codes.
// Multi-step mutations (check, then insert or delete) run inside a single
// transaction; composite primary keys reject duplicates that slip past the
// check, and foreign keys reject references to rows that are gone.
package database
