// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, driver selection, migrations
//	├── session.go       # Per-request session provider
//	├── books/           # Book CRUD operations
//	└── reviews/         # Review CRUD operations
//
// # Sessions
//
// One pool is opened at startup. Each request borrows a pinned connection
// and builds its repositories on top of it:
//
//	db, err := database.Open(database.OptionsFromConfig(cfg.Database))
//	sessions := db.Sessions()
//
//	err = sessions.WithSession(ctx, func(tx *gorm.DB) error {
//		book := &entities.Book{Title: "Dune", Author: "Frank Herbert", PublicationYear: 1965}
//		return books.NewRepository(tx).Create(book)
//	})
//
// # Drivers
//
// DATABASE_DRIVER selects sqlite (default, DATABASE_PATH), postgres or
// mysql (DATABASE_DSN). Foreign-key constraints are not created so that
// reviews may outlive the book they reference on every engine.
package database
