package http

import (
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/notify"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Sessions SessionRunner

	// Review confirmations
	Dispatcher      notify.Dispatcher
	NotifyRecipient string

	// Reject reviews that reference a missing book
	RequireBook bool

	// Application info
	Version string
}
