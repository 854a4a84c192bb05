package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/reviews"
	"github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/notify"
	"github.com/mrlokans/catalog/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)

// ReviewStore implementations
var _ http.ReviewStore = (*reviews.Repository)(nil)

// SessionRunner implementations
var _ http.SessionRunner = (*database.SessionProvider)(nil)

// OrphanReviewCounter implementations
var _ tasks.OrphanReviewCounter = (*reviews.Repository)(nil)

// =============================================================================
// Notifications
// =============================================================================

// Notifier implementations
var _ notify.Notifier = (*notify.LogNotifier)(nil)
var _ notify.Notifier = (*notify.RedisNotifier)(nil)

// Dispatcher implementations
var _ notify.Dispatcher = (*notify.GoroutineDispatcher)(nil)
var _ notify.Dispatcher = (*tasks.NotificationDispatcher)(nil)
