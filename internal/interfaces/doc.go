// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - SessionRunner: Scoped storage session per request (internal/http/books.go)
//   - BookStore: Book CRUD (internal/http/books.go)
//   - ReviewStore: Review CRUD (internal/http/reviews.go)
//   - OrphanReviewCounter: Reviews without a book (internal/tasks/report_orphans.go)
//
// ## Notification Interfaces
//
//   - Notifier: Delivers a confirmation text to a recipient (internal/notify/notify.go)
//   - Dispatcher: Hands a confirmation off without blocking (internal/notify/notify.go)
//
// # Adding a New Notification Sink
//
//  1. Implement Notifier in internal/notify/
//
//     type SMTPNotifier struct {
//         addr string
//     }
//
//     func (n *SMTPNotifier) Send(ctx context.Context, recipient, text string) error
//
//  2. Add a NotifySink constant in internal/config/config.go
//
//  3. Select it in App.newNotifier in internal/entrypoint/entrypoint.go
//
//  4. Add a compile-time check to checks.go:
//
//     var _ notify.Notifier = (*notify.SMTPNotifier)(nil)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., authors):
//
//  1. Create sub-package: internal/database/authors/
//
//  2. Define repository on a session:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the store interface next to its controller in internal/http/
//
//  4. Add compile-time check:
//
//     var _ http.AuthorStore = (*authors.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
