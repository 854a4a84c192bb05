package config

// Supported values for DATABASE_DRIVER
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const (
	// DefaultDatabasePath is the default path for the catalog SQLite database
	DefaultDatabasePath = "./catalog.db"

	// DefaultNotifyRecipient receives review confirmations unless NOTIFY_RECIPIENT is set
	DefaultNotifyRecipient = "reviews@example.com"
)
