package db

import (
	"database/sql"
)

// Database abstracts the backing store's lifecycle so the server can open
// and close it without knowing the driver.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
