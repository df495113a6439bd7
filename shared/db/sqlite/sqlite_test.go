package sqlite

import (
	"path/filepath"
	"testing"
)

func TestConnectCreatesSchema(t *testing.T) {
	database := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	if database.DB() == nil {
		t.Fatal("DB() = nil after Connect")
	}

	var count int
	if err := database.DB().QueryRow(`SELECT COUNT(*) FROM comments`).Scan(&count); err != nil {
		t.Fatalf("comments table missing: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh comments table has %d rows", count)
	}
}

func TestConnectTwiceFails(t *testing.T) {
	database := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	if err := database.Connect(); err == nil {
		t.Error("second Connect() should fail")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	database := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := database.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestMigrationsRunOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 2; i++ {
		database := NewSQLiteDB(path)
		if err := database.Connect(); err != nil {
			t.Fatalf("Connect() #%d error = %v", i+1, err)
		}

		var applied int
		err := database.DB().QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied)
		if err != nil {
			t.Fatalf("schema_migrations missing: %v", err)
		}
		if applied != len(migrations) {
			t.Errorf("schema_migrations has %d rows, want %d", applied, len(migrations))
		}

		database.Close()
	}
}
