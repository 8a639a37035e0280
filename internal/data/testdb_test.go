//go:build integration

package data

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// newTestDB creates a migrated in-memory SQLite database. The pool is capped
// at one connection so every query sees the same in-memory database.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := ApplyMigrations(db, DriverSQLite); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	return db
}

// seedStore creates an owner and an empty store and returns the store ID.
func seedStore(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()
	ctx := context.Background()

	owner, err := NewSQLUserRepository(db).UpsertBySubject(ctx, "sub-"+name, name+"@example.com", name)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	id, err := NewSQLStoreRepository(db).Create(ctx, &Store{Name: name, DisplayName: name, Currency: "USD", OwnerID: owner.ID}, nil)
	if err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return id
}

// seedPage creates a page without components and returns its ID.
func seedPage(t *testing.T, db *sqlx.DB, storeID int64, slug string) int64 {
	t.Helper()
	ids, err := NewSQLPageRepository(db).CreatePages(context.Background(), storeID, []NewPage{
		{Title: fmt.Sprintf("Page %s", slug), Slug: slug, PageType: PageTypeCustom},
	})
	if err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	return ids[0]
}
