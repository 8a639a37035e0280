//go:build integration

package data

import (
	"context"
	"errors"
	"testing"

	"go-store-builder/internal/apperr"
)

// setupCategoryTest returns a CategoryRepository over a fresh database and
// the IDs of two stores.
func setupCategoryTest(t *testing.T) (*CategoryRepository, int64, int64) {
	t.Helper()
	db := newTestDB(t)
	return NewCategoryRepository(db), seedStore(t, db, "alpha"), seedStore(t, db, "beta")
}

func TestCategoryRepository_Save(t *testing.T) {
	repo, storeID, _ := setupCategoryTest(t)

	category := &Category{StoreID: storeID, Name: "Shoes"}
	id, err := repo.Save(context.Background(), category)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if id == 0 || category.ID != id {
		t.Errorf("expected non-zero id set on category, got %d / %d", id, category.ID)
	}
}

func TestCategoryRepository_DuplicateNameIsConflictPerStore(t *testing.T) {
	repo, alpha, beta := setupCategoryTest(t)
	ctx := context.Background()

	if _, err := repo.Save(ctx, &Category{StoreID: alpha, Name: "Shoes"}); err != nil {
		t.Fatal(err)
	}

	_, err := repo.Save(ctx, &Category{StoreID: alpha, Name: "Shoes"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected ErrConflict in the same store, got %v", err)
	}

	if _, err := repo.Save(ctx, &Category{StoreID: beta, Name: "Shoes"}); err != nil {
		t.Errorf("same name in another store should succeed, got %v", err)
	}
}

func TestCategoryRepository_Rename(t *testing.T) {
	repo, storeID, _ := setupCategoryTest(t)
	ctx := context.Background()

	shoes, err := repo.Save(ctx, &Category{StoreID: storeID, Name: "Shoes"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Save(ctx, &Category{StoreID: storeID, Name: "Hats"}); err != nil {
		t.Fatal(err)
	}

	if err := repo.Rename(ctx, shoes, "Hats"); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if err := repo.Rename(ctx, shoes, "Boots"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found, err := repo.GetByID(ctx, shoes)
	if err != nil {
		t.Fatal(err)
	}
	if found.Name != "Boots" {
		t.Errorf("expected name 'Boots', got '%s'", found.Name)
	}
	if err := repo.Rename(ctx, 999, "Nothing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryRepository_GetByID(t *testing.T) {
	repo, storeID, _ := setupCategoryTest(t)
	ctx := context.Background()

	id, err := repo.Save(ctx, &Category{StoreID: storeID, Name: "Movies"})
	if err != nil {
		t.Fatal(err)
	}

	found, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if found == nil || found.Name != "Movies" || found.StoreID != storeID {
		t.Fatalf("unexpected category: %+v", found)
	}

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryRepository_ListByStore(t *testing.T) {
	repo, alpha, beta := setupCategoryTest(t)
	ctx := context.Background()

	for _, name := range []string{"Music", "Books"} {
		if _, err := repo.Save(ctx, &Category{StoreID: alpha, Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := repo.Save(ctx, &Category{StoreID: beta, Name: "Games"}); err != nil {
		t.Fatal(err)
	}

	categories, err := repo.ListByStore(ctx, alpha)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "Books" {
		t.Errorf("expected categories sorted by name, got %s first", categories[0].Name)
	}
}

func TestCategoryRepository_SearchByName(t *testing.T) {
	repo, storeID, _ := setupCategoryTest(t)
	ctx := context.Background()

	for _, name := range []string{"History", "Historical Fiction", "Art History"} {
		if _, err := repo.Save(ctx, &Category{StoreID: storeID, Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	results, err := repo.SearchByName(ctx, storeID, "History")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	// "History" and "Art History" should match. "Historical Fiction" should not.
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestCategoryRepository_DeleteUncategorisesProducts(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	products := NewSQLProductRepository(db)
	ctx := context.Background()
	storeID := seedStore(t, db, "alpha")

	catID, err := repo.Save(ctx, &Category{StoreID: storeID, Name: "Shoes"})
	if err != nil {
		t.Fatal(err)
	}
	p := &Product{StoreID: storeID, CategoryID: &catID, Name: "Runner", Slug: "runner", PriceCents: 5000, Active: true}
	if err := products.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(ctx, catID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := products.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CategoryID != nil {
		t.Errorf("expected product to lose its category, got %d", *got.CategoryID)
	}
}
