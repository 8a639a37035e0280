//go:build integration

package data

import (
	"context"
	"errors"
	"testing"

	"go-store-builder/internal/apperr"
)

func TestPageRepository_CreatePagesAssignsOrders(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLPageRepository(db)
	storeID := seedStore(t, db, "acme")
	seedPage(t, db, storeID, "existing")

	five := 5
	ids, err := repo.CreatePages(ctx, storeID, []NewPage{
		{Title: "About", Slug: "about", PageType: PageTypeAbout},
		{Title: "Sale", Slug: "sale", PageType: PageTypeCollection, PageOrder: &five, IsPublished: true},
		{Title: "Contact", Slug: "contact", PageType: PageTypeContact},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}

	want := map[string]int{"existing": 1, "about": 2, "sale": 5, "contact": 6}
	pages, err := repo.ListByStore(ctx, storeID, PageFilter{})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range pages {
		if want[p.Slug] != p.PageOrder {
			t.Errorf("%s: expected page order %d, got %d", p.Slug, want[p.Slug], p.PageOrder)
		}
	}
}

func TestPageRepository_CreatePagesIsAtomic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLPageRepository(db)
	storeID := seedStore(t, db, "acme")
	seedPage(t, db, storeID, "home")

	_, err := repo.CreatePages(ctx, storeID, []NewPage{
		{Title: "New", Slug: "new", PageType: PageTypeCustom},
		{Title: "Home again", Slug: "home", PageType: PageTypeHome},
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate slug, got %v", err)
	}

	pages, err := repo.ListByStore(ctx, storeID, PageFilter{Slug: "new"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 0 {
		t.Errorf("expected the first page to be rolled back")
	}
}

func TestPageRepository_CreatePagesUnknownStore(t *testing.T) {
	db := newTestDB(t)
	_, err := NewSQLPageRepository(db).CreatePages(context.Background(), 42, []NewPage{{Title: "x", Slug: "x"}})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPageRepository_ListFiltersAndPublishedLookup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLPageRepository(db)
	storeID := seedStore(t, db, "acme")

	_, err := repo.CreatePages(ctx, storeID, []NewPage{
		{Title: "Home", Slug: "home", PageType: PageTypeHome, IsPublished: true},
		{Title: "Draft", Slug: "draft", PageType: PageTypeCustom},
		{Title: "Terms", Slug: "terms", PageType: PageTypePolicy, IsPublished: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name   string
		filter PageFilter
		want   int
	}{
		{"all", PageFilter{}, 3},
		{"by slug", PageFilter{Slug: "draft"}, 1},
		{"by type", PageFilter{PageType: PageTypePolicy}, 1},
		{"published", PageFilter{PublishedOnly: true}, 2},
		{"no match", PageFilter{Slug: "missing"}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pages, err := repo.ListByStore(ctx, storeID, tc.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(pages) != tc.want {
				t.Errorf("expected %d pages, got %d", tc.want, len(pages))
			}
		})
	}

	if _, err := repo.GetPublishedBySlug(ctx, storeID, "home"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := repo.GetPublishedBySlug(ctx, storeID, "draft"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected drafts to be hidden, got %v", err)
	}
}

func TestPageRepository_DeletePage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLPageRepository(db)
	pageID := seedPage(t, db, seedStore(t, db, "acme"), "home")

	if err := repo.DeletePage(ctx, pageID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetPageByID(ctx, pageID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeletePage(ctx, pageID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
