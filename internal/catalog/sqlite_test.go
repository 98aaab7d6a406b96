package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestCatalog(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seed(t *testing.T, db *SQLite, listings ...Listing) {
	t.Helper()
	for _, l := range listings {
		if l.CreatedAt.IsZero() {
			l.CreatedAt = time.Now().UTC()
		}
		if err := db.InsertListing(context.Background(), l); err != nil {
			t.Fatalf("insert %s: %v", l.ID, err)
		}
	}
}

func TestSearchActiveByKeyword(t *testing.T) {
	db := openTestCatalog(t)
	seed(t, db,
		Listing{ID: "1", Title: "iPhone 13 128GB", Price: 11000, Category: "electronics"},
		Listing{ID: "2", Title: "Samsung Galaxy S21", Price: 9000, Category: "electronics"},
		Listing{ID: "3", Title: "Wooden bookshelf", Price: 2500, Category: "furniture"},
	)

	items, err := db.SearchActive(context.Background(), Query{
		Category: "electronics",
		Keywords: []string{"iphone"},
	}, 10)
	if err != nil {
		t.Fatalf("SearchActive: %v", err)
	}
	if len(items) != 1 || items[0].ID != "1" {
		t.Errorf("items = %+v, want only the iPhone listing", items)
	}
}

func TestSearchActiveKeywordsAreORed(t *testing.T) {
	db := openTestCatalog(t)
	seed(t, db,
		Listing{ID: "1", Title: "iPhone 13", Price: 11000, Category: "electronics"},
		Listing{ID: "2", Title: "Galaxy S21", Price: 9000, Category: "electronics"},
		Listing{ID: "3", Title: "Pixel 8", Price: 8000, Category: "electronics"},
	)

	items, err := db.SearchActive(context.Background(), Query{
		Category: "electronics",
		Keywords: []string{"iphone", "galaxy"},
	}, 10)
	if err != nil {
		t.Fatalf("SearchActive: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items = %+v, want both keyword matches", items)
	}
}

func TestSearchActiveCategoryOnly(t *testing.T) {
	db := openTestCatalog(t)
	seed(t, db,
		Listing{ID: "1", Title: "Corner sofa", Price: 7000, Category: "furniture"},
		Listing{ID: "2", Title: "Office desk", Price: 3000, Category: "furniture"},
		Listing{ID: "3", Title: "iPhone 13", Price: 11000, Category: "electronics"},
	)

	items, err := db.SearchActive(context.Background(), Query{Category: "furniture"}, 10)
	if err != nil {
		t.Fatalf("SearchActive: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items = %+v, want every furniture listing", items)
	}
}

func TestSearchActiveExcludesInactive(t *testing.T) {
	db := openTestCatalog(t)
	seed(t, db,
		Listing{ID: "1", Title: "iPhone 13", Price: 11000, Category: "electronics", Status: "sold"},
		Listing{ID: "2", Title: "iPhone 12", Price: 8000, Category: "electronics"},
	)

	items, err := db.SearchActive(context.Background(), Query{
		Category: "electronics",
		Keywords: []string{"iphone"},
	}, 10)
	if err != nil {
		t.Fatalf("SearchActive: %v", err)
	}
	if len(items) != 1 || items[0].ID != "2" {
		t.Errorf("items = %+v, want only the active listing", items)
	}
}

func TestSearchActiveZeroResults(t *testing.T) {
	db := openTestCatalog(t)
	items, err := db.SearchActive(context.Background(), Query{
		Category: "vehicles",
		Keywords: []string{"vespa"},
	}, 10)
	if err != nil {
		t.Fatalf("SearchActive on empty catalog: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %+v, want none", items)
	}
}

func TestSearchActiveRespectsLimit(t *testing.T) {
	db := openTestCatalog(t)
	for i := 0; i < 15; i++ {
		seed(t, db, Listing{
			ID:       string(rune('a' + i)),
			Title:    "Mountain bike",
			Price:    2000 + i,
			Category: "sports",
		})
	}

	items, err := db.SearchActive(context.Background(), Query{Category: "sports"}, 10)
	if err != nil {
		t.Fatalf("SearchActive: %v", err)
	}
	if len(items) != 10 {
		t.Errorf("items = %d, want limit 10", len(items))
	}
}

func TestSearchActiveCaseInsensitiveKeyword(t *testing.T) {
	db := openTestCatalog(t)
	seed(t, db, Listing{ID: "1", Title: "IPHONE 13 Pro Max", Price: 14000, Category: "electronics"})

	items, err := db.SearchActive(context.Background(), Query{
		Category: "electronics",
		Keywords: []string{"iphone"},
	}, 10)
	if err != nil {
		t.Fatalf("SearchActive: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("items = %+v, want case-insensitive title match", items)
	}
}
