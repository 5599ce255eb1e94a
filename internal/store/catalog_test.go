package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"postforge/internal/models"
)

const testDefinition = `{
	"id": "test-def",
	"name": "test-def",
	"outputFormat": "still",
	"width": 1080, "height": 1080, "imageCount": 1,
	"frames": [{"background": {"type": "solid", "color": "#112233"}, "layers": []}]
}`

func TestCatalogCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewCatalogStore(db)
	t.Cleanup(func() { cleanCatalog(t, db, "store-test-entry", "store-test-renamed") })

	entry := &models.CatalogEntry{
		Name:         "store-test-entry",
		OutputKind:   "still",
		Definition:   json.RawMessage(testDefinition),
		ImageCount:   1,
		Weight:       3,
		CategoryKeys: []string{"promo"},
		IsActive:     true,
	}
	if err := s.Create(ctx, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if entry.ID == uuid.Nil {
		t.Fatal("Create must populate the generated id")
	}

	found, err := s.FindByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("created entry not found")
	}
	if found.Weight != 3 || len(found.CategoryKeys) != 1 || found.CategoryKeys[0] != "promo" {
		t.Errorf("roundtrip mismatch: %+v", found)
	}
	if len(found.Definition) == 0 {
		t.Error("definition payload lost in roundtrip")
	}

	found.Name = "store-test-renamed"
	found.Weight = 7
	found.IsActive = false
	if err := s.Update(ctx, found); err != nil {
		t.Fatalf("Update: %v", err)
	}

	active, err := s.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	for _, e := range active {
		if e.ID == entry.ID {
			t.Error("deactivated entry still listed as active")
		}
	}

	if err := s.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := s.FindByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if gone != nil {
		t.Error("deleted entry still present")
	}
}

func TestCatalogFindMissing(t *testing.T) {
	db := testDB(t)
	s := NewCatalogStore(db)

	found, err := s.FindByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestCatalogBuiltinAlias(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewCatalogStore(db)
	t.Cleanup(func() { cleanCatalog(t, db, "store-test-alias") })

	entry := &models.CatalogEntry{
		Name:        "store-test-alias",
		OutputKind:  "still",
		BuiltinName: "single-spotlight",
		Weight:      1,
		IsActive:    true,
	}
	if err := s.Create(ctx, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := s.FindByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.BuiltinName != "single-spotlight" {
		t.Errorf("builtin ref = %q, want single-spotlight", found.BuiltinName)
	}
	if len(found.Definition) != 0 {
		t.Error("alias entry must have no inline definition")
	}
}
