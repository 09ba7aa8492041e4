package index

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/calder/folio/internal/content"
	"github.com/calder/folio/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "folio-index-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertAndSearch(t *testing.T) {
	db := testDB(t)

	err := db.UpsertEntry(EntryRow{
		Ref:       "projects/1",
		Kind:      "projects",
		Title:     "Loan Report Dashboard",
		Body:      "MySQL, Power BI\nVisualized approval trends",
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}

	results, err := db.Search("approval", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Ref != "projects/1" {
		t.Fatalf("results = %+v, want one hit on projects/1", results)
	}
	if results[0].Kind != "projects" || results[0].Title != "Loan Report Dashboard" {
		t.Errorf("hit = %+v", results[0])
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	db := testDB(t)

	row := EntryRow{Ref: "skills/1", Kind: "skills", Title: "SQL", Body: "SQL (level 85)", UpdatedAt: time.Now()}
	if err := db.UpsertEntry(row); err != nil {
		t.Fatal(err)
	}
	row.Body = "SQL (level 90)"
	if err := db.UpsertEntry(row); err != nil {
		t.Fatal(err)
	}

	refs, err := db.AllRefs()
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 {
		t.Errorf("refs = %v, want a single entry", refs)
	}
	results, err := db.Search("level 90", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("stale body still indexed: %+v", results)
	}
}

func TestDeleteEntryAndKind(t *testing.T) {
	db := testDB(t)

	for _, ref := range []string{"skills/1", "skills/2", "projects/1"} {
		kind := "skills"
		if ref == "projects/1" {
			kind = "projects"
		}
		if err := db.UpsertEntry(EntryRow{Ref: ref, Kind: kind, Title: ref, UpdatedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}

	if err := db.DeleteEntry("skills/1"); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if err := db.DeleteKind("projects"); err != nil {
		t.Fatalf("DeleteKind: %v", err)
	}

	refs, err := db.AllRefs()
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 {
		t.Fatalf("refs = %v, want only skills/2", refs)
	}
	if _, ok := refs["skills/2"]; !ok {
		t.Errorf("skills/2 missing from %v", refs)
	}
}

func TestSearchLimitAndNoMatch(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 5; i++ {
		row := EntryRow{
			Ref:       "skills/" + string(rune('1'+i)),
			Kind:      "skills",
			Title:     "Python",
			Body:      "Python (level 90)",
			UpdatedAt: time.Now(),
		}
		if err := db.UpsertEntry(row); err != nil {
			t.Fatal(err)
		}
	}

	results, err := db.Search("Python", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("limited search returned %d results", len(results))
	}

	results, err = db.Search("kubernetes", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("unexpected hits: %+v", results)
	}
}

func TestSyncMirrorsStore(t *testing.T) {
	db := testDB(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store := content.New()
	sk := store.AddSkill(models.Skill{Name: "Terraform", Level: 60})

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	results, err := db.Search("Terraform", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("Terraform not indexed: %+v", results)
	}

	// Deleting from the store must drop the entry on the next sync.
	store.DeleteSkill(sk.ID)
	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	results, err = db.Search("Terraform", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("stale entry survived sync: %+v", results)
	}
}

func TestRowsCoverEveryKind(t *testing.T) {
	store := content.New() // defaults populate every collection
	rows := Rows(store)

	kinds := make(map[string]bool)
	for _, r := range rows {
		kinds[r.Kind] = true
	}
	for _, want := range []string{"profile", "skills", "experiences", "educations", "projects", "certifications"} {
		if !kinds[want] {
			t.Errorf("no rows for kind %q", want)
		}
	}
}
