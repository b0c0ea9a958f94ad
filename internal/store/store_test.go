package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gallerycat/gallerycat/pkg/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return s
}

func TestFileStore_PutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	entries := []models.CatalogEntry{
		{ID: 1, Name: "image_1.jpg", URL: "https://cdn.example.com/a.jpg", Thumb: "https://cdn.example.com/a_t.jpg"},
		{ID: 2, Name: "image_2.png", URL: "https://cdn.example.com/b.png", Thumb: "https://cdn.example.com/b.png"},
	}

	if err := s.Put("cosplay 2024", 2, entries); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := s.Get("cosplay 2024", 2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0] != entries[0] || got[1] != entries[1] {
		t.Errorf("entries not preserved: %+v", got)
	}
}

func TestFileStore_GetMiss(t *testing.T) {
	s := newTestStore(t)

	_, found, err := s.Get("nothing", 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("expected a miss for an unknown key")
	}
}

func TestFileStore_EmptyRecordIsValid(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put("ghost", 1, nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := s.Get("ghost", 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("an empty record is a valid recorded outcome, expected found")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 entries, got %d", len(got))
	}
}

func TestFileStore_PutReplacesWholesale(t *testing.T) {
	s := newTestStore(t)

	first := []models.CatalogEntry{
		{ID: 1, Name: "image_1.jpg", URL: "https://cdn.example.com/old.jpg", Thumb: "https://cdn.example.com/old.jpg"},
	}
	second := []models.CatalogEntry{
		{ID: 1, Name: "image_1.jpg", URL: "https://cdn.example.com/new1.jpg", Thumb: "https://cdn.example.com/new1.jpg"},
		{ID: 2, Name: "image_2.jpg", URL: "https://cdn.example.com/new2.jpg", Thumb: "https://cdn.example.com/new2.jpg"},
	}

	if err := s.Put("term", 1, first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put("term", 1, second); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, _, err := s.Get("term", 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got) != 2 || got[0].URL != "https://cdn.example.com/new1.jpg" {
		t.Errorf("record was not replaced wholesale: %+v", got)
	}

	// No leftover temp file from the atomic write.
	matches, _ := filepath.Glob(filepath.Join(s.Root(), "*", "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestFileStore_HierarchicalLayout(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put("Summer Festival", 3, nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	path := filepath.Join(s.Root(), "summer-festival", "3.json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected record at %s: %v", path, err)
	}
}

func TestFileStore_DeleteAndClear(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put("a", 1, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("b", 1, nil); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := s.Get("a", 1); found {
		t.Error("expected term a to be gone after Delete")
	}
	if _, found, _ := s.Get("b", 1); !found {
		t.Error("Delete must not touch other terms")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found, _ := s.Get("b", 1); found {
		t.Error("expected all records gone after Clear")
	}
}

func TestFileStore_CorruptRecordIsMiss(t *testing.T) {
	s := newTestStore(t)

	dir := filepath.Join(s.Root(), "bad")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "1.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, found, err := s.Get("bad", 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("corrupt record should read as a miss")
	}
}

func TestSanitizeTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cosplay", "cosplay"},
		{"summer festival", "summer-festival"},
		{"  weird/../term  ", "weirdterm"},
		{"", "_"},
	}
	for _, tt := range tests {
		if got := SanitizeTerm(tt.in); got != tt.want {
			t.Errorf("SanitizeTerm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileStore_List(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put("b", 2, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("a", 1, []models.CatalogEntry{{ID: 1, Name: "image_1.jpg", URL: "https://x/a.jpg", Thumb: "https://x/a.jpg"}}); err != nil {
		t.Fatal(err)
	}

	infos, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 records, got %d", len(infos))
	}
	if infos[0].Term != "a" || infos[0].Entries != 1 {
		t.Errorf("unexpected first record: %+v", infos[0])
	}
	if infos[1].Term != "b" || infos[1].Entries != 0 {
		t.Errorf("unexpected second record: %+v", infos[1])
	}
}
