package extract

import (
	"reflect"
	"testing"

	"github.com/gallerycat/gallerycat/pkg/models"
)

func TestDedupe_CollapsesQueryVariants(t *testing.T) {
	records := []models.AssetRecord{
		{URL: "https://cdn.example.com/a.jpg?v=1", Thumb: "https://cdn.example.com/a_t.jpg"},
		{URL: "https://cdn.example.com/a.jpg?v=2", Thumb: "https://cdn.example.com/a_t.jpg#x"},
		{URL: "https://cdn.example.com/b.jpg", Thumb: "https://cdn.example.com/b.jpg"},
	}

	got := Dedupe(records)

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	// First occurrence survives.
	if got[0].URL != "https://cdn.example.com/a.jpg?v=1" {
		t.Errorf("expected first occurrence to survive, got %s", got[0].URL)
	}
}

func TestDedupe_PreservesOrder(t *testing.T) {
	records := []models.AssetRecord{
		{URL: "https://x/3.jpg", Thumb: "https://x/3.jpg"},
		{URL: "https://x/1.jpg", Thumb: "https://x/1.jpg"},
		{URL: "https://x/2.jpg", Thumb: "https://x/2.jpg"},
		{URL: "https://x/1.jpg", Thumb: "https://x/1.jpg"},
	}

	got := Dedupe(records)

	want := []string{"https://x/3.jpg", "https://x/1.jpg", "https://x/2.jpg"}
	for i, u := range want {
		if got[i].URL != u {
			t.Errorf("got[%d].URL = %s, want %s", i, got[i].URL, u)
		}
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	records := []models.AssetRecord{
		{URL: "https://x/a.jpg?q=1", Thumb: "https://x/a.jpg"},
		{URL: "https://x/a.jpg?q=2", Thumb: "https://x/a.jpg"},
		{URL: "https://x/b.jpg", Thumb: "https://x/b.jpg"},
	}

	once := Dedupe(records)
	twice := Dedupe(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("dedupe is not idempotent: %v vs %v", once, twice)
	}
	if len(once) > len(records) {
		t.Error("dedupe must never grow the list")
	}
}

func TestDedupe_DistinctThumbsAreDistinctRecords(t *testing.T) {
	records := []models.AssetRecord{
		{URL: "https://x/a.jpg", Thumb: "https://x/t1.jpg"},
		{URL: "https://x/a.jpg", Thumb: "https://x/t2.jpg"},
	}

	got := Dedupe(records)
	if len(got) != 2 {
		t.Errorf("records differing in thumb must both survive, got %d", len(got))
	}
}

func TestNormalizedKey(t *testing.T) {
	rec := models.AssetRecord{
		URL:   "https://x/a.jpg?cache=9#frag",
		Thumb: "https://x/t.jpg?w=100",
	}
	if got := NormalizedKey(rec); got != "https://x/a.jpg|https://x/t.jpg" {
		t.Errorf("unexpected key: %s", got)
	}
}
