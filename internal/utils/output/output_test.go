package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gallerycat/gallerycat/pkg/models"
)

func sampleResult() *models.ScrapeResult {
	return &models.ScrapeResult{
		Term:  "summer fest",
		Index: 2,
		Entries: []models.CatalogEntry{
			{ID: 1, Name: "image_1.jpg", URL: "https://cdn.example/a.jpg", Thumb: "https://cdn.example/t/a.jpg"},
			{ID: 2, Name: "image_2.png", URL: "https://cdn.example/b.png", Thumb: "https://cdn.example/b.png"},
		},
		Total:  2,
		Source: models.SourceLive,
	}
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if err := SaveJSON(sampleResult(), path); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}

	var got models.ScrapeResult
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if got.Term != "summer fest" || got.Total != 2 || len(got.Entries) != 2 {
		t.Errorf("unexpected round-tripped result: %+v", got)
	}
	if got.Entries[0].Name != "image_1.jpg" {
		t.Errorf("unexpected first entry: %+v", got.Entries[0])
	}
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	if err := SaveCSV(sampleResult(), path); err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" || rows[0][3] != "thumb" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "image_1.jpg" || rows[2][2] != "https://cdn.example/b.png" {
		t.Errorf("unexpected rows: %v", rows[1:])
	}
}
