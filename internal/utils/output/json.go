// Package output exports scrape results to local files.
package output

import (
	"encoding/json"
	"os"

	"github.com/gallerycat/gallerycat/pkg/models"
)

// SaveJSON writes an indented JSON export of the result to path.
func SaveJSON(result *models.ScrapeResult, path string) error {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}
