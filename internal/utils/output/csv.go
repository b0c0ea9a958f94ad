package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/gallerycat/gallerycat/pkg/models"
)

// SaveCSV writes the catalog entries of a result to a CSV file, one row
// per entry.
func SaveCSV(result *models.ScrapeResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "name", "url", "thumb"}); err != nil {
		return err
	}
	for _, entry := range result.Entries {
		row := []string{strconv.Itoa(entry.ID), entry.Name, entry.URL, entry.Thumb}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
