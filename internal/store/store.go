// Package store persists scraped gallery catalogs as durable records keyed
// by (term, index).
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gallerycat/gallerycat/pkg/models"
	"github.com/rs/zerolog/log"
)

// Store defines the cache boundary consumed by the orchestrator.
//
// Records are replaced wholesale, never mutated in place. An empty entry
// list is a valid stored outcome and means "previously attempted, no
// results found".
type Store interface {
	// Get retrieves the record for (term, index). The boolean reports
	// whether a record exists; a nil error with found=false is a miss.
	Get(term string, index int) ([]models.CatalogEntry, bool, error)

	// Put stores entries under (term, index), overwriting any prior record.
	Put(term string, index int, entries []models.CatalogEntry) error

	// Delete removes all records for a term. Missing terms are not an error.
	Delete(term string) error

	// Clear removes every record.
	Clear() error
}

// Ensure FileStore implements Store at compile time.
var _ Store = (*FileStore)(nil)

// FileStore keeps one directory per term and one JSON record per ordinal
// index under a root directory. Writes go to a temp file in the same
// directory and are renamed into place, so readers never observe a partial
// record.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &FileStore{root: dir}, nil
}

// Root returns the storage root directory.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) recordPath(term string, index int) string {
	return filepath.Join(s.root, SanitizeTerm(term), strconv.Itoa(index)+".json")
}

// Get reads the record for (term, index).
func (s *FileStore) Get(term string, index int) ([]models.CatalogEntry, bool, error) {
	raw, err := os.ReadFile(s.recordPath(term, index))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache record: %w", err)
	}

	var rec models.CacheRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		// A corrupt record is treated as a miss so the orchestrator can
		// overwrite it with a fresh scrape.
		log.Warn().Str("term", term).Int("index", index).Err(err).Msg("Corrupt cache record, treating as miss")
		return nil, false, nil
	}

	if rec.Entries == nil {
		rec.Entries = []models.CatalogEntry{}
	}

	log.Debug().Str("term", term).Int("index", index).Int("entries", len(rec.Entries)).Msg("Cache hit")
	return rec.Entries, true, nil
}

// Put writes the record for (term, index) atomically.
func (s *FileStore) Put(term string, index int, entries []models.CatalogEntry) error {
	if entries == nil {
		entries = []models.CatalogEntry{}
	}

	rec := models.CacheRecord{
		Term:      term,
		Index:     index,
		ScrapedAt: time.Now().UTC(),
		Entries:   entries,
	}

	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache record: %w", err)
	}

	dir := filepath.Join(s.root, SanitizeTerm(term))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create term directory: %w", err)
	}

	final := s.recordPath(term, index)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write cache record: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit cache record: %w", err)
	}

	log.Debug().Str("term", term).Int("index", index).Int("entries", len(entries)).Msg("Cached catalog")
	return nil
}

// Delete removes all records for a term.
func (s *FileStore) Delete(term string) error {
	return os.RemoveAll(filepath.Join(s.root, SanitizeTerm(term)))
}

// Clear removes every record but keeps the root directory.
func (s *FileStore) Clear() error {
	dirs, err := os.ReadDir(s.root)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := os.RemoveAll(filepath.Join(s.root, d.Name())); err != nil {
			return err
		}
	}
	return nil
}

// RecordInfo describes one stored record, for cache maintenance commands.
type RecordInfo struct {
	Term    string
	Index   int
	Entries int
}

// List enumerates all stored records in term, then index order.
func (s *FileStore) List() ([]RecordInfo, error) {
	dirs, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	var infos []RecordInfo
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(s.root, d.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(s.root, d.Name(), f.Name()))
			if err != nil {
				continue
			}
			var rec models.CacheRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				continue
			}
			infos = append(infos, RecordInfo{Term: rec.Term, Index: rec.Index, Entries: len(rec.Entries)})
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Term != infos[j].Term {
			return infos[i].Term < infos[j].Term
		}
		return infos[i].Index < infos[j].Index
	})
	return infos, nil
}

var termSanitizer = regexp.MustCompile(`[^a-z0-9_-]+`)

// SanitizeTerm maps a free-text search term to a filesystem-safe directory
// name. Distinct terms may collide after sanitization; the record body keeps
// the original term.
func SanitizeTerm(term string) string {
	t := strings.ToLower(strings.TrimSpace(term))
	t = strings.ReplaceAll(t, " ", "-")
	t = termSanitizer.ReplaceAllString(t, "")
	if t == "" {
		t = "_"
	}
	return t
}
