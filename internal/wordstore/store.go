// Package wordstore persists the per-word translation frequency
// records backing the word flash window and the saved-word list.
package wordstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Header is the canonical 5-column layout written on every save.
var Header = []string{"word", "en", "ja", "count", "skip"}

// WordRecord is one row of the word store.
type WordRecord struct {
	Word  string
	En    string
	Ja    string
	Count int
	Skip  bool
}

// Store is the durable word database. All mutating access serializes
// through the store's lock: the word pipeline's increment path and the
// UI skip toggle share the same read-modify-write discipline so
// neither can lose the other's update.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given CSV file. The file does
// not need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted records. A missing file yields an empty
// map, not an error. Legacy column layouts are detected and upgraded
// to the canonical shape in memory.
func (s *Store) Load() (map[string]WordRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save writes all records in the canonical 5-column layout, sorted by
// count descending then word ascending. The ordering is a contract for
// listing consumers, not cosmetic.
func (s *Store) Save(db map[string]WordRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(db)
}

// Update applies fn to the current record for word (zero record with
// Count 0 and Skip false when absent) and persists the whole store.
// The load-modify-save sequence runs under the store lock.
func (s *Store) Update(word string, fn func(WordRecord) WordRecord) (WordRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.loadLocked()
	if err != nil {
		return WordRecord{}, err
	}

	rec, ok := db[word]
	if !ok {
		rec = WordRecord{Word: word}
	}
	rec = fn(rec)
	rec.Word = word
	db[word] = rec

	if err := s.saveLocked(db); err != nil {
		return rec, err
	}
	return rec, nil
}

// Get returns the record for word, if present.
func (s *Store) Get(word string) (WordRecord, bool, error) {
	db, err := s.Load()
	if err != nil {
		return WordRecord{}, false, err
	}
	rec, ok := db[word]
	return rec, ok, nil
}

// ToggleSkip flips the skip flag for an existing word and returns the
// new flag value.
func (s *Store) ToggleSkip(word string) (bool, error) {
	rec, err := s.Update(word, func(r WordRecord) WordRecord {
		r.Skip = !r.Skip
		return r
	})
	if err != nil {
		return false, err
	}
	return rec.Skip, nil
}

// List returns all records in store order (count desc, word asc).
func (s *Store) List() ([]WordRecord, error) {
	db, err := s.Load()
	if err != nil {
		return nil, err
	}
	return sortRecords(db), nil
}

// Labels returns "word (count)" strings in store order, the form the
// saved-word selector displays.
func (s *Store) Labels() ([]string, error) {
	recs, err := s.List()
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(recs))
	for _, r := range recs {
		labels = append(labels, fmt.Sprintf("%s (%d)", r.Word, r.Count))
	}
	return labels, nil
}

// WordFromLabel strips the " (count)" suffix a selector label carries.
// Plain words pass through unchanged.
func WordFromLabel(label string) string {
	label = strings.TrimSpace(label)
	if i := strings.LastIndex(label, " ("); i >= 0 && strings.HasSuffix(label, ")") {
		return strings.TrimSpace(label[:i])
	}
	return label
}

func (s *Store) loadLocked() (map[string]WordRecord, error) {
	db := make(map[string]WordRecord)

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, fmt.Errorf("failed to open word store: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		// A corrupt file degrades to an empty store rather than
		// blocking every word task behind a load error.
		fmt.Fprintf(os.Stderr, "Warning: word store unreadable, starting empty: %v\n", err)
		return db, nil
	}
	if len(rows) == 0 {
		return db, nil
	}

	parse := detectSchema(rows[0])
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rec := parse(row)
		if rec.Word == "" {
			continue
		}
		db[rec.Word] = rec
	}
	return db, nil
}

func (s *Store) saveLocked(db map[string]WordRecord) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create word store directory: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create word store: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("failed to write word store header: %w", err)
	}
	for _, rec := range sortRecords(db) {
		skip := "0"
		if rec.Skip {
			skip = "1"
		}
		row := []string{rec.Word, rec.En, rec.Ja, strconv.Itoa(rec.Count), skip}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write word store row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func sortRecords(db map[string]WordRecord) []WordRecord {
	recs := make([]WordRecord, 0, len(db))
	for _, r := range db {
		recs = append(recs, r)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Count != recs[j].Count {
			return recs[i].Count > recs[j].Count
		}
		return recs[i].Word < recs[j].Word
	})
	return recs
}
