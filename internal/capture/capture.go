// Package capture implements the auxiliary side effect fired on a
// word's first occurrence: a snapshot of the word flash content,
// stored under the log tree. The GUI front-end replaces this with a
// real window screenshot; failures are always best-effort.
package capture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/VWRoent/transcyplate/internal"
	"github.com/VWRoent/transcyplate/internal/wordstore"
)

// FlashSnapshot writes one text snapshot per captured word to
// <dir>/flash/<day>/<word>.txt.
type FlashSnapshot struct {
	dir   string
	store *wordstore.Store
}

// NewFlashSnapshot creates a capturer rooted at the log directory.
func NewFlashSnapshot(dir string, store *wordstore.Store) *FlashSnapshot {
	return &FlashSnapshot{dir: dir, store: store}
}

// Capture implements pipeline.Capturer.
func (c *FlashSnapshot) Capture(word string) error {
	rec, ok, err := c.store.Get(word)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no record for %q", word)
	}

	day := internal.NewTimestamps(internal.Now()).Day
	outDir := filepath.Join(c.dir, "flash", day)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create flash directory: %w", err)
	}

	name := internal.SanitizeFilename(word)
	if len(name) > 120 {
		name = name[:120]
	}
	content := fmt.Sprintf("%s\nen: %s\nja: %s\ncount: %d\n", rec.Word, rec.En, rec.Ja, rec.Count)
	path := filepath.Join(outDir, name+".txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write flash snapshot: %w", err)
	}
	return nil
}
