package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/VWRoent/transcyplate/internal"
)

// Raw log slots. Sentence stages use their language's own slot.
const (
	SlotInput    = 1
	SlotQuestion = 6
	SlotAnswer   = 7
)

// RawLog writes the verbatim client responses for audit, one
// write-once text file per stage attempt, grouped into daily
// directories and keyed by the request's timestamp prefix.
type RawLog struct {
	dir string
}

// NewRawLog creates a raw log rooted at dir (typically <logdir>).
func NewRawLog(dir string) *RawLog {
	return &RawLog{dir: dir}
}

// Write stores one artifact as <dir>/<day>/<prefix>_00N_<name>.log.
func (r *RawLog) Write(ts internal.Timestamps, slot int, name, text string) error {
	day := filepath.Join(r.dir, ts.Day)
	if err := os.MkdirAll(day, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(day, fmt.Sprintf("%s_%03d_%s.log", ts.FilePrefix, slot, internal.SanitizeFilename(name)))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write raw log: %w", err)
	}
	return nil
}
