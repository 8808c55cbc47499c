// Package archive persists the translation audit trail: the
// append-only archive.csv of reconciled sentence requests, the
// per-request raw response logs, and rotation of old log directories.
package archive

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Header is the archive.csv column layout. Spanish and French are
// reserved columns kept for compatibility with older archives.
var Header = []string{"Time", "Germany", "Japanese", "English", "Spanish", "French"}

// Appender writes rows to an append-only CSV file, emitting the header
// exactly once when the file is first created.
type Appender struct {
	path   string
	header []string
}

// NewAppender creates an appender for path with the given header row.
func NewAppender(path string, header []string) *Appender {
	return &Appender{path: path, header: header}
}

// Append adds one row, creating the file and parent directory on first
// use.
func (a *Appender) Append(row []string) error {
	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	_, statErr := os.Stat(a.path)
	needHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader && len(a.header) > 0 {
		if err := w.Write(a.header); err != nil {
			return fmt.Errorf("failed to write archive header: %w", err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write archive row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Row builds one archive row for a fully reconciled request. The
// Spanish and French columns stay empty while those stages are
// disabled.
func Row(requestID, source, japanese, english string) []string {
	return []string{requestID, source, japanese, english, "", ""}
}
