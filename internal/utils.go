package internal

import (
	"strings"
	"time"
)

// jst is the timezone used for all log and archive timestamps. Falls
// back to the local zone when tzdata for Asia/Tokyo is unavailable.
var jst = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.Local
	}
	return loc
}()

// Now returns the current time in the log timezone (JST).
func Now() time.Time {
	return time.Now().In(jst)
}

// Timestamps holds the derived identifiers for one submission:
// RequestID keys the pending record and the archive row, FilePrefix
// names the per-request raw log files, Clock is the on-screen time.
type Timestamps struct {
	RequestID  string // YYYYMMDDHHMMSS
	FilePrefix string // YYMMDDHHMMSS
	Clock      string // HH:MM
	Day        string // YYYYMMDD
}

// NewTimestamps derives all timestamp forms from a single instant.
func NewTimestamps(t time.Time) Timestamps {
	t = t.In(jst)
	return Timestamps{
		RequestID:  t.Format("20060102150405"),
		FilePrefix: t.Format("060102150405"),
		Clock:      t.Format("15:04"),
		Day:        t.Format("20060102"),
	}
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isFilenameSafe(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isFilenameSafe reports whether a rune may appear in a log filename
func isFilenameSafe(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.'
}
