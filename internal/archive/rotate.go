package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RotateLogs moves the log directory aside under archive/ with a
// timestamp, so a fresh session starts with an empty log tree.
func RotateLogs(logDir string) error {
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return fmt.Errorf("log directory does not exist: %s", logDir)
	}

	parentDir := filepath.Dir(logDir)
	archiveDir := filepath.Join(parentDir, "archive")

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	archiveName := fmt.Sprintf("log-%s", timestamp)
	archivePath := filepath.Join(archiveDir, archiveName)

	// Unlikely collision, disambiguate with microseconds
	if _, err := os.Stat(archivePath); err == nil {
		timestamp = time.Now().Format("20060102-150405.000000")
		archiveName = fmt.Sprintf("log-%s", timestamp)
		archivePath = filepath.Join(archiveDir, archiveName)
	}

	if err := os.Rename(logDir, archivePath); err != nil {
		return fmt.Errorf("failed to archive log directory: %w", err)
	}

	fmt.Printf("Log directory archived to: %s\n", archivePath)
	return nil
}
