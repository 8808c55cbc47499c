package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/VWRoent/transcyplate/internal"
)

func TestAppender_HeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "archive.csv")
	a := NewAppender(path, Header)

	if err := a.Append(Row("20260830120000", "Haus", "家", "house")); err != nil {
		t.Fatalf("First append failed: %v", err)
	}
	if err := a.Append(Row("20260830120001", "Hund", "犬", "dog")); err != nil {
		t.Fatalf("Second append failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read archive: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines (header + 2 rows), got %d", len(lines))
	}
	if lines[0] != "Time,Germany,Japanese,English,Spanish,French" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if lines[1] != "20260830120000,Haus,家,house,," {
		t.Errorf("Unexpected first row: %s", lines[1])
	}
	if strings.Count(string(content), "Time,Germany") != 1 {
		t.Error("Header written more than once")
	}
}

func TestRawLog_WriteStageArtifact(t *testing.T) {
	dir := t.TempDir()
	r := NewRawLog(dir)

	ts := internal.NewTimestamps(time.Date(2026, 8, 30, 12, 34, 56, 0, time.UTC))
	if err := r.Write(ts, 3, "English", "raw model response"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	path := filepath.Join(dir, ts.Day, ts.FilePrefix+"_003_English.log")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read raw log: %v", err)
	}
	if string(content) != "raw model response" {
		t.Errorf("Unexpected content: %s", content)
	}
}

func TestRotateLogs(t *testing.T) {
	tmpDir := t.TempDir()
	logDir := filepath.Join(tmpDir, "log")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatalf("Failed to create log directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(logDir, "archive.csv"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if err := RotateLogs(logDir); err != nil {
		t.Fatalf("RotateLogs failed: %v", err)
	}

	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Error("Log directory still exists after rotation")
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, "archive"))
	if err != nil {
		t.Fatalf("Failed to read archive directory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 archived entry, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "log-") {
		t.Errorf("Unexpected archive name: %s", entries[0].Name())
	}
}

func TestRotateLogs_MissingDirectory(t *testing.T) {
	if err := RotateLogs(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing log directory")
	}
}
