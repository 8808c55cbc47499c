package anki

import (
	"archive/zip"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VWRoent/transcyplate/internal/wordstore"
)

func TestNewExporter(t *testing.T) {
	exp := NewExporter("Test Deck")

	if exp == nil {
		t.Fatal("NewExporter returned nil")
	}
	if exp.deckName != "Test Deck" {
		t.Errorf("Expected deck name 'Test Deck', got '%s'", exp.deckName)
	}
	if len(exp.records) != 0 {
		t.Errorf("Expected empty records slice, got %d records", len(exp.records))
	}
	if exp.deckID == exp.modelID {
		t.Error("deck and model IDs must differ")
	}
}

func TestAdd(t *testing.T) {
	exp := NewExporter("Test Deck")

	exp.Add(wordstore.WordRecord{
		Word:  "Haus",
		En:    "house; home; building",
		Ja:    "家; 住宅; 家屋",
		Count: 3,
	})

	if len(exp.records) != 1 {
		t.Errorf("Expected 1 record, got %d", len(exp.records))
	}
	if exp.records[0].Word != "Haus" {
		t.Errorf("Expected word 'Haus', got '%s'", exp.records[0].Word)
	}
}

func TestExportRejectsEmptyDeck(t *testing.T) {
	exp := NewExporter("Empty Deck")
	if err := exp.Export(filepath.Join(t.TempDir(), "empty.apkg")); err == nil {
		t.Fatal("expected error for empty deck")
	}
}

func TestExport(t *testing.T) {
	tempDir := t.TempDir()

	exp := NewExporter("Test German Deck")
	exp.Add(wordstore.WordRecord{
		Word:  "Haus",
		En:    "house; home; building",
		Ja:    "家; 住宅; 家屋",
		Count: 2,
	})

	outputPath := filepath.Join(tempDir, "test.apkg")
	if err := exp.Export(outputPath); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("Failed to open APKG as zip: %v", err)
	}
	defer reader.Close()

	requiredFiles := map[string]bool{
		"collection.anki2": false,
		"media":            false,
	}
	for _, file := range reader.File {
		if _, ok := requiredFiles[file.Name]; ok {
			requiredFiles[file.Name] = true
		}
	}
	for name, found := range requiredFiles {
		if !found {
			t.Errorf("Required file '%s' not found in APKG", name)
		}
	}
}

func TestCreateDatabase(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.anki2")

	exp := NewExporter("Test Deck")
	exp.Add(wordstore.WordRecord{
		Word:  "Katze",
		En:    "cat",
		Ja:    "猫",
		Count: 1,
	})

	if err := exp.createDatabase(dbPath); err != nil {
		t.Fatalf("createDatabase() error = %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("Database file was not created")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var noteCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&noteCount); err != nil {
		t.Fatalf("Failed to count notes: %v", err)
	}
	if noteCount != 1 {
		t.Errorf("Expected 1 note, got %d", noteCount)
	}

	// Each note produces a forward and a reverse card.
	var cardCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&cardCount); err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if cardCount != 2 {
		t.Errorf("Expected 2 cards, got %d", cardCount)
	}

	var fields string
	if err := db.QueryRow("SELECT flds FROM notes").Scan(&fields); err != nil {
		t.Fatalf("Failed to read note fields: %v", err)
	}
	parts := strings.Split(fields, "\x1f")
	if len(parts) != 4 {
		t.Fatalf("Expected 4 note fields, got %d", len(parts))
	}
	if parts[0] != "Katze" || parts[1] != "cat" || parts[2] != "猫" {
		t.Errorf("Unexpected note fields: %v", parts)
	}
}

func TestExportStore(t *testing.T) {
	tempDir := t.TempDir()

	store := wordstore.NewStore(filepath.Join(tempDir, "word.csv"))
	for _, w := range []string{"Haus", "Katze"} {
		if _, err := store.Update(w, func(rec wordstore.WordRecord) wordstore.WordRecord {
			rec.Count++
			return rec
		}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.ToggleSkip("Katze"); err != nil {
		t.Fatal(err)
	}

	outputPath := filepath.Join(tempDir, "words.apkg")
	n, err := ExportStore(store, outputPath)
	if err != nil {
		t.Fatalf("ExportStore() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 exported word, got %d", n)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Errorf("APKG file missing: %v", err)
	}
}

func TestExportStoreAllSkipped(t *testing.T) {
	tempDir := t.TempDir()

	store := wordstore.NewStore(filepath.Join(tempDir, "word.csv"))
	if _, err := store.Update("Haus", func(rec wordstore.WordRecord) wordstore.WordRecord {
		rec.Count++
		return rec
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ToggleSkip("Haus"); err != nil {
		t.Fatal(err)
	}

	if _, err := ExportStore(store, filepath.Join(tempDir, "words.apkg")); err == nil {
		t.Fatal("expected error when every word is skipped")
	}
}
