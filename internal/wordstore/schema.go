package wordstore

import (
	"strconv"
	"strings"
)

// rowParser turns one CSV row into a record. Missing fields default to
// empty string / 0 / false; malformed numeric fields degrade to zero
// values instead of aborting the load.
type rowParser func(row []string) WordRecord

// schema pairs a header predicate with its row parser. Historical
// layouts are tried in a fixed priority order; the permissive fallback
// always matches last.
type schema struct {
	matches func(header []string) bool
	parse   rowParser
}

var schemas = []schema{
	{matchesCountOnly, parseCountOnly},
	{matchesFourColumn, parseWide},
	{matchesCanonical, parseWide},
	{func([]string) bool { return true }, parseWide},
}

// detectSchema picks the parser for a persisted header row.
func detectSchema(headerRow []string) rowParser {
	header := make([]string, len(headerRow))
	for i, c := range headerRow {
		header[i] = strings.ToLower(strings.TrimSpace(c))
	}
	for _, s := range schemas {
		if s.matches(header) {
			return s.parse
		}
	}
	return parseWide
}

// matchesCountOnly recognizes the oldest layout: word,count.
func matchesCountOnly(header []string) bool {
	return len(header) == 2 && header[0] == "word" && header[1] == "count"
}

// matchesFourColumn recognizes the pre-skip layout: word,en,ja,count.
func matchesFourColumn(header []string) bool {
	return len(header) >= 4 && header[0] == "word" && header[1] == "en" &&
		header[2] == "ja" && header[3] == "count" && len(header) < 5
}

// matchesCanonical recognizes the current layout: word,en,ja,count,skip.
func matchesCanonical(header []string) bool {
	return len(header) >= 5 && header[0] == "word" && header[1] == "en" &&
		header[2] == "ja" && header[3] == "count" && header[4] == "skip"
}

func parseCountOnly(row []string) WordRecord {
	rec := WordRecord{Word: strings.TrimSpace(row[0])}
	if len(row) > 1 {
		rec.Count = parseCount(row[1])
	}
	return rec
}

// parseWide handles every layout that starts word,en,ja,count; the
// skip column is optional.
func parseWide(row []string) WordRecord {
	rec := WordRecord{Word: strings.TrimSpace(row[0])}
	if len(row) > 1 {
		rec.En = strings.TrimSpace(row[1])
	}
	if len(row) > 2 {
		rec.Ja = strings.TrimSpace(row[2])
	}
	if len(row) > 3 {
		rec.Count = parseCount(row[3])
	}
	if len(row) > 4 {
		rec.Skip = parseSkip(row[4])
	}
	return rec
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseSkip(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return n != 0
}
