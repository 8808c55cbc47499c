// Package batch reads sentence submissions from a file, one sentence
// per line, for unattended processing.
package batch

import (
	"fmt"
	"os"
	"strings"
)

// ReadSentences returns the non-empty lines of filename in order.
// Lines starting with # are treated as comments and skipped.
func ReadSentences(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var sentences []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sentences = append(sentences, line)
	}
	return sentences, nil
}
