// Package tokenizer splits submitted German sentences into the
// normalized word tokens fed to the word lookup queue.
package tokenizer

import (
	"strings"
	"unicode"
)

// punctStrip is the set of punctuation trimmed from token edges,
// including full-width CJK punctuation.
const punctStrip = ".,!?;:\"“”„()[]{}<>/\\|—–-+*=~_^`…，。！？；：『』「」【】（）«»"

// Normalize strips edge punctuation and title-cases the word (German
// noun convention: first rune upper, rest lower). Returns "" when
// nothing remains.
func Normalize(w string) string {
	w = strings.Trim(w, punctStrip)
	if w == "" {
		return ""
	}
	runes := []rune(w)
	head := string(unicode.ToUpper(runes[0]))
	tail := strings.ToLower(string(runes[1:]))
	return head + tail
}

// Tokenize splits a sentence on whitespace and returns the normalized
// tokens, deduplicated, in first-seen order.
func Tokenize(text string) []string {
	seen := make(map[string]bool)
	var ordered []string
	for _, tok := range strings.Fields(text) {
		n := Normalize(tok)
		if n != "" && !seen[n] {
			seen[n] = true
			ordered = append(ordered, n)
		}
	}
	return ordered
}
