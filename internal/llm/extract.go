package llm

import (
	"regexp"
	"strings"
)

// finalMarkers are the protocol markers some models prepend to their
// output. The content after the rightmost marker is the real answer.
var finalMarkers = []string{
	"final<|message|>",
	"<|channel|>final<|message|>",
	"<|start|>assistant<|channel|>final<|message|>",
}

// leadingControlTokens matches any run of <|...|> tokens at the start
// of the extracted content.
var leadingControlTokens = regexp.MustCompile(`^\s*(?:<\|[^|]+\|>)+`)

// ExtractFinalMessage strips protocol markers from a raw model
// response. The rightmost occurrence of any recognized final-message
// marker wins; leading control tokens after it are dropped. When no
// marker is present the trimmed raw text is returned as is.
func ExtractFinalMessage(s string) string {
	lastIdx := -1
	lastLen := 0
	for _, marker := range finalMarkers {
		if i := strings.LastIndex(s, marker); i > lastIdx {
			lastIdx = i
			lastLen = len(marker)
		}
	}

	out := s
	if lastIdx != -1 {
		out = s[lastIdx+lastLen:]
	}
	out = leadingControlTokens.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
