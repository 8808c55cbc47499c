// Package display defines the surface the pipelines render to and the
// primitives that keep all rendering on a single execution context.
package display

import "github.com/VWRoent/transcyplate/internal/lang"

// Style tags for AppendLine.
const (
	TagInput    = "in"
	TagQAInput  = "qa_in"
	TagQAOutput = "qa_out"
	TagDim      = "dim"
)

// Sink receives the pipelines' visible side effects. Implementations
// are assumed to be single-threaded: every call must be marshaled
// through a Dispatcher, never made directly from a worker goroutine.
//
// StartBusy/EndBusy are reference counted per language: overlapping
// busy signals collapse to one visible indicator that clears only when
// the count returns to zero.
type Sink interface {
	StartBusy(l lang.Language)
	EndBusy(l lang.Language)
	NotifyWord(count int, word, en, ja string, starred bool)
	AppendLine(text, styleTag string)
}
