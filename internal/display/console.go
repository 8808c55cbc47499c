package display

import (
	"fmt"
	"io"

	"github.com/VWRoent/transcyplate/internal/lang"
)

// ConsoleSink renders the display surface as plain terminal output.
// It is the reference Sink implementation; all calls arrive on the
// dispatch goroutine so no locking is needed.
type ConsoleSink struct {
	out  io.Writer
	busy *BusyState
}

// NewConsoleSink creates a sink writing to out.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{
		out:  out,
		busy: NewBusyState(),
	}
}

// StartBusy shows the busy indicator when the language's count rises
// from zero.
func (s *ConsoleSink) StartBusy(l lang.Language) {
	if s.busy.Start(l) {
		fmt.Fprintf(s.out, "[%s] ...\n", l)
	}
}

// EndBusy clears the busy indicator when the language's count returns
// to zero.
func (s *ConsoleSink) EndBusy(l lang.Language) {
	if s.busy.End(l) {
		fmt.Fprintf(s.out, "[%s] done\n", l)
	}
}

// NotifyWord renders one word flash.
func (s *ConsoleSink) NotifyWord(count int, word, en, ja string, starred bool) {
	star := ""
	if starred {
		star = "★"
	}
	fmt.Fprintf(s.out, "登場回数: %s%d  %s\n  en: %s\n  ja: %s\n", star, count, word, en, ja)
}

// AppendLine writes one display line with its style tag.
func (s *ConsoleSink) AppendLine(text, styleTag string) {
	switch styleTag {
	case TagInput, TagQAInput:
		fmt.Fprintf(s.out, "> %s\n", text)
	default:
		fmt.Fprintf(s.out, "[%s] %s\n", styleTag, text)
	}
}
