package display

import "github.com/VWRoent/transcyplate/internal/lang"

// BusyState collapses overlapping busy signals per language into a
// single visible indicator. It is not safe for concurrent use on its
// own; sinks built on it are driven from the dispatch goroutine.
type BusyState struct {
	counts map[lang.Language]int
}

// NewBusyState creates an idle busy tracker.
func NewBusyState() *BusyState {
	return &BusyState{counts: make(map[lang.Language]int)}
}

// Start records one busy signal and reports whether the indicator just
// became visible. Disabled languages are no-ops.
func (b *BusyState) Start(l lang.Language) bool {
	if l.Disabled() {
		return false
	}
	b.counts[l]++
	return b.counts[l] == 1
}

// End records one idle signal and reports whether the indicator just
// cleared. The count never goes below zero.
func (b *BusyState) End(l lang.Language) bool {
	if l.Disabled() {
		return false
	}
	if b.counts[l] == 0 {
		return false
	}
	b.counts[l]--
	return b.counts[l] == 0
}

// Busy reports whether any busy signal is outstanding for l.
func (b *BusyState) Busy(l lang.Language) bool {
	return b.counts[l] > 0
}
