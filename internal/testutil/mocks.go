// Package testutil provides the fakes shared by the pipeline and app
// tests: a scripted generation client and a recording display sink.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VWRoent/transcyplate/internal/lang"
	"github.com/VWRoent/transcyplate/internal/llm"
)

// FakeClient is a scripted llm.Client. Responses are matched by exact
// prompt; unmatched prompts get a default echo response. Errors take
// precedence over responses.
type FakeClient struct {
	Responses map[string]string
	Errors    map[string]error
	// Delay simulates a slow blocking call.
	Delay time.Duration

	mu    sync.Mutex
	calls []string
}

// Respond implements llm.Client.
func (c *FakeClient) Respond(ctx context.Context, prompt string, cfg llm.Config) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, prompt)
	c.mu.Unlock()

	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if err, ok := c.Errors[prompt]; ok {
		return "", err
	}
	if resp, ok := c.Responses[prompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("response to: %s", prompt), nil
}

// Calls returns the prompts seen so far, in call order.
func (c *FakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.calls...)
}

// SinkEvent is one recorded display sink call.
type SinkEvent struct {
	Kind    string // "start", "end", "word", "line"
	Lang    lang.Language
	Text    string
	Tag     string
	Count   int
	Word    string
	En      string
	Ja      string
	Starred bool
	At      time.Time
}

// RecordingSink records every sink call with a timestamp. Safe for
// concurrent use so tests can inspect it while pipelines run.
type RecordingSink struct {
	mu     sync.Mutex
	events []SinkEvent
}

// StartBusy implements display.Sink.
func (s *RecordingSink) StartBusy(l lang.Language) {
	s.record(SinkEvent{Kind: "start", Lang: l})
}

// EndBusy implements display.Sink.
func (s *RecordingSink) EndBusy(l lang.Language) {
	s.record(SinkEvent{Kind: "end", Lang: l})
}

// NotifyWord implements display.Sink.
func (s *RecordingSink) NotifyWord(count int, word, en, ja string, starred bool) {
	s.record(SinkEvent{Kind: "word", Count: count, Word: word, En: en, Ja: ja, Starred: starred})
}

// AppendLine implements display.Sink.
func (s *RecordingSink) AppendLine(text, styleTag string) {
	s.record(SinkEvent{Kind: "line", Text: text, Tag: styleTag})
}

func (s *RecordingSink) record(e SinkEvent) {
	e.At = time.Now()
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (s *RecordingSink) Events() []SinkEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SinkEvent{}, s.events...)
}

// EventsOfKind filters recorded events by kind.
func (s *RecordingSink) EventsOfKind(kind string) []SinkEvent {
	var out []SinkEvent
	for _, e := range s.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// FakeCapturer records capture calls and optionally fails.
type FakeCapturer struct {
	Err error

	mu    sync.Mutex
	words []string
}

// Capture implements pipeline.Capturer.
func (c *FakeCapturer) Capture(word string) error {
	c.mu.Lock()
	c.words = append(c.words, word)
	c.mu.Unlock()
	return c.Err
}

// Words returns the captured words in call order.
func (c *FakeCapturer) Words() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.words...)
}

// WaitFor polls cond until it returns true or the timeout elapses.
// Returns the final value of cond.
func WaitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
