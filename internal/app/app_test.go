package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/VWRoent/transcyplate/internal/display"
	"github.com/VWRoent/transcyplate/internal/lang"
	"github.com/VWRoent/transcyplate/internal/llm"
	"github.com/VWRoent/transcyplate/internal/prompt"
	"github.com/VWRoent/transcyplate/internal/testutil"
	"github.com/VWRoent/transcyplate/internal/wordstore"
)

func newFixture(t *testing.T, client *testutil.FakeClient) (*App, *testutil.RecordingSink, string) {
	t.Helper()

	dir := t.TempDir()
	sink := &testutil.RecordingSink{}
	a, err := New(Config{
		Client:        client,
		Sink:          sink,
		LogDir:        dir,
		GenConfig:     llm.Config{Temperature: 0.7},
		FlashInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.words.SetTaskGap(0)
	a.Start()
	t.Cleanup(a.Stop)
	return a, sink, dir
}

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{Sink: &testutil.RecordingSink{}}); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestNewRequiresSink(t *testing.T) {
	if _, err := New(Config{Client: &testutil.FakeClient{}}); err == nil {
		t.Fatal("expected error for nil sink")
	}
}

func TestSubmitSentenceRejectsEmpty(t *testing.T) {
	a, _, _ := newFixture(t, &testutil.FakeClient{})
	if err := a.SubmitSentence("   "); err == nil {
		t.Fatal("expected error for blank input")
	}
}

// Full pass through both pipelines for a short sentence: translation
// lines, word notifications, word store rows and the archive row.
func TestSubmitSentenceEndToEnd(t *testing.T) {
	text := "Das Haus ist alt"
	client := &testutil.FakeClient{Responses: map[string]string{
		prompt.Sentence(lang.English, text):  "final<|message|>The house is old",
		prompt.Sentence(lang.Japanese, text): "final<|message|>その家は古い",
		prompt.Word(lang.English, "Haus"):    "house; home; building",
		prompt.Word(lang.Japanese, "Haus"):   "家; 住宅; 家屋",
	}}
	a, sink, dir := newFixture(t, client)

	if err := a.SubmitSentence(text); err != nil {
		t.Fatalf("SubmitSentence: %v", err)
	}
	if !a.Drain(5 * time.Second) {
		t.Fatal("pipelines did not drain")
	}

	lines := sink.EventsOfKind("line")
	if len(lines) < 4 {
		t.Fatalf("want separator, input and two translation lines, got %d", len(lines))
	}
	if lines[0].Text != "───" {
		t.Errorf("first line = %q, want separator", lines[0].Text)
	}
	if !strings.HasSuffix(lines[1].Text, " : "+text) {
		t.Errorf("input line = %q", lines[1].Text)
	}
	var en, ja bool
	for _, l := range lines[2:] {
		switch l.Text {
		case "The house is old":
			en = true
			if l.Tag != string(lang.English) {
				t.Errorf("english line tag = %q", l.Tag)
			}
		case "その家は古い":
			ja = true
		}
	}
	if !en || !ja {
		t.Errorf("missing translation lines: en=%v ja=%v", en, ja)
	}

	words := sink.EventsOfKind("word")
	if len(words) != 4 {
		t.Fatalf("want 4 word notifications, got %d", len(words))
	}
	var haus *testutil.SinkEvent
	for i := range words {
		if words[i].Word == "Haus" {
			haus = &words[i]
		}
	}
	if haus == nil {
		t.Fatal("no notification for Haus")
	}
	if haus.Count != 1 || haus.En != "house; home; building" || haus.Ja != "家; 住宅; 家屋" || haus.Starred {
		t.Errorf("Haus notification = %+v", haus)
	}

	store := wordstore.NewStore(filepath.Join(dir, "word.csv"))
	rec, ok, err := store.Get("Haus")
	if err != nil || !ok {
		t.Fatalf("Get(Haus): ok=%v err=%v", ok, err)
	}
	if rec.Count != 1 || rec.En != "house; home; building" {
		t.Errorf("stored record = %+v", rec)
	}

	data, err := os.ReadFile(filepath.Join(dir, "archive.csv"))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(got) != 2 {
		t.Fatalf("archive rows = %d, want header plus one", len(got))
	}
	if got[0] != "Time,Germany,Japanese,English,Spanish,French" {
		t.Errorf("archive header = %q", got[0])
	}
	if !strings.Contains(got[1], text) || !strings.Contains(got[1], "その家は古い") || !strings.Contains(got[1], "The house is old") {
		t.Errorf("archive row = %q", got[1])
	}
}

func TestSubmitSentenceWritesInputLog(t *testing.T) {
	client := &testutil.FakeClient{}
	a, _, dir := newFixture(t, client)

	if err := a.SubmitSentence("Hallo"); err != nil {
		t.Fatalf("SubmitSentence: %v", err)
	}
	a.Drain(5 * time.Second)

	matches, err := filepath.Glob(filepath.Join(dir, "*", "*_001_Input.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("input log matches = %v err=%v", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"INPUT: Hallo", "[ENGLISH]", "[JAPANESE]"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("input log missing %q", want)
		}
	}
}

func TestAsk(t *testing.T) {
	client := &testutil.FakeClient{Responses: map[string]string{
		"Was heißt das?": "<|channel|>final<|message|>It means this.",
	}}
	a, sink, dir := newFixture(t, client)

	if err := a.Ask("Was heißt das?"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	ok := testutil.WaitFor(5*time.Second, func() bool {
		return len(sink.EventsOfKind("line")) >= 2
	})
	if !ok {
		t.Fatal("answer never displayed")
	}
	a.disp.Sync()

	lines := sink.EventsOfKind("line")
	if lines[0].Tag != display.TagQAInput || !strings.HasSuffix(lines[0].Text, " : Was heißt das?") {
		t.Errorf("question line = %+v", lines[0])
	}
	if lines[1].Tag != display.TagQAOutput || lines[1].Text != "It means this." {
		t.Errorf("answer line = %+v", lines[1])
	}

	starts := sink.EventsOfKind("start")
	ends := sink.EventsOfKind("end")
	if len(starts) != 1 || starts[0].Lang != lang.Japanese || len(ends) != 1 {
		t.Errorf("busy events: starts=%v ends=%v", starts, ends)
	}

	if qs, _ := filepath.Glob(filepath.Join(dir, "*", "*_006_Question.log")); len(qs) != 1 {
		t.Errorf("question log matches = %v", qs)
	}
	if as, _ := filepath.Glob(filepath.Join(dir, "*", "*_007_Answer.log")); len(as) != 1 {
		t.Errorf("answer log matches = %v", as)
	}
}

func TestAskRejectsEmpty(t *testing.T) {
	a, _, _ := newFixture(t, &testutil.FakeClient{})
	if err := a.Ask(""); err == nil {
		t.Fatal("expected error for blank question")
	}
}

func TestToggleSkipAndRedisplay(t *testing.T) {
	a, sink, _ := newFixture(t, &testutil.FakeClient{})

	if err := a.SubmitSentence("Katze"); err != nil {
		t.Fatal(err)
	}
	a.Drain(5 * time.Second)

	if _, err := a.ToggleSkip("Nichtda"); err == nil {
		t.Error("expected error for unknown word")
	}

	skip, err := a.ToggleSkip("Katze (1)")
	if err != nil {
		t.Fatalf("ToggleSkip: %v", err)
	}
	if !skip {
		t.Error("skip should be set after first toggle")
	}

	before := len(sink.EventsOfKind("word"))
	if err := a.Redisplay("Katze (1)"); err != nil {
		t.Fatalf("Redisplay: %v", err)
	}
	ok := testutil.WaitFor(5*time.Second, func() bool {
		return len(sink.EventsOfKind("word")) == before+1
	})
	if !ok {
		t.Fatal("redisplay never arrived")
	}
	words := sink.EventsOfKind("word")
	last := words[len(words)-1]
	if last.Word != "Katze" || last.Count != 1 || !last.Starred {
		t.Errorf("redisplay event = %+v", last)
	}

	rec, _, err := a.store.Get("Katze")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Count != 1 {
		t.Errorf("count changed by redisplay: %d", rec.Count)
	}
}

func TestRedisplayUnknownWord(t *testing.T) {
	a, _, _ := newFixture(t, &testutil.FakeClient{})
	if err := a.Redisplay("Nichtda (3)"); err == nil {
		t.Fatal("expected error for unknown word")
	}
}

func TestFirstOccurrenceCapture(t *testing.T) {
	dir := t.TempDir()
	sink := &testutil.RecordingSink{}
	capt := &testutil.FakeCapturer{}
	a, err := New(Config{
		Client:        &testutil.FakeClient{},
		Sink:          sink,
		LogDir:        dir,
		Capture:       capt,
		FlashInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	a.words.SetTaskGap(0)
	a.Start()
	defer a.Stop()

	a.SubmitSentence("Hund")
	a.SubmitSentence("Hund")
	a.Drain(5 * time.Second)

	if got := capt.Words(); len(got) != 1 || got[0] != "Hund" {
		t.Errorf("captured words = %v, want one Hund", got)
	}
}

func TestStatusAndLabels(t *testing.T) {
	a, _, _ := newFixture(t, &testutil.FakeClient{})

	a.SubmitSentence("Baum")
	a.Drain(5 * time.Second)

	sq, wq, cs, cw := a.Status()
	if sq != 0 || wq != 0 || cs != "" || cw != "" {
		t.Errorf("idle status = %d %d %q %q", sq, wq, cs, cw)
	}

	labels, err := a.Labels()
	if err != nil {
		t.Fatal(err)
	}
	if len(labels) != 1 || labels[0] != "Baum (1)" {
		t.Errorf("labels = %v", labels)
	}
}
