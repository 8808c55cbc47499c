// Package app wires the pipelines, stores and display surface into
// the live translator session and exposes the operations the
// front-end invokes.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/VWRoent/transcyplate/internal"
	"github.com/VWRoent/transcyplate/internal/archive"
	"github.com/VWRoent/transcyplate/internal/display"
	"github.com/VWRoent/transcyplate/internal/lang"
	"github.com/VWRoent/transcyplate/internal/llm"
	"github.com/VWRoent/transcyplate/internal/pipeline"
	"github.com/VWRoent/transcyplate/internal/prompt"
	"github.com/VWRoent/transcyplate/internal/tokenizer"
	"github.com/VWRoent/transcyplate/internal/wordstore"
)

// Config assembles the collaborators of one session.
type Config struct {
	// Client is the text generation service. Required; New fails
	// without it so no worker ever starts against a missing client.
	Client llm.Client
	// Sink is the display surface. Required.
	Sink display.Sink
	// LogDir roots the archive, raw logs and word store.
	LogDir string
	// GenConfig is applied to every generation call.
	GenConfig llm.Config
	// Capture fires on first word occurrences. Optional.
	Capture pipeline.Capturer
	// FlashInterval overrides the word flash pacing budget.
	// Zero means the default 2 seconds.
	FlashInterval time.Duration
}

// App owns the two pipelines and the shared session state.
type App struct {
	client llm.Client
	disp   *display.Dispatcher
	sink   display.Sink
	store  *wordstore.Store
	pacer  *display.Pacer
	rawlog *archive.RawLog
	rec    *pipeline.Reconciler
	genCfg llm.Config

	sentences *pipeline.SentencePipeline
	words     *pipeline.WordPipeline

	cancel context.CancelFunc
}

// New builds a session. The client must be configured; a nil client is
// reported before any worker starts.
func New(cfg Config) (*App, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("text generation client not configured")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("display sink not configured")
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "log"
	}

	interval := cfg.FlashInterval
	if interval == 0 {
		interval = display.DefaultFlashInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	disp := display.NewDispatcher()
	store := wordstore.NewStore(filepath.Join(cfg.LogDir, "word.csv"))
	rawlog := archive.NewRawLog(cfg.LogDir)
	pacer := display.NewPacer(interval)
	appender := archive.NewAppender(filepath.Join(cfg.LogDir, "archive.csv"), archive.Header)
	rec := pipeline.NewReconciler(lang.Stages(), appender)

	a := &App{
		client:    cfg.Client,
		disp:      disp,
		sink:      cfg.Sink,
		store:     store,
		pacer:     pacer,
		rawlog:    rawlog,
		rec:       rec,
		genCfg:    cfg.GenConfig,
		sentences: pipeline.NewSentencePipeline(ctx, cfg.Client, disp, cfg.Sink, rawlog, rec),
		words:     pipeline.NewWordPipeline(ctx, cfg.Client, disp, cfg.Sink, store, pacer, cfg.Capture),
		cancel:    cancel,
	}
	return a, nil
}

// Start launches both pipeline workers.
func (a *App) Start() {
	a.sentences.Start()
	a.words.Start()
}

// Stop shuts the workers and the display dispatcher down.
func (a *App) Stop() {
	a.cancel()
	a.sentences.Stop()
	a.words.Stop()
	a.disp.Close()
}

// Store exposes the word store for export and listing consumers.
func (a *App) Store() *wordstore.Store {
	return a.store
}

// SubmitSentence enqueues the two translation stages and one word
// lookup per normalized token of text. It returns as soon as
// everything is queued.
func (a *App) SubmitSentence(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("no input text")
	}

	ts := internal.NewTimestamps(internal.Now())

	pEn := prompt.Sentence(lang.English, text)
	pJa := prompt.Sentence(lang.Japanese, text)
	input := fmt.Sprintf("[%s] INPUT: %s\n\n[ENGLISH]\n%s\n\n[JAPANESE]\n%s\n", ts.RequestID, text, pEn, pJa)
	if err := a.rawlog.Write(ts, archive.SlotInput, "Input", input); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	a.disp.Do(func() {
		a.sink.AppendLine("───", display.TagInput)
		a.sink.AppendLine(fmt.Sprintf("%s : %s", ts.Clock, text), display.TagInput)
	})

	a.rec.Register(ts.RequestID, text)
	a.sentences.Submit(ts, text, a.genCfg)

	for _, w := range tokenizer.Tokenize(text) {
		a.words.Submit(w, a.genCfg)
	}
	return nil
}

// Ask sends a free-form question to the model on its own goroutine.
// Q&A bypasses the queues; it shares the Japanese busy indicator.
func (a *App) Ask(question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("no question text")
	}

	ts := internal.NewTimestamps(internal.Now())
	if err := a.rawlog.Write(ts, archive.SlotQuestion, "Question", question); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	a.disp.Do(func() {
		a.sink.AppendLine(fmt.Sprintf("%s : %s", ts.Clock, question), display.TagQAInput)
		a.sink.StartBusy(lang.Japanese)
	})

	go func() {
		raw, err := a.client.Respond(context.Background(), question, a.genCfg)
		if err != nil {
			raw = fmt.Sprintf("(error) %v", err)
		}
		if err := a.rawlog.Write(ts, archive.SlotAnswer, "Answer", raw); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		final := llm.ExtractFinalMessage(raw)
		if final == "" {
			final = strings.TrimSpace(raw)
		}
		a.disp.Do(func() {
			a.sink.EndBusy(lang.Japanese)
			a.sink.AppendLine(final, display.TagQAOutput)
		})
	}()
	return nil
}

// ToggleSkip flips the skip flag for a saved word. Accepts the plain
// word or a "word (count)" selector label.
func (a *App) ToggleSkip(label string) (bool, error) {
	word := wordstore.WordFromLabel(label)
	if word == "" {
		return false, fmt.Errorf("no word selected")
	}
	if _, ok, err := a.store.Get(word); err != nil {
		return false, err
	} else if !ok {
		return false, fmt.Errorf("no data for %q", word)
	}
	return a.store.ToggleSkip(word)
}

// Redisplay shows a saved word again without changing its count. The
// star marks words whose skip flag is set. The shared flash budget
// applies; when it is not yet due the display is scheduled in the
// background rather than blocking the caller.
func (a *App) Redisplay(label string) error {
	word := wordstore.WordFromLabel(label)
	if word == "" {
		return fmt.Errorf("no word selected")
	}

	rec, ok, err := a.store.Get(word)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no data for %q", word)
	}

	go func() {
		a.pacer.Wait()
		a.disp.Do(func() {
			a.sink.NotifyWord(rec.Count, rec.Word, rec.En, rec.Ja, rec.Skip)
		})
	}()
	return nil
}

// Labels returns the saved-word selector entries in store order.
func (a *App) Labels() ([]string, error) {
	return a.store.Labels()
}

// Status reports the queue depths and current task labels for the
// progress display.
func (a *App) Status() (sentenceQueue, wordQueue int, currentSentence, currentWord string) {
	return a.sentences.QueueLen(), a.words.QueueLen(), a.sentences.Current(), a.words.Current()
}

// Drain waits until both queues are empty and idle, up to timeout.
// Used by batch mode to finish before exiting.
func (a *App) Drain(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		sq, wq, cs, cw := a.Status()
		if sq == 0 && wq == 0 && cs == "" && cw == "" && a.rec.PendingCount() == 0 {
			a.disp.Sync()
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}
