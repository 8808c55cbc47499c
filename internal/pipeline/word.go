package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/VWRoent/transcyplate/internal/display"
	"github.com/VWRoent/transcyplate/internal/lang"
	"github.com/VWRoent/transcyplate/internal/llm"
	"github.com/VWRoent/transcyplate/internal/prompt"
	"github.com/VWRoent/transcyplate/internal/wordstore"
)

// DefaultTaskGap is the pause after each word task, bounding
// notification burstiness under rapid multi-word submissions.
const DefaultTaskGap = 250 * time.Millisecond

// WordTask is one queued dual-translation lookup.
type WordTask struct {
	Word   string
	Config llm.Config
}

// Capturer is the auxiliary side effect triggered on a word's first
// occurrence (the original captures a snapshot of the word flash).
// Failures are logged and never propagate into the pipeline.
type Capturer interface {
	Capture(word string) error
}

// WordPipeline serializes per-word lookups through a single worker:
// two sequential generation calls per word, a synchronized
// read-modify-write against the word store, and a paced word flash
// notification.
type WordPipeline struct {
	tasks   chan *WordTask
	client  llm.Client
	disp    *display.Dispatcher
	sink    display.Sink
	store   *wordstore.Store
	pacer   *display.Pacer
	capture Capturer
	taskGap time.Duration

	mu      sync.Mutex
	current string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWordPipeline creates the pipeline. The pacer is shared with any
// manual re-display path so automatic and manual word flashes draw
// from one budget. capture may be nil.
func NewWordPipeline(ctx context.Context, client llm.Client, disp *display.Dispatcher, sink display.Sink, store *wordstore.Store, pacer *display.Pacer, capture Capturer) *WordPipeline {
	pipeCtx, cancel := context.WithCancel(ctx)
	return &WordPipeline{
		tasks:   make(chan *WordTask, 100),
		client:  client,
		disp:    disp,
		sink:    sink,
		store:   store,
		pacer:   pacer,
		capture: capture,
		taskGap: DefaultTaskGap,
		ctx:     pipeCtx,
		cancel:  cancel,
	}
}

// SetTaskGap overrides the inter-task pause. Zero disables it.
func (p *WordPipeline) SetTaskGap(gap time.Duration) {
	p.taskGap = gap
}

// Start launches the single worker goroutine.
func (p *WordPipeline) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case task, ok := <-p.tasks:
				if !ok {
					return
				}
				p.runTask(task)
				if p.taskGap > 0 {
					select {
					case <-time.After(p.taskGap):
					case <-p.ctx.Done():
						return
					}
				}
			case <-p.ctx.Done():
				return
			}
		}
	}()
}

// Stop shuts the worker down. Queued tasks are abandoned.
func (p *WordPipeline) Stop() {
	p.cancel()
	p.wg.Wait()
}

// Submit enqueues one word lookup. Non-blocking for the caller.
func (p *WordPipeline) Submit(word string, cfg llm.Config) {
	task := &WordTask{Word: word, Config: cfg}
	select {
	case p.tasks <- task:
	case <-p.ctx.Done():
	}
}

// QueueLen returns the number of queued word tasks.
func (p *WordPipeline) QueueLen() int {
	return len(p.tasks)
}

// Current returns the word being processed, or "".
func (p *WordPipeline) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *WordPipeline) setCurrent(s string) {
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
}

// runTask processes one word lookup end to end. A panicking task is
// contained so the worker loop keeps serving the queue.
func (p *WordPipeline) runTask(task *WordTask) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Warning: word task panicked: %v\n", r)
		}
		p.setCurrent("")
	}()

	word := task.Word
	p.setCurrent(word)

	en := p.askWord(prompt.Word(lang.English, word), task.Config)
	ja := p.askWord(prompt.Word(lang.Japanese, word), task.Config)

	rec, err := p.store.Update(word, func(r wordstore.WordRecord) wordstore.WordRecord {
		r.En = en
		r.Ja = ja
		r.Count++
		return r
	})
	if err != nil {
		// Persistence failures never stop the worker.
		fmt.Fprintf(os.Stderr, "Warning: word store update for %q: %v\n", word, err)
		if rec.Count == 0 {
			return
		}
	}

	// The flash budget is consumed whether or not the word is
	// skipped, keeping the shared timestamp behavior of the
	// original.
	p.pacer.Wait()

	if rec.Skip {
		return
	}

	count := rec.Count
	p.disp.Do(func() {
		p.sink.NotifyWord(count, word, en, ja, false)
	})

	if count == 1 && p.capture != nil {
		if err := p.capture.Capture(word); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: capture for %q: %v\n", word, err)
		}
	}
}

// askWord performs one generation sub-call with the failure policy of
// the pipelines: errors become inline "(error) ..." text. Unlike the
// sentence path, an empty extraction stays empty here instead of
// falling back to the raw response.
func (p *WordPipeline) askWord(ask string, cfg llm.Config) string {
	raw, err := p.client.Respond(p.ctx, ask, cfg)
	if err != nil {
		raw = fmt.Sprintf("(error) %v", err)
	}
	return llm.ExtractFinalMessage(raw)
}
