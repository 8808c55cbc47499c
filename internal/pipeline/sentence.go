// Package pipeline contains the two single-consumer work queues that
// serialize all calls to the text generation server: one for sentence
// translation stages, one for per-word lookups.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/VWRoent/transcyplate/internal"
	"github.com/VWRoent/transcyplate/internal/archive"
	"github.com/VWRoent/transcyplate/internal/display"
	"github.com/VWRoent/transcyplate/internal/lang"
	"github.com/VWRoent/transcyplate/internal/llm"
	"github.com/VWRoent/transcyplate/internal/prompt"
)

// StageTask is one target-language translation attempt within a
// sentence submission. Immutable after creation, consumed exactly once.
type StageTask struct {
	RequestID  string
	SourceText string
	Lang       lang.Language
	Prompt     string
	Config     llm.Config
	Timestamps internal.Timestamps
}

// SentencePipeline serializes sentence translation stages through a
// single worker, so exactly one sentence call is in flight at any
// time. Stages for one request are enqueued contiguously in order, and
// the FIFO queue preserves that order through the worker.
type SentencePipeline struct {
	tasks  chan *StageTask
	client llm.Client
	disp   *display.Dispatcher
	sink   display.Sink
	rawlog *archive.RawLog
	rec    *Reconciler

	mu      sync.Mutex
	current string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSentencePipeline creates the pipeline. Start must be called
// before any submission is processed.
func NewSentencePipeline(ctx context.Context, client llm.Client, disp *display.Dispatcher, sink display.Sink, rawlog *archive.RawLog, rec *Reconciler) *SentencePipeline {
	pipeCtx, cancel := context.WithCancel(ctx)
	return &SentencePipeline{
		tasks:  make(chan *StageTask, 100),
		client: client,
		disp:   disp,
		sink:   sink,
		rawlog: rawlog,
		rec:    rec,
		ctx:    pipeCtx,
		cancel: cancel,
	}
}

// Start launches the single worker goroutine.
func (p *SentencePipeline) Start() {
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
			case <-p.ctx.Done():
				return
			}
		}
	}()
}

// Stop shuts the worker down. Queued tasks are abandoned.
func (p *SentencePipeline) Stop() {
	p.cancel()
	p.wg.Wait()
}

// Submit enqueues one stage task per enabled language, contiguously
// and in stage order, all sharing the request's timestamps. It returns
// immediately; completion is reported through the reconciler.
func (p *SentencePipeline) Submit(ts internal.Timestamps, sourceText string, cfg llm.Config) {
	for _, l := range lang.Stages() {
		task := &StageTask{
			RequestID:  ts.RequestID,
			SourceText: sourceText,
			Lang:       l,
			Prompt:     prompt.Sentence(l, sourceText),
			Config:     cfg,
			Timestamps: ts,
		}
		select {
		case p.tasks <- task:
		case <-p.ctx.Done():
			return
		}
	}
}

// QueueLen returns the number of queued stage tasks.
func (p *SentencePipeline) QueueLen() int {
	return len(p.tasks)
}

// Current returns a short label for the stage being processed, or "".
func (p *SentencePipeline) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *SentencePipeline) setCurrent(s string) {
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
}

// runTask processes one stage. A panicking task is contained so the
// worker loop keeps serving the queue.
func (p *SentencePipeline) runTask(task *StageTask) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Warning: sentence task panicked: %v\n", r)
		}
		p.setCurrent("")
	}()

	label := task.SourceText
	if len(label) > 30 {
		label = label[:30]
	}
	p.setCurrent(fmt.Sprintf("%s:%s", task.Lang, label))

	l := task.Lang
	p.disp.Do(func() { p.sink.StartBusy(l) })

	raw, err := p.client.Respond(p.ctx, task.Prompt, task.Config)
	if err != nil {
		// Failures become visible inline results; the pipeline
		// never retries or stops.
		raw = fmt.Sprintf("(error) %v", err)
	}

	if p.rawlog != nil {
		if err := p.rawlog.Write(task.Timestamps, l.LogIndex(), l.LogName(), raw); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	final := llm.ExtractFinalMessage(raw)
	if final == "" {
		final = strings.TrimSpace(raw)
	}

	p.disp.Do(func() {
		p.sink.EndBusy(l)
		p.sink.AppendLine(final, string(l))
	})
	p.rec.OnStageResult(task.RequestID, l, final)
}
