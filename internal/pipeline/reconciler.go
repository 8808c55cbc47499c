package pipeline

import (
	"fmt"
	"os"
	"sync"

	"github.com/VWRoent/transcyplate/internal/archive"
	"github.com/VWRoent/transcyplate/internal/lang"
)

// Archiver receives one row per fully reconciled request.
type Archiver interface {
	Append(row []string) error
}

// pendingRecord is the in-flight join state for one sentence
// submission awaiting its stage results.
type pendingRecord struct {
	source  string
	results map[lang.Language]string
}

// Reconciler joins per-stage results belonging to one request into a
// single archive row, exactly once. Completions for unknown or
// already-archived requests are silent no-ops.
type Reconciler struct {
	required []lang.Language
	sink     Archiver

	mu      sync.Mutex
	pending map[string]*pendingRecord
}

// NewReconciler creates a reconciler requiring one result per language
// in required before a request archives.
func NewReconciler(required []lang.Language, sink Archiver) *Reconciler {
	return &Reconciler{
		required: required,
		sink:     sink,
		pending:  make(map[string]*pendingRecord),
	}
}

// Register opens a pending record for a new request. Must be called
// before the request's stages are enqueued.
func (r *Reconciler) Register(requestID, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[requestID] = &pendingRecord{
		source:  source,
		results: make(map[lang.Language]string),
	}
}

// OnStageResult stores one stage result. When the last required stage
// arrives the archive row is emitted and the record removed.
func (r *Reconciler) OnStageResult(requestID string, l lang.Language, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.pending[requestID]
	if !ok {
		return
	}
	rec.results[l] = text

	for _, required := range r.required {
		if _, done := rec.results[required]; !done {
			return
		}
	}

	row := archive.Row(requestID, rec.source, rec.results[lang.Japanese], rec.results[lang.English])
	if err := r.sink.Append(row); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to archive request %s: %v\n", requestID, err)
	}
	delete(r.pending, requestID)
}

// PendingCount returns the number of open records.
func (r *Reconciler) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
