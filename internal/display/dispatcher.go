package display

import "sync"

// Dispatcher serializes sink calls onto one long-lived goroutine, the
// stand-in for a UI thread. Workers queue closures with Do and never
// touch the sink directly, so the sink itself needs no locking.
type Dispatcher struct {
	queue chan func()
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts the dispatch goroutine.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		queue: make(chan func(), 100),
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for fn := range d.queue {
			fn()
		}
	}()
	return d
}

// Do queues fn for execution on the dispatch goroutine. Calls after
// Close are dropped.
func (d *Dispatcher) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.queue <- fn
}

// Sync blocks until everything queued before it has run.
func (d *Dispatcher) Sync() {
	done := make(chan struct{})
	d.Do(func() { close(done) })

	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return
	}
	<-done
}

// Close stops the dispatcher after draining the pending queue.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}
