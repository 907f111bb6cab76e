package session

import "sync"

// Dispatcher runs submitted callbacks on its own goroutine, one at a time, in
// submission order. Submit never blocks, so a controller can hand off
// outbound writes while it still holds its lock and the external world sees
// commits in the order they happened.
type Dispatcher struct {
	mu        sync.Mutex
	cond      *sync.Cond
	queue     []func()
	submitted uint64
	delivered uint64
	closed    bool
	done      chan struct{}
}

// NewDispatcher starts a dispatcher goroutine. Call Close to stop it.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{done: make(chan struct{})}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

// Submit queues fn. It reports false if the dispatcher is closed.
func (d *Dispatcher) Submit(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.queue = append(d.queue, fn)
	d.submitted++
	d.cond.Broadcast()
	return true
}

// Flush blocks until every callback submitted before the call has run.
// It must not be called from inside a callback.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	target := d.submitted
	for d.delivered < target {
		d.cond.Wait()
	}
}

// Close delivers whatever is queued and stops the goroutine.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		batch := d.queue
		d.queue = nil
		d.mu.Unlock()

		for _, fn := range batch {
			fn()
		}

		d.mu.Lock()
		d.delivered += uint64(len(batch))
		d.cond.Broadcast()
		d.mu.Unlock()
	}
}
