package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/pprof"
	"strconv"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned for tasks submitted to a pool that has been closed.
var ErrPoolClosed = errors.New("parallel: worker pool is closed")

// Task is a unit of work. A non-nil error marks the task as failed.
type Task func() error

// WorkerPool is a fixed set of goroutines that run stripe tasks.
//
// Each worker owns a queue. A worker whose queue is empty steals from the
// other queues before blocking, which keeps all workers busy when one stripe
// is slower than its siblings.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// name labels worker goroutines in profiles and goroutine dumps.
	name string

	// workQueues holds per-worker work queues.
	workQueues []chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool

	// submitMu keeps Close from closing done while a submission is in
	// progress, so every queued item is drained by a live worker.
	submitMu sync.RWMutex
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int, name string) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if name == "" {
		name = "worker"
	}

	// Buffer size: a few slots per worker hides submission latency.
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		name:       name,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.run(i)
	}

	return p
}

// run labels the worker goroutine and enters the work loop.
func (p *WorkerPool) run(id int) {
	defer p.wg.Done()

	labels := pprof.Labels("worker", p.name+"-"+strconv.Itoa(id))
	pprof.Do(context.Background(), labels, func(context.Context) {
		p.worker(id)
	})
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker(id int) {
	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			// Drain remaining work before exiting
			p.drainQueue(myQueue)
			return

		case work := <-myQueue:
			if work != nil {
				work()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drainQueue(myQueue)
				return
			case work := <-myQueue:
				if work != nil {
					work()
				}
			}
		}
	}
}

// drainQueue executes all remaining work in a queue.
func (p *WorkerPool) drainQueue(queue chan func()) {
	for {
		select {
		case work := <-queue:
			if work != nil {
				work()
			}
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *WorkerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll distributes tasks across workers and blocks until every task has
// finished. The returned slice is index-aligned with tasks; a nil entry means
// the task succeeded.
//
// A panicking task is recovered and reported as an error, so one failing task
// never takes down its siblings or the caller. Tasks that could not be queued
// because the pool is closed report ErrPoolClosed.
func (p *WorkerPool) ExecuteAll(tasks []Task) []error {
	if len(tasks) == 0 {
		return nil
	}

	errs := make([]error, len(tasks))

	p.submitMu.RLock()
	if !p.running.Load() {
		p.submitMu.RUnlock()
		for i := range errs {
			errs[i] = ErrPoolClosed
		}
		return errs
	}

	var completionWG sync.WaitGroup
	completionWG.Add(len(tasks))

	for i, task := range tasks {
		// May block while the queue is full; workers keep draining it.
		p.workQueues[i%p.workers] <- func() {
			defer completionWG.Done()
			errs[i] = Run(task)
		}
	}
	p.submitMu.RUnlock()

	completionWG.Wait()
	return errs
}

// Run executes task on the calling goroutine, converting a panic into an error.
func Run(task Task) (err error) {
	if task == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parallel: task panicked: %v", r)
		}
	}()
	return task()
}

// Close stops accepting new work, waits for all queued work to complete,
// and then stops all workers.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.submitMu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.submitMu.Unlock()
		return
	}
	close(p.done)
	p.submitMu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Name returns the label prefix of the pool's workers.
func (p *WorkerPool) Name() string {
	return p.name
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// QueuedWork returns the total number of work items currently queued.
// This is an approximation as queues can change while iterating.
func (p *WorkerPool) QueuedWork() int {
	total := 0
	for _, q := range p.workQueues {
		total += len(q)
	}
	return total
}
