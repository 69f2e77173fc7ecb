package blur

import (
	"runtime"
	"sync"

	"github.com/gogpu/blur/internal/parallel"
)

// Worker pool sizing bounds.
const (
	MinPoolSize = 2
	MaxPoolSize = 5
)

// DefaultPoolSize returns the number of workers a pool gets when no size is
// given: the CPU count clamped into [MinPoolSize, MaxPoolSize].
func DefaultPoolSize() int {
	return min(max(runtime.NumCPU(), MinPoolSize), MaxPoolSize)
}

// PoolOption configures a WorkerPool.
type PoolOption func(*poolOptions)

type poolOptions struct {
	size int
	name string
}

// WithPoolSize sets the number of workers. Values below 1 select
// DefaultPoolSize.
func WithPoolSize(n int) PoolOption {
	return func(o *poolOptions) {
		o.size = n
	}
}

// WithPoolName sets the label used for worker goroutines in profiles.
func WithPoolName(name string) PoolOption {
	return func(o *poolOptions) {
		o.name = name
	}
}

// WorkerPool is a fixed set of long-lived workers that run blur stripes.
// One pool is meant to be shared by many coordinators and reused across
// every blur call until Shutdown.
type WorkerPool struct {
	pool *parallel.WorkerPool
}

// NewWorkerPool starts a pool. Workers begin waiting for work immediately.
func NewWorkerPool(opts ...PoolOption) *WorkerPool {
	o := poolOptions{name: "blur"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.size < 1 {
		o.size = DefaultPoolSize()
	}

	p := &WorkerPool{pool: parallel.NewWorkerPool(o.size, o.name)}
	Logger().Debug("blur: worker pool started", "name", p.Name(), "workers", p.Size())
	return p
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	return p.pool.Workers()
}

// Name returns the worker label prefix.
func (p *WorkerPool) Name() string {
	return p.pool.Name()
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.pool.IsRunning()
}

// Shutdown lets queued stripes finish and stops the workers. Blurs that
// need the pool afterwards are dropped. Shutdown is idempotent.
func (p *WorkerPool) Shutdown() {
	if !p.pool.IsRunning() {
		return
	}
	p.pool.Close()
	Logger().Debug("blur: worker pool stopped", "name", p.Name())
}

func (p *WorkerPool) execute(tasks []parallel.Task) []error {
	return p.pool.ExecuteAll(tasks)
}

var (
	sharedPool     *WorkerPool
	sharedPoolOnce sync.Once
)

// SharedPool returns the process-wide pool used by coordinators created
// without WithPool. It is started on first use and sized by
// DefaultPoolSize.
func SharedPool() *WorkerPool {
	sharedPoolOnce.Do(func() {
		sharedPool = NewWorkerPool()
	})
	return sharedPool
}
