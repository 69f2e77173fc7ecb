package blur

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/blur/internal/parallel"
)

// Coordinator runs multi-round blurs on a worker pool.
//
// Each round is a horizontal pass followed by a vertical pass over the whole
// image. A pass is split into stripes, one task per stripe, and the next pass
// starts only after every stripe of the current one has finished.
//
// At most one Blur runs per coordinator at a time. A Blur that arrives while
// another is in flight returns immediately without touching its buffers.
//
// Thread safety: all methods are safe for concurrent use.
type Coordinator struct {
	pool      *WorkerPool
	kernel    Kernel
	threads   int
	maxRadius int

	radius atomic.Int32
	rounds atomic.Int32
	busy   atomic.Bool

	completed      atomic.Uint64
	droppedBusy    atomic.Uint64
	droppedInvalid atomic.Uint64
	failedStripes  atomic.Uint64
}

// Stats holds coordinator counters since creation.
type Stats struct {
	// Completed counts blurs that ran to the end, including those in which
	// some stripes failed.
	Completed uint64
	// DroppedBusy counts blurs skipped because another was in flight.
	DroppedBusy uint64
	// DroppedInvalid counts blurs skipped because of missing, released or
	// mismatched buffers, or a pool that was shut down.
	DroppedInvalid uint64
	// FailedStripes counts stripe tasks that panicked or could not be queued.
	FailedStripes uint64
}

// New creates a coordinator. Without WithPool it runs on SharedPool.
func New(opts ...Option) *Coordinator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pool := o.pool
	if pool == nil {
		pool = SharedPool()
	}
	threads := o.threads
	if threads < 1 {
		threads = pool.Size()
	}

	c := &Coordinator{
		pool:      pool,
		kernel:    o.kernel,
		threads:   threads,
		maxRadius: min(max(o.maxRadius, MinRadius), MaxRadiusExtended),
	}

	radius := o.radius
	if radius == 0 {
		radius = c.maxRadius
	}
	c.radius.Store(int32(c.clampRadius(radius))) //nolint:gosec // clamped to MaxRadiusExtended
	c.SetBlurRounds(o.rounds)
	return c
}

func (c *Coordinator) clampRadius(r int) int {
	return min(max(r, MinRadius), c.maxRadius)
}

// Prepare clamps radius into [MinRadius, MaxRadius] and stores it for the
// next Blur. It reports false, and changes nothing, when buf is nil or
// released. Repeated calls do not accumulate; the last one wins.
func (c *Coordinator) Prepare(buf *PixelBuffer, radius int) bool {
	if buf == nil || buf.Released() {
		return false
	}
	c.radius.Store(int32(c.clampRadius(radius))) //nolint:gosec // clamped to MaxRadiusExtended
	return true
}

// Radius returns the radius the next Blur will use.
func (c *Coordinator) Radius() int {
	return int(c.radius.Load())
}

// MaxRadius returns the radius ceiling of this coordinator.
func (c *Coordinator) MaxRadius() int {
	return c.maxRadius
}

// Threads returns the number of stripes each pass is split into.
func (c *Coordinator) Threads() int {
	return c.threads
}

// SetBlurRounds sets the number of H+V pass pairs, clamped into
// [MinRounds, MaxRounds].
func (c *Coordinator) SetBlurRounds(n int) {
	c.rounds.Store(int32(min(max(n, MinRounds), MaxRounds))) //nolint:gosec // clamped to MaxRounds
}

// BlurRounds returns the number of H+V pass pairs the next Blur will run.
func (c *Coordinator) BlurRounds() int {
	return int(c.rounds.Load())
}

// Busy reports whether a Blur is in flight.
func (c *Coordinator) Busy() bool {
	return c.busy.Load()
}

// Release detaches the coordinator from its caller. The worker pool is not
// affected; pools are stopped only through WorkerPool.Shutdown.
func (c *Coordinator) Release() {}

// Stats returns a snapshot of the coordinator counters.
func (c *Coordinator) Stats() Stats {
	return Stats{
		Completed:      c.completed.Load(),
		DroppedBusy:    c.droppedBusy.Load(),
		DroppedInvalid: c.droppedInvalid.Load(),
		FailedStripes:  c.failedStripes.Load(),
	}
}

// Blur blurs input into output. When they are distinct buffers, output is
// overwritten with input first and blurred in place; input is left
// untouched. The same buffer may be passed twice to blur in place.
//
// Blur never fails loudly. It does nothing when either buffer is nil,
// released or of a different size than the other, when the pool has been
// shut down, or when another Blur on this coordinator is in flight. A
// stripe that panics leaves its lines unblurred for that pass; the failure
// is logged at debug level and the remaining passes still run.
//
// The radius and round count are read once on entry, so Prepare and
// SetBlurRounds calls made during a blur apply to the next one.
func (c *Coordinator) Blur(input, output *PixelBuffer) {
	if !input.Valid() || !output.Valid() || !input.SameSize(output) {
		c.droppedInvalid.Add(1)
		Logger().Debug("blur: invalid buffers, skipping")
		return
	}
	if !c.pool.IsRunning() {
		c.droppedInvalid.Add(1)
		Logger().Debug("blur: worker pool is shut down, skipping", "pool", c.pool.Name())
		return
	}

	if !c.busy.CompareAndSwap(false, true) {
		c.droppedBusy.Add(1)
		Logger().Debug("blur: busy, dropping request")
		return
	}
	defer c.busy.Store(false)
	defer func() {
		if r := recover(); r != nil {
			Logger().Debug("blur: recovered panic", "panic", r)
		}
	}()

	radius := int(c.radius.Load())
	rounds := int(c.rounds.Load())
	width, height := output.width, output.height
	pix := output.data

	if input != output {
		output.Clear()
		copy(pix, input.data)
	}

	var errs []error
passes:
	for range rounds {
		for _, dir := range [...]Direction{Horizontal, Vertical} {
			err := c.pass(pix, width, height, dir, radius)
			if err == nil {
				continue
			}
			errs = append(errs, err)
			if errors.Is(err, ErrPoolClosed) {
				break passes
			}
		}
	}

	if len(errs) > 0 {
		Logger().Debug("blur: stripes failed",
			"radius", radius, "rounds", rounds, "err", errors.Join(errs...))
	}
	c.completed.Add(1)
}

// pass runs one direction over the whole image and returns once every stripe
// has finished. Failed stripes are reported together.
func (c *Coordinator) pass(pix []uint8, width, height int, dir Direction, radius int) error {
	task := func(index int) parallel.Task {
		p := Pass{ThreadCount: c.threads, ThreadIndex: index, Direction: dir, Radius: radius}
		return func() error {
			c.kernel(pix, width, height, p)
			return nil
		}
	}

	var results []error
	if c.threads == 1 {
		results = []error{parallel.Run(task(0))}
	} else {
		tasks := make([]parallel.Task, c.threads)
		for i := range tasks {
			tasks[i] = task(i)
		}
		results = c.pool.execute(tasks)
	}

	var failed []error
	for i, err := range results {
		if err != nil {
			c.failedStripes.Add(1)
			failed = append(failed, fmt.Errorf("blur: %s stripe %d/%d: %w", dir, i, c.threads, err))
		}
	}
	return errors.Join(failed...)
}
