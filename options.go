package blur

// Radius and round limits.
const (
	// MinRadius is the smallest radius a coordinator will blur with.
	MinRadius = 2

	// MaxRadiusCompact is the radius ceiling of the compact configuration.
	MaxRadiusCompact = 25

	// MaxRadiusExtended is the radius ceiling of the extended configuration
	// and the largest value WithMaxRadius accepts.
	MaxRadiusExtended = 100

	// DefaultMaxRadius is the ceiling used when WithMaxRadius is not given.
	DefaultMaxRadius = MaxRadiusCompact

	MinRounds     = 1
	MaxRounds     = 15
	DefaultRounds = 2
)

// Option configures a Coordinator during creation.
//
// Example:
//
//	// Default: shared pool, box kernel, radius ceiling 25
//	c := blur.New()
//
//	// Dedicated pool and the extended radius range
//	pool := blur.NewWorkerPool(blur.WithPoolSize(4))
//	defer pool.Shutdown()
//	c := blur.New(blur.WithPool(pool), blur.WithMaxRadius(blur.MaxRadiusExtended))
type Option func(*options)

// options holds optional configuration for Coordinator creation.
type options struct {
	pool      *WorkerPool
	threads   int
	maxRadius int
	radius    int
	rounds    int
	kernel    Kernel
}

// defaultOptions returns the default coordinator options.
func defaultOptions() options {
	return options{
		pool:      nil, // SharedPool
		threads:   0,   // pool size
		maxRadius: DefaultMaxRadius,
		radius:    0, // maxRadius
		rounds:    DefaultRounds,
		kernel:    BoxKernel,
	}
}

// WithPool runs the coordinator's stripes on p instead of SharedPool.
// The caller owns p and is responsible for shutting it down.
func WithPool(p *WorkerPool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithThreads sets how many stripes each pass is split into.
// It defaults to the pool size. A value of 1 runs every pass on the
// calling goroutine.
func WithThreads(n int) Option {
	return func(o *options) {
		o.threads = n
	}
}

// WithMaxRadius sets the radius ceiling, normally MaxRadiusCompact or
// MaxRadiusExtended. The value is clamped into [MinRadius, MaxRadiusExtended].
func WithMaxRadius(r int) Option {
	return func(o *options) {
		o.maxRadius = r
	}
}

// WithRadius sets the initial radius. Without it a coordinator starts at its
// radius ceiling until Prepare is called.
func WithRadius(r int) Option {
	return func(o *options) {
		o.radius = r
	}
}

// WithRounds sets the initial number of H+V pass pairs.
func WithRounds(n int) Option {
	return func(o *options) {
		o.rounds = n
	}
}

// WithKernel replaces the per-stripe kernel. The default is BoxKernel.
func WithKernel(k Kernel) Option {
	return func(o *options) {
		if k != nil {
			o.kernel = k
		}
	}
}
