package transform

import (
	"image/color"

	"github.com/gogpu/blur"
)

// Defaults used by New.
const (
	// DefaultBlurRadius is the blur radius in source pixels.
	DefaultBlurRadius = 25.0

	// DefaultDownsample is the automatic downsample factor. With it a
	// source-space radius of 25 becomes a kernel radius of about 10.
	DefaultDownsample = 2.52
)

// Direction selects where a progressive blur reaches full strength.
type Direction int

const (
	// TopToBottom is transparent at the top and fully blurred at the bottom.
	TopToBottom Direction = iota + 1
	BottomToTop
	LeftToRight
	RightToLeft
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case TopToBottom:
		return "top-to-bottom"
	case BottomToTop:
		return "bottom-to-top"
	case LeftToRight:
		return "left-to-right"
	case RightToLeft:
		return "right-to-left"
	default:
		return "none"
	}
}

// Option configures a Transformation.
type Option func(*options)

type options struct {
	radius      float64
	rounds      int
	downsample  float64
	overlay     color.Color
	corners     float64
	progressive Direction
	coordinator *blur.Coordinator
}

func defaultOptions() options {
	return options{
		radius:     DefaultBlurRadius,
		rounds:     blur.DefaultRounds,
		downsample: 0, // automatic
	}
}

// WithBlurRadius sets the blur radius in source pixels. Negative values are
// treated as zero, which still blurs with blur.MinRadius on the
// downsampled image.
func WithBlurRadius(r float64) Option {
	return func(o *options) {
		o.radius = max(r, 0)
	}
}

// WithBlurRounds sets the number of H+V pass pairs. It only applies to the
// coordinator the Transformation creates itself; an injected coordinator
// keeps its own setting.
func WithBlurRounds(n int) Option {
	return func(o *options) {
		o.rounds = n
	}
}

// WithDownsample fixes the downsample factor. Values below 1 other than
// zero are raised to 1 (no downsampling). Zero, the default, selects
// DefaultDownsample and grows it for radii that would exceed
// blur.MaxRadiusCompact after scaling.
func WithDownsample(f float64) Option {
	return func(o *options) {
		switch {
		case f <= 0:
			o.downsample = 0
		case f < 1:
			o.downsample = 1
		default:
			o.downsample = f
		}
	}
}

// WithOverlay composites c over the blurred image. In progressive mode the
// overlay fades in along the same gradient as the blur.
func WithOverlay(c color.Color) Option {
	return func(o *options) {
		o.overlay = c
	}
}

// WithCornerRadius clips the result to a rounded rectangle. The radius is
// capped at half the shorter side.
func WithCornerRadius(r float64) Option {
	return func(o *options) {
		o.corners = max(r, 0)
	}
}

// WithProgressive fades the blurred image in along d instead of covering the
// whole area uniformly.
func WithProgressive(d Direction) Option {
	return func(o *options) {
		o.progressive = d
	}
}

// WithCoordinator blurs with c instead of a coordinator created by New.
// The coordinator must not be used by other callers while Apply runs, or
// the blur step may be dropped as busy.
func WithCoordinator(c *blur.Coordinator) Option {
	return func(o *options) {
		o.coordinator = c
	}
}
