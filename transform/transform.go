// Package transform blurs image.Image values with a downsample, blur,
// upscale pipeline, optionally tinted, faded along a gradient and clipped
// to rounded corners.
//
// Blurring a downsampled copy and scaling it back up costs a fraction of a
// full-resolution blur for the same visual radius:
//
//	t := transform.New(
//		transform.WithBlurRadius(40),
//		transform.WithOverlay(color.RGBA{A: 64}),
//		transform.WithCornerRadius(16),
//	)
//	out, err := t.Apply(img)
package transform

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/gogpu/blur"
	xdraw "golang.org/x/image/draw"
)

// keyPrefix identifies Transformation cache keys.
const keyPrefix = "github.com/gogpu/blur/transform.Transformation"

// Transformation is a reusable blur pipeline. It is safe for concurrent use;
// concurrent Apply calls share the scaling work but take turns on the blur
// step.
type Transformation struct {
	opts  options
	coord *blur.Coordinator

	// mu pairs each Prepare with its Blur on the shared coordinator.
	mu sync.Mutex
}

// New creates a Transformation.
func New(opts ...Option) *Transformation {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	coord := o.coordinator
	if coord == nil {
		coord = blur.New(blur.WithRounds(o.rounds))
	}
	return &Transformation{opts: o, coord: coord}
}

// scale describes the downsampled blur for one source size.
type scale struct {
	factor        float64
	radius        int
	width, height int
}

// plan picks the downsample factor and the kernel radius for a source of
// width x height pixels.
func (t *Transformation) plan(width, height int) scale {
	factor := t.opts.downsample
	auto := factor <= 0
	if auto {
		factor = DefaultDownsample
	}

	radius := t.opts.radius / factor
	if auto && radius > blur.MaxRadiusCompact {
		factor *= radius / blur.MaxRadiusCompact
		radius = blur.MaxRadiusCompact
	}

	return scale{
		factor: factor,
		radius: int(math.Round(radius)),
		width:  max(1, int(math.Round(float64(width)/factor))),
		height: max(1, int(math.Round(float64(height)/factor))),
	}
}

// Apply returns a blurred copy of img with bounds starting at (0, 0) and the
// same size as img.
func (t *Transformation) Apply(img image.Image) (*image.RGBA, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, blur.ErrEmptyImage
	}
	width, height := bounds.Dx(), bounds.Dy()
	s := t.plan(width, height)

	small := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	xdraw.BiLinear.Scale(small, small.Bounds(), img, bounds, xdraw.Src, nil)

	buf, err := blur.WrapPixels(s.width, s.height, small.Pix)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	t.mu.Lock()
	done := t.coord.Stats().Completed
	t.coord.Prepare(buf, s.radius)
	t.coord.Blur(buf, buf)
	skipped := t.coord.Stats().Completed == done
	t.mu.Unlock()

	if skipped {
		blur.Logger().Warn("transform: blur skipped, output is only rescaled",
			"width", width, "height", height, "radius", s.radius)
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)

	if t.opts.progressive.valid() {
		out = t.fade(out)
	} else if t.opts.overlay != nil {
		xdraw.Draw(out, out.Bounds(), image.NewUniform(t.opts.overlay), image.Point{}, xdraw.Over)
	}

	if t.opts.corners > 0 {
		out = clip(out, roundedRectMask(width, height, t.opts.corners))
	}
	return out, nil
}

// fade applies the progressive gradient to the blurred image and the overlay.
func (t *Transformation) fade(img *image.RGBA) *image.RGBA {
	r := img.Bounds()
	mask := gradientMask(r.Dx(), r.Dy(), t.opts.progressive)

	out := image.NewRGBA(r)
	xdraw.DrawMask(out, r, img, image.Point{}, mask, image.Point{}, xdraw.Src)
	if t.opts.overlay != nil {
		xdraw.DrawMask(out, r, image.NewUniform(t.opts.overlay), image.Point{}, mask, image.Point{}, xdraw.Over)
	}
	return out
}

// Key returns a stable identifier of the transformation's settings, suitable
// as an image cache key. Transformations with equal keys produce identical
// output for the same input.
func (t *Transformation) Key() string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	b.WriteString(";radius=")
	b.WriteString(strconv.FormatFloat(t.opts.radius, 'g', -1, 64))
	b.WriteString(";corners=")
	b.WriteString(strconv.FormatFloat(t.opts.corners, 'g', -1, 64))
	b.WriteString(";downsample=")
	if t.opts.downsample > 0 {
		b.WriteString(strconv.FormatFloat(t.opts.downsample, 'g', -1, 64))
	} else {
		b.WriteString("auto")
	}
	b.WriteString(";rounds=")
	b.WriteString(strconv.Itoa(t.coord.BlurRounds()))
	b.WriteString(";max=")
	b.WriteString(strconv.Itoa(t.coord.MaxRadius()))
	b.WriteString(";overlay=")
	b.WriteString(colorKey(t.opts.overlay))
	b.WriteString(";progressive=")
	if t.opts.progressive.valid() {
		b.WriteString(t.opts.progressive.String())
	} else {
		b.WriteString("none")
	}
	return b.String()
}

// Equal reports whether t and other produce the same output. Radii within
// 0.01 of each other are considered equal.
func (t *Transformation) Equal(other *Transformation) bool {
	if t == nil || other == nil {
		return t == other
	}
	near := func(a, b float64) bool { return math.Abs(a-b) < 0.01 }
	return near(t.opts.radius, other.opts.radius) &&
		near(t.opts.corners, other.opts.corners) &&
		near(t.opts.downsample, other.opts.downsample) &&
		t.coord.BlurRounds() == other.coord.BlurRounds() &&
		t.coord.MaxRadius() == other.coord.MaxRadius() &&
		colorKey(t.opts.overlay) == colorKey(other.opts.overlay) &&
		t.opts.progressive.valid() == other.opts.progressive.valid() &&
		(!t.opts.progressive.valid() || t.opts.progressive == other.opts.progressive)
}

func colorKey(c color.Color) string {
	if c == nil {
		return "none"
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", rgba.R, rgba.G, rgba.B, rgba.A)
}

func (d Direction) valid() bool {
	return d >= TopToBottom && d <= RightToLeft
}
