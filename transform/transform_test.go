package transform

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/blur"
)

func uniform(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func checkerboard(width, height, cell int) *image.RGBA {
	img := uniform(width, height, color.RGBA{A: 255})
	for y := range height {
		for x := range width {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return img
}

func variance(img *image.RGBA) float64 {
	var sum, sumSq float64
	n := 0
	for i := 0; i < len(img.Pix); i += 4 {
		v := float64(img.Pix[i])
		sum += v
		sumSq += v * v
		n++
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

func testPool(t *testing.T) *blur.WorkerPool {
	t.Helper()
	p := blur.NewWorkerPool(blur.WithPoolSize(2))
	t.Cleanup(p.Shutdown)
	return p
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name          string
		opts          []Option
		width, height int
		want          scale
	}{
		{"default radius", nil, 100, 100, scale{DefaultDownsample, 10, 40, 40}},
		{"large radius grows the factor", []Option{WithBlurRadius(100)}, 100, 100, scale{4, 25, 25, 25}},
		{"explicit factor keeps the radius", []Option{WithDownsample(4), WithBlurRadius(200)}, 100, 60, scale{4, 50, 25, 15}},
		{"factor below one", []Option{WithDownsample(0.5), WithBlurRadius(6)}, 30, 20, scale{1, 6, 30, 20}},
		{"tiny image", nil, 1, 2, scale{DefaultDownsample, 10, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.opts...).plan(tt.width, tt.height)
			if got.radius != tt.want.radius || got.width != tt.want.width || got.height != tt.want.height {
				t.Errorf("plan() = %+v, want %+v", got, tt.want)
			}
			if diff := got.factor - tt.want.factor; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("factor = %v, want %v", got.factor, tt.want.factor)
			}
		})
	}
}

func TestApplyEmptyImage(t *testing.T) {
	_, err := New().Apply(image.NewRGBA(image.Rectangle{}))
	if !errors.Is(err, blur.ErrEmptyImage) {
		t.Errorf("Apply(empty) error = %v, want ErrEmptyImage", err)
	}
}

func TestApplyUniformUnchanged(t *testing.T) {
	c := color.RGBA{R: 90, G: 160, B: 200, A: 255}
	src := uniform(37, 23, c)

	out, err := New(WithCoordinator(blur.New(blur.WithPool(testPool(t))))).Apply(src)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 37, 23) {
		t.Fatalf("Bounds() = %v, want 37x23 at origin", out.Bounds())
	}
	for y := range 23 {
		for x := range 37 {
			if got := out.RGBAAt(x, y); got != c {
				t.Fatalf("RGBAAt(%d,%d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestApplyOffsetBounds(t *testing.T) {
	src := uniform(20, 10, color.RGBA{R: 255, A: 255}).SubImage(image.Rect(5, 2, 15, 8))

	out, err := New().Apply(src)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 10, 6) {
		t.Errorf("Bounds() = %v, want (0,0)-(10,6)", out.Bounds())
	}
}

func TestApplySmooths(t *testing.T) {
	coord := blur.New(blur.WithPool(testPool(t)))
	src := checkerboard(120, 80, 8)

	out, err := New(WithCoordinator(coord), WithBlurRadius(30)).Apply(src)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if after, before := variance(out), variance(src); after > before*0.1 {
		t.Errorf("variance %.1f -> %.1f, want a reduction of more than 90%%", before, after)
	}
	if coord.Stats().Completed != 1 {
		t.Errorf("injected coordinator Completed = %d, want 1", coord.Stats().Completed)
	}
}

func TestApplyOverlay(t *testing.T) {
	src := uniform(16, 16, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	out, err := New(WithOverlay(color.RGBA{A: 128})).Apply(src)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got := out.RGBAAt(8, 8)
	if got.R < 126 || got.R > 128 || got.A != 255 {
		t.Errorf("RGBAAt(8,8) = %v, want about half-darkened opaque white", got)
	}
}

func TestApplyCornerRadius(t *testing.T) {
	src := uniform(40, 30, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	out, err := New(WithCornerRadius(10)).Apply(src)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for _, p := range []image.Point{{0, 0}, {39, 0}, {0, 29}, {39, 29}} {
		if a := out.RGBAAt(p.X, p.Y).A; a != 0 {
			t.Errorf("corner %v alpha = %d, want 0", p, a)
		}
	}
	for _, p := range []image.Point{{20, 15}, {20, 0}, {0, 15}} {
		if a := out.RGBAAt(p.X, p.Y).A; a < 250 {
			t.Errorf("inside %v alpha = %d, want opaque", p, a)
		}
	}
}

func TestApplyProgressive(t *testing.T) {
	src := uniform(20, 40, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	tests := []struct {
		d             Direction
		faint, strong image.Point
	}{
		{TopToBottom, image.Pt(10, 0), image.Pt(10, 39)},
		{BottomToTop, image.Pt(10, 39), image.Pt(10, 0)},
		{LeftToRight, image.Pt(0, 20), image.Pt(19, 20)},
		{RightToLeft, image.Pt(19, 20), image.Pt(0, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			out, err := New(WithProgressive(tt.d)).Apply(src)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if a := out.RGBAAt(tt.faint.X, tt.faint.Y).A; a > 15 {
				t.Errorf("start %v alpha = %d, want nearly transparent", tt.faint, a)
			}
			if a := out.RGBAAt(tt.strong.X, tt.strong.Y).A; a < 240 {
				t.Errorf("end %v alpha = %d, want nearly opaque", tt.strong, a)
			}
		})
	}
}

func TestGradientMask(t *testing.T) {
	m := gradientMask(1, 4, TopToBottom)
	want := []uint8{32, 96, 159, 223}
	for y, w := range want {
		if got := m.AlphaAt(0, y).A; got != w {
			t.Errorf("AlphaAt(0,%d) = %d, want %d", y, got, w)
		}
	}
}

func TestRoundedRectMaskCapsRadius(t *testing.T) {
	// A radius far above half the side turns a square into a circle.
	m := roundedRectMask(20, 20, 1000)
	if a := m.AlphaAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	if a := m.AlphaAt(10, 10).A; a < 250 {
		t.Errorf("centre alpha = %d, want opaque", a)
	}
	if a := m.AlphaAt(10, 0).A; a == 0 {
		t.Error("top-centre should be inside the circle")
	}

	plain := roundedRectMask(6, 4, 0)
	for y := range 4 {
		for x := range 6 {
			if a := plain.AlphaAt(x, y).A; a < 250 {
				t.Fatalf("plain mask (%d,%d) alpha = %d, want opaque", x, y, a)
			}
		}
	}
}

func TestKey(t *testing.T) {
	a := New(WithBlurRadius(20), WithCornerRadius(4))
	b := New(WithBlurRadius(20), WithCornerRadius(4))
	c := New(WithBlurRadius(21), WithCornerRadius(4))
	d := New(WithBlurRadius(20), WithCornerRadius(4), WithOverlay(color.RGBA{R: 255, A: 255}))

	if a.Key() != b.Key() {
		t.Errorf("equal settings gave different keys:\n%s\n%s", a.Key(), b.Key())
	}
	if a.Key() == c.Key() || a.Key() == d.Key() {
		t.Error("different settings gave the same key")
	}
	if !strings.HasPrefix(a.Key(), keyPrefix) {
		t.Errorf("Key() = %q, want prefix %q", a.Key(), keyPrefix)
	}
	if !strings.Contains(d.Key(), "overlay=#ff0000ff") {
		t.Errorf("Key() = %q, want the overlay colour", d.Key())
	}
}

func TestEqual(t *testing.T) {
	a := New(WithBlurRadius(20))
	if !a.Equal(New(WithBlurRadius(20.005))) {
		t.Error("radii within 0.01 should be equal")
	}
	if a.Equal(New(WithBlurRadius(20.5))) {
		t.Error("radii 0.5 apart should differ")
	}
	if a.Equal(New(WithBlurRadius(20), WithProgressive(LeftToRight))) {
		t.Error("progressive and uniform should differ")
	}
	if a.Equal(nil) {
		t.Error("Equal(nil) = true")
	}
}

func BenchmarkApply(b *testing.B) {
	src := checkerboard(1080, 720, 16)
	tr := New(WithBlurRadius(40), WithOverlay(color.RGBA{A: 40}), WithCornerRadius(24))
	for b.Loop() {
		if _, err := tr.Apply(src); err != nil {
			b.Fatal(err)
		}
	}
}

func TestApplyWarnsWhenBlurSkipped(t *testing.T) {
	orig := blur.Logger()
	t.Cleanup(func() { blur.SetLogger(orig) })
	var logs strings.Builder
	blur.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))

	pool := blur.NewWorkerPool(blur.WithPoolSize(2))
	coord := blur.New(blur.WithPool(pool))
	pool.Shutdown()

	src := checkerboard(40, 40, 4)
	out, err := New(WithCoordinator(coord)).Apply(src)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Bounds() != src.Bounds() {
		t.Errorf("Bounds() = %v, want %v", out.Bounds(), src.Bounds())
	}
	if !strings.Contains(logs.String(), "blur skipped") {
		t.Errorf("expected a warning, got: %q", logs.String())
	}
}
