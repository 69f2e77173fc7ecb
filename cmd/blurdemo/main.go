// Command blurdemo blurs an image file, or a generated checkerboard, with the
// blur library and writes the result.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/blur"
	"github.com/gogpu/blur/transform"

	_ "golang.org/x/image/webp"
)

func main() {
	var (
		input       = flag.String("input", "", "input image (png, jpeg, gif, bmp, tiff, webp); empty generates a checkerboard")
		output      = flag.String("output", "blurred.png", "output file, format chosen by extension")
		width       = flag.Int("width", 800, "generated image width")
		height      = flag.Int("height", 600, "generated image height")
		radius      = flag.Float64("radius", transform.DefaultBlurRadius, "blur radius in source pixels")
		rounds      = flag.Int("rounds", blur.DefaultRounds, "horizontal+vertical pass pairs (1-15)")
		kernel      = flag.String("kernel", "box", "blur kernel: box or stack")
		maxRadius   = flag.Int("max-radius", blur.DefaultMaxRadius, "radius ceiling (25 or 100)")
		threads     = flag.Int("threads", 0, "worker pool size; 0 picks from the CPU count")
		raw         = flag.Bool("raw", false, "blur at full resolution without downsampling or effects")
		downsample  = flag.Float64("downsample", 0, "downsample factor; 0 is automatic")
		corner      = flag.Float64("corner", 0, "corner radius of the result")
		overlay     = flag.String("overlay", "", "overlay colour as #rrggbb or #rrggbbaa")
		progressive = flag.String("progressive", "", "progressive direction: top-to-bottom, bottom-to-top, left-to-right, right-to-left")
		verbose     = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	blur.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	k, err := parseKernel(*kernel)
	if err != nil {
		log.Fatalf("Invalid -kernel: %v", err)
	}

	src, err := loadSource(*input, *width, *height)
	if err != nil {
		log.Fatalf("Failed to load input: %v", err)
	}

	pool := blur.NewWorkerPool(blur.WithPoolSize(*threads), blur.WithPoolName("blurdemo"))
	defer pool.Shutdown()

	coord := blur.New(
		blur.WithPool(pool),
		blur.WithMaxRadius(*maxRadius),
		blur.WithKernel(k),
		blur.WithRounds(*rounds),
	)

	start := time.Now()
	var result image.Image
	if *raw {
		result, err = blurRaw(coord, src, *radius)
	} else {
		var opts []transform.Option
		opts, err = transformOptions(*radius, *downsample, *corner, *overlay, *progressive)
		if err == nil {
			opts = append(opts, transform.WithCoordinator(coord))
			result, err = transform.New(opts...).Apply(src)
		}
	}
	if err != nil {
		log.Fatalf("Failed to blur: %v", err)
	}
	elapsed := time.Since(start)

	if stats := coord.Stats(); stats.Completed == 0 {
		log.Printf("Blur was skipped (%+v)", stats)
	}

	if err := imaging.Save(result, *output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	b := result.Bounds()
	p := message.NewPrinter(language.English)
	p.Printf("Saved %s: %dx%d, %d pixels, %d rounds on %d workers in %v\n",
		*output, b.Dx(), b.Dy(), b.Dx()*b.Dy(), coord.BlurRounds(), pool.Size(), elapsed.Round(time.Microsecond))
}

// loadSource opens path, or generates a checkerboard when path is empty.
func loadSource(path string, width, height int) (image.Image, error) {
	if path == "" {
		if width < 1 || height < 1 {
			return nil, fmt.Errorf("%w: got %dx%d", blur.ErrInvalidDimensions, width, height)
		}
		img := imaging.New(width, height, color.White)
		for y := range height {
			for x := range width {
				if (x/32+y/32)%2 == 0 {
					img.Set(x, y, color.NRGBA{R: 40, G: 90, B: 160, A: 255})
				}
			}
		}
		return img, nil
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

// blurRaw blurs src at full resolution.
func blurRaw(c *blur.Coordinator, src image.Image, radius float64) (image.Image, error) {
	buf, err := blur.FromImage(src)
	if err != nil {
		return nil, err
	}
	c.Prepare(buf, int(math.Round(radius)))
	c.Blur(buf, buf)
	return buf, nil
}

func transformOptions(radius, downsample, corner float64, overlay, progressive string) ([]transform.Option, error) {
	opts := []transform.Option{
		transform.WithBlurRadius(radius),
		transform.WithDownsample(downsample),
		transform.WithCornerRadius(corner),
	}
	if overlay != "" {
		c, err := parseColor(overlay)
		if err != nil {
			return nil, err
		}
		opts = append(opts, transform.WithOverlay(c))
	}
	if progressive != "" {
		d, err := parseDirection(progressive)
		if err != nil {
			return nil, err
		}
		opts = append(opts, transform.WithProgressive(d))
	}
	return opts, nil
}

func parseKernel(name string) (blur.Kernel, error) {
	switch strings.ToLower(name) {
	case "box":
		return blur.BoxKernel, nil
	case "stack":
		return blur.StackKernel, nil
	default:
		return nil, fmt.Errorf("unknown kernel %q", name)
	}
}

// parseColor parses #rrggbb or #rrggbbaa as a non-premultiplied colour.
func parseColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseDirection(s string) (transform.Direction, error) {
	for _, d := range []transform.Direction{
		transform.TopToBottom, transform.BottomToTop, transform.LeftToRight, transform.RightToLeft,
	} {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown progressive direction %q", s)
}
