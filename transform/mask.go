package transform

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// gradientMask returns a linear alpha ramp that is transparent where d starts
// and opaque where it ends. Samples are taken at pixel centres.
func gradientMask(width, height int, d Direction) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	ramp := func(i, n int) uint8 {
		return uint8(math.Round(255 * (float64(i) + 0.5) / float64(n)))
	}

	for y := range height {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+width]
		for x := range row {
			switch d {
			case TopToBottom:
				row[x] = ramp(y, height)
			case BottomToTop:
				row[x] = ramp(height-1-y, height)
			case LeftToRight:
				row[x] = ramp(x, width)
			case RightToLeft:
				row[x] = ramp(width-1-x, width)
			default:
				row[x] = 0xff
			}
		}
	}
	return mask
}

// roundedRectMask rasterises a width x height rounded rectangle. The corner
// radius is capped at half the shorter side; a non-positive radius gives a
// plain rectangle.
func roundedRectMask(width, height int, radius float64) *image.Alpha {
	w, h := float32(width), float32(height)
	r := float32(min(radius, float64(min(width, height))/2))

	z := vector.NewRasterizer(width, height)
	if r <= 0 {
		z.MoveTo(0, 0)
		z.LineTo(w, 0)
		z.LineTo(w, h)
		z.LineTo(0, h)
	} else {
		c := r * kappa
		z.MoveTo(r, 0)
		z.LineTo(w-r, 0)
		z.CubeTo(w-r+c, 0, w, r-c, w, r)
		z.LineTo(w, h-r)
		z.CubeTo(w, h-r+c, w-r+c, h, w-r, h)
		z.LineTo(r, h)
		z.CubeTo(r-c, h, 0, h-r+c, 0, h-r)
		z.LineTo(0, r)
		z.CubeTo(0, r-c, r-c, 0, r, 0)
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// clip returns img with every pixel scaled by the mask's coverage.
func clip(img *image.RGBA, mask *image.Alpha) *image.RGBA {
	r := img.Bounds()
	out := image.NewRGBA(r)
	xdraw.DrawMask(out, r, img, r.Min, mask, mask.Bounds().Min, xdraw.Src)
	return out
}
