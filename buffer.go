package blur

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"
)

// PixelBuffer is a rectangular RGBA pixel buffer, 4 bytes per pixel,
// stored row-major with no padding between rows.
//
// The channel layout matches [image.RGBA]: colors are alpha-premultiplied.
// The blur kernels treat all four channels alike, so straight-alpha data
// works too as long as the caller interprets the result the same way.
type PixelBuffer struct {
	width    int
	height   int
	data     []uint8
	released atomic.Bool
}

// NewPixelBuffer creates a zeroed (transparent) buffer.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}, nil
}

// WrapPixels creates a buffer over existing pixel data without copying.
// The caller must not resize pix while the buffer is in use.
func WrapPixels(width, height int, pix []uint8) (*PixelBuffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferSize, len(pix), width, height)
	}
	return &PixelBuffer{width: width, height: height, data: pix}, nil
}

// FromImage copies img into a new buffer. Images that are already
// *image.RGBA with a tight stride are copied directly; anything else is
// converted through x/image/draw.
func FromImage(img image.Image) (*PixelBuffer, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	b, err := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == b.width*4 {
		copy(b.data, rgba.Pix)
		return b, nil
	}

	dst := b.view()
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	return b, nil
}

// view returns an *image.RGBA sharing the buffer's memory.
func (b *PixelBuffer) view() *image.RGBA {
	return &image.RGBA{
		Pix:    b.data,
		Stride: b.width * 4,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// Width returns the width of the buffer.
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height returns the height of the buffer.
func (b *PixelBuffer) Height() int {
	return b.height
}

// Stride returns the number of bytes per row.
func (b *PixelBuffer) Stride() int {
	return b.width * 4
}

// Data returns the raw pixel data (RGBA format).
func (b *PixelBuffer) Data() []uint8 {
	return b.data
}

// Valid reports whether b can take part in a blur: it is non-nil, has not
// been released and its data matches its dimensions.
func (b *PixelBuffer) Valid() bool {
	return b != nil &&
		!b.released.Load() &&
		b.width >= 1 && b.height >= 1 &&
		len(b.data) == b.width*b.height*4
}

// Release marks the buffer as no longer usable. Blur and Prepare treat a
// released buffer like a missing one. Release is idempotent.
func (b *PixelBuffer) Release() {
	if b != nil {
		b.released.Store(true)
	}
}

// Released reports whether Release has been called.
func (b *PixelBuffer) Released() bool {
	return b != nil && b.released.Load()
}

// SameSize reports whether b and other have identical dimensions.
func (b *PixelBuffer) SameSize(other *PixelBuffer) bool {
	return b != nil && other != nil && b.width == other.width && b.height == other.height
}

// SetPixel sets the color of a single pixel.
// Out-of-bounds coordinates are silently ignored.
func (b *PixelBuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.data[i+0] = c.R
	b.data[i+1] = c.G
	b.data[i+2] = c.B
	b.data[i+3] = c.A
}

// PixelAt returns the color of a single pixel, or transparent black for
// out-of-bounds coordinates.
func (b *PixelBuffer) PixelAt(x, y int) color.RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	i := (y*b.width + x) * 4
	return color.RGBA{R: b.data[i+0], G: b.data[i+1], B: b.data[i+2], A: b.data[i+3]}
}

// Fill sets every pixel to c.
func (b *PixelBuffer) Fill(c color.RGBA) {
	for i := 0; i < len(b.data); i += 4 {
		b.data[i+0] = c.R
		b.data[i+1] = c.G
		b.data[i+2] = c.B
		b.data[i+3] = c.A
	}
}

// Clear sets every byte to zero (transparent black).
func (b *PixelBuffer) Clear() {
	clear(b.data)
}

// Clone returns a deep copy of the buffer. The copy is never released.
func (b *PixelBuffer) Clone() *PixelBuffer {
	data := make([]uint8, len(b.data))
	copy(data, b.data)
	return &PixelBuffer{width: b.width, height: b.height, data: data}
}

// ToImage converts the buffer to an image.RGBA. The pixels are copied.
func (b *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}

// SavePNG saves the buffer to a PNG file.
func (b *PixelBuffer) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, b.view())
}

// At implements the image.Image interface.
func (b *PixelBuffer) At(x, y int) color.Color {
	return b.PixelAt(x, y)
}

// Bounds implements the image.Image interface.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *PixelBuffer) ColorModel() color.Model {
	return color.RGBAModel
}
