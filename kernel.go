package blur

import (
	"github.com/gogpu/blur/internal/filter"
	"github.com/gogpu/blur/internal/parallel"
)

// Direction selects which lines a pass walks.
type Direction int

const (
	// Horizontal passes blur along rows; stripes are bands of rows.
	Horizontal Direction = iota + 1
	// Vertical passes blur along columns; stripes are bands of columns.
	Vertical
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// Pass describes one stripe of one blur pass.
type Pass struct {
	ThreadCount int
	ThreadIndex int
	Direction   Direction
	Radius      int
}

// Span returns the half-open line range [start, end) this pass owns in a
// width x height image: rows for a horizontal pass, columns for a vertical
// one. The range is empty for an invalid descriptor.
func (p Pass) Span(width, height int) (start, end int) {
	n := height
	if p.Direction == Vertical {
		n = width
	} else if p.Direction != Horizontal {
		return 0, 0
	}
	s := parallel.Stripe(n, p.ThreadCount, p.ThreadIndex)
	return s.Start, s.End
}

// Kernel blurs the stripe described by pass in place. pix is a tightly packed
// RGBA buffer of width x height pixels. A kernel must only write the lines
// its stripe owns and only read within those lines, so sibling stripes can
// run concurrently on the same buffer.
type Kernel func(pix []uint8, width, height int, pass Pass)

// BoxKernel averages each pixel with its neighbours within Radius along the
// pass direction. The window is truncated at the image edges and divided by
// the number of pixels it actually covers.
func BoxKernel(pix []uint8, width, height int, pass Pass) {
	start, end := pass.Span(width, height)
	if start >= end {
		return
	}
	if pass.Direction == Horizontal {
		filter.BoxRows(pix, width, height, pass.Radius, start, end)
	} else {
		filter.BoxColumns(pix, width, height, pass.Radius, start, end)
	}
}

// StackKernel applies a stack blur: neighbours are weighted by
// Radius+1-distance and edge pixels are replicated. It approximates a
// Gaussian more closely than BoxKernel for the same radius.
func StackKernel(pix []uint8, width, height int, pass Pass) {
	start, end := pass.Span(width, height)
	if start >= end {
		return
	}
	if pass.Direction == Horizontal {
		filter.StackRows(pix, width, height, pass.Radius, start, end)
	} else {
		filter.StackColumns(pix, width, height, pass.Radius, start, end)
	}
}
