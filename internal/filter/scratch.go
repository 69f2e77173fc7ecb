package filter

import "sync"

// lineBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type lineBuffer struct {
	data []uint8
}

var linePool = sync.Pool{
	New: func() any {
		return &lineBuffer{}
	},
}

// getLine returns scratch room for n RGBA pixels.
func getLine(n int) *lineBuffer {
	buf := linePool.Get().(*lineBuffer)
	size := n * 4
	if cap(buf.data) < size {
		buf.data = make([]uint8, size)
	} else {
		buf.data = buf.data[:size]
	}
	return buf
}

// putLine returns a scratch line to the pool.
func putLine(buf *lineBuffer) {
	// Only pool reasonably-sized lines
	if cap(buf.data) <= 64*1024*4 {
		linePool.Put(buf)
	}
}

// loadColumn gathers column x of pix into line.
func loadColumn(line, pix []uint8, x, width, height int) {
	stride := width * 4
	for y := range height {
		s := y*stride + x*4
		d := y * 4
		copy(line[d:d+4], pix[s:s+4])
	}
}
