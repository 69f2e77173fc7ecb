package filter

import "testing"

// naiveStack is the O(n*r) reference for a stack pass with replicated edges.
func naiveStack(src []uint8, width, height, radius int, horizontal bool) []uint8 {
	dst := make([]uint8, len(src))
	div := (radius + 1) * (radius + 1)
	for y := range height {
		for x := range width {
			for c := range 4 {
				sum := 0
				for k := -radius; k <= radius; k++ {
					sx, sy := x, y
					if horizontal {
						sx = min(max(x+k, 0), width-1)
					} else {
						sy = min(max(y+k, 0), height-1)
					}
					sum += (radius + 1 - abs(k)) * int(src[(sy*width+sx)*4+c])
				}
				dst[(y*width+x)*4+c] = uint8((sum + div/2) / div)
			}
		}
	}
	return dst
}

func TestStackMatchesReference(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		radius        int
	}{
		{"radius one", 12, 9, 1},
		{"square", 16, 16, 3},
		{"wide", 50, 6, 7},
		{"radius larger than image", 5, 4, 12},
		{"two pixels", 2, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := randomBuffer(tt.width, tt.height, uint64(tt.radius*7+tt.width))

			rows := append([]uint8(nil), src...)
			StackRows(rows, tt.width, tt.height, tt.radius, 0, tt.height)
			equalPix(t, rows, naiveStack(src, tt.width, tt.height, tt.radius, true), tt.width)

			cols := append([]uint8(nil), src...)
			StackColumns(cols, tt.width, tt.height, tt.radius, 0, tt.width)
			equalPix(t, cols, naiveStack(src, tt.width, tt.height, tt.radius, false), tt.width)
		})
	}
}

func TestStackReplicatesEdges(t *testing.T) {
	// A single black pixel at the left edge of a white row. With replicated
	// edges the black pixel counts r+1 times on the left, so the first
	// output is darker than the truncated box would make it.
	pix := newBuffer(5, 1, 255)
	pix[0], pix[1], pix[2] = 0, 0, 0

	StackRows(pix, 5, 1, 1, 0, 1)

	// Weights 1,2,1 over (black, black, white): 255/4 rounded.
	if got := pix[0]; got != 64 {
		t.Errorf("edge pixel = %d, want 64", got)
	}
	// Weights 1,2,1 over (black, white, white): 765/4 rounded.
	if got := pix[4]; got != 191 {
		t.Errorf("second pixel = %d, want 191", got)
	}
}

func TestStackUniformUnchanged(t *testing.T) {
	pix := newBuffer(11, 6, 200)
	StackRows(pix, 11, 6, 5, 0, 6)
	StackColumns(pix, 11, 6, 5, 0, 11)
	for i, v := range pix {
		if v != 200 {
			t.Fatalf("pix[%d] = %d, want 200", i, v)
		}
	}
}

func TestStackStripesAreIndependent(t *testing.T) {
	const w, h, r = 19, 21, 5
	src := randomBuffer(w, h, 21)

	whole := append([]uint8(nil), src...)
	StackRows(whole, w, h, r, 0, h)
	StackColumns(whole, w, h, r, 0, w)

	striped := append([]uint8(nil), src...)
	StackRows(striped, w, h, r, 7, 21)
	StackRows(striped, w, h, r, 0, 7)
	StackColumns(striped, w, h, r, 0, 10)
	StackColumns(striped, w, h, r, 10, 19)

	equalPix(t, striped, whole, w)
}
