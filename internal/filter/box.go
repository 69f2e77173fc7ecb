package filter

// BoxRows blurs rows [y0, y1) of pix horizontally with a box of width
// 2*radius+1. Near the left and right edges the window shrinks to the pixels
// that exist and the divisor shrinks with it.
func BoxRows(pix []uint8, width, height, radius, y0, y1 int) {
	y0, y1 = clampRange(y0, y1, height)
	if radius <= 0 || width <= 1 || y0 >= y1 {
		return
	}

	line := getLine(width)
	defer putLine(line)

	stride := width * 4
	for y := y0; y < y1; y++ {
		row := pix[y*stride : (y+1)*stride]
		copy(line.data, row)
		boxLine(row, 0, 4, line.data, width, radius)
	}
}

// BoxColumns blurs columns [x0, x1) of pix vertically with a box of height
// 2*radius+1, truncated at the top and bottom edges.
func BoxColumns(pix []uint8, width, height, radius, x0, x1 int) {
	x0, x1 = clampRange(x0, x1, width)
	if radius <= 0 || height <= 1 || x0 >= x1 {
		return
	}

	line := getLine(height)
	defer putLine(line)

	stride := width * 4
	for x := x0; x < x1; x++ {
		loadColumn(line.data, pix, x, width, height)
		boxLine(pix, x*4, stride, line.data, height, radius)
	}
}

// boxLine writes the truncated box average of the n pixels in src to
// dst[off], dst[off+step], ...
func boxLine(dst []uint8, off, step int, src []uint8, n, radius int) {
	var sum [4]int

	last := min(radius, n-1)
	for i := 0; i <= last; i++ {
		p := i * 4
		sum[0] += int(src[p])
		sum[1] += int(src[p+1])
		sum[2] += int(src[p+2])
		sum[3] += int(src[p+3])
	}
	count := last + 1

	d := off
	for i := range n {
		half := count / 2
		dst[d] = uint8((sum[0] + half) / count)
		dst[d+1] = uint8((sum[1] + half) / count)
		dst[d+2] = uint8((sum[2] + half) / count)
		dst[d+3] = uint8((sum[3] + half) / count)
		d += step

		// Slide the window: [i-r, i+r] -> [i+1-r, i+1+r].
		if in := i + radius + 1; in < n {
			p := in * 4
			sum[0] += int(src[p])
			sum[1] += int(src[p+1])
			sum[2] += int(src[p+2])
			sum[3] += int(src[p+3])
			count++
		}
		if out := i - radius; out >= 0 {
			p := out * 4
			sum[0] -= int(src[p])
			sum[1] -= int(src[p+1])
			sum[2] -= int(src[p+2])
			sum[3] -= int(src[p+3])
			count--
		}
	}
}

// clampRange clips [lo, hi) to [0, limit).
func clampRange(lo, hi, limit int) (int, int) {
	return max(lo, 0), min(hi, limit)
}
