package filter

// StackRows blurs rows [y0, y1) of pix horizontally with a stack blur of the
// given radius: weights rise linearly from 1 at the window edge to radius+1
// at the centre, and pixels beyond the image edge repeat the edge pixel.
func StackRows(pix []uint8, width, height, radius, y0, y1 int) {
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
		stackLine(row, 0, 4, line.data, width, radius)
	}
}

// StackColumns blurs columns [x0, x1) of pix vertically with a stack blur.
func StackColumns(pix []uint8, width, height, radius, x0, x1 int) {
	x0, x1 = clampRange(x0, x1, width)
	if radius <= 0 || height <= 1 || x0 >= x1 {
		return
	}

	line := getLine(height)
	defer putLine(line)

	stride := width * 4
	for x := x0; x < x1; x++ {
		loadColumn(line.data, pix, x, width, height)
		stackLine(pix, x*4, stride, line.data, height, radius)
	}
}

// stackLine computes out[i] = sum_k (r+1-|k|) * e[i+k] / (r+1)^2 for the n
// pixels of src, where e is src extended by replicating its end pixels.
//
// The weighted sum is carried incrementally: moving one pixel right drops
// the left half of the window (outgoing, r+1 pixels) and gains the right
// half of the next window (incoming, r+1 pixels).
func stackLine(dst []uint8, off, step int, src []uint8, n, radius int) {
	// at returns the channel offset of extended index j, where extended
	// index radius is src pixel 0.
	at := func(j int) int {
		return min(max(j-radius, 0), n-1) * 4
	}

	var sum, outgoing, incoming [4]int
	for k := 0; k <= 2*radius; k++ {
		w := radius + 1 - abs(k-radius)
		p := at(k)
		for c := range 4 {
			sum[c] += w * int(src[p+c])
		}
	}
	for j := 0; j <= radius; j++ {
		p := at(j)
		for c := range 4 {
			outgoing[c] += int(src[p+c])
		}
	}
	for j := radius + 1; j <= 2*radius+1; j++ {
		p := at(j)
		for c := range 4 {
			incoming[c] += int(src[p+c])
		}
	}

	div := (radius + 1) * (radius + 1)
	half := div / 2

	d := off
	for i := range n {
		for c := range 4 {
			dst[d+c] = uint8((sum[c] + half) / div)
		}
		d += step

		if i == n-1 {
			break
		}

		drop := at(i)
		mid := at(i + radius + 1)
		gain := at(i + 2*radius + 2)
		for c := range 4 {
			sum[c] += incoming[c] - outgoing[c]
			outgoing[c] += int(src[mid+c]) - int(src[drop+c])
			incoming[c] += int(src[gain+c]) - int(src[mid+c])
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
