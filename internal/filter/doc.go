// Package filter implements the line kernels behind the blur passes.
//
// Every kernel works in place on a tightly packed RGBA buffer (4 bytes per
// pixel, stride = 4*width) and touches only the rows or columns it is given.
// A line is copied to pooled scratch memory before it is overwritten, so a
// kernel only ever reads values from the previous pass and two calls over
// disjoint line ranges can run concurrently on the same buffer.
//
// Two kernels are provided:
//   - Box: mean of the 2r+1 window, truncated at the image edges
//   - Stack: triangular weights r+1-|k|, edge pixels replicated
//
// All arithmetic is integer with round-to-nearest division, so results are
// deterministic and never leave the range of the window they were computed
// from.
package filter
