package parallel

// Span is a half-open range [Start, End) of rows or columns.
type Span struct {
	Start int
	End   int
}

// Len returns the number of lines in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers no lines.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Stripe returns the lines owned by stripe index out of count stripes over
// length lines. Stripes are contiguous, disjoint, cover [0, length) exactly
// and differ in size by at most one line, so some stripes are empty when
// count exceeds length.
//
// Out-of-range arguments yield an empty span.
func Stripe(length, count, index int) Span {
	if length <= 0 || count <= 0 || index < 0 || index >= count {
		return Span{}
	}
	return Span{
		Start: index * length / count,
		End:   (index + 1) * length / count,
	}
}

// Stripes partitions length lines into count stripes.
func Stripes(length, count int) []Span {
	if count <= 0 {
		return nil
	}
	spans := make([]Span, count)
	for i := range count {
		spans[i] = Stripe(length, count, i)
	}
	return spans
}
