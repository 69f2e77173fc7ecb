package blur

import (
	"errors"

	"github.com/gogpu/blur/internal/parallel"
)

var (
	// ErrInvalidDimensions is returned when a buffer is requested with a
	// width or height below 1.
	ErrInvalidDimensions = errors.New("blur: width and height must be at least 1")

	// ErrBufferSize is returned when wrapped pixel data does not hold
	// exactly width*height*4 bytes.
	ErrBufferSize = errors.New("blur: pixel data length does not match dimensions")

	// ErrEmptyImage is returned when an image with an empty bounds rectangle
	// is converted or transformed.
	ErrEmptyImage = errors.New("blur: image is empty")
)

// ErrPoolClosed is reported for stripes submitted to a pool after Shutdown.
var ErrPoolClosed = parallel.ErrPoolClosed
