package rawpng

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions  = errors.New("rawpng: invalid dimensions")
	ErrBufferSizeMismatch = errors.New("rawpng: pixel buffer size mismatch")
	ErrRowTooLarge        = errors.New("rawpng: row does not fit a stored deflate block")
	ErrImageTooLarge      = errors.New("rawpng: image data does not fit one chunk")
	ErrInvalidChunkType   = errors.New("rawpng: invalid chunk type")
	ErrSinkWrite          = errors.New("rawpng: write to sink failed")

	ErrNotPNG    = errors.New("rawpng: missing PNG signature")
	ErrTruncated = errors.New("rawpng: truncated PNG stream")
	ErrChecksum  = errors.New("rawpng: checksum mismatch")
	ErrMalformed = errors.New("rawpng: malformed PNG stream")
)

// SinkError is returned when the encoded file could not be written to the
// caller's writer. It matches ErrSinkWrite and unwraps to the writer's error.
type SinkError struct {
	Written int // bytes accepted by the sink before the failure
	Err     error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("rawpng: write to sink failed after %d bytes: %v", e.Written, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

func (e *SinkError) Is(target error) bool { return target == ErrSinkWrite }
