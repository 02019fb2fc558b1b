package rawpng

import "fmt"

const (
	// maxDimension is the largest width or height PNG allows.
	maxDimension = 1<<31 - 1
	// maxRowStride is the most bytes one stored deflate block can hold.
	maxRowStride = 0xffff
	// maxChunkLen is the largest chunk payload PNG allows.
	maxChunkLen = 1<<31 - 1
)

// Image is an 8-bit truecolor raster in the layout the encoder consumes:
// rows top to bottom, no padding, channels R,G,B and A when HasAlpha is set.
// The encoder only reads Pix.
type Image struct {
	Width    uint32
	Height   uint32
	HasAlpha bool
	Pix      []byte
}

// Channels returns the number of bytes per pixel.
func (m Image) Channels() int {
	if m.HasAlpha {
		return 4
	}
	return 3
}

// RowStride is the length of one scanline in the uncompressed stream,
// including its leading filter-type byte.
func (m Image) RowStride() uint64 {
	return uint64(m.Width)*uint64(m.Channels()) + 1
}

// Validate reports whether m can be encoded: both dimensions positive and
// within PNG limits, and Pix exactly Width*Height*Channels bytes long.
func (m Image) Validate() error {
	if m.Width == 0 || m.Height == 0 || m.Width > maxDimension || m.Height > maxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, m.Width, m.Height)
	}
	want := uint64(m.Width) * uint64(m.Height) * uint64(m.Channels())
	if uint64(len(m.Pix)) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d with %d channels",
			ErrBufferSizeMismatch, len(m.Pix), want, m.Width, m.Height, m.Channels())
	}
	return nil
}

// idatLen returns the IDAT payload length for a validated image:
// zlib header, one 5-byte block header plus scanline per row, Adler-32.
func idatLen(m Image) (uint64, error) {
	stride := m.RowStride()
	if stride > maxRowStride {
		return 0, fmt.Errorf("%w: %d bytes per row, limit %d", ErrRowTooLarge, stride, maxRowStride)
	}
	n := 2 + uint64(m.Height)*(5+stride) + 4
	if n > maxChunkLen {
		return 0, fmt.Errorf("%w: IDAT would be %d bytes", ErrImageTooLarge, n)
	}
	return n, nil
}
