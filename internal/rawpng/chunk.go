package rawpng

import (
	"encoding/binary"
	"fmt"
	"io"
)

// PNG header field values written by this package.
const (
	bitDepth8               = 8
	colorTypeTruecolor      = 2
	colorTypeTruecolorAlpha = 6
	ihdrLen                 = 13
)

// Chunk is one PNG chunk before serialization. Its length and CRC are
// derived from Type and Payload when it is written.
type Chunk struct {
	Type    [4]byte
	Payload []byte
}

// NewChunk returns a chunk of the given type. typ must be four ASCII letters.
func NewChunk(typ string, payload []byte) (Chunk, error) {
	if !validChunkType(typ) {
		return Chunk{}, fmt.Errorf("%w: %q", ErrInvalidChunkType, typ)
	}
	if uint64(len(payload)) > maxChunkLen {
		return Chunk{}, fmt.Errorf("%w: %s payload is %d bytes", ErrImageTooLarge, typ, len(payload))
	}
	var c Chunk
	copy(c.Type[:], typ)
	c.Payload = payload
	return c, nil
}

// BuildChunk serializes a chunk:
// length (big-endian, payload only) ++ type ++ payload ++ CRC-32(type ++ payload).
func BuildChunk(typ string, payload []byte) ([]byte, error) {
	c, err := NewChunk(typ, payload)
	if err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

func (c Chunk) String() string { return string(c.Type[:]) }

// Len returns the serialized size of the chunk.
func (c Chunk) Len() int { return 12 + len(c.Payload) }

// AppendTo appends the serialized chunk to dst.
func (c Chunk) AppendTo(dst []byte) []byte {
	w := chunkWriter{buf: dst}
	w.writeChunk(string(c.Type[:]), c.Payload)
	return w.buf
}

func (c Chunk) Bytes() []byte { return c.AppendTo(make([]byte, 0, c.Len())) }

// WriteTo writes the serialized chunk to w. It implements io.WriterTo.
func (c Chunk) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Bytes())
	return int64(n), err
}

// CRC returns the checksum the chunk carries on the wire.
func (c Chunk) CRC() uint32 {
	b := c.Bytes()
	return binary.BigEndian.Uint32(b[len(b)-4:])
}

func validChunkType(typ string) bool {
	if len(typ) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		ch := typ[i]
		if !('a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z') {
			return false
		}
	}
	return true
}

// BuildIHDR returns the image header chunk for an 8-bit truecolor image.
func BuildIHDR(width, height uint32, hasAlpha bool) (Chunk, error) {
	if width == 0 || height == 0 || width > maxDimension || height > maxDimension {
		return Chunk{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	p := ihdrPayload(width, height, hasAlpha)
	return Chunk{Type: [4]byte{'I', 'H', 'D', 'R'}, Payload: p[:]}, nil
}

func ihdrPayload(width, height uint32, hasAlpha bool) [ihdrLen]byte {
	var p [ihdrLen]byte
	binary.BigEndian.PutUint32(p[0:4], width)
	binary.BigEndian.PutUint32(p[4:8], height)
	p[8] = bitDepth8
	p[9] = colorTypeTruecolor
	if hasAlpha {
		p[9] = colorTypeTruecolorAlpha
	}
	p[10] = 0 // deflate
	p[11] = 0 // adaptive filtering
	p[12] = 0 // no interlace
	return p
}
