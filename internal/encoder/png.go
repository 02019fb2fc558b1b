package encoder

import (
	"bytes"
	"context"
	"image/png"

	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

// StoredEncoder writes uncompressed PNG through rawpng.
type StoredEncoder struct{}

func (e *StoredEncoder) Format() string    { return "stored" }
func (e *StoredEncoder) Extension() string { return "png" }
func (e *StoredEncoder) Available() bool   { return true }

func (e *StoredEncoder) Encode(ctx context.Context, img rawpng.Image) ([]byte, error) {
	size, err := rawpng.EncodedSize(img)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(int(size))
	if err := rawpng.EncodeContext(ctx, &buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeflateEncoder encodes with Go's standard library at best compression.
// It is only used to show what real compression would save.
type DeflateEncoder struct{}

func (e *DeflateEncoder) Format() string    { return "deflate" }
func (e *DeflateEncoder) Extension() string { return "png" }
func (e *DeflateEncoder) Available() bool   { return true }

func (e *DeflateEncoder) Encode(ctx context.Context, img rawpng.Image) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(img.Pix) / 2)

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img.ToNRGBA()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
