// Package rawpng writes 8-bit RGB and RGBA images as PNG files without
// compressing them. The pixel data is wrapped in a zlib stream made of
// stored deflate blocks, so the output is valid PNG that any decoder
// reads back pixel-for-pixel.
//
// Every call owns its buffers; concurrent calls on different images are safe.
package rawpng

import (
	"context"
	"io"
)

// Signature is the eight bytes every PNG file starts with.
const Signature = "\x89PNG\r\n\x1a\n"

// iendChunk is the serialized empty IEND chunk.
const iendChunk = "\x00\x00\x00\x00IEND\xae\x42\x60\x82"

// Encode writes img to w as a PNG file. The whole file is assembled in
// memory and handed to w in a single Write, so a validation failure never
// leaves partial output behind. Write failures are returned as *SinkError.
func Encode(w io.Writer, img Image) error {
	return EncodeContext(context.Background(), w, img)
}

// EncodeContext is like Encode but stops between scanlines once ctx is done,
// returning ctx.Err() without writing anything.
func EncodeContext(ctx context.Context, w io.Writer, img Image) error {
	data, err := marshal(ctx, img)
	if err != nil {
		return err
	}
	n, err := w.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &SinkError{Written: n, Err: err}
	}
	return nil
}

// Marshal returns the PNG encoding of img.
func Marshal(img Image) ([]byte, error) {
	return marshal(context.Background(), img)
}

// EncodedSize returns the exact length of the PNG file Encode would write.
func EncodedSize(img Image) (int64, error) {
	if err := img.Validate(); err != nil {
		return 0, err
	}
	n, err := idatLen(img)
	if err != nil {
		return 0, err
	}
	return int64(len(Signature)) + 12 + ihdrLen + 12 + int64(n) + int64(len(iendChunk)), nil
}

func marshal(ctx context.Context, img Image) ([]byte, error) {
	size, err := EncodedSize(img)
	if err != nil {
		return nil, err
	}

	w := chunkWriter{buf: make([]byte, 0, size)}
	w.buf = append(w.buf, Signature...)

	hdr := ihdrPayload(img.Width, img.Height, img.HasAlpha)
	w.writeChunk("IHDR", hdr[:])
	if err := writeIDAT(ctx, &w, img); err != nil {
		return nil, err
	}
	w.writeChunk("IEND", nil)
	return w.buf, nil
}
