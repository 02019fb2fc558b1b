package encoder

import (
	"context"

	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

// Encoder turns a raster into a PNG file.
type Encoder interface {
	// Format returns the registry name (e.g. "stored", "deflate").
	Format() string

	// Encode returns the encoded file.
	Encode(ctx context.Context, img rawpng.Image) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}
