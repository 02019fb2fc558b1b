package encoder

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

func gradient(w, h uint32) rawpng.Image {
	img := rawpng.Image{Width: w, Height: h, Pix: make([]byte, w*h*3)}
	for i := range img.Pix {
		img.Pix[i] = byte(i / 3 % 251)
	}
	return img
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"stored", "deflate"}, r.Available())
	assert.Equal(t, "encoders: stored, deflate", r.String())
	assert.NotNil(t, r.Get("STORED"))
	assert.Nil(t, r.Get("webp"))

	assert.Equal(t, []string{"deflate", "stored"}, r.ResolveFormats([]string{"deflate", "webp", "Stored", "deflate"}))
	assert.Equal(t, []string{DefaultFormat}, r.ResolveFormats(nil))
	assert.Equal(t, []string{DefaultFormat}, r.ResolveFormats([]string{"avif"}))
}

func TestEncoders_Decode(t *testing.T) {
	img := gradient(50, 20)
	r := NewRegistry()
	sizes := map[string]int{}

	for _, f := range r.Available() {
		t.Run(f, func(t *testing.T) {
			enc := r.Get(f)
			assert.Equal(t, "png", enc.Extension())

			data, err := enc.Encode(context.Background(), img)
			require.NoError(t, err)
			sizes[f] = len(data)

			dec, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 50, dec.Bounds().Dx())
			assert.Equal(t, 20, dec.Bounds().Dy())
		})
	}

	want, err := rawpng.EncodedSize(img)
	require.NoError(t, err)
	assert.EqualValues(t, want, sizes["stored"])
	assert.Less(t, sizes["deflate"], sizes["stored"])
}

func TestEncoders_RejectInvalid(t *testing.T) {
	bad := rawpng.Image{Width: 0, Height: 3}
	for _, enc := range []Encoder{&StoredEncoder{}, &DeflateEncoder{}} {
		_, err := enc.Encode(context.Background(), bad)
		assert.ErrorIs(t, err, rawpng.ErrInvalidDimensions, enc.Format())
	}
}
