package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

// Decode loads a source into memory. Raw dumps come back as *image.NRGBA.
func Decode(src Source) (image.Image, error) {
	if src.Format == "raw" {
		return decodeRaw(src)
	}

	f, err := os.Open(src.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.RelPath, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.RelPath, err)
	}
	return img, nil
}

func decodeRaw(src Source) (image.Image, error) {
	pix, err := os.ReadFile(src.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.RelPath, err)
	}
	m := rawpng.Image{
		Width:    src.RawWidth,
		Height:   src.RawHeight,
		HasAlpha: src.RawAlpha,
		Pix:      pix,
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.RelPath, err)
	}
	return m.ToNRGBA(), nil
}
