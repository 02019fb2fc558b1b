package rawpng

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// AlphaMode selects whether FromImage emits an alpha channel.
type AlphaMode int

const (
	// AlphaAuto keeps alpha only when some pixel is not fully opaque.
	AlphaAuto AlphaMode = iota
	AlphaKeep
	AlphaDrop
)

func (m AlphaMode) String() string {
	switch m {
	case AlphaKeep:
		return "keep"
	case AlphaDrop:
		return "drop"
	default:
		return "auto"
	}
}

// ParseAlphaMode parses "auto", "keep" or "drop".
func ParseAlphaMode(s string) (AlphaMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return AlphaAuto, nil
	case "keep":
		return AlphaKeep, nil
	case "drop":
		return AlphaDrop, nil
	}
	return AlphaAuto, fmt.Errorf("unknown alpha mode %q (want auto, keep or drop)", s)
}

// FromImage converts any decoded image to the encoder's layout. Colors are
// taken un-premultiplied, so dropping alpha keeps the stored color values.
func FromImage(src image.Image, mode AlphaMode) Image {
	nrgba := imaging.Clone(src)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	hasAlpha := mode == AlphaKeep || (mode == AlphaAuto && translucent(nrgba))
	img := Image{
		Width:    uint32(w),
		Height:   uint32(h),
		HasAlpha: hasAlpha,
	}
	if hasAlpha {
		img.Pix = make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			copy(img.Pix[y*w*4:(y+1)*w*4], nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+w*4])
		}
		return img
	}

	img.Pix = make([]byte, w*h*3)
	i := 0
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			img.Pix[i+0] = row[x+0]
			img.Pix[i+1] = row[x+1]
			img.Pix[i+2] = row[x+2]
			i += 3
		}
	}
	return img
}

// ToNRGBA returns img as an *image.NRGBA sharing no memory with img.Pix.
func (m Image) ToNRGBA() *image.NRGBA {
	w, h := int(m.Width), int(m.Height)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if !m.HasAlpha {
		for i, j := 0, 0; i < len(m.Pix) && j < len(out.Pix); i, j = i+3, j+4 {
			out.Pix[j+0] = m.Pix[i+0]
			out.Pix[j+1] = m.Pix[i+1]
			out.Pix[j+2] = m.Pix[i+2]
			out.Pix[j+3] = 0xff
		}
		return out
	}
	copy(out.Pix, m.Pix)
	return out
}

func translucent(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] < 0xff {
			return true
		}
	}
	return false
}
