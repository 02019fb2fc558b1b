//go:build ignore

// gen_fixtures creates small inputs for the E2E smoke test: regular images
// in every decoder format the build reads plus raw pixel dumps.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "cards"), 0o755)
	os.MkdirAll(filepath.Join(dir, "frames"), 0o755)

	// Banner (JPEG, 400x225)
	write(filepath.Join(dir, "banner.jpg"), gradient(400, 225), func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	})

	// Cards (PNG, 200x150 each)
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.png", i)
		write(filepath.Join(dir, "cards", name), solidWithBorder(200, 150, uint8(i*60)), png.Encode)
	}

	// Small alpha image
	write(filepath.Join(dir, "logo.png"), alphaGradient(100, 100), png.Encode)

	// Screenshot (BMP, 160x90)
	write(filepath.Join(dir, "screen.bmp"), gradient(160, 90), bmp.Encode)

	// Raw dumps: packed RGB and RGBA, geometry in the name.
	writeRaw(filepath.Join(dir, "frames", "frame.64x32.rgb"), gradient(64, 32), false)
	writeRaw(filepath.Join(dir, "frames", "overlay.32x32.rgba"), alphaGradient(32, 32), true)

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 8 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func write(path string, img image.Image, enc func(io.Writer, image.Image) error) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := enc(f, img); err != nil {
		panic(err)
	}
}

func writeRaw(path string, img *image.NRGBA, alpha bool) {
	var pix []byte
	for i := 0; i < len(img.Pix); i += 4 {
		pix = append(pix, img.Pix[i:i+3]...)
		if alpha {
			pix = append(pix, img.Pix[i+3])
		}
	}
	if err := os.WriteFile(path, pix, 0o644); err != nil {
		panic(err)
	}
}
