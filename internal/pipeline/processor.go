package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/rawpng-cli/internal/encoder"
	"github.com/AnyUserName/rawpng-cli/internal/hasher"
	"github.com/AnyUserName/rawpng-cli/internal/logging"
	"github.com/AnyUserName/rawpng-cli/internal/manifest"
	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	asset manifest.Asset
	err   error
}

// processImage handles a single source image: decode, resize, convert, encode.
func processImage(ctx context.Context, src Source, cfg Config, registry *encoder.Registry) processResult {
	result := processResult{key: src.Key}

	img, err := Decode(src)
	if err != nil {
		result.err = err
		return result
	}

	bounds := img.Bounds()
	origW := bounds.Dx()
	origH := bounds.Dy()
	full := rawpng.FromImage(img, rawpng.AlphaAuto)

	result.asset = manifest.Asset{
		Source: manifest.SourceInfo{
			Width:    origW,
			Height:   origH,
			Format:   src.Format,
			Size:     src.Size,
			HasAlpha: full.HasAlpha,
		},
	}

	widths := cfg.Profile.EffectiveWidths(origW)
	formats := registry.ResolveFormats(cfg.Profile.Formats)

	var deflate encoder.Encoder
	if cfg.Compare {
		deflate = registry.Get("deflate")
	}

	// Ensure output subdirectory exists.
	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(cfg.OutputDir, keyDir), 0o755); err != nil {
			result.err = fmt.Errorf("mkdir %s: %w", keyDir, err)
			return result
		}
	}

	for _, w := range widths {
		if err := ctx.Err(); err != nil {
			result.err = err
			return result
		}

		// Calculate proportional height.
		h := int(float64(origH) * float64(w) / float64(origW))
		if h < 1 {
			h = 1
		}

		var raster rawpng.Image
		switch {
		case w == origW && cfg.Profile.Alpha == rawpng.AlphaAuto:
			raster = full
		case w == origW:
			raster = rawpng.FromImage(img, cfg.Profile.Alpha)
		default:
			raster = rawpng.FromImage(imaging.Resize(img, w, h, imaging.Lanczos), cfg.Profile.Alpha)
		}
		h = int(raster.Height)

		var deflateSize int64
		if deflate != nil {
			data, err := deflate.Encode(ctx, raster)
			if err != nil {
				logging.Warn().Err(err).Str("key", src.Key).Int("width", w).Msg("compare encode failed")
			} else {
				deflateSize = int64(len(data))
			}
		}

		for _, format := range formats {
			enc := registry.Get(format)
			if enc == nil {
				continue
			}

			data, err := enc.Encode(ctx, raster)
			if err != nil {
				logging.Warn().Err(err).
					Str("key", src.Key).Int("width", w).Int("height", h).Str("format", format).
					Msg("encode failed")
				continue
			}

			contentHash := hasher.ContentHash(data, hasher.HexLen)

			// Build filename: key.w.h.hash.ext
			fileName := fmt.Sprintf("%s.%d.%d.%s.%s",
				filepath.Base(src.Key), w, h, contentHash[:8], enc.Extension())
			relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

			outPath := filepath.Join(cfg.OutputDir, relPath)
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				result.err = fmt.Errorf("write %s: %w", relPath, err)
				return result
			}

			result.asset.Variants = append(result.asset.Variants, manifest.Variant{
				Format:      format,
				Width:       w,
				Height:      h,
				HasAlpha:    raster.HasAlpha,
				Size:        int64(len(data)),
				DeflateSize: deflateSize,
				Hash:        contentHash,
				Path:        relPath,
			})
		}
	}

	return result
}
