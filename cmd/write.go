package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

// writePNG encodes img to path. The file is written next to its target
// and renamed into place, so a failed run never leaves a partial PNG.
// A path of "-" writes to stdout.
func writePNG(ctx context.Context, stdout io.Writer, path string, img rawpng.Image) error {
	if path == "-" {
		return rawpng.EncodeContext(ctx, stdout, img)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".rawpng-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := rawpng.EncodeContext(ctx, tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
