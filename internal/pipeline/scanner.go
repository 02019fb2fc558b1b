package pipeline

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Source represents a discovered input file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the asset key (relpath without extension or raw dimensions).
	Key string
	// Format is the source format (png, jpeg, webp, gif, bmp, tiff, raw).
	Format string
	// Size is the file size in bytes.
	Size int64

	// Raw dumps carry their geometry in the file name.
	RawWidth  uint32
	RawHeight uint32
	RawAlpha  bool
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".rgb":  true,
	".rgba": true,
}

var rawName = regexp.MustCompile(`^(.+)\.([0-9]+)x([0-9]+)$`)

// ParseRawName splits a raw dump name such as "frame.640x480.rgb" into its
// base name and dimensions. The extension must be .rgb or .rgba.
func ParseRawName(name string) (base string, width, height uint32, hasAlpha, ok bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".rgb":
	case ".rgba":
		hasAlpha = true
	default:
		return "", 0, 0, false, false
	}

	m := rawName.FindStringSubmatch(strings.TrimSuffix(name, filepath.Ext(name)))
	if m == nil {
		return "", 0, 0, false, false
	}
	w, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return "", 0, 0, false, false
	}
	h, err := strconv.ParseUint(m[3], 10, 32)
	if err != nil {
		return "", 0, 0, false, false
	}
	return m[1], uint32(w), uint32(h), hasAlpha, true
}

// SourceFromPath describes a single file outside of a directory scan. The
// key is the file name without extension.
func SourceFromPath(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	return newSource(path, filepath.Base(path), info.Size())
}

func newSource(path, relPath string, size int64) (Source, error) {
	ext := strings.ToLower(filepath.Ext(relPath))
	src := Source{
		AbsPath: path,
		RelPath: filepath.ToSlash(relPath),
		Key:     filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath))),
		Format:  strings.TrimPrefix(ext, "."),
		Size:    size,
	}

	switch src.Format {
	case "jpg":
		src.Format = "jpeg"
	case "tif":
		src.Format = "tiff"
	case "rgb", "rgba":
		base, w, h, alpha, ok := ParseRawName(filepath.Base(relPath))
		if !ok {
			return Source{}, &RawNameError{Path: src.RelPath}
		}
		src.Format = "raw"
		src.Key = filepath.ToSlash(filepath.Join(filepath.Dir(relPath), base))
		src.RawWidth, src.RawHeight, src.RawAlpha = w, h, alpha
	}
	return src, nil
}

// RawNameError reports a raw dump whose name does not carry its size.
type RawNameError struct {
	Path string
}

func (e *RawNameError) Error() string {
	return "raw dump " + e.Path + ": name must look like <name>.<W>x<H>.rgb[a]"
}

// ScanImages walks the input directory and returns all image sources.
// Raw dumps without dimensions in their name are skipped and returned
// separately so the caller can report them.
func ScanImages(inputDir string) ([]Source, []error, error) {
	var (
		sources []Source
		skipped []error
	)

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !imageExtensions[ext] {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		src, err := newSource(path, relPath, info.Size())
		if err != nil {
			skipped = append(skipped, err)
			return nil
		}
		sources = append(sources, src)
		return nil
	})

	return sources, skipped, err
}
