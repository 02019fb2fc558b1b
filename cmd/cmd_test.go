package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/rawpng-cli/internal/manifest"
	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

// resetFlags puts scalar flags back to their defaults between runs.
// Slice flags keep appending once set, so each test uses them at most once.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if strings.HasSuffix(f.Value.Type(), "Slice") {
			return
		}
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTestPNG(t *testing.T, path string, w, h int, alpha uint8) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 3), uint8(y * 5), 200, alpha})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".rawpng-*"))
	require.NoError(t, err)
	return matches
}

func TestEncode_DimensionsFromName(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "px.1x1.rgb")
	out := filepath.Join(dir, "px.png")
	require.NoError(t, os.WriteFile(in, []byte{0xff, 0x00, 0x00}, 0o644))

	_, err := execute(t, nil, "encode", "-i", in, "-o", out)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	want, err := rawpng.Marshal(rawpng.Image{Width: 1, Height: 1, Pix: []byte{0xff, 0x00, 0x00}})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got, 72)
	assert.Empty(t, tempFiles(t, dir))
}

func TestEncode_FlagOverridesNameDimension(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "frame.2x2.rgb")
	require.NoError(t, os.WriteFile(in, make([]byte, 4*2*3), 0o644))
	out := filepath.Join(dir, "frame.png")

	_, err := execute(t, nil, "encode", "-i", in, "-o", out, "--width", "4")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rep, err := rawpng.Inspect(f)
	require.NoError(t, err)
	assert.EqualValues(t, 4, rep.Header.Width)
	assert.EqualValues(t, 2, rep.Header.Height)

	_, err = execute(t, nil, "encode", "-i", in, "-o", out, "--width", "5")
	assert.ErrorIs(t, err, rawpng.ErrBufferSizeMismatch)
}

func TestRequiredFlags(t *testing.T) {
	for _, c := range []*cobra.Command{encodeCmd, convertCmd} {
		f := c.Flags().Lookup("output")
		require.NotNil(t, f, c.Name())
		assert.Equal(t, []string{"true"}, f.Annotations[cobra.BashCompOneRequiredFlag], c.Name())
	}
}

func TestEncode_Stdio(t *testing.T) {
	pix := []byte{10, 20, 30, 255, 40, 50, 60, 0}
	stdout, err := execute(t, bytes.NewReader(pix),
		"encode", "-i", "-", "-o", "-", "--width", "2", "--height", "1", "--alpha")
	require.NoError(t, err)

	dec, err := png.Decode(strings.NewReader(stdout))
	require.NoError(t, err)
	nrgba, ok := dec.(*image.NRGBA)
	require.True(t, ok, "got %T", dec)
	assert.Equal(t, pix, nrgba.Pix)
}

func TestEncode_Errors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "short.2x2.rgb")
	require.NoError(t, os.WriteFile(in, make([]byte, 11), 0o644))
	out := filepath.Join(dir, "short.png")

	_, err := execute(t, nil, "encode", "-i", in, "-o", out)
	assert.ErrorIs(t, err, rawpng.ErrBufferSizeMismatch)
	assert.NoFileExists(t, out)
	assert.Empty(t, tempFiles(t, dir))

	nodims := filepath.Join(dir, "dump.bin")
	require.NoError(t, os.WriteFile(nodims, make([]byte, 3), 0o644))
	_, err = execute(t, nil, "encode", "-i", nodims, "-o", out)
	assert.ErrorIs(t, err, rawpng.ErrInvalidDimensions)

	_, err = execute(t, nil, "encode", "-i", nodims, "-o", out, "--width", "21845", "--height", "1")
	assert.Error(t, err)

	_, err = execute(t, nil, "encode", "-i", nodims)
	assert.ErrorContains(t, err, "output")
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	writeTestPNG(t, in, 40, 20, 100)
	out := filepath.Join(dir, "out", "photo.png")

	_, err := execute(t, nil, "convert", in, "-o", out, "--alpha", "drop", "--width", "10")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rep, err := rawpng.Inspect(f)
	require.NoError(t, err)
	require.NoError(t, rep.Err())
	assert.EqualValues(t, 10, rep.Header.Width)
	assert.EqualValues(t, 5, rep.Header.Height)
	assert.EqualValues(t, 2, rep.Header.ColorType)
	assert.False(t, rep.Compressed)

	_, err = execute(t, nil, "convert", in, "-o", out, "--alpha", "sometimes")
	assert.Error(t, err)
}

func TestBuildValidateStats(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeTestPNG(t, filepath.Join(in, "a.png"), 64, 32, 255)
	writeTestPNG(t, filepath.Join(in, "icons", "b.png"), 16, 16, 50)
	require.NoError(t, os.WriteFile(filepath.Join(in, "dump.2x2.rgba"), make([]byte, 16), 0o644))

	stdout, err := execute(t, nil, "build", in, "-o", out, "--widths", "32", "--compare", "-w", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rawpng build complete")
	assert.Contains(t, stdout, "Assets:      3")

	manifestPath := filepath.Join(out, manifest.FileName)
	m, err := manifest.ReadJSON(manifestPath)
	require.NoError(t, err)
	require.Len(t, m.Assets, 3)
	assert.Equal(t, 32, m.Assets["a"].Variants[0].Width)
	assert.Equal(t, 16, m.Assets["icons/b"].Variants[0].Width)
	assert.True(t, m.Assets["dump"].Variants[0].HasAlpha, "all-zero alpha is translucent")

	stdout, err = execute(t, nil, "validate", manifestPath)
	require.NoError(t, err, stdout)
	assert.Contains(t, stdout, "Manifest is valid")

	stdout, err = execute(t, nil, "stats", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total assets:     3")
	assert.Contains(t, stdout, "stored")
	assert.Contains(t, stdout, "Raw dumps:        1 / 3 assets")

	stdout, err = execute(t, nil, "verify", "--chunks", filepath.Join(out, m.Assets["a"].Variants[0].Path))
	require.NoError(t, err)
	assert.Contains(t, stdout, "32x16")
	assert.Contains(t, stdout, "16 stored blocks")
	assert.Contains(t, stdout, "IDAT")

	// Flip one pixel byte; size stays, checksums and hash break.
	victim := filepath.Join(out, m.Assets["a"].Variants[0].Path)
	data, err := os.ReadFile(victim)
	require.NoError(t, err)
	data[len(data)-21] ^= 0xff
	require.NoError(t, os.WriteFile(victim, data, 0o644))

	stdout, err = execute(t, nil, "validate", manifestPath)
	assert.ErrorContains(t, err, "validation failed")
	assert.Contains(t, stdout, "asset \"a\"")

	_, err = execute(t, nil, "verify", victim)
	assert.ErrorContains(t, err, "1 of 1 files failed")
}

func TestVerify_CompressedPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "std.png")
	writeTestPNG(t, path, 20, 10, 255)

	stdout, err := execute(t, nil, "verify", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "compressed")
	assert.Contains(t, stdout, "✓ OK")
}

func TestVerify_NotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0o644))

	stdout, err := execute(t, nil, "verify", path)
	assert.Error(t, err)
	assert.Contains(t, stdout, rawpng.ErrNotPNG.Error())
}

func TestValidateManifest_MissingFile(t *testing.T) {
	m := manifest.New("t")
	m.Assets["gone"] = manifest.Asset{
		Source: manifest.SourceInfo{Width: 1, Height: 1, Format: "png"},
		Variants: []manifest.Variant{
			{Format: "stored", Width: 1, Height: 1, Size: 72, Hash: "0011223344556677", Path: "gone.1.1.00112233.png"},
		},
	}
	m.ComputeStats()

	errs := validateManifest(m, t.TempDir())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "file not found")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "72 B", formatBytes(72))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
	assert.Equal(t, "...ef", truncKey("abcdef", 5))
}
