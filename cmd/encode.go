package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/rawpng-cli/internal/pipeline"
	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

var (
	encodeIn     string
	encodeOut    string
	encodeWidth  uint32
	encodeHeight uint32
	encodeAlpha  bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode -i <dump> -o <out.png>",
	Short: "Write a raw RGB/RGBA pixel dump as an uncompressed PNG",
	Long: `Reads tightly packed 8-bit pixels (R,G,B or R,G,B,A, rows top to bottom,
no padding) and writes them as a PNG with stored deflate blocks.

Width and height come from --width/--height, or from a file name such as
frame.640x480.rgb (.rgba implies --alpha). Use "-" for stdin or stdout.`,
	Args: cobra.NoArgs,
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeIn, "input", "i", "", "raw pixel file (- for stdin)")
	encodeCmd.Flags().StringVarP(&encodeOut, "output", "o", "", "PNG file to write (- for stdout)")
	encodeCmd.Flags().Uint32Var(&encodeWidth, "width", 0, "image width in pixels")
	encodeCmd.Flags().Uint32Var(&encodeHeight, "height", 0, "image height in pixels")
	encodeCmd.Flags().BoolVar(&encodeAlpha, "alpha", false, "pixels carry an alpha channel (RGBA)")
	for _, name := range []string{"input", "output"} {
		if err := encodeCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, _ []string) error {
	img := rawpng.Image{
		Width:    encodeWidth,
		Height:   encodeHeight,
		HasAlpha: encodeAlpha,
	}

	if encodeIn != "-" && (img.Width == 0 || img.Height == 0) {
		// Explicit flags win; the name only fills what is missing.
		if _, w, h, alpha, ok := pipeline.ParseRawName(filepath.Base(encodeIn)); ok {
			if img.Width == 0 {
				img.Width = w
			}
			if img.Height == 0 {
				img.Height = h
			}
			img.HasAlpha = img.HasAlpha || alpha
		}
	}
	if img.Width == 0 || img.Height == 0 {
		return fmt.Errorf("%w: set --width and --height", rawpng.ErrInvalidDimensions)
	}

	var err error
	if encodeIn == "-" {
		img.Pix, err = io.ReadAll(cmd.InOrStdin())
	} else {
		img.Pix, err = os.ReadFile(encodeIn)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if err := writePNG(cmd.Context(), cmd.OutOrStdout(), encodeOut, img); err != nil {
		return err
	}

	size, _ := rawpng.EncodedSize(img)
	logVerbose("wrote %s: %dx%d, %d channels, %s", encodeOut, img.Width, img.Height, img.Channels(), formatBytes(size))
	return nil
}
