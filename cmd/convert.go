package cmd

import (
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/rawpng-cli/internal/pipeline"
	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

var (
	convertOut   string
	convertAlpha string
	convertWidth int
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> -o <out.png>",
	Short: "Re-encode an image (png, jpeg, gif, bmp, tiff, webp, raw dump) as uncompressed PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "output", "o", "", "PNG file to write (- for stdout)")
	convertCmd.Flags().StringVar(&convertAlpha, "alpha", "auto", "alpha channel: auto, keep or drop")
	convertCmd.Flags().IntVar(&convertWidth, "width", 0, "downscale to this width (0 = original)")
	if err := convertCmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	mode, err := rawpng.ParseAlphaMode(convertAlpha)
	if err != nil {
		return err
	}

	src, err := pipeline.SourceFromPath(args[0])
	if err != nil {
		return err
	}
	img, err := pipeline.Decode(src)
	if err != nil {
		return err
	}

	b := img.Bounds()
	if convertWidth > 0 && convertWidth < b.Dx() {
		h := int(float64(b.Dy()) * float64(convertWidth) / float64(b.Dx()))
		if h < 1 {
			h = 1
		}
		img = imaging.Resize(img, convertWidth, h, imaging.Lanczos)
	} else if convertWidth > b.Dx() {
		logVerbose("width %d is larger than the source (%d), keeping original size", convertWidth, b.Dx())
	}

	raster := rawpng.FromImage(img, mode)
	if err := writePNG(cmd.Context(), cmd.OutOrStdout(), convertOut, raster); err != nil {
		return err
	}

	size, _ := rawpng.EncodedSize(raster)
	logVerbose("%s (%s, %s) -> %s (%dx%d, alpha=%t, %s)",
		src.RelPath, src.Format, formatBytes(src.Size),
		convertOut, raster.Width, raster.Height, raster.HasAlpha, formatBytes(size))
	return nil
}
