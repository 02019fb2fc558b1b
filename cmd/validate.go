package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/rawpng-cli/internal/hasher"
	"github.com/AnyUserName/rawpng-cli/internal/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a rawpng manifest and check referenced files",
	Long: `Checks the manifest fields, that every variant exists with the recorded
size and hash, and runs the PNG verifier on every stored variant.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]
	out := cmd.OutOrStdout()

	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(manifestPath)
	problems := validateManifest(m, baseDir)

	if len(problems) == 0 {
		fmt.Fprintln(out, "  ✓ Manifest is valid")
		fmt.Fprintf(out, "  ✓ %d assets, %d variants, all files present and verified\n",
			m.Stats.TotalAssets, m.Stats.TotalVariants)
		return nil
	}

	fmt.Fprintf(out, "  ✗ Manifest has %d error(s):\n", len(problems))
	for _, e := range problems {
		fmt.Fprintf(out, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(problems))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	// Check version.
	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	// Check each asset.
	for key, asset := range m.Assets {
		if asset.Source.Width <= 0 || asset.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid source dimensions %dx%d",
				key, asset.Source.Width, asset.Source.Height))
		}

		if len(asset.Variants) == 0 {
			errs = append(errs, fmt.Sprintf("asset %q: no variants", key))
		}

		seenPaths := map[string]bool{}
		for i, v := range asset.Variants {
			if v.Format == "" {
				errs = append(errs, fmt.Sprintf("asset %q variant[%d]: empty format", key, i))
			}
			if v.Width <= 0 || v.Height <= 0 {
				errs = append(errs, fmt.Sprintf("asset %q variant[%d]: invalid dimensions %dx%d",
					key, i, v.Width, v.Height))
			}
			if v.Hash == "" {
				errs = append(errs, fmt.Sprintf("asset %q variant[%d]: missing hash", key, i))
			}
			if v.Path == "" {
				errs = append(errs, fmt.Sprintf("asset %q variant[%d]: missing path", key, i))
				continue
			}

			// Check duplicate paths.
			if seenPaths[v.Path] {
				errs = append(errs, fmt.Sprintf("asset %q variant[%d]: duplicate path %q", key, i, v.Path))
			}
			seenPaths[v.Path] = true

			if msg := checkVariantFile(v, filepath.Join(baseDir, v.Path)); msg != "" {
				errs = append(errs, fmt.Sprintf("asset %q variant[%d]: %s", key, i, msg))
			}
		}
	}

	// Verify stats consistency.
	assetCount := len(m.Assets)
	variantCount := 0
	for _, a := range m.Assets {
		variantCount += len(a.Variants)
	}
	if m.Stats.TotalAssets != assetCount {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, assetCount))
	}
	if m.Stats.TotalVariants != variantCount {
		errs = append(errs, fmt.Sprintf("stats.total_variants mismatch: %d != %d", m.Stats.TotalVariants, variantCount))
	}

	return errs
}

// checkVariantFile compares one file on disk against its manifest entry.
// It returns an empty string when they agree.
func checkVariantFile(v manifest.Variant, fullPath string) string {
	rep, err := inspectFile(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "file not found: " + v.Path
	}
	if err != nil {
		return fmt.Sprintf("%s: %v", v.Path, err)
	}
	if err := rep.Err(); err != nil {
		return fmt.Sprintf("%s: %v", v.Path, err)
	}

	var size int64
	for _, c := range rep.Chunks {
		size += 12 + int64(c.Length)
	}
	size += 8
	if v.Size > 0 && size != v.Size {
		return fmt.Sprintf("size mismatch: manifest=%d, disk=%d", v.Size, size)
	}

	if int(rep.Header.Width) != v.Width || int(rep.Header.Height) != v.Height {
		return fmt.Sprintf("dimension mismatch: manifest=%dx%d, file=%dx%d",
			v.Width, v.Height, rep.Header.Width, rep.Header.Height)
	}

	if v.Format == "stored" {
		if rep.Compressed {
			return "stored variant contains compressed blocks"
		}
		if want := colorType(v.HasAlpha); rep.Header.ColorType != want {
			return fmt.Sprintf("color type %d, want %d", rep.Header.ColorType, want)
		}
	}

	hash, err := hasher.FileHash(fullPath, len(v.Hash))
	if err != nil {
		return fmt.Sprintf("hash %s: %v", v.Path, err)
	}
	if hash != v.Hash {
		return fmt.Sprintf("hash mismatch: manifest=%s, disk=%s", v.Hash, hash)
	}
	return ""
}

func colorType(hasAlpha bool) uint8 {
	if hasAlpha {
		return 6
	}
	return 2
}
