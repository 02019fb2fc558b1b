package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/rawpng-cli/internal/manifest"
	"github.com/AnyUserName/rawpng-cli/internal/pipeline"
	"github.com/AnyUserName/rawpng-cli/internal/profile"
	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

var (
	buildOutDir  string
	buildProfile string
	buildWorkers int
	buildWidths  []int
	buildFormats []string
	buildAlpha   string
	buildCompare bool
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Convert a directory of images into uncompressed PNG variants + manifest",
	Long: `Scans input directory for images (png, jpg, jpeg, webp, gif, bmp, tiff) and
raw pixel dumps named <name>.<W>x<H>.rgb or .rgba, writes one PNG per
profile width, and records everything in a manifest file.

Output filenames are content-addressed: <key>.<w>.<h>.<hash>.png`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "./rawpng_out", "output directory")
	buildCmd.Flags().StringVarP(&buildProfile, "profile", "p", "original",
		"processing profile ("+strings.Join(profile.Names(), ", ")+")")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	buildCmd.Flags().IntSliceVar(&buildWidths, "widths", nil, "custom widths (overrides profile)")
	buildCmd.Flags().StringSliceVar(&buildFormats, "formats", nil, "encoders to run: stored, deflate (overrides profile)")
	buildCmd.Flags().StringVar(&buildAlpha, "alpha", "", "alpha channel: auto, keep or drop (overrides profile)")
	buildCmd.Flags().BoolVar(&buildCompare, "compare", false, "also record best-compression sizes")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Load profile.
	prof := profile.Get(buildProfile)
	if buildWidths != nil {
		prof.Widths = buildWidths
	}
	if buildFormats != nil {
		prof.Formats = buildFormats
	}
	if buildAlpha != "" {
		prof.Alpha, err = rawpng.ParseAlphaMode(buildAlpha)
		if err != nil {
			return err
		}
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (widths=%v, formats=%v, alpha=%s)", prof.Name, prof.Widths, prof.Formats, prof.Alpha)

	// Create output dir.
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Run pipeline.
	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Workers:   buildWorkers,
		Compare:   buildCompare,
	})

	m, err := p.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	// Write manifest.
	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	elapsed := time.Since(start)

	// Print report.
	printBuildReport(cmd.OutOrStdout(), m, elapsed)

	return nil
}

func printBuildReport(out io.Writer, m *manifest.Manifest, elapsed time.Duration) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "╔══════════════════════════════════════════════════╗")
	fmt.Fprintln(out, "║              rawpng build complete               ║")
	fmt.Fprintln(out, "╚══════════════════════════════════════════════════╝")
	fmt.Fprintln(out)

	stats := m.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Fprintf(out, "  Assets:      %d\n", stats.TotalAssets)
	fmt.Fprintf(out, "  Variants:    %d\n", stats.TotalVariants)
	fmt.Fprintf(out, "  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Fprintf(out, "  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Fprintf(out, "  Ratio:       %.1f%% of input\n", ratio)
	if stats.TotalDeflateBytes > 0 {
		fmt.Fprintf(out, "  Deflate:     %s with best compression\n", formatBytes(stats.TotalDeflateBytes))
	}
	fmt.Fprintf(out, "  Time:        %s\n", elapsed.Round(time.Millisecond))

	if m.BuildInfo != nil {
		fmt.Fprintf(out, "  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintln(out)

	// Top 10 heaviest outputs.
	if len(m.Assets) > 0 {
		type assetSize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []assetSize
		for key, a := range m.Assets {
			var outSum int64
			for _, v := range a.Variants {
				outSum += v.Size
			}
			items = append(items, assetSize{key, a.Source.Size, outSum})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].outputSize != items[j].outputSize {
				return items[i].outputSize > items[j].outputSize
			}
			return items[i].key < items[j].key
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Fprintf(out, "  Top %d heaviest (input → output):\n", n)
		for _, it := range items[:n] {
			fmt.Fprintf(out, "    %-40s %8s → %8s\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
			)
		}
		fmt.Fprintln(out)
	}

	fmts := detectOutputFormats(m)
	fmt.Fprintf(out, "  Formats:     %s\n", strings.Join(fmts, ", "))
	fmt.Fprintln(out)

	// Manifest path.
	data, _ := json.Marshal(m)
	fmt.Fprintf(out, "  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Fprintln(out)
}

func detectOutputFormats(m *manifest.Manifest) []string {
	set := map[string]bool{}
	for _, a := range m.Assets {
		for _, v := range a.Variants {
			set[v.Format] = true
		}
	}
	var out []string
	for _, f := range []string{"stored", "deflate"} {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
