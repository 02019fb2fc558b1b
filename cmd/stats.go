package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/rawpng-cli/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a built asset directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for manifest inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}

	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	printStats(cmd.OutOrStdout(), m)
	return nil
}

func printStats(out io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(out, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(out, "  Profile:          %s\n", m.Profile)
	if m.BuildInfo != nil {
		fmt.Fprintf(out, "  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Fprintf(out, "  Alpha mode:       %s\n", m.BuildInfo.Alpha)
	}
	fmt.Fprintln(out)

	s := m.Stats
	fmt.Fprintf(out, "  Total assets:     %d\n", s.TotalAssets)
	fmt.Fprintf(out, "  Total variants:   %d\n", s.TotalVariants)
	fmt.Fprintf(out, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(out, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))

	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Fprintf(out, "  Output/input:     %.1f%%\n", ratio)
	}
	if s.TotalDeflateBytes > 0 && s.TotalOutputBytes > 0 {
		ratio := float64(s.TotalDeflateBytes) / float64(s.TotalOutputBytes) * 100
		fmt.Fprintf(out, "  Deflate would be: %s (%.1f%% of output)\n", formatBytes(s.TotalDeflateBytes), ratio)
	}
	fmt.Fprintln(out)

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, a := range m.Assets {
		for _, v := range a.Variants {
			fs := formatStats[v.Format]
			fs.count++
			fs.bytes += v.Size
			formatStats[v.Format] = fs
		}
	}

	fmt.Fprintln(out, "  Format breakdown:")
	for _, f := range []string{"stored", "deflate"} {
		if fs, ok := formatStats[f]; ok {
			fmt.Fprintf(out, "    %-8s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
		}
	}
	fmt.Fprintln(out)

	// Per-width breakdown.
	widthStats := map[int]int{}
	for _, a := range m.Assets {
		for _, v := range a.Variants {
			widthStats[v.Width]++
		}
	}
	var widths []int
	for w := range widthStats {
		widths = append(widths, w)
	}
	sort.Ints(widths)
	fmt.Fprintln(out, "  Width breakdown:")
	for _, w := range widths {
		fmt.Fprintf(out, "    %5dpx  %4d variants\n", w, widthStats[w])
	}
	fmt.Fprintln(out)

	// Source breakdown.
	alpha, raw := 0, 0
	for _, a := range m.Assets {
		if a.Source.HasAlpha {
			alpha++
		}
		if a.Source.Format == "raw" {
			raw++
		}
	}
	fmt.Fprintf(out, "  With alpha:       %d / %d assets\n", alpha, len(m.Assets))
	fmt.Fprintf(out, "  Raw dumps:        %d / %d assets\n", raw, len(m.Assets))

	// Warnings.
	var warnings []string
	for key, a := range m.Assets {
		if len(a.Variants) == 0 {
			warnings = append(warnings, fmt.Sprintf("asset %q has no variants", key))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(out, "    ⚠ %s\n", w)
		}
	}
	fmt.Fprintln(out)
}
