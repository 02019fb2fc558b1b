package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/rawpng-cli/internal/rawpng"
)

var verifyChunks bool

var verifyCmd = &cobra.Command{
	Use:   "verify <file.png>...",
	Short: "Check PNG structure, chunk CRCs and the zlib Adler-32",
	Long: `Reads each PNG and reports its header, chunk list and image data layout.
Works on any PNG; files written by rawpng show one stored block per row.
Exits non-zero if any file has problems.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyChunks, "chunks", false, "list every chunk")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0

	for _, path := range args {
		rep, err := inspectFile(path)
		if err == nil {
			err = rep.Err()
		}
		printReport(out, path, rep)

		if err != nil {
			failed++
			fmt.Fprintf(out, "  ✗ %s\n", err)
		} else {
			fmt.Fprintln(out, "  ✓ OK")
		}
		fmt.Fprintln(out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed verification", failed, len(args))
	}
	return nil
}

func inspectFile(path string) (*rawpng.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rawpng.Inspect(f)
}

func printReport(out io.Writer, path string, rep *rawpng.Report) {
	fmt.Fprintf(out, "  %s\n", path)
	if rep == nil {
		return
	}

	h := rep.Header
	fmt.Fprintf(out, "    Size:        %dx%d, depth %d, color type %d, interlace %d\n",
		h.Width, h.Height, h.BitDepth, h.ColorType, h.Interlace)
	fmt.Fprintf(out, "    Chunks:      %d\n", len(rep.Chunks))
	if verifyChunks {
		for _, c := range rep.Chunks {
			mark := "ok"
			if !c.CRCValid() {
				mark = fmt.Sprintf("BAD (computed %08x)", c.ComputedCRC)
			}
			fmt.Fprintf(out, "      %8d  %s  %10d  crc %08x %s\n", c.Offset, c.Type, c.Length, c.CRC, mark)
		}
	}
	if rep.Rows > 0 {
		fmt.Fprintf(out, "    Rows:        %d x %d bytes, %s inflated\n",
			rep.Rows, rep.RowStride, formatBytes(rep.InflatedSize))
	}
	if rep.Compressed {
		fmt.Fprintf(out, "    Deflate:     compressed (%d leading stored blocks)\n", rep.StoredBlocks)
	} else {
		fmt.Fprintf(out, "    Deflate:     %d stored blocks\n", rep.StoredBlocks)
	}
}
