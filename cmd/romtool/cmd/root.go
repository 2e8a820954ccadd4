package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd patches a Mac Plus v3 ROM offline, without running it
// (spec.md §6: CLI offline ROM patcher tool).
var rootCmd = &cobra.Command{
	Use:   "romtool",
	Short: "patch a Mac Plus v3 ROM image for umacgo",
	Long:  "romtool applies the fixed checksum/.Sony/RAM-size/screen-geometry patch table to a Mac Plus v3 ROM dump, without running the emulator.",
	RunE:  runPatch,
}

func init() {
	// -h is claimed below for --height, so cobra's default help flag
	// (which also wants shorthand "h") must be registered without one
	// first, or pflag panics on the shorthand collision.
	rootCmd.Flags().BoolP("help", "", false, "help for romtool")

	rootCmd.Flags().StringVarP(&flags.ROMPath, "rom", "r", "", "input ROM path (required)")
	rootCmd.Flags().StringVarP(&flags.BinOut, "bin-out", "W", "", "binary output path")
	rootCmd.Flags().StringVarP(&flags.HeaderOut, "header-out", "o", "", "C-header output path")
	rootCmd.Flags().IntVarP(&flags.Width, "width", "w", 512, "display width")
	rootCmd.Flags().IntVarP(&flags.Height, "height", "h", 342, "display height")
	rootCmd.Flags().IntVarP(&flags.RAMKiB, "ram", "m", 128, "RAM size in KiB")
	rootCmd.Flags().BoolVarP(&flags.VGA, "vga", "v", false, "shorthand for -w 640 -h 480")
	rootCmd.MarkFlagRequired("rom")
}

// Execute runs romtool according to the user's flags.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
