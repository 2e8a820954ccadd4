package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattevans-umac/umacgo/internal/mac"
	"github.com/mattevans-umac/umacgo/internal/memmap"
	"github.com/mattevans-umac/umacgo/internal/rompatch"
	"github.com/mattevans-umac/umacgo/internal/ui"
)

type runFlags struct {
	ROMPath    string
	Disc1Path  string
	Disc2Path  string
	Disc1RO    bool
	Disc2RO    bool
	RAMSizeKiB int
	DispWidth  int
	DispHeight int
	VGA        bool
	Scale      int
	Title      string
}

var rf runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "patch a ROM image and run it in a window",
	Args:  cobra.NoArgs,
	Run:   runMacEmu,
}

func init() {
	runCmd.Flags().StringVar(&rf.ROMPath, "rom", "", "path to a Mac Plus v3 ROM image (required)")
	runCmd.Flags().StringVar(&rf.Disc1Path, "disc1", "", "path to a floppy disc image for drive 0")
	runCmd.Flags().StringVar(&rf.Disc2Path, "disc2", "", "path to a floppy disc image for drive 1")
	runCmd.Flags().BoolVar(&rf.Disc1RO, "disc1-readonly", false, "mount disc1 read-only")
	runCmd.Flags().BoolVar(&rf.Disc2RO, "disc2-readonly", false, "mount disc2 read-only")
	runCmd.Flags().IntVar(&rf.RAMSizeKiB, "ram", 128, "RAM size in KiB")
	runCmd.Flags().IntVar(&rf.DispWidth, "width", 512, "display width")
	runCmd.Flags().IntVar(&rf.DispHeight, "height", 342, "display height")
	runCmd.Flags().BoolVar(&rf.VGA, "vga", false, "shorthand for -width 640 -height 480")
	runCmd.Flags().IntVar(&rf.Scale, "scale", 2, "window integer upscale")
	runCmd.Flags().StringVar(&rf.Title, "title", "macemu", "window title")
	runCmd.MarkFlagRequired("rom")
}

func runMacEmu(cmd *cobra.Command, args []string) {
	if rf.VGA {
		rf.DispWidth, rf.DispHeight = 640, 480
	}

	rom, err := os.ReadFile(rf.ROMPath)
	if err != nil {
		log.Fatalf("read ROM: %v", err)
	}
	if len(rom) != rompatch.ROMSize {
		log.Fatalf("ROM %s is %d bytes, want %d", rf.ROMPath, len(rom), rompatch.ROMSize)
	}

	geometry := rompatch.Config{
		DispWidth:  rf.DispWidth,
		DispHeight: rf.DispHeight,
		RAMSizeKiB: rf.RAMSizeKiB,
	}
	if err := rompatch.Patch(rom, memmap.PVSonyAddr, geometry); err != nil {
		log.Fatalf("patch ROM: %v", err)
	}

	ram := make([]byte, rf.RAMSizeKiB*1024)

	cfg := mac.Config{
		RAM:        ram,
		ROM:        rom,
		Geometry:   geometry,
		PVSonyAddr: memmap.PVSonyAddr,
		EjectCallback: func(drive int) {
			log.Printf("macemu: drive %d ejected", drive)
		},
	}
	loadDisc(&cfg.Discs[0], rf.Disc1Path, rf.Disc1RO)
	loadDisc(&cfg.Discs[1], rf.Disc2Path, rf.Disc2RO)

	m := mac.New(cfg)

	uiCfg := ui.Config{Title: rf.Title, Scale: rf.Scale, DispWidth: rf.DispWidth, DispHeight: rf.DispHeight}
	app := ui.NewApp(uiCfg, m, ram)
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadDisc(dst *mac.DiscImage, path string, readOnly bool) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read disc image %s: %v", path, err)
	}
	dst.Image = data
	dst.ReadOnly = readOnly
}
