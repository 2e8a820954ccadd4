package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattevans-umac/umacgo/internal/memmap"
	"github.com/mattevans-umac/umacgo/internal/rompatch"
)

type patchFlags struct {
	ROMPath   string
	BinOut    string
	HeaderOut string
	Width     int
	Height    int
	RAMKiB    int
	VGA       bool
}

var flags patchFlags

func runPatch(cmd *cobra.Command, args []string) error {
	if flags.BinOut == "" && flags.HeaderOut == "" {
		return fmt.Errorf("must specify either -W (binary) or -o (C header) output")
	}
	if flags.VGA {
		flags.Width, flags.Height = 640, 480
	}

	rom, err := os.ReadFile(flags.ROMPath)
	if err != nil {
		return fmt.Errorf("read ROM: %w", err)
	}
	if len(rom) != rompatch.ROMSize {
		return fmt.Errorf("ROM %s is %d bytes, want %d", flags.ROMPath, len(rom), rompatch.ROMSize)
	}

	cfg := rompatch.Config{DispWidth: flags.Width, DispHeight: flags.Height, RAMSizeKiB: flags.RAMKiB}
	if err := rompatch.Patch(rom, memmap.PVSonyAddr, cfg); err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	fmt.Printf("Patched ROM for screen size %dx%d\n", flags.Width, flags.Height)

	if flags.BinOut != "" {
		if err := os.WriteFile(flags.BinOut, rom, 0o644); err != nil {
			return fmt.Errorf("write binary output: %w", err)
		}
		fmt.Printf("Dumped ROM to %s\n", flags.BinOut)
	}

	if flags.HeaderOut != "" {
		if err := writeCHeader(flags.HeaderOut, rom); err != nil {
			return fmt.Errorf("write C-header output: %w", err)
		}
		fmt.Printf("Dumped ROM to %s as header\n", flags.HeaderOut)
	}

	return nil
}

// writeCHeader emits the ROM as a comma-separated decimal byte array,
// sixteen values per line, matching the original patcher's dump
// format so the result can be #included verbatim.
func writeCHeader(path string, rom []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, b := range rom {
		if _, err := fmt.Fprintf(f, "%d,", b); err != nil {
			return err
		}
		if i%16 == 15 {
			if _, err := fmt.Fprintln(f); err != nil {
				return err
			}
		}
	}
	_, err = fmt.Fprintln(f)
	return err
}
