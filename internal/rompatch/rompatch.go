// Package rompatch applies the fixed table of byte/word/long writes that
// turns a stock Mac Plus v3 ROM image into one that boots under this
// emulator: it bypasses the ROM checksum, overwrites the .Sony floppy
// driver with a stub that carries a magic doorbell address, and — when the
// requested configuration differs from the ROM's native 512x342/128KiB
// default — rewrites the screen-geometry and RAM-size constants the ROM
// would otherwise have derived from real hardware probing.
//
// All patches are grounded on the Mac Plus v3 ROM whose big-endian
// checksum word reads PlusV3Version; any other ROM is refused.
package rompatch

import (
	"encoding/binary"
	"fmt"
)

// PlusV3Version is the only ROM checksum this patcher understands
// (spec.md §4.6, Non-goals).
const PlusV3Version = 0x4D1F8172

// ROMSize is the fixed size of a Mac Plus ROM image.
const ROMSize = 128 * 1024

// sonyDriverOffset is where the .Sony driver's code begins in ROM.
const sonyDriverOffset = 0x17D30

// m68kNOP is the machine-code encoding of a 68000 NOP, used as filler
// and to blank out probing code the patches route around.
const m68kNOP = 0x4E71

// Config selects the screen geometry and RAM size a patched ROM should
// present to the OS. Defaults returns the ROM's own native values
// (512x342, 128 KiB); a zero field is not replaced by its native value.
type Config struct {
	DispWidth  int
	DispHeight int
	RAMSizeKiB int
}

// Defaults returns the Mac Plus's native configuration, for which the
// patch table touches only the checksum word and the .Sony region
// (spec.md invariant 6).
func Defaults() Config {
	return Config{DispWidth: 512, DispHeight: 342, RAMSizeKiB: 128}
}

// sonyStub is installed over the ROM's original .Sony driver. Its last
// four bytes are overwritten at patch time with the big-endian address
// the driver should doorbell-write to (PVSonyAddr); the first 60 bytes
// are 68000 NOPs. The stub holds no instruction that builds a parameter
// block or writes to PVSonyAddr. The exact opcode encoding of the
// original driver this replaces is not part of the retrieved sources
// (the generated sonydrv.h byte table wasn't present); this stub is
// sized to the original's 64-byte footprint.
var sonyStub = func() [64]byte {
	var b [64]byte
	for i := 0; i+1 < len(b)-4; i += 2 {
		binary.BigEndian.PutUint16(b[i:], m68kNOP)
	}
	return b
}()

// Version reads the ROM's leading checksum word, which doubles as a
// version identifier.
func Version(rom []byte) uint32 {
	if len(rom) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(rom[:4])
}

// Patch mutates rom in place per cfg. It is idempotent: applying it
// twice to the same input produces the same bytes as applying it once
// (spec.md invariant 5), since every write is a literal value rather
// than a relative adjustment. Unknown ROM versions are refused.
func Patch(rom []byte, pvSonyAddr uint32, cfg Config) error {
	if len(rom) != ROMSize {
		return fmt.Errorf("rompatch: ROM must be exactly %d bytes, got %d", ROMSize, len(rom))
	}
	v := Version(rom)
	if v != PlusV3Version {
		return fmt.Errorf("rompatch: unsupported ROM version %08X", v)
	}
	patchPlusV3(rom, pvSonyAddr, cfg)
	return nil
}

func wr32(rom []byte, offset int, val uint32) { binary.BigEndian.PutUint32(rom[offset:], val) }
func wr16(rom []byte, offset int, val uint16) { binary.BigEndian.PutUint16(rom[offset:], val) }
func wr8(rom []byte, offset int, val uint8)   { rom[offset] = val }

func patchPlusV3(rom []byte, pvSonyAddr uint32, cfg Config) {
	// Checksum compare "eor.l d3, d1" bodged into a no-op-equivalent
	// "eor.l d1, d1", which always yields zero, i.e. "equal."
	wr16(rom, 0xD92, 0xB381)

	// Install the replacement .Sony driver and point its trailing
	// pointer word at the doorbell address.
	copy(rom[sonyDriverOffset:], sonyStub[:])
	wr32(rom, sonyDriverOffset+len(sonyStub)-4, pvSonyAddr)

	ramSize := cfg.RAMSizeKiB * 1024
	if ramSize > 128*1024 && ramSize < 512*1024 {
		patchRAMSize(rom, ramSize)
	}

	if cfg.DispWidth != 512 || cfg.DispHeight != 342 {
		patchScreenGeometry(rom, cfg.DispWidth, cfg.DispHeight)
	}
}

// patchRAMSize overrides the ROM's probed-memory-top computation with a
// literal, and skips the checksum-driven failure branch that would
// otherwise reject anything but 128 KiB or 512 KiB.
func patchRAMSize(rom []byte, ramSize int) {
	for i := 0x376; i < 0x37E; i += 2 {
		wr16(rom, i, m68kNOP)
	}
	wr16(rom, 0x376, 0x2A7C) // movea.l #ram_size, A5
	wr16(rom, 0x378, uint16(ramSize>>16))
	wr16(rom, 0x37A, uint16(ramSize&0xFFFF))
	wr16(rom, 0x132, 0x6000) // bra (was beq)

	// BootBeep's sound buffer pointer, fixed relative to the new top.
	wr32(rom, 0x292, uint32(ramSize-768))
}

// sbcoord computes the byte offset of framebuffer pixel (x, y) relative
// to screenBase, for the bytes-per-row implied by dispWidth.
func sbcoord(screenBase, dispWidth, x, y int) uint32 {
	return uint32(screenBase + (dispWidth/8)*y + x/8)
}

// patchScreenGeometry rewrites the ~30 screen-geometry constants the
// ROM otherwise assumes are 512x342, relocating the framebuffer to sit
// just below the top-of-memory buffers as it does natively (spec.md
// §4.6).
func patchScreenGeometry(rom []byte, dispWidth, dispHeight int) {
	screenSize := dispWidth * dispHeight / 8
	screenDistanceFromTop := screenSize + 0x380
	screenBase := 0x400000 - screenDistanceFromTop

	// TestSoftware check at 0x42 is unused on real hardware; steal the
	// bytes 0x46-0x57 for a 32-bit SUBA patch, since the original
	// 16-bit immediate SUBA at 0x3A2 can't express an offset this
	// large without sign-extending negative.
	wr16(rom, 0x42, 0x6000)
	wr16(rom, 0x44, uint16(0x62-0x44))

	patch0 := 0x46
	wr16(rom, patch0+0, 0x9BFC) // suba.l #imm32, A5
	wr32(rom, patch0+2, uint32(screenDistanceFromTop))
	wr16(rom, patch0+6, 0x6000) // bra
	wr16(rom, patch0+8, uint16(0x3A4-(patch0+8)))

	patch2 := 0x32
	patch1 := patch0 + 10
	if dispWidth/8 >= 128 {
		wr16(rom, patch1+0, 0x3A3C) // move.w #bytesPerRow, D5
		wr16(rom, patch1+2, uint16(dispWidth/8))
		wr16(rom, patch1+4, 0xC2C5) // mulu D5, D1
		wr16(rom, patch1+6, 0x4E75) // rts

		wr16(rom, 0x2E, 0x6000)
		wr16(rom, 0x30, uint16(0x62-0x30))

		wr16(rom, patch2+0, 0x303C) // move.w #bytesPerRow, D0
		wr16(rom, patch2+2, uint16(dispWidth/8))
		wr16(rom, patch2+4, 0x41F8) // lea CrsrSave, A0
		wr16(rom, patch2+6, 0x088C)
		wr16(rom, patch2+8, 0x4E75) // rts
	}

	wr32(rom, 0x8A, uint32(screenBase))
	wr32(rom, 0x146, uint32(screenBase))
	wr32(rom, 0x164, sbcoord(screenBase, dispWidth, dispWidth/2-24, dispHeight/2+8))
	wr16(rom, 0x188, uint16(dispWidth/8))
	wr16(rom, 0x194, uint16(dispWidth/8))
	wr16(rom, 0x19C, uint16(6*dispWidth/8-1))
	wr32(rom, 0x1A4, sbcoord(screenBase, dispWidth, dispWidth/2-8, dispHeight/2+16))
	wr16(rom, 0x1EE, uint16(screenSize/4-1))

	wr32(rom, 0xF0C, sbcoord(screenBase, dispWidth, dispWidth/2-16, dispHeight/2-26))
	wr32(rom, 0xF18, sbcoord(screenBase, dispWidth, dispWidth/2-8, dispHeight/2-20))
	wr32(rom, 0x7E0, sbcoord(screenBase, dispWidth, dispWidth/2-16, dispHeight/2-26))
	wr32(rom, 0x7F2, sbcoord(screenBase, dispWidth, dispWidth/2-8, dispHeight/2-11))

	wr16(rom, 0x3A0, 0x6000)
	wr16(rom, 0x3A2, uint16(patch0-0x3A2))

	wr16(rom, 0x474, uint16(dispWidth/8))
	wr16(rom, 0x494, uint16(dispHeight))
	wr16(rom, 0x498, uint16(dispWidth))
	wr16(rom, 0xA0E, uint16(dispHeight))
	wr16(rom, 0xA10, uint16(dispWidth))
	wr16(rom, 0xEE2, uint16(dispWidth/8-4))
	wr16(rom, 0xEF2, uint16(dispWidth/8))
	wr16(rom, 0xF36, uint16(dispWidth/8-2))

	if dispWidth/8 >= 128 {
		wr16(rom, 0x1CCC, 0x4EBA) // jsr
		wr16(rom, 0x1CCE, uint16(patch2-0x1CCE))
		wr16(rom, 0x1CD0, m68kNOP)
		wr16(rom, 0x1D92, 0x4EBA) // jsr
		wr16(rom, 0x1D94, uint16(patch1-0x1D94))
	} else {
		wr8(rom, 0x1CD1, uint8(dispWidth/8))
		wr8(rom, 0x1D93, uint8(dispWidth/8))
	}

	wr16(rom, 0x1D48, uint16(dispWidth-32))
	wr16(rom, 0x1D4E, uint16(dispWidth-32))
	wr16(rom, 0x1D6E, uint16(dispHeight-16))
	wr16(rom, 0x1D74, uint16(dispHeight))
	wr16(rom, 0x1E68, uint16(dispHeight))
	wr16(rom, 0x1E6E, uint16(dispWidth))
	wr16(rom, 0x1E82, uint16(dispHeight))
}

// FBOffset returns the CPU address (with overlay cleared) at which the
// framebuffer begins once the ROM has been patched for cfg. For the
// native 512x342 configuration this is the well-known 0x3FA700; other
// geometries follow the same placement rule the ROM patcher uses
// (spec.md boundary scenario BOOT). The value does not depend on the
// RAM size; Machine.GetFBOffset wraps it into the RAM buffer.
func FBOffset(cfg Config) uint32 {
	screenSize := cfg.DispWidth * cfg.DispHeight / 8
	return uint32(0x400000 - screenSize - 0x380)
}

// AudioOffset returns the byte offset into RAM of the sound buffer
// BootBeep writes through, following the same boot-beep fixup the RAM
// size patch applies.
func AudioOffset(cfg Config) uint32 {
	ramSize := cfg.RAMSizeKiB * 1024
	return uint32(ramSize - 768)
}
