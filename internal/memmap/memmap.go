// Package memmap classifies 24-bit physical addresses produced by the
// 68000 bus into the Mac Plus's memory-mapped regions: RAM, ROM, the
// VIA and SCC register windows, the IWM stub, and a handful of dummy
// ranges probed by the ROM at boot.
package memmap

// Region identifies which device owns a classified address.
type Region int

const (
	RegionRAM Region = iota
	RegionROM
	RegionVIA
	RegionSCCRead
	RegionSCCWrite
	RegionIWM
	RegionDummy
	RegionUnmapped
)

func (r Region) String() string {
	switch r {
	case RegionRAM:
		return "RAM"
	case RegionROM:
		return "ROM"
	case RegionVIA:
		return "VIA"
	case RegionSCCRead:
		return "SCC-read"
	case RegionSCCWrite:
		return "SCC-write"
	case RegionIWM:
		return "IWM"
	case RegionDummy:
		return "dummy"
	default:
		return "unmapped"
	}
}

// Address-space layout constants (spec.md §4.1). All addresses are
// 24-bit; the CPU library masks to Addr24Mask before calling the Bus.
const (
	Addr24Mask = 0x00FFFFFF

	romMirrorLo = 0x000000
	romMirrorHi = 0x0FFFFF
	romLo       = 0x200000
	romHi       = 0x2FFFFF
	ramLo       = 0x600000
	ramHi       = 0x6FFFFF
	sccRdLo     = 0x800000
	sccRdHi     = 0x9FFFFF
	sccWrLo     = 0xA00000
	sccWrHi     = 0xBFFFFF
	iwmLo       = 0xC00000
	iwmHi       = 0xDFFFFF
	viaLo       = 0xE80000
	viaHi       = 0xEFFFFF
	dummyLo     = 0xF00000
	dummyHi     = 0xFFFFFF

	// nonOverlayROMBase..nonOverlayROMEnd is the ROM window at
	// 0x400000, which classifies as ROM in both modes; once the overlay
	// is cleared RAM moves down to 0x000000.
	nonOverlayROMBase = 0x400000
	nonOverlayROMEnd  = 0x4FFFFF
)

// PVSonyAddr is the pseudo-address the patched .Sony driver writes its
// command tag to; a byte write there is intercepted by the bus
// dispatch and routed to the disc service (spec.md §4.6). It must fall
// inside the dummy region so it's never mistaken for RAM/ROM/device
// space.
const PVSonyAddr = 0xF80000

// Classify returns which region the given 24-bit address belongs to.
// In overlay mode, ROM is additionally mirrored at address 0 (so the
// reset vector at 0x000000 reads ROM); once overlay is cleared, RAM
// takes address 0 instead. The 0x400000-0x4FFFFF ROM window and all
// addresses at or above 0x600000 classify identically regardless of
// overlay (spec.md invariant 7) — the ROM's own boot-time code reads
// its tables through the 0x400000 window while overlay is still set.
func Classify(addr uint32, overlay bool) Region {
	addr &= Addr24Mask

	switch {
	case overlay && addr <= romMirrorHi:
		return RegionROM
	case addr >= nonOverlayROMBase && addr <= nonOverlayROMEnd:
		return RegionROM
	case !overlay && addr < nonOverlayROMBase:
		return RegionRAM
	case addr >= romLo && addr <= romHi:
		return RegionROM
	case addr >= ramLo && addr <= ramHi:
		return RegionRAM
	case addr >= sccRdLo && addr <= sccRdHi:
		return RegionSCCRead
	case addr >= sccWrLo && addr <= sccWrHi:
		return RegionSCCWrite
	case addr >= iwmLo && addr <= iwmHi:
		return RegionIWM
	case addr >= viaLo && addr <= viaHi:
		return RegionVIA
	case addr >= dummyLo && addr <= dummyHi:
		return RegionDummy
	default:
		return RegionUnmapped
	}
}
