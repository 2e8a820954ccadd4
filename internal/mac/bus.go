package mac

import (
	"fmt"
	"log"

	m68k "github.com/user-none/go-chip-m68k"

	"github.com/mattevans-umac/umacgo/internal/memmap"
	"github.com/mattevans-umac/umacgo/internal/rompatch"
)

// machBus adapts Machine to the imported CPU library's Bus interface
// (spec.md §1: the CPU is an external collaborator with a defined
// fetch/read/write API). Fatal faults — a word/long read from
// unmapped space, or a failed disc doorbell hook — are raised as Go
// panics recovered by Machine.Loop, per spec.md §9's guidance to use
// the target language's structured exception mechanism in place of the
// original's setjmp/longjmp escape.
type machBus struct {
	m *Machine
}

func (b machBus) Reset() {}

func (b machBus) Read(op m68k.Size, addr uint32) uint32 {
	region := memmap.Classify(addr, b.m.overlay)
	switch op {
	case m68k.Byte:
		return uint32(b.readByte(addr, region))
	case m68k.Word:
		return uint32(b.readWord(addr, region))
	default:
		hi := b.readWord(addr, region)
		lo := b.readWord(addr+2, memmap.Classify(addr+2, b.m.overlay))
		return (uint32(hi) << 16) | uint32(lo)
	}
}

func (b machBus) Write(op m68k.Size, addr uint32, val uint32) {
	region := memmap.Classify(addr, b.m.overlay)
	switch op {
	case m68k.Byte:
		b.writeByte(addr, byte(val), region)
	case m68k.Word:
		b.writeWord(addr, uint16(val), region)
	default:
		b.writeWord(addr, uint16(val>>16), region)
		b.writeWord(addr+2, uint16(val), memmap.Classify(addr+2, b.m.overlay))
	}
}

func (b machBus) readByte(addr uint32, region memmap.Region) byte {
	switch region {
	case memmap.RegionRAM:
		return b.m.ram[b.ramOffset(addr)]
	case memmap.RegionROM:
		return b.m.rom[addr&(rompatch.ROMSize-1)]
	case memmap.RegionVIA:
		return b.m.via.Read(addr)
	case memmap.RegionIWM:
		return b.m.iwmRead(addr)
	case memmap.RegionSCCRead:
		return b.m.scc.Read(addr)
	case memmap.RegionDummy:
		return 0
	default:
		log.Printf("mac: read byte from unmapped address %06x\n", addr)
		return 0
	}
}

func (b machBus) readWord(addr uint32, region memmap.Region) uint16 {
	switch region {
	case memmap.RegionRAM:
		off := b.ramOffset(addr)
		return wrappedWord(b.m.ram, off)
	case memmap.RegionROM:
		off := addr & (rompatch.ROMSize - 1)
		return wrappedWord(b.m.rom, off)
	case memmap.RegionDummy:
		return 0
	default:
		panic(fmt.Errorf("mac: fatal: word read from unmapped address %06x", addr))
	}
}

// wrappedWord reads a big-endian word starting at off, wrapping the
// second byte back to offset 0 if off is the last byte of buf (spec.md
// §4.1: word/long accesses wrap the buffer by masking with
// RAM_SIZE-1 rather than running off the end).
func wrappedWord(buf []byte, off uint32) uint16 {
	hi := buf[off]
	lo := buf[(off+1)%uint32(len(buf))]
	return uint16(hi)<<8 | uint16(lo)
}

// putWrappedWord is wrappedWord's write-side counterpart.
func putWrappedWord(buf []byte, off uint32, val uint16) {
	buf[off] = byte(val >> 8)
	buf[(off+1)%uint32(len(buf))] = byte(val)
}

func (b machBus) writeByte(addr uint32, val byte, region memmap.Region) {
	switch region {
	case memmap.RegionRAM:
		b.m.ram[b.ramOffset(addr)] = val
	case memmap.RegionVIA:
		b.m.via.Write(addr, val)
	case memmap.RegionIWM:
		b.m.iwmWrite(addr, val)
	case memmap.RegionSCCWrite:
		b.m.scc.Write(addr, val)
	case memmap.RegionDummy:
		if addr&memmap.Addr24Mask == b.m.pvSonyAddr() {
			if err := b.m.disc.Hook(val); err != nil {
				panic(fmt.Errorf("mac: fatal: disc hook failed: %w", err))
			}
			return
		}
		// Benign: unhandled byte write to dummy space (spec.md §7).
	default:
		log.Printf("mac: ignoring byte write %02x to address %06x\n", val, addr)
	}
}

func (b machBus) writeWord(addr uint32, val uint16, region memmap.Region) {
	switch region {
	case memmap.RegionRAM:
		off := b.ramOffset(addr)
		putWrappedWord(b.m.ram, off, val)
	default:
		log.Printf("mac: ignoring word write %04x to address %06x\n", val, addr)
	}
}

// ramOffset clamps a classified-RAM address into the host RAM buffer's
// range, so configurations with less than the full RAM address window
// populated still wrap predictably rather than indexing out of bounds.
func (b machBus) ramOffset(addr uint32) uint32 {
	if len(b.m.ram) == 0 {
		return 0
	}
	return addr % uint32(len(b.m.ram))
}

func (m *Machine) pvSonyAddr() uint32 {
	return m.pvSony
}

// iwmRead models the IWM register stub: register 8 always reads 0xFF,
// register 14 reads 0x1F, and any other register returns its last
// written value (spec.md §9 Open Questions: placeholders, pending
// real-IWM behaviour if a ROM path is ever found to depend on it).
func (m *Machine) iwmRead(addr uint32) byte {
	reg := (addr >> 9) & 0xF
	switch reg {
	case 8:
		return 0xFF
	case 14:
		return 0x1F
	default:
		return m.iwmRegs[reg]
	}
}

func (m *Machine) iwmWrite(addr uint32, val byte) {
	reg := (addr >> 9) & 0xF
	m.iwmRegs[reg] = val
}
