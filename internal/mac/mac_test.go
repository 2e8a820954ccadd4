package mac

import (
	"encoding/binary"
	"testing"

	m68k "github.com/user-none/go-chip-m68k"

	"github.com/mattevans-umac/umacgo/internal/memmap"
	"github.com/mattevans-umac/umacgo/internal/rompatch"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	ram := make([]byte, 128*1024)
	rom := make([]byte, rompatch.ROMSize)
	binary.BigEndian.PutUint32(rom, rompatch.PlusV3Version)
	cfg := rompatch.Defaults()
	if err := rompatch.Patch(rom, 0xF80000, cfg); err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	return New(Config{RAM: ram, ROM: rom, Geometry: cfg, PVSonyAddr: 0xF80000})
}

func TestAbsMouseWritesLowMemoryGlobals(t *testing.T) {
	// spec.md §8 boundary scenario MOUSE MOTION.
	m := newTestMachine(t)
	m.ram[crsrCouple] = 0x01

	m.AbsMouse(100, 80, false)

	if got := int16(uint16(m.ram[mTempH])<<8 | uint16(m.ram[mTempH+1])); got != 100 {
		t.Fatalf("MTemp_h = %d, want 100", got)
	}
	if got := int16(uint16(m.ram[mTempV])<<8 | uint16(m.ram[mTempV+1])); got != 80 {
		t.Fatalf("MTemp_v = %d, want 80", got)
	}
	if m.ram[crsrNew] != m.ram[crsrCouple] {
		t.Fatalf("CrsrNew (%#x) != CrsrCouple (%#x)", m.ram[crsrNew], m.ram[crsrCouple])
	}
}

func TestOverlayClearSwitchesAddressZeroToRAM(t *testing.T) {
	// spec.md §8 boundary scenario OVERLAY CLEAR.
	m := newTestMachine(t)
	m.ram[0] = 0xAB
	m.ram[1] = 0xCD

	if !m.overlay {
		t.Fatalf("overlay should default to true at reset")
	}
	m.viaRAChanged(0xFF) // bit 4 set: overlay stays asserted
	if !m.overlay {
		t.Fatalf("overlay cleared unexpectedly")
	}
	m.viaRAChanged(0xEF) // bit 4 cleared
	if m.overlay {
		t.Fatalf("overlay did not clear on bit 4 = 0")
	}

	b := machBus{m}
	got := b.readWord(0, memmap.Classify(0, m.overlay))
	if got != 0xABCD {
		t.Fatalf("word read at 0 after overlay clear = %#x, want RAM contents 0xABCD", got)
	}
}

func TestWordAccessWrapsAtEndOfRAM(t *testing.T) {
	// spec.md §4.1: word/long accesses wrap the buffer (mask with
	// RAM_SIZE-1) instead of running past the end.
	m := newTestMachine(t)
	last := uint32(len(m.ram) - 1)
	b := machBus{m}

	b.writeWord(last, 0xABCD, memmap.RegionRAM)
	if m.ram[last] != 0xAB {
		t.Fatalf("high byte at last RAM offset = %#x, want 0xAB", m.ram[last])
	}
	if m.ram[0] != 0xCD {
		t.Fatalf("low byte did not wrap to offset 0: got %#x, want 0xCD", m.ram[0])
	}

	got := b.readWord(last, memmap.RegionRAM)
	if got != 0xABCD {
		t.Fatalf("wrapped word read = %#x, want 0xABCD", got)
	}
}

func TestIWMRegisterStub(t *testing.T) {
	m := newTestMachine(t)
	if got := m.iwmRead(8 << 9); got != 0xFF {
		t.Fatalf("IWM reg 8 = %#x, want 0xFF", got)
	}
	if got := m.iwmRead(14 << 9); got != 0x1F {
		t.Fatalf("IWM reg 14 = %#x, want 0x1F", got)
	}
	m.iwmWrite(3<<9, 0x42)
	if got := m.iwmRead(3 << 9); got != 0x42 {
		t.Fatalf("IWM reg 3 = %#x, want latched 0x42", got)
	}
}

func TestDiscDoorbellThroughBusWrite(t *testing.T) {
	m := newTestMachine(t)
	img := make([]byte, 512)
	img[0] = 0xDE
	m.disc.Insert(0, img, false)
	m.disc.SetParamBlockAddr(sonyParamBlockAddr)

	const bufAddr = 0x4000
	m.ram[sonyParamBlockAddr+0] = 0 // drive 0
	putBE32(m.ram, sonyParamBlockAddr+2, bufAddr)
	putBE32(m.ram, sonyParamBlockAddr+6, 512)
	putBE32(m.ram, sonyParamBlockAddr+10, 0)

	b := machBus{m}
	b.Write(m68k.Byte, m.pvSonyAddr(), 1 /* CmdPrimeRead */)

	if m.ram[bufAddr] != 0xDE {
		t.Fatalf("disc read via doorbell did not land in RAM buffer")
	}
}

func putBE32(buf []byte, addr uint32, v uint32) {
	buf[addr+0] = byte(v >> 24)
	buf[addr+1] = byte(v >> 16)
	buf[addr+2] = byte(v >> 8)
	buf[addr+3] = byte(v)
}
