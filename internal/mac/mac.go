// Package mac wires the memory map, VIA, SCC, interrupt controller,
// keyboard service, and disc service into a single Machine that drives
// an imported 68000 CPU library, and implements the main dispatch loop
// (spec.md §4.7). It is the one place all the core's collaborators are
// constructed together, resolving the cyclic VIA/interrupt-controller/
// CPU graph by passing callbacks at construction time (spec.md §9).
package mac

import (
	"encoding/binary"
	"fmt"
	"log"

	m68k "github.com/user-none/go-chip-m68k"

	"github.com/mattevans-umac/umacgo/internal/disc"
	"github.com/mattevans-umac/umacgo/internal/intc"
	"github.com/mattevans-umac/umacgo/internal/keyboard"
	"github.com/mattevans-umac/umacgo/internal/memmap"
	"github.com/mattevans-umac/umacgo/internal/rompatch"
	"github.com/mattevans-umac/umacgo/internal/scc"
	"github.com/mattevans-umac/umacgo/internal/via"
)

// execLoopQuantumUS is one quantum of virtual time, matching the
// original's UMAC_EXECLOOP_QUANTUM; the keyboard service's delayed
// reply is timed against it.
const execLoopQuantumUS = 5000

// cyclesPerUS is the 68000's clock divided down to the simpler 8:1
// ratio the original uses for timekeeping (spec.md §4.7 step 3).
const cyclesPerUS = 8

// Machine is a complete, host-independent Mac Plus emulation core.
type Machine struct {
	ram []byte
	rom []byte

	overlay bool
	cfg     rompatch.Config

	via  *via.VIA
	scc  *scc.SCC
	intc *intc.Controller
	kbd  *keyboard.Keyboard
	disc *disc.Service
	cpu  *m68k.CPU

	pvSony  uint32
	iwmRegs [16]byte

	quadBits      byte
	mousePressed  bool
	audioVolume   byte
	soundEnabled  bool
	globalCycles  uint64
	globalTimeUS  int64
	disassemble   bool
	ejectCallback func(drive int)
	audioCfg      func(volume byte, enabled bool)

	fault error
}

// Config bundles the buffers and geometry a host must supply at
// construction (spec.md §3, §6: ram/rom are host-owned, pre-sized, and
// the rom has already been passed through rompatch.Patch).
type Config struct {
	RAM        []byte
	ROM        []byte
	Geometry   rompatch.Config
	PVSonyAddr uint32

	Discs         [disc.NumDrives]DiscImage
	EjectCallback func(drive int)
	AudioConfig   func(volume byte, enabled bool)
}

// DiscImage describes one disc slot at construction time.
type DiscImage struct {
	Image    []byte
	ReadOnly bool
}

// New constructs a Machine. rom must already have been patched by
// rompatch.Patch; New does not patch it again.
func New(cfg Config) *Machine {
	if cfg.PVSonyAddr == 0 {
		cfg.PVSonyAddr = memmap.PVSonyAddr
	}
	m := &Machine{
		ram:           cfg.RAM,
		rom:           cfg.ROM,
		overlay:       true,
		cfg:           cfg.Geometry,
		pvSony:        cfg.PVSonyAddr,
		quadBits:      0,
		ejectCallback: cfg.EjectCallback,
		audioCfg:      cfg.AudioConfig,
	}

	m.intc = intc.New(func(level uint8) {
		if level == 0 {
			return
		}
		m.cpu.RequestInterrupt(level, nil)
	})

	m.via = via.New(via.Callbacks{
		RAChange: m.viaRAChanged,
		RBChange: m.viaRBChanged,
		RAIn:     func() byte { return 0 },
		RBIn:     m.viaRBIn,
		SRTx:     m.viaSRTx,
		IRQSet: func(asserted bool) {
			if asserted {
				m.intc.Set(intc.LevelVIA)
			} else {
				m.intc.Clear(intc.LevelVIA)
			}
		},
	})

	m.scc = scc.New(scc.Callbacks{
		IRQSet: func(asserted bool) {
			if asserted {
				m.intc.Set(intc.LevelSCC)
			} else {
				m.intc.Clear(intc.LevelSCC)
			}
		},
	})

	m.kbd = keyboard.New(m.via.SRRx)

	m.disc = disc.New(ramAccessor{m}, disc.Callbacks{
		Ejected: func(drive int) {
			if m.ejectCallback != nil {
				m.ejectCallback(drive)
			}
		},
	})
	for i, d := range cfg.Discs {
		if d.Image != nil {
			m.disc.Insert(i, d.Image, d.ReadOnly)
		}
	}
	// Every command written to PVSonyAddr reads its parameter block
	// from this fixed low-memory cell. rompatch.sonyStub contains no
	// code that fills it.
	m.disc.SetParamBlockAddr(sonyParamBlockAddr)

	m.cpu = m68k.New(machBus{m})
	return m
}

// sonyParamBlockAddr is the fixed RAM address at which the disc
// service reads the parameter block for each command written to
// PVSonyAddr. 0x0C00 sits in the OS's low-memory
// scratch area, below any ROM-reserved vector or global the Plus v3
// ROM depends on during boot.
const sonyParamBlockAddr = 0x0C00

// ramAccessor adapts Machine's RAM buffer to disc.RAM.
type ramAccessor struct{ m *Machine }

func (r ramAccessor) ReadBytes(addr uint32, n int) []byte {
	return r.m.ram[addr : addr+uint32(n)]
}

func (r ramAccessor) WriteBytes(addr uint32, data []byte) {
	copy(r.m.ram[addr:], data)
}

// Reset re-pulses the CPU and restores the boot-time overlay mapping
// (spec.md §6).
func (m *Machine) Reset() {
	m.overlay = true
	m.via.Reset()
	m.scc.Reset()
	m.cpu.Reset()
}

// OptDisassemble toggles per-instruction tracing (spec.md §6); this
// core has no disassembler of its own (the imported CPU library
// doesn't provide one), so when enabled it logs only the PC after each
// CPU step, with no instruction words or mnemonics.
func (m *Machine) OptDisassemble(enable bool) {
	m.disassemble = enable
}

// KbdEvent queues a key transition (spec.md §6).
func (m *Machine) KbdEvent(scancode byte, down bool) {
	m.kbd.Event(scancode, down)
}

// Mouse applies a relative mouse motion and button state by driving
// the VIA's quadrature-bit latch (spec.md §6, §9: a simplified latch
// rather than a true two-phase quadrature sequence).
func (m *Machine) Mouse(deltaX, deltaY int, button bool) {
	if deltaX > 0 {
		m.quadBits |= 1 << 4
	} else if deltaX < 0 {
		m.quadBits &^= 1 << 4
	}
	if deltaY > 0 {
		m.quadBits |= 1 << 5
	} else if deltaY < 0 {
		m.quadBits &^= 1 << 5
	}
	m.mousePressed = button
}

// Low-memory mouse globals the OS reads directly (spec.md §6).
const (
	mTempH     = 0x82A
	mTempV     = 0x828
	crsrNew    = 0x8CE
	crsrCouple = 0x8CF
)

// AbsMouse writes absolute mouse position directly into the OS's low-
// memory mouse temp variables and re-couples the cursor (spec.md §6,
// boundary scenario MOUSE MOTION).
func (m *Machine) AbsMouse(x, y int16, button bool) {
	binary.BigEndian.PutUint16(m.ram[mTempH:], uint16(x))
	binary.BigEndian.PutUint16(m.ram[mTempV:], uint16(y))
	m.ram[crsrNew] = m.ram[crsrCouple]
	m.mousePressed = button
}

// VsyncEvent asserts the VIA's vertical-blank interrupt input, to be
// called by the host once per 1/60s (spec.md §4.7 step 6).
func (m *Machine) VsyncEvent() {
	m.via.AssertCA1()
}

// OneHzEvent asserts the VIA's one-second clock interrupt input
// (spec.md §4.7 step 6).
func (m *Machine) OneHzEvent() {
	m.via.AssertCA2()
}

// GetFBOffset returns the framebuffer's byte offset into the RAM
// buffer: the framebuffer address from rompatch.FBOffset, wrapped into
// the buffer the same way bus RAM accesses wrap (spec.md §6). The
// result does not depend on the overlay flag.
func (m *Machine) GetFBOffset() uint32 {
	return machBus{m}.ramOffset(rompatch.FBOffset(m.cfg))
}

// GetAudioOffset returns the current sound-buffer byte offset into RAM
// (spec.md §6).
func (m *Machine) GetAudioOffset() uint32 {
	return rompatch.AudioOffset(m.cfg)
}

// EjectDisc ejects the given drive, notifying the host.
func (m *Machine) EjectDisc(drive int) {
	m.disc.Eject(drive)
}

// Loop runs the emulator for one quantum: it caps the CPU's budget to
// the VIA's next expected event, executes the CPU, ticks the VIA,
// services deferred keyboard work, and returns whether a fatal fault
// occurred (spec.md §4.7). The host may call VsyncEvent/OneHzEvent
// between calls to Loop.
func (m *Machine) Loop() (fatal bool) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				m.fault = err
			} else {
				m.fault = fmt.Errorf("mac: fatal fault: %v", r)
			}
			fatal = true
		}
	}()

	budget := execLoopQuantumUS * 8
	budget = m.via.LimitCycles(budget)

	used := 0
	for used < budget {
		n := m.cpu.StepCycles(budget - used)
		if n <= 0 {
			break
		}
		used += n
		if m.disassemble {
			regs := m.cpu.Registers()
			log.Printf("E %06x\n", regs.PC)
		}
	}

	m.globalCycles += uint64(used)
	m.globalTimeUS = int64(m.globalCycles / cyclesPerUS)

	m.via.Tick(used)
	m.kbd.CheckWork(m.globalTimeUS, execLoopQuantumUS)

	return false
}

// LastFault returns the error recorded by the most recent fatal Loop
// call, or nil.
func (m *Machine) LastFault() error {
	return m.fault
}

func (m *Machine) viaRAChanged(val byte) {
	wasOverlay := m.overlay
	m.overlay = val&0x10 != 0
	if wasOverlay != m.overlay {
		log.Printf("mac: overlay %v -> %v\n", wasOverlay, m.overlay)
	}
	vol := val & 7
	if vol != m.audioVolume {
		m.audioVolume = vol
		if m.audioCfg != nil {
			m.audioCfg(m.audioVolume, m.soundEnabled)
		}
	}
}

func (m *Machine) viaRBChanged(val byte) {
	enabled := val>>7 != 0
	if enabled != m.soundEnabled {
		m.soundEnabled = enabled
		if m.audioCfg != nil {
			m.audioCfg(m.audioVolume, m.soundEnabled)
		}
	}
}

func (m *Machine) viaRBIn() byte {
	v := m.quadBits
	if !m.mousePressed {
		v |= 1 << 3
	}
	return v
}

func (m *Machine) viaSRTx(data byte) {
	m.kbd.Tx(data, m.globalTimeUS)
}
