// Package scc models just enough of the Zilog 8530 Serial
// Communications Controller to keep the Mac OS from looping in its
// interrupt service routine during boot probing (spec.md §4.3). No
// channel actually transmits or receives serial data.
package scc

// Callbacks resolve the SCC's interrupt line into the interrupt
// controller (spec.md §9's cyclic collaborator graph).
type Callbacks struct {
	IRQSet func(asserted bool)
}

// Read-register values fabricated on read.
const (
	rr0TxEmptyNoRx = 0x04 // transmit buffer empty, no receive characters pending
)

// SCC holds per-channel write-register shadows; reads are synthesized
// rather than reflecting real channel state (spec.md §3, §4.3).
type SCC struct {
	wr      [2][16]byte // [channel][register]
	irqPend bool
	cb      Callbacks
}

// New constructs an SCC stub wired to the given interrupt callback.
func New(cb Callbacks) *SCC {
	return &SCC{cb: cb}
}

// channelAndReg decodes an SCC address into (channel, register). The
// real 8530 latches the register pointer via a prior write to register
// 0; this model keeps it simple and derives the register directly from
// address bits, which is sufficient for the OS's probing accesses.
func channelAndReg(address uint32) (channel int, reg int) {
	channel = int((address >> 1) & 1)
	reg = int((address >> 9) & 0xF)
	return
}

// Read returns a fabricated status: RR0 reports the transmitter always
// idle and no pending receive data; RR3 (interrupt pending) reads 0.
// Everything else reads 0 — no ROM path depends on further detail.
func (s *SCC) Read(address uint32) byte {
	_, reg := channelAndReg(address)
	switch reg {
	case 0:
		return rr0TxEmptyNoRx
	case 3:
		return 0
	default:
		return 0
	}
}

// Write decodes writes to the control registers. Register 0 carries
// the interrupt-clear command set (bits 5:3 == 0b010, "reset highest
// IUS"); any such write clears the SCC's interrupt line.
func (s *SCC) Write(address uint32, val byte) {
	channel, reg := channelAndReg(address)
	s.wr[channel][reg] = val
	if reg == 0 && (val&0x38) == 0x10 {
		s.clearIRQ()
	}
}

func (s *SCC) clearIRQ() {
	if s.irqPend {
		s.irqPend = false
		if s.cb.IRQSet != nil {
			s.cb.IRQSet(false)
		}
	}
}

// Reset clears all shadow registers and the pending interrupt.
func (s *SCC) Reset() {
	s.wr = [2][16]byte{}
	s.clearIRQ()
}
