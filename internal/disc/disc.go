// Package disc implements the block-level floppy replacement that the
// patched .Sony driver talks to. The driver packages a small parameter
// block in RAM and writes its command tag to the pseudo-address
// PVSonyAddr; the bus dispatch forwards that byte to Hook, which reads
// the rest of the parameters out of RAM, moves bytes to or from a
// host-owned disc image, and writes a status byte back (spec.md §4.6).
package disc

import "encoding/binary"

// NumDrives bounds the number of disc slots the service tracks
// (spec.md §3).
const NumDrives = 2

// Command tags carried in the byte written to PVSonyAddr.
const (
	CmdOpen       = 0
	CmdPrimeRead  = 1
	CmdPrimeWrite = 2
	CmdControl    = 3
	CmdStatus     = 4
	CmdClose      = 5
)

// Status codes written back to the parameter block's status field.
const (
	StatusOK          = 0
	StatusNoDrive     = -1
	StatusWriteProt   = -2
	StatusRangeErr    = -3
	StatusOffLine     = -4
)

// Parameter block field offsets, relative to the pointer the driver
// wrote. The driver is responsible for keeping these populated before
// ringing the doorbell; the service only reads drive/buffer/count/
// position before an op and writes status after.
const (
	pbDrive    = 0x00 // byte: drive number (0-based)
	pbStatus   = 0x01 // byte: result status (see Status* consts)
	pbBuffer   = 0x02 // u32: RAM address of the I/O buffer
	pbCount    = 0x06 // u32: byte count
	pbPosition = 0x0A // u32: byte offset into the disc image
	pbSize     = 0x0E // total parameter block size in bytes
)

// Descriptor describes one disc image slot, owned by the host.
type Descriptor struct {
	Image    []byte
	ReadOnly bool
	present  bool
}

// RAM is the minimal RAM accessor the disc service needs: byte-range
// read/write at the CPU's byte addressing, independent of any bus
// dispatch concerns.
type RAM interface {
	ReadBytes(addr uint32, n int) []byte
	WriteBytes(addr uint32, data []byte)
}

// Callbacks resolve the disc service's one outward call.
type Callbacks struct {
	Ejected func(drive int)
}

// Service holds the disc slots and the RAM accessor used to exchange
// parameter blocks with the CPU-visible world.
type Service struct {
	discs [NumDrives]Descriptor
	ram   RAM
	cb    Callbacks

	pbAddr uint32 // address of the parameter block, set by SetParamBlockAddr
}

// New constructs a disc Service bound to ram, with drives initially
// empty (spec.md: up to DISC_NUM_DRIVES slots, set at init).
func New(ram RAM, cb Callbacks) *Service {
	return &Service{ram: ram, cb: cb}
}

// Insert attaches a disc image to slot drive. Passing a nil Image
// models an empty drive.
func (s *Service) Insert(drive int, img []byte, readOnly bool) {
	if drive < 0 || drive >= NumDrives {
		return
	}
	s.discs[drive] = Descriptor{Image: img, ReadOnly: readOnly, present: img != nil}
}

// Eject empties slot drive and notifies the host.
func (s *Service) Eject(drive int) {
	if drive < 0 || drive >= NumDrives {
		return
	}
	s.discs[drive] = Descriptor{}
	if s.cb.Ejected != nil {
		s.cb.Ejected(drive)
	}
}

// SetParamBlockAddr records the RAM address of the parameter block
// that Hook reads for every command. The caller sets it before the
// first command; Hook returns an error while it is unset.
func (s *Service) SetParamBlockAddr(addr uint32) {
	s.pbAddr = addr
}

// Hook services one command tag written to PVSonyAddr. It returns an
// error only for the one condition treated as fatal (the parameter
// block address has not been set); ordinary failures (bad drive, write to a
// read-only image, out-of-range position) are reported through the
// parameter block's status field, not as a Go error.
func (s *Service) Hook(cmd byte) error {
	if s.pbAddr == 0 {
		return errParamBlockUnset
	}
	pb := s.ram.ReadBytes(s.pbAddr, pbSize)
	drive := int(pb[pbDrive])
	buffer := binary.BigEndian.Uint32(pb[pbBuffer:])
	count := binary.BigEndian.Uint32(pb[pbCount:])
	position := binary.BigEndian.Uint32(pb[pbPosition:])

	status := s.dispatch(byte(cmd), drive, buffer, count, position)
	s.ram.WriteBytes(s.pbAddr+pbStatus, []byte{byte(status)})
	return nil
}

func (s *Service) dispatch(cmd byte, drive int, buffer, count, position uint32) int {
	if drive < 0 || drive >= NumDrives {
		return StatusOffLine
	}

	switch cmd {
	case CmdOpen:
		if !s.discs[drive].present {
			return StatusNoDrive
		}
		return StatusOK

	case CmdPrimeRead:
		d := &s.discs[drive]
		if int(position+count) > len(d.Image) {
			return StatusRangeErr
		}
		s.ram.WriteBytes(buffer, d.Image[position:position+count])
		return StatusOK

	case CmdPrimeWrite:
		d := &s.discs[drive]
		if d.ReadOnly {
			return StatusWriteProt
		}
		if int(position+count) > len(d.Image) {
			return StatusRangeErr
		}
		copy(d.Image[position:position+count], s.ram.ReadBytes(buffer, int(count)))
		return StatusOK

	case CmdControl:
		// No control selectors (motor on/off, eject) are load-bearing
		// for booting System 3; acknowledge and do nothing.
		return StatusOK

	case CmdStatus:
		if !s.discs[drive].present {
			return StatusOffLine
		}
		return StatusOK

	case CmdClose:
		return StatusOK

	default:
		return StatusRangeErr
	}
}

type discError string

func (e discError) Error() string { return string(e) }

const errParamBlockUnset = discError("disc: parameter block address not yet set by driver")
