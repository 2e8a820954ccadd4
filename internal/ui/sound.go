package ui

import "github.com/mattevans-umac/umacgo/internal/mac"

// soundStream adapts the Mac's sound buffer — a region of RAM BootBeep
// and the OS sound driver write 8-bit unsigned samples into — to
// ebiten's audio.Player source interface. This is boot-beep-grade
// fidelity only (spec.md's Non-goals exclude analog sound emulation);
// it exists so the familiar startup chime is audible, not to emulate
// the sound hardware itself.
type soundStream struct {
	m   *mac.Machine
	ram []byte
	pos uint32
}

// soundBufferLen is the size in bytes of the Mac's sound buffer
// (rompatch.AudioOffset reserves the last 768 bytes of RAM for it).
const soundBufferLen = 768

// Read produces signed 16-bit little-endian stereo frames by
// upsampling the Mac's 8-bit unsigned mono sound buffer.
func (s *soundStream) Read(p []byte) (int, error) {
	off := s.m.GetAudioOffset()
	n := 0
	for n+4 <= len(p) {
		sample := s.ram[off+(s.pos%soundBufferLen)]
		s.pos++

		v := int16(int(sample)-128) << 8
		p[n+0] = byte(v)
		p[n+1] = byte(v >> 8)
		p[n+2] = byte(v)
		p[n+3] = byte(v >> 8)
		n += 4
	}
	return n, nil
}
