// Package keyboard emulates the Mac Plus keyboard protocol on top of
// the VIA's shift register (spec.md §4.5). It consumes command bytes
// the Mac transmits over SR, and replies through via.SRRx after an
// intentional one-quantum delay — responding too quickly makes the Mac
// OS driver reject the reply.
package keyboard

import "log"

const (
	// CmdGetModel asks for the keyboard model byte.
	CmdGetModel = 0x16
	// CmdInquiry polls for a pending key transition.
	CmdInquiry = 0x10

	// model is the Mac Plus keyboard's model number, reported as
	// (model << 1) | 1 in response to CmdGetModel.
	model = 5
	// rspNull is returned to an Inquiry when no key event is pending.
	rspNull = 0x7B
)

// SRRx is the VIA entry point used to deliver a reply byte; it mirrors
// via.VIA.SRRx so this package doesn't need to import via directly.
type SRRx func(b byte)

// Keyboard tracks the most recently transmitted command awaiting a
// delayed reply, and a single buffered key event (spec.md §3, §9: a
// production implementation should upgrade this single slot to an
// 8-entry ring buffer at zero architectural cost).
type Keyboard struct {
	srRx SRRx

	lastCmd     int   // 0 means no command pending
	lastCmdTime int64 // virtual microseconds at the time of transmit

	pendingEvt int // -1 means empty; otherwise scancode with the down/up bit set
}

// New constructs a Keyboard that replies through srRx.
func New(srRx SRRx) *Keyboard {
	return &Keyboard{srRx: srRx, pendingEvt: -1}
}

// Tx records a command byte the Mac has just transmitted over SR, to
// be serviced once more than one quantum has elapsed (spec.md §4.5).
// This is the counterpart of the VIA's sr_tx callback.
func (k *Keyboard) Tx(data byte, nowUS int64) {
	k.lastCmd = int(data)
	k.lastCmdTime = nowUS
}

// CheckWork services a pending command once more than quantumUS of
// virtual time has elapsed since it was transmitted, replying via srRx. Called once
// per main-loop quantum (spec.md §4.5, §4.7).
func (k *Keyboard) CheckWork(nowUS int64, quantumUS int64) {
	if k.lastCmd == 0 {
		return
	}
	if nowUS-k.lastCmdTime <= quantumUS {
		return
	}
	cmd := byte(k.lastCmd)
	k.lastCmd = 0
	k.reply(cmd)
}

func (k *Keyboard) reply(cmd byte) {
	switch cmd {
	case CmdGetModel:
		k.srRx(0x01 | (model << 1))
	case CmdInquiry:
		if k.pendingEvt < 0 {
			k.srRx(rspNull)
		} else {
			k.srRx(byte(k.pendingEvt))
			k.pendingEvt = -1
		}
	default:
		// Unhandled command: logged and ignored.
		log.Printf("keyboard: ignoring unhandled command %02x", cmd)
	}
}

// Event queues a key transition. scancode carries the key code; down
// selects whether the transmitted byte has its high bit clear (down)
// or set (up), per the hardware protocol. Only one event is buffered;
// an event arriving while one is already pending is discarded and
// logged (spec.md §4.5) rather than overwriting the pending one.
func (k *Keyboard) Event(scancode byte, down bool) {
	if k.pendingEvt >= 0 {
		log.Printf("keyboard: dropping event scancode=%02x down=%v, one already pending", scancode, down)
		return
	}
	evt := int(scancode)
	if !down {
		evt |= 0x80
	}
	k.pendingEvt = evt
}

// HasPendingCommand reports whether a command is awaiting its delayed
// reply, for diagnostics.
func (k *Keyboard) HasPendingCommand() bool {
	return k.lastCmd != 0
}
