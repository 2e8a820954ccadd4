package ui

import "github.com/hajimehoshi/ebiten/v2"

// defaultKeymap maps host keys to Mac Plus keyboard scancodes. The
// core's keyboard service only cares about the scancode byte and the
// down/up bit it carries (internal/keyboard); the exact code-to-key
// correspondence is purely a host presentation concern.
func defaultKeymap() map[ebiten.Key]byte {
	return map[ebiten.Key]byte{
		ebiten.KeyA:         0x00,
		ebiten.KeyS:         0x01,
		ebiten.KeyD:         0x02,
		ebiten.KeyF:         0x03,
		ebiten.KeyH:         0x04,
		ebiten.KeyG:         0x05,
		ebiten.KeyZ:         0x06,
		ebiten.KeyX:         0x07,
		ebiten.KeyC:         0x08,
		ebiten.KeyV:         0x09,
		ebiten.KeyB:         0x0B,
		ebiten.KeyQ:         0x0C,
		ebiten.KeyW:         0x0D,
		ebiten.KeyE:         0x0E,
		ebiten.KeyR:         0x0F,
		ebiten.KeyY:         0x10,
		ebiten.KeyT:         0x11,
		ebiten.Key1:         0x12,
		ebiten.Key2:         0x13,
		ebiten.Key3:         0x14,
		ebiten.Key4:         0x15,
		ebiten.Key6:         0x16,
		ebiten.Key5:         0x17,
		ebiten.KeyEqual:     0x18,
		ebiten.Key9:         0x19,
		ebiten.Key7:         0x1A,
		ebiten.KeyMinus:     0x1B,
		ebiten.Key8:         0x1C,
		ebiten.Key0:         0x1D,
		ebiten.KeyRightBracket: 0x1E,
		ebiten.KeyO:         0x1F,
		ebiten.KeyU:         0x20,
		ebiten.KeyLeftBracket:  0x21,
		ebiten.KeyI:         0x22,
		ebiten.KeyP:         0x23,
		ebiten.KeyEnter:     0x24,
		ebiten.KeyL:         0x25,
		ebiten.KeyJ:         0x26,
		ebiten.KeyApostrophe: 0x27,
		ebiten.KeyK:         0x28,
		ebiten.KeySemicolon: 0x29,
		ebiten.KeyBackslash: 0x2A,
		ebiten.KeyComma:     0x2B,
		ebiten.KeySlash:     0x2C,
		ebiten.KeyN:         0x2D,
		ebiten.KeyM:         0x2E,
		ebiten.KeyPeriod:    0x2F,
		ebiten.KeyTab:       0x30,
		ebiten.KeySpace:     0x31,
		ebiten.KeyBackquote: 0x32,
		ebiten.KeyBackspace: 0x33,
		ebiten.KeyEscape:    0x35,
		ebiten.KeyShift:     0x38,
		ebiten.KeyCapsLock:  0x39,
		ebiten.KeyControl:   0x36,
	}
}
