// Package ui is the desktop host front-end: an ebiten window that
// drives a *mac.Machine, expanding its 1-bit framebuffer to RGBA,
// translating keyboard/mouse input, and streaming its sound buffer to
// an audio player. None of this is part of the emulation core
// (spec.md §1 explicitly places the host front-end out of scope); it
// exists only to make the core runnable interactively.
package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/colornames"

	"github.com/mattevans-umac/umacgo/internal/mac"
)

// Config bundles window/display settings (spec.md §6's host concerns,
// not part of the core's own configuration).
type Config struct {
	Title      string
	Scale      int
	DispWidth  int
	DispHeight int
}

// Defaults fills unset fields: title "umacgo", scale 2, and a 512x342
// display.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "umacgo"
	}
	if c.Scale <= 0 {
		c.Scale = 2
	}
	if c.DispWidth <= 0 {
		c.DispWidth = 512
	}
	if c.DispHeight <= 0 {
		c.DispHeight = 342
	}
}

var (
	colorWhite = colornames.White
	colorBlack = colornames.Black
)

// App is the ebiten-driven run loop. It owns no emulation state beyond
// what's needed to present the machine: the machine itself is
// constructed and owned by the caller.
type App struct {
	cfg Config
	m   *mac.Machine
	ram []byte

	tex      *ebiten.Image
	rgba     []byte
	frameAcc float64

	audioCtx    *audio.Context
	audioPlayer *audio.Player
	audioSrc    *soundStream

	keymap map[ebiten.Key]byte
}

// NewApp constructs an App presenting m, whose RAM buffer is ram (the
// same buffer m was constructed with — the UI reads the framebuffer
// directly out of it rather than through the core's accessors, since
// pixel expansion is a host concern).
func NewApp(cfg Config, m *mac.Machine, ram []byte) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.DispWidth*cfg.Scale, cfg.DispHeight*cfg.Scale)

	a := &App{
		cfg:    cfg,
		m:      m,
		ram:    ram,
		tex:    ebiten.NewImage(cfg.DispWidth, cfg.DispHeight),
		rgba:   make([]byte, cfg.DispWidth*cfg.DispHeight*4),
		keymap: defaultKeymap(),
	}
	a.audioCtx = audio.NewContext(22255) // Mac Plus's native sample rate
	a.audioSrc = &soundStream{m: m, ram: ram}
	if p, err := a.audioCtx.NewPlayer(a.audioSrc); err == nil {
		a.audioPlayer = p
		a.audioPlayer.Play()
	}
	return a
}

// Run blocks until the window is closed.
func (a *App) Run() error { return ebiten.RunGame(a) }

// Update advances the machine by enough quanta to cover one ebiten
// tick (~1/60s), dispatches vsync once per tick, and forwards
// keyboard/mouse input.
func (a *App) Update() error {
	for key, scancode := range a.keymap {
		if inpututil.IsKeyJustPressed(key) {
			a.m.KbdEvent(scancode, true)
		}
		if inpututil.IsKeyJustReleased(key) {
			a.m.KbdEvent(scancode, false)
		}
	}

	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	a.m.AbsMouse(int16(mx), int16(my), pressed)

	const quantumSeconds = 8 * 5000 / 7_833_600.0 // one main-loop quantum, per spec.md §4.7
	a.frameAcc += (1.0 / 60.0) / quantumSeconds
	for a.frameAcc >= 1 {
		if a.m.Loop() {
			return fmt.Errorf("ui: machine hit a fatal fault: %w", a.m.LastFault())
		}
		a.frameAcc--
	}
	a.m.VsyncEvent()

	return nil
}

// Draw expands the 1-bit-per-pixel Mac framebuffer into the ebiten
// texture. Bit value 0 is white, 1 is black, matching the Mac's
// inverted-video convention.
func (a *App) Draw(screen *ebiten.Image) {
	off := a.m.GetFBOffset()
	stride := a.cfg.DispWidth / 8

	for y := 0; y < a.cfg.DispHeight; y++ {
		rowStart := off + uint32(y*stride)
		for x := 0; x < a.cfg.DispWidth; x++ {
			byteIdx := rowStart + uint32(x/8)
			bit := 7 - uint(x%8)
			set := (a.ram[byteIdx]>>bit)&1 != 0

			px := (y*a.cfg.DispWidth + x) * 4
			c := colorWhite
			if set {
				c = colorBlack
			}
			a.rgba[px+0] = c.R
			a.rgba[px+1] = c.G
			a.rgba[px+2] = c.B
			a.rgba[px+3] = c.A
		}
	}
	a.tex.WritePixels(a.rgba)

	op := &ebiten.DrawImageOptions{}
	scale := float64(a.cfg.Scale)
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(a.tex, op)
}

// Layout reports the window size in logical pixels.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.DispWidth * a.cfg.Scale, a.cfg.DispHeight * a.cfg.Scale
}
