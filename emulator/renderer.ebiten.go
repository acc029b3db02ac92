package emulator

import (
	"github.com/hajimehoshi/ebiten/v2"
)

var keyBindings = []struct {
	key    ebiten.Key
	button Button
}{
	{ebiten.KeyUp, BUTTON_DPAD_UP},
	{ebiten.KeyDown, BUTTON_DPAD_DN},
	{ebiten.KeyLeft, BUTTON_DPAD_LT},
	{ebiten.KeyRight, BUTTON_DPAD_RT},
	{ebiten.KeyEnter, BUTTON_START},
	{ebiten.KeyBackspace, BUTTON_SELECT},
	{ebiten.KeyX, BUTTON_CROSS},
	{ebiten.KeyC, BUTTON_CIRCLE},
	{ebiten.KeyS, BUTTON_SQUARE},
	{ebiten.KeyD, BUTTON_TRIANGLE},
	{ebiten.KeyQ, BUTTON_L1},
	{ebiten.KeyE, BUTTON_R1},
	{ebiten.Key1, BUTTON_L2},
	{ebiten.Key3, BUTTON_R2},
}

// An Ebitengine frontend: runs the emulation one video frame per
// Update call and blits the display area in Draw
type Display struct {
	Sys *System
	Fb  *Framebuffer

	frame *ebiten.Image
	err   error
}

func NewDisplay(sys *System) *Display {
	return &Display{
		Sys: sys,
		Fb:  NewFramebuffer(),
	}
}

func (display *Display) Update() error {
	if display.err != nil {
		return display.err
	}

	pad := display.Sys.Inter.PadMemCard.Pad1
	for _, binding := range keyBindings {
		pad.SetButtonState(binding.button, ebiten.IsKeyPressed(binding.key))
	}

	display.err = display.Sys.RunFrame()
	return display.err
}

func (display *Display) Draw(screen *ebiten.Image) {
	display.Fb.Update(display.Sys.Inter.Gpu)

	w, h := display.Fb.Width, display.Fb.Height
	if display.frame == nil || display.frame.Bounds().Dx() != w ||
		display.frame.Bounds().Dy() != h {
		display.frame = ebiten.NewImage(w, h)
	}
	display.frame.WritePixels(display.Fb.Pixels)

	screen.DrawImage(display.frame, nil)
}

func (display *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	return display.Fb.Width, display.Fb.Height
}
