package emulator

// Display width in pixels for this resolution
func (hr HorizontalRes) Width() int {
	hr2 := uint8(hr) & 1
	if hr2 != 0 {
		return 368
	}
	switch (uint8(hr) >> 1) & 3 {
	case 0:
		return 256
	case 1:
		return 320
	case 2:
		return 512
	default:
		return 640
	}
}

// Display height in lines for this resolution
func (vr VerticalRes) Height() int {
	if vr == VRES_480_LINES {
		return 480
	}
	return 240
}

// RGBA conversion of the VRAM display area, ready to be pushed to the
// screen
type Framebuffer struct {
	Width  int
	Height int
	Pixels []byte // RGBA, 4 bytes per pixel
}

func NewFramebuffer() *Framebuffer {
	fb := &Framebuffer{}
	fb.resize(VRES_240_LINES.Height(), HorizontalRes(0).Width())
	return fb
}

func (fb *Framebuffer) resize(height, width int) {
	if fb.Width == width && fb.Height == height {
		return
	}
	fb.Width = width
	fb.Height = height
	fb.Pixels = make([]byte, width*height*4)
}

// Converts the current display area of `gpu` into RGBA pixels. A
// disabled display converts to black
func (fb *Framebuffer) Update(gpu *GPU) {
	fb.resize(gpu.VRes.Height(), gpu.HRes.Width())

	if gpu.DisplayDisabled {
		for i := range fb.Pixels {
			fb.Pixels[i] = 0
		}
		// full alpha
		for i := 3; i < len(fb.Pixels); i += 4 {
			fb.Pixels[i] = 0xff
		}
		return
	}

	startX := gpu.DisplayVRamXStart
	startY := gpu.DisplayVRamYStart

	for y := 0; y < fb.Height; y++ {
		line := uint16(y) + startY
		for x := 0; x < fb.Width; x++ {
			var r, g, b uint8

			switch gpu.DisplayDepth {
			case DISPLAY_DEPTH_24BITS:
				// 24 bit pixels are packed across the 16 bit VRAM
				// halfwords
				byteOffset := uint32(startX)*2 + uint32(x)*3
				col := uint16(byteOffset / 2)
				p0 := gpu.Vram.Load(col, line)
				p1 := gpu.Vram.Load(col+1, line)
				if byteOffset&1 == 0 {
					r = uint8(p0)
					g = uint8(p0 >> 8)
					b = uint8(p1)
				} else {
					r = uint8(p0 >> 8)
					g = uint8(p1)
					b = uint8(p1 >> 8)
				}
			default:
				p := gpu.Vram.Load(startX+uint16(x), line)
				r = uint8((p & 0x1f) << 3)
				g = uint8(((p >> 5) & 0x1f) << 3)
				b = uint8(((p >> 10) & 0x1f) << 3)
			}

			idx := (y*fb.Width + x) * 4
			fb.Pixels[idx] = r
			fb.Pixels[idx+1] = g
			fb.Pixels[idx+2] = b
			fb.Pixels[idx+3] = 0xff
		}
	}
}
