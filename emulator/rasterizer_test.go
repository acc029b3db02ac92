package emulator

import "testing"

// Zeroes out a region of VRAM with a fill so the tests start from a
// known framebuffer state
func clearVram(gpu *GPU, width, height uint32) {
	gpu.GP0(0x02000000)
	gpu.GP0(0x00000000)
	gpu.GP0(height<<16 | width)
}

func TestFillRect(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	gpu := NewGPU()
	clearVram(gpu, 32, 2)

	// 1x1 red fill
	gpu.GP0(0x020000ff)
	gpu.GP0(0x00000000)
	gpu.GP0(0x00010001)

	// the width is rounded up to 16 pixels
	assert(gpu.Vram.Load(0, 0) == 0x001f)
	assert(gpu.Vram.Load(15, 0) == 0x001f)
	assert(gpu.Vram.Load(16, 0) == 0)
	assert(gpu.Vram.Load(0, 1) == 0)
}

func TestTriangleDrawingAreaClip(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	gpu := NewGPU()
	clearVram(gpu, 32, 32)

	// drawing area: top left 0,0 to bottom right 4,4
	gpu.GP0(0xe3000000)
	gpu.GP0(0xe4000000 | 4<<10 | 4)

	// monochrome green triangle covering 0,0 to 16,16
	gpu.GP0(0x2000ff00)
	gpu.GP0(0x00000000)
	gpu.GP0(0x00000010)
	gpu.GP0(0x00100000)

	// inside the triangle and the drawing area
	assert(gpu.Vram.Load(2, 2) == 0x03e0)
	// inside the triangle but past the drawing area
	assert(gpu.Vram.Load(6, 6) == 0)
}

func TestTriangleFillRule(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	gpu := NewGPU()
	clearVram(gpu, 32, 32)

	gpu.GP0(0xe3000000)
	gpu.GP0(0xe4000000 | 31<<10 | 31)

	// two semi-transparent white triangles sharing the diagonal edge.
	// Averaging against the black background gives 127 per component, a
	// pixel blended twice would read brighter
	gpu.GP0(0x22ffffff)
	gpu.GP0(0x00000000)
	gpu.GP0(0x00000010)
	gpu.GP0(0x00100000)
	gpu.GP0(0x22ffffff)
	gpu.GP0(0x00100000)
	gpu.GP0(0x00000010)
	gpu.GP0(0x00100010)

	covered := 0
	for y := uint16(0); y < 32; y++ {
		for x := uint16(0); x < 32; x++ {
			switch gpu.Vram.Load(x, y) {
			case 0:
			case 0x3def:
				covered++
			default:
				t.Fatalf("pixel %d,%d blended more than once", x, y)
			}
		}
	}
	// the square is covered without any gap or overlap on the shared
	// edge
	assert(covered == 256)
}
