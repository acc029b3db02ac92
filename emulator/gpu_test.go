package emulator

import "testing"

func TestGp0CommandBuffering(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	gpu := NewGPU()

	// monochrome quad: 5 word command
	gpu.GP0(0x28000000)
	assert(gpu.GP0WordsRemaining == 4)

	gpu.GP0(0x00000000)
	gpu.GP0(0x00000010)
	gpu.GP0(0x00100010)
	assert(gpu.GP0WordsRemaining == 1)

	gpu.GP0(0x00100000)
	assert(gpu.GP0WordsRemaining == 0)
}

func TestGp1ResetCommandBuffer(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	gpu := NewGPU()

	// a half sent command is dropped by the buffer reset
	gpu.GP0(0x28000000)
	gpu.GP0(0x00000000)
	assert(gpu.GP0WordsRemaining != 0)

	gpu.GP1(0x01000000)
	assert(gpu.GP0WordsRemaining == 0)
	assert(gpu.GP0Mode == GP0_MODE_COMMAND)
}

func TestImageLoad(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	gpu := NewGPU()

	// 2x1 rectangle at 0,0
	gpu.GP0(0xa0000000)
	gpu.GP0(0x00000000)
	gpu.GP0(0x00010002)

	// the port expects raw pixel data now
	assert(gpu.GP0Mode == GP0_MODE_IMAGE_LOAD)
	gpu.GP0(0xbbbbaaaa)
	assert(gpu.GP0Mode == GP0_MODE_COMMAND)

	assert(gpu.Vram.Load(0, 0) == 0xaaaa)
	assert(gpu.Vram.Load(1, 0) == 0xbbbb)
}

func TestImageStore(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	gpu := NewGPU()
	gpu.Vram.Store(4, 2, 0x1111)
	gpu.Vram.Store(5, 2, 0x2222)

	// 2x1 rectangle at 4,2
	gpu.GP0(0xc0000000)
	gpu.GP0(0x00020004)
	gpu.GP0(0x00010002)

	assert(gpu.Read() == 0x22221111)
	// the transfer is drained, GPUREAD returns zeroes again
	assert(gpu.Read() == 0)
}

func TestDisplayMode(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	gpu := NewGPU()

	gpu.GP1(0x08000001)
	assert(gpu.HRes.Width() == 320)
	assert(gpu.VRes.Height() == 240)
	assert(gpu.Status()&(7<<16) == 2<<16)
}
