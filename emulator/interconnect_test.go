package emulator

import "testing"

func TestSegmentAliasing(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	inter := sys.Inter

	inter.Store32(0x00001234, 0xdeadc0de)

	// KUSEG, KSEG0 and KSEG1 all map the same physical RAM
	assert(inter.Load32(0x00001234) == 0xdeadc0de)
	assert(inter.Load32(0x80001234) == 0xdeadc0de)
	assert(inter.Load32(0xa0001234) == 0xdeadc0de)

	inter.Store32(0xa0001234, 0xcafebabe)
	assert(inter.Load32(0x00001234) == 0xcafebabe)
}

func TestRamMirroring(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	inter := sys.Inter

	// the 2MB of RAM repeat four times over the 8MB window
	inter.Store32(0x00000100, 0x11223344)
	assert(inter.Load32(0x00200100) == 0x11223344)
	assert(inter.Load32(0x00400100) == 0x11223344)
	assert(inter.Load32(0x00600100) == 0x11223344)

	inter.Store32(0x00600200, 0x55667788)
	assert(inter.Load32(0x00000200) == 0x55667788)
}

func TestByteOrdering(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	inter := sys.Inter

	inter.Store32(0x1000, 0x12345678)

	// little endian
	assert(inter.Load8(0x1000) == 0x78)
	assert(inter.Load8(0x1001) == 0x56)
	assert(inter.Load8(0x1002) == 0x34)
	assert(inter.Load8(0x1003) == 0x12)
	assert(inter.Load16(0x1000) == 0x5678)
	assert(inter.Load16(0x1002) == 0x1234)

	inter.Store8(0x1001, 0xff)
	assert(inter.Load32(0x1000) == 0x1234ff78)
}

func TestOpenBus(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	inter := sys.Inter

	// expansion slot 1 has nothing connected
	assert(inter.Load32(0x1f000000) == 0xffffffff)
	assert(inter.Load16(0x1f000000) == 0xffff)
	assert(inter.Load8(0x1f000000) == 0xff)

	// unmapped hardware register
	assert(inter.Load32(0x1f801f00) == 0xffffffff)

	// writes to unmapped addresses are dropped
	inter.Store32(0x1f801f00, 0x12345678)
	assert(inter.Load32(0x1f801f00) == 0xffffffff)
}

func TestScratchpadSegments(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	inter := sys.Inter

	inter.Store32(0x1f800000, 0xfeedface)
	assert(inter.Load32(0x1f800000) == 0xfeedface)
	assert(inter.Load32(0x9f800000) == 0xfeedface)

	// the scratchpad is the data cache and cannot be reached through
	// the uncached segment
	assert(inter.Load32(0xbf800000) == 0xffffffff)
	inter.Store32(0xbf800000, 0x12345678)
	assert(inter.Load32(0x1f800000) == 0xfeedface)
}

func TestBiosReadOnly(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	bios := &BIOS{Data: make([]byte, BIOS_SIZE)}
	bios.Data[0] = 0xaa
	bios.Data[1] = 0xbb
	bios.Data[2] = 0xcc
	bios.Data[3] = 0xdd

	sys := NewSystem(bios)
	inter := sys.Inter

	assert(inter.Load32(0xbfc00000) == 0xddccbbaa)

	inter.Store32(0xbfc00000, 0)
	assert(inter.Load32(0xbfc00000) == 0xddccbbaa)
}

func TestIrqRegisters(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	inter := sys.Inter

	inter.Store16(0x1f801074, 0x3f)
	assert(inter.Load16(0x1f801074) == 0x3f)
	assert(sys.IrqState.Mask == 0x3f)

	sys.IrqState.SetHigh(INTERRUPT_VBLANK)
	sys.IrqState.SetHigh(INTERRUPT_DMA)
	assert(inter.Load16(0x1f801070) == 0x9)

	// writing a one acknowledges the request, a zero leaves it alone
	inter.Store16(0x1f801070, ^uint16(1<<INTERRUPT_DMA))
	assert(inter.Load16(0x1f801070) == 1<<INTERRUPT_DMA)
}
