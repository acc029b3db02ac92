package emulator

import "testing"

// A system booted with an all-zero BIOS image: the reset vector
// executes NOPs
func testSystem() *System {
	bios := &BIOS{Data: make([]byte, BIOS_SIZE)}
	return NewSystem(bios)
}

func TestCycleAccounting(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	assert(sys.TotalCycles() == 0)

	if err := sys.Step(); err != nil {
		t.Fatal(err)
	}
	assert(sys.TotalCycles() == 1)

	prev := sys.TotalCycles()
	for i := 0; i < 100; i++ {
		if err := sys.Step(); err != nil {
			t.Fatal(err)
		}
		cycles := sys.TotalCycles()
		assert(cycles > prev)
		prev = cycles
	}
}

func TestRunFrameCycles(t *testing.T) {
	sys := testSystem()

	if err := sys.RunFrame(); err != nil {
		t.Fatal(err)
	}

	cycles := sys.TotalCycles()
	if cycles < CYCLES_PER_FRAME {
		t.Errorf("frame too short: %d cycles", cycles)
	}
	// every instruction is one cycle so the frame never overshoots
	if cycles != CYCLES_PER_FRAME {
		t.Errorf("expected %d cycles, got %d", CYCLES_PER_FRAME, cycles)
	}
}

func TestSystemReset(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	for i := 0; i < 1000; i++ {
		if err := sys.Step(); err != nil {
			t.Fatal(err)
		}
	}

	sys.Reset()
	assert(sys.TotalCycles() == 0)
	assert(sys.Cpu.PC == 0xbfc00000)
	assert(sys.IrqState.Status == 0)
	assert(sys.IrqState.Mask == 0)

	// the machine runs again after a reset
	if err := sys.Step(); err != nil {
		t.Fatal(err)
	}
	assert(sys.TotalCycles() == 1)
}

func TestVblankIrqTiming(t *testing.T) {
	sys := testSystem()
	gpu := sys.Inter.Gpu

	// one cycle short of the blanking period: no interrupt yet
	sys.Th.Tick(uint64(VBLANK_START_LINE)*CYCLES_PER_SCANLINE - 1)
	gpu.Sync(sys.Th, sys.IrqState)
	if sys.IrqState.Status&(1<<INTERRUPT_VBLANK) != 0 {
		t.Error("vblank interrupt raised too early")
	}

	sys.Th.Tick(1)
	gpu.Sync(sys.Th, sys.IrqState)
	if sys.IrqState.Status&(1<<INTERRUPT_VBLANK) == 0 {
		t.Error("vblank interrupt was not raised")
	}
	if !gpu.InVblank {
		t.Error("gpu is not in vblank")
	}
}

func TestHblankTiming(t *testing.T) {
	sys := testSystem()
	gpu := sys.Inter.Gpu

	// one cycle short of the blanking period of the first scanline
	sys.Th.Tick(HBLANK_START_DOTS - 1)
	gpu.Sync(sys.Th, sys.IrqState)
	if gpu.InHblank {
		t.Error("hblank flagged during the display area")
	}

	sys.Th.Tick(1)
	gpu.Sync(sys.Th, sys.IrqState)
	if !gpu.InHblank {
		t.Error("hblank not flagged past the display area")
	}

	// the start of the next scanline leaves the blanking period
	sys.Th.Tick(CYCLES_PER_SCANLINE - HBLANK_START_DOTS)
	gpu.Sync(sys.Th, sys.IrqState)
	if gpu.InHblank {
		t.Error("hblank flagged at the start of a scanline")
	}
}
