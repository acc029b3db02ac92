package emulator

import "testing"

func TestBreakpoint(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	loadProgram(sys, []uint32{
		0x34010001, // ori $1, $0, 1
		0x34020002, // ori $2, $0, 2
		0x34030003, // ori $3, $0, 3
	})

	sys.Cpu.Debugger.AddBreakpoint(0x80000008)
	runSteps(t, sys, 3)

	hits := sys.Cpu.Debugger.Drain()
	assert(len(hits) == 1)
	assert(hits[0].Kind == HIT_BREAKPOINT)
	assert(hits[0].Addr == 0x80000008)
	assert(hits[0].PC == 0x80000008)

	// the hit is recorded, the instruction still executes
	assert(sys.Cpu.Regs[3] == 3)

	// the backlog is cleared by the drain
	assert(len(sys.Cpu.Debugger.Drain()) == 0)
}

func TestWatchpoints(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	loadProgram(sys, []uint32{
		0x3c018000, // lui $1, 0x8000
		0xac200300, // sw  $0, 0x300($1)
		0x8c220200, // lw  $2, 0x200($1)
	})

	debugger := sys.Cpu.Debugger
	debugger.AddWriteWatchpoint(0x80000300)
	debugger.AddReadWatchpoint(0x80000200)
	runSteps(t, sys, 3)

	hits := debugger.Drain()
	assert(len(hits) == 2)
	assert(hits[0].Kind == HIT_WRITE_WATCHPOINT)
	assert(hits[0].Addr == 0x80000300)
	assert(hits[0].PC == 0x80000004)
	assert(hits[1].Kind == HIT_READ_WATCHPOINT)
	assert(hits[1].Addr == 0x80000200)
	assert(hits[1].PC == 0x80000008)
}

func TestBreakpointBookkeeping(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	debugger := NewDebugger()

	debugger.AddBreakpoint(0x1000)
	debugger.AddBreakpoint(0x1000)
	assert(len(debugger.Breakpoints) == 1)

	debugger.DeleteBreakpoint(0x2000)
	assert(len(debugger.Breakpoints) == 1)
	debugger.DeleteBreakpoint(0x1000)
	assert(len(debugger.Breakpoints) == 0)

	debugger.AddWriteWatchpoint(0x3000)
	debugger.AddWriteWatchpoint(0x3000)
	assert(len(debugger.WriteWatchpoints) == 1)
	debugger.DeleteWriteWatchpoint(0x3000)
	assert(len(debugger.WriteWatchpoints) == 0)
}
