package emulator

import "testing"

// Copies a small program to the start of RAM and points the CPU at it
// through KSEG0
func loadProgram(sys *System, words []uint32) {
	for i, word := range words {
		sys.Inter.Ram.Store32(uint32(i)*4, word)
	}
	sys.Cpu.PC = 0x80000000
	sys.Cpu.NextPC = sys.Cpu.PC + 4
}

func runSteps(t *testing.T, sys *System, steps int) {
	for i := 0; i < steps; i++ {
		if err := sys.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBranchDelaySlot(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	loadProgram(sys, []uint32{
		0x34010001, // ori $1, $0, 1
		0x10000002, // beq $0, $0, +2
		0x34020002, // ori $2, $0, 2 (delay slot, must execute)
		0x34030003, // ori $3, $0, 3 (skipped)
		0x34040004, // ori $4, $0, 4 (branch target)
	})

	runSteps(t, sys, 4)

	assert(sys.Cpu.Regs[1] == 1)
	assert(sys.Cpu.Regs[2] == 2)
	// the skipped instruction never touched its register
	assert(sys.Cpu.Regs[3] == 0xdeadbeef)
	assert(sys.Cpu.Regs[4] == 4)
}

func TestLoadDelaySlot(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	sys.Inter.Ram.Store32(0x200, 0xcafe)
	loadProgram(sys, []uint32{
		0x34020000, // ori $2, $0, 0
		0x3c018000, // lui $1, 0x8000
		0x8c220200, // lw  $2, 0x200($1)
		0x34430000, // ori $3, $2, 0 (sees the pre-load value)
		0x34440000, // ori $4, $2, 0 (sees the loaded value)
	})

	runSteps(t, sys, 5)

	assert(sys.Cpu.Regs[2] == 0xcafe)
	assert(sys.Cpu.Regs[3] == 0)
	assert(sys.Cpu.Regs[4] == 0xcafe)
}

func TestAddOverflowException(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	loadProgram(sys, []uint32{
		0x3c017fff, // lui $1, 0x7fff
		0x3421ffff, // ori $1, $1, 0xffff
		0x34020001, // ori $2, $0, 1
		0x00221820, // add $3, $1, $2 (overflows)
	})

	runSteps(t, sys, 4)

	assert(sys.Cpu.PC == 0x80000080)
	assert(sys.Cpu.Cop0.Epc == 0x8000000c)
	cause := (sys.Cpu.Cop0.GetCause(sys.IrqState) >> 2) & 0x1f
	assert(cause == uint32(EXCEPTION_OVERFLOW))
	// the destination register is untouched
	assert(sys.Cpu.Regs[3] == 0xdeadbeef)
}

func TestUnalignedLoadException(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	loadProgram(sys, []uint32{
		0x3c018000, // lui $1, 0x8000
		0x34210101, // ori $1, $1, 0x101
		0x8c220000, // lw  $2, 0($1) (unaligned)
	})

	runSteps(t, sys, 3)

	assert(sys.Cpu.PC == 0x80000080)
	cause := (sys.Cpu.Cop0.GetCause(sys.IrqState) >> 2) & 0x1f
	assert(cause == uint32(EXCEPTION_LOAD_ADDRESS_ERROR))
	assert(sys.Cpu.Regs[2] == 0xdeadbeef)
}

func TestIllegalInstruction(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	loadProgram(sys, []uint32{
		0xfc000000, // no such opcode
	})

	runSteps(t, sys, 1)

	assert(sys.Cpu.PC == 0x80000080)
	cause := (sys.Cpu.Cop0.GetCause(sys.IrqState) >> 2) & 0x1f
	assert(cause == uint32(EXCEPTION_ILLEGAL_INSTRUCTION))
}

func TestInterruptReplacesInstruction(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	loadProgram(sys, []uint32{
		0x34010001, // ori $1, $0, 1
	})

	// enable the external interrupt in the CPU and unmask vblank in
	// the interrupt controller
	sys.Cpu.Cop0.SetSR(0x401)
	sys.IrqState.SetMask(1 << INTERRUPT_VBLANK)
	sys.IrqState.SetHigh(INTERRUPT_VBLANK)

	runSteps(t, sys, 1)

	assert(sys.Cpu.PC == 0x80000080)
	cause := (sys.Cpu.Cop0.GetCause(sys.IrqState) >> 2) & 0x1f
	assert(cause == uint32(EXCEPTION_INTERRUPT))
	// the fetched instruction was displaced by the interrupt
	assert(sys.Cpu.Regs[1] == 0xdeadbeef)
	assert(sys.Cpu.Cop0.Epc == 0x80000000)
}

func TestInterruptObservedNextStep(t *testing.T) {
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
		0x34040004, // ori $4, $0, 4
		0x34050005, // ori $5, $0, 5
	})

	sys.Cpu.Cop0.SetSR(0x401)
	sys.IrqState.SetMask(1 << INTERRUPT_TIMER2)

	// timer 2 passes its target during the peripheral phase of the
	// fourth step, after that step's instruction already ran
	sys.Inter.Store16(0x1f801128, 3)
	sys.Inter.Store16(0x1f801124, 0x0018)

	runSteps(t, sys, 4)

	// the request was raised mid-step: the instruction completed and
	// the CPU has not taken the exception yet
	assert(sys.IrqState.Status&(1<<INTERRUPT_TIMER2) != 0)
	assert(sys.Cpu.Regs[4] == 4)
	assert(sys.Cpu.PC == 0x80000010)

	// the next step boundary delivers it in place of the fifth
	// instruction
	runSteps(t, sys, 1)
	assert(sys.Cpu.PC == 0x80000080)
	assert(sys.Cpu.Cop0.Epc == 0x80000010)
	assert(sys.Cpu.Regs[5] == 0xdeadbeef)
}

func TestSyscallAndRfe(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	loadProgram(sys, []uint32{
		0x0000000c, // syscall
	})

	runSteps(t, sys, 1)

	assert(sys.Cpu.PC == 0x80000080)
	cause := (sys.Cpu.Cop0.GetCause(sys.IrqState) >> 2) & 0x1f
	assert(cause == uint32(EXCEPTION_SYSCALL))

	// interrupts are disabled by the mode stack push
	sys.Cpu.Cop0.SetSR(sys.Cpu.Cop0.SR | 4) // pretend IEp was set
	mode := sys.Cpu.Cop0.SR & 0x3f
	sys.Cpu.Cop0.ReturnFromException()
	assert(sys.Cpu.Cop0.SR&0x3f == mode>>2)
}
