package emulator

// CPU state
type CPU struct {
	PC        uint32     // The program counter register
	NextPC    uint32     // Next value of the PC, used to emulate the branch delay slot
	CurrentPC uint32     // Address of the instruction currently being executed, used for EPC
	Regs      [32]uint32 // General purpose registers. The first value must always be 0
	// Second register set used to emulate the load delay slot correctly:
	// it contains the output of the current instruction
	OutRegs [32]uint32
	Hi      uint32 // HI register for division remainder and multiplication high result
	Lo      uint32 // LO register for division quotient and multiplication low result
	// Pending load. The first value is the register index (0 when no load
	// is pending, writes to r0 are no-ops anyway), the second is the value
	LoadReg   uint32
	LoadVal   uint32
	Branching bool          // Set by the current instruction if a branch occured
	DelaySlot bool          // Set if the current instruction executes in the delay slot
	Cop0      *Cop0         // Coprocessor 0: system control
	Gte       *GTE          // Coprocessor 2: geometry transformation engine
	Inter     *Interconnect // Memory interface
	Debugger  *Debugger     // Breakpoint and watchpoint hooks
}

// Creates a new CPU state
func NewCPU(inter *Interconnect) *CPU {
	cpu := &CPU{
		PC:       0xbfc00000, // PC reset value at the beginning of the BIOS
		NextPC:   0xbfc00004,
		Inter:    inter,
		Cop0:     NewCop0(),
		Gte:      NewGTE(),
		Debugger: NewDebugger(),
	}

	// initialize registers to garbage values (the values are not
	// initialized on reset, the first one must always be zero)
	for i := 1; i < len(cpu.Regs); i++ {
		cpu.Regs[i] = 0xdeadbeef
		cpu.OutRegs[i] = 0xdeadbeef
	}

	return cpu
}

// Restores the architectural power-on state. The PC points to the
// beginning of the BIOS again and all pending pipeline state is gone
func (cpu *CPU) Reset() {
	cpu.PC = 0xbfc00000
	cpu.NextPC = cpu.PC + 4
	cpu.CurrentPC = cpu.PC
	cpu.Hi = 0
	cpu.Lo = 0
	cpu.LoadReg = 0
	cpu.LoadVal = 0
	cpu.Branching = false
	cpu.DelaySlot = false
	cpu.Cop0 = NewCop0()
	cpu.Gte = NewGTE()

	for i := 1; i < len(cpu.Regs); i++ {
		cpu.Regs[i] = 0xdeadbeef
		cpu.OutRegs[i] = 0xdeadbeef
	}
	cpu.Regs[0] = 0
	cpu.OutRegs[0] = 0
}

// Executes one instruction and returns the amount of CPU cycles it
// consumed. Interrupts are sampled once here, at the step boundary:
// a request raised by a device after this point is only observed by
// the following step
func (cpu *CPU) Step() uint64 {
	pc := cpu.PC
	cpu.CurrentPC = pc

	cpu.Debugger.changedPc(pc)

	if pc&3 != 0 {
		// PC is not correctly aligned
		cpu.Exception(EXCEPTION_LOAD_ADDRESS_ERROR)
		return 1
	}

	// fetch instruction at PC
	instruction := Instruction(cpu.Inter.Load32(pc))

	// the two stage PC pipeline emulates the branch delay slot: the
	// instruction after a branch executes before the jump is taken
	cpu.PC = cpu.NextPC
	cpu.NextPC = cpu.NextPC + 4 // wraps around: 0xfffffffc + 4 = 0

	// execute the pending load, if any. The instruction below still
	// sees the old value in `Regs` for the duration of this step
	cpu.SetReg(cpu.LoadReg, cpu.LoadVal)
	cpu.LoadReg = 0
	cpu.LoadVal = 0

	cpu.DelaySlot = cpu.Branching
	cpu.Branching = false

	if cpu.Cop0.IrqActive(cpu.Inter.IrqState) {
		// a pending unmasked interrupt replaces the fetched
		// instruction with an exception entry
		cpu.Exception(EXCEPTION_INTERRUPT)
	} else {
		cpu.DecodeAndExecute(instruction)
	}

	// instruction output becomes visible to the next one
	cpu.Regs = cpu.OutRegs
	return 1
}

// Triggers an exception: updates the coprocessor 0 state and jumps to
// the exception vector. There is no branch delay on exception entry
func (cpu *CPU) Exception(cause Exception) {
	handler := cpu.Cop0.EnterException(cause, cpu.CurrentPC, cpu.DelaySlot)
	cpu.PC = handler
	cpu.NextPC = handler + 4
}

// Returns the register value at `index`. The first register is always zero
func (cpu *CPU) Reg(index uint32) uint32 {
	return cpu.Regs[index]
}

// Sets the value at the `index` register and sets the first register to zero
func (cpu *CPU) SetReg(index, val uint32) {
	cpu.OutRegs[index] = val
	// R0 should always remain 0, we can't change it
	cpu.OutRegs[0] = 0
}

// Arms a delayed load: `val` only lands in the register after the
// next instruction had a chance to read the old value
func (cpu *CPU) DelayedLoad(index, val uint32) {
	cpu.LoadReg = index
	cpu.LoadVal = val
}

// Returns a 32 bit little endian value at `addr`
func (cpu *CPU) Load32(addr uint32) uint32 {
	cpu.Debugger.memoryRead(addr)
	return cpu.Inter.Load32(addr)
}

// Returns a 16 bit little endian value at `addr`
func (cpu *CPU) Load16(addr uint32) uint16 {
	cpu.Debugger.memoryRead(addr)
	return cpu.Inter.Load16(addr)
}

// Returns the byte at `addr`
func (cpu *CPU) Load8(addr uint32) byte {
	cpu.Debugger.memoryRead(addr)
	return cpu.Inter.Load8(addr)
}

// Stores a 32 bit word at `addr`. Ignored while the cache is isolated
func (cpu *CPU) Store32(addr, val uint32) {
	cpu.Debugger.memoryWrite(addr)
	if cpu.Cop0.CacheIsolated() {
		// the BIOS isolates the cache to flush it, the writes must
		// not reach memory
		return
	}
	cpu.Inter.Store32(addr, val)
}

// Stores a 16 bit value at `addr`
func (cpu *CPU) Store16(addr uint32, val uint16) {
	cpu.Debugger.memoryWrite(addr)
	if cpu.Cop0.CacheIsolated() {
		return
	}
	cpu.Inter.Store16(addr, val)
}

// Stores a byte at `addr`
func (cpu *CPU) Store8(addr uint32, val byte) {
	cpu.Debugger.memoryWrite(addr)
	if cpu.Cop0.CacheIsolated() {
		return
	}
	cpu.Inter.Store8(addr, val)
}

// Decodes and executes an instruction. Unknown opcodes raise the
// reserved instruction exception, they are never host errors
func (cpu *CPU) DecodeAndExecute(instruction Instruction) {
	// http://problemkaputt.de/psx-spx.htm#cpuopcodeencoding
	switch instruction.Function() {
	case 0b000000:
		cpu.DecodeAndExecuteSubfunction(instruction)
	case 0b000001: // BLTZ, BLTZAL, BGEZ, BGEZAL
		cpu.OpBXX(instruction)
	case 0b000010: // Jump
		cpu.OpJ(instruction)
	case 0b000011: // Jump And Link
		cpu.OpJAL(instruction)
	case 0b000100: // Branch If Equal
		cpu.OpBEQ(instruction)
	case 0b000101: // Branch If Not Equal
		cpu.OpBNE(instruction)
	case 0b000110: // Branch If Less Than Or Equal To Zero
		cpu.OpBLEZ(instruction)
	case 0b000111: // Branch If Greater Than Zero
		cpu.OpBGTZ(instruction)
	case 0b001000: // Add Immediate
		cpu.OpADDI(instruction)
	case 0b001001: // Add Immediate Unsigned
		cpu.OpADDIU(instruction)
	case 0b001010: // Set If Less Than Immediate
		cpu.OpSLTI(instruction)
	case 0b001011: // Set If Less Than Immediate Unsigned
		cpu.OpSLTIU(instruction)
	case 0b001100: // Bitwise And Immediate
		cpu.OpANDI(instruction)
	case 0b001101: // Bitwise Or Immediate
		cpu.OpORI(instruction)
	case 0b001110: // Bitwise Exclusive Or Immediate
		cpu.OpXORI(instruction)
	case 0b001111: // Load Upper Immediate
		cpu.OpLUI(instruction)
	case 0b010000: // Coprocessor 0 opcode
		cpu.OpCOP0(instruction)
	case 0b010001: // Coprocessor 1 opcode (does not exist on the PlayStation)
		cpu.Exception(EXCEPTION_COPROCESSOR_ERROR)
	case 0b010010: // Coprocessor 2 opcode (GTE)
		cpu.OpCOP2(instruction)
	case 0b010011: // Coprocessor 3 opcode (does not exist on the PlayStation)
		cpu.Exception(EXCEPTION_COPROCESSOR_ERROR)
	case 0b100000: // Load Byte
		cpu.OpLB(instruction)
	case 0b100001: // Load Halfword
		cpu.OpLH(instruction)
	case 0b100010: // Load Word Left
		cpu.OpLWL(instruction)
	case 0b100011: // Load Word
		cpu.OpLW(instruction)
	case 0b100100: // Load Byte Unsigned
		cpu.OpLBU(instruction)
	case 0b100101: // Load Halfword Unsigned
		cpu.OpLHU(instruction)
	case 0b100110: // Load Word Right
		cpu.OpLWR(instruction)
	case 0b101000: // Store Byte
		cpu.OpSB(instruction)
	case 0b101001: // Store Halfword
		cpu.OpSH(instruction)
	case 0b101010: // Store Word Left
		cpu.OpSWL(instruction)
	case 0b101011: // Store Word
		cpu.OpSW(instruction)
	case 0b101110: // Store Word Right
		cpu.OpSWR(instruction)
	case 0b110000: // Load Word Coprocessor 0
		cpu.Exception(EXCEPTION_COPROCESSOR_ERROR)
	case 0b110001: // Load Word Coprocessor 1
		cpu.Exception(EXCEPTION_COPROCESSOR_ERROR)
	case 0b110010: // Load Word Coprocessor 2
		cpu.OpLWC2(instruction)
	case 0b110011: // Load Word Coprocessor 3
		cpu.Exception(EXCEPTION_COPROCESSOR_ERROR)
	case 0b111000: // Store Word Coprocessor 0
		cpu.Exception(EXCEPTION_COPROCESSOR_ERROR)
	case 0b111001: // Store Word Coprocessor 1
		cpu.Exception(EXCEPTION_COPROCESSOR_ERROR)
	case 0b111010: // Store Word Coprocessor 2
		cpu.OpSWC2(instruction)
	case 0b111011: // Store Word Coprocessor 3
		cpu.Exception(EXCEPTION_COPROCESSOR_ERROR)
	default:
		cpu.Exception(EXCEPTION_ILLEGAL_INSTRUCTION)
	}
}

// Executes instructions where the function is 0b000000 (the real
// operation is stored in the subfunction)
func (cpu *CPU) DecodeAndExecuteSubfunction(instruction Instruction) {
	switch instruction.Subfunction() {
	case 0b000000: // Shift Left Logical
		cpu.OpSLL(instruction)
	case 0b000010: // Shift Right Logical
		cpu.OpSRL(instruction)
	case 0b000011: // Shift Right Arithmetic
		cpu.OpSRA(instruction)
	case 0b000100: // Shift Left Logical Variable
		cpu.OpSLLV(instruction)
	case 0b000110: // Shift Right Logical Variable
		cpu.OpSRLV(instruction)
	case 0b000111: // Shift Right Arithmetic Variable
		cpu.OpSRAV(instruction)
	case 0b001000: // Jump Register
		cpu.OpJR(instruction)
	case 0b001001: // Jump And Link Register
		cpu.OpJALR(instruction)
	case 0b001100: // System Call
		cpu.Exception(EXCEPTION_SYSCALL)
	case 0b001101: // Break
		cpu.Exception(EXCEPTION_BREAK)
	case 0b010000: // Move From HI
		cpu.OpMFHI(instruction)
	case 0b010001: // Move To HI
		cpu.OpMTHI(instruction)
	case 0b010010: // Move From LO
		cpu.OpMFLO(instruction)
	case 0b010011: // Move To LO
		cpu.OpMTLO(instruction)
	case 0b011000: // Multiply
		cpu.OpMULT(instruction)
	case 0b011001: // Multiply Unsigned
		cpu.OpMULTU(instruction)
	case 0b011010: // Divide
		cpu.OpDIV(instruction)
	case 0b011011: // Divide Unsigned
		cpu.OpDIVU(instruction)
	case 0b100000: // Add
		cpu.OpADD(instruction)
	case 0b100001: // Add Unsigned
		cpu.OpADDU(instruction)
	case 0b100010: // Subtract
		cpu.OpSUB(instruction)
	case 0b100011: // Subtract Unsigned
		cpu.OpSUBU(instruction)
	case 0b100100: // Bitwise And
		cpu.OpAND(instruction)
	case 0b100101: // Bitwise Or
		cpu.OpOR(instruction)
	case 0b100110: // Bitwise Exclusive Or
		cpu.OpXOR(instruction)
	case 0b100111: // Bitwise Not Or
		cpu.OpNOR(instruction)
	case 0b101010: // Set On Less Than
		cpu.OpSLT(instruction)
	case 0b101011: // Set On Less Than Unsigned
		cpu.OpSLTU(instruction)
	default:
		cpu.Exception(EXCEPTION_ILLEGAL_INSTRUCTION)
	}
}

// Branches to the immediate value `offset`
func (cpu *CPU) Branch(offset uint32) {
	// offset immediates are always shifted two places to the right since
	// PC addresses have to be aligned to 32 bits at all times
	offset <<= 2

	// NextPC already points one instruction past the delay slot
	cpu.NextPC = cpu.PC + offset
	cpu.Branching = true
}

// Load Upper Immediate
func (cpu *CPU) OpLUI(instruction Instruction) {
	i := instruction.Imm()
	t := instruction.T()

	// low 16 bits are set to 0
	v := i << 16
	cpu.SetReg(t, v)
}

// Bitwise Or Immediate
func (cpu *CPU) OpORI(instruction Instruction) {
	i := instruction.Imm()
	t := instruction.T()
	s := instruction.S()
	cpu.SetReg(t, cpu.Reg(s)|i)
}

// Bitwise And Immediate
func (cpu *CPU) OpANDI(instruction Instruction) {
	i := instruction.Imm()
	t := instruction.T()
	s := instruction.S()
	cpu.SetReg(t, cpu.Reg(s)&i)
}

// Bitwise Exclusive Or Immediate
func (cpu *CPU) OpXORI(instruction Instruction) {
	i := instruction.Imm()
	t := instruction.T()
	s := instruction.S()
	cpu.SetReg(t, cpu.Reg(s)^i)
}

// Shift Left Logical
func (cpu *CPU) OpSLL(instruction Instruction) {
	i := instruction.Shift()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, cpu.Reg(t)<<i)
}

// Shift Right Logical
func (cpu *CPU) OpSRL(instruction Instruction) {
	i := instruction.Shift()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, cpu.Reg(t)>>i)
}

// Shift Right Arithmetic
func (cpu *CPU) OpSRA(instruction Instruction) {
	i := instruction.Shift()
	t := instruction.T()
	d := instruction.D()
	v := int32(cpu.Reg(t)) >> i
	cpu.SetReg(d, uint32(v))
}

// Shift Left Logical Variable
func (cpu *CPU) OpSLLV(instruction Instruction) {
	d := instruction.D()
	s := instruction.S()
	t := instruction.T()
	// the shift amount is truncated to 5 bits
	cpu.SetReg(d, cpu.Reg(t)<<(cpu.Reg(s)&0x1f))
}

// Shift Right Logical Variable
func (cpu *CPU) OpSRLV(instruction Instruction) {
	d := instruction.D()
	s := instruction.S()
	t := instruction.T()
	cpu.SetReg(d, cpu.Reg(t)>>(cpu.Reg(s)&0x1f))
}

// Shift Right Arithmetic Variable
func (cpu *CPU) OpSRAV(instruction Instruction) {
	d := instruction.D()
	s := instruction.S()
	t := instruction.T()
	v := int32(cpu.Reg(t)) >> (cpu.Reg(s) & 0x1f)
	cpu.SetReg(d, uint32(v))
}

// Add Immediate: generates an overflow exception instead of wrapping
func (cpu *CPU) OpADDI(instruction Instruction) {
	i := int32(instruction.ImmSE())
	t := instruction.T()
	s := instruction.S()

	v, err := add32Overflow(int32(cpu.Reg(s)), i)
	if err != nil {
		cpu.Exception(EXCEPTION_OVERFLOW)
		return
	}
	cpu.SetReg(t, uint32(v))
}

// Add Immediate Unsigned: wraps on overflow despite the name, the
// immediate is still sign extended
func (cpu *CPU) OpADDIU(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()
	cpu.SetReg(t, cpu.Reg(s)+i)
}

// Add: generates an overflow exception instead of wrapping
func (cpu *CPU) OpADD(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()
	d := instruction.D()

	v, err := add32Overflow(int32(cpu.Reg(s)), int32(cpu.Reg(t)))
	if err != nil {
		cpu.Exception(EXCEPTION_OVERFLOW)
		return
	}
	cpu.SetReg(d, uint32(v))
}

// Add Unsigned
func (cpu *CPU) OpADDU(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, cpu.Reg(s)+cpu.Reg(t))
}

// Subtract: generates an overflow exception instead of wrapping
func (cpu *CPU) OpSUB(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()
	d := instruction.D()

	v, err := sub32Overflow(int32(cpu.Reg(s)), int32(cpu.Reg(t)))
	if err != nil {
		cpu.Exception(EXCEPTION_OVERFLOW)
		return
	}
	cpu.SetReg(d, uint32(v))
}

// Subtract Unsigned
func (cpu *CPU) OpSUBU(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()
	d := instruction.D()
	cpu.SetReg(d, cpu.Reg(s)-cpu.Reg(t))
}

// Bitwise And
func (cpu *CPU) OpAND(instruction Instruction) {
	d := instruction.D()
	s := instruction.S()
	t := instruction.T()
	cpu.SetReg(d, cpu.Reg(s)&cpu.Reg(t))
}

// Bitwise Or
func (cpu *CPU) OpOR(instruction Instruction) {
	d := instruction.D()
	s := instruction.S()
	t := instruction.T()
	cpu.SetReg(d, cpu.Reg(s)|cpu.Reg(t))
}

// Bitwise Exclusive Or
func (cpu *CPU) OpXOR(instruction Instruction) {
	d := instruction.D()
	s := instruction.S()
	t := instruction.T()
	cpu.SetReg(d, cpu.Reg(s)^cpu.Reg(t))
}

// Bitwise Not Or
func (cpu *CPU) OpNOR(instruction Instruction) {
	d := instruction.D()
	s := instruction.S()
	t := instruction.T()
	cpu.SetReg(d, ^(cpu.Reg(s) | cpu.Reg(t)))
}

// Set On Less Than (signed comparison)
func (cpu *CPU) OpSLT(instruction Instruction) {
	d := instruction.D()
	s := instruction.S()
	t := instruction.T()
	v := int32(cpu.Reg(s)) < int32(cpu.Reg(t))
	cpu.SetReg(d, oneIfTrue(v))
}

// Set On Less Than Unsigned
func (cpu *CPU) OpSLTU(instruction Instruction) {
	d := instruction.D()
	s := instruction.S()
	t := instruction.T()
	v := cpu.Reg(s) < cpu.Reg(t)
	cpu.SetReg(d, oneIfTrue(v))
}

// Set If Less Than Immediate (signed comparison)
func (cpu *CPU) OpSLTI(instruction Instruction) {
	i := int32(instruction.ImmSE())
	s := instruction.S()
	t := instruction.T()
	v := int32(cpu.Reg(s)) < i
	cpu.SetReg(t, oneIfTrue(v))
}

// Set If Less Than Immediate Unsigned: the immediate is still sign
// extended before the unsigned comparison
func (cpu *CPU) OpSLTIU(instruction Instruction) {
	i := instruction.ImmSE()
	s := instruction.S()
	t := instruction.T()
	v := cpu.Reg(s) < i
	cpu.SetReg(t, oneIfTrue(v))
}

// Jump
func (cpu *CPU) OpJ(instruction Instruction) {
	i := instruction.ImmJump()
	// the jump target replaces the low 28 bits, the 4 MSBs come from
	// the address of the delay slot
	cpu.NextPC = (cpu.PC & 0xf0000000) | (i << 2)
	cpu.Branching = true
}

// Jump And Link: stores the return address in r31
func (cpu *CPU) OpJAL(instruction Instruction) {
	ra := cpu.NextPC
	cpu.OpJ(instruction)
	cpu.SetReg(31, ra)
}

// Jump Register
func (cpu *CPU) OpJR(instruction Instruction) {
	s := instruction.S()
	cpu.NextPC = cpu.Reg(s)
	cpu.Branching = true
}

// Jump And Link Register: the return address is stored in `d` instead
// of r31
func (cpu *CPU) OpJALR(instruction Instruction) {
	d := instruction.D()
	s := instruction.S()

	ra := cpu.NextPC
	cpu.NextPC = cpu.Reg(s)
	cpu.SetReg(d, ra)
	cpu.Branching = true
}

// Branch If Equal
func (cpu *CPU) OpBEQ(instruction Instruction) {
	i := instruction.ImmSE()
	s := instruction.S()
	t := instruction.T()

	if cpu.Reg(s) == cpu.Reg(t) {
		cpu.Branch(i)
	}
}

// Branch If Not Equal
func (cpu *CPU) OpBNE(instruction Instruction) {
	i := instruction.ImmSE()
	s := instruction.S()
	t := instruction.T()

	if cpu.Reg(s) != cpu.Reg(t) {
		cpu.Branch(i)
	}
}

// Branch If Less Than Or Equal To Zero
func (cpu *CPU) OpBLEZ(instruction Instruction) {
	i := instruction.ImmSE()
	s := instruction.S()

	if int32(cpu.Reg(s)) <= 0 {
		cpu.Branch(i)
	}
}

// Branch If Greater Than Zero
func (cpu *CPU) OpBGTZ(instruction Instruction) {
	i := instruction.ImmSE()
	s := instruction.S()

	if int32(cpu.Reg(s)) > 0 {
		cpu.Branch(i)
	}
}

// BLTZ, BLTZAL, BGEZ and BGEZAL share the same opcode, the exact
// operation is encoded in the T field
func (cpu *CPU) OpBXX(instruction Instruction) {
	i := instruction.ImmSE()
	s := instruction.S()

	op := uint32(instruction)
	isBgez := (op >> 16) & 1
	// the link only happens when bits [20:17] equal 0x8
	isLink := (op>>17)&0xf == 8

	v := int32(cpu.Reg(s))

	// test "v < 0" and flip the result with the XOR when the
	// instruction is a BGEZ
	test := oneIfTrue(v < 0)
	test ^= isBgez

	if isLink {
		// the return address is stored even when the branch is not
		// taken
		cpu.SetReg(31, cpu.NextPC)
	}

	if test != 0 {
		cpu.Branch(i)
	}
}

// Multiply (signed), the result is stored in HI/LO
func (cpu *CPU) OpMULT(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()

	a := int64(int32(cpu.Reg(s)))
	b := int64(int32(cpu.Reg(t)))
	v := uint64(a * b)

	cpu.Hi = uint32(v >> 32)
	cpu.Lo = uint32(v)
}

// Multiply Unsigned
func (cpu *CPU) OpMULTU(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()

	a := uint64(cpu.Reg(s))
	b := uint64(cpu.Reg(t))
	v := a * b

	cpu.Hi = uint32(v >> 32)
	cpu.Lo = uint32(v)
}

// Divide (signed). A division by zero does not trap, it yields the
// hardware's bogus results instead
func (cpu *CPU) OpDIV(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()

	n := int32(cpu.Reg(s))
	d := int32(cpu.Reg(t))

	if d == 0 {
		cpu.Hi = uint32(n)
		if n >= 0 {
			cpu.Lo = 0xffffffff
		} else {
			cpu.Lo = 1
		}
	} else if uint32(n) == 0x80000000 && d == -1 {
		// the result does not fit in 32 bits
		cpu.Hi = 0
		cpu.Lo = 0x80000000
	} else {
		cpu.Hi = uint32(n % d)
		cpu.Lo = uint32(n / d)
	}
}

// Divide Unsigned
func (cpu *CPU) OpDIVU(instruction Instruction) {
	s := instruction.S()
	t := instruction.T()

	n := cpu.Reg(s)
	d := cpu.Reg(t)

	if d == 0 {
		cpu.Hi = n
		cpu.Lo = 0xffffffff
	} else {
		cpu.Hi = n % d
		cpu.Lo = n / d
	}
}

// Move From HI
func (cpu *CPU) OpMFHI(instruction Instruction) {
	d := instruction.D()
	cpu.SetReg(d, cpu.Hi)
}

// Move To HI
func (cpu *CPU) OpMTHI(instruction Instruction) {
	s := instruction.S()
	cpu.Hi = cpu.Reg(s)
}

// Move From LO
func (cpu *CPU) OpMFLO(instruction Instruction) {
	d := instruction.D()
	cpu.SetReg(d, cpu.Lo)
}

// Move To LO
func (cpu *CPU) OpMTLO(instruction Instruction) {
	s := instruction.S()
	cpu.Lo = cpu.Reg(s)
}

// Load Word
func (cpu *CPU) OpLW(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	if addr&3 != 0 {
		cpu.Exception(EXCEPTION_LOAD_ADDRESS_ERROR)
		return
	}

	cpu.DelayedLoad(t, cpu.Load32(addr))
}

// Load Halfword (sign extended)
func (cpu *CPU) OpLH(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	if addr&1 != 0 {
		cpu.Exception(EXCEPTION_LOAD_ADDRESS_ERROR)
		return
	}

	v := int16(cpu.Load16(addr))
	cpu.DelayedLoad(t, uint32(int32(v)))
}

// Load Halfword Unsigned
func (cpu *CPU) OpLHU(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	if addr&1 != 0 {
		cpu.Exception(EXCEPTION_LOAD_ADDRESS_ERROR)
		return
	}

	cpu.DelayedLoad(t, uint32(cpu.Load16(addr)))
}

// Load Byte (sign extended)
func (cpu *CPU) OpLB(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	v := int8(cpu.Load8(addr))
	cpu.DelayedLoad(t, uint32(int32(v)))
}

// Load Byte Unsigned
func (cpu *CPU) OpLBU(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	cpu.DelayedLoad(t, uint32(cpu.Load8(addr)))
}

// Load Word Left: merges the high bytes of an unaligned word into the
// target register. Bypasses the load delay so that a LWL/LWR pair can
// chain without an instruction in between
func (cpu *CPU) OpLWL(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i

	// the untouched bytes come from the in-flight output value which
	// contains the result of a directly preceding LWR
	cur := cpu.OutRegs[t]

	alignedWord := cpu.Load32(addr & ^uint32(3))

	var v uint32
	switch addr & 3 {
	case 0:
		v = (cur & 0x00ffffff) | (alignedWord << 24)
	case 1:
		v = (cur & 0x0000ffff) | (alignedWord << 16)
	case 2:
		v = (cur & 0x000000ff) | (alignedWord << 8)
	case 3:
		v = alignedWord
	}
	cpu.DelayedLoad(t, v)
}

// Load Word Right: the counterpart of LWL for the low bytes
func (cpu *CPU) OpLWR(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	cur := cpu.OutRegs[t]

	alignedWord := cpu.Load32(addr & ^uint32(3))

	var v uint32
	switch addr & 3 {
	case 0:
		v = alignedWord
	case 1:
		v = (cur & 0xff000000) | (alignedWord >> 8)
	case 2:
		v = (cur & 0xffff0000) | (alignedWord >> 16)
	case 3:
		v = (cur & 0xffffff00) | (alignedWord >> 24)
	}
	cpu.DelayedLoad(t, v)
}

// Store Word
func (cpu *CPU) OpSW(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	if addr&3 != 0 {
		cpu.Exception(EXCEPTION_STORE_ADDRESS_ERROR)
		return
	}
	cpu.Store32(addr, cpu.Reg(t))
}

// Store Halfword
func (cpu *CPU) OpSH(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	if addr&1 != 0 {
		cpu.Exception(EXCEPTION_STORE_ADDRESS_ERROR)
		return
	}
	cpu.Store16(addr, uint16(cpu.Reg(t)))
}

// Store Byte
func (cpu *CPU) OpSB(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	cpu.Store8(addr, byte(cpu.Reg(t)))
}

// Store Word Left: stores the high bytes of a register into an
// unaligned word in memory
func (cpu *CPU) OpSWL(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	v := cpu.Reg(t)

	alignedAddr := addr & ^uint32(3)
	cur := cpu.Load32(alignedAddr)

	var mem uint32
	switch addr & 3 {
	case 0:
		mem = (cur & 0xffffff00) | (v >> 24)
	case 1:
		mem = (cur & 0xffff0000) | (v >> 16)
	case 2:
		mem = (cur & 0xff000000) | (v >> 8)
	case 3:
		mem = v
	}
	cpu.Store32(alignedAddr, mem)
}

// Store Word Right: the counterpart of SWL for the low bytes
func (cpu *CPU) OpSWR(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	v := cpu.Reg(t)

	alignedAddr := addr & ^uint32(3)
	cur := cpu.Load32(alignedAddr)

	var mem uint32
	switch addr & 3 {
	case 0:
		mem = v
	case 1:
		mem = (cur & 0x000000ff) | (v << 8)
	case 2:
		mem = (cur & 0x0000ffff) | (v << 16)
	case 3:
		mem = (cur & 0x00ffffff) | (v << 24)
	}
	cpu.Store32(alignedAddr, mem)
}

// Coprocessor 0 opcode
func (cpu *CPU) OpCOP0(instruction Instruction) {
	switch instruction.CopOpcode() {
	case 0b00000: // MFC0
		cpu.OpMFC0(instruction)
	case 0b00100: // MTC0
		cpu.OpMTC0(instruction)
	case 0b10000: // RFE
		cpu.OpRFE(instruction)
	default:
		cpu.Exception(EXCEPTION_ILLEGAL_INSTRUCTION)
	}
}

// Move From Coprocessor 0: reads go through the load delay slot
func (cpu *CPU) OpMFC0(instruction Instruction) {
	cpuR := instruction.T()
	copR := instruction.D()

	var v uint32
	switch copR {
	case 12:
		v = cpu.Cop0.SR
	case 13:
		v = cpu.Cop0.GetCause(cpu.Inter.IrqState)
	case 14:
		v = cpu.Cop0.Epc
	default:
		// breakpoint and cache registers read zero
		v = 0
	}
	cpu.DelayedLoad(cpuR, v)
}

// Move To Coprocessor 0
func (cpu *CPU) OpMTC0(instruction Instruction) {
	cpuR := instruction.T()
	copR := instruction.D()
	v := cpu.Reg(cpuR)

	switch copR {
	case 12:
		cpu.Cop0.SetSR(v)
	case 13:
		cpu.Cop0.SetCause(v)
	case 3, 5, 6, 7, 9, 11:
		// breakpoint registers, accepted and ignored
	default:
		// writes to the other registers have no effect
	}
}

// Return From Exception: pops the interrupt enable/user mode stack
func (cpu *CPU) OpRFE(instruction Instruction) {
	// there are other instructions with the same encoding, but all
	// are virtual memory related and the PlayStation doesn't
	// implement them
	if uint32(instruction)&0x3f != 0b010000 {
		cpu.Exception(EXCEPTION_ILLEGAL_INSTRUCTION)
		return
	}
	cpu.Cop0.ReturnFromException()
}

// Coprocessor 2 opcode (GTE)
func (cpu *CPU) OpCOP2(instruction Instruction) {
	copOp := instruction.CopOpcode()

	if copOp&0x10 != 0 {
		// GTE command
		cpu.Gte.Command(uint32(instruction) & 0x1ffffff)
		return
	}

	switch copOp {
	case 0b00000: // MFC2
		cpuR := instruction.T()
		copR := instruction.D()
		cpu.DelayedLoad(cpuR, cpu.Gte.Data(copR))
	case 0b00010: // CFC2
		cpuR := instruction.T()
		copR := instruction.D()
		cpu.DelayedLoad(cpuR, cpu.Gte.Control(copR))
	case 0b00100: // MTC2
		cpu.Gte.SetData(instruction.D(), cpu.Reg(instruction.T()))
	case 0b00110: // CTC2
		cpu.Gte.SetControl(instruction.D(), cpu.Reg(instruction.T()))
	default:
		cpu.Exception(EXCEPTION_ILLEGAL_INSTRUCTION)
	}
}

// Load Word Coprocessor 2: loads a word straight into a GTE data
// register
func (cpu *CPU) OpLWC2(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	if addr&3 != 0 {
		cpu.Exception(EXCEPTION_LOAD_ADDRESS_ERROR)
		return
	}
	cpu.Gte.SetData(t, cpu.Load32(addr))
}

// Store Word Coprocessor 2: stores a GTE data register into memory
func (cpu *CPU) OpSWC2(instruction Instruction) {
	i := instruction.ImmSE()
	t := instruction.T()
	s := instruction.S()

	addr := cpu.Reg(s) + i
	if addr&3 != 0 {
		cpu.Exception(EXCEPTION_STORE_ADDRESS_ERROR)
		return
	}
	cpu.Store32(addr, cpu.Gte.Data(t))
}
