package emulator

// Length of one video frame in CPU clock cycles
const CYCLES_PER_FRAME uint64 = CYCLES_PER_SCANLINE * SCANLINES_PER_FRAME

// Ties the CPU, the bus and the peripherals together and drives them
// on a shared clock. The CPU is the master: it runs one instruction,
// reports how many cycles it burned and the peripherals catch up
type System struct {
	Cpu      *CPU
	Inter    *Interconnect
	Th       *TimeHandler
	IrqState *IrqState
}

// Returns a new system in its power-on state, ready to boot `bios`
func NewSystem(bios *BIOS) *System {
	th := NewTimeHandler()
	irqState := NewIrqState()
	inter := NewInterconnect(bios, th, irqState)

	return &System{
		Cpu:      NewCPU(inter),
		Inter:    inter,
		Th:       th,
		IrqState: irqState,
	}
}

// Runs a single CPU instruction and brings the peripherals up to
// date. Returns an error when a transfer went off the rails in a way
// the real machine cannot represent
func (sys *System) Step() error {
	cycles := sys.Cpu.Step()
	sys.Th.Tick(cycles)

	sys.Inter.Gpu.Sync(sys.Th, sys.IrqState)

	if sys.Th.NeedsSync(PERIPHERAL_PADMEMCARD) {
		sys.Inter.PadMemCard.Sync(sys.Th, sys.IrqState)
	}

	sys.Inter.Timers.Sync(sys.Th, sys.IrqState)

	return sys.Inter.Dma.RunSlice(sys.Inter.Ram, sys.Inter.Gpu, sys.IrqState)
}

// Runs the emulation for the duration of one video frame
func (sys *System) RunFrame() error {
	end := sys.Th.Cycles + CYCLES_PER_FRAME

	for sys.Th.Cycles < end {
		if err := sys.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Total amount of CPU clock cycles elapsed since power-on or the last
// reset
func (sys *System) TotalCycles() uint64 {
	return sys.Th.Cycles
}

// Puts the whole machine back in its power-on state. The BIOS image,
// the gamepad bindings and the memory card contents are kept
func (sys *System) Reset() {
	sys.Th.Reset()
	sys.IrqState.Status = 0
	sys.IrqState.Mask = 0

	sys.Cpu.Reset()
	sys.Inter.Ram.Clear()
	sys.Inter.ScratchPad.Clear()
	sys.Inter.Dma.Reset()
	sys.Inter.Gpu.GP1Reset()
	sys.Inter.Timers = NewTimers()
	sys.Inter.PadMemCard.Reset()
	sys.Inter.Spu.Reset()
	sys.Inter.CdRom.Reset()
	sys.Inter.CacheControl = 0
	sys.Inter.RamSizeReg = 0
	for i := range sys.Inter.MemControl {
		sys.Inter.MemControl[i] = 0
	}
}
