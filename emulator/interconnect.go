package emulator

// Misaligned accesses raise an address error exception in the CPU
// before they ever reach the bus, so the bus itself only sees aligned
// addresses and can mask the low bits unconditionally
const AlignmentStrict = true

// Value driven on the data lines when nothing responds to an address
const OPEN_BUS = 0xffffffff

// Global interconnect. Routes CPU (and DMA) accesses to the device
// mapped at the target address
type Interconnect struct {
	Bios       *BIOS       // Basic Input/Output memory
	Ram        *RAM        // Main RAM
	ScratchPad *ScratchPad // 1KB of fast RAM
	Dma        *DMA        // DMA registers
	Gpu        *GPU        // Graphics processor
	Timers     *Timers     // The three hardware timers
	PadMemCard *PadMemCard // Gamepad and memory card controller
	Spu        *SPU        // Sound processing unit
	CdRom      *CdRom      // CD-ROM controller
	IrqState   *IrqState   // Interrupt controller
	Th         *TimeHandler

	CacheControl uint32    // Cache control register in KSEG2
	RamSizeReg   uint32    // RAM_SIZE configuration register
	MemControl   [9]uint32 // Memory latency and expansion mapping registers
}

// Creates a new interconnect with every device in its power-on state
func NewInterconnect(bios *BIOS, th *TimeHandler, irqState *IrqState) *Interconnect {
	return &Interconnect{
		Bios:       bios,
		Ram:        NewRAM(),
		ScratchPad: NewScratchPad(),
		Dma:        NewDMA(),
		Gpu:        NewGPU(),
		Timers:     NewTimers(),
		PadMemCard: NewPadMemCard(),
		Spu:        NewSPU(),
		CdRom:      NewCdRom(),
		IrqState:   irqState,
		Th:         th,
	}
}

// Returns a 32 bit little endian value at `addr`
func (inter *Interconnect) Load32(addr uint32) uint32 {
	return inter.Load(addr, ACCESS_WORD).(uint32)
}

// Returns a 16 bit little endian value at `addr`
func (inter *Interconnect) Load16(addr uint32) uint16 {
	return inter.Load(addr, ACCESS_HALFWORD).(uint16)
}

// Returns the byte at `addr`
func (inter *Interconnect) Load8(addr uint32) byte {
	return inter.Load(addr, ACCESS_BYTE).(byte)
}

// Stores a 32 bit word at `addr`
func (inter *Interconnect) Store32(addr, val uint32) {
	inter.Store(addr, ACCESS_WORD, val)
}

// Stores a 16 bit value at `addr`
func (inter *Interconnect) Store16(addr uint32, val uint16) {
	inter.Store(addr, ACCESS_HALFWORD, val)
}

// Stores a byte at `addr`
func (inter *Interconnect) Store8(addr uint32, val byte) {
	inter.Store(addr, ACCESS_BYTE, val)
}

// Load value at `addr` with the specified access size
func (inter *Interconnect) Load(addr uint32, size AccessSize) interface{} {
	addr &= ^(uint32(size) - 1)
	absAddr := MaskRegion(addr)

	switch {
	case RAM_RANGE.Contains(absAddr):
		return inter.Ram.Load(RAM_RANGE.Offset(absAddr), size)
	case BIOS_RANGE.Contains(absAddr):
		return inter.Bios.Load(BIOS_RANGE.Offset(absAddr), size)
	case SCRATCHPAD_RANGE.Contains(absAddr):
		if addr > 0xa0000000 {
			// the scratchpad is the data cache, it is not mapped
			// through the uncached KSEG1 segment
			return accessSizeU32(size, OPEN_BUS)
		}
		return inter.ScratchPad.Load(SCRATCHPAD_RANGE.Offset(absAddr), size)
	case IRQ_CONTROL.Contains(absAddr):
		switch IRQ_CONTROL.Offset(absAddr) & 4 {
		case 0:
			return accessSizeU32(size, uint32(inter.IrqState.Status))
		default:
			return accessSizeU32(size, uint32(inter.IrqState.Mask))
		}
	case DMA_RANGE.Contains(absAddr):
		return accessSizeU32(size, inter.DmaReg(DMA_RANGE.Offset(absAddr)))
	case GPU_RANGE.Contains(absAddr):
		switch GPU_RANGE.Offset(absAddr) & 4 {
		case 0:
			return accessSizeU32(size, inter.Gpu.Read())
		default:
			return accessSizeU32(size, inter.Gpu.Status())
		}
	case TIMERS_RANGE.Contains(absAddr):
		return inter.Timers.Load(size, inter.Th, TIMERS_RANGE.Offset(absAddr), inter.IrqState)
	case PADMEMCARD_RANGE.Contains(absAddr):
		return inter.PadMemCard.Load(size, inter.Th, PADMEMCARD_RANGE.Offset(absAddr), inter.IrqState)
	case CDROM_RANGE.Contains(absAddr):
		return inter.CdRom.Load(size, CDROM_RANGE.Offset(absAddr))
	case SPU_RANGE.Contains(absAddr):
		return inter.Spu.Load(size, SPU_RANGE.Offset(absAddr))
	case MEM_CONTROL.Contains(absAddr):
		index := MEM_CONTROL.Offset(absAddr) >> 2
		return accessSizeU32(size, inter.MemControl[index])
	case RAM_SIZE.Contains(absAddr):
		return accessSizeU32(size, inter.RamSizeReg)
	case CACHE_CONTROL.Contains(addr):
		return accessSizeU32(size, inter.CacheControl)
	case EXPANSION_1.Contains(absAddr):
		// no expansion hardware, the bus reads all-ones
		return accessSizeU32(size, OPEN_BUS)
	case EXPANSION_2.Contains(absAddr):
		return accessSizeU32(size, OPEN_BUS)
	}

	// unmapped addresses read open bus instead of crashing the
	// machine, real hardware does not trap them either
	return accessSizeU32(size, OPEN_BUS)
}

// Store value into `addr` with the specified access size
func (inter *Interconnect) Store(addr uint32, size AccessSize, val interface{}) {
	addr &= ^(uint32(size) - 1)
	absAddr := MaskRegion(addr)

	switch {
	case RAM_RANGE.Contains(absAddr):
		inter.Ram.Store(RAM_RANGE.Offset(absAddr), size, val)
	case BIOS_RANGE.Contains(absAddr):
		// the BIOS is read-only, writes are ignored
	case SCRATCHPAD_RANGE.Contains(absAddr):
		if addr > 0xa0000000 {
			return
		}
		inter.ScratchPad.Store(SCRATCHPAD_RANGE.Offset(absAddr), size, val)
	case IRQ_CONTROL.Contains(absAddr):
		v := accessSizeToU16(size, val)
		switch IRQ_CONTROL.Offset(absAddr) & 4 {
		case 0:
			inter.IrqState.Acknowledge(v)
		default:
			inter.IrqState.SetMask(v)
		}
	case DMA_RANGE.Contains(absAddr):
		inter.SetDmaReg(DMA_RANGE.Offset(absAddr), accessSizeToU32(size, val))
	case GPU_RANGE.Contains(absAddr):
		v := accessSizeToU32(size, val)
		switch GPU_RANGE.Offset(absAddr) & 4 {
		case 0:
			inter.Gpu.GP0(v)
		default:
			inter.Gpu.GP1(v)
		}
	case TIMERS_RANGE.Contains(absAddr):
		inter.Timers.Store(size, val, inter.Th, TIMERS_RANGE.Offset(absAddr), inter.Gpu, inter.IrqState)
	case PADMEMCARD_RANGE.Contains(absAddr):
		inter.PadMemCard.Store(size, val, inter.Th, PADMEMCARD_RANGE.Offset(absAddr), inter.IrqState)
	case CDROM_RANGE.Contains(absAddr):
		inter.CdRom.Store(size, CDROM_RANGE.Offset(absAddr), val, inter.IrqState)
	case SPU_RANGE.Contains(absAddr):
		inter.Spu.Store(size, SPU_RANGE.Offset(absAddr), val)
	case MEM_CONTROL.Contains(absAddr):
		// the BIOS configures the bus latencies and the expansion
		// base addresses here, we only have to remember the values
		index := MEM_CONTROL.Offset(absAddr) >> 2
		inter.MemControl[index] = accessSizeToU32(size, val)
	case RAM_SIZE.Contains(absAddr):
		inter.RamSizeReg = accessSizeToU32(size, val)
	case CACHE_CONTROL.Contains(addr):
		inter.CacheControl = accessSizeToU32(size, val)
	case EXPANSION_1.Contains(absAddr), EXPANSION_2.Contains(absAddr):
		// devkit debug hardware, accepted and dropped
	default:
		// writes to unmapped addresses are dropped on the floor
	}
}

// Reads a DMA register. The channel is selected by bits [6:4] of the
// offset, the major register by bits [3:0]
func (inter *Interconnect) DmaReg(offset uint32) uint32 {
	major := (offset & 0x70) >> 4
	minor := offset & 0xf

	switch {
	case major <= 6:
		ch := inter.Dma.Channels[PortFromIndex(major)]
		switch minor {
		case 0:
			return ch.Base
		case 4:
			return ch.BlockControl()
		case 8:
			return ch.Control()
		}
	case major == 7:
		switch minor {
		case 0:
			return inter.Dma.Control
		case 4:
			return inter.Dma.Interrupt()
		}
	}
	return OPEN_BUS
}

// Writes a DMA register. Arming a channel takes effect on the next
// scheduling slice, the store itself never moves data
func (inter *Interconnect) SetDmaReg(offset, val uint32) {
	major := (offset & 0x70) >> 4
	minor := offset & 0xf

	switch {
	case major <= 6:
		ch := inter.Dma.Channels[PortFromIndex(major)]
		switch minor {
		case 0:
			ch.SetBase(val)
		case 4:
			ch.SetBlockControl(val)
		case 8:
			ch.SetControl(val)
		}
	case major == 7:
		switch minor {
		case 0:
			inter.Dma.SetControl(val)
		case 4:
			inter.Dma.SetInterrupt(val, inter.IrqState)
		}
	}
}
