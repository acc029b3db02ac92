package emulator

var (
	// RAM. The region is 8MB wide and the 2MB of physical memory are
	// mirrored four times across it
	RAM_RANGE = NewRange(0x00000000, 8*1024*1024)
	// Expansion slot 1 (parallel port)
	EXPANSION_1 = NewRange(0x1f000000, 8*1024*1024)
	// 1KB of fast RAM
	SCRATCHPAD_RANGE = NewRange(0x1f800000, SCRATCH_PAD_SIZE)
	// Memory latency and expansion mapping (also known as SYSCONTROL)
	MEM_CONTROL = NewRange(0x1f801000, 36)
	// Gamepad and memory card controller
	PADMEMCARD_RANGE = NewRange(0x1f801040, 32)
	// Register that has something to do with RAM configuration, configured by the BIOS
	RAM_SIZE = NewRange(0x1f801060, 4)
	// Interrupt Control registers (status and mask)
	IRQ_CONTROL = NewRange(0x1f801070, 8)
	// Direct Memory Access registers
	DMA_RANGE = NewRange(0x1f801080, 0x80)
	// The three hardware timers
	TIMERS_RANGE = NewRange(0x1f801100, 0x30)
	// CD-ROM controller
	CDROM_RANGE = NewRange(0x1f801800, 4)
	// GPU registers (GP0/GPUREAD and GP1/GPUSTAT)
	GPU_RANGE = NewRange(0x1f801810, 8)
	// Sound Processing Unit registers
	SPU_RANGE = NewRange(0x1f801c00, 640)
	// Expansion slot 2 (used by devkits for debug output)
	EXPANSION_2 = NewRange(0x1f802000, 66)
	// The range of the BIOS in the system memory
	BIOS_RANGE = NewRange(0x1fc00000, BIOS_SIZE)
	// Cache control register, full address since it's in KSEG2
	CACHE_CONTROL = NewRange(0xfffe0130, 4)
)

// Mask array used to strip the region bits of a CPU address. The mask is
// selected with the 3 MSBs of the address so each entry matches 512MB of
// address space. KSEG2 is not touched since it doesn't share anything with
// the other regions
var REGION_MASK = [8]uint32{
	// KUSEG: 2048MB
	0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff,
	// KSEG0: 512MB
	0x7fffffff,
	// KSEG1: 512MB
	0x1fffffff,
	// KSEG2: 1024MB
	0xffffffff, 0xffffffff,
}

// Collapses the three mirrored segments (KUSEG, KSEG0, KSEG1) into a single
// physical address. The translation is a pure function of the address
func MaskRegion(addr uint32) uint32 {
	return addr & REGION_MASK[addr>>29]
}

type Range struct {
	Start  uint32 // Start address
	Length uint32 // Length of the mapping
}

func NewRange(start uint32, length uint32) Range {
	return Range{Start: start, Length: length}
}

// Returns whether `addr` is located inside this range
func (r *Range) Contains(addr uint32) bool {
	return addr >= r.Start && addr < r.Start+r.Length
}

// Returns the offset between `addr` and the `Start` of the range.
// Does not check if the range contains the address, so if `addr`
// is smaller than `Start`, there will be an overflow
func (r *Range) Offset(addr uint32) uint32 {
	return addr - r.Start
}
