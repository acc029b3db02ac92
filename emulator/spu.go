package emulator

// SPU register offsets within the bus window
const (
	SPU_REG_TRANSFER_ADDR    = 0x1a6 // Sound RAM transfer address
	SPU_REG_TRANSFER_FIFO    = 0x1a8 // Sound RAM transfer FIFO
	SPU_REG_CONTROL          = 0x1aa // SPUCNT
	SPU_REG_TRANSFER_CONTROL = 0x1ac
	SPU_REG_STATUS           = 0x1ae // SPUSTAT
)

// Sound Processing Unit. Only the bus visible state is emulated: the
// register file, the sound RAM and the transfer port. No audio is
// synthesized
type SPU struct {
	// Raw register file, one halfword per register. Reads return
	// whatever was last written unless the register has side effects
	Regs [320]uint16
	// 512KB of sound RAM, filled through the transfer FIFO
	Ram [256 * 1024]uint16
	// Current transfer position in the sound RAM, in halfwords
	TransferIndex uint32
}

func NewSPU() *SPU {
	return &SPU{}
}

func (spu *SPU) Reset() {
	for i := range spu.Regs {
		spu.Regs[i] = 0
	}
	spu.TransferIndex = 0
}

// Value of SPUCNT
func (spu *SPU) Control() uint16 {
	return spu.Regs[SPU_REG_CONTROL>>1]
}

// Value of SPUSTAT. The low 6 bits mirror the current SPU mode bits
// of the control register
func (spu *SPU) Status() uint16 {
	return spu.Control() & 0x3f
}

// Writes one halfword register
func (spu *SPU) storeReg(offset uint32, val uint16) {
	switch offset {
	case SPU_REG_TRANSFER_ADDR:
		// the register holds the address in 8 byte units
		spu.Regs[offset>>1] = val
		spu.TransferIndex = uint32(val) * 4
	case SPU_REG_TRANSFER_FIFO:
		spu.Ram[spu.TransferIndex%uint32(len(spu.Ram))] = val
		spu.TransferIndex++
	case SPU_REG_STATUS:
		// read-only
	default:
		spu.Regs[offset>>1] = val
	}
}

func (spu *SPU) loadReg(offset uint32) uint16 {
	switch offset {
	case SPU_REG_STATUS:
		return spu.Status()
	default:
		return spu.Regs[offset>>1]
	}
}

func (spu *SPU) Store(size AccessSize, offset uint32, val interface{}) {
	switch size {
	case ACCESS_WORD:
		v := accessSizeToU32(size, val)
		spu.storeReg(offset, uint16(v))
		spu.storeReg(offset+2, uint16(v>>16))
	default:
		spu.storeReg(offset & ^uint32(1), accessSizeToU16(size, val))
	}
}

func (spu *SPU) Load(size AccessSize, offset uint32) interface{} {
	switch size {
	case ACCESS_WORD:
		lo := uint32(spu.loadReg(offset))
		hi := uint32(spu.loadReg(offset + 2))
		return lo | hi<<16
	default:
		return accessSizeU16(size, spu.loadReg(offset&^uint32(1)))
	}
}
