package emulator

// CD-ROM interrupt levels reported in the low bits of the IRQ flag
// register
const (
	CDROM_IRQ_OK    = 3 // First response, command accepted
	CDROM_IRQ_ERROR = 5 // Error or "no disc" response
)

// CD-ROM controller front end. There is no disc in the drive: the
// register interface, the parameter and response FIFOs and the
// interrupt signaling all work, every media command reports that the
// tray is empty
type CdRom struct {
	Index    uint8 // Register bank selected by the index register
	Params   *FIFO // Parameters of the next command
	Response *FIFO // Responses of the previous command
	IrqMask  uint8
	IrqFlags uint8
}

func NewCdRom() *CdRom {
	return &CdRom{
		Params:   NewFIFO(),
		Response: NewFIFO(),
	}
}

func (cdrom *CdRom) Reset() {
	cdrom.Index = 0
	cdrom.Params.Clear()
	cdrom.Response.Clear()
	cdrom.IrqMask = 0
	cdrom.IrqFlags = 0
}

// Drive status byte. No disc and a closed tray: the motor is off and
// no error bits are set
func (cdrom *CdRom) driveStat() uint8 {
	return 0
}

// Latches an interrupt level and raises the shared CD-ROM interrupt
// if it is not masked
func (cdrom *CdRom) triggerIrq(level uint8, irqState *IrqState) {
	cdrom.IrqFlags = level
	if cdrom.IrqFlags&cdrom.IrqMask != 0 {
		irqState.SetHigh(INTERRUPT_CDROM)
	}
}

// Value of the status register at offset 0
func (cdrom *CdRom) status() uint8 {
	r := cdrom.Index
	// bit 2: XA-ADPCM fifo empty (always)
	r |= oneIfTrueU8(cdrom.Params.IsEmpty()) << 3
	r |= oneIfTrueU8(!cdrom.Params.IsFull()) << 4
	r |= oneIfTrueU8(!cdrom.Response.IsEmpty()) << 5
	// bit 6: data fifo not empty, never with an empty tray
	// bit 7: busy, commands complete instantly here
	return r
}

// Runs a controller command. The response and the interrupt are
// delivered immediately, the host sees them on its next access
func (cdrom *CdRom) command(cmd uint8, irqState *IrqState) {
	cdrom.Response.Clear()

	switch cmd {
	case 0x01: // GetStat
		cdrom.Response.Push(cdrom.driveStat())
		cdrom.triggerIrq(CDROM_IRQ_OK, irqState)
	case 0x02, // Setloc
		0x0d, // SetFilter
		0x0e: // Setmode
		cdrom.Response.Push(cdrom.driveStat())
		cdrom.triggerIrq(CDROM_IRQ_OK, irqState)
	case 0x0a: // Init
		cdrom.Response.Push(cdrom.driveStat())
		cdrom.triggerIrq(CDROM_IRQ_OK, irqState)
	case 0x19: // Test
		cdrom.commandTest(irqState)
	case 0x1a: // GetID
		// with an empty tray the identification fails right away
		cdrom.Response.PushSlice([]byte{0x08, 0x40, 0, 0, 0, 0, 0, 0})
		cdrom.triggerIrq(CDROM_IRQ_ERROR, irqState)
	default:
		// invalid command error
		cdrom.Response.PushSlice([]byte{0x11, 0x40})
		cdrom.triggerIrq(CDROM_IRQ_ERROR, irqState)
	}

	cdrom.Params.Clear()
}

func (cdrom *CdRom) commandTest(irqState *IrqState) {
	var sub uint8
	if !cdrom.Params.IsEmpty() {
		sub = cdrom.Params.Pop()
	}

	switch sub {
	case 0x20:
		// controller firmware date and version
		cdrom.Response.PushSlice([]byte{0x97, 0x01, 0x10, 0xc2})
		cdrom.triggerIrq(CDROM_IRQ_OK, irqState)
	default:
		cdrom.Response.PushSlice([]byte{0x11, 0x10})
		cdrom.triggerIrq(CDROM_IRQ_ERROR, irqState)
	}
}

func (cdrom *CdRom) Load(size AccessSize, offset uint32) interface{} {
	var r uint8

	switch offset {
	case 0:
		r = cdrom.status()
	case 1:
		if !cdrom.Response.IsEmpty() {
			r = cdrom.Response.Pop()
		}
	case 2:
		// data fifo, always empty without a disc
		r = 0
	case 3:
		switch cdrom.Index & 1 {
		case 0:
			r = cdrom.IrqMask | 0xe0
		default:
			r = cdrom.IrqFlags | 0xe0
		}
	}

	return accessSizeU32(size, uint32(r))
}

func (cdrom *CdRom) Store(size AccessSize, offset uint32, val interface{}, irqState *IrqState) {
	v := accessSizeToU8(size, val)

	switch offset {
	case 0:
		cdrom.Index = v & 3
	case 1:
		switch cdrom.Index {
		case 0:
			cdrom.command(v, irqState)
		default:
			// sound map and volume registers, dropped
		}
	case 2:
		switch cdrom.Index {
		case 0:
			if !cdrom.Params.IsFull() {
				cdrom.Params.Push(v)
			}
		case 1:
			cdrom.IrqMask = v & 0x1f
		}
	case 3:
		switch cdrom.Index {
		case 0:
			// request register: data reads are never armed without a
			// disc in the tray
		case 1:
			// writing 1 to the flag bits acknowledges the interrupt
			cdrom.IrqFlags &= ^(v & 0x1f)
			if v&0x40 != 0 {
				cdrom.Params.Clear()
			}
		}
	}
}

func oneIfTrueU8(val bool) uint8 {
	if val {
		return 1
	}
	return 0
}
