package emulator

import "errors"

// Words granted to an unchopped channel within one scheduling slice
const DMA_DEFAULT_SLICE_WORDS = 32

// Iteration cap for linked list walks. A well formed ordering table
// never comes close to this, only a malformed circular chain does
const DMA_CHAIN_MAX_NODES = 16384

// Returned when a linked list transfer exceeds `DMA_CHAIN_MAX_NODES`
var ErrDmaChainLoop = errors.New("dma: linked list chain exceeds iteration cap")

// Represents the 7 DMA ports
type Port uint32

const (
	PORT_MDEC_IN  Port = 0 // Macroblock decoder input
	PORT_MDEC_OUT Port = 1 // Macroblock decoder output
	PORT_GPU      Port = 2 // Graphics Processing Unit
	PORT_CDROM    Port = 3 // CD-ROM drive
	PORT_SPU      Port = 4 // Sound Processing Unit
	PORT_PIO      Port = 5 // Extension port
	PORT_OTC      Port = 6 // Used to clear the ordering table
)

func PortFromIndex(index uint32) Port {
	if index > 6 {
		panicFmt("dma: invalid port %d", index)
	}
	return Port(index)
}

// Direct Memory Access
type DMA struct {
	Control         uint32 // DMA control register
	IrqEn           bool   // Master IRQ enable
	ChannelIrqEn    uint8  // IRQ enable for individual channels
	ChannelIrqFlags uint8  // IRQ flags for individual channels
	// When set the interrupt is active unconditionally, even
	// if `IrqEn` is false
	ForceIrq bool
	// Bits [0:5] of the interrupt registers are RW but I don't
	// know what they're supposed to do so they're just sent back
	// untouched on reads
	IrqDummy uint8
	Channels [7]*Channel // The 7 channel instances
}

// Return a new reset DMA instance
func NewDMA() *DMA {
	dma := &DMA{
		Control: 0x07654321, // reset value from the Nocash PSX spec
	}

	// allocate channels
	for i := 0; i < len(dma.Channels); i++ {
		dma.Channels[i] = NewChannel()
	}

	return dma
}

// Set the control value
func (dma *DMA) SetControl(val uint32) {
	dma.Control = val
}

// Return the status of the DMA interrupt
func (dma *DMA) Irq() bool {
	channelIrq := dma.ChannelIrqFlags & dma.ChannelIrqEn
	return dma.ForceIrq || (dma.IrqEn && channelIrq != 0)
}

// Return the value of the interrupt register
func (dma *DMA) Interrupt() uint32 {
	var r uint32 = 0
	r |= uint32(dma.IrqDummy)
	r |= oneIfTrue(dma.ForceIrq) << 15
	r |= uint32(dma.ChannelIrqEn) << 16
	r |= oneIfTrue(dma.IrqEn) << 23
	r |= uint32(dma.ChannelIrqFlags) << 24
	r |= oneIfTrue(dma.Irq()) << 31
	return r
}

// Set the value of the interrupt register
func (dma *DMA) SetInterrupt(val uint32, irqState *IrqState) {
	prevIrq := dma.Irq()

	// unknown what bits [5:0] do
	dma.IrqDummy = uint8(val & 0x3f)
	dma.ForceIrq = (val>>15)&1 != 0
	dma.ChannelIrqEn = uint8((val >> 16) & 0x7f)
	dma.IrqEn = (val>>23)&1 != 0

	// writing 1 to a flag resets it
	ack := uint8((val >> 24) & 0x7f)
	dma.ChannelIrqFlags &= ^ack

	if !prevIrq && dma.Irq() {
		irqState.SetHigh(INTERRUPT_DMA)
	}
}

// True if the DPCR master enable bit for the port is set
func (dma *DMA) ChannelEnabled(port Port) bool {
	shift := uint32(port)*4 + 3
	return (dma.Control>>shift)&1 != 0
}

// Flags the channel as done in the interrupt register, raising the
// shared DMA interrupt if the channel interrupt is enabled
func (dma *DMA) FlagDone(port Port, irqState *IrqState) {
	prevIrq := dma.Irq()

	bit := uint8(1) << port
	if dma.ChannelIrqEn&bit != 0 {
		dma.ChannelIrqFlags |= bit
	}

	if !prevIrq && dma.Irq() {
		irqState.SetHigh(INTERRUPT_DMA)
	}
}

// Picks the armed channel with the highest priority. Priority is
// fixed ascending by channel index, only one channel transfers per
// scheduling slice
func (dma *DMA) NextActivePort() (Port, bool) {
	for i := uint32(0); i < 7; i++ {
		port := Port(i)
		ch := dma.Channels[i]
		if dma.ChannelEnabled(port) && ch.Active() {
			return port, true
		}
	}
	return 0, false
}

// Grants one bounded word slice to the highest priority armed
// channel. Long transfers resume on the following slices so the CPU
// keeps running in the gaps
func (dma *DMA) RunSlice(ram *RAM, gpu *GPU, irqState *IrqState) error {
	port, ok := dma.NextActivePort()
	if !ok {
		return nil
	}

	ch := dma.Channels[port]
	if !ch.InTransfer {
		ch.StartTransfer()
	}

	var err error
	if ch.Sync == SYNC_LINKED_LIST {
		err = dma.runLinkedListSlice(port, ch, ram, gpu)
	} else {
		dma.runBlockSlice(port, ch, ram, gpu)
	}
	if err != nil {
		ch.Done()
		return err
	}

	if !ch.InTransfer {
		ch.Done()
		dma.FlagDone(port, irqState)
	}
	return nil
}

// Moves up to one slice worth of words for a block mode (manual or
// request) transfer
func (dma *DMA) runBlockSlice(port Port, ch *Channel, ram *RAM, gpu *GPU) {
	budget := ch.SliceWords()

	for budget > 0 && ch.RemainingWords > 0 {
		// the address wraps in RAM and is always word aligned
		addr := ch.CurAddr & 0x1ffffc

		switch ch.Direction {
		case DIRECTION_FROM_RAM:
			word := ram.Load32(addr)
			dma.portWrite(port, word, gpu)
		case DIRECTION_TO_RAM:
			word := dma.portRead(port, ch, gpu)
			ram.Store32(addr, word)
		}

		if ch.Step == STEP_INCREMENT {
			ch.CurAddr += 4
		} else {
			ch.CurAddr -= 4
		}

		ch.RemainingWords--
		budget--
	}

	if ch.RemainingWords == 0 {
		ch.InTransfer = false
	}
}

// Walks a GPU command list for up to one slice worth of words. The
// walk position survives between slices, and a cap on the visited
// node count catches malformed circular chains
func (dma *DMA) runLinkedListSlice(port Port, ch *Channel, ram *RAM, gpu *GPU) error {
	if port != PORT_GPU || ch.Direction == DIRECTION_TO_RAM {
		// only the GPU port supports command lists and they only flow
		// out of RAM, anything else completes without moving a word
		ch.InTransfer = false
		return nil
	}

	budget := ch.SliceWords()

	for budget > 0 {
		if ch.NodeWords == 0 {
			// current node is drained, hop to the next header
			if ch.NodeEnd {
				ch.InTransfer = false
				return nil
			}
			if ch.NodeCount >= DMA_CHAIN_MAX_NODES {
				return ErrDmaChainLoop
			}

			header := ram.Load32(ch.CurAddr & 0x1ffffc)
			ch.NodeCount++
			ch.NodeWords = uint8(header >> 24)
			ch.NodeNext = header & 0x1ffffc
			// hardware seems to only check the MSB of the address,
			// mednafen and the Nocash spec agree on this
			ch.NodeEnd = header&0x800000 != 0
			if ch.NodeWords == 0 && !ch.NodeEnd {
				// empty node, hop straight to the next header. A fresh
				// ordering table is made entirely of these
				ch.CurAddr = ch.NodeNext
			} else {
				ch.CurAddr = (ch.CurAddr + 4) & 0x1ffffc
			}
			budget--
			continue
		}

		command := ram.Load32(ch.CurAddr & 0x1ffffc)
		gpu.GP0(command)

		ch.CurAddr = (ch.CurAddr + 4) & 0x1ffffc
		ch.NodeWords--
		budget--

		if ch.NodeWords == 0 && !ch.NodeEnd {
			ch.CurAddr = ch.NodeNext
		}
	}
	return nil
}

// One word of data sent from RAM to the device behind the port
func (dma *DMA) portWrite(port Port, word uint32, gpu *GPU) {
	switch port {
	case PORT_GPU:
		gpu.GP0(word)
	default:
		// accepted and discarded, the devices behind the other ports
		// are not emulated past their bus windows
	}
}

// One word of data read from the device behind the port into RAM
func (dma *DMA) portRead(port Port, ch *Channel, gpu *GPU) uint32 {
	switch port {
	case PORT_OTC:
		// the OTC channel generates the empty ordering table in
		// place: every entry points to the previous one and the
		// last entry holds the end of list marker
		if ch.RemainingWords == 1 {
			return 0xffffff
		}
		return (ch.CurAddr - 4) & 0x1fffff
	case PORT_GPU:
		return gpu.Read()
	default:
		// nothing to stream from the other ports
		return 0
	}
}

// Aborts any in-flight transfer on all channels and restores the
// power-on register values
func (dma *DMA) Reset() {
	dma.Control = 0x07654321
	dma.IrqEn = false
	dma.ChannelIrqEn = 0
	dma.ChannelIrqFlags = 0
	dma.ForceIrq = false
	dma.IrqDummy = 0
	for i := 0; i < len(dma.Channels); i++ {
		dma.Channels[i] = NewChannel()
	}
}
