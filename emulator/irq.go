package emulator

// State of the interrupt register
type IrqState struct {
	Status uint16 // Interrupt status
	Mask   uint16 // Interrupt mask
}

// Represents an interrupt request line
type Interrupt uint16

const (
	INTERRUPT_VBLANK     Interrupt = 0 // GPU is in vertical blanking
	INTERRUPT_GPU        Interrupt = 1 // Requested by a GP0 command
	INTERRUPT_CDROM      Interrupt = 2 // CD-ROM controller
	INTERRUPT_DMA        Interrupt = 3 // DMA transfer complete
	INTERRUPT_TIMER0     Interrupt = 4 // Timer 0 (GPU pixel clock)
	INTERRUPT_TIMER1     Interrupt = 5 // Timer 1 (GPU horizontal blanking)
	INTERRUPT_TIMER2     Interrupt = 6 // Timer 2 (system clock / 8)
	INTERRUPT_PADMEMCARD Interrupt = 7 // Gamepad and memory card controller
	INTERRUPT_SIO        Interrupt = 8 // Serial port
	INTERRUPT_SPU        Interrupt = 9 // Sound Processing Unit
)

// Returns a new interrupt instance
func NewIrqState() *IrqState {
	return &IrqState{}
}

// Returns true if any unmasked interrupt is pending
func (state *IrqState) Active() bool {
	return (state.Status & state.Mask) != 0
}

// Clears the request bits set in `ack` (write one to clear)
func (state *IrqState) Acknowledge(ack uint16) {
	state.Status &= ^ack
}

func (state *IrqState) SetMask(mask uint16) {
	state.Mask = mask
}

func (state *IrqState) SetHigh(interrupt Interrupt) {
	state.Status |= 1 << interrupt
}
