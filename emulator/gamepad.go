package emulator

type SerialTarget int

const (
	TARGET_PADMEMCARD1 SerialTarget = 0
	TARGET_PADMEMCARD2 SerialTarget = 1
)

func SerialTargetFromControl(val uint16) SerialTarget {
	if val&0x2000 != 0 {
		return TARGET_PADMEMCARD2
	}
	return TARGET_PADMEMCARD1
}

// The digital pad buttons. The button state register is active-low
type Button uint16

const (
	BUTTON_SELECT   Button = 0
	BUTTON_START    Button = 3
	BUTTON_DPAD_UP  Button = 4
	BUTTON_DPAD_RT  Button = 5
	BUTTON_DPAD_DN  Button = 6
	BUTTON_DPAD_LT  Button = 7
	BUTTON_L2       Button = 8
	BUTTON_R2       Button = 9
	BUTTON_L1       Button = 10
	BUTTON_R1       Button = 11
	BUTTON_TRIANGLE Button = 12
	BUTTON_CIRCLE   Button = 13
	BUTTON_CROSS    Button = 14
	BUTTON_SQUARE   Button = 15
)

type GamepadType int

const (
	GAMEPAD_TYPE_DISCONNECTED GamepadType = iota // Empty slot
	GAMEPAD_TYPE_DIGITAL      GamepadType = iota // Original digital pad
)

// A controller plugged into one of the two front ports
type Gamepad struct {
	Type GamepadType
	// Button state, one bit per button. The protocol is active-low:
	// all ones means nothing is pressed
	Buttons uint16
	Seq     uint8 // Position within the current exchange
	Active  bool  // False once the pad stopped responding to this exchange
}

func NewGamepad(padType GamepadType) *Gamepad {
	return &Gamepad{
		Type:    padType,
		Buttons: 0xffff,
	}
}

// Called when the select signal is asserted, a new exchange begins
func (pad *Gamepad) Select() {
	pad.Seq = 0
	pad.Active = true
}

// Updates the state of one button
func (pad *Gamepad) SetButtonState(button Button, pressed bool) {
	if pressed {
		pad.Buttons &= ^(uint16(1) << button)
	} else {
		pad.Buttons |= uint16(1) << button
	}
}

// Handles one command byte of the exchange. Returns the response byte
// and whether the pad asserts DSR to ack it. The last byte of the
// exchange is never acked
func (pad *Gamepad) SendCommand(cmd uint8) (uint8, bool) {
	if pad.Type == GAMEPAD_TYPE_DISCONNECTED || !pad.Active {
		// the bus is open-collector, an idle device reads as all ones
		return 0xff, false
	}

	seq := pad.Seq
	pad.Seq++

	switch seq {
	case 0:
		// the first byte addresses the device type, 0x01 is a
		// controller access
		if cmd != 0x01 {
			pad.Active = false
			return 0xff, false
		}
		return 0xff, true
	case 1:
		// 0x42 polls the pad state, the response is the low byte of
		// the digital pad identifier 0x5a41
		if cmd != 0x42 {
			pad.Active = false
			return 0xff, false
		}
		return 0x41, true
	case 2:
		return 0x5a, true
	case 3:
		return uint8(pad.Buttons), true
	case 4:
		// last response byte, no ack
		pad.Active = false
		return uint8(pad.Buttons >> 8), false
	}

	pad.Active = false
	return 0xff, false
}

type BusState int

const (
	BUS_STATE_IDLE     BusState = iota // Bus is idle
	BUS_STATE_TRANSFER BusState = iota // Bus transaction in progress
	BUS_STATE_DSR      BusState = iota // Bus DSR pulse in progress
)

type Bus struct {
	State           BusState // Bus state
	DsrResponse     uint8    // Response latched for the end of the transfer
	Dsr             bool     // Whether the device acks with a DSR pulse
	TxDuration      uint64   // Transfer duration (cycles)
	RemainingCycles uint64   // Remaining DSR pulse cycles
}

func (bus *Bus) IsBusy() bool {
	return bus.State != BUS_STATE_IDLE
}

func NewBus(state BusState) *Bus {
	return &Bus{State: state}
}

// Gamepad and memory card controller
type PadMemCard struct {
	BaudDiv    uint16       // Serial clock divider
	Mode       uint8        // Serial config
	TxEn       bool         // Whether transmission is enabled
	Select     bool         // Whether the target peripheral select signal is set
	Target     SerialTarget // Specifies the selected port
	Unknown    uint8        // Control register bits 3 and 5
	RxEn       bool         // Force-enable the receiver even without select
	Dsr        bool         // Data Set Ready signal
	DsrIt      bool         // Whether an interrupt should be generated on a DSR pulse
	Interrupt  bool         // Interrupt level
	Response   uint8        // Response byte
	RxNotEmpty bool         // Whether the RX FIFO holds a byte
	Pad1       *Gamepad     // Controller in slot 1
	Pad2       *Gamepad     // Controller in slot 2
	MemCard1   *MemCard     // Memory card in slot 1
	MemCard2   *MemCard     // Memory card in slot 2
	Bus        *Bus         // Bus state
}

func NewPadMemCard() *PadMemCard {
	return &PadMemCard{
		Target:   TARGET_PADMEMCARD1,
		Response: 0xff,
		Pad1:     NewGamepad(GAMEPAD_TYPE_DIGITAL),
		Pad2:     NewGamepad(GAMEPAD_TYPE_DISCONNECTED),
		MemCard1: NewMemCard(),
		MemCard2: NewMemCard(),
		Bus:      NewBus(BUS_STATE_IDLE),
	}
}

// Returns value of the status register
func (card *PadMemCard) Status() uint32 {
	var r uint32

	// TX ready bits
	r |= 5
	r |= oneIfTrue(card.RxNotEmpty) << 1
	// RX parity error (will always be 0)
	r |= 0 << 3
	r |= oneIfTrue(card.Dsr) << 7
	r |= oneIfTrue(card.Interrupt) << 9
	r |= 0 << 11

	return r
}

// Sets card.Mode
func (card *PadMemCard) SetMode(mode uint8) {
	card.Mode = mode
}

// Returns value of the control register
func (card *PadMemCard) Control() uint16 {
	var r uint16

	r |= uint16(card.Unknown)
	r |= uint16(oneIfTrue(card.TxEn)) << 0
	r |= uint16(oneIfTrue(card.Select)) << 1
	r |= uint16(oneIfTrue(card.RxEn)) << 2
	r |= uint16(oneIfTrue(card.DsrIt)) << 12
	r |= uint16(card.Target) << 13

	return r
}

func (card *PadMemCard) SetControl(val uint16, irqState *IrqState) {
	if val&0x40 != 0 {
		// soft reset
		card.SoftReset()
		return
	}

	if val&0x10 != 0 {
		// interrupt acknowledge
		card.Acknowledge(irqState)
	}

	prevSelect := card.Select

	card.Unknown = uint8(val) & 0x28
	card.TxEn = val&1 != 0
	card.Select = (val>>1)&1 != 0
	card.RxEn = (val>>2)&1 != 0
	card.DsrIt = (val>>12)&1 != 0
	card.Target = SerialTargetFromControl(val)

	if !prevSelect && card.Select {
		// a rising edge of the select signal starts a new exchange on
		// the target port
		pad, memCard := card.targetDevices()
		pad.Select()
		memCard.Select()
	} else if prevSelect && !card.Select {
		// deselecting mid-exchange aborts it without any side effect
		// on the devices
		card.Pad1.Active = false
		card.Pad2.Active = false
		card.MemCard1.Deselect()
		card.MemCard2.Deselect()
	}
}

// The pad and memory card sharing the selected port
func (card *PadMemCard) targetDevices() (*Gamepad, *MemCard) {
	if card.Target == TARGET_PADMEMCARD2 {
		return card.Pad2, card.MemCard2
	}
	return card.Pad1, card.MemCard1
}

func (card *PadMemCard) Acknowledge(irqState *IrqState) {
	card.Interrupt = false

	if card.Dsr && card.DsrIt {
		// the acknowledge raced with an active DSR, the interrupt
		// comes right back
		card.Interrupt = true
		irqState.SetHigh(INTERRUPT_PADMEMCARD)
	}
}

func (card *PadMemCard) SoftReset() {
	card.BaudDiv = 0
	card.Mode = 0
	card.Select = false
	card.Target = TARGET_PADMEMCARD1
	card.Unknown = 0
	card.Interrupt = false
	card.RxNotEmpty = false
	card.Bus.State = BUS_STATE_IDLE
	card.Dsr = false
	card.Response = 0xff
}

// Restores the controller and the attached devices to their power-on
// state. The memory card contents survive, only in-flight frames are
// dropped
func (card *PadMemCard) Reset() {
	card.SoftReset()
	card.TxEn = false
	card.RxEn = false
	card.DsrIt = false
	card.Pad1.Select()
	card.Pad1.Active = false
	card.Pad2.Select()
	card.Pad2.Active = false
	card.MemCard1.Deselect()
	card.MemCard2.Deselect()
}

// Starts the transfer of one command byte on the serial bus. The
// response arrives once the transfer duration elapsed
func (card *PadMemCard) SendCommand(cmd uint8, th *TimeHandler) {
	if !card.TxEn {
		// nothing transmits, the byte is dropped
		return
	}

	// no response by default
	var response uint8 = 0xff
	var dsr bool = false

	if card.Select {
		pad, memCard := card.targetDevices()

		// both devices see every byte, the bus wires their responses
		// together (open-collector, idle lines read as ones)
		padResp, padDsr := pad.SendCommand(cmd)
		cardResp, cardDsr := memCard.SendCommand(cmd)

		response = padResp & cardResp
		dsr = padDsr || cardDsr
	}

	txDuration := 8 * uint64(card.BaudDiv)
	if txDuration == 0 {
		txDuration = 8
	}
	card.Bus.State = BUS_STATE_TRANSFER
	card.Bus.DsrResponse = response
	card.Bus.Dsr = dsr
	card.Bus.TxDuration = txDuration

	th.SetNextSyncDelta(PERIPHERAL_PADMEMCARD, txDuration)
}

func (card *PadMemCard) Sync(th *TimeHandler, irqState *IrqState) {
	delta := th.Sync(PERIPHERAL_PADMEMCARD)

	switch card.Bus.State {
	case BUS_STATE_IDLE:
		th.RemoveNextSync(PERIPHERAL_PADMEMCARD)
	case BUS_STATE_TRANSFER:
		card.HandleTransfer(th, irqState, delta)
	case BUS_STATE_DSR:
		card.HandleBusDsr(th, delta)
	}
}

func (card *PadMemCard) HandleBusDsr(th *TimeHandler, delta uint64) {
	delay := card.Bus.RemainingCycles
	if delta < delay {
		delay -= delta
		card.Bus.RemainingCycles = delay
	} else {
		// DSR pulse is over
		card.Dsr = false
		card.Bus.State = BUS_STATE_IDLE
	}
	th.RemoveNextSync(PERIPHERAL_PADMEMCARD)
}

func (card *PadMemCard) HandleTransfer(th *TimeHandler, irqState *IrqState, delta uint64) {
	resp := card.Bus.DsrResponse
	dsr := card.Bus.Dsr
	dur := card.Bus.TxDuration

	if delta < dur {
		// continue transfer
		dur -= delta
		card.Bus.TxDuration = dur

		if card.DsrIt {
			th.SetNextSyncDelta(PERIPHERAL_PADMEMCARD, dur)
		} else {
			th.RemoveNextSync(PERIPHERAL_PADMEMCARD)
		}
		return
	}

	// end of transfer, latch the response. If the previous byte was
	// never read it is simply lost
	card.Response = resp
	card.RxNotEmpty = true
	card.Dsr = dsr

	if card.Dsr {
		if card.DsrIt {
			if !card.Interrupt {
				irqState.SetHigh(INTERRUPT_PADMEMCARD)
			}
			card.Interrupt = true
		}

		card.Bus.State = BUS_STATE_DSR
		card.Bus.RemainingCycles = 10
	} else {
		card.Bus.State = BUS_STATE_IDLE
	}
	th.RemoveNextSync(PERIPHERAL_PADMEMCARD)
}

func (card *PadMemCard) Store(
	size AccessSize,
	val interface{},
	th *TimeHandler,
	offset uint32,
	irqState *IrqState,
) {
	card.Sync(th, irqState)

	switch offset {
	case 0: // TX data
		card.SendCommand(accessSizeToU8(size, val), th)
	case 8:
		card.SetMode(accessSizeToU8(size, val))
	case 10: // control
		card.SetControl(accessSizeToU16(size, val), irqState)
	case 14:
		card.BaudDiv = accessSizeToU16(size, val)
	default:
		// JOY_MODE mirrors and unknown registers, writes are dropped
	}
}

func (card *PadMemCard) Load(
	size AccessSize,
	th *TimeHandler,
	offset uint32,
	irqState *IrqState,
) interface{} {
	card.Sync(th, irqState)

	switch offset {
	case 0: // RX data
		r := card.Response
		card.RxNotEmpty = false
		card.Response = 0xff
		return accessSizeU32(size, uint32(r))
	case 4:
		return accessSizeU32(size, card.Status())
	case 8:
		return accessSizeU32(size, uint32(card.Mode))
	case 10:
		return accessSizeU32(size, uint32(card.Control()))
	case 14:
		return accessSizeU32(size, uint32(card.BaudDiv))
	}
	return accessSizeU32(size, OPEN_BUS)
}
