package emulator

// Cycles that will never be reached, used to disarm a forced sync
const CYCLES_MAX uint64 = 0xffffffffffffffff

// Keeps track of the emulation time
type TimeHandler struct {
	// Keeps track of the current execution time. It is measured in
	// the CPU clock at 33.8685MHz (~29.525960700946ns)
	Cycles     uint64
	TimeSheets []*TimeSheet
}

// Represents a TimeSheet index
type Peripheral uint32

const (
	PERIPHERAL_GPU        Peripheral = 0 // Graphics Processing Unit
	PERIPHERAL_PADMEMCARD Peripheral = 1 // Gamepad and memory card controller
	PERIPHERAL_TIMER0     Peripheral = 2 // Timer 0
	PERIPHERAL_TIMER1     Peripheral = 3 // Timer 1
	PERIPHERAL_TIMER2     Peripheral = 4 // Timer 2
	PERIPHERAL_DMA        Peripheral = 5 // Direct Memory Access
	PERIPHERAL_COUNT                 = 6 // Amount of peripherals
)

// Returns a new instance of TimeHandler
func NewTimeHandler() *TimeHandler {
	th := &TimeHandler{}
	for i := 0; i < PERIPHERAL_COUNT; i++ {
		th.TimeSheets = append(th.TimeSheets, NewTimeSheet())
	}
	return th
}

// Advance the current time by `cycles`
func (th *TimeHandler) Tick(cycles uint64) {
	th.Cycles += cycles
}

// Synchronizes a peripheral and returns the elapsed cycles since
// the last synchronization
func (th *TimeHandler) Sync(from Peripheral) uint64 {
	return th.TimeSheets[from].Sync(th.Cycles)
}

func (th *TimeHandler) SetNextSyncDelta(from Peripheral, delta uint64) {
	th.TimeSheets[from].NextSync = th.Cycles + delta
}

// Sets the next sync of the peripheral if it happens sooner than the
// one currently pending
func (th *TimeHandler) MaybeSetNextSyncDelta(from Peripheral, delta uint64) {
	date := th.Cycles + delta
	if date < th.TimeSheets[from].NextSync {
		th.TimeSheets[from].NextSync = date
	}
}

// Disarms the forced synchronization of the peripheral
func (th *TimeHandler) RemoveNextSync(from Peripheral) {
	th.TimeSheets[from].NextSync = CYCLES_MAX
}

// Returns true if the peripheral reached the time of the next forced
// synchronization
func (th *TimeHandler) NeedsSync(from Peripheral) bool {
	return th.TimeSheets[from].NeedsSync(th.Cycles)
}

// Resets the clock and all time sheets
func (th *TimeHandler) Reset() {
	th.Cycles = 0
	for _, sheet := range th.TimeSheets {
		sheet.LastSync = 0
		sheet.NextSync = CYCLES_MAX
	}
}

// Keeps track of synchronization of different peripherals
type TimeSheet struct {
	LastSync uint64 // Time of the last synchronization
	NextSync uint64 // Date of the next forced synchronization
}

// Returns a new TimeSheet instance
func NewTimeSheet() *TimeSheet {
	return &TimeSheet{
		NextSync: CYCLES_MAX,
	}
}

// Set the time sheet to the current time and return the time
// since the last synchronization
func (sheet *TimeSheet) Sync(cycles uint64) uint64 {
	delta := cycles - sheet.LastSync
	sheet.LastSync = cycles
	return delta
}

// Returns true if the peripheral reached `NextSync`
func (sheet *TimeSheet) NeedsSync(cycles uint64) bool {
	return sheet.NextSync <= cycles
}

// Fixed point representation of a cycle counter, used to deal with
// non-integer cycle ratios like the GPU dotclock
type FracCycles uint64

const FRAC_CYCLES_FRAC_BITS = 16

func FracCyclesFromFixed(fixed uint64) FracCycles {
	return FracCycles(fixed)
}

func FracCyclesFromCycles(cycles uint64) FracCycles {
	return FracCycles(cycles << FRAC_CYCLES_FRAC_BITS)
}

func FracCyclesFromF32(val float32) FracCycles {
	precision := float32(uint64(1) << FRAC_CYCLES_FRAC_BITS)
	return FracCycles(val * precision)
}

func (fc FracCycles) GetFixed() uint64 {
	return uint64(fc)
}

func (fc FracCycles) Add(other FracCycles) FracCycles {
	return FracCycles(uint64(fc) + uint64(other))
}

func (fc FracCycles) Multiply(other FracCycles) FracCycles {
	// the shift amount is doubled during multiplication
	return FracCycles((uint64(fc) * uint64(other)) >> FRAC_CYCLES_FRAC_BITS)
}

func (fc FracCycles) Divide(denominator FracCycles) FracCycles {
	// the shift amount is canceled during division, so shift the
	// numerator first
	numerator := uint64(fc) << FRAC_CYCLES_FRAC_BITS
	return FracCycles(numerator / uint64(denominator))
}

// Rounds up to the next whole cycle count
func (fc FracCycles) Ceil() uint64 {
	shift := uint64(FRAC_CYCLES_FRAC_BITS)
	align := (uint64(1) << shift) - 1
	return (uint64(fc) + align) >> shift
}
