package emulator

// Kind of debugger event
type HitKind int

const (
	HIT_BREAKPOINT       HitKind = 0 // Execution reached a breakpoint
	HIT_READ_WATCHPOINT  HitKind = 1 // A read watchpoint fired
	HIT_WRITE_WATCHPOINT HitKind = 2 // A write watchpoint fired
)

// A single breakpoint or watchpoint hit
type Hit struct {
	Kind HitKind
	Addr uint32 // Address that triggered the hit
	PC   uint32 // Instruction address at the time of the hit
}

// Breakpoint and watchpoint support. The CPU calls into the debugger
// on every instruction fetch and memory access, hits are recorded and
// left for the frontend to consume: the emulation itself never stops
// or prints on its own
type Debugger struct {
	Breakpoints      []uint32 // All breakpoint addresses
	ReadWatchpoints  []uint32 // All read watchpoints
	WriteWatchpoints []uint32 // All write watchpoints
	Hits             []Hit    // Hits recorded since the last Drain

	pc uint32 // Address of the instruction currently executing
}

func NewDebugger() *Debugger {
	return &Debugger{}
}

// Adds a breakpoint when the instruction at `addr` is about to be executed
func (debugger *Debugger) AddBreakpoint(addr uint32) {
	// check if that breakpoint already exists
	for _, breakpoint := range debugger.Breakpoints {
		if breakpoint == addr {
			return
		}
	}
	debugger.Breakpoints = append(debugger.Breakpoints, addr)
}

// Deletes a breakpoint at `addr`. Does nothing if it doesn't exist
func (debugger *Debugger) DeleteBreakpoint(addr uint32) {
	for idx, breakpoint := range debugger.Breakpoints {
		if breakpoint == addr {
			// remove this breakpoint
			debugger.Breakpoints = append(debugger.Breakpoints[:idx], debugger.Breakpoints[idx+1:]...)
			return
		}
	}
}

// Adds a memory read watchpoint for `addr`
func (debugger *Debugger) AddReadWatchpoint(addr uint32) {
	for _, watchpoint := range debugger.ReadWatchpoints {
		if watchpoint == addr {
			return
		}
	}
	debugger.ReadWatchpoints = append(debugger.ReadWatchpoints, addr)
}

// Adds a memory write watchpoint for `addr`
func (debugger *Debugger) AddWriteWatchpoint(addr uint32) {
	for _, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint == addr {
			return
		}
	}
	debugger.WriteWatchpoints = append(debugger.WriteWatchpoints, addr)
}

// Deletes a memory read watchpoint at `addr`. Does nothing if it doesn't exist
func (debugger *Debugger) DeleteReadWatchpoint(addr uint32) {
	for idx, watchpoint := range debugger.ReadWatchpoints {
		if watchpoint == addr {
			debugger.ReadWatchpoints = append(
				debugger.ReadWatchpoints[:idx],
				debugger.ReadWatchpoints[idx+1:]...,
			)
			return
		}
	}
}

// Deletes a memory write watchpoint at `addr`. Does nothing if it doesn't exist
func (debugger *Debugger) DeleteWriteWatchpoint(addr uint32) {
	for idx, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint == addr {
			debugger.WriteWatchpoints = append(
				debugger.WriteWatchpoints[:idx],
				debugger.WriteWatchpoints[idx+1:]...,
			)
			return
		}
	}
}

// Returns the recorded hits and clears the backlog
func (debugger *Debugger) Drain() []Hit {
	hits := debugger.Hits
	debugger.Hits = nil
	return hits
}

func (debugger *Debugger) record(kind HitKind, addr uint32) {
	debugger.Hits = append(debugger.Hits, Hit{
		Kind: kind,
		Addr: addr,
		PC:   debugger.pc,
	})
}

// Debugger entrypoint, called on every instruction fetch
func (debugger *Debugger) changedPc(pc uint32) {
	debugger.pc = pc

	for _, breakpoint := range debugger.Breakpoints {
		if breakpoint == pc {
			debugger.record(HIT_BREAKPOINT, pc)
			return
		}
	}
}

// Called by the CPU when it's about to read a value from memory
func (debugger *Debugger) memoryRead(addr uint32) {
	for _, watchpoint := range debugger.ReadWatchpoints {
		if watchpoint == addr {
			debugger.record(HIT_READ_WATCHPOINT, addr)
			return
		}
	}
}

// Called by the CPU when it's about to write a value to memory
func (debugger *Debugger) memoryWrite(addr uint32) {
	for _, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint == addr {
			debugger.record(HIT_WRITE_WATCHPOINT, addr)
			return
		}
	}
}
