package emulator

import (
	"errors"
	"testing"
)

func runDmaSlice(t *testing.T, sys *System) {
	if err := sys.Inter.Dma.RunSlice(sys.Inter.Ram, sys.Inter.Gpu, sys.IrqState); err != nil {
		t.Fatal(err)
	}
}

func TestOtcClear(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	dma := sys.Inter.Dma
	ram := sys.Inter.Ram

	// the reset DPCR leaves the OTC master enable clear
	dma.Control |= 1 << 27

	ch := dma.Channels[PORT_OTC]
	ch.SetBase(0x1000)
	ch.SetBlockControl(4)
	// backwards manual transfer, enable + trigger
	ch.SetControl(0x11000002)

	runDmaSlice(t, sys)

	// each entry points to the previous one, the last entry holds the
	// end of list marker
	assert(ram.Load32(0x1000) == 0xffc)
	assert(ram.Load32(0xffc) == 0xff8)
	assert(ram.Load32(0xff8) == 0xff4)
	assert(ram.Load32(0xff4) == 0xffffff)

	assert(!ch.Enable)
	assert(!ch.Trigger)
	assert(!ch.InTransfer)
}

func TestBlockTransferChopping(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	dma := sys.Inter.Dma

	dma.Control |= 1 << 27

	ch := dma.Channels[PORT_OTC]
	ch.SetBase(0x2000)
	ch.SetBlockControl(100)
	ch.SetControl(0x11000002)

	// one slice moves at most 32 words, a long transfer spans several
	// slices so the CPU keeps running in the gaps
	runDmaSlice(t, sys)
	assert(ch.InTransfer)
	assert(ch.RemainingWords == 100-DMA_DEFAULT_SLICE_WORDS)

	for i := 0; i < 3; i++ {
		runDmaSlice(t, sys)
	}
	assert(!ch.InTransfer)
	assert(!ch.Enable)
}

func TestLinkedListTransfer(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	dma := sys.Inter.Dma
	ram := sys.Inter.Ram

	// two node command list: one draw mode word, then the end of list
	// marker
	ram.Store32(0x100, 0x01000200)
	ram.Store32(0x104, 0xe1000000)
	ram.Store32(0x200, 0x00800000)

	// enable the GPU port in the DPCR and the channel 2 interrupt
	dma.Control |= 1 << 11
	dma.SetInterrupt(1<<23|1<<(16+uint32(PORT_GPU)), sys.IrqState)

	ch := dma.Channels[PORT_GPU]
	ch.SetBase(0x100)
	// from RAM, linked list, enabled
	ch.SetControl(0x01000401)

	runDmaSlice(t, sys)

	assert(!ch.InTransfer)
	assert(!ch.Enable)
	assert(dma.ChannelIrqFlags&(1<<PORT_GPU) != 0)
	assert(sys.IrqState.Status&(1<<INTERRUPT_DMA) != 0)
}

func TestMisconfiguredChannels(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	dma := sys.Inter.Dma

	// linked list mode on a port without command list support: the
	// channel completes without moving anything
	dma.Control |= 1 << 3
	ch := dma.Channels[PORT_MDEC_IN]
	ch.SetBase(0x100)
	ch.SetControl(0x01000401)
	runDmaSlice(t, sys)
	assert(!ch.InTransfer)
	assert(!ch.Enable)

	// linked list into RAM is equally unsupported
	dma.Control |= 1 << 11
	ch = dma.Channels[PORT_GPU]
	ch.SetBase(0x100)
	ch.SetControl(0x01000400)
	runDmaSlice(t, sys)
	assert(!ch.InTransfer)
	assert(!ch.Enable)

	// an OTC transfer armed in the wrong direction sends RAM words to
	// a port that simply drops them
	dma.Control |= 1 << 27
	ch = dma.Channels[PORT_OTC]
	ch.SetBase(0x1000)
	ch.SetBlockControl(4)
	ch.SetControl(0x11000003)
	runDmaSlice(t, sys)
	assert(!ch.InTransfer)
	assert(!ch.Enable)
}

func TestLinkedListEmptyNodes(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	dma := sys.Inter.Dma
	ram := sys.Inter.Ram

	// a chain of zero-word nodes, the shape of a freshly cleared
	// ordering table. The walk must follow the next pointers, not fall
	// through to sequential RAM
	ram.Store32(0x100, 0x00000180)
	ram.Store32(0x180, 0x00000200)
	ram.Store32(0x200, 0x00ffffff)

	dma.Control |= 1 << 11

	ch := dma.Channels[PORT_GPU]
	ch.SetBase(0x100)
	ch.SetControl(0x01000401)

	runDmaSlice(t, sys)

	assert(!ch.InTransfer)
	assert(!ch.Enable)
}

func TestLinkedListLoopCap(t *testing.T) {
	sys := testSystem()
	dma := sys.Inter.Dma
	ram := sys.Inter.Ram

	// a header pointing at itself never terminates
	ram.Store32(0x100, 0x00000100)

	dma.Control |= 1 << 11

	ch := dma.Channels[PORT_GPU]
	ch.SetBase(0x100)
	ch.SetControl(0x01000401)

	var err error
	for i := 0; i < DMA_CHAIN_MAX_NODES; i++ {
		if err = dma.RunSlice(sys.Inter.Ram, sys.Inter.Gpu, sys.IrqState); err != nil {
			break
		}
	}

	if !errors.Is(err, ErrDmaChainLoop) {
		t.Errorf("expected chain loop error, got %v", err)
	}
	if ch.InTransfer {
		t.Error("channel still in transfer after the walk was aborted")
	}
}
