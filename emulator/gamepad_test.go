package emulator

import "testing"

func TestGamepadIdleState(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	pad := NewGamepad(GAMEPAD_TYPE_DIGITAL)
	assert(pad.Buttons == 0xffff)

	// a pad that was never selected does not respond
	resp, dsr := pad.SendCommand(0x01)
	assert(resp == 0xff)
	assert(!dsr)
}

func TestGamepadExchange(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	pad := NewGamepad(GAMEPAD_TYPE_DIGITAL)
	pad.SetButtonState(BUTTON_CROSS, true)
	assert(pad.Buttons == 0xbfff)

	pad.Select()

	// 0x01 addresses the controller
	resp, dsr := pad.SendCommand(0x01)
	assert(resp == 0xff)
	assert(dsr)

	// 0x42 polls the buttons, the pad identifies itself as 0x5a41
	resp, dsr = pad.SendCommand(0x42)
	assert(resp == 0x41)
	assert(dsr)

	resp, dsr = pad.SendCommand(0)
	assert(resp == 0x5a)
	assert(dsr)

	resp, dsr = pad.SendCommand(0)
	assert(resp == 0xff)
	assert(dsr)

	// the last byte carries the cross bit and is never acked
	resp, dsr = pad.SendCommand(0)
	assert(resp == 0xbf)
	assert(!dsr)

	// the exchange is over
	resp, dsr = pad.SendCommand(0)
	assert(resp == 0xff)
	assert(!dsr)
}

func TestGamepadBadCommandAborts(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	pad := NewGamepad(GAMEPAD_TYPE_DIGITAL)
	pad.Select()

	// 0x81 addresses the memory card, the pad stops listening
	resp, dsr := pad.SendCommand(0x81)
	assert(resp == 0xff)
	assert(!dsr)

	resp, dsr = pad.SendCommand(0x42)
	assert(resp == 0xff)
	assert(!dsr)
}

func TestSerialRegisterExchange(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	inter := sys.Inter

	// enable TX and assert select on port 1
	inter.Store16(0x1f80104a, 0x0003)

	// first command byte addresses the pad
	inter.Store8(0x1f801040, 0x01)
	sys.Th.Tick(100)
	assert(inter.Load8(0x1f801040) == 0xff)

	// polling command, the pad answers with its identifier low byte
	inter.Store8(0x1f801040, 0x42)
	sys.Th.Tick(100)
	assert(inter.Load8(0x1f801040) == 0x41)

	// the RX FIFO is drained, reads return the idle line
	assert(inter.Load8(0x1f801040) == 0xff)
}

func TestSerialDeselectAborts(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := testSystem()
	card := sys.Inter.PadMemCard

	card.SetControl(0x0003, sys.IrqState)
	assert(card.Pad1.Active)

	// dropping select mid-exchange kills the transaction
	card.SetControl(0x0001, sys.IrqState)
	assert(!card.Pad1.Active)

	resp, dsr := card.Pad1.SendCommand(0x01)
	assert(resp == 0xff)
	assert(!dsr)
}
