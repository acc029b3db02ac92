package emulator

import "testing"

// Runs an exchange against the card and returns every response byte
// along with the ack of the last one
func memCardExchange(card *MemCard, frame []uint8) ([]uint8, bool) {
	responses := make([]uint8, len(frame))
	var dsr bool
	for i, cmd := range frame {
		responses[i], dsr = card.SendCommand(cmd)
	}
	return responses, dsr
}

func TestMemCardReadSector(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	card := NewMemCard()
	card.Select()

	frame := make([]uint8, 2+10+MEMCARD_SECTOR_SIZE)
	frame[0] = 0x81 // memory card access
	frame[1] = 0x52 // read sector
	// sector address bytes stay zero

	responses, dsr := memCardExchange(card, frame)

	assert(responses[0] == 0xff)
	// the flag byte still has the fresh card bit
	assert(responses[1] == 0x08)
	assert(responses[2] == 0x5a)
	assert(responses[3] == 0x5d)
	assert(responses[6] == 0x5c)
	assert(responses[7] == 0x5d)
	// echoed sector address
	assert(responses[8] == 0)
	assert(responses[9] == 0)
	// the header magic leads the data
	assert(responses[10] == 'M')
	assert(responses[11] == 'C')
	// the header sector XORs to zero
	assert(responses[10+MEMCARD_SECTOR_SIZE] == 0)
	// end status, not acked
	assert(responses[11+MEMCARD_SECTOR_SIZE] == 0x47)
	assert(!dsr)

	// a successful read clears the fresh card bit
	assert(card.Flag&0x08 == 0)
}

func TestMemCardWriteSector(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	card := NewMemCard()
	card.Select()

	frame := make([]uint8, 2+8+MEMCARD_SECTOR_SIZE)
	frame[0] = 0x81
	frame[1] = 0x57 // write sector
	// two ack bytes, then the address: sector 1
	frame[4] = 0x00
	frame[5] = 0x01
	for i := 0; i < MEMCARD_SECTOR_SIZE; i++ {
		frame[6+i] = 0x55
	}
	// XOR of the address and the data bytes
	frame[6+MEMCARD_SECTOR_SIZE] = 0x01

	responses, dsr := memCardExchange(card, frame)

	assert(responses[2] == 0x5a)
	assert(responses[3] == 0x5d)
	assert(responses[len(responses)-1] == 0x47)
	assert(!dsr)

	// the staged data reached the flash
	for i := 0; i < MEMCARD_SECTOR_SIZE; i++ {
		assert(card.Flash[MEMCARD_SECTOR_SIZE+i] == 0x55)
	}
}

func TestMemCardWriteBadChecksum(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	card := NewMemCard()
	card.Select()

	frame := make([]uint8, 2+8+MEMCARD_SECTOR_SIZE)
	frame[0] = 0x81
	frame[1] = 0x57
	frame[4] = 0x00
	frame[5] = 0x01
	for i := 0; i < MEMCARD_SECTOR_SIZE; i++ {
		frame[6+i] = 0x55
	}
	frame[6+MEMCARD_SECTOR_SIZE] = 0x02 // wrong

	responses, _ := memCardExchange(card, frame)

	assert(responses[len(responses)-1] == 0x4e)
	// the flash was not touched
	for i := 0; i < MEMCARD_SECTOR_SIZE; i++ {
		assert(card.Flash[MEMCARD_SECTOR_SIZE+i] == 0)
	}
}

func TestMemCardWriteAborted(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	card := NewMemCard()
	card.Select()

	// half a write frame, then the select signal drops
	card.SendCommand(0x81)
	card.SendCommand(0x57)
	card.SendCommand(0)
	card.SendCommand(0)
	card.SendCommand(0x00)
	card.SendCommand(0x01)
	for i := 0; i < 10; i++ {
		card.SendCommand(0x55)
	}
	card.Deselect()

	for i := 0; i < MEMCARD_SECTOR_SIZE; i++ {
		assert(card.Flash[MEMCARD_SECTOR_SIZE+i] == 0)
	}

	// the card accepts a new exchange afterwards
	card.Select()
	resp, dsr := card.SendCommand(0x81)
	assert(resp == 0xff)
	assert(dsr)
}

func TestMemCardIdentification(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	card := NewMemCard()
	card.Select()

	frame := []uint8{0x81, 0x53, 0, 0, 0, 0, 0, 0, 0, 0}
	responses, dsr := memCardExchange(card, frame)

	expected := []uint8{0xff, 0x08, 0x5a, 0x5d, 0x5c, 0x5d, 0x04, 0x00, 0x00, 0x80}
	for i := range expected {
		assert(responses[i] == expected[i])
	}
	assert(!dsr)
}
