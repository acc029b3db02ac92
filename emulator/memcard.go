package emulator

// Memory card geometry: 1024 sectors of 128 bytes, 128KB total
const (
	MEMCARD_SECTOR_SIZE = 128
	MEMCARD_SECTORS     = 1024
	MEMCARD_SIZE        = MEMCARD_SECTOR_SIZE * MEMCARD_SECTORS
)

// State of the frame currently being exchanged with the card
type memCardState int

const (
	MEMCARD_STATE_IDLE  memCardState = iota // Waiting for the 0x81 access byte
	MEMCARD_STATE_CMD   memCardState = iota // Waiting for the command byte
	MEMCARD_STATE_READ  memCardState = iota // Read frame in progress
	MEMCARD_STATE_WRITE memCardState = iota // Write frame in progress
	MEMCARD_STATE_ID    memCardState = iota // Identification frame in progress
	MEMCARD_STATE_DEAD  memCardState = iota // Ignoring the rest of the exchange
)

// A memory card plugged in one of the two front slots. Writes are
// staged in a sector buffer and only committed to the flash when the
// full frame arrived with a valid checksum, so an aborted exchange
// never corrupts the card contents
type MemCard struct {
	Flash [MEMCARD_SIZE]byte
	// Bit 3 of the flag byte signals that the card was not read since
	// power up, the BIOS uses it to detect card swaps
	Flag uint8

	state    memCardState
	seq      uint32                    // Byte position within the current frame
	sector   uint16                    // Sector addressed by the current frame
	checksum uint8                     // Running XOR of the address and data bytes
	stage    [MEMCARD_SECTOR_SIZE]byte // Write staging buffer
	endByte  uint8                     // Status byte closing a write frame
}

func NewMemCard() *MemCard {
	card := &MemCard{Flag: 0x08}
	// a freshly formatted card is all zeroes except the header magic
	card.Flash[0] = 'M'
	card.Flash[1] = 'C'
	card.Flash[127] = 0x0e // header sector XOR checksum
	return card
}

// Called when the select signal is asserted, a new exchange begins
func (card *MemCard) Select() {
	card.state = MEMCARD_STATE_IDLE
	card.seq = 0
}

// Called when the select signal drops. An in-flight frame is aborted,
// staged write data never reaches the flash
func (card *MemCard) Deselect() {
	card.state = MEMCARD_STATE_IDLE
	card.seq = 0
}

// Whether the addressed sector exists on the card
func (card *MemCard) sectorValid() bool {
	return card.sector < MEMCARD_SECTORS
}

func (card *MemCard) flashOffset() uint32 {
	return uint32(card.sector) * MEMCARD_SECTOR_SIZE
}

// Handles one command byte of the exchange, returning the response
// byte and the DSR ack. The protocol is described in the Nocash spec:
// the card always responds one byte late, acking every byte except
// the last one of a frame
func (card *MemCard) SendCommand(cmd uint8) (uint8, bool) {
	switch card.state {
	case MEMCARD_STATE_IDLE:
		if cmd == 0x81 {
			card.state = MEMCARD_STATE_CMD
			return 0xff, true
		}
		card.state = MEMCARD_STATE_DEAD
		return 0xff, false
	case MEMCARD_STATE_CMD:
		card.seq = 0
		card.checksum = 0
		switch cmd {
		case 0x52: // read sector
			card.state = MEMCARD_STATE_READ
		case 0x57: // write sector
			card.state = MEMCARD_STATE_WRITE
		case 0x53: // card identification
			card.state = MEMCARD_STATE_ID
		default:
			card.state = MEMCARD_STATE_DEAD
			return 0xff, false
		}
		return card.Flag, true
	case MEMCARD_STATE_READ:
		return card.readFrame(cmd)
	case MEMCARD_STATE_WRITE:
		return card.writeFrame(cmd)
	case MEMCARD_STATE_ID:
		return card.idFrame()
	}
	return 0xff, false
}

// One byte of a read frame: two ack bytes, the sector address, the
// confirmation bytes, the echoed address, 128 data bytes, the XOR
// checksum and the end status
func (card *MemCard) readFrame(cmd uint8) (uint8, bool) {
	seq := card.seq
	card.seq++

	switch {
	case seq == 0:
		return 0x5a, true
	case seq == 1:
		return 0x5d, true
	case seq == 2: // sector MSB
		card.sector = uint16(cmd) << 8
		card.checksum = cmd
		return 0, true
	case seq == 3: // sector LSB
		card.sector |= uint16(cmd)
		card.checksum ^= cmd
		return cmd, true
	case seq == 4:
		return 0x5c, true
	case seq == 5:
		return 0x5d, true
	case seq == 6: // confirmed sector MSB
		return uint8(card.sector >> 8), true
	case seq == 7: // confirmed sector LSB
		return uint8(card.sector), true
	case seq < 8+MEMCARD_SECTOR_SIZE:
		var data uint8
		if card.sectorValid() {
			data = card.Flash[card.flashOffset()+(seq-8)]
		}
		card.checksum ^= data
		return data, true
	case seq == 8+MEMCARD_SECTOR_SIZE:
		return card.checksum, true
	default:
		// end status, a successful read clears the fresh card flag
		card.state = MEMCARD_STATE_IDLE
		if !card.sectorValid() {
			return 0xff, false
		}
		card.Flag &= ^uint8(0x08)
		return 0x47, false
	}
}

// One byte of a write frame: the sector address, 128 staged data
// bytes, the checksum, two ack bytes and the end status. The staging
// buffer is committed only when the checksum matches
func (card *MemCard) writeFrame(cmd uint8) (uint8, bool) {
	seq := card.seq
	card.seq++

	switch {
	case seq == 0:
		return 0x5a, true
	case seq == 1:
		return 0x5d, true
	case seq == 2: // sector MSB
		card.sector = uint16(cmd) << 8
		card.checksum = cmd
		return 0, true
	case seq == 3: // sector LSB
		card.sector |= uint16(cmd)
		card.checksum ^= cmd
		return cmd, true
	case seq < 4+MEMCARD_SECTOR_SIZE:
		card.stage[seq-4] = cmd
		card.checksum ^= cmd
		return 0, true
	case seq == 4+MEMCARD_SECTOR_SIZE: // checksum from the host
		switch {
		case !card.sectorValid():
			card.endByte = 0xff
		case cmd != card.checksum:
			card.endByte = 0x4e
		default:
			card.endByte = 0x47
			copy(card.Flash[card.flashOffset():], card.stage[:])
		}
		return 0, true
	case seq == 5+MEMCARD_SECTOR_SIZE:
		return 0x5c, true
	case seq == 6+MEMCARD_SECTOR_SIZE:
		return 0x5d, true
	default:
		card.state = MEMCARD_STATE_IDLE
		return card.endByte, false
	}
}

// The identification frame reports the fixed card geometry
func (card *MemCard) idFrame() (uint8, bool) {
	seq := card.seq
	card.seq++

	switch seq {
	case 0:
		return 0x5a, true
	case 1:
		return 0x5d, true
	case 2:
		return 0x5c, true
	case 3:
		return 0x5d, true
	case 4: // number of sectors, big endian
		return 0x04, true
	case 5:
		return 0x00, true
	case 6: // sector size, big endian
		return 0x00, true
	default:
		card.state = MEMCARD_STATE_IDLE
		return 0x80, false
	}
}
