package emulator

import (
	"fmt"
	"io"
)

const BIOS_SIZE uint32 = 512 * 1024 // BIOS images are always 512KB in length

// This stores the raw BIOS data
type BIOS struct {
	Data []byte // Raw BIOS data
}

// Loads a BIOS from a reader. Note that the BIOS must be 512 * 1024
// bytes in size
func LoadBIOS(r io.Reader) (*BIOS, error) {
	data := make([]byte, BIOS_SIZE)
	n, err := io.ReadFull(r, data)
	if err != nil {
		return nil, fmt.Errorf("invalid BIOS size (expected %d, got %d (bytes)): %w", BIOS_SIZE, n, err)
	}
	// success
	return &BIOS{Data: data}, nil
}

// Loads a value at `offset`
func (bios *BIOS) Load(offset uint32, size AccessSize) interface{} {
	var v uint32 = 0
	sizeI := uint32(size)

	for i := uint32(0); i < sizeI; i++ {
		v |= uint32(bios.Data[offset+i]) << (i * 8)
	}
	return accessSizeU32(size, v)
}

// Returns a 32 bit little endian value at `offset`. Note that `offset` is
// not the absolute address used by the CPU, instead it is an offset in the
// BIOS memory range
func (bios *BIOS) Load32(offset uint32) uint32 {
	return bios.Load(offset, ACCESS_WORD).(uint32)
}

// Fetch byte at `offset`
func (bios *BIOS) Load8(offset uint32) byte {
	return bios.Data[offset]
}
