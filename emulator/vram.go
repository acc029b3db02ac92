package emulator

const (
	VRAM_WIDTH_PIXELS  = 1024 // VRAM width in 16 bit pixels
	VRAM_HEIGHT_PIXELS = 512  // VRAM height in lines
	VRAM_SIZE_PIXELS   = VRAM_WIDTH_PIXELS * VRAM_HEIGHT_PIXELS
)

// The 1MB video memory, addressed as 16 bit pixels. Coordinates
// always wrap within the framebuffer bounds
type VRAM struct {
	Data [VRAM_SIZE_PIXELS]uint16
}

// Returns a new VRAM instance filled with garbage values
func NewVRAM() *VRAM {
	vram := &VRAM{}
	for i := 0; i < len(vram.Data); i++ {
		vram.Data[i] = 0xdead
	}
	return vram
}

// Index of the pixel at `x`,`y`. Out of range coordinates wrap around
func vramIndex(x, y uint16) uint32 {
	xw := uint32(x) & (VRAM_WIDTH_PIXELS - 1)
	yw := uint32(y) & (VRAM_HEIGHT_PIXELS - 1)
	return yw*VRAM_WIDTH_PIXELS + xw
}

// Returns the raw 16 bit pixel at `x`,`y`
func (vram *VRAM) Load(x, y uint16) uint16 {
	return vram.Data[vramIndex(x, y)]
}

// Sets the raw 16 bit pixel at `x`,`y`
func (vram *VRAM) Store(x, y, val uint16) {
	vram.Data[vramIndex(x, y)] = val
}
