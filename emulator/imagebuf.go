package emulator

// Tracks an in-flight rectangle transfer between the CPU and VRAM.
// Pixels stream in raster order within the target rectangle, two
// 16 bit pixels per 32 bit word
type ImageBuffer struct {
	X      uint16 // Left column of the rectangle in VRAM
	Y      uint16 // Top line of the rectangle in VRAM
	Width  uint16 // Rectangle width in pixels
	Height uint16 // Rectangle height in pixels
	Index  uint32 // Amount of pixels transferred so far
}

// Returns a new image buffer instance
func NewImageBuffer() *ImageBuffer {
	return &ImageBuffer{}
}

// Aborts the transfer
func (buf *ImageBuffer) Clear() {
	buf.X = 0
	buf.Y = 0
	buf.Width = 0
	buf.Height = 0
	buf.Index = 0
}

// Arms the buffer for a `width` x `height` rectangle at `x`,`y`
func (buf *ImageBuffer) Reset(x, y, width, height uint16) {
	buf.X = x
	buf.Y = y
	buf.Width = width
	buf.Height = height
	buf.Index = 0
}

// Total amount of pixels in the transfer
func (buf *ImageBuffer) TargetSize() uint32 {
	return uint32(buf.Width) * uint32(buf.Height)
}

// Returns true when every pixel of the rectangle has been transferred
func (buf *ImageBuffer) Done() bool {
	return buf.Index >= buf.TargetSize()
}

// VRAM coordinates of the pixel at the current transfer position
func (buf *ImageBuffer) coords() (uint16, uint16) {
	x := buf.X + uint16(buf.Index%uint32(buf.Width))
	y := buf.Y + uint16(buf.Index/uint32(buf.Width))
	return x, y
}

// Writes one word (two pixels) of an ongoing CPU to VRAM transfer.
// Pixels past the end of the rectangle are dropped
func (buf *ImageBuffer) PushWord(word uint32, vram *VRAM) {
	halves := [2]uint16{uint16(word), uint16(word >> 16)}

	for _, pixel := range halves {
		if buf.Done() {
			return
		}
		x, y := buf.coords()
		vram.Store(x, y, pixel)
		buf.Index++
	}
}

// Reads one word (two pixels) of an ongoing VRAM to CPU transfer.
// Reads past the end of the rectangle return zeroes
func (buf *ImageBuffer) PopWord(vram *VRAM) uint32 {
	var word uint32

	for i := 0; i < 2; i++ {
		if buf.Done() {
			break
		}
		x, y := buf.coords()
		word |= uint32(vram.Load(x, y)) << (i * 16)
		buf.Index++
	}
	return word
}
