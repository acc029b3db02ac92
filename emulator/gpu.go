package emulator

// Video timing, counted in the CPU clock
const (
	CYCLES_PER_SCANLINE = 2146 // Length of one scanline in CPU cycles
	SCANLINES_PER_FRAME = 263  // NTSC frame: scanlines 0..262
	VBLANK_START_LINE   = 243  // Vertical blanking spans 243..262
	// Active display portion of a scanline (2560 GPU clocks out of
	// 3413, scaled to CPU cycles), the rest is horizontal blanking
	HBLANK_START_DOTS = 1609
)

// Represents the depth of the pixel values in a texture page
type TextureDepth uint8

const (
	TEXTURE_DEPTH_4BIT  TextureDepth = 0 // 4 bits per pixel
	TEXTURE_DEPTH_8BIT  TextureDepth = 1 // 8 bits per pixel
	TEXTURE_DEPTH_15BIT TextureDepth = 2 // 15 bits per pixel
)

// Interlaced output splits each frame in two fields
type Field uint8

const (
	FIELD_TOP    Field = 1 // Top field (odd lines)
	FIELD_BOTTOM Field = 0 // Bottom field (even lines)
)

// Video output horizontal resolution
type HorizontalRes uint8

// Create a new HorizontalRes instance from the 2 bit field `hr1` and the one
// bit field `hr2`
func HResFromFields(hr1, hr2 uint8) HorizontalRes {
	hr := (hr2 & 1) | ((hr1 & 3) << 1)
	return HorizontalRes(hr)
}

// Return value of bits [18:16] of the status register
func (hr HorizontalRes) IntoStatus() uint32 {
	return uint32(hr) << 16
}

// Dotclock divider for this resolution, counted in scanline dots
func (hr HorizontalRes) DotclockDivider() uint8 {
	hr2 := uint8(hr) & 1
	if hr2 != 0 {
		// 368 pixel mode ignores the hr1 bits
		return 7
	}
	switch (uint8(hr) >> 1) & 3 {
	case 0: // 256 pixels
		return 10
	case 1: // 320 pixels
		return 8
	case 2: // 512 pixels
		return 5
	default: // 640 pixels
		return 4
	}
}

// Video output vertical resolution
type VerticalRes uint8

const (
	VRES_240_LINES VerticalRes = 0 // 240 lines
	VRES_480_LINES VerticalRes = 1 // 480 lines (only available for interlaced output)
)

// Represents a video mode (NTSC/PAL)
type VMode uint8

const (
	VMODE_NTSC VMode = 0 // NTSC: 480i60Hz
	VMODE_PAL  VMode = 1 // PAL: 576i50Hz
)

// Display area color depth
type DisplayDepth uint8

const (
	DISPLAY_DEPTH_15BITS DisplayDepth = 0 // 15 bits per pixel
	DISPLAY_DEPTH_24BITS DisplayDepth = 1 // 24 bits per pixel
)

// Represents the requested DMA direction
type DmaDirection uint8

const (
	DD_DMA_OFF     DmaDirection = 0
	DD_DMA_FIFO    DmaDirection = 1
	DD_CPU_TO_GP0  DmaDirection = 2
	DD_VRAM_TO_CPU DmaDirection = 3
)

// GP0 port mode: words either feed the command machinery or an
// ongoing CPU to VRAM image transfer
type GP0Mode uint8

const (
	GP0_MODE_COMMAND    GP0Mode = 0
	GP0_MODE_IMAGE_LOAD GP0Mode = 1
)

type GPU struct {
	PageBaseX uint8 // Texture page base X coordinate (4 bits, 64 byte increment)
	PageBaseY uint8 // Texture page base Y coordinate (1 bit, 256 line increment)
	// Semi-transparency blending mode used by primitives with the
	// semi-transparency flag set
	SemiTransparency uint8
	TextureDepth     TextureDepth // Texture page color depth
	Dithering        bool         // Enable dithering from 24 to 15 bits RGB
	DrawToDisplay    bool         // Allow drawing to the display area
	// Force "mask" bit of the pixel to 1 when writing to VRAM (otherwise, don't
	// modify it)
	ForceSetMaskBit      bool
	PreserveMaskedPixels bool // Don't draw to pixels which have the "mask" bit set
	// Currently displayed field. For progressive output this is always FIELD_TOP
	Field          Field
	TextureDisable bool          // When true, all textures are disabled
	VRes           VerticalRes   // Video output vertical resolution
	HRes           HorizontalRes // Video output horizontal resolution
	VMode          VMode         // Video mode
	// Display depth. The GPU itself always draws 15 bit RGB, 24 bit output must
	// use external assets (pre-rendered textures, MDEC, etc.)
	DisplayDepth          DisplayDepth
	Interlaced            bool          // Output interlaced video signal instead of progressive
	DisplayDisabled       bool          // Disable the display
	Interrupt             bool          // True when the interrupt is active
	DmaDirection          DmaDirection  // DMA request direction
	RectangleTextureXFlip bool          // Mirror textured rectangles along the X axis
	RectangleTextureYFlip bool          // Mirror textured rectangles along the Y axis
	TextureWindowXMask    uint8         // Texture window X mask (8 pixel steps)
	TextureWindowYMask    uint8         // Texture window Y mask (8 pixel steps)
	TextureWindowXOffset  uint8         // Texture window X offset (8 pixel steps)
	TextureWindowYOffset  uint8         // Texture window Y offset (8 pixel steps)
	DrawingAreaLeft       uint16        // Left-most column of the drawing area
	DrawingAreaTop        uint16        // Top−most line of the drawing area
	DrawingAreaRight      uint16        // Right−most column of the drawing area
	DrawingAreaBottom     uint16        // Bottom−most line of the drawing area
	DrawingXOffset        int16         // Horizontal drawing offset applied to all vertex
	DrawingYOffset        int16         // Vertical drawing offset applied to all vertex
	DisplayVRamXStart     uint16        // First column of the display area in VRAM
	DisplayVRamYStart     uint16        // First line of the display area in VRAM
	DisplayHorizStart     uint16        // Display output horizontal start relative to HSYNC
	DisplayHorizEnd       uint16        // Display output horizontal end relative to HSYNC
	DisplayLineStart      uint16        // Display output first line relative to VSYNC
	DisplayLineEnd        uint16        // Display output last line relative to VSYNC
	GP0Command            CommandBuffer // Buffer containing the current GP0 command
	GP0WordsRemaining     uint32        // Remaining words for the current GP0 command
	GP0Handler            func(*GPU)    // Method implementing the current GP0 command
	GP0Mode               GP0Mode       // Current mode of the GP0 port

	Vram       *VRAM        // The framebuffer
	LoadBuffer *ImageBuffer // In-flight CPU to VRAM transfer
	ReadBuffer *ImageBuffer // In-flight VRAM to CPU transfer

	// Video timing state
	Dots        uint16 // Horizontal position within the scanline
	DisplayLine uint16 // Scanline currently being displayed
	InVblank    bool   // True during the vertical blanking period
	InHblank    bool   // True during the horizontal blanking period
	FrameCount  uint64 // Total frames since reset
}

// One entry of the GP0 dispatch table
type gp0Command struct {
	Words  uint8      // Total length of the command, in words
	Method func(*GPU) // Executed once the full command is buffered
}

var gp0Commands [256]gp0Command

func init() {
	// any opcode that stays unset consumes one word and draws
	// nothing, matching hardware leniency for unknown commands
	for i := 0; i < 256; i++ {
		gp0Commands[i] = gp0Command{1, (*GPU).GP0Nop}
	}

	set := func(opcodes []uint8, words uint8, method func(*GPU)) {
		for _, op := range opcodes {
			gp0Commands[op] = gp0Command{words, method}
		}
	}

	set([]uint8{0x00}, 1, (*GPU).GP0Nop)
	set([]uint8{0x01}, 1, (*GPU).GP0ClearCache)
	set([]uint8{0x02}, 3, (*GPU).GP0FillRect)
	set([]uint8{0x1f}, 1, (*GPU).GP0InterruptRequest)

	// monochrome polygons
	set([]uint8{0x20, 0x22}, 4, (*GPU).GP0MonochromeTriangle)
	set([]uint8{0x28, 0x2a}, 5, (*GPU).GP0MonochromeQuad)
	// textured polygons
	set([]uint8{0x24, 0x25, 0x26, 0x27}, 7, (*GPU).GP0TexturedTriangle)
	set([]uint8{0x2c, 0x2d, 0x2e, 0x2f}, 9, (*GPU).GP0TexturedQuad)
	// shaded polygons
	set([]uint8{0x30, 0x32}, 6, (*GPU).GP0ShadedTriangle)
	set([]uint8{0x38, 0x3a}, 8, (*GPU).GP0ShadedQuad)
	// shaded textured polygons
	set([]uint8{0x34, 0x36}, 9, (*GPU).GP0ShadedTexturedTriangle)
	set([]uint8{0x3c, 0x3e}, 12, (*GPU).GP0ShadedTexturedQuad)

	// lines
	set([]uint8{0x40, 0x42}, 3, (*GPU).GP0MonochromeLine)
	set([]uint8{0x50, 0x52}, 4, (*GPU).GP0ShadedLine)

	// rectangles
	set([]uint8{0x60, 0x62}, 3, (*GPU).GP0MonochromeRect)
	set([]uint8{0x64, 0x65, 0x66, 0x67}, 4, (*GPU).GP0TexturedRect)
	set([]uint8{0x68, 0x6a}, 2, (*GPU).GP0MonochromeRect1x1)
	set([]uint8{0x70, 0x72}, 2, (*GPU).GP0MonochromeRect8x8)
	set([]uint8{0x74, 0x75, 0x76, 0x77}, 3, (*GPU).GP0TexturedRect8x8)
	set([]uint8{0x78, 0x7a}, 2, (*GPU).GP0MonochromeRect16x16)
	set([]uint8{0x7c, 0x7d, 0x7e, 0x7f}, 3, (*GPU).GP0TexturedRect16x16)

	// VRAM transfers
	set([]uint8{0x80}, 4, (*GPU).GP0CopyRect)
	set([]uint8{0xa0}, 3, (*GPU).GP0ImageLoad)
	set([]uint8{0xc0}, 3, (*GPU).GP0ImageStore)

	// draw mode settings
	set([]uint8{0xe1}, 1, (*GPU).GP0DrawMode)
	set([]uint8{0xe2}, 1, (*GPU).GP0TextureWindow)
	set([]uint8{0xe3}, 1, (*GPU).GP0DrawingAreaTopLeft)
	set([]uint8{0xe4}, 1, (*GPU).GP0DrawingAreaBottomRight)
	set([]uint8{0xe5}, 1, (*GPU).GP0DrawingOffset)
	set([]uint8{0xe6}, 1, (*GPU).GP0MaskBitSetting)
}

func NewGPU() *GPU {
	// not sure what the reset values are, the BIOS should set them anyway
	gpu := &GPU{
		TextureDepth:    TEXTURE_DEPTH_4BIT,
		Field:           FIELD_TOP,
		HRes:            HResFromFields(0, 0),
		VRes:            VRES_240_LINES,
		VMode:           VMODE_NTSC,
		DisplayDepth:    DISPLAY_DEPTH_15BITS,
		DisplayDisabled: true,
		DmaDirection:    DD_DMA_OFF,
		Vram:            NewVRAM(),
		LoadBuffer:      NewImageBuffer(),
		ReadBuffer:      NewImageBuffer(),
	}
	return gpu
}

// Advances the video timing by the cycles elapsed since the last
// synchronization. Crossing into the vertical blanking period raises
// the VBlank interrupt, HBlank edges are accumulated for the timers
func (gpu *GPU) Sync(th *TimeHandler, irqState *IrqState) {
	delta := th.Sync(PERIPHERAL_GPU)

	for delta > 0 {
		toEol := uint64(CYCLES_PER_SCANLINE - gpu.Dots)
		if delta < toEol {
			gpu.Dots += uint16(delta)
			break
		}

		// end of the current scanline
		delta -= toEol
		gpu.Dots = 0
		gpu.DisplayLine++

		if gpu.DisplayLine >= SCANLINES_PER_FRAME {
			gpu.DisplayLine = 0
			gpu.FrameCount++
			if gpu.Interlaced {
				// alternate between the two fields
				if gpu.Field == FIELD_TOP {
					gpu.Field = FIELD_BOTTOM
				} else {
					gpu.Field = FIELD_TOP
				}
			}
		}

		wasInVblank := gpu.InVblank
		gpu.InVblank = gpu.DisplayLine >= VBLANK_START_LINE

		if gpu.InVblank && !wasInVblank {
			irqState.SetHigh(INTERRUPT_VBLANK)
		}
	}

	gpu.InHblank = gpu.Dots >= HBLANK_START_DOTS

	if gpu.Interrupt {
		irqState.SetHigh(INTERRUPT_GPU)
	}

	// force a sync at the next vblank edge so the interrupt fires
	// even if the CPU never touches the GPU
	gpu.PredictNextSync(th)
}

// Schedules the next forced synchronization at the upcoming VBlank
// boundary
func (gpu *GPU) PredictNextSync(th *TimeHandler) {
	var linesLeft uint64
	if gpu.DisplayLine < VBLANK_START_LINE {
		linesLeft = uint64(VBLANK_START_LINE - gpu.DisplayLine)
	} else {
		linesLeft = uint64(SCANLINES_PER_FRAME - gpu.DisplayLine + VBLANK_START_LINE)
	}

	delta := linesLeft*CYCLES_PER_SCANLINE - uint64(gpu.Dots)
	th.SetNextSyncDelta(PERIPHERAL_GPU, delta)
}

// Period of the dotclock in CPU cycles
func (gpu *GPU) DotclockPeriod() FracCycles {
	return FracCyclesFromCycles(uint64(gpu.HRes.DotclockDivider()))
}

// Current phase of the dotclock within the scanline
func (gpu *GPU) DotclockPhase() FracCycles {
	divider := uint64(gpu.HRes.DotclockDivider())
	return FracCyclesFromCycles(uint64(gpu.Dots) % divider)
}

// Period of the HSync signal in CPU cycles
func (gpu *GPU) HSyncPeriod() FracCycles {
	return FracCyclesFromCycles(CYCLES_PER_SCANLINE)
}

// Current phase within the scanline
func (gpu *GPU) HSyncPhase() FracCycles {
	return FracCyclesFromCycles(uint64(gpu.Dots))
}

// Handle writes to the GP0 command register. Commands are buffered
// until every word declared by the opcode has arrived, partial
// commands never execute
func (gpu *GPU) GP0(val uint32) {
	if gpu.GP0WordsRemaining == 0 {
		opcode := (val >> 24) & 0xff
		cmd := &gp0Commands[opcode]

		gpu.GP0WordsRemaining = uint32(cmd.Words)
		gpu.GP0Handler = cmd.Method
		gpu.GP0Command.Clear()
	}

	gpu.GP0WordsRemaining--

	switch gpu.GP0Mode {
	case GP0_MODE_COMMAND:
		gpu.GP0Command.PushWord(val)
		if gpu.GP0WordsRemaining == 0 {
			// we have all the parameters, run the command
			gpu.GP0Handler(gpu)
		}
	case GP0_MODE_IMAGE_LOAD:
		gpu.LoadBuffer.PushWord(val, gpu.Vram)
		if gpu.GP0WordsRemaining == 0 {
			// load done
			gpu.GP0Mode = GP0_MODE_COMMAND
		}
	}
}

// GP0(0x00): No Operation
func (gpu *GPU) GP0Nop() {
	// NOP
}

// GP0(0x01): Clear Cache
func (gpu *GPU) GP0ClearCache() {
	// the texture cache is not emulated
}

// GP0(0x1F): Interrupt Request
func (gpu *GPU) GP0InterruptRequest() {
	gpu.Interrupt = true
}

// GP0(0x02): Fill Rectangle
func (gpu *GPU) GP0FillRect() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	pos := Vec2FromGP0(gpu.GP0Command.Get(1))
	size := Vec2FromGP0(gpu.GP0Command.Get(2))

	gpu.FillRect(color, pos, size)
}

// GP0(0x20): Monochrome Opaque Triangle, GP0(0x22): semi-transparent variant
func (gpu *GPU) GP0MonochromeTriangle() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	vertices := [3]Vertex{
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(1)), color),
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(2)), color),
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(3)), color),
	}
	gpu.DrawTriangle(vertices, gpu.primAttrs())
}

// GP0(0x28): Monochrome Opaque Quadrilateral, GP0(0x2A): semi-transparent
func (gpu *GPU) GP0MonochromeQuad() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	vertices := [4]Vertex{
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(1)), color),
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(2)), color),
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(3)), color),
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(4)), color),
	}
	gpu.DrawQuad(vertices, gpu.primAttrs())
}

// GP0(0x24..0x27): Textured Triangle
func (gpu *GPU) GP0TexturedTriangle() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	vertices := [3]Vertex{
		NewTexturedVertex(Vec2FromGP0(gpu.GP0Command.Get(1)), color, gpu.GP0Command.Get(2)),
		NewTexturedVertex(Vec2FromGP0(gpu.GP0Command.Get(3)), color, gpu.GP0Command.Get(4)),
		NewTexturedVertex(Vec2FromGP0(gpu.GP0Command.Get(5)), color, gpu.GP0Command.Get(6)),
	}

	attrs := gpu.texturedAttrs(gpu.GP0Command.Get(2), gpu.GP0Command.Get(4))
	gpu.DrawTriangle(vertices, attrs)
}

// GP0(0x2C..0x2F): Textured Quadrilateral
func (gpu *GPU) GP0TexturedQuad() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	vertices := [4]Vertex{
		NewTexturedVertex(Vec2FromGP0(gpu.GP0Command.Get(1)), color, gpu.GP0Command.Get(2)),
		NewTexturedVertex(Vec2FromGP0(gpu.GP0Command.Get(3)), color, gpu.GP0Command.Get(4)),
		NewTexturedVertex(Vec2FromGP0(gpu.GP0Command.Get(5)), color, gpu.GP0Command.Get(6)),
		NewTexturedVertex(Vec2FromGP0(gpu.GP0Command.Get(7)), color, gpu.GP0Command.Get(8)),
	}

	attrs := gpu.texturedAttrs(gpu.GP0Command.Get(2), gpu.GP0Command.Get(4))
	gpu.DrawQuad(vertices, attrs)
}

// GP0(0x30): Shaded Opaque Triangle, GP0(0x32): semi-transparent
func (gpu *GPU) GP0ShadedTriangle() {
	vertices := [3]Vertex{
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(1)), ColorFromGP0(gpu.GP0Command.Get(0))),
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(3)), ColorFromGP0(gpu.GP0Command.Get(2))),
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(5)), ColorFromGP0(gpu.GP0Command.Get(4))),
	}

	attrs := gpu.primAttrs()
	attrs.Shaded = true
	gpu.DrawTriangle(vertices, attrs)
}

// GP0(0x38): Shaded Opaque Quadrilateral, GP0(0x3A): semi-transparent
func (gpu *GPU) GP0ShadedQuad() {
	vertices := [4]Vertex{
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(1)), ColorFromGP0(gpu.GP0Command.Get(0))),
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(3)), ColorFromGP0(gpu.GP0Command.Get(2))),
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(5)), ColorFromGP0(gpu.GP0Command.Get(4))),
		NewVertex(Vec2FromGP0(gpu.GP0Command.Get(7)), ColorFromGP0(gpu.GP0Command.Get(6))),
	}

	attrs := gpu.primAttrs()
	attrs.Shaded = true
	gpu.DrawQuad(vertices, attrs)
}

// GP0(0x34): Shaded Textured Triangle, GP0(0x36): semi-transparent
func (gpu *GPU) GP0ShadedTexturedTriangle() {
	vertices := [3]Vertex{
		NewTexturedVertex(
			Vec2FromGP0(gpu.GP0Command.Get(1)),
			ColorFromGP0(gpu.GP0Command.Get(0)), gpu.GP0Command.Get(2),
		),
		NewTexturedVertex(
			Vec2FromGP0(gpu.GP0Command.Get(4)),
			ColorFromGP0(gpu.GP0Command.Get(3)), gpu.GP0Command.Get(5),
		),
		NewTexturedVertex(
			Vec2FromGP0(gpu.GP0Command.Get(7)),
			ColorFromGP0(gpu.GP0Command.Get(6)), gpu.GP0Command.Get(8),
		),
	}

	attrs := gpu.texturedAttrs(gpu.GP0Command.Get(2), gpu.GP0Command.Get(5))
	attrs.Shaded = true
	gpu.DrawTriangle(vertices, attrs)
}

// GP0(0x3C): Shaded Textured Quadrilateral, GP0(0x3E): semi-transparent
func (gpu *GPU) GP0ShadedTexturedQuad() {
	vertices := [4]Vertex{
		NewTexturedVertex(
			Vec2FromGP0(gpu.GP0Command.Get(1)),
			ColorFromGP0(gpu.GP0Command.Get(0)), gpu.GP0Command.Get(2),
		),
		NewTexturedVertex(
			Vec2FromGP0(gpu.GP0Command.Get(4)),
			ColorFromGP0(gpu.GP0Command.Get(3)), gpu.GP0Command.Get(5),
		),
		NewTexturedVertex(
			Vec2FromGP0(gpu.GP0Command.Get(7)),
			ColorFromGP0(gpu.GP0Command.Get(6)), gpu.GP0Command.Get(8),
		),
		NewTexturedVertex(
			Vec2FromGP0(gpu.GP0Command.Get(10)),
			ColorFromGP0(gpu.GP0Command.Get(9)), gpu.GP0Command.Get(11),
		),
	}

	attrs := gpu.texturedAttrs(gpu.GP0Command.Get(2), gpu.GP0Command.Get(5))
	attrs.Shaded = true
	gpu.DrawQuad(vertices, attrs)
}

// GP0(0x40): Monochrome Line, GP0(0x42): semi-transparent
func (gpu *GPU) GP0MonochromeLine() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	v0 := NewVertex(Vec2FromGP0(gpu.GP0Command.Get(1)), color)
	v1 := NewVertex(Vec2FromGP0(gpu.GP0Command.Get(2)), color)

	gpu.DrawLine(v0, v1, gpu.primAttrs())
}

// GP0(0x50): Shaded Line, GP0(0x52): semi-transparent
func (gpu *GPU) GP0ShadedLine() {
	v0 := NewVertex(Vec2FromGP0(gpu.GP0Command.Get(1)), ColorFromGP0(gpu.GP0Command.Get(0)))
	v1 := NewVertex(Vec2FromGP0(gpu.GP0Command.Get(3)), ColorFromGP0(gpu.GP0Command.Get(2)))

	attrs := gpu.primAttrs()
	attrs.Shaded = true
	gpu.DrawLine(v0, v1, attrs)
}

// GP0(0x60): Monochrome Rectangle, GP0(0x62): semi-transparent
func (gpu *GPU) GP0MonochromeRect() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	pos := Vec2FromGP0(gpu.GP0Command.Get(1))
	size := Vec2FromGP0(gpu.GP0Command.Get(2))

	gpu.DrawRect(pos, size, color, 0, gpu.primAttrs())
}

// GP0(0x64..0x67): Textured Rectangle with a variable size
func (gpu *GPU) GP0TexturedRect() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	pos := Vec2FromGP0(gpu.GP0Command.Get(1))
	texcoord := gpu.GP0Command.Get(2)
	size := Vec2FromGP0(gpu.GP0Command.Get(3))

	attrs := gpu.rectTexturedAttrs(texcoord)
	gpu.DrawRect(pos, size, color, texcoord, attrs)
}

// GP0(0x68): Monochrome 1x1 Rectangle, GP0(0x6A): semi-transparent
func (gpu *GPU) GP0MonochromeRect1x1() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	pos := Vec2FromGP0(gpu.GP0Command.Get(1))

	gpu.DrawRect(pos, Vec2{X: 1, Y: 1}, color, 0, gpu.primAttrs())
}

// GP0(0x70): Monochrome 8x8 Rectangle, GP0(0x72): semi-transparent
func (gpu *GPU) GP0MonochromeRect8x8() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	pos := Vec2FromGP0(gpu.GP0Command.Get(1))

	gpu.DrawRect(pos, Vec2{X: 8, Y: 8}, color, 0, gpu.primAttrs())
}

// GP0(0x74..0x77): Textured 8x8 Rectangle
func (gpu *GPU) GP0TexturedRect8x8() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	pos := Vec2FromGP0(gpu.GP0Command.Get(1))
	texcoord := gpu.GP0Command.Get(2)

	attrs := gpu.rectTexturedAttrs(texcoord)
	gpu.DrawRect(pos, Vec2{X: 8, Y: 8}, color, texcoord, attrs)
}

// GP0(0x78): Monochrome 16x16 Rectangle, GP0(0x7A): semi-transparent
func (gpu *GPU) GP0MonochromeRect16x16() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	pos := Vec2FromGP0(gpu.GP0Command.Get(1))

	gpu.DrawRect(pos, Vec2{X: 16, Y: 16}, color, 0, gpu.primAttrs())
}

// GP0(0x7C..0x7F): Textured 16x16 Rectangle
func (gpu *GPU) GP0TexturedRect16x16() {
	color := ColorFromGP0(gpu.GP0Command.Get(0))
	pos := Vec2FromGP0(gpu.GP0Command.Get(1))
	texcoord := gpu.GP0Command.Get(2)

	attrs := gpu.rectTexturedAttrs(texcoord)
	gpu.DrawRect(pos, Vec2{X: 16, Y: 16}, color, texcoord, attrs)
}

// GP0(0x80): Copy Rectangle (VRAM to VRAM)
func (gpu *GPU) GP0CopyRect() {
	src := Vec2FromGP0(gpu.GP0Command.Get(1))
	dst := Vec2FromGP0(gpu.GP0Command.Get(2))
	size := Vec2FromGP0(gpu.GP0Command.Get(3))

	width := uint16(size.X) & 0x3ff
	height := uint16(size.Y) & 0x1ff
	if width == 0 {
		width = 0x400
	}
	if height == 0 {
		height = 0x200
	}

	// copy through a staging buffer so overlapping rectangles
	// behave like a plain blit
	stage := make([]uint16, int(width)*int(height))
	for y := uint16(0); y < height; y++ {
		for x := uint16(0); x < width; x++ {
			stage[int(y)*int(width)+int(x)] = gpu.Vram.Load(uint16(src.X)+x, uint16(src.Y)+y)
		}
	}
	for y := uint16(0); y < height; y++ {
		for x := uint16(0); x < width; x++ {
			gpu.Vram.Store(uint16(dst.X)+x, uint16(dst.Y)+y, stage[int(y)*int(width)+int(x)])
		}
	}
}

// GP0(0xA0): Image Load (CPU to VRAM)
func (gpu *GPU) GP0ImageLoad() {
	pos := gpu.GP0Command.Get(1)
	res := gpu.GP0Command.Get(2)

	x := uint16(pos) & 0x3ff
	y := uint16(pos>>16) & 0x1ff
	width := uint16(res) & 0x3ff
	height := uint16(res>>16) & 0x1ff
	if width == 0 {
		width = 0x400
	}
	if height == 0 {
		height = 0x200
	}

	gpu.LoadBuffer.Reset(x, y, width, height)

	// the pixel count is padded to an even number of 16 bit pixels
	// since we transfer 32 bits at a time
	imgSize := (uint32(width)*uint32(height) + 1) & ^uint32(1)
	gpu.GP0WordsRemaining = imgSize / 2

	if gpu.GP0WordsRemaining > 0 {
		// the next words going through GP0 are raw pixel data
		gpu.GP0Mode = GP0_MODE_IMAGE_LOAD
	}
}

// GP0(0xC0): Image Store (VRAM to CPU)
func (gpu *GPU) GP0ImageStore() {
	pos := gpu.GP0Command.Get(1)
	res := gpu.GP0Command.Get(2)

	x := uint16(pos) & 0x3ff
	y := uint16(pos>>16) & 0x1ff
	width := uint16(res) & 0x3ff
	height := uint16(res>>16) & 0x1ff
	if width == 0 {
		width = 0x400
	}
	if height == 0 {
		height = 0x200
	}

	gpu.ReadBuffer.Reset(x, y, width, height)
}

// GP0(0xE1) command
func (gpu *GPU) GP0DrawMode() {
	val := gpu.GP0Command.Get(0)

	gpu.PageBaseX = uint8(val & 0xf)
	gpu.PageBaseY = uint8((val >> 4) & 1)
	gpu.SemiTransparency = uint8((val >> 5) & 3)

	switch (val >> 7) & 3 {
	case 0:
		gpu.TextureDepth = TEXTURE_DEPTH_4BIT
	case 1:
		gpu.TextureDepth = TEXTURE_DEPTH_8BIT
	case 2:
		gpu.TextureDepth = TEXTURE_DEPTH_15BIT
	default:
		// depth 3 behaves like 15 bit on hardware
		gpu.TextureDepth = TEXTURE_DEPTH_15BIT
	}

	gpu.Dithering = ((val >> 9) & 1) != 0
	gpu.DrawToDisplay = ((val >> 10) & 1) != 0
	gpu.TextureDisable = ((val >> 11) & 1) != 0
	gpu.RectangleTextureXFlip = ((val >> 12) & 1) != 0
	gpu.RectangleTextureYFlip = ((val >> 13) & 1) != 0
}

// GP0(0xE2): Set Texture Window
func (gpu *GPU) GP0TextureWindow() {
	val := gpu.GP0Command.Get(0)

	gpu.TextureWindowXMask = uint8(val & 0x1f)
	gpu.TextureWindowYMask = uint8((val >> 5) & 0x1f)
	gpu.TextureWindowXOffset = uint8((val >> 10) & 0x1f)
	gpu.TextureWindowYOffset = uint8((val >> 15) & 0x1f)
}

// GP0(0xE3): Set Drawing Area Top Left
func (gpu *GPU) GP0DrawingAreaTopLeft() {
	val := gpu.GP0Command.Get(0)

	gpu.DrawingAreaTop = uint16((val >> 10) & 0x3ff)
	gpu.DrawingAreaLeft = uint16(val & 0x3ff)
}

// GP0(0xE4): Set Drawing Area BottomRight
func (gpu *GPU) GP0DrawingAreaBottomRight() {
	val := gpu.GP0Command.Get(0)

	gpu.DrawingAreaBottom = uint16((val >> 10) & 0x3ff)
	gpu.DrawingAreaRight = uint16(val & 0x3ff)
}

// GP0(0xE5): Set Drawing Offset
func (gpu *GPU) GP0DrawingOffset() {
	val := gpu.GP0Command.Get(0)

	x := uint16(val & 0x7ff)
	y := uint16((val >> 11) & 0x7ff)

	// values are 11 bit *signed* two's complement values, we need to
	// shift the value to 16 bits to force sign extension
	gpu.DrawingXOffset = (int16(x << 5)) >> 5
	gpu.DrawingYOffset = (int16(y << 5)) >> 5
}

// GP0(0xE6): Set Mask Bit Setting
func (gpu *GPU) GP0MaskBitSetting() {
	val := gpu.GP0Command.Get(0)

	gpu.ForceSetMaskBit = (val & 1) != 0
	gpu.PreserveMaskedPixels = (val & 2) != 0
}

// Handle writes to the GP1 command register
func (gpu *GPU) GP1(val uint32) {
	opcode := (val >> 24) & 0xff

	switch opcode {
	case 0x00:
		gpu.GP1Reset()
	case 0x01:
		gpu.GP1ResetCommandBuffer()
	case 0x02:
		gpu.GP1AcknowledgeIrq()
	case 0x03:
		gpu.GP1DisplayEnable(val)
	case 0x04:
		gpu.GP1DmaDirection(val)
	case 0x05:
		gpu.GP1DisplayVRAMStart(val)
	case 0x06:
		gpu.GP1DisplayHorizontalRange(val)
	case 0x07:
		gpu.GP1DisplayVerticalRange(val)
	case 0x08:
		gpu.GP1DisplayMode(val)
	default:
		// unknown commands are ignored, like unknown GP0 opcodes
	}
}

// GP1(0x00): soft reset
func (gpu *GPU) GP1Reset() {
	gpu.Interrupt = false
	gpu.PageBaseX = 0
	gpu.PageBaseY = 0
	gpu.SemiTransparency = 0
	gpu.TextureDepth = TEXTURE_DEPTH_4BIT
	gpu.TextureWindowXMask = 0
	gpu.TextureWindowYMask = 0
	gpu.TextureWindowXOffset = 0
	gpu.TextureWindowYOffset = 0
	gpu.Dithering = false
	gpu.DrawToDisplay = false
	gpu.TextureDisable = false
	gpu.RectangleTextureXFlip = false
	gpu.RectangleTextureYFlip = false
	gpu.DrawingAreaLeft = 0
	gpu.DrawingAreaTop = 0
	gpu.DrawingAreaRight = 0
	gpu.DrawingAreaBottom = 0
	gpu.DrawingXOffset = 0
	gpu.DrawingYOffset = 0
	gpu.ForceSetMaskBit = false
	gpu.PreserveMaskedPixels = false
	gpu.DmaDirection = DD_DMA_OFF
	gpu.DisplayDisabled = true
	gpu.DisplayVRamXStart = 0
	gpu.DisplayVRamYStart = 0
	gpu.HRes = HResFromFields(0, 0)
	gpu.VRes = VRES_240_LINES
	gpu.VMode = VMODE_NTSC
	gpu.Interlaced = true
	gpu.DisplayHorizStart = 0x200
	gpu.DisplayHorizEnd = 0xc00
	gpu.DisplayLineStart = 0x10
	gpu.DisplayLineEnd = 0x100
	gpu.DisplayDepth = DISPLAY_DEPTH_15BITS

	gpu.GP1ResetCommandBuffer()
}

// GP1(0x01): Reset Command Buffer
func (gpu *GPU) GP1ResetCommandBuffer() {
	gpu.GP0Command.Clear()
	gpu.GP0WordsRemaining = 0
	gpu.GP0Mode = GP0_MODE_COMMAND
	gpu.LoadBuffer.Clear()
	gpu.ReadBuffer.Clear()
}

// GP1(0x02): Acknowledge Interrupt
func (gpu *GPU) GP1AcknowledgeIrq() {
	gpu.Interrupt = false
}

// GP1(0x03): Display Enable
func (gpu *GPU) GP1DisplayEnable(val uint32) {
	gpu.DisplayDisabled = val&1 != 0
}

// GP1(0x04): DMA direction
func (gpu *GPU) GP1DmaDirection(val uint32) {
	switch val & 3 {
	case 0:
		gpu.DmaDirection = DD_DMA_OFF
	case 1:
		gpu.DmaDirection = DD_DMA_FIFO
	case 2:
		gpu.DmaDirection = DD_CPU_TO_GP0
	case 3:
		gpu.DmaDirection = DD_VRAM_TO_CPU
	}
}

// GP1(0x05): Display VRAM Start
func (gpu *GPU) GP1DisplayVRAMStart(val uint32) {
	gpu.DisplayVRamXStart = uint16(val & 0x3fe)
	gpu.DisplayVRamYStart = uint16((val >> 10) & 0x1ff)
}

// GP1(0x06): Display Horizontal Range
func (gpu *GPU) GP1DisplayHorizontalRange(val uint32) {
	gpu.DisplayHorizStart = uint16(val & 0xfff)
	gpu.DisplayHorizEnd = uint16((val >> 12) & 0xfff)
}

// GP1(0x07): Display Vertical Range
func (gpu *GPU) GP1DisplayVerticalRange(val uint32) {
	gpu.DisplayLineStart = uint16(val & 0x3ff)
	gpu.DisplayLineEnd = uint16((val >> 10) & 0x3ff)
}

// GP1(0x08): display mode
func (gpu *GPU) GP1DisplayMode(val uint32) {
	hr1 := uint8(val & 3)
	hr2 := uint8((val >> 6) & 1)

	gpu.HRes = HResFromFields(hr1, hr2)

	if val&0x4 != 0 {
		gpu.VRes = VRES_480_LINES
	} else {
		gpu.VRes = VRES_240_LINES
	}

	if val&0x8 != 0 {
		gpu.VMode = VMODE_PAL
	} else {
		gpu.VMode = VMODE_NTSC
	}

	if val&0x10 != 0 {
		gpu.DisplayDepth = DISPLAY_DEPTH_24BITS
	} else {
		gpu.DisplayDepth = DISPLAY_DEPTH_15BITS
	}

	gpu.Interlaced = val&0x20 != 0

	// bit 7 is the "reverse" flag which only garbles the output on
	// real hardware, nothing to do for it here
}

// Return value of the status register
func (gpu *GPU) Status() uint32 {
	var r uint32

	r |= uint32(gpu.PageBaseX) << 0
	r |= uint32(gpu.PageBaseY) << 4
	r |= uint32(gpu.SemiTransparency) << 5
	r |= uint32(gpu.TextureDepth) << 7
	r |= oneIfTrue(gpu.Dithering) << 9
	r |= oneIfTrue(gpu.DrawToDisplay) << 10
	r |= oneIfTrue(gpu.ForceSetMaskBit) << 11
	r |= oneIfTrue(gpu.PreserveMaskedPixels) << 12
	r |= uint32(gpu.Field) << 13
	// bit 14: not supported (when it's set on real hardware, it just messes up
	// the display in a weird way)
	r |= oneIfTrue(gpu.TextureDisable) << 15
	r |= gpu.HRes.IntoStatus()
	r |= uint32(gpu.VRes) << 19
	r |= uint32(gpu.VMode) << 20
	r |= uint32(gpu.DisplayDepth) << 21
	r |= oneIfTrue(gpu.Interlaced) << 22
	r |= oneIfTrue(gpu.DisplayDisabled) << 23
	r |= oneIfTrue(gpu.Interrupt) << 24

	// for now, we pretend that the GPU is always ready:
	// ready to recieve command
	r |= 1 << 26
	// ready to send VRAM to CPU
	r |= 1 << 27
	// ready to recieve DMA block
	r |= 1 << 28

	r |= uint32(gpu.DmaDirection) << 29

	// bit 31 toggles between even and odd displayed lines outside of
	// the vertical blanking
	if !gpu.InVblank && gpu.DisplayLine&1 != 0 {
		r |= 1 << 31
	}

	// the signal checked by the DMA when sending data in Request
	// synchronization mode, per the Nocash spec
	var dmaRequest uint32
	switch gpu.DmaDirection {
	case DD_DMA_OFF: // always 0
		dmaRequest = 0
	case DD_DMA_FIFO: // should be 0 if FIFO is full, 1 otherwise
		dmaRequest = 1
	case DD_CPU_TO_GP0: // should be the same as status bit 28
		dmaRequest = (r >> 28) & 1
	case DD_VRAM_TO_CPU: // should be the same as status bit 27
		dmaRequest = (r >> 27) & 1
	}
	r |= dmaRequest << 25

	return r
}

// Return value of the `read` register. Streams out an ongoing VRAM to
// CPU transfer, returns zeroes otherwise
func (gpu *GPU) Read() uint32 {
	if !gpu.ReadBuffer.Done() {
		return gpu.ReadBuffer.PopWord(gpu.Vram)
	}
	return 0
}
