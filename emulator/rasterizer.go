package emulator

// Position in VRAM
type Vec2 struct {
	X int32
	Y int32
}

// Parses a position from a GP0 parameter word. Coordinates are 11 bit
// signed values
func Vec2FromGP0(val uint32) Vec2 {
	x := int32(val<<21) >> 21
	y := int32(val<<5) >> 21
	return Vec2{X: x, Y: y}
}

// RGB color with 8 bits per component
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Parses a color from a GP0 command word
func ColorFromGP0(val uint32) Color {
	return Color{
		R: uint8(val),
		G: uint8(val >> 8),
		B: uint8(val >> 16),
	}
}

// A single vertex of a draw command
type Vertex struct {
	Pos   Vec2
	Color Color
	TexX  uint8 // Texture U coordinate within the texture page
	TexY  uint8 // Texture V coordinate within the texture page
}

func NewVertex(pos Vec2, color Color) Vertex {
	return Vertex{Pos: pos, Color: color}
}

// Builds a vertex with the texture coordinates packed in the low
// halfword of `texcoord`
func NewTexturedVertex(pos Vec2, color Color, texcoord uint32) Vertex {
	return Vertex{
		Pos:   pos,
		Color: color,
		TexX:  uint8(texcoord),
		TexY:  uint8(texcoord >> 8),
	}
}

// Rasterization state shared by every pixel of one primitive
type PrimAttrs struct {
	Shaded          bool         // Gouraud shading (per vertex colors)
	SemiTransparent bool         // Blend against the framebuffer
	Textured        bool         // Sample a texture page
	RawTexture      bool         // Skip the texel * vertex color modulation
	Blend           uint8        // Semi-transparency blending equation (0-3)
	TexDepth        TextureDepth // Texel format of the texture page
	PageX           uint16       // Texture page base X in VRAM pixels
	PageY           uint16       // Texture page base Y in VRAM pixels
	ClutX           uint16       // Color lookup table X in VRAM pixels
	ClutY           uint16       // Color lookup table Y in VRAM pixels
	Dither          bool         // Apply the 4x4 dithering pattern
}

// Attributes for an untextured primitive. The semi-transparency flag
// lives in bit 1 of the opcode for every drawing command
func (gpu *GPU) primAttrs() PrimAttrs {
	opcode := uint8(gpu.GP0Command.Get(0) >> 24)
	return PrimAttrs{
		SemiTransparent: opcode&2 != 0,
		Blend:           gpu.SemiTransparency,
		Dither:          gpu.Dithering,
	}
}

// Attributes for a textured polygon: the CLUT comes from the texcoord
// word of the first vertex, the texture page from the second one
func (gpu *GPU) texturedAttrs(clutWord, pageWord uint32) PrimAttrs {
	opcode := uint8(gpu.GP0Command.Get(0) >> 24)

	clut := clutWord >> 16
	page := pageWord >> 16

	var depth TextureDepth
	switch (page >> 7) & 3 {
	case 0:
		depth = TEXTURE_DEPTH_4BIT
	case 1:
		depth = TEXTURE_DEPTH_8BIT
	default:
		depth = TEXTURE_DEPTH_15BIT
	}

	return PrimAttrs{
		SemiTransparent: opcode&2 != 0,
		Textured:        !gpu.TextureDisable,
		RawTexture:      opcode&1 != 0,
		Blend:           uint8((page >> 5) & 3),
		TexDepth:        depth,
		PageX:           uint16(page&0xf) * 64,
		PageY:           uint16((page>>4)&1) * 256,
		ClutX:           uint16(clut&0x3f) * 16,
		ClutY:           uint16((clut >> 6) & 0x1ff),
		Dither:          gpu.Dithering,
	}
}

// Attributes for a textured rectangle: rectangles always use the
// global draw mode texture page, only the CLUT comes with the command
func (gpu *GPU) rectTexturedAttrs(texcoord uint32) PrimAttrs {
	opcode := uint8(gpu.GP0Command.Get(0) >> 24)
	clut := texcoord >> 16

	return PrimAttrs{
		SemiTransparent: opcode&2 != 0,
		Textured:        !gpu.TextureDisable,
		RawTexture:      opcode&1 != 0,
		Blend:           gpu.SemiTransparency,
		TexDepth:        gpu.TextureDepth,
		PageX:           uint16(gpu.PageBaseX) * 64,
		PageY:           uint16(gpu.PageBaseY) * 256,
		ClutX:           uint16(clut&0x3f) * 16,
		ClutY:           uint16((clut >> 6) & 0x1ff),
	}
}

// The 4x4 ordered dithering pattern applied when converting 8 bit
// color components down to 5 bits
var ditherTable = [4][4]int32{
	{-4, 0, -3, 1},
	{2, -2, 3, -1},
	{-3, 1, -4, 0},
	{3, -1, 2, -2},
}

func clampColor(c int32) int32 {
	if c < 0 {
		return 0
	}
	if c > 255 {
		return 255
	}
	return c
}

// Converts an 8 bit per component color to a 15 bit VRAM pixel
func packPixel(r, g, b int32) uint16 {
	return uint16(r>>3) | uint16(g>>3)<<5 | uint16(b>>3)<<10
}

// Samples one texel for the current primitive. The returned pixel is
// raw VRAM data: 0 means fully transparent, bit 15 requests
// semi-transparent blending
func (gpu *GPU) sampleTexel(u, v uint8, attrs *PrimAttrs) uint16 {
	// the texture window wraps the coordinates in 8 pixel steps
	u = (u & ^(gpu.TextureWindowXMask << 3)) |
		((gpu.TextureWindowXOffset & gpu.TextureWindowXMask) << 3)
	v = (v & ^(gpu.TextureWindowYMask << 3)) |
		((gpu.TextureWindowYOffset & gpu.TextureWindowYMask) << 3)

	switch attrs.TexDepth {
	case TEXTURE_DEPTH_4BIT:
		texel := gpu.Vram.Load(attrs.PageX+uint16(u)/4, attrs.PageY+uint16(v))
		index := (texel >> ((uint16(u) % 4) * 4)) & 0xf
		return gpu.Vram.Load(attrs.ClutX+index, attrs.ClutY)
	case TEXTURE_DEPTH_8BIT:
		texel := gpu.Vram.Load(attrs.PageX+uint16(u)/2, attrs.PageY+uint16(v))
		index := (texel >> ((uint16(u) % 2) * 8)) & 0xff
		return gpu.Vram.Load(attrs.ClutX+index, attrs.ClutY)
	default:
		return gpu.Vram.Load(attrs.PageX+uint16(u), attrs.PageY+uint16(v))
	}
}

// Writes one pixel to VRAM honoring the drawing area, the mask bit
// settings, dithering and semi-transparency. `blendTexel` carries the
// semi-transparency bit of the source texel for textured primitives
func (gpu *GPU) putPixel(x, y, r, g, b int32, attrs *PrimAttrs, texel uint16) {
	if x < int32(gpu.DrawingAreaLeft) || x > int32(gpu.DrawingAreaRight) ||
		y < int32(gpu.DrawingAreaTop) || y > int32(gpu.DrawingAreaBottom) {
		return
	}

	back := gpu.Vram.Load(uint16(x), uint16(y))
	if gpu.PreserveMaskedPixels && back&0x8000 != 0 {
		return
	}

	var maskBit uint16
	if gpu.ForceSetMaskBit {
		maskBit = 0x8000
	}

	// for textured primitives only texels with bit 15 set blend, the
	// texel mask bit also propagates to the framebuffer
	blend := attrs.SemiTransparent
	if attrs.Textured {
		blend = blend && texel&0x8000 != 0
		maskBit |= texel & 0x8000
	}

	if blend {
		br := int32(back&0x1f) << 3
		bg := int32((back>>5)&0x1f) << 3
		bb := int32((back>>10)&0x1f) << 3

		switch attrs.Blend {
		case 0: // B/2 + F/2
			r = (br + r) / 2
			g = (bg + g) / 2
			b = (bb + b) / 2
		case 1: // B + F
			r = br + r
			g = bg + g
			b = bb + b
		case 2: // B - F
			r = br - r
			g = bg - g
			b = bb - b
		case 3: // B + F/4
			r = br + r/4
			g = bg + g/4
			b = bb + b/4
		}
	} else if attrs.Dither {
		offset := ditherTable[y&3][x&3]
		r += offset
		g += offset
		b += offset
	}

	r = clampColor(r)
	g = clampColor(g)
	b = clampColor(b)

	gpu.Vram.Store(uint16(x), uint16(y), packPixel(r, g, b)|maskBit)
}

// Modulates a texel with the vertex color and writes it out. Texels
// with a raw value of 0 are fully transparent and leave the
// framebuffer untouched
func (gpu *GPU) putTexel(x, y, r, g, b int32, attrs *PrimAttrs, texel uint16) {
	if texel == 0 {
		return
	}

	tr := int32(texel&0x1f) << 3
	tg := int32((texel>>5)&0x1f) << 3
	tb := int32((texel>>10)&0x1f) << 3

	if !attrs.RawTexture {
		// the modulation neutral value is 128: brighter vertex colors
		// make the texel brighter, up to twice the original value
		tr = clampColor(tr * r / 128)
		tg = clampColor(tg * g / 128)
		tb = clampColor(tb * b / 128)
	}

	gpu.putPixel(x, y, tr, tg, tb, attrs, texel)
}

// The signed double area of the `abc` triangle, also the edge function
// of `ab` evaluated at `c`
func edgeFunction(a, b, c Vec2) int32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// True if `ab` is a top or left edge of a counter-clockwise triangle.
// Pixels exactly on such an edge belong to the triangle, pixels on the
// other edges don't, so that adjacent triangles never overlap
func isTopLeft(a, b Vec2) bool {
	return (a.Y == b.Y && b.X < a.X) || b.Y < a.Y
}

// Rasterizes one triangle
func (gpu *GPU) DrawTriangle(vertices [3]Vertex, attrs PrimAttrs) {
	for i := range vertices {
		vertices[i].Pos.X += int32(gpu.DrawingXOffset)
		vertices[i].Pos.Y += int32(gpu.DrawingYOffset)
	}

	v0, v1, v2 := vertices[0], vertices[1], vertices[2]

	area := edgeFunction(v0.Pos, v1.Pos, v2.Pos)
	if area == 0 {
		return
	}
	if area < 0 {
		// flip the winding so the edge functions are all positive
		// inside the triangle
		v1, v2 = v2, v1
		area = -area
	}

	minX := min3(v0.Pos.X, v1.Pos.X, v2.Pos.X)
	minY := min3(v0.Pos.Y, v1.Pos.Y, v2.Pos.Y)
	maxX := max3(v0.Pos.X, v1.Pos.X, v2.Pos.X)
	maxY := max3(v0.Pos.Y, v1.Pos.Y, v2.Pos.Y)

	// oversized primitives are dropped entirely by the hardware
	if maxX-minX >= 1024 || maxY-minY >= 512 {
		return
	}

	minX = maxInt32(minX, int32(gpu.DrawingAreaLeft))
	minY = maxInt32(minY, int32(gpu.DrawingAreaTop))
	maxX = minInt32(maxX, int32(gpu.DrawingAreaRight))
	maxY = minInt32(maxY, int32(gpu.DrawingAreaBottom))

	// the fill rule: pixels exactly on a top-left edge are inside,
	// pixels on a bottom-right edge are not
	bias0 := edgeBias(v1.Pos, v2.Pos)
	bias1 := edgeBias(v2.Pos, v0.Pos)
	bias2 := edgeBias(v0.Pos, v1.Pos)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := Vec2{X: x, Y: y}
			w0 := edgeFunction(v1.Pos, v2.Pos, p)
			w1 := edgeFunction(v2.Pos, v0.Pos, p)
			w2 := edgeFunction(v0.Pos, v1.Pos, p)

			if w0+bias0 < 0 || w1+bias1 < 0 || w2+bias2 < 0 {
				continue
			}

			var r, g, b int32
			if attrs.Shaded {
				r = (w0*int32(v0.Color.R) + w1*int32(v1.Color.R) + w2*int32(v2.Color.R)) / area
				g = (w0*int32(v0.Color.G) + w1*int32(v1.Color.G) + w2*int32(v2.Color.G)) / area
				b = (w0*int32(v0.Color.B) + w1*int32(v1.Color.B) + w2*int32(v2.Color.B)) / area
			} else {
				r = int32(v0.Color.R)
				g = int32(v0.Color.G)
				b = int32(v0.Color.B)
			}

			if attrs.Textured {
				u := (w0*int32(v0.TexX) + w1*int32(v1.TexX) + w2*int32(v2.TexX)) / area
				v := (w0*int32(v0.TexY) + w1*int32(v1.TexY) + w2*int32(v2.TexY)) / area
				texel := gpu.sampleTexel(uint8(u), uint8(v), &attrs)
				gpu.putTexel(x, y, r, g, b, &attrs, texel)
			} else {
				gpu.putPixel(x, y, r, g, b, &attrs, 0)
			}
		}
	}
}

func edgeBias(a, b Vec2) int32 {
	if isTopLeft(a, b) {
		return 0
	}
	return -1
}

// Rasterizes a quad as two triangles sharing the 1-2 edge
func (gpu *GPU) DrawQuad(vertices [4]Vertex, attrs PrimAttrs) {
	gpu.DrawTriangle([3]Vertex{vertices[0], vertices[1], vertices[2]}, attrs)
	gpu.DrawTriangle([3]Vertex{vertices[1], vertices[2], vertices[3]}, attrs)
}

// Rasterizes an axis aligned rectangle. Rectangles are never gouraud
// shaded and never dithered
func (gpu *GPU) DrawRect(pos, size Vec2, color Color, texcoord uint32, attrs PrimAttrs) {
	x0 := pos.X + int32(gpu.DrawingXOffset)
	y0 := pos.Y + int32(gpu.DrawingYOffset)

	if size.X >= 1024 || size.Y >= 512 {
		return
	}

	baseU := int32(uint8(texcoord))
	baseV := int32(uint8(texcoord >> 8))

	r := int32(color.R)
	g := int32(color.G)
	b := int32(color.B)

	for dy := int32(0); dy < size.Y; dy++ {
		for dx := int32(0); dx < size.X; dx++ {
			if attrs.Textured {
				u := baseU + dx
				v := baseV + dy
				if gpu.RectangleTextureXFlip {
					u = baseU - dx
				}
				if gpu.RectangleTextureYFlip {
					v = baseV - dy
				}
				texel := gpu.sampleTexel(uint8(u), uint8(v), &attrs)
				gpu.putTexel(x0+dx, y0+dy, r, g, b, &attrs, texel)
			} else {
				gpu.putPixel(x0+dx, y0+dy, r, g, b, &attrs, 0)
			}
		}
	}
}

// Rasterizes a line with the Bresenham algorithm, interpolating the
// vertex colors along the dominant axis
func (gpu *GPU) DrawLine(v0, v1 Vertex, attrs PrimAttrs) {
	x0 := v0.Pos.X + int32(gpu.DrawingXOffset)
	y0 := v0.Pos.Y + int32(gpu.DrawingYOffset)
	x1 := v1.Pos.X + int32(gpu.DrawingXOffset)
	y1 := v1.Pos.Y + int32(gpu.DrawingYOffset)

	dx := absI32(x1 - x0)
	dy := absI32(y1 - y0)
	if dx >= 1024 || dy >= 512 {
		return
	}

	steps := maxInt32(dx, dy)

	sx := int32(1)
	if x1 < x0 {
		sx = -1
	}
	sy := int32(1)
	if y1 < y0 {
		sy = -1
	}

	x, y := x0, y0
	errTerm := dx - dy

	for i := int32(0); ; i++ {
		r := int32(v0.Color.R)
		g := int32(v0.Color.G)
		b := int32(v0.Color.B)
		if attrs.Shaded && steps > 0 {
			r += (int32(v1.Color.R) - r) * i / steps
			g += (int32(v1.Color.G) - g) * i / steps
			b += (int32(v1.Color.B) - b) * i / steps
		}
		gpu.putPixel(x, y, r, g, b, &attrs, 0)

		if x == x1 && y == y1 {
			break
		}
		e2 := errTerm * 2
		if e2 > -dy {
			errTerm -= dy
			x += sx
		}
		if e2 < dx {
			errTerm += dx
			y += sy
		}
	}
}

// GP0(0x02) rectangle fill: a raw VRAM fill which ignores the drawing
// area, the mask settings and never dithers
func (gpu *GPU) FillRect(color Color, pos, size Vec2) {
	x0 := uint16(pos.X) & 0x3f0
	y0 := uint16(pos.Y) & 0x1ff
	// the width is rounded up to a multiple of 16 pixels
	width := ((uint16(size.X) & 0x3ff) + 0xf) & ^uint16(0xf)
	height := uint16(size.Y) & 0x1ff

	pixel := packPixel(int32(color.R), int32(color.G), int32(color.B))

	for y := uint16(0); y < height; y++ {
		for x := uint16(0); x < width; x++ {
			gpu.Vram.Store(x0+x, y0+y, pixel)
		}
	}
}

func min3(a, b, c int32) int32 {
	return minInt32(a, minInt32(b, c))
}

func max3(a, b, c int32) int32 {
	return maxInt32(a, maxInt32(b, c))
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
