package render

import (
	"image/color"
	"math"
)

// FastRenderer writes primitives straight into an RGBA pixel buffer,
// bypassing the vector context for the shapes drawn hundreds of times per
// frame (particles, the dashed center line).
type FastRenderer struct {
	buffer []byte
	width  int
	height int
	stride int // bytes per row (width * 4 for RGBA)
}

// NewFastRenderer wraps the given buffer; a nil buffer allocates a fresh
// one.
func NewFastRenderer(width, height int, buffer []byte) *FastRenderer {
	if buffer == nil {
		buffer = make([]byte, width*height*4)
	}
	return &FastRenderer{
		buffer: buffer,
		width:  width,
		height: height,
		stride: width * 4,
	}
}

// SetBuffer retargets the renderer, letting one instance serve a
// double-buffered context pair.
func (r *FastRenderer) SetBuffer(buffer []byte) {
	r.buffer = buffer
}

// Clear fills the entire buffer with a solid color.
func (r *FastRenderer) Clear(c color.RGBA) {
	for i := 0; i < len(r.buffer); i += 4 {
		r.buffer[i] = c.R
		r.buffer[i+1] = c.G
		r.buffer[i+2] = c.B
		r.buffer[i+3] = c.A
	}
}

func (r *FastRenderer) blendPixel(idx int, c color.RGBA, srcA, invA float64) {
	r.buffer[idx] = uint8(float64(c.R)*srcA + float64(r.buffer[idx])*invA)
	r.buffer[idx+1] = uint8(float64(c.G)*srcA + float64(r.buffer[idx+1])*invA)
	r.buffer[idx+2] = uint8(float64(c.B)*srcA + float64(r.buffer[idx+2])*invA)
	r.buffer[idx+3] = 255 // destination is always opaque
}

// FillRect draws an axis-aligned filled rectangle, clipped to the buffer.
func (r *FastRenderer) FillRect(x, y, w, h int, c color.RGBA) {
	x1 := max(0, x)
	y1 := max(0, y)
	x2 := min(r.width, x+w)
	y2 := min(r.height, y+h)
	if x1 >= x2 || y1 >= y2 {
		return
	}

	for py := y1; py < y2; py++ {
		rowStart := py * r.stride
		for px := x1; px < x2; px++ {
			idx := rowStart + px*4
			r.buffer[idx] = c.R
			r.buffer[idx+1] = c.G
			r.buffer[idx+2] = c.B
			r.buffer[idx+3] = c.A
		}
	}
}

// FillCircleBlend draws a filled circle with alpha blending. This is the
// particle workhorse; the extent per scanline comes from the circle
// equation so no pixels outside the disc are touched.
func (r *FastRenderer) FillCircleBlend(cx, cy int, radius float64, c color.RGBA) {
	if c.A == 0 || radius <= 0 {
		return
	}

	rad := int(radius + 0.5)
	radSq := radius * radius
	srcA := float64(c.A) / 255.0
	invA := 1.0 - srcA

	y1 := max(0, cy-rad)
	y2 := min(r.height, cy+rad+1)

	for py := y1; py < y2; py++ {
		dy := float64(py - cy)
		dySq := dy * dy
		if dySq > radSq {
			continue
		}
		xExtent := math.Sqrt(radSq - dySq)
		x1 := max(0, cx-int(xExtent+0.5))
		x2 := min(r.width, cx+int(xExtent+0.5)+1)

		rowStart := py * r.stride
		for px := x1; px < x2; px++ {
			dx := float64(px - cx)
			if dx*dx+dySq <= radSq {
				r.blendPixel(rowStart+px*4, c, srcA, invA)
			}
		}
	}
}

// FillRectBlend draws a filled rectangle with alpha blending.
func (r *FastRenderer) FillRectBlend(x, y, w, h int, c color.RGBA) {
	if c.A == 255 {
		r.FillRect(x, y, w, h, c)
		return
	}
	if c.A == 0 {
		return
	}

	x1 := max(0, x)
	y1 := max(0, y)
	x2 := min(r.width, x+w)
	y2 := min(r.height, y+h)
	if x1 >= x2 || y1 >= y2 {
		return
	}

	srcA := float64(c.A) / 255.0
	invA := 1.0 - srcA

	for py := y1; py < y2; py++ {
		rowStart := py * r.stride
		for px := x1; px < x2; px++ {
			r.blendPixel(rowStart+px*4, c, srcA, invA)
		}
	}
}

// VerticalDashes draws the dashed center line: dashLen pixels on, gapLen
// off, the full height of the buffer.
func (r *FastRenderer) VerticalDashes(x, dashLen, gapLen, thickness int, c color.RGBA) {
	if x < 0 || x >= r.width || dashLen <= 0 {
		return
	}
	period := dashLen + gapLen
	for y := 0; y < r.height; y += period {
		r.FillRectBlend(x-thickness/2, y, thickness, min(dashLen, r.height-y), c)
	}
}
