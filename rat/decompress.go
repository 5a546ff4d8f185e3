package rat

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/rat_browser/bitstream"
)

// QuantizeCoord maps a world-space coordinate to [0,255]. A degenerate
// axis (max == min) always quantizes to 0.
func QuantizeCoord(v, min, max float32) uint8 {
	if max == min {
		return 0
	}
	q := math.Round(float64(255 * (v - min) / (max - min)))
	if q < 0 {
		q = 0
	} else if q > 255 {
		q = 255
	}
	return uint8(q)
}

// DequantizeCoord maps a quantized byte back to world space. A
// degenerate axis stays constant at min.
func DequantizeCoord(q uint8, min, max float32) float32 {
	return min + (float32(q)/255.0)*(max-min)
}

// Dequantize converts one quantized vertex with this range.
func (r *QuantRange) Dequantize(v VertexU8) mgl32.Vec3 {
	return mgl32.Vec3{
		DequantizeCoord(v.X, r.Min[0], r.Max[0]),
		DequantizeCoord(v.Y, r.Min[1], r.Max[1]),
		DequantizeCoord(v.Z, r.Min[2], r.Max[2]),
	}
}

// Quantize converts one world-space position with this range.
func (r *QuantRange) Quantize(v mgl32.Vec3) VertexU8 {
	return VertexU8{
		QuantizeCoord(v[0], r.Min[0], r.Max[0]),
		QuantizeCoord(v[1], r.Min[1], r.Max[1]),
		QuantizeCoord(v[2], r.Min[2], r.Max[2]),
	}
}

// seedBaseFrame fills dst with the quantized base frame.
func (a *Animation) seedBaseFrame(dst []VertexU8) {
	if a.IsFirstFrameRaw {
		for i, v := range a.FirstFrameRaw {
			dst[i] = a.Range.Quantize(v)
		}
	} else {
		copy(dst, a.FirstFrameQuantized)
	}
}

// applyFrameDeltas advances dst by one frame block read from r. The
// order is fixed by the format: vertices ascending, axes x,y,z.
// Accumulation wraps per 8-bit unsigned arithmetic.
func (a *Animation) applyFrameDeltas(r *bitstream.Reader, dst []VertexU8) {
	for i := range dst {
		dx := r.ReadSigned(a.BitWidthsX[i])
		dy := r.ReadSigned(a.BitWidthsY[i])
		dz := r.ReadSigned(a.BitWidthsZ[i])

		dst[i].X += uint8(dx)
		dst[i].Y += uint8(dy)
		dst[i].Z += uint8(dz)
	}
}

// ReconstructFrame decodes the quantized vertex positions of one frame
// by replaying every delta block from the base frame. frame must be
// within [0, FramesCount-1]; the Model facade clamps before calling.
func (a *Animation) ReconstructFrame(frame uint32, dst []VertexU8) {
	a.seedBaseFrame(dst)
	if frame == 0 {
		return
	}

	r := bitstream.NewReader(a.DeltaStream)
	for f := uint32(1); f <= frame; f++ {
		a.applyFrameDeltas(r, dst)
	}
}

// DequantizeFrame converts a quantized buffer to world-space floats.
func (a *Animation) DequantizeFrame(src []VertexU8, dst []mgl32.Vec3) {
	for i, v := range src {
		dst[i] = a.Range.Dequantize(v)
	}
}
