package rat

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// bitWriter packs values into little-endian 32-bit words, mirroring
// the layout the decoder reads.
type bitWriter struct {
	words []uint32
	pos   uint64
}

func (w *bitWriter) write(raw uint32, width uint8) {
	if width == 0 {
		return
	}
	for uint64(len(w.words))*32 < w.pos+uint64(width) {
		w.words = append(w.words, 0)
	}

	raw &= uint32((uint64(1) << width) - 1)
	wordIndex := w.pos / 32
	bitIndex := uint(w.pos % 32)
	w.pos += uint64(width)

	w.words[wordIndex] |= raw << bitIndex
	if bitIndex+uint(width) > 32 {
		w.words[wordIndex+1] |= raw >> (32 - bitIndex)
	}
}

// chunkBuilder assembles a synthetic .rat file.
type chunkBuilder struct {
	framesCount uint32
	rng         QuantRange

	quantFrame []VertexU8
	rawFrame   []mgl32.Vec3

	widthsX, widthsY, widthsZ []uint8

	// deltas[frame-1][vertex] = {dx, dy, dz}
	deltas [][][3]int32

	meshFileName string

	// applied after assembly to corrupt specific header fields
	patch func(b []byte)
}

func (cb *chunkBuilder) verticesCount() int {
	if cb.rawFrame != nil {
		return len(cb.rawFrame)
	}
	return len(cb.quantFrame)
}

func (cb *chunkBuilder) build() []byte {
	n := cb.verticesCount()

	b := make([]byte, ANIMATION_HEADER_SIZE)
	binary.LittleEndian.PutUint32(b[0x0:], RAT_ANIMATION_MAGIC)
	binary.LittleEndian.PutUint32(b[0x4:], uint32(n))
	binary.LittleEndian.PutUint32(b[0x8:], cb.framesCount)
	binary.LittleEndian.PutUint32(b[0xc:], 0)
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(b[0x20+i*4:], math.Float32bits(cb.rng.Min[i]))
		binary.LittleEndian.PutUint32(b[0x2c+i*4:], math.Float32bits(cb.rng.Max[i]))
	}

	if cb.rawFrame != nil {
		b[0x38] = 1
	} else {
		for _, v := range cb.quantFrame {
			b = append(b, v.X, v.Y, v.Z)
		}
	}

	binary.LittleEndian.PutUint32(b[0x14:], uint32(len(b))) // bit_widths_offset
	b = append(b, cb.widthsX...)
	b = append(b, cb.widthsY...)
	b = append(b, cb.widthsZ...)

	binary.LittleEndian.PutUint32(b[0x18:], uint32(len(b))) // mesh_filename_offset
	binary.LittleEndian.PutUint32(b[0x1c:], uint32(len(cb.meshFileName)))
	b = append(b, cb.meshFileName...)

	if cb.rawFrame != nil {
		binary.LittleEndian.PutUint32(b[0x3c:], uint32(len(b))) // raw_first_frame_offset
		for _, v := range cb.rawFrame {
			var raw [12]byte
			binary.LittleEndian.PutUint32(raw[0:], math.Float32bits(v[0]))
			binary.LittleEndian.PutUint32(raw[4:], math.Float32bits(v[1]))
			binary.LittleEndian.PutUint32(raw[8:], math.Float32bits(v[2]))
			b = append(b, raw[:]...)
		}
	}

	binary.LittleEndian.PutUint32(b[0x10:], uint32(len(b))) // delta_offset
	bw := &bitWriter{}
	for _, block := range cb.deltas {
		for i, d := range block {
			bw.write(uint32(d[0]), cb.widthsX[i])
			bw.write(uint32(d[1]), cb.widthsY[i])
			bw.write(uint32(d[2]), cb.widthsZ[i])
		}
	}
	for _, word := range bw.words {
		var raw [4]byte
		binary.LittleEndian.PutUint32(raw[:], word)
		b = append(b, raw[:]...)
	}

	if cb.patch != nil {
		cb.patch(b)
	}
	return b
}

// meshBuilder assembles a synthetic .ratmesh file.
type meshBuilder struct {
	uvs             []mgl32.Vec2
	colors          []mgl32.Vec4
	indices         []uint16
	textureFileName string
}

func (mb *meshBuilder) build() []byte {
	b := make([]byte, MESH_HEADER_SIZE)
	binary.LittleEndian.PutUint32(b[0x0:], RAT_MESH_MAGIC)
	binary.LittleEndian.PutUint32(b[0x4:], uint32(len(mb.uvs)))
	binary.LittleEndian.PutUint32(b[0x8:], uint32(len(mb.indices)))

	binary.LittleEndian.PutUint32(b[0xc:], uint32(len(b))) // uv_offset
	for _, uv := range mb.uvs {
		var raw [8]byte
		binary.LittleEndian.PutUint32(raw[0:], math.Float32bits(uv[0]))
		binary.LittleEndian.PutUint32(raw[4:], math.Float32bits(uv[1]))
		b = append(b, raw[:]...)
	}

	binary.LittleEndian.PutUint32(b[0x10:], uint32(len(b))) // color_offset
	for _, c := range mb.colors {
		var raw [16]byte
		for i := 0; i < 4; i++ {
			binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(c[i]))
		}
		b = append(b, raw[:]...)
	}

	binary.LittleEndian.PutUint32(b[0x14:], uint32(len(b))) // indices_offset
	for _, index := range mb.indices {
		var raw [2]byte
		binary.LittleEndian.PutUint16(raw[:], index)
		b = append(b, raw[:]...)
	}

	binary.LittleEndian.PutUint32(b[0x18:], uint32(len(b))) // texture_filename_offset
	binary.LittleEndian.PutUint32(b[0x1c:], uint32(len(mb.textureFileName)))
	b = append(b, mb.textureFileName...)

	return b
}

func testMesh(verticesCount int) *meshBuilder {
	mb := &meshBuilder{
		uvs:             make([]mgl32.Vec2, verticesCount),
		colors:          make([]mgl32.Vec4, verticesCount),
		indices:         []uint16{0, 1, 2},
		textureFileName: "tex.png",
	}
	for i := range mb.uvs {
		mb.uvs[i] = mgl32.Vec2{float32(i) * 0.25, 1 - float32(i)*0.25}
		mb.colors[i] = mgl32.Vec4{1, 1, 1, 1}
	}
	return mb
}
