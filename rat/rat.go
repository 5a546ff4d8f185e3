package rat

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/rat_browser/utils"
)

const (
	RAT_ANIMATION_MAGIC = 0x33544152 // "RAT3"
	RAT_MESH_MAGIC      = 0x4D544152 // "RATM"

	ANIMATION_HEADER_SIZE = 0x40
	MESH_HEADER_SIZE      = 0x30
)

var (
	// ErrFormat - bad magic or a buffer shorter than the fixed header
	ErrFormat = errors.New("rat: invalid file format")
	// ErrCorruptData - declared offsets, lengths or the delta stream do
	// not fit the loaded buffer
	ErrCorruptData = errors.New("rat: corrupt data")
)

func u32(d []byte, off uint32) uint32 {
	return binary.LittleEndian.Uint32(d[off : off+4])
}
func u16(d []byte, off uint32) uint16 {
	return binary.LittleEndian.Uint16(d[off : off+2])
}
func f32(d []byte, off uint32) float32 {
	return math.Float32frombits(u32(d, off))
}

// QuantRange is the aabb used to map quantized [0,255] coordinates to
// world space.
type QuantRange struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// VertexU8 is one quantized vertex position (3 bytes in file order).
type VertexU8 struct {
	X, Y, Z uint8
}

// Animation is the parsed contents of one .rat chunk file. Immutable
// after load.
type Animation struct {
	VerticesCount uint32
	FramesCount   uint32 // frames covered by this chunk, base frame included
	IndicesCount  uint32 // duplicated from the mesh file, decoder does not use it

	Range QuantRange

	IsFirstFrameRaw     bool
	FirstFrameRaw       []mgl32.Vec3 // set when IsFirstFrameRaw
	FirstFrameQuantized []VertexU8   // set otherwise

	// per-vertex delta bit widths, 0 means the axis never changes
	BitWidthsX []uint8
	BitWidthsY []uint8
	BitWidthsZ []uint8

	// continuous delta bitstream, frame blocks back to back
	DeltaStream []uint32

	MeshFileName string
}

// subSlice bound-checks a declared (offset,size) range against the file
// buffer before any access.
func subSlice(b []byte, offset uint32, size uint64, what string) ([]byte, error) {
	end := uint64(offset) + size
	if end > uint64(len(b)) {
		return nil, errors.Wrapf(ErrCorruptData, "%s [0x%x:0x%x] exceeds file size 0x%x", what, offset, end, len(b))
	}
	return b[offset:end], nil
}

// NewAnimationFromData parses one .rat chunk buffer. exlog may be nil.
func NewAnimationFromData(b []byte, exlog *utils.Logger) (*Animation, error) {
	if len(b) < ANIMATION_HEADER_SIZE {
		return nil, errors.Wrapf(ErrFormat, "buffer size 0x%x < header size 0x%x", len(b), ANIMATION_HEADER_SIZE)
	}
	if magic := u32(b, 0); magic != RAT_ANIMATION_MAGIC {
		return nil, errors.Wrapf(ErrFormat, "invalid magic 0x%.8x, expected RAT3", magic)
	}

	a := &Animation{
		VerticesCount: u32(b, 0x4),
		FramesCount:   u32(b, 0x8),
		IndicesCount:  u32(b, 0xc),
		Range: QuantRange{
			Min: mgl32.Vec3{f32(b, 0x20), f32(b, 0x24), f32(b, 0x28)},
			Max: mgl32.Vec3{f32(b, 0x2c), f32(b, 0x30), f32(b, 0x34)},
		},
		IsFirstFrameRaw: b[0x38] != 0,
	}

	deltaOffset := u32(b, 0x10)
	bitWidthsOffset := u32(b, 0x14)
	meshFileNameOffset := u32(b, 0x18)
	meshFileNameLength := u32(b, 0x1c)
	rawFirstFrameOffset := u32(b, 0x3c)

	exlog.Printf("[rat] header: vertices %d frames %d indices %d raw first frame %v",
		a.VerticesCount, a.FramesCount, a.IndicesCount, a.IsFirstFrameRaw)
	exlog.Printf("[rat] range min %v max %v", a.Range.Min, a.Range.Max)
	exlog.Printf("[rat] offsets: delta 0x%x bitwidths 0x%x mesh name 0x%x+0x%x raw frame 0x%x",
		deltaOffset, bitWidthsOffset, meshFileNameOffset, meshFileNameLength, rawFirstFrameOffset)

	nameRaw, err := subSlice(b, meshFileNameOffset, uint64(meshFileNameLength), "mesh filename")
	if err != nil {
		return nil, err
	}
	a.MeshFileName = utils.DecodeString(nameRaw)

	if a.IsFirstFrameRaw {
		raw, err := subSlice(b, rawFirstFrameOffset, uint64(a.VerticesCount)*12, "raw first frame")
		if err != nil {
			return nil, err
		}
		a.FirstFrameRaw = make([]mgl32.Vec3, a.VerticesCount)
		for i := range a.FirstFrameRaw {
			off := uint32(i * 12)
			a.FirstFrameRaw[i] = mgl32.Vec3{f32(raw, off), f32(raw, off+4), f32(raw, off+8)}
		}
	} else {
		// quantized base frame sits right after the header
		q, err := subSlice(b, ANIMATION_HEADER_SIZE, uint64(a.VerticesCount)*3, "quantized first frame")
		if err != nil {
			return nil, err
		}
		a.FirstFrameQuantized = make([]VertexU8, a.VerticesCount)
		for i := range a.FirstFrameQuantized {
			a.FirstFrameQuantized[i] = VertexU8{q[i*3], q[i*3+1], q[i*3+2]}
		}
	}

	bw, err := subSlice(b, bitWidthsOffset, uint64(a.VerticesCount)*3, "bit widths")
	if err != nil {
		return nil, err
	}
	n := a.VerticesCount
	a.BitWidthsX = append([]uint8{}, bw[:n]...)
	a.BitWidthsY = append([]uint8{}, bw[n:2*n]...)
	a.BitWidthsZ = append([]uint8{}, bw[2*n:3*n]...)
	for i := uint32(0); i < n; i++ {
		if a.BitWidthsX[i] > 32 || a.BitWidthsY[i] > 32 || a.BitWidthsZ[i] > 32 {
			return nil, errors.Wrapf(ErrCorruptData, "vertex %d bit widths (%d,%d,%d) out of range",
				i, a.BitWidthsX[i], a.BitWidthsY[i], a.BitWidthsZ[i])
		}
	}

	// delta stream runs from its offset to end of file
	if uint64(deltaOffset) > uint64(len(b)) {
		return nil, errors.Wrapf(ErrCorruptData, "delta stream offset 0x%x exceeds file size 0x%x", deltaOffset, len(b))
	}
	deltaRaw := b[deltaOffset:]
	a.DeltaStream = make([]uint32, len(deltaRaw)/4)
	for i := range a.DeltaStream {
		a.DeltaStream[i] = u32(deltaRaw, uint32(i*4))
	}

	if err := a.validateStreamLength(); err != nil {
		return nil, err
	}

	exlog.Printf("[rat] delta stream words %d (%d bits per frame block)", len(a.DeltaStream), a.FrameBlockBits())
	exlog.Println(utils.SDump(a))

	return a, nil
}

// FrameBlockBits returns the bit demand of one frame block: every
// vertex contributes its three axis widths.
func (a *Animation) FrameBlockBits() uint64 {
	var bits uint64
	for i := uint32(0); i < a.VerticesCount; i++ {
		bits += uint64(a.BitWidthsX[i]) + uint64(a.BitWidthsY[i]) + uint64(a.BitWidthsZ[i])
	}
	return bits
}

func (a *Animation) validateStreamLength() error {
	if a.FramesCount <= 1 {
		return nil
	}
	need := uint64(a.FramesCount-1) * a.FrameBlockBits()
	have := uint64(len(a.DeltaStream)) * 32
	if need > have {
		return errors.Wrapf(ErrCorruptData, "delta stream holds %d bits, %d frame blocks need %d",
			have, a.FramesCount-1, need)
	}
	return nil
}
