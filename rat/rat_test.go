package rat

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/rat_browser/utils"
)

func testChunk() *chunkBuilder {
	return &chunkBuilder{
		framesCount: 3,
		rng: QuantRange{
			Min: mgl32.Vec3{-1, -2, -4},
			Max: mgl32.Vec3{1, 2, 4},
		},
		quantFrame: []VertexU8{{10, 20, 30}, {40, 50, 60}},
		widthsX:    []uint8{4, 5},
		widthsY:    []uint8{3, 0},
		widthsZ:    []uint8{6, 2},
		deltas: [][][3]int32{
			{{1, -1, 2}, {-3, 0, 1}},
			{{-2, 3, -5}, {7, 0, -1}},
		},
		meshFileName: "model.ratmesh",
	}
}

func TestAnimationLoad(t *testing.T) {
	a, err := NewAnimationFromData(testChunk().build(), nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if a.VerticesCount != 2 || a.FramesCount != 3 {
		t.Errorf("counts = (%d,%d); expected (2,3)", a.VerticesCount, a.FramesCount)
	}
	if a.IsFirstFrameRaw {
		t.Errorf("IsFirstFrameRaw = true; expected false")
	}
	if len(a.FirstFrameQuantized) != 2 || a.FirstFrameQuantized[1] != (VertexU8{40, 50, 60}) {
		t.Errorf("quantized base frame = %+v", a.FirstFrameQuantized)
	}
	if a.MeshFileName != "model.ratmesh" {
		t.Errorf("mesh filename = %q", a.MeshFileName)
	}
	if a.Range.Min != (mgl32.Vec3{-1, -2, -4}) || a.Range.Max != (mgl32.Vec3{1, 2, 4}) {
		t.Errorf("range = %+v", a.Range)
	}
	if a.BitWidthsX[1] != 5 || a.BitWidthsY[1] != 0 || a.BitWidthsZ[0] != 6 {
		t.Errorf("bit widths = %v %v %v", a.BitWidthsX, a.BitWidthsY, a.BitWidthsZ)
	}
	if want := uint64(4 + 3 + 6 + 5 + 0 + 2); a.FrameBlockBits() != want {
		t.Errorf("FrameBlockBits() = %d; expected %d", a.FrameBlockBits(), want)
	}
}

func TestAnimationLoadRawBaseFrame(t *testing.T) {
	cb := testChunk()
	cb.quantFrame = nil
	cb.rawFrame = []mgl32.Vec3{{0, 0, 0}, {0.5, 1, -4}}

	a, err := NewAnimationFromData(cb.build(), nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !a.IsFirstFrameRaw || len(a.FirstFrameRaw) != 2 {
		t.Fatalf("raw base frame not loaded: %+v", a)
	}
	if a.FirstFrameRaw[1] != (mgl32.Vec3{0.5, 1, -4}) {
		t.Errorf("raw vertex 1 = %v", a.FirstFrameRaw[1])
	}
}

func TestAnimationLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		class error
	}{
		{"short buffer", make([]byte, ANIMATION_HEADER_SIZE-1), ErrFormat},
		{"bad magic", func() []byte {
			cb := testChunk()
			cb.patch = func(b []byte) { binary.LittleEndian.PutUint32(b, 0x12345678) }
			return cb.build()
		}(), ErrFormat},
		{"filename out of bounds", func() []byte {
			cb := testChunk()
			cb.patch = func(b []byte) { binary.LittleEndian.PutUint32(b[0x18:], uint32(len(b))) }
			return cb.build()
		}(), ErrCorruptData},
		{"bit widths out of bounds", func() []byte {
			cb := testChunk()
			cb.patch = func(b []byte) { binary.LittleEndian.PutUint32(b[0x14:], uint32(len(b)-2)) }
			return cb.build()
		}(), ErrCorruptData},
		{"bit width above 32", func() []byte {
			cb := testChunk()
			cb.widthsY = []uint8{3, 33}
			return cb.build()
		}(), ErrCorruptData},
		{"delta offset out of bounds", func() []byte {
			cb := testChunk()
			cb.patch = func(b []byte) { binary.LittleEndian.PutUint32(b[0x10:], uint32(len(b)+4)) }
			return cb.build()
		}(), ErrCorruptData},
		{"delta stream too short", func() []byte {
			cb := testChunk()
			cb.framesCount = 100
			return cb.build()
		}(), ErrCorruptData},
	}

	for _, test := range tests {
		a, err := NewAnimationFromData(test.data, nil)
		if err == nil {
			t.Errorf("%s: load succeeded, object %+v", test.name, a)
			continue
		}
		if !errors.Is(err, test.class) {
			t.Errorf("%s: error %v is not %v", test.name, err, test.class)
		}
	}
}

func TestLoadVerboseLog(t *testing.T) {
	var buf bytes.Buffer
	exlog := &utils.Logger{Writer: &buf}

	if _, err := NewAnimationFromData(testChunk().build(), exlog); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := NewMeshFromData(testMesh(3).build(), exlog); err != nil {
		t.Fatalf("mesh load failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"[rat] header: vertices 2 frames 3",
		"[ratmesh] vertices 3 indices 3",
		// structure dumps of the parsed assets
		"rat.Animation",
		"rat.Mesh",
		"model.ratmesh",
		"tex.png",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose log missing %q:\n%s", want, out)
		}
	}
}

func TestMeshLoad(t *testing.T) {
	m, err := NewMeshFromData(testMesh(3).build(), nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if m.VerticesCount != 3 || m.IndicesCount != 3 {
		t.Errorf("counts = (%d,%d); expected (3,3)", m.VerticesCount, m.IndicesCount)
	}
	if m.UVs[1] != (mgl32.Vec2{0.25, 0.75}) {
		t.Errorf("uv 1 = %v", m.UVs[1])
	}
	if m.Colors[2] != (mgl32.Vec4{1, 1, 1, 1}) {
		t.Errorf("color 2 = %v", m.Colors[2])
	}
	if len(m.Indices) != 3 || m.Indices[2] != 2 {
		t.Errorf("indices = %v", m.Indices)
	}
	if m.TextureFileName != "tex.png" {
		t.Errorf("texture filename = %q", m.TextureFileName)
	}
}

func TestMeshLoadErrors(t *testing.T) {
	if _, err := NewMeshFromData(make([]byte, MESH_HEADER_SIZE-1), nil); !errors.Is(err, ErrFormat) {
		t.Errorf("short buffer error = %v; expected ErrFormat", err)
	}

	b := testMesh(3).build()
	binary.LittleEndian.PutUint32(b, 0xdeadbeef)
	if _, err := NewMeshFromData(b, nil); !errors.Is(err, ErrFormat) {
		t.Errorf("bad magic error = %v; expected ErrFormat", err)
	}

	b = testMesh(3).build()
	binary.LittleEndian.PutUint32(b[0x14:], uint32(len(b)))
	if _, err := NewMeshFromData(b, nil); !errors.Is(err, ErrCorruptData) {
		t.Errorf("indices out of bounds error = %v; expected ErrCorruptData", err)
	}
}
