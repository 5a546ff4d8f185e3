package rat

import (
	"log"
	path_ "path"

	"github.com/pkg/errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/rat_browser/bitstream"
	"github.com/mogaika/rat_browser/config"
	"github.com/mogaika/rat_browser/utils"
	"github.com/mogaika/rat_browser/vfs"
)

const frameNone = ^uint32(0)

// Model owns one animation chunk plus its paired static mesh and keeps
// the decoded state of a single "current" frame. Not safe for
// concurrent updates; callers serialize access per model.
type Model struct {
	Animation *Animation
	Mesh      *Mesh

	quantized []VertexU8   // current frame, quantized
	positions []mgl32.Vec3 // current frame, world space
	frame     uint32       // frameNone until first update

	// forward-seek cache: continue the delta replay from the current
	// frame instead of reseeding, when enabled and seeking forward
	seekCache bool
	cursor    *bitstream.Reader

	// replaced in tests to count decodes
	reconstruct func(frame uint32)
}

// NewModelFromChunk loads a .rat file and the .ratmesh it references
// (resolved relative to the chunk's directory inside d) and decodes
// frame 0. On any error no partially constructed model is returned.
func NewModelFromChunk(d vfs.Directory, chunkName string, exlog *utils.Logger) (*Model, error) {
	log.Printf("[rat] Loading model from chunk %q", chunkName)

	chunkData, err := vfs.ReadFileWhole(d, chunkName)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read chunk %q", chunkName)
	}

	anim, err := NewAnimationFromData(chunkData, exlog)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse chunk %q", chunkName)
	}

	meshName := path_.Join(path_.Dir(chunkName), anim.MeshFileName)
	meshData, err := vfs.ReadFileWhole(d, meshName)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read mesh %q referenced by %q", meshName, chunkName)
	}

	mesh, err := NewMeshFromData(meshData, exlog)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse mesh %q", meshName)
	}

	return NewModel(anim, mesh), nil
}

// NewModel wires an already parsed animation and mesh pair and decodes
// frame 0.
func NewModel(anim *Animation, mesh *Mesh) *Model {
	m := &Model{
		Animation: anim,
		Mesh:      mesh,
		quantized: make([]VertexU8, anim.VerticesCount),
		positions: make([]mgl32.Vec3, anim.VerticesCount),
		frame:     frameNone,
		seekCache: config.GetForwardSeekCache(),
	}
	m.reconstruct = m.reconstructFrame
	m.UpdateFrame(0)
	return m
}

func (m *Model) reconstructFrame(frame uint32) {
	if m.seekCache && m.cursor != nil && m.frame != frameNone && frame >= m.frame {
		for f := m.frame + 1; f <= frame; f++ {
			m.Animation.applyFrameDeltas(m.cursor, m.quantized)
		}
		return
	}

	m.Animation.seedBaseFrame(m.quantized)
	m.cursor = bitstream.NewReader(m.Animation.DeltaStream)
	for f := uint32(1); f <= frame; f++ {
		m.Animation.applyFrameDeltas(m.cursor, m.quantized)
	}
}

// UpdateFrame decodes the requested frame. Out-of-range indexes are
// silently clamped to the last frame; asking for the current frame is
// a no-op.
func (m *Model) UpdateFrame(frame uint32) {
	if count := m.Animation.FramesCount; frame >= count {
		if count == 0 {
			frame = 0
		} else {
			frame = count - 1
		}
	}
	if frame == m.frame {
		return
	}

	m.reconstruct(frame)
	m.Animation.DequantizeFrame(m.quantized, m.positions)
	m.frame = frame
}

func (m *Model) IsValid() bool {
	return m != nil && m.Animation != nil && m.Mesh != nil
}

func (m *Model) FrameCount() uint32 {
	return m.Animation.FramesCount
}

func (m *Model) CurrentFrame() uint32 {
	return m.frame
}

// CurrentPositions returns the dequantized vertex positions of the
// current frame. The slice is owned by the model and overwritten by
// the next update.
func (m *Model) CurrentPositions() []mgl32.Vec3 {
	return m.positions
}
