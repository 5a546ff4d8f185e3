package rat

import (
	"github.com/pkg/errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/rat_browser/utils"
)

// Mesh is the parsed contents of one .ratmesh file: the static
// attributes shared by every frame of the paired animation chunk.
type Mesh struct {
	VerticesCount uint32
	IndicesCount  uint32

	UVs     []mgl32.Vec2
	Colors  []mgl32.Vec4
	Indices []uint16

	TextureFileName string
}

// NewMeshFromData parses one .ratmesh buffer. exlog may be nil.
func NewMeshFromData(b []byte, exlog *utils.Logger) (*Mesh, error) {
	if len(b) < MESH_HEADER_SIZE {
		return nil, errors.Wrapf(ErrFormat, "buffer size 0x%x < mesh header size 0x%x", len(b), MESH_HEADER_SIZE)
	}
	if magic := u32(b, 0); magic != RAT_MESH_MAGIC {
		return nil, errors.Wrapf(ErrFormat, "invalid magic 0x%.8x, expected RATM", magic)
	}

	m := &Mesh{
		VerticesCount: u32(b, 0x4),
		IndicesCount:  u32(b, 0x8),
	}

	uvOffset := u32(b, 0xc)
	colorOffset := u32(b, 0x10)
	indicesOffset := u32(b, 0x14)
	textureFileNameOffset := u32(b, 0x18)
	textureFileNameLength := u32(b, 0x1c)

	exlog.Printf("[ratmesh] vertices %d indices %d", m.VerticesCount, m.IndicesCount)
	exlog.Printf("[ratmesh] offsets: uv 0x%x color 0x%x indices 0x%x texture name 0x%x+0x%x",
		uvOffset, colorOffset, indicesOffset, textureFileNameOffset, textureFileNameLength)

	uvs, err := subSlice(b, uvOffset, uint64(m.VerticesCount)*8, "uvs")
	if err != nil {
		return nil, err
	}
	m.UVs = make([]mgl32.Vec2, m.VerticesCount)
	for i := range m.UVs {
		off := uint32(i * 8)
		m.UVs[i] = mgl32.Vec2{f32(uvs, off), f32(uvs, off+4)}
	}

	colors, err := subSlice(b, colorOffset, uint64(m.VerticesCount)*16, "colors")
	if err != nil {
		return nil, err
	}
	m.Colors = make([]mgl32.Vec4, m.VerticesCount)
	for i := range m.Colors {
		off := uint32(i * 16)
		m.Colors[i] = mgl32.Vec4{f32(colors, off), f32(colors, off+4), f32(colors, off+8), f32(colors, off+12)}
	}

	indices, err := subSlice(b, indicesOffset, uint64(m.IndicesCount)*2, "indices")
	if err != nil {
		return nil, err
	}
	m.Indices = make([]uint16, m.IndicesCount)
	for i := range m.Indices {
		m.Indices[i] = u16(indices, uint32(i*2))
	}

	nameRaw, err := subSlice(b, textureFileNameOffset, uint64(textureFileNameLength), "texture filename")
	if err != nil {
		return nil, err
	}
	m.TextureFileName = utils.DecodeString(nameRaw)

	exlog.Println(utils.SDump(m))

	return m, nil
}
