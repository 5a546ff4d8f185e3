package rat

import (
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ExportGLTF builds a gltf document from the mesh attributes and the
// current frame's positions.
func (m *Model) ExportGLTF() (*gltf.Document, error) {
	doc := gltf.NewDocument()

	verticesCount := int(m.Animation.VerticesCount)

	positions := make([][3]float32, verticesCount)
	for i, p := range m.positions {
		positions[i] = [3]float32{p[0], p[1], p[2]}
	}
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, positions),
	}

	if len(m.Mesh.UVs) == verticesCount {
		uvs := make([][2]float32, verticesCount)
		for i, uv := range m.Mesh.UVs {
			uvs[i] = [2]float32{uv[0], uv[1]}
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
	}

	if len(m.Mesh.Colors) == verticesCount {
		colors := make([][4]float32, verticesCount)
		for i, c := range m.Mesh.Colors {
			colors[i] = [4]float32{c[0], c[1], c[2], c[3]}
		}
		attributes["COLOR_0"] = modeler.WriteColor(doc, colors)
	}

	indices := make([]uint32, len(m.Mesh.Indices))
	for i, index := range m.Mesh.Indices {
		indices[i] = uint32(index)
	}
	indicesAccessor := modeler.WriteIndices(doc, indices)

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})

	gltfMesh := &gltf.Mesh{
		Name: m.Animation.MeshFileName,
		Primitives: []*gltf.Primitive{
			{
				Indices:    &indicesAccessor,
				Attributes: attributes,
				Material:   gltf.Index(0),
			},
		},
	}
	doc.Meshes = append(doc.Meshes, gltfMesh)

	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: m.Animation.MeshFileName,
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))

	return doc, nil
}

// ExportGLTFBinary encodes the document as glb.
func (m *Model) ExportGLTFBinary(w io.Writer) error {
	doc, err := m.ExportGLTF()
	if err != nil {
		return err
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
