package rat

import (
	"fmt"
	"io"
)

// ExportObj writes the mesh with the current frame's positions as a
// wavefront obj.
func (m *Model) ExportObj(_w io.Writer) error {
	w := func(format string, args ...interface{}) {
		_w.Write(([]byte)(fmt.Sprintf(format+"\n", args...)))
	}

	w("o %s frame %d", m.Animation.MeshFileName, m.CurrentFrame())

	for _, p := range m.positions {
		w("v %f %f %f", p[0], p[1], p[2])
	}

	haveUV := len(m.Mesh.UVs) == len(m.positions)
	if haveUV {
		for _, uv := range m.Mesh.UVs {
			w("vt %f %f", uv[0], -uv[1])
		}
	}

	indices := m.Mesh.Indices
	for i := 0; i+3 <= len(indices); i += 3 {
		if haveUV {
			w("f %v/%v %v/%v %v/%v",
				indices[i]+1, indices[i]+1,
				indices[i+1]+1, indices[i+1]+1,
				indices[i+2]+1, indices[i+2]+1)
		} else {
			w("f %v %v %v", indices[i]+1, indices[i+1]+1, indices[i+2]+1)
		}
	}

	return nil
}
