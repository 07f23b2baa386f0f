package world

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// ModelVertexSize is the stride of ModelVertex in a vertex buffer.
const ModelVertexSize = 32

// Mesh validation errors.
var (
	ErrEmptyMesh       = errors.New("world: mesh has no indices")
	ErrIndexOutOfRange = errors.New("world: index out of range")
	ErrNoMaterial      = errors.New("world: material index out of range")
)

// ModelVertex is one vertex of a loaded mesh.
type ModelVertex struct {
	Position  [3]float32
	TexCoords [2]float32
	Normal    [3]float32
}

// VertexLayout is implemented by vertex types that describe their own
// vertex buffer layout.
type VertexLayout interface {
	Layout() gputypes.VertexBufferLayout
}

// Layout returns the ModelVertex layout at shader locations 0 to 2.
func (ModelVertex) Layout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: ModelVertexSize,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
			{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, // tex_coords
			{Format: gputypes.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2}, // normal
		},
	}
}

// EncodeVertices packs vertices back to back, ModelVertexSize bytes each.
func EncodeVertices(vs []ModelVertex) []byte {
	buf := make([]byte, len(vs)*ModelVertexSize)
	for i := range vs {
		off := i * ModelVertexSize
		putFloats(buf[off:], vs[i].Position[:])
		putFloats(buf[off+12:], vs[i].TexCoords[:])
		putFloats(buf[off+20:], vs[i].Normal[:])
	}
	return buf
}

// Mesh is indexed triangle-list geometry using one material.
type Mesh struct {
	Name     string
	Vertices []ModelVertex
	Indices  []uint32
	Material int
}

// Validate checks that the mesh is drawable: at least one triangle and every
// index referring to an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Indices) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyMesh, m.Name)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %q has %d indices, not a triangle list", ErrEmptyMesh, m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: %q index %d = %d, %d vertices", ErrIndexOutOfRange, m.Name, i, idx, len(m.Vertices))
		}
	}
	return nil
}

// Material is a named diffuse texture.
type Material struct {
	Name    string
	Diffuse image.Image
}

// Model is a set of meshes and the materials they reference.
type Model struct {
	Meshes    []Mesh
	Materials []Material
}

// Validate checks every mesh and its material reference.
func (m *Model) Validate() error {
	for i := range m.Meshes {
		mesh := &m.Meshes[i]
		if err := mesh.Validate(); err != nil {
			return err
		}
		if mesh.Material < 0 || mesh.Material >= len(m.Materials) {
			return fmt.Errorf("%w: mesh %q uses material %d, model has %d",
				ErrNoMaterial, mesh.Name, mesh.Material, len(m.Materials))
		}
	}
	return nil
}
