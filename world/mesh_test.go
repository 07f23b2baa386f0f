package world

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCubeMesh(t *testing.T) {
	m := Cube("cube", 2)
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(m.Vertices) != 24 || len(m.Indices) != 36 {
		t.Errorf("got %d vertices %d indices, want 24 and 36", len(m.Vertices), len(m.Indices))
	}
	for i, v := range m.Vertices {
		for _, c := range v.Position {
			if math.Abs(float64(c)) != 1 {
				t.Fatalf("vertex %d position %v not on the cube", i, v.Position)
			}
		}
	}
}

func TestCubeWindingOutward(t *testing.T) {
	m := Cube("cube", 1)
	for tri := 0; tri < len(m.Indices); tri += 3 {
		a := mgl32.Vec3(m.Vertices[m.Indices[tri]].Position)
		b := mgl32.Vec3(m.Vertices[m.Indices[tri+1]].Position)
		c := mgl32.Vec3(m.Vertices[m.Indices[tri+2]].Position)
		n := mgl32.Vec3(m.Vertices[m.Indices[tri]].Normal)
		if b.Sub(a).Cross(c.Sub(a)).Dot(n) <= 0 {
			t.Errorf("triangle %d is clockwise seen from outside", tri/3)
		}
	}
}

func TestEncodeVertices(t *testing.T) {
	vs := []ModelVertex{{
		Position:  [3]float32{1, 2, 3},
		TexCoords: [2]float32{4, 5},
		Normal:    [3]float32{6, 7, 8},
	}}
	b := EncodeVertices(vs)
	if len(b) != ModelVertexSize {
		t.Fatalf("len = %d, want %d", len(b), ModelVertexSize)
	}
	var got [8]float32
	getFloats(b, got[:])
	if got != [8]float32{1, 2, 3, 4, 5, 6, 7, 8} {
		t.Errorf("encoded = %v", got)
	}

	l := ModelVertex{}.Layout()
	if l.ArrayStride != ModelVertexSize || len(l.Attributes) != 3 {
		t.Errorf("layout stride %d with %d attributes", l.ArrayStride, len(l.Attributes))
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name string
		mesh Mesh
		want error
	}{
		{"empty", Mesh{Name: "e"}, ErrEmptyMesh},
		{"not triangles", Mesh{Vertices: make([]ModelVertex, 3), Indices: []uint32{0, 1}}, ErrEmptyMesh},
		{"out of range", Mesh{Vertices: make([]ModelVertex, 3), Indices: []uint32{0, 1, 3}}, ErrIndexOutOfRange},
		{"ok", Pentagon("p"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestModelValidateMaterial(t *testing.T) {
	m := Model{Meshes: []Mesh{Cube("c", 1)}}
	if err := m.Validate(); !errors.Is(err, ErrNoMaterial) {
		t.Errorf("Validate() = %v, want ErrNoMaterial", err)
	}
	m = CubeModel()
	if err := m.Validate(); err != nil {
		t.Errorf("CubeModel().Validate() = %v", err)
	}
}

func TestCheckerMaterial(t *testing.T) {
	black := color.RGBA{A: 0xFF}
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	m := CheckerMaterial("c", 4, 2, black, white)
	if got := m.Diffuse.Bounds().Dx(); got != 4 {
		t.Fatalf("width = %d, want 4", got)
	}
	if m.Diffuse.At(0, 0) != color.Color(black) {
		t.Errorf("(0,0) = %v, want black", m.Diffuse.At(0, 0))
	}
	if m.Diffuse.At(2, 0) != color.Color(white) {
		t.Errorf("(2,0) = %v, want white", m.Diffuse.At(2, 0))
	}
}

func TestLightOrbit(t *testing.T) {
	l := Light{Position: mgl32.Vec3{2, 1, 0}, Color: mgl32.Vec3{1, 1, 1}, OrbitRate: mgl32.DegToRad(90)}
	l.Update(1)
	if !vecNear(l.Position, mgl32.Vec3{0, 1, -2}, 1e-5) {
		t.Errorf("Position = %v, want (0,1,-2)", l.Position)
	}
	b := l.Uniform().Bytes()
	if len(b) != LightUniformSize {
		t.Fatalf("len = %d, want %d", len(b), LightUniformSize)
	}
	var pad [2]float32
	getFloats(b[12:], pad[:1])
	getFloats(b[28:], pad[1:])
	if pad != [2]float32{} {
		t.Errorf("padding = %v, want zero", pad)
	}
}
