package world

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

type cubeFace struct {
	normal, u, v mgl32.Vec3
}

// u × v == normal for every face, so corners listed (-u,-v) (+u,-v) (+u,+v)
// (-u,+v) wind counter-clockwise seen from outside.
var cubeFaces = [6]cubeFace{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// Cube returns an axis-aligned cube with edge length size centered on the
// origin, 4 vertices and 2 triangles per face, using material 0.
func Cube(name string, size float32) Mesh {
	h := size / 2
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	m := Mesh{
		Name:     name,
		Vertices: make([]ModelVertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range cubeFaces {
		base := uint32(len(m.Vertices))
		for i, c := range corners {
			p := f.normal.Mul(h).Add(f.u.Mul(c[0] * h)).Add(f.v.Mul(c[1] * h))
			m.Vertices = append(m.Vertices, ModelVertex{
				Position:  p,
				TexCoords: uvs[i],
				Normal:    f.normal,
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Pentagon returns a flat pentagon in the XY plane facing +Z.
func Pentagon(name string) Mesh {
	n := [3]float32{0, 0, 1}
	return Mesh{
		Name: name,
		Vertices: []ModelVertex{
			{Position: [3]float32{-0.0868241, 0.49240386, 0}, TexCoords: [2]float32{0.4131759, 0.00759614}, Normal: n},
			{Position: [3]float32{-0.49513406, 0.06958647, 0}, TexCoords: [2]float32{0.0048659444, 0.43041354}, Normal: n},
			{Position: [3]float32{-0.21918549, -0.44939706, 0}, TexCoords: [2]float32{0.28081453, 0.949397}, Normal: n},
			{Position: [3]float32{0.35966998, -0.3473291, 0}, TexCoords: [2]float32{0.85967, 0.84732914}, Normal: n},
			{Position: [3]float32{0.44147372, 0.2347359, 0}, TexCoords: [2]float32{0.9414737, 0.2652641}, Normal: n},
		},
		Indices: []uint32{
			0, 1, 4,
			1, 2, 4,
			2, 3, 4,
		},
	}
}

// CheckerMaterial returns a size x size checkerboard with cells of cell
// pixels alternating between a and b.
func CheckerMaterial(name string, size, cell int, a, b color.Color) Material {
	if cell < 1 {
		cell = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return Material{Name: name, Diffuse: img}
}

// CubeModel returns a single textured cube, the default scene content.
func CubeModel() Model {
	return Model{
		Meshes: []Mesh{Cube("cube", 1)},
		Materials: []Material{
			CheckerMaterial("checker", 64, 8,
				color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF},
				color.RGBA{R: 0x30, G: 0x60, B: 0x90, A: 0xFF}),
		},
	}
}
