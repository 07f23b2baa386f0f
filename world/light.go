package world

import "github.com/go-gl/mathgl/mgl32"

// LightUniformSize is the byte size of LightUniform on the GPU. Each vec3
// is padded to 16 bytes.
const LightUniformSize = 32

// Light is a point light orbiting the Y axis.
type Light struct {
	Position mgl32.Vec3 `yaml:"position"`
	Color    mgl32.Vec3 `yaml:"color"`

	// OrbitRate is the angular speed around +Y in radians per second.
	OrbitRate float32 `yaml:"orbit_rate"`
}

// DefaultLight returns a white light at (2, 2, 2) orbiting at 60°/s.
func DefaultLight() Light {
	return Light{
		Position:  mgl32.Vec3{2, 2, 2},
		Color:     mgl32.Vec3{1, 1, 1},
		OrbitRate: mgl32.DegToRad(60),
	}
}

// Update rotates the light position around +Y by OrbitRate*dt.
func (l *Light) Update(dt float32) {
	if l.OrbitRate == 0 || dt == 0 {
		return
	}
	l.Position = mgl32.QuatRotate(l.OrbitRate*dt, Up).Rotate(l.Position)
}

// Uniform returns the shader view of the light.
func (l Light) Uniform() LightUniform {
	return LightUniform{Position: l.Position, Color: l.Color}
}

// LightUniform is the light data visible to shaders.
type LightUniform struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// Bytes encodes the uniform with zeroed padding after each vec3.
func (u LightUniform) Bytes() []byte {
	buf := make([]byte, LightUniformSize)
	putFloats(buf, u.Position[:])
	putFloats(buf[16:], u.Color[:])
	return buf
}
