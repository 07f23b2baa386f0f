package world

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraUniformSize is the byte size of CameraUniform on the GPU.
// Layout: view_position (vec4<f32>) + view_proj (mat4x4<f32>) = 80 bytes.
const CameraUniformSize = 80

// ErrShortBuffer is returned when decoding from a buffer that is too small.
var ErrShortBuffer = errors.New("world: buffer too short")

// CameraUniform is the camera data visible to shaders.
type CameraUniform struct {
	ViewPosition mgl32.Vec4
	ViewProj     mgl32.Mat4
}

// NewCameraUniform derives the uniform from a camera and a projection.
func NewCameraUniform(c *Camera, p *Projection) CameraUniform {
	return CameraUniform{
		ViewPosition: c.Position.Vec4(1),
		ViewProj:     p.Matrix().Mul4(c.ViewMatrix()),
	}
}

// Bytes encodes the uniform in GPU layout.
func (u CameraUniform) Bytes() []byte {
	buf := make([]byte, CameraUniformSize)
	putFloats(buf, u.ViewPosition[:])
	putFloats(buf[16:], u.ViewProj[:])
	return buf
}

// DecodeCameraUniform decodes a uniform previously produced by Bytes.
func DecodeCameraUniform(b []byte) (CameraUniform, error) {
	var u CameraUniform
	if len(b) < CameraUniformSize {
		return u, fmt.Errorf("%w: camera uniform needs %d bytes, got %d", ErrShortBuffer, CameraUniformSize, len(b))
	}
	getFloats(b, u.ViewPosition[:])
	getFloats(b[16:], u.ViewProj[:])
	return u, nil
}

// putFloats writes vs as little-endian float32 into buf.
func putFloats(buf []byte, vs []float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}

// getFloats reads len(dst) little-endian float32 values from buf.
func getFloats(buf []byte, dst []float32) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
}
