package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidProjection is returned for projection parameters that cannot
// produce an invertible matrix.
var ErrInvalidProjection = errors.New("world: invalid projection")

// OpenGLToWGPU remaps clip-space Z from the OpenGL -1..1 range to the 0..1
// range used by WebGPU. It is applied after the perspective matrix.
//
// Column-major: z' = 0.5*z + 0.5*w.
var OpenGLToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Projection is a perspective projection. Only the aspect ratio changes
// after construction, through Resize.
type Projection struct {
	aspect float32
	fovY   float32
	near   float32
	far    float32

	// dirty is set by Resize and cleared by ClearDirty.
	dirty bool
}

// NewProjection creates a projection for a width x height surface.
// fovY is the vertical field of view in radians.
//
// Returns ErrInvalidProjection if a dimension is zero, if 0 < near < far
// does not hold or if fovY is outside (0, pi).
func NewProjection(width, height uint32, fovY, near, far float32) (*Projection, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: surface size %dx%d", ErrInvalidProjection, width, height)
	}
	if !(near > 0) || !(far > near) || math.IsInf(float64(far), 0) {
		return nil, fmt.Errorf("%w: near=%v far=%v", ErrInvalidProjection, near, far)
	}
	if !(fovY > 0) || fovY >= math.Pi {
		return nil, fmt.Errorf("%w: fovY=%v", ErrInvalidProjection, fovY)
	}
	return &Projection{
		aspect: float32(width) / float32(height),
		fovY:   fovY,
		near:   near,
		far:    far,
		dirty:  true,
	}, nil
}

// Resize recomputes the aspect ratio from the new surface size and marks
// the projection dirty, even when the ratio is unchanged. A zero dimension
// leaves the projection untouched and returns false.
func (p *Projection) Resize(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	p.aspect = float32(width) / float32(height)
	p.dirty = true
	return true
}

// Matrix returns the projection matrix including the depth remap.
func (p *Projection) Matrix() mgl32.Mat4 {
	return OpenGLToWGPU.Mul4(mgl32.Perspective(p.fovY, p.aspect, p.near, p.far))
}

// Aspect returns width / height.
func (p *Projection) Aspect() float32 { return p.aspect }

// FovY returns the vertical field of view in radians.
func (p *Projection) FovY() float32 { return p.fovY }

// Near returns the near plane distance.
func (p *Projection) Near() float32 { return p.near }

// Far returns the far plane distance.
func (p *Projection) Far() float32 { return p.far }

// Dirty reports whether the projection changed since the last ClearDirty.
func (p *Projection) Dirty() bool { return p.dirty }

// ClearDirty resets the dirty flag after the derived uniform was rebuilt.
func (p *Projection) ClearDirty() { p.dirty = false }
