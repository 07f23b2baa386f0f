package world

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera errors.
var (
	// ErrDegenerateCamera is returned when the eye and the target coincide,
	// leaving no view direction to build a basis from.
	ErrDegenerateCamera = errors.New("world: camera eye and target coincide")
)

// MaxPitch is the largest pitch magnitude a camera may have (89 degrees).
// Beyond it the view direction approaches the up vector and the view matrix
// becomes singular.
var MaxPitch = mgl32.DegToRad(89)

// Up is the world up vector.
var Up = mgl32.Vec3{0, 1, 0}

// Camera is a first-person camera described by a position and two Euler
// angles. Yaw rotates around +Y starting from +X, pitch tilts the view
// direction towards +Y.
//
// Pitch is kept within [-MaxPitch, MaxPitch] by every method that writes it.
// Assigning the field directly bypasses the clamp; use SetPitch.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
}

// NewCamera returns a camera at position with the given yaw and pitch in
// radians. The pitch is clamped.
func NewCamera(position mgl32.Vec3, yaw, pitch float32) *Camera {
	c := &Camera{Position: position, Yaw: yaw}
	c.SetPitch(pitch)
	return c
}

// NewCameraLookingAt returns a camera at eye looking at target.
func NewCameraLookingAt(eye, target mgl32.Vec3) (*Camera, error) {
	c := &Camera{Position: eye}
	if err := c.LookAt(target); err != nil {
		return nil, err
	}
	return c, nil
}

// LookAt points the camera at target. Targets straight above or below the
// camera end up at the pitch limit.
func (c *Camera) LookAt(target mgl32.Vec3) error {
	dir := target.Sub(c.Position)
	if dir.Len() < 1e-6 {
		return ErrDegenerateCamera
	}
	dir = dir.Normalize()
	c.Yaw = float32(math.Atan2(float64(dir.Z()), float64(dir.X())))
	c.SetPitch(float32(math.Asin(float64(mgl32.Clamp(dir.Y(), -1, 1)))))
	return nil
}

// SetPitch sets the pitch in radians, clamped to [-MaxPitch, MaxPitch].
func (c *Camera) SetPitch(pitch float32) {
	c.Pitch = mgl32.Clamp(pitch, -MaxPitch, MaxPitch)
}

// Rotate adds yaw and pitch deltas in radians. The pitch limit is applied
// here, before any matrix is built from the new angles.
func (c *Camera) Rotate(dyaw, dpitch float32) {
	c.Yaw += dyaw
	c.SetPitch(c.Pitch + dpitch)
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	return mgl32.Vec3{float32(cp * cy), float32(sp), float32(cp * sy)}.Normalize()
}

// Horizontal returns the forward and right unit vectors projected onto the
// XZ plane. Used for walking movement that ignores pitch.
func (c *Camera) Horizontal() (forward, right mgl32.Vec3) {
	sy, cy := math.Sincos(float64(c.Yaw))
	forward = mgl32.Vec3{float32(cy), 0, float32(sy)}
	right = mgl32.Vec3{float32(-sy), 0, float32(cy)}
	return forward, right
}

// ViewMatrix returns the right-handed world-to-view transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), Up)
}
