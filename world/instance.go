package world

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// InstanceRawSize is the byte size of one InstanceRaw (a column-major mat4).
const InstanceRawSize = 64

// ErrInvalidGrid is returned for grid configurations with no instances.
var ErrInvalidGrid = errors.New("world: invalid instance grid")

// Instance is the transform of one copy of a mesh.
type Instance struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Model returns translation * rotation.
func (i Instance) Model() mgl32.Mat4 {
	return mgl32.Translate3D(i.Position[0], i.Position[1], i.Position[2]).Mul4(i.Rotation.Mat4())
}

// InstanceRaw is the per-instance vertex data uploaded to the GPU.
type InstanceRaw struct {
	Model mgl32.Mat4
}

// GridConfig describes a square grid of instances centered on the origin.
type GridConfig struct {
	// PerRow is the number of instances along each axis. N = PerRow².
	PerRow int `yaml:"per_row"`

	// Spacing is the distance between neighbouring instances.
	Spacing float32 `yaml:"spacing"`

	// InitialAngle is the starting rotation in radians around the axis
	// pointing from the origin to the instance.
	InitialAngle float32 `yaml:"initial_angle"`

	// RotationRate is the spin around the local Y axis in radians per second.
	RotationRate float32 `yaml:"rotation_rate"`
}

// DefaultGridConfig returns a 10x10 grid with unit spacing.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		PerRow:       10,
		Spacing:      1,
		InitialAngle: mgl32.DegToRad(45),
		RotationRate: mgl32.DegToRad(60),
	}
}

// Validate checks that the grid holds at least one instance.
func (g GridConfig) Validate() error {
	if g.PerRow < 1 {
		return fmt.Errorf("%w: per_row=%d", ErrInvalidGrid, g.PerRow)
	}
	if g.Spacing < 0 {
		return fmt.Errorf("%w: spacing=%v", ErrInvalidGrid, g.Spacing)
	}
	return nil
}

// InstanceSet is a fixed-size set of instances. Its length never changes
// after construction.
type InstanceSet struct {
	instances []Instance
	rate      float32
}

// NewInstanceGrid lays out cfg.PerRow² instances on the XZ plane. Instance
// (x, z) sits at (x*s - d, 0, z*s - d) with d = s*(PerRow-1)/2, so the grid
// is symmetric about the origin.
func NewInstanceGrid(cfg GridConfig) (*InstanceSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := cfg.PerRow
	d := cfg.Spacing * float32(n-1) / 2
	instances := make([]Instance, 0, n*n)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			pos := mgl32.Vec3{float32(x)*cfg.Spacing - d, 0, float32(z)*cfg.Spacing - d}
			instances = append(instances, Instance{
				Position: pos,
				Rotation: initialRotation(pos, cfg.InitialAngle),
			})
		}
	}

	return &InstanceSet{instances: instances, rate: cfg.RotationRate}, nil
}

// NewInstanceSet wraps explicit instances.
func NewInstanceSet(instances []Instance, rate float32) (*InstanceSet, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("%w: no instances", ErrInvalidGrid)
	}
	cp := make([]Instance, len(instances))
	copy(cp, instances)
	return &InstanceSet{instances: cp, rate: rate}, nil
}

// initialRotation rotates by angle around the direction of pos. The origin
// has no direction, so it gets the identity rotation around +Z instead of a
// normalized zero vector.
func initialRotation(pos mgl32.Vec3, angle float32) mgl32.Quat {
	if pos.Len() < 1e-6 {
		return mgl32.QuatRotate(0, mgl32.Vec3{0, 0, 1})
	}
	return mgl32.QuatRotate(angle, pos.Normalize())
}

// Len returns the number of instances.
func (s *InstanceSet) Len() int { return len(s.instances) }

// At returns instance i.
func (s *InstanceSet) At(i int) Instance { return s.instances[i] }

// Update spins every instance around its local Y axis by rate*dt.
// Rotations are renormalized so float drift cannot introduce scale.
func (s *InstanceSet) Update(dt float32) {
	if s.rate == 0 || dt == 0 {
		return
	}
	step := mgl32.QuatRotate(s.rate*dt, Up)
	for i := range s.instances {
		s.instances[i].Rotation = s.instances[i].Rotation.Mul(step).Normalize()
	}
}

// Raw returns the model matrix of every instance. The result always has
// Len() elements.
func (s *InstanceSet) Raw() []InstanceRaw {
	raw := make([]InstanceRaw, len(s.instances))
	for i, inst := range s.instances {
		raw[i] = InstanceRaw{Model: inst.Model()}
	}
	return raw
}

// Bytes packs Raw() into GPU layout, Len()*InstanceRawSize bytes.
func (s *InstanceSet) Bytes() []byte {
	return EncodeInstances(s.Raw())
}

// EncodeInstances packs raw instances back to back.
func EncodeInstances(raw []InstanceRaw) []byte {
	buf := make([]byte, len(raw)*InstanceRawSize)
	for i := range raw {
		putFloats(buf[i*InstanceRawSize:], raw[i].Model[:])
	}
	return buf
}

// InstanceLayout returns the per-instance vertex buffer layout. The model
// matrix occupies shader locations 5 to 8, one vec4 column each.
func InstanceLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: InstanceRawSize,
		StepMode:    gputypes.VertexStepModeInstance,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 5},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 6},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 7},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 8},
		},
	}
}
