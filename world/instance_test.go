package world

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

func TestInstanceGridPositions(t *testing.T) {
	set, err := NewInstanceGrid(GridConfig{PerRow: 2, Spacing: 3})
	if err != nil {
		t.Fatalf("NewInstanceGrid: %v", err)
	}
	want := []mgl32.Vec3{
		{-1.5, 0, -1.5},
		{1.5, 0, -1.5},
		{-1.5, 0, 1.5},
		{1.5, 0, 1.5},
	}
	if set.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", set.Len(), len(want))
	}
	for i, w := range want {
		if got := set.At(i).Position; got != w {
			t.Errorf("instance %d at %v, want %v", i, got, w)
		}
	}
}

func TestInstanceGridSymmetric(t *testing.T) {
	set, err := NewInstanceGrid(GridConfig{PerRow: 5, Spacing: 1.5})
	if err != nil {
		t.Fatalf("NewInstanceGrid: %v", err)
	}
	var sum mgl32.Vec3
	for i := 0; i < set.Len(); i++ {
		sum = sum.Add(set.At(i).Position)
	}
	if !vecNear(sum, mgl32.Vec3{}, 1e-4) {
		t.Errorf("grid centroid = %v, want origin", sum.Mul(1/float32(set.Len())))
	}
}

func TestInstanceRawLength(t *testing.T) {
	for perRow := 1; perRow <= 6; perRow++ {
		set, err := NewInstanceGrid(GridConfig{PerRow: perRow, Spacing: 1, InitialAngle: 0.7, RotationRate: 2})
		if err != nil {
			t.Fatalf("NewInstanceGrid(%d): %v", perRow, err)
		}
		n := perRow * perRow
		if got := len(set.Raw()); got != n {
			t.Errorf("PerRow=%d: len(Raw) = %d, want %d", perRow, got, n)
		}
		for i := 0; i < 50; i++ {
			set.Update(1.0 / 60)
		}
		if got := len(set.Raw()); got != n {
			t.Errorf("PerRow=%d after updates: len(Raw) = %d, want %d", perRow, got, n)
		}
		if got := len(set.Bytes()); got != n*InstanceRawSize {
			t.Errorf("PerRow=%d: len(Bytes) = %d, want %d", perRow, got, n*InstanceRawSize)
		}
	}
}

func TestInstanceAtOriginHasNoNaN(t *testing.T) {
	for _, perRow := range []int{1, 3, 5} {
		set, err := NewInstanceGrid(GridConfig{PerRow: perRow, Spacing: 2, InitialAngle: mgl32.DegToRad(45), RotationRate: 1})
		if err != nil {
			t.Fatalf("NewInstanceGrid: %v", err)
		}
		center := set.Len() / 2
		if p := set.At(center).Position; p != (mgl32.Vec3{}) {
			t.Fatalf("PerRow=%d: center instance at %v, want origin", perRow, p)
		}
		if m := set.Raw()[center].Model; !matNear(m, mgl32.Ident4(), 1e-6) {
			t.Errorf("PerRow=%d: origin model = %v, want identity", perRow, m)
		}
		set.Update(0.25)
		for i, r := range set.Raw() {
			if hasNaN(r.Model) {
				t.Errorf("PerRow=%d: instance %d has NaN model", perRow, i)
			}
		}
	}
}

func TestInstanceUpdateKeepsUnitRotation(t *testing.T) {
	set, err := NewInstanceGrid(GridConfig{PerRow: 3, Spacing: 1, InitialAngle: 1, RotationRate: 3})
	if err != nil {
		t.Fatalf("NewInstanceGrid: %v", err)
	}
	for i := 0; i < 10000; i++ {
		set.Update(0.016)
	}
	for i := 0; i < set.Len(); i++ {
		if l := set.At(i).Rotation.Len(); l < 0.9999 || l > 1.0001 {
			t.Errorf("instance %d rotation length = %v", i, l)
		}
	}
}

func TestInstanceUpdateRotatesAroundY(t *testing.T) {
	set, err := NewInstanceSet([]Instance{{Rotation: mgl32.QuatIdent()}}, mgl32.DegToRad(90))
	if err != nil {
		t.Fatalf("NewInstanceSet: %v", err)
	}
	set.Update(1)
	got := set.At(0).Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	if !vecNear(got, mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("rotated +X = %v, want (0,0,-1)", got)
	}
}

func TestInstanceGridInvalid(t *testing.T) {
	for _, cfg := range []GridConfig{{PerRow: 0, Spacing: 1}, {PerRow: -2, Spacing: 1}, {PerRow: 2, Spacing: -1}} {
		if _, err := NewInstanceGrid(cfg); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("NewInstanceGrid(%+v) err = %v, want ErrInvalidGrid", cfg, err)
		}
	}
	if _, err := NewInstanceSet(nil, 0); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("NewInstanceSet(nil) err = %v, want ErrInvalidGrid", err)
	}
}

func TestEncodeInstancesColumnMajor(t *testing.T) {
	raw := []InstanceRaw{{Model: mgl32.Translate3D(1, 2, 3)}}
	b := EncodeInstances(raw)
	if len(b) != InstanceRawSize {
		t.Fatalf("len = %d, want %d", len(b), InstanceRawSize)
	}
	// Translation lives in the fourth column, bytes 48..59.
	var col [4]float32
	getFloats(b[48:], col[:])
	if col != [4]float32{1, 2, 3, 1} {
		t.Errorf("fourth column = %v, want [1 2 3 1]", col)
	}
}

func TestInstanceLayout(t *testing.T) {
	l := InstanceLayout()
	if l.ArrayStride != InstanceRawSize {
		t.Errorf("ArrayStride = %d, want %d", l.ArrayStride, InstanceRawSize)
	}
	if l.StepMode != gputypes.VertexStepModeInstance {
		t.Errorf("StepMode = %v, want Instance", l.StepMode)
	}
	for i, a := range l.Attributes {
		if a.ShaderLocation != uint32(5+i) || a.Offset != uint64(16*i) {
			t.Errorf("attribute %d = location %d offset %d", i, a.ShaderLocation, a.Offset)
		}
	}
}
