package gpu

import (
	"errors"
	"slices"
	"testing"
)

func TestRecordFrameLitWithLightPass(t *testing.T) {
	p := fakePipelines(PipelineConfig{Lighting: true, LightPass: true})
	pass := &recordingPass{}
	recordFrame(pass, p, fakeScene(100))

	want := []string{
		"pipeline light",
		"group 0 camera",
		"group 1 light_uniform",
		"vertex 0 cube_vb",
		"index cube_ib 1",
		"draw 36 x1",
		"pipeline main",
		"group 0 material",
		"group 1 camera",
		"group 2 light_uniform",
		"vertex 0 cube_vb",
		"vertex 1 instances",
		"index cube_ib 1",
		"draw 36 x100",
	}
	if !slices.Equal(pass.calls, want) {
		t.Errorf("calls:\n got %q\nwant %q", pass.calls, want)
	}
}

func TestRecordFrameUnlit(t *testing.T) {
	p := fakePipelines(PipelineConfig{})
	pass := &recordingPass{}
	recordFrame(pass, p, fakeScene(4))

	want := []string{
		"pipeline main",
		"group 0 material",
		"group 1 camera",
		"vertex 0 cube_vb",
		"vertex 1 instances",
		"index cube_ib 1",
		"draw 36 x4",
	}
	if !slices.Equal(pass.calls, want) {
		t.Errorf("calls:\n got %q\nwant %q", pass.calls, want)
	}
}

func TestRecordFrameRebindsPerMesh(t *testing.T) {
	p := fakePipelines(PipelineConfig{Lighting: true})
	scene := fakeScene(9)
	scene.Meshes = append(scene.Meshes, DrawMesh{
		Geometry: fakeGeometry("pentagon", 9),
		Material: &fakeResource{name: "material2"},
	})
	pass := &recordingPass{}
	recordFrame(pass, p, scene)

	pipelines := 0
	for _, c := range pass.calls {
		if c == "pipeline main" {
			pipelines++
		}
	}
	if pipelines != 1 {
		t.Errorf("main pipeline bound %d times, want 1", pipelines)
	}
	tail := pass.calls[len(pass.calls)-7:]
	want := []string{
		"group 0 material2",
		"group 1 camera",
		"group 2 light_uniform",
		"vertex 0 pentagon_vb",
		"vertex 1 instances",
		"index pentagon_ib 1",
		"draw 9 x9",
	}
	if !slices.Equal(tail, want) {
		t.Errorf("second mesh:\n got %q\nwant %q", tail, want)
	}
}

func TestFrameSceneValidate(t *testing.T) {
	lit := PipelineConfig{Lighting: true, LightPass: true}
	tests := []struct {
		name   string
		cfg    PipelineConfig
		mutate func(*FrameScene)
	}{
		{"no camera", lit, func(s *FrameScene) { s.Camera = nil }},
		{"no light when lit", lit, func(s *FrameScene) { s.Light = nil }},
		{"no instances", lit, func(s *FrameScene) { s.Instances = nil }},
		{"zero instances", lit, func(s *FrameScene) { s.Instances.count = 0 }},
		{"no material", lit, func(s *FrameScene) { s.Meshes[0].Material = nil }},
		{"no geometry", lit, func(s *FrameScene) { s.Meshes[0].Geometry = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fakeScene(4)
			tt.mutate(s)
			err := s.validate(fakePipelines(tt.cfg))
			if !errors.Is(err, ErrMissingBinding) {
				t.Errorf("validate() = %v, want ErrMissingBinding", err)
			}
		})
	}

	t.Run("unlit without light", func(t *testing.T) {
		s := fakeScene(4)
		s.Light = nil
		if err := s.validate(fakePipelines(PipelineConfig{})); err != nil {
			t.Errorf("validate() = %v", err)
		}
	})
	t.Run("no pipelines", func(t *testing.T) {
		if err := fakeScene(1).validate(nil); !errors.Is(err, ErrMissingBinding) {
			t.Errorf("validate(nil) = %v", err)
		}
	})
}
