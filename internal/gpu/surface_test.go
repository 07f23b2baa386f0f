package gpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestClassifySurfaceError(t *testing.T) {
	tests := []struct {
		err  error
		want SurfaceErrorClass
	}{
		{nil, SurfaceErrorNone},
		{ErrSurfaceLost, SurfaceErrorRecoverable},
		{fmt.Errorf("acquire: %w", ErrSurfaceLost), SurfaceErrorRecoverable},
		{hal.ErrSurfaceLost, SurfaceErrorRecoverable},
		{ErrSurfaceSuboptimal, SurfaceErrorRecoverable},
		{ErrSurfaceOutdated, SurfaceErrorTransient},
		{hal.ErrSurfaceOutdated, SurfaceErrorTransient},
		{ErrSurfaceTimeout, SurfaceErrorTransient},
		{hal.ErrTimeout, SurfaceErrorTransient},
		{ErrOutOfMemory, SurfaceErrorFatal},
		{ErrDeviceLost, SurfaceErrorFatal},
		{hal.ErrDeviceLost, SurfaceErrorFatal},
		{errors.New("unknown"), SurfaceErrorFatal},
	}
	for _, tt := range tests {
		if got := ClassifySurfaceError(tt.err); got != tt.want {
			t.Errorf("ClassifySurfaceError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestMapHALSurfaceError(t *testing.T) {
	tests := []struct {
		in   error
		want error
	}{
		{hal.ErrSurfaceLost, ErrSurfaceLost},
		{hal.ErrSurfaceOutdated, ErrSurfaceOutdated},
		{hal.ErrTimeout, ErrSurfaceTimeout},
		{hal.ErrDeviceOutOfMemory, ErrOutOfMemory},
		{hal.ErrDeviceLost, ErrDeviceLost},
	}
	for _, tt := range tests {
		got := mapHALSurfaceError(tt.in)
		if !errors.Is(got, tt.want) || !errors.Is(got, tt.in) {
			t.Errorf("mapHALSurfaceError(%v) = %v, want wrap of %v", tt.in, got, tt.want)
		}
	}
}

func TestFrameErrorString(t *testing.T) {
	err := &FrameError{Kind: FrameErrorRecoverable, Op: "acquire", Err: ErrSurfaceLost}
	want := "gpu: Recoverable frame error during acquire: gpu: surface lost"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrSurfaceLost) {
		t.Error("FrameError does not unwrap")
	}
	if IsFatal(nil) || IsFatal(err) {
		t.Error("IsFatal misclassified")
	}
	if !IsFatal(errors.New("plain")) {
		t.Error("plain errors should be fatal")
	}
	if FrameErrorKind(9).String() != "FrameErrorKind(9)" {
		t.Errorf("unknown kind = %q", FrameErrorKind(9).String())
	}
}

func TestOffscreenSurface(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	s := NewOffscreenSurface(queue)
	if _, err := s.Acquire(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Acquire before Configure err = %v", err)
	}
	formats := s.Formats()
	if len(formats) != 1 || formats[0] != gputypes.TextureFormatRGBA8Unorm {
		t.Fatalf("Formats() = %v", formats)
	}

	cfg := SurfaceConfig{Width: 100, Height: 50, Format: formats[0]}
	if err := s.Configure(device, cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if s.bytesPerRow != 512 {
		t.Errorf("bytesPerRow = %d, want 512", s.bytesPerRow)
	}
	if err := s.Present(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Present without Acquire err = %v", err)
	}
	if _, err := s.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	img := s.Image()
	if img == nil || img.Rect.Dx() != 100 || img.Rect.Dy() != 50 {
		t.Fatalf("Image() = %v", img)
	}
	if _, err := s.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	s.Discard()
	if err := s.Present(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Present after Discard err = %v", err)
	}

	bad := cfg
	bad.Format = gputypes.TextureFormatBGRA8Unorm
	if err := s.Configure(device, bad); err == nil {
		t.Error("unsupported format accepted")
	}
	bad = cfg
	bad.Width = 0
	if err := s.Configure(device, bad); !errors.Is(err, ErrZeroSize) {
		t.Errorf("zero width err = %v", err)
	}
	s.Unconfigure()
	if _, err := s.Acquire(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Acquire after Unconfigure err = %v", err)
	}
}

func TestOpenDeviceNoop(t *testing.T) {
	dev, err := OpenDevice(DeviceOptions{Backend: gputypes.BackendEmpty})
	if err != nil {
		t.Fatalf("OpenDevice: %v", err)
	}
	defer dev.Close()
	if dev.HAL() == nil || dev.Queue() == nil || dev.Shared() {
		t.Errorf("device = %+v", dev)
	}
	if dev.Info().Name == "" {
		t.Error("adapter info missing")
	}
}

type fakeProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p fakeProvider) HalDevice() any { return p.device }
func (p fakeProvider) HalQueue() any  { return p.queue }

func TestDeviceFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	dev, err := DeviceFromProvider(fakeProvider{device: device, queue: queue})
	if err != nil {
		t.Fatalf("DeviceFromProvider: %v", err)
	}
	if !dev.Shared() || dev.HAL() != device {
		t.Errorf("shared device not wrapped")
	}
	dev.Close()

	if _, err := DeviceFromProvider(struct{}{}); err == nil {
		t.Error("provider without HAL accepted")
	}
	if _, err := DeviceFromProvider(fakeProvider{}); err == nil {
		t.Error("provider with nil device accepted")
	}
}
