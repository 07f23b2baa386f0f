package g3d

import (
	"errors"

	"github.com/gogpu/g3d/internal/gpu"
)

// Renderer errors.
var (
	// ErrClosed is returned by a Renderer after Close.
	ErrClosed = errors.New("g3d: renderer closed")

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("g3d: invalid config")
)

// Errors reported by Surface implementations. Render reconfigures on lost
// or suboptimal surfaces, skips the frame on outdated surfaces and
// timeouts, and gives up on everything else.
var (
	ErrSurfaceLost       = gpu.ErrSurfaceLost
	ErrSurfaceSuboptimal = gpu.ErrSurfaceSuboptimal
	ErrSurfaceOutdated   = gpu.ErrSurfaceOutdated
	ErrSurfaceTimeout    = gpu.ErrSurfaceTimeout
	ErrOutOfMemory       = gpu.ErrOutOfMemory
	ErrDeviceLost        = gpu.ErrDeviceLost
	ErrMissingBinding    = gpu.ErrMissingBinding
)

// FrameError is returned by Render and Resize for failures the caller has
// to act on. Its Kind says how.
type FrameError = gpu.FrameError

// FrameErrorKind classifies a FrameError.
type FrameErrorKind = gpu.FrameErrorKind

// Frame error kinds.
const (
	FrameErrorRecoverable = gpu.FrameErrorRecoverable
	FrameErrorTransient   = gpu.FrameErrorTransient
	FrameErrorFatal       = gpu.FrameErrorFatal
	FrameErrorSetup       = gpu.FrameErrorSetup
)

// IsFatal reports whether err means rendering has to stop. Recoverable and
// transient frame errors only skip the current frame.
func IsFatal(err error) bool { return gpu.IsFatal(err) }
