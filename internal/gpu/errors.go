package gpu

import (
	"errors"
	"fmt"
)

// Setup and programmer errors.
var (
	// ErrBackendUnavailable is returned when the requested HAL backend is not
	// registered in this build.
	ErrBackendUnavailable = errors.New("gpu: backend not available")

	// ErrNoAdapter is returned when the backend exposes no adapters.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrNoSurfaceFormat is returned when the surface reports no formats.
	ErrNoSurfaceFormat = errors.New("gpu: surface reports no formats")

	// ErrZeroSize is returned when creating a size-dependent resource with a
	// zero dimension.
	ErrZeroSize = errors.New("gpu: zero width or height")

	// ErrMissingBinding is returned when a frame is submitted without one of
	// the resources its pipelines need.
	ErrMissingBinding = errors.New("gpu: missing binding")

	// ErrInstanceCountMismatch is returned when an instance buffer write does
	// not match the buffer's fixed instance count.
	ErrInstanceCountMismatch = errors.New("gpu: instance count mismatch")

	// ErrSizeMismatch is returned for uniform writes that would not replace
	// the whole buffer.
	ErrSizeMismatch = errors.New("gpu: write size does not match buffer size")

	// ErrShaderCompile wraps WGSL compilation failures.
	ErrShaderCompile = errors.New("gpu: shader compilation failed")

	// ErrNotConfigured is returned when using a surface before Configure.
	ErrNotConfigured = errors.New("gpu: surface not configured")

	// ErrClosed is returned by a context after Destroy.
	ErrClosed = errors.New("gpu: context closed")
)

// FrameErrorKind tells the caller how to react to a failed frame.
type FrameErrorKind uint8

const (
	// FrameErrorRecoverable means the surface was reconfigured and the frame
	// skipped. Rendering continues on the next tick.
	FrameErrorRecoverable FrameErrorKind = iota

	// FrameErrorTransient means the frame was skipped without action.
	FrameErrorTransient

	// FrameErrorFatal means the device or surface cannot be used anymore.
	FrameErrorFatal

	// FrameErrorSetup means the renderer was driven with an incomplete or
	// invalid configuration.
	FrameErrorSetup
)

// String returns the kind name.
func (k FrameErrorKind) String() string {
	switch k {
	case FrameErrorRecoverable:
		return "Recoverable"
	case FrameErrorTransient:
		return "Transient"
	case FrameErrorFatal:
		return "Fatal"
	case FrameErrorSetup:
		return "Setup"
	default:
		return fmt.Sprintf("FrameErrorKind(%d)", k)
	}
}

// FrameError is returned by FrameOrchestrator.Render for failures the
// caller has to act on.
type FrameError struct {
	Kind FrameErrorKind
	Op   string
	Err  error
}

func (e *FrameError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("gpu: %s frame error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("gpu: %s frame error during %s: %v", e.Kind, e.Op, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// IsFatal reports whether err means rendering has to stop: a fatal or setup
// frame error, or any error that is not a FrameError.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var fe *FrameError
	if !errors.As(err, &fe) {
		return true
	}
	return fe.Kind == FrameErrorFatal || fe.Kind == FrameErrorSetup
}
