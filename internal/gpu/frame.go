package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultClearColor is the background of every frame unless overridden.
var DefaultClearColor = gputypes.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// FrameStats counts frame outcomes since the orchestrator was created.
type FrameStats struct {
	// Frames is the number of frames presented.
	Frames uint64
	// Reconfigurations counts surface reconfigurations, both resizes and
	// recoveries from lost or suboptimal surfaces.
	Reconfigurations uint64
	// Skipped counts frames dropped because of a recoverable or transient
	// surface error.
	Skipped uint64
}

// FrameOrchestrator drives one frame at a time: acquire, record, submit,
// wait, present. It is not safe for concurrent use.
type FrameOrchestrator struct {
	ctx       *Context
	pipelines *PipelineSet
	clear     gputypes.Color
	stats     FrameStats
}

// NewFrameOrchestrator returns an orchestrator rendering with pipelines
// into ctx.
func NewFrameOrchestrator(ctx *Context, pipelines *PipelineSet) *FrameOrchestrator {
	return &FrameOrchestrator{ctx: ctx, pipelines: pipelines, clear: DefaultClearColor}
}

// SetClearColor sets the color attachment clear value.
func (f *FrameOrchestrator) SetClearColor(c gputypes.Color) { f.clear = c }

// ClearColor returns the clear value.
func (f *FrameOrchestrator) ClearColor() gputypes.Color { return f.clear }

// Stats returns the frame counters.
func (f *FrameOrchestrator) Stats() FrameStats { return f.stats }

// Resize reconfigures the surface and depth buffer. Zero dimensions are
// ignored and reported as false.
func (f *FrameOrchestrator) Resize(width, height uint32) (bool, error) {
	applied, err := f.ctx.Reconfigure(width, height)
	if err != nil {
		return false, &FrameError{Kind: classifyKind(err), Op: "resize", Err: err}
	}
	if applied {
		f.stats.Reconfigurations++
	}
	return applied, nil
}

// Render draws scene into the next surface frame. A nil error means the
// frame was presented. Skipped frames return a *FrameError of kind
// Recoverable or Transient; rendering may continue. Fatal and Setup kinds
// mean it may not (see IsFatal).
func (f *FrameOrchestrator) Render(scene *FrameScene) error {
	if scene == nil {
		return &FrameError{Kind: FrameErrorSetup, Op: "validate", Err: fmt.Errorf("%w: nil scene", ErrMissingBinding)}
	}
	if err := scene.validate(f.pipelines); err != nil {
		return &FrameError{Kind: FrameErrorSetup, Op: "validate", Err: err}
	}

	target, err := f.ctx.AcquireFrame()
	if err != nil {
		return f.surfaceFailure("acquire", err)
	}

	if err := f.encode(target, scene); err != nil {
		f.ctx.Discard()
		return &FrameError{Kind: FrameErrorFatal, Op: "encode", Err: err}
	}

	if err := f.ctx.Present(); err != nil {
		return f.surfaceFailure("present", err)
	}
	f.stats.Frames++
	return nil
}

// encode records and submits the frame, waiting for the GPU to finish.
func (f *FrameOrchestrator) encode(target *FrameTarget, scene *FrameScene) error {
	device := f.ctx.Device()
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "render_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "render_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target.View,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: f.clear,
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:            target.Depth,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	recordFrame(pass, f.pipelines, scene)
	pass.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	return submitAndWait(device, f.ctx.Queue(), cmd)
}

// surfaceFailure applies the recovery policy for err and wraps it.
func (f *FrameOrchestrator) surfaceFailure(op string, err error) error {
	switch ClassifySurfaceError(err) {
	case SurfaceErrorRecoverable:
		f.stats.Skipped++
		if rerr := f.ctx.ReconfigureCurrent(); rerr != nil {
			slogger().Error("gpu: reconfigure after surface loss failed", "err", rerr)
			return &FrameError{Kind: FrameErrorFatal, Op: "reconfigure", Err: rerr}
		}
		f.stats.Reconfigurations++
		cfg := f.ctx.Config()
		slogger().Warn("gpu: surface reconfigured, frame skipped",
			"op", op, "width", cfg.Width, "height", cfg.Height, "err", err)
		return &FrameError{Kind: FrameErrorRecoverable, Op: op, Err: err}
	case SurfaceErrorTransient:
		f.stats.Skipped++
		slogger().Warn("gpu: frame skipped", "op", op, "err", err)
		return &FrameError{Kind: FrameErrorTransient, Op: op, Err: err}
	default:
		slogger().Error("gpu: fatal surface error", "op", op, "err", err)
		return &FrameError{Kind: FrameErrorFatal, Op: op, Err: err}
	}
}

func classifyKind(err error) FrameErrorKind {
	switch ClassifySurfaceError(err) {
	case SurfaceErrorRecoverable:
		return FrameErrorRecoverable
	case SurfaceErrorTransient:
		return FrameErrorTransient
	default:
		return FrameErrorFatal
	}
}
