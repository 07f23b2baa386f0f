// Package gpu holds the GPU side of the g3d renderer, built directly on the
// gogpu/wgpu HAL (zero CGO, Vulkan on desktop, noop for tests).
//
// # Architecture Overview
//
// Per frame the renderer drives the following components:
//
//	Context.AcquireFrame -> FrameOrchestrator.Render -> light pass -> main pass -> submit -> present
//
// Key components:
//
//   - Device: one opened (or shared) hal.Device and hal.Queue
//   - Context: device plus Surface, its SurfaceConfig and the DepthBuffer
//   - DepthBuffer: Depth32Float attachment recreated with every resize
//   - UniformBuffer / InstanceBuffer: fixed-size buffers written whole each frame
//   - GeometryBuffer: immutable vertex and index buffers of one mesh
//   - Texture: a material image uploaded as RGBA8 sRGB with its sampler
//   - PipelineSet: main and light render pipelines plus the three bind group layouts
//   - FrameOrchestrator: the per-frame protocol and its Stats
//
// # Binding Order
//
// The main pipeline expects:
//
//	group 0: material (texture_2d + sampler)
//	group 1: camera uniform
//	group 2: light uniform
//	vertex slot 0: ModelVertex, slot 1: InstanceRaw (step mode instance)
//
// The light pipeline uses group 0 camera, group 1 light and vertex slot 0
// only. The orchestrator issues the light pass first so the light marker is
// depth tested against the instanced geometry drawn after it.
//
// # Surface Errors
//
// Surface implementations report acquire failures with the sentinels in
// this package. ClassifySurfaceError sorts them into recoverable (lost,
// suboptimal), transient (outdated, timeout) and fatal (out of memory,
// device lost, anything unknown).
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. The frame loop owns
// all objects; only the package logger may be swapped from any goroutine.
package gpu
