// Package g3d is a real-time 3D renderer core built on gogpu/wgpu.
//
// # Overview
//
// g3d draws a grid of instanced, textured models lit by an orbiting point
// light. A fly camera is driven by keyboard, mouse and scroll input. The
// renderer owns the GPU side of a frame: surface configuration, the depth
// buffer, uniform and instance buffers, the render pipelines and a frame
// loop that survives lost and outdated surfaces.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/g3d"
//	    _ "github.com/gogpu/wgpu/hal/vulkan"
//	)
//
//	dev, err := g3d.OpenDevice(g3d.DeviceOptions{Backend: gputypes.BackendVulkan})
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
//	surface := g3d.NewOffscreenSurface(dev.Queue())
//	r, err := g3d.New(dev, surface, 800, 600)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	if err := r.Update(16 * time.Millisecond); err != nil {
//	    return err
//	}
//	if err := r.Render(); g3d.IsFatal(err) {
//	    return err
//	}
//	img := surface.Image()
//
// # Architecture
//
// The module is organized into:
//   - g3d: Renderer, Config and options, input events, errors, logging
//   - world: camera, controller, projection, instances, light and meshes,
//     all CPU side and free of GPU types except vertex layouts
//   - internal/gpu: device, surfaces, buffers, textures, pipelines and the
//     frame orchestrator
//
// # Coordinate System
//
// Right-handed world space with +Y up. Yaw 0 looks along +X, yaw -90° looks
// along -Z. Clip space depth is [0, 1] as WebGPU expects.
//
// # Errors
//
// Render returns a *FrameError for every frame it does not present. Lost and
// suboptimal surfaces are reconfigured, outdated surfaces and timeouts are
// retried on the next frame. IsFatal tells the caller when to stop.
package g3d

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
