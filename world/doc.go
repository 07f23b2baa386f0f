// Package world holds the CPU-side state of a 3D scene: the camera and its
// controller, the perspective projection, the instance grid, the point light
// and the mesh data handed over by asset loaders.
//
// Everything in this package is plain data plus pure functions. Values that
// end up on the GPU (CameraUniform, InstanceRaw, LightUniform, ModelVertex)
// know how to encode themselves into the exact byte layout the WGSL shaders
// expect: little-endian float32, column-major matrices, 16-byte aligned
// vec3 members.
//
// # Coordinate Conventions
//
// World space is right-handed with +Y up. The projection matrix is an OpenGL
// style perspective matrix multiplied by [OpenGLToWGPU], which remaps clip
// space Z from -1..1 to the 0..1 depth range used by WebGPU.
//
// # Derivation
//
// Camera and Projection are the inputs, CameraUniform is the output:
//
//	u := world.NewCameraUniform(camera, projection)
//	buf := u.Bytes() // 80 bytes, written whole into the camera uniform buffer
//
// There is no cached uniform object observing its inputs; a new value is
// produced every frame.
package world
