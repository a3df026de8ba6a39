// Package pipeline stores compiled render pipelines behind opaque identifiers.
//
// A Registry hands out an ID for every pipeline it creates. IDs are assigned in
// creation order, are never reused, and stay valid until the registry is
// destroyed. Callers never see the underlying hal.RenderPipeline: a frame binds a
// pipeline through a read-only View, which resolves the ID and records the bind
// on the render pass.
//
// All pipelines share one fixed configuration:
//
//   - vertex entry point "vs_main", fragment entry point "fs_main"
//   - triangle list topology, counter-clockwise front face, back-face culling
//   - filled polygons, no depth/stencil attachment, single sample
//   - one color target in the surface format, no blending
//
// Shaders are WGSL. LoadShader checks the two entry points, compiles the source to
// SPIR-V with naga and creates the hal shader module from the SPIR-V words.
//
// Registry, View and ShaderCache are not safe for concurrent use. They are owned
// by a single-threaded renderer.
package pipeline
