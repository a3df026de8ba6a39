// Package wgrender is a minimal frame renderer on top of gogpu/wgpu.
//
// # Overview
//
// A Renderer owns a GPU device, the presentable surface of one window and a
// registry of render pipelines. Callers compile pipelines once, get back
// opaque identifiers, and then draw every frame through a short-lived builder:
//
//	r, err := wgrender.New(window, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	shader, _ := r.LoadShader(triangleWGSL)
//	layout, _ := r.CreatePipelineLayout()
//	tri, _ := r.CreatePipeline(layout, shader)
//
//	for running {
//	    err := r.RenderPass(wgrender.CornflowerBlue, func(b *frame.Builder) error {
//	        if err := b.BindPipeline(tri); err != nil {
//	            return err
//	        }
//	        return b.Draw(frame.Span(0, 3), frame.Span(0, 1))
//	    })
//	    if errors.Is(err, frame.ErrAcquire) {
//	        _ = r.Reconfigure()
//	    }
//	}
//
// # Shaders
//
// Shaders are WGSL with two entry points, vs_main and fs_main. No vertex
// buffers are bound, so geometry comes from the vertex shader, typically from
// @builtin(vertex_index).
//
// # Frames
//
// Exactly one frame is in flight at a time. A frame either reaches the screen
// or leaves no trace: on any error before submission the frame is dropped and
// the renderer is ready for the next one. Resizes that arrive while a frame is
// being recorded are applied when the frame ends.
//
// # Errors
//
// Initialization errors (no backend, no compatible adapter, device request
// failure) are returned by New and are not retried. Frame errors are returned
// by RenderPass for that frame only. Contract violations such as an unknown
// pipeline ID, drawing before binding, or creating a pipeline during a frame
// are returned as errors, never silently ignored.
//
// # Packages
//
//   - device: backend registry and adapter selection
//   - surface: surface configuration and resize handling
//   - pipeline: shader loading and the pipeline registry
//   - frame: the per-frame recording protocol
//   - metrics: Prometheus metrics for a renderer
//
// # Logging
//
// By default nothing is logged. Use SetLogger to route diagnostics to a
// slog.Logger.
package wgrender
