package main

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xlab/closer"

	"github.com/gogpu/wgrender"
	"github.com/gogpu/wgrender/frame"
	"github.com/gogpu/wgrender/pipeline"
)

//go:embed triangle.wgsl
var triangleWGSL string

func run(cfg Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	wgrender.SetLogger(logger)

	background, err := cfg.ClearColor()
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		stop, err := serveMetrics(cfg.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		closer.Bind(stop)
		defer stop()
		opts = append(opts, wgrender.WithMetrics(reg))
	}

	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.destroy()

	r, err := wgrender.New(win, nil, opts...)
	if err != nil {
		return err
	}
	defer r.Close()
	logger.Info("renderer ready", "adapter", r.Info().String(), "format", r.SurfaceFormat())

	tri, err := createTriangle(r)
	if err != nil {
		return err
	}

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if err := r.Resize(uint32(max(width, 0)), uint32(max(height, 0))); err != nil { //nolint:gosec // clamped
			logger.Debug("resize skipped", "width", width, "height", height, "error", err)
		}
	})

	for frames := 0; !win.ShouldClose(); {
		glfw.PollEvents()
		if w, h := win.InnerSize(); w == 0 || h == 0 {
			// Minimized: nothing to present until the window is restored.
			glfw.WaitEvents()
			continue
		}

		err := r.RenderPass(background, func(b *frame.Builder) error {
			if err := b.BindPipeline(tri); err != nil {
				return err
			}
			return b.Draw(frame.Span(0, 3), frame.Span(0, 1))
		})
		switch {
		case errors.Is(err, frame.ErrAcquire):
			logger.Warn("surface lost, reconfiguring", "error", err)
			if err := r.Reconfigure(); err != nil {
				return err
			}
			continue
		case err != nil:
			return err
		}

		frames++
		if cfg.Frames > 0 && frames >= cfg.Frames {
			break
		}
	}
	return nil
}

func createTriangle(r *wgrender.Renderer) (pipeline.ID, error) {
	shader, err := r.LoadShader(triangleWGSL)
	if err != nil {
		return pipeline.ID{}, err
	}
	layout, err := r.CreatePipelineLayout()
	if err != nil {
		return pipeline.ID{}, err
	}
	return r.CreatePipeline(layout, shader)
}
