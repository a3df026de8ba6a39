package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/wgrender/surface"
)

// glfwWindow adapts a GLFW window to wgrender.Window.
type glfwWindow struct {
	*glfw.Window
}

func newWindow(cfg Config) (*glfwWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	w, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	return &glfwWindow{Window: w}, nil
}

// InnerSize returns the framebuffer size in physical pixels.
func (w *glfwWindow) InnerSize() (uint32, uint32) {
	width, height := w.GetFramebufferSize()
	return uint32(max(width, 0)), uint32(max(height, 0)) //nolint:gosec // clamped to non-negative
}

// SurfaceHandle returns the native display and window handles.
func (w *glfwWindow) SurfaceHandle() surface.Handle {
	return nativeHandle(w.Window)
}

func (w *glfwWindow) destroy() {
	w.Destroy()
	glfw.Terminate()
}
