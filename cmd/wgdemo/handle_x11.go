//go:build linux && !wayland

package main

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/wgrender/surface"
)

func nativeHandle(w *glfw.Window) surface.Handle {
	return surface.Handle{
		Display: uintptr(unsafe.Pointer(glfw.GetX11Display())),
		Window:  uintptr(w.GetX11Window()),
	}
}
