//go:build windows

package main

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/wgrender/surface"
)

func nativeHandle(w *glfw.Window) surface.Handle {
	return surface.Handle{Window: uintptr(unsafe.Pointer(w.GetWin32Window()))}
}
