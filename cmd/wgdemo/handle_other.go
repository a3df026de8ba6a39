//go:build !(linux && !wayland) && !windows

package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/wgrender/surface"
)

// nativeHandle returns an empty handle. Surface creation then fails and the
// demo can only run with --backend noop.
func nativeHandle(*glfw.Window) surface.Handle {
	return surface.Handle{}
}
