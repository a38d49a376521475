// Package mirror renders planar reflections for mirror surfaces.
//
// Each frame the application calls Surface.Render once for every camera
// that is about to draw the surface. The surface keeps one auxiliary camera
// per viewing camera, renders the scene mirrored across its plane into a
// shared offscreen target and binds that target to the surface material.
//
// Everything in this package runs on the render thread.
package mirror

import "github.com/Faultbox/midgard-mirror/internal/engine/camera"

// ReflectionTextureSlot is the material slot the reflection is bound to.
const ReflectionTextureSlot = "_ReflectionTex"

// MaxTargetSize is the largest reflection target side length.
const MaxTargetSize = 8192

// TargetDepthBits is the depth buffer precision of reflection targets.
const TargetDepthBits = 16

// Target is a square offscreen image owned by a Surface.
type Target interface {
	camera.Target
	Destroy()
}

// Host is the rendering backend a Surface draws through.
type Host interface {
	// Render draws the scene from cam into cam.Target and returns once the
	// draw has been issued. It is called from inside the host's own frame,
	// possibly while the host is in the middle of another Render, so
	// implementations must be reentrant.
	Render(cam *camera.Camera) error

	// NewTarget allocates a size x size target with the given depth precision.
	NewTarget(size, depthBits int32) (Target, error)

	// InvertCulling reports whether front/back face winding is inverted.
	InvertCulling() bool
	SetInvertCulling(invert bool)

	// PixelLightCount is the number of per-pixel lights draws may use.
	PixelLightCount() int
	SetPixelLightCount(count int)
}

// Material receives the reflection image.
type Material interface {
	SetTexture(slot string, t camera.Target)
}

// Renderable is the draw component of a mirror surface.
type Renderable interface {
	Enabled() bool
	Material() Material
}
