// Package camera provides the camera model shared by the renderer and the mirror system.
package camera

import (
	"sync/atomic"

	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// ID is a stable handle identifying a camera for its whole lifetime.
type ID uint32

var nextID atomic.Uint32

// Target is an offscreen image a camera can render into.
type Target interface {
	Size() (width, height int32)
}

// Camera is a renderable viewpoint. View, projection and culling matrices
// are derived from the transform and optics unless explicitly overridden.
type Camera struct {
	id   ID
	Name string

	Optics
	Sky Skybox

	Transform math.Transform

	// Enabled cameras are rendered automatically every frame; disabled
	// cameras render only on demand.
	Enabled bool

	CullingMask LayerMask

	// Target is nil for the default framebuffer.
	Target Target

	view          math.Mat4
	projection    math.Mat4
	culling       math.Mat4
	hasView       bool
	hasProjection bool
	hasCulling    bool

	destroyed bool
}

// New creates an enabled camera with default optics that sees every layer.
func New(name string) *Camera {
	return &Camera{
		id:          ID(nextID.Add(1)),
		Name:        name,
		Optics:      DefaultOptics(),
		Enabled:     true,
		CullingMask: AllLayers,
	}
}

// ID returns the camera's handle.
func (c *Camera) ID() ID {
	return c.id
}

// View returns the world-to-camera matrix.
func (c *Camera) View() math.Mat4 {
	if c.hasView {
		return c.view
	}
	return c.Transform.View()
}

// SetView overrides the world-to-camera matrix until ResetView is called.
func (c *Camera) SetView(m math.Mat4) {
	c.view = m
	c.hasView = true
}

// ResetView makes the view follow the transform again.
func (c *Camera) ResetView() {
	c.hasView = false
}

// Projection returns the projection matrix.
func (c *Camera) Projection() math.Mat4 {
	if c.hasProjection {
		return c.projection
	}
	return c.Optics.Projection()
}

// SetProjection overrides the projection until ResetProjection is called.
func (c *Camera) SetProjection(m math.Mat4) {
	c.projection = m
	c.hasProjection = true
}

// ResetProjection makes the projection follow the optics again.
func (c *Camera) ResetProjection() {
	c.hasProjection = false
}

// CullingMatrix returns the matrix used to cull objects, which defaults to
// projection * view.
func (c *Camera) CullingMatrix() math.Mat4 {
	if c.hasCulling {
		return c.culling
	}
	return c.ViewProjection()
}

// SetCullingMatrix overrides the culling matrix until ResetCullingMatrix is called.
func (c *Camera) SetCullingMatrix(m math.Mat4) {
	c.culling = m
	c.hasCulling = true
}

// ResetCullingMatrix makes culling follow the view projection again.
func (c *Camera) ResetCullingMatrix() {
	c.hasCulling = false
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.Projection().Mul(c.View())
}

// Destroy detaches the camera from its target. A destroyed camera must not be rendered.
func (c *Camera) Destroy() {
	c.Target = nil
	c.Enabled = false
	c.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (c *Camera) Destroyed() bool {
	return c.destroyed
}
