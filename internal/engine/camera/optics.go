package camera

import "github.com/Faultbox/midgard-mirror/pkg/math"

// ClearMode selects what a camera clears its target to before drawing.
type ClearMode int

const (
	ClearSkybox ClearMode = iota
	ClearSolidColor
	ClearDepth
	ClearNothing
)

// RenderingPath selects the lighting pipeline used for a camera.
type RenderingPath int

const (
	PathForward RenderingPath = iota
	PathDeferred
	PathVertexLit
)

// Optics holds the projection and clear settings of a camera.
type Optics struct {
	Clear      ClearMode
	Background [4]float32

	Near, Far    float32
	Orthographic bool
	FOV          float32 // Vertical field of view in degrees
	Aspect       float32 // Width / height
	OrthoSize    float32 // Half the vertical size of an orthographic view

	Path RenderingPath
}

// DefaultOptics returns a 60 degree perspective with a skybox clear.
func DefaultOptics() Optics {
	return Optics{
		Clear:      ClearSkybox,
		Background: [4]float32{0.19, 0.3, 0.47, 1},
		Near:       0.3,
		Far:        1000,
		FOV:        60,
		Aspect:     1,
		OrthoSize:  5,
		Path:       PathForward,
	}
}

// Projection builds the projection matrix described by the optics.
func (o Optics) Projection() math.Mat4 {
	if o.Orthographic {
		h := o.OrthoSize
		w := h * o.Aspect
		return math.Ortho(-w, w, -h, h, o.Near, o.Far)
	}
	return math.Perspective(o.FOV*math.DegToRad, o.Aspect, o.Near, o.Far)
}

// Skybox is the sky component attached to a camera.
type Skybox struct {
	Enabled  bool
	Material string
}

// CopyOptics copies the optical settings of src to dst. When src clears to
// the skybox, dst's sky is enabled only if src has a sky material.
func CopyOptics(src, dst *Camera) {
	dst.Optics = src.Optics

	if src.Clear == ClearSkybox {
		if src.Sky.Material == "" {
			dst.Sky.Enabled = false
		} else {
			dst.Sky.Enabled = true
			dst.Sky.Material = src.Sky.Material
		}
	}
}
