// Package glhost draws scenes with OpenGL and implements the rendering host
// mirror surfaces render their reflections through.
package glhost

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-mirror/internal/engine/lighting"
	"github.com/Faultbox/midgard-mirror/internal/engine/shader"
	"github.com/Faultbox/midgard-mirror/internal/logger"
	"github.com/Faultbox/midgard-mirror/internal/mirror"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

var _ mirror.Host = (*Renderer)(nil)

// ErrCameraDestroyed is returned when rendering a destroyed camera.
var ErrCameraDestroyed = errors.New("camera destroyed")

// Stats describes the last outermost Render call.
type Stats struct {
	Drawn  int
	Culled int
	Lights int
}

// Renderer is an OpenGL scene renderer. It must be created and used on the
// thread owning the GL context.
type Renderer struct {
	Scene  *Scene
	Lights *lighting.Buffer
	Sun    lighting.Sun

	// Skies maps skybox material names to the color the sky clears to.
	Skies map[string][4]float32

	lit    *shader.Program
	mirror *shader.Program
	meshes map[Shape]*mesh

	width, height int32
	invertCulling bool
	pixelLights   int

	visible []*Object
	stats   Stats
	depth   int // Render calls in progress
}

// New compiles the shaders and uploads the built-in meshes. gl.Init must
// have been called. The renderer starts with an empty scene.
func New(pixelLights int) (*Renderer, error) {
	lit, err := shader.New(litVertexShader, litFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("lit shader: %w", err)
	}
	mp, err := shader.New(mirrorVertexShader, mirrorFragmentShader)
	if err != nil {
		lit.Delete()
		return nil, fmt.Errorf("mirror shader: %w", err)
	}

	r := &Renderer{
		Scene:       NewScene(),
		Lights:      lighting.NewBuffer(),
		Sun:         lighting.DefaultSun(),
		Skies:       make(map[string][4]float32),
		lit:         lit,
		mirror:      mp,
		meshes:      make(map[Shape]*mesh),
		pixelLights: pixelLights,
	}
	for _, s := range []Shape{ShapeCube, ShapeQuad} {
		r.meshes[s] = uploadMesh(shapeVertices(s))
	}

	logger.Debug("gl renderer ready",
		zap.String("gl_version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Int("pixel_lights", pixelLights))

	return r, nil
}

// SetViewport sets the size of the default framebuffer.
func (r *Renderer) SetViewport(width, height int32) {
	r.width, r.height = width, height
}

// Stats returns counters for the last Render call.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Render draws the scene from cam into cam.Target, or into the default
// framebuffer when the camera has no target.
func (r *Renderer) Render(cam *camera.Camera) error {
	if cam == nil || cam.Destroyed() {
		return ErrCameraDestroyed
	}

	if cam.Target != nil {
		fb, ok := cam.Target.(*framebuffer.Framebuffer)
		if !ok {
			return fmt.Errorf("camera %s: unsupported target %T", cam.Name, cam.Target)
		}
		restore := fb.Bind()
		defer restore()
	} else {
		gl.Viewport(0, 0, r.width, r.height)
	}

	r.resetState()

	bits, color := clearState(cam, r.Skies)
	if bits != 0 {
		gl.ClearColor(color[0], color[1], color[2], color[3])
		gl.Clear(bits)
	}

	scratch, nested := r.beginPass()
	visible, culled := r.Scene.Visible(scratch, cam)

	view, proj := cam.View(), cam.Projection()
	lights := r.pixelLights
	if cam.Path == camera.PathVertexLit {
		lights = 0
	}

	stats := Stats{Culled: culled}
	for _, o := range visible {
		if o.Mirror != nil {
			// a mirror never samples the target it is being drawn into
			if o.Mirror.samples(cam.Target) {
				continue
			}
			r.drawMirror(o, view, proj)
		} else {
			stats.Lights += r.drawLit(o, view, proj, lights)
		}
		stats.Drawn++
	}
	gl.BindVertexArray(0)

	r.endPass(visible, stats, nested)
	return nil
}

// beginPass hands out the buffer for the visible set. A Render issued while
// another is drawing gets a fresh buffer so the outer draw list stays intact.
func (r *Renderer) beginPass() (scratch []*Object, nested bool) {
	r.depth++
	if r.depth > 1 {
		return nil, true
	}
	return r.visible[:0], false
}

// endPass keeps the outermost pass's buffer and stats.
func (r *Renderer) endPass(visible []*Object, stats Stats, nested bool) {
	r.depth--
	if nested {
		return
	}
	r.visible = visible
	r.stats = stats
}

func (r *Renderer) drawLit(o *Object, view, proj math.Mat4, maxLights int) int {
	p := r.lit
	p.Use()
	p.SetMat4("uModel", o.Model())
	p.SetMat4("uView", view)
	p.SetMat4("uProjection", proj)
	p.SetColor3("uColor", o.Color)
	p.SetVec3("uSunDir", r.Sun.Direction)
	p.SetColor3("uSunColor", r.Sun.Color)
	p.SetColor3("uAmbient", r.Sun.Ambient)

	n := r.Lights.Select(o.Transform.Position, maxLights)
	p.SetInt("uLightCount", int32(n))
	p.SetFloats("uLightPos", 3, int32(n), r.Lights.Positions())
	p.SetFloats("uLightColor", 3, int32(n), r.Lights.Colors())
	p.SetFloats("uLightRange", 1, int32(n), r.Lights.Ranges())
	p.SetFloats("uLightIntensity", 1, int32(n), r.Lights.Intensities())

	r.meshes[o.Shape].draw()
	return n
}

func (r *Renderer) drawMirror(o *Object, view, proj math.Mat4) {
	p := r.mirror
	p.Use()
	p.SetMat4("uModel", o.Model())
	p.SetMat4("uView", view)
	p.SetMat4("uProjection", proj)
	p.SetColor3("uTint", o.Mirror.Tint)
	p.SetFloat("uStrength", o.Mirror.Strength)

	unit := int32(0)
	has := int32(0)
	for slot, uniform := range slotUniforms {
		tex := o.Mirror.glTexture(slot)
		if tex == 0 {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, tex)
		p.SetInt(uniform, unit)
		unit++
		has = 1
	}
	p.SetInt("uHasReflection", has)

	r.meshes[o.Shape].draw()
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// clearState returns the buffers to clear and the clear color for cam.
func clearState(cam *camera.Camera, skies map[string][4]float32) (bits uint32, color [4]float32) {
	color = cam.Background
	switch cam.Clear {
	case camera.ClearSkybox:
		if cam.Sky.Enabled {
			if c, ok := skies[cam.Sky.Material]; ok {
				color = c
			}
		}
		return gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT, color
	case camera.ClearSolidColor:
		return gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT, color
	case camera.ClearDepth:
		return gl.DEPTH_BUFFER_BIT, color
	default:
		return 0, color
	}
}

// NewTarget allocates a square framebuffer.
func (r *Renderer) NewTarget(size, depthBits int32) (mirror.Target, error) {
	fb, err := framebuffer.New(size, size, depthBits)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

// InvertCulling reports whether clockwise triangles are front-facing.
func (r *Renderer) InvertCulling() bool {
	return r.invertCulling
}

// SetInvertCulling swaps the front-face winding. Geometry rendered through
// a reflection matrix has its winding reversed.
func (r *Renderer) SetInvertCulling(invert bool) {
	r.invertCulling = invert
	r.applyWinding()
}

// resetState sets the pipeline state scene drawing expects. UI toolkits
// sharing the context change it between frames.
func (r *Renderer) resetState() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.SCISSOR_TEST)
	r.applyWinding()
}

func (r *Renderer) applyWinding() {
	if r.invertCulling {
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}
}

// PixelLightCount returns the per-object point light limit.
func (r *Renderer) PixelLightCount() int {
	return r.pixelLights
}

// SetPixelLightCount sets the per-object point light limit.
func (r *Renderer) SetPixelLightCount(n int) {
	r.pixelLights = n
}

// Destroy releases GL resources.
func (r *Renderer) Destroy() {
	for _, m := range r.meshes {
		m.destroy()
	}
	r.lit.Delete()
	r.mirror.Delete()
}
