package mirror

import (
	"errors"

	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

type fakeTarget struct {
	size      int32
	destroyed bool
}

func (t *fakeTarget) Size() (int32, int32) { return t.size, t.size }
func (t *fakeTarget) Destroy()             { t.destroyed = true }

// renderCall captures the state visible to the host during a render.
type renderCall struct {
	camera     camera.ID
	position   math.Vec3
	rotation   math.Euler
	view       math.Mat4
	projection math.Mat4
	culling    math.Mat4
	mask       camera.LayerMask
	target     camera.Target
	invert     bool
	lights     int
}

type fakeHost struct {
	invert bool
	lights int

	targets   []*fakeTarget
	renders   []renderCall
	allocErr  error
	renderErr error
}

func newFakeHost() *fakeHost {
	return &fakeHost{lights: 4}
}

func (h *fakeHost) Render(cam *camera.Camera) error {
	h.renders = append(h.renders, renderCall{
		camera:     cam.ID(),
		position:   cam.Transform.Position,
		rotation:   cam.Transform.Rotation,
		view:       cam.View(),
		projection: cam.Projection(),
		culling:    cam.CullingMatrix(),
		mask:       cam.CullingMask,
		target:     cam.Target,
		invert:     h.invert,
		lights:     h.lights,
	})
	return h.renderErr
}

func (h *fakeHost) NewTarget(size, depthBits int32) (Target, error) {
	if h.allocErr != nil {
		return nil, h.allocErr
	}
	if depthBits != TargetDepthBits {
		return nil, errors.New("unexpected depth bits")
	}
	t := &fakeTarget{size: size}
	h.targets = append(h.targets, t)
	return t, nil
}

func (h *fakeHost) InvertCulling() bool          { return h.invert }
func (h *fakeHost) SetInvertCulling(invert bool) { h.invert = invert }
func (h *fakeHost) PixelLightCount() int         { return h.lights }
func (h *fakeHost) SetPixelLightCount(count int) { h.lights = count }

type fakeMaterial struct {
	textures map[string]camera.Target
}

func (m *fakeMaterial) SetTexture(slot string, t camera.Target) {
	if m.textures == nil {
		m.textures = make(map[string]camera.Target)
	}
	m.textures[slot] = t
}

type fakeRenderable struct {
	enabled  bool
	material Material
}

func (r *fakeRenderable) Enabled() bool      { return r.enabled }
func (r *fakeRenderable) Material() Material { return r.material }
