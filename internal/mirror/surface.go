package mirror

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/internal/logger"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// DefaultLayer is the render layer mirror surfaces are drawn on.
const DefaultLayer = 4

// Settings are the user-tunable parameters of a mirror surface. They may be
// changed between frames; a new TextureSize takes effect on the next Render.
type Settings struct {
	// DisablePixelLights renders the reflection without per-pixel lights.
	DisablePixelLights bool
	// TextureSize is the side length of the square reflection target.
	TextureSize int32
	// ClipPlaneOffset pushes the clip plane away from the mirror to hide
	// seams where geometry touches it.
	ClipPlaneOffset float32
	// ReflectLayers selects the layers visible in the reflection.
	ReflectLayers camera.LayerMask
}

// DefaultSettings returns the settings used by NewSurface.
func DefaultSettings() Settings {
	return Settings{
		DisablePixelLights: true,
		TextureSize:        256,
		ClipPlaneOffset:    0.07,
		ReflectLayers:      camera.AllLayers,
	}
}

// Surface is a planar mirror. Its plane passes through the transform's
// position with the transform's up axis as normal.
type Surface struct {
	Name      string
	Settings  Settings
	Transform math.Transform

	// Layer is the render layer the surface itself is drawn on. Reflection
	// cameras never see it.
	Layer int

	Renderable Renderable

	id      uint32
	host    Host
	pool    *Pool
	enabled bool
}

var nextSurfaceID atomic.Uint32

// NewSurface creates an enabled mirror surface drawn by renderable.
// Nothing is allocated until the first Render.
func NewSurface(name string, host Host, renderable Renderable) *Surface {
	id := nextSurfaceID.Add(1)
	return &Surface{
		Name:       name,
		Settings:   DefaultSettings(),
		Layer:      DefaultLayer,
		Renderable: renderable,
		id:         id,
		host:       host,
		pool:       NewPool(id, host.NewTarget),
		enabled:    true,
	}
}

// ID returns the surface's unique id. It names the pooled objects.
func (s *Surface) ID() uint32 {
	return s.id
}

// Enabled reports whether the surface renders reflections.
func (s *Surface) Enabled() bool {
	return s.enabled
}

// Enable turns reflections back on. Resources are created lazily.
func (s *Surface) Enable() {
	s.enabled = true
}

// Disable turns reflections off and releases the reflection target and all
// reflection cameras immediately.
func (s *Surface) Disable() {
	if s.enabled {
		logger.Debug("mirror disabled", zap.String("mirror", s.Name))
	}
	s.enabled = false
	s.pool.ReleaseAll()
}

// Close releases all resources held by the surface.
func (s *Surface) Close() {
	s.Disable()
}

// Pool returns the surface's camera pool.
func (s *Surface) Pool() *Pool {
	return s.pool
}

// Normal returns the unit normal of the mirror plane.
func (s *Surface) Normal() math.Vec3 {
	return s.Transform.Up()
}

// Render draws the reflection seen by viewer and binds it to the surface
// material. Call it once per frame for every camera about to draw the
// surface, before that camera draws. It does nothing when the surface is
// disabled, has no enabled renderable or material, or viewer is nil.
func (s *Surface) Render(viewer *camera.Camera) error {
	if !s.enabled || viewer == nil || viewer.Destroyed() {
		return nil
	}
	if s.Renderable == nil || !s.Renderable.Enabled() {
		return nil
	}
	material := s.Renderable.Material()
	if material == nil {
		return nil
	}

	aux := s.pool.Acquire(viewer, s.Transform, s.Layer)
	target, err := s.pool.EnsureTarget(s.Settings.TextureSize)
	if err != nil {
		return fmt.Errorf("mirror %s: %w", s.Name, err)
	}

	if s.Settings.DisablePixelLights {
		defer overridePixelLights(s.host, 0)()
	}

	camera.CopyOptics(viewer, aux)

	pos := s.Transform.Position
	normal := s.Normal()
	reflection := math.Reflection(ReflectionPlane(pos, normal, s.Settings.ClipPlaneOffset))

	aux.SetView(viewer.View().Mul(reflection))

	// Clip everything behind the mirror with an oblique near plane.
	clip := CameraSpacePlane(aux.View(), pos, normal, s.Settings.ClipPlaneOffset, 1)
	aux.SetProjection(math.Oblique(viewer.Projection(), clip.Vec4()))

	// Cull with the viewer's frustum; the oblique one would pop objects in and out.
	aux.SetCullingMatrix(viewer.Projection().Mul(viewer.View()))
	aux.CullingMask = s.Settings.ReflectLayers.Without(s.Layer)
	aux.Target = target

	if err := s.renderMirrored(viewer, aux, reflection); err != nil {
		return fmt.Errorf("mirror %s: rendering reflection: %w", s.Name, err)
	}

	material.SetTexture(ReflectionTextureSlot, target)
	return nil
}

// renderMirrored renders aux from the viewer's mirrored pose. Mirroring
// flips handedness, so winding is inverted for the duration of the draw.
func (s *Surface) renderMirrored(viewer, aux *camera.Camera, reflection math.Mat4) error {
	defer invertCulling(s.host)()

	origin := viewer.Transform.Position
	aux.Transform.Position = reflection.TransformVec3(origin)
	aux.Transform.Rotation = viewer.Transform.Rotation.Mirrored()
	defer func() {
		aux.Transform.Position = origin
	}()

	return s.host.Render(aux)
}
