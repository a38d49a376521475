// Package world builds the demo scene and drives its mirror surfaces.
package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mirror/internal/config"
	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/internal/engine/glhost"
	"github.com/Faultbox/midgard-mirror/internal/engine/lighting"
	"github.com/Faultbox/midgard-mirror/internal/logger"
	"github.com/Faultbox/midgard-mirror/internal/mirror"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// SkyMaterial is the skybox the demo viewer clears to.
const SkyMaterial = "dusk"

// SkyColor is the clear color of SkyMaterial.
var SkyColor = [4]float32{0.32, 0.38, 0.52, 1}

// TextureSizes are the reflection resolutions cycled through at runtime.
var TextureSizes = []int32{64, 128, 256, 512, 1024}

// NextTextureSize returns the size following cur in TextureSizes, wrapping
// around. Sizes not in the list restart at the first entry.
func NextTextureSize(cur int32) int32 {
	for i, s := range TextureSizes {
		if s == cur {
			return TextureSizes[(i+1)%len(TextureSizes)]
		}
	}
	return TextureSizes[0]
}

// SettingsFromConfig converts mirror configuration to surface settings.
func SettingsFromConfig(mc config.MirrorConfig) mirror.Settings {
	return mirror.Settings{
		DisablePixelLights: mc.DisablePixelLights,
		TextureSize:        int32(min(max(mc.TextureSize, 1), config.MaxTextureSize)),
		ClipPlaneOffset:    mc.ClipPlaneOffset,
		ReflectLayers:      camera.LayerMask(mc.ReflectLayers),
	}
}

// Mirror pairs a reflective scene object with its surface.
type Mirror struct {
	Object  *glhost.Object
	Surface *mirror.Surface
}

// World is the demo scene: lit props, point lights and mirrors.
type World struct {
	Scene   *glhost.Scene
	Lights  []lighting.PointLight
	Mirrors []Mirror

	spinners []*glhost.Object
	enabled  bool
}

// BuildScene creates the demo objects. Mirrors are placed on mirrorLayer.
func BuildScene(mirrorLayer int) *glhost.Scene {
	s := glhost.NewScene()

	floor := s.Add(glhost.NewObject("floor mirror", glhost.ShapeQuad))
	floor.Scale = math.Vec3{X: 14, Y: 1, Z: 14}
	floor.Layer = mirrorLayer
	floor.Mirror = glhost.NewMirrorMaterial()

	// pitch 90 turns the quad's +Y normal to +Z, facing the origin
	wall := s.Add(glhost.NewObject("wall mirror", glhost.ShapeQuad))
	wall.Transform = math.Transform{
		Position: math.Vec3{Y: 3, Z: -7},
		Rotation: math.Euler{Pitch: 90},
	}
	wall.Scale = math.Vec3{X: 10, Y: 1, Z: 6}
	wall.Layer = mirrorLayer
	wall.Mirror = glhost.NewMirrorMaterial()
	wall.Mirror.Tint = [3]float32{0.95, 0.9, 0.85}

	props := []struct {
		name  string
		pos   math.Vec3
		size  float32
		color [3]float32
	}{
		{"red cube", math.Vec3{X: -2.5, Y: 0.75, Z: 0}, 1.5, [3]float32{0.85, 0.2, 0.2}},
		{"green cube", math.Vec3{X: 0, Y: 1, Z: -2}, 2, [3]float32{0.2, 0.75, 0.3}},
		{"blue cube", math.Vec3{X: 2.5, Y: 0.5, Z: 1.5}, 1, [3]float32{0.25, 0.35, 0.9}},
		{"floating cube", math.Vec3{X: 0, Y: 3.5, Z: 1}, 0.8, [3]float32{0.95, 0.8, 0.3}},
	}
	for _, p := range props {
		o := s.Add(glhost.NewObject(p.name, glhost.ShapeCube))
		o.Transform.Position = p.pos
		o.Scale = math.Vec3{X: p.size, Y: p.size, Z: p.size}
		o.Color = p.color
	}

	return s
}

// DefaultLights returns the demo's point lights.
func DefaultLights() []lighting.PointLight {
	return []lighting.PointLight{
		{Position: math.Vec3{X: -4, Y: 3, Z: 3}, Color: [3]float32{1, 0.6, 0.3}, Range: 12, Intensity: 1.5},
		{Position: math.Vec3{X: 4, Y: 2, Z: -1}, Color: [3]float32{0.3, 0.6, 1}, Range: 10, Intensity: 1.2},
		{Position: math.Vec3{X: 0, Y: 5, Z: 4}, Color: [3]float32{1, 1, 1}, Range: 9, Intensity: 0.8},
	}
}

// New builds the world and a mirror surface for every reflective object.
func New(cfg *config.Config, host mirror.Host) *World {
	w := &World{
		Scene:   BuildScene(cfg.Mirror.Layer),
		enabled: true,
	}
	if cfg.Scene.PointLights {
		w.Lights = DefaultLights()
	}

	settings := SettingsFromConfig(cfg.Mirror)
	for _, o := range w.Scene.Objects {
		if o.Mirror == nil {
			if o.Name == "floating cube" {
				w.spinners = append(w.spinners, o)
			}
			continue
		}
		s := mirror.NewSurface(o.Name, host, o)
		s.Transform = o.Transform
		s.Layer = o.Layer
		s.Settings = settings
		w.Mirrors = append(w.Mirrors, Mirror{Object: o, Surface: s})
	}

	logger.Info("world built",
		zap.Int("objects", len(w.Scene.Objects)),
		zap.Int("mirrors", len(w.Mirrors)),
		zap.Int("lights", len(w.Lights)))

	return w
}

// NewViewer creates the main camera, clearing to the demo sky.
func NewViewer() *camera.Camera {
	cam := camera.New("Main Camera")
	cam.Clear = camera.ClearSkybox
	cam.Sky = camera.Skybox{Enabled: true, Material: SkyMaterial}
	cam.Background = [4]float32{0.1, 0.1, 0.12, 1}
	cam.Far = 200
	return cam
}

// Attach points r at the world's scene, lights and sky.
func (w *World) Attach(r *glhost.Renderer) {
	r.Scene = w.Scene
	r.Lights.Clear()
	for _, l := range w.Lights {
		r.Lights.Add(l)
	}
	r.Skies[SkyMaterial] = SkyColor
}

// Animate advances prop animation to t seconds.
func (w *World) Animate(t float64) {
	for _, o := range w.spinners {
		o.Transform.Rotation.Yaw = float32(t * 45)
		o.Transform.Rotation.Pitch = float32(t * 20)
	}
}

// RenderReflections runs the reflection pass of every mirror for viewer.
// Each surface first picks up its object's current transform and layer.
// Failures are logged and counted; the affected mirror keeps its previous
// reflection.
func (w *World) RenderReflections(viewer *camera.Camera) (failed int) {
	for _, m := range w.Mirrors {
		m.Surface.Transform = m.Object.Transform
		m.Surface.Layer = m.Object.Layer
		if err := m.Surface.Render(viewer); err != nil {
			logger.Warn("mirror reflection failed",
				zap.String("mirror", m.Surface.Name),
				zap.Error(err))
			failed++
		}
	}
	return failed
}

// TextureSize returns the reflection resolution of the first mirror.
func (w *World) TextureSize() int32 {
	if len(w.Mirrors) == 0 {
		return 0
	}
	return w.Mirrors[0].Surface.Settings.TextureSize
}

// SetTextureSize changes every mirror's reflection resolution. Targets are
// recreated on the next pass.
func (w *World) SetTextureSize(size int32) {
	for _, m := range w.Mirrors {
		m.Surface.Settings.TextureSize = size
	}
	logger.Info("reflection texture size changed", zap.Int32("size", size))
}

// SetClipPlaneOffset changes every mirror's clip plane offset.
func (w *World) SetClipPlaneOffset(offset float32) {
	for _, m := range w.Mirrors {
		m.Surface.Settings.ClipPlaneOffset = offset
	}
}

// SetDisablePixelLights changes whether reflections render without pixel lights.
func (w *World) SetDisablePixelLights(disable bool) {
	for _, m := range w.Mirrors {
		m.Surface.Settings.DisablePixelLights = disable
	}
}

// MirrorsEnabled reports whether mirrors render reflections.
func (w *World) MirrorsEnabled() bool {
	return w.enabled
}

// SetMirrorsEnabled enables or disables every mirror. Disabling releases the
// reflection cameras and targets and unbinds them from the materials.
func (w *World) SetMirrorsEnabled(on bool) {
	if on == w.enabled {
		return
	}
	w.enabled = on
	for _, m := range w.Mirrors {
		if on {
			m.Surface.Enable()
			continue
		}
		m.Surface.Disable()
		m.Object.Mirror.SetTexture(mirror.ReflectionTextureSlot, nil)
	}
	logger.Info("mirrors toggled", zap.Bool("enabled", on))
}

// Close releases every mirror's resources.
func (w *World) Close() {
	for _, m := range w.Mirrors {
		m.Surface.Close()
		m.Object.Mirror.SetTexture(mirror.ReflectionTextureSlot, nil)
	}
}
