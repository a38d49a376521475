package mirror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

type fixture struct {
	host     *fakeHost
	material *fakeMaterial
	surface  *Surface
	viewer   *camera.Camera
}

// newFixture builds a floor mirror at the origin seen from (0, 5, 0) looking down.
func newFixture() *fixture {
	h := newFakeHost()
	mat := &fakeMaterial{}
	s := NewSurface("floor", h, &fakeRenderable{enabled: true, material: mat})
	s.Settings.TextureSize = 128
	s.Settings.ClipPlaneOffset = 0

	viewer := camera.New("main")
	viewer.Transform = math.Transform{
		Position: math.Vec3{Y: 5},
		Rotation: math.Euler{Pitch: -90},
	}

	return &fixture{host: h, material: mat, surface: s, viewer: viewer}
}

func assertVec3(t *testing.T, want, got math.Vec3, msg string) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, msg)
	assert.InDelta(t, want.Y, got.Y, 1e-4, msg)
	assert.InDelta(t, want.Z, got.Z, 1e-4, msg)
}

func TestSurfaceIDsNamePool(t *testing.T) {
	h := newFakeHost()
	a := NewSurface("a", h, nil)
	b := NewSurface("b", h, nil)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, fmt.Sprintf("_MirrorReflection%d", a.ID()), a.Pool().TargetName())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.True(t, s.DisablePixelLights)
	assert.Equal(t, int32(256), s.TextureSize)
	assert.InDelta(t, 0.07, s.ClipPlaneOffset, 1e-7)
	assert.Equal(t, camera.AllLayers, s.ReflectLayers)
}

func TestRenderSkipsWhenNothingToDo(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture)
	}{
		{"surface disabled", func(f *fixture) { f.surface.Disable() }},
		{"nil viewer", func(f *fixture) { f.viewer = nil }},
		{"destroyed viewer", func(f *fixture) { f.viewer.Destroy() }},
		{"no renderable", func(f *fixture) { f.surface.Renderable = nil }},
		{"renderable disabled", func(f *fixture) {
			f.surface.Renderable = &fakeRenderable{enabled: false, material: f.material}
		}},
		{"no material", func(f *fixture) {
			f.surface.Renderable = &fakeRenderable{enabled: true}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.mutate(f)

			require.NoError(t, f.surface.Render(f.viewer))

			assert.Empty(t, f.host.renders)
			assert.Empty(t, f.host.targets)
			assert.Equal(t, 0, f.surface.Pool().Len())
			assert.Empty(t, f.material.textures)
			assert.False(t, f.host.invert)
			assert.Equal(t, 4, f.host.lights)
		})
	}
}

func TestRenderReflectsViewerAcrossFloor(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.surface.Render(f.viewer))
	require.Len(t, f.host.renders, 1)
	call := f.host.renders[0]

	// The host sees the camera below the floor, looking up.
	assertVec3(t, math.Vec3{Y: -5}, call.position, "render position")
	assertVec3(t, math.Vec3{Y: 1}, call.rotation.Forward(), "render forward")

	// The mirrored view places the eye at (0, -5, 0).
	eye := call.view.Inverse().Translation()
	assertVec3(t, math.Vec3{Y: -5}, eye, "view eye")

	// Through the mirrored view a point appears where its reflection would.
	p := math.Vec3{X: 1, Y: 2, Z: 3}
	assertVec3(t, f.viewer.View().TransformVec3(math.Vec3{X: 1, Y: -2, Z: 3}),
		call.view.TransformVec3(p), "mirrored point")

	// The aux transform is put back to the viewer's position afterwards.
	aux, ok := f.surface.Pool().Camera(f.viewer.ID())
	require.True(t, ok)
	assertVec3(t, f.viewer.Transform.Position, aux.Transform.Position, "restored position")
}

func TestRenderClipsAtMirrorPlane(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.surface.Render(f.viewer))
	call := f.host.renders[0]

	clip := call.projection.Mul(call.view)
	for _, p := range []math.Vec3{{}, {X: 1, Z: 1}, {X: -2, Z: 0.5}} {
		c := clip.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
		assert.InDelta(t, -1, c[2]/c[3], 1e-3, "point %v on the mirror should sit on the near plane", p)
	}

	// Culling uses the real viewer frustum.
	assert.Equal(t, f.viewer.Projection().Mul(f.viewer.View()), call.culling)
}

func TestRenderBindsTargetAndMasksOwnLayer(t *testing.T) {
	f := newFixture()
	f.surface.Settings.ReflectLayers = camera.LayerBit(0) | camera.LayerBit(4) | camera.LayerBit(9)

	require.NoError(t, f.surface.Render(f.viewer))
	call := f.host.renders[0]

	require.Len(t, f.host.targets, 1)
	target := f.host.targets[0]
	assert.Equal(t, int32(128), target.size)
	assert.Same(t, target, call.target)
	assert.Same(t, target, f.material.textures[ReflectionTextureSlot])

	assert.Equal(t, camera.LayerBit(0)|camera.LayerBit(9), call.mask)
}

func TestRenderUsesConfiguredLayer(t *testing.T) {
	f := newFixture()
	f.surface.Layer = 9

	require.NoError(t, f.surface.Render(f.viewer))
	mask := f.host.renders[0].mask

	assert.False(t, mask.Has(9))
	assert.True(t, mask.Has(DefaultLayer))
}

func TestRenderOverridesAndRestoresGlobalState(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.surface.Render(f.viewer))
	call := f.host.renders[0]

	assert.True(t, call.invert, "winding must be inverted while rendering")
	assert.Equal(t, 0, call.lights, "pixel lights must be disabled while rendering")
	assert.False(t, f.host.invert)
	assert.Equal(t, 4, f.host.lights)
}

func TestRenderRespectsInvertedHostState(t *testing.T) {
	f := newFixture()
	f.host.invert = true
	f.surface.Settings.DisablePixelLights = false

	require.NoError(t, f.surface.Render(f.viewer))
	call := f.host.renders[0]

	assert.False(t, call.invert, "winding flips relative to the current state")
	assert.Equal(t, 4, call.lights)
	assert.True(t, f.host.invert)
}

func TestRenderRestoresStateOnFailure(t *testing.T) {
	f := newFixture()
	f.host.renderErr = errors.New("device lost")

	err := f.surface.Render(f.viewer)

	require.ErrorIs(t, err, f.host.renderErr)
	assert.False(t, f.host.invert)
	assert.Equal(t, 4, f.host.lights)
	assert.Empty(t, f.material.textures, "a failed render must not be published")

	aux, ok := f.surface.Pool().Camera(f.viewer.ID())
	require.True(t, ok)
	assertVec3(t, f.viewer.Transform.Position, aux.Transform.Position, "restored position")
}

func TestRenderAllocationFailure(t *testing.T) {
	f := newFixture()
	f.host.allocErr = errors.New("out of memory")

	err := f.surface.Render(f.viewer)

	require.ErrorIs(t, err, f.host.allocErr)
	assert.Empty(t, f.host.renders)
	assert.Equal(t, 4, f.host.lights)
}

func TestRenderIsIdempotent(t *testing.T) {
	f := newFixture()
	f.surface.Settings.ClipPlaneOffset = 0.07
	f.viewer.Transform = math.Transform{
		Position: math.Vec3{X: 2, Y: 3, Z: 7},
		Rotation: math.Euler{Pitch: -25, Yaw: 160},
	}

	require.NoError(t, f.surface.Render(f.viewer))
	require.NoError(t, f.surface.Render(f.viewer))
	require.Len(t, f.host.renders, 2)

	first, second := f.host.renders[0], f.host.renders[1]
	assert.Equal(t, first.view, second.view)
	assert.Equal(t, first.projection, second.projection)
	assert.Equal(t, first.culling, second.culling)
	assert.Equal(t, first.position, second.position)
	assert.Len(t, f.host.targets, 1)
	assert.Equal(t, 1, f.surface.Pool().Len())
}

func TestRenderCopiesViewerOptics(t *testing.T) {
	f := newFixture()
	f.viewer.FOV = 75
	f.viewer.Aspect = 1.5
	f.viewer.Clear = camera.ClearSolidColor
	f.viewer.Background = [4]float32{0.1, 0.2, 0.3, 1}

	require.NoError(t, f.surface.Render(f.viewer))

	aux, ok := f.surface.Pool().Camera(f.viewer.ID())
	require.True(t, ok)
	assert.Equal(t, f.viewer.Optics, aux.Optics)
}

func TestRenderPerViewerCamerasShareTarget(t *testing.T) {
	f := newFixture()
	other := camera.New("scene view")
	other.Transform.Position = math.Vec3{X: 3, Y: 2}

	require.NoError(t, f.surface.Render(f.viewer))
	require.NoError(t, f.surface.Render(other))

	require.Len(t, f.host.renders, 2)
	assert.NotEqual(t, f.host.renders[0].camera, f.host.renders[1].camera)
	assert.Same(t, f.host.renders[0].target, f.host.renders[1].target)
	assert.Equal(t, 2, f.surface.Pool().Len())
	assert.Len(t, f.host.targets, 1)
}

func TestRenderRecreatesTargetOnSizeChange(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.surface.Render(f.viewer))
	f.surface.Settings.TextureSize = 512
	require.NoError(t, f.surface.Render(f.viewer))

	require.Len(t, f.host.targets, 2)
	assert.True(t, f.host.targets[0].destroyed)
	assert.Same(t, f.host.targets[1], f.material.textures[ReflectionTextureSlot])
}

func TestDisableReleasesAndEnableStartsClean(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.surface.Render(f.viewer))
	first, _ := f.surface.Pool().Camera(f.viewer.ID())

	f.surface.Disable()
	assert.False(t, f.surface.Enabled())
	assert.True(t, first.Destroyed())
	assert.True(t, f.host.targets[0].destroyed)
	assert.Equal(t, 0, f.surface.Pool().Len())

	// Disabling twice is harmless.
	assert.NotPanics(t, f.surface.Disable)

	f.surface.Enable()
	assert.Equal(t, 0, f.surface.Pool().Len(), "enable allocates nothing")
	assert.Len(t, f.host.targets, 1)

	require.NoError(t, f.surface.Render(f.viewer))
	second, _ := f.surface.Pool().Camera(f.viewer.ID())
	assert.NotSame(t, first, second)
	assert.Len(t, f.host.targets, 2)
}

func TestDisableWithoutResources(t *testing.T) {
	f := newFixture()
	assert.NotPanics(t, f.surface.Close)
	assert.Empty(t, f.host.targets)
}

func TestTiltedMirror(t *testing.T) {
	f := newFixture()
	// Wall mirror at x = 2 facing -X.
	f.surface.Transform = math.Transform{
		Position: math.Vec3{X: 2},
		Rotation: math.Euler{Roll: 90},
	}
	f.viewer.Transform = math.Transform{Position: math.Vec3{X: -1, Y: 1}, Rotation: math.Euler{Yaw: -90}}

	assertVec3(t, math.Vec3{X: -1}, f.surface.Normal(), "normal")
	require.NoError(t, f.surface.Render(f.viewer))

	eye := f.host.renders[0].view.Inverse().Translation()
	assertVec3(t, math.Vec3{X: 5, Y: 1}, eye, "view eye")
}
