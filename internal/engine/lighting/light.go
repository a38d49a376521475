// Package lighting provides point and directional lights for the scene renderer.
package lighting

import (
	"math"
	"sort"

	gmath "github.com/Faultbox/midgard-mirror/pkg/math"
)

// MaxPixelLights is the maximum number of per-pixel point lights the shaders accept.
const MaxPixelLights = 8

// PointLight is a point light source with linear falloff.
type PointLight struct {
	Position  gmath.Vec3
	Color     [3]float32 // RGB, 0-1
	Range     float32
	Intensity float32
}

// Attenuation returns the light's contribution factor at p (0 outside Range).
func (l PointLight) Attenuation(p gmath.Vec3) float32 {
	if l.Range <= 0 {
		return 0
	}
	d := l.Position.Distance(p)
	if d >= l.Range {
		return 0
	}
	f := 1 - d/l.Range
	return f * f * l.Intensity
}

// Sun is a directional light.
type Sun struct {
	Direction gmath.Vec3 // points towards the light
	Color     [3]float32
	Ambient   [3]float32
}

// SunDirection converts longitude/latitude angles in degrees to a normalized
// direction pointing towards the sun. Longitude rotates around Y, latitude is
// the elevation above the horizon.
func SunDirection(longitude, latitude float32) gmath.Vec3 {
	lon := float64(longitude) * math.Pi / 180
	lat := float64(latitude) * math.Pi / 180
	return gmath.Vec3{
		X: float32(math.Cos(lat) * math.Sin(lon)),
		Y: float32(math.Sin(lat)),
		Z: float32(math.Cos(lat) * math.Cos(lon)),
	}
}

// DefaultSun returns a warm afternoon sun.
func DefaultSun() Sun {
	return Sun{
		Direction: SunDirection(45, 50),
		Color:     [3]float32{0.9, 0.85, 0.75},
		Ambient:   [3]float32{0.25, 0.25, 0.3},
	}
}

// Buffer holds the scene's point lights and packs the ones selected for a
// draw into flat arrays for uniform upload.
type Buffer struct {
	Lights []PointLight

	positions   [MaxPixelLights * 3]float32
	colors      [MaxPixelLights * 3]float32
	ranges      [MaxPixelLights]float32
	intensities [MaxPixelLights]float32
	count       int
}

// NewBuffer creates an empty light buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Add appends a light to the scene.
func (b *Buffer) Add(l PointLight) {
	b.Lights = append(b.Lights, l)
}

// Clear removes all lights.
func (b *Buffer) Clear() {
	b.Lights = b.Lights[:0]
	b.count = 0
}

// Select packs at most limit lights, strongest at point p first. A limit of
// zero or less selects nothing, which leaves only the sun.
func (b *Buffer) Select(p gmath.Vec3, limit int) int {
	b.count = 0
	if limit > MaxPixelLights {
		limit = MaxPixelLights
	}
	if limit <= 0 || len(b.Lights) == 0 {
		return 0
	}

	idx := make([]int, 0, len(b.Lights))
	for i, l := range b.Lights {
		if l.Attenuation(p) > 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return b.Lights[idx[i]].Attenuation(p) > b.Lights[idx[j]].Attenuation(p)
	})
	if len(idx) > limit {
		idx = idx[:limit]
	}

	for n, i := range idx {
		l := b.Lights[i]
		b.positions[n*3+0] = l.Position.X
		b.positions[n*3+1] = l.Position.Y
		b.positions[n*3+2] = l.Position.Z
		b.colors[n*3+0] = l.Color[0]
		b.colors[n*3+1] = l.Color[1]
		b.colors[n*3+2] = l.Color[2]
		b.ranges[n] = l.Range
		b.intensities[n] = l.Intensity
	}
	b.count = len(idx)
	return b.count
}

// Count returns the number of lights packed by the last Select.
func (b *Buffer) Count() int { return b.count }

// Positions returns packed positions: [x0, y0, z0, x1, ...].
func (b *Buffer) Positions() []float32 { return b.positions[:] }

// Colors returns packed colors: [r0, g0, b0, r1, ...].
func (b *Buffer) Colors() []float32 { return b.colors[:] }

// Ranges returns packed ranges.
func (b *Buffer) Ranges() []float32 { return b.ranges[:] }

// Intensities returns packed intensities.
func (b *Buffer) Intensities() []float32 { return b.intensities[:] }
