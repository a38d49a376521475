// Package culling tests bounding boxes against camera frustums.
package culling

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// UnitCube is the bounding box of a unit cube centered on the origin.
var UnitCube = AABB{
	Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5},
	Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
}

// Transform returns the box enclosing b after transforming it by m.
func (b AABB) Transform(m math.Mat4) AABB {
	mm := mgl32.Mat4(m)
	lo := mgl32.Vec3{float32(1e30), 1e30, 1e30}
	hi := mgl32.Vec3{float32(-1e30), -1e30, -1e30}
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{b.Min.X, b.Min.Y, b.Min.Z}
		if i&1 != 0 {
			c[0] = b.Max.X
		}
		if i&2 != 0 {
			c[1] = b.Max.Y
		}
		if i&4 != 0 {
			c[2] = b.Max.Z
		}
		p := mgl32.TransformCoordinate(c, mm)
		for k := 0; k < 3; k++ {
			if p[k] < lo[k] {
				lo[k] = p[k]
			}
			if p[k] > hi[k] {
				hi[k] = p[k]
			}
		}
	}
	return AABB{
		Min: math.Vec3{X: lo[0], Y: lo[1], Z: lo[2]},
		Max: math.Vec3{X: hi[0], Y: hi[1], Z: hi[2]},
	}
}

// Frustum holds six normalized planes (left, right, bottom, top, near, far)
// extracted from a projection*view matrix. Plane normals point inwards.
type Frustum struct {
	planes [6]mgl32.Vec4
	clip   mgl32.Mat4
	valid  bool
}

// NewFrustum extracts the planes of clip.
func NewFrustum(clip math.Mat4) *Frustum {
	f := &Frustum{}
	f.Update(clip)
	return f
}

// Update re-extracts the planes when clip changed since the last call.
func (f *Frustum) Update(clip math.Mat4) {
	m := mgl32.Mat4(clip)
	if f.valid && m.ApproxEqualThreshold(f.clip, 1e-6) {
		return
	}
	f.clip = m
	f.valid = true

	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	f.planes[0] = normalize(r3.Add(r0))
	f.planes[1] = normalize(r3.Sub(r0))
	f.planes[2] = normalize(r3.Add(r1))
	f.planes[3] = normalize(r3.Sub(r1))
	f.planes[4] = normalize(r3.Add(r2))
	f.planes[5] = normalize(r3.Sub(r2))
}

func normalize(p mgl32.Vec4) mgl32.Vec4 {
	l := p.Vec3().Len()
	if l == 0 {
		return p
	}
	return p.Mul(1 / l)
}

// Plane returns plane i as (a, b, c, d) with a*x + b*y + c*z + d >= 0 inside.
func (f *Frustum) Plane(i int) mgl32.Vec4 {
	return f.planes[i]
}

// ContainsPoint reports whether p lies inside all six planes.
func (f *Frustum) ContainsPoint(p math.Vec3) bool {
	for _, pl := range f.planes {
		if pl[0]*p.X+pl[1]*p.Y+pl[2]*p.Z+pl[3] < 0 {
			return false
		}
	}
	return true
}

// Intersects reports whether b is at least partially inside the frustum.
// It is conservative: boxes near frustum corners may pass.
func (f *Frustum) Intersects(b AABB) bool {
	for _, p := range f.planes {
		// positive vertex for this plane normal
		px, py, pz := b.Max.X, b.Max.Y, b.Max.Z
		if p[0] < 0 {
			px = b.Min.X
		}
		if p[1] < 0 {
			py = b.Min.Y
		}
		if p[2] < 0 {
			pz = b.Min.Z
		}
		if p[0]*px+p[1]*py+p[2]*pz+p[3] < 0 {
			return false
		}
	}
	return true
}
