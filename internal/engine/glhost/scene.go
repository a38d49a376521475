package glhost

import (
	"github.com/Faultbox/midgard-mirror/internal/engine/camera"
	"github.com/Faultbox/midgard-mirror/internal/engine/culling"
	"github.com/Faultbox/midgard-mirror/internal/engine/picking"
	"github.com/Faultbox/midgard-mirror/internal/mirror"
	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// Object is a drawable scene entry.
type Object struct {
	Name      string
	Shape     Shape
	Transform math.Transform
	Scale     math.Vec3
	Color     [3]float32
	Layer     int
	Visible   bool

	// Mirror is set for reflective objects; nil objects are lit normally.
	Mirror *MirrorMaterial
}

// NewObject creates a visible unit-scale object on the default layer.
func NewObject(name string, shape Shape) *Object {
	return &Object{
		Name:    name,
		Shape:   shape,
		Scale:   math.Vec3{X: 1, Y: 1, Z: 1},
		Color:   [3]float32{0.8, 0.8, 0.8},
		Visible: true,
	}
}

// Model returns the object's model matrix.
func (o *Object) Model() math.Mat4 {
	return o.Transform.Matrix().Mul(math.Scale(o.Scale.X, o.Scale.Y, o.Scale.Z))
}

// Bounds returns the world-space bounding box.
func (o *Object) Bounds() culling.AABB {
	local := culling.UnitCube
	if o.Shape == ShapeQuad {
		// keep a sliver of thickness so the box never degenerates
		local.Min.Y, local.Max.Y = -0.01, 0.01
	}
	return local.Transform(o.Model())
}

// Enabled reports whether the object is drawn.
func (o *Object) Enabled() bool {
	return o.Visible
}

// Material returns the mirror material, or nil for lit objects.
func (o *Object) Material() mirror.Material {
	if o.Mirror == nil {
		return nil
	}
	return o.Mirror
}

// Scene is an ordered list of objects.
type Scene struct {
	Objects []*Object

	frustum culling.Frustum
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Add appends o and returns it.
func (s *Scene) Add(o *Object) *Object {
	s.Objects = append(s.Objects, o)
	return o
}

// Find returns the first object named name.
func (s *Scene) Find(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Visible appends to dst the objects cam should draw: visible, on a layer in
// cam.CullingMask and inside the frustum of cam.CullingMatrix. culled counts
// objects rejected by the frustum test.
func (s *Scene) Visible(dst []*Object, cam *camera.Camera) (visible []*Object, culled int) {
	s.frustum.Update(cam.CullingMatrix())
	for _, o := range s.Objects {
		if !o.Visible || !cam.CullingMask.Has(o.Layer) {
			continue
		}
		if !s.frustum.Intersects(o.Bounds()) {
			culled++
			continue
		}
		dst = append(dst, o)
	}
	return dst, culled
}

// Pick returns the nearest visible object hit by ray, and the hit distance.
func (s *Scene) Pick(ray picking.Ray) (*Object, float32) {
	var best *Object
	var bestT float32
	for _, o := range s.Objects {
		if !o.Visible {
			continue
		}
		t, hit := ray.IntersectAABB(o.Bounds())
		if hit && (best == nil || t < bestT) {
			best, bestT = o, t
		}
	}
	return best, bestT
}
