package mirror

import "github.com/Faultbox/midgard-mirror/pkg/math"

// ReflectionPlane returns the plane through position with the given unit
// normal, pushed back along the normal by offset.
func ReflectionPlane(position, normal math.Vec3, offset float32) math.Plane {
	return math.Plane{Normal: normal, D: -normal.Dot(position) - offset}
}

// CameraSpacePlane transforms the plane through pos with the given normal
// into the space of view. The point is moved offset units along the normal
// first so geometry touching the mirror is not clipped. sideSign flips the
// side that stays visible.
func CameraSpacePlane(view math.Mat4, pos, normal math.Vec3, offset, sideSign float32) math.Plane {
	offsetPos := pos.Add(normal.Scale(offset))
	cpos := view.TransformVec3(offsetPos)
	cnormal := view.TransformDirection(normal).Normalize().Scale(sideSign)

	return math.Plane{Normal: cnormal, D: -cpos.Dot(cnormal)}
}
