package math

// Plane is the set of points x with Normal·x + D = 0.
type Plane struct {
	Normal Vec3
	D      float32
}

// PlaneFromPointNormal builds the plane through point with the given normal.
// The normal is used as given; callers normalize it.
func PlaneFromPointNormal(point, normal Vec3) Plane {
	return Plane{Normal: normal, D: -normal.Dot(point)}
}

// Distance returns the signed distance of p from the plane (unit normals only).
func (p Plane) Distance(point Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Vec4 returns the plane as (nx, ny, nz, d).
func (p Plane) Vec4() Vec4 {
	return Vec4{p.Normal.X, p.Normal.Y, p.Normal.Z, p.D}
}

// Reflection returns the affine transform mirroring points and directions
// across the plane. The plane normal must be unit length.
func Reflection(p Plane) Mat4 {
	nx, ny, nz, d := p.Normal.X, p.Normal.Y, p.Normal.Z, p.D

	return Mat4{
		1 - 2*nx*nx, -2 * ny * nx, -2 * nz * nx, 0,
		-2 * nx * ny, 1 - 2*ny*ny, -2 * nz * ny, 0,
		-2 * nx * nz, -2 * ny * nz, 1 - 2*nz*nz, 0,
		-2 * d * nx, -2 * d * ny, -2 * d * nz, 1,
	}
}

// Oblique replaces the near plane of an OpenGL-style projection with clip,
// a view-space plane whose positive side stays visible. The other frustum
// planes are left as they were.
//
// See Lengyel, "Oblique View Frustum Depth Projection and Clipping" (2005).
func Oblique(proj Mat4, clip Vec4) Mat4 {
	corner := Vec4{sign(clip[0]), sign(clip[1]), 1, 1}
	q := proj.Inverse().MulVec4(corner)

	denom := clip.Dot(q)
	if denom == 0 {
		return proj
	}
	c := clip.Scale(2 / denom)

	out := proj
	out.SetRow(2, c.Sub(proj.Row(3)))
	return out
}

func sign(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
