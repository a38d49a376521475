package math

// DegToRad converts degrees to radians.
const DegToRad = float32(3.14159265358979323846 / 180.0)

// Euler holds an orientation as intrinsic rotations in degrees.
// Rotations are applied roll (Z) first, then pitch (X), then yaw (Y).
// With zero angles the forward axis is -Z; positive pitch looks up.
type Euler struct {
	Pitch float32
	Yaw   float32
	Roll  float32
}

// Matrix returns the rotation matrix for the orientation.
func (e Euler) Matrix() Mat4 {
	return RotateY(e.Yaw * DegToRad).
		Mul(RotateX(e.Pitch * DegToRad)).
		Mul(RotateZ(e.Roll * DegToRad))
}

// Forward returns the unit forward direction.
func (e Euler) Forward() Vec3 {
	return e.Matrix().TransformDirection(Vec3{0, 0, -1})
}

// Mirrored negates the pitch, keeping yaw and roll.
func (e Euler) Mirrored() Euler {
	return Euler{Pitch: -e.Pitch, Yaw: e.Yaw, Roll: e.Roll}
}

// Transform is a rigid world transform without scale.
type Transform struct {
	Position Vec3
	Rotation Euler
}

// Matrix returns the local-to-world matrix.
func (t Transform) Matrix() Mat4 {
	p := t.Position
	return Translate(p.X, p.Y, p.Z).Mul(t.Rotation.Matrix())
}

// View returns the world-to-local matrix. Since the transform has no scale
// the rotation part is inverted by transposing it.
func (t Transform) View() Mat4 {
	p := t.Position
	return t.Rotation.Matrix().Transpose().Mul(Translate(-p.X, -p.Y, -p.Z))
}

// Up returns the transform's unit up axis in world space.
func (t Transform) Up() Vec3 {
	return t.Rotation.Matrix().TransformDirection(Up).Normalize()
}
