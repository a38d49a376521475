package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in column 4 (indices 12, 13, 14)
	if got := m.Translation(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translate: got %v, want (5, 10, 15)", got)
	}
}

func TestScaleMatchesMathgl(t *testing.T) {
	got := Scale(2, 3, 4)
	want := mgl32.Scale3D(2, 3, 4)
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Scale element %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestTransformVec3(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformVec3(Vec3{1, 2, 3})

	expected := Vec3{11, 22, 33}
	if result != expected {
		t.Errorf("TransformVec3: got %v, want %v", result, expected)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformDirection(Vec3{0, 1, 0})

	if result != (Vec3{0, 1, 0}) {
		t.Errorf("TransformDirection: got %v, want (0, 1, 0)", result)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformVec3(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if !vecNear(result, Vec3{0, 0, -1}, 0.001) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestPerspectiveMatchesMathgl(t *testing.T) {
	fov := float32(math.Pi / 4)
	got := Perspective(fov, 1.5, 0.3, 1000)
	want := mgl32.Perspective(fov, 1.5, 0.3, 1000)

	if !mgl32.Mat4(got).ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Perspective = %v, want %v", got, want)
	}
	if got[11] != -1 || got[15] != 0 {
		t.Errorf("Perspective w row = (%f, %f), want (-1, 0)", got[11], got[15])
	}
}

func TestLookAtMatchesMathgl(t *testing.T) {
	eye := Vec3{3, 4, 5}
	center := Vec3{0, 1, 0}

	got := LookAt(eye, center, Up)
	want := mgl32.LookAtV(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})

	if !mgl32.Mat4(got).ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("LookAt = %v, want %v", got, want)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(1, -2, 3).Mul(RotateX(0.4)).Mul(RotateY(1.1))
	inv := m.Inverse()

	product := m.Mul(inv)
	for i := 0; i < 16; i++ {
		if abs(product[i]-Identity()[i]) > 1e-5 {
			t.Fatalf("M * M^-1 element %d = %f, want identity", i, product[i])
		}
	}

	want := mgl32.Mat4(m).Inv()
	if !mgl32.Mat4(inv).ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Inverse = %v, want %v", inv, want)
	}
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	if got := zero.Inverse(); got != Identity() {
		t.Errorf("singular Inverse = %v, want identity", got)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3)
	tr := m.Transpose()

	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Transpose bottom row = (%f, %f, %f), want (1, 2, 3)", tr[3], tr[7], tr[11])
	}
	if tr.Transpose() != m {
		t.Error("Transpose twice should return the original matrix")
	}
}

func TestRowSetRow(t *testing.T) {
	m := Identity()
	m.SetRow(2, Vec4{1, 2, 3, 4})

	if got := m.Row(2); got != (Vec4{1, 2, 3, 4}) {
		t.Errorf("Row(2) = %v, want (1, 2, 3, 4)", got)
	}
	if m[2] != 1 || m[6] != 2 || m[10] != 3 || m[14] != 4 {
		t.Errorf("SetRow wrote wrong indices: %v", m)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func vecNear(a, b Vec3, eps float32) bool {
	return abs(a.X-b.X) <= eps && abs(a.Y-b.Y) <= eps && abs(a.Z-b.Z) <= eps
}
