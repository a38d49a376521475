package glhost

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-mirror/pkg/math"
)

// Shape selects one of the built-in meshes.
type Shape int

const (
	ShapeCube Shape = iota
	// ShapeQuad is a unit square in the XZ plane facing +Y.
	ShapeQuad
)

type vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// face appends two counter-clockwise triangles for the quad a-b-c-d.
func face(out []vertex, n [3]float32, a, b, c, d [3]float32) []vertex {
	return append(out,
		vertex{a, n}, vertex{b, n}, vertex{c, n},
		vertex{a, n}, vertex{c, n}, vertex{d, n},
	)
}

func cubeVertices() []vertex {
	const h = 0.5
	v := make([]vertex, 0, 36)
	v = face(v, [3]float32{0, 0, 1}, [3]float32{-h, -h, h}, [3]float32{h, -h, h}, [3]float32{h, h, h}, [3]float32{-h, h, h})
	v = face(v, [3]float32{0, 0, -1}, [3]float32{h, -h, -h}, [3]float32{-h, -h, -h}, [3]float32{-h, h, -h}, [3]float32{h, h, -h})
	v = face(v, [3]float32{1, 0, 0}, [3]float32{h, -h, h}, [3]float32{h, -h, -h}, [3]float32{h, h, -h}, [3]float32{h, h, h})
	v = face(v, [3]float32{-1, 0, 0}, [3]float32{-h, -h, -h}, [3]float32{-h, -h, h}, [3]float32{-h, h, h}, [3]float32{-h, h, -h})
	v = face(v, [3]float32{0, 1, 0}, [3]float32{-h, h, h}, [3]float32{h, h, h}, [3]float32{h, h, -h}, [3]float32{-h, h, -h})
	v = face(v, [3]float32{0, -1, 0}, [3]float32{-h, -h, -h}, [3]float32{h, -h, -h}, [3]float32{h, -h, h}, [3]float32{-h, -h, h})
	return v
}

func quadVertices() []vertex {
	const h = 0.5
	return face(nil, [3]float32{0, 1, 0},
		[3]float32{-h, 0, h}, [3]float32{h, 0, h}, [3]float32{h, 0, -h}, [3]float32{-h, 0, -h})
}

func shapeVertices(s Shape) []vertex {
	if s == ShapeQuad {
		return quadVertices()
	}
	return cubeVertices()
}

// windingNormal returns the geometric normal of triangle abc, counter-clockwise front.
func windingNormal(a, b, c [3]float32) math.Vec3 {
	va := math.Vec3{X: a[0], Y: a[1], Z: a[2]}
	vb := math.Vec3{X: b[0], Y: b[1], Z: b[2]}
	vc := math.Vec3{X: c[0], Y: c[1], Z: c[2]}
	return vb.Sub(va).Cross(vc.Sub(va)).Normalize()
}

type mesh struct {
	vao   uint32
	vbo   uint32
	count int32
}

func uploadMesh(vertices []vertex) *mesh {
	m := &mesh{count: int32(len(vertices))}
	stride := int32(unsafe.Sizeof(vertex{}))

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(stride), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return m
}

func (m *mesh) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
}

func (m *mesh) destroy() {
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
}
