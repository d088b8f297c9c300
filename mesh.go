package boneview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// Geometry is an indexed triangle list in mesh-local space.
type Geometry struct {
	Positions []r3.Vec
	Indices   []uint16
}

// TriangleCount returns the number of triangles in g.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// NewBoxGeometry returns a unit cube centred on the origin with outward,
// counter-clockwise faces. Scale it through BoneMesh.Scale.
func NewBoxGeometry() *Geometry {
	const h = 0.5
	return &Geometry{
		Positions: []r3.Vec{
			{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h}, // front
			{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h}, // back
		},
		Indices: []uint16{
			0, 1, 2, 0, 2, 3, // +Z
			5, 4, 7, 5, 7, 6, // -Z
			1, 5, 6, 1, 6, 2, // +X
			4, 0, 3, 4, 3, 7, // -X
			3, 2, 6, 3, 6, 7, // +Y
			4, 5, 1, 4, 1, 0, // -Y
		},
	}
}

// --- ID counter ---

// meshIDCounter is a plain counter; boneview is single-threaded.
var meshIDCounter uint32

func nextMeshID() uint32 {
	meshIDCounter++
	return meshIDCounter
}

// BoneMesh is a single pickable bone. A Model owns its meshes; the
// interactor only references them.
type BoneMesh struct {
	// Identity
	ID         uint32
	Name       string // canonical bone name used for metadata lookup
	SourceName string // raw name before normalization

	Geometry *Geometry
	Material *Material

	// Local transform relative to the model root.
	Position r3.Vec
	Scale    r3.Vec

	// Opacity fades the mesh independently of its material (isolation).
	Opacity float64

	Visible  bool
	Pickable bool

	model *Model

	// Cached world-space vertices, keyed by the world matrix they were
	// computed with.
	worldVerts  []r3.Vec
	worldMatrix mgl64.Mat4
	worldValid  bool
}

// NewBoneMesh creates a visible, pickable mesh with a fresh ID and the
// default bone material.
func NewBoneMesh(name string, geom *Geometry) *BoneMesh {
	return &BoneMesh{
		ID:         nextMeshID(),
		Name:       name,
		SourceName: name,
		Geometry:   geom,
		Material:   NewMaterial(BoneColor),
		Scale:      r3.Vec{X: 1, Y: 1, Z: 1},
		Opacity:    1,
		Visible:    true,
		Pickable:   true,
	}
}

// Model returns the model that owns m, or nil for a detached mesh.
func (m *BoneMesh) Model() *Model {
	return m.model
}

// localMatrix returns Translate(Position) * Scale(Scale).
func (m *BoneMesh) localMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(m.Position.X, m.Position.Y, m.Position.Z)
	return t.Mul4(mgl64.Scale3D(m.Scale.X, m.Scale.Y, m.Scale.Z))
}

// WorldMatrix returns the mesh's model-to-world transform.
func (m *BoneMesh) WorldMatrix() mgl64.Mat4 {
	if m.model == nil {
		return m.localMatrix()
	}
	return m.model.Matrix().Mul4(m.localMatrix())
}

// worldMatrixAt returns the world transform with the owning model rotated to
// rotY instead of its current rotation.
func (m *BoneMesh) worldMatrixAt(rotY float64) mgl64.Mat4 {
	if m.model == nil {
		return m.localMatrix()
	}
	return m.model.matrixAt(rotY).Mul4(m.localMatrix())
}

// WorldVertices returns the geometry positions transformed to world space.
// The returned slice is reused between calls and MUST NOT be retained.
func (m *BoneMesh) WorldVertices() []r3.Vec {
	if m.Geometry == nil {
		return nil
	}
	w := m.WorldMatrix()
	if m.worldValid && w == m.worldMatrix && len(m.worldVerts) == len(m.Geometry.Positions) {
		return m.worldVerts
	}
	m.worldVerts = transformPositions(m.Geometry.Positions, w, m.worldVerts[:0])
	m.worldMatrix = w
	m.worldValid = true
	return m.worldVerts
}

// WorldBounds returns the world-space axis-aligned bounding box of the mesh.
func (m *BoneMesh) WorldBounds() r3.Box {
	return boundsOf(m.WorldVertices())
}

// boundsAt returns the world bounding box with the model rotated to rotY.
func (m *BoneMesh) boundsAt(rotY float64) r3.Box {
	if m.Geometry == nil {
		return r3.Box{}
	}
	return boundsOf(transformPositions(m.Geometry.Positions, m.worldMatrixAt(rotY), nil))
}

// transformPositions appends each position transformed by mat to dst.
func transformPositions(src []r3.Vec, mat mgl64.Mat4, dst []r3.Vec) []r3.Vec {
	for _, p := range src {
		dst = append(dst, fromMgl(mgl64.TransformCoordinate(toMgl(p), mat)))
	}
	return dst
}

// boundsOf scans pts and returns their axis-aligned bounding box. An empty
// input yields the zero box.
func boundsOf(pts []r3.Vec) r3.Box {
	if len(pts) == 0 {
		return r3.Box{}
	}
	b := r3.Box{
		Min: r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	for _, p := range pts {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Min.Z = math.Min(b.Min.Z, p.Z)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
		b.Max.Z = math.Max(b.Max.Z, p.Z)
	}
	return b
}

func toMgl(v r3.Vec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// lerpVec interpolates linearly between a and b.
func lerpVec(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}
