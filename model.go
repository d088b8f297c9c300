package boneview

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptyModel is returned when a model would contain no meshes. A viewer
// cannot start without something to pick.
var ErrEmptyModel = errors.New("boneview: model has no meshes")

// Model is the root transform of a skeleton and owns its bone meshes.
// World = Translate(Position) * RotateY(RotationY) * Scale(Scale) * local.
type Model struct {
	Name      string
	Position  r3.Vec
	Scale     float64
	RotationY float64 // radians

	meshes []*BoneMesh
}

// NewModel builds a model from layout parts. Each part becomes a box mesh
// whose name is normalized with NormalizeMeshName. Parts with a
// non-positive size are rejected.
func NewModel(name string, parts []Part) (*Model, error) {
	m := &Model{Name: name, Scale: 1}
	for i, p := range parts {
		if p.Size.X <= 0 || p.Size.Y <= 0 || p.Size.Z <= 0 {
			return nil, fmt.Errorf("boneview: part %d (%q): size must be positive, got %v", i, p.Name, p.Size)
		}
		mesh := NewBoneMesh(p.Name, NewBoxGeometry())
		mesh.Name = NormalizeMeshName(p.Name, mesh.ID)
		mesh.Position = p.Center
		mesh.Scale = p.Size
		m.AddMesh(mesh)
	}
	if len(m.meshes) == 0 {
		return nil, ErrEmptyModel
	}
	return m, nil
}

// AddMesh attaches mesh to the model, detaching it from any previous owner.
func (m *Model) AddMesh(mesh *BoneMesh) {
	if mesh.model != nil && mesh.model != m {
		mesh.model.RemoveMesh(mesh)
	}
	mesh.model = m
	m.meshes = append(m.meshes, mesh)
}

// RemoveMesh detaches mesh from the model. No-op if it is not attached.
func (m *Model) RemoveMesh(mesh *BoneMesh) {
	for i, c := range m.meshes {
		if c == mesh {
			// Copy so slices handed out by Meshes keep their contents.
			m.meshes = append(slices.Clip(m.meshes[:i]), m.meshes[i+1:]...)
			mesh.model = nil
			return
		}
	}
}

// Meshes returns the model's meshes in layout order. The returned slice MUST
// NOT be mutated.
func (m *Model) Meshes() []*BoneMesh {
	return m.meshes
}

// FindMesh returns the first mesh with the given canonical name, or nil.
func (m *Model) FindMesh(name string) *BoneMesh {
	for _, mesh := range m.meshes {
		if mesh.Name == name {
			return mesh
		}
	}
	return nil
}

// Matrix returns the model's root transform.
func (m *Model) Matrix() mgl64.Mat4 {
	return m.matrixAt(m.RotationY)
}

func (m *Model) matrixAt(rotY float64) mgl64.Mat4 {
	s := m.Scale
	if s == 0 {
		s = 1
	}
	t := mgl64.Translate3D(m.Position.X, m.Position.Y, m.Position.Z)
	return t.Mul4(mgl64.HomogRotate3DY(rotY)).Mul4(mgl64.Scale3D(s, s, s))
}

// Bounds returns the union of all visible mesh bounds in world space.
func (m *Model) Bounds() r3.Box {
	var pts []r3.Vec
	for _, mesh := range m.meshes {
		if !mesh.Visible {
			continue
		}
		b := mesh.WorldBounds()
		pts = append(pts, b.Min, b.Max)
	}
	return boundsOf(pts)
}

// TriangleCount returns the total triangle count of all meshes.
func (m *Model) TriangleCount() int {
	n := 0
	for _, mesh := range m.meshes {
		if mesh.Geometry != nil {
			n += mesh.Geometry.TriangleCount()
		}
	}
	return n
}

// boxCenter returns the midpoint of b.
func boxCenter(b r3.Box) r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// boxSize returns the edge lengths of b.
func boxSize(b r3.Box) r3.Vec {
	return r3.Sub(b.Max, b.Min)
}
