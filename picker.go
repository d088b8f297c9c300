package boneview

import "sort"

// Hit is one ray intersection with a mesh.
type Hit struct {
	Mesh     *BoneMesh
	Distance float64
}

// Picker casts camera rays against a set of pickable meshes.
type Picker struct {
	camera *Camera
	meshes func() []*BoneMesh
	hitBuf []Hit
}

// NewPicker creates a picker over a fixed set of meshes. The slice is not
// copied.
func NewPicker(cam *Camera, meshes []*BoneMesh) *Picker {
	return &Picker{camera: cam, meshes: func() []*BoneMesh { return meshes }}
}

// NewModelPicker creates a picker that follows model: meshes added to or
// removed from it are picked or skipped from the next call on.
func NewModelPicker(cam *Camera, model *Model) *Picker {
	return &Picker{camera: cam, meshes: model.Meshes}
}

// PickAll returns every visible, pickable mesh under screen point (x, y),
// nearest first. Hits closer than the near plane or beyond the far plane are
// dropped. The returned slice is reused between calls.
func (p *Picker) PickAll(x, y float64) []Hit {
	p.hitBuf = p.hitBuf[:0]
	if p.camera == nil {
		return p.hitBuf
	}
	ray := p.camera.ScreenRay(x, y)
	for _, m := range p.meshes() {
		if m == nil || !m.Visible || !m.Pickable {
			continue
		}
		t, ok := ray.IntersectMesh(m)
		if !ok || t < p.camera.Near || t > p.camera.Far {
			continue
		}
		p.hitBuf = append(p.hitBuf, Hit{Mesh: m, Distance: t})
	}
	sort.SliceStable(p.hitBuf, func(i, j int) bool {
		return p.hitBuf[i].Distance < p.hitBuf[j].Distance
	})
	return p.hitBuf
}

// Pick returns the nearest mesh under screen point (x, y), or nil.
func (p *Picker) Pick(x, y float64) *BoneMesh {
	hits := p.PickAll(x, y)
	if len(hits) == 0 {
		return nil
	}
	return hits[0].Mesh
}
