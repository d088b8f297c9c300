package boneview

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Ray is a half-line from Origin along the unit direction Dir.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// IntersectBox returns the entry distance of the ray into box b using the
// slab method. A ray starting inside the box reports 0.
func (r Ray) IntersectBox(b r3.Box) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	axes := [3][3]float64{
		{r.Origin.X, r.Dir.X, 0},
		{r.Origin.Y, r.Dir.Y, 0},
		{r.Origin.Z, r.Dir.Z, 0},
	}
	mins := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	maxs := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for i, ax := range axes {
		o, d := ax[0], ax[1]
		if d == 0 {
			if o < mins[i] || o > maxs[i] {
				return 0, false
			}
			continue
		}
		t1 := (mins[i] - o) / d
		t2 := (maxs[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	return math.Max(tmin, 0), true
}

// triangleEpsilon rejects rays nearly parallel to a triangle.
const triangleEpsilon = 1e-9

// IntersectTriangle returns the distance to triangle (a, b, c) using the
// Möller-Trumbore test. Both faces are hit.
func (r Ray) IntersectTriangle(a, b, c r3.Vec) (float64, bool) {
	e1 := r3.Sub(b, a)
	e2 := r3.Sub(c, a)
	p := r3.Cross(r.Dir, e2)
	det := r3.Dot(e1, p)
	if det > -triangleEpsilon && det < triangleEpsilon {
		return 0, false
	}
	inv := 1 / det
	s := r3.Sub(r.Origin, a)
	u := r3.Dot(s, p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := r3.Cross(s, e1)
	v := r3.Dot(r.Dir, q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := r3.Dot(e2, q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectMesh returns the nearest triangle hit on mesh in world space.
func (r Ray) IntersectMesh(m *BoneMesh) (float64, bool) {
	if m.Geometry == nil {
		return 0, false
	}
	verts := m.WorldVertices()
	if _, ok := r.IntersectBox(boundsOf(verts)); !ok {
		return 0, false
	}
	best := math.Inf(1)
	found := false
	idx := m.Geometry.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		t, ok := r.IntersectTriangle(verts[idx[i]], verts[idx[i+1]], verts[idx[i+2]])
		if ok && t < best {
			best = t
			found = true
		}
	}
	return best, found
}
