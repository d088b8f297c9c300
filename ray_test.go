package boneview

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

var unitBox = r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: r3.Vec{X: 1}, Dir: r3.Vec{Y: 1}}
	if got := r.At(3); got != (r3.Vec{X: 1, Y: 3}) {
		t.Errorf("At(3) = %v", got)
	}
}

func TestRayIntersectBox(t *testing.T) {
	tests := []struct {
		name  string
		ray   Ray
		want  float64
		wantK bool
	}{
		{"head on", Ray{r3.Vec{Z: 10}, r3.Vec{Z: -1}}, 9, true},
		{"from inside", Ray{r3.Vec{}, r3.Vec{X: 1}}, 0, true},
		{"pointing away", Ray{r3.Vec{Z: 10}, r3.Vec{Z: 1}}, 0, false},
		{"miss", Ray{r3.Vec{X: 5, Z: 10}, r3.Vec{Z: -1}}, 0, false},
		{"parallel outside", Ray{r3.Vec{Y: 2, Z: 10}, r3.Vec{Z: -1}}, 0, false},
		{"graze edge", Ray{r3.Vec{X: 1, Z: 10}, r3.Vec{Z: -1}}, 9, true},
		{"diagonal", Ray{r3.Vec{X: -5, Y: -5}, r3.Unit(r3.Vec{X: 1, Y: 1})}, 4 * 1.4142135623730951, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.IntersectBox(unitBox)
			if ok != tt.wantK {
				t.Fatalf("hit = %v, want %v", ok, tt.wantK)
			}
			if ok && !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("t = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayIntersectTriangle(t *testing.T) {
	a := r3.Vec{X: -1, Y: -1}
	b := r3.Vec{X: 1, Y: -1}
	c := r3.Vec{Y: 1}

	tests := []struct {
		name string
		ray  Ray
		want float64
		hit  bool
	}{
		{"front", Ray{r3.Vec{Z: 5}, r3.Vec{Z: -1}}, 5, true},
		{"back face", Ray{r3.Vec{Z: -5}, r3.Vec{Z: 1}}, 5, true},
		{"outside", Ray{r3.Vec{X: 2, Z: 5}, r3.Vec{Z: -1}}, 0, false},
		{"behind origin", Ray{r3.Vec{Z: 5}, r3.Vec{Z: 1}}, 0, false},
		{"parallel", Ray{r3.Vec{Z: 1}, r3.Vec{X: 1}}, 0, false},
		{"vertex", Ray{r3.Vec{X: -1, Y: -1, Z: 2}, r3.Vec{Z: -1}}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.IntersectTriangle(a, b, c)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if ok && !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("t = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayIntersectMesh(t *testing.T) {
	m := NewBoneMesh("box", NewBoxGeometry())
	m.Position = r3.Vec{X: 10}
	m.Scale = r3.Vec{X: 4, Y: 4, Z: 4}

	got, ok := Ray{r3.Vec{X: 10, Z: 50}, r3.Vec{Z: -1}}.IntersectMesh(m)
	if !ok || !approxEqual(got, 48, 1e-9) {
		t.Errorf("IntersectMesh = %v, %v, want 48", got, ok)
	}
	if _, ok := (Ray{r3.Vec{Z: 50}, r3.Vec{Z: -1}}).IntersectMesh(m); ok {
		t.Error("ray beside the mesh hit it")
	}

	m.Geometry = nil
	if _, ok := (Ray{r3.Vec{X: 10, Z: 50}, r3.Vec{Z: -1}}).IntersectMesh(m); ok {
		t.Error("mesh without geometry was hit")
	}
}
