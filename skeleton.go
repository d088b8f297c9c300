package boneview

import (
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// Part is one row of a skeleton layout: a raw mesh name and the box it
// occupies in model space.
type Part struct {
	Name   string
	Center r3.Vec
	Size   r3.Vec
}

// layoutPart is the JSON form of Part.
type layoutPart struct {
	Name   string     `json:"name"`
	Center [3]float64 `json:"center"`
	Size   [3]float64 `json:"size"`
}

// layoutFile is the top-level JSON structure of a layout file.
type layoutFile struct {
	Parts []layoutPart `json:"parts"`
}

// LoadLayout parses a JSON skeleton layout:
//
//	{"parts": [{"name": "femur_l", "center": [8, -28, 0], "size": [5, 32, 5]}]}
func LoadLayout(r io.Reader) ([]Part, error) {
	var f layoutFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if len(f.Parts) == 0 {
		return nil, fmt.Errorf("parse layout: %w", ErrEmptyModel)
	}
	parts := make([]Part, len(f.Parts))
	for i, p := range f.Parts {
		parts[i] = Part{
			Name:   p.Name,
			Center: r3.Vec{X: p.Center[0], Y: p.Center[1], Z: p.Center[2]},
			Size:   r3.Vec{X: p.Size[0], Y: p.Size[1], Z: p.Size[2]},
		}
	}
	return parts, nil
}

// SkeletonHeight is the height of the default layout in world units.
const SkeletonHeight = 150

// DefaultSkeletonLayout returns a 150-unit-tall box skeleton centred on the
// origin, facing +Z. Left-side bones sit at +X.
func DefaultSkeletonLayout() []Part {
	parts := []Part{
		part("skull", 0, 64, 0, 16, 22, 19),
		part("spine", 0, 26, -5, 4, 52, 4),
		part("ribcage", 0, 30, 0, 28, 26, 16),
		part("sternum", 0, 32, 8.5, 4, 16, 1.5),
		part("pelvis", 0, -6, 0, 26, 12, 12),
		part("pubis", 0, -11, 6, 8, 3, 2),
	}
	sided := []Part{
		part("clavicle", 8, 44, 4, 14, 2, 2),
		part("scapula", 9, 36, -8, 9, 14, 2),
		part("humerus", 18, 28, 0, 4, 30, 4),
		part("radius", 19.5, 0, 1.5, 2, 24, 2),
		part("ulna", 17, 0, -1.5, 2, 24, 2),
		part("carpal", 18.5, -14.5, 0, 5, 3, 3),
		part("metacarpal", 18.5, -19, 0, 5, 6, 2),
		part("fingers", 18.5, -25, 0, 5, 6, 2),
		part("femur", 8, -28, 0, 5, 32, 5),
		part("patella", 8, -45, 3, 4, 3, 2),
		part("tibia", 8, -58.5, 0, 3.5, 26, 3.5),
		part("tarsal", 8, -73, 1, 5, 3, 6),
		part("metatarsal", 8, -74, 7, 5, 2, 6),
		part("toes", 8, -74.5, 12, 5, 1, 4),
	}
	for _, p := range sided {
		left := p
		left.Name = p.Name + "_l"
		right := p
		right.Name = p.Name + "_r"
		right.Center.X = -p.Center.X
		parts = append(parts, left, right)
	}
	return parts
}

func part(name string, cx, cy, cz, sx, sy, sz float64) Part {
	return Part{
		Name:   name,
		Center: r3.Vec{X: cx, Y: cy, Z: cz},
		Size:   r3.Vec{X: sx, Y: sy, Z: sz},
	}
}

// NewSkeleton builds a Model from DefaultSkeletonLayout.
func NewSkeleton() (*Model, error) {
	return NewModel("skeleton", DefaultSkeletonLayout())
}
