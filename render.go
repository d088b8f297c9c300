package boneview

import (
	"image"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

// maxBatchVertices caps the vertices submitted in one DrawTriangles32 call.
const maxBatchVertices = 65535

// Light rig defaults.
const (
	DefaultAmbientIntensity     = 0.6
	DefaultDirectionalIntensity = 0.8
)

// DefaultLightPosition is the position of the directional light. It shines
// toward the origin.
var DefaultLightPosition = r3.Vec{X: 50, Y: 100, Z: 100}

// RenderStats summarizes one Draw call.
type RenderStats struct {
	Meshes    int // meshes that contributed triangles
	Triangles int // triangles drawn
	Culled    int // back-facing or near-clipped triangles
	DrawCalls int
}

// renderTri is a projected, shaded triangle ready for submission.
type renderTri struct {
	x, y  [3]float32
	color Color // straight alpha
	depth float64
}

// Renderer draws bone meshes with flat shading through DrawTriangles32.
// Triangles are sorted far to near and drawn with alpha blending, so faded
// meshes composite over what is behind them.
type Renderer struct {
	Ambient     float64
	Directional float64
	LightDir    r3.Vec // unit vector pointing toward the light
	Clear       Color

	tris  []renderTri
	verts []ebiten.Vertex
	inds  []uint32
	tex   *ebiten.Image
}

// NewRenderer creates a renderer with the default light rig.
func NewRenderer() *Renderer {
	return &Renderer{
		Ambient:     DefaultAmbientIntensity,
		Directional: DefaultDirectionalIntensity,
		LightDir:    r3.Unit(DefaultLightPosition),
		Clear:       Color{0.94, 0.94, 0.94, 1},
	}
}

// shade returns the lit color of a face with unit normal n.
func (r *Renderer) shade(m *Material, n r3.Vec, opacity float64) Color {
	lambert := math.Max(0, r3.Dot(n, r.LightDir))
	k := r.Ambient + r.Directional*lambert
	ei := m.EmissiveIntensity
	return Color{
		R: clamp01(m.Color.R*k + m.Emissive.R*ei),
		G: clamp01(m.Color.G*k + m.Emissive.G*ei),
		B: clamp01(m.Color.B*k + m.Emissive.B*ei),
		A: clamp01(m.Opacity * opacity),
	}
}

// projectScene projects and shades the front-facing triangles of meshes and
// returns them sorted far to near. The returned slice is reused.
func (r *Renderer) projectScene(cam *Camera, meshes []*BoneMesh, stats *RenderStats) []renderTri {
	r.tris = r.tris[:0]
	for _, m := range meshes {
		if m == nil || !m.Visible || m.Geometry == nil || m.Material == nil || m.Opacity <= 0 {
			continue
		}
		verts := m.WorldVertices()
		idx := m.Geometry.Indices
		contributed := false
		for i := 0; i+2 < len(idx); i += 3 {
			a, b, c := verts[idx[i]], verts[idx[i+1]], verts[idx[i+2]]
			n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
			if r3.Dot(n, r3.Sub(cam.Position, a)) <= 0 {
				stats.Culled++
				continue
			}
			var t renderTri
			visible := true
			for k, p := range [3]r3.Vec{a, b, c} {
				sx, sy, w, ok := cam.WorldToScreen(p)
				if !ok {
					visible = false
					break
				}
				t.x[k] = float32(sx)
				t.y[k] = float32(sy)
				t.depth += w / 3
			}
			if !visible {
				stats.Culled++
				continue
			}
			t.color = r.shade(m.Material, r3.Unit(n), m.Opacity)
			r.tris = append(r.tris, t)
			contributed = true
		}
		if contributed {
			stats.Meshes++
		}
	}
	sort.SliceStable(r.tris, func(i, j int) bool {
		return r.tris[i].depth > r.tris[j].depth
	})
	stats.Triangles = len(r.tris)
	return r.tris
}

// whiteTexture returns the interior pixel of a 3x3 white image. Sampling the
// interior avoids edge bleeding.
func (r *Renderer) whiteTexture() *ebiten.Image {
	if r.tex == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(ColorWhite.toRGBA())
		r.tex = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.tex
}

// Draw clears the camera viewport and renders meshes into dst.
func (r *Renderer) Draw(dst *ebiten.Image, cam *Camera, meshes []*BoneMesh) RenderStats {
	var stats RenderStats
	vp := cam.Viewport
	fillRect(dst, vp, r.Clear)

	tris := r.projectScene(cam, meshes, &stats)
	if len(tris) == 0 {
		return stats
	}

	tex := r.whiteTexture()
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	for i := range tris {
		if len(r.verts)+3 > maxBatchVertices {
			r.flush(dst, tex, &stats)
		}
		t := &tris[i]
		c := t.color
		a := float32(c.A)
		base := uint32(len(r.verts))
		for k := 0; k < 3; k++ {
			r.verts = append(r.verts, ebiten.Vertex{
				DstX: t.x[k], DstY: t.y[k],
				SrcX: 1, SrcY: 1,
				ColorR: float32(c.R) * a,
				ColorG: float32(c.G) * a,
				ColorB: float32(c.B) * a,
				ColorA: a,
			})
		}
		r.inds = append(r.inds, base, base+1, base+2)
	}
	r.flush(dst, tex, &stats)
	return stats
}

// flush submits accumulated vertices as a single DrawTriangles32 call.
func (r *Renderer) flush(dst, tex *ebiten.Image, stats *RenderStats) {
	if len(r.verts) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	dst.DrawTriangles32(r.verts, r.inds, tex, &op)
	stats.DrawCalls++
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}
