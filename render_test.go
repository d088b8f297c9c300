package boneview

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func boxAt(name string, pos r3.Vec, size float64) *BoneMesh {
	m := NewBoneMesh(name, NewBoxGeometry())
	m.Position = pos
	m.Scale = r3.Vec{X: size, Y: size, Z: size}
	return m
}

func TestProjectSceneCullsBackFaces(t *testing.T) {
	r := NewRenderer()
	var stats RenderStats
	tris := r.projectScene(newAxisCamera(), []*BoneMesh{boxAt("a", r3.Vec{}, 10)}, &stats)

	// Looking straight down -Z only the +Z face is visible.
	if len(tris) != 2 {
		t.Errorf("triangles = %d, want 2", len(tris))
	}
	if stats.Triangles != 2 || stats.Culled != 10 || stats.Meshes != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestProjectSceneSkipsHiddenMeshes(t *testing.T) {
	hidden := boxAt("hidden", r3.Vec{}, 10)
	hidden.Visible = false
	faded := boxAt("faded", r3.Vec{}, 10)
	faded.Opacity = 0
	bare := boxAt("bare", r3.Vec{}, 10)
	bare.Material = nil

	var stats RenderStats
	tris := NewRenderer().projectScene(newAxisCamera(), []*BoneMesh{hidden, faded, bare, nil}, &stats)
	if len(tris) != 0 || stats.Meshes != 0 {
		t.Errorf("drew %d triangles from hidden meshes", len(tris))
	}
}

func TestProjectSceneNearPlane(t *testing.T) {
	cam := newAxisCamera()
	var stats RenderStats
	// The box straddles the camera, so every front face has a vertex behind it.
	tris := NewRenderer().projectScene(cam, []*BoneMesh{boxAt("around", r3.Vec{Z: 100}, 10)}, &stats)
	for _, tr := range tris {
		if tr.depth < cam.Near {
			t.Errorf("triangle behind the near plane drawn at depth %v", tr.depth)
		}
	}
	if stats.Culled == 0 {
		t.Error("nothing culled for a box around the camera")
	}
}

func TestProjectSceneSortsFarToNear(t *testing.T) {
	near := boxAt("near", r3.Vec{X: 20, Z: 20}, 5)
	far := boxAt("far", r3.Vec{X: -20, Z: -40}, 5)

	var stats RenderStats
	tris := NewRenderer().projectScene(newAxisCamera(), []*BoneMesh{near, far}, &stats)
	if len(tris) < 2 {
		t.Fatalf("triangles = %d", len(tris))
	}
	for i := 1; i < len(tris); i++ {
		if tris[i].depth > tris[i-1].depth {
			t.Fatalf("triangle %d (depth %v) after nearer triangle (depth %v)", i, tris[i].depth, tris[i-1].depth)
		}
	}
	if stats.Meshes != 2 {
		t.Errorf("Meshes = %d, want 2", stats.Meshes)
	}
}

func TestShade(t *testing.T) {
	r := &Renderer{Ambient: 0.5, Directional: 0.5, LightDir: r3.Vec{Z: 1}}
	m := NewMaterial(ColorWhite)

	lit := r.shade(m, r3.Vec{Z: 1}, 1)
	if lit.R != 1 || lit.A != 1 {
		t.Errorf("facing the light = %+v, want full white", lit)
	}
	dark := r.shade(m, r3.Vec{Z: -1}, 1)
	if dark.R != 0.5 {
		t.Errorf("facing away = %+v, want ambient only", dark)
	}

	glow := m.Tinted(Color{R: 1, A: 1}, 0.5)
	g := r.shade(glow, r3.Vec{Z: -1}, 1)
	if g.R != 1 || g.G != 0.5 {
		t.Errorf("emissive = %+v, want red boosted by 0.5", g)
	}

	m.Opacity = 0.5
	if a := r.shade(m, r3.Vec{Z: 1}, 0.5).A; a != 0.25 {
		t.Errorf("alpha = %v, want material x mesh opacity", a)
	}
}

func TestHighlightChangesShade(t *testing.T) {
	r := NewRenderer()
	m := NewMaterial(BoneColor)
	n := r3.Vec{Z: 1}
	plain := r.shade(m, n, 1)
	opts := DefaultInteractorOptions()
	hl := r.shade(m.Tinted(opts.HighlightColor, opts.HighlightIntensity), n, 1)
	if plain == hl {
		t.Error("highlight has no visible effect")
	}
}
