package boneview

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// --- Color and material ---

func TestColorFromHex(t *testing.T) {
	c := ColorFromHex(0xff8000)
	if c.R != 1 || !approxEqual(c.G, 128.0/255, 1e-12) || c.B != 0 || c.A != 1 {
		t.Errorf("ColorFromHex = %+v", c)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#ff8800", ColorFromHex(0xff8800), true},
		{"ff8800", ColorFromHex(0xff8800), true},
		{"0x333333", ColorFromHex(0x333333), true},
		{" #E3DAC9 ", ColorFromHex(0xe3dac9), true},
		{"#fff", Color{}, false},
		{"zzzzzz", Color{}, false},
		{"", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("err = %v, want ok %v", err, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMaterialTintedLeavesReceiver(t *testing.T) {
	m := NewMaterial(BoneColor)
	tinted := m.Tinted(ColorFromHex(0xff8800), 0.6)

	if m.Emissive != ColorBlack || m.EmissiveIntensity != 0 {
		t.Errorf("receiver changed: %+v", m)
	}
	if tinted == m || tinted.Color != BoneColor || tinted.EmissiveIntensity != 0.6 {
		t.Errorf("tinted = %+v", tinted)
	}
	clone := m.Clone()
	clone.Opacity = 0.2
	if m.Opacity != 1 {
		t.Error("Clone shares state with the original")
	}
}

// --- Model ---

func TestNewModelNormalizesNames(t *testing.T) {
	m, err := NewModel("test", []Part{
		{Name: "femur_l", Size: r3.Vec{X: 1, Y: 1, Z: 1}},
		{Name: "lamp", Size: r3.Vec{X: 1, Y: 1, Z: 1}},
		{Name: "", Size: r3.Vec{X: 1, Y: 1, Z: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	meshes := m.Meshes()
	if meshes[0].Name != "Femur" || meshes[0].SourceName != "femur_l" {
		t.Errorf("mesh 0 = %q (%q)", meshes[0].Name, meshes[0].SourceName)
	}
	if meshes[1].Name != "lamp" {
		t.Errorf("mesh 1 = %q", meshes[1].Name)
	}
	if want := "Bone_"; !strings.HasPrefix(meshes[2].Name, want) {
		t.Errorf("mesh 2 = %q, want Bone_<id>", meshes[2].Name)
	}
	for _, mesh := range meshes {
		if mesh.Model() != m || !mesh.Visible || !mesh.Pickable || mesh.Opacity != 1 {
			t.Errorf("mesh %q not initialized: %+v", mesh.Name, mesh)
		}
	}
	if meshes[0].ID == meshes[1].ID {
		t.Error("mesh IDs are not unique")
	}
}

func TestNewModelErrors(t *testing.T) {
	if _, err := NewModel("empty", nil); !errors.Is(err, ErrEmptyModel) {
		t.Errorf("empty model err = %v, want ErrEmptyModel", err)
	}
	_, err := NewModel("flat", []Part{{Name: "skull", Size: r3.Vec{X: 1, Y: 0, Z: 1}}})
	if err == nil || !strings.Contains(err.Error(), "skull") {
		t.Errorf("zero-size part err = %v", err)
	}
}

func TestModelAddRemoveFind(t *testing.T) {
	a, _ := NewModel("a", []Part{{Name: "skull", Size: r3.Vec{X: 1, Y: 1, Z: 1}}})
	b, _ := NewModel("b", []Part{{Name: "tibia", Size: r3.Vec{X: 1, Y: 1, Z: 1}}})
	skull := a.FindMesh("Skull")
	if skull == nil {
		t.Fatal("FindMesh(Skull) = nil")
	}
	if a.FindMesh("Tibia") != nil {
		t.Error("FindMesh found a mesh from another model")
	}

	b.AddMesh(skull)
	if len(a.Meshes()) != 0 || len(b.Meshes()) != 2 || skull.Model() != b {
		t.Errorf("re-parenting failed: a=%d b=%d", len(a.Meshes()), len(b.Meshes()))
	}
	b.RemoveMesh(skull)
	b.RemoveMesh(skull)
	if skull.Model() != nil || len(b.Meshes()) != 1 {
		t.Error("RemoveMesh did not detach")
	}
}

func TestMeshWorldBoundsFollowRoot(t *testing.T) {
	m, _ := NewModel("test", []Part{{Name: "skull", Center: r3.Vec{X: 30}, Size: r3.Vec{X: 2, Y: 4, Z: 6}}})
	mesh := m.Meshes()[0]

	b := mesh.WorldBounds()
	if !vecNear(b.Min, r3.Vec{X: 29, Y: -2, Z: -3}, 1e-9) || !vecNear(b.Max, r3.Vec{X: 31, Y: 2, Z: 3}, 1e-9) {
		t.Errorf("bounds = %+v", b)
	}

	m.RotationY = math.Pi / 2
	if c := boxCenter(mesh.WorldBounds()); !vecNear(c, r3.Vec{Z: -30}, 1e-9) {
		t.Errorf("rotated center = %v, want (0, 0, -30)", c)
	}

	m.RotationY = 0
	m.Position = r3.Vec{Y: 10}
	m.Scale = 2
	if c := boxCenter(mesh.WorldBounds()); !vecNear(c, r3.Vec{X: 60, Y: 10}, 1e-9) {
		t.Errorf("scaled center = %v, want (60, 10, 0)", c)
	}

	// boundsAt previews a rotation without applying it.
	m.Scale = 1
	m.Position = r3.Vec{}
	if c := boxCenter(mesh.boundsAt(math.Pi)); !vecNear(c, r3.Vec{X: -30}, 1e-9) {
		t.Errorf("boundsAt(pi) center = %v", c)
	}
	if m.RotationY != 0 {
		t.Error("boundsAt changed the model rotation")
	}
}

func TestDetachedMeshUsesLocalTransform(t *testing.T) {
	mesh := NewBoneMesh("loose", NewBoxGeometry())
	mesh.Position = r3.Vec{X: 5}
	if c := boxCenter(mesh.WorldBounds()); c != (r3.Vec{X: 5}) {
		t.Errorf("center = %v", c)
	}
	mesh.Geometry = nil
	if mesh.WorldVertices() != nil {
		t.Error("nil geometry returned vertices")
	}
}

// --- Skeleton ---

func TestNewSkeleton(t *testing.T) {
	m, err := NewSkeleton()
	if err != nil {
		t.Fatal(err)
	}
	if got := len(m.Meshes()); got != len(DefaultSkeletonLayout()) {
		t.Errorf("meshes = %d", got)
	}
	if got := m.TriangleCount(); got != 12*len(m.Meshes()) {
		t.Errorf("TriangleCount = %d", got)
	}

	b := m.Bounds()
	if h := b.Max.Y - b.Min.Y; !approxEqual(h, SkeletonHeight, 1e-9) {
		t.Errorf("height = %v, want %v", h, float64(SkeletonHeight))
	}

	for _, mesh := range m.Meshes() {
		if MatchBoneName(mesh.SourceName) == "" {
			t.Errorf("layout part %q maps to no bone", mesh.SourceName)
		}
	}

	// Left-side bones sit at +X, right-side at -X.
	for _, mesh := range m.Meshes() {
		switch {
		case strings.HasSuffix(mesh.SourceName, "_l") && mesh.Position.X <= 0:
			t.Errorf("%s at x=%v, want positive", mesh.SourceName, mesh.Position.X)
		case strings.HasSuffix(mesh.SourceName, "_r") && mesh.Position.X >= 0:
			t.Errorf("%s at x=%v, want negative", mesh.SourceName, mesh.Position.X)
		}
	}
}

func TestLoadLayout(t *testing.T) {
	data := `{"parts": [
		{"name": "femur_l", "center": [8, -28, 0], "size": [5, 32, 5]},
		{"name": "skull", "center": [0, 64, 0], "size": [16, 22, 19]}
	]}`
	parts, err := LoadLayout(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 2 {
		t.Fatalf("parts = %d", len(parts))
	}
	if parts[0].Name != "femur_l" || parts[0].Center != (r3.Vec{X: 8, Y: -28}) || parts[0].Size != (r3.Vec{X: 5, Y: 32, Z: 5}) {
		t.Errorf("part 0 = %+v", parts[0])
	}
}

func TestLoadLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		empty bool
	}{
		{"not json", `parts:`, false},
		{"unknown field", `{"parts": [], "bones": []}`, false},
		{"no parts", `{"parts": []}`, true},
		{"missing parts", `{}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLayout(strings.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Is(err, ErrEmptyModel) != tt.empty {
				t.Errorf("err = %v, ErrEmptyModel %v", err, tt.empty)
			}
		})
	}
}
