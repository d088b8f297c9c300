package boneview

// Material describes the surface appearance of a BoneMesh. Meshes hold a
// pointer so highlighting can swap the whole material without touching the
// original value.
type Material struct {
	Color             Color
	Emissive          Color
	EmissiveIntensity float64
	Roughness         float64
	Opacity           float64
	Transparent       bool
}

// BoneColor is the default bone tint (0xe3dac9).
var BoneColor = ColorFromHex(0xe3dac9)

// NewMaterial returns an opaque, non-emissive material of the given color.
func NewMaterial(c Color) *Material {
	return &Material{
		Color:     c,
		Emissive:  ColorBlack,
		Roughness: 0.5,
		Opacity:   1,
	}
}

// Clone returns an independent copy of m.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Tinted returns a copy of m with its emissive color and intensity replaced.
// The receiver is never modified.
func (m *Material) Tinted(emissive Color, intensity float64) *Material {
	c := m.Clone()
	c.Emissive = emissive
	c.EmissiveIntensity = intensity
	return c
}
