package boneview

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Fallback panel text for metadata fields with no value.
const (
	NoDescriptionText = "No description provided."
	NoFunctionText    = "No function text provided."
)

// Debug font metrics used by ebitenutil.DebugPrintAt.
const (
	debugCharWidth  = 6
	debugLineHeight = 16
	panelPadding    = 10
	closeButtonSize = 18
)

var whitePixel *ebiten.Image

// solidPixel returns a shared 1x1 white image for filled rectangles.
func solidPixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.toRGBA())
	}
	return whitePixel
}

// fillRect draws r in color c onto dst.
func fillRect(dst *ebiten.Image, r Rect, c Color) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	dst.DrawImage(solidPixel(), &op)
}

// InfoPanel shows the metadata of the selected bone. It is an Overlay:
// presses inside a visible panel never reach the 3D view.
type InfoPanel struct {
	Bounds     Rect
	Background Color

	Title       string
	Description string
	Function    string
	Visible     bool

	// OnClose is called after the close button hides the panel.
	OnClose func()
}

// NewInfoPanel creates a hidden panel occupying bounds.
func NewInfoPanel(bounds Rect) *InfoPanel {
	return &InfoPanel{
		Bounds:     bounds,
		Background: Color{0.08, 0.08, 0.1, 0.85},
	}
}

// ShowBone fills the panel from meta and makes it visible. Empty fields fall
// back to fixed placeholder text; an empty display name falls back to name.
func (p *InfoPanel) ShowBone(name string, meta BoneMetadata) {
	p.Title = meta.DisplayName
	if p.Title == "" {
		p.Title = name
	}
	p.Description = meta.Definition
	if p.Description == "" {
		p.Description = NoDescriptionText
	}
	p.Function = meta.Function
	if p.Function == "" {
		p.Function = NoFunctionText
	}
	p.Visible = true
}

// Hide hides the panel and keeps its text.
func (p *InfoPanel) Hide() {
	p.Visible = false
}

// Close hides the panel and clears its text.
func (p *InfoPanel) Close() {
	p.Visible = false
	p.Title = ""
	p.Description = ""
	p.Function = ""
}

// Contains reports whether (x, y) hits the visible panel.
func (p *InfoPanel) Contains(x, y float64) bool {
	return p.Visible && p.Bounds.Contains(x, y)
}

// closeRect is the close button in the panel's top-right corner.
func (p *InfoPanel) closeRect() Rect {
	return Rect{
		X:      p.Bounds.X + p.Bounds.Width - closeButtonSize - 4,
		Y:      p.Bounds.Y + 4,
		Width:  closeButtonSize,
		Height: closeButtonSize,
	}
}

// PointerDown closes the panel when the close button is pressed. Other
// presses are swallowed.
func (p *InfoPanel) PointerDown(ctx PointerContext) {
	if !p.closeRect().Contains(ctx.X, ctx.Y) {
		return
	}
	p.Close()
	if p.OnClose != nil {
		p.OnClose()
	}
}

// Lines returns the panel text laid out for its width.
func (p *InfoPanel) Lines() []string {
	cols := int((p.Bounds.Width - 2*panelPadding) / debugCharWidth)
	lines := []string{p.Title, ""}
	lines = append(lines, "Description:")
	lines = append(lines, wrapText(p.Description, cols)...)
	lines = append(lines, "", "Function:")
	lines = append(lines, wrapText(p.Function, cols)...)
	return lines
}

// Draw renders the panel onto dst. Hidden panels draw nothing.
func (p *InfoPanel) Draw(dst *ebiten.Image) {
	if !p.Visible {
		return
	}
	fillRect(dst, p.Bounds, p.Background)

	cr := p.closeRect()
	fillRect(dst, cr, Color{0.6, 0.2, 0.2, 1})
	ebitenutil.DebugPrintAt(dst, "x", int(cr.X)+6, int(cr.Y)+1)

	x := int(p.Bounds.X) + panelPadding
	y := int(p.Bounds.Y) + panelPadding
	maxY := int(p.Bounds.Y+p.Bounds.Height) - debugLineHeight
	for _, line := range p.Lines() {
		if y > maxY {
			break
		}
		ebitenutil.DebugPrintAt(dst, line, x, y)
		y += debugLineHeight
	}
}

// Button is a labelled overlay that runs OnPress when pressed.
type Button struct {
	Bounds  Rect
	Label   string
	Color   Color
	Visible bool
	OnPress func()
}

// NewButton creates a visible button.
func NewButton(bounds Rect, label string, onPress func()) *Button {
	return &Button{
		Bounds:  bounds,
		Label:   label,
		Color:   Color{0.2, 0.3, 0.5, 0.9},
		Visible: true,
		OnPress: onPress,
	}
}

// Contains reports whether (x, y) hits the visible button.
func (b *Button) Contains(x, y float64) bool {
	return b.Visible && b.Bounds.Contains(x, y)
}

// PointerDown runs OnPress.
func (b *Button) PointerDown(PointerContext) {
	if b.OnPress != nil {
		b.OnPress()
	}
}

// Draw renders the button onto dst.
func (b *Button) Draw(dst *ebiten.Image) {
	if !b.Visible {
		return
	}
	fillRect(dst, b.Bounds, b.Color)
	tx := b.Bounds.X + (b.Bounds.Width-float64(len(b.Label)*debugCharWidth))/2
	ty := b.Bounds.Y + (b.Bounds.Height-debugLineHeight)/2
	ebitenutil.DebugPrintAt(dst, b.Label, int(tx), int(ty))
}

// wrapText splits s into lines of at most cols characters, breaking at
// spaces. Words longer than cols are split.
func wrapText(s string, cols int) []string {
	if cols <= 0 {
		return []string{s}
	}
	var lines []string
	var cur strings.Builder
	n := 0 // runes in cur
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		n = 0
	}
	for _, word := range strings.Fields(s) {
		r := []rune(word)
		for len(r) > cols {
			if n > 0 {
				flush()
			}
			lines = append(lines, string(r[:cols]))
			r = r[cols:]
		}
		if n > 0 && n+1+len(r) > cols {
			flush()
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(string(r))
		n += len(r)
	}
	if n > 0 {
		flush()
	}
	return lines
}
