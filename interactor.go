package boneview

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNilCamera is returned by NewInteractor when no camera is configured.
var ErrNilCamera = errors.New("boneview: interactor needs a camera")

// FocusPolicy decides what a mesh click does while a camera focus tween is in
// flight.
type FocusPolicy uint8

const (
	// FocusRetarget starts a new tween from the camera's current pose.
	FocusRetarget FocusPolicy = iota
	// FocusIgnore drops mesh clicks until the current tween completes.
	FocusIgnore
)

// InteractorOptions tunes selection, hover and focus behavior.
type InteractorOptions struct {
	HighlightColor     Color
	HighlightIntensity float64
	HoverColor         Color
	HoverIntensity     float64

	// HoverPreview enables the hover tint on pointer move.
	HoverPreview bool

	// DoubleClickWindow is the longest gap between two background clicks
	// that still counts as a double-click. The bound is inclusive.
	DoubleClickWindow time.Duration

	FocusDuration    float32 // seconds
	RotationDuration float32 // seconds
	Easing           ease.TweenFunc

	// Epsilon is the convergence distance of the focus tween.
	Epsilon float64

	// DefaultCameraOffset is used for bones whose metadata has no offset.
	// It is scaled by the length of the bone's bounding box diagonal.
	DefaultCameraOffset r3.Vec

	FocusPolicy FocusPolicy

	// IsolateSelection fades every other mesh to IsolatedOpacity.
	IsolateSelection bool
	IsolatedOpacity  float64

	// Now returns the current time. Tests inject a fake clock.
	Now func() time.Time

	Logger *zerolog.Logger
	Sink   EventSink
}

// DefaultInteractorOptions returns the stock interaction settings.
func DefaultInteractorOptions() InteractorOptions {
	return InteractorOptions{
		HighlightColor:      ColorFromHex(0xff8800),
		HighlightIntensity:  0.6,
		HoverColor:          ColorFromHex(0x333333),
		HoverIntensity:      1,
		HoverPreview:        true,
		DoubleClickWindow:   300 * time.Millisecond,
		FocusDuration:       1,
		RotationDuration:    1,
		Easing:              ease.InOutCubic,
		Epsilon:             DefaultFocusEpsilon,
		DefaultCameraOffset: r3.Vec{X: 0, Y: 1, Z: 2.5},
		FocusPolicy:         FocusRetarget,
		IsolatedOpacity:     0.15,
		Now:                 time.Now,
	}
}

// InteractorConfig wires an Interactor to its collaborators.
type InteractorConfig struct {
	Camera *Camera

	// Surface, when set, gets pointer listeners that Cleanup removes.
	Surface *Surface

	// Meshes are the pickable meshes. When nil, the meshes of Root are used
	// as they are at each pick.
	Meshes []*BoneMesh

	Catalog Catalog

	// Root is rotated for bones whose metadata has a RootRotation.
	Root *Model

	// OnSelect is called synchronously on every selection change.
	OnSelect func(name string, meta BoneMetadata)

	// OnReset is called after every ResetSelection, including the one a
	// background double-click triggers.
	OnReset func()

	// Options defaults to DefaultInteractorOptions().
	Options *InteractorOptions
}

// Interactor is the bone selection and camera focus controller. It owns all
// selection, hover and animation state; nothing is shared between instances.
type Interactor struct {
	camera   *Camera
	meshes   []*BoneMesh
	catalog  Catalog
	root     *Model
	picker   *Picker
	onSelect func(string, BoneMetadata)
	onReset  func()
	opts     InteractorOptions
	log      zerolog.Logger

	selected *BoneMesh
	hovered  *BoneMesh

	// originals holds each tinted mesh's material from before the tint.
	originals map[uint32]*Material

	focus    *CameraTween
	rotation *RotationTween

	lastBackground time.Time

	initialPos      r3.Vec
	initialTarget   r3.Vec
	initialRotation float64

	handles []CallbackHandle
	closed  bool
}

// NewInteractor creates an interactor and, when cfg.Surface is set, registers
// its pointer listeners. The camera pose and root rotation at this point are
// what ResetSelection returns to.
func NewInteractor(cfg InteractorConfig) (*Interactor, error) {
	if cfg.Camera == nil {
		return nil, ErrNilCamera
	}
	opts := DefaultInteractorOptions()
	if cfg.Options != nil {
		opts = *cfg.Options
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Easing == nil {
		opts.Easing = ease.InOutCubic
	}

	picker := NewPicker(cfg.Camera, cfg.Meshes)
	if cfg.Meshes == nil && cfg.Root != nil {
		picker = NewModelPicker(cfg.Camera, cfg.Root)
	}

	it := &Interactor{
		camera:        cfg.Camera,
		meshes:        cfg.Meshes,
		catalog:       cfg.Catalog,
		root:          cfg.Root,
		picker:        picker,
		onSelect:      cfg.OnSelect,
		onReset:       cfg.OnReset,
		opts:          opts,
		log:           loggerOrNop(opts.Logger),
		originals:     make(map[uint32]*Material),
		initialPos:    cfg.Camera.Position,
		initialTarget: cfg.Camera.Target,
	}
	if cfg.Root != nil {
		it.initialRotation = cfg.Root.RotationY
	}

	if s := cfg.Surface; s != nil {
		it.handles = append(it.handles,
			s.OnPointerDown(func(ctx PointerContext) {
				if ctx.Button == MouseButtonLeft {
					it.OnPrimaryClick(ctx.X, ctx.Y)
				}
			}),
			s.OnPointerMove(func(ctx PointerContext) {
				it.OnPointerMove(ctx.X, ctx.Y)
			}),
			s.OnPointerLeave(func(PointerContext) {
				it.OnPointerLeave()
			}),
		)
	}
	return it, nil
}

// Pick returns the nearest visible, pickable mesh under screen point (x, y),
// or nil.
func (it *Interactor) Pick(x, y float64) *BoneMesh {
	return it.picker.Pick(x, y)
}

// OnPrimaryClick handles a primary button press at (x, y). A mesh hit
// selects it; clicking the selection again does nothing. A background hit
// arms the double-click detector, and a second background hit within
// DoubleClickWindow resets the view.
func (it *Interactor) OnPrimaryClick(x, y float64) {
	if it.closed {
		return
	}
	hit := it.Pick(x, y)
	if hit == nil {
		it.backgroundClick()
		return
	}
	it.lastBackground = time.Time{}
	if hit == it.selected {
		return
	}
	if it.opts.FocusPolicy == FocusIgnore && it.Animating() {
		it.log.Debug().Str("bone", hit.Name).Msg("click ignored during focus")
		return
	}
	it.selectMesh(hit)
}

// Select selects the first mesh with the given canonical name, as if it had
// been clicked, so FocusIgnore applies to it too. It reports whether such a
// mesh exists.
func (it *Interactor) Select(name string) bool {
	if it.closed {
		return false
	}
	for _, m := range it.pickable() {
		if m.Name != name {
			continue
		}
		switch {
		case m == it.selected:
		case it.opts.FocusPolicy == FocusIgnore && it.Animating():
			it.log.Debug().Str("bone", name).Msg("select ignored during focus")
		default:
			it.selectMesh(m)
		}
		return true
	}
	return false
}

// pickable returns the meshes the interactor selects from.
func (it *Interactor) pickable() []*BoneMesh {
	if it.meshes == nil && it.root != nil {
		return it.root.Meshes()
	}
	return it.meshes
}

func (it *Interactor) backgroundClick() {
	now := it.opts.Now()
	if !it.lastBackground.IsZero() && now.Sub(it.lastBackground) <= it.opts.DoubleClickWindow {
		it.lastBackground = time.Time{}
		it.log.Debug().Msg("background double-click")
		it.ResetSelection()
		return
	}
	it.lastBackground = now
}

func (it *Interactor) selectMesh(m *BoneMesh) {
	if it.selected != nil {
		it.restore(it.selected)
	}
	if it.hovered == m {
		it.restore(m)
		it.hovered = nil
	}

	it.selected = m
	orig := it.capture(m)
	m.Material = orig.Tinted(it.opts.HighlightColor, it.opts.HighlightIntensity)
	it.applyIsolation()

	meta := it.catalog.Lookup(m.Name)
	it.log.Debug().Str("bone", m.Name).Uint32("mesh", m.ID).Msg("bone selected")
	if it.onSelect != nil {
		it.onSelect(m.Name, meta)
	}
	if it.opts.Sink != nil {
		it.opts.Sink.EmitSelection(SelectionEvent{
			Kind: SelectionSelected, MeshID: m.ID, Name: m.Name, Metadata: meta,
		})
	}

	it.startRotation(meta)
	pos, look := it.focusTargetAt(m, meta, it.goalRotation())
	it.focus = TweenCamera(it.camera, pos, look, it.opts.FocusDuration, it.opts.Easing)
	it.focus.Epsilon = it.opts.Epsilon
}

func (it *Interactor) startRotation(meta BoneMetadata) {
	if it.root == nil {
		return
	}
	to := it.initialRotation
	if meta.RootRotation != nil {
		to = mgl64.DegToRad(*meta.RootRotation)
	}
	if it.rotation == nil && it.root.RotationY == to {
		return
	}
	it.rotation = TweenRootRotation(it.root, to, it.opts.RotationDuration, it.opts.Easing)
}

// goalRotation is the root rotation once the current rotation tween ends.
func (it *Interactor) goalRotation() float64 {
	if it.rotation != nil {
		return it.rotation.Goal()
	}
	if it.root != nil {
		return it.root.RotationY
	}
	return 0
}

// OnPointerMove updates the hover preview for a pointer at (x, y). Hovering
// the selected mesh or empty space clears the hover tint.
func (it *Interactor) OnPointerMove(x, y float64) {
	if it.closed || !it.opts.HoverPreview {
		return
	}
	hit := it.Pick(x, y)
	if hit == it.selected {
		hit = nil
	}
	if hit == it.hovered {
		return
	}
	it.clearHover()
	if hit == nil {
		return
	}
	orig := it.capture(hit)
	hit.Material = orig.Tinted(it.opts.HoverColor, it.opts.HoverIntensity)
	it.hovered = hit
}

// OnPointerLeave clears the hover tint.
func (it *Interactor) OnPointerLeave() {
	if it.closed {
		return
	}
	it.clearHover()
}

func (it *Interactor) clearHover() {
	if it.hovered == nil {
		return
	}
	it.restore(it.hovered)
	it.hovered = nil
}

// capture records m's current material as its original unless one is
// already held, and returns the original.
func (it *Interactor) capture(m *BoneMesh) *Material {
	if orig, ok := it.originals[m.ID]; ok {
		return orig
	}
	it.originals[m.ID] = m.Material
	return m.Material
}

// restore puts back m's original material and forgets it.
func (it *Interactor) restore(m *BoneMesh) {
	if orig, ok := it.originals[m.ID]; ok {
		m.Material = orig
		delete(it.originals, m.ID)
	}
}

func (it *Interactor) applyIsolation() {
	if !it.opts.IsolateSelection {
		return
	}
	for _, m := range it.pickable() {
		if m == it.selected {
			m.Opacity = 1
		} else {
			m.Opacity = it.opts.IsolatedOpacity
		}
	}
}

func (it *Interactor) clearIsolation() {
	if !it.opts.IsolateSelection {
		return
	}
	for _, m := range it.pickable() {
		m.Opacity = 1
	}
}

// ResetSelection clears selection and hover, restores their materials, stops
// any animation, and snaps the camera and root rotation back to their initial
// values. Safe to call with nothing selected.
func (it *Interactor) ResetSelection() {
	if it.closed {
		return
	}
	it.clearHover()
	if it.selected != nil {
		it.restore(it.selected)
		it.selected = nil
	}
	it.clearIsolation()

	it.focus = nil
	it.rotation = nil
	it.camera.Position = it.initialPos
	it.camera.Target = it.initialTarget
	if it.root != nil {
		it.root.RotationY = it.initialRotation
	}
	it.lastBackground = time.Time{}

	it.log.Debug().Msg("selection reset")
	if it.opts.Sink != nil {
		it.opts.Sink.EmitSelection(SelectionEvent{Kind: SelectionReset})
	}
	if it.onReset != nil {
		it.onReset()
	}
}

// Tick advances the focus and rotation tweens by dt seconds. Once both have
// completed, Tick leaves the camera and root untouched.
func (it *Interactor) Tick(dt float32) {
	if it.rotation != nil {
		it.rotation.Update(dt)
		if it.rotation.Done {
			it.rotation = nil
		}
	}
	if it.focus != nil {
		it.focus.Update(dt)
		if it.focus.Done {
			it.focus = nil
		}
	}
}

// Cleanup removes every surface listener the interactor registered. Later
// calls, and later direct event calls, are ignored.
func (it *Interactor) Cleanup() {
	if it.closed {
		return
	}
	it.closed = true
	for _, h := range it.handles {
		h.Remove()
	}
	it.handles = nil
}

// Selected returns the selected mesh, or nil.
func (it *Interactor) Selected() *BoneMesh { return it.selected }

// Hovered returns the hover-tinted mesh, or nil.
func (it *Interactor) Hovered() *BoneMesh { return it.hovered }

// Animating reports whether a focus or rotation tween is in flight.
func (it *Interactor) Animating() bool {
	return it.focus != nil || it.rotation != nil
}

// FocusTarget returns the camera position and look-at point that frame m:
// look at the center C of m's world bounding box from C + offset*|size|,
// with the root at the rotation it is heading to.
func (it *Interactor) FocusTarget(m *BoneMesh) (pos, look r3.Vec) {
	return it.focusTargetAt(m, it.catalog.Lookup(m.Name), it.goalRotation())
}

func (it *Interactor) focusTargetAt(m *BoneMesh, meta BoneMetadata, rotY float64) (pos, look r3.Vec) {
	box := m.boundsAt(rotY)
	center := boxCenter(box)
	offset := it.opts.DefaultCameraOffset
	if meta.CameraOffset != nil {
		offset = *meta.CameraOffset
	}
	return r3.Add(center, r3.Scale(r3.Norm(boxSize(box)), offset)), center
}

// InitialPose returns the camera pose ResetSelection returns to.
func (it *Interactor) InitialPose() (pos, look r3.Vec) {
	return it.initialPos, it.initialTarget
}
