package boneview

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"
)

// ViewerConfig configures NewViewer.
type ViewerConfig struct {
	Width, Height int

	// PanelWidth is the width of the info panel on the right edge.
	PanelWidth float64

	// Interaction defaults to DefaultInteractorOptions(). Its Logger and Sink
	// are overridden by the fields below when those are set.
	Interaction *InteractorOptions

	// OnSelect is called after the panel has been updated for a selection.
	OnSelect func(name string, meta BoneMetadata)

	ScreenshotDir string
	ShowFPS       bool

	// CameraPosition and CameraTarget set the initial view, which a reset
	// returns to. A zero CameraPosition keeps DefaultCameraPosition.
	CameraPosition r3.Vec
	CameraTarget   r3.Vec

	// Debug logs per-frame draw statistics at debug level.
	Debug bool

	Logger *zerolog.Logger
	Sink   EventSink
}

// DefaultViewerConfig returns a 1280x720 viewer configuration.
func DefaultViewerConfig() ViewerConfig {
	return ViewerConfig{
		Width:         1280,
		Height:        720,
		PanelWidth:    320,
		ScreenshotDir: "screenshots",
	}
}

// Viewer is an ebiten.Game showing a skeleton model. It owns the camera,
// orbit controls, pointer surface, info panel and interactor.
type Viewer struct {
	Model      *Model
	Catalog    Catalog
	Camera     *Camera
	Orbit      *OrbitControls
	Surface    *Surface
	Panel      *InfoPanel
	ResetBtn   *Button
	Interactor *Interactor
	Renderer   *Renderer

	// OnUpdate is called once per tick with the fixed timestep in seconds.
	OnUpdate func(dt float64)

	ScreenshotDir string
	ShowFPS       bool

	screenshotQueue []string
	testRunner      *TestRunner
	fps             fpsOverlay

	debug      bool
	log        zerolog.Logger
	panelWidth float64
	width      int
	height     int
	lastStats  RenderStats
	closed     bool
}

// NewViewer wires a viewer around model. A nil model, or one without meshes,
// fails with ErrEmptyModel.
func NewViewer(model *Model, catalog Catalog, cfg ViewerConfig) (*Viewer, error) {
	if model == nil || len(model.Meshes()) == 0 {
		return nil, fmt.Errorf("new viewer: %w", ErrEmptyModel)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("new viewer: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.PanelWidth <= 0 {
		cfg.PanelWidth = DefaultViewerConfig().PanelWidth
	}

	v := &Viewer{
		Model:         model,
		Catalog:       catalog,
		Renderer:      NewRenderer(),
		ScreenshotDir: cfg.ScreenshotDir,
		ShowFPS:       cfg.ShowFPS,
		debug:         cfg.Debug,
		log:           loggerOrNop(cfg.Logger),
		panelWidth:    cfg.PanelWidth,
	}
	vp := Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	v.Camera = NewCamera(vp)
	if cfg.CameraPosition != (r3.Vec{}) {
		v.Camera.Position = cfg.CameraPosition
	}
	v.Camera.LookAt(cfg.CameraTarget)
	v.Orbit = NewOrbitControls(v.Camera)
	v.Surface = NewSurface(vp)
	v.Panel = NewInfoPanel(Rect{})
	v.ResetBtn = NewButton(Rect{}, "Reset", v.Reset)
	v.layoutOverlays(cfg.Width, cfg.Height)
	v.Surface.AddOverlay(v.Panel)
	v.Surface.AddOverlay(v.ResetBtn)
	v.Orbit.Attach(v.Surface)

	opts := DefaultInteractorOptions()
	if cfg.Interaction != nil {
		opts = *cfg.Interaction
	}
	if cfg.Logger != nil {
		opts.Logger = cfg.Logger
	}
	if cfg.Sink != nil {
		opts.Sink = cfg.Sink
	}

	onSelect := cfg.OnSelect
	it, err := NewInteractor(InteractorConfig{
		Camera:  v.Camera,
		Surface: v.Surface,
		Catalog: catalog,
		Root:    model,
		OnSelect: func(name string, meta BoneMetadata) {
			v.Panel.ShowBone(name, meta)
			if onSelect != nil {
				onSelect(name, meta)
			}
		},
		OnReset: func() {
			v.Orbit.Stop()
			v.Panel.Close()
		},
		Options: &opts,
	})
	if err != nil {
		return nil, fmt.Errorf("new viewer: %w", err)
	}
	v.Interactor = it
	v.width, v.height = cfg.Width, cfg.Height

	v.log.Info().
		Str("model", model.Name).
		Int("meshes", len(model.Meshes())).
		Int("triangles", model.TriangleCount()).
		Int("catalog", len(catalog)).
		Msg("viewer ready")
	return v, nil
}

// layoutOverlays positions the panel and reset button for a w x h screen.
func (v *Viewer) layoutOverlays(w, h int) {
	const margin = 10
	fw, fh := float64(w), float64(h)
	v.Panel.Bounds = Rect{
		X:      fw - v.panelWidth - margin,
		Y:      margin,
		Width:  v.panelWidth,
		Height: fh * 0.6,
	}
	v.ResetBtn.Bounds = Rect{X: margin, Y: fh - 38, Width: 90, Height: 28}
}

// Reset clears the selection, returns the camera to its initial pose and
// closes the info panel. A background double-click has the same effect.
func (v *Viewer) Reset() {
	v.Interactor.ResetSelection()
}

// SetTestRunner attaches a scripted test runner. Its step runs at the start
// of every Update.
func (v *Viewer) SetTestRunner(r *TestRunner) {
	v.testRunner = r
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	if v.testRunner != nil {
		v.testRunner.step(v)
	}
	v.Surface.Process()
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		v.Reset()
	}
	v.advance(1.0 / float64(ebiten.TPS()))
	return nil
}

// advance runs one fixed step of orbit damping and animation.
func (v *Viewer) advance(dt float64) {
	v.Orbit.Enabled = !v.Interactor.Animating()
	v.Orbit.Update()
	v.Interactor.Tick(float32(dt))
	if v.ShowFPS {
		v.fps.update(dt)
	}
	if v.OnUpdate != nil {
		v.OnUpdate(dt)
	}
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if v.debug {
		t0 = time.Now()
	}

	v.lastStats = v.Renderer.Draw(screen, v.Camera, v.Model.Meshes())
	v.Panel.Draw(screen)
	v.ResetBtn.Draw(screen)
	if v.ShowFPS {
		v.fps.draw(screen)
	}

	if v.debug {
		v.debugLog(v.lastStats, time.Since(t0))
	}
	v.flushScreenshots(screen)
}

// Layout implements ebiten.Game. A size change resizes the camera viewport,
// the pointer surface and the overlays.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.width || outsideHeight != v.height {
		v.width, v.height = outsideWidth, outsideHeight
		vp := Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
		v.Camera.Viewport = vp
		v.Surface.Bounds = vp
		v.layoutOverlays(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Stats returns the statistics of the last Draw.
func (v *Viewer) Stats() RenderStats {
	return v.lastStats
}

// Close detaches all input listeners. Safe to call more than once.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.Interactor.Cleanup()
	v.Orbit.Detach()
	v.Surface.RemoveOverlay(v.Panel)
	v.Surface.RemoveOverlay(v.ResetBtn)
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// Run opens a window and runs v until the window closes.
func Run(v *Viewer, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = v.width, v.height
	}
	if cfg.Title == "" {
		cfg.Title = "boneview"
	}
	if cfg.ShowFPS {
		v.ShowFPS = true
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer v.Close()
	if err := ebiten.RunGame(v); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
