// Package config loads boneview settings with viper from defaults, an
// optional config file and BONEVIEW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/phanxgames/boneview"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r3"
)

// EnvPrefix prefixes every environment variable override, e.g.
// BONEVIEW_WINDOW_WIDTH.
const EnvPrefix = "BONEVIEW"

// WindowConfig holds window and display settings.
type WindowConfig struct {
	Title   string `mapstructure:"title"`
	Width   int    `mapstructure:"width"`
	Height  int    `mapstructure:"height"`
	ShowFPS bool   `mapstructure:"showFPS"`
	Debug   bool   `mapstructure:"debug"`
}

// InteractionConfig holds selection and focus settings.
type InteractionConfig struct {
	HighlightColor     string        `mapstructure:"highlightColor"`
	HighlightIntensity float64       `mapstructure:"highlightIntensity"`
	HoverColor         string        `mapstructure:"hoverColor"`
	HoverIntensity     float64       `mapstructure:"hoverIntensity"`
	HoverPreview       bool          `mapstructure:"hoverPreview"`
	DoubleClickWindow  time.Duration `mapstructure:"doubleClickWindow"`
	FocusDuration      time.Duration `mapstructure:"focusDuration"`
	RotationDuration   time.Duration `mapstructure:"rotationDuration"`
	Epsilon            float64       `mapstructure:"epsilon"`
	CameraOffset       []float64     `mapstructure:"cameraOffset"`
	FocusPolicy        string        `mapstructure:"focusPolicy"`
	Isolate            bool          `mapstructure:"isolate"`
	IsolatedOpacity    float64       `mapstructure:"isolatedOpacity"`
}

// Config is the complete boneview configuration.
type Config struct {
	LogLevel      string            `mapstructure:"logLevel"`
	LogFile       string            `mapstructure:"logFile"`
	Metadata      string            `mapstructure:"metadata"`
	Layout        string            `mapstructure:"layout"`
	Script        string            `mapstructure:"script"`
	ScreenshotDir string            `mapstructure:"screenshotDir"`
	PanelWidth    float64           `mapstructure:"panelWidth"`
	Window        WindowConfig      `mapstructure:"window"`
	Interaction   InteractionConfig `mapstructure:"interaction"`
}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// setDefaults registers the default value of every key. Environment
// overrides only apply to keys viper knows about, so every field needs one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile", "")
	v.SetDefault("metadata", "")
	v.SetDefault("layout", "")
	v.SetDefault("script", "")
	v.SetDefault("screenshotDir", "screenshots")
	v.SetDefault("panelWidth", 320.0)

	v.SetDefault("window.title", "boneview")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.showFPS", false)
	v.SetDefault("window.debug", false)

	v.SetDefault("interaction.highlightColor", "#ff8800")
	v.SetDefault("interaction.highlightIntensity", 0.6)
	v.SetDefault("interaction.hoverColor", "#333333")
	v.SetDefault("interaction.hoverIntensity", 1.0)
	v.SetDefault("interaction.hoverPreview", true)
	v.SetDefault("interaction.doubleClickWindow", "300ms")
	v.SetDefault("interaction.focusDuration", "1s")
	v.SetDefault("interaction.rotationDuration", "1s")
	v.SetDefault("interaction.epsilon", boneview.DefaultFocusEpsilon)
	v.SetDefault("interaction.cameraOffset", []float64{0, 1, 2.5})
	v.SetDefault("interaction.focusPolicy", "retarget")
	v.SetDefault("interaction.isolate", false)
	v.SetDefault("interaction.isolatedOpacity", 0.15)
}

// Load reads configuration. path names a JSON, YAML or TOML file; an empty
// path uses defaults and the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if len(c.Interaction.CameraOffset) != 3 {
		return fmt.Errorf("%w: interaction.cameraOffset needs 3 components, got %d",
			ErrInvalid, len(c.Interaction.CameraOffset))
	}
	if c.Interaction.DoubleClickWindow < 0 {
		return fmt.Errorf("%w: interaction.doubleClickWindow is negative", ErrInvalid)
	}
	if _, err := parsePolicy(c.Interaction.FocusPolicy); err != nil {
		return err
	}
	return nil
}

func parsePolicy(s string) (boneview.FocusPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "retarget":
		return boneview.FocusRetarget, nil
	case "ignore":
		return boneview.FocusIgnore, nil
	default:
		return 0, fmt.Errorf("%w: interaction.focusPolicy %q (want retarget or ignore)", ErrInvalid, s)
	}
}

// InteractorOptions converts the interaction section. Logger, Sink and Now
// are left for the caller.
func (c *Config) InteractorOptions() (boneview.InteractorOptions, error) {
	ic := c.Interaction
	opts := boneview.DefaultInteractorOptions()

	hl, err := boneview.ParseColor(ic.HighlightColor)
	if err != nil {
		return opts, fmt.Errorf("%w: interaction.highlightColor: %v", ErrInvalid, err)
	}
	hv, err := boneview.ParseColor(ic.HoverColor)
	if err != nil {
		return opts, fmt.Errorf("%w: interaction.hoverColor: %v", ErrInvalid, err)
	}
	policy, err := parsePolicy(ic.FocusPolicy)
	if err != nil {
		return opts, err
	}
	if len(ic.CameraOffset) != 3 {
		return opts, fmt.Errorf("%w: interaction.cameraOffset needs 3 components", ErrInvalid)
	}

	opts.HighlightColor = hl
	opts.HighlightIntensity = ic.HighlightIntensity
	opts.HoverColor = hv
	opts.HoverIntensity = ic.HoverIntensity
	opts.HoverPreview = ic.HoverPreview
	opts.DoubleClickWindow = ic.DoubleClickWindow
	opts.FocusDuration = float32(ic.FocusDuration.Seconds())
	opts.RotationDuration = float32(ic.RotationDuration.Seconds())
	opts.Epsilon = ic.Epsilon
	opts.DefaultCameraOffset = r3.Vec{X: ic.CameraOffset[0], Y: ic.CameraOffset[1], Z: ic.CameraOffset[2]}
	opts.FocusPolicy = policy
	opts.IsolateSelection = ic.Isolate
	opts.IsolatedOpacity = ic.IsolatedOpacity
	return opts, nil
}

// ViewerConfig converts the configuration for boneview.NewViewer.
func (c *Config) ViewerConfig() (boneview.ViewerConfig, error) {
	opts, err := c.InteractorOptions()
	if err != nil {
		return boneview.ViewerConfig{}, err
	}
	return boneview.ViewerConfig{
		Width:         c.Window.Width,
		Height:        c.Window.Height,
		PanelWidth:    c.PanelWidth,
		Interaction:   &opts,
		ScreenshotDir: c.ScreenshotDir,
		ShowFPS:       c.Window.ShowFPS,
		Debug:         c.Window.Debug,
	}, nil
}
