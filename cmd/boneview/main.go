// Command boneview opens an interactive 3D skeleton viewer.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/phanxgames/boneview"
	"github.com/phanxgames/boneview/ecs"
	"github.com/phanxgames/boneview/internal/config"
	"github.com/phanxgames/boneview/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"
)

// flags holds command-line overrides of the loaded configuration.
type flags struct {
	config   string
	metadata string
	layout   string
	logLevel string
	script   string
	showFPS  bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "boneview",
		Short: "Interactive 3D skeleton viewer",
		Long: `boneview shows a skeleton whose bones can be clicked to highlight them
and read their description. Drag to orbit, scroll to zoom, double-click the
background or press Escape to reset the view.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, f)
			if err != nil {
				return err
			}
			return run(cfg, log)
		},
	}
	cmd.SetOut(out)
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "Path to a config file (JSON, YAML or TOML)")
	pf.StringVar(&f.metadata, "metadata", "", "Path to bone metadata JSON (default: built-in)")
	pf.StringVar(&f.layout, "layout", "", "Path to a skeleton layout JSON (default: built-in)")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().StringVar(&f.script, "script", "", "Path to a JSON test script to play")
	cmd.Flags().BoolVar(&f.showFPS, "fps", false, "Show the FPS overlay")

	bonesCmd := &cobra.Command{
		Use:   "bones",
		Short: "List skeleton meshes, their bone names and metadata coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, f)
			if err != nil {
				return err
			}
			model, err := loadModel(cfg.Layout)
			if err != nil {
				return err
			}
			return listBones(cmd.OutOrStdout(), model, loadCatalog(cfg.Metadata, log))
		},
	}
	cmd.AddCommand(bonesCmd)
	return cmd
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, f flags) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if cmd.Flags().Changed("metadata") {
		cfg.Metadata = f.metadata
	}
	if cmd.Flags().Changed("layout") {
		cfg.Layout = f.layout
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("script") {
		cfg.Script = f.script
	}
	if cmd.Flags().Changed("fps") {
		cfg.Window.ShowFPS = f.showFPS
	}

	opts := logging.Options{Level: cfg.LogLevel, Out: cmd.ErrOrStderr()}
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, zerolog.Nop(), fmt.Errorf("open log file: %w", err)
		}
		opts.File = file
	}
	log, err := logging.New(opts)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

// run opens the viewer window.
func run(cfg *config.Config, log zerolog.Logger) error {
	model, err := loadModel(cfg.Layout)
	if err != nil {
		return err
	}
	catalog := loadCatalog(cfg.Metadata, log)

	vc, err := cfg.ViewerConfig()
	if err != nil {
		return err
	}
	world := donburi.NewWorld()
	vc.Logger = &log
	vc.Sink = ecs.NewDonburiSink(world)
	ecs.SelectionEventType.Subscribe(world, func(w donburi.World, e boneview.SelectionEvent) {
		ev := log.Info().Str("event", e.Kind.String())
		if e.Name != "" {
			ev = ev.Str("bone", e.Name).Str("title", e.Metadata.DisplayName)
		}
		ev.Msg("selection")
	})

	v, err := boneview.NewViewer(model, catalog, vc)
	if err != nil {
		return err
	}
	v.OnUpdate = func(float64) {
		ecs.SelectionEventType.ProcessEvents(world)
	}

	if cfg.Script != "" {
		data, err := os.ReadFile(cfg.Script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := boneview.LoadTestScript(data)
		if err != nil {
			return err
		}
		v.SetTestRunner(runner)
	}

	return boneview.Run(v, boneview.RunConfig{
		Title:   cfg.Window.Title,
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		ShowFPS: cfg.Window.ShowFPS,
	})
}

// listBones writes one row per mesh and a coverage summary.
func listBones(w io.Writer, model *boneview.Model, catalog boneview.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MESH\tBONE\tMETADATA")

	bones := make(map[string]bool)
	for _, m := range model.Meshes() {
		_, ok := catalog.Get(m.Name)
		status := "missing"
		if ok {
			status = "yes"
		}
		bones[m.Name] = ok
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.SourceName, m.Name, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var missing []string
	covered := 0
	for name, ok := range bones {
		if ok {
			covered++
		} else {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	fmt.Fprintf(w, "\n%d meshes, %d bones, %d with metadata\n", len(model.Meshes()), len(bones), covered)
	if len(missing) > 0 {
		fmt.Fprintf(w, "missing metadata: %v\n", missing)
	}
	return nil
}
