package main

import (
	"fmt"
	"os"

	"github.com/san-kum/tiltball/internal/config"
	"github.com/san-kum/tiltball/internal/logging"
	"github.com/san-kum/tiltball/internal/render"
	"github.com/san-kum/tiltball/internal/sensor"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	logJSON    bool
	configFile string
	preset     string

	source      string
	replayPath  string
	samples     int
	seed        int64
	width       float64
	height      float64
	radius      float64
	scale       float64
	restitution float64
	noGuard     bool

	watch     bool
	cols      int
	rows      int
	runFPS    int
	guiFPS    int
	themeName string

	outPath    string
	plotWidth  int
	plotHeight int
	metaOnly   bool

	logger = logging.Nop()
)

// defaultGUIFPS is the frame rate of the desktop window unless --fps is set.
const defaultGUIFPS = 60

func main() {
	err := newRootCmd().Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd registers the commands and flags. With no subcommand the root
// command opens the live terminal view.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tiltball",
		Short:         "a ball rolling around a tilted screen",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format := logging.FormatConsole
			if logJSON {
				format = logging.FormatJSON
			}
			l, err := logging.New(logLevel, format)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".tiltball", "data directory")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as json")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSourceFlags(runCmd)
	addBallFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "play the run back in the terminal at the sampling rate")
	runCmd.Flags().IntVar(&cols, "cols", 40, "terminal columns for --watch")
	runCmd.Flags().IntVar(&rows, "rows", 20, "terminal rows for --watch")
	runCmd.Flags().IntVar(&runFPS, "fps", config.DefaultFPS, "frame rate for --watch")
	runCmd.Flags().StringVar(&themeName, "theme", render.ThemeClassic.Name, "colour theme")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "roll the ball in the terminal (arrow keys tilt)",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&source, "source", "manual", "sensor source (manual, synthetic, replay)")
	liveCmd.Flags().StringVar(&replayPath, "replay", "", "sample file for the replay source")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "seed for the synthetic source")
	addBallFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", render.ThemeClassic.Name, "colour theme")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "roll the ball in a desktop window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addBallFlags(guiCmd)
	guiCmd.Flags().IntVar(&guiFPS, "fps", defaultGUIFPS, "frame rate")

	recordCmd := &cobra.Command{
		Use:   "record [file]",
		Short: "write sensor samples to a csv file for replay",
		Args:  cobra.ExactArgs(1),
		RunE:  recordSamples,
	}
	addSourceFlags(recordCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot position and speed of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&metaOnly, "meta", false, "export metadata only")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "draw the trajectory of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().StringVar(&themeName, "theme", render.ThemeClassic.Name, "colour theme")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "list sensor sources",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range sensor.NewRegistry().Names() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, recordCmd, listCmd, plotCmd, exportCmd, svgCmd, presetsCmd, sourcesCmd)
	return rootCmd
}

func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&source, "source", config.DefaultSource, "sensor source (synthetic, replay)")
	f.StringVar(&replayPath, "replay", "", "sample file for the replay source")
	f.IntVar(&samples, "samples", config.DefaultSamples, "number of samples, 0 for all")
	f.Int64Var(&seed, "seed", 1, "seed for the synthetic source")
	f.BoolVar(&noGuard, "no-guard", false, "pass non-finite and out-of-order samples through")
}

func addBallFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&width, "width", config.DefaultWidth, "viewport width")
	f.Float64Var(&height, "height", config.DefaultHeight, "viewport height")
	f.Float64Var(&radius, "radius", 50, "ball radius")
	f.Float64Var(&scale, "scale", 1000, "acceleration scale")
	f.Float64Var(&restitution, "restitution", 1/1.5, "fraction of speed kept on a bounce")
}

// loadConfig resolves defaults, then the preset, then the config file,
// then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := config.Overlay(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Sensor.Source = source
	}
	if flags.Changed("replay") {
		cfg.Sensor.Path = replayPath
		if !flags.Changed("source") {
			cfg.Sensor.Source = "replay"
		}
	}
	if flags.Changed("samples") {
		cfg.Run.Samples = samples
	}
	if flags.Changed("seed") {
		cfg.Sensor.Seed = seed
	}
	if flags.Changed("no-guard") {
		cfg.Sensor.Guard = !noGuard
	}
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("radius") {
		cfg.Ball.Radius = radius
	}
	if flags.Changed("scale") {
		cfg.Ball.AccelerationScale = scale
	}
	if flags.Changed("restitution") {
		cfg.Ball.Restitution = restitution
	}
	if flags.Changed("fps") && cmd.Name() == "run" {
		cfg.Run.FPS = runFPS
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSource builds the configured sensor source, wrapped in a guard
// unless the config turns it off.
func openSource(cfg *config.Config) (sensor.Source, error) {
	src, err := sensor.NewRegistry().Get(cfg.Sensor.Source, cfg.SensorOptions())
	if err != nil {
		return nil, err
	}
	if cfg.Sensor.Guard {
		return sensor.NewGuard(src, logger.Named("sensor")), nil
	}
	return src, nil
}
