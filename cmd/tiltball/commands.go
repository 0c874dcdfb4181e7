package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/tiltball/internal/config"
	"github.com/san-kum/tiltball/internal/engine"
	"github.com/san-kum/tiltball/internal/gui"
	"github.com/san-kum/tiltball/internal/logging"
	"github.com/san-kum/tiltball/internal/metrics"
	"github.com/san-kum/tiltball/internal/render"
	"github.com/san-kum/tiltball/internal/sensor"
	"github.com/san-kum/tiltball/internal/storage"
	"github.com/san-kum/tiltball/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer func() { sensor.Close(src) }()
	guard, _ := src.(*sensor.Guard)

	var renderer engine.Renderer
	if watch {
		src = sensor.NewPaced(src, time.Duration(cfg.Sensor.PeriodMs)*time.Millisecond)

		term := render.NewTerminal(os.Stdout, cols, rows, cfg.Run.FPS, render.ThemeByName(themeName))
		defer term.Close()
		renderer = term
	}

	sim := engine.New(engine.NewSession(cfg.Params()), renderer, logger.Named("engine"))
	for _, m := range metrics.Default() {
		sim.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s source...\n", cfg.Sensor.Source)
	start := time.Now()

	result, err := sim.Run(ctx, src, engine.Config{
		Width:      cfg.Viewport.Width,
		Height:     cfg.Viewport.Height,
		MaxSamples: cfg.Run.Samples,
		KeepFrames: true,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Source:   cfg.Sensor.Source,
		Preset:   preset,
		Seed:     cfg.Sensor.Seed,
		PeriodMs: cfg.Sensor.PeriodMs,
		Width:    cfg.Viewport.Width,
		Height:   cfg.Viewport.Height,
		Params:   cfg.Params(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", result.SamplesTaken)
	fmt.Printf("bounces: %d\n", result.Bounces)
	fmt.Printf("final position: %s\n", result.Final.Position)
	if guard != nil && guard.Dropped() > 0 {
		fmt.Printf("dropped samples: %d\n", guard.Dropped())
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

// runLive opens the terminal view. Without --source or --replay the tilt
// comes from the keyboard.
func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("source") && !cmd.Flags().Changed("replay") {
		cfg.Sensor.Source = "manual"
	}
	// The keys drive a bare manual source; the view finds it by type.
	if cfg.Sensor.Source == "manual" {
		cfg.Sensor.Guard = false
	}

	// The bubbletea screen owns the terminal, so logs would garble it.
	logger = logging.Nop()

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer sensor.Close(src)

	return tui.Run(tui.Options{
		Session: engine.NewSession(cfg.Params()),
		Source:  src,
		Period:  time.Duration(cfg.Sensor.PeriodMs) * time.Millisecond,
		Theme:   render.ThemeByName(themeName),
		Metrics: metrics.Default(),
		Log:     logger,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(gui.Options{
		Session: engine.NewSession(cfg.Params()),
		Width:   int(cfg.Viewport.Width),
		Height:  int(cfg.Viewport.Height),
		FPS:     guiFPS,
		Log:     logger.Named("gui"),
	})
}

func recordSamples(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer sensor.Close(src)

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rec, err := sensor.NewRecorder(f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := sensor.Record(ctx, src, rec, cfg.Run.Samples); err != nil {
		return err
	}
	logger.Info("samples recorded", zap.String("path", args[0]), zap.Int("count", rec.Count()))
	fmt.Printf("wrote %d samples to %s\n", rec.Count(), args[0])
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tPRESET\tTIME\tSAMPLES\tBOUNCES\tVIEWPORT")

	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%gx%g\n",
			run.ID,
			run.Source,
			p,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			run.Bounces,
			run.Width,
			run.Height,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("source: %s\n", meta.Source)
	fmt.Printf("samples: %d\n\n", len(frames))

	for _, graph := range render.PlotRun(frames, plotWidth, plotHeight) {
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if !metaOnly {
		return st.ExportJSON(os.Stdout, args[0])
	}

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	svg := render.TrajectorySVG(frames, meta.Bounds(), meta.Params.Radius, render.ThemeByName(themeName))
	if outPath == "" {
		_, err = fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tAMPLITUDE\tFREQ\tNOISE\tBIAS")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t(%.1f, %.1f)\n",
			name,
			c.Sensor.Amplitude,
			c.Sensor.Frequency,
			c.Sensor.Noise,
			c.Sensor.BiasX,
			c.Sensor.BiasY,
		)
	}
	return w.Flush()
}
