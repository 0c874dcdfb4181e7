package render

import (
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/tiltball/internal/engine"
)

// Plot draws a single series as an ASCII line chart.
func Plot(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Series extracts the plottable quantities of a run.
type Series struct {
	X, Y, Speed []float64
}

func SeriesOf(frames []engine.Frame) Series {
	s := Series{
		X:     make([]float64, len(frames)),
		Y:     make([]float64, len(frames)),
		Speed: make([]float64, len(frames)),
	}
	for i, f := range frames {
		s.X[i] = f.Position.X
		s.Y[i] = f.Position.Y
		s.Speed[i] = f.Velocity.Norm()
	}
	return s
}

// PlotRun charts position and speed over a run.
func PlotRun(frames []engine.Frame, width, height int) []string {
	if len(frames) == 0 {
		return nil
	}
	s := SeriesOf(frames)
	return []string{
		Plot(s.X, "x position", width, height),
		Plot(s.Y, "y position", width, height),
		Plot(s.Speed, "speed", width, height),
	}
}
