package render

import (
	"fmt"
	"strings"

	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/engine"
)

// TrajectorySVG draws the viewport, the path of the ball centre, every
// bounce point and the ball at its final position. Coordinates are viewport
// units, so the SVG keeps the viewport's aspect.
func TrajectorySVG(frames []engine.Frame, b ball.Bounds, radius float64, theme Theme) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, b.Width, b.Height, b.Width, b.Height, theme.Field)

	pts := make([]ball.Vec2, 0, len(frames))
	for _, f := range frames {
		if f.Position.IsFinite() {
			pts = append(pts, f.Position)
		}
	}

	if len(pts) >= 2 {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" stroke-opacity="0.6" d="M`, theme.Border)
		for i, p := range pts {
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", p.X, p.Y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", theme.Muted)
	for _, f := range frames {
		if f.Collision != ball.NoCollision && f.Position.IsFinite() {
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\"/>\n", f.Position.X, f.Position.Y)
		}
	}
	sb.WriteString("</g>\n")

	if len(pts) > 0 {
		last := pts[len(pts)-1]
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", last.X, last.Y, radius, theme.Ball)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
