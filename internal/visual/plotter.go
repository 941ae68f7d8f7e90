package visual

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ChocolateDave/interaction-devkit/internal/maps"
)

// RenderLayerPNG saves a static figure of the layer's geometry: lanelet
// polygons filled lightly, boundary and stop-line ways drawn as lines.
func RenderLayerPNG(path string, layer *maps.Layer) error {
	p := plot.New()
	p.Title.Text = "map layer"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	for _, lanelet := range layer.Lanelets() {
		ring := lanelet.ToGeometry()[0]
		xys := make(plotter.XYs, 0, len(ring))
		for _, pt := range ring {
			xys = append(xys, plotter.XY{X: pt[0], Y: pt[1]})
		}
		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return fmt.Errorf("lanelet %d polygon: %w", lanelet.ID(), err)
		}
		poly.Color = color.NRGBA{R: 160, G: 160, B: 160, A: 60}
		poly.LineStyle.Color = color.NRGBA{A: 0}
		p.Add(poly)
	}

	for _, way := range layer.Ways() {
		xys := make(plotter.XYs, 0, way.Len())
		for _, pt := range way.ToGeometry() {
			xys = append(xys, plotter.XY{X: pt[0], Y: pt[1]})
		}
		if len(xys) < 2 {
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("way %d line: %w", way.ID(), err)
		}
		line.Width = vg.Points(1)
		if way.Type() == maps.WayStopLine {
			line.Color = color.NRGBA{R: 200, A: 255}
		} else {
			line.Color = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
		}
		p.Add(line)
	}

	if err := p.Save(10*vg.Inch, 10*vg.Inch, path); err != nil {
		return fmt.Errorf("save layer figure: %w", err)
	}
	return nil
}
