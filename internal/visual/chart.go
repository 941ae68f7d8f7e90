// Package visual renders map layers and scenario cases for eyeballing:
// interactive HTML charts via go-echarts and static PNG figures via
// gonum/plot.
package visual

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ChocolateDave/interaction-devkit/internal/maps"
	"github.com/ChocolateDave/interaction-devkit/internal/tracks"
)

// RenderCaseHTML writes an HTML scatter chart of one case's trajectories
// over the map's boundary ways.
func RenderCaseHTML(w io.Writer, layer *maps.Layer, c *tracks.Case) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s case %d", c.Location(), c.CaseID()),
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s case %d", c.Location(), c.CaseID()),
			Subtitle: fmt.Sprintf("agents=%d predict=%d", c.NumAgents(), len(c.TracksToPredict())),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)

	if layer != nil {
		boundary := make([]opts.ScatterData, 0)
		for _, way := range layer.Ways() {
			if !way.Type().IsLaneBoundary() {
				continue
			}
			for _, p := range way.ToGeometry() {
				boundary = append(boundary, opts.ScatterData{Value: []interface{}{p[0], p[1]}})
			}
		}
		scatter.AddSeries("boundaries", boundary,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))
	}

	addPartition := func(name string, partition []*tracks.Track) {
		data := make([]opts.ScatterData, 0)
		for _, tr := range partition {
			for _, p := range tr.ToGeometry() {
				data = append(data, opts.ScatterData{Value: []interface{}{p[0], p[1]}})
			}
		}
		scatter.AddSeries(name, data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	}
	addPartition("history", c.HistoryTracks())
	addPartition("current", c.CurrentTracks())
	addPartition("futural", c.FuturalTracks())

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render case chart: %w", err)
	}
	return nil
}
