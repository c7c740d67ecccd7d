// Package chart renders dashboard views as PNG images with gonum/plot.
package chart

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driven"
	"github.com/custodia-labs/regdash/internal/logger"
)

// Ensure Renderer implements the interface.
var _ driven.ChartRenderer = (*Renderer)(nil)

// Output file names.
const (
	FileIntensityBar = "intensity_bar.png"
	FileHeatmap      = "intensity_heatmap.png"
	FileTrend        = "trend.png"
	FileForecast     = "forecast.png"
)

// Renderer writes PNG charts for a dashboard.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a renderer producing images of the default size.
func NewRenderer() *Renderer {
	return &Renderer{width: 10 * vg.Inch, height: 6 * vg.Inch}
}

// Render writes one PNG per non-empty view into dir and returns their paths.
// Views with no data are skipped rather than drawn as empty axes.
func (r *Renderer) Render(ctx context.Context, dash *domain.Dashboard, dir string) ([]string, error) {
	if dash.Empty() {
		logger.Debug("chart: empty dashboard, nothing to render")
		return []string{}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}

	type job struct {
		name  string
		skip  bool
		build func(*domain.Dashboard) (*plot.Plot, error)
	}
	jobs := []job{
		{FileIntensityBar, dash.Grid.Empty(), intensityBars},
		{FileHeatmap, dash.Grid.Empty(), intensityHeatmap},
		{FileTrend, len(dash.Trend) == 0, trendLines},
		{FileForecast, len(dash.Forecasts) == 0, forecastLines},
	}

	files := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		if j.skip {
			continue
		}
		p, err := j.build(dash)
		if err != nil {
			return files, fmt.Errorf("%s: %w", j.name, err)
		}
		path := filepath.Join(dir, j.name)
		if err := p.Save(r.width, r.height, path); err != nil {
			return files, fmt.Errorf("saving %s: %w", j.name, err)
		}
		logger.Debug("chart: wrote %s", path)
		files = append(files, path)
	}
	return files, nil
}

// intensityBars draws mean intensity per domain, one bar group per sector.
func intensityBars(dash *domain.Dashboard) (*plot.Plot, error) {
	grid := dash.Grid
	p := plot.New()
	p.Title.Text = "Mean intensity by domain"
	p.Y.Label.Text = "Mean intensity score"
	p.Y.Min = 0

	width := vg.Points(60) / vg.Length(len(grid.Sectors))
	for j, sector := range grid.Sectors {
		values := make(plotter.Values, len(grid.Domains))
		for i := range grid.Domains {
			values[i] = grid.Values[i][j]
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(j)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * vg.Length(float64(j)-float64(len(grid.Sectors)-1)/2)
		p.Add(bars)
		p.Legend.Add(sector, bars)
	}

	p.Legend.Top = true
	p.NominalX(grid.Domains...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	return p, nil
}

// gridXYZ adapts an IntensityGrid to plotter.GridXYZ with sectors as columns.
type gridXYZ struct {
	grid domain.IntensityGrid
}

func (g gridXYZ) Dims() (c, r int)   { return len(g.grid.Sectors), len(g.grid.Domains) }
func (g gridXYZ) Z(c, r int) float64 { return g.grid.Values[r][c] }
func (g gridXYZ) X(c int) float64    { return float64(c) }
func (g gridXYZ) Y(r int) float64    { return float64(r) }

// intensityHeatmap draws the domain × sector grid with the value in each cell.
func intensityHeatmap(dash *domain.Dashboard) (*plot.Plot, error) {
	grid := gridXYZ{grid: dash.Grid}

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.Min = 0
	hm.Max = math.Max(gridMax(dash.Grid), 1)

	p := plot.New()
	p.Title.Text = "Intensity heatmap"
	p.Add(hm)

	cols, rows := grid.Dims()
	labels := plotter.XYLabels{
		XYs:    make([]plotter.XY, 0, cols*rows),
		Labels: make([]string, 0, cols*rows),
	}
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			labels.XYs = append(labels.XYs, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			labels.Labels = append(labels.Labels, strconv.FormatFloat(grid.Z(c, r), 'f', 2, 64))
		}
	}
	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = draw.XCenter
		l.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(l)

	p.NominalX(dash.Grid.Sectors...)
	p.NominalY(dash.Grid.Domains...)
	return p, nil
}

func gridMax(g domain.IntensityGrid) float64 {
	m := 0.0
	for _, row := range g.Values {
		for _, v := range row {
			m = math.Max(m, v)
		}
	}
	return m
}

// trendSeries splits the trend into per-sector point lists in sector order.
func trendSeries(trend []domain.TrendPoint) ([]string, map[string]plotter.XYs) {
	order := make([]string, 0)
	series := make(map[string]plotter.XYs)
	for _, pt := range trend {
		if _, ok := series[pt.Sector]; !ok {
			order = append(order, pt.Sector)
		}
		series[pt.Sector] = append(series[pt.Sector], plotter.XY{X: float64(pt.Year), Y: float64(pt.Count)})
	}
	return order, series
}

// trendLines draws regulation counts per year, one line per sector.
func trendLines(dash *domain.Dashboard) (*plot.Plot, error) {
	p := newTrendPlot("Regulations per year")
	sectors, series := trendSeries(dash.Trend)
	for i, sector := range sectors {
		if err := addHistory(p, sector, series[sector], plotutil.Color(i)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// forecastLines draws each sector's history with its projection dashed.
func forecastLines(dash *domain.Dashboard) (*plot.Plot, error) {
	p := newTrendPlot("Linear forecast")
	_, series := trendSeries(dash.Trend)

	for i, f := range dash.Forecasts {
		c := plotutil.Color(i)
		if err := addHistory(p, f.Sector, series[f.Sector], c); err != nil {
			return nil, err
		}

		projected := make(plotter.XYs, 0, len(f.Points)+1)
		projected = append(projected, plotter.XY{X: float64(f.LastYear), Y: float64(f.LastCount)})
		for _, fp := range f.Points {
			projected = append(projected, plotter.XY{X: float64(fp.Year), Y: fp.Value})
		}
		line, err := plotter.NewLine(projected)
		if err != nil {
			return nil, err
		}
		line.Color = c
		line.Width = vg.Points(1.5)
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(line)
		p.Legend.Add(f.Sector+" (forecast)", line)
	}
	return p, nil
}

func newTrendPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Regulations"
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return p
}

func addHistory(p *plot.Plot, sector string, pts plotter.XYs, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(2)
	points.Color = c
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	p.Legend.Add(sector, line, points)
	return nil
}
