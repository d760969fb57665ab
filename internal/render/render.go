// Package render draws the fixed set of chart figures with gonum/plot. All
// layout parameters come from an explicit Style so repeat runs on the same
// input map data to pixels identically.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"urbanstats/internal/aggregate"
	"urbanstats/internal/bootstrap"
	"urbanstats/internal/dataset"
)

// Style is the run-scoped chart configuration: category colors, figure
// dimensions, and the fixed axis limits of each panel.
type Style struct {
	Width  vg.Length
	Height vg.Length

	// PeriodColors maps period index to draw color; the first four entries
	// serve the decade-intervals, the fifth the 2010 decade on the density
	// panel.
	PeriodColors []color.RGBA

	RatesYLim      [2]float64
	DensityYLim    [2]float64
	LogRatesYLim   [2]float64
	LogDensityYLim [2]float64
}

// DefaultStyle returns the published figure layout.
func DefaultStyle() Style {
	return Style{
		Width:  8 * vg.Inch,
		Height: 3 * vg.Inch,
		PeriodColors: []color.RGBA{
			{R: 0, G: 0, B: 153, A: 255},
			{R: 153, G: 0, B: 0, A: 255},
			{R: 0, G: 153, B: 0, A: 255},
			{R: 153, G: 153, B: 0, A: 255},
			{R: 153, G: 153, B: 153, A: 255},
		},
		RatesYLim:      [2]float64{0, 12},
		DensityYLim:    [2]float64{1, 60},
		LogRatesYLim:   [2]float64{0.1, 12},
		LogDensityYLim: [2]float64{1, 60},
	}
}

// RatesFigure draws, per region, box plots of the bootstrapped urban
// expansion rate for each decade-interval, with markers at the plain group
// means of the population change rate. Each box is annotated with the
// number of locations that fed its bootstrap.
func (s Style) RatesFigure(path string, class dataset.SizeClass, expansion map[aggregate.Key]bootstrap.Distribution, counts map[aggregate.Key]int, popMeans map[aggregate.Key]float64, logScale bool) error {
	ylim := s.RatesYLim
	if logScale {
		ylim = s.LogRatesYLim
	}
	title := fmt.Sprintf("Urban expansion and population change, %s agglomerations", class)
	return s.panel(path, title, "percent change per year", dataset.Intervals, class, expansion, counts, popMeans, ylim, logScale)
}

// DensityFigure draws, per region, box plots of the bootstrapped population
// density for each decade, each annotated with its location count.
func (s Style) DensityFigure(path string, class dataset.SizeClass, density map[aggregate.Key]bootstrap.Distribution, counts map[aggregate.Key]int, logScale bool) error {
	ylim := s.DensityYLim
	if logScale {
		ylim = s.LogDensityYLim
	}
	periods := aggregate.PopDensity.Periods()
	title := fmt.Sprintf("Population density, %s agglomerations", class)
	return s.panel(path, title, "10^3 people per km^2", periods, class, density, counts, nil, ylim, logScale)
}

func (s Style) panel(path, title, yLabel string, periods []string, class dataset.SizeClass, dists map[aggregate.Key]bootstrap.Distribution, counts map[aggregate.Key]int, means map[aggregate.Key]float64, ylim [2]float64, logScale bool) error {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(11)
	p.Y.Label.Text = yLabel

	if logScale {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	stride := len(periods) + 1
	for m, region := range dataset.RegionOrder {
		base := float64(m * stride)
		for j, period := range periods {
			key := aggregate.Key{Region: region, Class: class, Period: period}
			x := base + float64(j) + 1

			if dist, ok := dists[key]; ok {
				values := s.plotValues(dist, ylim, logScale)
				box, err := plotter.NewBoxPlot(vg.Points(7), x, values)
				if err != nil {
					return fmt.Errorf("box plot %s: %w", key, err)
				}
				box.FillColor = translucent(s.periodColor(j))
				box.BoxStyle.Color = color.RGBA{R: 153, G: 153, B: 153, A: 255}
				box.BoxStyle.Width = vg.Points(0.5)
				box.WhiskerStyle.Width = vg.Points(0.5)
				p.Add(box)

				if n, ok := counts[key]; ok {
					label, err := countLabel(x, values, n, ylim)
					if err != nil {
						return fmt.Errorf("count label %s: %w", key, err)
					}
					p.Add(label)
				}
			}

			if mean, ok := means[key]; ok {
				marker, err := plotter.NewScatter(plotter.XYs{{X: x, Y: clamp(mean, ylim, logScale)}})
				if err != nil {
					return fmt.Errorf("mean marker %s: %w", key, err)
				}
				marker.GlyphStyle.Color = s.periodColor(j)
				marker.GlyphStyle.Radius = vg.Points(3)
				marker.GlyphStyle.Shape = draw.PlusGlyph{}
				p.Add(marker)
			}
		}
	}

	p.Add(plotter.NewGrid())

	p.X.Min = 0
	p.X.Max = float64(len(dataset.RegionOrder) * stride)
	p.Y.Min = ylim[0]
	p.Y.Max = ylim[1]

	ticks := make([]plot.Tick, len(dataset.RegionOrder))
	for m, region := range dataset.RegionOrder {
		center := float64(m*stride) + 1 + float64(len(periods)-1)/2
		ticks[m] = plot.Tick{Value: center, Label: dataset.RegionLabels[region]}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.Font.Size = vg.Points(7)

	for j, period := range periods {
		thumb, err := plotter.NewScatter(plotter.XYs{})
		if err != nil {
			return fmt.Errorf("legend entry %s: %w", period, err)
		}
		thumb.GlyphStyle.Color = s.periodColor(j)
		thumb.GlyphStyle.Radius = vg.Points(3)
		thumb.GlyphStyle.Shape = draw.BoxGlyph{}
		p.Legend.Add(period, thumb)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = vg.Points(6)

	if err := p.Save(s.Width, s.Height, path); err != nil {
		return fmt.Errorf("saving figure %s: %w", path, err)
	}
	return nil
}

func (s Style) periodColor(j int) color.RGBA {
	if j < len(s.PeriodColors) {
		return s.PeriodColors[j]
	}
	return color.RGBA{A: 255}
}

// plotValues prepares a distribution for drawing. Log panels clip values at
// the axis floor; a log scale cannot represent non-positive data.
func (s Style) plotValues(dist bootstrap.Distribution, ylim [2]float64, logScale bool) plotter.Values {
	values := make(plotter.Values, len(dist))
	for i, v := range dist {
		values[i] = clamp(v, ylim, logScale)
	}
	return values
}

// countLabel marks the number of contributing locations just above a box.
func countLabel(x float64, values plotter.Values, n int, ylim [2]float64) (*plotter.Labels, error) {
	top := values[0]
	for _, v := range values {
		if v > top {
			top = v
		}
	}
	y := top + (ylim[1]-ylim[0])*0.02
	if y > ylim[1] {
		y = ylim[1]
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: x, Y: y}},
		Labels: []string{strconv.Itoa(n)},
	})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(5)
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	return labels, nil
}

func clamp(v float64, ylim [2]float64, logScale bool) float64 {
	if logScale && v < ylim[0] {
		return ylim[0]
	}
	return v
}

func translucent(c color.RGBA) color.RGBA {
	c.A = 70
	return c
}
