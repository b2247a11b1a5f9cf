package rebound

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type YearlyTicks struct{}

func loadPlotFont(configuration Configuration) {
	ttfData := readFile(configuration.FontPath)
	openTypeFont, err := opentype.Parse(ttfData)
	if err != nil {
		log.Fatal("OpenType failed to parse TTF file:", err)
	}
	defaultFont := font.Font{
		Typeface: font.Typeface(configuration.FontName),
	}
	fontFace := []font.Face{
		{
			Font: defaultFont,
			Face: openTypeFont,
		},
	}
	font.DefaultCache.Add(fontFace)
	plot.DefaultFont = defaultFont
}

func plotNav(samples []navSample, path string) {
	plotterData := make(plotter.XYs, len(samples))
	for i, sample := range samples {
		plotterData[i].X = timeToFloat(sample.date)
		plotterData[i].Y = sample.value
	}
	plotLine("NAV", plotterData, path)
}

func plotSignalsOnPrice(points []pricePoint, signals []time.Time, path string) {
	plotterData := make(plotter.XYs, len(points))
	signalSet := map[time.Time]struct{}{}
	for _, date := range signals {
		signalSet[date] = struct{}{}
	}
	signalData := plotter.XYs{}
	for i, point := range points {
		plotterData[i].X = timeToFloat(point.date)
		plotterData[i].Y = point.close
		if _, exists := signalSet[point.date]; exists {
			signalData = append(signalData, plotterData[i])
		}
	}
	p := newDatePlot("Close")
	line, err := plotter.NewLine(plotterData)
	if err != nil {
		log.Fatal("Failed to create line plot:", err)
	}
	line.LineStyle.Color = color.RGBA{B: 255, A: 255}
	p.Add(line)
	if len(signalData) > 0 {
		scatter, err := plotter.NewScatter(signalData)
		if err != nil {
			log.Fatal("Failed to create scatter plot:", err)
		}
		scatter.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
	}
	savePlot(p, 12 * vg.Inch, 4 * vg.Inch, path)
}

func plotSignalYears(years []int, counts []int, path string) {
	labels := make([]string, len(years))
	values := make(plotter.Values, len(years))
	for i, year := range years {
		labels[i] = fmt.Sprintf("%d", year)
		values[i] = float64(counts[i])
	}
	plotBars(labels, values, "# Signals", path)
}

func plotGroupExcess(summary []*float64, path string) {
	labels := make([]string, len(summary))
	values := make(plotter.Values, len(summary))
	for k, excess := range summary {
		labels[k] = fmt.Sprintf("G%d", k + 1)
		if excess != nil {
			values[k] = *excess
		} else {
			values[k] = 0.0
		}
	}
	plotBars(labels, values, "Mean excess return", path)
}

func plotLine(yLabel string, plotterData plotter.XYs, path string) {
	p := newDatePlot(yLabel)
	line, err := plotter.NewLine(plotterData)
	if err != nil {
		log.Fatal("Failed to create line plot:", err)
	}
	line.LineStyle.Color = color.RGBA{R: 255, A: 255}
	p.Add(line)
	savePlot(p, 12 * vg.Inch, 8 * vg.Inch, path)
}

func plotBars(labels []string, values plotter.Values, yLabel string, path string) {
	p := plot.New()
	p.Y.Label.Text = yLabel
	p.NominalX(labels...)
	bars, err := plotter.NewBarChart(values, vg.Points(25))
	if err != nil {
		log.Fatal("Failed to create bar chart:", err)
	}
	bars.LineStyle.Width = 0
	bars.Color = color.RGBA{R: 255, A: 255}
	p.Add(bars)
	savePlot(p, 8 * vg.Inch, 3 * vg.Inch, path)
}

func newDatePlot(yLabel string) *plot.Plot {
	p := plot.New()
	p.X.Label.Text = "Date"
	p.Y.Label.Text = yLabel
	p.X.Padding = -1
	p.Y.Padding = -1
	grid := plotter.NewGrid()
	dashes := []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal.Dashes = dashes
	grid.Vertical.Dashes = dashes
	p.Add(grid)
	p.X.Tick.Marker = YearlyTicks{}
	return p
}

func savePlot(p *plot.Plot, width, height vg.Length, path string) {
	err := p.Save(width, height, path)
	if err != nil {
		log.Fatalf("Failed to save plot (%s): %v", path, err)
	}
}

func (YearlyTicks) Ticks(min, max float64) []plot.Tick {
	timeMin := time.Unix(int64(min), 0).UTC()
	timeMax := time.Unix(int64(max), 0).UTC()
	year := timeMin.Year()
	ticks := []plot.Tick{}
	for y := year + 1; y <= timeMax.Year(); y += 2 {
		tickTime := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		x := timeToFloat(tickTime)
		label := tickTime.Format("2006")
		ticks = append(ticks, plot.Tick{Value: x, Label: label})
	}
	return ticks
}

func timeToFloat(t time.Time) float64 {
	return float64(t.Unix())
}
