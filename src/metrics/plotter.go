package metrics

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// SentimentReturnPlotter writes per-ticker PNG charts of aligned samples.
type SentimentReturnPlotter struct {
	outputDir string
	width     vg.Length
	height    vg.Length
}

func NewSentimentReturnPlotter(outputDir string) *SentimentReturnPlotter {
	return &SentimentReturnPlotter{
		outputDir: outputDir,
		width:     8 * vg.Inch,
		height:    6 * vg.Inch,
	}
}

func (p *SentimentReturnPlotter) WithSize(width, height vg.Length) *SentimentReturnPlotter {
	p.width = width
	p.height = height
	return p
}

// Plot writes <TICKER>_scatter.png and <TICKER>_series.png and returns their paths.
func (p *SentimentReturnPlotter) Plot(ticker string, samples []datamodels.AlignedSample, result *datamodels.CorrelationResult) ([]string, error) {
	if len(samples) == 0 {
		return nil, errors.Wrapf(errors.ErrInsufficientData, "no aligned samples to plot for %s", ticker)
	}
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory: %w", err)
	}
	ticker = strings.ToUpper(ticker)

	scatter, err := scatterPlot(ticker, samples, result)
	if err != nil {
		return nil, err
	}
	scatterPath := filepath.Join(p.outputDir, ticker+"_scatter.png")
	if err := scatter.Save(p.width, p.height, scatterPath); err != nil {
		return nil, errors.Wrapf(err, "saving %s", scatterPath)
	}

	seriesPath := filepath.Join(p.outputDir, ticker+"_series.png")
	if err := p.saveSeries(ticker, samples, seriesPath); err != nil {
		return nil, err
	}

	slog.Info("plots written", "ticker", ticker, "scatter", scatterPath, "series", seriesPath)
	return []string{scatterPath, seriesPath}, nil
}

func scatterPlot(ticker string, samples []datamodels.AlignedSample, result *datamodels.CorrelationResult) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = ticker + " daily sentiment vs return"
	if result != nil {
		p.Title.Text += fmt.Sprintf(" (r=%.3f, n=%d)", result.Coefficient, result.SampleCount)
	}
	p.X.Label.Text = "Average sentiment"
	p.Y.Label.Text = "Daily return"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(samples))
	series := make(stats.Series, len(samples))
	for i, sample := range samples {
		pts[i].X = sample.AvgSentiment
		pts[i].Y = sample.DailyReturn
		series[i] = stats.Coordinate{X: sample.AvgSentiment, Y: sample.DailyReturn}
	}

	points, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "creating scatter")
	}
	points.GlyphStyle.Color = plotutil.Color(0)
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(points)

	if fit := regressionLine(series); fit != nil {
		line, err := plotter.NewLine(fit)
		if err != nil {
			return nil, errors.Wrap(err, "creating regression line")
		}
		line.Color = plotutil.Color(1)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("least squares", line)
	}
	return p, nil
}

// regressionLine returns the fitted points sorted by x, or nil when no line is defined.
func regressionLine(series stats.Series) plotter.XYs {
	if len(series) < 2 {
		return nil
	}
	fitted, err := stats.LinReg(series)
	if err != nil {
		return nil
	}
	xys := make(plotter.XYs, 0, len(fitted))
	for _, c := range fitted {
		if math.IsNaN(c.Y) || math.IsInf(c.Y, 0) {
			return nil
		}
		xys = append(xys, plotter.XY{X: c.X, Y: c.Y})
	}
	sort.Slice(xys, func(i, j int) bool { return xys[i].X < xys[j].X })
	return xys
}

func (p *SentimentReturnPlotter) saveSeries(ticker string, samples []datamodels.AlignedSample, path string) error {
	sentiment := make(plotter.XYs, len(samples))
	returns := make(plotter.XYs, len(samples))
	for i, sample := range samples {
		x := float64(sample.Date.Time().Unix())
		sentiment[i] = plotter.XY{X: x, Y: sample.AvgSentiment}
		returns[i] = plotter.XY{X: x, Y: sample.DailyReturn}
	}

	plots := [][]*plot.Plot{
		{seriesPlot(ticker+" average sentiment", "Sentiment", sentiment, 0)},
		{seriesPlot(ticker+" daily return", "Return", returns, 1)},
	}
	for _, row := range plots {
		if row[0] == nil {
			return errors.Newf("cannot build series plot for %s", ticker)
		}
	}

	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(10),
		PadBottom: vg.Points(10),
		PadLeft:   vg.Points(10),
		PadRight:  vg.Points(10),
	}

	img := vgimg.New(p.width, p.height)
	dc := draw.New(img)
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func seriesPlot(title, label string, pts plotter.XYs, colorIdx int) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = label
	p.X.Tick.Marker = plot.TimeTicks{Format: time.DateOnly}
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		slog.Error("Error creating line", "title", title, "error", err)
		return nil
	}
	line.Color = plotutil.Color(colorIdx)
	points.Color = plotutil.Color(colorIdx)
	p.Add(line, points)
	return p
}
