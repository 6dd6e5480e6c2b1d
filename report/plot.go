package report

import (
	"image/color"

	"cardiobench/pkg/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var rangeBlue = color.RGBA{B: 255, A: 255}

// RangePlot draws one horizontal line per model from its minimum to
// maximum observed accuracy, with a dot at the mean and tick glyphs at
// the extremes, and writes the chart to path (format by extension).
// order fixes the row order; traces maps model name to its per-iteration
// accuracies.
func RangePlot(order []string, traces map[string][]float64, path string) error {
	if len(order) == 0 {
		return errors.NewValueError("RangePlot", "no models to plot")
	}

	p := plot.New()
	p.Title.Text = "Accuracy of Different Models"
	p.X.Label.Text = "Accuracy"
	p.Y.Label.Text = "Model"

	for i, name := range order {
		accs, ok := traces[name]
		if !ok || len(accs) == 0 {
			return errors.NewValueError("RangePlot", "empty accuracy trace for "+name)
		}

		minAcc, maxAcc, mean := summarize(accs)
		y := float64(i)

		line, err := plotter.NewLine(plotter.XYs{{X: minAcc, Y: y}, {X: maxAcc, Y: y}})
		if err != nil {
			return errors.Wrap(err, "report: range line")
		}
		line.Color = rangeBlue
		p.Add(line)

		meanDot, err := plotter.NewScatter(plotter.XYs{{X: mean, Y: y}})
		if err != nil {
			return errors.Wrap(err, "report: mean marker")
		}
		meanDot.GlyphStyle = draw.GlyphStyle{
			Shape:  draw.CircleGlyph{},
			Color:  rangeBlue,
			Radius: vg.Points(4),
		}
		p.Add(meanDot)

		ticks, err := plotter.NewScatter(plotter.XYs{{X: minAcc, Y: y}, {X: maxAcc, Y: y}})
		if err != nil {
			return errors.Wrap(err, "report: extreme markers")
		}
		ticks.GlyphStyle = draw.GlyphStyle{
			Shape:  draw.PlusGlyph{},
			Color:  rangeBlue,
			Radius: vg.Points(5),
		}
		p.Add(ticks)
	}

	p.NominalY(order...)
	p.Add(plotter.NewGrid())

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrap(err, "report: save plot")
	}
	return nil
}

// summarize returns the min, max and mean of a non-empty trace.
func summarize(accs []float64) (minAcc, maxAcc, mean float64) {
	minAcc, maxAcc = accs[0], accs[0]
	sum := 0.0
	for _, a := range accs {
		if a < minAcc {
			minAcc = a
		}
		if a > maxAcc {
			maxAcc = a
		}
		sum += a
	}
	return minAcc, maxAcc, sum / float64(len(accs))
}
