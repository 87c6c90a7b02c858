package report

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go.viam.com/iso17123/measurement"
	"go.viam.com/iso17123/utils"
)

var (
	barColor    = color.RGBA{R: 68, G: 114, B: 196, A: 255}
	maxDevColor = color.RGBA{R: 200, A: 255}
)

// WritePlot draws the deltas of r in millimetres as a bar chart with the allowed maximum
// deviation marked on both sides of zero. The image format follows the extension of path.
func WritePlot(path string, r *Record) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("ISO 17123-9 %s test procedure", r.Procedure)
	p.Y.Label.Text = "delta [mm]"

	values := make(plotter.Values, measurement.NumPairs)
	labels := make([]string, measurement.NumPairs)
	for _, pair := range measurement.Pairs {
		values[pair] = utils.MillimetresFromMetres(r.Deltas[pair])
		labels[pair] = pair.String()
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "failed to create bar chart")
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(plotter.NewGrid(), bars)
	p.NominalX(labels...)

	maxDev := utils.MillimetresFromMetres(r.MaxDeviation)
	for i, y := range []float64{maxDev, -maxDev} {
		line, err := plotter.NewLine(plotter.XYs{
			{X: -0.5, Y: y},
			{X: float64(measurement.NumPairs) - 0.5, Y: y},
		})
		if err != nil {
			return errors.Wrap(err, "failed to create max deviation line")
		}
		line.LineStyle.Color = maxDevColor
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
		if i == 0 {
			p.Legend.Add(fmt.Sprintf("max deviation +/-%smm", Millimetres(r.MaxDeviation)), line)
		}
	}

	if err := p.Save(16*vg.Centimeter, 10*vg.Centimeter, path); err != nil {
		return errors.Wrapf(err, "failed to save plot %q", path)
	}
	return nil
}
