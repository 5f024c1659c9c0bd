package correlation

import (
	"math"

	"github.com/montanaflynn/stats"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// Correlate returns the Pearson coefficient between daily sentiment and daily
// return over the samples. Fewer than two samples, or a series with no
// variation, is ErrInsufficientData; no coefficient is produced for it.
func Correlate(samples []datamodels.AlignedSample) (*datamodels.CorrelationResult, error) {
	if len(samples) == 0 {
		return nil, errors.Wrap(errors.ErrInsufficientData, "aligned sample is empty")
	}
	if len(samples) == 1 {
		return nil, errors.Wrap(errors.ErrInsufficientData, "aligned sample has a single date")
	}

	sentiments := make([]float64, len(samples))
	returns := make([]float64, len(samples))
	window := datamodels.SampleWindow{Start: samples[0].Date, End: samples[0].Date}
	for i, sample := range samples {
		sentiments[i] = sample.AvgSentiment
		returns[i] = sample.DailyReturn
		if sample.Date.Before(window.Start) {
			window.Start = sample.Date
		}
		if sample.Date.After(window.End) {
			window.End = sample.Date
		}
	}

	if isConstant(sentiments) {
		return nil, errors.Wrap(errors.ErrInsufficientData, "sentiment series is constant")
	}
	if isConstant(returns) {
		return nil, errors.Wrap(errors.ErrInsufficientData, "return series is constant")
	}

	coefficient, err := Pearson(sentiments, returns)
	if err != nil {
		return nil, err
	}

	return &datamodels.CorrelationResult{
		Coefficient: coefficient,
		Window:      window,
		SampleCount: len(samples),
	}, nil
}

// Pearson is the correlation coefficient of two equal-length series, clamped to [-1, 1].
// Each series is divided by its largest magnitude first; the coefficient is
// scale invariant and tiny or huge values then keep a non-zero spread.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "series lengths differ: %d and %d", len(x), len(y))
	}
	if len(x) < 2 || isConstant(x) || isConstant(y) {
		return 0, errors.Wrap(errors.ErrInsufficientData, "correlation undefined for the series")
	}
	x, y = rescale(x), rescale(y)

	// stats.Correlation answers 0 for a zero deviation, which is not a coefficient
	for _, series := range [][]float64{x, y} {
		sdev, err := stats.StandardDeviationPopulation(series)
		if err != nil {
			return 0, errors.WrapE(errors.ErrInsufficientData, err)
		}
		if sdev == 0 || math.IsNaN(sdev) {
			return 0, errors.Wrap(errors.ErrInsufficientData, "series has no measurable variation")
		}
	}

	coefficient, err := stats.Correlation(x, y)
	if err != nil {
		return 0, errors.WrapE(errors.ErrInsufficientData, err)
	}
	if math.IsNaN(coefficient) {
		return 0, errors.Wrap(errors.ErrInsufficientData, "correlation is not a number")
	}
	return math.Max(-1, math.Min(1, coefficient)), nil
}

func rescale(values []float64) []float64 {
	maxAbs := 0.0
	for _, v := range values {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	if maxAbs == 0 || math.IsInf(maxAbs, 0) {
		return values
	}
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v / maxAbs
	}
	return scaled
}

func isConstant(values []float64) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
