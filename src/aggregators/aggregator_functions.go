package aggregators

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"newscorr/src/utils/errors"
)

// AggregatorFunction reduces a series of values to one number.
type AggregatorFunction func(values []float64) (float64, error)

func CreateConstantValueAggregatorFunc(constantValue float64) AggregatorFunction {
	return func(values []float64) (float64, error) {
		return constantValue, nil
	}
}

func LastValueFunc(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.Wrap(errors.ErrInsufficientData, "no values to take the last of")
	}
	return values[len(values)-1], nil
}

func MeanFunc(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.Wrap(errors.ErrInsufficientData, "no values to calculate mean")
	}
	return stats.Mean(values)
}

func MaxFunc(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.Wrap(errors.ErrInsufficientData, "no values to calculate max")
	}
	return stats.Max(values)
}

func MinFunc(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.Wrap(errors.ErrInsufficientData, "no values to calculate min")
	}
	return stats.Min(values)
}

func MedianFunc(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.Wrap(errors.ErrInsufficientData, "no values to calculate median")
	}
	return stats.Median(values)
}

func SumFunc(values []float64) (float64, error) {
	return stats.Sum(values)
}

// VarianceFunc is the sample variance.
func VarianceFunc(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, errors.Wrap(errors.ErrInsufficientData, "not enough values to calculate variance")
	}
	return stats.SampleVariance(values)
}

// StandardDeviationFunc is the sample standard deviation.
func StandardDeviationFunc(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, errors.Wrap(errors.ErrInsufficientData, "not enough values to calculate standard deviation")
	}
	return stats.StandardDeviationSample(values)
}

// LinRegSlopeFunc fits the values against their index and returns the slope.
func LinRegSlopeFunc(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, errors.Wrap(errors.ErrInsufficientData, "not enough values to calculate linear regression slope")
	}
	XYs := make([]stats.Coordinate, len(values))
	for i, v := range values {
		XYs[i] = stats.Coordinate{X: float64(i), Y: v}
	}
	lr, err := stats.LinReg(XYs)
	if err != nil {
		return 0, err
	}
	// rise over run of the fitted line
	rise := lr[len(lr)-1].Y - lr[0].Y
	run := lr[len(lr)-1].X - lr[0].X
	return rise / run, nil
}

// FiniteValues drops NaN and infinite values.
func FiniteValues(values []float64) []float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}
	return finite
}

func GetAggregatorFunc(funcName string) (AggregatorFunction, error) {
	switch funcName {
	case "mean":
		return MeanFunc, nil
	case "last":
		return LastValueFunc, nil
	case "max":
		return MaxFunc, nil
	case "min":
		return MinFunc, nil
	case "sum":
		return SumFunc, nil
	case "variance":
		return VarianceFunc, nil
	case "stddev":
		return StandardDeviationFunc, nil
	case "median":
		return MedianFunc, nil
	case "lin_reg_slope":
		return LinRegSlopeFunc, nil
	default:
		return nil, errors.WrapE(errors.ErrInvalidInput, fmt.Errorf("invalid aggregator function %q", funcName))
	}
}
