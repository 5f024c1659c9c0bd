package returns

import (
	"math"

	"newscorr/src/datamodels"
)

// DailyReturns computes close(t)/close(t-1) - 1 for every bar. The first row,
// rows with a missing close on either side, and rows whose prior close is zero
// carry a nil return. The output has one row per input bar.
func DailyReturns(bars []datamodels.PriceBar) []datamodels.DailyReturnRow {
	rows := make([]datamodels.DailyReturnRow, len(bars))
	for i, bar := range bars {
		rows[i] = datamodels.DailyReturnRow{Date: bar.Date}
		if i == 0 {
			continue
		}
		prev, curr := bars[i-1].Close, bar.Close
		if prev == nil || curr == nil || *prev == 0 {
			continue
		}
		r := *curr / *prev - 1
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		rows[i].DailyReturn = &r
	}
	return rows
}

// PctChange returns values[i]/values[i-1] - 1 for i >= 1. Changes from a zero
// value are NaN.
func PctChange(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}
	changes := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			changes[i-1] = math.NaN()
			continue
		}
		changes[i-1] = values[i]/values[i-1] - 1
	}
	return changes
}

// DefinedReturns collects the non-nil, finite returns in order.
func DefinedReturns(rows []datamodels.DailyReturnRow) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row.DailyReturn == nil || math.IsNaN(*row.DailyReturn) || math.IsInf(*row.DailyReturn, 0) {
			continue
		}
		values = append(values, *row.DailyReturn)
	}
	return values
}
