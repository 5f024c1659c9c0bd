package correlation

import (
	"log/slog"
	"math"
	"sort"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// Align inner-joins daily sentiment with daily returns on calendar date. Dates
// present on only one side are dropped, and so are joined rows whose sentiment
// or return is missing or not finite. A date repeated on either side is an error.
// Samples come back in ascending date order.
func Align(daily []datamodels.DailySentimentRow, returns []datamodels.DailyReturnRow) ([]datamodels.AlignedSample, error) {
	returnsByDate := make(map[datamodels.Date]*float64, len(returns))
	for _, row := range returns {
		if _, ok := returnsByDate[row.Date]; ok {
			return nil, errors.Wrapf(errors.ErrDuplicateDate, "return series repeats %s", row.Date)
		}
		returnsByDate[row.Date] = row.DailyReturn
	}

	seen := make(map[datamodels.Date]bool, len(daily))
	samples := make([]datamodels.AlignedSample, 0)
	dropped := 0
	for _, row := range daily {
		if seen[row.Date] {
			return nil, errors.Wrapf(errors.ErrDuplicateDate, "sentiment series repeats %s", row.Date)
		}
		seen[row.Date] = true

		dailyReturn, ok := returnsByDate[row.Date]
		if !ok {
			continue
		}
		if dailyReturn == nil || !isFinite(*dailyReturn) || !isFinite(row.AvgSentiment) {
			dropped++
			continue
		}
		samples = append(samples, datamodels.AlignedSample{
			Date:          row.Date,
			AvgSentiment:  row.AvgSentiment,
			HeadlineCount: row.HeadlineCount,
			DailyReturn:   *dailyReturn,
		})
	}
	if dropped > 0 {
		slog.Debug("joined dates dropped for missing values", "count", dropped)
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Date.Before(samples[j].Date)
	})
	return samples, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
