package aggregators

import (
	"log/slog"
	"sort"

	"newscorr/src/datamodels"
)

// DailySentimentAggregator groups scored headlines by calendar date and
// reduces each group's polarities and subjectivities.
type DailySentimentAggregator struct {
	sentimentFunc    AggregatorFunction
	subjectivityFunc AggregatorFunction
}

type DailySentimentAggregatorBuilder struct {
	aggregator *DailySentimentAggregator
}

func NewDailySentimentAggregatorBuilder() *DailySentimentAggregatorBuilder {
	return &DailySentimentAggregatorBuilder{
		aggregator: &DailySentimentAggregator{
			sentimentFunc:    MeanFunc,
			subjectivityFunc: MeanFunc,
		},
	}
}

func (b *DailySentimentAggregatorBuilder) WithSentimentFunc(f AggregatorFunction) *DailySentimentAggregatorBuilder {
	b.aggregator.sentimentFunc = f
	return b
}

func (b *DailySentimentAggregatorBuilder) WithSubjectivityFunc(f AggregatorFunction) *DailySentimentAggregatorBuilder {
	b.aggregator.subjectivityFunc = f
	return b
}

func (b *DailySentimentAggregatorBuilder) Build() *DailySentimentAggregator {
	return b.aggregator
}

type dailyGroup struct {
	polarities     []float64
	subjectivities []float64
}

// Aggregate returns one row per distinct date in ascending date order.
// Headlines without a valid timestamp are left out of every group.
func (a *DailySentimentAggregator) Aggregate(scored []datamodels.ScoredHeadline) []datamodels.DailySentimentRow {
	groups := make(map[datamodels.Date]*dailyGroup)
	skipped := 0
	for _, headline := range scored {
		date, ok := headline.Date()
		if !ok {
			skipped++
			continue
		}
		group, ok := groups[date]
		if !ok {
			group = &dailyGroup{}
			groups[date] = group
		}
		group.polarities = append(group.polarities, headline.Polarity)
		group.subjectivities = append(group.subjectivities, headline.Subjectivity)
	}
	if skipped > 0 {
		slog.Debug("headlines without a valid timestamp left out of daily sentiment", "count", skipped)
	}

	rows := make([]datamodels.DailySentimentRow, 0, len(groups))
	for date, group := range groups {
		rows = append(rows, datamodels.DailySentimentRow{
			Date:            date,
			AvgSentiment:    reduceOrMean(a.sentimentFunc, group.polarities, date),
			HeadlineCount:   len(group.polarities),
			AvgSubjectivity: reduceOrMean(a.subjectivityFunc, group.subjectivities, date),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

// reduceOrMean keeps every date in the output: a reducer undefined for the
// group (e.g. variance of one headline) falls back to the mean.
func reduceOrMean(reducer AggregatorFunction, values []float64, date datamodels.Date) float64 {
	value, err := reducer(values)
	if err == nil {
		return value
	}
	slog.Warn("daily reducer undefined for group, using mean", "date", date, "values", len(values), "error", err)
	mean, _ := MeanFunc(values)
	return mean
}

var defaultDailySentimentAggregator = NewDailySentimentAggregatorBuilder().Build()

// AggregateDailySentiment averages polarity and subjectivity per calendar date.
func AggregateDailySentiment(scored []datamodels.ScoredHeadline) []datamodels.DailySentimentRow {
	return defaultDailySentimentAggregator.Aggregate(scored)
}
